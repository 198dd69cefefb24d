/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package repository

import (
	"context"

	"github.com/tomoncle/rostersearch/types"
)

// CountFunc runs the total count query of a page. It is only called when the
// total cannot be derived from the content already fetched.
type CountFunc func(ctx context.Context) (int64, error)

// GetPage assembles a page from already fetched content, calling count only
// when the total is not implied by the content:
//
//   - first page shorter than the page size: total is len(content);
//   - non-empty page shorter than the page size: it is the last page, and the
//     total is offset + len(content);
//   - anything else, including an empty page past the first one: count.
//
// The second result reports whether count ran.
func GetPage[T any](ctx context.Context, content []T, req *types.PageRequest, count CountFunc) (*types.PageResult[T], bool, error) {
	total, counted, err := deriveTotal(ctx, len(content), req, count)
	if err != nil {
		return nil, counted, err
	}
	return types.NewPageResult(content, req, total), counted, nil
}

// GetCountedPage assembles a page whose total always comes from count.
func GetCountedPage[T any](ctx context.Context, content []T, req *types.PageRequest, count CountFunc) (*types.PageResult[T], error) {
	total, err := count(ctx)
	if err != nil {
		return nil, err
	}
	return types.NewPageResult(content, req, total), nil
}

func deriveTotal(ctx context.Context, n int, req *types.PageRequest, count CountFunc) (int64, bool, error) {
	offset, size := req.GetOffset(), req.GetPageSize()
	if offset == 0 {
		if n < size {
			return int64(n), false, nil
		}
	} else if n > 0 && n < size {
		return int64(offset + n), false, nil
	}
	total, err := count(ctx)
	if err != nil {
		return 0, true, err
	}
	return total, true, nil
}

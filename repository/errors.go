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
	"fmt"

	"github.com/tomoncle/rostersearch/database"
	"github.com/tomoncle/rostersearch/types"
)

// ErrInvalidPageRequest is returned before any query runs when the page index
// is negative, the page size is not positive, or the sort is not supported.
var ErrInvalidPageRequest = types.ErrInvalidPageRequest

// QueryExecutionError wraps a store failure raised by a content or count query.
// The original error stays reachable through errors.Is and errors.As.
type QueryExecutionError struct {
	Op   string
	Kind database.SQLError
	Err  error
}

func newQueryExecutionError(op string, err error) *QueryExecutionError {
	kind, _ := database.ClassifyError(err)
	return &QueryExecutionError{Op: op, Kind: kind, Err: err}
}

func (e *QueryExecutionError) Error() string {
	return fmt.Sprintf("%s query failed (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *QueryExecutionError) Unwrap() error {
	return e.Err
}

const (
	opContent = "content"
	opCount   = "count"
)

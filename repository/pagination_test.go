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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/rostersearch/types"
)

type countStub struct {
	total int64
	err   error
	calls int
}

func (s *countStub) count(context.Context) (int64, error) {
	s.calls++
	return s.total, s.err
}

func items(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestGetPageDerivesTotal(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		size      int
		content   int
		total     int64
		wantTotal int64
		wantCount bool
	}{
		{name: "first page short", page: 0, size: 10, content: 4, total: 99, wantTotal: 4},
		{name: "first page empty", page: 0, size: 10, content: 0, total: 99, wantTotal: 0},
		{name: "first page full", page: 0, size: 2, content: 2, total: 4, wantTotal: 4, wantCount: true},
		{name: "last page short", page: 2, size: 3, content: 1, total: 99, wantTotal: 7},
		{name: "middle page full", page: 1, size: 3, content: 3, total: 10, wantTotal: 10, wantCount: true},
		{name: "empty past the end", page: 5, size: 3, content: 0, total: 4, wantTotal: 4, wantCount: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &countStub{total: tt.total}
			req := types.NewPageRequest(tt.page, tt.size)

			page, counted, err := GetPage(context.Background(), items(tt.content), req, stub.count)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, page.Total)
			assert.Equal(t, tt.wantCount, counted)
			if tt.wantCount {
				assert.Equal(t, 1, stub.calls)
			} else {
				assert.Zero(t, stub.calls)
			}
			assert.Len(t, page.Content, tt.content)
			assert.Equal(t, tt.page, page.Page)
			assert.Equal(t, tt.size, page.PageSize)
		})
	}
}

func TestGetPageCountError(t *testing.T) {
	boom := errors.New("boom")
	stub := &countStub{err: boom}

	page, counted, err := GetPage(context.Background(), items(2), types.NewPageRequest(0, 2), stub.count)
	assert.Nil(t, page)
	assert.True(t, counted)
	assert.ErrorIs(t, err, boom)
}

func TestGetCountedPageAlwaysCounts(t *testing.T) {
	stub := &countStub{total: 3}

	page, err := GetCountedPage(context.Background(), items(3), types.NewPageRequest(0, 10), stub.count)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, stub.calls)
}

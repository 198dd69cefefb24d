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

package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidPageRequest is returned for a page request that must not reach the store.
var ErrInvalidPageRequest = errors.New("invalid page request")

var validate = validator.New()

// Direction is the sort direction of an Order.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Order is a single sort key, e.g. {"age", Desc}.
type Order struct {
	Property  string    `validate:"required"`
	Direction Direction `validate:"oneof=ASC DESC"`
}

func (o Order) String() string {
	return o.Property + " " + string(o.Direction)
}

// ParseOrder parses "property" or "property,asc|desc".
func ParseOrder(s string) (Order, error) {
	prop, dir, _ := strings.Cut(strings.TrimSpace(s), ",")
	o := Order{Property: strings.TrimSpace(prop), Direction: Asc}
	switch strings.ToUpper(strings.TrimSpace(dir)) {
	case "", "ASC":
	case "DESC":
		o.Direction = Desc
	default:
		return Order{}, fmt.Errorf("%w: unknown sort direction %q", ErrInvalidPageRequest, dir)
	}
	if o.Property == "" {
		return Order{}, fmt.Errorf("%w: empty sort property", ErrInvalidPageRequest)
	}
	return o, nil
}

// PageRequest describes a zero-based page window and its ordering.
type PageRequest struct {
	page     int
	pageSize int
	orders   []Order
}

type pageParams struct {
	Page     int     `validate:"gte=0"`
	PageSize int     `validate:"gt=0"`
	Orders   []Order `validate:"dive"`
}

// NewPageRequest constructs a PageRequest. Call Validate before using it.
func NewPageRequest(page int, pageSize int, orders ...Order) *PageRequest {
	o := make([]Order, len(orders))
	copy(o, orders)
	return &PageRequest{page: page, pageSize: pageSize, orders: o}
}

func (p *PageRequest) GetPage() int {
	return p.page
}

func (p *PageRequest) GetPageSize() int {
	return p.pageSize
}

func (p *PageRequest) GetOffset() int {
	return p.page * p.pageSize
}

func (p *PageRequest) GetOrders() []Order {
	o := make([]Order, len(p.orders))
	copy(o, p.orders)
	return o
}

// Validate rejects negative pages, non-positive sizes and malformed orders.
func (p *PageRequest) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: missing page request", ErrInvalidPageRequest)
	}
	err := validate.Struct(pageParams{Page: p.page, PageSize: p.pageSize, Orders: p.orders})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPageRequest, err)
	}
	return nil
}

func (p *PageRequest) String() string {
	orders := make([]string, len(p.orders))
	for i, o := range p.orders {
		orders[i] = o.String()
	}
	return fmt.Sprintf("page=%d size=%d sort=[%s]", p.page, p.pageSize, strings.Join(orders, ", "))
}

// PageResult holds one page of content along with pagination metadata.
type PageResult[T any] struct {
	Content  []T
	Total    int64
	Page     int
	PageSize int
}

// NewPageResult assembles a page from its content, the request that produced it
// and the total element count.
func NewPageResult[T any](content []T, req *PageRequest, total int64) *PageResult[T] {
	if content == nil {
		content = make([]T, 0)
	}
	return &PageResult[T]{
		Content:  content,
		Total:    total,
		Page:     req.GetPage(),
		PageSize: req.GetPageSize(),
	}
}

func (r *PageResult[T]) NumberOfElements() int {
	return len(r.Content)
}

func (r *PageResult[T]) TotalPages() int {
	if r.PageSize < 1 {
		return 1
	}
	return int((r.Total + int64(r.PageSize) - 1) / int64(r.PageSize))
}

func (r *PageResult[T]) IsFirst() bool {
	return r.Page == 0
}

func (r *PageResult[T]) HasNext() bool {
	return r.Page+1 < r.TotalPages()
}

func (r *PageResult[T]) IsLast() bool {
	return !r.HasNext()
}

func (r *PageResult[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Content          []T   `json:"content"`
		TotalElements    int64 `json:"totalElements"`
		TotalPages       int   `json:"totalPages"`
		Number           int   `json:"number"`
		Size             int   `json:"size"`
		NumberOfElements int   `json:"numberOfElements"`
		First            bool  `json:"first"`
		Last             bool  `json:"last"`
	}{
		Content:          r.Content,
		TotalElements:    r.Total,
		TotalPages:       r.TotalPages(),
		Number:           r.Page,
		Size:             r.PageSize,
		NumberOfElements: r.NumberOfElements(),
		First:            r.IsFirst(),
		Last:             r.IsLast(),
	})
}

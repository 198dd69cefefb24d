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

// Package handler exposes the member search over HTTP with gin.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tomoncle/rostersearch/model"
	"github.com/tomoncle/rostersearch/types"
)

const maxPageSize = 1000

// MemberSearcher is the part of rostersearch.MemberService the handler needs.
type MemberSearcher interface {
	Search(ctx context.Context, criteria *types.SearchCriteria) ([]*model.MemberTeam, error)
	SearchPage(ctx context.Context, criteria *types.SearchCriteria, page *types.PageRequest, strategy types.PageStrategy) (*types.PageResult[*model.MemberTeam], error)
}

// MemberHandler serves the versioned member search endpoints.
type MemberHandler struct {
	service MemberSearcher
}

// NewMemberHandler returns a MemberHandler.
func NewMemberHandler(service MemberSearcher) *MemberHandler {
	return &MemberHandler{service: service}
}

// Register mounts:
//
//	GET /v1/members  every match, unpaged
//	GET /v2/members  page, total from a window count
//	GET /v3/members  page, count query only when needed
//	GET /v4/members  page, count query always
func (h *MemberHandler) Register(r gin.IRouter) {
	r.GET("/v1/members", h.search)
	r.GET("/v2/members", h.searchPage(types.StrategySinglePass))
	r.GET("/v3/members", h.searchPage(types.StrategyDeferredTotal))
	r.GET("/v4/members", h.searchPage(types.StrategyAlwaysCount))
}

type pageQuery struct {
	Page int      `form:"page,default=0"`
	Size int      `form:"size,default=20"`
	Sort []string `form:"sort"`
}

func (h *MemberHandler) search(c *gin.Context) {
	var criteria types.SearchCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		BadRequest(c, err)
		return
	}
	rows, err := h.service.Search(c.Request.Context(), &criteria)
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *MemberHandler) searchPage(strategy types.PageStrategy) gin.HandlerFunc {
	return func(c *gin.Context) {
		var criteria types.SearchCriteria
		if err := c.ShouldBindQuery(&criteria); err != nil {
			BadRequest(c, err)
			return
		}
		page, err := bindPageRequest(c)
		if err != nil {
			BadRequest(c, err)
			return
		}
		result, err := h.service.SearchPage(c.Request.Context(), &criteria, page, strategy)
		if err != nil {
			Error(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// bindPageRequest reads page, size and any number of sort=prop[,asc|desc]
// parameters. Sizes above maxPageSize are clamped; range checks are left to
// PageRequest.Validate.
func bindPageRequest(c *gin.Context) (*types.PageRequest, error) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return nil, err
	}
	if q.Size > maxPageSize {
		q.Size = maxPageSize
	}
	orders := make([]types.Order, 0, len(q.Sort))
	for _, s := range q.Sort {
		o, err := types.ParseOrder(s)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return types.NewPageRequest(q.Page, q.Size, orders...), nil
}

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

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tomoncle/rostersearch/database"
	"github.com/tomoncle/rostersearch/repository"
)

const (
	codeInvalidPageRequest = "invalid_page_request"
	codeQueryFailed        = "query_failed"
	codeInternal           = "internal_error"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

// BadRequest writes a 400 for a request that never reached the store.
func BadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: codeInvalidPageRequest, Message: err.Error()})
}

// Error maps a service error to its status code.
func Error(c *gin.Context, err error) {
	var qe *repository.QueryExecutionError
	switch {
	case errors.Is(err, repository.ErrInvalidPageRequest):
		BadRequest(c, err)
	case errors.As(err, &qe):
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error:   codeQueryFailed,
			Message: qe.Op + " query failed",
			Kind:    qe.Kind.String(),
		})
	default:
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: codeInternal, Message: "unexpected error"})
	}
}

// HealthFunc reports the database health.
type HealthFunc func(c *gin.Context) *database.HealthStatus

func health(check HealthFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := check(c)
		code := http.StatusOK
		if status == nil || !status.Healthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	}
}

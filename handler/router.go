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
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/rostersearch/database"
	"github.com/tomoncle/rostersearch/metrics"
)

// RequestLogger logs every request and records its metrics.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    path,
			"query":   c.Request.URL.RawQuery,
			"status":  status,
			"latency": latency,
		})
		if len(c.Errors) > 0 {
			entry.WithField("error", c.Errors.String()).Error("request failed")
		} else {
			entry.Info("request")
		}
		metrics.ObserveRequest(path, c.Request.Method, strconv.Itoa(status), latency.Seconds())
	}
}

// RouterDeps aggregates HTTP dependencies.
type RouterDeps struct {
	Members MemberSearcher
	Health  HealthFunc
	Logger  *logrus.Logger
}

// NewRouter builds the gin engine with the member routes, /health and /metrics.
func NewRouter(deps RouterDeps) *gin.Engine {
	metrics.Init()
	r := gin.New()
	r.Use(gin.Recovery())
	if deps.Logger != nil {
		r.Use(RequestLogger(deps.Logger))
	}
	check := deps.Health
	if check == nil {
		check = func(c *gin.Context) *database.HealthStatus {
			return database.GetHealthStatus(c.Request.Context())
		}
	}
	r.GET("/health", health(check))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	NewMemberHandler(deps.Members).Register(r)
	return r
}

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

// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rostersearch"

var (
	pageQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_queries_total",
			Help:      "Page queries served, by pagination strategy.",
		},
		[]string{"strategy"},
	)
	countQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "count_queries_total",
			Help:      "Total count decisions, by strategy and whether the count query ran or was elided.",
		},
		[]string{"strategy", "outcome"},
	)
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"path", "method", "status"},
	)
	latencyHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	registerOnce sync.Once
)

const (
	OutcomeExecuted = "executed"
	OutcomeElided   = "elided"
)

// Init registers the collectors with the default registry. Safe to call more
// than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(pageQueries, countQueries, requestCounter, latencyHistogram)
	})
}

// ObservePage records a page query served with strategy.
func ObservePage(strategy string) {
	pageQueries.WithLabelValues(strategy).Inc()
}

// ObserveCount records whether a page query needed its count query.
func ObserveCount(strategy string, executed bool) {
	outcome := OutcomeElided
	if executed {
		outcome = OutcomeExecuted
	}
	countQueries.WithLabelValues(strategy, outcome).Inc()
}

// ObserveRequest records HTTP metrics.
func ObserveRequest(path, method, status string, seconds float64) {
	requestCounter.WithLabelValues(path, method, status).Inc()
	latencyHistogram.WithLabelValues(path, method).Observe(seconds)
}

// CountQueries exposes the count decision counter, mainly for tests.
func CountQueries() *prometheus.CounterVec {
	return countQueries
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics owns the Prometheus collectors for the API process.

Collectors live in a private registry (never the global default) which is
served by [Metrics.Handler]. All recording methods are safe on a nil
*Metrics so domain services can be constructed without instrumentation in
tests.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tradepost"

// Purchase outcomes used as label values.
const (
	OutcomeSuccess           = "success"
	OutcomeInsufficientFunds = "insufficient_funds"
	OutcomeInvalidReference  = "invalid_reference"
	OutcomeConflict          = "conflict"
	OutcomeError             = "error"
)

// Metrics groups every collector exported by the server.
type Metrics struct {
	registry *prometheus.Registry

	sessionsIssued  prometheus.Counter
	purchases       *prometheus.CounterVec
	purchaseRetries prometheus.Counter
	priceCache      *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New builds and registers all collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		sessionsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_issued_total",
			Help:      "Bearer tokens issued on login or registration.",
		}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "Purchase attempts by outcome.",
		}, []string{"outcome"}),
		purchaseRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchase_balance_conflicts_total",
			Help:      "Purchase transactions aborted because the balance changed concurrently.",
		}),
		priceCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_cache_lookups_total",
			Help:      "Price cache lookups by result.",
		}, []string{"result"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.sessionsIssued,
		m.purchases,
		m.purchaseRetries,
		m.priceCache,
		m.httpDuration,
	)

	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SessionIssued counts one issued bearer token.
func (m *Metrics) SessionIssued() {
	if m == nil {
		return
	}
	m.sessionsIssued.Inc()
}

// Purchase counts one purchase attempt with the given outcome.
func (m *Metrics) Purchase(outcome string) {
	if m == nil {
		return
	}
	m.purchases.WithLabelValues(outcome).Inc()
}

// PurchaseConflict counts one compare-and-set miss on a balance.
func (m *Metrics) PurchaseConflict() {
	if m == nil {
		return
	}
	m.purchaseRetries.Inc()
}

// PriceCacheLookup counts one cache lookup as a hit or a miss.
func (m *Metrics) PriceCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.priceCache.WithLabelValues(result).Inc()
}

// ObserveHTTP records the latency of a finished request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

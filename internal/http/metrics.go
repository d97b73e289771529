package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contas",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by path and status code.",
	}, []string{"path", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "contas",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by path.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"path"})

	billsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "contas",
		Name:      "bills_created_total",
		Help:      "Installment records created, recurring expansions included.",
	})

	billsPaidTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "contas",
		Name:      "bills_paid_total",
		Help:      "Bills transitioned from pending to paid.",
	})

	summaryCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contas",
		Name:      "view_cache_events_total",
		Help:      "Month view cache hits and misses.",
	}, []string{"cache", "event"})
)

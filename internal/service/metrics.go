package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tossTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "santaswap_toss_total",
		Help: "Toss attempts by outcome (ok, conflict, not_found, error).",
	}, []string{"outcome"})

	tossDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "santaswap_toss_duration_seconds",
		Help:    "End-to-end toss duration including the assignment write.",
		Buckets: prometheus.DefBuckets,
	})
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Source fetch outcomes
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

var (
	SourceFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tokenscope_source_fetch_total",
		Help: "Source fetches by category, source and outcome",
	}, []string{"category", "source", "outcome"})

	SourceFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tokenscope_source_fetch_duration_seconds",
		Help:    "Source fetch latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"category", "source"})

	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tokenscope_analyses_total",
		Help: "Completed analyses by risk level",
	}, []string{"level"})

	AllowlistHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tokenscope_allowlist_hits_total",
		Help: "Analyses short-circuited by the allowlist",
	})
)

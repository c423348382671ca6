package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("recordview.server")

var (
	// rendersTotal counts rendered inputs by where they came from
	rendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recordview_renders_total",
		Help: "Total rendered inputs by source",
	}, []string{"source"})

	renderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recordview_render_failures_total",
		Help: "Inputs that could not be decoded, by source",
	}, []string{"source"})

	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recordview_render_duration_seconds",
		Help:    "Time to build the tree, index and timeline of one input",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	})

	renderInvocations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recordview_render_invocations",
		Help:    "Number of invocations per rendered input",
		Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
	})

	// prunedNodes counts nodes kept in the tree but left out of the timeline
	prunedNodes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recordview_pruned_nodes_total",
		Help: "Nodes left out of the timeline",
	})

	selectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recordview_selections_total",
		Help: "Selections forwarded to the host",
	})
)

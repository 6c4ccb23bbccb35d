package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the fusion module.
type Metrics struct {
	// Full fusion latency, extraction excluded
	FusionLatency prometheus.Histogram

	// Overall confidence of each fused expediente
	OverallConfidence prometheus.Histogram

	// Conflicted fields by field key
	FieldConflicts *prometheus.CounterVec

	// Source records that took part in a fusion, by source
	SourceContributions *prometheus.CounterVec

	// Extractor latency and failures by source
	ExtractLatency  *prometheus.HistogramVec
	ExtractFailures *prometheus.CounterVec

	// Review routing by outcome: published, failed
	ReviewRouting *prometheus.CounterVec
}

// New creates the fusion metrics on reg (the default registerer when nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		FusionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "expediente_fusion_duration_seconds",
			Help:    "Duration of record fusion",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		OverallConfidence: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "expediente_fusion_overall_confidence",
			Help:    "Overall confidence of fused expedientes",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		}),
		FieldConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "expediente_fusion_field_conflicts_total",
			Help: "Fields whose sources disagreed, by field",
		}, []string{"field"}),
		SourceContributions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "expediente_fusion_source_records_total",
			Help: "Source records that took part in a fusion, by source",
		}, []string{"source"}),
		ExtractLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "expediente_extract_duration_seconds",
			Help:    "Duration of rendition extraction by source",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		ExtractFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "expediente_extract_failures_total",
			Help: "Extractor failures degraded to absent sources, by source and category",
		}, []string{"source", "category"}),
		ReviewRouting: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "expediente_review_routing_total",
			Help: "Expedientes routed to manual review, by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveFusion records one fusion's latency and overall confidence.
func (m *Metrics) ObserveFusion(d time.Duration, overallConfidence float64) {
	if m != nil {
		m.FusionLatency.Observe(d.Seconds())
		m.OverallConfidence.Observe(overallConfidence)
	}
}

// IncrementConflict records a conflicted field.
func (m *Metrics) IncrementConflict(field string) {
	if m != nil {
		m.FieldConflicts.WithLabelValues(field).Inc()
	}
}

// IncrementSource records a source that took part in a fusion.
func (m *Metrics) IncrementSource(source string) {
	if m != nil {
		m.SourceContributions.WithLabelValues(source).Inc()
	}
}

// ObserveExtract records the duration of one extraction.
func (m *Metrics) ObserveExtract(source string, d time.Duration) {
	if m != nil {
		m.ExtractLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// IncrementExtractFailure records an extractor failure.
func (m *Metrics) IncrementExtractFailure(source, category string) {
	if m != nil {
		m.ExtractFailures.WithLabelValues(source, category).Inc()
	}
}

// IncrementReview records a review routing outcome.
func (m *Metrics) IncrementReview(outcome string) {
	if m != nil {
		m.ReviewRouting.WithLabelValues(outcome).Inc()
	}
}

// Package service is the application layer around the fusion core: it assigns
// a FusionID, runs extractors, fuses, records metrics and routes expedientes
// that need a human to the review publisher.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"expediente/internal/expediente/models"
	"expediente/internal/fusion/extractors"
	"expediente/internal/fusion/metrics"
	"expediente/internal/fusion/orchestrator"
	"expediente/internal/fusion/ports"
	"expediente/internal/fusion/review"
	"expediente/pkg/domain"
	dErrors "expediente/pkg/domain-errors"
	"expediente/pkg/requestcontext"
)

const tracerName = "expediente/internal/fusion/service"

// defaultExtractTimeout bounds FuseDocument's extractor fan-out.
const defaultExtractTimeout = 30 * time.Second

// Request carries the already-extracted source records of one expediente.
type Request struct {
	Sources models.SourceSet
}

// Result is a fused expediente plus the service-level decisions about it.
type Result struct {
	FusionID     domain.FusionID
	Outcome      orchestrator.Outcome
	Sources      []models.Source
	Degraded     []models.Source
	NeedsReview  bool
	ReviewReason review.Reason
	FusedAt      time.Time
}

// Service fuses expedientes.
type Service struct {
	settings       Settings
	workers        int
	orchestrator   *orchestrator.Orchestrator
	extractors     *extractors.Registry
	publisher      ports.ReviewPublisher
	extractTimeout time.Duration
	logger         *slog.Logger
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

// WithSettings replaces the default fusion settings.
func WithSettings(s Settings) Option {
	return func(svc *Service) {
		svc.settings = s
	}
}

// WithWorkers bounds per-field concurrency inside one fusion.
func WithWorkers(n int) Option {
	return func(svc *Service) {
		svc.workers = n
	}
}

// WithExtractors sets the registry FuseDocument draws from.
func WithExtractors(r *extractors.Registry) Option {
	return func(svc *Service) {
		svc.extractors = r
	}
}

// WithPublisher sets where review tickets go. Without one, review decisions
// are still reported but nothing is published.
func WithPublisher(p ports.ReviewPublisher) Option {
	return func(svc *Service) {
		svc.publisher = p
	}
}

// WithExtractTimeout bounds one document's extraction.
func WithExtractTimeout(d time.Duration) Option {
	return func(svc *Service) {
		if d > 0 {
			svc.extractTimeout = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(svc *Service) {
		svc.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(svc *Service) {
		svc.metrics = m
	}
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(svc *Service) {
		svc.tracer = t
	}
}

// New creates a fusion service. Invalid settings are rejected here so a
// running service never fails on configuration.
func New(opts ...Option) (*Service, error) {
	svc := &Service{
		settings:       DefaultSettings(),
		extractTimeout: defaultExtractTimeout,
		logger:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if err := svc.settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fusion settings: %w", err)
	}
	if svc.extractors == nil {
		svc.extractors = extractors.NewRegistry()
	}
	if svc.tracer == nil {
		svc.tracer = otel.Tracer(tracerName)
	}

	svc.orchestrator = orchestrator.New(
		orchestrator.WithScoring(svc.settings.Scoring),
		orchestrator.WithSanitizer(svc.settings.Sanitizer()),
		orchestrator.WithWorkers(svc.workers),
	)
	return svc, nil
}

// Fuse fuses already-extracted source records.
func (s *Service) Fuse(ctx context.Context, req Request) (*Result, error) {
	fusionID := domain.NewFusionID()
	ctx, span := s.tracer.Start(ctx, "fusion.Fuse", trace.WithAttributes(
		attribute.String("fusion.id", fusionID.String()),
	))
	defer span.End()

	res, err := s.fuse(ctx, fusionID, req.Sources)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fusion failed")
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("fusion.conflicts", len(res.Outcome.Conflicts)),
		attribute.Float64("fusion.overall_confidence", res.Outcome.OverallConfidence),
		attribute.Bool("fusion.needs_review", res.NeedsReview),
	)
	return res, nil
}

func (s *Service) fuse(ctx context.Context, fusionID domain.FusionID, sources models.SourceSet) (*Result, error) {
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	outcome, err := s.orchestrator.FuseRecord(ctx, sources, s.settings.Reliability)
	if err != nil {
		s.logger.WarnContext(ctx, "fusion aborted",
			"request_id", requestID,
			"fusion_id", fusionID.String(),
			"error", err,
		)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "fusion cancelled")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "fusion failed")
	}
	elapsed := time.Since(start)

	present := sources.Present()
	reason := review.Decide(len(outcome.Conflicts), outcome.OverallConfidence, s.settings.ReviewThreshold)
	res := &Result{
		FusionID:     fusionID,
		Outcome:      outcome,
		Sources:      present,
		NeedsReview:  reason != review.ReasonNone,
		ReviewReason: reason,
		FusedAt:      requestcontext.Now(ctx),
	}

	s.metrics.ObserveFusion(elapsed, outcome.OverallConfidence)
	for _, src := range present {
		s.metrics.IncrementSource(src.String())
	}
	for _, field := range outcome.Conflicts {
		s.metrics.IncrementConflict(field)
	}

	s.logger.InfoContext(ctx, "expediente fused",
		"request_id", requestID,
		"fusion_id", fusionID.String(),
		"sources", len(present),
		"conflicts", len(outcome.Conflicts),
		"overall_confidence", outcome.OverallConfidence,
		"needs_review", res.NeedsReview,
		"duration_ms", elapsed.Milliseconds(),
	)

	if res.NeedsReview {
		s.routeToReview(ctx, res)
	}
	return res, nil
}

// routeToReview publishes a ticket. Delivery failure is logged and counted
// but never fails the fusion; the caller still sees NeedsReview.
func (s *Service) routeToReview(ctx context.Context, res *Result) {
	if s.publisher == nil {
		return
	}
	ticket := review.Ticket{
		FusionID:          res.FusionID,
		CaseNumber:        res.Outcome.Record.CaseNumber,
		Conflicts:         res.Outcome.Conflicts,
		OverallConfidence: res.Outcome.OverallConfidence,
		Reason:            res.ReviewReason,
		CreatedAt:         res.FusedAt,
	}
	if err := s.publisher.Publish(ctx, ticket); err != nil {
		s.metrics.IncrementReview("failed")
		s.logger.ErrorContext(ctx, "review ticket not published",
			"request_id", requestcontext.RequestID(ctx),
			"fusion_id", res.FusionID.String(),
			"error", err,
		)
		return
	}
	s.metrics.IncrementReview("published")
}

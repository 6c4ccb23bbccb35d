package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"expediente/internal/expediente/models"
	"expediente/internal/fusion/extractors"
	"expediente/internal/fusion/ports"
	"expediente/pkg/domain"
	dErrors "expediente/pkg/domain-errors"
	"expediente/pkg/requestcontext"
)

// FuseDocument runs every registered extractor on doc concurrently and fuses
// what they return. An extractor failure is downgraded to an absent source
// and reported in Result.Degraded; fusion itself never fails on data.
func (s *Service) FuseDocument(ctx context.Context, doc ports.Document) (*Result, error) {
	all := s.extractors.All()
	if len(all) == 0 {
		return nil, dErrors.New(dErrors.CodeUnavailable, "no extractors registered")
	}

	fusionID := domain.NewFusionID()
	ctx, span := s.tracer.Start(ctx, "fusion.FuseDocument", trace.WithAttributes(
		attribute.String("fusion.id", fusionID.String()),
		attribute.String("document.reference", doc.Reference),
	))
	defer span.End()

	sources, degraded := s.gatherSources(ctx, fusionID, doc, all)

	res, err := s.fuse(ctx, fusionID, sources)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fusion failed")
		return nil, err
	}
	res.Degraded = degraded
	span.SetAttributes(attribute.Int("fusion.degraded_sources", len(degraded)))
	return res, nil
}

// gatherSources fans extraction out under one timeout. Tasks never return an
// error so one failing extractor cannot cancel its siblings.
func (s *Service) gatherSources(ctx context.Context, fusionID domain.FusionID, doc ports.Document, all []ports.Extractor) (models.SourceSet, []models.Source) {
	ctx, cancel := context.WithTimeout(ctx, s.extractTimeout)
	defer cancel()

	records := make([]*models.Record, len(all))
	failed := make([]bool, len(all))

	var g errgroup.Group
	for i, ex := range all {
		g.Go(func() error {
			src := ex.Source()
			ctx, span := s.tracer.Start(ctx, "fusion.Extract", trace.WithAttributes(
				attribute.String("fusion.source", src.String()),
			))
			defer span.End()

			start := time.Now()
			rec, err := ex.Extract(ctx, doc)
			s.metrics.ObserveExtract(src.String(), time.Since(start))
			if err != nil {
				category := extractors.GetCategory(err)
				span.RecordError(err)
				span.SetStatus(codes.Error, string(category))
				s.metrics.IncrementExtractFailure(src.String(), string(category))

				s.logger.WarnContext(ctx, "extractor failed, source treated as absent",
					"request_id", requestcontext.RequestID(ctx),
					"fusion_id", fusionID.String(),
					"source", src.String(),
					"category", string(category),
					"error", err,
				)
				failed[i] = true
				return nil
			}
			records[i] = rec
			return nil
		})
	}
	_ = g.Wait()

	var set models.SourceSet
	var degraded []models.Source
	for i, ex := range all {
		if failed[i] {
			degraded = append(degraded, ex.Source())
			continue
		}
		if records[i] != nil {
			set = set.With(ex.Source(), records[i])
		}
	}
	return set, degraded
}

// Package orchestrator fuses a whole expediente: it walks the field catalogue,
// builds candidate lists from the optional source records, fuses every field
// independently and merges the results into one canonical record.
//
// Per-field fusion runs concurrently in one batch per scope. Each task writes
// only its own slot; a single owner merges the slots after the batch, in
// catalogue order, so results are bit-identical across runs.
package orchestrator

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"expediente/internal/expediente/models"
	"expediente/internal/fusion/engine"
	"expediente/internal/fusion/sanitize"
)

// Outcome is the fused expediente and its report.
type Outcome struct {
	Record            models.Record
	Fields            map[string]engine.Result
	Conflicts         []string
	OverallConfidence float64
}

// Orchestrator holds the run-independent fusion settings.
type Orchestrator struct {
	scoring   engine.Scoring
	sanitizer *sanitize.Sanitizer
	workers   int
	fields    []Field
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithScoring overrides the pattern-match bonus and penalty.
func WithScoring(s engine.Scoring) Option {
	return func(o *Orchestrator) {
		o.scoring = s
	}
}

// WithSanitizer overrides the sanitizer, e.g. to add null annotations.
func WithSanitizer(s *sanitize.Sanitizer) Option {
	return func(o *Orchestrator) {
		if s != nil {
			o.sanitizer = s
		}
	}
}

// WithWorkers bounds the number of fields fused concurrently.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// New builds an Orchestrator over the full field catalogue.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		scoring:   engine.DefaultScoring(),
		sanitizer: sanitize.New(),
		workers:   runtime.GOMAXPROCS(0),
		fields:    catalogue,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// FuseRecord is a convenience wrapper around New(opts...).FuseRecord.
func FuseRecord(ctx context.Context, sources models.SourceSet, reliability engine.Reliability, opts ...Option) (Outcome, error) {
	return New(opts...).FuseRecord(ctx, sources, reliability)
}

// fieldSlot is one field's independent contribution, written by exactly one task.
type fieldSlot struct {
	field  Field
	result engine.Result
}

// FuseRecord fuses the present sources into a canonical record. The only
// errors are an invalid reliability map or scoring, and cancellation of ctx
// observed before a batch starts; missing, empty, malformed and conflicting
// data are all reported in the Outcome instead.
func (o *Orchestrator) FuseRecord(ctx context.Context, sources models.SourceSet, reliability engine.Reliability) (Outcome, error) {
	if err := reliability.Validate(); err != nil {
		return Outcome{}, err
	}
	if err := o.scoring.Validate(); err != nil {
		return Outcome{}, err
	}
	weights := reliability.Clone()

	slots := make([]fieldSlot, 0, len(o.fields))
	for _, scope := range scopes {
		if err := ctx.Err(); err != nil {
			return Outcome{}, fmt.Errorf("fusion cancelled before %s batch: %w", scope, err)
		}
		slots = append(slots, o.runBatch(o.fieldsIn(scope), sources, weights)...)
	}

	return merge(slots), nil
}

func (o *Orchestrator) fieldsIn(scope Scope) []Field {
	var out []Field
	for _, f := range o.fields {
		if f.Scope == scope {
			out = append(out, f)
		}
	}
	return out
}

// runBatch fuses a batch of fields concurrently. Field fusion is pure and
// never fails, so the group only bounds concurrency.
func (o *Orchestrator) runBatch(fields []Field, sources models.SourceSet, weights engine.Reliability) []fieldSlot {
	slots := make([]fieldSlot, len(fields))

	var g errgroup.Group
	g.SetLimit(o.workers)
	for i, f := range fields {
		g.Go(func() error {
			candidates := engine.Collect(rawValues(f, sources), weights, o.sanitizer, f.Matches())
			slots[i] = fieldSlot{field: f, result: engine.Fuse(f.Key, candidates, o.scoring)}
			return nil
		})
	}
	_ = g.Wait()

	return slots
}

// rawValues reads the field from every present source, skipping absent
// sources and sources without a value (unset dates, empty party lists).
func rawValues(f Field, sources models.SourceSet) []engine.RawValue {
	values := make([]engine.RawValue, 0, len(models.Sources))
	for _, src := range models.Sources {
		record := sources.Get(src)
		if record == nil {
			continue
		}
		if v, ok := f.read(record); ok {
			values = append(values, engine.RawValue{Source: src, Value: v})
		}
	}
	return values
}

// merge writes fused values into the canonical record and aggregates the
// report. Fields without candidates are reported but excluded from the
// overall confidence; values the record cannot hold are dropped entirely.
func merge(slots []fieldSlot) Outcome {
	out := Outcome{
		Fields:    make(map[string]engine.Result, len(slots)),
		Conflicts: []string{},
	}

	var sum float64
	var counted int
	for _, slot := range slots {
		res := slot.result
		if res.Resolved && !slot.field.write(&out.Record, res.Value) {
			continue
		}
		out.Fields[slot.field.Key] = res
		if res.Conflicted {
			out.Conflicts = append(out.Conflicts, slot.field.Key)
		}
		if res.HasCandidates() {
			sum += res.Confidence
			counted++
		}
	}
	if counted > 0 {
		out.OverallConfidence = sum / float64(counted)
	}
	return out
}

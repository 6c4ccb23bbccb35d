package engine

import (
	"errors"
	"fmt"

	"expediente/internal/expediente/models"
	"expediente/internal/fusion/sanitize"
	"expediente/internal/fusion/validate"
)

// Candidate is one source's contribution to one field. It only exists for the
// duration of a single field's fusion.
type Candidate struct {
	Value          string        `json:"value"`
	Source         models.Source `json:"source"`
	Reliability    float64       `json:"reliability"`
	MatchesPattern bool          `json:"matches_pattern"`
}

// Reliability maps each source to its trust weight in (0,1].
type Reliability map[models.Source]float64

// ErrInvalidReliability indicates a weight outside (0,1] or a missing source.
var ErrInvalidReliability = errors.New("invalid reliability: every source needs a weight in (0,1]")

// DefaultReliability returns the stock weights: markup is the most trusted
// rendition, OCR the least.
func DefaultReliability() Reliability {
	return Reliability{
		models.SourceMarkup: 0.90,
		models.SourceWord:   0.75,
		models.SourceOCR:    0.60,
	}
}

// Validate checks that every known source has a weight in (0,1].
func (r Reliability) Validate() error {
	for _, src := range models.Sources {
		w, ok := r[src]
		if !ok || w <= 0 || w > 1 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidReliability, src, w)
		}
	}
	return nil
}

// Clone returns an independent copy so a run cannot observe later mutation.
func (r Reliability) Clone() Reliability {
	out := make(Reliability, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// RawValue is one source's raw, unsanitized value for a field.
type RawValue struct {
	Source models.Source
	Value  string
}

// Collect turns raw source values into candidates. Values that sanitize to
// null contribute nothing; that is the only representation of missing data.
func Collect(values []RawValue, reliability Reliability, s *sanitize.Sanitizer, matches validate.Func) []Candidate {
	candidates := make([]Candidate, 0, len(values))
	for _, raw := range values {
		value, ok := s.Value(raw.Value)
		if !ok {
			continue
		}
		candidates = append(candidates, Candidate{
			Value:          value,
			Source:         raw.Source,
			Reliability:    reliability[raw.Source],
			MatchesPattern: matches != nil && matches(value),
		})
	}
	return candidates
}

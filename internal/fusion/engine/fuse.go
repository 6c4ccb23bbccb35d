// Package engine implements single-field fusion: given the candidates several
// sources propose for one field, pick a winner, score it and flag disagreement.
//
// This is pure domain logic - no I/O, no context, no clock. Identical inputs
// always produce identical results.
package engine

import (
	"errors"
	"fmt"
	"math"

	"expediente/internal/expediente/models"
)

// tieEpsilon absorbs float rounding when comparing summed scores.
const tieEpsilon = 1e-9

// Scoring holds the tunable pattern-match adjustment. A format match is a
// trust bonus, not a filter: a badly formatted value from a reliable source
// can still beat a well formatted one from a weak source.
type Scoring struct {
	MatchBonus      float64 `json:"match_bonus" yaml:"match_bonus"`
	MismatchPenalty float64 `json:"mismatch_penalty" yaml:"mismatch_penalty"`
}

// ErrInvalidScoring indicates a non-positive adjustment or a penalty above the bonus.
var ErrInvalidScoring = errors.New("invalid scoring: need 0 < mismatch_penalty <= match_bonus")

// DefaultScoring is the +15% / -15% adjustment.
func DefaultScoring() Scoring {
	return Scoring{MatchBonus: 1.15, MismatchPenalty: 0.85}
}

// Validate checks the adjustment is usable for normalization.
func (s Scoring) Validate() error {
	if s.MatchBonus <= 0 || s.MismatchPenalty <= 0 || s.MismatchPenalty > s.MatchBonus {
		return fmt.Errorf("%w: bonus=%v penalty=%v", ErrInvalidScoring, s.MatchBonus, s.MismatchPenalty)
	}
	return nil
}

// Score is a candidate's effective weight.
func (s Scoring) Score(c Candidate) float64 {
	if c.MatchesPattern {
		return c.Reliability * s.MatchBonus
	}
	return c.Reliability * s.MismatchPenalty
}

// maxScore is the best score a single candidate can reach: reliability 1.0
// with a pattern match.
func (s Scoring) maxScore() float64 {
	return s.MatchBonus
}

func (s Scoring) normalize(score float64) float64 {
	max := s.maxScore()
	if max <= 0 {
		return 0
	}
	return math.Min(score/max, 1.0)
}

// ScoredCandidate is a candidate with its effective score, kept as the
// alternate-candidate trace of a field result.
type ScoredCandidate struct {
	Candidate
	Score float64 `json:"score"`
}

// Result is the outcome of fusing one field. Resolved is false when no
// candidate existed; Value and WinningSource are then empty.
type Result struct {
	Field         string            `json:"field"`
	Value         string            `json:"value"`
	Resolved      bool              `json:"resolved"`
	Confidence    float64           `json:"confidence"`
	WinningSource models.Source     `json:"winning_source"`
	Conflicted    bool              `json:"conflicted"`
	Candidates    []ScoredCandidate `json:"candidates"`
}

// HasCandidates reports whether any source contributed to the field.
func (r Result) HasCandidates() bool {
	return len(r.Candidates) > 0
}

// group gathers the candidates that agree on one sanitized value.
type group struct {
	value       string
	sum         float64
	best        float64 // highest single score in the group
	bestSource  models.Source
	maxReliable float64
	anyValid    bool
}

// Fuse resolves one field from its candidates.
func Fuse(field string, candidates []Candidate, scoring Scoring) Result {
	if len(candidates) == 0 {
		return Result{Field: field}
	}

	trace := make([]ScoredCandidate, len(candidates))
	groups := make([]*group, 0, len(candidates))
	byValue := make(map[string]*group, len(candidates))

	for i, c := range candidates {
		score := scoring.Score(c)
		trace[i] = ScoredCandidate{Candidate: c, Score: score}

		g, ok := byValue[c.Value]
		if !ok {
			g = &group{value: c.Value, best: math.Inf(-1), maxReliable: math.Inf(-1)}
			byValue[c.Value] = g
			groups = append(groups, g)
		}
		g.sum += score
		if score > g.best {
			g.best = score
			g.bestSource = c.Source
		}
		if c.Reliability > g.maxReliable {
			g.maxReliable = c.Reliability
		}
		g.anyValid = g.anyValid || c.MatchesPattern
	}

	if len(groups) == 1 {
		g := groups[0]
		return Result{
			Field:         field,
			Value:         g.value,
			Resolved:      true,
			Confidence:    scoring.normalize(g.best),
			WinningSource: g.bestSource,
			Candidates:    trace,
		}
	}

	winner := groups[0]
	for _, g := range groups[1:] {
		if beats(g, winner) {
			winner = g
		}
	}

	return Result{
		Field:         field,
		Value:         winner.value,
		Resolved:      true,
		Confidence:    scoring.normalize(winner.sum),
		WinningSource: winner.bestSource,
		Conflicted:    true,
		Candidates:    trace,
	}
}

// beats reports whether challenger displaces the current leader. Ties on the
// summed score go to the group with a pattern-valid contributor, then to the
// group holding the most reliable single source; a remaining tie keeps the
// leader, which appeared first.
func beats(challenger, leader *group) bool {
	if d := challenger.sum - leader.sum; math.Abs(d) > tieEpsilon {
		return d > 0
	}
	if challenger.anyValid != leader.anyValid {
		return challenger.anyValid
	}
	if d := challenger.maxReliable - leader.maxReliable; math.Abs(d) > tieEpsilon {
		return d > 0
	}
	return false
}

// Package review routes fused expedientes that need a human: ones with
// disagreeing sources or a low overall confidence.
package review

import (
	"time"

	"expediente/pkg/domain"
)

// Reason says why a fusion needs review.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonConflicts     Reason = "conflicts"
	ReasonLowConfidence Reason = "low_confidence"
	ReasonBoth          Reason = "conflicts_and_low_confidence"
)

// Decide returns the review reason for a fusion outcome. A confidence equal
// to the threshold passes.
func Decide(conflicts int, overallConfidence, threshold float64) Reason {
	low := overallConfidence < threshold
	switch {
	case conflicts > 0 && low:
		return ReasonBoth
	case conflicts > 0:
		return ReasonConflicts
	case low:
		return ReasonLowConfidence
	default:
		return ReasonNone
	}
}

// Ticket is one manual-review work item.
type Ticket struct {
	FusionID          domain.FusionID `json:"fusion_id"`
	CaseNumber        string          `json:"case_number,omitempty"`
	Conflicts         []string        `json:"conflicts"`
	OverallConfidence float64         `json:"overall_confidence"`
	Reason            Reason          `json:"reason"`
	CreatedAt         time.Time       `json:"created_at"`
}

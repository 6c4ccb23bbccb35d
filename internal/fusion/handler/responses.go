package handler

import (
	"time"

	"expediente/internal/expediente/models"
	"expediente/internal/expediente/wire"
	"expediente/internal/fusion/orchestrator"
	"expediente/internal/fusion/service"
)

// FuseResponse is the HTTP response for POST /fusion/expedientes.
type FuseResponse struct {
	FusionID          string             `json:"fusion_id"`
	Record            wire.RecordPayload `json:"record"`
	Fields            []FieldResponse    `json:"fields"`
	Conflicts         []string           `json:"conflicts"`
	OverallConfidence float64            `json:"overall_confidence"`
	NeedsReview       bool               `json:"needs_review"`
	ReviewReason      string             `json:"review_reason,omitempty"`
	Sources           []string           `json:"sources"`
	Degraded          []string           `json:"degraded,omitempty"`
	FusedAt           time.Time          `json:"fused_at"`
}

// FieldResponse is one field of the fusion report. Value is null when no
// source contributed.
type FieldResponse struct {
	Field         string              `json:"field"`
	Value         *string             `json:"value"`
	Confidence    float64             `json:"confidence"`
	WinningSource string              `json:"winning_source,omitempty"`
	Conflicted    bool                `json:"conflicted"`
	Candidates    []CandidateResponse `json:"candidates"`
}

// CandidateResponse is one entry of a field's alternate-candidate trace.
type CandidateResponse struct {
	Value          string  `json:"value"`
	Source         string  `json:"source"`
	Reliability    float64 `json:"reliability"`
	MatchesPattern bool    `json:"matches_pattern"`
	Score          float64 `json:"score"`
}

// FromResult converts a service Result to an HTTP response. Fields are listed
// in catalogue order.
func FromResult(result *service.Result) *FuseResponse {
	out := result.Outcome
	resp := &FuseResponse{
		FusionID:          result.FusionID.String(),
		Record:            wire.FromRecord(out.Record),
		Fields:            make([]FieldResponse, 0, len(out.Fields)),
		Conflicts:         out.Conflicts,
		OverallConfidence: out.OverallConfidence,
		NeedsReview:       result.NeedsReview,
		ReviewReason:      string(result.ReviewReason),
		Sources:           sourceNames(result.Sources),
		FusedAt:           result.FusedAt,
	}
	if len(result.Degraded) > 0 {
		resp.Degraded = sourceNames(result.Degraded)
	}
	if resp.Conflicts == nil {
		resp.Conflicts = []string{}
	}

	for _, f := range orchestrator.Fields() {
		res, ok := out.Fields[f.Key]
		if !ok {
			continue
		}
		field := FieldResponse{
			Field:         f.Key,
			Confidence:    res.Confidence,
			WinningSource: res.WinningSource.String(),
			Conflicted:    res.Conflicted,
			Candidates:    make([]CandidateResponse, 0, len(res.Candidates)),
		}
		if res.Resolved {
			v := res.Value
			field.Value = &v
		}
		for _, c := range res.Candidates {
			field.Candidates = append(field.Candidates, CandidateResponse{
				Value:          c.Value,
				Source:         c.Source.String(),
				Reliability:    c.Reliability,
				MatchesPattern: c.MatchesPattern,
				Score:          c.Score,
			})
		}
		resp.Fields = append(resp.Fields, field)
	}
	return resp
}

func sourceNames(sources []models.Source) []string {
	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.String())
	}
	return names
}

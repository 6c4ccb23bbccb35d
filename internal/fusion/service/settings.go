package service

import (
	"fmt"

	"expediente/internal/expediente/models"
	"expediente/internal/fusion/engine"
	"expediente/internal/fusion/sanitize"
	"expediente/internal/platform/config"
)

// Settings is the validated fusion tuning a Service runs with.
type Settings struct {
	Reliability     engine.Reliability
	Scoring         engine.Scoring
	ReviewThreshold float64
	NullAnnotations []string
}

// DefaultSettings mirrors config.DefaultProfile.
func DefaultSettings() Settings {
	return Settings{
		Reliability:     engine.DefaultReliability(),
		Scoring:         engine.DefaultScoring(),
		ReviewThreshold: 0.70,
	}
}

// SettingsFromProfile converts a loaded profile, rejecting unknown source names
// and incomplete reliability maps.
func SettingsFromProfile(p config.Profile) (Settings, error) {
	reliability := make(engine.Reliability, len(p.Reliability))
	for name, w := range p.Reliability {
		src, err := models.ParseSource(name)
		if err != nil {
			return Settings{}, fmt.Errorf("profile reliability: %w", err)
		}
		reliability[src] = w
	}

	s := Settings{
		Reliability:     reliability,
		Scoring:         engine.Scoring{MatchBonus: p.MatchBonus, MismatchPenalty: p.MismatchPenalty},
		ReviewThreshold: p.ReviewThreshold,
		NullAnnotations: p.NullAnnotations,
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Sanitizer builds the semantic-null detector for the configured annotations.
// Every boundary that reads raw values (HTTP, rendition files, fusion) shares it.
func (s Settings) Sanitizer() *sanitize.Sanitizer {
	return sanitize.New(s.NullAnnotations...)
}

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	if err := s.Reliability.Validate(); err != nil {
		return err
	}
	if err := s.Scoring.Validate(); err != nil {
		return err
	}
	if s.ReviewThreshold < 0 || s.ReviewThreshold > 1 {
		return fmt.Errorf("review threshold must be in [0,1], got %v", s.ReviewThreshold)
	}
	return nil
}

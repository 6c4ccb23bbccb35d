package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	pstrings "expediente/pkg/platform/strings"
)

// Profile is the tunable fusion behaviour. Keys of Reliability are source
// names ("xml", "ocr", "docx").
type Profile struct {
	Reliability     map[string]float64 `json:"reliability" yaml:"reliability"`
	MatchBonus      float64            `json:"match_bonus" yaml:"match_bonus"`
	MismatchPenalty float64            `json:"mismatch_penalty" yaml:"mismatch_penalty"`
	ReviewThreshold float64            `json:"review_threshold" yaml:"review_threshold"`
	NullAnnotations []string           `json:"null_annotations,omitempty" yaml:"null_annotations,omitempty"`
}

// profileFile mirrors Profile with optional fields so a file only overrides
// what it names.
type profileFile struct {
	Reliability     map[string]float64 `yaml:"reliability"`
	MatchBonus      *float64           `yaml:"match_bonus"`
	MismatchPenalty *float64           `yaml:"mismatch_penalty"`
	ReviewThreshold *float64           `yaml:"review_threshold"`
	NullAnnotations []string           `yaml:"null_annotations"`
}

// DefaultProfile is used when no profile file is configured.
func DefaultProfile() Profile {
	return Profile{
		Reliability: map[string]float64{
			"xml":  0.90,
			"docx": 0.75,
			"ocr":  0.60,
		},
		MatchBonus:      1.15,
		MismatchPenalty: 0.85,
		ReviewThreshold: 0.70,
	}
}

// LoadProfile reads a YAML profile from path over the defaults. An empty
// path returns the defaults.
func LoadProfile(path string) (Profile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile %s: %w", path, err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes a YAML profile over the defaults and validates it.
func ParseProfile(data []byte) (Profile, error) {
	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}

	p := DefaultProfile()
	for src, w := range file.Reliability {
		p.Reliability[src] = w
	}
	if file.MatchBonus != nil {
		p.MatchBonus = *file.MatchBonus
	}
	if file.MismatchPenalty != nil {
		p.MismatchPenalty = *file.MismatchPenalty
	}
	if file.ReviewThreshold != nil {
		p.ReviewThreshold = *file.ReviewThreshold
	}
	p.NullAnnotations = pstrings.DedupeAndTrimLower(file.NullAnnotations)

	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks numeric ranges. Source names are checked by the fusion layer.
func (p Profile) Validate() error {
	for src, w := range p.Reliability {
		if w <= 0 || w > 1 {
			return fmt.Errorf("profile: reliability %q must be in (0,1], got %v", src, w)
		}
	}
	if p.MatchBonus <= 0 || p.MismatchPenalty <= 0 || p.MismatchPenalty > p.MatchBonus {
		return fmt.Errorf("profile: need 0 < mismatch_penalty <= match_bonus, got %v/%v", p.MismatchPenalty, p.MatchBonus)
	}
	if p.ReviewThreshold < 0 || p.ReviewThreshold > 1 {
		return fmt.Errorf("profile: review_threshold must be in [0,1], got %v", p.ReviewThreshold)
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, k := range []string{"FUSION_ADDR", "FUSION_LOG_FORMAT", "FUSION_LOG_LEVEL", "FUSION_WORKERS",
			"FUSION_PROFILE", "FUSION_REVIEW_BROKERS", "FUSION_REVIEW_TOPIC", "FUSION_EXTRACT_TIMEOUT"} {
			t.Setenv(k, "")
		}
		cfg := FromEnv()

		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Zero(t, cfg.Workers)
		assert.Empty(t, cfg.ProfilePath)
		assert.Equal(t, DefaultExtractTimeout, cfg.ExtractTimeout)
		assert.Empty(t, cfg.Review.Brokers)
		assert.Equal(t, DefaultReviewTopic, cfg.Review.Topic)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("FUSION_ADDR", ":9090")
		t.Setenv("FUSION_LOG_FORMAT", "text")
		t.Setenv("FUSION_LOG_LEVEL", "debug")
		t.Setenv("FUSION_WORKERS", "4")
		t.Setenv("FUSION_PROFILE", "/etc/fusion/profile.yaml")
		t.Setenv("FUSION_REVIEW_BROKERS", " kafka-1:9092, ,kafka-2:9092 ")
		t.Setenv("FUSION_REVIEW_TOPIC", "review")
		t.Setenv("FUSION_EXTRACT_TIMEOUT", "5s")

		cfg := FromEnv()

		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 4, cfg.Workers)
		assert.Equal(t, "/etc/fusion/profile.yaml", cfg.ProfilePath)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Review.Brokers)
		assert.Equal(t, "review", cfg.Review.Topic)
		assert.Equal(t, 5*time.Second, cfg.ExtractTimeout)
	})

	t.Run("malformed numbers fall back", func(t *testing.T) {
		t.Setenv("FUSION_WORKERS", "-3")
		t.Setenv("FUSION_EXTRACT_TIMEOUT", "soon")

		cfg := FromEnv()

		assert.Zero(t, cfg.Workers)
		assert.Equal(t, DefaultExtractTimeout, cfg.ExtractTimeout)
	})
}

func TestParseProfile(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		check   func(t *testing.T, p Profile)
	}{
		{
			name: "empty document keeps defaults",
			yaml: ``,
			check: func(t *testing.T, p Profile) {
				assert.Equal(t, DefaultProfile(), p)
			},
		},
		{
			name: "partial override",
			yaml: "reliability:\n  ocr: 0.5\nreview_threshold: 0.8\n",
			check: func(t *testing.T, p Profile) {
				assert.InDelta(t, 0.5, p.Reliability["ocr"], 1e-9)
				assert.InDelta(t, 0.9, p.Reliability["xml"], 1e-9)
				assert.InDelta(t, 0.8, p.ReviewThreshold, 1e-9)
				assert.InDelta(t, 1.15, p.MatchBonus, 1e-9)
			},
		},
		{
			name: "annotations are normalized",
			yaml: "null_annotations:\n  - ' Pendiente '\n  - pendiente\n  - SIN CAPTURA\n",
			check: func(t *testing.T, p Profile) {
				assert.Equal(t, []string{"pendiente", "sin captura"}, p.NullAnnotations)
			},
		},
		{name: "weight above one", yaml: "reliability:\n  xml: 1.2\n", wantErr: true},
		{name: "zero weight", yaml: "reliability:\n  docx: 0\n", wantErr: true},
		{name: "penalty above bonus", yaml: "match_bonus: 1.0\nmismatch_penalty: 1.1\n", wantErr: true},
		{name: "threshold out of range", yaml: "review_threshold: 1.5\n", wantErr: true},
		{name: "malformed yaml", yaml: "reliability: [", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseProfile([]byte(tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestLoadProfile(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		p, err := LoadProfile("")
		require.NoError(t, err)
		assert.Equal(t, DefaultProfile(), p)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "profile.yaml")
		require.NoError(t, os.WriteFile(path, []byte("match_bonus: 1.2\n"), 0o600))

		p, err := LoadProfile(path)
		require.NoError(t, err)
		assert.InDelta(t, 1.2, p.MatchBonus, 1e-9)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

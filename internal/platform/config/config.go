package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr           string
	LogFormat      string
	LogLevel       string
	Workers        int
	ProfilePath    string
	ExtractTimeout time.Duration
	Review         ReviewConfig
}

// ReviewConfig locates the manual-review topic. An empty broker list means
// tickets are only logged.
type ReviewConfig struct {
	Brokers []string
	Topic   string
}

// DefaultExtractTimeout bounds one document's extractor fan-out.
var DefaultExtractTimeout = 30 * time.Second

// DefaultReviewTopic is used when brokers are set without a topic.
const DefaultReviewTopic = "expediente.review"

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("FUSION_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	topic := os.Getenv("FUSION_REVIEW_TOPIC")
	if topic == "" {
		topic = DefaultReviewTopic
	}

	return Server{
		Addr:           addr,
		LogFormat:      envOr("FUSION_LOG_FORMAT", "json"),
		LogLevel:       envOr("FUSION_LOG_LEVEL", "info"),
		Workers:        envInt("FUSION_WORKERS", 0),
		ProfilePath:    os.Getenv("FUSION_PROFILE"),
		ExtractTimeout: envDuration("FUSION_EXTRACT_TIMEOUT", DefaultExtractTimeout),
		Review: ReviewConfig{
			Brokers: splitList(os.Getenv("FUSION_REVIEW_BROKERS")),
			Topic:   topic,
		},
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// envInt falls back on unset, malformed or negative values.
func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

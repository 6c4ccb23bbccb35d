package review

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer is the subset of *kgo.Client the publisher uses.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaPublisher writes tickets as JSON to the review topic, keyed by fusion
// ID so retries of one run land on one partition.
type KafkaPublisher struct {
	producer Producer
	topic    string
	logger   *slog.Logger
}

// KafkaOption configures a KafkaPublisher.
type KafkaOption func(*KafkaPublisher)

// WithKafkaLogger sets a logger for delivery reporting.
func WithKafkaLogger(logger *slog.Logger) KafkaOption {
	return func(p *KafkaPublisher) {
		p.logger = logger
	}
}

// NewKafkaPublisher creates a publisher. An empty topic uses the producer's
// default produce topic.
func NewKafkaPublisher(producer Producer, topic string, opts ...KafkaOption) *KafkaPublisher {
	p := &KafkaPublisher{
		producer: producer,
		topic:    topic,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish synchronously produces the ticket.
func (p *KafkaPublisher) Publish(ctx context.Context, ticket Ticket) error {
	value, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("encode review ticket: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(ticket.FusionID.String()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "reason", Value: []byte(ticket.Reason)},
		},
	}
	if err := p.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce review ticket %s: %w", ticket.FusionID, err)
	}

	if p.logger != nil {
		p.logger.DebugContext(ctx, "review ticket produced",
			"fusion_id", ticket.FusionID.String(),
			"topic", record.Topic,
			"partition", record.Partition,
			"offset", record.Offset,
		)
	}
	return nil
}

// LogPublisher reports tickets through the logger only. It is the fallback
// when no brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a log-only publisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the ticket at warn level.
func (p *LogPublisher) Publish(ctx context.Context, ticket Ticket) error {
	if p.logger == nil {
		return nil
	}
	p.logger.WarnContext(ctx, "expediente needs manual review",
		"fusion_id", ticket.FusionID.String(),
		"case_number", ticket.CaseNumber,
		"reason", string(ticket.Reason),
		"conflicts", ticket.Conflicts,
		"overall_confidence", ticket.OverallConfidence,
	)
	return nil
}

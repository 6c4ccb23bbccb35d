package review

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"expediente/pkg/domain"
	"expediente/pkg/platform/circuit"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		f.records = append(f.records, r)
		results = append(results, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return results
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		conflicts  int
		confidence float64
		want       Reason
	}{
		{"clean and confident", 0, 0.9, ReasonNone},
		{"exactly at threshold", 0, 0.7, ReasonNone},
		{"conflicts only", 2, 0.9, ReasonConflicts},
		{"low confidence only", 0, 0.5, ReasonLowConfidence},
		{"both", 1, 0.1, ReasonBoth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.conflicts, tt.confidence, 0.7))
		})
	}
}

func sampleTicket() Ticket {
	return Ticket{
		FusionID:          domain.NewFusionID(),
		CaseNumber:        "123/2025",
		Conflicts:         []string{"TaxID"},
		OverallConfidence: 0.66,
		Reason:            ReasonBoth,
		CreatedAt:         time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	t.Run("produces keyed json", func(t *testing.T) {
		producer := &fakeProducer{}
		pub := NewKafkaPublisher(producer, "expediente.review")
		ticket := sampleTicket()

		require.NoError(t, pub.Publish(context.Background(), ticket))

		require.Len(t, producer.records, 1)
		rec := producer.records[0]
		assert.Equal(t, "expediente.review", rec.Topic)
		assert.Equal(t, ticket.FusionID.String(), string(rec.Key))
		require.Len(t, rec.Headers, 1)
		assert.Equal(t, "reason", rec.Headers[0].Key)
		assert.Equal(t, string(ReasonBoth), string(rec.Headers[0].Value))

		var decoded Ticket
		require.NoError(t, json.Unmarshal(rec.Value, &decoded))
		assert.Equal(t, ticket, decoded)
	})

	t.Run("delivery failure is returned", func(t *testing.T) {
		broker := errors.New("broker unreachable")
		pub := NewKafkaPublisher(&fakeProducer{err: broker}, "expediente.review")

		err := pub.Publish(context.Background(), sampleTicket())
		assert.ErrorIs(t, err, broker)
	})
}

func TestLogPublisher_Publish(t *testing.T) {
	var buf bytes.Buffer
	pub := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, pub.Publish(context.Background(), sampleTicket()))
	assert.Contains(t, buf.String(), `"reason":"conflicts_and_low_confidence"`)
	assert.Contains(t, buf.String(), `"case_number":"123/2025"`)

	assert.NoError(t, NewLogPublisher(nil).Publish(context.Background(), sampleTicket()))
}

type recordingPublisher struct {
	tickets []Ticket
	err     error
}

func (p *recordingPublisher) Publish(_ context.Context, t Ticket) error {
	p.tickets = append(p.tickets, t)
	return p.err
}

func TestBreakerPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	newPublisher := func(primaryErr error) (*BreakerPublisher, *recordingPublisher, *recordingPublisher) {
		primary := &recordingPublisher{err: primaryErr}
		fallback := &recordingPublisher{}
		breaker := circuit.New("review_broker",
			circuit.WithFailureThreshold(2),
			circuit.WithCooldown(time.Minute),
			circuit.WithClock(func() time.Time { return now }),
		)
		return NewBreakerPublisher(primary, fallback, breaker, nil), primary, fallback
	}

	t.Run("healthy primary", func(t *testing.T) {
		pub, primary, fallback := newPublisher(nil)

		require.NoError(t, pub.Publish(ctx, sampleTicket()))
		assert.Len(t, primary.tickets, 1)
		assert.Empty(t, fallback.tickets)
	})

	t.Run("failure below threshold is returned", func(t *testing.T) {
		broker := errors.New("broker unreachable")
		pub, _, fallback := newPublisher(broker)

		assert.ErrorIs(t, pub.Publish(ctx, sampleTicket()), broker)
		assert.Empty(t, fallback.tickets)
	})

	t.Run("open circuit diverts to fallback", func(t *testing.T) {
		pub, primary, fallback := newPublisher(errors.New("broker unreachable"))

		_ = pub.Publish(ctx, sampleTicket())
		require.NoError(t, pub.Publish(ctx, sampleTicket()), "the opening failure is absorbed")
		require.NoError(t, pub.Publish(ctx, sampleTicket()))

		assert.Len(t, primary.tickets, 2, "no primary calls while open")
		assert.Len(t, fallback.tickets, 2)
	})
}

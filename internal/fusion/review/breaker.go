package review

import (
	"context"
	"log/slog"

	"expediente/pkg/platform/circuit"
)

// Publisher delivers review tickets.
type Publisher interface {
	Publish(ctx context.Context, ticket Ticket) error
}

// BreakerPublisher sends tickets to a primary publisher and diverts them to a
// fallback while the primary's circuit is open.
type BreakerPublisher struct {
	primary  Publisher
	fallback Publisher
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

// NewBreakerPublisher guards primary with breaker. logger may be nil.
func NewBreakerPublisher(primary, fallback Publisher, breaker *circuit.Breaker, logger *slog.Logger) *BreakerPublisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BreakerPublisher{
		primary:  primary,
		fallback: fallback,
		breaker:  breaker,
		logger:   logger,
	}
}

// Publish tries the primary when the circuit allows it. A primary failure
// that leaves the circuit open is absorbed by the fallback; one that does
// not is returned to the caller.
func (p *BreakerPublisher) Publish(ctx context.Context, ticket Ticket) error {
	if !p.breaker.Allow() {
		return p.fallback.Publish(ctx, ticket)
	}

	err := p.primary.Publish(ctx, ticket)
	if err == nil {
		if _, change := p.breaker.RecordSuccess(); change.Closed {
			p.logger.InfoContext(ctx, "review publisher circuit closed",
				"dependency", p.breaker.Name(),
			)
		}
		return nil
	}

	useFallback, change := p.breaker.RecordFailure()
	if change.Opened {
		p.logger.WarnContext(ctx, "review publisher circuit opened",
			"dependency", p.breaker.Name(),
			"error", err,
		)
	}
	if !useFallback {
		return err
	}
	return p.fallback.Publish(ctx, ticket)
}

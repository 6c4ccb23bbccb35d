// Package ports declares what the fusion service needs from the outside
// world: extractors that produce source records and a sink for review tickets.
package ports

import (
	"context"

	"expediente/internal/expediente/models"
	"expediente/internal/fusion/review"
)

// Document identifies the renditions of one expediente. Renditions maps each
// source to a locator the matching extractor understands (a path, a URI).
type Document struct {
	Reference  string
	Renditions map[models.Source]string
}

// Locator returns the rendition locator for src, "" when the document has none.
func (d Document) Locator(src models.Source) string {
	return d.Renditions[src]
}

// Extractor maps one rendition of a document into the shared record shape.
// A (nil, nil) return means the rendition is absent; an error is a failure.
type Extractor interface {
	Source() models.Source
	Extract(ctx context.Context, doc Document) (*models.Record, error)
}

// ReviewPublisher routes a fused expediente to manual adjudication.
type ReviewPublisher interface {
	Publish(ctx context.Context, ticket review.Ticket) error
}

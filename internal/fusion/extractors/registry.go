package extractors

import (
	"fmt"
	"sync"

	"expediente/internal/expediente/models"
	"expediente/internal/fusion/ports"
)

// Registry holds at most one extractor per source.
type Registry struct {
	mu         sync.RWMutex
	extractors map[models.Source]ports.Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[models.Source]ports.Extractor),
	}
}

// Register adds an extractor. A second extractor for the same source is rejected.
func (r *Registry) Register(e ports.Extractor) error {
	src := e.Source()
	if _, err := models.ParseSource(string(src)); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownSource, src)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.extractors[src]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateExtractor, src)
	}
	r.extractors[src] = e
	return nil
}

// Get returns the extractor for src.
func (r *Registry) Get(src models.Source) (ports.Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.extractors[src]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrExtractorNotFound, src)
	}
	return e, nil
}

// All returns the registered extractors in canonical source order.
func (r *Registry) All() []ports.Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ports.Extractor, 0, len(r.extractors))
	for _, src := range models.Sources {
		if e, ok := r.extractors[src]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of registered extractors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.extractors)
}

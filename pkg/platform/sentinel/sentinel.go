package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Extractors, brokers and other
// adapters return these (optionally wrapped) so the fusion service can
// classify a failure without knowing the adapter.
//
//   - ErrNotFound: the rendition or resource does not exist
//   - ErrUnavailable: a backend is temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)

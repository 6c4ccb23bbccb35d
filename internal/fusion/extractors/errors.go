package extractors

import (
	"context"
	"errors"
	"fmt"

	"expediente/internal/expediente/models"
	"expediente/pkg/platform/sentinel"
)

// ErrorCategory defines the normalized extractor failure taxonomy.
type ErrorCategory string

const (
	// ErrorTimeout indicates the extractor did not finish in time
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the rendition could not be decoded
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorNotFound indicates the rendition locator points at nothing
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorOutage indicates the extraction backend is unavailable
	ErrorOutage ErrorCategory = "outage"

	// ErrorInternal indicates an unexpected internal error
	ErrorInternal ErrorCategory = "internal"
)

// ExtractorError wraps extractor failures with normalized categorization.
type ExtractorError struct {
	Category   ErrorCategory
	Source     models.Source
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *ExtractorError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("extractor %s [%s]: %s: %v", e.Source, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("extractor %s [%s]: %s", e.Source, e.Category, e.Message)
}

// Unwrap supports error unwrapping
func (e *ExtractorError) Unwrap() error {
	return e.Underlying
}

// NewExtractorError creates a new normalized extractor error.
func NewExtractorError(category ErrorCategory, source models.Source, message string, underlying error) *ExtractorError {
	return &ExtractorError{
		Category:   category,
		Source:     source,
		Message:    message,
		Underlying: underlying,
	}
}

// GetCategory extracts the error category from an error. Uncategorized
// errors are classified from context and sentinel errors.
func GetCategory(err error) ErrorCategory {
	var ee *ExtractorError
	if errors.As(err, &ee) {
		return ee.Category
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTimeout
	case errors.Is(err, sentinel.ErrNotFound):
		return ErrorNotFound
	case errors.Is(err, sentinel.ErrUnavailable):
		return ErrorOutage
	default:
		return ErrorInternal
	}
}

// Sentinel errors for registry misuse
var (
	ErrExtractorNotFound  = errors.New("extractor not found")
	ErrDuplicateExtractor = errors.New("extractor already registered for source")
	ErrUnknownSource      = errors.New("extractor reports an unknown source")
)

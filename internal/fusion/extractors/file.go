package extractors

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"expediente/internal/expediente/models"
	"expediente/internal/expediente/wire"
	"expediente/internal/fusion/ports"
	"expediente/internal/fusion/sanitize"
)

// FileExtractor loads a record that an upstream extractor already mapped into
// the shared shape and saved as YAML or JSON.
type FileExtractor struct {
	source    models.Source
	sanitizer *sanitize.Sanitizer
	logger    *slog.Logger
}

// FileOption configures a FileExtractor.
type FileOption func(*FileExtractor)

// WithSanitizer sets the annotation set used when reading dates.
func WithSanitizer(s *sanitize.Sanitizer) FileOption {
	return func(e *FileExtractor) {
		e.sanitizer = s
	}
}

// WithLogger sets the logger that reports dates dropped as malformed.
func WithLogger(logger *slog.Logger) FileOption {
	return func(e *FileExtractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewFileExtractor creates a file-backed extractor for src.
func NewFileExtractor(src models.Source, opts ...FileOption) *FileExtractor {
	e := &FileExtractor{
		source: src,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Source implements ports.Extractor.
func (e *FileExtractor) Source() models.Source {
	return e.source
}

// Extract reads the document's rendition for this source. A document without
// that rendition yields (nil, nil).
func (e *FileExtractor) Extract(ctx context.Context, doc ports.Document) (*models.Record, error) {
	path := doc.Locator(e.source)
	if path == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, NewExtractorError(ErrorTimeout, e.source, "extraction cancelled", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewExtractorError(ErrorNotFound, e.source, "rendition file missing", err)
		}
		return nil, NewExtractorError(ErrorInternal, e.source, "read rendition file", err)
	}

	rec, dropped, err := decode(e.source, data, e.sanitizer)
	if err != nil {
		return nil, err
	}
	if len(dropped) > 0 {
		e.logger.WarnContext(ctx, "malformed dates left unset",
			"source", e.source.String(),
			"reference", doc.Reference,
			"fields", dropped,
		)
	}
	return rec, nil
}

// DecodeRecord decodes a YAML or JSON record payload with the default
// annotation set. Only an undecodable payload is an error; a malformed date
// leaves that field unset.
func DecodeRecord(src models.Source, data []byte) (*models.Record, error) {
	rec, _, err := decode(src, data, nil)
	return rec, err
}

func decode(src models.Source, data []byte, s *sanitize.Sanitizer) (*models.Record, []string, error) {
	var payload wire.RecordPayload
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, nil, NewExtractorError(ErrorBadData, src, "decode rendition", err)
	}
	rec, dropped := payload.ToRecordWith(s)
	return &rec, dropped, nil
}

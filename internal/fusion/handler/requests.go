package handler

import (
	"fmt"

	"expediente/internal/expediente/models"
	"expediente/internal/expediente/wire"
	"expediente/internal/fusion/sanitize"
	dErrors "expediente/pkg/domain-errors"
)

// maxParties bounds the party list of one source record.
const maxParties = 50

// FuseRequest is the HTTP request body for POST /fusion/expedientes.
type FuseRequest struct {
	Sources SourcesPayload `json:"sources"`
}

// SourcesPayload holds the optional per-rendition records.
type SourcesPayload struct {
	XML  *wire.RecordPayload `json:"xml"`
	OCR  *wire.RecordPayload `json:"ocr"`
	DOCX *wire.RecordPayload `json:"docx"`
}

type sourcePayload struct {
	src     models.Source
	payload *wire.RecordPayload
}

func (r *FuseRequest) payloads() []sourcePayload {
	return []sourcePayload{
		{models.SourceMarkup, r.Sources.XML},
		{models.SourceOCR, r.Sources.OCR},
		{models.SourceWord, r.Sources.DOCX},
	}
}

// Validate checks the request shape. Field values are not judged here: a
// malformed date only loses that field when the records are built.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *FuseRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	present := 0
	for _, p := range r.payloads() {
		if p.payload == nil {
			continue
		}
		if len(p.payload.Parties) > maxParties {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("sources.%s.parties must have at most %d entries", p.src, maxParties))
		}
		present++
	}

	if present == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one source record is required")
	}
	return nil
}

// Records builds the source set, reading dates with s. Dates left unset
// because they were malformed are returned as "<source>.<field>".
func (r *FuseRequest) Records(s *sanitize.Sanitizer) (models.SourceSet, []string) {
	var (
		set     models.SourceSet
		dropped []string
	)
	for _, p := range r.payloads() {
		if p.payload == nil {
			continue
		}
		rec, fields := p.payload.ToRecordWith(s)
		for _, f := range fields {
			dropped = append(dropped, p.src.String()+"."+f)
		}
		set = set.With(p.src, &rec)
	}
	return set, dropped
}

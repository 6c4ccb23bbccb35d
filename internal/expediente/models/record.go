// Package models holds the shared shape of an expediente (case file record) as
// produced by each extractor and as emitted by the fusion engine.
package models

import (
	"fmt"
	"time"
)

// Source identifies which rendition of the official document a record came from.
type Source string

const (
	SourceMarkup Source = "xml"
	SourceOCR    Source = "ocr"
	SourceWord   Source = "docx"
)

// SourceNone is the zero Source, used when no source produced a value.
const SourceNone Source = ""

// Sources lists every known source in candidate construction order.
var Sources = []Source{SourceMarkup, SourceOCR, SourceWord}

// ParseSource validates a source identifier.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceMarkup, SourceOCR, SourceWord:
		return Source(s), nil
	default:
		return SourceNone, fmt.Errorf("unknown source: %q", s)
	}
}

func (s Source) String() string {
	return string(s)
}

// RoleTitular is the role of the primary party (titleholder) of an expediente.
const RoleTitular = "Titular"

// Party is one named party of the case file.
type Party struct {
	Role            string `json:"role"`
	Name            string `json:"name"`
	PaternalSurname string `json:"paternal_surname"`
	MaternalSurname string `json:"maternal_surname"`
	TaxID           string `json:"tax_id"`
	PopulationID    string `json:"population_id"`
	Address         string `json:"address"`
}

// Record is one view of an expediente. Extractors produce it from a single
// rendition; the orchestrator produces the canonical one. A zero time.Time on a
// date field means the date is unset.
type Record struct {
	CaseNumber     string    `json:"case_number"`
	Court          string    `json:"court"`
	ProceedingType string    `json:"proceeding_type"`
	Subject        string    `json:"subject"`
	TaxID          string    `json:"tax_id"`
	Jurisdiction   string    `json:"jurisdiction"`
	Status         string    `json:"status"`
	ReceptionDate  time.Time `json:"reception_date"`
	FilingDate     time.Time `json:"filing_date"`
	DueDate        time.Time `json:"due_date"`
	Parties        []Party   `json:"parties"`
}

// PrimaryParty returns the first party, if any.
func (r *Record) PrimaryParty() (*Party, bool) {
	if r == nil || len(r.Parties) == 0 {
		return nil, false
	}
	return &r.Parties[0], true
}

// EnsurePrimaryParty returns the first party, creating it with the titleholder
// role when the list is empty.
func (r *Record) EnsurePrimaryParty() *Party {
	if len(r.Parties) == 0 {
		r.Parties = append(r.Parties, Party{Role: RoleTitular})
	}
	return &r.Parties[0]
}

// SourceSet carries the three optional extractor outputs for one expediente.
// A nil record means the source is absent (extractor failed or the rendition
// does not exist for this file), which is not an error.
type SourceSet struct {
	Markup *Record
	OCR    *Record
	Word   *Record
}

// Get returns the record for a source; nil when absent.
func (s SourceSet) Get(src Source) *Record {
	switch src {
	case SourceMarkup:
		return s.Markup
	case SourceOCR:
		return s.OCR
	case SourceWord:
		return s.Word
	default:
		return nil
	}
}

// With returns a copy of the set with the record for src replaced.
func (s SourceSet) With(src Source, record *Record) SourceSet {
	switch src {
	case SourceMarkup:
		s.Markup = record
	case SourceOCR:
		s.OCR = record
	case SourceWord:
		s.Word = record
	}
	return s
}

// Present returns the sources that carry a record, in construction order.
func (s SourceSet) Present() []Source {
	present := make([]Source, 0, len(Sources))
	for _, src := range Sources {
		if s.Get(src) != nil {
			present = append(present, src)
		}
	}
	return present
}

// Empty reports whether no source is present.
func (s SourceSet) Empty() bool {
	return len(s.Present()) == 0
}

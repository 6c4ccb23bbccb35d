// Package wire is the serialized shape of an expediente record shared by the
// HTTP API, the file extractor and the CLI. Dates travel as strings.
package wire

import (
	"fmt"
	"strings"
	"time"

	"expediente/internal/expediente/models"
	"expediente/internal/fusion/sanitize"
)

// Accepted date layouts, tried in order.
const (
	DateLayoutISO     = "2006-01-02"
	DateLayoutCompact = "20060102"
)

// PartyPayload is a serialized models.Party.
type PartyPayload struct {
	Role            string `json:"role,omitempty" yaml:"role,omitempty"`
	Name            string `json:"name,omitempty" yaml:"name,omitempty"`
	PaternalSurname string `json:"paternal_surname,omitempty" yaml:"paternal_surname,omitempty"`
	MaternalSurname string `json:"maternal_surname,omitempty" yaml:"maternal_surname,omitempty"`
	TaxID           string `json:"tax_id,omitempty" yaml:"tax_id,omitempty"`
	PopulationID    string `json:"population_id,omitempty" yaml:"population_id,omitempty"`
	Address         string `json:"address,omitempty" yaml:"address,omitempty"`
}

// RecordPayload is a serialized models.Record.
type RecordPayload struct {
	CaseNumber     string         `json:"case_number,omitempty" yaml:"case_number,omitempty"`
	Court          string         `json:"court,omitempty" yaml:"court,omitempty"`
	ProceedingType string         `json:"proceeding_type,omitempty" yaml:"proceeding_type,omitempty"`
	Subject        string         `json:"subject,omitempty" yaml:"subject,omitempty"`
	TaxID          string         `json:"tax_id,omitempty" yaml:"tax_id,omitempty"`
	Jurisdiction   string         `json:"jurisdiction,omitempty" yaml:"jurisdiction,omitempty"`
	Status         string         `json:"status,omitempty" yaml:"status,omitempty"`
	ReceptionDate  string         `json:"reception_date,omitempty" yaml:"reception_date,omitempty"`
	FilingDate     string         `json:"filing_date,omitempty" yaml:"filing_date,omitempty"`
	DueDate        string         `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	Parties        []PartyPayload `json:"parties,omitempty" yaml:"parties,omitempty"`
}

// ToRecord converts the payload with the default annotation set.
func (p RecordPayload) ToRecord() (models.Record, []string) {
	return p.ToRecordWith(nil)
}

// ToRecordWith converts the payload, sanitizing dates with s (nil means the
// default annotation set). Dates must be yyyy-MM-dd or yyyyMMdd. A date in
// neither layout leaves only that field unset, and its name is returned in
// dropped so callers can report it.
func (p RecordPayload) ToRecordWith(s *sanitize.Sanitizer) (rec models.Record, dropped []string) {
	rec = models.Record{
		CaseNumber:     p.CaseNumber,
		Court:          p.Court,
		ProceedingType: p.ProceedingType,
		Subject:        p.Subject,
		TaxID:          p.TaxID,
		Jurisdiction:   p.Jurisdiction,
		Status:         p.Status,
	}

	dates := []struct {
		name string
		raw  string
		dst  *time.Time
	}{
		{"reception_date", p.ReceptionDate, &rec.ReceptionDate},
		{"filing_date", p.FilingDate, &rec.FilingDate},
		{"due_date", p.DueDate, &rec.DueDate},
	}
	for _, d := range dates {
		t, err := ParseDateWith(s, d.raw)
		if err != nil {
			dropped = append(dropped, d.name)
			continue
		}
		*d.dst = t
	}

	for i, party := range p.Parties {
		role := strings.TrimSpace(party.Role)
		if role == "" && i == 0 {
			role = models.RoleTitular
		}
		rec.Parties = append(rec.Parties, models.Party{
			Role:            role,
			Name:            party.Name,
			PaternalSurname: party.PaternalSurname,
			MaternalSurname: party.MaternalSurname,
			TaxID:           party.TaxID,
			PopulationID:    party.PopulationID,
			Address:         party.Address,
		})
	}
	return rec, dropped
}

// FromRecord serializes a record; unset dates are omitted.
func FromRecord(r models.Record) RecordPayload {
	p := RecordPayload{
		CaseNumber:     r.CaseNumber,
		Court:          r.Court,
		ProceedingType: r.ProceedingType,
		Subject:        r.Subject,
		TaxID:          r.TaxID,
		Jurisdiction:   r.Jurisdiction,
		Status:         r.Status,
		ReceptionDate:  FormatDate(r.ReceptionDate),
		FilingDate:     FormatDate(r.FilingDate),
		DueDate:        FormatDate(r.DueDate),
	}
	for _, party := range r.Parties {
		p.Parties = append(p.Parties, PartyPayload{
			Role:            party.Role,
			Name:            party.Name,
			PaternalSurname: party.PaternalSurname,
			MaternalSurname: party.MaternalSurname,
			TaxID:           party.TaxID,
			PopulationID:    party.PopulationID,
			Address:         party.Address,
		})
	}
	return p
}

// ParseDate parses a calendar date with the default annotation set. Absent
// values yield the zero time.
func ParseDate(raw string) (time.Time, error) {
	return ParseDateWith(nil, raw)
}

// ParseDateWith parses a calendar date, treating the annotations known to s
// as absent.
func ParseDateWith(s *sanitize.Sanitizer, raw string) (time.Time, error) {
	var (
		v  string
		ok bool
	)
	if s == nil {
		v, ok = sanitize.Value(raw)
	} else {
		v, ok = s.Value(raw)
	}
	if !ok {
		return time.Time{}, nil
	}
	for _, layout := range []string{DateLayoutISO, DateLayoutCompact} {
		if len(v) != len(layout) {
			continue
		}
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: want yyyy-MM-dd or yyyyMMdd", v)
}

// FormatDate renders a date as yyyy-MM-dd, or "" when unset.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayoutISO)
}

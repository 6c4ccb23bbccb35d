package orchestrator

import (
	"time"

	"expediente/internal/expediente/models"
	"expediente/internal/fusion/validate"
)

// Scope says where in the record a field lives. The fusion loop is the same for
// every scope; only the field's read/write functions differ.
type Scope string

const (
	ScopeRecord Scope = "record"
	ScopeDate   Scope = "date"
	ScopeParty  Scope = "party"
)

// Field describes one fusable field of an expediente.
type Field struct {
	Key    string
	Scope  Scope
	Format validate.Kind
	MaxLen int

	// read extracts a source's raw value; false when the source has none.
	read func(*models.Record) (string, bool)
	// write stores a fused value into the canonical record; false when the
	// value cannot be represented (an unparseable date).
	write func(*models.Record, string) bool
}

// Matches returns the format predicate for the field.
func (f Field) Matches() validate.Func {
	return validate.For(f.Format, f.MaxLen)
}

func scalar(key string, format validate.Kind, maxLen int, at func(*models.Record) *string) Field {
	return Field{
		Key:    key,
		Scope:  ScopeRecord,
		Format: format,
		MaxLen: maxLen,
		read: func(r *models.Record) (string, bool) {
			return *at(r), true
		},
		write: func(r *models.Record, v string) bool {
			*at(r) = v
			return true
		},
	}
}

func date(key string, at func(*models.Record) *time.Time) Field {
	return Field{
		Key:    key,
		Scope:  ScopeDate,
		Format: validate.KindDate,
		read: func(r *models.Record) (string, bool) {
			t := *at(r)
			if t.IsZero() {
				return "", false
			}
			return t.Format(validate.DateLayout), true
		},
		write: func(r *models.Record, v string) bool {
			if !validate.Date(v) {
				return false
			}
			t, err := time.Parse(validate.DateLayout, v)
			if err != nil {
				return false
			}
			*at(r) = t
			return true
		},
	}
}

// party builds a primary-party field keyed "<Role>_<Field>" so it never
// collides with a top-level field of the same base name.
//
// The primary party is the first entry of each source's list, and it always
// fuses into the Titular slot whatever role the source gave it. The fused
// party is created with the Titular role too.
func party(name string, format validate.Kind, maxLen int, at func(*models.Party) *string) Field {
	return Field{
		Key:    PartyKey(models.RoleTitular, name),
		Scope:  ScopeParty,
		Format: format,
		MaxLen: maxLen,
		read: func(r *models.Record) (string, bool) {
			p, ok := r.PrimaryParty()
			if !ok {
				return "", false
			}
			return *at(p), true
		},
		write: func(r *models.Record, v string) bool {
			*at(r.EnsurePrimaryParty()) = v
			return true
		},
	}
}

// PartyKey is the report key of a nested party field.
func PartyKey(role, field string) string {
	return role + "_" + field
}

// catalogue is every fusable field, in report order.
var catalogue = []Field{
	scalar("CaseNumber", validate.KindText, 64, func(r *models.Record) *string { return &r.CaseNumber }),
	scalar("Court", validate.KindText, 200, func(r *models.Record) *string { return &r.Court }),
	scalar("ProceedingType", validate.KindText, 120, func(r *models.Record) *string { return &r.ProceedingType }),
	scalar("Subject", validate.KindText, 500, func(r *models.Record) *string { return &r.Subject }),
	scalar("TaxID", validate.KindTaxID, 0, func(r *models.Record) *string { return &r.TaxID }),
	scalar("Jurisdiction", validate.KindText, 120, func(r *models.Record) *string { return &r.Jurisdiction }),
	scalar("Status", validate.KindText, 60, func(r *models.Record) *string { return &r.Status }),

	date("ReceptionDate", func(r *models.Record) *time.Time { return &r.ReceptionDate }),
	date("FilingDate", func(r *models.Record) *time.Time { return &r.FilingDate }),
	date("DueDate", func(r *models.Record) *time.Time { return &r.DueDate }),

	party("Name", validate.KindText, 120, func(p *models.Party) *string { return &p.Name }),
	party("PaternalSurname", validate.KindText, 80, func(p *models.Party) *string { return &p.PaternalSurname }),
	party("MaternalSurname", validate.KindText, 80, func(p *models.Party) *string { return &p.MaternalSurname }),
	party("TaxID", validate.KindTaxID, 0, func(p *models.Party) *string { return &p.TaxID }),
	party("PopulationID", validate.KindPopulationID, 0, func(p *models.Party) *string { return &p.PopulationID }),
	party("Address", validate.KindText, 300, func(p *models.Party) *string { return &p.Address }),
}

// Fields returns a copy of the field catalogue.
func Fields() []Field {
	out := make([]Field, len(catalogue))
	copy(out, catalogue)
	return out
}

// scopes is the batch order; each scope is one batch of concurrent work.
var scopes = []Scope{ScopeRecord, ScopeDate, ScopeParty}

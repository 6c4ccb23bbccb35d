// Package validate classifies sanitized values as format-valid for their field
// kind. Every predicate is total: malformed input yields false, never a panic.
package validate

import (
	"regexp"
	"time"
	"unicode/utf8"
)

// Kind names the format family a field belongs to.
type Kind string

const (
	KindText         Kind = "text"
	KindTaxID        Kind = "tax_id"
	KindPopulationID Kind = "population_id"
	KindDate         Kind = "date"
)

// DateLayout is the 8-digit form dates are fused in.
const DateLayout = "20060102"

// Func reports whether a sanitized value matches a format.
type Func func(value string) bool

// yyMMdd is the birth or incorporation date embedded in tax and population IDs.
const yyMMdd = `[0-9]{2}(0[1-9]|1[0-2])(0[1-9]|[12][0-9]|3[01])`

var (
	// Individual RFC: 4 letters, yyMMdd, 3-char homoclave.
	taxIDIndividual = regexp.MustCompile(`^[A-ZÑ&]{4}` + yyMMdd + `[A-Z0-9]{3}$`)
	// Moral-entity RFC: optional padding placeholder, 3 letters, yyMMdd, homoclave.
	taxIDMoral = regexp.MustCompile(`^[_\- ]?[A-ZÑ&]{3}` + yyMMdd + `[A-Z0-9]{3}$`)

	populationID = regexp.MustCompile(
		`^[A-Z][AEIOUX][A-Z]{2}` + // surname and given-name initials
			yyMMdd +
			`[HMX]` + // sex marker
			`[A-Z]{2}` + // state of birth
			`[B-DF-HJ-NP-TV-Z]{3}` + // inner consonants
			`[A-Z0-9][0-9]$`, // disambiguator and check digit
	)
)

// TaxID reports whether v is a Mexican RFC for an individual or a moral entity
// whose date segment has a real month and a day between 01 and 31.
func TaxID(v string) bool {
	return taxIDIndividual.MatchString(v) || taxIDMoral.MatchString(v)
}

// PopulationID reports whether v is an 18-character CURP.
func PopulationID(v string) bool {
	return len(v) == 18 && populationID.MatchString(v)
}

// Date reports whether v is exactly 8 ASCII digits forming a real calendar day.
func Date(v string) bool {
	if len(v) != len(DateLayout) {
		return false
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	_, err := time.Parse(DateLayout, v)
	return err == nil
}

// Text returns a predicate accepting non-empty values of at most max runes.
// A non-positive max disables the upper bound.
func Text(max int) Func {
	return func(v string) bool {
		if v == "" {
			return false
		}
		if max <= 0 {
			return true
		}
		return utf8.RuneCountInString(v) <= max
	}
}

// For returns the predicate for a field kind. Unknown kinds fall back to an
// unbounded text check.
func For(kind Kind, max int) Func {
	switch kind {
	case KindTaxID:
		return TaxID
	case KindPopulationID:
		return PopulationID
	case KindDate:
		return Date
	default:
		return Text(max)
	}
}

// Package sanitize normalizes raw extractor strings before they may become
// fusion candidates.
//
// Sanitization is pure and total: it never panics and reports absence through
// its boolean result instead of an error. A value is absent when it is empty,
// when it is a human annotation meaning "not available" (for example
// "No se cuenta" or "N/A"), or when it is made only of placeholder characters
// such as "____" or "---".
package sanitize

import (
	"html"
	"strings"
	"unicode"

	pstrings "expediente/pkg/platform/strings"
)

// DefaultAnnotations are the "not available" markers recognized out of the box.
// Matching ignores case, accents and surrounding punctuation.
var DefaultAnnotations = []string{
	"no se cuenta",
	"no se cuenta con el dato",
	"no se cuenta con dato",
	"no se cuenta con la informacion",
	"no aplica",
	"n/a",
	"n / a",
	"n.a.",
	"na",
	"s/d",
	"sin dato",
	"sin datos",
	"sin informacion",
	"no disponible",
	"no especificado",
	"ninguno",
	"null",
	"none",
}

// Sanitizer holds the annotation set used for semantic-null detection.
type Sanitizer struct {
	annotations map[string]struct{}
}

// New builds a Sanitizer recognizing DefaultAnnotations plus extra ones.
func New(extra ...string) *Sanitizer {
	all := make([]string, 0, len(DefaultAnnotations)+len(extra))
	all = append(all, DefaultAnnotations...)
	all = append(all, extra...)

	s := &Sanitizer{annotations: make(map[string]struct{}, len(all))}
	for _, a := range pstrings.DedupeAndTrimLower(all) {
		s.annotations[foldAnnotation(a)] = struct{}{}
	}
	return s
}

var defaultSanitizer = New()

// Value sanitizes raw with the default annotation set.
func Value(raw string) (string, bool) {
	return defaultSanitizer.Value(raw)
}

// Value applies the sanitization rules in order and returns the cleaned value,
// or false when the raw value is semantically null.
func (s *Sanitizer) Value(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}

	cleaned := collapseSpace(raw)
	if cleaned == "" {
		return "", false
	}

	// &nbsp; decodes to U+00A0, so whitespace is collapsed again.
	cleaned = collapseSpace(html.UnescapeString(cleaned))
	if cleaned == "" {
		return "", false
	}

	if s.isAnnotation(cleaned) || isPlaceholder(cleaned) {
		return "", false
	}
	return cleaned, true
}

func (s *Sanitizer) isAnnotation(v string) bool {
	if s == nil {
		return false
	}
	_, ok := s.annotations[foldAnnotation(v)]
	return ok
}

// collapseSpace trims and replaces every run of whitespace (line breaks, tabs,
// non-breaking spaces) with a single ASCII space.
func collapseSpace(v string) string {
	return strings.Join(strings.FieldsFunc(v, unicode.IsSpace), " ")
}

// isPlaceholder reports values built only from filler characters, such as the
// blank underscores left by a form template or a run of X's.
func isPlaceholder(v string) bool {
	xs := 0
	for _, r := range v {
		switch r {
		case ' ', '_', '-', '.', '*', '/', '—', '–':
		case 'x', 'X':
			xs++
		default:
			return false
		}
	}
	// A lone "x" is a real (if odd) value; runs of X are template filler.
	return xs == 0 || xs > 1
}

// foldAnnotation lowercases, strips accents and trailing punctuation so that
// "No Aplica." and "no aplica" compare equal.
func foldAnnotation(v string) string {
	var b strings.Builder
	b.Grow(len(v))
	for _, r := range strings.ToLower(v) {
		b.WriteRune(unaccent(r))
	}
	return strings.TrimRight(strings.TrimSpace(b.String()), ".:;,")
}

func unaccent(r rune) rune {
	switch r {
	case 'á', 'à', 'ä', 'â':
		return 'a'
	case 'é', 'è', 'ë', 'ê':
		return 'e'
	case 'í', 'ì', 'ï', 'î':
		return 'i'
	case 'ó', 'ò', 'ö', 'ô':
		return 'o'
	case 'ú', 'ù', 'ü', 'û':
		return 'u'
	default:
		return r
	}
}

// Package domain holds identifier types shared across the fusion service.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "expediente/pkg/domain-errors"
)

// FusionID identifies one fusion run. It tags logs, metrics exemplars and
// review tickets so a reviewer can trace a ticket back to its run.
type FusionID uuid.UUID

// NewFusionID returns a fresh random FusionID.
func NewFusionID() FusionID {
	return FusionID(uuid.New())
}

// canonicalLen is the length of the hyphenated 8-4-4-4-12 form.
const canonicalLen = 36

// ParseFusionID parses a canonical UUID string. Empty, malformed and nil
// UUIDs are rejected, as are the braced and urn forms uuid.Parse tolerates.
func ParseFusionID(s string) (FusionID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FusionID{}, dErrors.New(dErrors.CodeInvalidInput, "fusion id is required")
	}
	if len(s) != canonicalLen {
		return FusionID{}, dErrors.New(dErrors.CodeInvalidInput, "fusion id must be a canonical uuid")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return FusionID{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid fusion id")
	}
	if u == uuid.Nil {
		return FusionID{}, dErrors.New(dErrors.CodeInvalidInput, "fusion id must not be nil")
	}
	return FusionID(u), nil
}

func (id FusionID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether the id is the zero value.
func (id FusionID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

// MarshalText encodes the id in canonical form.
func (id FusionID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText accepts any form ParseFusionID accepts.
func (id *FusionID) UnmarshalText(b []byte) error {
	parsed, err := ParseFusionID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	base := errors.New("boom")

	t.Run("direct", func(t *testing.T) {
		assert.True(t, HasCode(New(CodeValidation, "bad"), CodeValidation))
		assert.False(t, HasCode(New(CodeValidation, "bad"), CodeInternal))
	})

	t.Run("wrapped with fmt", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", New(CodeNotFound, "missing"))
		assert.True(t, HasCode(err, CodeNotFound))
	})

	t.Run("wrap keeps the cause", func(t *testing.T) {
		err := Wrap(base, CodeUnavailable, "extractor down")
		assert.True(t, HasCode(err, CodeUnavailable))
		assert.ErrorIs(t, err, base)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("wrap nil is nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "nothing"))
	})

	t.Run("plain error", func(t *testing.T) {
		assert.False(t, HasCode(base, CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(base))
	})
}

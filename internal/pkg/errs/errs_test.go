package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"mealorder/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("mealId", "7f0c")

		assert.Equal(t, "mealId", err.ParamName)
		assert.Equal(t, "object not found: 7f0c", err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.NewObjectNotFoundErrorWithCause("orderId", "42", cause)

		assert.Equal(t,
			"object not found: param is: orderId, ID is: 42 (cause: connection reset)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("postalCode")

		assert.Equal(t, "value is invalid: postalCode", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("with cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("postalCode", errors.New("bad format"))

		assert.Equal(t, "value is invalid: postalCode (cause: bad format)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("formats bounds", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("quantity", 0, 1, 99)

		assert.Equal(t, "value is out of range: quantity is 0, min value is 1, max value is 99", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("newlines are flattened", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("notes", "line one\nline two", 0, 10)

		assert.Contains(t, err.Error(), "line one line two")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredErrorWithCause("items", errors.New("empty order"))

	assert.Equal(t, "value is required: items (cause: empty order)", err.Error())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestIsValidation(t *testing.T) {
	assert.True(t, errs.IsValidation(errs.NewValueIsRequiredError("x")))
	assert.True(t, errs.IsValidation(fmt.Errorf("wrapped: %w", errs.NewValueIsInvalidError("x"))))
	assert.True(t, errs.IsValidation(errs.NewValueIsOutOfRangeError("x", 1, 2, 3)))
	assert.False(t, errs.IsValidation(errs.NewObjectNotFoundError("x", "1")))
}

func TestMark(t *testing.T) {
	errConflict := errors.New("conflict")

	t.Run("marked error matches the mark and keeps its message", func(t *testing.T) {
		base := errors.New("could not serialize access")
		marked := errs.Mark(base, errConflict)

		assert.True(t, errs.Is(marked, errConflict))
		assert.True(t, errs.Is(marked, base))
		assert.Equal(t, base.Error(), marked.Error())
	})

	t.Run("nil error returns the mark itself", func(t *testing.T) {
		assert.Equal(t, errConflict, errs.Mark(nil, errConflict))
	})
}

func TestWrap(t *testing.T) {
	assert.NoError(t, errs.Wrap(nil, "ignored"))

	base := errors.New("boom")
	wrapped := errs.Wrap(base, "save order")
	assert.Equal(t, "save order: boom", wrapped.Error())
	assert.True(t, errs.Is(wrapped, base))
	assert.NotEmpty(t, errs.ExtractStackLines(wrapped, 3))
}

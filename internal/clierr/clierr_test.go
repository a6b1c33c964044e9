package clierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, New(InternalError, "boom").ExitCode())
	assert.Equal(t, 1, New(TaskNotFound, "missing").ExitCode())
}

func TestHasCodeThroughWrapping(t *testing.T) {
	base := Newf(ColumnNotFound, "column %q not found", "later")
	wrapped := fmt.Errorf("adding item: %w", base)

	assert.True(t, HasCode(wrapped, ColumnNotFound))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, HasCode(wrapped, TaskNotFound))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.Equal(t, `column "later" not found`, wrapped.(interface{ Unwrap() error }).Unwrap().Error())
}

func TestWithDetails(t *testing.T) {
	err := New(InvalidInput, "bad").WithDetails(map[string]any{"field": "title"})
	assert.Equal(t, "title", err.Details["field"])
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("saving: %w", Wrap(ValidationFailed, cause))

	assert.True(t, HasCode(err, ValidationFailed))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "disk full", From(err).Message)
}

func TestFromPlainError(t *testing.T) {
	e := From(errors.New("boom"))
	assert.Equal(t, InternalError, e.Code)
	assert.Equal(t, ExitInternal, e.ExitCode())
}

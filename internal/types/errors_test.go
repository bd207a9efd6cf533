package types_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/arloliu/datauri/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	err := &types.NotFoundError{Paths: []string{"/c.png", "/app/c.png", "/app/views/c.png"}}

	assert.Equal(t, "file not found in paths: '/c.png', '/app/c.png', '/app/views/c.png'", err.Error())
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NotErrorIs(t, err, fs.ErrNotExist)

	wrapped := fmt.Errorf("render home: %w", err)
	assert.ErrorIs(t, wrapped, types.ErrNotFound)

	var target *types.NotFoundError
	assert.True(t, errors.As(wrapped, &target))
	assert.Len(t, target.Paths, 3)
}

func TestFieldError(t *testing.T) {
	inner := errors.New("invalid syntax")
	err := &types.FieldError{Path: "StrictPrefix", Tag: "env", Value: "maybe", Err: inner}

	assert.Equal(t, "field 'StrictPrefix' (tag 'env'): invalid value 'maybe': invalid syntax", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestValidationError(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		err := &types.ValidationError{}
		assert.Equal(t, "validation failed", err.Error())
		assert.NoError(t, err.Unwrap())
	})

	t.Run("single", func(t *testing.T) {
		inner := errors.New("AppRoot is required")
		err := &types.ValidationError{Errors: []error{inner}}
		assert.Equal(t, "validation failed: AppRoot is required", err.Error())
		assert.ErrorIs(t, err, inner)
	})

	t.Run("multiple", func(t *testing.T) {
		err := &types.ValidationError{Errors: []error{errors.New("a"), errors.New("b")}}
		assert.Equal(t, "validation failed:\n  - a\n  - b", err.Error())
	})
}

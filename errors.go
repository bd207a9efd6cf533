package datauri

import "github.com/arloliu/datauri/internal/types"

// ErrNotFound is matched through errors.Is by every NotFoundError.
var ErrNotFound = types.ErrNotFound

// NotFoundError reports that none of the searched paths exist.
// Paths lists the raw, app-root and view candidates in that order.
type NotFoundError = types.NotFoundError

// FieldError represents an error that occurred while processing a configuration field.
type FieldError = types.FieldError

// ValidationError wraps validation errors from the validator package.
type ValidationError = types.ValidationError

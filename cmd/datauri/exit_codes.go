package main

import (
	"errors"

	"github.com/arloliu/datauri"
)

// Exit codes for the datauri CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // All paths encoded
	ExitGeneral  = 1 // Read failure or unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitNotFound = 3 // A path was not found in any searched location
)

// exitCodeFor returns the appropriate exit code for an error.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, datauri.ErrNotFound) {
		return ExitNotFound
	}

	var verr *datauri.ValidationError
	var ferr *datauri.FieldError
	if errors.Is(err, errUsage) || errors.As(err, &verr) || errors.As(err, &ferr) {
		return ExitUsage
	}

	return ExitGeneral
}

package profile

import "strings"

// ValidationError is returned for any profile that cannot be used: a missing
// or unreadable file, a syntax error, or one or more invalid fields.
type ValidationError struct {
	// Message describes a file-level failure.
	Message string
	// Problems lists every field-level failure found in a single pass.
	Problems []string
	// Err is the underlying cause, if any.
	Err error
}

func (e *ValidationError) Error() string {
	if len(e.Problems) > 0 {
		return "profile validation failed:\n  - " + strings.Join(e.Problems, "\n  - ")
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

package query

import (
	"errors"
	"fmt"
)

// UnknownKeyError marks a request parameter that is not on the relevant
// allow-list. Filters, sorts and includes all share this one policy:
// unknown keys are rejected, never silently dropped.
type UnknownKeyError struct {
	Kind string // "filter", "sort" or "include"
	Key  string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Key)
}

// MalformedFilterError marks an allow-listed filter whose value cannot be
// interpreted, such as a date range with the wrong arity.
type MalformedFilterError struct {
	Key    string
	Reason string
}

func (e *MalformedFilterError) Error() string {
	return fmt.Sprintf("malformed filter %q: %s", e.Key, e.Reason)
}

// IsInvalid reports whether err describes a bad request parameter rather
// than an internal failure.
func IsInvalid(err error) bool {
	var unknown *UnknownKeyError
	var malformed *MalformedFilterError
	return errors.As(err, &unknown) || errors.As(err, &malformed)
}

package models

import "fmt"

// DecodeError reports a stored record that cannot be mapped back to a domain
// value: an unknown enum name or a malformed tag blob. It is fatal for the
// read that encountered it.
type DecodeError struct {
	Entity string
	Field  string
	Value  string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode %s.%s: %v", e.Entity, e.Field, e.Err)
	}
	return fmt.Sprintf("decode %s.%s: unknown value %q", e.Entity, e.Field, e.Value)
}

func (e *DecodeError) Unwrap() error { return e.Err }

package marc

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput    = errors.New("marc: invalid input")
	ErrMalformedRecord = errors.New("marc: malformed record")
	ErrInvalidPattern  = errors.New("marc: invalid field pattern")
)

// MalformedRecordError reports corrupt record data found while decoding. Offset
// is the absolute byte position in the record buffer, Key the canonical key or
// tag of the field involved (empty when the leader or directory itself is bad).
type MalformedRecordError struct {
	Offset int
	Key    string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("marc: malformed record at byte %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("marc: malformed record at byte %d, field %s: %s", e.Offset, e.Key, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

// InvalidInputError reports a Builder call rejected before any state change.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("marc: invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

func malformed(offset int, key, format string, args ...interface{}) error {
	return &MalformedRecordError{Offset: offset, Key: key, Reason: fmt.Sprintf(format, args...)}
}

func invalid(field, value, format string, args ...interface{}) error {
	return &InvalidInputError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}

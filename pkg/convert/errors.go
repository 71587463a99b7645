package convert

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrInvalidHandler is returned when registering a nil handler.
var ErrInvalidHandler = errors.New("convert: handler must be non-nil")

// ErrInvalidMatcher is returned when registering a nil matcher, a nil
// predicate, or an exact-value matcher with an uncomparable key.
var ErrInvalidMatcher = errors.New("convert: matcher must be hashable or callable")

// NoConverterFoundError is returned when no registered rule matches a
// value. It carries the value and its runtime type so callers can report
// what they were handed.
type NoConverterFoundError struct {
	Value any
	Type  reflect.Type
}

func (e *NoConverterFoundError) Error() string {
	return fmt.Sprintf("convert: no converter found for %v (%v)", e.Value, e.Type)
}

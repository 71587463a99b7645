package convert

import (
	"fmt"
	"reflect"
)

// Matcher decides whether a rule applies to an input value. The three
// variants mirror the ways a rule can be keyed: by exact value, by type
// (including interface satisfaction, so base-type handlers work), or by
// an arbitrary predicate.
type Matcher interface {
	Matches(v any) bool
	String() string
}

// ---------------------------------------------------------------------------
// Exact value
// ---------------------------------------------------------------------------

type exactValue struct {
	key any
}

// Exact returns a matcher that fires on values exactly equal to key.
// The key must be comparable; Registry.Register rejects it otherwise.
func Exact(key any) Matcher {
	return exactValue{key: key}
}

func (m exactValue) Matches(v any) (ok bool) {
	// Comparing an uncomparable value panics; treat that as non-match.
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return v == m.key
}

func (m exactValue) String() string {
	return fmt.Sprintf("exact(%v)", m.key)
}

func (m exactValue) valid() bool {
	if m.key == nil {
		return false
	}
	return reflect.TypeOf(m.key).Comparable()
}

// ---------------------------------------------------------------------------
// Type
// ---------------------------------------------------------------------------

type exactType struct {
	t reflect.Type
}

// Type returns a matcher keyed on the dynamic type of example. Pass a
// typed nil pointer or zero value, e.g. Type((*geom.Mesh)(nil)).
func Type(example any) Matcher {
	return exactType{t: reflect.TypeOf(example)}
}

// TypeOf returns a matcher keyed on a reflect.Type. If t is an interface
// type, any value implementing it matches.
func TypeOf(t reflect.Type) Matcher {
	return exactType{t: t}
}

func (m exactType) Matches(v any) bool {
	vt := reflect.TypeOf(v)
	if vt == nil {
		return false
	}
	if vt == m.t {
		return true
	}
	// Interface matchers accept any implementation, the analog of a
	// base-class handler.
	if m.t != nil && m.t.Kind() == reflect.Interface && vt.Implements(m.t) {
		return true
	}
	return false
}

func (m exactType) String() string {
	return fmt.Sprintf("type(%v)", m.t)
}

// ---------------------------------------------------------------------------
// Predicate
// ---------------------------------------------------------------------------

type predicate struct {
	fn func(any) bool
}

// Predicate returns a matcher that fires when fn returns true. A panic
// inside fn is swallowed and treated as non-match, so probing predicates
// can assume shapes without guarding every access.
func Predicate(fn func(any) bool) Matcher {
	return predicate{fn: fn}
}

func (m predicate) Matches(v any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return m.fn(v)
}

func (m predicate) String() string {
	return "predicate"
}

// Package convert maps arbitrary input data to scene primitives through a
// prioritized, extensible converter registry. Rules are tried in a fixed
// order and the first match wins; registering at the front lets callers
// override built-in conversions without touching them.
package convert

import (
	"reflect"

	"github.com/chazu/prism/pkg/color"
	"github.com/chazu/prism/pkg/scene"
)

// Handler converts one matched value into zero, one or many primitives.
// Returning an empty slice (or nil) is how handlers report degenerate
// input, e.g. a mesh with no faces; it is not an error.
type Handler func(value any, opts Options) ([]scene.Primitive, error)

// Options is the keyword configuration passed through to handlers.
type Options struct {
	// Color is the uniform color to use. The viewer injects the next
	// palette color here when the handler accepts one and the caller
	// didn't choose.
	Color *color.Color

	// Colors holds per-vertex or per-face colors for mesh handlers.
	Colors []color.Color

	// Size is the marker size for point handlers.
	Size float32

	// Width is the line width for line handlers.
	Width float32
}

// Position controls where a new rule is inserted.
type Position int

const (
	// First places the rule ahead of all existing rules, so it is tried
	// before any prior registration.
	First Position = iota
	// Last appends the rule after all existing rules.
	Last
)

// Rule is one (matcher, handler) pair in the registry.
type Rule struct {
	Matcher Matcher
	Handler Handler

	// AcceptsColor reports whether the handler honors Options.Color,
	// which tells the viewer to inject a palette color.
	AcceptsColor bool
}

// RuleOption configures a rule at registration time.
type RuleOption func(*Rule)

// AcceptsColor marks the handler as honoring Options.Color.
func AcceptsColor() RuleOption {
	return func(r *Rule) { r.AcceptsColor = true }
}

// Registry holds an ordered list of conversion rules. Order is
// semantically load-bearing: resolution scans front to back and returns
// on the first match. There is no de-duplication; registering the same
// matcher twice yields two entries with the earlier one winning.
type Registry struct {
	rules []*Rule
}

// NewRegistry returns an empty registry. Call RegisterDefaults to install
// the built-in converters.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a rule. Registration is all-or-nothing: a nil handler
// fails with ErrInvalidHandler, an invalid matcher with ErrInvalidMatcher,
// and nothing is inserted on error.
func (r *Registry) Register(m Matcher, h Handler, pos Position, opts ...RuleOption) error {
	if h == nil {
		return ErrInvalidHandler
	}
	if m == nil {
		return ErrInvalidMatcher
	}
	switch mm := m.(type) {
	case exactValue:
		if !mm.valid() {
			return ErrInvalidMatcher
		}
	case exactType:
		if mm.t == nil {
			return ErrInvalidMatcher
		}
	case predicate:
		if mm.fn == nil {
			return ErrInvalidMatcher
		}
	}

	rule := &Rule{Matcher: m, Handler: h}
	for _, opt := range opts {
		opt(rule)
	}
	if pos == First {
		r.rules = append([]*Rule{rule}, r.rules...)
	} else {
		r.rules = append(r.rules, rule)
	}
	return nil
}

// Resolve returns the first rule matching value, or nil when none does.
// Use it to check whether a value is convertible.
func (r *Registry) Resolve(value any) *Rule {
	for _, rule := range r.rules {
		if rule.Matcher.Matches(value) {
			return rule
		}
	}
	return nil
}

// MustResolve returns the first matching rule or a NoConverterFoundError
// carrying the value and its runtime type.
func (r *Registry) MustResolve(value any) (*Rule, error) {
	if rule := r.Resolve(value); rule != nil {
		return rule, nil
	}
	return nil, &NoConverterFoundError{Value: value, Type: reflect.TypeOf(value)}
}

// Convert resolves a handler for value and invokes it. Zero primitives
// out is a valid result for degenerate input.
func (r *Registry) Convert(value any, opts Options) ([]scene.Primitive, error) {
	rule, err := r.MustResolve(value)
	if err != nil {
		return nil, err
	}
	return rule.Handler(value, opts)
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	return len(r.rules)
}

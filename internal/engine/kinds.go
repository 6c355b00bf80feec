package engine

import (
	"errors"
	"fmt"
	"regexp"
)

// Kind identifies one recognized category of error text: a human-readable
// label bound to a compiled pattern. Identity is the (label, pattern) pair,
// so two kinds built from the same inputs are equal.
type Kind struct {
	label   string
	pattern *regexp.Regexp
}

// NewKind builds a Kind, validating both fields up front. An empty label or
// an uncompilable pattern is a programming error in the registry definition,
// so it surfaces immediately instead of at match time.
func NewKind(label, pattern string) (Kind, error) {
	if label == "" {
		return Kind{}, errors.New("kind label must be non-empty")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Kind{}, fmt.Errorf("kind %q pattern does not compile: %w", label, err)
	}
	return Kind{label: label, pattern: re}, nil
}

// MustKind is NewKind for fixed registry definitions; it panics on invalid input.
func MustKind(label, pattern string) Kind {
	k, err := NewKind(label, pattern)
	if err != nil {
		panic(err)
	}
	return k
}

// Label returns the human-readable category, e.g. "Resource not found".
func (k Kind) Label() string { return k.label }

// Pattern returns the compiled recognition pattern.
func (k Kind) Pattern() *regexp.Regexp { return k.pattern }

// Equal reports value equality on (label, pattern source).
func (k Kind) Equal(other Kind) bool {
	if k.label != other.label {
		return false
	}
	if k.pattern == nil || other.pattern == nil {
		return k.pattern == other.pattern
	}
	return k.pattern.String() == other.pattern.String()
}

// Canonical kind labels.
const (
	LabelArgumentRequired    = "Argument required"
	LabelCharacterNotAllowed = "Character not allowed"
	LabelCommandNotFound     = "Command not found"
	LabelResourceNotFound    = "Resource not found"
	LabelValueRequired       = "Value Required"
)

// Canonical recognition patterns. These reproduce the upstream CLI's message
// shapes; the CommandNotFound pattern matches opening and closing quotes with
// a character class because RE2 has no backreferences.
const (
	patternArgumentRequired    = `the following arguments are required`
	patternCharacterNotAllowed = `[Pp]arameter\s+'(?P<parameter>.*)'\s+.*pattern[:\s]+'(?P<regex>.*)'`
	patternCommandNotFound     = `['"](?P<subcommand>[^'"]*)['"] is not in the ['"](?P<command_group>az\s[^'"]*)['"] command group`
	patternResourceNotFound    = `(?P<resource>[A-Za-z\s]+)\s+'(?P<invalid_resource_name>.*)'\s+(?:not found|could not be found)`
	patternValueRequired       = `expected (at least)?\s?one argument`
)

// registration binds a kind to its handler.
type registration struct {
	kind   Kind
	handle HandlerFunc
}

// Registry is a fixed, ordered list of recognized kinds. Order is the match
// priority: first registered, first tried, first match wins.
type Registry struct {
	entries []registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// Register appends a kind with its handler. A zero-value kind or nil handler
// is rejected; registry construction must fail fast, never degrade silently.
func (r *Registry) Register(kind Kind, handle HandlerFunc) error {
	if kind.label == "" || kind.pattern == nil {
		return errors.New("register: kind must be constructed via NewKind")
	}
	if handle == nil {
		return fmt.Errorf("register: kind %q has no handler", kind.label)
	}
	r.entries = append(r.entries, registration{kind: kind, handle: handle})
	return nil
}

// Len returns the number of registered kinds.
func (r *Registry) Len() int { return len(r.entries) }

// Kinds returns the registered kinds in match-priority order.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.kind
	}
	return out
}

// DefaultRegistry builds the registry of the five canonical kinds in their
// fixed priority order. The order is part of the contract: ResourceNotFound
// is tried before CharacterNotAllowed, and so on.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, e := range []struct {
		kind   Kind
		handle HandlerFunc
	}{
		{MustKind(LabelResourceNotFound, patternResourceNotFound), handleResourceNotFound},
		{MustKind(LabelCharacterNotAllowed, patternCharacterNotAllowed), handleCharacterNotAllowed},
		{MustKind(LabelCommandNotFound, patternCommandNotFound), handleCommandNotFound},
		{MustKind(LabelArgumentRequired, patternArgumentRequired), handleArgumentRequired},
		{MustKind(LabelValueRequired, patternValueRequired), handleValueRequired},
	} {
		if err := r.Register(e.kind, e.handle); err != nil {
			panic(err)
		}
	}
	return r
}

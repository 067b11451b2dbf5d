// Package normalization maps loosely written configuration strings onto enum values.
package normalization

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Enum maps names onto values of T. Names match case-insensitively and
// ignore surrounding whitespace; empty input yields the fallback.
type Enum[T comparable] struct {
	values   map[string]T
	fallback T
}

// NewEnum builds an Enum from name/value pairs. Several names may share a value.
func NewEnum[T comparable](values map[string]T, fallback T) *Enum[T] {
	e := &Enum[T]{values: make(map[string]T, len(values)), fallback: fallback}
	for name, v := range values {
		e.values[key(name)] = v
	}
	return e
}

// Lookup returns the value for raw, or the fallback when raw is empty or unknown.
func (e *Enum[T]) Lookup(raw string) T {
	if v, ok := e.values[key(raw)]; ok {
		return v
	}
	return e.fallback
}

// Parse is Lookup that rejects unknown names.
func (e *Enum[T]) Parse(raw string) (T, error) {
	k := key(raw)
	if k == "" {
		return e.fallback, nil
	}
	if v, ok := e.values[k]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q, valid options: %s", raw, strings.Join(e.Names(), ", "))
}

// Names lists the accepted names, sorted.
func (e *Enum[T]) Names() []string {
	return slices.Sorted(maps.Keys(e.values))
}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Package tree defines how cost objects decompose into differentiable numeric
// children and a static auxiliary record, and how they are rebuilt from them.
//
// A decomposition is a pair:
//
//	children []float64  flat list of differentiable parameters (e.g. soft-DTW gamma)
//	aux      Aux        static configuration: kind, non-differentiated knobs and
//	                    the records of nested objects
//
// Children are laid out depth-first: a node's own children (Arity of them) come
// first, followed by the children of each nested node in order. Leaves(aux)
// returns how many children a whole subtree consumes.
//
// Aux carries YAML tags so a decomposition is also a portable configuration
// record (see cmd/otcost).
package tree

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrArity indicates that the children slice does not match the layout described by Aux.
	ErrArity = errors.New("tree: children do not match auxiliary layout")

	// ErrUnknownKind indicates that Aux.Kind is not recognized by a reconstructor.
	ErrUnknownKind = errors.New("tree: unknown kind")
)

// Decomposable is implemented by every object that can be passed through an
// enclosing differentiable pipeline as a flat parameter list.
type Decomposable interface {
	Flatten() (children []float64, aux Aux)
}

// Aux is the static auxiliary record of a decomposed object.
type Aux struct {
	Kind   string         `yaml:"kind"`
	Static map[string]any `yaml:"static,omitempty"`
	Arity  int            `yaml:"arity,omitempty"`
	Nested []Aux          `yaml:"nested,omitempty"`
}

// Leaves returns the number of children consumed by aux and all nested records.
// Complexity: O(size of the subtree).
func Leaves(aux Aux) int {
	n := aux.Arity
	for _, sub := range aux.Nested {
		n += Leaves(sub)
	}

	return n
}

// Split separates the node's own children from those of each nested record.
// Returns ErrArity when len(children) != Leaves(aux).
func Split(aux Aux, children []float64) (own []float64, nested [][]float64, err error) {
	if aux.Arity < 0 || len(children) != Leaves(aux) {
		return nil, nil, fmt.Errorf("Split(%s): want %d children, got %d: %w",
			aux.Kind, Leaves(aux), len(children), ErrArity)
	}
	own = children[:aux.Arity]
	offset := aux.Arity
	nested = make([][]float64, len(aux.Nested))
	for i, sub := range aux.Nested {
		k := Leaves(sub)
		nested[i] = children[offset : offset+k]
		offset += k
	}

	return own, nested, nil
}

// Join is the inverse of Split: it builds the flat children of a node whose own
// children are own and whose nested nodes flattened to nested.
func Join(own []float64, nested ...[]float64) []float64 {
	out := make([]float64, 0, len(own))
	out = append(out, own...)
	for _, n := range nested {
		out = append(out, n...)
	}

	return out
}

// Float reads a float knob from a static map; YAML integers are accepted.
func Float(static map[string]any, key string, def float64) float64 {
	v, ok := static[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		// YAML ".inf" decodes to float64 already; keep "inf" spelled out for hand-written maps.
		if t == "inf" || t == "+inf" {
			return math.Inf(1)
		}
	}

	return def
}

// Int reads an integer knob from a static map.
func Int(static map[string]any, key string, def int) int {
	v, ok := static[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	}

	return def
}

// Bool reads a boolean knob from a static map.
func Bool(static map[string]any, key string, def bool) bool {
	if v, ok := static[key].(bool); ok {
		return v
	}

	return def
}

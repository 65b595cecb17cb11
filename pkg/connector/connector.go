// Package connector implements deferred value binding between resources.
//
// A Connector is a thunk: at resolve time it extracts a field from a
// producing resource's output, optionally composing further attribute
// accesses (FieldConnector) or a pure computation over several upstream
// connectors (CalcConnector). Connectors are the only mechanism by which
// one resource's result feeds another resource's input.
//
// Grounded on original_source/pdep/plan.py's Connector/CalcConnector and
// utils.py's convert_something_values structural walk.
package connector

import (
	"fmt"
	"reflect"

	"github.com/amirhadar/pdep-go/pkg/perrors"
)

// Resource is the minimal surface a Connector needs from a producing
// resource. pkg/resource's resource type satisfies this implicitly, so
// this package never imports pkg/resource (which imports this package for
// the Value type), avoiding a cycle.
type Resource interface {
	Applied() bool
	Output() any
}

// Value is the common interface of FieldConnector and CalcConnector: the
// sum type the design notes call {FieldAccess(producer, path),
// Compute(args, fn)}.
type Value interface {
	// Resolve drives extraction and caches the result. Idempotent within
	// a run. Any Connector nested inside the extracted value is itself
	// resolved before Resolve returns.
	Resolve() (any, error)
	// RootProducers returns the set of Resources that ultimately feed
	// this Connector.
	RootProducers() []Resource
}

// FieldConnector extracts a named field from a producer's resolved value.
// The producer is either a Resource (root of the chain) or another
// Connector (a chained attribute access, e.g. vpc.Output().CidrBlock).
type FieldConnector struct {
	root  Resource
	chain Value
	field string

	resolved bool
	cached   any
}

// FieldAccess builds a Connector reading field from res's Output once res
// has applied.
func FieldAccess(res Resource, field string) *FieldConnector {
	return &FieldConnector{root: res, field: field}
}

// Attr composes a further field access on top of an already-built
// Connector, realizing chains written at declare time like
// vpc.Field("CidrBlock").
func Attr(chain Value, field string) *FieldConnector {
	return &FieldConnector{chain: chain, field: field}
}

func (c *FieldConnector) RootProducers() []Resource {
	if c.root != nil {
		return []Resource{c.root}
	}
	return c.chain.RootProducers()
}

func (c *FieldConnector) Resolve() (any, error) {
	if c.resolved {
		return c.cached, nil
	}

	var base any
	if c.root != nil {
		if !c.root.Applied() {
			return nil, perrors.NewInvariantViolation(
				"connector resolved before producer applied").
				WithOperation("connector.resolve")
		}
		base = c.root.Output()
	} else {
		v, err := c.chain.Resolve()
		if err != nil {
			return nil, err
		}
		base = v
	}

	val, err := getField(base, c.field)
	if err != nil {
		return nil, err
	}

	walked, err := Walk(val)
	if err != nil {
		return nil, err
	}

	c.cached = walked
	c.resolved = true
	return walked, nil
}

// constant is a Value wrapping an already-known result: useful when a
// CalcConnector's inputs mix resolved Connectors with plain literals, just
// as the original's CalcConnector arguments did.
type constant struct{ v any }

// Const wraps a literal value as a Value, so it can be passed alongside
// FieldConnectors/CalcConnectors anywhere a Value is required.
func Const(v any) Value { return constant{v: v} }

func (c constant) Resolve() (any, error)         { return Walk(c.v) }
func (c constant) RootProducers() []Resource     { return nil }

// CalcConnector is a Connector whose producer set is multiple upstream
// Connectors and whose extractor is a user-supplied pure function over
// their resolved values. The computation must be total and referentially
// transparent; the engine does not memoize across runs, only within one
// resolve.
type CalcConnector struct {
	args []Value
	fn   func(args []any) (any, error)

	resolved bool
	cached   any
}

// Calc builds a CalcConnector. fn is invoked once, with args resolved in
// order, the first time Resolve is called.
func Calc(fn func(args []any) (any, error), args ...Value) *CalcConnector {
	return &CalcConnector{fn: fn, args: args}
}

func (c *CalcConnector) RootProducers() []Resource {
	seen := make(map[Resource]struct{})
	var out []Resource
	for _, a := range c.args {
		for _, r := range a.RootProducers() {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}

func (c *CalcConnector) Resolve() (any, error) {
	if c.resolved {
		return c.cached, nil
	}
	resolved := make([]any, len(c.args))
	for i, a := range c.args {
		v, err := a.Resolve()
		if err != nil {
			return nil, err
		}
		resolved[i] = v
	}
	val, err := c.fn(resolved)
	if err != nil {
		return nil, err
	}
	walked, err := Walk(val)
	if err != nil {
		return nil, err
	}
	c.cached = walked
	c.resolved = true
	return walked, nil
}

// getField extracts a field by name from a struct, struct pointer, or
// map[string]any. This is the engine's sole "extractor" primitive; every
// FieldConnector composes on top of it.
func getField(v any, field string) (any, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, perrors.NewInvariantViolation(
				"field access %q on nil value", field)
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		fv := rv.FieldByName(field)
		if !fv.IsValid() {
			return nil, perrors.NewInvariantViolation(
				"no field %q on %s", field, rv.Type())
		}
		return fv.Interface(), nil
	case reflect.Map:
		mv := rv.MapIndex(reflect.ValueOf(field))
		if !mv.IsValid() {
			return nil, perrors.NewInvariantViolation(
				"no key %q in map", field)
		}
		return mv.Interface(), nil
	default:
		return nil, fmt.Errorf("cannot access field %q on kind %s", field, rv.Kind())
	}
}

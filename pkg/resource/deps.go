package resource

import (
	"reflect"

	"github.com/amirhadar/pdep-go/pkg/connector"
	"github.com/amirhadar/pdep-go/pkg/perrors"
)

// discoverConnectors walks v's structure and collects every connector.Value
// it meets. It does not descend past a Connector, since the value
// underneath isn't known until that Connector resolves (dependency discovery only
// requires structural reachability in the as-declared Input).
func discoverConnectors(v any, found *[]connector.Value) {
	if v == nil {
		return
	}
	if c, ok := v.(connector.Value); ok {
		*found = append(*found, c)
		return
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if !rv.IsNil() {
			discoverConnectors(rv.Elem().Interface(), found)
		}
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if !rv.Field(i).CanInterface() {
				continue
			}
			discoverConnectors(rv.Field(i).Interface(), found)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			discoverConnectors(rv.Index(i).Interface(), found)
		}
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			discoverConnectors(iter.Value().Interface(), found)
		}
	}
}

// ResolveDependencies discovers every Connector reachable from b.input and
// records a dependency edge on each one's root producer(s). Idempotent;
// called once, lazily, the first time the node is applied or destroyed.
func (b *Base[In, Out]) ResolveDependencies() error {
	if b.depsResolved {
		return nil
	}
	var found []connector.Value
	discoverConnectors(b.input, &found)

	for _, c := range found {
		for _, root := range c.RootProducers() {
			dep, ok := root.(Node)
			if !ok {
				return perrors.NewInvariantViolation(
					"connector root producer does not implement resource.Node").
					WithOperation("resolve_dependencies")
			}
			b.dependOn(dep)
		}
	}
	b.depsResolved = true
	return nil
}

// Package registry hosts external resource adapters compiled to WASM: a
// resource.Adapter implementation that lives outside this binary, loaded
// from a manifest (gopkg.in/yaml.v3) and run inside a tetratelabs/wazero
// sandbox rather than linked in as Go code.
//
// Narrowed from an eight-operation provider contract (init/read/plan/
// apply/destroy/validate/schema/metadata) down to the four operations
// resource.Adapter actually needs (create/update/is_drifted/destroy):
// ClassTag and CreateBeforeDestroy are static manifest fields, not WASM
// calls, since the engine needs them before a module is even instantiated.
package registry

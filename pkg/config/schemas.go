package config

import (
	"context"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// SchemaRegistry manages CUE schemas used to validate declared plans and
// resources ahead of decoding them into Go structs.
type SchemaRegistry struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
	mu      sync.RWMutex
}

// NewSchemaRegistry creates a new schema registry with the built-in
// resource/plan schemas registered.
func NewSchemaRegistry() *SchemaRegistry {
	sr := &SchemaRegistry{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
	sr.registerBuiltInSchemas()
	return sr
}

func (sr *SchemaRegistry) registerBuiltInSchemas() {
	sr.RegisterSchema("resource", builtinResourceSchema)
	sr.RegisterSchema("plan", builtinPlanSchema)
}

// RegisterSchema registers a CUE schema with the given name. Adapter
// packages may register their own Input schemas here (keyed by class tag)
// so declared configuration is validated before it ever reaches Create.
func (sr *SchemaRegistry) RegisterSchema(name, schema string) error {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	val := sr.ctx.CompileString(schema)
	if err := val.Err(); err != nil {
		return fmt.Errorf("compile schema %s: %w", name, err)
	}
	sr.schemas[name] = val
	return nil
}

// GetSchema retrieves a schema by name.
func (sr *SchemaRegistry) GetSchema(name string) (cue.Value, bool) {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	val, ok := sr.schemas[name]
	return val, ok
}

// ValidateAgainstSchema validates data against a named schema by unifying
// its CUE encoding with the schema and checking the result is concrete.
func (sr *SchemaRegistry) ValidateAgainstSchema(ctx context.Context, schemaName string, data interface{}) error {
	schema, ok := sr.GetSchema(schemaName)
	if !ok {
		return fmt.Errorf("schema %s not found", schemaName)
	}

	dataVal := sr.ctx.Encode(data)
	if err := dataVal.Err(); err != nil {
		return fmt.Errorf("encode data: %w", err)
	}

	unified := schema.Unify(dataVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// ListSchemas returns all registered schema names.
func (sr *SchemaRegistry) ListSchemas() []string {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	names := make([]string, 0, len(sr.schemas))
	for name := range sr.schemas {
		names = append(names, name)
	}
	return names
}

const builtinResourceSchema = `
#Resource: {
	path:       string & =~"^[a-zA-Z0-9_-]+$"
	class_tag:  string & =~"^[a-zA-Z0-9_.]+$"
	input:      {...}
	depends_on?: [...string]
}
#Resource
`

const builtinPlanSchema = `
#Resource: {
	path:       string & =~"^[a-zA-Z0-9_-]+$"
	class_tag:  string & =~"^[a-zA-Z0-9_.]+$"
	input:      {...}
	depends_on?: [...string]
}
#Plan: {
	class_tag: string & =~"^[a-zA-Z0-9_.]+$"
	resources: [...#Resource]
}
#Plan
`

// ValidateResource validates a declared resource against the built-in
// resource schema.
func (sr *SchemaRegistry) ValidateResource(ctx context.Context, resource ResourceDecl) error {
	return sr.ValidateAgainstSchema(ctx, "resource", resource)
}

// ValidatePlan validates a declared plan against the built-in plan schema.
func (sr *SchemaRegistry) ValidatePlan(ctx context.Context, plan PlanDecl) error {
	return sr.ValidateAgainstSchema(ctx, "plan", plan)
}

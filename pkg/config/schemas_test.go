package config

import (
	"context"
	"testing"
)

func TestSchemaRegistry_RegisterAndGet(t *testing.T) {
	sr := NewSchemaRegistry()

	customSchema := `
#CustomType: {
	field1: string
	field2: int
}
`

	if err := sr.RegisterSchema("custom", customSchema); err != nil {
		t.Fatalf("failed to register schema: %v", err)
	}

	schema, ok := sr.GetSchema("custom")
	if !ok {
		t.Fatal("expected to find custom schema")
	}
	if schema.Err() != nil {
		t.Errorf("schema has errors: %v", schema.Err())
	}
}

func TestSchemaRegistry_BuiltInSchemas(t *testing.T) {
	sr := NewSchemaRegistry()

	for _, name := range []string{"resource", "plan"} {
		t.Run(name, func(t *testing.T) {
			schema, ok := sr.GetSchema(name)
			if !ok {
				t.Fatalf("built-in schema %s not found", name)
			}
			if schema.Err() != nil {
				t.Errorf("built-in schema %s has errors: %v", name, schema.Err())
			}
		})
	}
}

func TestSchemaRegistry_ValidateResource(t *testing.T) {
	sr := NewSchemaRegistry()
	ctx := context.Background()

	tests := []struct {
		name     string
		resource ResourceDecl
		wantErr  bool
	}{
		{
			name: "valid resource",
			resource: ResourceDecl{
				Path:     "vpc",
				ClassTag: "aws.Vpc",
				Input:    []byte(`{"cidr_block":"10.0.0.0/16"}`),
			},
			wantErr: false,
		},
		{
			name: "invalid resource - bad path",
			resource: ResourceDecl{
				Path:     "invalid path with spaces",
				ClassTag: "aws.Vpc",
				Input:    []byte(`{}`),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sr.ValidateResource(ctx, tt.resource)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestSchemaRegistry_ValidatePlan(t *testing.T) {
	sr := NewSchemaRegistry()
	ctx := context.Background()

	tests := []struct {
		name    string
		plan    PlanDecl
		wantErr bool
	}{
		{
			name: "valid plan",
			plan: PlanDecl{
				ClassTag: "demo.Net",
				Resources: []ResourceDecl{
					{Path: "vpc", ClassTag: "aws.Vpc", Input: []byte(`{"cidr_block":"10.0.0.0/16"}`)},
				},
			},
			wantErr: false,
		},
		{
			name:    "invalid plan - missing class tag",
			plan:    PlanDecl{Resources: []ResourceDecl{}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sr.ValidatePlan(ctx, tt.plan)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestSchemaRegistry_ListSchemas(t *testing.T) {
	sr := NewSchemaRegistry()

	schemas := sr.ListSchemas()
	if len(schemas) < 2 {
		t.Errorf("expected at least 2 schemas, got %d", len(schemas))
	}

	expected := map[string]bool{"resource": false, "plan": false}
	for _, schema := range schemas {
		if _, exists := expected[schema]; exists {
			expected[schema] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("expected built-in schema %s not found", name)
		}
	}
}

func TestSchemaRegistry_InvalidSchema(t *testing.T) {
	sr := NewSchemaRegistry()

	err := sr.RegisterSchema("invalid", "this is not valid CUE syntax")
	if err == nil {
		t.Error("expected error when registering invalid schema")
	}
}

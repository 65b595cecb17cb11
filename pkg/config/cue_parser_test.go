package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCUEParser_ParseInline(t *testing.T) {
	parser := NewCUEParser()
	ctx := context.Background()

	tests := []struct {
		name      string
		content   string
		wantErr   bool
		checkFunc func(*testing.T, *ParsedConfig)
	}{
		{
			name: "valid simple plan",
			content: `
plan: {
	class_tag: "demo.Net"
	resources: [{
		path:      "vpc"
		class_tag: "aws.Vpc"
		input: {cidr_block: "10.0.0.0/16"}
	}]
}
`,
			wantErr: false,
			checkFunc: func(t *testing.T, pc *ParsedConfig) {
				if pc.Plan.ClassTag != "demo.Net" {
					t.Errorf("expected class tag demo.Net, got %s", pc.Plan.ClassTag)
				}
				if len(pc.Plan.Resources) != 1 {
					t.Fatalf("expected 1 resource, got %d", len(pc.Plan.Resources))
				}
				if pc.Plan.Resources[0].ClassTag != "aws.Vpc" {
					t.Errorf("expected class tag aws.Vpc, got %s", pc.Plan.Resources[0].ClassTag)
				}
			},
		},
		{
			name: "invalid CUE syntax",
			content: `
plan: {
	class_tag: "demo.Net"
	invalid syntax here
}
`,
			wantErr: true,
		},
		{
			name: "missing required field",
			content: `
plan: {
	resources: [{
		class_tag: "aws.Vpc"
		input: {}
	}]
}
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc, err := parser.ParseInline(ctx, tt.content)

			if tt.wantErr {
				if err == nil && len(pc.Errors) == 0 {
					t.Errorf("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if len(pc.Errors) > 0 {
				t.Errorf("unexpected validation errors: %v", pc.Errors)
			}
			if tt.checkFunc != nil {
				tt.checkFunc(t, pc)
			}
		})
	}
}

func TestCUEParser_ParseFile(t *testing.T) {
	parser := NewCUEParser()
	ctx := context.Background()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.cue")

	content := `
plan: {
	class_tag: "demo.Net"
	resources: [{
		path:      "vpc"
		class_tag: "aws.Vpc"
		input: {cidr_block: "10.0.0.0/16"}
	}, {
		path:      "subnet"
		class_tag: "aws.Subnet"
		input: {vpc_id: "placeholder"}
		depends_on: ["vpc"]
	}]
}
`

	if err := os.WriteFile(testFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	pc, err := parser.Parse(ctx, []string{testFile})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pc.Errors) > 0 {
		t.Fatalf("unexpected validation errors: %v", pc.Errors)
	}

	if len(pc.Plan.Resources) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(pc.Plan.Resources))
	}
	subnet := pc.Plan.Resources[1]
	if subnet.Path != "subnet" {
		t.Errorf("expected path 'subnet', got %s", subnet.Path)
	}
	if len(subnet.DependsOn) != 1 || subnet.DependsOn[0] != "vpc" {
		t.Errorf("expected depends_on [vpc], got %v", subnet.DependsOn)
	}
}

func TestCUEParser_LoadFromDirectory(t *testing.T) {
	parser := NewCUEParser()

	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "a.cue"), []byte("plan: {}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "b.txt"), []byte("not cue"), 0644); err != nil {
		t.Fatal(err)
	}

	files, err := parser.LoadFromDirectory(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "a.cue" {
		t.Errorf("expected [a.cue], got %v", files)
	}
}

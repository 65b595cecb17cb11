package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"github.com/go-playground/validator/v10"
)

// CUEParser parses and validates CUE plan declarations: an alternative,
// optional entry point to building a Plan's Input, alongside the primary
// path of constructing it directly in Go (pkg/plan's AddChild/SetOutput
// calls). Nothing here resolves Connectors or touches the engine directly —
// a CUEParser only produces a ParsedConfig, which a caller decodes into
// typed adapter Input records and wires into Plan/resource construction.
type CUEParser struct {
	ctx            *cue.Context
	schemaRegistry *SchemaRegistry
	validator      *validator.Validate
}

// NewCUEParser creates a new CUE parser.
func NewCUEParser() *CUEParser {
	return &CUEParser{
		ctx:            cuecontext.New(),
		schemaRegistry: NewSchemaRegistry(),
		validator:      validator.New(),
	}
}

// Parse parses CUE configuration from the given sources (files or
// directories) and decodes the declared plan.
func (cp *CUEParser) Parse(ctx context.Context, sources []string) (*ParsedConfig, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources provided")
	}

	var cueValue cue.Value
	var sourceFiles []string
	var parseErrors []ValidationError

	for _, source := range sources {
		info, err := os.Stat(source)
		if err != nil {
			return nil, fmt.Errorf("stat source %s: %w", source, err)
		}

		var val cue.Value
		var errs []ValidationError
		var files []string
		if info.IsDir() {
			val, files, errs = cp.loadDirectory(source)
		} else {
			val, errs = cp.loadFile(source)
			files = []string{source}
		}

		if len(errs) > 0 {
			parseErrors = append(parseErrors, errs...)
		}
		if val.Exists() {
			if cueValue.Exists() {
				cueValue = cueValue.Unify(val)
			} else {
				cueValue = val
			}
		}
		sourceFiles = append(sourceFiles, files...)
	}

	if len(parseErrors) > 0 {
		return &ParsedConfig{SourceFiles: sourceFiles, ParsedAt: time.Now(), Errors: parseErrors}, nil
	}

	if err := cueValue.Err(); err != nil {
		return &ParsedConfig{
			SourceFiles: sourceFiles,
			ParsedAt:    time.Now(),
			Errors:      cp.convertCUEErrors(err),
		}, nil
	}

	return cp.extractConfig(cueValue, sourceFiles)
}

// ParseInline parses inline CUE content, for tests and embedded defaults.
func (cp *CUEParser) ParseInline(ctx context.Context, content string) (*ParsedConfig, error) {
	val := cp.ctx.CompileString(content)
	if err := val.Err(); err != nil {
		return &ParsedConfig{
			SourceFiles: []string{"inline"},
			ParsedAt:    time.Now(),
			Errors:      cp.convertCUEErrors(err),
		}, nil
	}
	return cp.extractConfig(val, []string{"inline"})
}

func (cp *CUEParser) loadDirectory(dir string) (cue.Value, []string, []ValidationError) {
	buildInstances := load.Instances([]string{dir}, nil)
	if len(buildInstances) == 0 {
		return cue.Value{}, nil, []ValidationError{{File: dir, Message: "no CUE files found", Severity: "error"}}
	}

	inst := buildInstances[0]
	if inst.Err != nil {
		return cue.Value{}, nil, cp.convertCUEErrors(inst.Err)
	}

	val := cp.ctx.BuildInstance(inst)
	if err := val.Err(); err != nil {
		return cue.Value{}, nil, cp.convertCUEErrors(err)
	}

	var files []string
	for _, file := range inst.Files {
		if file.Filename != "" {
			files = append(files, file.Filename)
		}
	}
	return val, files, nil
}

func (cp *CUEParser) loadFile(path string) (cue.Value, []ValidationError) {
	content, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, []ValidationError{{File: path, Message: fmt.Sprintf("read file: %v", err), Severity: "error"}}
	}
	val := cp.ctx.CompileString(string(content), cue.Filename(path))
	if err := val.Err(); err != nil {
		return cue.Value{}, cp.convertCUEErrors(err)
	}
	return val, nil
}

// extractConfig decodes the "plan" field of val into a PlanDecl, validating
// each resource's struct tags as it goes.
func (cp *CUEParser) extractConfig(val cue.Value, sourceFiles []string) (*ParsedConfig, error) {
	parsed := &ParsedConfig{SourceFiles: sourceFiles, ParsedAt: time.Now()}

	planVal := val.LookupPath(cue.ParsePath("plan"))
	if !planVal.Exists() {
		parsed.Errors = append(parsed.Errors, ValidationError{
			Path: "plan", Message: "no top-level \"plan\" field", Severity: "error",
		})
		return parsed, nil
	}

	var plan PlanDecl
	if err := planVal.Decode(&plan); err != nil {
		parsed.Errors = append(parsed.Errors, ValidationError{
			Path: "plan", Message: fmt.Sprintf("decode plan: %v", err), Severity: "error",
		})
		return parsed, nil
	}

	for i, res := range plan.Resources {
		if err := cp.validator.Struct(res); err != nil {
			parsed.Errors = append(parsed.Errors, ValidationError{
				Path:     fmt.Sprintf("plan.resources[%d]", i),
				Message:  err.Error(),
				Severity: "error",
			})
		}
	}

	parsed.Plan = plan
	return parsed, nil
}

func (cp *CUEParser) convertCUEErrors(err error) []ValidationError {
	var out []ValidationError
	for _, e := range errors.Errors(err) {
		pos := errors.Positions(e)
		var file string
		var line, column int
		if len(pos) > 0 {
			file = pos[0].Filename()
			line = pos[0].Line()
			column = pos[0].Column()
		}
		out = append(out, ValidationError{
			File: file, Line: line, Column: column,
			Message: errors.Details(e, nil), Severity: "error",
		})
	}
	return out
}

// ValidateWithSchema validates data against a named registered schema.
func (cp *CUEParser) ValidateWithSchema(ctx context.Context, data interface{}, schemaName string) error {
	return cp.schemaRegistry.ValidateAgainstSchema(ctx, schemaName, data)
}

// SchemaRegistry returns the parser's schema registry, so callers can
// register adapter-specific Input schemas before parsing.
func (cp *CUEParser) SchemaRegistry() *SchemaRegistry {
	return cp.schemaRegistry
}

// LoadFromDirectory lists every .cue file under dir, for callers building a
// source list to hand to Parse.
func (cp *CUEParser) LoadFromDirectory(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".cue") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return files, nil
}

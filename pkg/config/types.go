package config

import (
	"encoding/json"
	"time"
)

// ResourceDecl is a single resource declaration decoded from CUE: a class
// tag naming a registered adapter, the path segment it will be added under
// within its owning plan, and its Input record as a generic JSON document
// (decoded into the adapter's typed Input by the caller, which knows the
// concrete Go type; this package only carries the untyped tree).
type ResourceDecl struct {
	// Path is the path segment this resource is added under (Plan.AddChild's
	// pathSegment argument).
	Path string `json:"path" validate:"required"`

	// ClassTag names the adapter class (resource.Adapter.ClassTag()) this
	// declaration constructs.
	ClassTag string `json:"class_tag" validate:"required"`

	// Input is the resource's declared input fields, decoded later into the
	// adapter's typed In record.
	Input json.RawMessage `json:"input" validate:"required"`

	// DependsOn lists path segments (within the same plan) this resource
	// depends on beyond what connectors in Input already discover
	// structurally — an explicit ordering hint for inputs that reference an
	// upstream value by name rather than connector (e.g. when authored by
	// hand rather than generated).
	DependsOn []string `json:"depends_on,omitempty"`
}

// PlanDecl is a declared plan: its own class tag and the resources
// registered under it. Nesting further plans is left to Go construction
// (pkg/plan.Plan is itself a resource.Node and can be AddChild-ed), so a
// PlanDecl is intentionally flat.
type PlanDecl struct {
	ClassTag  string         `json:"class_tag" validate:"required"`
	Resources []ResourceDecl `json:"resources"`
}

// ParsedConfig is the result of parsing one or more CUE sources: the
// declared plan plus bookkeeping about where it came from and what, if
// anything, went wrong along the way.
type ParsedConfig struct {
	Plan PlanDecl `json:"plan"`

	SourceFiles []string          `json:"source_files"`
	ParsedAt    time.Time         `json:"parsed_at"`
	Errors      []ValidationError `json:"errors,omitempty"`
}

// ValidationError carries a parse or validation failure with enough
// location information to point a user at the offending CUE source.
type ValidationError struct {
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity" validate:"required,oneof=error warning info"`
}

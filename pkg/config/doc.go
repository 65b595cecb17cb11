// Package config provides CUE-based parsing of declarative plan
// configuration — an alternative, optional entry point to constructing a
// Plan's Input, alongside the primary path of building it directly in Go
// (pkg/plan's AddChild/SetOutput calls).
//
// # Overview
//
// A CUE document declares a single top-level "plan" field naming the
// plan's class tag and listing its resources (each a path segment, a class
// tag naming a registered adapter, and an Input record). CUEParser parses
// one or more such documents, validates every resource's struct tags, and
// returns a ParsedConfig a caller can decode into the adapter's typed Input
// records and feed into Plan construction.
//
// # Schema validation
//
// SchemaRegistry holds CUE schemas — the built-in "resource" and "plan"
// shapes, plus whatever per-class-tag Input schemas an adapter package
// registers — so malformed declarations are caught before any adapter's
// Create runs.
//
// # Example
//
//	parser := config.NewCUEParser()
//	pc, err := parser.Parse(ctx, []string{"net.cue"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range pc.Plan.Resources {
//	    // decode r.Input into the adapter's typed In record by r.ClassTag
//	}
package config

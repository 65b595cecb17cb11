package resource

import (
	"context"

	"github.com/google/uuid"
)

// Adapter is the surface a concrete resource type (one per cloud object
// type) implements. The engine calls exactly these methods, each
// documented below.
type Adapter[In any, Out any] interface {
	// ClassTag is the stable string identifying this adapter, persisted in
	// every envelope it writes so the engine can reconstruct a resource of
	// this class for deferred destroy without the declaring program.
	ClassTag() string

	// CreateBeforeDestroy reports this adapter's replace policy: when
	// true, a replace creates the new instance and defers destruction of
	// the old one; when false, the old instance is destroyed inline
	// before the new one is created.
	CreateBeforeDestroy() bool

	// Create provisions the resource and returns its output. Must be
	// idempotent under dry-run: when dry is true, Create must not mutate
	// remote state and should fabricate plausible sentinel outputs so
	// downstream Connectors resolve.
	Create(ctx context.Context, p Provider, applyUUID uuid.UUID, dry bool, input In) (Out, error)

	// Update attempts an in-place update from prevInput/prevOutput to
	// input. Returns ok=true if the in-place update succeeded (with the
	// new output), or ok=false to signal the engine must replace instead.
	Update(ctx context.Context, p Provider, applyUUID uuid.UUID, dry bool, prevInput, input In, prevOutput Out) (out Out, ok bool, err error)

	// IsDrifted reports whether the remote object no longer matches
	// output. A NotFound-class error means the object was deleted
	// externally and must be treated as drift.
	IsDrifted(ctx context.Context, p Provider, dry bool, input In, output Out) (bool, error)

	// Destroy tears down the remote object. A NotFound-class error is
	// swallowed by the engine: the object is already gone.
	Destroy(ctx context.Context, p Provider, applyUUID uuid.UUID, dry bool, prevInput In, output Out) error
}

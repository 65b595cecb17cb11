package state

import (
	"context"

	"github.com/google/uuid"
)

// Store is the contract the engine requires of a state backend: exactly
// five operations. from_pending=true on Get/Delete routes
// the call against the pending-destroy collection, keyed by the envelope's
// uuid field, instead of the main envelope collection.
//
// Durability contract: each mutating call must be individually durable
// before returning, so a crash mid-apply never leaves an envelope
// referencing resources the cloud has already created without a
// corresponding state entry (except for the interval strictly inside the
// adapter call itself).
type Store interface {
	// Get returns the envelope for id, or ok=false if absent.
	Get(ctx context.Context, id uuid.UUID, fromPending bool) (env *Envelope, ok bool, err error)

	// Put upserts env, keyed by env.UUID.
	Put(ctx context.Context, env *Envelope) error

	// Delete removes the envelope for id.
	Delete(ctx context.Context, id uuid.UUID, fromPending bool) error

	// MarkDestroy appends env to the pending-destroy FIFO.
	MarkDestroy(ctx context.Context, env *Envelope) error

	// ListPendingDestroy returns a snapshot of the pending-destroy
	// collection in insertion (oldest-first) order. Callers that need to
	// drain LIFO reverse the slice themselves.
	ListPendingDestroy(ctx context.Context) ([]*Envelope, error)
}

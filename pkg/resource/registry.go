package resource

import (
	"sync"

	"github.com/amirhadar/pdep-go/pkg/perrors"
	"github.com/amirhadar/pdep-go/pkg/state"
)

// Constructor reconstructs a Node of a given class purely from a persisted
// envelope, for draining a pending-destroy entry without the declaring
// program. Class tags are the stable identifiers
// persisted in envelopes, not source-language class paths.
type Constructor func(env *state.Envelope) (Node, error)

var classRegistry = struct {
	mu sync.RWMutex
	m  map[string]Constructor
}{m: make(map[string]Constructor)}

// RegisterClass associates a class tag with a Constructor. Adapter
// packages call this from an init() so the orchestrator's pending-destroy
// drain can reconstruct any previously-declared resource class.
func RegisterClass(classTag string, ctor Constructor) {
	classRegistry.mu.Lock()
	defer classRegistry.mu.Unlock()
	classRegistry.m[classTag] = ctor
}

// LookupClass returns the Constructor registered for classTag.
func LookupClass(classTag string) (Constructor, bool) {
	classRegistry.mu.RLock()
	defer classRegistry.mu.RUnlock()
	ctor, ok := classRegistry.m[classTag]
	return ctor, ok
}

// UnknownClassTagError builds the InvariantViolation raised when a
// pending-destroy entry references a class tag with no registered
// Constructor.
func UnknownClassTagError(classTag string) error {
	return perrors.NewInvariantViolation("pending-destroy references unknown class tag %q", classTag).
		WithOperation("drain_pending_destroy")
}

package resource

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirhadar/pdep-go/pkg/state"
)

// Node is the non-generic surface the plan/orchestrator layer drives: the
// dependency graph, apply/destroy traversal, and envelope I/O operate on
// Nodes rather than on Base[In, Out] directly, since a Plan's children have
// heterogeneous Input/Output types. Every *Base[In, Out] satisfies Node.
//
// Grounded on original_source/pdep/plan.py's BaseBaseResource, whose
// apply()/destroy() recursion this interface exists to make possible
// across resources of different generic instantiations.
type Node interface {
	UUID() uuid.UUID
	ClassTag() string
	Path() string
	Applied() bool
	Output() any

	// ResetApplied clears the per-run applied flag; called recursively at
	// the start of every top-level apply/destroy.
	ResetApplied()

	Dependencies() []Node
	Dependents() []Node

	// dependOn records that the receiver waits on dep, and registers the
	// receiver as one of dep's dependents (the inverse edge).
	dependOn(dep Node)

	// setContext is called once by the owning Plan during init_resources:
	// it fixes this node's uuid/path and records its plan lineage.
	setContext(id uuid.UUID, path string, planUUID uuid.UUID, planClassTag string, rootPlanUUID uuid.UUID, rootPlanClassTag string)

	SystemTags() SystemTags

	// Apply runs the default apply algorithm against this
	// node, recursing into dependencies first.
	Apply(ctx context.Context, store state.Store, provider Provider, applyUUID uuid.UUID, dry, checkDrift bool) error

	// addDependent registers n as depending on the receiver (the inverse
	// of dependOn). Unexported: called only from dependOn, within this
	// package.
	addDependent(n Node)

	// Destroy tears the node down. When fromDeleted is true (draining a
	// pending-destroy entry, or a leaf reached via such a drain) the
	// dependents traversal is skipped and the node operates directly on
	// the persisted envelope/prevInput passed to it.
	Destroy(ctx context.Context, store state.Store, provider Provider, applyUUID uuid.UUID, dry, fromDeleted bool) error
}

// SetChildContext fixes a child node's uuid/path/plan lineage. Exported as
// a function (rather than a Node method) so pkg/plan can drive
// construction-time wiring while setContext itself stays unexported to this
// package.
func SetChildContext(n Node, id uuid.UUID, path string, planUUID uuid.UUID, planClassTag string, rootPlanUUID uuid.UUID, rootPlanClassTag string) {
	n.setContext(id, path, planUUID, planClassTag, rootPlanUUID, rootPlanClassTag)
}

// SystemTags are the identity tags the engine exposes to adapters on
// apply, for attaching to remote objects so external drift checks can
// correlate remote objects to state envelopes.
type SystemTags struct {
	UUID             uuid.UUID
	PlanUUID         *uuid.UUID
	ClassTag         string
	PlanClassTag     string
	RootPlanUUID     uuid.UUID
	RootPlanClassTag string
}

// AsMap renders tags the way adapters typically attach them to remote
// objects (e.g. AWS resource tags).
func (t SystemTags) AsMap() map[string]string {
	m := map[string]string{
		"pdep:uuid":      t.UUID.String(),
		"pdep:class":     t.ClassTag,
		"pdep:root-plan":  t.RootPlanUUID.String(),
		"pdep:root-class": t.RootPlanClassTag,
	}
	if t.PlanUUID != nil {
		m["pdep:plan-uuid"] = t.PlanUUID.String()
	}
	if t.PlanClassTag != "" {
		m["pdep:plan-class"] = t.PlanClassTag
	}
	return m
}

// Package plan implements the composite Resource that owns a tree of child
// resources, derives their identities deterministically, and coordinates
// their ordered reconciliation.
//
// Grounded on original_source/pdep/plan.py's BasePlan/sub_uuid and
// DynamicDataContainer, generalized to an explicit ordered mapping.
package plan

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/connector"
	"github.com/amirhadar/pdep-go/pkg/perrors"
	"github.com/amirhadar/pdep-go/pkg/resource"
	"github.com/amirhadar/pdep-go/pkg/state"
)

// SubUUID derives a deterministic child identity from its parent's uuid,
// its adapter class name, and its path segment within the parent: MD5 over
// the UTF-8 bytes of "<parent_uuid>.<child_class_name>.<path_segment>",
// reinterpreted as a 128-bit UUID.
func SubUUID(parentUUID uuid.UUID, classTag, pathSegment string) uuid.UUID {
	sum := md5.Sum([]byte(fmt.Sprintf("%s.%s.%s", parentUUID, classTag, pathSegment)))
	id, _ := uuid.FromBytes(sum[:])
	return id
}

// planAdapter is the trivial Adapter a Plan installs into its embedded
// Base purely for bookkeeping purposes (identity, dependency tracking,
// envelope shape). Plan.Apply implements the composite semantics directly
// and never calls through to Base.Apply, so Create, Update and IsDrifted are
// never invoked; Plan.Destroy ends in Base.Destroy, which calls this
// adapter's no-op Destroy.
type planAdapter[In any, Out any] struct {
	classTag string
}

func (planAdapter[In, Out]) CreateBeforeDestroy() bool { return false }
func (p planAdapter[In, Out]) ClassTag() string        { return p.classTag }

func (planAdapter[In, Out]) Create(context.Context, resource.Provider, uuid.UUID, bool, In) (Out, error) {
	var zero Out
	return zero, nil
}

func (planAdapter[In, Out]) Update(context.Context, resource.Provider, uuid.UUID, bool, In, In, Out) (Out, bool, error) {
	var zero Out
	return zero, true, nil
}

func (planAdapter[In, Out]) IsDrifted(context.Context, resource.Provider, bool, In, Out) (bool, error) {
	return false, nil
}

func (planAdapter[In, Out]) Destroy(context.Context, resource.Provider, uuid.UUID, bool, In, Out) error {
	return nil
}

// Plan is a composite Resource: it has its own typed Input/Output and uuid
// (via the embedded Base), plus an ordered set of children. Nesting to any
// depth is supported, since a Plan is itself a resource.Node and may be
// added as another Plan's child.
type Plan[In any, Out any] struct {
	*resource.Base[In, Out]

	classTag   string
	childOrder []resource.Node
	childByKey map[string]resource.Node
	log        zerolog.Logger
}

// New constructs a root-capable Plan. Callers must call SetRootUUID (for a
// top-level plan) before Apply, or have the plan added as another Plan's
// child via AddChild (which assigns uuid/path itself).
func New[In any, Out any](classTag string, input In, log zerolog.Logger) *Plan[In, Out] {
	base := resource.New[In, Out](planAdapter[In, Out]{classTag: classTag}, input, log)
	return &Plan[In, Out]{
		Base:       base,
		classTag:   classTag,
		childByKey: make(map[string]resource.Node),
		log:        log,
	}
}

// Children returns the plan's direct children in declaration order. Used
// by the recursive applied-reset walk and by tests/introspection.
func (p *Plan[In, Out]) Children() []resource.Node {
	return append([]resource.Node(nil), p.childOrder...)
}

// AddChild registers child at pathSegment (its position within this
// plan's init_resources), deriving its uuid from this plan's own uuid,
// the child's class tag, and pathSegment, and records the plan lineage on
// it. Returns child unchanged, for `vpc := plan.AddChild("vpc", vpcNode)`
// call-site ergonomics.
func (p *Plan[In, Out]) AddChild(pathSegment string, child resource.Node) resource.Node {
	id := SubUUID(p.UUID(), child.ClassTag(), pathSegment)
	path := p.Path() + "." + pathSegment
	resource.SetChildContext(child, id, path, p.UUID(), p.ClassTag(), p.RootPlanUUID(), p.RootPlanClassTag())

	if _, dup := p.childByKey[pathSegment]; dup {
		panic(fmt.Sprintf("plan %s: duplicate child path segment %q", p.ClassTag(), pathSegment))
	}
	p.childByKey[pathSegment] = child
	p.childOrder = append(p.childOrder, child)
	return child
}

// Child returns the child registered at pathSegment, or nil.
func (p *Plan[In, Out]) Child(pathSegment string) resource.Node {
	return p.childByKey[pathSegment]
}

type withChildren interface {
	Children() []resource.Node
}

// resetRecursive clears the applied flag across n and, if n is a Plan,
// every descendant. Only the root Plan's Apply/Destroy invokes this
// (reset happens once, at the start of a top-level run) —
// nested Plan.Apply calls rely on the root's reset having already run.
func resetRecursive(n resource.Node) {
	n.ResetApplied()
	if wc, ok := n.(withChildren); ok {
		for _, c := range wc.Children() {
			resetRecursive(c)
		}
	}
}

// Apply implements the Plan's apply semantics: reset (root only),
// resolve the plan's own input, apply children in declaration order
// (dependencies first via each child's own traversal), resolve the plan's
// output, persist the plan's envelope, mark applied, and — at the root —
// drain pending-destroy.
func (p *Plan[In, Out]) Apply(ctx context.Context, store state.Store, provider resource.Provider, applyUUID uuid.UUID, dry, checkDrift bool) error {
	if p.IsRoot() {
		resetRecursive(p)
	}
	if p.Applied() {
		return nil
	}

	resolvedInput, err := connector.Walk(p.TypedInput())
	if err != nil {
		return err
	}
	in, ok := resolvedInput.(In)
	if !ok {
		return perrors.NewInvariantViolation("plan input type mismatch for %s", p.ClassTag())
	}
	p.SetInput(in)

	for _, child := range p.childOrder {
		if child.Applied() {
			continue
		}
		if err := child.Apply(ctx, store, provider, applyUUID, dry, checkDrift); err != nil {
			return fmt.Errorf("apply %s: %w", child.Path(), err)
		}
	}

	resolvedOutput, err := connector.Walk(p.TypedOutput())
	if err != nil {
		return err
	}
	out, ok := resolvedOutput.(Out)
	if !ok {
		return perrors.NewInvariantViolation("plan output type mismatch for %s", p.ClassTag())
	}
	p.SetOutput(out)

	if err := p.persistEnvelope(ctx, store, applyUUID); err != nil {
		return err
	}
	p.MarkApplied()

	if p.IsRoot() {
		if err := p.DrainPendingDestroy(ctx, store, provider, applyUUID, dry); err != nil {
			return err
		}
	}
	return nil
}

func (p *Plan[In, Out]) persistEnvelope(ctx context.Context, store state.Store, applyUUID uuid.UUID) error {
	outBytes, err := json.Marshal(p.TypedOutput())
	if err != nil {
		return err
	}
	inBytes, err := json.Marshal(p.TypedInput())
	if err != nil {
		return err
	}
	tags := p.SystemTags()
	env := &state.Envelope{
		UUID:         p.UUID(),
		ClassTag:     p.ClassTag(),
		Path:         p.Path(),
		Output:       outBytes,
		Input:        inBytes,
		PlanUUID:     tags.PlanUUID,
		PlanClassTag: tags.PlanClassTag,
		ApplyUUID:    applyUUID,
	}
	return store.Put(ctx, env)
}

// Destroy implements the Plan destroy semantics: reset (root only),
// recursively destroy children (each child visits its own dependents first,
// achieving leaf-first ordering), then delete the plan's own envelope.
func (p *Plan[In, Out]) Destroy(ctx context.Context, store state.Store, provider resource.Provider, applyUUID uuid.UUID, dry, fromDeleted bool) error {
	if p.IsRoot() {
		resetRecursive(p)
	}
	for _, child := range p.childOrder {
		if err := child.Destroy(ctx, store, provider, applyUUID, dry, false); err != nil {
			return fmt.Errorf("destroy %s: %w", child.Path(), err)
		}
	}
	return p.Base.Destroy(ctx, store, provider, applyUUID, dry, fromDeleted)
}

// DrainPendingDestroy runs strictly after all constructive work of the
// root apply, processing entries in LIFO (reverse insertion) order.
func (p *Plan[In, Out]) DrainPendingDestroy(ctx context.Context, store state.Store, provider resource.Provider, applyUUID uuid.UUID, dry bool) error {
	pending, err := store.ListPendingDestroy(ctx)
	if err != nil {
		return err
	}
	for i := len(pending) - 1; i >= 0; i-- {
		env := pending[i]
		ctor, ok := resource.LookupClass(env.ClassTag)
		if !ok {
			return resource.UnknownClassTagError(env.ClassTag)
		}
		node, err := ctor(env)
		if err != nil {
			return err
		}
		if err := node.Destroy(ctx, store, provider, applyUUID, dry, true); err != nil {
			return fmt.Errorf("drain pending-destroy %s: %w", env.UUID, err)
		}
		if err := store.Delete(ctx, env.UUID, true); err != nil {
			return err
		}
	}
	return nil
}

var _ resource.Node = (*Plan[struct{}, struct{}])(nil)

package resource

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/connector"
	"github.com/amirhadar/pdep-go/pkg/perrors"
	"github.com/amirhadar/pdep-go/pkg/state"
)

// Base is the engine-level scaffolding every concrete adapter embeds. It
// implements the default apply algorithm; adapters supply
// only the five Adapter hooks. Generic in the adapter's typed Input/Output
// records, generic over
// records.
//
// Grounded on original_source/pdep/plan.py's BaseBaseResource/BaseResource.
type Base[In any, Out any] struct {
	adapter Adapter[In, Out]
	log     zerolog.Logger

	uuid             uuid.UUID
	path             string
	planUUID         *uuid.UUID
	planClassTag     string
	rootPlanUUID     uuid.UUID
	rootPlanClassTag string

	input  In
	output Out

	applied      bool
	depsResolved bool

	dependencies []Node
	dependents   []Node
}

// New constructs a Base wrapping adapter, with input possibly containing
// unresolved Connectors. The node has no uuid/path until either SetRootUUID
// (root Plan) or setContext (child of a Plan) is called.
func New[In any, Out any](adapter Adapter[In, Out], input In, log zerolog.Logger) *Base[In, Out] {
	return &Base[In, Out]{adapter: adapter, input: input, log: log}
}

func (b *Base[In, Out]) UUID() uuid.UUID   { return b.uuid }
func (b *Base[In, Out]) ClassTag() string  { return b.adapter.ClassTag() }
func (b *Base[In, Out]) Path() string      { return b.path }
func (b *Base[In, Out]) Applied() bool     { return b.applied }
func (b *Base[In, Out]) Output() any       { return b.output }
func (b *Base[In, Out]) TypedOutput() Out  { return b.output }
func (b *Base[In, Out]) TypedInput() In    { return b.input }
func (b *Base[In, Out]) ResetApplied()     { b.applied = false }

// RootPlanUUID returns the uuid of the top-level Plan this node descends
// from (itself, if this node is the root).
func (b *Base[In, Out]) RootPlanUUID() uuid.UUID { return b.rootPlanUUID }

// RootPlanClassTag returns the class tag of the top-level Plan this node
// descends from.
func (b *Base[In, Out]) RootPlanClassTag() string { return b.rootPlanClassTag }

// IsRoot reports whether this node has no owning plan.
func (b *Base[In, Out]) IsRoot() bool { return b.planUUID == nil }

func (b *Base[In, Out]) Dependencies() []Node { return append([]Node(nil), b.dependencies...) }
func (b *Base[In, Out]) Dependents() []Node   { return append([]Node(nil), b.dependents...) }

func (b *Base[In, Out]) dependOn(dep Node) {
	for _, d := range b.dependencies {
		if d.UUID() == dep.UUID() {
			return
		}
	}
	b.dependencies = append(b.dependencies, dep)
	dep.addDependent(b)
}

func (b *Base[In, Out]) addDependent(n Node) {
	for _, d := range b.dependents {
		if d.UUID() == n.UUID() {
			return
		}
	}
	b.dependents = append(b.dependents, n)
}

// SetRootUUID fixes this node as the root of a derivation tree: its uuid is
// caller-supplied (a constant per Plan class, per the identity
// rule), its path is "$", and it is its own root-plan.
func (b *Base[In, Out]) SetRootUUID(id uuid.UUID) {
	b.uuid = id
	b.path = "$"
	b.rootPlanUUID = id
	b.rootPlanClassTag = b.adapter.ClassTag()
}

func (b *Base[In, Out]) setContext(id uuid.UUID, path string, planUUID uuid.UUID, planClassTag string, rootPlanUUID uuid.UUID, rootPlanClassTag string) {
	b.uuid = id
	b.path = path
	pu := planUUID
	b.planUUID = &pu
	b.planClassTag = planClassTag
	b.rootPlanUUID = rootPlanUUID
	b.rootPlanClassTag = rootPlanClassTag
}

func (b *Base[In, Out]) SystemTags() SystemTags {
	return SystemTags{
		UUID:             b.uuid,
		PlanUUID:         b.planUUID,
		ClassTag:         b.ClassTag(),
		PlanClassTag:     b.planClassTag,
		RootPlanUUID:     b.rootPlanUUID,
		RootPlanClassTag: b.rootPlanClassTag,
	}
}

// SetOutput replaces the output record. Used by pkg/plan to install the
// connector-laden output template at construction, and to store the
// resolved output after the plan's children have applied.
func (b *Base[In, Out]) SetOutput(out Out) { b.output = out }

// MarkApplied sets the per-run applied flag. Exposed so pkg/plan (which
// performs its own apply algorithm rather than Base's) can mark itself
// applied once its children and output resolution are complete.
func (b *Base[In, Out]) MarkApplied() { b.applied = true }

// SetUUID fixes this node's uuid directly, without the rest of the plan
// lineage bookkeeping setContext performs. Used when reconstructing a node
// from a persisted envelope for pending-destroy drain, where only the uuid
// (to re-read the envelope) is needed.
func (b *Base[In, Out]) SetUUID(id uuid.UUID) { b.uuid = id }

// SetInput replaces the (possibly connector-laden) declarative input. Used
// by Plan construction before dependency discovery runs.
func (b *Base[In, Out]) SetInput(input In) { b.input = input }

func decodeJSON[T any](data []byte) (T, error) {
	var out T
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, perrors.NewInvariantViolation("decode envelope field: %v", err)
	}
	return out, nil
}

func jsonEqual(a, b any) (bool, error) {
	ab, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ab, bb), nil
}

// Apply runs the default apply algorithm: recurse into dependencies, read
// the persisted envelope, resolve Connectors in the current input,
// create/update/no-op, persist the new envelope, mark applied.
func (b *Base[In, Out]) Apply(ctx context.Context, store state.Store, provider Provider, applyUUID uuid.UUID, dry, checkDrift bool) error {
	if b.applied {
		return nil
	}
	if err := b.ResolveDependencies(); err != nil {
		return err
	}
	for _, dep := range b.dependencies {
		if !dep.Applied() {
			if err := dep.Apply(ctx, store, provider, applyUUID, dry, checkDrift); err != nil {
				return err
			}
		}
	}

	env, exists, err := store.Get(ctx, b.uuid, false)
	if err != nil {
		return err
	}

	resolved, err := connector.Walk(b.input)
	if err != nil {
		return err
	}
	in, ok := resolved.(In)
	if !ok {
		return perrors.NewInvariantViolation("resolved input type mismatch for %s", b.ClassTag())
	}
	b.input = in

	b.log.Debug().Str("uuid", b.uuid.String()).Str("class", b.ClassTag()).Bool("exists", exists).Msg("apply")

	switch {
	case !exists:
		out, err := b.adapter.Create(ctx, provider, applyUUID, dry, in)
		if err != nil {
			return err
		}
		b.output = out

	default:
		prevInput, err := decodeJSON[In](env.Input)
		if err != nil {
			return err
		}
		prevOutput, err := decodeJSON[Out](env.Output)
		if err != nil {
			return err
		}

		changed, err := jsonEqual(in, prevInput)
		if err != nil {
			return err
		}
		inputChanged := !changed

		drifted := false
		if checkDrift {
			d, err := b.adapter.IsDrifted(ctx, provider, dry, in, prevOutput)
			if err != nil {
				if perrors.IsNotFound(err) {
					drifted = true
				} else {
					return err
				}
			} else {
				drifted = d
			}
		}

		if !inputChanged && !drifted {
			b.output = prevOutput
			break
		}

		newOut, updated, err := b.adapter.Update(ctx, provider, applyUUID, dry, prevInput, in, prevOutput)
		if err != nil {
			return err
		}
		if updated {
			b.output = newOut
			break
		}

		if b.adapter.CreateBeforeDestroy() {
			if err := store.MarkDestroy(ctx, env); err != nil {
				return err
			}
			created, err := b.adapter.Create(ctx, provider, applyUUID, dry, in)
			if err != nil {
				return err
			}
			b.output = created
		} else {
			if err := b.adapter.Destroy(ctx, provider, applyUUID, dry, prevInput, prevOutput); err != nil && !perrors.IsNotFound(err) {
				return err
			}
			created, err := b.adapter.Create(ctx, provider, applyUUID, dry, in)
			if err != nil {
				return err
			}
			b.output = created
		}
	}

	outBytes, err := json.Marshal(b.output)
	if err != nil {
		return err
	}
	inBytes, err := json.Marshal(b.input)
	if err != nil {
		return err
	}
	newEnv := &state.Envelope{
		UUID:         b.uuid,
		ClassTag:     b.ClassTag(),
		Path:         b.path,
		Output:       outBytes,
		Input:        inBytes,
		PlanUUID:     b.planUUID,
		PlanClassTag: b.planClassTag,
		ApplyUUID:    applyUUID,
	}
	if err := store.Put(ctx, newEnv); err != nil {
		return err
	}
	b.applied = true
	return nil
}

// Destroy tears this node down. Non-leaf destroys (fromDeleted=false)
// traverse dependents first, so external pressure resolves before the
// resource itself is removed. Leaf destroys triggered via a pending-destroy
// drain skip that traversal and operate directly on the persisted envelope.
func (b *Base[In, Out]) Destroy(ctx context.Context, store state.Store, provider Provider, applyUUID uuid.UUID, dry, fromDeleted bool) error {
	if !fromDeleted {
		if err := b.ResolveDependencies(); err != nil {
			return err
		}
		for _, dep := range b.dependents {
			// Design note (b): skip only the direct back-reference to the
			// owning plan, not further ancestors — otherwise destroying one
			// child would cascade into destroying the whole plan.
			if b.planUUID != nil && dep.UUID() == *b.planUUID {
				continue
			}
			if err := dep.Destroy(ctx, store, provider, applyUUID, dry, false); err != nil {
				return err
			}
		}
	}

	env, exists, err := store.Get(ctx, b.uuid, fromDeleted)
	if err != nil {
		return err
	}
	if !exists {
		b.applied = false
		return nil
	}

	prevInput, err := decodeJSON[In](env.Input)
	if err != nil {
		return err
	}
	prevOutput, err := decodeJSON[Out](env.Output)
	if err != nil {
		return err
	}

	if err := b.adapter.Destroy(ctx, provider, applyUUID, dry, prevInput, prevOutput); err != nil && !perrors.IsNotFound(err) {
		return err
	}
	if err := store.Delete(ctx, b.uuid, fromDeleted); err != nil {
		return err
	}
	b.applied = false
	return nil
}

var _ Node = (*Base[struct{}, struct{}])(nil)

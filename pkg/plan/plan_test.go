package plan

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/connector"
	"github.com/amirhadar/pdep-go/pkg/resource"
	"github.com/amirhadar/pdep-go/pkg/state"
)

type memStore struct {
	envelopes map[uuid.UUID]*state.Envelope
	pending   []*state.Envelope
}

func newMemStore() *memStore {
	return &memStore{envelopes: make(map[uuid.UUID]*state.Envelope)}
}

func (s *memStore) Get(_ context.Context, id uuid.UUID, fromPending bool) (*state.Envelope, bool, error) {
	if fromPending {
		for _, e := range s.pending {
			if e.UUID == id {
				return e, true, nil
			}
		}
		return nil, false, nil
	}
	e, ok := s.envelopes[id]
	return e, ok, nil
}

func (s *memStore) Put(_ context.Context, env *state.Envelope) error {
	s.envelopes[env.UUID] = env
	return nil
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID, fromPending bool) error {
	if fromPending {
		out := s.pending[:0]
		for _, e := range s.pending {
			if e.UUID != id {
				out = append(out, e)
			}
		}
		s.pending = out
		return nil
	}
	delete(s.envelopes, id)
	return nil
}

func (s *memStore) MarkDestroy(_ context.Context, env *state.Envelope) error {
	s.pending = append(s.pending, env)
	return nil
}

func (s *memStore) ListPendingDestroy(_ context.Context) ([]*state.Envelope, error) {
	return append([]*state.Envelope(nil), s.pending...), nil
}

type fakeProvider struct{}

func (fakeProvider) Client(string) (any, error)      { return nil, nil }
func (fakeProvider) Resource(string) (any, error)    { return nil, nil }
func (fakeProvider) Endpoint(string) (string, error) { return "http://localhost:4566", nil }

type vpcInput struct{ CidrBlock string }
type vpcOutput struct{ VpcID string }

type vpcAdapter struct {
	creates, destroys int
}

func (a *vpcAdapter) ClassTag() string          { return "test.Vpc" }
func (a *vpcAdapter) CreateBeforeDestroy() bool { return false }

func (a *vpcAdapter) Create(_ context.Context, _ resource.Provider, _ uuid.UUID, _ bool, in vpcInput) (vpcOutput, error) {
	a.creates++
	return vpcOutput{VpcID: "vpc-" + in.CidrBlock}, nil
}

func (a *vpcAdapter) Update(_ context.Context, _ resource.Provider, _ uuid.UUID, _ bool, _ vpcInput, in vpcInput, _ vpcOutput) (vpcOutput, bool, error) {
	return vpcOutput{}, false, nil
}

func (a *vpcAdapter) IsDrifted(context.Context, resource.Provider, bool, vpcInput, vpcOutput) (bool, error) {
	return false, nil
}

func (a *vpcAdapter) Destroy(_ context.Context, _ resource.Provider, _ uuid.UUID, _ bool, _ vpcInput, _ vpcOutput) error {
	a.destroys++
	return nil
}

type subnetInput struct{ VpcID any }
type subnetOutput struct{ SubnetID string }

type subnetAdapter struct {
	creates int
}

func (a *subnetAdapter) ClassTag() string          { return "test.Subnet" }
func (a *subnetAdapter) CreateBeforeDestroy() bool { return false }

func (a *subnetAdapter) Create(_ context.Context, _ resource.Provider, _ uuid.UUID, _ bool, in subnetInput) (subnetOutput, error) {
	a.creates++
	return subnetOutput{SubnetID: "subnet-of-" + in.VpcID.(string)}, nil
}

func (a *subnetAdapter) Update(_ context.Context, _ resource.Provider, _ uuid.UUID, _ bool, _ subnetInput, _ subnetInput, _ subnetOutput) (subnetOutput, bool, error) {
	return subnetOutput{}, false, nil
}

func (a *subnetAdapter) IsDrifted(context.Context, resource.Provider, bool, subnetInput, subnetOutput) (bool, error) {
	return false, nil
}

func (a *subnetAdapter) Destroy(context.Context, resource.Provider, uuid.UUID, bool, subnetInput, subnetOutput) error {
	return nil
}

type netOutput struct {
	VpcID    any
	SubnetID any
}

func buildNetPlan(rootID uuid.UUID, vpcA *vpcAdapter, subnetA *subnetAdapter) *Plan[struct{}, netOutput] {
	p := New[struct{}, netOutput]("test.Net", struct{}{}, zerolog.Nop())
	p.SetRootUUID(rootID)

	vpc := resource.New[vpcInput, vpcOutput](vpcA, vpcInput{CidrBlock: "10.0.0.0/16"}, zerolog.Nop())
	p.AddChild("vpc", vpc)

	subnet := resource.New[subnetInput, subnetOutput](subnetA, subnetInput{
		VpcID: connector.FieldAccess(vpc, "VpcID"),
	}, zerolog.Nop())
	p.AddChild("subnet", subnet)

	p.SetOutput(netOutput{
		VpcID:    connector.FieldAccess(vpc, "VpcID"),
		SubnetID: connector.FieldAccess(subnet, "SubnetID"),
	})
	return p
}

func TestUUIDDerivationIsStableAcrossConstructions(t *testing.T) {
	rootID := uuid.New()
	first := buildNetPlan(rootID, &vpcAdapter{}, &subnetAdapter{})
	second := buildNetPlan(rootID, &vpcAdapter{}, &subnetAdapter{})

	if first.Child("vpc").UUID() != second.Child("vpc").UUID() {
		t.Fatal("vpc child uuid not stable across constructions (child identity is a deterministic function of path, not construction order)")
	}
	if first.Child("subnet").UUID() != second.Child("subnet").UUID() {
		t.Fatal("subnet child uuid not stable across constructions (child identity is a deterministic function of path, not construction order)")
	}
}

func TestS1CreateThenNoOp(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	rootID := uuid.New()

	vpcA := &vpcAdapter{}
	subnetA := &subnetAdapter{}
	p := buildNetPlan(rootID, vpcA, subnetA)

	if err := p.Apply(ctx, store, fakeProvider{}, uuid.New(), false, true); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if vpcA.creates != 1 || subnetA.creates != 1 {
		t.Fatalf("expected one create each, got vpc=%d subnet=%d", vpcA.creates, subnetA.creates)
	}

	p2 := buildNetPlan(rootID, vpcA, subnetA)
	if err := p2.Apply(ctx, store, fakeProvider{}, uuid.New(), false, true); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if vpcA.creates != 1 || subnetA.creates != 1 {
		t.Fatalf("expected zero additional adapter calls on no-op apply (a no-op apply must not re-invoke any adapter), got vpc=%d subnet=%d",
			vpcA.creates, subnetA.creates)
	}
}

func TestPlanOutputResolvesConnectorsFromChildren(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	rootID := uuid.New()

	p := buildNetPlan(rootID, &vpcAdapter{}, &subnetAdapter{})
	if err := p.Apply(ctx, store, fakeProvider{}, uuid.New(), false, true); err != nil {
		t.Fatalf("apply: %v", err)
	}

	out := p.TypedOutput()
	if out.VpcID != "vpc-10.0.0.0/16" {
		t.Fatalf("plan output VpcID not resolved: %v", out.VpcID)
	}
	if out.SubnetID != "subnet-of-vpc-10.0.0.0/16" {
		t.Fatalf("plan output SubnetID not resolved: %v", out.SubnetID)
	}
}

func TestDestroyRemovesAllChildEnvelopesThenPlanEnvelope(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	rootID := uuid.New()

	p := buildNetPlan(rootID, &vpcAdapter{}, &subnetAdapter{})
	if err := p.Apply(ctx, store, fakeProvider{}, uuid.New(), false, true); err != nil {
		t.Fatalf("apply: %v", err)
	}

	vpcUUID := p.Child("vpc").UUID()
	subnetUUID := p.Child("subnet").UUID()
	planUUID := p.UUID()

	if err := p.Destroy(ctx, store, fakeProvider{}, uuid.New(), false, false); err != nil {
		t.Fatalf("destroy: %v", err)
	}

	for name, id := range map[string]uuid.UUID{"vpc": vpcUUID, "subnet": subnetUUID, "plan": planUUID} {
		if _, ok := store.envelopes[id]; ok {
			t.Fatalf("expected %s envelope to be removed after destroy (destroy must remove the envelope, not just mark it)", name)
		}
	}
}

package resource

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/connector"
	"github.com/amirhadar/pdep-go/pkg/state"
)

// fakeStore is an in-memory state.Store good enough to exercise the apply
// algorithm without touching a file or database.
type fakeStore struct {
	envelopes map[uuid.UUID]*state.Envelope
	pending   []*state.Envelope
	calls     []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{envelopes: make(map[uuid.UUID]*state.Envelope)}
}

func (s *fakeStore) Get(_ context.Context, id uuid.UUID, fromPending bool) (*state.Envelope, bool, error) {
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

func (s *fakeStore) Put(_ context.Context, env *state.Envelope) error {
	s.envelopes[env.UUID] = env
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id uuid.UUID, fromPending bool) error {
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

func (s *fakeStore) MarkDestroy(_ context.Context, env *state.Envelope) error {
	s.pending = append(s.pending, env)
	return nil
}

func (s *fakeStore) ListPendingDestroy(_ context.Context) ([]*state.Envelope, error) {
	return s.pending, nil
}

type fakeProvider struct{}

func (fakeProvider) Client(string) (any, error)   { return nil, nil }
func (fakeProvider) Resource(string) (any, error) { return nil, nil }
func (fakeProvider) Endpoint(string) (string, error) { return "http://localhost:4566", nil }

type testInput struct {
	Name string
}

type testOutput struct {
	ID string
}

// countingAdapter counts create/update/destroy calls so tests can assert
// S1's "second apply issues zero adapter calls" property.
type countingAdapter struct {
	classTag   string
	cbd        bool
	creates    int
	updates    int
	destroys   int
	updateOK   bool
	drifted    bool
}

func (a *countingAdapter) ClassTag() string          { return a.classTag }
func (a *countingAdapter) CreateBeforeDestroy() bool { return a.cbd }

func (a *countingAdapter) Create(_ context.Context, _ Provider, _ uuid.UUID, _ bool, in testInput) (testOutput, error) {
	a.creates++
	return testOutput{ID: "id-" + in.Name}, nil
}

func (a *countingAdapter) Update(_ context.Context, _ Provider, _ uuid.UUID, _ bool, _ testInput, in testInput, _ testOutput) (testOutput, bool, error) {
	a.updates++
	if a.updateOK {
		return testOutput{ID: "id-" + in.Name}, true, nil
	}
	return testOutput{}, false, nil
}

func (a *countingAdapter) IsDrifted(_ context.Context, _ Provider, _ bool, _ testInput, _ testOutput) (bool, error) {
	return a.drifted, nil
}

func (a *countingAdapter) Destroy(_ context.Context, _ Provider, _ uuid.UUID, _ bool, _ testInput, _ testOutput) error {
	a.destroys++
	return nil
}

func TestApplyCreatesThenNoOpsOnSecondIdenticalApply(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	adapter := &countingAdapter{classTag: "test.Thing"}
	node := New[testInput, testOutput](adapter, testInput{Name: "a"}, zerolog.Nop())
	node.SetRootUUID(uuid.New())

	applyUUID := uuid.New()
	if err := node.Apply(ctx, store, fakeProvider{}, applyUUID, false, true); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if adapter.creates != 1 {
		t.Fatalf("expected 1 create, got %d", adapter.creates)
	}

	node2 := New[testInput, testOutput](adapter, testInput{Name: "a"}, zerolog.Nop())
	node2.SetRootUUID(node.UUID())
	if err := node2.Apply(ctx, store, fakeProvider{}, uuid.New(), false, true); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if adapter.creates != 1 || adapter.updates != 0 || adapter.destroys != 0 {
		t.Fatalf("expected zero adapter calls on no-op apply, got creates=%d updates=%d destroys=%d",
			adapter.creates, adapter.updates, adapter.destroys)
	}
}

func TestApplyReplaceCreateBeforeDestroy(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	id := uuid.New()

	adapter := &countingAdapter{classTag: "test.Thing", cbd: true, updateOK: false}
	first := New[testInput, testOutput](adapter, testInput{Name: "a"}, zerolog.Nop())
	first.SetRootUUID(id)
	if err := first.Apply(ctx, store, fakeProvider{}, uuid.New(), false, true); err != nil {
		t.Fatalf("first apply: %v", err)
	}

	second := New[testInput, testOutput](adapter, testInput{Name: "b"}, zerolog.Nop())
	second.SetRootUUID(id)
	if err := second.Apply(ctx, store, fakeProvider{}, uuid.New(), false, true); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	if adapter.creates != 2 {
		t.Fatalf("expected 2 creates (S2), got %d", adapter.creates)
	}
	if adapter.destroys != 0 {
		t.Fatalf("create_before_destroy must not call destroy inline, got %d", adapter.destroys)
	}
	if len(store.pending) != 1 {
		t.Fatalf("expected one pending-destroy entry, got %d", len(store.pending))
	}
}

func TestApplyReplaceInline(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	id := uuid.New()

	adapter := &countingAdapter{classTag: "test.Thing", cbd: false, updateOK: false}
	first := New[testInput, testOutput](adapter, testInput{Name: "a"}, zerolog.Nop())
	first.SetRootUUID(id)
	if err := first.Apply(ctx, store, fakeProvider{}, uuid.New(), false, true); err != nil {
		t.Fatalf("first apply: %v", err)
	}

	second := New[testInput, testOutput](adapter, testInput{Name: "b"}, zerolog.Nop())
	second.SetRootUUID(id)
	if err := second.Apply(ctx, store, fakeProvider{}, uuid.New(), false, true); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	if adapter.destroys != 1 || adapter.creates != 2 {
		t.Fatalf("expected inline destroy+create (S3), got destroys=%d creates=%d", adapter.destroys, adapter.creates)
	}
	if len(store.pending) != 0 {
		t.Fatalf("inline replace must not emit a pending-destroy entry, got %d", len(store.pending))
	}
}

func TestApplyInPlaceUpdateSuccess(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	id := uuid.New()

	adapter := &countingAdapter{classTag: "test.Thing", updateOK: true}
	first := New[testInput, testOutput](adapter, testInput{Name: "a"}, zerolog.Nop())
	first.SetRootUUID(id)
	if err := first.Apply(ctx, store, fakeProvider{}, uuid.New(), false, true); err != nil {
		t.Fatalf("first apply: %v", err)
	}

	second := New[testInput, testOutput](adapter, testInput{Name: "b"}, zerolog.Nop())
	second.SetRootUUID(id)
	if err := second.Apply(ctx, store, fakeProvider{}, uuid.New(), false, true); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	if adapter.updates != 1 || adapter.creates != 1 || adapter.destroys != 0 {
		t.Fatalf("expected update-only (S4), got creates=%d updates=%d destroys=%d",
			adapter.creates, adapter.updates, adapter.destroys)
	}
}

type dependentInput struct {
	VpcID any
}

type dependentAdapter struct {
	classTag  string
	seenVpcID any
}

func (a *dependentAdapter) ClassTag() string          { return a.classTag }
func (a *dependentAdapter) CreateBeforeDestroy() bool { return false }

func (a *dependentAdapter) Create(_ context.Context, _ Provider, _ uuid.UUID, _ bool, in dependentInput) (testOutput, error) {
	a.seenVpcID = in.VpcID
	return testOutput{ID: "consumer"}, nil
}

func (a *dependentAdapter) Update(_ context.Context, _ Provider, _ uuid.UUID, _ bool, _ dependentInput, in dependentInput, _ testOutput) (testOutput, bool, error) {
	a.seenVpcID = in.VpcID
	return testOutput{ID: "consumer"}, true, nil
}

func (a *dependentAdapter) IsDrifted(_ context.Context, _ Provider, _ bool, _ dependentInput, _ testOutput) (bool, error) {
	return false, nil
}

func (a *dependentAdapter) Destroy(_ context.Context, _ Provider, _ uuid.UUID, _ bool, _ dependentInput, _ testOutput) error {
	return nil
}

func TestApplyDependencyDiscoveryFromConnector(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	producerAdapter := &countingAdapter{classTag: "test.Producer"}
	producer := New[testInput, testOutput](producerAdapter, testInput{Name: "vpc"}, zerolog.Nop())
	producer.SetRootUUID(uuid.New())

	consumerAdapter := &dependentAdapter{classTag: "test.Consumer"}
	consumer := New[dependentInput, testOutput](consumerAdapter, dependentInput{
		VpcID: connector.FieldAccess(producer, "ID"),
	}, zerolog.Nop())
	consumer.SetRootUUID(uuid.New())

	if err := consumer.Apply(ctx, store, fakeProvider{}, uuid.New(), false, true); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if producerAdapter.creates != 1 {
		t.Fatalf("expected dependency to be applied first, got %d creates", producerAdapter.creates)
	}
	if consumerAdapter.seenVpcID != "id-vpc" {
		t.Fatalf("expected resolved connector value, got %v", consumerAdapter.seenVpcID)
	}
}

package adapters

import (
	"testing"

	"github.com/google/uuid"

	"github.com/amirhadar/pdep-go/pkg/resource"
	"github.com/amirhadar/pdep-go/pkg/state"
)

func init() {
	RegisterAdapterClass[VpcInput, VpcOutput]("aws.VpcForTest", VpcAdapter{})
}

func TestRegisterAdapterClassReconstructsNodeFromEnvelope(t *testing.T) {
	ctor, ok := resource.LookupClass("aws.VpcForTest")
	if !ok {
		t.Fatal("expected aws.VpcForTest to be registered")
	}

	id := uuid.New()
	node, err := ctor(&state.Envelope{UUID: id, ClassTag: "aws.VpcForTest"})
	if err != nil {
		t.Fatalf("ctor: %v", err)
	}
	if node.UUID() != id {
		t.Errorf("expected reconstructed node to carry the envelope's uuid, got %s", node.UUID())
	}
}

package adapters

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestEcsClusterAdapterCreateDryRun(t *testing.T) {
	a := EcsClusterAdapter{}
	out, err := a.Create(context.Background(), nil, uuid.New(), true, EcsClusterInput{Name: "demo"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.Name != "demo" {
		t.Errorf("expected name echoed back, got %s", out.Name)
	}
	if out.State != "ACTIVE" {
		t.Errorf("expected dry-run state to fabricate ACTIVE, got %s", out.State)
	}
}

func TestEcsClusterAdapterDestroyDryRunNoop(t *testing.T) {
	a := EcsClusterAdapter{}
	if err := a.Destroy(context.Background(), nil, uuid.New(), true, EcsClusterInput{}, EcsClusterOutput{}); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
}

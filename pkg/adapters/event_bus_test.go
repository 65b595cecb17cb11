package adapters

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestEventBusAdapterCreateDryRun(t *testing.T) {
	a := EventBusAdapter{}
	out, err := a.Create(context.Background(), nil, uuid.New(), true, EventBusInput{Name: "orders"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.Name != "orders" {
		t.Errorf("expected name echoed back, got %s", out.Name)
	}
	if out.Arn == "" {
		t.Error("expected a sentinel arn on dry run")
	}
}

func TestEventBusAdapterUpdateNeverInPlace(t *testing.T) {
	a := EventBusAdapter{}
	_, ok, err := a.Update(context.Background(), nil, uuid.New(), false, EventBusInput{}, EventBusInput{}, EventBusOutput{})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if ok {
		t.Error("event bus update should never succeed in place")
	}
}

package adapters

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/resource"
)

func TestExistingCreateDelegatesToDiscover(t *testing.T) {
	called := false
	e := Existing[struct{}, VpcOutput]{
		Tag: "aws.DefaultVpc",
		Discover: func(ctx context.Context, p resource.Provider, in struct{}) (VpcOutput, error) {
			called = true
			return VpcOutput{VpcID: "vpc-default", CidrBlock: "172.31.0.0/16"}, nil
		},
	}

	out, err := e.Create(context.Background(), nil, uuid.New(), false, struct{}{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !called {
		t.Error("expected Discover to be invoked")
	}
	if out.VpcID != "vpc-default" {
		t.Errorf("expected discovered vpc id, got %s", out.VpcID)
	}
}

func TestExistingDestroyIsAlwaysNoop(t *testing.T) {
	e := Existing[struct{}, VpcOutput]{Tag: "aws.DefaultVpc"}
	if err := e.Destroy(context.Background(), nil, uuid.New(), false, struct{}{}, VpcOutput{}); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
}

func TestExistingIsDriftedDefaultsToFalseWithoutDriftedFunc(t *testing.T) {
	e := Existing[struct{}, VpcOutput]{Tag: "aws.DefaultVpc"}
	drifted, err := e.IsDrifted(context.Background(), nil, false, struct{}{}, VpcOutput{})
	if err != nil {
		t.Fatalf("IsDrifted: %v", err)
	}
	if drifted {
		t.Error("expected no drift when no Drifted func is configured")
	}
}

func TestDefaultVpcHasExpectedClassTag(t *testing.T) {
	if got := DefaultVpc(zerolog.Nop()).ClassTag(); got != "aws.DefaultVpc" {
		t.Errorf("unexpected class tag: %s", got)
	}
}

package adapters

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestVpcAdapterCreateDryRun(t *testing.T) {
	a := VpcAdapter{}
	out, err := a.Create(context.Background(), nil, uuid.New(), true, VpcInput{CidrBlock: "10.0.0.0/16"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.CidrBlock != "10.0.0.0/16" {
		t.Errorf("expected cidr_block to be echoed back, got %s", out.CidrBlock)
	}
	if out.VpcID == "" {
		t.Error("expected a sentinel vpc id on dry run")
	}
}

func TestVpcAdapterUpdateAlwaysReplaces(t *testing.T) {
	a := VpcAdapter{}
	_, ok, err := a.Update(context.Background(), nil, uuid.New(), false, VpcInput{}, VpcInput{}, VpcOutput{})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if ok {
		t.Error("vpc update should never succeed in place")
	}
}

func TestVpcAdapterIsDriftedDryRunIsFalse(t *testing.T) {
	a := VpcAdapter{}
	drifted, err := a.IsDrifted(context.Background(), nil, true, VpcInput{}, VpcOutput{})
	if err != nil {
		t.Fatalf("IsDrifted: %v", err)
	}
	if drifted {
		t.Error("dry run should never report drift")
	}
}

func TestVpcAdapterDestroyDryRunNoop(t *testing.T) {
	a := VpcAdapter{}
	if err := a.Destroy(context.Background(), nil, uuid.New(), true, VpcInput{}, VpcOutput{}); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
}

func TestVpcAdapterClassTag(t *testing.T) {
	if VpcAdapter{}.ClassTag() != "aws.Vpc" {
		t.Errorf("unexpected class tag: %s", VpcAdapter{}.ClassTag())
	}
	if VpcAdapter{}.CreateBeforeDestroy() {
		t.Error("vpc replace policy should destroy inline, not create-before-destroy")
	}
}

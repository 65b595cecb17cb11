package adapters

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRouteTableAdapterCreateDryRun(t *testing.T) {
	a := RouteTableAdapter{}
	out, err := a.Create(context.Background(), nil, uuid.New(), true, RouteTableInput{VpcID: "vpc-123"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.RouteTableID == "" {
		t.Error("expected a sentinel route table id on dry run")
	}
}

func TestRouteTableAdapterCreateRejectsUnresolvedVpcID(t *testing.T) {
	a := RouteTableAdapter{}
	if _, err := a.Create(context.Background(), nil, uuid.New(), true, RouteTableInput{VpcID: 42}); err == nil {
		t.Error("expected an error when vpc_id is not a string")
	}
}

func TestRouteTableAssociationAdapterCreateDryRun(t *testing.T) {
	a := RouteTableAssociationAdapter{}
	out, err := a.Create(context.Background(), nil, uuid.New(), true, RouteTableAssociationInput{
		RouteTableID: "rtb-1",
		SubnetID:     "subnet-1",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.AssociationID == "" {
		t.Error("expected a sentinel association id on dry run")
	}
}

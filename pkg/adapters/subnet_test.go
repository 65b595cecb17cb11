package adapters

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/amirhadar/pdep-go/pkg/connector"
)

func TestSubnetAdapterCreateDryRun(t *testing.T) {
	a := SubnetAdapter{}
	out, err := a.Create(context.Background(), nil, uuid.New(), true, SubnetInput{
		VpcID:            "vpc-123",
		CidrBlock:        "10.0.1.0/24",
		AvailabilityZone: "us-east-1a",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.CidrBlock != "10.0.1.0/24" {
		t.Errorf("expected cidr echoed back, got %s", out.CidrBlock)
	}
}

func TestSubnetAdapterCreateRejectsUnresolvedConnector(t *testing.T) {
	a := SubnetAdapter{}
	_, err := a.Create(context.Background(), nil, uuid.New(), true, SubnetInput{
		VpcID:            connector.FieldAccess(nil, "vpc_id"),
		CidrBlock:        "10.0.1.0/24",
		AvailabilityZone: "us-east-1a",
	})
	if err == nil {
		t.Error("expected an error when vpc_id has not been resolved to a string")
	}
}

func TestSubnetCidrSplitsEvenly(t *testing.T) {
	calc := SubnetCidr(connector.Const("10.212.160.0/22"), 2, 0)
	got, err := calc.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "10.212.160.0/23" {
		t.Errorf("expected first half subnet, got %v", got)
	}

	calc1 := SubnetCidr(connector.Const("10.212.160.0/22"), 2, 1)
	got1, err := calc1.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got1 != "10.212.162.0/23" {
		t.Errorf("expected second half subnet, got %v", got1)
	}
}

func TestSubnetCidrFourWaySplit(t *testing.T) {
	calc := SubnetCidr(connector.Const("10.0.0.0/16"), 4, 3)
	got, err := calc.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "10.0.192.0/18" {
		t.Errorf("expected fourth quarter subnet, got %v", got)
	}
}

func TestSubnetCidrRejectsInvalidBlock(t *testing.T) {
	calc := SubnetCidr(connector.Const("not-a-cidr"), 2, 0)
	if _, err := calc.Resolve(); err == nil {
		t.Error("expected an error for an invalid cidr block")
	}
}

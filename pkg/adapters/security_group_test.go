package adapters

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestSecurityGroupAdapterCreateDryRun(t *testing.T) {
	a := SecurityGroupAdapter{}
	out, err := a.Create(context.Background(), nil, uuid.New(), true, SecurityGroupInput{
		VpcID:       "vpc-123",
		Name:        "simple-def",
		Description: "simple backbone default security group",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.SecurityGroupID == "" {
		t.Error("expected a sentinel security group id on dry run")
	}
}

func TestSecurityGroupRuleIngressAdapterCreateDryRun(t *testing.T) {
	a := SecurityGroupRuleIngressAdapter{}
	in := SecurityGroupRuleIngressInput{
		SecurityGroupID: "sg-123",
		FromPort:        0,
		ToPort:          0,
		Protocol:        "-1",
		CidrBlocks:      []string{"0.0.0.0/0"},
	}
	out, err := a.Create(context.Background(), nil, uuid.New(), true, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.SecurityGroupID != "sg-123" || out.Protocol != "-1" {
		t.Errorf("expected rule output to mirror the authorized permission, got %+v", out)
	}
}

func TestSecurityGroupRuleEgressAdapterCreateDryRun(t *testing.T) {
	a := SecurityGroupRuleEgressAdapter{}
	in := SecurityGroupRuleEgressInput{
		SecurityGroupID: "sg-123",
		FromPort:        0,
		ToPort:          0,
		Protocol:        "-1",
		CidrBlocks:      []string{"0.0.0.0/0"},
	}
	out, err := a.Create(context.Background(), nil, uuid.New(), true, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(out.CidrBlocks) != 1 || out.CidrBlocks[0] != "0.0.0.0/0" {
		t.Errorf("expected cidr blocks echoed back, got %+v", out.CidrBlocks)
	}
}

func TestSecurityGroupRuleAdaptersRejectUnresolvedGroupID(t *testing.T) {
	in := SecurityGroupRuleIngressInput{SecurityGroupID: 7, Protocol: "-1", CidrBlocks: []string{"0.0.0.0/0"}}
	if _, err := (SecurityGroupRuleIngressAdapter{}).Create(context.Background(), nil, uuid.New(), true, in); err == nil {
		t.Error("expected an error when security_group_id is not a string")
	}
}

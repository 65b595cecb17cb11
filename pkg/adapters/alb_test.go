package adapters

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestAlbAdapterCreateDryRun(t *testing.T) {
	a := AlbAdapter{}
	out, err := a.Create(context.Background(), nil, uuid.New(), true, AlbInput{
		Name:            "main",
		SecurityGroupID: "sg-1",
		SubnetIDs:       []any{"subnet-1", "subnet-2"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.Name != "main" {
		t.Errorf("expected name echoed back, got %s", out.Name)
	}
	if out.Arn == "" || out.DNSName == "" {
		t.Error("expected sentinel arn/dns_name on dry run")
	}
}

func TestAlbAdapterClassTag(t *testing.T) {
	if AlbAdapter{}.ClassTag() != "aws.Alb" {
		t.Errorf("unexpected class tag: %s", AlbAdapter{}.ClassTag())
	}
}

package provider

import (
	"context"
	"testing"
)

func TestNewDefaultsEndpoint(t *testing.T) {
	p, err := New(context.Background(), "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ep, err := p.Endpoint("ec2")
	if err != nil {
		t.Fatalf("Endpoint: %v", err)
	}
	if ep != defaultEndpoint {
		t.Errorf("expected default endpoint %s, got %s", defaultEndpoint, ep)
	}
}

func TestNewHonorsExplicitEndpoint(t *testing.T) {
	p, err := New(context.Background(), "http://localstack.test:4566")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ep, _ := p.Endpoint("ecs")
	if ep != "http://localstack.test:4566" {
		t.Errorf("expected explicit endpoint, got %s", ep)
	}
}

func TestClientUnknownServiceErrors(t *testing.T) {
	p, err := New(context.Background(), "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := p.Client("s3"); err == nil {
		t.Error("expected error for unsupported service")
	}
}

func TestClientKnownServicesResolve(t *testing.T) {
	p, err := New(context.Background(), "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, svc := range []string{"ec2", "ecs", "elasticloadbalancingv2", "eventbridge"} {
		if _, err := p.Client(svc); err != nil {
			t.Errorf("Client(%s): %v", svc, err)
		}
	}
}

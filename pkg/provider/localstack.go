// Package provider implements resource.Provider against a local AWS-API
// endpoint (LocalStack or compatible), the engine's reference Provider for
// exercising pkg/adapters without touching real cloud infrastructure.
//
// Grounded on original_source/pdep/plan.py's AwsLocalStackProvider: a fixed
// per-service endpoint map and a static test/test credential pair, ported to
// aws-sdk-go-v2's config+endpoint-resolver idiom instead of boto3 sessions.
package provider

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"

	"github.com/amirhadar/pdep-go/pkg/resource"
)

// defaultEndpoint is the single LocalStack gateway every service in this
// reference provider is routed to (LocalStack fronts all services through
// one edge port).
const defaultEndpoint = "http://localhost:4566"

// LocalStackProvider implements resource.Provider against a local AWS-API
// endpoint. Client returns a concrete *service.Client for a known service
// name; Resource is unused by this provider (LocalStack adapters work
// directly against service clients, not the higher-level "resource" API).
type LocalStackProvider struct {
	cfg      aws.Config
	endpoint string
}

// New builds a LocalStackProvider. endpoint defaults to
// http://localhost:4566 (LocalStack's default edge port) when empty.
func New(ctx context.Context, endpoint string) (*LocalStackProvider, error) {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &LocalStackProvider{cfg: cfg, endpoint: endpoint}, nil
}

func (p *LocalStackProvider) Endpoint(service string) (string, error) {
	return p.endpoint, nil
}

// Client returns a concrete service client for service, all routed to the
// same LocalStack endpoint. Unknown service names return an error rather
// than a typed provider Resource, since pkg/adapters always knows which
// service it needs and asserts the concrete type back out.
func (p *LocalStackProvider) Client(service string) (any, error) {
	switch service {
	case "ec2":
		return ec2.NewFromConfig(p.cfg, func(o *ec2.Options) { o.BaseEndpoint = aws.String(p.endpoint) }), nil
	case "ecs":
		return ecs.NewFromConfig(p.cfg, func(o *ecs.Options) { o.BaseEndpoint = aws.String(p.endpoint) }), nil
	case "elasticloadbalancingv2":
		return elasticloadbalancingv2.NewFromConfig(p.cfg, func(o *elasticloadbalancingv2.Options) {
			o.BaseEndpoint = aws.String(p.endpoint)
		}), nil
	case "eventbridge":
		return eventbridge.NewFromConfig(p.cfg, func(o *eventbridge.Options) { o.BaseEndpoint = aws.String(p.endpoint) }), nil
	default:
		return nil, fmt.Errorf("localstack provider: unknown service %q", service)
	}
}

// Resource is not implemented by this provider; every adapter in
// pkg/adapters works directly against the low-level client returned by
// Client.
func (p *LocalStackProvider) Resource(service string) (any, error) {
	return nil, fmt.Errorf("localstack provider: Resource(%q) unsupported, use Client", service)
}

var _ resource.Provider = (*LocalStackProvider)(nil)

// EC2Client asserts provider's "ec2" client back to its concrete type, the
// idiom every adapter in pkg/adapters uses to reach the typed SDK API.
func EC2Client(p resource.Provider) (*ec2.Client, error) {
	c, err := p.Client("ec2")
	if err != nil {
		return nil, err
	}
	client, ok := c.(*ec2.Client)
	if !ok {
		return nil, fmt.Errorf("provider did not return an *ec2.Client")
	}
	return client, nil
}

// ECSClient asserts provider's "ecs" client back to its concrete type.
func ECSClient(p resource.Provider) (*ecs.Client, error) {
	c, err := p.Client("ecs")
	if err != nil {
		return nil, err
	}
	client, ok := c.(*ecs.Client)
	if !ok {
		return nil, fmt.Errorf("provider did not return an *ecs.Client")
	}
	return client, nil
}

// ELBV2Client asserts provider's "elasticloadbalancingv2" client back to its
// concrete type.
func ELBV2Client(p resource.Provider) (*elasticloadbalancingv2.Client, error) {
	c, err := p.Client("elasticloadbalancingv2")
	if err != nil {
		return nil, err
	}
	client, ok := c.(*elasticloadbalancingv2.Client)
	if !ok {
		return nil, fmt.Errorf("provider did not return an *elasticloadbalancingv2.Client")
	}
	return client, nil
}

// EventBridgeClient asserts provider's "eventbridge" client back to its
// concrete type.
func EventBridgeClient(p resource.Provider) (*eventbridge.Client, error) {
	c, err := p.Client("eventbridge")
	if err != nil {
		return nil, err
	}
	client, ok := c.(*eventbridge.Client)
	if !ok {
		return nil, fmt.Errorf("provider did not return an *eventbridge.Client")
	}
	return client, nil
}

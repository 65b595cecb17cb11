// Package example ships a small worked deployment: a networking backbone
// (VPC, subnets, route table, security group) feeding an application
// backbone (ALB, ECS cluster, event bus) through pkg/plan's nesting, the
// same layering original_source/pdep/aws/backbones/{net,app} describe as
// separate Python classes applied one after the other with the second
// reading the first's output back from the state store. Here both backbones
// are children of one outer deployment Plan, so pkg/plan's own Apply
// recursion does the ordering and the state-store read-back instead of a
// second CLI invocation.
package example

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/connector"
	"github.com/amirhadar/pdep-go/pkg/plan"
)

// DeploymentClassTag identifies the outer plan nesting the net and app
// backbones together.
const DeploymentClassTag = "pdep.example.Deployment"

// DeploymentRootUUID is this example's fixed root identity. The original
// Python project used two independent root uuids, one per backbone
// (a81054b2-bb57-4969-b3c5-308fee049e02 for the net backbone,
// a4a8393f-aead-4396-9e29-038f4b346104 for the app backbone), applied via
// two separate CLI invocations that read the net backbone's output back out
// of the state store by uuid. Nesting both backbones under one outer plan
// removes the need for that second invocation, so this example uses a
// single root uuid instead of reusing either of the originals.
var DeploymentRootUUID = uuid.MustParse("9b9f9a9e-6b1a-4b6e-9e7a-4f2d8a7b5c31")

// DeploymentInput is the whole worked example's declarative shape: a CIDR
// block (or empty, to reuse the account's default VPC), the availability
// zones to spread subnets across, and a name for the application backbone's
// resources.
type DeploymentInput struct {
	CidrBlock         string   `json:"cidr_block,omitempty"`
	AvailabilityZones []string `json:"availability_zones" validate:"required,min=1"`
	AppName           string   `json:"app_name" validate:"required"`
}

// DeploymentOutput surfaces the application backbone's externally useful
// results: the ALB's DNS name and the ARNs a caller would wire into a
// deploy pipeline or DNS record.
type DeploymentOutput struct {
	AlbDNSName    any `json:"alb_dns_name"`
	AlbArn        any `json:"alb_arn"`
	EcsClusterArn any `json:"ecs_cluster_arn"`
	EventBusArn   any `json:"event_bus_arn"`
}

// NewDeployment wires a net backbone and an app backbone into one root
// plan: the app backbone's SecurityGroupID and SubnetIDs are Connectors
// reading the net backbone's resolved output, so pkg/plan.Plan.Apply's
// declaration-order traversal (net added before app) applies networking
// before the application backbone resolves its own input.
func NewDeployment(input DeploymentInput, log zerolog.Logger) *plan.Plan[DeploymentInput, DeploymentOutput] {
	root := plan.New[DeploymentInput, DeploymentOutput](DeploymentClassTag, input, log)
	root.SetRootUUID(DeploymentRootUUID)

	net := NewNetBackbone(NetBackboneInput{
		CidrBlock:         input.CidrBlock,
		AvailabilityZones: input.AvailabilityZones,
	}, log)
	root.AddChild("net", net)

	// getField only extracts a named struct/map field, not a slice index, so
	// NetBackboneOutput.SubnetIDs (a []any) can't be crossed in one
	// FieldAccess call. Instead reach each subnet child directly by the path
	// segment NewNetBackbone registered it under and read its own SubnetID
	// field, the same way NewNetBackbone itself builds that list.
	subnetIDs := make([]any, 0, len(input.AvailabilityZones))
	for i := range input.AvailabilityZones {
		subnetNode := net.Child(fmt.Sprintf("subnet_%d", i))
		subnetIDs = append(subnetIDs, connector.FieldAccess(subnetNode, "SubnetID"))
	}

	app := NewAppBackbone(AppBackboneInput{
		Name:            input.AppName,
		SecurityGroupID: connector.FieldAccess(net, "SecurityGroupID"),
		SubnetIDs:       subnetIDs,
	}, log)
	root.AddChild("app", app)

	root.SetOutput(DeploymentOutput{
		AlbDNSName:    connector.FieldAccess(app, "AlbDNSName"),
		AlbArn:        connector.FieldAccess(app, "AlbArn"),
		EcsClusterArn: connector.FieldAccess(app, "EcsClusterArn"),
		EventBusArn:   connector.FieldAccess(app, "EventBusArn"),
	})
	return root
}

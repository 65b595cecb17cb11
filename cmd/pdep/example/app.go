package example

import (
	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/adapters"
	"github.com/amirhadar/pdep-go/pkg/connector"
	"github.com/amirhadar/pdep-go/pkg/resource"
)

// AppBackboneClassTag identifies the application backbone for
// pending-destroy reconstruction and envelope bookkeeping.
const AppBackboneClassTag = "pdep.example.SimpleAppBB"

// AppBackboneInput is the application backbone's declarative shape: an
// ALB, an ECS cluster, and an event bus, placed into a network the caller
// already owns. SecurityGroupID and SubnetIDs are typed `any`/`[]any` so a
// caller can pass either literal strings or Connectors reading a
// NetBackboneOutput — nesting this backbone under a net backbone wires the
// latter.
type AppBackboneInput struct {
	Name            string `json:"name" validate:"required"`
	SecurityGroupID any    `json:"security_group_id" validate:"required"`
	SubnetIDs       []any  `json:"subnet_ids" validate:"required,min=1"`
}

// AppBackboneOutput is the application backbone's resolved shape. Fields
// are typed `any` because SetOutput installs this struct at construction
// time, before the children producing these values have applied: each
// field holds a Connector until Plan.Apply resolves it (pkg/plan.Plan's
// own output-resolution step, exercised the same way pkg/plan's tests
// build a connector-laden output template).
type AppBackboneOutput struct {
	AlbArn        any `json:"alb_arn"`
	AlbDNSName    any `json:"alb_dns_name"`
	EcsClusterArn any `json:"ecs_cluster_arn"`
	EventBusArn   any `json:"event_bus_arn"`
}

// NewAppBackbone builds SimpleAppBB: an internet-facing ALB, an ECS
// cluster, and an EventBridge event bus. Grounded on
// original_source/pdep/aws/backbones/app/simpleappbb.py's
// SimpleAppBB.do_init_resources; unlike that file (whose alb/ecs_cluster/
// evb fields are literal placeholder strings) this backbone wires the real
// pkg/adapters types the supplemented feature set commits to.
func NewAppBackbone(input AppBackboneInput, log zerolog.Logger) *BaseBackbone[AppBackboneInput, AppBackboneOutput] {
	bb := newBackbone[AppBackboneInput, AppBackboneOutput](AppBackboneClassTag, input, log)

	albNode := resource.New[adapters.AlbInput, adapters.AlbOutput](
		adapters.AlbAdapter{Log: log},
		adapters.AlbInput{
			Name:            input.Name + "-alb",
			Scheme:          "internet-facing",
			SecurityGroupID: input.SecurityGroupID,
			SubnetIDs:       input.SubnetIDs,
		},
		log,
	)
	bb.AddChild("alb", albNode)

	clusterNode := resource.New[adapters.EcsClusterInput, adapters.EcsClusterOutput](
		adapters.EcsClusterAdapter{Log: log},
		adapters.EcsClusterInput{Name: input.Name + "-cluster"},
		log,
	)
	bb.AddChild("ecs_cluster", clusterNode)

	eventBusNode := resource.New[adapters.EventBusInput, adapters.EventBusOutput](
		adapters.EventBusAdapter{Log: log},
		adapters.EventBusInput{Name: input.Name + "-events"},
		log,
	)
	bb.AddChild("event_bus", eventBusNode)

	bb.SetOutput(AppBackboneOutput{
		AlbArn:        connector.FieldAccess(albNode, "Arn"),
		AlbDNSName:    connector.FieldAccess(albNode, "DNSName"),
		EcsClusterArn: connector.FieldAccess(clusterNode, "Arn"),
		EventBusArn:   connector.FieldAccess(eventBusNode, "Arn"),
	})
	return bb
}

package example

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/adapters"
	"github.com/amirhadar/pdep-go/pkg/connector"
	"github.com/amirhadar/pdep-go/pkg/resource"
)

// NetBackboneClassTag identifies the networking backbone for pending-destroy
// reconstruction and envelope bookkeeping.
const NetBackboneClassTag = "pdep.example.SimpleNetBB"

// NetBackboneInput declares the networking backbone. CidrBlock is optional:
// when empty the backbone discovers and reuses the account's default VPC
// instead of creating one, mirroring SimpleNetBB's `DefaultVpc()` fallback.
type NetBackboneInput struct {
	CidrBlock         string   `json:"cidr_block,omitempty"`
	AvailabilityZones []string `json:"availability_zones" validate:"required,min=1"`
}

// NetBackboneOutput is the networking backbone's resolved shape. Fields a
// downstream backbone may reference through a Connector are typed `any`,
// the same convention pkg/adapters uses for connector-bearing inputs.
type NetBackboneOutput struct {
	VpcID           any   `json:"vpc_id"`
	RouteTableID    any   `json:"route_table_id"`
	SecurityGroupID any   `json:"security_group_id"`
	SubnetIDs       []any `json:"subnet_ids"`
}

// NewNetBackbone builds SimpleNetBB: a VPC (or the account's default VPC
// when input.CidrBlock is empty), one route table, one subnet per
// availability zone with a route table association, and a security group
// open to 0.0.0.0/0 on every protocol. Grounded, resource-for-resource, on
// original_source/pdep/aws/backbones/net/simplenetbb.py's
// SimpleNetBB.do_init_resources.
func NewNetBackbone(input NetBackboneInput, log zerolog.Logger) *BaseBackbone[NetBackboneInput, NetBackboneOutput] {
	bb := newBackbone[NetBackboneInput, NetBackboneOutput](NetBackboneClassTag, input, log)

	var vpcNode resource.Node
	if input.CidrBlock != "" {
		vpcNode = resource.New[adapters.VpcInput, adapters.VpcOutput](
			adapters.VpcAdapter{Log: log},
			adapters.VpcInput{CidrBlock: input.CidrBlock},
			log,
		)
	} else {
		vpcNode = resource.New[struct{}, adapters.VpcOutput](adapters.DefaultVpc(log), struct{}{}, log)
	}
	bb.AddChild("vpc", vpcNode)
	vpcID := connector.FieldAccess(vpcNode, "VpcID")
	vpcCidr := connector.FieldAccess(vpcNode, "CidrBlock")

	rtNode := resource.New[adapters.RouteTableInput, adapters.RouteTableOutput](
		adapters.RouteTableAdapter{Log: log},
		adapters.RouteTableInput{VpcID: vpcID},
		log,
	)
	bb.AddChild("route_table", rtNode)
	routeTableID := connector.FieldAccess(rtNode, "RouteTableID")

	sgNode := resource.New[adapters.SecurityGroupInput, adapters.SecurityGroupOutput](
		adapters.SecurityGroupAdapter{Log: log},
		adapters.SecurityGroupInput{VpcID: vpcID, Name: "pdep-example", Description: "pdep example security group"},
		log,
	)
	bb.AddChild("security_group", sgNode)
	securityGroupID := connector.FieldAccess(sgNode, "SecurityGroupID")

	bb.AddChild("ingress_all", resource.New[adapters.SecurityGroupRuleIngressInput, adapters.SecurityGroupRuleOutput](
		adapters.SecurityGroupRuleIngressAdapter{Log: log},
		adapters.SecurityGroupRuleIngressInput{SecurityGroupID: securityGroupID, FromPort: 0, ToPort: 0, Protocol: "-1", CidrBlocks: []string{"0.0.0.0/0"}},
		log,
	))
	bb.AddChild("egress_all", resource.New[adapters.SecurityGroupRuleEgressInput, adapters.SecurityGroupRuleOutput](
		adapters.SecurityGroupRuleEgressAdapter{Log: log},
		adapters.SecurityGroupRuleEgressInput{SecurityGroupID: securityGroupID, FromPort: 0, ToPort: 0, Protocol: "-1", CidrBlocks: []string{"0.0.0.0/0"}},
		log,
	))

	subnetIDs := make([]any, 0, len(input.AvailabilityZones))
	for i, az := range input.AvailabilityZones {
		cidr := adapters.SubnetCidr(vpcCidr, len(input.AvailabilityZones), i)
		subnetKey := fmt.Sprintf("subnet_%d", i)
		subnetNode := resource.New[adapters.SubnetInput, adapters.SubnetOutput](
			adapters.SubnetAdapter{Log: log},
			adapters.SubnetInput{VpcID: vpcID, CidrBlock: cidr, AvailabilityZone: az},
			log,
		)
		bb.AddChild(subnetKey, subnetNode)
		subnetID := connector.FieldAccess(subnetNode, "SubnetID")
		subnetIDs = append(subnetIDs, subnetID)

		bb.AddChild(fmt.Sprintf("rta_%d", i), resource.New[adapters.RouteTableAssociationInput, adapters.RouteTableAssociationOutput](
			adapters.RouteTableAssociationAdapter{Log: log},
			adapters.RouteTableAssociationInput{RouteTableID: routeTableID, SubnetID: subnetID},
			log,
		))
	}

	bb.SetOutput(NetBackboneOutput{
		VpcID:           vpcID,
		RouteTableID:    routeTableID,
		SecurityGroupID: securityGroupID,
		SubnetIDs:       subnetIDs,
	})
	return bb
}

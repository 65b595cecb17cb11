package example

import (
	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/adapters"
)

// RegisterAdapterClasses wires every adapter class this example's backbones
// use into resource.RegisterClass, so a pending-destroy drain occurring in
// a later, unrelated apply (one that no longer builds this example's
// resource tree at all) can still reconstruct and tear down a leftover node
// by its persisted class tag alone. resource.RegisterClass has no implicit
// discovery path — every adapter.RegisterAdapterClass-registering package
// in a deployed binary is expected to call this once at startup, the same
// way pkg/adapters/adapters_test.go's init() does for its own tests.
func RegisterAdapterClasses(log zerolog.Logger) {
	adapters.RegisterAdapterClass[adapters.VpcInput, adapters.VpcOutput]("aws.Vpc", adapters.VpcAdapter{Log: log})
	adapters.RegisterAdapterClass[struct{}, adapters.VpcOutput]("aws.DefaultVpc", adapters.DefaultVpc(log))
	adapters.RegisterAdapterClass[adapters.SubnetInput, adapters.SubnetOutput]("aws.Subnet", adapters.SubnetAdapter{Log: log})
	adapters.RegisterAdapterClass[adapters.RouteTableInput, adapters.RouteTableOutput]("aws.RouteTable", adapters.RouteTableAdapter{Log: log})
	adapters.RegisterAdapterClass[adapters.RouteTableAssociationInput, adapters.RouteTableAssociationOutput]("aws.RouteTableAssociation", adapters.RouteTableAssociationAdapter{Log: log})
	adapters.RegisterAdapterClass[adapters.SecurityGroupInput, adapters.SecurityGroupOutput]("aws.SecurityGroup", adapters.SecurityGroupAdapter{Log: log})
	adapters.RegisterAdapterClass[adapters.SecurityGroupRuleIngressInput, adapters.SecurityGroupRuleOutput]("aws.SecurityGroupRuleIngress", adapters.SecurityGroupRuleIngressAdapter{Log: log})
	adapters.RegisterAdapterClass[adapters.SecurityGroupRuleEgressInput, adapters.SecurityGroupRuleOutput]("aws.SecurityGroupRuleEgress", adapters.SecurityGroupRuleEgressAdapter{Log: log})
	adapters.RegisterAdapterClass[adapters.AlbInput, adapters.AlbOutput]("aws.Alb", adapters.AlbAdapter{Log: log})
	adapters.RegisterAdapterClass[adapters.EcsClusterInput, adapters.EcsClusterOutput]("aws.EcsCluster", adapters.EcsClusterAdapter{Log: log})
	adapters.RegisterAdapterClass[adapters.EventBusInput, adapters.EventBusOutput]("aws.EventBus", adapters.EventBusAdapter{Log: log})
}

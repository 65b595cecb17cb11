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
	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/plan"
)

// BaseBackbone wraps a plan.Plan, giving every concrete backbone
// constructor (NewNetBackbone, NewAppBackbone) the same shape: build the
// backbone's resources, wire them into its embedded Plan as children, and
// hand back a typed node the caller adds to an outer plan or drives as its
// own root. Grounded on original_source/pdep/aws/backbones/{net,app}/
// interfaces.py's BasicNetBBInterface/BasicAppBBInterface base classes,
// collapsed into one generic type since pkg/plan.Plan already supplies the
// identity and traversal machinery those Python base classes hand-rolled.
type BaseBackbone[In any, Out any] struct {
	*plan.Plan[In, Out]
}

func newBackbone[In any, Out any](classTag string, input In, log zerolog.Logger) *BaseBackbone[In, Out] {
	return &BaseBackbone[In, Out]{Plan: plan.New[In, Out](classTag, input, log)}
}

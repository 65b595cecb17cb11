// Package adapters implements concrete resource.Adapter types against
// pkg/provider's LocalStack-style AWS provider: the VPC/networking/load
// balancer/container/event-bus resources this engine's
// target domain.
//
// Grounded on original_source/pdep/aws/{network,elb,ecs,eventbridge}.py.
package adapters

import (
	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/resource"
	"github.com/amirhadar/pdep-go/pkg/state"
)

// RegisterAdapterClass wires a stateless adapter into resource.RegisterClass
// so a pending-destroy drain can reconstruct a Node of its class from a
// persisted envelope alone. The reconstructed
// node carries no resolved input/output of its own: resource.Base.Destroy
// re-reads both from the envelope itself, so only the adapter and uuid need
// wiring here.
func RegisterAdapterClass[In any, Out any](classTag string, adapter resource.Adapter[In, Out]) {
	resource.RegisterClass(classTag, func(env *state.Envelope) (resource.Node, error) {
		var zero In
		b := resource.New[In, Out](adapter, zero, zerolog.Nop())
		b.SetUUID(env.UUID)
		return b, nil
	})
}

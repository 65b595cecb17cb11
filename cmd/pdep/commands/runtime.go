package commands

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/amirhadar/pdep-go/cmd/pdep/example"
	"github.com/amirhadar/pdep-go/pkg/orchestrator"
	"github.com/amirhadar/pdep-go/pkg/provider"
	"github.com/amirhadar/pdep-go/pkg/state"
)

// buildStore opens the state backend named by --state-backend.
func buildStore(ctx context.Context) (state.Store, error) {
	switch stateBackend {
	case "file":
		return state.NewFileStore(statePath, log.Logger)
	case "sqlite":
		return state.NewSQLiteStore(ctx, state.SQLiteConfig{Path: statePath}, log.Logger)
	default:
		return nil, fmt.Errorf("unknown state backend %q (want file or sqlite)", stateBackend)
	}
}

// buildOrchestrator opens the state backend and the LocalStack provider,
// and registers this example's adapter classes so a pending-destroy drain
// started by a later run can reconstruct nodes the current deployment no
// longer declares.
func buildOrchestrator(ctx context.Context) (*orchestrator.Orchestrator, error) {
	store, err := buildStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("open state backend: %w", err)
	}
	p, err := provider.New(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("connect provider: %w", err)
	}
	example.RegisterAdapterClasses(log.Logger)
	metrics := orchestrator.NewMetrics(prometheus.NewRegistry())
	return orchestrator.New(store, p, log.Logger, metrics), nil
}

// deploymentInput assembles example.DeploymentInput from the root
// command's persistent flags.
func deploymentInput() example.DeploymentInput {
	return example.DeploymentInput{
		CidrBlock:         cidrBlock,
		AvailabilityZones: availabilityZones,
		AppName:           appName,
	}
}

package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/amirhadar/pdep-go/cmd/pdep/example"
)

func newPlanCommand() *cobra.Command {
	var checkDrift bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview the example deployment without creating, updating, or destroying anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			orch, err := buildOrchestrator(ctx)
			if err != nil {
				return err
			}

			root := example.NewDeployment(deploymentInput(), log.Logger)
			applyUUID, err := orch.Apply(ctx, root, true, checkDrift)
			if err != nil {
				return err
			}

			out := root.TypedOutput()
			log.Info().
				Str("apply_uuid", applyUUID.String()).
				Interface("alb_dns_name", out.AlbDNSName).
				Interface("alb_arn", out.AlbArn).
				Interface("ecs_cluster_arn", out.EcsClusterArn).
				Interface("event_bus_arn", out.EventBusArn).
				Msg("dry-run plan complete")
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkDrift, "check-drift", false, "query the provider for drift on every already-applied resource")
	return cmd
}

package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/amirhadar/pdep-go/cmd/pdep/example"
)

func newApplyCommand() *cobra.Command {
	var checkDrift bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile the example deployment against the configured provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			orch, err := buildOrchestrator(ctx)
			if err != nil {
				return err
			}

			root := example.NewDeployment(deploymentInput(), log.Logger)
			applyUUID, err := orch.Apply(ctx, root, false, checkDrift)
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
				Msg("deployment applied")
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkDrift, "check-drift", false, "query the provider for drift on every already-applied resource")
	return cmd
}

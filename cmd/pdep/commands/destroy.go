package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/amirhadar/pdep-go/cmd/pdep/example"
)

func newDestroyCommand() *cobra.Command {
	var autoApprove bool

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Tear down the example deployment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !autoApprove {
				return fmt.Errorf("refusing to destroy without --auto-approve")
			}

			ctx := cmd.Context()
			orch, err := buildOrchestrator(ctx)
			if err != nil {
				return err
			}

			root := example.NewDeployment(deploymentInput(), log.Logger)
			applyUUID, err := orch.Destroy(ctx, root, false)
			if err != nil {
				return err
			}

			log.Info().Str("apply_uuid", applyUUID.String()).Msg("deployment destroyed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "confirm the destroy without an interactive prompt")
	return cmd
}

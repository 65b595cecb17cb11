// Package commands implements pdep's cobra CLI: apply/destroy/plan against
// the worked net+app backbone example in cmd/pdep/example, a dev
// subcommand that re-plans on file change, and a validate subcommand for
// CUE plan declarations.
//
// Every command here except validate drives pkg/orchestrator end to end;
// validate only runs pkg/config's parser and schema checks.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	stateBackend string
	statePath    string
	endpoint     string

	cidrBlock         string
	availabilityZones []string
	appName           string
)

// Execute runs the root command.
func Execute(ctx context.Context, version, commit string) error {
	rootCmd := newRootCommand(version, commit)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pdep",
		Short: "pdep reconciles a declarative resource graph against a LocalStack-backed AWS account",
		Long: `pdep is a declarative reconciliation engine: it derives resource identity
from a plan's structure, resolves Connector-wired inputs, and drives
create/update/destroy through a pluggable adapter contract.

This build ships one worked example (cmd/pdep/example): a networking
backbone (VPC, subnets, route table, security group) feeding an application
backbone (ALB, ECS cluster, event bus).`,
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
	}

	rootCmd.PersistentFlags().StringVar(&stateBackend, "state-backend", "file", "state backend: file or sqlite")
	rootCmd.PersistentFlags().StringVar(&statePath, "state-path", "pdep.state.json", "state file/database path")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "AWS API endpoint (defaults to LocalStack's http://localhost:4566)")

	rootCmd.PersistentFlags().StringVar(&cidrBlock, "cidr-block", "", "VPC CIDR block; empty reuses the account's default VPC")
	rootCmd.PersistentFlags().StringSliceVar(&availabilityZones, "az", []string{"us-east-1a", "us-east-1b"}, "availability zones to spread subnets across")
	rootCmd.PersistentFlags().StringVar(&appName, "app-name", "pdep-example", "name prefix for the application backbone's resources")

	rootCmd.AddCommand(newPlanCommand())
	rootCmd.AddCommand(newApplyCommand())
	rootCmd.AddCommand(newDestroyCommand())
	rootCmd.AddCommand(newDevCommand())
	rootCmd.AddCommand(newValidateCommand())

	return rootCmd
}

package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/amirhadar/pdep-go/pkg/config"
)

// newValidateCommand exercises pkg/config's CUE entry point: an
// alternative to authoring a deployment in Go, a caller can instead
// declare a plan's resources in CUE and have this command parse and
// schema-validate it before any adapter runs.
func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [cue-file-or-dir ...]",
		Short: "Parse and schema-validate one or more CUE plan declarations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewCUEParser()
			parsed, err := parser.Parse(cmd.Context(), args)
			if err != nil {
				return fmt.Errorf("parse cue sources: %w", err)
			}
			if len(parsed.Errors) == 0 {
				if err := parser.SchemaRegistry().ValidatePlan(cmd.Context(), parsed.Plan); err != nil {
					parsed.Errors = append(parsed.Errors, config.ValidationError{Path: "plan", Message: err.Error(), Severity: "error"})
				}
			}

			for _, e := range parsed.Errors {
				log.Warn().Str("file", e.File).Str("path", e.Path).Str("severity", e.Severity).Msg(e.Message)
			}

			log.Info().
				Str("plan_class_tag", parsed.Plan.ClassTag).
				Int("resources", len(parsed.Plan.Resources)).
				Int("source_files", len(parsed.SourceFiles)).
				Int("errors", len(parsed.Errors)).
				Msg("cue plan parsed")

			if len(parsed.Errors) > 0 {
				return fmt.Errorf("%d validation error(s)", len(parsed.Errors))
			}
			return nil
		},
	}
	return cmd
}

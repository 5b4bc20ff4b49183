// Package validate provides the validate command.
package validate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/sizer/cmd/application"
	"github.com/agentstation/sizer/internal/persistence"
	"github.com/agentstation/sizer/pkg/validate"
)

// NewCommand creates the validate command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "validate [path]",
		GroupID: "catalog",
		Short:   "Check a catalog artifact against the record schema",
		Long: `Validate re-checks every record of a catalog artifact: ranges, finite
values, non-empty and unique identities. It exits non-zero when any record
fails.`,
		Example: `  sizer validate
  sizer validate data/models.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.Settings().CatalogPath
			if len(args) == 1 {
				path = args[0]
			}

			records, err := persistence.ReadRecords(path)
			if err != nil {
				return err
			}

			errs := validate.Records(records)
			for _, err := range errs {
				cmd.PrintErrf("  %v\n", err)
			}
			if len(errs) > 0 {
				return fmt.Errorf("%s: %d validation errors in %d records", path, len(errs), len(records))
			}

			cmd.Printf("%s: %d records valid\n", path, len(records))
			return nil
		},
	}
}

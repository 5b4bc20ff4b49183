// Package list provides the list command.
package list

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/sizer/cmd/application"
	"github.com/agentstation/sizer/internal/cmd/output"
	"github.com/agentstation/sizer/internal/persistence"
	"github.com/agentstation/sizer/pkg/catalogs"
)

// Flags holds the list command flags.
type Flags struct {
	Catalog  string
	Staging  string
	Staged   bool
	Provider string
}

// NewCommand creates the list command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "list",
		GroupID: "catalog",
		Short:   "List catalog records or staged candidates",
		Example: `  sizer list
  sizer list --provider meta-llama -o wide
  sizer list --staged -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := app.Settings()
			if flags.Catalog == "" {
				flags.Catalog = settings.CatalogPath
			}
			if flags.Staging == "" {
				flags.Staging = settings.StagingPath
			}
			format := output.Format(app.OutputFormat())

			if flags.Staged {
				candidates, err := persistence.ReadCandidates(flags.Staging)
				if err != nil {
					return err
				}
				return output.FormatCandidates(cmd.OutOrStdout(), filterCandidates(candidates, flags.Provider), format)
			}

			records, err := persistence.ReadRecords(flags.Catalog)
			if err != nil {
				return err
			}
			return output.FormatRecords(cmd.OutOrStdout(), filterRecords(records, flags.Provider), format)
		},
	}

	cmd.Flags().StringVar(&flags.Catalog, "catalog", "", "catalog artifact path")
	cmd.Flags().StringVar(&flags.Staging, "staging", "", "staging artifact path")
	cmd.Flags().BoolVar(&flags.Staged, "staged", false, "list staged candidates instead of catalog records")
	cmd.Flags().StringVar(&flags.Provider, "provider", "", "only show models from this provider")

	return cmd
}

func filterRecords(records []catalogs.Record, provider string) []catalogs.Record {
	if provider == "" {
		return records
	}
	var out []catalogs.Record
	for _, r := range records {
		if catalogs.ProviderFromID(r.ID) == provider {
			out = append(out, r)
		}
	}
	return out
}

func filterCandidates(candidates []catalogs.Candidate, provider string) []catalogs.Candidate {
	if provider == "" {
		return candidates
	}
	var out []catalogs.Candidate
	for _, c := range candidates {
		if c.Provider == provider {
			out = append(out, c)
		}
	}
	return out
}

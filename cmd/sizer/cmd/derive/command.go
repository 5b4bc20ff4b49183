// Package derive provides the derive command.
package derive

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/sizer"
	"github.com/agentstation/sizer/cmd/application"
	"github.com/agentstation/sizer/pkg/overlay"
)

// Flags holds the derive command flags.
type Flags struct {
	Staging        string
	Seed           string
	Output         string
	Prior          string
	Concurrency    int
	Timeout        time.Duration
	BaselinePolicy string
	Cache          string
	Offline        bool
}

// NewCommand creates the derive command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "derive",
		GroupID: "pipeline",
		Short:   "Derive architecture fields and write the catalog",
		Long: `Derive builds the working set from the staging artifact and the curated
baseline, looks up each model's published configuration and writes the
validated records to the catalog.

When a configuration is gated, missing or unreachable the record keeps its
baseline values. Records that fail validation are reported and left out of
the catalog. An interrupted run writes nothing.`,
		Example: `  sizer derive
  sizer derive --offline
  sizer derive --concurrency 16 --timeout 30s --cache ~/.cache/sizer/lookups.db
  sizer derive --baseline-policy patch --prior data/models.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			return run(cmd, app, opts)
		},
	}

	cmd.Flags().StringVar(&flags.Staging, "staging", "", "staging artifact path")
	cmd.Flags().StringVar(&flags.Seed, "seed", "", "seed file with the baseline and rankings (default: embedded)")
	cmd.Flags().StringVar(&flags.Output, "output", "", "catalog artifact path")
	cmd.Flags().StringVar(&flags.Prior, "prior", "", "previous catalog to start staged entries from")
	cmd.Flags().IntVar(&flags.Concurrency, "concurrency", 0, "derivation workers")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "timeout for each remote lookup")
	cmd.Flags().StringVar(&flags.BaselinePolicy, "baseline-policy", "", "how baseline values apply: replace or patch")
	cmd.Flags().StringVar(&flags.Cache, "cache", "", "lookup cache database path")
	cmd.Flags().BoolVar(&flags.Offline, "offline", false, "skip remote lookups and keep baseline values")

	return cmd
}

// options converts the flags that were set into pipeline options.
func (f *Flags) options(cmd *cobra.Command) ([]sizer.Option, error) {
	var opts []sizer.Option
	changed := cmd.Flags().Changed

	if changed("staging") {
		opts = append(opts, sizer.WithStagingPath(f.Staging))
	}
	if changed("seed") {
		opts = append(opts, sizer.WithSeedPath(f.Seed))
	}
	if changed("output") {
		opts = append(opts, sizer.WithCatalogPath(f.Output))
	}
	if changed("prior") {
		opts = append(opts, sizer.WithPriorCatalog(f.Prior))
	}
	if changed("concurrency") {
		opts = append(opts, sizer.WithConcurrency(f.Concurrency))
	}
	if changed("timeout") {
		opts = append(opts, sizer.WithLookupTimeout(f.Timeout))
	}
	if changed("baseline-policy") {
		policy, err := overlay.ParsePolicy(f.BaselinePolicy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sizer.WithBaselinePolicy(policy))
	}
	if changed("cache") {
		opts = append(opts, sizer.WithCache(f.Cache, 0))
	}
	if changed("offline") {
		opts = append(opts, sizer.WithOffline(f.Offline))
	}
	return opts, nil
}

func run(cmd *cobra.Command, app application.Application, opts []sizer.Option) error {
	logger := app.Logger()

	s, err := app.Sizer(opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close pipeline")
		}
	}()

	result, err := s.Derive(cmd.Context())
	if err != nil {
		return fmt.Errorf("derive: %w", err)
	}

	cmd.Printf("Wrote %d records to %s (%d rejected)\n", len(result.Records), result.Path, len(result.Failures))
	for _, f := range result.Failures {
		cmd.Printf("  rejected %s: %v\n", f.ID, f.Err)
	}

	c := result.Changes
	logger.Info().
		Int("added", c.Added).
		Int("updated", c.Updated).
		Int("removed", c.Removed).
		Int("unchanged", c.Unchanged).
		Dur("duration", result.Duration()).
		Msg("Catalog updated")
	return nil
}

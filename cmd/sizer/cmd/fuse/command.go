// Package fuse provides the fuse command.
package fuse

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/sizer"
	"github.com/agentstation/sizer/cmd/application"
	"github.com/agentstation/sizer/internal/cmd/output"
	"github.com/agentstation/sizer/pkg/sources"
)

// Flags holds the fuse command flags.
type Flags struct {
	Staging         string
	Sources         []string
	HubLimit        int
	OpenRouterLimit int
	Offline         bool
	Show            bool
}

// NewCommand creates the fuse command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "fuse",
		GroupID: "pipeline",
		Short:   "Discover candidate models and write the staging artifact",
		Long: `Fuse collects candidate models from every enabled source, merges
candidates that share an identity and writes them to the staging artifact,
most popular first.

A source that fails is logged and skipped; the remaining sources are still
fused.`,
		Example: `  sizer fuse
  sizer fuse --sources hub,rankings --hub-limit 100
  sizer fuse --offline --show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			return run(cmd, app, flags, opts)
		},
	}

	cmd.Flags().StringVar(&flags.Staging, "staging", "", "staging artifact path")
	cmd.Flags().StringSliceVar(&flags.Sources, "sources", nil, "sources to query in priority order (hub, rankings, openrouter)")
	cmd.Flags().IntVar(&flags.HubLimit, "hub-limit", 0, "models to request from the hub listing")
	cmd.Flags().IntVar(&flags.OpenRouterLimit, "openrouter-limit", 0, "OpenRouter index entries to consider")
	cmd.Flags().BoolVar(&flags.Offline, "offline", false, "only use sources that need no network")
	cmd.Flags().BoolVar(&flags.Show, "show", false, "print the fused candidates")

	return cmd
}

// options converts the flags that were set into pipeline options.
func (f *Flags) options(cmd *cobra.Command) ([]sizer.Option, error) {
	var opts []sizer.Option
	if cmd.Flags().Changed("staging") {
		opts = append(opts, sizer.WithStagingPath(f.Staging))
	}
	if cmd.Flags().Changed("sources") {
		ids := make([]sources.ID, len(f.Sources))
		for i, s := range f.Sources {
			ids[i] = sources.ID(s)
			if !ids[i].IsValid() {
				return nil, fmt.Errorf("unknown source %q", s)
			}
		}
		opts = append(opts, sizer.WithSources(ids...))
	}
	if cmd.Flags().Changed("hub-limit") {
		opts = append(opts, sizer.WithHubLimit(f.HubLimit))
	}
	if cmd.Flags().Changed("openrouter-limit") {
		opts = append(opts, sizer.WithOpenRouterLimit(f.OpenRouterLimit))
	}
	if cmd.Flags().Changed("offline") {
		opts = append(opts, sizer.WithOffline(f.Offline))
	}
	return opts, nil
}

func run(cmd *cobra.Command, app application.Application, flags *Flags, opts []sizer.Option) error {
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

	result, err := s.Fuse(cmd.Context())
	if err != nil {
		return fmt.Errorf("fuse: %w", err)
	}

	for _, failed := range result.Failed {
		logger.Warn().Str("source", failed.ID.String()).Err(failed.Err).Msg("Source skipped")
	}

	if flags.Show {
		format := output.Format(app.OutputFormat())
		if err := output.FormatCandidates(cmd.OutOrStdout(), result.Candidates, format); err != nil {
			return err
		}
	}

	cmd.Printf("Wrote %d candidates to %s\n", len(result.Candidates), result.Path)
	return nil
}

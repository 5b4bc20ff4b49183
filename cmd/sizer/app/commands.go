package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/sizer/cmd/sizer/cmd/derive"
	"github.com/agentstation/sizer/cmd/sizer/cmd/fuse"
	"github.com/agentstation/sizer/cmd/sizer/cmd/list"
	"github.com/agentstation/sizer/cmd/sizer/cmd/validate"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Pipeline commands
	rootCmd.AddCommand(fuse.NewCommand(a))
	rootCmd.AddCommand(derive.NewCommand(a))

	// Catalog commands
	rootCmd.AddCommand(list.NewCommand(a))
	rootCmd.AddCommand(validate.NewCommand(a))

	rootCmd.AddCommand(a.newVersionCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("sizer %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}

package app

import (
	"github.com/spf13/cobra"

	"github.com/deppmann/biocards/cmd/biocards/cmd/add"
	"github.com/deppmann/biocards/cmd/biocards/cmd/auth"
	"github.com/deppmann/biocards/cmd/biocards/cmd/eras"
	"github.com/deppmann/biocards/cmd/biocards/cmd/imports"
	"github.com/deppmann/biocards/cmd/biocards/cmd/list"
	"github.com/deppmann/biocards/cmd/biocards/cmd/serve"
	"github.com/deppmann/biocards/cmd/biocards/cmd/sync"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(add.NewCommand(a))
	rootCmd.AddCommand(sync.NewCommand(a))
	rootCmd.AddCommand(list.NewCommand(a))
	rootCmd.AddCommand(imports.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(eras.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a))
	rootCmd.AddCommand(auth.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("biocards %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}

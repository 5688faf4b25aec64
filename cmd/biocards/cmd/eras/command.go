// Package eras implements the command that shows the era vocabulary.
package eras

import (
	"github.com/spf13/cobra"

	"github.com/deppmann/biocards"
	"github.com/deppmann/biocards/internal/output"
)

// AppContext defines what the eras command needs from the app.
type AppContext interface {
	Client() (biocards.Client, error)
	OutputFormat() string
}

// NewCommand creates the eras command.
func NewCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "eras",
		GroupID: "management",
		Short:   "Show the era vocabulary",
		Long: `Eras lists the catalog's eras numbered as in the interactive entry
menu, with the number of cards filed under each.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			catalog, err := client.Catalog(cmd.Context())
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			if format.IsTable() {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), output.ErasTable(catalog))
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), catalog.Eras)
		},
	}
}

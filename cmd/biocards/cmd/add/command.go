// Package add implements the command that adds or updates a single card.
package add

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deppmann/biocards"
	"github.com/deppmann/biocards/internal/prompt"
)

// directArgs is the argument count that switches from the interactive
// flow to direct mode.
const directArgs = 6

// AppContext defines what the add command needs from the app.
type AppContext interface {
	Client() (biocards.Client, error)
	Logger() *zerolog.Logger
}

// NewCommand creates the add command.
func NewCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "add [name years era contribution front_file back_file [student_name]]",
		GroupID: "core",
		Short:   "Add or update a card",
		Long: `Add writes a card into the catalog. A card whose id already exists is
replaced in place, keeping its position.

With six or seven arguments the card is written directly. With fewer the
fields are asked for one at a time; the era can be picked by its number in
the listed vocabulary or typed out.`,
		Example: `  biocards add "Marie Curie" 1867-1934 "Pre-1900 Foundations" \
    "Pioneered research on radioactivity" curie_marie_front.png curie_marie_back.png
  biocards add                                  # Interactive entry`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			if len(args) < directArgs {
				flow := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())
				_, err := flow.Run(cmd.Context(), client)
				return err
			}
			return runDirect(cmd, app.Logger(), client, args)
		},
	}
}

// runDirect upserts the card described by positional arguments.
func runDirect(cmd *cobra.Command, logger *zerolog.Logger, client biocards.Writer, args []string) error {
	if len(args) > directArgs+1 {
		logger.Warn().Strs("ignored", args[directArgs+1:]).Msg("Extra arguments ignored")
	}

	sub := biocards.Submission{
		Name:         args[0],
		Years:        args[1],
		Era:          args[2],
		Contribution: args[3],
		FrontFile:    args[4],
		BackFile:     args[5],
	}
	if len(args) > directArgs {
		sub.Student = args[6]
	}

	result, err := client.Upsert(cmd.Context(), sub)
	if err != nil {
		return err
	}
	prompt.Report(cmd.OutOrStdout(), result)
	return nil
}

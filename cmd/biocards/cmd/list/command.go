// Package list implements the command that shows catalog cards.
package list

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deppmann/biocards"
	"github.com/deppmann/biocards/internal/output"
	"github.com/deppmann/biocards/pkg/cards"
	"github.com/deppmann/biocards/pkg/errors"
)

// AppContext defines what the list command needs from the app.
type AppContext interface {
	Client() (biocards.Client, error)
	Logger() *zerolog.Logger
	OutputFormat() string
}

// Flags holds the list command flags.
type Flags struct {
	Search string
	Era    string
	Sort   string
	Limit  int
}

// NewCommand creates the list command.
func NewCommand(app AppContext) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "list [card-id]",
		GroupID: "core",
		Aliases: []string{"ls"},
		Short:   "List catalog cards",
		Long: `List shows the cards in the catalog, filtered and ordered the same way
the gallery page does. With a card id it shows that single card.`,
		Args: cobra.MaximumNArgs(1),
		Example: `  biocards list                              # Catalog order
  biocards list --search curie               # Name or contribution match
  biocards list --era "Pre-1900 Foundations" --sort name
  biocards list curie_marie -o yaml          # One card`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return showCard(cmd, app, args[0])
			}
			return listCards(cmd, app, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Search, "search", "s", "",
		"Match scientist name or contribution")
	cmd.Flags().StringVar(&flags.Era, "era", "",
		"Only cards of this era")
	cmd.Flags().StringVar(&flags.Sort, "sort", "",
		"Order: name, name-desc, era, recent, random (default catalog order)")
	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", 0,
		"Maximum number of cards (0 for all)")

	return cmd
}

func listCards(cmd *cobra.Command, app AppContext, flags *Flags) error {
	order, err := cards.ParseSortOrder(flags.Sort)
	if err != nil {
		return err
	}
	if flags.Limit < 0 {
		return errors.NewValidationError("limit", flags.Limit, "must not be negative")
	}

	client, err := app.Client()
	if err != nil {
		return err
	}
	catalog, err := client.Catalog(cmd.Context())
	if err != nil {
		return err
	}

	query := cards.Query{
		Search: flags.Search,
		Era:    flags.Era,
		Sort:   order,
		Limit:  flags.Limit,
	}
	filtered := query.Apply(catalog.Cards)

	format := output.DetectFormat(app.OutputFormat())
	if format.IsTable() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Found %d cards\n", len(filtered))
	}
	return output.WriteCards(cmd.OutOrStdout(), format, filtered)
}

func showCard(cmd *cobra.Command, app AppContext, id string) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	catalog, err := client.Catalog(cmd.Context())
	if err != nil {
		return err
	}

	card, ok := catalog.Find(id)
	if !ok {
		return errors.NewNotFoundError("card", id)
	}

	format := output.DetectFormat(app.OutputFormat())
	return output.NewFormatter(format).Format(cmd.OutOrStdout(), card)
}

// Package imports implements the command that imports form responses.
package imports

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deppmann/biocards"
	"github.com/deppmann/biocards/internal/cmd/application"
	"github.com/deppmann/biocards/internal/cmd/emoji"
	"github.com/deppmann/biocards/internal/forms"
	"github.com/deppmann/biocards/internal/output"
	"github.com/deppmann/biocards/internal/sources/drive"
	"github.com/deppmann/biocards/pkg/errors"
)

// AppContext defines what the import command needs from the app.
type AppContext interface {
	Client() (biocards.Client, error)
	Settings() application.Settings
	Logger() *zerolog.Logger
	OutputFormat() string
}

// Flags holds the import command flags.
type Flags struct {
	Late     bool
	Download bool
}

// NewCommand creates the import command.
func NewCommand(app AppContext) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "import <responses.csv>",
		GroupID: "core",
		Short:   "Import submission form responses",
		Long: `Import reads the response sheet of the submission form, exported as CSV,
and writes one card per response. Image paths follow the naming convention
cards/<id>_front.png and cards/<id>_back.png.

With --late the sheet is read with the late form layout: cards are marked
as late submissions, and a replacement naming a different earlier
scientist removes that earlier card.

With --download the images linked from each response are fetched from
Google Drive into the images directory. A response that fails is reported
and the import carries on.`,
		Example: `  biocards import responses.csv
  biocards import late.csv --late --download`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, flags, args[0])
		},
	}

	cmd.Flags().BoolVar(&flags.Late, "late", false,
		"Use the late submission form layout")
	cmd.Flags().BoolVar(&flags.Download, "download", false,
		"Download linked images from Google Drive")

	return cmd
}

func run(cmd *cobra.Command, app AppContext, flags *Flags, path string) error {
	settings := app.Settings()
	logger := app.Logger()

	f, err := os.Open(path) // #nosec G304 -- user supplied response sheet
	if err != nil {
		return errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	responses, err := forms.Parse(f, settings.Forms.Columns(flags.Late))
	if err != nil {
		return err
	}
	logger.Debug().Int("responses", len(responses)).Str("file", path).Msg("Parsed response sheet")

	client, err := app.Client()
	if err != nil {
		return err
	}

	opts := []forms.Option{
		forms.WithLate(flags.Late),
		forms.WithLogger(logger),
	}
	if flags.Download {
		src := drive.New(settings.Drive.FolderID,
			drive.WithCredentialsFile(settings.Drive.CredentialsFile),
			drive.WithTokenFile(settings.Drive.TokenFile),
			drive.WithInteractive(cmd.ErrOrStderr()),
			drive.WithLogger(logger),
		)
		opts = append(opts, forms.WithDownloader(src, settings.ImagesDir))
	}

	summary, err := forms.NewImporter(client, opts...).Import(cmd.Context(), responses)
	if err != nil {
		return err
	}

	format := output.DetectFormat(app.OutputFormat())
	if !format.IsTable() {
		return output.NewFormatter(format).Format(cmd.OutOrStdout(), summary)
	}

	w := cmd.OutOrStdout()
	for _, id := range summary.Added {
		fmt.Fprintf(w, "%s Added: %s\n", emoji.Success, id)
	}
	for _, id := range summary.Updated {
		fmt.Fprintf(w, "%s Updated: %s\n", emoji.Success, id)
	}
	for _, id := range summary.Replaced {
		fmt.Fprintf(w, "%s Replaced: %s\n", emoji.Warning, id)
	}
	for _, row := range summary.Failed {
		fmt.Fprintf(w, "%s Row %d (%s): %s\n", emoji.Error, row.Row, row.Scientist, row.Error)
	}
	fmt.Fprintf(w, "\nImport complete: %s\n", summary.String())
	return nil
}

// Package sync implements the command that pulls card images from an
// image source into the local images directory.
package sync

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deppmann/biocards"
	"github.com/deppmann/biocards/internal/cmd/application"
	"github.com/deppmann/biocards/internal/cmd/emoji"
	"github.com/deppmann/biocards/internal/output"
	"github.com/deppmann/biocards/internal/sources/drive"
	"github.com/deppmann/biocards/internal/sources/local"
	"github.com/deppmann/biocards/pkg/constants"
	"github.com/deppmann/biocards/pkg/errors"
	"github.com/deppmann/biocards/pkg/sources"
	"github.com/deppmann/biocards/pkg/sync"
)

// AppContext defines what the sync command needs from the app.
type AppContext interface {
	Client() (biocards.Client, error)
	Settings() application.Settings
	Logger() *zerolog.Logger
	OutputFormat() string
}

// Flags holds the sync command flags.
type Flags struct {
	Source  string
	Folder  string
	Dir     string
	Link    bool
	DryRun  bool
	Timeout time.Duration
}

// NewCommand creates the sync command.
func NewCommand(app AppContext) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "core",
		Short:   "Download new card images",
		Long: `Sync lists the images in the submission upload folder and downloads
every file not already present in the images directory. Files are matched
by name only.

Images named <id>_front.<ext> and <id>_back.<ext> are grouped into pairs.
With --link, cards whose id matches a pair get their image URLs pointed at
the synced files.

The Drive source authorizes with credentials.json and token.json. When
authorization is missing or fails, nothing is synced and the command
reports how to fix it.`,
		Example: `  biocards sync                               # Drive folder from config
  biocards sync --folder 1AbC... --link       # Explicit folder, link cards
  biocards sync --dry-run                     # Show what would be downloaded
  biocards sync --source local --dir ~/Downloads/cards`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Source, "source", string(sources.DriveID),
		"Image source: drive or local")
	cmd.Flags().StringVar(&flags.Folder, "folder", "",
		"Drive folder id (overrides drive.folder_id)")
	cmd.Flags().StringVar(&flags.Dir, "dir", "",
		"Directory to copy from when --source local")
	cmd.Flags().BoolVar(&flags.Link, "link", false,
		"Point matching cards at the synced images")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false,
		"Show what would be downloaded without writing anything")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", constants.SyncTimeout,
		"Timeout for the whole sync")

	return cmd
}

func run(cmd *cobra.Command, app AppContext, flags *Flags) error {
	logger := app.Logger()

	src, err := newSource(cmd, app, flags)
	if err != nil {
		return err
	}

	client, err := app.Client()
	if err != nil {
		return err
	}

	result, err := client.Sync(cmd.Context(), src,
		sync.WithDryRun(flags.DryRun),
		sync.WithLinkImages(flags.Link),
		sync.WithTimeout(flags.Timeout),
	)
	if err != nil {
		if errors.IsAuthError(err) {
			// Authorization problems skip the sync without failing the run.
			logger.Debug().Err(err).Msg("Sync skipped")
			fmt.Fprintf(cmd.OutOrStdout(), "%s Authorization error: %v\n", emoji.Error, err)
			fmt.Fprintln(cmd.OutOrStdout(), "Run 'biocards auth status' to check your Drive setup.")
			return nil
		}
		return err
	}

	format := output.DetectFormat(app.OutputFormat())
	if !format.IsTable() {
		return output.NewFormatter(format).Format(cmd.OutOrStdout(), result)
	}
	printResult(cmd.OutOrStdout(), result)
	return nil
}

// newSource picks the image source selected by --source from the ones
// the flags and settings configure.
func newSource(cmd *cobra.Command, app AppContext, flags *Flags) (sources.ImageSource, error) {
	id := sources.ID(flags.Source)
	if !id.IsValid() {
		return nil, errors.NewValidationError("source", flags.Source, "must be drive or local")
	}

	src, ok := configuredSources(cmd, app, flags).Get(id)
	if ok {
		return src, nil
	}
	if id == sources.DriveID {
		return nil, errors.NewValidationError("folder", flags.Folder,
			"set --folder or drive.folder_id")
	}
	return nil, errors.NewValidationError("dir", flags.Dir, "required with --source local")
}

// configuredSources registers every source that has enough settings to run.
func configuredSources(cmd *cobra.Command, app AppContext, flags *Flags) *sources.Sources {
	settings := app.Settings()
	reg := sources.NewSources()

	folder := flags.Folder
	if folder == "" {
		folder = settings.Drive.FolderID
	}
	if folder != "" {
		reg.Set(drive.New(folder,
			drive.WithCredentialsFile(settings.Drive.CredentialsFile),
			drive.WithTokenFile(settings.Drive.TokenFile),
			drive.WithInteractive(cmd.ErrOrStderr()),
			drive.WithLogger(app.Logger()),
		))
	}
	if flags.Dir != "" {
		reg.Set(local.New(flags.Dir))
	}

	app.Logger().Debug().Strs("configured", idStrings(reg.IDs())).Msg("Image sources")
	return reg
}

func idStrings(ids []sources.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// printResult writes the human readable sync report.
func printResult(w io.Writer, r *sync.Result) {
	verb := "Downloaded"
	if r.DryRun {
		verb = "Would download"
	}
	for _, name := range r.Downloaded {
		fmt.Fprintf(w, "%s %s: %s\n", emoji.Success, verb, name)
	}
	for _, f := range r.Failed {
		fmt.Fprintf(w, "%s Failed: %s (%s)\n", emoji.Error, f.File, f.Error)
	}
	for _, l := range r.Linked {
		if l.Updated {
			fmt.Fprintf(w, "%s Linked: %s\n", emoji.Success, l.CardID)
		}
	}
	for _, p := range r.Unmatched {
		fmt.Fprintf(w, "%s No card yet for %s, add it with 'biocards add'\n", emoji.Info, p.Prefix)
	}
	for _, name := range r.Stray {
		fmt.Fprintf(w, "%s Not a card image name: %s\n", emoji.Warning, name)
	}

	fmt.Fprintf(w, "\nSync complete: %s\n", r.Summary())
}

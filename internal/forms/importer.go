package forms

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/deppmann/biocards"
	"github.com/deppmann/biocards/internal/store"
	"github.com/deppmann/biocards/pkg/cards"
	"github.com/deppmann/biocards/pkg/constants"
	"github.com/deppmann/biocards/pkg/errors"
	"github.com/deppmann/biocards/pkg/logging"
)

// Writer is the part of the client an import needs.
type Writer interface {
	Upsert(ctx context.Context, sub biocards.Submission) (*cards.UpsertResult, error)
	Replace(ctx context.Context, previousName string, sub biocards.Submission) (*biocards.ReplaceResult, error)
}

// Downloader fetches a file by its Drive id.
type Downloader interface {
	DownloadByID(ctx context.Context, fileID string, w io.Writer) error
}

// Importer turns form responses into cards.
type Importer struct {
	writer     Writer
	downloader Downloader
	imagesDir  string
	late       bool
	logger     *zerolog.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithDownloader downloads each response's images before its card is
// written. Without a downloader only the catalog is updated.
func WithDownloader(d Downloader, imagesDir string) Option {
	return func(i *Importer) {
		i.downloader = d
		i.imagesDir = imagesDir
	}
}

// WithLate marks imported cards as late submissions and honors
// replacement requests.
func WithLate(late bool) Option {
	return func(i *Importer) {
		i.late = late
	}
}

// WithLogger sets the importer logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(i *Importer) {
		i.logger = logger
	}
}

// NewImporter creates an importer writing through w.
func NewImporter(w Writer, opts ...Option) *Importer {
	i := &Importer{
		writer:    w,
		imagesDir: constants.DefaultImagesDir,
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// RowError records a response that could not be imported.
type RowError struct {
	Row       int    `json:"row" yaml:"row"`
	Scientist string `json:"scientist" yaml:"scientist"`
	Error     string `json:"error" yaml:"error"`
}

// Summary is the outcome of an import.
type Summary struct {
	Rows     int        `json:"rows" yaml:"rows"`
	Added    []string   `json:"added" yaml:"added"`
	Updated  []string   `json:"updated" yaml:"updated"`
	Replaced []string   `json:"replaced,omitempty" yaml:"replaced,omitempty"`
	Failed   []RowError `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// String returns a one-line summary.
func (s *Summary) String() string {
	return fmt.Sprintf("%d rows: %d added, %d updated, %d replaced, %d failed",
		s.Rows, len(s.Added), len(s.Updated), len(s.Replaced), len(s.Failed))
}

// Import writes one card per response, in order. A failing row is logged
// and recorded and the import continues with the next one. Authorization
// failures and cancellation stop the import.
func (i *Importer) Import(ctx context.Context, responses []Response) (*Summary, error) {
	summary := &Summary{Rows: len(responses), Added: []string{}, Updated: []string{}}

	for _, resp := range responses {
		if err := ctx.Err(); err != nil {
			return summary, errors.WrapCanceled("import", err)
		}

		logger := i.logger.With().Int("row", resp.Row).Str("scientist", resp.Scientist).Logger()
		err := i.importOne(ctx, resp, summary)
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return summary, errors.WrapCanceled("import", ctx.Err())
		}
		if errors.IsAuthError(err) {
			return summary, err
		}

		logger.Error().Err(err).Msg("Failed to import response")
		summary.Failed = append(summary.Failed, RowError{
			Row:       resp.Row,
			Scientist: resp.Scientist,
			Error:     err.Error(),
		})
	}

	i.logger.Info().
		Int("rows", summary.Rows).
		Int("added", len(summary.Added)).
		Int("updated", len(summary.Updated)).
		Int("failed", len(summary.Failed)).
		Msg("Import complete")
	return summary, nil
}

func (i *Importer) importOne(ctx context.Context, resp Response, summary *Summary) error {
	sub := biocards.Submission{
		Name:         resp.Scientist,
		Years:        resp.Years,
		Era:          resp.Era,
		Contribution: resp.Contribution,
		Student:      resp.Student,
		Late:         i.late,
	}.Normalize()

	id := sub.ID()
	if id == "" {
		return errors.NewValidationError("scientist", resp.Scientist, "no usable scientist name")
	}
	sub.FrontFile = cards.DefaultFrontFile(id)
	sub.BackFile = cards.DefaultBackFile(id)

	if i.downloader != nil {
		if err := i.fetch(ctx, resp.FrontURL, sub.FrontFile); err != nil {
			return err
		}
		if err := i.fetch(ctx, resp.BackURL, sub.BackFile); err != nil {
			return err
		}
	}

	if i.late && resp.IsReplacement() && resp.PreviousScientist != "" {
		result, err := i.writer.Replace(ctx, resp.PreviousScientist, sub)
		if err != nil {
			return err
		}
		if result.Removed != nil {
			summary.Replaced = append(summary.Replaced, result.Removed.ID)
		}
		record(summary, result.UpsertResult)
		return nil
	}

	result, err := i.writer.Upsert(ctx, sub)
	if err != nil {
		return err
	}
	record(summary, *result)
	return nil
}

func record(summary *Summary, result cards.UpsertResult) {
	if result.Created {
		summary.Added = append(summary.Added, result.Card.ID)
	} else {
		summary.Updated = append(summary.Updated, result.Card.ID)
	}
}

// fetch downloads the Drive file behind link into the images directory.
// The file only appears once the download has completed.
func (i *Importer) fetch(ctx context.Context, link, name string) error {
	fileID, err := DriveFileID(link)
	if err != nil {
		return err
	}

	path := filepath.Join(i.imagesDir, name)
	err = store.WriteAtomic(path, func(w io.Writer) error {
		return i.downloader.DownloadByID(ctx, fileID, w)
	})
	if err != nil {
		return err
	}

	i.logger.Debug().Str("file_id", fileID).Str("path", path).Msg("Downloaded image")
	return nil
}

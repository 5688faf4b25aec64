package biocards

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/deppmann/biocards/internal/store"
	"github.com/deppmann/biocards/pkg/constants"
	"github.com/deppmann/biocards/pkg/errors"
	"github.com/deppmann/biocards/pkg/logging"
)

// options holds the client configuration.
type options struct {
	catalogPath string
	imagesDir   string
	store       store.Store
	now         func() time.Time
	logger      *zerolog.Logger
}

// Option is a function that configures a Client.
type Option func(*options) error

// defaults returns the default client configuration.
func defaults() *options {
	return &options{
		catalogPath: constants.DefaultCatalogPath,
		imagesDir:   constants.DefaultImagesDir,
		now:         time.Now,
		logger:      logging.Default(),
	}
}

// apply applies the given options.
func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithCatalogPath sets the catalog JSON file.
func WithCatalogPath(path string) Option {
	return func(o *options) error {
		if path == "" {
			return errors.NewValidationError("catalog_path", path, "must not be empty")
		}
		o.catalogPath = path
		return nil
	}
}

// WithImagesDir sets the directory card images live in.
func WithImagesDir(dir string) Option {
	return func(o *options) error {
		if dir == "" {
			return errors.NewValidationError("images_dir", dir, "must not be empty")
		}
		o.imagesDir = dir
		return nil
	}
}

// WithStore replaces the file store, mostly for tests.
func WithStore(s store.Store) Option {
	return func(o *options) error {
		o.store = s
		return nil
	}
}

// WithClock replaces time.Now for submitted dates and timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		o.now = now
		return nil
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger != nil {
			o.logger = logger
		}
		return nil
	}
}

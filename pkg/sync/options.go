// Package sync provides options and results for pulling card images from an
// image source into the local images directory.
package sync

import (
	"time"

	"github.com/deppmann/biocards/pkg/errors"
)

// Options controls a single image sync.
type Options struct {
	DryRun     bool          // List what would be downloaded without writing anything
	LinkImages bool          // Point matching cards at the synced image files
	Timeout    time.Duration // Timeout for the entire sync operation
	ImagesDir  string        // Override the client's images directory
}

// Apply applies the given options to the sync options.
func (s *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns the default sync options.
func Defaults() *Options {
	return &Options{}
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Validate checks if the sync options are valid.
func (s *Options) Validate() error {
	if s.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   s.Timeout,
			Message: "timeout must be non-negative",
		}
	}
	return nil
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(opts *Options) {
		opts.DryRun = dryRun
	}
}

// WithLinkImages configures whether matching cards get their image URLs
// rewritten to the synced files.
func WithLinkImages(link bool) Option {
	return func(opts *Options) {
		opts.LinkImages = link
	}
}

// WithTimeout configures the sync timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

// WithImagesDir overrides the directory images are downloaded into.
func WithImagesDir(dir string) Option {
	return func(opts *Options) {
		opts.ImagesDir = dir
	}
}

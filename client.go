// Package biocards is the entry point for managing a scientist trading card
// catalog: adding or updating cards, pulling card images from an image
// source, and reacting to catalog changes through hooks.
//
// The catalog lives in a JSON file. Every operation loads it fresh, applies
// its change and writes it back while holding the catalog lock, so two
// commands run at the same time never drop each other's cards.
//
// Example usage:
//
//	bc, err := biocards.New(biocards.WithCatalogPath("cards.json"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	bc.OnCardAdded(func(card cards.Card) {
//	    log.Printf("New card: %s", card.ID)
//	})
//
//	res, err := bc.Upsert(ctx, biocards.Submission{
//	    Name:         "Marie Curie",
//	    Years:        "1867-1934",
//	    Era:          "Pre-1900 Foundations",
//	    Contribution: "Pioneered research on radioactivity",
//	    FrontFile:    "curie_marie_front.png",
//	    BackFile:     "curie_marie_back.png",
//	})
//
//	// Pull new images from Drive and link them to their cards
//	result, err := bc.Sync(ctx, driveSource, sync.WithLinkImages(true))
package biocards

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppmann/biocards/internal/store"
	"github.com/deppmann/biocards/pkg/cards"
	"github.com/deppmann/biocards/pkg/errors"
	"github.com/deppmann/biocards/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Catalog provides read access to the stored catalog.
type Catalog interface {
	// Catalog loads the current catalog from storage.
	Catalog(ctx context.Context) (*cards.Catalog, error)
}

// Client manages the card catalog and its images.
type Client interface {

	// Catalog provides read access to the catalog
	Catalog

	// Writer adds, replaces and removes cards
	Writer

	// Syncer pulls images from image sources
	Syncer

	// Hooks provides access to event callback registration
	Hooks

	// CatalogPath returns the catalog file location
	CatalogPath() string

	// ImagesDir returns the directory card images are stored in
	ImagesDir() string
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options
	store   store.Store
	hooks   *hooks
	logger  *zerolog.Logger
}

// New creates a new Client instance with the given options.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	c := &client{
		options: o,
		store:   o.store,
		hooks:   newHooks(),
		logger:  o.logger,
	}

	if c.store == nil {
		c.store = store.NewFileStore(o.catalogPath,
			store.WithClock(o.now),
			store.WithLogger(o.logger),
		)
	}

	c.logger.Debug().
		Str("catalog", o.catalogPath).
		Str("images", o.imagesDir).
		Msg("Client created")

	return c, nil
}

// Catalog returns the catalog as currently stored.
func (c *client) Catalog(ctx context.Context) (*cards.Catalog, error) {
	catalog, err := c.store.Load(ctx)
	if err != nil {
		return nil, errors.WrapResource("load", "catalog", c.options.catalogPath, err)
	}
	return catalog, nil
}

// update applies fn under the store lock and fires hooks for whatever
// changed once the catalog has been saved.
func (c *client) update(ctx context.Context, fn func(*cards.Catalog) error) (*cards.Catalog, error) {
	var before *cards.Catalog
	after, err := c.store.Update(ctx, func(catalog *cards.Catalog) error {
		before = catalog.Clone()
		return fn(catalog)
	})
	if err != nil {
		return nil, err
	}

	c.hooks.triggerCatalogUpdate(before, after)
	return after, nil
}

// log prefers a logger carried by ctx over the client logger.
func (c *client) log(ctx context.Context) *zerolog.Logger {
	if logger := logging.FromContext(ctx); logger != logging.Default() {
		return logger
	}
	return c.logger
}

// now returns the configured clock time.
func (c *client) now() time.Time {
	return c.options.now()
}

// ImagesDir returns the configured image directory.
func (c *client) ImagesDir() string {
	return c.options.imagesDir
}

// CatalogPath returns the configured catalog path.
func (c *client) CatalogPath() string {
	return c.options.catalogPath
}

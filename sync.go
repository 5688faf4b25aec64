package biocards

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/deppmann/biocards/internal/store"
	"github.com/deppmann/biocards/pkg/cards"
	"github.com/deppmann/biocards/pkg/constants"
	"github.com/deppmann/biocards/pkg/errors"
	"github.com/deppmann/biocards/pkg/logging"
	"github.com/deppmann/biocards/pkg/sources"
	"github.com/deppmann/biocards/pkg/sync"
)

// Compile-time interface check to ensure proper implementation.
var _ Syncer = (*client)(nil)

// Syncer pulls card images from an image source.
type Syncer interface {
	Sync(ctx context.Context, src sources.ImageSource, opts ...sync.Option) (*sync.Result, error)
}

// Sync downloads every image in src that is not yet in the images
// directory, then pairs the images by filename with catalog cards.
//
// Presence is decided by filename alone. Pairs whose id matches a card are
// reported as linked; with sync.WithLinkImages the card's image URLs are
// pointed at them, leaving every other field alone. Pairs with no card are
// reported as unmatched. Failing to list the source, including an
// authorization failure, aborts the sync; a failed download is recorded
// and the sync moves on.
func (c *client) Sync(ctx context.Context, src sources.ImageSource, opts ...sync.Option) (*sync.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Parse options
	options := sync.Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Setup context with timeout
	var cancel context.CancelFunc
	if options.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
	} else {
		cancel = func() {}
	}
	defer cancel()

	ctx = logging.WithSource(ctx, src.ID().String())
	logger := c.log(ctx)

	dir := options.ImagesDir
	if dir == "" {
		dir = c.options.imagesDir
	}

	// Step 3: List the source
	files, err := src.List(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.WrapCanceled("sync", ctx.Err())
		}
		return nil, err
	}
	logger.Info().Int("files", len(files)).Msg("Found images")

	result := &sync.Result{
		Source:     src.ID(),
		ImagesDir:  dir,
		DryRun:     options.DryRun,
		Listed:     len(files),
		Downloaded: []string{},
		Skipped:    []string{},
	}

	if !options.DryRun {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("create", dir, err)
		}
	}

	// Step 4: Download what is missing
	var present []string
	for _, file := range files {
		name := filepath.Base(file.Name)
		if name == "." || name == string(filepath.Separator) || strings.HasPrefix(name, ".") {
			logger.Warn().Str("file", file.Name).Msg("Skipping file with unusable name")
			continue
		}
		localPath := filepath.Join(dir, name)

		if _, err := os.Stat(localPath); err == nil {
			logger.Debug().Str("file", name).Msg("Already exists, skipping")
			result.Skipped = append(result.Skipped, name)
			present = append(present, name)
			continue
		}

		if options.DryRun {
			result.Downloaded = append(result.Downloaded, name)
			present = append(present, name)
			continue
		}

		logger.Info().Str("file", name).Str("path", localPath).Msg("Downloading")
		if err := download(ctx, src, file, localPath); err != nil {
			if ctx.Err() != nil {
				return nil, errors.NewSyncError(src.ID().String(), name, errors.WrapCanceled("download", ctx.Err()))
			}
			if errors.IsAuthError(err) {
				return nil, err
			}
			logger.Warn().Err(err).Str("file", name).Msg("Download failed")
			result.Failed = append(result.Failed, sync.Failure{File: name, Error: err.Error()})
			continue
		}
		result.Downloaded = append(result.Downloaded, name)
		present = append(present, name)
	}

	// Step 5: Pair images with cards
	pairs, stray := sources.Pairs(present)
	result.Stray = stray

	catalog, err := c.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	plan := planLinks(catalog, pairs)
	result.Unmatched = plan.unmatched

	// Step 6: Apply links unless this is a dry run
	if options.LinkImages && !options.DryRun && plan.changes() > 0 {
		_, err := c.update(ctx, func(catalog *cards.Catalog) error {
			for i := range plan.links {
				link := &plan.links[i]
				link.Updated = catalog.SetImages(link.CardID, link.Front, link.Back)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		for i := range plan.links {
			plan.links[i].Updated = false
		}
	}
	result.Linked = plan.links

	logger.Info().
		Int("downloaded", len(result.Downloaded)).
		Int("skipped", len(result.Skipped)).
		Int("linked", result.LinkedCount()).
		Int("unmatched", len(result.Unmatched)).
		Bool("dry_run", options.DryRun).
		Msg("Sync complete")

	return result, nil
}

// linkPlan is the outcome of matching image pairs against a catalog.
type linkPlan struct {
	links     []sync.Link
	unmatched []sources.Pair
}

// changes counts links that would alter a card.
func (p linkPlan) changes() int {
	n := 0
	for _, l := range p.links {
		if l.Updated {
			n++
		}
	}
	return n
}

// planLinks matches each pair to the card with the longest id the pair
// prefix ends with. When several pairs match one card, the pair sorting
// last (the newest timestamped upload) wins. Updated is set on links that
// would change the card.
func planLinks(catalog *cards.Catalog, pairs []sources.Pair) linkPlan {
	var plan linkPlan
	index := make(map[string]int)

	for _, pair := range pairs {
		id := matchCard(catalog, pair)
		if id == "" {
			plan.unmatched = append(plan.unmatched, pair)
			continue
		}

		card, _ := catalog.Find(id)
		changes := (pair.Front != "" && card.FrontURL != cards.ImageURL(pair.Front)) ||
			(pair.Back != "" && card.BackURL != cards.ImageURL(pair.Back))
		link := sync.Link{CardID: id, Front: pair.Front, Back: pair.Back, Updated: changes}

		if i, seen := index[id]; seen {
			plan.links[i] = link
			continue
		}
		index[id] = len(plan.links)
		plan.links = append(plan.links, link)
	}
	return plan
}

// matchCard returns the id of the best matching card, or "".
func matchCard(catalog *cards.Catalog, pair sources.Pair) string {
	best := ""
	for _, card := range catalog.Cards {
		if pair.MatchesID(card.ID) && len(card.ID) > len(best) {
			best = card.ID
		}
	}
	return best
}

// download writes a source file to path. Nothing appears at path unless
// the download completed.
func download(ctx context.Context, src sources.ImageSource, file sources.File, path string) error {
	return store.WriteAtomic(path, func(w io.Writer) error {
		return src.Download(ctx, file, w)
	})
}

// Package store persists the card catalog as a single JSON document.
//
// Every read loads the whole document and every write replaces it. Writes
// go to a temporary file that is renamed over the catalog, so readers never
// see a half-written document. Load and Save on their own give no
// protection against a concurrent writer; Update and SaveIfUnchanged do.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/deppmann/biocards/pkg/cards"
	"github.com/deppmann/biocards/pkg/constants"
	"github.com/deppmann/biocards/pkg/errors"
	"github.com/deppmann/biocards/pkg/logging"
)

// Store loads and saves catalogs.
type Store interface {
	// Load reads the catalog. A missing document yields a new empty catalog.
	Load(ctx context.Context) (*cards.Catalog, error)

	// Save stamps last_updated and writes the catalog.
	Save(ctx context.Context, catalog *cards.Catalog) error

	// Update runs fn on a freshly loaded catalog and saves the result,
	// excluding other writers for the duration.
	Update(ctx context.Context, fn func(*cards.Catalog) error) (*cards.Catalog, error)
}

// Compile-time interface check.
var _ Store = (*FileStore)(nil)

// FileStore is a Store backed by a JSON file and a sibling lock file.
type FileStore struct {
	path        string
	now         func() time.Time
	lockTimeout time.Duration
	logger      *zerolog.Logger
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) {
		s.now = now
	}
}

// WithLockTimeout bounds how long Update waits for the lock.
func WithLockTimeout(d time.Duration) Option {
	return func(s *FileStore) {
		s.lockTimeout = d
	}
}

// WithLogger sets the logger used for store diagnostics.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *FileStore) {
		s.logger = logger
	}
}

// NewFileStore returns a store for the catalog at path.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:        path,
		now:         time.Now,
		lockTimeout: constants.LockTimeout,
		logger:      logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the catalog file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load implements Store.
func (s *FileStore) Load(_ context.Context) (*cards.Catalog, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.logger.Debug().Str("path", s.path).Msg("Catalog not found, starting empty")
		return cards.New(), nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", s.path, err)
	}

	var catalog cards.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, errors.WrapParse("json", s.path, err)
	}
	catalog.Normalize()
	return &catalog, nil
}

// Save implements Store.
func (s *FileStore) Save(_ context.Context, catalog *cards.Catalog) error {
	catalog.Normalize()
	catalog.Touch(s.now())

	data, err := Encode(catalog)
	if err != nil {
		return errors.WrapParse("json", s.path, err)
	}
	err = WriteAtomic(s.path, func(w io.Writer) error {
		if _, err := w.Write(data); err != nil {
			return errors.WrapIO("write", s.path, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug().
		Str("path", s.path).
		Int("cards", catalog.Len()).
		Str("last_updated", catalog.LastUpdated).
		Msg("Catalog saved")
	return nil
}

// Update implements Store.
func (s *FileStore) Update(ctx context.Context, fn func(*cards.Catalog) error) (*cards.Catalog, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	catalog, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(catalog); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// SaveIfUnchanged saves catalog only if the stored document still carries
// the last_updated stamp it had when loaded. Otherwise it returns a
// *errors.ConflictError and writes nothing.
func (s *FileStore) SaveIfUnchanged(ctx context.Context, catalog *cards.Catalog, loadedStamp string) error {
	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	current, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if current.LastUpdated != loadedStamp {
		return &errors.ConflictError{Path: s.path, Expected: loadedStamp, Actual: current.LastUpdated}
	}
	return s.Save(ctx, catalog)
}

// lock takes the advisory lock next to the catalog.
func (s *FileStore) lock(ctx context.Context) (func(), error) {
	lockPath := s.path + constants.LockSuffix
	if err := os.MkdirAll(filepath.Dir(lockPath), constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", filepath.Dir(lockPath), err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	fl := flock.New(lockPath)
	locked, err := fl.TryLockContext(ctx, constants.LockRetryDelay)
	if err != nil {
		return nil, errors.NewIOError("lock", lockPath, err)
	}
	if !locked {
		return nil, errors.NewIOError("lock", lockPath, errors.ErrConflict)
	}

	return func() {
		if err := fl.Unlock(); err != nil {
			s.logger.Warn().Err(err).Str("path", lockPath).Msg("Failed to release catalog lock")
		}
	}, nil
}

// Encode renders a catalog the way it is stored: two-space indentation
// and no HTML escaping, so "&" in era names stays readable.
func Encode(catalog *cards.Catalog) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(catalog); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Package local implements an image source over a directory on disk, such as
// a Drive for Desktop mirror or an unzipped form-upload export.
package local

import (
	"context"
	"io"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/deppmann/biocards/pkg/errors"
	"github.com/deppmann/biocards/pkg/sources"
)

// Compile-time interface check.
var _ sources.ImageSource = (*Source)(nil)

// Source lists image files in a single directory.
type Source struct {
	dir string
}

// New creates a local source for dir.
func New(dir string) *Source {
	return &Source{dir: dir}
}

// ID implements sources.ImageSource.
func (s *Source) ID() sources.ID {
	return sources.LocalID
}

// Dir returns the source directory.
func (s *Source) Dir() string {
	return s.dir
}

// List implements sources.ImageSource. Only regular files whose extension
// maps to an image MIME type are returned, sorted by name.
func (s *Source) List(ctx context.Context) ([]sources.File, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("directory", s.dir)
		}
		return nil, errors.WrapIO("read", s.dir, err)
	}

	var files []sources.File
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Type().IsRegular() {
			continue
		}
		mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(entry.Name())))
		if !strings.HasPrefix(mimeType, "image/") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, errors.WrapIO("stat", filepath.Join(s.dir, entry.Name()), err)
		}
		files = append(files, sources.File{
			ID:          filepath.Join(s.dir, entry.Name()),
			Name:        entry.Name(),
			MimeType:    mimeType,
			Size:        info.Size(),
			CreatedTime: info.ModTime(),
		})
	}

	slices.SortFunc(files, func(a, b sources.File) int {
		return strings.Compare(a.Name, b.Name)
	})
	return files, nil
}

// Download implements sources.ImageSource.
func (s *Source) Download(_ context.Context, file sources.File, w io.Writer) error {
	path := file.ID
	if path == "" {
		path = filepath.Join(s.dir, file.Name)
	}

	f, err := os.Open(path) // #nosec G304 -- path comes from List
	if err != nil {
		return errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(w, f); err != nil {
		return errors.WrapIO("read", path, err)
	}
	return nil
}

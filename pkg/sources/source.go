// Package sources defines where card images come from. A source lists image
// files in some remote or local folder and streams their contents on request;
// the sync in the root biocards package decides what to download and how
// the files attach to catalog cards.
//
// Example usage:
//
//	src := drive.New(folderID, drive.WithCredentialsFile("credentials.json"))
//	files, err := src.List(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, f := range files {
//	    fmt.Println(f.Name)
//	}
package sources

import (
	"context"
	"io"
	"slices"
	"sync"
	"time"
)

// ID represents the identifier of an image source.
type ID string

// String returns the string representation of a source ID.
func (id ID) String() string {
	return string(id)
}

// Known source IDs.
const (
	DriveID ID = "drive"
	LocalID ID = "local"
)

// IDs returns all known source IDs.
func IDs() []ID {
	return []ID{DriveID, LocalID}
}

// IsValid returns true if the ID is one of the defined constants.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// File describes one image in a source folder.
type File struct {
	// ID is the source's handle for the file (the Drive file id, or the
	// path for local folders).
	ID string `json:"id" yaml:"id"`

	// Name is the filename, used for local presence checks and pairing.
	Name string `json:"name" yaml:"name"`

	MimeType    string    `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
	Size        int64     `json:"size,omitempty" yaml:"size,omitempty"`
	CreatedTime time.Time `json:"created_time,omitzero" yaml:"created_time,omitempty"`
}

// ImageSource lists and downloads image files.
type ImageSource interface {
	// ID returns the identifier of this source.
	ID() ID

	// List returns every image currently in the source folder.
	List(ctx context.Context) ([]File, error)

	// Download writes the content of file to w.
	Download(ctx context.Context, file File, w io.Writer) error
}

// Sources is a thread-safe registry of configured image sources.
type Sources struct {
	mu      sync.RWMutex
	sources map[ID]ImageSource
}

// NewSources creates a new Sources instance.
func NewSources() *Sources {
	return &Sources{
		sources: make(map[ID]ImageSource),
	}
}

// Get returns a source by ID.
func (s *Sources) Get(id ID) (ImageSource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, found := s.sources[id]
	return src, found
}

// Set registers a source under its own ID.
func (s *Sources) Set(src ImageSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[src.ID()] = src
}

// IDs returns the registered source IDs in sorted order.
func (s *Sources) IDs() []ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]ID, 0, len(s.sources))
	for id := range s.sources {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

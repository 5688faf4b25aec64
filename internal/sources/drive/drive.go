// Package drive implements an image source backed by a Google Drive folder,
// typically the upload folder of a Google Form. Access is read-only and
// authorized with an OAuth desktop client: credentials.json holds the client
// secret and token.json the persisted user token.
package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/deppmann/biocards/pkg/constants"
	"github.com/deppmann/biocards/pkg/errors"
	"github.com/deppmann/biocards/pkg/logging"
	"github.com/deppmann/biocards/pkg/sources"
)

// ProviderName identifies Drive in errors and logs.
const ProviderName = "google-drive"

// listFields limits list responses to what the sync needs.
const listFields = "nextPageToken, files(id, name, mimeType, size, createdTime)"

// Compile-time interface check.
var _ sources.ImageSource = (*Source)(nil)

// Source lists and downloads images from one Drive folder.
type Source struct {
	folderID        string
	credentialsFile string
	tokenFile       string
	interactive     bool
	out             io.Writer
	clientOptions   []option.ClientOption
	logger          *zerolog.Logger

	mu      sync.Mutex
	service *drive.Service
}

// Option configures a Drive source.
type Option func(*Source)

// WithCredentialsFile sets the OAuth client secret file.
func WithCredentialsFile(path string) Option {
	return func(s *Source) {
		s.credentialsFile = path
	}
}

// WithTokenFile sets where the user token is read from and persisted to.
func WithTokenFile(path string) Option {
	return func(s *Source) {
		s.tokenFile = path
	}
}

// WithInteractive allows the browser authorization flow when no token
// exists yet. Instructions are written to out.
func WithInteractive(out io.Writer) Option {
	return func(s *Source) {
		s.interactive = true
		s.out = out
	}
}

// WithClientOptions passes options straight to the Drive client and skips
// the OAuth token handling. Used for tests and service accounts.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(s *Source) {
		s.clientOptions = append(s.clientOptions, opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// New creates a Drive source for folderID.
func New(folderID string, opts ...Option) *Source {
	s := &Source{
		folderID:        folderID,
		credentialsFile: constants.DefaultCredentialsFile,
		tokenFile:       constants.DefaultTokenFile,
		out:             os.Stdout,
		logger:          logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID implements sources.ImageSource.
func (s *Source) ID() sources.ID {
	return sources.DriveID
}

// FolderID returns the Drive folder being synced.
func (s *Source) FolderID() string {
	return s.folderID
}

// List implements sources.ImageSource. Trashed files are excluded and all
// result pages are followed.
func (s *Source) List(ctx context.Context) ([]sources.File, error) {
	if s.folderID == "" {
		return nil, errors.NewConfigError("drive", "folder id is not set (drive.folder_id)", nil)
	}

	svc, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf("'%s' in parents and mimeType contains 'image/' and trashed = false", escapeQuery(s.folderID))
	s.logger.Debug().Str("folder", s.folderID).Str("query", q).Msg("Listing Drive folder")

	var files []sources.File
	err = svc.Files.List().
		Q(q).
		Fields(listFields).
		PageSize(1000).
		OrderBy("name").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				files = append(files, convertFile(f))
			}
			return nil
		})
	if err != nil {
		return nil, s.wrapAPIError("list", s.folderID, err)
	}
	return files, nil
}

// Download implements sources.ImageSource.
func (s *Source) Download(ctx context.Context, file sources.File, w io.Writer) error {
	return s.DownloadByID(ctx, file.ID, w)
}

// DownloadByID streams the content of a Drive file to w.
func (s *Source) DownloadByID(ctx context.Context, fileID string, w io.Writer) error {
	svc, err := s.client(ctx)
	if err != nil {
		return err
	}

	resp, err := svc.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return s.wrapAPIError("download", fileID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return errors.WrapResource("download", "drive file", fileID, err)
	}
	return nil
}

// Login forces the browser authorization flow and persists the new token.
func (s *Source) Login(ctx context.Context) error {
	cfg, err := LoadConfig(s.credentialsFile)
	if err != nil {
		return err
	}
	tok, err := Authorize(ctx, cfg, s.out)
	if err != nil {
		return err
	}
	return SaveToken(s.tokenFile, tok)
}

// client returns the Drive service, creating it on first use.
func (s *Source) client(ctx context.Context) (*drive.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.service != nil {
		return s.service, nil
	}

	opts := []option.ClientOption{option.WithUserAgent("biocards")}
	if len(s.clientOptions) > 0 {
		opts = append(opts, s.clientOptions...)
	} else {
		ts, err := s.tokenSource(ctx)
		if err != nil {
			return nil, err
		}
		httpClient := oauth2.NewClient(ctx, ts)
		httpClient.Timeout = constants.DefaultHTTPTimeout
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.NewConfigError("drive", "failed to create Drive client", err)
	}
	s.service = svc
	return svc, nil
}

// tokenSource loads the persisted token, running the authorization flow
// when there is none and the source is interactive.
func (s *Source) tokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	cfg, err := LoadConfig(s.credentialsFile)
	if err != nil {
		return nil, err
	}

	tok, err := LoadToken(s.tokenFile)
	if err != nil {
		return nil, err
	}
	if tok == nil {
		if !s.interactive {
			return nil, errors.NewAuthenticationError(ProviderName, "token",
				fmt.Sprintf("no token at %s; run 'biocards auth login'", s.tokenFile), nil)
		}
		if tok, err = Authorize(ctx, cfg, s.out); err != nil {
			return nil, err
		}
		if err := SaveToken(s.tokenFile, tok); err != nil {
			return nil, err
		}
	}

	base := cfg.TokenSource(context.WithoutCancel(ctx), tok)
	return newPersistingTokenSource(base, s.tokenFile, tok), nil
}

// wrapAPIError maps Drive API failures onto the biocards error types.
func (s *Source) wrapAPIError(operation, id string, err error) error {
	if errors.IsAuthError(err) {
		return err
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return errors.NewAuthenticationError(ProviderName, "token", apiErr.Message, err)
		case http.StatusNotFound:
			return &errors.NotFoundError{Resource: "drive file", ID: id}
		}
	}
	return errors.WrapResource(operation, "drive file", id, err)
}

// convertFile converts a Drive file to the source-neutral form.
func convertFile(f *drive.File) sources.File {
	file := sources.File{
		ID:       f.Id,
		Name:     f.Name,
		MimeType: f.MimeType,
		Size:     f.Size,
	}
	if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
		file.CreatedTime = t
	}
	return file
}

// escapeQuery escapes a value for use inside a quoted Drive query term.
func escapeQuery(v string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v)
}

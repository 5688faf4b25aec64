package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"

	"github.com/deppmann/biocards/pkg/constants"
	"github.com/deppmann/biocards/pkg/errors"
	"github.com/deppmann/biocards/pkg/logging"
)

// LoadConfig reads an OAuth desktop client secret file and returns a config
// limited to read-only Drive access.
func LoadConfig(credentialsFile string) (*oauth2.Config, error) {
	data, err := os.ReadFile(credentialsFile) // #nosec G304 -- user supplied client secret path
	if os.IsNotExist(err) {
		return nil, errors.NewAuthenticationError(ProviderName, "oauth",
			fmt.Sprintf("missing %s; download OAuth desktop credentials from the Google Cloud Console", credentialsFile), err)
	}
	if err != nil {
		return nil, errors.WrapIO("read", credentialsFile, err)
	}

	cfg, err := google.ConfigFromJSON(data, drive.DriveReadonlyScope)
	if err != nil {
		return nil, errors.NewAuthenticationError(ProviderName, "oauth",
			fmt.Sprintf("%s is not a valid OAuth client file", credentialsFile), err)
	}
	return cfg, nil
}

// LoadToken reads a persisted token. A missing file returns (nil, nil).
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- token path from configuration
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	return &tok, nil
}

// SaveToken persists a token readable only by the current user.
func SaveToken(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return errors.WrapParse("json", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	if err := os.WriteFile(path, data, constants.SecureFilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// persistingTokenSource writes the token back to disk whenever the
// underlying source hands out a new one.
type persistingTokenSource struct {
	mu   sync.Mutex
	base oauth2.TokenSource
	path string
	last string
}

func newPersistingTokenSource(base oauth2.TokenSource, path string, initial *oauth2.Token) *persistingTokenSource {
	ts := &persistingTokenSource{base: base, path: path}
	if initial != nil {
		ts.last = initial.AccessToken
	}
	return ts
}

// Token implements oauth2.TokenSource.
func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.base.Token()
	if err != nil {
		return nil, errors.NewAuthenticationError(ProviderName, "oauth", "token refresh failed; run 'biocards auth login'", err)
	}
	if tok.AccessToken != s.last {
		if err := SaveToken(s.path, tok); err != nil {
			logging.Warn().Err(err).Str("path", s.path).Msg("Could not persist refreshed Drive token")
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}

// Authorize runs the installed-app flow: it listens on a loopback port,
// prints the consent URL to out and exchanges the returned code.
func Authorize(ctx context.Context, cfg *oauth2.Config, out io.Writer) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, errors.WrapIO("listen", "127.0.0.1:0", err)
	}

	local := *cfg
	local.RedirectURL = "http://" + ln.Addr().String() + "/"

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	authURL := local.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))

	_, _ = fmt.Fprintf(out, "Open this link in your browser to authorize Google Drive access:\n\n  %s\n\n", authURL)

	type result struct {
		code string
		err  error
	}
	results := make(chan result, 1)
	deliver := func(res result) {
		select {
		case results <- res:
		default:
		}
	}

	srv := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			switch {
			case q.Get("state") != state:
				http.Error(w, "state mismatch", http.StatusBadRequest)
				return
			case q.Get("error") != "":
				_, _ = fmt.Fprintln(w, "Authorization was denied. You can close this window.")
				deliver(result{err: errors.NewAuthenticationError(ProviderName, "oauth", q.Get("error"), nil)})
			default:
				_, _ = fmt.Fprintln(w, "Authorization complete. You can close this window.")
				deliver(result{code: q.Get("code")})
			}
		}),
	}
	go func() { _ = srv.Serve(ln) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	ctx, cancel := context.WithTimeout(ctx, constants.AuthorizationTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		return nil, errors.NewAuthenticationError(ProviderName, "oauth", "timed out waiting for browser authorization", ctx.Err())
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		tok, err := local.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
		if err != nil {
			return nil, errors.NewAuthenticationError(ProviderName, "oauth", "code exchange failed", err)
		}
		return tok, nil
	}
}

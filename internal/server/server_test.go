package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppmann/biocards"
	"github.com/deppmann/biocards/pkg/cards"
	"github.com/deppmann/biocards/pkg/logging"
)

var defaultEras = cards.New().Eras

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func setupTestServer(t *testing.T, cfg Config) (*httptest.Server, biocards.Client) {
	t.Helper()
	dir := t.TempDir()

	client, err := biocards.New(
		biocards.WithCatalogPath(filepath.Join(dir, "cards.json")),
		biocards.WithImagesDir(filepath.Join(dir, "cards")),
		biocards.WithClock(func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.Local) }),
	)
	require.NoError(t, err)

	ctx := context.Background()
	for _, sub := range []biocards.Submission{
		{Name: "Marie Curie", Years: "1867-1934", Era: defaultEras[0], Contribution: "Radioactivity"},
		{Name: "Rosalind Franklin", Years: "1920-1958", Era: defaultEras[1], Contribution: "Photo 51 and DNA"},
		{Name: "Linus Pauling", Years: "1901-1994", Era: defaultEras[1], Contribution: "Alpha helix"},
	} {
		_, err := client.Upsert(ctx, sub)
		require.NoError(t, err)
	}

	require.NoError(t, os.MkdirAll(client.ImagesDir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(client.ImagesDir(), "curie_marie_front.png"), []byte("PNG"), 0o644))

	cfg.ImagesDir = client.ImagesDir()
	srv, err := New(client, cfg, logging.NewNopLogger())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, client
}

func get(t *testing.T, target string) (*http.Response, envelope) {
	t.Helper()
	resp, err := http.Get(target)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp, env
}

func TestHealth(t *testing.T) {
	ts, _ := setupTestServer(t, DefaultConfig())

	resp, env := get(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, env.Error)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	ts, _ := setupTestServer(t, DefaultConfig())

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestCatalogDocument(t *testing.T) {
	ts, _ := setupTestServer(t, DefaultConfig())

	resp, err := http.Get(ts.URL + "/cards.json")
	require.NoError(t, err)
	defer resp.Body.Close()

	var catalog cards.Catalog
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&catalog))
	assert.Equal(t, 3, catalog.Len())
	assert.NotEmpty(t, catalog.LastUpdated)
}

func TestListCards(t *testing.T) {
	ts, _ := setupTestServer(t, DefaultConfig())

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all in catalog order", "", []string{"curie_marie", "franklin_rosalind", "pauling_linus"}},
		{"search contribution", "?search=dna", []string{"franklin_rosalind"}},
		{"era filter", "?era=" + url.QueryEscape(defaultEras[1]), []string{"franklin_rosalind", "pauling_linus"}},
		{"era all", "?era=all&limit=1", []string{"curie_marie"}},
		{"sort by name descending", "?sort=name-desc", []string{"franklin_rosalind", "curie_marie", "pauling_linus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := get(t, ts.URL+"/api/v1/cards"+tt.query)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var data struct {
				Cards []cards.Card `json:"cards"`
				Total int          `json:"total"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &data))
			var ids []string
			for _, c := range data.Cards {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, 3, data.Total)
		})
	}
}

func TestListCardsRejectsBadParams(t *testing.T) {
	ts, _ := setupTestServer(t, DefaultConfig())

	for _, query := range []string{"?sort=age", "?limit=-1", "?limit=ten"} {
		resp, env := get(t, ts.URL+"/api/v1/cards"+query)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, query)
		require.NotNil(t, env.Error, query)
		assert.Equal(t, "BAD_REQUEST", env.Error.Code)
	}
}

func TestGetCard(t *testing.T) {
	ts, _ := setupTestServer(t, DefaultConfig())

	resp, env := get(t, ts.URL+"/api/v1/cards/curie_marie")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var card cards.Card
	require.NoError(t, json.Unmarshal(env.Data, &card))
	assert.Equal(t, "Marie Curie", card.ScientistName)

	resp, env = get(t, ts.URL+"/api/v1/cards/nobody")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestListEras(t *testing.T) {
	ts, _ := setupTestServer(t, DefaultConfig())

	resp, env := get(t, ts.URL+"/api/v1/eras")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Eras []struct {
			Name  string `json:"name"`
			Cards int    `json:"cards"`
		} `json:"eras"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Eras, len(defaultEras))
	assert.Equal(t, 1, data.Eras[0].Cards)
	assert.Equal(t, 2, data.Eras[1].Cards)
}

func TestServesImages(t *testing.T) {
	ts, _ := setupTestServer(t, DefaultConfig())

	resp, err := http.Get(ts.URL + "/cards/curie_marie_front.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(ts.URL + "/cards/missing.png")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestCacheInvalidatedByHooks(t *testing.T) {
	ts, client := setupTestServer(t, DefaultConfig())

	_, env := get(t, ts.URL+"/api/v1/cards")
	assert.Contains(t, string(env.Data), `"total":3`)

	_, err := client.Upsert(context.Background(), biocards.Submission{Name: "Barbara McClintock"})
	require.NoError(t, err)

	_, env = get(t, ts.URL+"/api/v1/cards")
	assert.Contains(t, string(env.Data), `"total":4`)
}

func TestRateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = 2
	ts, _ := setupTestServer(t, cfg)

	var last int
	for i := 0; i < 3; i++ {
		resp, _ := get(t, ts.URL+"/health")
		last = resp.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestCORS(t *testing.T) {
	ts, _ := setupTestServer(t, DefaultConfig())

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/cards.json", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://gallery.example.edu")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestNotFoundRoute(t *testing.T) {
	ts, _ := setupTestServer(t, DefaultConfig())

	resp, env := get(t, ts.URL+"/api/v1/nothing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotNil(t, env.Error)
}

package forms

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppmann/biocards"
	"github.com/deppmann/biocards/pkg/errors"
	"github.com/deppmann/biocards/pkg/logging"
)

const onTimeCSV = `Timestamp,Email,Student,Section,Scientist,Years,Era,Contribution,Front,Back
3/1/2025 10:00:00,a@example.edu,Alex Kim,B2,Marie Curie,1867-1934,Pre-1900 Foundations,Radioactivity,https://drive.google.com/open?id=front1,https://drive.google.com/open?id=back1
3/1/2025 11:00:00,b@example.edu,Sam Lee,B3,Rosalind Franklin,1920-1958,DNA Structure,Photo 51,https://drive.google.com/file/d/front2/view,https://drive.google.com/file/d/back2/view?usp=sharing
,,,,,,,,,
`

const lateCSV = `Timestamp,Email,Student,Section,Type,Previous,Scientist,Years,Era,Contribution,Front,Back,Reason
3/9/2025 9:00:00,a@example.edu,Alex Kim,B2,Replacement,Marie Curie,Linus Pauling,1901-1994,Protein Structure,Alpha helix,https://drive.google.com/open?id=f3,https://drive.google.com/open?id=b3,Changed topic
3/9/2025 9:30:00,c@example.edu,Jo Park,B1,New submission,,Barbara McClintock,1902-1992,Genetics,Transposons,https://drive.google.com/open?id=f4,https://drive.google.com/open?id=b4,Sick
`

func newClient(t *testing.T) biocards.Client {
	t.Helper()
	dir := t.TempDir()
	c, err := biocards.New(
		biocards.WithCatalogPath(filepath.Join(dir, "cards.json")),
		biocards.WithImagesDir(filepath.Join(dir, "cards")),
		biocards.WithClock(func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.Local) }),
	)
	require.NoError(t, err)
	return c
}

type fakeDownloader struct {
	files map[string]string
	err   error
}

func (f *fakeDownloader) DownloadByID(_ context.Context, id string, w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	content, ok := f.files[id]
	if !ok {
		return errors.NewNotFoundError("file", id)
	}
	_, err := io.WriteString(w, content)
	return err
}

func TestParseOnTime(t *testing.T) {
	responses, err := Parse(strings.NewReader(onTimeCSV), OnTimeColumns())
	require.NoError(t, err)
	require.Len(t, responses, 2)

	assert.Equal(t, Response{
		Row:          2,
		Timestamp:    "3/1/2025 10:00:00",
		Email:        "a@example.edu",
		Student:      "Alex Kim",
		Section:      "B2",
		Scientist:    "Marie Curie",
		Years:        "1867-1934",
		Era:          "Pre-1900 Foundations",
		Contribution: "Radioactivity",
		FrontURL:     "https://drive.google.com/open?id=front1",
		BackURL:      "https://drive.google.com/open?id=back1",
	}, responses[0])
	assert.Equal(t, 3, responses[1].Row)
}

func TestParseLate(t *testing.T) {
	responses, err := Parse(strings.NewReader(lateCSV), LateColumns())
	require.NoError(t, err)
	require.Len(t, responses, 2)

	assert.True(t, responses[0].IsReplacement())
	assert.Equal(t, "Marie Curie", responses[0].PreviousScientist)
	assert.Equal(t, "Changed topic", responses[0].Reason)
	assert.False(t, responses[1].IsReplacement())
}

func TestParseShortRows(t *testing.T) {
	responses, err := Parse(strings.NewReader("h1,h2\nts,a@b\n"), OnTimeColumns())
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Empty(t, responses[0].Scientist)
	assert.Empty(t, responses[0].BackURL)
}

func TestParseRejectsBadColumns(t *testing.T) {
	_, err := Parse(strings.NewReader(onTimeCSV), Columns{})
	assert.True(t, errors.IsValidationError(err))

	cols := OnTimeColumns()
	cols.Era = -1
	_, err = Parse(strings.NewReader(onTimeCSV), cols)
	assert.True(t, errors.IsValidationError(err))
}

func TestDriveFileID(t *testing.T) {
	tests := []struct {
		link    string
		want    string
		wantErr bool
	}{
		{"https://drive.google.com/open?id=abc123", "abc123", false},
		{"https://drive.google.com/open?id=abc123&authuser=0", "abc123", false},
		{"https://drive.google.com/file/d/xyz789/view?usp=sharing", "xyz789", false},
		{"https://drive.google.com/file/d/xyz789", "xyz789", false},
		{"https://example.com/image.png", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			got, err := DriveFileID(tt.link)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImportOnTime(t *testing.T) {
	ctx := context.Background()
	client := newClient(t)

	responses, err := Parse(strings.NewReader(onTimeCSV), OnTimeColumns())
	require.NoError(t, err)

	summary, err := NewImporter(client).Import(ctx, responses)
	require.NoError(t, err)
	assert.Equal(t, []string{"curie_marie", "franklin_rosalind"}, summary.Added)
	assert.Empty(t, summary.Failed)

	catalog, err := client.Catalog(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, catalog.Len())
	assert.Equal(t, "cards/curie_marie_front.png", catalog.Cards[0].FrontURL)
	assert.Equal(t, "cards/curie_marie_back.png", catalog.Cards[0].BackURL)
	assert.Equal(t, "Alex Kim", catalog.Cards[0].StudentName)
	assert.False(t, catalog.Cards[0].LateSubmission)
}

func TestImportLateReplacement(t *testing.T) {
	ctx := context.Background()
	client := newClient(t)

	onTime, err := Parse(strings.NewReader(onTimeCSV), OnTimeColumns())
	require.NoError(t, err)
	_, err = NewImporter(client).Import(ctx, onTime)
	require.NoError(t, err)

	late, err := Parse(strings.NewReader(lateCSV), LateColumns())
	require.NoError(t, err)
	summary, err := NewImporter(client, WithLate(true)).Import(ctx, late)
	require.NoError(t, err)

	assert.Equal(t, []string{"curie_marie"}, summary.Replaced)
	assert.Equal(t, []string{"pauling_linus", "mcclintock_barbara"}, summary.Added)

	catalog, err := client.Catalog(ctx)
	require.NoError(t, err)
	var ids []string
	for _, card := range catalog.Cards {
		ids = append(ids, card.ID)
	}
	assert.Equal(t, []string{"franklin_rosalind", "pauling_linus", "mcclintock_barbara"}, ids)
	assert.True(t, catalog.Cards[1].LateSubmission)
	assert.True(t, catalog.Cards[2].LateSubmission)
}

func TestImportDownloadsImages(t *testing.T) {
	ctx := context.Background()
	client := newClient(t)

	responses, err := Parse(strings.NewReader(onTimeCSV), OnTimeColumns())
	require.NoError(t, err)

	downloader := &fakeDownloader{files: map[string]string{
		"front1": "F1", "back1": "B1", "front2": "F2",
	}}
	testLogger := logging.NewTestLogger(t)
	summary, err := NewImporter(client,
		WithDownloader(downloader, client.ImagesDir()),
		WithLogger(testLogger.Logger),
	).Import(ctx, responses)
	require.NoError(t, err)

	assert.Equal(t, []string{"curie_marie"}, summary.Added)
	require.Len(t, summary.Failed, 1)
	assert.Equal(t, 3, summary.Failed[0].Row)
	assert.Equal(t, "Rosalind Franklin", summary.Failed[0].Scientist)
	testLogger.AssertContains(t, "Failed to import response")

	data, err := os.ReadFile(filepath.Join(client.ImagesDir(), "curie_marie_front.png"))
	require.NoError(t, err)
	assert.Equal(t, "F1", string(data))

	catalog, err := client.Catalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.Len(), "a row whose images fail is not added")
}

func TestImportAuthErrorStops(t *testing.T) {
	ctx := context.Background()
	client := newClient(t)

	responses, err := Parse(strings.NewReader(onTimeCSV), OnTimeColumns())
	require.NoError(t, err)

	downloader := &fakeDownloader{err: errors.NewAuthenticationError("google-drive", "token", "expired", nil)}
	summary, err := NewImporter(client, WithDownloader(downloader, client.ImagesDir())).Import(ctx, responses)
	assert.ErrorIs(t, err, errors.ErrAuthRequired)
	assert.Empty(t, summary.Added)
}

func TestImportCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := newClient(t)

	responses, err := Parse(strings.NewReader(onTimeCSV), OnTimeColumns())
	require.NoError(t, err)

	summary, err := NewImporter(client).Import(ctx, responses)
	assert.True(t, errors.IsCanceled(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, summary.Added)
}

func TestSummaryString(t *testing.T) {
	s := &Summary{Rows: 3, Added: []string{"a"}, Updated: []string{"b"}, Failed: []RowError{{Row: 4}}}
	assert.Equal(t, "3 rows: 1 added, 1 updated, 0 replaced, 1 failed", s.String())
}

package biocards

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppmann/biocards/pkg/cards"
	"github.com/deppmann/biocards/pkg/errors"
)

// testClock returns a clock that advances one hour per call.
func testClock() func() time.Time {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.Local)
	return func() time.Time {
		now = now.Add(time.Hour)
		return now
	}
}

func newTestClient(t *testing.T, opts ...Option) (*client, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cards.json")

	base := []Option{
		WithCatalogPath(path),
		WithImagesDir(filepath.Join(dir, "cards")),
		WithClock(testClock()),
	}
	c, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return c.(*client), dir
}

func curie(contribution string) Submission {
	return Submission{
		Name:         "Marie Curie",
		Years:        "1867-1934",
		Era:          "Pre-1900 Foundations",
		Contribution: contribution,
		FrontFile:    "curie_marie_front.png",
		BackFile:     "curie_marie_back.png",
	}
}

func TestUpsertCreatesCatalog(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	res, err := c.Upsert(ctx, curie("Pioneered research on radioactivity"))
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "curie_marie", res.Card.ID)

	catalog, err := c.Catalog(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, catalog.Len())
	assert.Equal(t, "cards/curie_marie_front.png", catalog.Cards[0].FrontURL)
	assert.Len(t, catalog.Eras, 16)
	assert.NotEmpty(t, catalog.LastUpdated)
}

func TestUpsertReplacesExisting(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	_, err := c.Upsert(ctx, Submission{Name: "Rosalind Franklin"})
	require.NoError(t, err)
	_, err = c.Upsert(ctx, curie("Radioactivity"))
	require.NoError(t, err)
	before, err := c.Catalog(ctx)
	require.NoError(t, err)

	res, err := c.Upsert(ctx, curie("Discovered polonium and radium"))
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, 1, res.Index)

	after, err := c.Catalog(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, after.Len())
	assert.Equal(t, "Discovered polonium and radium", after.Cards[1].Contribution)
	assert.Greater(t, after.LastUpdated, before.LastUpdated)
}

func TestSubmissionCard(t *testing.T) {
	card := Submission{Name: "Plato", FrontFile: "p1.png", BackFile: "p2.png"}.Card()
	assert.Equal(t, "plato", card.ID)
	assert.Equal(t, "cards/p1.png", card.FrontURL)
	assert.Equal(t, "cards/p2.png", card.BackURL)

	bare := Submission{Name: "Plato"}.Card()
	assert.Equal(t, "cards/", bare.FrontURL)
	assert.Equal(t, "cards/", bare.BackURL)

	sub := Submission{Name: "  Marie Curie ", Student: " Alex "}.Normalize()
	assert.Equal(t, "Marie Curie", sub.Name)
	assert.Equal(t, "Alex", sub.Student)
}

func TestMalformedCatalogIsFatal(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)
	require.NoError(t, os.WriteFile(c.CatalogPath(), []byte("{not json"), 0o644))

	_, err := c.Upsert(ctx, curie("x"))
	require.Error(t, err)
	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)

	data, readErr := os.ReadFile(c.CatalogPath())
	require.NoError(t, readErr)
	assert.Equal(t, "{not json", string(data), "a failed upsert must not rewrite the file")
}

func TestReplaceRemovesPreviousCard(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	_, err := c.Upsert(ctx, Submission{Name: "Rosalind Franklin"})
	require.NoError(t, err)
	_, err = c.Upsert(ctx, Submission{Name: "James Watson"})
	require.NoError(t, err)

	late := curie("Radioactivity")
	late.Late = true
	res, err := c.Replace(ctx, "Rosalind Franklin", late)
	require.NoError(t, err)
	require.NotNil(t, res.Removed)
	assert.Equal(t, "franklin_rosalind", res.Removed.ID)
	assert.True(t, res.Created)

	catalog, err := c.Catalog(ctx)
	require.NoError(t, err)
	ids := []string{catalog.Cards[0].ID, catalog.Cards[1].ID}
	assert.Equal(t, []string{"watson_james", "curie_marie"}, ids)
	assert.True(t, catalog.Cards[1].LateSubmission)
}

func TestReplaceSameScientistKeepsCard(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	_, err := c.Upsert(ctx, curie("Radioactivity"))
	require.NoError(t, err)

	res, err := c.Replace(ctx, "Marie Curie", curie("Radium"))
	require.NoError(t, err)
	assert.Nil(t, res.Removed)
	assert.False(t, res.Created)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	_, err := c.Upsert(ctx, curie("Radioactivity"))
	require.NoError(t, err)

	removed, err := c.Remove(ctx, "curie_marie")
	require.NoError(t, err)
	assert.Equal(t, "Marie Curie", removed.ScientistName)

	_, err = c.Remove(ctx, "curie_marie")
	assert.True(t, errors.IsNotFound(err))
}

func TestHooks(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	var added, removed []string
	var updated [][2]string
	c.OnCardAdded(func(card cards.Card) { added = append(added, card.ID) })
	c.OnCardUpdated(func(old, new cards.Card) { updated = append(updated, [2]string{old.Contribution, new.Contribution}) })
	c.OnCardRemoved(func(card cards.Card) { removed = append(removed, card.ID) })

	_, err := c.Upsert(ctx, curie("Radioactivity"))
	require.NoError(t, err)
	_, err = c.Upsert(ctx, curie("Radioactivity"))
	require.NoError(t, err)
	_, err = c.Upsert(ctx, curie("Radium"))
	require.NoError(t, err)
	_, err = c.Replace(ctx, "Marie Curie", Submission{Name: "Plato"})
	require.NoError(t, err)
	_, err = c.Remove(ctx, "plato")
	require.NoError(t, err)

	assert.Equal(t, []string{"curie_marie", "plato"}, added)
	assert.Equal(t, [][2]string{{"Radioactivity", "Radium"}}, updated)
	assert.Equal(t, []string{"curie_marie", "plato"}, removed)
}

func TestHooksNotFiredOnFailure(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	fired := false
	c.OnCardRemoved(func(cards.Card) { fired = true })

	_, err := c.Remove(ctx, "nobody")
	require.Error(t, err)
	assert.False(t, fired)
}

func TestOptionValidation(t *testing.T) {
	_, err := New(WithCatalogPath(""))
	assert.True(t, errors.IsValidationError(err))

	_, err = New(WithImagesDir(""))
	assert.True(t, errors.IsValidationError(err))
}

package cards_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppmann/biocards/pkg/cards"
	"github.com/deppmann/biocards/pkg/constants"
)

var day1 = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func curie(contribution string) cards.Card {
	return cards.Card{
		ScientistName:  "Marie Curie",
		ScientistYears: "1867-1934",
		Era:            "Pre-1900 Foundations",
		Contribution:   contribution,
		FrontURL:       cards.ImageURL("curie_marie_front.png"),
		BackURL:        cards.ImageURL("curie_marie_back.png"),
	}
}

func TestNewCatalog(t *testing.T) {
	c := cards.New()
	assert.Empty(t, c.Cards)
	assert.NotNil(t, c.Cards)
	assert.Equal(t, constants.DefaultEras, c.Eras)

	c.Eras[0] = "changed"
	assert.NotEqual(t, "changed", constants.DefaultEras[0])
}

func TestUpsertAppendsNewCard(t *testing.T) {
	c := cards.New()

	res := c.Upsert(curie("Radioactivity"), day1)

	assert.True(t, res.Created)
	assert.Nil(t, res.Previous)
	assert.Equal(t, 0, res.Index)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "curie_marie", c.Cards[0].ID)
	assert.Equal(t, "2025-03-14", c.Cards[0].SubmittedDate)

	c.Upsert(cards.Card{ScientistName: "Plato"}, day1)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "plato", c.Cards[1].ID)
}

func TestUpsertReplacesInPlace(t *testing.T) {
	c := cards.New()
	c.Upsert(cards.Card{ScientistName: "Rosalind Franklin"}, day1)
	c.Upsert(curie("Radioactivity"), day1)
	c.Upsert(cards.Card{ScientistName: "Plato"}, day1)

	later := day1.AddDate(0, 0, 3)
	res := c.Upsert(curie("Discovered polonium and radium"), later)

	assert.False(t, res.Created)
	require.NotNil(t, res.Previous)
	assert.Equal(t, "Radioactivity", res.Previous.Contribution)
	assert.Equal(t, 1, res.Index)
	require.Equal(t, 3, c.Len())

	ids := []string{c.Cards[0].ID, c.Cards[1].ID, c.Cards[2].ID}
	assert.Equal(t, []string{"franklin_rosalind", "curie_marie", "plato"}, ids)
	assert.Equal(t, "Discovered polonium and radium", c.Cards[1].Contribution)
	assert.Equal(t, "2025-03-17", c.Cards[1].SubmittedDate)
}

func TestUpsertReplacesAllFields(t *testing.T) {
	c := cards.New()
	first := curie("Radioactivity")
	first.StudentName = "Alex"
	first.LateSubmission = true
	c.Upsert(first, day1)

	c.Upsert(curie("Radioactivity"), day1)

	assert.Empty(t, c.Cards[0].StudentName)
	assert.False(t, c.Cards[0].LateSubmission)
}

func TestUpsertIdempotent(t *testing.T) {
	once := cards.New()
	once.Upsert(curie("Radioactivity"), day1)

	twice := cards.New()
	twice.Upsert(curie("Radioactivity"), day1)
	twice.Upsert(curie("Radioactivity"), day1.Add(time.Hour))

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second upsert changed the catalog (-once +twice):\n%s", diff)
	}
}

func TestUpsertIgnoresSuppliedID(t *testing.T) {
	c := cards.New()
	card := curie("Radioactivity")
	card.ID = "something_else"

	res := c.Upsert(card, day1)
	assert.Equal(t, "curie_marie", res.Card.ID)
}

func TestRemove(t *testing.T) {
	c := cards.New()
	c.Upsert(cards.Card{ScientistName: "Rosalind Franklin"}, day1)
	c.Upsert(curie("Radioactivity"), day1)
	c.Upsert(cards.Card{ScientistName: "Plato"}, day1)

	removed, ok := c.Remove("curie_marie")
	require.True(t, ok)
	assert.Equal(t, "Marie Curie", removed.ScientistName)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "plato", c.Cards[1].ID)

	_, ok = c.Remove("curie_marie")
	assert.False(t, ok)
}

func TestSetImages(t *testing.T) {
	c := cards.New()
	c.Upsert(curie("Radioactivity"), day1)

	assert.True(t, c.SetImages("curie_marie", "2025_curie_marie_front.jpg", ""))
	card, ok := c.Find("curie_marie")
	require.True(t, ok)
	assert.Equal(t, "cards/2025_curie_marie_front.jpg", card.FrontURL)
	assert.Equal(t, "cards/curie_marie_back.png", card.BackURL)
	assert.Equal(t, "2025-03-14", card.SubmittedDate)

	assert.False(t, c.SetImages("curie_marie", "2025_curie_marie_front.jpg", ""))
	assert.False(t, c.SetImages("nobody", "a.png", "b.png"))
}

func TestTouchStrictlyIncreases(t *testing.T) {
	c := cards.New()

	first := c.Touch(day1)
	assert.Equal(t, "2025-03-14T09:30:00.000000", first)

	second := c.Touch(day1)
	assert.Equal(t, "2025-03-14T09:30:00.000001", second)

	third := c.Touch(day1.Add(-time.Hour))
	assert.Greater(t, third, second)

	fourth := c.Touch(day1.Add(time.Second))
	assert.Equal(t, "2025-03-14T09:30:01.000000", fourth)
}

func TestTouchAcceptsStampWithoutFraction(t *testing.T) {
	c := cards.New()
	c.LastUpdated = "2025-03-14T09:30:00"

	assert.Equal(t, "2025-03-14T09:30:00.000001", c.Touch(day1))
}

func TestResolveEra(t *testing.T) {
	c := cards.New()

	tests := []struct {
		answer string
		want   string
	}{
		{"1", "Pre-1900 Foundations"},
		{"16", "Synthetic Biology & Future Pioneers"},
		{"0", "0"},
		{"17", "17"},
		{"-1", "-1"},
		{"Space Biology", "Space Biology"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.ResolveEra(tt.answer), "answer %q", tt.answer)
	}
}

func TestCloneIsDeep(t *testing.T) {
	c := cards.New()
	c.Upsert(curie("Radioactivity"), day1)

	clone := c.Clone()
	clone.Cards[0].Contribution = "changed"
	clone.Eras[0] = "changed"

	assert.Equal(t, "Radioactivity", c.Cards[0].Contribution)
	assert.Equal(t, "Pre-1900 Foundations", c.Eras[0])
}

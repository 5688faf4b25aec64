package cards_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/deppmann/biocards/pkg/cards"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"first last", "Marie Curie", "curie_marie"},
		{"single word", "Plato", "plato"},
		{"middle names collapse", "Charles Robert Darwin", "darwin_charles"},
		{"punctuation stripped", "James D. Watson", "watson_james"},
		{"apostrophe", "Dorothy O'Hodgkin", "ohodgkin_dorothy"},
		{"hyphen kept", "Jean-Baptiste Lamarck", "lamarck_jean-baptiste"},
		{"underscore kept", "Ada_Lovelace", "ada_lovelace"},
		{"extra whitespace", "  Rosalind \t Franklin  ", "franklin_rosalind"},
		{"single word padded", "  Aristotle ", "aristotle"},
		{"no-break space", "Marie\u00a0Curie", "curie_marie"},
		{"thin space", "Marie\u2009Curie", "curie_marie"},
		{"ideographic space", "Marie\u3000Curie", "curie_marie"},
		{"line separator", "Rosalind\u2028Franklin", "franklin_rosalind"},
		{"unicode letters", "Émilie du Châtelet", "châtelet_émilie"},
		{"digits", "Pope Gregory 13", "13_pope"},
		{"empty", "", ""},
		{"only punctuation", "?!.", ""},
		{"mixed case", "FRANCIS crick", "crick_francis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cards.ID(tt.in))
		})
	}
}

func TestIDTwoTokenProperty(t *testing.T) {
	names := [][2]string{
		{"Barbara", "McClintock"},
		{"Linus", "Pauling"},
		{"Gertrude", "Elion"},
		{"Hans", "Krebs"},
	}
	for _, n := range names {
		got := cards.ID(n[0] + " " + n[1])
		assert.Equal(t, cards.ID(n[1])+"_"+cards.ID(n[0]), got)
	}
}

func TestIDPastedNameMatchesTyped(t *testing.T) {
	catalog := cards.New()
	catalog.Upsert(cards.Card{ScientistName: "Marie Curie"}, time.Now())
	res := catalog.Upsert(cards.Card{ScientistName: "Marie\u00a0Curie"}, time.Now())

	assert.False(t, res.Created)
	assert.Equal(t, 1, catalog.Len())
}

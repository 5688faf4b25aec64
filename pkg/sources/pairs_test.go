package sources_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deppmann/biocards/pkg/sources"
)

func TestParseImageName(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		side   sources.Side
		ok     bool
	}{
		{"curie_marie_front.png", "curie_marie", sources.Front, true},
		{"20250314_curie_marie_back.JPG", "20250314_curie_marie", sources.Back, true},
		{"plato_FRONT.jpeg", "plato", sources.Front, true},
		{"front.png", "", "", false},
		{"curie_marie_side.png", "", "", false},
		{"curie_marie_front", "", "", false},
		{"notes.txt", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix, side, ok := sources.ParseImageName(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.prefix, prefix)
			assert.Equal(t, tt.side, side)
		})
	}
}

func TestPairs(t *testing.T) {
	pairs, stray := sources.Pairs([]string{
		"2025_plato_back.png",
		"curie_marie_front.png",
		"readme.md",
		"curie_marie_back.png",
		"curie_marie_back.jpg",
	})

	assert.Equal(t, []string{"readme.md"}, stray)
	assert.Equal(t, []sources.Pair{
		{Prefix: "2025_plato", Back: "2025_plato_back.png"},
		{Prefix: "curie_marie", Front: "curie_marie_front.png", Back: "curie_marie_back.png"},
	}, pairs)

	assert.False(t, pairs[0].Complete())
	assert.True(t, pairs[1].Complete())
}

func TestPairMatchesID(t *testing.T) {
	p := sources.Pair{Prefix: "20250314_curie_marie"}

	assert.True(t, p.MatchesID("curie_marie"))
	assert.False(t, p.MatchesID("curie"), "id must end the prefix")
	assert.False(t, p.MatchesID("ie_marie"))
	assert.False(t, p.MatchesID(""))
	assert.True(t, sources.Pair{Prefix: "plato"}.MatchesID("plato"))
}

func TestSourcesRegistry(t *testing.T) {
	reg := sources.NewSources()
	reg.Set(stubSource{id: sources.LocalID})
	reg.Set(stubSource{id: sources.DriveID})

	src, ok := reg.Get(sources.LocalID)
	assert.True(t, ok)
	assert.Equal(t, sources.LocalID, src.ID())
	assert.Equal(t, []sources.ID{sources.DriveID, sources.LocalID}, reg.IDs())

	assert.True(t, sources.DriveID.IsValid())
	assert.False(t, sources.ID("dropbox").IsValid())
}

package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/deppmann/biocards/pkg/errors"
	"github.com/deppmann/biocards/pkg/sources"
)

func TestOptions(t *testing.T) {
	opts := Defaults().Apply(
		WithDryRun(true),
		WithLinkImages(true),
		WithTimeout(time.Minute),
		WithImagesDir("public/cards"),
	)
	assert.Equal(t, &Options{DryRun: true, LinkImages: true, Timeout: time.Minute, ImagesDir: "public/cards"}, opts)
	assert.NoError(t, opts.Validate())

	err := Defaults().Apply(WithTimeout(-time.Second)).Validate()
	assert.True(t, errors.IsValidationError(err))
}

func TestResultSummary(t *testing.T) {
	tests := []struct {
		name    string
		result  Result
		want    string
		changed bool
	}{
		{
			name:   "nothing new",
			result: Result{Listed: 2, Skipped: []string{"a_front.png", "a_back.png"}},
			want:   "2 images found, 0 downloaded, 2 already present",
		},
		{
			name: "downloads and links",
			result: Result{
				Listed:     3,
				Downloaded: []string{"curie_marie_front.png", "curie_marie_back.png"},
				Skipped:    []string{"x.png"},
				Failed:     []Failure{{File: "y.png", Error: "boom"}},
				Linked:     []Link{{CardID: "curie_marie", Updated: true}, {CardID: "plato", Updated: false}},
				Unmatched:  []sources.Pair{{Prefix: "pauling_linus"}},
			},
			want:    "3 images found, 2 downloaded, 1 already present, 1 failed, 1 cards linked, 1 pairs need card details",
			changed: true,
		},
		{
			name:    "dry run",
			result:  Result{Listed: 1, Downloaded: []string{"a_front.png"}, DryRun: true},
			want:    "1 images found, 1 downloaded, 0 already present, (dry run)",
			changed: true,
		},
		{
			name:    "link only",
			result:  Result{Linked: []Link{{CardID: "plato", Updated: true}}},
			want:    "0 images found, 0 downloaded, 0 already present, 1 cards linked",
			changed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Summary())
			assert.Equal(t, tt.changed, tt.result.HasChanges())
		})
	}
}

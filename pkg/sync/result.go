package sync

import (
	"fmt"
	"strings"

	"github.com/deppmann/biocards/pkg/sources"
)

// Result represents the complete result of an image sync.
type Result struct {
	Source    sources.ID `json:"source" yaml:"source"`
	ImagesDir string     `json:"images_dir" yaml:"images_dir"`
	DryRun    bool       `json:"dry_run" yaml:"dry_run"`

	Listed     int       `json:"listed" yaml:"listed"`         // Images found in the source
	Downloaded []string  `json:"downloaded" yaml:"downloaded"` // Files written (or that would be, in a dry run)
	Skipped    []string  `json:"skipped" yaml:"skipped"`       // Files already present locally
	Failed     []Failure `json:"failed,omitempty" yaml:"failed,omitempty"`

	Linked    []Link         `json:"linked,omitempty" yaml:"linked,omitempty"`       // Pairs matched to a catalog card
	Unmatched []sources.Pair `json:"unmatched,omitempty" yaml:"unmatched,omitempty"` // Pairs with no card yet
	Stray     []string       `json:"stray,omitempty" yaml:"stray,omitempty"`         // Images outside the naming convention
}

// Failure records a file that could not be downloaded.
type Failure struct {
	File  string `json:"file" yaml:"file"`
	Error string `json:"error" yaml:"error"`
}

// Link records an image pair attached to a card.
type Link struct {
	CardID  string `json:"card_id" yaml:"card_id"`
	Front   string `json:"front,omitempty" yaml:"front,omitempty"`
	Back    string `json:"back,omitempty" yaml:"back,omitempty"`
	Updated bool   `json:"updated" yaml:"updated"` // Card URLs were rewritten
}

// HasChanges returns true if the sync wrote files or changed cards.
func (r *Result) HasChanges() bool {
	if len(r.Downloaded) > 0 {
		return true
	}
	for _, l := range r.Linked {
		if l.Updated {
			return true
		}
	}
	return false
}

// LinkedCount returns the number of cards whose URLs were rewritten.
func (r *Result) LinkedCount() int {
	n := 0
	for _, l := range r.Linked {
		if l.Updated {
			n++
		}
	}
	return n
}

// Summary returns a human-readable summary of the sync result.
func (r *Result) Summary() string {
	summary := fmt.Sprintf("%d images found, %d downloaded, %d already present",
		r.Listed, len(r.Downloaded), len(r.Skipped))

	var parts []string
	if len(r.Failed) > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", len(r.Failed)))
	}
	if n := r.LinkedCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d cards linked", n))
	}
	if len(r.Unmatched) > 0 {
		parts = append(parts, fmt.Sprintf("%d pairs need card details", len(r.Unmatched)))
	}
	if r.DryRun {
		parts = append(parts, "(dry run)")
	}
	if len(parts) > 0 {
		summary += ", " + strings.Join(parts, ", ")
	}
	return summary
}

// Package cards defines the scientist trading card catalog: the card record,
// the catalog document that holds them, identity derivation from a
// scientist's name, and the upsert that keeps ids unique.
//
// The catalog is a plain value. Loading and saving it is the job of
// internal/store; the root biocards package ties the two together.
package cards

import (
	"slices"
	"strings"

	"github.com/deppmann/biocards/pkg/constants"
)

// Card is one scientist card as stored in the catalog document.
type Card struct {
	ID             string `json:"id" yaml:"id"`
	ScientistName  string `json:"scientist_name" yaml:"scientist_name"`
	ScientistYears string `json:"scientist_years" yaml:"scientist_years"`
	Era            string `json:"era" yaml:"era"`
	Contribution   string `json:"contribution" yaml:"contribution"`
	FrontURL       string `json:"card_front_url" yaml:"card_front_url"`
	BackURL        string `json:"card_back_url" yaml:"card_back_url"`
	StudentName    string `json:"student_name" yaml:"student_name"`
	SubmittedDate  string `json:"submitted_date" yaml:"submitted_date"`
	LateSubmission bool   `json:"late_submission,omitempty" yaml:"late_submission,omitempty"`
}

// Catalog is the full card document: cards in display order, the era
// vocabulary offered to students, and the time of the last save.
type Catalog struct {
	Cards       []Card   `json:"cards" yaml:"cards"`
	Eras        []string `json:"eras" yaml:"eras"`
	LastUpdated string   `json:"last_updated" yaml:"last_updated"`
}

// New returns an empty catalog seeded with the default era vocabulary.
func New() *Catalog {
	return &Catalog{
		Cards: []Card{},
		Eras:  slices.Clone(constants.DefaultEras),
	}
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	if c == nil {
		return nil
	}
	return &Catalog{
		Cards:       slices.Clone(c.Cards),
		Eras:        slices.Clone(c.Eras),
		LastUpdated: c.LastUpdated,
	}
}

// Len returns the number of cards.
func (c *Catalog) Len() int {
	return len(c.Cards)
}

// Normalize replaces nil slices with empty ones so the document always
// serializes "cards" and "eras" as arrays.
func (c *Catalog) Normalize() {
	if c.Cards == nil {
		c.Cards = []Card{}
	}
	if c.Eras == nil {
		c.Eras = []string{}
	}
}

// ImageURL returns the catalog path for an image filename.
func ImageURL(filename string) string {
	return constants.ImageURLPrefix + filename
}

// ImageFile is the inverse of ImageURL. Paths without the prefix are
// returned unchanged.
func ImageFile(url string) string {
	return strings.TrimPrefix(url, constants.ImageURLPrefix)
}

// DefaultFrontFile is the front image filename offered when none is given.
func DefaultFrontFile(id string) string {
	return id + "_front.png"
}

// DefaultBackFile is the back image filename offered when none is given.
func DefaultBackFile(id string) string {
	return id + "_back.png"
}

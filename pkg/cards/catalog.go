package cards

import (
	"slices"
	"strconv"
	"time"

	"github.com/deppmann/biocards/pkg/constants"
)

// UpsertResult describes the effect of a single Upsert.
type UpsertResult struct {
	// Card is the record as stored, with id and submitted date filled in.
	Card Card

	// Index is the position of the card in the catalog.
	Index int

	// Created is true when the card was appended.
	Created bool

	// Previous holds the replaced record when Created is false.
	Previous *Card
}

// Upsert inserts card or replaces the card with the same id.
//
// The id is always derived from ScientistName and SubmittedDate is set to
// the date of now. A replaced card keeps its position; a new card is
// appended. Upsert does not touch LastUpdated, see Touch.
func (c *Catalog) Upsert(card Card, now time.Time) UpsertResult {
	card.ID = ID(card.ScientistName)
	card.SubmittedDate = now.Format(constants.DateFormat)

	if i := c.Index(card.ID); i >= 0 {
		previous := c.Cards[i]
		c.Cards[i] = card
		return UpsertResult{Card: card, Index: i, Previous: &previous}
	}

	c.Cards = append(c.Cards, card)
	return UpsertResult{Card: card, Index: len(c.Cards) - 1, Created: true}
}

// Index returns the position of the card with the given id, or -1.
func (c *Catalog) Index(id string) int {
	return slices.IndexFunc(c.Cards, func(card Card) bool {
		return card.ID == id
	})
}

// Find returns the card with the given id.
func (c *Catalog) Find(id string) (Card, bool) {
	if i := c.Index(id); i >= 0 {
		return c.Cards[i], true
	}
	return Card{}, false
}

// Remove deletes the card with the given id, preserving the order of the rest.
func (c *Catalog) Remove(id string) (Card, bool) {
	i := c.Index(id)
	if i < 0 {
		return Card{}, false
	}
	removed := c.Cards[i]
	c.Cards = slices.Delete(c.Cards, i, i+1)
	return removed, true
}

// SetImages points a card at new image files. Empty names leave the
// corresponding URL alone. It reports whether anything changed.
func (c *Catalog) SetImages(id, frontFile, backFile string) bool {
	i := c.Index(id)
	if i < 0 {
		return false
	}

	card := &c.Cards[i]
	changed := false
	if frontFile != "" && card.FrontURL != ImageURL(frontFile) {
		card.FrontURL = ImageURL(frontFile)
		changed = true
	}
	if backFile != "" && card.BackURL != ImageURL(backFile) {
		card.BackURL = ImageURL(backFile)
		changed = true
	}
	return changed
}

// Touch stamps LastUpdated with now. If now does not sort after the
// current stamp (clock skew, or two saves within a microsecond) the stamp
// advances by one microsecond instead, so LastUpdated always increases.
func (c *Catalog) Touch(now time.Time) string {
	now = now.Truncate(time.Microsecond)
	if prev, ok := c.lastUpdated(now.Location()); ok && !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	c.LastUpdated = now.Format(constants.TimestampFormat)
	return c.LastUpdated
}

// lastUpdated parses LastUpdated. Stamps written without fractional
// seconds parse as well.
func (c *Catalog) lastUpdated(loc *time.Location) (time.Time, bool) {
	if c.LastUpdated == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", c.LastUpdated, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ResolveEra maps a menu answer to an era. A number between 1 and the
// number of eras selects that era; any other answer is the era itself.
func (c *Catalog) ResolveEra(answer string) string {
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(c.Eras) {
		return answer
	}
	return c.Eras[n-1]
}

// HasEra reports whether era is part of the vocabulary.
func (c *Catalog) HasEra(era string) bool {
	return slices.Contains(c.Eras, era)
}

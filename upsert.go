package biocards

import (
	"context"
	"strings"

	"github.com/deppmann/biocards/pkg/cards"
	"github.com/deppmann/biocards/pkg/errors"
)

// Compile-time interface check to ensure proper implementation.
var _ Writer = (*client)(nil)

// Writer changes the catalog. Every call is a single locked
// load-modify-save of the catalog file.
type Writer interface {
	// Upsert adds the submitted card or replaces the card with the same id.
	Upsert(ctx context.Context, sub Submission) (*cards.UpsertResult, error)

	// Replace upserts sub after removing the card derived from
	// previousName, when that is a different card.
	Replace(ctx context.Context, previousName string, sub Submission) (*ReplaceResult, error)

	// Remove deletes a card by id.
	Remove(ctx context.Context, id string) (cards.Card, error)
}

// Submission is the field set a student provides for a card. Image files
// are bare filenames inside the images directory.
type Submission struct {
	Name         string
	Years        string
	Era          string
	Contribution string
	FrontFile    string
	BackFile     string
	Student      string
	Late         bool
}

// ID returns the card id the submission maps to.
func (s Submission) ID() string {
	return cards.ID(s.Name)
}

// Card converts the submission into a card record. Image filenames are
// used as given; an empty name yields the bare "cards/" prefix.
func (s Submission) Card() cards.Card {
	return cards.Card{
		ID:             s.ID(),
		ScientistName:  s.Name,
		ScientistYears: s.Years,
		Era:            s.Era,
		Contribution:   s.Contribution,
		FrontURL:       cards.ImageURL(s.FrontFile),
		BackURL:        cards.ImageURL(s.BackFile),
		StudentName:    s.Student,
		LateSubmission: s.Late,
	}
}

// Normalize trims surrounding whitespace from every field.
func (s Submission) Normalize() Submission {
	s.Name = strings.TrimSpace(s.Name)
	s.Years = strings.TrimSpace(s.Years)
	s.Era = strings.TrimSpace(s.Era)
	s.Contribution = strings.TrimSpace(s.Contribution)
	s.FrontFile = strings.TrimSpace(s.FrontFile)
	s.BackFile = strings.TrimSpace(s.BackFile)
	s.Student = strings.TrimSpace(s.Student)
	return s
}

// ReplaceResult describes a Replace call.
type ReplaceResult struct {
	cards.UpsertResult

	// Removed is the retired card, if one was removed.
	Removed *cards.Card
}

// Upsert adds or replaces a card.
func (c *client) Upsert(ctx context.Context, sub Submission) (*cards.UpsertResult, error) {
	var result cards.UpsertResult

	_, err := c.update(ctx, func(catalog *cards.Catalog) error {
		result = catalog.Upsert(sub.Card(), c.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logUpsert(ctx, result)
	return &result, nil
}

// Replace retires the card for previousName and upserts sub in one write.
func (c *client) Replace(ctx context.Context, previousName string, sub Submission) (*ReplaceResult, error) {
	var result ReplaceResult
	previousID := cards.ID(previousName)

	_, err := c.update(ctx, func(catalog *cards.Catalog) error {
		if previousID != "" && previousID != sub.ID() {
			if removed, ok := catalog.Remove(previousID); ok {
				result.Removed = &removed
			}
		}
		result.UpsertResult = catalog.Upsert(sub.Card(), c.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Removed != nil {
		c.log(ctx).Info().
			Str("card_id", result.Removed.ID).
			Str("replacement", result.Card.ID).
			Msg("Removed replaced card")
	}
	c.logUpsert(ctx, result.UpsertResult)
	return &result, nil
}

// Remove deletes a card by id.
func (c *client) Remove(ctx context.Context, id string) (cards.Card, error) {
	var removed cards.Card

	_, err := c.update(ctx, func(catalog *cards.Catalog) error {
		card, ok := catalog.Remove(id)
		if !ok {
			return errors.NewNotFoundError("card", id)
		}
		removed = card
		return nil
	})
	if err != nil {
		return cards.Card{}, err
	}
	return removed, nil
}

func (c *client) logUpsert(ctx context.Context, result cards.UpsertResult) {
	event := c.log(ctx).Debug().
		Str("card_id", result.Card.ID).
		Int("index", result.Index)
	if result.Created {
		event.Msg("Card added")
	} else {
		event.Msg("Card updated")
	}
}

// Package events publishes catalog changes to NATS.
//
// A Bridge registers on a client's hooks and turns every added, updated
// or removed card into a JSON event on the matching subject:
//
//	biocards.card.added
//	biocards.card.updated
//	biocards.card.removed
//
// Publishing never fails a catalog write. Errors are logged and dropped.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/deppmann/biocards/pkg/cards"
	"github.com/deppmann/biocards/pkg/constants"
)

// Type represents the type of catalog event.
type Type string

// Event types for catalog changes.
const (
	CardAdded   Type = "card.added"
	CardUpdated Type = "card.updated"
	CardRemoved Type = "card.removed"
)

// Subject returns the NATS subject events of this type are published on.
func (t Type) Subject() string {
	switch t {
	case CardAdded:
		return constants.SubjectCardAdded
	case CardUpdated:
		return constants.SubjectCardUpdated
	case CardRemoved:
		return constants.SubjectCardRemoved
	}
	return "biocards." + string(t)
}

// Event is the payload of a published card change.
type Event struct {
	ID        string      `json:"id"`
	Type      Type        `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Card      cards.Card  `json:"card"`
	Previous  *cards.Card `json:"previous,omitempty"` // Set on updates
}

// NewEvent creates an event with a fresh id.
func NewEvent(t Type, card cards.Card, previous *cards.Card, now time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: now.UTC(),
		Card:      card,
		Previous:  previous,
	}
}

// Encode renders the event as JSON.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

package biocards

import (
	"reflect"
	"sync"

	"github.com/deppmann/biocards/pkg/cards"
)

// Hook function types for card events
type (
	// CardAddedHook is called when a card is added to the catalog
	CardAddedHook func(card cards.Card)

	// CardUpdatedHook is called when a stored card changes
	CardUpdatedHook func(old, new cards.Card)

	// CardRemovedHook is called when a card is removed from the catalog
	CardRemovedHook func(card cards.Card)
)

// Hooks registers callbacks for catalog changes. Callbacks run after the
// catalog has been saved, on the goroutine that made the change.
type Hooks interface {
	OnCardAdded(fn CardAddedHook)
	OnCardUpdated(fn CardUpdatedHook)
	OnCardRemoved(fn CardRemovedHook)
}

// hooks manages event callbacks for catalog changes
type hooks struct {
	mu            sync.RWMutex
	onCardAdded   []CardAddedHook
	onCardUpdated []CardUpdatedHook
	onCardRemoved []CardRemovedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnCardAdded registers a callback for when cards are added
func (c *client) OnCardAdded(fn CardAddedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onCardAdded = append(c.hooks.onCardAdded, fn)
}

// OnCardUpdated registers a callback for when cards are updated
func (c *client) OnCardUpdated(fn CardUpdatedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onCardUpdated = append(c.hooks.onCardUpdated, fn)
}

// OnCardRemoved registers a callback for when cards are removed
func (c *client) OnCardRemoved(fn CardRemovedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onCardRemoved = append(c.hooks.onCardRemoved, fn)
}

// triggerCatalogUpdate compares old and new catalogs and triggers appropriate hooks
func (h *hooks) triggerCatalogUpdate(oldCatalog, newCatalog *cards.Catalog) {
	if oldCatalog == nil || newCatalog == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	oldByID := make(map[string]cards.Card, len(oldCatalog.Cards))
	for _, card := range oldCatalog.Cards {
		oldByID[card.ID] = card
	}
	newByID := make(map[string]struct{}, len(newCatalog.Cards))

	for _, card := range newCatalog.Cards {
		newByID[card.ID] = struct{}{}
		old, exists := oldByID[card.ID]
		switch {
		case !exists:
			for _, hook := range h.onCardAdded {
				hook(card)
			}
		case !reflect.DeepEqual(old, card):
			for _, hook := range h.onCardUpdated {
				hook(old, card)
			}
		}
	}

	for _, old := range oldCatalog.Cards {
		if _, exists := newByID[old.ID]; !exists {
			for _, hook := range h.onCardRemoved {
				hook(old)
			}
		}
	}
}

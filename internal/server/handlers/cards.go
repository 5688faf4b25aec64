package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deppmann/biocards/internal/server/filter"
	"github.com/deppmann/biocards/internal/server/response"
	"github.com/deppmann/biocards/pkg/cards"
	"github.com/deppmann/biocards/pkg/errors"
	"github.com/deppmann/biocards/pkg/logging"
)

// HandleCatalog handles GET /cards.json. It serves the catalog document
// itself, which is what the static gallery page fetches.
func (h *Handlers) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.cache.Catalog(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, catalog)
}

// HandleListCards handles GET /api/v1/cards.
//
// Query parameters: search (name or contribution), era ("all" for every
// era), sort (name, name-desc, era, recent, random) and limit.
func (h *Handlers) HandleListCards(w http.ResponseWriter, r *http.Request) {
	query, err := filter.ParseCardQuery(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	key, cacheable := filter.CacheKey(query)
	if cacheable {
		if cached, ok := h.cache.Get(key); ok {
			response.OK(w, cached)
			return
		}
	}

	catalog, err := h.cache.Catalog(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	matched := query.Apply(catalog.Cards)
	result := map[string]any{
		"cards": matched,
		"count": len(matched),
		"total": catalog.Len(),
	}
	if cacheable {
		h.cache.Set(key, result)
	}
	response.OK(w, result)
}

// HandleGetCard handles GET /api/v1/cards/{id}.
func (h *Handlers) HandleGetCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	catalog, err := h.cache.Catalog(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	card, ok := catalog.Find(id)
	if !ok {
		response.ErrorFromType(w, errors.NewNotFoundError("card", id))
		return
	}
	response.OK(w, card)
}

// HandleListEras handles GET /api/v1/eras. Each era comes with the
// number of cards filed under it.
func (h *Handlers) HandleListEras(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.cache.Catalog(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	type era struct {
		Name  string `json:"name"`
		Cards int    `json:"cards"`
	}
	counts := make(map[string]int)
	for _, card := range catalog.Cards {
		counts[card.Era]++
	}
	eras := make([]era, 0, len(catalog.Eras))
	for _, name := range catalog.Eras {
		eras = append(eras, era{Name: name, Cards: counts[name]})
	}

	response.OK(w, map[string]any{
		"eras":  eras,
		"sorts": cards.SortOrders[1:],
	})
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error().Err(err).Msg("Request failed")
	response.ErrorFromType(w, err)
}

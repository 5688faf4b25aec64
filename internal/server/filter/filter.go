// Package filter parses gallery query parameters.
package filter

import (
	"net/http"
	"strconv"

	"github.com/deppmann/biocards/pkg/cards"
	"github.com/deppmann/biocards/pkg/errors"
)

// MaxLimit caps the number of cards a single request may ask for.
const MaxLimit = 1000

// ParseCardQuery builds a card query from search, era, sort and limit
// parameters. Unknown sort orders and malformed limits are rejected.
func ParseCardQuery(r *http.Request) (cards.Query, error) {
	q := r.URL.Query()

	sort, err := cards.ParseSortOrder(q.Get("sort"))
	if err != nil {
		return cards.Query{}, err
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return cards.Query{}, errors.NewValidationError("limit", raw, "must be a non-negative integer")
		}
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return cards.Query{
		Search: q.Get("search"),
		Era:    q.Get("era"),
		Sort:   sort,
		Limit:  limit,
	}, nil
}

// CacheKey identifies the result of a query. Random orders are never
// cached, so they report false.
func CacheKey(q cards.Query) (string, bool) {
	if q.Sort == cards.SortRandom {
		return "", false
	}
	return "cards:" + encode(q), true
}

func encode(q cards.Query) string {
	return "search=" + strconv.Quote(q.Search) +
		"&era=" + strconv.Quote(q.Era) +
		"&sort=" + string(q.Sort) +
		"&limit=" + strconv.Itoa(q.Limit)
}

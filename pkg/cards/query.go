package cards

import (
	"math/rand/v2"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/deppmann/biocards/pkg/errors"
)

// SortOrder selects how a query orders its results.
type SortOrder string

// Sort orders understood by Query.
const (
	SortDefault  SortOrder = ""
	SortName     SortOrder = "name"
	SortNameDesc SortOrder = "name-desc"
	SortEra      SortOrder = "era"
	SortRecent   SortOrder = "recent"
	SortRandom   SortOrder = "random"
)

// SortOrders lists the accepted sort orders, catalog order first.
var SortOrders = []SortOrder{SortDefault, SortName, SortNameDesc, SortEra, SortRecent, SortRandom}

// ParseSortOrder validates a user supplied sort order.
func ParseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	if order == "default" || order == "catalog" {
		return SortDefault, nil
	}
	if !slices.Contains(SortOrders, order) {
		return SortDefault, errors.NewValidationError("sort", s,
			"must be one of name, name-desc, era, recent, random")
	}
	return order, nil
}

// Query filters and orders cards the way the gallery page does.
type Query struct {
	// Search matches scientist name or contribution, case-insensitively.
	Search string

	// Era keeps only cards of that era. Empty or "all" keeps everything.
	Era string

	// Sort orders the results. The zero value keeps catalog order.
	Sort SortOrder

	// Limit caps the number of results when positive.
	Limit int

	// Shuffle overrides the random source for SortRandom.
	Shuffle func(n int, swap func(i, j int))
}

// Apply returns the matching cards in the requested order. The input slice
// is not modified.
func (q Query) Apply(all []Card) []Card {
	fold := cases.Fold()
	search := fold.String(strings.TrimSpace(q.Search))

	result := make([]Card, 0, len(all))
	for _, card := range all {
		if q.matchesEra(card) && matchesSearch(fold, search, card) {
			result = append(result, card)
		}
	}

	q.sort(result)

	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}
	return result
}

func (q Query) matchesEra(card Card) bool {
	return q.Era == "" || q.Era == "all" || card.Era == q.Era
}

func matchesSearch(fold cases.Caser, search string, card Card) bool {
	if search == "" {
		return true
	}
	return strings.Contains(fold.String(card.ScientistName), search) ||
		strings.Contains(fold.String(card.Contribution), search)
}

func (q Query) sort(result []Card) {
	col := collate.New(language.English, collate.IgnoreCase)

	switch q.Sort {
	case SortName:
		slices.SortStableFunc(result, func(a, b Card) int {
			return col.CompareString(a.ScientistName, b.ScientistName)
		})
	case SortNameDesc:
		slices.SortStableFunc(result, func(a, b Card) int {
			return col.CompareString(b.ScientistName, a.ScientistName)
		})
	case SortEra:
		slices.SortStableFunc(result, func(a, b Card) int {
			return col.CompareString(a.Era, b.Era)
		})
	case SortRecent:
		slices.SortStableFunc(result, func(a, b Card) int {
			return strings.Compare(b.SubmittedDate, a.SubmittedDate)
		})
	case SortRandom:
		shuffle := q.Shuffle
		if shuffle == nil {
			shuffle = rand.Shuffle
		}
		shuffle(len(result), func(i, j int) {
			result[i], result[j] = result[j], result[i]
		})
	}
}

// Package catalog implements the pure filter, sort, and aggregation
// engine over an in-memory drink list, plus the HTTP handler that
// exposes it. The engine is stateless and re-entrant: every function is
// a pure computation over its inputs.
package catalog

import (
	"sort"
	"strings"

	"github.com/casklist/casklist/pkg/models"
)

// SortKey selects the ordering of the visible drink list.
type SortKey string

const (
	SortNameAsc  SortKey = "name_asc"
	SortNameDesc SortKey = "name_desc"
	SortABVHigh  SortKey = "abv_high"
	SortABVLow   SortKey = "abv_low"
	SortBrewery  SortKey = "brewery"
	SortStyle    SortKey = "style"
)

// Query is the predicate and sort configuration that determines the
// visible subset. Zero values pass everything.
type Query struct {
	Category        models.Category
	Styles          []string
	FavoritesOnly   bool
	HideUnavailable bool
	Search          string
	Sort            SortKey
}

// Visible applies the query's predicates in fixed order (category,
// styles, favorites, availability, search) and then the sort key.
// The input slice is never mutated.
func Visible(drinks []models.Drink, q Query) []models.Drink {
	styleSet := make(map[string]bool, len(q.Styles))
	for _, s := range q.Styles {
		styleSet[s] = true
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]models.Drink, 0, len(drinks))
	for _, d := range drinks {
		if q.Category != "" && d.Category != q.Category {
			continue
		}
		if len(styleSet) > 0 && !styleSet[d.Style] {
			continue
		}
		if q.FavoritesOnly && !d.IsFavorite {
			continue
		}
		if q.HideUnavailable {
			if st := d.Availability(); st == models.AvailabilityOut || st == models.AvailabilityNotYet {
				continue
			}
		}
		if search != "" && !matchesSearch(d, search) {
			continue
		}
		out = append(out, d)
	}

	sortDrinks(out, q.Sort)
	return out
}

// matchesSearch matches the lowercase query against the concatenation of
// drink name, brewery name, style, and notes.
func matchesSearch(d models.Drink, search string) bool {
	haystack := strings.ToLower(
		d.Name + " " + d.Brewery.Name + " " + d.Style + " " + d.Notes)
	return strings.Contains(haystack, search)
}

// sortDrinks orders the slice in place. The sort is stable: drinks with
// equal keys keep their relative feed order. An empty or unknown key
// leaves the feed order untouched.
func sortDrinks(drinks []models.Drink, key SortKey) {
	switch key {
	case SortNameAsc:
		sort.SliceStable(drinks, func(a, b int) bool {
			return drinks[a].Name < drinks[b].Name
		})
	case SortNameDesc:
		sort.SliceStable(drinks, func(a, b int) bool {
			return drinks[a].Name > drinks[b].Name
		})
	case SortABVHigh:
		sort.SliceStable(drinks, func(a, b int) bool {
			return drinks[a].ABV > drinks[b].ABV
		})
	case SortABVLow:
		sort.SliceStable(drinks, func(a, b int) bool {
			return drinks[a].ABV < drinks[b].ABV
		})
	case SortBrewery:
		sort.SliceStable(drinks, func(a, b int) bool {
			return drinks[a].Brewery.Name < drinks[b].Brewery.Name
		})
	case SortStyle:
		// Absent styles compare as empty strings and sort first.
		sort.SliceStable(drinks, func(a, b int) bool {
			return drinks[a].Style < drinks[b].Style
		})
	}
}

// Categories returns the distinct categories across the unfiltered set,
// in first-seen feed order.
func Categories(drinks []models.Drink) []models.Category {
	seen := make(map[models.Category]bool)
	var out []models.Category
	for _, d := range drinks {
		if !seen[d.Category] {
			seen[d.Category] = true
			out = append(out, d.Category)
		}
	}
	return out
}

// CategoryCounts returns per-category drink counts over the unfiltered
// set. Counts deliberately ignore every active predicate so category
// chips show totals.
func CategoryCounts(drinks []models.Drink) map[models.Category]int {
	out := make(map[models.Category]int)
	for _, d := range drinks {
		out[d.Category]++
	}
	return out
}

// Styles returns the distinct non-empty styles among drinks matching the
// category filter only, sorted alphabetically. The style picker reflects
// what is reachable after narrowing by category, so no other predicate
// applies here.
func Styles(drinks []models.Drink, category models.Category) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range drinks {
		if category != "" && d.Category != category {
			continue
		}
		if d.Style == "" || seen[d.Style] {
			continue
		}
		seen[d.Style] = true
		out = append(out, d.Style)
	}
	sort.Strings(out)
	return out
}

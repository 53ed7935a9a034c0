package catalog

import (
	"math"
	"sort"

	"github.com/casklist/casklist/pkg/models"
)

// Reason labels surfaced with each similar-drink suggestion.
const (
	ReasonStyle   = "Same style, similar strength"
	ReasonBrewery = "Same brewery"
)

// similarABVWindow is the maximum ABV difference for a style match.
const similarABVWindow = 0.5

// SimilarDrink pairs a qualifying drink with the reason it qualified.
type SimilarDrink struct {
	Drink  models.Drink `json:"drink"`
	Reason string       `json:"reason"`
}

// Similar returns drinks related to ref, drawn from the full set minus
// ref itself. A drink qualifies when it shares ref's style with an ABV
// within ±0.5, or comes from the same brewery; a drink satisfying both
// is listed once with the style reason. Results are ordered by ABV
// proximity to ref ascending (the upstream feeds define no order, this
// one is stable and explainable when callers cap the list).
func Similar(drinks []models.Drink, ref models.Drink) []SimilarDrink {
	var out []SimilarDrink
	for _, d := range drinks {
		if d.ID == ref.ID && d.FestivalID == ref.FestivalID {
			continue
		}
		switch {
		case ref.Style != "" && d.Style == ref.Style && math.Abs(d.ABV-ref.ABV) <= similarABVWindow:
			out = append(out, SimilarDrink{Drink: d, Reason: ReasonStyle})
		case d.Brewery.ID == ref.Brewery.ID:
			out = append(out, SimilarDrink{Drink: d, Reason: ReasonBrewery})
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		return math.Abs(out[a].Drink.ABV-ref.ABV) < math.Abs(out[b].Drink.ABV-ref.ABV)
	})
	return out
}

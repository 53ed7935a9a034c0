package catalog

import (
	"testing"

	"github.com/casklist/casklist/internal/testutil"
	"github.com/casklist/casklist/pkg/models"
)

// fixture builds a small mixed catalog with predictable IDs.
func fixture() []models.Drink {
	return []models.Drink{
		testutil.NewDrink(testutil.WithID("d1"), testutil.WithName("Citra"),
			testutil.WithStyle("Golden Ale"), testutil.WithABV(4.2),
			testutil.WithBrewery("b1", "Oakham Ales")),
		testutil.NewDrink(testutil.WithID("d2"), testutil.WithName("Green Devil"),
			testutil.WithStyle("IPA"), testutil.WithABV(6.0),
			testutil.WithBrewery("b1", "Oakham Ales"),
			testutil.WithStatusText("Sold out")),
		testutil.NewDrink(testutil.WithID("d3"), testutil.WithName("Black Dog"),
			testutil.WithStyle("Mild"), testutil.WithABV(3.6),
			testutil.WithBrewery("b2", "Elgood's"),
			testutil.WithStatusText("A little remaining"), testutil.WithFavorite()),
		testutil.NewDrink(testutil.WithID("d4"), testutil.WithName("Stoke Red"),
			testutil.WithCategory(models.CategoryCider), testutil.WithStyle(""),
			testutil.WithABV(6.0),
			testutil.WithBrewery("b3", "Burrow Hill"),
			testutil.WithNotes("bittersweet, smoky")),
		testutil.NewDrink(testutil.WithID("d5"), testutil.WithName("Amber Daze"),
			testutil.WithStyle("IPA"), testutil.WithABV(6.0),
			testutil.WithBrewery("b2", "Elgood's"),
			testutil.WithStatusText("Not yet available")),
	}
}

func ids(drinks []models.Drink) []string {
	out := make([]string, len(drinks))
	for i := range drinks {
		out[i] = drinks[i].ID
	}
	return out
}

func equalIDs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestVisible_NoPredicatesPassesAll(t *testing.T) {
	drinks := fixture()
	got := Visible(drinks, Query{})
	if len(got) != len(drinks) {
		t.Fatalf("Visible with empty query = %d drinks, want %d", len(got), len(drinks))
	}
	// Feed order preserved when no sort key is set.
	if !equalIDs(ids(got), "d1", "d2", "d3", "d4", "d5") {
		t.Errorf("order = %v", ids(got))
	}
}

func TestVisible_CategoryFilter(t *testing.T) {
	got := Visible(fixture(), Query{Category: models.CategoryCider})
	if !equalIDs(ids(got), "d4") {
		t.Errorf("cider drinks = %v, want [d4]", ids(got))
	}
}

func TestVisible_StyleFilterORSemantics(t *testing.T) {
	got := Visible(fixture(), Query{Styles: []string{"IPA", "Mild"}})
	if !equalIDs(ids(got), "d2", "d3", "d5") {
		t.Errorf("IPA|Mild drinks = %v, want [d2 d3 d5]", ids(got))
	}
}

func TestVisible_FavoritesOnly(t *testing.T) {
	got := Visible(fixture(), Query{FavoritesOnly: true})
	if !equalIDs(ids(got), "d3") {
		t.Errorf("favorites = %v, want [d3]", ids(got))
	}
}

func TestVisible_HideUnavailable(t *testing.T) {
	// d2 is sold out and d5 not yet available; d3 is low and passes.
	got := Visible(fixture(), Query{HideUnavailable: true})
	if !equalIDs(ids(got), "d1", "d3", "d4") {
		t.Errorf("available drinks = %v, want [d1 d3 d4]", ids(got))
	}
}

func TestVisible_SearchAcrossFields(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"drink name", "citra", []string{"d1"}},
		{"brewery name", "oakham", []string{"d1", "d2"}},
		{"style", "mild", []string{"d3"}},
		{"notes", "smoky", []string{"d4"}},
		{"case insensitive", "GREEN", []string{"d2"}},
		{"no match", "stout", nil},
		{"empty passes all", "", []string{"d1", "d2", "d3", "d4", "d5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Visible(fixture(), Query{Search: tt.search}))
			if !equalIDs(got, tt.want...) {
				t.Errorf("search %q = %v, want %v", tt.search, got, tt.want)
			}
		})
	}
}

// Adding any predicate must never grow the result set.
func TestVisible_PredicateMonotonicity(t *testing.T) {
	drinks := fixture()
	base := Query{Search: "e"}
	narrowings := []Query{
		{Search: "e", Category: models.CategoryBeer},
		{Search: "e", Styles: []string{"IPA"}},
		{Search: "e", FavoritesOnly: true},
		{Search: "e", HideUnavailable: true},
	}

	baseline := len(Visible(drinks, base))
	for i, q := range narrowings {
		if got := len(Visible(drinks, q)); got > baseline {
			t.Errorf("narrowing %d grew result set: %d > %d", i, got, baseline)
		}
	}
}

func TestVisible_SortOrders(t *testing.T) {
	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortNameAsc, []string{"d5", "d3", "d1", "d2", "d4"}},
		{SortNameDesc, []string{"d4", "d2", "d1", "d3", "d5"}},
		// d2, d4, d5 all at 6.0: stable sort keeps feed order among them.
		{SortABVHigh, []string{"d2", "d4", "d5", "d1", "d3"}},
		{SortABVLow, []string{"d3", "d1", "d2", "d4", "d5"}},
		// Burrow Hill, Elgood's x2 (d3 before d5), Oakham x2 (d1 before d2).
		{SortBrewery, []string{"d4", "d3", "d5", "d1", "d2"}},
		// d4 has no style and sorts first.
		{SortStyle, []string{"d4", "d1", "d2", "d5", "d3"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got := ids(Visible(fixture(), Query{Sort: tt.key}))
			if !equalIDs(got, tt.want...) {
				t.Errorf("sort %s = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

// Every sort must be a permutation of the filtered set.
func TestVisible_SortIsPermutation(t *testing.T) {
	drinks := fixture()
	keys := []SortKey{SortNameAsc, SortNameDesc, SortABVHigh, SortABVLow, SortBrewery, SortStyle}

	for _, key := range keys {
		got := Visible(drinks, Query{Sort: key})
		if len(got) != len(drinks) {
			t.Fatalf("sort %s changed set size: %d", key, len(got))
		}
		seen := make(map[string]int)
		for _, d := range got {
			seen[d.ID]++
		}
		for _, d := range drinks {
			if seen[d.ID] != 1 {
				t.Errorf("sort %s: id %s appears %d times", key, d.ID, seen[d.ID])
			}
		}
	}
}

func TestCategories_DistinctInFeedOrder(t *testing.T) {
	got := Categories(fixture())
	if len(got) != 2 || got[0] != models.CategoryBeer || got[1] != models.CategoryCider {
		t.Errorf("Categories = %v, want [beer cider]", got)
	}
}

func TestCategoryCounts_IgnoreFilters(t *testing.T) {
	got := CategoryCounts(fixture())
	if got[models.CategoryBeer] != 4 || got[models.CategoryCider] != 1 {
		t.Errorf("CategoryCounts = %v", got)
	}
}

func TestStyles_ScopedToCategory(t *testing.T) {
	got := Styles(fixture(), models.CategoryBeer)
	want := []string{"Golden Ale", "IPA", "Mild"}
	if len(got) != len(want) {
		t.Fatalf("Styles(beer) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Styles(beer)[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Cider fixture has no style label, so the picker is empty.
	if got := Styles(fixture(), models.CategoryCider); len(got) != 0 {
		t.Errorf("Styles(cider) = %v, want empty", got)
	}

	// Empty category scopes to the whole set.
	if got := Styles(fixture(), ""); len(got) != 3 {
		t.Errorf("Styles(all) = %v", got)
	}
}

package testutil

import (
	"github.com/google/uuid"

	"github.com/casklist/casklist/pkg/models"
)

// NewDrink returns a Drink with sensible defaults, suitable for test
// fixtures. Override individual fields via options as needed.
func NewDrink(opts ...func(*models.Drink)) models.Drink {
	d := models.Drink{
		Product: models.Product{
			ID:       uuid.New().String(),
			Name:     "Test Bitter",
			Category: models.CategoryBeer,
			Style:    "Bitter",
			Dispense: models.DefaultDispense,
			ABV:      4.2,
		},
		Brewery: models.Brewery{
			ID:   "brew-1",
			Name: "Test Brewery",
		},
		FestivalID: "fest-1",
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// WithID sets the product ID.
func WithID(id string) func(*models.Drink) {
	return func(d *models.Drink) { d.ID = id }
}

// WithName sets the drink name.
func WithName(name string) func(*models.Drink) {
	return func(d *models.Drink) { d.Name = name }
}

// WithCategory sets the beverage category.
func WithCategory(c models.Category) func(*models.Drink) {
	return func(d *models.Drink) { d.Category = c }
}

// WithStyle sets the style label.
func WithStyle(style string) func(*models.Drink) {
	return func(d *models.Drink) { d.Style = style }
}

// WithABV sets the ABV.
func WithABV(abv float64) func(*models.Drink) {
	return func(d *models.Drink) { d.ABV = abv }
}

// WithBrewery sets the brewery identity.
func WithBrewery(id, name string) func(*models.Drink) {
	return func(d *models.Drink) { d.Brewery = models.Brewery{ID: id, Name: name} }
}

// WithStatusText sets the raw availability text.
func WithStatusText(text string) func(*models.Drink) {
	return func(d *models.Drink) { d.StatusText = text }
}

// WithNotes sets the tasting notes.
func WithNotes(notes string) func(*models.Drink) {
	return func(d *models.Drink) { d.Notes = notes }
}

// WithFavorite marks the drink as a favorite.
func WithFavorite() func(*models.Drink) {
	return func(d *models.Drink) { d.IsFavorite = true }
}

// Package models defines the core data types shared across CaskList:
// producers, products, drinks, festivals, and availability classification.
package models

// Category is the top-level beverage type of a product.
type Category string

const (
	CategoryBeer  Category = "beer"
	CategoryCider Category = "cider"
	CategoryPerry Category = "perry"
	CategoryMead  Category = "mead"
	CategoryWine  Category = "wine"
)

// DefaultDispense is assumed when a feed omits the dispense method.
const DefaultDispense = "cask"

// Producer is a brewery, cidery, or other maker as published in a
// festival feed. Producers are immutable for the session: each catalog
// fetch creates them fresh.
type Producer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location,omitempty"`
	YearFounded int       `json:"year_founded,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Products    []Product `json:"products"`
}

// Product is a single drink offering as published in a festival feed.
// Immutable once parsed; ABV is always a non-negative finite number
// (unparsable feed values coerce to 0.0).
type Product struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Category   Category        `json:"category"`
	Style      string          `json:"style,omitempty"`
	Dispense   string          `json:"dispense"`
	ABV        float64         `json:"abv"`
	Notes      string          `json:"notes,omitempty"`
	StatusText string          `json:"status_text,omitempty"`
	Bar        string          `json:"bar,omitempty"`
	Allergens  map[string]bool `json:"allergens,omitempty"`
}

// Availability classifies the product's raw status text.
func (p Product) Availability() AvailabilityStatus {
	return ParseAvailability(p.StatusText)
}

// Brewery is the producer identity carried on each Drink.
type Brewery struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

// Drink composes a Product with its owning producer and a festival.
// IsFavorite and Rating are session-local annotations projected from the
// preference store; everything else is immutable feed data. Rating is
// 1-5, with 0 meaning unrated.
type Drink struct {
	Product
	Brewery    Brewery `json:"brewery"`
	FestivalID string  `json:"festival_id"`
	IsFavorite bool    `json:"is_favorite"`
	Rating     int     `json:"rating,omitempty"`
}

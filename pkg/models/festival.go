package models

import "strings"

// Festival identifies one festival and where its drink data lives.
// Per-category feeds are served from DataBaseURL as {base}/{category}.json.
type Festival struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Location    string `json:"location,omitempty" yaml:"location"`
	Hours       string `json:"hours,omitempty" yaml:"hours"`
	StartDate   string `json:"start_date,omitempty" yaml:"start_date"`
	EndDate     string `json:"end_date,omitempty" yaml:"end_date"`
	DataBaseURL string `json:"data_base_url" yaml:"data_base_url"`
	IsActive    bool   `json:"is_active,omitempty" yaml:"is_active"`
}

// CategoryURL builds the feed URL for one beverage category.
func (f Festival) CategoryURL(category string) string {
	return strings.TrimRight(f.DataBaseURL, "/") + "/" + category + ".json"
}

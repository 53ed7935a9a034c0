package models

import "strings"

// AvailabilityStatus is derived from a product's free-text status field.
// It is never stored; feeds publish arbitrary phrasing and the classifier
// below maps it onto a small enum.
type AvailabilityStatus string

const (
	// AvailabilityNone means the feed published no status text.
	AvailabilityNone   AvailabilityStatus = ""
	AvailabilityPlenty AvailabilityStatus = "plenty"
	AvailabilityLow    AvailabilityStatus = "low"
	AvailabilityOut    AvailabilityStatus = "out"
	AvailabilityNotYet AvailabilityStatus = "not_yet_available"
)

// ParseAvailability classifies raw status text by case-insensitive
// keyword match. Any non-empty text that matches no keyword means the
// drink is still pouring.
func ParseAvailability(text string) AvailabilityStatus {
	s := strings.ToLower(strings.TrimSpace(text))
	switch {
	case s == "":
		return AvailabilityNone
	case strings.Contains(s, "sold out"):
		return AvailabilityOut
	case strings.Contains(s, "not yet"), strings.Contains(s, "coming soon"):
		return AvailabilityNotYet
	case strings.Contains(s, "little"), strings.Contains(s, "nearly"), strings.Contains(s, "low"):
		return AvailabilityLow
	default:
		return AvailabilityPlenty
	}
}

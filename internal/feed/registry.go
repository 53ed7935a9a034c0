package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/casklist/casklist/pkg/models"
)

// Registry is the parsed festival registry document.
type Registry struct {
	Festivals         []models.Festival `json:"festivals"`
	DefaultFestivalID string            `json:"default_festival_id"`
	Version           string            `json:"version,omitempty"`
	LastUpdated       string            `json:"last_updated,omitempty"`
}

// Find returns the festival with the given ID, if present.
func (r *Registry) Find(id string) (models.Festival, bool) {
	for i := range r.Festivals {
		if r.Festivals[i].ID == id {
			return r.Festivals[i], true
		}
	}
	return models.Festival{}, false
}

// FetchRegistry fetches the remote festival registry. Unlike category
// feeds, the registry is required: every non-2xx status including 404 is
// an error.
func (c *Client) FetchRegistry(ctx context.Context, url string) (*Registry, error) {
	body, status, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &StatusError{StatusCode: status, URL: url}
	}

	var reg Registry
	if err := json.Unmarshal(body, &reg); err != nil {
		return nil, fmt.Errorf("parse festival registry: %w", err)
	}
	if len(reg.Festivals) == 0 {
		return nil, fmt.Errorf("festival registry at %s is empty", url)
	}
	return &reg, nil
}

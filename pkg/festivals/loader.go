// Package festivals provides the embedded fallback registry of known
// festivals, used when the remote registry feed is unconfigured or
// unreachable.
package festivals

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/casklist/casklist/pkg/models"
)

//go:embed festivals.yaml
var registryRawData []byte

// registryFile is the top-level structure of the embedded YAML.
type registryFile struct {
	Festivals         []models.Festival `yaml:"festivals"`
	DefaultFestivalID string            `yaml:"default_festival_id"`
}

// Registry provides lazy-loaded access to the embedded festival list.
type Registry struct {
	once      sync.Once
	festivals []models.Festival
	defaultID string
	err       error
}

// NewRegistry creates a Registry that will parse the embedded YAML on
// first access.
func NewRegistry() *Registry {
	return &Registry{}
}

// Festivals returns a copy of all embedded festivals.
func (r *Registry) Festivals() ([]models.Festival, error) {
	r.once.Do(r.load)
	if r.err != nil {
		return nil, r.err
	}
	cp := make([]models.Festival, len(r.festivals))
	copy(cp, r.festivals)
	return cp, nil
}

// DefaultID returns the registry's default festival ID.
func (r *Registry) DefaultID() (string, error) {
	r.once.Do(r.load)
	return r.defaultID, r.err
}

// Find returns the festival with the given ID, if present.
func (r *Registry) Find(id string) (models.Festival, bool, error) {
	r.once.Do(r.load)
	if r.err != nil {
		return models.Festival{}, false, r.err
	}
	for i := range r.festivals {
		if r.festivals[i].ID == id {
			return r.festivals[i], true, nil
		}
	}
	return models.Festival{}, false, nil
}

// load parses the embedded YAML registry data.
func (r *Registry) load() {
	var f registryFile
	if err := yaml.Unmarshal(registryRawData, &f); err != nil {
		r.err = fmt.Errorf("festivals: parse yaml: %w", err)
		return
	}
	r.festivals = f.Festivals
	r.defaultID = f.DefaultFestivalID
}

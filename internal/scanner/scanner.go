package scanner

import (
	"fmt"

	"ArtworksCrawler/internal/domain"
)

// Extractor captures a single site strategy (Behance, etc.) that turns one
// profile page into records. Implementations must be pure.
type Extractor interface {
	Name() string
	Extract(markup []byte, handle string) ([]domain.ArtworkRecord, error)
}

// Registry keeps a mapping from strategy names to their implementations.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: map[string]Extractor{}}
}

// Register adds or replaces an extractor implementation.
func (r *Registry) Register(extractor Extractor) {
	if r.extractors == nil {
		r.extractors = map[string]Extractor{}
	}
	r.extractors[extractor.Name()] = extractor
}

// Resolve returns an extractor by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Extractor, error) {
	if extractor, ok := r.extractors[name]; ok {
		return extractor, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}

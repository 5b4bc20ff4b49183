// Package sources defines the discovery source contract and the collection of
// candidates from several sources at once.
//
// A source lists models it knows about as catalogs.Candidate values. Sources
// are untrusted and may fail; Collect tolerates a failing source by treating
// its contribution as empty.
package sources

import (
	"context"
	"slices"
	"sync"

	"github.com/agentstation/sizer/pkg/catalogs"
)

// ID represents the identifier of a discovery source.
type ID string

// String returns the string representation of a source ID.
func (id ID) String() string {
	return string(id)
}

// Known source IDs.
const (
	HubID        ID = "hub"
	RankingsID   ID = "rankings"
	OpenRouterID ID = "openrouter"
)

// IDs returns all known source IDs in default collection order.
func IDs() []ID {
	return []ID{
		HubID,
		RankingsID,
		OpenRouterID,
	}
}

// IsValid returns true if the ID is one of the known IDs.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// Source lists candidates from one discovery index.
type Source interface {
	// ID returns the source identifier.
	ID() ID

	// Fetch returns the candidates currently listed by the source.
	Fetch(ctx context.Context) ([]catalogs.Candidate, error)
}

// Sources is a thread-safe, ordered registry of sources.
type Sources struct {
	mu      sync.RWMutex
	order   []ID
	sources map[ID]Source
}

// NewSources creates a registry holding srcs in the given order.
func NewSources(srcs ...Source) *Sources {
	s := &Sources{
		sources: make(map[ID]Source, len(srcs)),
	}
	for _, src := range srcs {
		s.Set(src)
	}
	return s
}

// Get returns a source by ID.
func (s *Sources) Get(id ID) (Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, found := s.sources[id]
	return src, found
}

// Set registers src. Replacing an existing ID keeps its position.
func (s *Sources) Set(src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := src.ID()
	if _, exists := s.sources[id]; !exists {
		s.order = append(s.order, id)
	}
	s.sources[id] = src
}

// Delete removes a source by ID.
func (s *Sources) Delete(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sources[id]; !exists {
		return
	}
	delete(s.sources, id)
	s.order = slices.DeleteFunc(s.order, func(other ID) bool { return other == id })
}

// Len returns the number of sources.
func (s *Sources) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sources)
}

// List returns the sources in registration order.
func (s *Sources) List() []Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Source, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.sources[id])
	}
	return out
}

// IDs returns the registered IDs in registration order.
func (s *Sources) IDs() []ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

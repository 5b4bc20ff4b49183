// Package hub adapts the hub's popularity-sorted model listing into candidates.
package hub

import (
	"context"
	"fmt"

	"github.com/agentstation/sizer/internal/hub"
	"github.com/agentstation/sizer/pkg/catalogs"
	"github.com/agentstation/sizer/pkg/constants"
	"github.com/agentstation/sizer/pkg/sources"
)

// Origin is the source tag recorded on candidates from the hub listing.
const Origin = "huggingface_hub"

// ListingTag is added to every candidate from the hub listing.
const ListingTag = "hub-listing"

// Lister lists models from the hub.
type Lister interface {
	ListModels(ctx context.Context, limit int) ([]hub.ModelInfo, error)
}

// Source lists the most downloaded text-generation models.
type Source struct {
	client Lister
	limit  int
}

var _ sources.Source = (*Source)(nil)

// New creates a hub listing source. A non-positive limit selects the default.
func New(client Lister, limit int) *Source {
	if limit <= 0 {
		limit = constants.DefaultHubListLimit
	}
	return &Source{client: client, limit: limit}
}

// ID returns the source identifier.
func (s *Source) ID() sources.ID {
	return sources.HubID
}

// Fetch returns one candidate per listed model; popularity is the download count.
func (s *Source) Fetch(ctx context.Context) ([]catalogs.Candidate, error) {
	models, err := s.client.ListModels(ctx, s.limit)
	if err != nil {
		return nil, fmt.Errorf("hub listing: %w", err)
	}

	out := make([]catalogs.Candidate, 0, len(models))
	for _, m := range models {
		if m.ID == "" {
			continue
		}
		tags := append([]string{ListingTag}, m.Tags...)
		out = append(out, catalogs.NewCandidate(m.ID, Origin, float64(m.Downloads), m.License(), tags...))
	}
	return out, nil
}

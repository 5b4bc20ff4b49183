// Package rankings turns the static community leaderboard from the seed into
// candidates.
package rankings

import (
	"context"

	"github.com/agentstation/sizer/internal/seed"
	"github.com/agentstation/sizer/pkg/catalogs"
	"github.com/agentstation/sizer/pkg/sources"
)

// Origin is the source tag recorded on ranking candidates.
const Origin = "community_rankings"

// Tag is added to every ranking candidate.
const Tag = "community-ranking"

// Source serves a fixed ranking table.
type Source struct {
	rankings []seed.Ranking
}

var _ sources.Source = (*Source)(nil)

// New creates a rankings source.
func New(rankings []seed.Ranking) *Source {
	return &Source{rankings: rankings}
}

// ID returns the source identifier.
func (s *Source) ID() sources.ID {
	return sources.RankingsID
}

// Fetch returns one candidate per ranking, in table order. Rankings carry no license.
func (s *Source) Fetch(ctx context.Context) ([]catalogs.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]catalogs.Candidate, 0, len(s.rankings))
	for _, r := range s.rankings {
		out = append(out, catalogs.NewCandidate(r.ID, Origin, r.Score, nil, Tag))
	}
	return out, nil
}

// Package fusion reconciles candidate records describing the same model
// arriving from multiple untrusted sources into one canonical, sorted list.
//
// Reconciliation per identity:
//
//	tags        union of all tag sets
//	source      sorted union of origin tags, persisted "+"-joined
//	popularity  maximum score seen
//	license     first non-null value in arrival order
//
// The output order (-popularity, identity) is presentation only; it never
// influences the reconciled values.
package fusion

import (
	"cmp"
	"context"
	"slices"

	"github.com/agentstation/sizer/internal/utils/ptr"
	"github.com/agentstation/sizer/pkg/catalogs"
	"github.com/agentstation/sizer/pkg/logging"
	"github.com/agentstation/sizer/pkg/resolve"
)

// Merge fuses candidate sequences, in source order then within-source order,
// into one list deduplicated by identity. Inputs are not modified.
func Merge(sources ...[]catalogs.Candidate) []catalogs.Candidate {
	out, _ := merge(sources)
	return out
}

// Stats summarizes a fusion run.
type Stats struct {
	// Inputs is the number of candidates received across all sources.
	Inputs int
	// Unique is the number of distinct identities in the output.
	Unique int
	// Merged is the number of candidates folded into an earlier identity.
	Merged int
	// Skipped is the number of candidates without an identity.
	Skipped int
}

// Fuser runs Merge and reports what happened.
type Fuser struct{}

// New creates a Fuser.
func New() *Fuser {
	return &Fuser{}
}

// Fuse merges sources and logs a summary on the context logger.
func (f *Fuser) Fuse(ctx context.Context, sources ...[]catalogs.Candidate) ([]catalogs.Candidate, Stats) {
	out, stats := merge(sources)
	logging.FromContext(ctx).Info().
		Int("inputs", stats.Inputs).
		Int("unique", stats.Unique).
		Int("merged", stats.Merged).
		Int("skipped", stats.Skipped).
		Msg("Fused candidates")
	return out, stats
}

func merge(sources [][]catalogs.Candidate) ([]catalogs.Candidate, Stats) {
	var stats Stats
	merged := make(map[string]*catalogs.Candidate)

	for _, source := range sources {
		for _, candidate := range source {
			stats.Inputs++
			if candidate.ID == "" {
				stats.Skipped++
				continue
			}

			existing, seen := merged[candidate.ID]
			if !seen {
				c := candidate.Clone()
				c.Tags = catalogs.TagSet(c.Tags...)
				c.Source = c.Source.Union(nil)
				if c.Provider == "" {
					c.Provider = catalogs.ProviderFromID(c.ID)
				}
				merged[candidate.ID] = &c
				continue
			}

			stats.Merged++
			reconcile(existing, candidate)
		}
	}

	out := make([]catalogs.Candidate, 0, len(merged))
	for _, c := range merged {
		out = append(out, *c)
	}
	slices.SortStableFunc(out, compare)

	stats.Unique = len(out)
	return out, stats
}

// reconcile folds incoming into existing in place.
func reconcile(existing *catalogs.Candidate, incoming catalogs.Candidate) {
	existing.Tags = catalogs.UnionTags(existing.Tags, incoming.Tags)
	existing.Source = existing.Source.Union(incoming.Source)
	existing.PopularityScore = max(existing.PopularityScore, incoming.PopularityScore)
	existing.License = resolve.FirstPtr(existing.License, ptr.Clone(incoming.License))
}

// compare orders by popularity descending, then identity ascending.
func compare(a, b catalogs.Candidate) int {
	if c := cmp.Compare(b.PopularityScore, a.PopularityScore); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

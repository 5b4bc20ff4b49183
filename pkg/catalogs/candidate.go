package catalogs

import (
	"slices"
	"strings"
)

// Candidate describes one model as seen from one or more sources.
type Candidate struct {
	ID              string    `json:"model_id"`
	Provider        string    `json:"provider"`
	License         *string   `json:"license"`
	Source          SourceSet `json:"source"`
	PopularityScore float64   `json:"popularity_score"`
	Tags            []string  `json:"tags"`
}

// NewCandidate builds a candidate for a single origin tag.
// Provider is derived from the identity and tags are normalized to a set.
func NewCandidate(id, source string, popularity float64, license *string, tags ...string) Candidate {
	return Candidate{
		ID:              id,
		Provider:        ProviderFromID(id),
		License:         license,
		Source:          ParseSourceSet(source),
		PopularityScore: popularity,
		Tags:            TagSet(tags...),
	}
}

// Clone returns a deep copy of the candidate.
func (c Candidate) Clone() Candidate {
	out := c
	if c.License != nil {
		license := *c.License
		out.License = &license
	}
	out.Source = slices.Clone(c.Source)
	out.Tags = slices.Clone(c.Tags)
	return out
}

// ProviderFromID returns the namespace prefix of an identity ("org/model" -> "org").
// An identity without a namespace is its own provider.
func ProviderFromID(id string) string {
	provider, _, found := strings.Cut(id, "/")
	if !found {
		return id
	}
	return provider
}

// TagSet returns the sorted, de-duplicated, non-empty tags.
func TagSet(tags ...string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// UnionTags returns the set union of two tag lists.
func UnionTags(a, b []string) []string {
	all := make([]string, 0, len(a)+len(b))
	all = append(all, a...)
	all = append(all, b...)
	return TagSet(all...)
}

package catalogs

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/agentstation/sizer/pkg/constants"
)

// SourceSet is the set of origin tags a candidate was seen in.
// It is kept sorted and persisted as a "+"-joined string ("hub+rankings").
type SourceSet []string

// ParseSourceSet splits a persisted source string into a set.
func ParseSourceSet(s string) SourceSet {
	return SourceSet(TagSet(strings.Split(s, constants.SourceSeparator)...))
}

// Union returns the sorted union of two source sets.
func (s SourceSet) Union(other SourceSet) SourceSet {
	return SourceSet(UnionTags(s, other))
}

// Contains reports whether tag is in the set.
func (s SourceSet) Contains(tag string) bool {
	_, found := slices.BinarySearch(s, tag)
	return found
}

// String returns the persisted, delimiter-joined form.
func (s SourceSet) String() string {
	return strings.Join(s, constants.SourceSeparator)
}

// MarshalJSON encodes the set as its joined string.
func (s SourceSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a joined source string.
func (s *SourceSet) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseSourceSet(raw)
	return nil
}

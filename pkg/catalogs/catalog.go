// Package catalogs defines the records that flow through the sizer pipeline.
//
// A Candidate is one model as seen by one or more discovery sources. An Entry
// is one row of the working set built from the staged candidates and the
// static baseline. A Record is an Entry that has passed validation and is
// safe to persist in the catalog artifact.
//
//	candidates (sources) -> fusion -> staging artifact
//	staging + Baseline   -> overlay -> []Entry
//	Entry -> derive -> validate -> Record -> catalog artifact
package catalogs

import (
	"github.com/agentstation/sizer/pkg/errors"
)

// Baseline is the curated static table keyed by identity.
// Order is preserved so baseline-only entries are appended deterministically.
type Baseline struct {
	entries []Entry
	index   map[string]int
}

// NewBaseline creates a Baseline from entries. Identities must be unique and non-empty.
func NewBaseline(entries ...Entry) (*Baseline, error) {
	b := &Baseline{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.ID == "" {
			return nil, errors.NewValidationError("", "model_id", e.ID, "baseline entry has empty identity")
		}
		if _, dup := b.index[e.ID]; dup {
			return nil, errors.NewValidationError(e.ID, "model_id", e.ID, "duplicate baseline identity")
		}
		b.index[e.ID] = len(b.entries)
		b.entries = append(b.entries, e)
	}
	return b, nil
}

// Get returns the baseline entry for id.
func (b *Baseline) Get(id string) (Entry, bool) {
	if b == nil {
		return Entry{}, false
	}
	i, ok := b.index[id]
	if !ok {
		return Entry{}, false
	}
	return b.entries[i], true
}

// Entries returns a copy of the baseline entries in seed order.
func (b *Baseline) Entries() []Entry {
	if b == nil {
		return nil
	}
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of baseline entries.
func (b *Baseline) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Package overlay builds the derivation working set from staged candidates and
// the curated baseline.
//
// Staged identities come first, in staging order, followed by baseline-only
// identities in baseline order. Each identity appears once.
package overlay

import (
	"fmt"

	"github.com/agentstation/sizer/internal/utils/ptr"
	"github.com/agentstation/sizer/pkg/catalogs"
)

// Policy controls how a baseline entry is applied to a staged entry.
type Policy string

const (
	// PolicyReplace overwrites the staged entry with the baseline entry wholesale.
	PolicyReplace Policy = "replace"
	// PolicyPatch fills only staged fields still at their zero default.
	PolicyPatch Policy = "patch"
)

// String returns the policy name.
func (p Policy) String() string {
	return string(p)
}

// ParsePolicy parses a policy name. The empty string selects PolicyReplace.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyReplace:
		return PolicyReplace, nil
	case PolicyPatch:
		return PolicyPatch, nil
	default:
		return "", fmt.Errorf("unknown baseline policy %q (want %s or %s)", s, PolicyReplace, PolicyPatch)
	}
}

type options struct {
	policy Policy
	prior  map[string]catalogs.Entry
}

// Option configures Build.
type Option func(*options)

// WithPolicy sets the baseline policy.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithPrior seeds staged entries from a previous catalog instead of zero
// defaults. Prior-only identities are not added to the working set.
func WithPrior(records []catalogs.Record) Option {
	return func(o *options) {
		if o.prior == nil {
			o.prior = make(map[string]catalogs.Entry, len(records))
		}
		for _, r := range records {
			if r.ID != "" {
				o.prior[r.ID] = r.Entry()
			}
		}
	}
}

// Build returns the working set for staged candidates overlaid on baseline.
// A nil baseline is treated as empty.
func Build(baseline *catalogs.Baseline, staged []catalogs.Candidate, opts ...Option) []catalogs.Entry {
	o := &options{policy: PolicyReplace}
	for _, opt := range opts {
		opt(o)
	}

	seen := make(map[string]struct{}, len(staged)+baseline.Len())
	out := make([]catalogs.Entry, 0, len(staged)+baseline.Len())

	for _, c := range staged {
		if c.ID == "" {
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}

		entry, ok := o.prior[c.ID]
		if !ok {
			entry = catalogs.NewEntry(c.ID)
		}
		if base, ok := baseline.Get(c.ID); ok {
			entry = apply(o.policy, entry, base)
		}
		out = append(out, clone(entry))
	}

	for _, base := range baseline.Entries() {
		if _, dup := seen[base.ID]; dup {
			continue
		}
		seen[base.ID] = struct{}{}
		out = append(out, clone(base))
	}

	return out
}

func apply(policy Policy, entry, base catalogs.Entry) catalogs.Entry {
	if policy != PolicyPatch {
		return base
	}
	if entry.ParamsB == 0 {
		entry.ParamsB = base.ParamsB
	}
	if entry.Layers == 0 {
		entry.Layers = base.Layers
	}
	if entry.Hidden == 0 {
		entry.Hidden = base.Hidden
	}
	if entry.MoEActiveRatio == 0 {
		entry.MoEActiveRatio = base.MoEActiveRatio
	}
	if entry.CtxLen == nil {
		entry.CtxLen = base.CtxLen
	}
	return entry
}

func clone(e catalogs.Entry) catalogs.Entry {
	e.CtxLen = ptr.Clone(e.CtxLen)
	return e
}

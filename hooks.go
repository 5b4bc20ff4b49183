package sizer

import (
	"sync"

	"github.com/agentstation/sizer/pkg/catalogs"
	"github.com/agentstation/sizer/pkg/derive"
	"github.com/agentstation/sizer/pkg/sources"
)

// Hook function types for derive run events.
type (
	// RecordAddedHook is called for a record absent from the previous catalog.
	RecordAddedHook func(record catalogs.Record)

	// RecordUpdatedHook is called for a record whose values changed.
	RecordUpdatedHook func(old, new catalogs.Record)

	// RecordRemovedHook is called for a previous record missing from the new catalog.
	RecordRemovedHook func(record catalogs.Record)

	// RecordRejectedHook is called for an entry dropped by validation.
	RecordRejectedHook func(failure derive.Failure)

	// SourceFailedHook is called for a discovery source that contributed nothing.
	SourceFailedHook func(result sources.Result)
)

// Changes summarizes how a new catalog differs from the previous one.
type Changes struct {
	Added     int
	Updated   int
	Removed   int
	Unchanged int
}

// hooks manages event callbacks for catalog changes.
type hooks struct {
	mu               sync.RWMutex
	onRecordAdded    []RecordAddedHook
	onRecordUpdated  []RecordUpdatedHook
	onRecordRemoved  []RecordRemovedHook
	onRecordRejected []RecordRejectedHook
	onSourceFailed   []SourceFailedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnRecordAdded registers a callback for records new to the catalog.
func (h *hooks) OnRecordAdded(fn RecordAddedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRecordAdded = append(h.onRecordAdded, fn)
}

// OnRecordUpdated registers a callback for records whose values changed.
func (h *hooks) OnRecordUpdated(fn RecordUpdatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRecordUpdated = append(h.onRecordUpdated, fn)
}

// OnRecordRemoved registers a callback for records no longer in the catalog.
func (h *hooks) OnRecordRemoved(fn RecordRemovedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRecordRemoved = append(h.onRecordRemoved, fn)
}

// OnRecordRejected registers a callback for entries dropped by validation.
func (h *hooks) OnRecordRejected(fn RecordRejectedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRecordRejected = append(h.onRecordRejected, fn)
}

// OnSourceFailed registers a callback for sources that failed during fuse.
func (h *hooks) OnSourceFailed(fn SourceFailedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSourceFailed = append(h.onSourceFailed, fn)
}

func (h *hooks) triggerSourceFailed(failed sources.Results) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, res := range failed {
		for _, hook := range h.onSourceFailed {
			hook(res)
		}
	}
}

func (h *hooks) triggerRejected(failures []derive.Failure) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, f := range failures {
		for _, hook := range h.onRecordRejected {
			hook(f)
		}
	}
}

// triggerCatalogUpdate compares the previous and new catalogs and fires hooks.
func (h *hooks) triggerCatalogUpdate(previous, current []catalogs.Record) Changes {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var changes Changes
	prev := make(map[string]catalogs.Record, len(previous))
	for _, r := range previous {
		prev[r.ID] = r
	}
	seen := make(map[string]struct{}, len(current))

	for _, r := range current {
		seen[r.ID] = struct{}{}
		old, exists := prev[r.ID]
		switch {
		case !exists:
			changes.Added++
			for _, hook := range h.onRecordAdded {
				hook(r)
			}
		case !sameRecord(old, r):
			changes.Updated++
			for _, hook := range h.onRecordUpdated {
				hook(old, r)
			}
		default:
			changes.Unchanged++
		}
	}

	for _, r := range previous {
		if _, exists := seen[r.ID]; exists {
			continue
		}
		changes.Removed++
		for _, hook := range h.onRecordRemoved {
			hook(r)
		}
	}
	return changes
}

func sameRecord(a, b catalogs.Record) bool {
	if a.ParamsB != b.ParamsB || a.Layers != b.Layers || a.Hidden != b.Hidden || a.MoEActiveRatio != b.MoEActiveRatio {
		return false
	}
	if a.CtxLen == nil || b.CtxLen == nil {
		return a.CtxLen == b.CtxLen
	}
	return *a.CtxLen == *b.CtxLen
}

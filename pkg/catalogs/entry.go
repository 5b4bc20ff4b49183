package catalogs

// Entry is one row of the working set, keyed by identity.
type Entry struct {
	ID             string  `json:"model_id" yaml:"model_id"`
	ParamsB        float64 `json:"params_b" yaml:"params_b"`
	Layers         int     `json:"layers" yaml:"layers"`
	Hidden         int     `json:"hidden" yaml:"hidden"`
	MoEActiveRatio float64 `json:"moe_active_ratio" yaml:"moe_active_ratio"`
	CtxLen         *int    `json:"ctx_len,omitempty" yaml:"ctx_len,omitempty"`
}

// NewEntry returns an entry for id with every structural field at its zero default.
func NewEntry(id string) Entry {
	return Entry{ID: id}
}

// Record is a validated Entry, guaranteed to satisfy the output schema.
// Only the validator should construct Records from derived entries.
type Record Entry

// Entry returns the record as an unvalidated entry.
func (r Record) Entry() Entry {
	return Entry(r)
}

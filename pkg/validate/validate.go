// Package validate enforces the catalog record schema.
//
// Values are never clamped or coerced: an entry either passes unchanged or is
// rejected with a *errors.ValidationError naming the identity and field.
package validate

import (
	"math"

	"github.com/agentstation/sizer/pkg/catalogs"
	"github.com/agentstation/sizer/pkg/errors"
)

// Record validates an entry and returns it as a Record.
func Record(e catalogs.Entry) (catalogs.Record, error) {
	if e.ID == "" {
		return catalogs.Record{}, errors.NewValidationError("", "model_id", e.ID, "identity is empty")
	}
	if err := finite(e.ID, "params_b", e.ParamsB); err != nil {
		return catalogs.Record{}, err
	}
	if err := finite(e.ID, "moe_active_ratio", e.MoEActiveRatio); err != nil {
		return catalogs.Record{}, err
	}
	if e.ParamsB < 0 || math.Signbit(e.ParamsB) {
		return catalogs.Record{}, errors.NewValidationError(e.ID, "params_b", e.ParamsB, "must be non-negative")
	}
	if e.Layers < 0 {
		return catalogs.Record{}, errors.NewValidationError(e.ID, "layers", e.Layers, "must be non-negative")
	}
	if e.Hidden < 0 {
		return catalogs.Record{}, errors.NewValidationError(e.ID, "hidden", e.Hidden, "must be non-negative")
	}
	if e.MoEActiveRatio < 0 || math.Signbit(e.MoEActiveRatio) || e.MoEActiveRatio > 1 {
		return catalogs.Record{}, errors.NewValidationError(e.ID, "moe_active_ratio", e.MoEActiveRatio, "must be within [0, 1]")
	}
	if e.CtxLen != nil && *e.CtxLen < 0 {
		return catalogs.Record{}, errors.NewValidationError(e.ID, "ctx_len", *e.CtxLen, "must be non-negative")
	}
	return catalogs.Record(e), nil
}

// Records re-validates persisted records and returns one error per failing record.
// Duplicate identities are reported as well.
func Records(records []catalogs.Record) []error {
	var errs []error
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, err := Record(r.Entry()); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := seen[r.ID]; dup {
			errs = append(errs, errors.NewValidationError(r.ID, "model_id", r.ID, "duplicate identity"))
			continue
		}
		seen[r.ID] = struct{}{}
	}
	return errs
}

func finite(id, field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.NewValidationError(id, field, v, "must be a finite number")
	}
	return nil
}

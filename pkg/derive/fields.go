package derive

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/agentstation/sizer/pkg/errors"
	"github.com/agentstation/sizer/pkg/resolve"
)

// Fields lists the remote config keys consulted for each structural field,
// in priority order.
type Fields struct {
	TotalParameters []string
	Layers          []string
	Hidden          []string
	ActiveExpert    []string
}

// DefaultFields returns the aliases used by common model config families.
func DefaultFields() Fields {
	return Fields{
		TotalParameters: []string{"num_parameters", "n_params"},
		Layers:          []string{"num_hidden_layers", "n_layer"},
		Hidden:          []string{"hidden_size", "n_embd", "d_model"},
		ActiveExpert:    []string{"moe_active_expert_size"},
	}
}

// Config is a decoded remote configuration document.
type Config map[string]any

// Number returns the first present numeric value among keys.
// A key is present when it holds a non-zero number or numeric string.
func (c Config) Number(id string, keys ...string) (resolve.Optional[float64], error) {
	for _, key := range keys {
		v, err := number(id, key, c[key])
		if err != nil {
			return resolve.None[float64](), err
		}
		if v.Valid {
			return v, nil
		}
	}
	return resolve.None[float64](), nil
}

// Int is Number restricted to integral values.
func (c Config) Int(id string, keys ...string) (resolve.Optional[int], error) {
	for _, key := range keys {
		v, err := number(id, key, c[key])
		if err != nil {
			return resolve.None[int](), err
		}
		if !v.Valid {
			continue
		}
		if v.Value != math.Trunc(v.Value) || math.Abs(v.Value) > math.MaxInt32 {
			return resolve.None[int](), errors.NewValidationError(id, key, c[key], "expected an integer")
		}
		return resolve.Some(int(v.Value)), nil
	}
	return resolve.None[int](), nil
}

func number(id, key string, raw any) (resolve.Optional[float64], error) {
	var v float64
	switch n := raw.(type) {
	case nil:
		return resolve.None[float64](), nil
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	case uint64:
		v = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return resolve.None[float64](), errors.NewValidationError(id, key, raw, "not a number")
		}
		v = f
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return resolve.None[float64](), nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return resolve.None[float64](), errors.NewValidationError(id, key, raw, "not a number")
		}
		v = f
	default:
		return resolve.None[float64](), errors.NewValidationError(id, key, raw, "not a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return resolve.None[float64](), errors.NewValidationError(id, key, raw, "not a finite number")
	}
	if v == 0 {
		return resolve.None[float64](), nil
	}
	return resolve.Some(v), nil
}

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}

// Package derive fills the structural fields of working-set entries from
// remote model configuration, falling back to the static values whenever the
// remote data is unavailable.
//
// For each entry:
//
//	config   lookup; any failure keeps the static fields
//	params_b num_parameters | n_params | tensor metadata total | static
//	layers   num_hidden_layers | n_layer | static
//	hidden   hidden_size | n_embd | d_model | static
//	moe      moe_active_expert_size / total, when both are known | static
//
// The result is passed through the validator before it becomes a Record.
package derive

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/sizer/pkg/catalogs"
	"github.com/agentstation/sizer/pkg/constants"
	"github.com/agentstation/sizer/pkg/errors"
	"github.com/agentstation/sizer/pkg/logging"
	"github.com/agentstation/sizer/pkg/resolve"
	"github.com/agentstation/sizer/pkg/validate"
)

// Lookup resolves remote metadata for a model identity.
// Implementations report failures as *errors.GatedAccessError,
// *errors.NotFoundError or *errors.TransientFetchError.
type Lookup interface {
	// Config returns the decoded model configuration document.
	Config(ctx context.Context, id string) (map[string]any, error)
	// TotalParameters returns the aggregate parameter count from tensor metadata.
	TotalParameters(ctx context.Context, id string) (float64, error)
}

// Outcome classifies how an entry's fields were resolved.
type Outcome string

// Outcomes.
const (
	OutcomeRemote    Outcome = "remote"
	OutcomeGated     Outcome = "gated"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeTransient Outcome = "transient"
	OutcomeOffline   Outcome = "offline"
)

// Engine derives catalog records.
type Engine struct {
	lookup      Lookup
	fields      Fields
	timeout     time.Duration
	concurrency int
}

// NewEngine creates an Engine. A nil lookup derives every entry from its static fields.
func NewEngine(lookup Lookup, opts ...Option) *Engine {
	e := &Engine{
		lookup:      lookup,
		fields:      DefaultFields(),
		timeout:     constants.LookupTimeout,
		concurrency: constants.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Derive resolves one entry and validates the result.
// The returned error is a *errors.ValidationError or the context's error.
func (e *Engine) Derive(ctx context.Context, entry catalogs.Entry) (catalogs.Record, error) {
	rec, _, err := e.derive(ctx, entry)
	return rec, err
}

func (e *Engine) derive(ctx context.Context, entry catalogs.Entry) (catalogs.Record, Outcome, error) {
	ctx = logging.WithIdentity(ctx, entry.ID)
	logger := logging.FromContext(ctx)

	if e.lookup == nil {
		rec, err := validate.Record(entry)
		return rec, OutcomeOffline, err
	}

	raw, err := e.config(ctx, entry.ID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return catalogs.Record{}, "", ctxErr
		}
		outcome := classify(err)
		logFallback(logger, outcome, err)
		rec, err := validate.Record(entry)
		return rec, outcome, err
	}

	derived, err := e.apply(ctx, Config(raw), entry)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return catalogs.Record{}, "", ctxErr
	}
	if err != nil {
		return catalogs.Record{}, OutcomeRemote, err
	}
	rec, err := validate.Record(derived)
	return rec, OutcomeRemote, err
}

func (e *Engine) apply(ctx context.Context, cfg Config, entry catalogs.Entry) (catalogs.Entry, error) {
	id := entry.ID

	total, err := resolve.FirstFunc(
		func() (resolve.Optional[float64], error) {
			return cfg.Number(id, e.fields.TotalParameters...)
		},
		func() (resolve.Optional[float64], error) {
			return e.totalParameters(ctx, id), nil
		},
	)
	if err != nil {
		return entry, err
	}
	layers, err := cfg.Int(id, e.fields.Layers...)
	if err != nil {
		return entry, err
	}
	hidden, err := cfg.Int(id, e.fields.Hidden...)
	if err != nil {
		return entry, err
	}
	active, err := cfg.Number(id, e.fields.ActiveExpert...)
	if err != nil {
		return entry, err
	}

	if total.Valid && total.Value < 0 {
		return entry, errors.NewValidationError(id, "params_b", total.Value, "parameter count must not be negative")
	}

	out := entry
	if total.Valid {
		out.ParamsB = Round(total.Value/1e9, constants.ParamsPrecision)
	}
	out.Layers = layers.Or(entry.Layers)
	out.Hidden = hidden.Or(entry.Hidden)
	if total.Valid && active.Valid {
		out.MoEActiveRatio = Round(active.Value/total.Value, constants.RatioPrecision)
	}
	return out, nil
}

func (e *Engine) config(ctx context.Context, id string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.lookup.Config(ctx, id)
}

// totalParameters queries tensor metadata. Failures and zero totals are absent.
func (e *Engine) totalParameters(ctx context.Context, id string) resolve.Optional[float64] {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	total, err := e.lookup.TotalParameters(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("Parameter metadata unavailable")
		return resolve.None[float64]()
	}
	if total <= 0 {
		return resolve.None[float64]()
	}
	return resolve.Some(total)
}

func classify(err error) Outcome {
	switch {
	case errors.IsGated(err):
		return OutcomeGated
	case errors.IsNotFound(err):
		return OutcomeNotFound
	default:
		return OutcomeTransient
	}
}

func logFallback(logger *zerolog.Logger, outcome Outcome, err error) {
	switch outcome {
	case OutcomeGated:
		logger.Warn().Err(err).Msg("Config is gated, keeping static fields")
	case OutcomeNotFound:
		logger.Warn().Err(err).Msg("Config not found, keeping static fields")
	default:
		logger.Warn().Err(err).Msg("Config unavailable, keeping static fields")
	}
}

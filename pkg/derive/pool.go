package derive

import (
	"context"
	"time"

	"github.com/agentstation/utc"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/sizer/pkg/catalogs"
	"github.com/agentstation/sizer/pkg/errors"
	"github.com/agentstation/sizer/pkg/logging"
)

// Failure is an entry dropped by validation.
type Failure struct {
	ID  string
	Err error
}

// Report is the result of deriving a working set.
type Report struct {
	// Records are the validated records in working-set order.
	Records []catalogs.Record
	// Failures are the rejected entries in working-set order.
	Failures []Failure
	// Outcomes counts how each entry was resolved.
	Outcomes map[Outcome]int

	StartedAt  utc.Time
	FinishedAt utc.Time
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Time.Sub(r.StartedAt.Time)
}

// Rejected returns the identities of rejected entries.
func (r *Report) Rejected() []string {
	ids := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		ids[i] = f.ID
	}
	return ids
}

type slot struct {
	record  catalogs.Record
	outcome Outcome
	err     error
}

// DeriveAll derives every entry on a bounded worker pool.
//
// Output order matches entries regardless of completion order. Validation
// failures are collected in the report. If ctx is cancelled the run is
// abandoned and ctx's error is returned with no partial report.
func (e *Engine) DeriveAll(ctx context.Context, entries []catalogs.Entry) (*Report, error) {
	ctx = logging.WithStage(ctx, "derive")
	logger := logging.FromContext(ctx)
	report := &Report{
		Outcomes:  make(map[Outcome]int),
		StartedAt: utc.Now(),
	}

	slots := make([]slot, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, entry := range entries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, outcome, err := e.derive(gctx, entry)
			if err != nil && !errors.IsValidationError(err) {
				return err
			}
			slots[i] = slot{record: rec, outcome: outcome, err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.Records = make([]catalogs.Record, 0, len(entries))
	for i, s := range slots {
		if s.outcome != "" {
			report.Outcomes[s.outcome]++
		}
		if s.err != nil {
			logger.Warn().Str("model_id", entries[i].ID).Err(s.err).Msg("Rejected record")
			report.Failures = append(report.Failures, Failure{ID: entries[i].ID, Err: s.err})
			continue
		}
		report.Records = append(report.Records, s.record)
	}
	report.FinishedAt = utc.Now()

	logger.Info().
		Int("entries", len(entries)).
		Int("records", len(report.Records)).
		Int("rejected", len(report.Failures)).
		Int("remote", report.Outcomes[OutcomeRemote]).
		Dur("duration", report.Duration()).
		Msg("Derived catalog")
	return report, nil
}

package sources

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/sizer/pkg/catalogs"
	"github.com/agentstation/sizer/pkg/constants"
	"github.com/agentstation/sizer/pkg/logging"
)

// Result is one source's contribution to a collection run.
type Result struct {
	ID         ID
	Candidates []catalogs.Candidate
	Err        error
	Duration   time.Duration
}

// Results are per-source results in source order.
type Results []Result

// Candidates returns the candidate lists in source order, ready for fusion.
func (r Results) Candidates() [][]catalogs.Candidate {
	out := make([][]catalogs.Candidate, len(r))
	for i, res := range r {
		out[i] = res.Candidates
	}
	return out
}

// Failed returns the results whose source failed.
func (r Results) Failed() Results {
	var out Results
	for _, res := range r {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Collect fetches every source concurrently, each under its own timeout.
// A failing source is logged and contributes no candidates; Collect only
// returns an error when ctx itself is done.
func Collect(ctx context.Context, srcs ...Source) (Results, error) {
	results := make(Results, len(srcs))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range srcs {
		g.Go(func() error {
			results[i] = fetch(gctx, src)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func fetch(ctx context.Context, src Source) Result {
	ctx = logging.WithSource(ctx, src.ID().String())
	logger := logging.FromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, constants.SourceFetchTimeout)
	defer cancel()

	start := time.Now()
	candidates, err := src.Fetch(ctx)
	res := Result{ID: src.ID(), Duration: time.Since(start)}
	if err != nil {
		logger.Warn().Err(err).Msg("Source failed, continuing without it")
		res.Err = err
		return res
	}

	logger.Info().
		Int("candidates", len(candidates)).
		Dur("duration", res.Duration).
		Msg("Fetched source")
	res.Candidates = candidates
	return res
}

// Package sizer builds a normalized catalog of model architectures.
//
// A run has two stages. Fuse collects candidates from the discovery sources,
// merges them and writes the staging artifact. Derive overlays the staged
// candidates on the curated baseline, resolves structural fields from the
// hub, validates every record and writes the catalog artifact.
//
//	s, err := sizer.New(sizer.WithCatalogPath("data/models.json"))
//	if err != nil { ... }
//	defer s.Close()
//	if _, err := s.Fuse(ctx); err != nil { ... }
//	result, err := s.Derive(ctx)
package sizer

import (
	"context"

	"github.com/google/uuid"

	"github.com/agentstation/sizer/internal/hub"
	"github.com/agentstation/sizer/internal/hubcache"
	"github.com/agentstation/sizer/internal/persistence"
	"github.com/agentstation/sizer/internal/seed"
	hubsource "github.com/agentstation/sizer/internal/sources/hub"
	"github.com/agentstation/sizer/internal/sources/openrouter"
	"github.com/agentstation/sizer/internal/sources/rankings"
	"github.com/agentstation/sizer/internal/transport"
	"github.com/agentstation/sizer/pkg/catalogs"
	"github.com/agentstation/sizer/pkg/derive"
	"github.com/agentstation/sizer/pkg/errors"
	"github.com/agentstation/sizer/pkg/fusion"
	"github.com/agentstation/sizer/pkg/logging"
	"github.com/agentstation/sizer/pkg/overlay"
	"github.com/agentstation/sizer/pkg/sources"
)

// Compile-time check that *client implements Sizer.
var _ Sizer = (*client)(nil)

// Sizer runs the catalog pipeline.
type Sizer interface {
	// Fuse collects and merges candidates and writes the staging artifact.
	Fuse(ctx context.Context) (*FuseResult, error)

	// Derive builds the working set, derives every entry and writes the catalog artifact.
	Derive(ctx context.Context) (*DeriveResult, error)

	// Baseline returns the curated static table.
	Baseline() *catalogs.Baseline

	// Sources returns the registered discovery sources.
	Sources() *sources.Sources

	// Hook registration
	OnRecordAdded(RecordAddedHook)
	OnRecordUpdated(RecordUpdatedHook)
	OnRecordRemoved(RecordRemovedHook)
	OnRecordRejected(RecordRejectedHook)
	OnSourceFailed(SourceFailedHook)

	// Close releases the lookup cache, if any.
	Close() error
}

// FuseResult describes a completed fuse stage.
type FuseResult struct {
	RunID      string
	Candidates []catalogs.Candidate
	Stats      fusion.Stats
	// Failed lists the sources that contributed nothing because they errored.
	Failed sources.Results
	Path   string
}

// DeriveResult describes a completed derive stage.
type DeriveResult struct {
	*derive.Report
	RunID string
	// Changes compares the written catalog with the one it replaced.
	Changes Changes
	// Staged is the number of staged candidates read, zero when staging was unusable.
	Staged int
	Path   string
}

// client is the Sizer implementation.
type client struct {
	options *options
	hooks   *hooks

	seed    *seed.Seed
	sources *sources.Sources
	lookup  derive.Lookup
	cache   *hubcache.Cache
}

// New creates a Sizer. The seed document is loaded eagerly; a seed that
// cannot be loaded is an error because the baseline is the only fallback.
func New(opts ...Option) (Sizer, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}

	sd, err := seed.LoadFile(o.seedPath)
	if err != nil {
		return nil, err
	}

	c := &client{
		options: o,
		hooks:   newHooks(),
		seed:    sd,
	}

	tc := transport.New(c.transportOptions()...)
	hc := hub.NewClient(o.hubURL, tc)

	c.sources = c.newSources(hc, tc)

	if err := c.setupLookup(hc); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *client) transportOptions() []transport.Option {
	o := c.options
	opts := []transport.Option{
		transport.WithRateLimit(o.rateLimit, o.rateBurst),
	}
	if o.token != "" {
		opts = append(opts, transport.WithToken(o.token))
	}
	if o.userAgent != "" {
		opts = append(opts, transport.WithUserAgent(o.userAgent))
	}
	if o.httpClient != nil {
		opts = append(opts, transport.WithHTTPClient(o.httpClient))
	}
	return opts
}

// newSources registers the enabled adapters in fusion priority order.
// Offline runs keep only the adapters that need no network.
func (c *client) newSources(hc *hub.Client, tc *transport.Client) *sources.Sources {
	o := c.options
	registry := sources.NewSources()
	for _, id := range o.sources {
		switch id {
		case sources.HubID:
			if !o.offline {
				registry.Set(hubsource.New(hc, o.hubLimit))
			}
		case sources.RankingsID:
			registry.Set(rankings.New(c.seed.Rankings))
		case sources.OpenRouterID:
			if !o.offline {
				registry.Set(openrouter.New(o.openRouterURL, tc, o.openRouterLimit))
			}
		}
	}
	for _, src := range o.extraSources {
		registry.Set(src)
	}
	return registry
}

func (c *client) setupLookup(hc *hub.Client) error {
	o := c.options
	switch {
	case o.offline:
		return nil
	case o.lookup != nil:
		c.lookup = o.lookup
	default:
		c.lookup = hc
	}

	if o.cachePath == "" {
		return nil
	}
	cache, err := hubcache.Open(o.cachePath, o.cacheTTL)
	if err != nil {
		return err
	}
	c.cache = cache
	c.lookup = cache.Wrap(c.lookup)

	removed, err := cache.Purge(context.Background())
	if err != nil {
		logging.Warn().Err(err).Str("path", o.cachePath).Msg("Failed to purge expired lookups")
		return nil
	}
	logging.Debug().Int64("removed", removed).Msg("Purged expired lookups")
	return nil
}

// Fuse implements Sizer.
func (c *client) Fuse(ctx context.Context) (*FuseResult, error) {
	runID := uuid.NewString()
	ctx = logging.WithField(logging.WithStage(ctx, "fuse"), "run_id", runID)

	results, err := sources.Collect(ctx, c.sources.List()...)
	if err != nil {
		return nil, err
	}

	candidates, stats := fusion.New().Fuse(ctx, results.Candidates()...)
	if err := persistence.WriteCandidates(c.options.stagingPath, candidates); err != nil {
		return nil, err
	}

	c.hooks.triggerSourceFailed(results.Failed())

	return &FuseResult{
		RunID:      runID,
		Candidates: candidates,
		Stats:      stats,
		Failed:     results.Failed(),
		Path:       c.options.stagingPath,
	}, nil
}

// Derive implements Sizer.
func (c *client) Derive(ctx context.Context) (*DeriveResult, error) {
	runID := uuid.NewString()
	ctx = logging.WithField(ctx, "run_id", runID)
	logger := logging.FromContext(logging.WithStage(ctx, "derive"))
	o := c.options

	staged, err := persistence.ReadCandidates(o.stagingPath)
	if err != nil {
		if !errors.IsMalformedArtifact(err) {
			return nil, err
		}
		logger.Warn().Err(err).Str("path", o.stagingPath).
			Msg("Staging artifact unusable, continuing with baseline only")
		staged = nil
	}

	previous := c.previousCatalog(ctx)

	overlayOpts := []overlay.Option{overlay.WithPolicy(o.policy)}
	if o.priorPath != "" {
		prior, err := persistence.ReadRecords(o.priorPath)
		if err != nil {
			return nil, err
		}
		overlayOpts = append(overlayOpts, overlay.WithPrior(prior))
	}
	entries := overlay.Build(c.seed.Baseline, staged, overlayOpts...)

	engine := derive.NewEngine(c.lookup,
		derive.WithConcurrency(o.concurrency),
		derive.WithTimeout(o.lookupTimeout),
	)
	report, err := engine.DeriveAll(ctx, entries)
	if err != nil {
		return nil, err
	}

	if err := persistence.WriteRecords(o.catalogPath, report.Records); err != nil {
		return nil, err
	}

	c.hooks.triggerRejected(report.Failures)
	changes := c.hooks.triggerCatalogUpdate(previous, report.Records)

	return &DeriveResult{
		RunID:   runID,
		Report:  report,
		Changes: changes,
		Staged:  len(staged),
		Path:    o.catalogPath,
	}, nil
}

// previousCatalog reads the catalog about to be replaced. A missing or
// unreadable catalog is treated as empty.
func (c *client) previousCatalog(ctx context.Context) []catalogs.Record {
	records, err := persistence.ReadRecords(c.options.catalogPath)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("No previous catalog to compare against")
		return nil
	}
	return records
}

// Baseline implements Sizer.
func (c *client) Baseline() *catalogs.Baseline {
	return c.seed.Baseline
}

// Sources implements Sizer.
func (c *client) Sources() *sources.Sources {
	return c.sources
}

// Close implements Sizer. Closing twice is a no-op.
func (c *client) Close() error {
	if c.cache == nil {
		return nil
	}
	stats := c.cache.Stats()
	logging.Debug().
		Int("hits", stats.Hits).
		Int("misses", stats.Misses).
		Int("errors", stats.Errors).
		Msg("Closing lookup cache")
	cache := c.cache
	c.cache = nil
	return cache.Close()
}

// OnRecordAdded implements Sizer.
func (c *client) OnRecordAdded(fn RecordAddedHook) { c.hooks.OnRecordAdded(fn) }

// OnRecordUpdated implements Sizer.
func (c *client) OnRecordUpdated(fn RecordUpdatedHook) { c.hooks.OnRecordUpdated(fn) }

// OnRecordRemoved implements Sizer.
func (c *client) OnRecordRemoved(fn RecordRemovedHook) { c.hooks.OnRecordRemoved(fn) }

// OnRecordRejected implements Sizer.
func (c *client) OnRecordRejected(fn RecordRejectedHook) { c.hooks.OnRecordRejected(fn) }

// OnSourceFailed implements Sizer.
func (c *client) OnSourceFailed(fn SourceFailedHook) { c.hooks.OnSourceFailed(fn) }

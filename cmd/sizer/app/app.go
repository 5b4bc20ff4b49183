// Package app provides the application context and dependency management
// for the sizer CLI. It centralizes configuration, logging and the creation
// of pipeline instances so commands only depend on application.Application.
package app

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/sizer"
	"github.com/agentstation/sizer/cmd/application"
	"github.com/agentstation/sizer/internal/cmd/output"
	"github.com/agentstation/sizer/internal/config"
	"github.com/agentstation/sizer/pkg/overlay"
)

var _ application.Application = (*App)(nil)

// App represents the sizer application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// out receives command output; nil means cobra's defaults.
	out io.Writer

	// pipelineLoaded is set once Pipeline reflects the config file and env.
	pipelineLoaded bool

	mu   sync.Mutex
	open []sizer.Sizer
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		config:  LoadConfig(),
	}

	logger := NewLogger(app.config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Settings returns the pipeline configuration.
func (a *App) Settings() *config.Config {
	return a.config.Pipeline
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the output format, detected from the terminal when unset.
func (a *App) OutputFormat() string {
	return string(output.DetectFormat(a.config.Format))
}

// Sizer creates a pipeline from the configuration with opts applied last.
func (a *App) Sizer(opts ...sizer.Option) (sizer.Sizer, error) {
	s, err := sizer.New(append(a.sizerOptions(), opts...)...)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.open = append(a.open, s)
	a.mu.Unlock()
	return s, nil
}

// Shutdown releases every pipeline the app created. Closing twice is harmless.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	open := a.open
	a.open = nil
	a.mu.Unlock()

	var firstErr error
	for _, s := range open {
		if err := s.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close pipeline during shutdown")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// sizerOptions constructs pipeline options from the loaded configuration.
func (a *App) sizerOptions() []sizer.Option {
	p := a.config.Pipeline
	opts := []sizer.Option{
		sizer.WithStagingPath(p.StagingPath),
		sizer.WithCatalogPath(p.CatalogPath),
		sizer.WithSeedPath(p.SeedPath),
		sizer.WithSources(p.SourceIDs()...),
		sizer.WithHubURL(p.HubURL),
		sizer.WithOpenRouterURL(p.OpenRouterURL),
		sizer.WithHubLimit(p.HubLimit),
		sizer.WithOpenRouterLimit(p.OpenRouterLimit),
		sizer.WithConcurrency(p.Concurrency),
		sizer.WithLookupTimeout(p.LookupTimeout),
		sizer.WithBaselinePolicy(overlay.Policy(p.BaselinePolicy)),
		sizer.WithOffline(p.Offline),
		sizer.WithRateLimit(p.RateLimit, p.RateBurst),
		sizer.WithUserAgent("sizer/" + a.version),
	}
	if p.CachePath != "" {
		opts = append(opts, sizer.WithCache(p.CachePath, p.CacheTTL))
	}
	if p.HFToken != "" {
		opts = append(opts, sizer.WithToken(p.HFToken))
	}
	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration. Its pipeline settings are used
// as given and no config file is read.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		a.pipelineLoaded = config.Pipeline != nil
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithOutput sends command output and errors to w.
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.out = w
		return nil
	}
}

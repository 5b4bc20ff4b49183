// Package application provides the application interface for sizer commands.
//
// Commands accept an Application instead of the concrete app so they can be
// tested with a Mock:
//
//	mock := &application.Mock{
//	    SizerFunc: func(opts ...sizer.Option) (sizer.Sizer, error) {
//	        return sizer.New(append(testOpts, opts...)...)
//	    },
//	}
//	cmd := derive.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/sizer"
	"github.com/agentstation/sizer/internal/config"
)

// Application provides what commands need from the app.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Sizer creates a pipeline from the loaded configuration. opts are
	// applied last so command flags take precedence. Callers must Close it.
	Sizer(opts ...sizer.Option) (sizer.Sizer, error)

	// Settings returns the loaded pipeline configuration.
	Settings() *config.Config

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

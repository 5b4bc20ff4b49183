package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/sizer"
	"github.com/agentstation/sizer/internal/config"
)

var _ Application = (*Mock)(nil)

// Mock is an Application for command tests. Unset funcs fall back to defaults.
type Mock struct {
	SizerFunc        func(opts ...sizer.Option) (sizer.Sizer, error)
	SettingsFunc     func() *config.Config
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
}

// Sizer implements Application.
func (m *Mock) Sizer(opts ...sizer.Option) (sizer.Sizer, error) {
	if m.SizerFunc != nil {
		return m.SizerFunc(opts...)
	}
	return sizer.New(opts...)
}

// Settings implements Application.
func (m *Mock) Settings() *config.Config {
	if m.SettingsFunc != nil {
		return m.SettingsFunc()
	}
	return config.Defaults()
}

// Logger implements Application.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat implements Application.
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version implements Application.
func (m *Mock) Version() string { return "test" }

// Commit implements Application.
func (m *Mock) Commit() string { return "none" }

// Date implements Application.
func (m *Mock) Date() string { return "unknown" }

// BuiltBy implements Application.
func (m *Mock) BuiltBy() string { return "test" }

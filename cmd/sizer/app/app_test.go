package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sizer/internal/config"
	"github.com/agentstation/sizer/internal/persistence"
)

const seedYAML = `version: 1
models:
  - model_id: acme/base-7b
    params_b: 7.0
    layers: 32
    hidden: 4096
    moe_active_ratio: 0.0
rankings:
  - model_id: other/new-3b
    score: 40
`

func newTestApp(t *testing.T) (*App, *bytes.Buffer, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(seedYAML), 0o644))

	settings := config.Defaults()
	settings.SeedPath = seedPath
	settings.StagingPath = filepath.Join(dir, "staging.json")
	settings.CatalogPath = filepath.Join(dir, "models.json")
	settings.Offline = true

	var out bytes.Buffer
	app, err := New("1.0.0", "abc123", "2025-01-01", "test",
		WithConfig(&Config{Pipeline: settings, LogFormat: "json", LogOutput: "discard"}),
		WithOutput(&out),
	)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, app.Shutdown(context.Background())) })
	return app, &out, settings
}

func TestApp_New(t *testing.T) {
	app, err := New("1.0.0", "abc123", "2025-01-01", "test")
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", app.Version())
	assert.Equal(t, "abc123", app.Commit())
	assert.Equal(t, "2025-01-01", app.Date())
	assert.Equal(t, "test", app.BuiltBy())
	assert.NotNil(t, app.Logger())
	assert.NotNil(t, app.Settings())
}

func TestApp_Version(t *testing.T) {
	app, out, _ := newTestApp(t)

	require.NoError(t, app.Execute(context.Background(), []string{"version"}))
	assert.Equal(t, "sizer 1.0.0\n", out.String())

	out.Reset()
	require.NoError(t, app.Execute(context.Background(), []string{"version", "-v"}))
	assert.Contains(t, out.String(), "commit:   abc123")
}

func TestApp_FuseThenDerive(t *testing.T) {
	app, out, settings := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, app.Execute(ctx, []string{"fuse"}))
	assert.Contains(t, out.String(), "Wrote 1 candidates to "+settings.StagingPath)

	require.NoError(t, app.Execute(ctx, []string{"derive"}))
	assert.Contains(t, out.String(), "Wrote 2 records to "+settings.CatalogPath+" (0 rejected)")

	records, err := persistence.ReadRecords(settings.CatalogPath)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "other/new-3b", records[0].ID)
	assert.Equal(t, "acme/base-7b", records[1].ID)

	out.Reset()
	require.NoError(t, app.Execute(ctx, []string{"validate"}))
	assert.Contains(t, out.String(), "2 records valid")
}

func TestApp_InvalidFormat(t *testing.T) {
	app, _, _ := newTestApp(t)

	err := app.Execute(context.Background(), []string{"list", "--format", "xml"})
	assert.ErrorContains(t, err, `invalid format "xml"`)
}

func TestApp_SizerUsesSettings(t *testing.T) {
	app, _, settings := newTestApp(t)

	s, err := app.Sizer()
	require.NoError(t, err)
	assert.Equal(t, 1, s.Baseline().Len())
	assert.Len(t, s.Sources().List(), 1, "offline keeps only the rankings source")
	assert.Equal(t, settings, app.Settings())
}

func TestConfig_UpdateFromFlags(t *testing.T) {
	cfg := &Config{Format: "json", LogLevel: "info"}

	cfg.UpdateFromFlags(true, false, true, "", "")
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "info", cfg.LogLevel)

	cfg.UpdateFromFlags(false, true, false, "yaml", "debug")
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, "debug", cfg.LogLevel)
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sizer/internal/config"
	"github.com/agentstation/sizer/pkg/constants"
	"github.com/agentstation/sizer/pkg/errors"
	"github.com/agentstation/sizer/pkg/sources"
)

// isolate runs the test from an empty directory with an empty HOME so no
// stray .env or .sizer.yaml is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("HF_TOKEN", "")
	t.Setenv("HUGGING_FACE_HUB_TOKEN", "")
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultStagingPath, cfg.StagingPath)
	assert.Equal(t, constants.DefaultCatalogPath, cfg.CatalogPath)
	assert.Equal(t, []sources.ID{sources.HubID, sources.RankingsID, sources.OpenRouterID}, cfg.SourceIDs())
	assert.Equal(t, constants.DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, constants.LookupTimeout, cfg.LookupTimeout)
	assert.Equal(t, "replace", cfg.BaselinePolicy)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "sizer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
catalog_path: out/models.json
concurrency: 4
lookup_timeout: 3s
baseline_policy: patch
sources: [rankings]
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out/models.json", cfg.CatalogPath)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 3*time.Second, cfg.LookupTimeout)
	assert.Equal(t, "patch", cfg.BaselinePolicy)
	assert.Equal(t, []string{"rankings"}, cfg.Sources)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoadHomeConfigAndEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".sizer.yaml"), []byte("hub_limit: 10\n"), 0o644))
	t.Setenv("SIZER_CONCURRENCY", "2")
	t.Setenv("SIZER_SOURCES", "hub,openrouter")
	t.Setenv("HF_TOKEN", "hf_secret")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.HubLimit)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, []string{"hub", "openrouter"}, cfg.Sources)
	assert.Equal(t, "hf_secret", cfg.HFToken)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SIZER_OFFLINE=true\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("SIZER_OFFLINE") })

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Offline)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		component string
	}{
		{"policy", map[string]string{"SIZER_BASELINE_POLICY": "merge"}, "baseline_policy"},
		{"concurrency", map[string]string{"SIZER_CONCURRENCY": "0"}, "concurrency"},
		{"source", map[string]string{"SIZER_SOURCES": "hub,pypi"}, "sources"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load("")
			require.Error(t, err)
			var cfgErr *errors.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.component, cfgErr.Component)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := config.Load(filepath.Join(dir, "absent.yaml"))
	require.Error(t, err)
}

package list

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sizer/cmd/application"
	"github.com/agentstation/sizer/internal/config"
	"github.com/agentstation/sizer/internal/persistence"
	"github.com/agentstation/sizer/pkg/catalogs"
)

func newTestApp(t *testing.T, format string) *application.Mock {
	t.Helper()
	dir := t.TempDir()
	settings := config.Defaults()
	settings.CatalogPath = filepath.Join(dir, "models.json")
	settings.StagingPath = filepath.Join(dir, "staging.json")

	ctxLen := 131072
	require.NoError(t, persistence.WriteRecords(settings.CatalogPath, []catalogs.Record{
		{ID: "meta-llama/Llama-3.1-8B", ParamsB: 8.0, Layers: 32, Hidden: 4096, CtxLen: &ctxLen},
		{ID: "mistralai/Mixtral-8x7B-v0.1", ParamsB: 46.7, Layers: 32, Hidden: 4096, MoEActiveRatio: 0.28},
	}))
	require.NoError(t, persistence.WriteCandidates(settings.StagingPath, []catalogs.Candidate{
		catalogs.NewCandidate("meta-llama/Llama-3.1-8B", "huggingface_hub", 1000, nil, "text-generation"),
	}))

	return &application.Mock{
		SettingsFunc:     func() *config.Config { return settings },
		OutputFormatFunc: func() string { return format },
	}
}

func execute(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListRecordsTable(t *testing.T) {
	out, err := execute(t, newTestApp(t, "table"))
	require.NoError(t, err)
	assert.Contains(t, out, "meta-llama/Llama-3.1-8B")
	assert.Contains(t, out, "mistralai/Mixtral-8x7B-v0.1")
}

func TestListProviderFilter(t *testing.T) {
	out, err := execute(t, newTestApp(t, "json"), "--provider", "mistralai")
	require.NoError(t, err)
	assert.Contains(t, out, "Mixtral")
	assert.NotContains(t, out, "Llama")
}

func TestListStaged(t *testing.T) {
	out, err := execute(t, newTestApp(t, "yaml"), "--staged")
	require.NoError(t, err)
	assert.Contains(t, out, "huggingface_hub")
}

func TestListMissingCatalog(t *testing.T) {
	_, err := execute(t, newTestApp(t, "table"), "--catalog", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

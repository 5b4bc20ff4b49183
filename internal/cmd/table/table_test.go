package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sizer/internal/utils/ptr"
	"github.com/agentstation/sizer/pkg/catalogs"
)

func TestRecordsToTableData(t *testing.T) {
	records := []catalogs.Record{
		{ID: "mistralai/Mixtral-8x7B-v0.1", ParamsB: 46.7, Layers: 32, Hidden: 4096, MoEActiveRatio: 0.28, CtxLen: ptr.To(32768)},
		{ID: "org/unknown"},
	}

	data := RecordsToTableData(records, false)
	assert.Equal(t, []string{"Model", "Params (B)", "Layers", "Hidden", "MoE Ratio"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{"mistralai/Mixtral-8x7B-v0.1", "46.7", "32", "4096", "0.28"}, data.Rows[0])
	assert.Equal(t, []string{"org/unknown", "0", "-", "-", "0.00"}, data.Rows[1])

	wide := RecordsToTableData(records, true)
	assert.Len(t, wide.Headers, 7)
	assert.Equal(t, []string{"32K", "moe"}, wide.Rows[0][5:])
	assert.Equal(t, []string{"-", "dense"}, wide.Rows[1][5:])
	assert.Len(t, wide.ColumnAlignment, len(wide.Headers))
}

func TestCandidatesToTableData(t *testing.T) {
	candidates := []catalogs.Candidate{
		catalogs.NewCandidate("X", "hub+rankings", 10, ptr.To("mit"), "a", "b"),
		catalogs.NewCandidate("org/y", "openrouter_index", 0, nil),
	}

	data := CandidatesToTableData(candidates, true)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{"X", "X", "10", "hub+rankings", "mit", "a, b"}, data.Rows[0])
	assert.Equal(t, []string{"org/y", "org", "0", "openrouter_index", "-", "-"}, data.Rows[1])
}

func TestFormatPopularity(t *testing.T) {
	assert.Equal(t, "0", FormatPopularity(0))
	assert.Equal(t, "90", FormatPopularity(90))
	assert.Equal(t, "1,234,567", FormatPopularity(1234567))
	assert.Equal(t, "12.5", FormatPopularity(12.5))
}

func TestFormatContext(t *testing.T) {
	assert.Equal(t, "-", FormatContext(nil))
	assert.Equal(t, "8K", FormatContext(ptr.To(8192)))
	assert.Equal(t, "128K", FormatContext(ptr.To(131072)))
	assert.Equal(t, "128k", FormatContext(ptr.To(128000)))
	assert.Equal(t, "1500", FormatContext(ptr.To(1500)))
	assert.Equal(t, "1000k", FormatContext(ptr.To(1024000)))
	assert.Equal(t, "32K", FormatContext(ptr.To(32768)))
}

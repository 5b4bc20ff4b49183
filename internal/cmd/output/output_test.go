package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sizer/pkg/catalogs"
)

var testRecords = []catalogs.Record{
	{ID: "org/a", ParamsB: 7, Layers: 32, Hidden: 4096, MoEActiveRatio: 0},
	{ID: "org/b", ParamsB: 46.7, Layers: 32, Hidden: 4096, MoEActiveRatio: 0.28},
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "JSON", "yaml", "wide", ""} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("csv")
	assert.Error(t, err)
}

func TestFormatRecordsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatRecords(&buf, testRecords, FormatTable))
	out := buf.String()
	assert.Contains(t, out, "org/b")
	assert.Contains(t, out, "46.7")
	assert.Contains(t, out, "0.28")
}

func TestFormatRecordsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatRecords(&buf, testRecords, FormatJSON))
	assert.Contains(t, buf.String(), `"model_id": "org/a"`)
	assert.Contains(t, buf.String(), `"moe_active_ratio": 0.28`)
}

func TestFormatRecordsYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatRecords(&buf, testRecords, FormatYAML))
	assert.Contains(t, buf.String(), "model_id: org/a")
	assert.Contains(t, buf.String(), "params_b: 46.7")
}

func TestFormatCandidatesWide(t *testing.T) {
	var buf bytes.Buffer
	candidates := []catalogs.Candidate{catalogs.NewCandidate("org/x", "hub", 3, nil, "vendor-index")}
	require.NoError(t, FormatCandidates(&buf, candidates, FormatWide))
	assert.Contains(t, buf.String(), "vendor-index")
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
	assert.NotEmpty(t, DetectFormat(""))
}

func TestFormatEmptyListsAsArrays(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatRecords(&buf, nil, FormatJSON))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, FormatCandidates(&buf, nil, FormatYAML))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFormatCandidatesTableGroupsPopularity(t *testing.T) {
	var buf bytes.Buffer
	candidates := []catalogs.Candidate{catalogs.NewCandidate("org/x", "hub", 2500000, nil)}
	require.NoError(t, FormatCandidates(&buf, candidates, FormatTable))
	assert.Contains(t, buf.String(), "2,500,000")
	assert.NotContains(t, buf.String(), "License")
}

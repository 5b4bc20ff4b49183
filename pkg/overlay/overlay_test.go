package overlay_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sizer/internal/utils/ptr"
	"github.com/agentstation/sizer/pkg/catalogs"
	"github.com/agentstation/sizer/pkg/overlay"
)

func candidates(ids ...string) []catalogs.Candidate {
	out := make([]catalogs.Candidate, len(ids))
	for i, id := range ids {
		out[i] = catalogs.NewCandidate(id, "hub", 0, nil)
	}
	return out
}

func ids(entries []catalogs.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func testBaseline(t *testing.T) *catalogs.Baseline {
	t.Helper()
	b, err := catalogs.NewBaseline(
		catalogs.Entry{ID: "B", ParamsB: 7, Layers: 32, Hidden: 4096, MoEActiveRatio: 1},
		catalogs.Entry{ID: "C", ParamsB: 13, Layers: 40, Hidden: 5120, MoEActiveRatio: 1, CtxLen: ptr.To(8192)},
	)
	require.NoError(t, err)
	return b
}

func TestBuildScenario(t *testing.T) {
	got := overlay.Build(testBaseline(t), candidates("A", "B"))

	want := []catalogs.Entry{
		{ID: "A"},
		{ID: "B", ParamsB: 7, Layers: 32, Hidden: 4096, MoEActiveRatio: 1},
		{ID: "C", ParamsB: 13, Layers: 40, Hidden: 5120, MoEActiveRatio: 1, CtxLen: ptr.To(8192)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDeduplicatesStaged(t *testing.T) {
	got := overlay.Build(testBaseline(t), candidates("A", "", "A", "C", "B", "C"))
	assert.Equal(t, []string{"A", "C", "B"}, ids(got))
}

func TestBuildBaselineOnly(t *testing.T) {
	got := overlay.Build(testBaseline(t), nil)
	assert.Equal(t, []string{"B", "C"}, ids(got))
}

func TestBuildNilBaseline(t *testing.T) {
	got := overlay.Build(nil, candidates("A", "B"))
	assert.Equal(t, []catalogs.Entry{{ID: "A"}, {ID: "B"}}, got)
}

func TestBuildDoesNotAliasBaseline(t *testing.T) {
	b := testBaseline(t)
	got := overlay.Build(b, candidates("C"))
	require.NotNil(t, got[0].CtxLen)
	*got[0].CtxLen = 1

	c, ok := b.Get("C")
	require.True(t, ok)
	assert.Equal(t, 8192, *c.CtxLen)
}

func TestBuildPriorWithPolicies(t *testing.T) {
	prior := []catalogs.Record{
		{ID: "B", ParamsB: 8, Layers: 0, Hidden: 0, MoEActiveRatio: 1},
		{ID: "A", ParamsB: 70, Layers: 80, Hidden: 8192, MoEActiveRatio: 1},
		{ID: "Z", ParamsB: 1, Layers: 1, Hidden: 1, MoEActiveRatio: 1},
	}

	t.Run("replace", func(t *testing.T) {
		got := overlay.Build(testBaseline(t), candidates("A", "B"), overlay.WithPrior(prior))
		want := []catalogs.Entry{
			{ID: "A", ParamsB: 70, Layers: 80, Hidden: 8192, MoEActiveRatio: 1},
			{ID: "B", ParamsB: 7, Layers: 32, Hidden: 4096, MoEActiveRatio: 1},
			{ID: "C", ParamsB: 13, Layers: 40, Hidden: 5120, MoEActiveRatio: 1, CtxLen: ptr.To(8192)},
		}
		assert.Equal(t, want, got)
	})

	t.Run("patch", func(t *testing.T) {
		got := overlay.Build(testBaseline(t), candidates("A", "B"),
			overlay.WithPrior(prior), overlay.WithPolicy(overlay.PolicyPatch))
		require.Len(t, got, 3)
		assert.Equal(t, catalogs.Entry{ID: "B", ParamsB: 8, Layers: 32, Hidden: 4096, MoEActiveRatio: 1}, got[1])
	})
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    overlay.Policy
		wantErr bool
	}{
		{"", overlay.PolicyReplace, false},
		{"replace", overlay.PolicyReplace, false},
		{"patch", overlay.PolicyPatch, false},
		{"merge", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := overlay.ParsePolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

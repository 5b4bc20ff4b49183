package hub_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sizer/internal/hub"
	"github.com/agentstation/sizer/internal/transport"
	"github.com/agentstation/sizer/pkg/errors"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/org/dense/resolve/main/config.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer hf_token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"num_hidden_layers": 32, "hidden_size": 4096, "model_type": "llama"}`))
	})
	mux.HandleFunc("/org/gated/resolve/main/config.json", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gated", http.StatusUnauthorized)
	})
	mux.HandleFunc("/org/forbidden/resolve/main/config.json", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})
	mux.HandleFunc("/org/flaky/resolve/main/config.json", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})
	mux.HandleFunc("/org/garbled/resolve/main/config.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})
	mux.HandleFunc("/api/models/org/dense", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": "org/dense", "safetensors": {"total": 8030261248, "parameters": {"BF16": 8030261248}}}`))
	})
	mux.HandleFunc("/api/models/org/nometa", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": "org/nometa"}`))
	})
	mux.HandleFunc("/api/models", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "text-generation", q.Get("filter"))
		assert.Equal(t, "downloads", q.Get("sort"))
		assert.Equal(t, "-1", q.Get("direction"))
		assert.Equal(t, "2", q.Get("limit"))
		_, _ = w.Write([]byte(`[
			{"id": "org/dense", "downloads": 1000, "tags": ["text-generation"], "cardData": {"license": "apache-2.0"}},
			{"id": "org/multi", "downloads": 10, "cardData": {"license": ["mit", "other"]}}
		]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T) *hub.Client {
	srv := newTestServer(t)
	return hub.NewClient(srv.URL, transport.New(transport.WithToken("hf_token"), transport.WithRateLimit(0, 0)))
}

func TestConfig(t *testing.T) {
	c := newClient(t)
	cfg, err := c.Config(context.Background(), "org/dense")
	require.NoError(t, err)
	assert.Equal(t, 32.0, cfg["num_hidden_layers"])
	assert.Equal(t, "llama", cfg["model_type"])
}

func TestConfigErrors(t *testing.T) {
	c := newClient(t)
	tests := []struct {
		id    string
		check func(error) bool
	}{
		{"org/gated", errors.IsGated},
		{"org/forbidden", errors.IsGated},
		{"org/missing", errors.IsNotFound},
		{"org/flaky", errors.IsTransient},
		{"org/garbled", errors.IsTransient},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			_, err := c.Config(context.Background(), tt.id)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
		})
	}
}

func TestConfigNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := hub.NewClient(srv.URL, nil).Config(context.Background(), "org/dense")
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))
}

func TestTotalParameters(t *testing.T) {
	c := newClient(t)

	total, err := c.TotalParameters(context.Background(), "org/dense")
	require.NoError(t, err)
	assert.Equal(t, 8030261248.0, total)

	total, err = c.TotalParameters(context.Background(), "org/nometa")
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = c.TotalParameters(context.Background(), "org/absent")
	assert.True(t, errors.IsNotFound(err))
}

func TestListModels(t *testing.T) {
	models, err := newClient(t).ListModels(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, models, 2)

	assert.Equal(t, "org/dense", models[0].ID)
	assert.Equal(t, int64(1000), models[0].Downloads)
	assert.Equal(t, []string{"text-generation"}, models[0].Tags)
	require.NotNil(t, models[0].License())
	assert.Equal(t, "apache-2.0", *models[0].License())

	require.NotNil(t, models[1].License())
	assert.Equal(t, "mit", *models[1].License())
}

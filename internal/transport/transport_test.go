package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sizer/internal/transport"
	"github.com/agentstation/sizer/pkg/errors"
)

func TestBearerAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}
	(&transport.BearerAuth{}).Apply(req, "hf_test")
	assert.Equal(t, "Bearer hf_test", req.Header.Get("Authorization"))

	req = &http.Request{Header: make(http.Header)}
	(&transport.NoAuth{}).Apply(req, "hf_test")
	assert.Empty(t, req.Header)
}

func TestClientHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := transport.New(transport.WithToken("secret"), transport.WithUserAgent("sizer-test"))
	resp, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)

	var body struct{ OK bool }
	require.NoError(t, transport.DecodeResponse(resp, &body))
	assert.True(t, body.OK)
	assert.Equal(t, "Bearer secret", got.Get("Authorization"))
	assert.Equal(t, "sizer-test", got.Get("User-Agent"))
	assert.Equal(t, "application/json", got.Get("Accept"))
}

func TestClientWithoutToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	resp, err := transport.New(transport.WithToken("")).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	require.NoError(t, transport.DecodeResponse(resp, &map[string]any{}))
	assert.Empty(t, auth)
}

func TestDecodeResponseErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/gated":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("access to this model is restricted"))
		default:
			_, _ = w.Write([]byte("{not json"))
		}
	}))
	defer srv.Close()

	c := transport.New()

	resp, err := c.Get(context.Background(), srv.URL+"/gated")
	require.NoError(t, err)
	err = transport.DecodeResponse(resp, &map[string]any{})
	var statusErr *transport.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Contains(t, statusErr.Error(), "restricted")

	resp, err = c.Get(context.Background(), srv.URL+"/broken")
	require.NoError(t, err)
	err = transport.DecodeResponse(resp, &map[string]any{})
	var parseErr *errors.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "json", parseErr.Format)
}

func TestClientRateLimitHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := transport.New(transport.WithRateLimit(0.5, 1))
	resp, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	require.NoError(t, transport.DecodeResponse(resp, &map[string]any{}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Get(ctx, srv.URL)
	assert.Error(t, err, "second request must wait past the deadline")
}

// Package hub is a client for the model hub HTTP API: per-model configuration
// documents, tensor metadata and the popularity-sorted model listing.
package hub

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/agentstation/sizer/internal/transport"
	"github.com/agentstation/sizer/pkg/errors"
)

// DefaultBaseURL is the public hub endpoint.
const DefaultBaseURL = "https://huggingface.co"

// Client reads model metadata from the hub.
type Client struct {
	baseURL   string
	transport *transport.Client
}

// NewClient creates a hub client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, tc *transport.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if tc == nil {
		tc = transport.New()
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: tc,
	}
}

// Config returns the model's decoded config.json from the main revision.
func (c *Client) Config(ctx context.Context, id string) (map[string]any, error) {
	endpoint := fmt.Sprintf("%s/%s/resolve/main/config.json", c.baseURL, escapeID(id))
	var cfg map[string]any
	if err := c.get(ctx, id, endpoint, &cfg); err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errors.NewTransientFetchError(id, endpoint, 0, errors.New("empty config document"))
	}
	return cfg, nil
}

// ModelInfo is the subset of the model info document used here.
type ModelInfo struct {
	ID          string   `json:"id"`
	Downloads   int64    `json:"downloads"`
	Likes       int64    `json:"likes"`
	PipelineTag string   `json:"pipeline_tag"`
	Tags        []string `json:"tags"`
	CardData    struct {
		License any `json:"license"`
	} `json:"cardData"`
	Safetensors *struct {
		Total      float64            `json:"total"`
		Parameters map[string]float64 `json:"parameters"`
	} `json:"safetensors"`
}

// License returns the card license, or nil when absent.
// Cards may list several licenses; the first is used.
func (m ModelInfo) License() *string {
	switch v := m.CardData.License.(type) {
	case string:
		if v != "" {
			return &v
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				return &s
			}
		}
	}
	return nil
}

// ModelInfo returns the model info document.
func (c *Client) ModelInfo(ctx context.Context, id string) (*ModelInfo, error) {
	endpoint := fmt.Sprintf("%s/api/models/%s", c.baseURL, escapeID(id))
	var info ModelInfo
	if err := c.get(ctx, id, endpoint, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// TotalParameters returns the aggregate parameter count from tensor metadata.
// A model without tensor metadata reports zero.
func (c *Client) TotalParameters(ctx context.Context, id string) (float64, error) {
	info, err := c.ModelInfo(ctx, id)
	if err != nil {
		return 0, err
	}
	if info.Safetensors == nil {
		return 0, nil
	}
	return info.Safetensors.Total, nil
}

// ListModels returns the most downloaded text-generation models.
func (c *Client) ListModels(ctx context.Context, limit int) ([]ModelInfo, error) {
	q := url.Values{}
	q.Set("filter", "text-generation")
	q.Set("sort", "downloads")
	q.Set("direction", "-1")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("cardData", "true")
	endpoint := c.baseURL + "/api/models?" + q.Encode()

	var models []ModelInfo
	if err := c.get(ctx, "models", endpoint, &models); err != nil {
		return nil, err
	}
	return models, nil
}

func (c *Client) get(ctx context.Context, id, endpoint string, target any) error {
	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return errors.NewTransientFetchError(id, endpoint, 0, err)
	}
	if err := transport.DecodeResponse(resp, target); err != nil {
		return classify(id, endpoint, err)
	}
	return nil
}

// classify maps response failures onto the lookup error taxonomy.
func classify(id, endpoint string, err error) error {
	var statusErr *transport.StatusError
	if !errors.As(err, &statusErr) {
		return errors.NewTransientFetchError(id, endpoint, 0, err)
	}
	switch statusErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.NewGatedAccessError(id, statusErr.StatusCode)
	case http.StatusNotFound:
		return errors.NewNotFoundError("model", id)
	default:
		return errors.NewTransientFetchError(id, endpoint, statusErr.StatusCode, statusErr)
	}
}

// escapeID escapes each path segment of an "org/name" identity.
func escapeID(id string) string {
	parts := strings.Split(id, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// Package openrouter lists models from the OpenRouter vendor index that
// declare a hub identity.
package openrouter

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentstation/sizer/internal/transport"
	"github.com/agentstation/sizer/pkg/catalogs"
	"github.com/agentstation/sizer/pkg/constants"
	"github.com/agentstation/sizer/pkg/sources"
)

// DefaultBaseURL is the public OpenRouter API.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Origin is the source tag recorded on vendor index candidates.
const Origin = "openrouter_index"

// Tag is added to every vendor index candidate.
const Tag = "vendor-index"

// Response is the model listing document.
type Response struct {
	Data []Model `json:"data"`
}

// Model is one vendor index entry.
type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	HuggingFaceID string `json:"hugging_face_id"`
	Architecture  struct {
		InputModalities []string `json:"input_modalities"`
	} `json:"architecture"`
}

// Source reads the vendor index.
type Source struct {
	baseURL   string
	transport *transport.Client
	limit     int
}

var _ sources.Source = (*Source)(nil)

// New creates a vendor index source. Empty baseURL and non-positive limit select defaults.
func New(baseURL string, tc *transport.Client, limit int) *Source {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if tc == nil {
		tc = transport.New()
	}
	if limit <= 0 {
		limit = constants.DefaultVendorIndexLimit
	}
	return &Source{baseURL: strings.TrimRight(baseURL, "/"), transport: tc, limit: limit}
}

// ID returns the source identifier.
func (s *Source) ID() sources.ID {
	return sources.OpenRouterID
}

// Fetch inspects the first limit index entries and keeps those with a hub identity.
// The index has no popularity signal, so every candidate scores zero.
func (s *Source) Fetch(ctx context.Context) ([]catalogs.Candidate, error) {
	resp, err := s.transport.Get(ctx, s.baseURL+"/models")
	if err != nil {
		return nil, fmt.Errorf("openrouter: request failed: %w", err)
	}
	var result Response
	if err := transport.DecodeResponse(resp, &result); err != nil {
		return nil, fmt.Errorf("openrouter: %w", err)
	}

	models := result.Data
	if len(models) > s.limit {
		models = models[:s.limit]
	}

	out := make([]catalogs.Candidate, 0, len(models))
	for _, m := range models {
		if m.HuggingFaceID == "" {
			continue
		}
		tags := append([]string{Tag}, m.Architecture.InputModalities...)
		out = append(out, catalogs.NewCandidate(m.HuggingFaceID, Origin, 0, nil, tags...))
	}
	return out, nil
}

// Package seed loads the curated baseline table and the static community
// rankings from a single versioned YAML document.
//
// The default document is compiled into the binary; a path may be given to
// load an edited copy instead.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/sizer/pkg/catalogs"
	"github.com/agentstation/sizer/pkg/errors"
)

// Version is the seed schema version this package understands.
const Version = 1

//go:embed catalog.yaml
var embedded []byte

// EmbeddedName names the compiled-in document in errors.
const EmbeddedName = "embedded:catalog.yaml"

// Ranking is one community leaderboard score.
type Ranking struct {
	ID    string  `yaml:"model_id"`
	Score float64 `yaml:"score"`
}

type document struct {
	Version  int              `yaml:"version"`
	Models   []catalogs.Entry `yaml:"models"`
	Rankings []Ranking        `yaml:"rankings"`
}

// Seed is a loaded seed document.
type Seed struct {
	Version  int
	Baseline *catalogs.Baseline
	Rankings []Ranking
}

// Load returns the compiled-in seed.
func Load() (*Seed, error) {
	return Parse(embedded, EmbeddedName)
}

// LoadFile reads a seed document from path. An empty path selects the compiled-in seed.
func LoadFile(path string) (*Seed, error) {
	if path == "" {
		return Load()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewMalformedArtifactError(path, errors.WrapIO("read", path, err))
	}
	return Parse(data, path)
}

// Parse decodes and checks a seed document. name is used in errors.
// Any failure is a *errors.MalformedArtifactError.
func Parse(data []byte, name string) (*Seed, error) {
	var doc document
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.Strict()); err != nil {
		return nil, errors.NewMalformedArtifactError(name, errors.WrapParse("yaml", name, err))
	}
	if doc.Version != Version {
		return nil, errors.NewMalformedArtifactError(name,
			fmt.Errorf("unsupported seed version %d (want %d)", doc.Version, Version))
	}

	baseline, err := catalogs.NewBaseline(doc.Models...)
	if err != nil {
		return nil, errors.NewMalformedArtifactError(name, err)
	}

	seen := make(map[string]struct{}, len(doc.Rankings))
	for _, r := range doc.Rankings {
		if r.ID == "" {
			return nil, errors.NewMalformedArtifactError(name,
				errors.NewValidationError("", "model_id", r.ID, "ranking has empty identity"))
		}
		if _, dup := seen[r.ID]; dup {
			return nil, errors.NewMalformedArtifactError(name,
				errors.NewValidationError(r.ID, "model_id", r.ID, "duplicate ranking identity"))
		}
		seen[r.ID] = struct{}{}
	}

	return &Seed{
		Version:  doc.Version,
		Baseline: baseline,
		Rankings: doc.Rankings,
	}, nil
}

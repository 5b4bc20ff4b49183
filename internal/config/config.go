// Package config loads pipeline settings from, in order of precedence,
// environment variables (SIZER_*, HF_TOKEN), .env files, a YAML config file
// (~/.sizer.yaml or ./.sizer.yaml) and built-in defaults. Command-line flags
// are applied on top by the CLI.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/sizer/internal/hub"
	"github.com/agentstation/sizer/internal/sources/openrouter"
	"github.com/agentstation/sizer/pkg/constants"
	"github.com/agentstation/sizer/pkg/errors"
	"github.com/agentstation/sizer/pkg/overlay"
	"github.com/agentstation/sizer/pkg/sources"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SIZER"

// Config holds the pipeline settings.
type Config struct {
	// Artifacts
	StagingPath string
	CatalogPath string
	SeedPath    string

	// Discovery
	Sources         []string
	HubURL          string
	OpenRouterURL   string
	HubLimit        int
	OpenRouterLimit int

	// Derivation
	Concurrency    int
	LookupTimeout  time.Duration
	BaselinePolicy string
	Offline        bool
	CachePath      string
	CacheTTL       time.Duration

	// Remote access
	HFToken   string
	RateLimit float64
	RateBurst int

	// ConfigFile is the config file that was read, if any.
	ConfigFile string
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		StagingPath:     constants.DefaultStagingPath,
		CatalogPath:     constants.DefaultCatalogPath,
		Sources:         idStrings(sources.IDs()),
		HubURL:          hub.DefaultBaseURL,
		OpenRouterURL:   openrouter.DefaultBaseURL,
		HubLimit:        constants.DefaultHubListLimit,
		OpenRouterLimit: constants.DefaultVendorIndexLimit,
		Concurrency:     constants.DefaultConcurrency,
		LookupTimeout:   constants.LookupTimeout,
		BaselinePolicy:  string(overlay.PolicyReplace),
		CacheTTL:        constants.LookupCacheTTL,
		RateLimit:       constants.DefaultRateLimit,
		RateBurst:       constants.DefaultRateBurst,
	}
}

// Load reads configuration. configFile may be empty to search the default locations.
func Load(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("hf_token", "HF_TOKEN", "HUGGING_FACE_HUB_TOKEN", EnvPrefix+"_HF_TOKEN"); err != nil {
		return nil, &errors.ConfigError{Component: "env", Message: "bind hf_token", Err: err}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".sizer")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, &errors.ConfigError{
				Component: "file",
				Message:   fmt.Sprintf("read %s", v.ConfigFileUsed()),
				Err:       err,
			}
		}
	}

	cfg := &Config{
		StagingPath:     v.GetString("staging_path"),
		CatalogPath:     v.GetString("catalog_path"),
		SeedPath:        v.GetString("seed_path"),
		Sources:         v.GetStringSlice("sources"),
		HubURL:          v.GetString("hub_url"),
		OpenRouterURL:   v.GetString("openrouter_url"),
		HubLimit:        v.GetInt("hub_limit"),
		OpenRouterLimit: v.GetInt("openrouter_limit"),
		Concurrency:     v.GetInt("concurrency"),
		LookupTimeout:   v.GetDuration("lookup_timeout"),
		BaselinePolicy:  v.GetString("baseline_policy"),
		Offline:         v.GetBool("offline"),
		CachePath:       v.GetString("cache_path"),
		CacheTTL:        v.GetDuration("cache_ttl"),
		HFToken:         v.GetString("hf_token"),
		RateLimit:       v.GetFloat64("rate_limit"),
		RateBurst:       v.GetInt("rate_burst"),
		ConfigFile:      v.ConfigFileUsed(),
	}
	cfg.Sources = splitList(cfg.Sources)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if _, err := overlay.ParsePolicy(c.BaselinePolicy); err != nil {
		return &errors.ConfigError{Component: "baseline_policy", Message: err.Error()}
	}
	if c.Concurrency < 1 || c.Concurrency > constants.MaxConcurrency {
		return &errors.ConfigError{
			Component: "concurrency",
			Message:   fmt.Sprintf("must be between 1 and %d, got %d", constants.MaxConcurrency, c.Concurrency),
		}
	}
	if c.LookupTimeout <= 0 {
		return &errors.ConfigError{Component: "lookup_timeout", Message: "must be positive"}
	}
	for _, s := range c.Sources {
		if !sources.ID(s).IsValid() {
			return &errors.ConfigError{
				Component: "sources",
				Message:   fmt.Sprintf("unknown source %q (known: %s)", s, strings.Join(idStrings(sources.IDs()), ", ")),
			}
		}
	}
	if c.StagingPath == "" || c.CatalogPath == "" {
		return &errors.ConfigError{Component: "paths", Message: "staging and catalog paths must be set"}
	}
	return nil
}

// SourceIDs returns the configured sources as IDs.
func (c *Config) SourceIDs() []sources.ID {
	ids := make([]sources.ID, len(c.Sources))
	for i, s := range c.Sources {
		ids[i] = sources.ID(s)
	}
	return ids
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("staging_path", d.StagingPath)
	v.SetDefault("catalog_path", d.CatalogPath)
	v.SetDefault("seed_path", d.SeedPath)
	v.SetDefault("sources", d.Sources)
	v.SetDefault("hub_url", d.HubURL)
	v.SetDefault("openrouter_url", d.OpenRouterURL)
	v.SetDefault("hub_limit", d.HubLimit)
	v.SetDefault("openrouter_limit", d.OpenRouterLimit)
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("lookup_timeout", d.LookupTimeout)
	v.SetDefault("baseline_policy", d.BaselinePolicy)
	v.SetDefault("offline", d.Offline)
	v.SetDefault("cache_path", d.CachePath)
	v.SetDefault("cache_ttl", d.CacheTTL)
	v.SetDefault("rate_limit", d.RateLimit)
	v.SetDefault("rate_burst", d.RateBurst)
}

// loadEnvFiles loads .env then .env.local; existing variables are not overridden.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// splitList accepts both YAML lists and comma-separated env values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func idStrings(ids []sources.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

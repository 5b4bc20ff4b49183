package sizer

import (
	"fmt"
	"net/http"
	"time"

	"github.com/agentstation/sizer/internal/hub"
	"github.com/agentstation/sizer/internal/sources/openrouter"
	"github.com/agentstation/sizer/pkg/constants"
	"github.com/agentstation/sizer/pkg/derive"
	"github.com/agentstation/sizer/pkg/errors"
	"github.com/agentstation/sizer/pkg/overlay"
	"github.com/agentstation/sizer/pkg/sources"
)

// Option is a function that configures a Sizer instance.
type Option func(*options) error

// options holds the pipeline settings.
type options struct {
	stagingPath string
	catalogPath string
	seedPath    string
	priorPath   string

	sources         []sources.ID
	extraSources    []sources.Source
	hubURL          string
	openRouterURL   string
	hubLimit        int
	openRouterLimit int

	concurrency   int
	lookupTimeout time.Duration
	policy        overlay.Policy
	offline       bool
	lookup        derive.Lookup
	cachePath     string
	cacheTTL      time.Duration

	token      string
	userAgent  string
	rateLimit  float64
	rateBurst  int
	httpClient *http.Client
}

func defaultOptions() *options {
	return &options{
		stagingPath:     constants.DefaultStagingPath,
		catalogPath:     constants.DefaultCatalogPath,
		sources:         sources.IDs(),
		hubURL:          hub.DefaultBaseURL,
		openRouterURL:   openrouter.DefaultBaseURL,
		hubLimit:        constants.DefaultHubListLimit,
		openRouterLimit: constants.DefaultVendorIndexLimit,
		concurrency:     constants.DefaultConcurrency,
		lookupTimeout:   constants.LookupTimeout,
		policy:          overlay.PolicyReplace,
		cacheTTL:        constants.LookupCacheTTL,
		rateLimit:       constants.DefaultRateLimit,
		rateBurst:       constants.DefaultRateBurst,
	}
}

// apply applies the given options to the options.
func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithStagingPath sets where the fuse stage writes and the derive stage reads candidates.
func WithStagingPath(path string) Option {
	return func(o *options) error {
		if path == "" {
			return &errors.ConfigError{Component: "staging_path", Message: "must not be empty"}
		}
		o.stagingPath = path
		return nil
	}
}

// WithCatalogPath sets where the derive stage writes records.
func WithCatalogPath(path string) Option {
	return func(o *options) error {
		if path == "" {
			return &errors.ConfigError{Component: "catalog_path", Message: "must not be empty"}
		}
		o.catalogPath = path
		return nil
	}
}

// WithSeedPath loads the baseline and rankings from path instead of the embedded seed.
func WithSeedPath(path string) Option {
	return func(o *options) error {
		o.seedPath = path
		return nil
	}
}

// WithPriorCatalog seeds staged entries from a previously written catalog.
// Combined with the patch policy this keeps earlier derivations for fields
// the baseline does not set.
func WithPriorCatalog(path string) Option {
	return func(o *options) error {
		o.priorPath = path
		return nil
	}
}

// WithSources selects the built-in discovery sources, in fusion priority order.
func WithSources(ids ...sources.ID) Option {
	return func(o *options) error {
		for _, id := range ids {
			if !id.IsValid() {
				return &errors.ConfigError{Component: "sources", Message: fmt.Sprintf("unknown source %q", id)}
			}
		}
		o.sources = ids
		return nil
	}
}

// WithSource registers an additional source after the built-in ones.
func WithSource(src sources.Source) Option {
	return func(o *options) error {
		o.extraSources = append(o.extraSources, src)
		return nil
	}
}

// WithHubURL overrides the hub base URL.
func WithHubURL(url string) Option {
	return func(o *options) error {
		o.hubURL = url
		return nil
	}
}

// WithOpenRouterURL overrides the vendor index base URL.
func WithOpenRouterURL(url string) Option {
	return func(o *options) error {
		o.openRouterURL = url
		return nil
	}
}

// WithHubLimit sets how many models the hub listing requests.
func WithHubLimit(n int) Option {
	return func(o *options) error {
		o.hubLimit = n
		return nil
	}
}

// WithOpenRouterLimit sets how many vendor index entries are considered.
func WithOpenRouterLimit(n int) Option {
	return func(o *options) error {
		o.openRouterLimit = n
		return nil
	}
}

// WithConcurrency sets the number of derivation workers.
func WithConcurrency(n int) Option {
	return func(o *options) error {
		if n < 1 || n > constants.MaxConcurrency {
			return &errors.ConfigError{
				Component: "concurrency",
				Message:   fmt.Sprintf("must be between 1 and %d, got %d", constants.MaxConcurrency, n),
			}
		}
		o.concurrency = n
		return nil
	}
}

// WithLookupTimeout bounds each remote lookup.
func WithLookupTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return &errors.ConfigError{Component: "lookup_timeout", Message: "must be positive"}
		}
		o.lookupTimeout = d
		return nil
	}
}

// WithBaselinePolicy selects how baseline entries combine with staged entries.
func WithBaselinePolicy(p overlay.Policy) Option {
	return func(o *options) error {
		if _, err := overlay.ParsePolicy(string(p)); err != nil {
			return &errors.ConfigError{Component: "baseline_policy", Message: err.Error()}
		}
		o.policy = p
		return nil
	}
}

// WithOffline disables every network access. Entries keep their static fields
// and only the rankings source contributes candidates.
func WithOffline(enabled bool) Option {
	return func(o *options) error {
		o.offline = enabled
		return nil
	}
}

// WithLookup replaces the hub as the architecture lookup.
func WithLookup(l derive.Lookup) Option {
	return func(o *options) error {
		o.lookup = l
		return nil
	}
}

// WithCache enables the persistent lookup cache at path.
// A non-positive ttl keeps the default.
func WithCache(path string, ttl time.Duration) Option {
	return func(o *options) error {
		o.cachePath = path
		if ttl > 0 {
			o.cacheTTL = ttl
		}
		return nil
	}
}

// WithToken sets the bearer token sent to the hub.
func WithToken(token string) Option {
	return func(o *options) error {
		o.token = token
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent with every remote call.
func WithUserAgent(ua string) Option {
	return func(o *options) error {
		o.userAgent = ua
		return nil
	}
}

// WithRateLimit limits outgoing requests. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) error {
		o.rateLimit = rps
		o.rateBurst = burst
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for every remote call.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		o.httpClient = hc
		return nil
	}
}

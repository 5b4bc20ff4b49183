// Package constants provides shared constants used throughout the sizer codebase.
// This includes timeouts, limits, file permissions and artifact defaults that
// should be consistent across the library and the CLI.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the client-level timeout for any hub or index request
	DefaultHTTPTimeout = 30 * time.Second

	// LookupTimeout bounds a single remote architecture lookup
	LookupTimeout = 15 * time.Second

	// SourceFetchTimeout bounds a single source adapter listing
	SourceFetchTimeout = 1 * time.Minute

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// ShutdownTimeout is how long shutdown hooks get after an error
	ShutdownTimeout = 5 * time.Second
)

// File permission constants
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants
const (
	// DefaultConcurrency is the number of derivation workers
	DefaultConcurrency = 8

	// MaxConcurrency caps the derivation worker pool
	MaxConcurrency = 64

	// DefaultHubListLimit is how many models the hub listing adapter requests
	DefaultHubListLimit = 50

	// DefaultVendorIndexLimit is how many vendor index entries are considered
	DefaultVendorIndexLimit = 80

	// DefaultRateLimit is requests per second against the hub
	DefaultRateLimit = 10.0

	// DefaultRateBurst is the token bucket burst size for hub requests
	DefaultRateBurst = 5
)

// Cache constants
const (
	// LookupCacheTTL is how long a cached remote lookup stays valid
	LookupCacheTTL = 24 * time.Hour
)

// Artifact defaults
const (
	// DefaultStagingPath is where the fuse stage writes fused candidates
	DefaultStagingPath = "datapipeline/staging_candidates.json"

	// DefaultCatalogPath is where the derive stage writes normalized records
	DefaultCatalogPath = "data/models.json"

	// SourceSeparator joins origin tags in the persisted source field
	SourceSeparator = "+"

	// UserAgent identifies sizer to remote services
	UserAgent = "sizer"
)

// Rounding precision, in decimal places
const (
	// ParamsPrecision is the precision of params_b (billions)
	ParamsPrecision = 1

	// RatioPrecision is the precision of moe_active_ratio
	RatioPrecision = 2
)

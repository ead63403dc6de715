// Package constants provides shared constants for the mortgage-visualizer application.
package constants

// DateLayout is the format expected in config files and API payloads and is
// also the output date format.
const DateLayout = "2006-01-02"

// Payment frequency names as accepted in configuration and API payloads.
const (
	// FrequencyMonthly pays once every MonthlyIntervalDays.
	FrequencyMonthly = "monthly"

	// FrequencyBiWeekly pays once every BiWeeklyIntervalDays.
	FrequencyBiWeekly = "bi-weekly"

	// FrequencyAcceleratedBiWeekly is scheduled exactly like FrequencyBiWeekly.
	FrequencyAcceleratedBiWeekly = "accelerated-bi-weekly"
)

// Financial constants
const (
	// MonthsPerYear is the number of monthly payment periods in a year
	MonthsPerYear = 12

	// BiWeeklyPeriodsPerYear is the number of bi-weekly payment periods in a year
	BiWeeklyPeriodsPerYear = 26

	// MonthlyIntervalDays approximates a month between monthly payments
	MonthlyIntervalDays = 30

	// BiWeeklyIntervalDays is the number of days between bi-weekly payments
	BiWeeklyIntervalDays = 14

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Default mortgage parameters, matching the values a fresh calculator form starts with.
const (
	// DefaultInterestRate is the default annual interest rate in percent
	DefaultInterestRate = 5.0

	// DefaultTermYears is the default amortization period
	DefaultTermYears = 25

	// DefaultFrequency is the default payment frequency
	DefaultFrequency = FrequencyMonthly
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultDotEnvFile is loaded before configuration when present
	DefaultDotEnvFile = ".env"

	// EnvPrefix prefixes environment variable overrides, e.g. MORTGAGE_MORTGAGE_TOTALPRICE
	EnvPrefix = "MORTGAGE"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)

// Cache defaults
const (
	// CacheBackendMemory keeps schedules in a process-local LRU
	CacheBackendMemory = "memory"

	// CacheBackendRedis keeps schedules in Redis
	CacheBackendRedis = "redis"

	// CacheBackendNone disables schedule caching
	CacheBackendNone = "none"

	// DefaultCacheMaxEntries bounds the in-memory LRU
	DefaultCacheMaxEntries = 512

	// DefaultCacheTTLSeconds is how long a computed schedule stays cached
	DefaultCacheTTLSeconds = 600
)

// Request limits applied before a schedule is computed for an untrusted caller.
const (
	// MaxTermYears bounds the amortization period accepted by the CLI and server
	MaxTermYears = 100

	// MaxTotalPrice bounds the purchase price accepted by the CLI and server
	MaxTotalPrice = 1e12

	// MaxInterestRate bounds the annual interest rate in percent
	MaxInterestRate = 100.0

	// MaxExistingRecords bounds the displayed schedule a client may send for merging
	MaxExistingRecords = MaxTermYears*BiWeeklyPeriodsPerYear + 1
)

// Version is reported by the CLI and the /api/version endpoint.
var Version = "dev"

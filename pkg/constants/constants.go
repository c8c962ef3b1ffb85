// Package constants provides shared constants for the design-loan-quote application.
package constants

// DateTimeLayout is the format used for quotation start dates and the due
// date column of exported schedules.
const DateTimeLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyPlaces is the number of decimal places rendered for money
	CurrencyPlaces = 2

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// MaxTermMonths caps the length of a schedule (100 years).
	MaxTermMonths = 1200
)

// Term units and interest rate bases as they appear in design records.
const (
	TermUnitMonths = "months"
	TermUnitYears  = "years"

	RateBasisMonthly = "monthly"
	RateBasisYearly  = "yearly"
)

// Validation thresholds that produce warnings rather than errors.
const (
	// WarnMonthlyRatePercent flags monthly-basis rates that look like yearly rates.
	WarnMonthlyRatePercent = 5.0

	// WarnTermMonths flags unusually long financing terms (30 years).
	WarnTermMonths = 360
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"

	// DefaultPreviewRows is the number of schedule rows shown in previews
	DefaultPreviewRows = 12

	// DefaultCurrencySymbol prefixes amounts in the pretty output
	DefaultCurrencySymbol = "₱"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default catalog configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Storage drivers
const (
	StorageDriverMemory = "memory"
	StorageDriverSQLite = "sqlite"
	StorageDriverRedis  = "redis"

	// DefaultRedisPrefix namespaces catalog keys in a shared Redis
	DefaultRedisPrefix = "loanquote:"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultRateLimitRequests is the number of public requests allowed per window per client
	DefaultRateLimitRequests = 60

	// DefaultRateLimitWindow is the refill window for the public rate limiter
	DefaultRateLimitWindow = "1m"

	// DefaultShutdownTimeoutSeconds bounds graceful shutdown
	DefaultShutdownTimeoutSeconds = 10
)

// Package constants provides shared constants for the rehabdesk application.
package constants

import "time"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// BRRRR projection constants
const (
	// AnnualAppreciationRate is the fixed yearly appreciation applied to the
	// base equity in long-term projections.
	AnnualAppreciationRate = 0.03

	// DefaultProjectionYears is the horizon used when phase 2 names none.
	DefaultProjectionYears = 15

	// DefaultMaxProjectionYears caps the projection horizon.
	DefaultMaxProjectionYears = 100

	// DefaultFinancingStrategy is the BRRRR financing strategy of a new project.
	DefaultFinancingStrategy = "cash"
)

// Flip analyzer constants
const (
	// DefaultFlipFinalStep is the last wizard step of the flip analyzer.
	DefaultFlipFinalStep = 6
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
	DefaultConfigFile = "rehabdesk.yaml"

	// EnvPrefix prefixes every environment override, e.g. REHABDESK_SERVER_ADDRESS.
	EnvPrefix = "REHABDESK"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":5000"

	// DefaultMaxBodySizeBytes is the default maximum JSON request body size (1 MB)
	DefaultMaxBodySizeBytes int64 = 1024 * 1024

	// DefaultReadHeaderTimeout limits how long the server waits for request headers.
	DefaultReadHeaderTimeout = 5 * time.Second

	// DefaultShutdownTimeout limits how long in-flight requests may drain.
	DefaultShutdownTimeout = 10 * time.Second
)

// Storage defaults
const (
	// StorageDriverMemory keeps documents in process memory.
	StorageDriverMemory = "memory"

	// StorageDriverSQLite stores documents in a local SQLite file.
	StorageDriverSQLite = "sqlite"

	// StorageDriverPostgres stores documents as JSONB rows in PostgreSQL.
	StorageDriverPostgres = "postgres"

	// DefaultSQLitePath is the default SQLite database file.
	DefaultSQLitePath = "data/rehabdesk.db"
)

// Geocoding defaults
const (
	// DefaultGeocodeBaseURL is the Google Maps API host.
	DefaultGeocodeBaseURL = "https://maps.googleapis.com"

	// DefaultGeocodeTimeout bounds one geocoding round trip.
	DefaultGeocodeTimeout = 10 * time.Second
)

package contract

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/octocred/octocred/schema"
)

// Default values for configuration.
const (
	DefaultAPIBaseURL = "https://api.github.com"
	MaxWindowDays     = 365
	MaxRepositories   = 20
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	Token      string
	APIBaseURL string

	WindowDays int
	Thresholds schema.CriteriaThresholds

	Workers    int
	Output     schema.OutputMode
	OutputFile string
	Notes      string

	HistoryBackend schema.DatabaseBackend
	HistoryConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored status labels in table output
	Width     int  // Terminal width override (0 = auto-detect)
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	Token      string `mapstructure:"token"`
	APIBaseURL string `mapstructure:"api-url"`

	WindowDays              int `mapstructure:"window-days"`
	MinStars                int `mapstructure:"min-stars"`
	MinTotalMergedPRs       int `mapstructure:"min-merged-prs"`
	MinExternalContributors int `mapstructure:"min-external-contributors"`
	MinUserMergedPRs        int `mapstructure:"min-user-prs"`

	Workers    int    `mapstructure:"workers"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Notes      string `mapstructure:"notes"`

	HistoryBackend string `mapstructure:"history-backend"`
	HistoryConnect string `mapstructure:"history-db-connect"`

	Color string `mapstructure:"color"`
	Width int    `mapstructure:"width"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// WindowStart returns the beginning of the analysis window relative to now.
func (c *Config) WindowStart(now time.Time) time.Time {
	return now.AddDate(0, 0, -c.WindowDays)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processThresholds(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.CSVBackend, schema.SQLiteBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-threshold fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.Token = input.Token
	cfg.OutputFile = input.OutputFile
	cfg.Notes = input.Notes
	cfg.Width = input.Width

	cfg.APIBaseURL = strings.TrimRight(input.APIBaseURL, "/")
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Window Validation ---
	if input.WindowDays <= 0 || input.WindowDays > MaxWindowDays {
		return fmt.Errorf("window-days must be between 1 and %d (received %d)", MaxWindowDays, input.WindowDays)
	}
	cfg.WindowDays = input.WindowDays

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be table, csv, json", input.Output)
	}

	return nil
}

// processThresholds transfers and validates the eligibility thresholds.
func processThresholds(cfg *Config, input *ConfigRawInput) error {
	thresholds := schema.CriteriaThresholds{
		Stars:                input.MinStars,
		TotalMergedPRs:       input.MinTotalMergedPRs,
		ExternalContributors: input.MinExternalContributors,
		UserMergedPRs:        input.MinUserMergedPRs,
	}

	checks := []struct {
		name  string
		value int
	}{
		{"min-stars", thresholds.Stars},
		{"min-merged-prs", thresholds.TotalMergedPRs},
		{"min-external-contributors", thresholds.ExternalContributors},
		{"min-user-prs", thresholds.UserMergedPRs},
	}
	for _, c := range checks {
		if c.value < 0 {
			return fmt.Errorf("%s cannot be negative (received %d)", c.name, c.value)
		}
	}

	cfg.Thresholds = thresholds
	return nil
}

// validateBackendConfig validates the history backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be csv, sqlite, mysql, postgresql", input.HistoryBackend)
	}
	cfg.HistoryConnect = input.HistoryConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryConnect)
}

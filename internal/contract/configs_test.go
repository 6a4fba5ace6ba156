package contract

import (
	"testing"
	"time"

	"github.com/octocred/octocred/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validRawInput returns a raw input that passes validation unchanged.
func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		WindowDays:              schema.DefaultWindowDays,
		MinStars:                schema.DefaultMinStars,
		MinTotalMergedPRs:       schema.DefaultMinTotalMergedPRs,
		MinExternalContributors: schema.DefaultMinExternalContributors,
		MinUserMergedPRs:        schema.DefaultMinUserMergedPRs,
		Workers:                 4,
		Output:                  "table",
		HistoryBackend:          "csv",
		Color:                   "yes",
	}
}

// TestProcessAndValidateDefaults checks the happy path with default inputs.
func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validRawInput()))

	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, schema.TableOut, cfg.Output)
	assert.Equal(t, schema.CSVBackend, cfg.HistoryBackend)
	assert.Equal(t, 90, cfg.WindowDays)
	assert.Equal(t, schema.DefaultThresholds(), cfg.Thresholds)
	assert.True(t, cfg.UseColors)
}

// TestProcessAndValidateErrors covers the main rejection paths.
func TestProcessAndValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{
			name:   "zero window",
			mutate: func(in *ConfigRawInput) { in.WindowDays = 0 },
		},
		{
			name:   "window too large",
			mutate: func(in *ConfigRawInput) { in.WindowDays = MaxWindowDays + 1 },
		},
		{
			name:   "zero workers",
			mutate: func(in *ConfigRawInput) { in.Workers = 0 },
		},
		{
			name:   "bad output mode",
			mutate: func(in *ConfigRawInput) { in.Output = "parquet" },
		},
		{
			name:   "negative threshold",
			mutate: func(in *ConfigRawInput) { in.MinStars = -1 },
		},
		{
			name:   "bad backend",
			mutate: func(in *ConfigRawInput) { in.HistoryBackend = "redis" },
		},
		{
			name:   "bad color value",
			mutate: func(in *ConfigRawInput) { in.Color = "maybe" },
		},
		{
			name:   "mysql without connection string",
			mutate: func(in *ConfigRawInput) { in.HistoryBackend = "mysql" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRawInput()
			tt.mutate(input)
			assert.Error(t, ProcessAndValidate(&Config{}, input))
		})
	}
}

// TestValidateDatabaseConnectionString checks per-backend connection formats.
func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"csv ignores connection string", schema.CSVBackend, "", false},
		{"sqlite allows empty path", schema.SQLiteBackend, "", false},
		{"valid mysql", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/octocred", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/octocred", true},
		{"valid postgres", schema.PostgreSQLBackend, "host=localhost dbname=octocred", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestWindowStart verifies the analysis window arithmetic.
func TestWindowStart(t *testing.T) {
	cfg := &Config{WindowDays: 90}
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), cfg.WindowStart(now))
}

// TestAPIBaseURLTrimsTrailingSlash ensures URL joining stays predictable.
func TestAPIBaseURLTrimsTrailingSlash(t *testing.T) {
	input := validRawInput()
	input.APIBaseURL = "https://ghe.example.com/api/v3/"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, "https://ghe.example.com/api/v3", cfg.APIBaseURL)
}

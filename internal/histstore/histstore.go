// Package histstore persists application history in an append-only store
// and computes historical comparisons from it. Backends cover a flat CSV
// file for zero-setup use and SQLite, MySQL and PostgreSQL for shared
// deployments.
package histstore

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/octocred/octocred/internal/contract"
	"github.com/octocred/octocred/schema"
)

// applicationsTable is the name of the SQL table for application history.
const applicationsTable = "octocred_applications"

// NewHistoryStore creates a history store for the given backend. The CSV
// backend ignores the connection string in favor of a file path; an empty
// path falls back to the default location under the home directory.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	switch backend {
	case schema.CSVBackend:
		path := connStr
		if path == "" {
			path = contract.GetHistoryCSVFilePath()
		}
		return NewCSVStore(path)

	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
		return NewSQLStore(backend, connStr)

	default:
		return nil, fmt.Errorf("unsupported history backend: %s", backend)
	}
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}

// sortRecordsNewestFirst orders records by timestamp descending in place.
func sortRecordsNewestFirst(records []schema.AnalysisRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
}

// summarizeRecords builds the shared status fields from a full record list.
func summarizeRecords(status *schema.HistoryStatus, records []schema.AnalysisRecord) {
	status.TotalRecords = len(records)
	applicants := make(map[string]struct{})
	for _, r := range records {
		applicants[strings.ToLower(r.Username)] = struct{}{}
		if status.LastRecordTime.IsZero() || r.Timestamp.After(status.LastRecordTime) {
			status.LastRecordTime = r.Timestamp
		}
		if status.OldestRecordTime.IsZero() || r.Timestamp.Before(status.OldestRecordTime) {
			status.OldestRecordTime = r.Timestamp
		}
	}
	status.UniqueApplicants = len(applicants)
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}

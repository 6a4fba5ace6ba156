package histstore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/octocred/octocred/internal/contract"
	"github.com/octocred/octocred/schema"
)

// sqlColumns is the column list shared by all SQL backends, in the same
// order as the CSV layout.
const sqlColumns = `id, timestamp, username, repositories,
	application_type, overall_status, credit_recommendation,
	stars_status, stars_actual, stars_percentage,
	write_access_status, write_access_actual, write_access_percentage,
	total_merged_prs_status, total_merged_prs_actual, total_merged_prs_percentage,
	external_contributors_status, external_contributors_actual, external_contributors_percentage,
	user_merged_prs_status, user_merged_prs_actual, user_merged_prs_percentage,
	notes`

// SQLStore implements the HistoryStore interface on a relational database.
type SQLStore struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.HistoryStore = &SQLStore{} // Compile-time check

// NewSQLStore opens a database connection for the backend and ensures the
// application history table exists.
func NewSQLStore(backend schema.DatabaseBackend, connStr string) (*SQLStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetHistoryDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}

	default:
		return nil, fmt.Errorf("unsupported SQL backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Check that the server is running and credentials are valid", backend, err)
	}

	if err := createApplicationsTable(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}

	return &SQLStore{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createApplicationsTable creates the application history table.
func createApplicationsTable(db *sql.DB, backend schema.DatabaseBackend) error {
	_, err := db.Exec(getCreateApplicationsQuery(backend))
	return err
}

// getCreateApplicationsQuery returns the CREATE TABLE query for the backend.
// Records are keyed by (username, timestamp) so one applicant can hold many
// applications over time.
func getCreateApplicationsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(applicationsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id VARCHAR(255) NOT NULL,
				timestamp DATETIME(6) NOT NULL,
				username VARCHAR(255) NOT NULL,
				repositories TEXT NOT NULL,
				application_type VARCHAR(50) NOT NULL,
				overall_status VARCHAR(50) NOT NULL,
				credit_recommendation INT NOT NULL,
				stars_status VARCHAR(50) NOT NULL,
				stars_actual DOUBLE NOT NULL,
				stars_percentage INT NOT NULL,
				write_access_status VARCHAR(50) NOT NULL,
				write_access_actual DOUBLE NOT NULL,
				write_access_percentage INT NOT NULL,
				total_merged_prs_status VARCHAR(50) NOT NULL,
				total_merged_prs_actual DOUBLE NOT NULL,
				total_merged_prs_percentage INT NOT NULL,
				external_contributors_status VARCHAR(50) NOT NULL,
				external_contributors_actual DOUBLE NOT NULL,
				external_contributors_percentage INT NOT NULL,
				user_merged_prs_status VARCHAR(50) NOT NULL,
				user_merged_prs_actual DOUBLE NOT NULL,
				user_merged_prs_percentage INT NOT NULL,
				notes TEXT,
				PRIMARY KEY (username, timestamp)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT NOT NULL,
				timestamp TIMESTAMPTZ NOT NULL,
				username TEXT NOT NULL,
				repositories TEXT NOT NULL,
				application_type TEXT NOT NULL,
				overall_status TEXT NOT NULL,
				credit_recommendation INT NOT NULL,
				stars_status TEXT NOT NULL,
				stars_actual DOUBLE PRECISION NOT NULL,
				stars_percentage INT NOT NULL,
				write_access_status TEXT NOT NULL,
				write_access_actual DOUBLE PRECISION NOT NULL,
				write_access_percentage INT NOT NULL,
				total_merged_prs_status TEXT NOT NULL,
				total_merged_prs_actual DOUBLE PRECISION NOT NULL,
				total_merged_prs_percentage INT NOT NULL,
				external_contributors_status TEXT NOT NULL,
				external_contributors_actual DOUBLE PRECISION NOT NULL,
				external_contributors_percentage INT NOT NULL,
				user_merged_prs_status TEXT NOT NULL,
				user_merged_prs_actual DOUBLE PRECISION NOT NULL,
				user_merged_prs_percentage INT NOT NULL,
				notes TEXT,
				PRIMARY KEY (username, timestamp)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT NOT NULL,
				timestamp TEXT NOT NULL,
				username TEXT NOT NULL,
				repositories TEXT NOT NULL,
				application_type TEXT NOT NULL,
				overall_status TEXT NOT NULL,
				credit_recommendation INTEGER NOT NULL,
				stars_status TEXT NOT NULL,
				stars_actual REAL NOT NULL,
				stars_percentage INTEGER NOT NULL,
				write_access_status TEXT NOT NULL,
				write_access_actual REAL NOT NULL,
				write_access_percentage INTEGER NOT NULL,
				total_merged_prs_status TEXT NOT NULL,
				total_merged_prs_actual REAL NOT NULL,
				total_merged_prs_percentage INTEGER NOT NULL,
				external_contributors_status TEXT NOT NULL,
				external_contributors_actual REAL NOT NULL,
				external_contributors_percentage INTEGER NOT NULL,
				user_merged_prs_status TEXT NOT NULL,
				user_merged_prs_actual REAL NOT NULL,
				user_merged_prs_percentage INTEGER NOT NULL,
				notes TEXT,
				PRIMARY KEY (username, timestamp)
			);
		`, quotedTableName)
	}
}

// Append inserts one record.
func (ss *SQLStore) Append(record schema.AnalysisRecord) error {
	quotedTableName := quoteTableName(applicationsTable, ss.backend)

	var placeholders string
	if ss.backend == schema.PostgreSQLBackend {
		parts := make([]string, 23)
		for i := range parts {
			parts[i] = fmt.Sprintf("$%d", i+1)
		}
		placeholders = strings.Join(parts, ", ")
	} else { // SQLite and MySQL
		placeholders = strings.TrimSuffix(strings.Repeat("?, ", 23), ", ")
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, quotedTableName, sqlColumns, placeholders)

	args := []any{
		record.ID,
		formatTime(record.Timestamp, ss.backend),
		record.Username,
		schema.JoinRepositories(record.Repositories),
		string(record.ApplicationType),
		string(record.OverallStatus),
		record.CreditRecommendation,
	}
	for _, snap := range []schema.CriterionSnapshot{
		record.Stars, record.WriteAccess, record.TotalMergedPRs,
		record.ExternalContributors, record.UserMergedPRs,
	} {
		args = append(args, string(snap.Status), snap.Actual, snap.Percentage)
	}
	args = append(args, record.Notes)

	if _, err := ss.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert history record: %w", err)
	}
	return nil
}

// QueryByIdentity returns all records for the username, newest first. The
// match is case-insensitive.
func (ss *SQLStore) QueryByIdentity(username string) ([]schema.AnalysisRecord, error) {
	quotedTableName := quoteTableName(applicationsTable, ss.backend)

	var query string
	if ss.backend == schema.PostgreSQLBackend {
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(username) = LOWER($1) ORDER BY timestamp DESC`, sqlColumns, quotedTableName)
	} else { // SQLite and MySQL
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(username) = LOWER(?) ORDER BY timestamp DESC`, sqlColumns, quotedTableName)
	}

	rows, err := ss.db.Query(query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for %s: %w", username, err)
	}
	defer func() { _ = rows.Close() }()

	return ss.scanRecords(rows)
}

// QueryAll returns every record in the store, newest first.
func (ss *SQLStore) QueryAll() ([]schema.AnalysisRecord, error) {
	quotedTableName := quoteTableName(applicationsTable, ss.backend)
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY timestamp DESC`, sqlColumns, quotedTableName)

	rows, err := ss.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return ss.scanRecords(rows)
}

// scanRecords decodes the shared column layout. Malformed rows are skipped
// with a warning so one bad row never hides the rest.
func (ss *SQLStore) scanRecords(rows *sql.Rows) ([]schema.AnalysisRecord, error) {
	var records []schema.AnalysisRecord

	for rows.Next() {
		var record schema.AnalysisRecord
		var repositories string
		var appType, overall string
		var snapStatus [5]string
		var notes sql.NullString

		dest := []any{
			&record.ID, nil, &record.Username, &repositories,
			&appType, &overall, &record.CreditRecommendation,
			&snapStatus[0], &record.Stars.Actual, &record.Stars.Percentage,
			&snapStatus[1], &record.WriteAccess.Actual, &record.WriteAccess.Percentage,
			&snapStatus[2], &record.TotalMergedPRs.Actual, &record.TotalMergedPRs.Percentage,
			&snapStatus[3], &record.ExternalContributors.Actual, &record.ExternalContributors.Percentage,
			&snapStatus[4], &record.UserMergedPRs.Actual, &record.UserMergedPRs.Percentage,
			&notes,
		}

		// SQLite stores times as RFC3339Nano text; the others are native.
		var timestampStr string
		if ss.backend == schema.SQLiteBackend {
			dest[1] = &timestampStr
		} else {
			dest[1] = &record.Timestamp
		}

		if err := rows.Scan(dest...); err != nil {
			contract.LogWarn("Skipping malformed history row", err)
			continue
		}
		if ss.backend == schema.SQLiteBackend {
			ts, err := time.Parse(time.RFC3339Nano, timestampStr)
			if err != nil {
				contract.LogWarn("Skipping history row with bad timestamp", err)
				continue
			}
			record.Timestamp = ts
		}

		record.Repositories = schema.SplitRepositories(repositories)
		record.ApplicationType = schema.ApplicationType(appType)
		record.OverallStatus = schema.Status(overall)
		record.Stars.Status = schema.Status(snapStatus[0])
		record.WriteAccess.Status = schema.Status(snapStatus[1])
		record.TotalMergedPRs.Status = schema.Status(snapStatus[2])
		record.ExternalContributors.Status = schema.Status(snapStatus[3])
		record.UserMergedPRs.Status = schema.Status(snapStatus[4])
		record.Notes = notes.String

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}
	return records, nil
}

// Status returns status information about the history store.
func (ss *SQLStore) Status() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:   string(ss.backend),
		Connected: ss.db != nil,
	}

	records, err := ss.QueryAll()
	if err != nil {
		return status, err
	}
	summarizeRecords(&status, records)
	return status, nil
}

// Clear removes all records but keeps the table.
func (ss *SQLStore) Clear() error {
	quotedTableName := quoteTableName(applicationsTable, ss.backend)
	if _, err := ss.db.Exec(fmt.Sprintf("DELETE FROM %s", quotedTableName)); err != nil {
		return fmt.Errorf("failed to clear history table: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (ss *SQLStore) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}

package histstore

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/octocred/octocred/internal/contract"
	"github.com/octocred/octocred/schema"
)

// csvHeader is the flat column layout of the CSV backend. The per-dimension
// triples follow the canonical dimension order.
var csvHeader = []string{
	"id", "timestamp", "username", "repositories",
	"application_type", "overall_status", "credit_recommendation",
	"stars_status", "stars_actual", "stars_percentage",
	"write_access_status", "write_access_actual", "write_access_percentage",
	"total_merged_prs_status", "total_merged_prs_actual", "total_merged_prs_percentage",
	"external_contributors_status", "external_contributors_actual", "external_contributors_percentage",
	"user_merged_prs_status", "user_merged_prs_actual", "user_merged_prs_percentage",
	"notes",
}

// CSVStore implements the HistoryStore interface on a flat append-only file.
// A process-level mutex plus O_APPEND writes keep concurrent appends from
// interleaving rows.
type CSVStore struct {
	mu   sync.Mutex
	path string
}

var _ contract.HistoryStore = &CSVStore{} // Compile-time check

// NewCSVStore opens or creates the history file and ensures the header row.
func NewCSVStore(path string) (*CSVStore, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open history file %q: %w. Check that the directory is writable", path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat history file %q: %w", path, err)
	}
	if info.Size() == 0 {
		w := csv.NewWriter(f)
		if err := w.Write(csvHeader); err != nil {
			return nil, fmt.Errorf("failed to write history header: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("failed to write history header: %w", err)
		}
	}

	return &CSVStore{path: path}, nil
}

// Append adds one record to the end of the file.
func (cs *CSVStore) Append(record schema.AnalysisRecord) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	f, err := os.OpenFile(cs.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history file for append: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(encodeCSVRow(record)); err != nil {
		return fmt.Errorf("failed to append history record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to append history record: %w", err)
	}
	return nil
}

// QueryByIdentity returns all records for the username, newest first. The
// match is case-insensitive.
func (cs *CSVStore) QueryByIdentity(username string) ([]schema.AnalysisRecord, error) {
	all, err := cs.QueryAll()
	if err != nil {
		return nil, err
	}

	var matched []schema.AnalysisRecord
	for _, r := range all {
		if strings.EqualFold(r.Username, username) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// QueryAll returns every record in the file, newest first. Malformed rows
// are skipped with a warning so one bad row never hides the rest.
func (cs *CSVStore) QueryAll() ([]schema.AnalysisRecord, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	f, err := os.Open(cs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // row length is validated during decode

	var records []schema.AnalysisRecord
	for line := 0; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping unreadable history row %d", line+1), err)
			continue
		}
		if line == 0 && len(row) > 0 && row[0] == "id" {
			continue // header
		}

		record, err := decodeCSVRow(row)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping malformed history row %d", line+1), err)
			continue
		}
		records = append(records, record)
	}

	sortRecordsNewestFirst(records)
	return records, nil
}

// Status returns status information about the history file.
func (cs *CSVStore) Status() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:   string(schema.CSVBackend),
		Connected: true,
	}

	records, err := cs.QueryAll()
	if err != nil {
		return status, err
	}
	summarizeRecords(&status, records)
	return status, nil
}

// Clear truncates the file back to just the header row.
func (cs *CSVStore) Clear() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	f, err := os.OpenFile(cs.path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to truncate history file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to rewrite history header: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Close is a no-op for the CSV backend; file handles are per-operation.
func (cs *CSVStore) Close() error {
	return nil
}

// encodeCSVRow flattens a record into the column layout of csvHeader.
func encodeCSVRow(record schema.AnalysisRecord) []string {
	row := []string{
		record.ID,
		record.Timestamp.Format(time.RFC3339Nano),
		record.Username,
		schema.JoinRepositories(record.Repositories),
		string(record.ApplicationType),
		string(record.OverallStatus),
		strconv.Itoa(record.CreditRecommendation),
	}
	for _, snap := range []schema.CriterionSnapshot{
		record.Stars, record.WriteAccess, record.TotalMergedPRs,
		record.ExternalContributors, record.UserMergedPRs,
	} {
		row = append(row,
			string(snap.Status),
			strconv.FormatFloat(snap.Actual, 'f', -1, 64),
			strconv.Itoa(snap.Percentage),
		)
	}
	return append(row, record.Notes)
}

// decodeCSVRow parses one data row back into a record.
func decodeCSVRow(row []string) (schema.AnalysisRecord, error) {
	var record schema.AnalysisRecord

	if len(row) != len(csvHeader) {
		return record, fmt.Errorf("expected %d columns, got %d", len(csvHeader), len(row))
	}

	ts, err := time.Parse(time.RFC3339Nano, row[1])
	if err != nil {
		return record, fmt.Errorf("invalid timestamp %q: %w", row[1], err)
	}
	credit, err := strconv.Atoi(row[6])
	if err != nil {
		return record, fmt.Errorf("invalid credit %q: %w", row[6], err)
	}

	record.ID = row[0]
	record.Timestamp = ts
	record.Username = row[2]
	record.Repositories = schema.SplitRepositories(row[3])
	record.ApplicationType = schema.ApplicationType(row[4])
	record.OverallStatus = schema.Status(row[5])
	record.CreditRecommendation = credit
	record.Notes = row[22]

	snaps := []*schema.CriterionSnapshot{
		&record.Stars, &record.WriteAccess, &record.TotalMergedPRs,
		&record.ExternalContributors, &record.UserMergedPRs,
	}
	for i, snap := range snaps {
		base := 7 + i*3
		actual, err := strconv.ParseFloat(row[base+1], 64)
		if err != nil {
			return record, fmt.Errorf("invalid actual %q: %w", row[base+1], err)
		}
		percentage, err := strconv.Atoi(row[base+2])
		if err != nil {
			return record, fmt.Errorf("invalid percentage %q: %w", row[base+2], err)
		}
		snap.Status = schema.Status(row[base])
		snap.Actual = actual
		snap.Percentage = percentage
	}

	return record, nil
}

package histstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/octocred/octocred/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRecord builds a fully populated record for store tests.
func newTestRecord(username string, ts time.Time, overall schema.Status) schema.AnalysisRecord {
	return schema.AnalysisRecord{
		ID:                   schema.NewRecordID(username, ts),
		Timestamp:            ts,
		Username:             username,
		Repositories:         []string{"octocat/hello-world", "octocat/spoon-knife"},
		ApplicationType:      schema.InitialApplication,
		OverallStatus:        overall,
		CreditRecommendation: 300,
		Stars:                schema.CriterionSnapshot{Status: schema.ExceedsStatus, Actual: 250, Percentage: 250},
		WriteAccess:          schema.CriterionSnapshot{Status: schema.MeetsStatus, Actual: 1, Percentage: 100},
		TotalMergedPRs:       schema.CriterionSnapshot{Status: schema.MeetsStatus, Actual: 25, Percentage: 125},
		ExternalContributors: schema.CriterionSnapshot{Status: schema.MeetsStatus, Actual: 3, Percentage: 150},
		UserMergedPRs:        schema.CriterionSnapshot{Status: schema.FallsShortStatus, Actual: 2, Percentage: 40},
		Notes:                "test notes",
	}
}

func newTestCSVStore(t *testing.T) *CSVStore {
	t.Helper()
	store, err := NewCSVStore(filepath.Join(t.TempDir(), "history.csv"))
	require.NoError(t, err)
	return store
}

func TestCSVStoreRoundTrip(t *testing.T) {
	store := newTestCSVStore(t)

	ts := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	record := newTestRecord("octocat", ts, schema.MeetsStatus)
	require.NoError(t, store.Append(record))

	records, err := store.QueryAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record, records[0])
}

func TestCSVStoreQueryByIdentity(t *testing.T) {
	store := newTestCSVStore(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(newTestRecord("alice", base, schema.MeetsStatus)))
	require.NoError(t, store.Append(newTestRecord("bob", base.Add(time.Hour), schema.FallsShortStatus)))
	require.NoError(t, store.Append(newTestRecord("alice", base.Add(2*time.Hour), schema.ExceedsStatus)))

	t.Run("matches are newest first", func(t *testing.T) {
		records, err := store.QueryByIdentity("alice")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, schema.ExceedsStatus, records[0].OverallStatus)
		assert.Equal(t, schema.MeetsStatus, records[1].OverallStatus)
	})

	t.Run("match is case-insensitive", func(t *testing.T) {
		records, err := store.QueryByIdentity("ALICE")
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("unknown applicant is empty", func(t *testing.T) {
		records, err := store.QueryByIdentity("mallory")
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestCSVStoreSkipsMalformedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	store, err := NewCSVStore(path)
	require.NoError(t, err)

	ts := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(newTestRecord("octocat", ts, schema.MeetsStatus)))

	// Corrupt the file with a short row and a bad timestamp row.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("short,row\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	records, err := store.QueryAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "octocat", records[0].Username)
}

func TestCSVStoreClear(t *testing.T) {
	store := newTestCSVStore(t)

	ts := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(newTestRecord("octocat", ts, schema.MeetsStatus)))
	require.NoError(t, store.Clear())

	records, err := store.QueryAll()
	require.NoError(t, err)
	assert.Empty(t, records)

	// The store stays usable after a clear.
	require.NoError(t, store.Append(newTestRecord("octocat", ts.Add(time.Hour), schema.ExceedsStatus)))
	records, err = store.QueryAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCSVStoreStatus(t *testing.T) {
	store := newTestCSVStore(t)

	t.Run("empty store", func(t *testing.T) {
		status, err := store.Status()
		require.NoError(t, err)
		assert.Equal(t, string(schema.CSVBackend), status.Backend)
		assert.True(t, status.Connected)
		assert.Zero(t, status.TotalRecords)
		assert.Zero(t, status.UniqueApplicants)
	})

	t.Run("populated store", func(t *testing.T) {
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, store.Append(newTestRecord("alice", base, schema.MeetsStatus)))
		require.NoError(t, store.Append(newTestRecord("Alice", base.Add(time.Hour), schema.MeetsStatus)))
		require.NoError(t, store.Append(newTestRecord("bob", base.Add(2*time.Hour), schema.FallsShortStatus)))

		status, err := store.Status()
		require.NoError(t, err)
		assert.Equal(t, 3, status.TotalRecords)
		assert.Equal(t, 2, status.UniqueApplicants)
		assert.Equal(t, base.Add(2*time.Hour), status.LastRecordTime)
		assert.Equal(t, base, status.OldestRecordTime)
	})
}

func TestCSVStoreReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")

	store, err := NewCSVStore(path)
	require.NoError(t, err)
	ts := time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(newTestRecord("octocat", ts, schema.MeetsStatus)))
	require.NoError(t, store.Close())

	reopened, err := NewCSVStore(path)
	require.NoError(t, err)
	records, err := reopened.QueryAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

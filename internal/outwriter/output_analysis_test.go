package outwriter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/octocred/octocred/internal/contract"
	"github.com/octocred/octocred/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestResult builds a passing analysis result for output tests.
func newTestResult() *schema.AnalysisResult {
	result := &schema.AnalysisResult{
		Username:             "octocat",
		Repositories:         []string{"octocat/hello-world"},
		Timestamp:            time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
		OverallStatus:        schema.MeetsStatus,
		CreditRecommendation: schema.MeetsCredit,
	}
	for i, c := range result.Criteria.All() {
		c.Name = []string{
			"Repository Stars", "Maintainer/Write Access", "Total Merged PRs (90 days)",
			"External Contributors", "User Merged PRs (90 days)",
		}[i]
		c.Required = 1
		c.Actual = 1
		c.Percentage = 100
		c.Status = schema.MeetsStatus
	}
	result.Summary = result.Criteria.Summarize()
	return result
}

func plainConfig() *contract.Config {
	return &contract.Config{
		Workers:        4,
		Output:         schema.TableOut,
		HistoryBackend: schema.CSVBackend,
	}
}

func TestWriteAnalysisTable(t *testing.T) {
	var buf bytes.Buffer
	hist := &schema.HistoricalAnalysis{IsFirstApplication: true, TotalApplications: 1}

	err := writeAnalysisTable(&buf, newTestResult(), hist, plainConfig(), 42*time.Millisecond)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Eligibility analysis for octocat")
	assert.Contains(t, out, "Repository Stars")
	assert.Contains(t, out, "Maintainer/Write Access")
	assert.Contains(t, out, "Overall: Meets (5/5 criteria passed, score 100%)")
	assert.Contains(t, out, "Credit recommendation: $300")
	assert.Contains(t, out, "History: first application")
	assert.Contains(t, out, "4 workers")
}

func TestWriteAnalysisTableRenewalHistory(t *testing.T) {
	var buf bytes.Buffer
	hist := &schema.HistoricalAnalysis{
		TotalApplications:         3,
		DaysSinceLastApplication:  45,
		StatusChange:              schema.ImprovedChange,
		StarsTrend:                schema.UpTrend,
		MergedPRsTrend:            schema.SameTrend,
		ExternalContributorsTrend: schema.DownTrend,
		UserMergedPRsTrend:        schema.SameTrend,
	}

	err := writeAnalysisTable(&buf, newTestResult(), hist, plainConfig(), time.Millisecond)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "application 3, 45 days since last, status improved")
	assert.Contains(t, out, "stars up")
	assert.Contains(t, out, "external contributors down")
}

func TestWriteAnalysisCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeAnalysisCSV(&buf, newTestResult()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6, "header plus one row per dimension")
	assert.True(t, strings.HasPrefix(lines[0], "username,repositories,criterion"))
	assert.Contains(t, lines[1], "Repository Stars")
	assert.Contains(t, lines[1], "Meets")
}

func TestWriteBatchTable(t *testing.T) {
	var buf bytes.Buffer
	rows := []BatchRow{
		{Username: "alice", Repositories: []string{"octocat/hello-world"}, OverallStatus: schema.ExceedsStatus, CreditRecommendation: 500},
		{Username: "bob", Err: errors.New("no repositories could be analyzed")},
	}

	err := writeBatchTable(&buf, rows, plainConfig(), 10*time.Millisecond)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "$500")
	assert.Contains(t, out, "error")
	assert.Contains(t, out, "Evaluated 2 applicants (1 failed)")
}

func TestWriteBatchCSV(t *testing.T) {
	var buf bytes.Buffer
	rows := []BatchRow{
		{Username: "alice", OverallStatus: schema.MeetsStatus, CreditRecommendation: 300},
		{Username: "bob", Err: errors.New("boom")},
	}

	require.NoError(t, writeBatchCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Meets")
	assert.Contains(t, lines[2], "boom")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 20))
	assert.Equal(t, "exactly-ten", truncate("exactly-ten", 11))
	assert.Equal(t, "long-na...", truncate("long-name-that-overflows", 10))
	assert.Equal(t, "untouched", truncate("untouched", 3), "tiny widths disable truncation")
}

func TestFormatActual(t *testing.T) {
	assert.Equal(t, "100", formatActual(100))
	assert.Equal(t, "0", formatActual(0))
	assert.Equal(t, "1.5", formatActual(1.5))
}

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCriteriaSetAll verifies the canonical dimension order.
func TestCriteriaSetAll(t *testing.T) {
	cs := CriteriaSet{
		Stars:                CriterionResult{Name: "Repository Stars"},
		WriteAccess:          CriterionResult{Name: "Maintainer/Write Access"},
		TotalMergedPRs:       CriterionResult{Name: "Total Merged PRs"},
		ExternalContributors: CriterionResult{Name: "External Contributors"},
		UserMergedPRs:        CriterionResult{Name: "User Merged PRs"},
	}

	all := cs.All()
	assert.Len(t, all, 5)
	assert.Equal(t, "Repository Stars", all[0].Name)
	assert.Equal(t, "User Merged PRs", all[4].Name)

	// Mutations through the returned pointers must land on the set itself.
	all[0].Status = ExceedsStatus
	assert.Equal(t, ExceedsStatus, cs.Stars.Status)
}

// TestSummarize counts passing dimensions and derives the score.
func TestSummarize(t *testing.T) {
	cs := CriteriaSet{
		Stars:                CriterionResult{Status: ExceedsStatus},
		WriteAccess:          CriterionResult{Status: MeetsStatus},
		TotalMergedPRs:       CriterionResult{Status: FallsShortStatus},
		ExternalContributors: CriterionResult{Status: MeetsStatus},
		UserMergedPRs:        CriterionResult{Status: FallsShortStatus},
	}

	assert.Equal(t, Summary{Passed: 3, Total: 5, Score: 60}, cs.Summarize())
}

// TestDefaultThresholds pins the standard grant thresholds.
func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()
	assert.Equal(t, 100, th.Stars)
	assert.Equal(t, 20, th.TotalMergedPRs)
	assert.Equal(t, 2, th.ExternalContributors)
	assert.Equal(t, 5, th.UserMergedPRs)
}

// TestRepositoryFullName checks the owner/name rendering.
func TestRepositoryFullName(t *testing.T) {
	repo := Repository{Owner: "golang", Name: "go"}
	assert.Equal(t, "golang/go", repo.FullName())
}

// TestValidMaps ensures the validation maps cover the declared constants.
func TestValidMaps(t *testing.T) {
	assert.Contains(t, ValidOutputModes, TableOut)
	assert.Contains(t, ValidDatabaseBackends, CSVBackend)
	assert.Contains(t, ValidDatabaseBackends, PostgreSQLBackend)
	assert.Contains(t, ValidStatuses, FallsShortStatus)
	assert.NotContains(t, ValidOutputModes, OutputMode("parquet"))
}

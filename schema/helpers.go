package schema

import (
	"fmt"
	"strings"
	"time"
)

// RepositorySeparator joins multiple repository names into one flat column.
const RepositorySeparator = ";"

// NewRecordID builds the identifier for an application record from the
// applicant and the analysis time.
func NewRecordID(username string, ts time.Time) string {
	return fmt.Sprintf("%s_%d", username, ts.UnixMilli())
}

// JoinRepositories flattens a repository list for flat encodings.
func JoinRepositories(repos []string) string {
	return strings.Join(repos, RepositorySeparator)
}

// SplitRepositories reverses JoinRepositories, dropping empty entries.
func SplitRepositories(s string) []string {
	if s == "" {
		return nil
	}
	var repos []string
	for part := range strings.SplitSeq(s, RepositorySeparator) {
		part = strings.TrimSpace(part)
		if part != "" {
			repos = append(repos, part)
		}
	}
	return repos
}

// BoolToActual coerces a boolean dimension to its numeric actual value.
func BoolToActual(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// SnapshotOf converts a scored criterion to its stored form.
func SnapshotOf(c CriterionResult) CriterionSnapshot {
	return CriterionSnapshot{
		Status:     c.Status,
		Actual:     c.Actual,
		Percentage: c.Percentage,
	}
}

// RecordFromResult converts a finished analysis into an application record.
// The application type is decided by the caller, which knows whether prior
// history exists.
func RecordFromResult(result *AnalysisResult, appType ApplicationType, notes string) AnalysisRecord {
	return AnalysisRecord{
		ID:                   NewRecordID(result.Username, result.Timestamp),
		Timestamp:            result.Timestamp,
		Username:             result.Username,
		Repositories:         result.Repositories,
		ApplicationType:      appType,
		OverallStatus:        result.OverallStatus,
		CreditRecommendation: result.CreditRecommendation,
		Stars:                SnapshotOf(result.Criteria.Stars),
		WriteAccess:          SnapshotOf(result.Criteria.WriteAccess),
		TotalMergedPRs:       SnapshotOf(result.Criteria.TotalMergedPRs),
		ExternalContributors: SnapshotOf(result.Criteria.ExternalContributors),
		UserMergedPRs:        SnapshotOf(result.Criteria.UserMergedPRs),
		Notes:                notes,
	}
}

package histstore

import (
	"github.com/octocred/octocred/schema"
)

// ComputeHistoricalAnalysis compares the current application against the
// applicant's prior records. History is expected newest first, as returned
// by QueryByIdentity, and must not include the current record. The
// computation is read-only.
func ComputeHistoricalAnalysis(current schema.AnalysisRecord, history []schema.AnalysisRecord) schema.HistoricalAnalysis {
	if len(history) == 0 {
		return schema.HistoricalAnalysis{
			IsFirstApplication:        true,
			TotalApplications:         1,
			StatusChange:              schema.FirstApplicationChange,
			StarsTrend:                schema.SameTrend,
			MergedPRsTrend:            schema.SameTrend,
			ExternalContributorsTrend: schema.SameTrend,
			UserMergedPRsTrend:        schema.SameTrend,
		}
	}

	previous := history[0]
	days := int(current.Timestamp.Sub(previous.Timestamp).Hours() / 24)

	return schema.HistoricalAnalysis{
		IsFirstApplication:        false,
		TotalApplications:         len(history) + 1,
		DaysSinceLastApplication:  days,
		StatusChange:              compareStatus(current.OverallStatus, previous.OverallStatus),
		StarsTrend:                compareActual(current.Stars.Actual, previous.Stars.Actual),
		MergedPRsTrend:            compareActual(current.TotalMergedPRs.Actual, previous.TotalMergedPRs.Actual),
		ExternalContributorsTrend: compareActual(current.ExternalContributors.Actual, previous.ExternalContributors.Actual),
		UserMergedPRsTrend:        compareActual(current.UserMergedPRs.Actual, previous.UserMergedPRs.Actual),
	}
}

// compareStatus ranks the overall statuses and reports the direction of
// change between two applications.
func compareStatus(current, previous schema.Status) schema.StatusChange {
	switch {
	case schema.StatusRank(current) > schema.StatusRank(previous):
		return schema.ImprovedChange
	case schema.StatusRank(current) < schema.StatusRank(previous):
		return schema.DeclinedChange
	default:
		return schema.SameChange
	}
}

// compareActual reports the direction of change of a numeric dimension.
func compareActual(current, previous float64) schema.Trend {
	switch {
	case current > previous:
		return schema.UpTrend
	case current < previous:
		return schema.DownTrend
	default:
		return schema.SameTrend
	}
}

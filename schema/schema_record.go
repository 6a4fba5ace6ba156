package schema

import "time"

// CriterionSnapshot is the compact per-dimension view stored with each
// application record.
type CriterionSnapshot struct {
	Status     Status  `json:"status"`
	Actual     float64 `json:"actual"`
	Percentage int     `json:"percentage"`
}

// AnalysisRecord is one row of application history. Field order mirrors the
// flat column layout used by the CSV backend.
type AnalysisRecord struct {
	ID                   string          `json:"id"`
	Timestamp            time.Time       `json:"timestamp"`
	Username             string          `json:"username"`
	Repositories         []string        `json:"repositories"`
	ApplicationType      ApplicationType `json:"application_type"`
	OverallStatus        Status          `json:"overall_status"`
	CreditRecommendation int             `json:"credit_recommendation"`

	Stars                CriterionSnapshot `json:"stars"`
	WriteAccess          CriterionSnapshot `json:"write_access"`
	TotalMergedPRs       CriterionSnapshot `json:"total_merged_prs"`
	ExternalContributors CriterionSnapshot `json:"external_contributors"`
	UserMergedPRs        CriterionSnapshot `json:"user_merged_prs"`

	Notes string `json:"notes,omitempty"`
}

// HistoricalAnalysis compares the current application to the applicant's
// prior history. It is computed on demand and never persisted.
type HistoricalAnalysis struct {
	IsFirstApplication       bool         `json:"is_first_application"`
	TotalApplications        int          `json:"total_applications"`
	DaysSinceLastApplication int          `json:"days_since_last_application"`
	StatusChange             StatusChange `json:"status_change"`

	StarsTrend                Trend `json:"stars_trend"`
	MergedPRsTrend            Trend `json:"merged_prs_trend"`
	ExternalContributorsTrend Trend `json:"external_contributors_trend"`
	UserMergedPRsTrend        Trend `json:"user_merged_prs_trend"`
}

// HistoryStatus represents the status of the history store.
type HistoryStatus struct {
	Backend          string    `json:"backend"`
	Connected        bool      `json:"connected"`
	TotalRecords     int       `json:"total_records"`
	UniqueApplicants int       `json:"unique_applicants"`
	LastRecordTime   time.Time `json:"last_record_time"`
	OldestRecordTime time.Time `json:"oldest_record_time"`
}

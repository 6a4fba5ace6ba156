// Package parquet provides data structures and functions for exporting
// application history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/octocred/octocred/schema"
	"github.com/parquet-go/parquet-go"
)

// ApplicationRecord represents one stored application in a columnar-friendly
// flat layout. This struct maps to the octocred_applications table.
type ApplicationRecord struct {
	// ID is the unique identifier of the application record
	ID string `parquet:"id,snappy"`

	// Timestamp is when the evaluation ran (stored as TIMESTAMP with nanosecond precision)
	Timestamp time.Time `parquet:"timestamp,snappy"`

	// Username is the applicant's login
	Username string `parquet:"username,snappy"`

	// Repositories is the semicolon-joined list of evaluated repositories
	Repositories string `parquet:"repositories,snappy"`

	// ApplicationType is either initial or renewal
	ApplicationType string `parquet:"application_type,snappy"`

	// OverallStatus is the final evaluation outcome
	OverallStatus string `parquet:"overall_status,snappy"`

	// CreditRecommendation is the recommended credit in dollars
	CreditRecommendation int32 `parquet:"credit_recommendation,snappy"`

	// Per-dimension snapshots, flattened to (status, actual, percentage) triples
	StarsStatus                    string  `parquet:"stars_status,snappy"`
	StarsActual                    float64 `parquet:"stars_actual,snappy"`
	StarsPercentage                int32   `parquet:"stars_percentage,snappy"`
	WriteAccessStatus              string  `parquet:"write_access_status,snappy"`
	WriteAccessActual              float64 `parquet:"write_access_actual,snappy"`
	WriteAccessPercentage          int32   `parquet:"write_access_percentage,snappy"`
	TotalMergedPRsStatus           string  `parquet:"total_merged_prs_status,snappy"`
	TotalMergedPRsActual           float64 `parquet:"total_merged_prs_actual,snappy"`
	TotalMergedPRsPercentage       int32   `parquet:"total_merged_prs_percentage,snappy"`
	ExternalContributorsStatus     string  `parquet:"external_contributors_status,snappy"`
	ExternalContributorsActual     float64 `parquet:"external_contributors_actual,snappy"`
	ExternalContributorsPercentage int32   `parquet:"external_contributors_percentage,snappy"`
	UserMergedPRsStatus            string  `parquet:"user_merged_prs_status,snappy"`
	UserMergedPRsActual            float64 `parquet:"user_merged_prs_actual,snappy"`
	UserMergedPRsPercentage        int32   `parquet:"user_merged_prs_percentage,snappy"`

	// Notes holds reviewer remarks attached at evaluation time (nullable)
	Notes *string `parquet:"notes,optional,snappy"`
}

// ConvertAnalysisRecords flattens stored records into the Parquet layout.
func ConvertAnalysisRecords(records []schema.AnalysisRecord) []ApplicationRecord {
	out := make([]ApplicationRecord, 0, len(records))
	for _, r := range records {
		pr := ApplicationRecord{
			ID:                             r.ID,
			Timestamp:                      r.Timestamp,
			Username:                       r.Username,
			Repositories:                   schema.JoinRepositories(r.Repositories),
			ApplicationType:                string(r.ApplicationType),
			OverallStatus:                  string(r.OverallStatus),
			CreditRecommendation:           int32(r.CreditRecommendation),
			StarsStatus:                    string(r.Stars.Status),
			StarsActual:                    r.Stars.Actual,
			StarsPercentage:                int32(r.Stars.Percentage),
			WriteAccessStatus:              string(r.WriteAccess.Status),
			WriteAccessActual:              r.WriteAccess.Actual,
			WriteAccessPercentage:          int32(r.WriteAccess.Percentage),
			TotalMergedPRsStatus:           string(r.TotalMergedPRs.Status),
			TotalMergedPRsActual:           r.TotalMergedPRs.Actual,
			TotalMergedPRsPercentage:       int32(r.TotalMergedPRs.Percentage),
			ExternalContributorsStatus:     string(r.ExternalContributors.Status),
			ExternalContributorsActual:     r.ExternalContributors.Actual,
			ExternalContributorsPercentage: int32(r.ExternalContributors.Percentage),
			UserMergedPRsStatus:            string(r.UserMergedPRs.Status),
			UserMergedPRsActual:            r.UserMergedPRs.Actual,
			UserMergedPRsPercentage:        int32(r.UserMergedPRs.Percentage),
		}
		if r.Notes != "" {
			notes := r.Notes
			pr.Notes = &notes
		}
		out = append(out, pr)
	}
	return out
}

// MockFetchApplicationHistory generates sample application history for demonstration.
func MockFetchApplicationHistory() []schema.AnalysisRecord {
	now := time.Now()

	return []schema.AnalysisRecord{
		{
			ID:                   "octocat_1700000000000",
			Timestamp:            now.Add(-60 * 24 * time.Hour),
			Username:             "octocat",
			Repositories:         []string{"octocat/hello-world"},
			ApplicationType:      schema.InitialApplication,
			OverallStatus:        schema.MeetsStatus,
			CreditRecommendation: schema.MeetsCredit,
			Stars:                schema.CriterionSnapshot{Status: schema.MeetsStatus, Actual: 120, Percentage: 120},
			WriteAccess:          schema.CriterionSnapshot{Status: schema.MeetsStatus, Actual: 1, Percentage: 100},
			TotalMergedPRs:       schema.CriterionSnapshot{Status: schema.MeetsStatus, Actual: 24, Percentage: 120},
			ExternalContributors: schema.CriterionSnapshot{Status: schema.MeetsStatus, Actual: 2, Percentage: 100},
			UserMergedPRs:        schema.CriterionSnapshot{Status: schema.MeetsStatus, Actual: 6, Percentage: 120},
		},
		{
			ID:                   "octocat_1705000000000",
			Timestamp:            now.Add(-2 * 24 * time.Hour),
			Username:             "octocat",
			Repositories:         []string{"octocat/hello-world", "octocat/spoon-knife"},
			ApplicationType:      schema.RenewalApplication,
			OverallStatus:        schema.ExceedsStatus,
			CreditRecommendation: schema.ExceedsCredit,
			Stars:                schema.CriterionSnapshot{Status: schema.ExceedsStatus, Actual: 450, Percentage: 450},
			WriteAccess:          schema.CriterionSnapshot{Status: schema.MeetsStatus, Actual: 1, Percentage: 100},
			TotalMergedPRs:       schema.CriterionSnapshot{Status: schema.ExceedsStatus, Actual: 38, Percentage: 190},
			ExternalContributors: schema.CriterionSnapshot{Status: schema.MeetsStatus, Actual: 2, Percentage: 100},
			UserMergedPRs:        schema.CriterionSnapshot{Status: schema.ExceedsStatus, Actual: 11, Percentage: 220},
			Notes:                "Renewal after strong quarter",
		},
		{
			ID:                   "monalisa_1705100000000",
			Timestamp:            now.Add(-1 * 24 * time.Hour),
			Username:             "monalisa",
			Repositories:         []string{"monalisa/smile"},
			ApplicationType:      schema.InitialApplication,
			OverallStatus:        schema.FallsShortStatus,
			CreditRecommendation: schema.FallsShortCredit,
			Stars:                schema.CriterionSnapshot{Status: schema.FallsShortStatus, Actual: 40, Percentage: 40},
			WriteAccess:          schema.CriterionSnapshot{Status: schema.MeetsStatus, Actual: 1, Percentage: 100},
			TotalMergedPRs:       schema.CriterionSnapshot{Status: schema.FallsShortStatus, Actual: 9, Percentage: 45},
			ExternalContributors: schema.CriterionSnapshot{Status: schema.FallsShortStatus, Actual: 1, Percentage: 50},
			UserMergedPRs:        schema.CriterionSnapshot{Status: schema.MeetsStatus, Actual: 5, Percentage: 100},
		},
	}
}

// WriteApplicationRecordsParquet writes application records to a Parquet file.
func WriteApplicationRecordsParquet(data []ApplicationRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the ApplicationRecord struct tags
	writer := parquet.NewGenericWriter[ApplicationRecord](file)

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return writer.Close()
}

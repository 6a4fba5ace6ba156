package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/octocred/octocred/internal/contract"
	"github.com/octocred/octocred/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// BatchRow is the printable summary of one batch evaluation.
type BatchRow struct {
	Username             string   `json:"username"`
	Repositories         []string `json:"repositories,omitempty"`
	OverallStatus        schema.Status
	CreditRecommendation int
	Err                  error `json:"-"`
}

// analysisEnvelope is the JSON shape of a full evaluation.
type analysisEnvelope struct {
	Result  *schema.AnalysisResult     `json:"result"`
	History *schema.HistoricalAnalysis `json:"history,omitempty"`
}

// PrintAnalysisResult outputs one applicant evaluation, dispatching based on
// the output format configured.
func PrintAnalysisResult(result *schema.AnalysisResult, hist *schema.HistoricalAnalysis, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, analysisEnvelope{Result: result, History: hist})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisCSV(w, result)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisTable(w, result, hist, cfg, duration)
		}, "Wrote table")
	}
}

// writeAnalysisTable generates and writes the human-readable evaluation view.
func writeAnalysisTable(w io.Writer, result *schema.AnalysisResult, hist *schema.HistoricalAnalysis, cfg *contract.Config, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "Eligibility analysis for %s\n", result.Username); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Repositories: %s\n\n", strings.Join(result.Repositories, ", ")); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)

	// 1. Define headers
	table.Header([]string{"Criterion", "Required", "Actual", "Progress", "Status"})

	// 2. Right-align the numeric columns
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate rows in canonical dimension order
	nameWidth := getTerminalWidth(cfg) - 50 // Reserve room for the numeric columns
	var data [][]string
	for _, c := range result.Criteria.All() {
		data = append(data, []string{
			truncate(c.Name, nameWidth),
			formatActual(c.Required),
			formatActual(c.Actual),
			strconv.Itoa(c.Percentage) + "%",
			statusLabel(cfg, c.Status),
		})
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Overall: %s (%d/%d criteria passed, score %d%%)\n",
		statusLabel(cfg, result.OverallStatus), result.Summary.Passed, result.Summary.Total, result.Summary.Score); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Credit recommendation: $%d\n", result.CreditRecommendation); err != nil {
		return err
	}

	if hist != nil {
		if err := writeHistorySection(w, hist); err != nil {
			return err
		}
	}

	if len(result.RecentPRs) > 0 {
		if _, err := fmt.Fprintf(w, "\nRecent merged PRs by %s:\n", result.Username); err != nil {
			return err
		}
		for _, pr := range result.RecentPRs {
			if _, err := fmt.Fprintf(w, "  #%d %s (%s)\n", pr.Number, pr.Title, mergedDate(pr)); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintf(w, "\nAnalysis completed in %v with %d workers. History backend: %s\n", duration, cfg.Workers, cfg.HistoryBackend)
	return err
}

// writeHistorySection prints the comparison against prior applications.
func writeHistorySection(w io.Writer, hist *schema.HistoricalAnalysis) error {
	if hist.IsFirstApplication {
		_, err := fmt.Fprintln(w, "History: first application")
		return err
	}

	if _, err := fmt.Fprintf(w, "History: application %d, %d days since last, status %s\n",
		hist.TotalApplications, hist.DaysSinceLastApplication, hist.StatusChange); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Trends: stars %s, merged PRs %s, external contributors %s, own merged PRs %s\n",
		hist.StarsTrend, hist.MergedPRsTrend, hist.ExternalContributorsTrend, hist.UserMergedPRsTrend)
	return err
}

// writeAnalysisCSV writes the per-dimension rows in CSV format.
func writeAnalysisCSV(w io.Writer, result *schema.AnalysisResult) error {
	header := []string{
		"username", "repositories", "criterion", "description",
		"required", "actual", "percentage", "status",
		"overall_status", "credit_recommendation",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		repos := schema.JoinRepositories(result.Repositories)
		for _, c := range result.Criteria.All() {
			row := []string{
				result.Username,
				repos,
				c.Name,
				c.Description,
				formatActual(c.Required),
				formatActual(c.Actual),
				strconv.Itoa(c.Percentage),
				contract.GetPlainLabel(c.Status),
				contract.GetPlainLabel(result.OverallStatus),
				strconv.Itoa(result.CreditRecommendation),
			}
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// PrintBatchOutcomes outputs the per-applicant batch summary, dispatching
// based on the output format configured.
func PrintBatchOutcomes(rows []BatchRow, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, batchJSONRows(rows))
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchCSV(w, rows)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchTable(w, rows, cfg, duration)
		}, "Wrote table")
	}
}

// batchJSONRow mirrors BatchRow with the error flattened to a string.
type batchJSONRow struct {
	Username             string   `json:"username"`
	Repositories         []string `json:"repositories,omitempty"`
	OverallStatus        string   `json:"overall_status,omitempty"`
	CreditRecommendation int      `json:"credit_recommendation"`
	Error                string   `json:"error,omitempty"`
}

func batchJSONRows(rows []BatchRow) []batchJSONRow {
	out := make([]batchJSONRow, 0, len(rows))
	for _, r := range rows {
		jr := batchJSONRow{
			Username:             r.Username,
			Repositories:         r.Repositories,
			CreditRecommendation: r.CreditRecommendation,
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		} else {
			jr.OverallStatus = string(r.OverallStatus)
		}
		out = append(out, jr)
	}
	return out
}

// writeBatchTable generates and writes the human-readable batch summary.
func writeBatchTable(w io.Writer, rows []BatchRow, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Applicant", "Repositories", "Status", "Credit"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	repoWidth := getTerminalWidth(cfg) - 45
	var data [][]string
	failed := 0
	for _, r := range rows {
		status := statusLabel(cfg, r.OverallStatus)
		credit := "$" + strconv.Itoa(r.CreditRecommendation)
		if r.Err != nil {
			failed++
			status = "error"
			credit = "-"
		}
		data = append(data, []string{
			r.Username,
			truncate(strings.Join(r.Repositories, ", "), repoWidth),
			status,
			credit,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Evaluated %d applicants (%d failed) in %v with %d workers\n",
		len(rows), failed, duration, cfg.Workers)
	return err
}

// writeBatchCSV writes the batch summary in CSV format.
func writeBatchCSV(w io.Writer, rows []BatchRow) error {
	header := []string{"username", "repositories", "overall_status", "credit_recommendation", "error"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, r := range rows {
			errMsg := ""
			status := contract.GetPlainLabel(r.OverallStatus)
			if r.Err != nil {
				errMsg = r.Err.Error()
				status = ""
			}
			row := []string{
				r.Username,
				schema.JoinRepositories(r.Repositories),
				status,
				strconv.Itoa(r.CreditRecommendation),
				errMsg,
			}
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// formatActual trims trailing zeros from dimension values, which are whole
// numbers in practice.
func formatActual(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// mergedDate renders the merge date of a PR for display.
func mergedDate(pr schema.PullRequest) string {
	if pr.MergedAt == nil {
		return "unmerged"
	}
	return pr.MergedAt.Format("2006-01-02")
}

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

// PrintHistoryRecords outputs stored application records, dispatching based
// on the output format configured.
func PrintHistoryRecords(records []schema.AnalysisRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryCSV(w, records)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(w, records, cfg)
		}, "Wrote table")
	}
}

// writeHistoryTable generates and writes the human-readable record list.
func writeHistoryTable(w io.Writer, records []schema.AnalysisRecord, cfg *contract.Config) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No application history found")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Applicant", "Type", "Repositories", "Status", "Credit"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	repoWidth := getTerminalWidth(cfg) - 70
	var data [][]string
	for _, r := range records {
		data = append(data, []string{
			r.Timestamp.Format("2006-01-02 15:04"),
			r.Username,
			string(r.ApplicationType),
			truncate(strings.Join(r.Repositories, ", "), repoWidth),
			statusLabel(cfg, r.OverallStatus),
			"$" + strconv.Itoa(r.CreditRecommendation),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Showing %d applications\n", len(records))
	return err
}

// writeHistoryCSV writes the record list in CSV format, one row per record
// with the per-dimension snapshots flattened.
func writeHistoryCSV(w io.Writer, records []schema.AnalysisRecord) error {
	header := []string{
		"id", "timestamp", "username", "repositories",
		"application_type", "overall_status", "credit_recommendation",
		"stars_actual", "write_access_actual", "total_merged_prs_actual",
		"external_contributors_actual", "user_merged_prs_actual", "notes",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, r := range records {
			row := []string{
				r.ID,
				r.Timestamp.Format(time.RFC3339),
				r.Username,
				schema.JoinRepositories(r.Repositories),
				string(r.ApplicationType),
				string(r.OverallStatus),
				strconv.Itoa(r.CreditRecommendation),
				formatActual(r.Stars.Actual),
				formatActual(r.WriteAccess.Actual),
				formatActual(r.TotalMergedPRs.Actual),
				formatActual(r.ExternalContributors.Actual),
				formatActual(r.UserMergedPRs.Actual),
				r.Notes,
			}
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// PrintHistoryStatus outputs the history store status, dispatching based on
// the output format configured.
func PrintHistoryStatus(status schema.HistoryStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatusText(w, status)
		}, "Wrote status")
	}
}

// writeStatusText prints the store status as a short key/value block.
func writeStatusText(w io.Writer, status schema.HistoryStatus) error {
	if _, err := fmt.Fprintf(w, "Backend: %s\n", status.Backend); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Connected: %t\n", status.Connected); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total records: %d\n", status.TotalRecords); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Unique applicants: %d\n", status.UniqueApplicants); err != nil {
		return err
	}
	if status.TotalRecords > 0 {
		if _, err := fmt.Fprintf(w, "Last record: %s\n", status.LastRecordTime.Format(time.RFC3339)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Oldest record: %s\n", status.OldestRecordTime.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return nil
}

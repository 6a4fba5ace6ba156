// Package core has core logic for collecting repository activity, scoring
// eligibility criteria and comparing applications over time.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/octocred/octocred/internal/contract"
	"github.com/octocred/octocred/internal/ghapi"
	"github.com/octocred/octocred/internal/histstore"
	"github.com/octocred/octocred/internal/outwriter"
)

// ExecuteAnalyze evaluates a single applicant and prints the result to
// stdout. It serves as the main entry point for the 'analyze' command.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, username string, repos []string) error {
	start := time.Now()
	client := ghapi.NewClient(cfg.APIBaseURL, cfg.Token)
	store := histstore.GetStore()

	result, hist, err := EvaluateApplicant(ctx, cfg, client, store, username, repos)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintAnalysisResult(result, hist, cfg, duration)
}

// ExecuteBatch evaluates every applicant listed in a YAML file and prints a
// summary per applicant. It serves as the main entry point for the 'batch'
// command.
func ExecuteBatch(ctx context.Context, cfg *contract.Config, path string) error {
	start := time.Now()
	applicants, err := LoadApplicantsFile(path)
	if err != nil {
		return err
	}

	client := ghapi.NewClient(cfg.APIBaseURL, cfg.Token)
	store := histstore.GetStore()

	outcomes := EvaluateBatch(ctx, cfg, client, store, applicants)

	failed := 0
	for _, out := range outcomes {
		if out.Err != nil {
			failed++
			contract.LogWarn(fmt.Sprintf("Evaluation failed for %s", out.Username), out.Err)
		}
	}
	duration := time.Since(start)
	if err := outwriter.PrintBatchOutcomes(toBatchRows(outcomes), cfg, duration); err != nil {
		return err
	}
	if failed == len(outcomes) {
		return fmt.Errorf("all %d applicants failed evaluation", failed)
	}
	return nil
}

// toBatchRows strips the batch outcomes down to the printable view.
func toBatchRows(outcomes []BatchOutcome) []outwriter.BatchRow {
	rows := make([]outwriter.BatchRow, 0, len(outcomes))
	for _, out := range outcomes {
		row := outwriter.BatchRow{Username: out.Username, Err: out.Err}
		if out.Result != nil {
			row.OverallStatus = out.Result.OverallStatus
			row.CreditRecommendation = out.Result.CreditRecommendation
			row.Repositories = out.Result.Repositories
		}
		rows = append(rows, row)
	}
	return rows
}

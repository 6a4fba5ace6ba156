package cmd

import (
	"fmt"

	"github.com/octocred/octocred/internal/contract"
	"github.com/octocred/octocred/internal/histstore"
	"github.com/octocred/octocred/internal/outwriter"
	"github.com/octocred/octocred/internal/parquet"
	"github.com/octocred/octocred/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyCmd focused on application history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage stored application history",
	Long: `Manage the append-only store of past applications.

Every analyze and batch run records its outcome:
- Applicant, repositories and evaluation time
- Per-dimension statuses, actuals and progress percentages
- Overall status and credit recommendation

This history powers renewal comparisons (trends, status changes) and can be
exported for analytics.

Supported backends: CSV (default), SQLite, MySQL, PostgreSQL

Subcommands:
  list    - Show stored applications
  status  - Show history store statistics
  clear   - Remove all stored applications
  export  - Export history to Parquet for analytics`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// historyListCmd lists stored applications, optionally for one applicant.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show stored applications, newest first.",
	Long: `Show stored applications, newest first.

Examples:
  # Show every application
  octocred history list

  # Show one applicant's applications
  octocred history list --username octocat

  # Export the full history as JSON
  octocred history list --output json --output-file history.json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := histstore.GetStore()

		var records []schema.AnalysisRecord
		var err error
		if username := viper.GetString("username"); username != "" {
			records, err = store.QueryByIdentity(username)
		} else {
			records, err = store.QueryAll()
		}
		if err != nil {
			contract.LogFatal("Cannot read history", err)
		}

		if err := outwriter.PrintHistoryRecords(records, cfg); err != nil {
			contract.LogFatal("Cannot print history", err)
		}
	},
}

// historyStatusCmd reports history store statistics.
var historyStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show history store statistics.",
	Long:    `Show the configured backend, record counts and the stored time range.`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := histstore.GetStore().Status()
		if err != nil {
			contract.LogFatal("Cannot read history status", err)
		}
		if err := outwriter.PrintHistoryStatus(status, cfg); err != nil {
			contract.LogFatal("Cannot print history status", err)
		}
	},
}

// historyClearCmd removes all stored applications.
var historyClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Remove all stored applications.",
	Long:    `Remove every record from the history store. The store stays usable afterwards.`,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := histstore.GetStore().Clear(); err != nil {
			contract.LogFatal("Cannot clear history", err)
		}
		cmd.Println("History cleared")
	},
}

// historyExportCmd exports history to a Parquet file.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export history to a Parquet file.",
	Long: `Export the full application history to a Parquet file for analytics.

Examples:
  # Export to the default file name
  octocred history export

  # Export to a specific path
  octocred history export --output-file applications.parquet`,
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, err := histstore.GetStore().QueryAll()
		if err != nil {
			return fmt.Errorf("cannot read history: %w", err)
		}

		outputPath := cfg.OutputFile
		if outputPath == "" {
			outputPath = "octocred_history.parquet"
		}

		data := parquet.ConvertAnalysisRecords(records)
		if err := parquet.WriteApplicationRecordsParquet(data, outputPath); err != nil {
			return err
		}
		cmd.Printf("Exported %d applications to %s\n", len(data), outputPath)
		return nil
	},
}

// Package cmd defines the command-line interface for octocred.
package cmd

import (
	"github.com/octocred/octocred/internal/contract"
	"github.com/octocred/octocred/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("token", "t", "", "GitHub API token (or set OCTOCRED_TOKEN)")
	rootCmd.PersistentFlags().String("api-url", contract.DefaultAPIBaseURL, "GitHub API base URL (for GitHub Enterprise)")
	rootCmd.PersistentFlags().Int("window-days", schema.DefaultWindowDays, "Activity window in days for PR-based criteria")
	rootCmd.PersistentFlags().Int("min-stars", schema.DefaultMinStars, "Minimum repository stars required")
	rootCmd.PersistentFlags().Int("min-merged-prs", schema.DefaultMinTotalMergedPRs, "Minimum merged PRs in the repository within the window")
	rootCmd.PersistentFlags().Int("min-external-contributors", schema.DefaultMinExternalContributors, "Minimum contributors besides the applicant and owner")
	rootCmd.PersistentFlags().Int("min-user-prs", schema.DefaultMinUserMergedPRs, "Minimum PRs the applicant merged within the window")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().StringP("output", "o", string(schema.TableOut), "Output format: table or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("notes", "", "Reviewer notes to store with the application record")
	rootCmd.PersistentFlags().String("history-backend", string(schema.CSVBackend), "History backend: csv or sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of historyListCmd to Viper
	historyListCmd.Flags().StringP("username", "u", "", "Filter history to one applicant")
	if err := viper.BindPFlags(historyListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history list flags", err)
	}
}

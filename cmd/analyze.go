package cmd

import (
	"github.com/octocred/octocred/core"
	"github.com/octocred/octocred/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd evaluates a single applicant against the grant criteria.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <username> <repository> [repository...]",
	Short: "Evaluate one applicant's grant eligibility.",
	Long: `Evaluate a GitHub user's activity against the grant criteria.

Collects repository metadata and recent pull request activity, then scores
five dimensions:
- Repository stars
- Maintainer/write access
- Total merged PRs within the activity window
- External contributors
- PRs the applicant merged within the activity window

Every failing dimension blocks the grant; strong results across two or more
dimensions raise the credit recommendation. The outcome is recorded in the
history store so renewals can be compared against prior applications.

Examples:
  # Evaluate one repository
  octocred analyze octocat octocat/hello-world

  # Evaluate several repositories together
  octocred analyze octocat octocat/hello-world octocat/spoon-knife

  # Use a longer activity window and JSON output
  octocred analyze octocat octocat/hello-world --window-days 180 --output json

  # Export findings to CSV for tracking
  octocred analyze octocat octocat/hello-world --output csv --output-file result.csv`,
	Args:    cobra.MinimumNArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteAnalyze(rootCtx, cfg, args[0], args[1:]); err != nil {
			contract.LogFatal("Cannot run eligibility analysis", err)
		}
	},
}

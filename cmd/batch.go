package cmd

import (
	"github.com/octocred/octocred/core"
	"github.com/octocred/octocred/internal/contract"
	"github.com/spf13/cobra"
)

// batchCmd evaluates every applicant listed in a YAML file.
var batchCmd = &cobra.Command{
	Use:   "batch <applicants-file>",
	Short: "Evaluate a batch of applicants from a YAML file.",
	Long: `Evaluate many applicants in one run from a YAML file.

The file lists applicants with their repositories:

  applicants:
    - username: octocat
      repositories:
        - octocat/hello-world
        - octocat/spoon-knife
    - username: monalisa
      repositories:
        - monalisa/smile

Applicants are evaluated concurrently and each outcome is recorded in the
history store. One failing applicant never stops the batch.

Examples:
  # Evaluate a cohort and print a summary table
  octocred batch applicants.yaml

  # Export the batch summary to CSV
  octocred batch applicants.yaml --output csv --output-file cohort.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteBatch(rootCtx, cfg, args[0]); err != nil {
			contract.LogFatal("Cannot run batch evaluation", err)
		}
	},
}

package cmd

import (
	"errors"
	"os"

	"github.com/helexia/contractrisk/core"
	"github.com/helexia/contractrisk/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check [project-id...]",
	Short: "Enforce exposure thresholds on stored projects (fails on violations)",
	Long: `Compare the exposure of stored projects against maximum thresholds.

Fails with a non-zero exit code when a project's exposure before or after
mitigation is above its threshold. A threshold of 0 is disabled, and at least
one must be set. Without arguments every stored project is checked.

Use cases:
- Bid reviews - block a tender whose residual exposure is too high
- Steering committees - list the projects above the risk appetite
- Scheduled jobs - alert when a register drifts after an update

Examples:
  # Residual exposure must stay under 50 000 € for every project
  contractrisk check --max-exposure-after 50000

  # Both phases, two projects only
  contractrisk check 01HZX3... 01HZX4... --max-exposure-before 200000 --max-exposure-after 50000`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		_, err := core.ExecuteExposureCheck(rootCtx, cfg, projectStore(), os.Stdout, args...)
		if errors.Is(err, core.ErrCheckFailed) {
			os.Exit(1)
		}
		if err != nil {
			contract.LogFatal("Exposure check failed", err)
		}
	},
}

package cmd

import (
	"errors"

	"github.com/helexia/contractrisk/core"
	"github.com/helexia/contractrisk/internal/contract"
	"github.com/spf13/cobra"
)

// risksCmd prints a risk register with its exposure.
var risksCmd = &cobra.Command{
	Use:   "risks [file]",
	Short: "Show a risk register with probable costs before and after mitigation",
	Long: `Compute the probable cost of every risk and the exposure of the register.

Probable cost before mitigation = maximal cost x probability before.
Probable cost after mitigation  = maximal cost x probability after + mitigation cost.
Missing numbers count as zero.

The register is read from a YAML or JSON file (a list of risks, or an object
with project and risks keys), or from a stored project with --project.

Examples:
  contractrisk risks register.yaml
  contractrisk risks --project 01HZX3... --output csv --output-file risques.csv`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if projectID, _ := cmd.Flags().GetString("project"); projectID != "" {
			return sharedSetup(rootCtx, cmd, args)
		}
		if len(args) == 0 {
			return errors.New("risks requires a register file or --project")
		}
		return configSetup()
	},
	Run: func(cmd *cobra.Command, args []string) {
		if projectID, _ := cmd.Flags().GetString("project"); projectID != "" {
			if err := core.ExecuteProjectRisks(rootCtx, cfg, projectStore(), projectID); err != nil {
				contract.LogFatal("Failed to show project risks", err)
			}
			return
		}

		projectName, risks, err := core.LoadRisksFile(args[0])
		if err != nil {
			contract.LogFatal("Failed to read risk register", err)
		}
		if err := core.ExecuteRisks(rootCtx, cfg, projectName, risks); err != nil {
			contract.LogFatal("Failed to compute exposure", err)
		}
	},
}

// portfolioCmd prints the portfolio indicators.
var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show exposure, deadlines and change requests across all projects",
	Long: `Summarize every stored project.

Shows per project the exposure before and after mitigation, the deadlines due
within --upcoming-window-months (today included) and the pending change
requests, then the global indicators and the next five deadlines.

Examples:
  contractrisk portfolio
  contractrisk portfolio --upcoming-window-months 3 --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePortfolio(rootCtx, cfg, projectStore()); err != nil {
			contract.LogFatal("Failed to show portfolio", err)
		}
	},
}

package cmd

import (
	"os"

	"github.com/helexia/contractrisk/core"
	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/schema"
	"github.com/spf13/cobra"
)

// penaltyCmd computes a penalty calculation.
var penaltyCmd = &cobra.Command{
	Use:   "penalty",
	Short: "Compute late-delivery penalties for a PV or SEED contract",
	Long: `Compute the penalties owed when a project is delivered late.

PV mode prices one day of delay from the plant investment, O&M cost, lost
self-consumption and administrative fees, then derives the cap and the number
of days before it is reached.

SEED mode applies a daily percentage of the contract amount over the delay,
capped at a percentage of the contract.

Inputs come from flags, from --inputs-file, or both (flags win).

Examples:
  # PV plant of 1M€ producing 2000 MWh a year
  contractrisk penalty --centrale-total 1000000 --om-annuel 20000 --production-mwh 2000 --lifetime-years 25

  # SEED contract, 25 days late, with the contract clause
  contractrisk penalty --mode seed --montant-marche 100000 --jours-retard 25 --clause

  # Inputs from a file, exported as CSV
  contractrisk penalty --inputs-file inputs.yaml --output csv --output-file calcul.csv`,
	PreRunE: configSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		inputs, _, err := inputsFromFlags(cmd, schema.DefaultInputs())
		if err != nil {
			contract.LogFatal("Invalid calculator inputs", err)
		}

		withClause, _ := cmd.Flags().GetBool("clause")
		useAI, _ := cmd.Flags().GetBool("ai")
		opts := core.PenaltyOptions{WithClause: withClause || useAI}
		if useAI {
			opts.Generator = newGenerator()
		}
		if err := core.ExecutePenalty(rootCtx, cfg, inputs, opts); err != nil {
			contract.LogFatal("Penalty calculation failed", err)
		}
	},
}

// clauseCmd prints the penalty clause of a calculation.
var clauseCmd = &cobra.Command{
	Use:   "clause",
	Short: "Draft the penalty clause of a contract",
	Long: `Print the late-delivery penalty clause matching a calculation.

With --ai the clause is rewritten by the configured Gemini model. Set the key
with GEMINI_API_KEY (a .env file works too). When generation fails the
standard clause is printed instead.

Examples:
  contractrisk clause --mode seed --taux-penalite 0.5 --plafond-penalites 10
  GEMINI_API_KEY=... contractrisk clause --inputs-file inputs.yaml --ai`,
	PreRunE: configSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		inputs, _, err := inputsFromFlags(cmd, schema.DefaultInputs())
		if err != nil {
			contract.LogFatal("Invalid calculator inputs", err)
		}

		var gen contract.TextGenerator
		if useAI, _ := cmd.Flags().GetBool("ai"); useAI {
			gen = newGenerator()
		}
		if err := core.ExecuteClause(rootCtx, os.Stdout, inputs, gen); err != nil {
			contract.LogFatal("Clause generation failed", err)
		}
	},
}

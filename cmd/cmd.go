// Package cmd defines the command-line interface for contractrisk.
package cmd

import (
	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(penaltyCmd)
	rootCmd.AddCommand(clauseCmd)
	rootCmd.AddCommand(risksCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(portfolioCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the project subcommands to the parent project command
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	projectCmd.AddCommand(projectCalculateCmd)
	projectCmd.AddCommand(projectImportCmd)
	projectCmd.AddCommand(projectExportCmd)
	projectCmd.AddCommand(riskCmd)
	projectCmd.AddCommand(deadlineCmd)
	projectCmd.AddCommand(changeCmd)
	riskCmd.AddCommand(riskAddCmd)
	riskCmd.AddCommand(riskRemoveCmd)
	deadlineCmd.AddCommand(deadlineAddCmd)
	changeCmd.AddCommand(changeAddCmd)
	changeCmd.AddCommand(changeStatusCmd)
	changeCmd.AddCommand(changeListCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)
	storeCmd.AddCommand(storeExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Int("upcoming-window-months", contract.DefaultUpcomingWindowMonths, "Months ahead counted as upcoming deadlines")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Calculator flags are read from the command itself
	addCalculatorFlags(penaltyCmd)
	penaltyCmd.Flags().Bool("clause", false, "Append the penalty clause to the report")
	penaltyCmd.Flags().Bool("ai", false, "Generate the clause with the configured Gemini model")
	addCalculatorFlags(clauseCmd)
	clauseCmd.Flags().Bool("ai", false, "Generate the clause with the configured Gemini model")
	addCalculatorFlags(projectCalculateCmd)

	risksCmd.Flags().String("project", "", "Read the register of a stored project instead of a file")

	projectCreateCmd.Flags().String("name", "", "Project name (required)")
	projectCreateCmd.Flags().String("code", "", "Short project code used in change request numbers")
	projectCreateCmd.Flags().String("address", "", "Site address")
	projectCreateCmd.Flags().String("type", string(schema.EPCType), "Project type")
	projectCreateCmd.Flags().String("status", "", "Lifecycle phase (default O5)")
	projectCreateCmd.Flags().String("url", "", "Link to the project folder")

	riskAddCmd.Flags().String("id", "", "Business risk ID (e.g., R-001)")
	riskAddCmd.Flags().String("name", "", "Risk name (required)")
	riskAddCmd.Flags().String("type", "", "Risk category")
	riskAddCmd.Flags().String("description", "", "Risk description")
	riskAddCmd.Flags().String("explanation", "", "How the maximal cost was estimated")
	riskAddCmd.Flags().Float64("max", 0, "Maximal probable cost (€)")
	riskAddCmd.Flags().Float64("before", 0, "Probability before mitigation (%)")
	riskAddCmd.Flags().Float64("mitigation", 0, "Mitigation cost (€)")
	riskAddCmd.Flags().Float64("after", 0, "Probability after mitigation (%)")

	deadlineAddCmd.Flags().String("description", "", "What is due")
	deadlineAddCmd.Flags().String("date", "", "Due date (YYYY-MM-DD)")
	deadlineAddCmd.Flags().Int("notice-months", 0, "Notice period in months")
	deadlineAddCmd.Flags().String("type", string(schema.DeadlineDue), "Deadline type: Échéance or Jalon de Paiement")
	deadlineAddCmd.Flags().Float64("amount", 0, "Amount of a payment milestone (€)")

	changeAddCmd.Flags().String("title", "", "Change request title")
	changeAddCmd.Flags().String("description", "", "Change request description")
	changeAddCmd.Flags().String("priority", string(schema.PriorityMedium), "Priority: Faible or Moyenne or Élevée")
	changeAddCmd.Flags().String("requester", "", "Requester name (default Interne)")
	changeAddCmd.Flags().Float64("cost", 0, "Estimated cost (€)")

	changeListCmd.Flags().String("project", "", "Only list change requests of this project")
	changeListCmd.Flags().String("status", "", "Only list change requests in this state")

	// Bind all flags of checkCmd to Viper
	checkCmd.Flags().Float64("max-exposure-before", 0, "Maximum exposure before mitigation per project (0 = off)")
	checkCmd.Flags().Float64("max-exposure-after", 0, "Maximum exposure after mitigation per project (0 = off)")
	if err := viper.BindPFlags(checkCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("serve-addr", contract.DefaultServeAddr, "Listen address of the HTTP API")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}

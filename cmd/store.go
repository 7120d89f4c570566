package cmd

import (
	"fmt"
	"time"

	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/internal/iostore"
	"github.com/helexia/contractrisk/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeCmd is the parent of the store maintenance commands.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the project store",
	Long:  `The store command provides subcommands to inspect, export, migrate and clear the project store.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// storeStatusCmd shows the status of the project store.
var storeStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show store status and statistics",
	Long:    `Display the backend, connection state, schema version and the number of stored projects, risks, deadlines and change requests.`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := projectStore().GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iostore.PrintStoreStatus(status)
	},
}

// storeClearCmd removes all stored projects.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored project",
	Long: `Remove all stored data for the configured backend.

For SQLite the database file is deleted. For MySQL and PostgreSQL the project
tables and the migration history are dropped.`,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := iostore.GetDBFilePath()
		if cfg.StoreBackend == schema.SQLiteBackend && cfg.StoreDBConnect != "" {
			dbFilePath = cfg.StoreDBConnect
		}
		if err := iostore.ClearStore(cfg.StoreBackend, dbFilePath, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Printf("Store cleared (%s backend)\n", cfg.StoreBackend)
	},
}

// storeMigrateCmd migrates the store schema.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the store schema to a specific version",
	Long: `Apply or roll back database migrations of the project store.

Examples:
  # Migrate to the latest version
  contractrisk store migrate

  # Roll back to the initial state
  contractrisk store migrate --target-version 0`,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.StoreBackend == schema.NoneBackend {
			contract.LogFatal("Cannot migrate store", fmt.Errorf("store backend is %s", schema.NoneBackend))
		}
		if err := iostore.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Store migration failed", err)
		}
	},
}

// storeExportCmd exports the store to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every stored project to Parquet files",
	Long: `Write the stored projects to Parquet files sharing --output-file as prefix:
one file for projects, risks, deadlines and change requests.

Examples:
  contractrisk store export --output-file portfolio`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ExecuteStoreExport(rootCtx, projectStore(), cfg.OutputFile, time.Now(), cfg.UpcomingWindowMonths); err != nil {
			contract.LogFatal("Store export failed", err)
		}
	},
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fatih/color"
	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/internal/genai"
	"github.com/helexia/contractrisk/internal/iostore"
	"github.com/helexia/contractrisk/schema"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// storeManager is the global persistence manager instance.
var storeManager contract.StoreManager = iostore.Manager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "contractrisk",
	Short:              "Compute contract delay penalties and track project risk exposure.",
	Long:               `Contractrisk prices late-delivery penalties for PV and SEED contracts and turns them into risk exposure across your projects.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Load a .env file so secrets can live outside the shell
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		contract.LogWarn("Could not load .env file", err)
	}

	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".contractrisk") // Name of config file (without extension)
		viper.SetConfigType("yaml")          // We'll use YAML format
		viper.AddConfigPath(".")             // Look in the current directory
		viper.AddConfigPath("$HOME")         // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("CONTRACTRISK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// The Gemini key is commonly exported without our prefix
	_ = viper.BindEnv("genai-api-key", "CONTRACTRISK_GENAI_API_KEY", "GEMINI_API_KEY")

	// Set defaults in Viper
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("store-backend", schema.SQLiteBackend)
	viper.SetDefault("store-db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", "warn")
	viper.SetDefault("genai-model", contract.DefaultGenAIModel)
	viper.SetDefault("genai-endpoint", contract.DefaultGenAIEndpoint)
	viper.SetDefault("serve-addr", contract.DefaultServeAddr)
	viper.SetDefault("upcoming-window-months", contract.DefaultUpcomingWindowMonths)
}

// configSetup unmarshals config and runs validation without touching the store.
func configSetup() error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	contract.InitLogger(cfg.LogLevel)
	color.NoColor = !cfg.UseColors
	return nil
}

// sharedSetup validates the config and initializes the project store.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	if err := configSetup(); err != nil {
		return err
	}

	// Initialize persistence layer with validated config
	if err := iostore.InitStore(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// configSetupWrapper wraps configSetup for commands that never open the store.
func configSetupWrapper(_ *cobra.Command, _ []string) error {
	return configSetup()
}

// projectStore returns the active store of the global manager.
func projectStore() contract.ProjectStore {
	return storeManager.GetProjectStore()
}

// newGenerator returns the Gemini client, or nil with a warning when it cannot be built.
func newGenerator() contract.TextGenerator {
	client, err := genai.New(cfg.GenAI)
	if err != nil {
		contract.LogWarn("AI clause generation disabled", err)
		return nil
	}
	return client
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetStoreManager sets the global store manager.
func SetStoreManager(mgr contract.StoreManager) {
	storeManager = mgr
}

package contract

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/helexia/contractrisk/schema"
)

// Default values for configuration.
const (
	DefaultPrecision            = 2
	MaxPrecision                = 4
	DefaultGenAIModel           = "gemini-2.5-flash"
	DefaultGenAIEndpoint        = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGenAITimeout         = 30 * time.Second
	DefaultServeAddr            = "127.0.0.1:8080"
	DefaultUpcomingWindowMonths = 6
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// GenAIConfig holds the settings of the text generation client.
type GenAIConfig struct {
	APIKey   string // Please use env var as this is plaintext
	Model    string
	Endpoint string
	Timeout  time.Duration
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	LogLevel   string

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	GenAI GenAIConfig

	ServeAddr string

	// Exposure thresholds for the check command, 0 disables a threshold
	MaxExposureBefore float64
	MaxExposureAfter  float64

	UpcomingWindowMonths int
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	LogLevel       string `mapstructure:"log-level"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`

	// --- Generative AI settings (env or config file) ---
	GenAIAPIKey   string `mapstructure:"genai-api-key"`
	GenAIModel    string `mapstructure:"genai-model"`
	GenAIEndpoint string `mapstructure:"genai-endpoint"`
	GenAITimeout  string `mapstructure:"genai-timeout"`

	// --- Fields from serveCmd.Flags() ---
	ServeAddr string `mapstructure:"serve-addr"`

	// --- Fields from checkCmd.Flags() ---
	MaxExposureBefore float64 `mapstructure:"max-exposure-before"`
	MaxExposureAfter  float64 `mapstructure:"max-exposure-after"`

	UpcomingWindowMonths int `mapstructure:"upcoming-window-months"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := processGenAI(cfg, input); err != nil {
		return err
	}
	return processThresholds(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseBackend normalizes and validates a store backend name.
func ParseBackend(s string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(s)))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", s)
	}
	return backend, nil
}

// validateBackendConfig validates the store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseBackend(input.StoreBackend)
	if err != nil {
		return err
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// validateSimpleInputs processes and validates output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.LogLevel = input.LogLevel

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	cfg.ServeAddr = strings.TrimSpace(input.ServeAddr)
	if cfg.ServeAddr == "" {
		cfg.ServeAddr = DefaultServeAddr
	}
	return nil
}

// processGenAI resolves the text generation settings.
func processGenAI(cfg *Config, input *ConfigRawInput) error {
	cfg.GenAI = GenAIConfig{
		APIKey:   strings.TrimSpace(input.GenAIAPIKey),
		Model:    strings.TrimSpace(input.GenAIModel),
		Endpoint: strings.TrimRight(strings.TrimSpace(input.GenAIEndpoint), "/"),
		Timeout:  DefaultGenAITimeout,
	}
	if cfg.GenAI.Model == "" {
		cfg.GenAI.Model = DefaultGenAIModel
	}
	if cfg.GenAI.Endpoint == "" {
		cfg.GenAI.Endpoint = DefaultGenAIEndpoint
	}
	if input.GenAITimeout != "" {
		timeout, err := time.ParseDuration(input.GenAITimeout)
		if err != nil {
			return fmt.Errorf("invalid genai-timeout '%s': %w", input.GenAITimeout, err)
		}
		if timeout <= 0 {
			return fmt.Errorf("genai-timeout must be positive (received %s)", input.GenAITimeout)
		}
		cfg.GenAI.Timeout = timeout
	}
	return nil
}

// processThresholds validates the exposure thresholds and the deadline window.
func processThresholds(cfg *Config, input *ConfigRawInput) error {
	if input.MaxExposureBefore < 0 || math.IsNaN(input.MaxExposureBefore) {
		return fmt.Errorf("max-exposure-before cannot be negative (received %v)", input.MaxExposureBefore)
	}
	if input.MaxExposureAfter < 0 || math.IsNaN(input.MaxExposureAfter) {
		return fmt.Errorf("max-exposure-after cannot be negative (received %v)", input.MaxExposureAfter)
	}
	cfg.MaxExposureBefore = input.MaxExposureBefore
	cfg.MaxExposureAfter = input.MaxExposureAfter

	cfg.UpcomingWindowMonths = input.UpcomingWindowMonths
	if cfg.UpcomingWindowMonths == 0 {
		cfg.UpcomingWindowMonths = DefaultUpcomingWindowMonths
	}
	if cfg.UpcomingWindowMonths < 0 {
		return fmt.Errorf("upcoming-window-months must be positive (received %d)", input.UpcomingWindowMonths)
	}
	return nil
}

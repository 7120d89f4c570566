package contract

import (
	"testing"
	"time"

	"github.com/helexia/contractrisk/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		Output:       "text",
		Precision:    2,
		Color:        "yes",
		StoreBackend: "sqlite",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "uppercase output", mutate: func(in *ConfigRawInput) { in.Output = "JSON" }},
		{name: "parquet output", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "precision too high", mutate: func(in *ConfigRawInput) { in.Precision = 5 }, expectError: true},
		{name: "negative precision", mutate: func(in *ConfigRawInput) { in.Precision = -1 }, expectError: true},
		{name: "zero precision", mutate: func(in *ConfigRawInput) { in.Precision = 0 }},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "negative width", mutate: func(in *ConfigRawInput) { in.Width = -1 }, expectError: true},
		{name: "invalid backend", mutate: func(in *ConfigRawInput) { in.StoreBackend = "oracle" }, expectError: true},
		{name: "none backend", mutate: func(in *ConfigRawInput) { in.StoreBackend = "none" }},
		{name: "mysql without connect", mutate: func(in *ConfigRawInput) { in.StoreBackend = "mysql" }, expectError: true},
		{
			name: "mysql with connect",
			mutate: func(in *ConfigRawInput) {
				in.StoreBackend = "mysql"
				in.StoreDBConnect = "user:pass@tcp(localhost:3306)/contractrisk"
			},
		},
		{name: "invalid genai timeout", mutate: func(in *ConfigRawInput) { in.GenAITimeout = "soon" }, expectError: true},
		{name: "zero genai timeout", mutate: func(in *ConfigRawInput) { in.GenAITimeout = "0s" }, expectError: true},
		{name: "negative threshold", mutate: func(in *ConfigRawInput) { in.MaxExposureBefore = -1 }, expectError: true},
		{name: "negative window", mutate: func(in *ConfigRawInput) { in.UpcomingWindowMonths = -2 }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRawInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validRawInput()))

	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.StoreBackend)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, DefaultGenAIModel, cfg.GenAI.Model)
	assert.Equal(t, DefaultGenAIEndpoint, cfg.GenAI.Endpoint)
	assert.Equal(t, DefaultGenAITimeout, cfg.GenAI.Timeout)
	assert.Equal(t, DefaultServeAddr, cfg.ServeAddr)
	assert.Equal(t, DefaultUpcomingWindowMonths, cfg.UpcomingWindowMonths)
}

func TestProcessAndValidateOverrides(t *testing.T) {
	input := validRawInput()
	input.GenAIAPIKey = "  secret "
	input.GenAIModel = "gemini-2.5-pro"
	input.GenAIEndpoint = "http://localhost:9000/v1/"
	input.GenAITimeout = "5s"
	input.ServeAddr = ":9090"
	input.MaxExposureBefore = 100000
	input.UpcomingWindowMonths = 3

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, "secret", cfg.GenAI.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.GenAI.Model)
	assert.Equal(t, "http://localhost:9000/v1", cfg.GenAI.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.GenAI.Timeout)
	assert.Equal(t, ":9090", cfg.ServeAddr)
	assert.Equal(t, 100000.0, cfg.MaxExposureBefore)
	assert.Equal(t, 3, cfg.UpcomingWindowMonths)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		connStr     string
		expectError bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none empty", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "root:pw@tcp(127.0.0.1:3306)/db", false},
		{"mysql missing tcp", schema.MySQLBackend, "root:pw@127.0.0.1/db", true},
		{"mysql missing db", schema.MySQLBackend, "root:pw@tcp(127.0.0.1:3306)", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost user=u password=p dbname=db", false},
		{"postgres missing host", schema.PostgreSQLBackend, "user=u dbname=db", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost user=u", true},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend("")
	require.NoError(t, err)
	assert.Equal(t, schema.SQLiteBackend, b)

	b, err = ParseBackend(" PostgreSQL ")
	require.NoError(t, err)
	assert.Equal(t, schema.PostgreSQLBackend, b)

	_, err = ParseBackend("redis")
	assert.Error(t, err)
}

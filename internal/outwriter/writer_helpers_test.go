package outwriter

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/helexia/contractrisk/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{
			name:      "precision 2",
			precision: 2,
			value:     3.14159,
			expected:  "3.14",
		},
		{
			name:      "precision 0",
			precision: 0,
			value:     3.14159,
			expected:  "3",
		},
		{
			name:      "precision 4",
			precision: 4,
			value:     3.14159,
			expected:  "3.1416",
		},
		{
			name:      "negative value",
			precision: 2,
			value:     -42.567,
			expected:  "-42.57",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "%d", intFmt)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		expected string
	}{
		{
			name:     "array",
			data:     []string{"a", "b", "c"},
			expected: "[\n  \"a\",\n  \"b\",\n  \"c\"\n]\n",
		},
		{
			name:     "string",
			data:     "hello",
			expected: `"hello"` + "\n",
		},
		{
			name:     "exposure",
			data:     schema.Exposure{Before: 100, After: 40},
			expected: "{\n  \"before\": 100,\n  \"after\": 40\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := writeJSON(&buf, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWriteJSONError(t *testing.T) {
	invalidData := make(chan int)
	var buf bytes.Buffer
	err := writeJSON(&buf, invalidData)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		rows     [][]string
		expected string
	}{
		{
			name:     "simple csv",
			header:   []string{"name", "age"},
			rows:     [][]string{{"Alice", "30"}, {"Bob", "25"}},
			expected: utf8BOM + "name;age\nAlice;30\nBob;25\n",
		},
		{
			name:     "empty rows",
			header:   []string{"col1", "col2"},
			rows:     nil,
			expected: utf8BOM + "col1;col2\n",
		},
		{
			name:     "commas are not quoted",
			header:   []string{"Description", "Valeur"},
			rows:     [][]string{{"TCO (€/MWh)", "12,50"}},
			expected: utf8BOM + "Description;Valeur\nTCO (€/MWh);12,50\n",
		},
		{
			name:     "semicolons and quotes are quoted",
			header:   []string{"Mitigation"},
			rows:     [][]string{{"a; b"}, {`say "hi"`}},
			expected: utf8BOM + "Mitigation\n\"a; b\"\n\"say \"\"hi\"\"\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := writeCSVWithHeader(&buf, tt.header, tt.rows)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestRawNumbers(t *testing.T) {
	assert.Equal(t, "1250.5", rawNumber(1250.5))
	assert.Equal(t, "100000", rawNumber(100000))
	assert.Equal(t, "-3", rawNumber(-3))
	assert.Empty(t, rawOptional(nil))
	assert.Equal(t, "0.25", rawOptional(schema.Float(0.25)))

	fmtFloat, _ := createFormatters(1)
	assert.Equal(t, "-", formatOptional(nil, fmtFloat))
	assert.Equal(t, "2.5", formatOptional(schema.Float(2.5), fmtFloat))
}

func TestWriteWithFileStdout(t *testing.T) {
	called := false
	err := writeWithFile("", func(w io.Writer) error {
		called = true
		_, err := w.Write([]byte(""))
		return err
	}, "Test message")

	require.NoError(t, err)
	assert.True(t, called, "Writer function should have been called")
}

func TestWriteWithFileActualFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.txt")

	testContent := "test content"
	err := writeWithFile(tmpFile, func(w io.Writer) error {
		_, err := w.Write([]byte(testContent))
		return err
	}, "Test message")
	require.NoError(t, err)

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, testContent, string(content))
}

func TestWriteWithFileError(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.txt")

	err := writeWithFile(tmpFile, func(w io.Writer) error {
		return assert.AnError
	}, "Test message")

	require.Error(t, err)
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFileInvalidPath(t *testing.T) {
	err := writeWithFile("/nonexistent/path/file.txt", func(w io.Writer) error {
		return nil
	}, "Test message")
	require.Error(t, err)
}

func TestWriteJSONIntegration(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.json")

	testData := map[string]any{
		"name":  "integration test",
		"count": 123,
	}
	err := writeWithFile(tmpFile, func(w io.Writer) error {
		return writeJSON(w, testData)
	}, "Wrote JSON")
	require.NoError(t, err)

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal(content, &result))
	assert.Equal(t, "integration test", result["name"])
	assert.Equal(t, float64(123), result["count"])
}

func TestWriteCSVIntegration(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.csv")

	err := writeWithFile(tmpFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, []string{"name", "score"}, [][]string{{"Alice", "95"}, {"Bob", "87"}})
	}, "Wrote CSV")
	require.NoError(t, err)

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)

	text := strings.TrimPrefix(string(content), utf8BOM)
	lines := strings.Split(strings.TrimSpace(text), "\n")
	assert.Equal(t, []string{"name;score", "Alice;95", "Bob;87"}, lines)
}

func TestWriteParquetRequiresFile(t *testing.T) {
	err := writeParquet("", []int{1})
	assert.ErrorIs(t, err, errParquetNeedsFile)
}

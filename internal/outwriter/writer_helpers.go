package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/internal/parquet"
)

// utf8BOM lets spreadsheet tools detect the encoding of CSV exports.
const utf8BOM = "\ufeff"

// csvSeparator is the field separator expected by French spreadsheet locales.
const csvSeparator = ';'

// errParquetNeedsFile is returned when parquet output would go to a terminal.
var errParquetNeedsFile = errors.New("--output-file is required for parquet output")

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader writes a BOM-prefixed, semicolon separated CSV document.
func writeCSVWithHeader(w io.Writer, header []string, rows [][]string) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write CSV BOM: %w", err)
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = csvSeparator

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := csvWriter.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

// writeParquet writes rows to the configured output file.
func writeParquet[T any](outputFile string, rows []T) error {
	if outputFile == "" {
		return errParquetNeedsFile
	}
	return writeWithFile(outputFile, func(w io.Writer) error {
		return parquet.WriteRows(w, rows)
	}, "Wrote Parquet")
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// rawNumber prints v with the shortest representation that round-trips.
func rawNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// rawOptional prints a nullable number, leaving the cell empty for nil.
func rawOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return rawNumber(*v)
}

// formatOptional prints a nullable number with fmtFloat, or "-" for nil.
func formatOptional(v *float64, fmtFloat func(float64) string) string {
	if v == nil {
		return "-"
	}
	return fmtFloat(*v)
}

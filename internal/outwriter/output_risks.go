package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/internal/locale"
	"github.com/helexia/contractrisk/internal/parquet"
	"github.com/helexia/contractrisk/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// riskCSVHeader matches the columns of the risk register export.
var riskCSVHeader = []string{
	"ID",
	"Projet",
	"Risque",
	"Type risque",
	"Description du risque",
	"Cout probable maximal (€)",
	"Probabilité avant mitigation (%)",
	"Cout probable avant mitigation (€)",
	"Explication - Calcul",
	"Mitigation",
	"Cout de mitigation (€)",
	"Probabilité après mitigation (%)",
	"Cout probable après mitigation (€)",
}

// WriteRiskRegister outputs a risk register, dispatching based on the output format configured.
func WriteRiskRegister(register schema.RiskRegister, projectID string, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONRiskRegister(w, register)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, riskCSVHeader, riskCSVRows(register))
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquet(cfg.OutputFile, parquet.ConvertRiskRegister(projectID, register)); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRiskTable(register, cfg, fmtFloat, w)
		}, "Wrote table")
	}
	return nil
}

// riskCSVRows keeps numbers unformatted so the export can be re-imported.
func riskCSVRows(register schema.RiskRegister) [][]string {
	rows := make([][]string, 0, len(register.Risks))
	for _, r := range register.Risks {
		rows = append(rows, []string{
			r.ID,
			r.Projet,
			r.Risque,
			r.TypeRisque,
			r.Description,
			rawOptional(r.CoutProbableMaximal),
			rawOptional(r.ProbabiliteAvant),
			rawNumber(r.CoutProbableAvant),
			r.ExplicationCalcul,
			parquet.JoinMitigation(r.MitigationActions),
			rawOptional(r.CoutMitigation),
			rawOptional(r.ProbabiliteApres),
			rawNumber(r.CoutProbableApres),
		})
	}
	return rows
}

// writeRiskTable generates and writes the human-readable risk register.
func writeRiskTable(register schema.RiskRegister, cfg *contract.Config, fmtFloat func(float64) string, w io.Writer) error {
	if register.Project != "" {
		if _, err := fmt.Fprintf(w, "Risk register: %s\n", register.Project); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "ID", "Risque", "Label", "Max (€)", "P. avant", "Avant (€)", "Mitigation (€)", "P. après", "Après (€)"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := GetMaxTableTextWidth(cfg, 95)
	var data [][]string
	for _, r := range schema.EnrichRisks(register.Risks) {
		var p float64
		if r.ProbabiliteAvant != nil {
			p = *r.ProbabiliteAvant
		}
		data = append(data, []string{
			strconv.Itoa(r.Rank),
			r.ID,
			contract.TruncateText(r.Risque, maxWidth),
			contract.GetColorLabel(p),
			formatOptional(r.CoutProbableMaximal, fmtFloat),
			formatOptional(r.ProbabiliteAvant, fmtFloat),
			fmtFloat(r.CoutProbableAvant),
			formatOptional(r.CoutMitigation, fmtFloat),
			formatOptional(r.ProbabiliteApres, fmtFloat),
			fmtFloat(r.CoutProbableApres),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	totals := register.Totals
	if _, err := fmt.Fprintf(w, "Showing %d risks (exposure before: %s, after: %s, reduction: %s)\n",
		len(register.Risks),
		locale.Euros(totals.Before, cfg.Precision),
		locale.Euros(totals.After, cfg.Precision),
		locale.Euros(totals.Reduction(), cfg.Precision),
	); err != nil {
		return err
	}
	return nil
}

// writeJSONRiskRegister writes the register with rank and label added to every risk.
func writeJSONRiskRegister(w io.Writer, register schema.RiskRegister) error {
	type JSONRiskRegister struct {
		Project string                `json:"project,omitempty"`
		Risks   []schema.EnrichedRisk `json:"risks"`
		Totals  schema.Exposure       `json:"totals"`
	}
	return writeJSON(w, JSONRiskRegister{
		Project: register.Project,
		Risks:   schema.EnrichRisks(register.Risks),
		Totals:  register.Totals,
	})
}

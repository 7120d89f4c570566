package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/internal/locale"
	"github.com/helexia/contractrisk/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// ProjectDetail is a project together with its derived register and KPIs.
type ProjectDetail struct {
	Project  schema.Project        `json:"project"`
	Register schema.RiskRegister   `json:"register"`
	Summary  schema.ProjectSummary `json:"summary"`
}

// WriteProjectDetail outputs one project. CSV and Parquet outputs export its risk register.
func WriteProjectDetail(detail ProjectDetail, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, detail)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
		return nil
	case schema.CSVOut, schema.ParquetOut:
		return WriteRiskRegister(detail.Register, detail.Project.ID, cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeProjectText(detail, cfg, w)
		}, "Wrote project")
	}
}

// writeProjectText prints the identity block, the risk register and the deadlines.
func writeProjectText(detail ProjectDetail, cfg *contract.Config, w io.Writer) error {
	p := detail.Project
	lines := []struct {
		label string
		value string
	}{
		{"ID:", p.ID},
		{"Name:", p.ProjectName},
		{"Code:", p.ProjectCode},
		{"Type:", string(p.ProjectType)},
		{"Status:", string(p.Status)},
		{"Address:", p.ProjectAddress},
		{"URL:", p.ProjectURL},
		{"Calculation:", string(p.Inputs.EffectiveMode())},
		{"Saved:", locale.Date(p.SavedAt)},
		{"Pending changes:", fmt.Sprintf("%d", detail.Summary.PendingChanges)},
	}
	for _, l := range lines {
		if l.value == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %-18s %s\n", l.label, l.value); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	fmtFloat, _ := createFormatters(cfg.Precision)
	if err := writeRiskTable(detail.Register, cfg, fmtFloat, w); err != nil {
		return err
	}
	if len(p.Deadlines) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Type", "Description", "Notice (months)", "Amount (€)"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	maxWidth := GetMaxTableTextWidth(cfg, 60)
	var data [][]string
	for _, d := range p.Deadlines {
		data = append(data, []string{
			locale.DateString(d.Date),
			string(d.Type),
			contract.TruncateText(strings.TrimSpace(d.Description), maxWidth),
			fmt.Sprintf("%d", d.NoticePeriodInMonths),
			formatOptional(d.Amount, fmtFloat),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

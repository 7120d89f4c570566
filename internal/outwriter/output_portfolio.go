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

// portfolioCSVHeader matches the columns of the project list export.
func portfolioCSVHeader(months int) []string {
	return []string{
		"Nom du projet",
		"Statut",
		"Exposition (Avant Mitigation) (€)",
		"Exposition (Après Mitigation) (€)",
		fmt.Sprintf("Échéances < %d mois", months),
		"Date de sauvegarde",
	}
}

// WritePortfolio outputs the portfolio indicators, dispatching based on the output format configured.
func WritePortfolio(kpis schema.PortfolioKPIs, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	months := upcomingWindow(cfg)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, kpis)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, portfolioCSVHeader(months), portfolioCSVRows(kpis.Projects))
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquet(cfg.OutputFile, parquet.ConvertProjectSummaries(kpis.Projects)); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePortfolioTable(kpis, cfg, fmtFloat, intFmt, w)
		}, "Wrote table")
	}
	return nil
}

func upcomingWindow(cfg *contract.Config) int {
	if cfg.UpcomingWindowMonths > 0 {
		return cfg.UpcomingWindowMonths
	}
	return contract.DefaultUpcomingWindowMonths
}

func portfolioCSVRows(projects []schema.ProjectSummary) [][]string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			p.ProjectName,
			string(p.Status),
			rawNumber(p.Exposure.Before),
			rawNumber(p.Exposure.After),
			strconv.Itoa(p.UpcomingDeadlines),
			locale.Date(p.SavedAt),
		})
	}
	return rows
}

// writePortfolioTable prints the project list followed by the global indicators.
func writePortfolioTable(kpis schema.PortfolioKPIs, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Project", "Code", "Status", "Before (€)", "After (€)", "Deadlines", "Pending CR", "Saved"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := GetMaxTableTextWidth(cfg, 85)
	var data [][]string
	for i, p := range kpis.Projects {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(p.ProjectName, maxWidth),
			p.ProjectCode,
			string(p.Status),
			fmtFloat(p.Exposure.Before),
			fmtFloat(p.Exposure.After),
			fmt.Sprintf(intFmt, p.UpcomingDeadlines),
			fmt.Sprintf(intFmt, p.PendingChanges),
			locale.Date(p.SavedAt),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	lines := []struct {
		label string
		value string
	}{
		{"Active projects:", strconv.Itoa(kpis.TotalProjects)},
		{"Gross exposure:", locale.Euros(kpis.Exposure.Before, cfg.Precision)},
		{"Residual exposure:", locale.Euros(kpis.Exposure.After, cfg.Precision)},
		{"Mitigation gain:", locale.Euros(kpis.Exposure.Reduction(), cfg.Precision)},
		{"Change requests:", fmt.Sprintf("%d (%d pending)", kpis.Changes.Total, kpis.Changes.Pending)},
		{"Committed change cost:", locale.Euros(kpis.Changes.CostImpact, cfg.Precision)},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "  %-24s %s\n", l.label, l.value); err != nil {
			return err
		}
	}

	if len(kpis.UpcomingDeadlines) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Next deadlines:"); err != nil {
		return err
	}
	for _, d := range kpis.UpcomingDeadlines {
		if _, err := fmt.Fprintf(w, "  %s  %s: %s (%s)\n", locale.DateString(d.Date), d.ProjectName, d.Description, d.Type); err != nil {
			return err
		}
	}
	return nil
}

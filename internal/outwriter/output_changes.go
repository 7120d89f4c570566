package outwriter

import (
	"fmt"
	"io"

	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/internal/locale"
	"github.com/helexia/contractrisk/internal/parquet"
	"github.com/helexia/contractrisk/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// changeCSVHeader matches the columns of the change register export.
var changeCSVHeader = []string{"ID", "Titre", "Projet", "Demandeur", "Statut", "Date de Création"}

// WriteChangeRequests outputs a change register, dispatching based on the output format configured.
func WriteChangeRequests(changes []schema.ChangeRequest, stats schema.ChangeStats, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		type JSONChanges struct {
			Changes []schema.ChangeRequest `json:"changes"`
			Stats   schema.ChangeStats     `json:"stats"`
		}
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, JSONChanges{Changes: changes, Stats: stats})
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, changeCSVHeader, changeCSVRows(changes))
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquet(cfg.OutputFile, parquet.ConvertChangeRequests(changes)); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeChangeTable(changes, stats, cfg, fmtFloat, w)
		}, "Wrote table")
	}
	return nil
}

func changeCSVRows(changes []schema.ChangeRequest) [][]string {
	rows := make([][]string, 0, len(changes))
	for _, c := range changes {
		rows = append(rows, []string{
			c.ID,
			c.Title,
			c.ProjectName,
			c.RequesterName,
			string(c.Status),
			locale.Date(c.CreatedAt),
		})
	}
	return rows
}

func writeChangeTable(changes []schema.ChangeRequest, stats schema.ChangeStats, cfg *contract.Config, fmtFloat func(float64) string, w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Number", "Title", "Project", "Requester", "Status", "Priority", "Cost (€)", "Created"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	maxWidth := GetMaxTableTextWidth(cfg, 90)
	var data [][]string
	for _, c := range changes {
		data = append(data, []string{
			c.ChangeNumber,
			contract.TruncateText(c.Title, maxWidth),
			c.ProjectName,
			c.RequesterName,
			string(c.Status),
			string(c.Priority),
			formatOptional(c.EstimatedCost, fmtFloat),
			locale.Date(c.CreatedAt),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d change requests (%d pending, committed cost: %s, average cost: %s)\n",
		stats.Total, stats.Pending,
		locale.Euros(stats.CostImpact, cfg.Precision),
		locale.Euros(stats.AverageCost, cfg.Precision))
	return err
}

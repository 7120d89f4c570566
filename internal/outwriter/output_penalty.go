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

// penaltyHeader is the header of the calculator export.
var penaltyHeader = []string{"Description", "Valeur"}

// WritePenaltyReport outputs a penalty calculation, dispatching based on the output format configured.
func WritePenaltyReport(report schema.PenaltyReport, projectName string, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, penaltyHeader, penaltyRows(report, projectName))
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquet(cfg.OutputFile, []parquet.PenaltyRow{parquet.ConvertPenaltyReport(report)}); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePenaltyTable(report, projectName, w)
		}, "Wrote table")
	}
	return nil
}

// penaltyRows lists the calculator export rows of the active mode.
// Blank rows separate the inputs from the results.
func penaltyRows(report schema.PenaltyReport, projectName string) [][]string {
	if projectName == "" {
		projectName = locale.NotAvailable
	}
	in, res := report.Inputs, report.Results
	blank := []string{"", ""}

	if report.Mode == schema.SeedMode {
		return [][]string{
			{"Nom du Projet", projectName},
			{"Type de Calcul", "Pourcentage (SEED)"},
			blank,
			{"Montant du marché (€)", locale.Number(in.MontantMarche)},
			{"Taux pénalité (%/jour)", locale.Number(in.TauxPenaliteJournalier)},
			{"Plafond pénalités (%)", locale.Number(in.PlafondPenalitesPourcentage)},
			{"Nombre de jours de retard", locale.Number(float64(in.NombreJoursRetard))},
			blank,
			{"Pénalité par jour (€)", locale.Number(res.PenaliteJournaliereSeed)},
			{"Montant du Plafond (€)", locale.Number(res.PlafondMontantSeed)},
			{"Pénalité Totale (avant plafond) (€)", locale.Number(res.PenaliteTotaleSeed)},
			{"Pénalité Finale (après plafond) (€)", locale.Number(res.PenaliteFinaleSeed)},
		}
	}

	return [][]string{
		{"Nom du Projet", projectName},
		{"Type de Calcul", "Forfaitaire (PV)"},
		blank,
		{"Pénalité (€/jour)", locale.Number(res.TotalImpactJournalier)},
		{"Valeur du Plafond (€)", locale.Number(res.PlafondValeur)},
		{"Jours Avant Plafond", locale.Number(res.PlafondJours)},
		blank,
		{"Coût total Centrale (€)", locale.Number(in.CentraleTotal)},
		{"O&M Annuel (€)", locale.Number(in.OAndMAnnuel)},
		{"Production Annuelle (MWh/an)", locale.Number(in.ProductionAnnuelMWh)},
		blank,
		{"TCO (€/MWh)", locale.Fixed(res.TCO, 2)},
	}
}

// writePenaltyTable prints the headline figures, the export rows and the clause if any.
func writePenaltyTable(report schema.PenaltyReport, projectName string, w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.Header(penaltyHeader)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignRight}
	})

	var data [][]string
	for _, row := range penaltyRows(report, projectName) {
		if row[0] == "" {
			continue
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if report.Mode == schema.SeedMode {
		if _, err := fmt.Fprintf(w, "Final penalty: %s after %s day(s) of delay\n",
			locale.Euros(report.Results.PenaliteFinaleSeed, 2), strconv.Itoa(report.Inputs.NombreJoursRetard)); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w, "Daily penalty: %s, cap reached after %s day(s)\n",
			locale.Euros(report.DailyPenalty, 0), locale.Number(report.DaysToCap)); err != nil {
			return err
		}
	}

	if report.Clause != "" {
		if _, err := fmt.Fprintf(w, "\nClause:\n%s\n", report.Clause); err != nil {
			return err
		}
	}
	return nil
}

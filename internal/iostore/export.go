package iostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/helexia/contractrisk/core/exposure"
	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/internal/parquet"
	"github.com/helexia/contractrisk/schema"
)

// ExecuteStoreExport exports every stored project to a family of Parquet files
// sharing outputFile as prefix.
func ExecuteStoreExport(ctx context.Context, store contract.ProjectStore, outputFile string, now time.Time, months int) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalProjects == 0 {
		return errors.New("no project data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total projects: %d\n", status.TotalProjects)
	fmt.Printf("Total risks: %d\n", status.TotalRisks)

	projects, err := store.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve projects: %w", err)
	}

	summaries := make([]schema.ProjectSummary, 0, len(projects))
	var risks []parquet.RiskRow
	var deadlines []parquet.DeadlineRow
	var changes []parquet.ChangeRequestRow
	for _, p := range projects {
		summaries = append(summaries, exposure.Summarize(p, now, months))
		risks = append(risks, parquet.ConvertRiskRegister(p.ID, exposure.Annotate(p.ProjectName, p.Risks))...)
		deadlines = append(deadlines, parquet.ConvertDeadlines(p.ID, p.Deadlines)...)
		changes = append(changes, parquet.ConvertChangeRequests(p.ChangeRequests)...)
	}

	projectRows := parquet.ConvertProjectSummaries(summaries)
	if err := writeExport(outputFile+".projects.parquet", "projects", projectRows); err != nil {
		return err
	}
	if err := writeExport(outputFile+".risks.parquet", "risks", risks); err != nil {
		return err
	}
	if err := writeExport(outputFile+".deadlines.parquet", "deadlines", deadlines); err != nil {
		return err
	}
	if err := writeExport(outputFile+".change_requests.parquet", "change requests", changes); err != nil {
		return err
	}

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}

func writeExport[T any](path, label string, rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	if err := parquet.WriteFile(rows, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", label, err)
	}
	fmt.Printf("Exported %d %s to: %s\n", len(rows), label, path)
	return nil
}

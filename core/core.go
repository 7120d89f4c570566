// Package core has core logic for penalty calculations, risk registers and portfolios.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/helexia/contractrisk/core/clause"
	"github.com/helexia/contractrisk/core/exposure"
	"github.com/helexia/contractrisk/core/penalty"
	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/internal/outwriter"
	"github.com/helexia/contractrisk/schema"
)

// ErrNoStore is returned by the project commands when the store backend is disabled.
var ErrNoStore = errors.New("project store is disabled, set --store-backend to sqlite or mysql or postgresql")

// writer is the output writer shared by all Execute functions.
var writer = outwriter.NewOutWriter()

// PenaltyOptions selects the extras printed with a penalty calculation.
type PenaltyOptions struct {
	WithClause bool
	Generator  contract.TextGenerator // nil keeps the default clause
}

// ExecutePenalty computes a penalty calculation and prints it.
// It serves as the main entry point for the 'penalty' command.
func ExecutePenalty(ctx context.Context, cfg *contract.Config, inputs schema.CalculatorInputs, opts PenaltyOptions) error {
	if err := contract.ValidateInputs(inputs); err != nil {
		return err
	}
	report := penalty.Report(contract.NormalizeInputs(inputs))
	if opts.WithClause {
		report.Clause = clauseText(ctx, opts.Generator, report)
	}
	return writer.WritePenalty(report, "", cfg)
}

// ExecuteClause prints the penalty clause of a calculation to w.
// With a generator the clause is rewritten by it, falling back to the default text.
func ExecuteClause(ctx context.Context, w io.Writer, inputs schema.CalculatorInputs, gen contract.TextGenerator) error {
	if err := contract.ValidateInputs(inputs); err != nil {
		return err
	}
	report := penalty.Report(contract.NormalizeInputs(inputs))
	_, err := fmt.Fprintln(w, clauseText(ctx, gen, report))
	return err
}

// ExecuteRisks prints the register of a risk list read outside the store.
func ExecuteRisks(_ context.Context, cfg *contract.Config, projectName string, risks []schema.RiskItem) error {
	for _, r := range risks {
		if err := contract.ValidateRisk(r); err != nil {
			return err
		}
	}
	return writer.WriteRisks(exposure.Annotate(projectName, risks), "", cfg)
}

// ExecuteProjectRisks prints the risk register of a stored project.
func ExecuteProjectRisks(ctx context.Context, cfg *contract.Config, store contract.ProjectStore, id string) error {
	if store == nil {
		return ErrNoStore
	}
	p, register, err := ProjectRegister(ctx, store, id)
	if err != nil {
		return err
	}
	return writer.WriteRisks(register, p.ID, cfg)
}

// ExecuteProjectShow prints a project with its KPIs, risks and deadlines.
func ExecuteProjectShow(ctx context.Context, cfg *contract.Config, store contract.ProjectStore, id string) error {
	if store == nil {
		return ErrNoStore
	}
	p, register, err := ProjectRegister(ctx, store, id)
	if err != nil {
		return err
	}
	detail := outwriter.ProjectDetail{
		Project:  p,
		Register: register,
		Summary:  exposure.Summarize(p, nowFrom(ctx), windowMonths(cfg)),
	}
	return writer.WriteProject(detail, cfg)
}

// ExecuteProjectCalculate recomputes a stored project and prints the calculation.
// A nil inputs reuses the stored inputs.
func ExecuteProjectCalculate(ctx context.Context, cfg *contract.Config, store contract.ProjectStore, id string, inputs *schema.CalculatorInputs) error {
	if store == nil {
		return ErrNoStore
	}
	p, report, err := CalculateProject(ctx, store, id, inputs, nowFrom(ctx))
	if err != nil {
		return err
	}
	return writer.WritePenalty(report, p.ProjectName, cfg)
}

// ExecutePortfolio prints every project with the global indicators.
func ExecutePortfolio(ctx context.Context, cfg *contract.Config, store contract.ProjectStore) error {
	if store == nil {
		return ErrNoStore
	}
	kpis, err := Portfolio(ctx, store, nowFrom(ctx), windowMonths(cfg))
	if err != nil {
		return err
	}
	return writer.WritePortfolio(kpis, cfg)
}

// ExecuteChanges prints the change requests matching the filters with their statistics.
func ExecuteChanges(ctx context.Context, cfg *contract.Config, store contract.ProjectStore, projectID string, status schema.ChangeStatus) error {
	if store == nil {
		return ErrNoStore
	}
	changes, err := ListChangeRequests(ctx, store, projectID, status)
	if err != nil {
		return err
	}
	return writer.WriteChanges(changes, exposure.Changes(changes), cfg)
}

// clauseText returns the clause of a report, generated when gen is set.
func clauseText(ctx context.Context, gen contract.TextGenerator, report schema.PenaltyReport) string {
	if gen == nil {
		return clause.Default(report.Inputs, report.Results)
	}
	text, err := clause.Generate(ctx, gen, report.Inputs, report.Results)
	if err != nil {
		contract.LogWarn("Falling back to the default clause", err)
	}
	return text
}

func windowMonths(cfg *contract.Config) int {
	if cfg.UpcomingWindowMonths > 0 {
		return cfg.UpcomingWindowMonths
	}
	return contract.DefaultUpcomingWindowMonths
}

package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/helexia/contractrisk/core"
	"github.com/helexia/contractrisk/core/clause"
	"github.com/helexia/contractrisk/core/exposure"
	"github.com/helexia/contractrisk/core/penalty"
	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
	gen     contract.TextGenerator
	now     func() time.Time // nil means time.Now
}

func (h *toolHandler) clock() time.Time {
	if h.now != nil {
		return h.now()
	}
	return time.Now()
}

func (h *toolHandler) store() (contract.ProjectStore, error) {
	if h.mgr == nil || h.mgr.GetProjectStore() == nil {
		return nil, core.ErrNoStore
	}
	return h.mgr.GetProjectStore(), nil
}

// inputsFromRequest overlays the calculator arguments of request on the blank calculator.
func inputsFromRequest(request mcp.CallToolRequest) (schema.CalculatorInputs, error) {
	in := schema.DefaultInputs()
	in.CalculationMode = schema.CalculationMode(request.GetString("mode", string(in.CalculationMode)))

	floats := map[string]*float64{
		"centraleTotal":                &in.CentraleTotal,
		"oAndMAnnuel":                  &in.OAndMAnnuel,
		"productionAnnuelMWh":          &in.ProductionAnnuelMWh,
		"plantLifetimeYears":           &in.PlantLifetimeYears,
		"selfConsumptionRate":          &in.SelfConsumptionRate,
		"gridPriceMWh":                 &in.GridPriceMWh,
		"capPercentage":                &in.CapPercentage,
		"administrativeFeesPercentage": &in.AdministrativeFeesPercentage,
		"montantMarche":                &in.MontantMarche,
		"tauxPenaliteJournalier":       &in.TauxPenaliteJournalier,
		"plafondPenalitesPourcentage":  &in.PlafondPenalitesPourcentage,
	}
	for name, field := range floats {
		*field = request.GetFloat(name, *field)
	}
	in.NombreJoursRetard = request.GetInt("nombreJoursRetard", in.NombreJoursRetard)

	if err := contract.ValidateInputs(in); err != nil {
		return schema.CalculatorInputs{}, err
	}
	return contract.NormalizeInputs(in), nil
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleComputePenalty(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inputs, err := inputsFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid calculator inputs: %v", err)), nil
	}

	report := penalty.Report(inputs)
	report.Clause = clause.Default(report.Inputs, report.Results)
	return jsonResult(report), nil
}

func (h *toolHandler) handleAggregateExposure(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := request.GetArguments()["risks"]
	if !ok {
		return mcp.NewToolResultError("invalid risks: risks is required"), nil
	}

	// Arguments arrive as generic JSON values, round-trip them into typed risks
	data, err := json.Marshal(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid risks: %v", err)), nil
	}
	var risks []schema.RiskItem
	if err := json.Unmarshal(data, &risks); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid risks: %v", err)), nil
	}
	for _, r := range risks {
		if err := contract.ValidateRisk(r); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid risks: %v", err)), nil
		}
	}

	register := exposure.Annotate(request.GetString("project", ""), risks)
	return jsonResult(enrichedRegister(register)), nil
}

func (h *toolHandler) handlePenaltyClause(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inputs, err := inputsFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid calculator inputs: %v", err)), nil
	}
	results := penalty.Compute(inputs)

	if !request.GetBool("ai", false) {
		return mcp.NewToolResultText(clause.Default(inputs, results)), nil
	}
	text, err := clause.Generate(ctx, h.gen, inputs, results)
	if err != nil {
		contract.Logger.Warn().Err(err).Msg("mcp clause generation fell back to the default clause")
	}
	return mcp.NewToolResultText(text), nil
}

func (h *toolHandler) handleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, err := h.store()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	months := request.GetInt("months", 0)
	if months <= 0 {
		months = contract.DefaultUpcomingWindowMonths
		if h.baseCfg != nil && h.baseCfg.UpcomingWindowMonths > 0 {
			months = h.baseCfg.UpcomingWindowMonths
		}
	}

	kpis, err := core.Portfolio(ctx, store, h.clock(), months)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing projects failed: %v", err)), nil
	}
	return jsonResult(kpis), nil
}

func (h *toolHandler) handleProjectExposure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("project_id", "")
	if id == "" {
		return mcp.NewToolResultError("project_id is required"), nil
	}
	store, err := h.store()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	_, register, err := core.ProjectRegister(ctx, store, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading project failed: %v", err)), nil
	}
	return jsonResult(enrichedRegister(register)), nil
}

func enrichedRegister(register schema.RiskRegister) any {
	type JSONRiskRegister struct {
		Project string                `json:"project,omitempty"`
		Risks   []schema.EnrichedRisk `json:"risks"`
		Totals  schema.Exposure       `json:"totals"`
	}
	return JSONRiskRegister{
		Project: register.Project,
		Risks:   schema.EnrichRisks(register.Risks),
		Totals:  register.Totals,
	}
}

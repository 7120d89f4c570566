// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/helexia/contractrisk/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// calculatorOptions declares the calculator inputs shared by the penalty tools.
func calculatorOptions(description string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithDescription(description),
		mcp.WithString("mode", mcp.Description("Calculation mode (pv, seed). Defaults to 'pv'."), mcp.Enum("pv", "seed")),
		// PV mode
		mcp.WithNumber("centraleTotal", mcp.Description("PV: total plant investment in euros.")),
		mcp.WithNumber("oAndMAnnuel", mcp.Description("PV: yearly operation and maintenance cost in euros.")),
		mcp.WithNumber("productionAnnuelMWh", mcp.Description("PV: yearly production in MWh.")),
		mcp.WithNumber("plantLifetimeYears", mcp.Description("PV: plant lifetime in years (default 30).")),
		mcp.WithNumber("selfConsumptionRate", mcp.Description("PV: self-consumption rate in percent (default 100).")),
		mcp.WithNumber("gridPriceMWh", mcp.Description("PV: grid price per MWh in euros (default 200).")),
		mcp.WithNumber("capPercentage", mcp.Description("PV: penalty cap in percent of the plant total (default 5).")),
		mcp.WithNumber("administrativeFeesPercentage", mcp.Description("PV: administrative fees in percent (default 10).")),
		// SEED mode
		mcp.WithNumber("montantMarche", mcp.Description("SEED: contract amount in euros.")),
		mcp.WithNumber("tauxPenaliteJournalier", mcp.Description("SEED: daily penalty rate in percent (default 0.5).")),
		mcp.WithNumber("plafondPenalitesPourcentage", mcp.Description("SEED: penalty cap in percent of the contract (default 10).")),
		mcp.WithNumber("nombreJoursRetard", mcp.Description("SEED: number of delay days.")),
	}
}

// NewMCPServer initializes and configures the contractrisk MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager, gen contract.TextGenerator) *server.MCPServer {
	s := server.NewMCPServer(
		"Contract Risk Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		gen:     gen,
	}

	// --- 1. Tool: compute_penalty ---
	s.AddTool(mcp.NewTool("compute_penalty",
		calculatorOptions("Compute late-delivery penalties for a PV or SEED contract.")...,
	), h.handleComputePenalty)

	// --- 2. Tool: aggregate_exposure ---
	s.AddTool(mcp.NewTool("aggregate_exposure",
		mcp.WithDescription("Compute probable costs before and after mitigation for a list of risks."),
		mcp.WithArray("risks",
			mcp.Description("Risks with risque, coutProbableMaximal, probabiliteAvant, coutMitigation and probabiliteApres."),
			mcp.Required(),
		),
		mcp.WithString("project", mcp.Description("Optional project name reported with the register.")),
	), h.handleAggregateExposure)

	// --- 3. Tool: penalty_clause ---
	s.AddTool(mcp.NewTool("penalty_clause",
		append(calculatorOptions("Draft the penalty clause of a contract for a PV or SEED calculation."),
			mcp.WithBoolean("ai", mcp.Description("Rewrite the clause with the configured generative model.")),
		)...,
	), h.handlePenaltyClause)

	// --- 4. Tool: list_projects ---
	s.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List stored projects with their exposure, upcoming deadlines and pending changes."),
		mcp.WithNumber("months", mcp.Description("Look-ahead window for upcoming deadlines in months (default 6).")),
	), h.handleListProjects)

	// --- 5. Tool: project_exposure ---
	s.AddTool(mcp.NewTool("project_exposure",
		mcp.WithDescription("Return the risk register of a stored project with its exposure totals."),
		mcp.WithString("project_id", mcp.Description("ID of the project."), mcp.Required()),
	), h.handleProjectExposure)

	return s
}

// StartMCPServer starts the contractrisk MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager, gen contract.TextGenerator) error {
	s := NewMCPServer(baseCfg, mgr, gen)
	return server.ServeStdio(s)
}

// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WritePenalty prints a penalty calculation using the configured output format.
func (ow *OutWriter) WritePenalty(report schema.PenaltyReport, projectName string, cfg *contract.Config) error {
	return WritePenaltyReport(report, projectName, cfg)
}

// WriteRisks prints a risk register using the configured output format.
func (ow *OutWriter) WriteRisks(register schema.RiskRegister, projectID string, cfg *contract.Config) error {
	return WriteRiskRegister(register, projectID, cfg)
}

// WritePortfolio prints the portfolio indicators using the configured output format.
func (ow *OutWriter) WritePortfolio(kpis schema.PortfolioKPIs, cfg *contract.Config) error {
	return WritePortfolio(kpis, cfg)
}

// WriteProject prints one project using the configured output format.
func (ow *OutWriter) WriteProject(detail ProjectDetail, cfg *contract.Config) error {
	return WriteProjectDetail(detail, cfg)
}

// WriteChanges prints a change register using the configured output format.
func (ow *OutWriter) WriteChanges(changes []schema.ChangeRequest, stats schema.ChangeStats, cfg *contract.Config) error {
	return WriteChangeRequests(changes, stats, cfg)
}

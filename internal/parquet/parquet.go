// Package parquet provides data structures and functions for exporting projects,
// risk registers and calculations to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/helexia/contractrisk/schema"
	"github.com/parquet-go/parquet-go"
)

// ProjectRow is one project with its derived KPIs.
// This struct maps to the contractrisk_projects table plus computed columns.
type ProjectRow struct {
	ProjectID   string `parquet:"project_id,snappy"`
	ProjectName string `parquet:"project_name,snappy"`
	ProjectCode string `parquet:"project_code,snappy"`
	ProjectType string `parquet:"project_type,snappy"`
	Status      string `parquet:"status,snappy"`

	// SavedAt is stored as TIMESTAMP with nanosecond precision
	SavedAt time.Time `parquet:"saved_at,snappy"`

	ExposureBefore    float64 `parquet:"exposure_before,snappy"`
	ExposureAfter     float64 `parquet:"exposure_after,snappy"`
	UpcomingDeadlines int32   `parquet:"upcoming_deadlines,snappy"`
	PendingChanges    int32   `parquet:"pending_changes,snappy"`
	ChangeCostImpact  float64 `parquet:"change_cost_impact,snappy"`
}

// RiskRow is one entry of a risk register with its probable costs.
// Nullable columns mirror the nullable fields of a risk.
type RiskRow struct {
	ProjectID           string   `parquet:"project_id,snappy"`
	UID                 string   `parquet:"uid,snappy"`
	RiskID              string   `parquet:"risk_id,snappy"`
	Projet              string   `parquet:"projet,snappy"`
	Risque              string   `parquet:"risque,snappy"`
	TypeRisque          string   `parquet:"type_risque,snappy"`
	Description         string   `parquet:"description,snappy"`
	CoutProbableMaximal *float64 `parquet:"cout_probable_maximal,optional,snappy"`
	ProbabiliteAvant    *float64 `parquet:"probabilite_avant,optional,snappy"`
	CoutProbableAvant   float64  `parquet:"cout_probable_avant,snappy"`
	ExplicationCalcul   string   `parquet:"explication_calcul,snappy"`

	// Mitigation joins the action descriptions with "; "
	Mitigation        string   `parquet:"mitigation,snappy"`
	CoutMitigation    *float64 `parquet:"cout_mitigation,optional,snappy"`
	ProbabiliteApres  *float64 `parquet:"probabilite_apres,optional,snappy"`
	CoutProbableApres float64  `parquet:"cout_probable_apres,snappy"`
}

// DeadlineRow is one contractual deadline.
type DeadlineRow struct {
	ProjectID            string   `parquet:"project_id,snappy"`
	DeadlineID           string   `parquet:"deadline_id,snappy"`
	Description          string   `parquet:"description,snappy"`
	Date                 string   `parquet:"deadline_date,snappy"`
	NoticePeriodInMonths int32    `parquet:"notice_period_months,snappy"`
	Type                 string   `parquet:"deadline_type,snappy"`
	Amount               *float64 `parquet:"amount,optional,snappy"`
}

// ChangeRequestRow is one change request.
type ChangeRequestRow struct {
	ChangeID      string    `parquet:"change_id,snappy"`
	ProjectID     string    `parquet:"project_id,snappy"`
	ChangeNumber  string    `parquet:"change_number,snappy"`
	Title         string    `parquet:"title,snappy"`
	Status        string    `parquet:"status,snappy"`
	Priority      string    `parquet:"priority,snappy"`
	RequesterName string    `parquet:"requester_name,snappy"`
	EstimatedCost *float64  `parquet:"estimated_cost,optional,snappy"`
	CreatedAt     time.Time `parquet:"created_at,snappy"`
}

// PenaltyRow is one penalty calculation, both models side by side.
type PenaltyRow struct {
	Mode string `parquet:"mode,snappy"`

	TotalImpactJournalier      float64 `parquet:"total_impact_journalier,snappy"`
	PlafondValeur              float64 `parquet:"plafond_valeur,snappy"`
	PlafondJours               float64 `parquet:"plafond_jours,snappy"`
	CentraleAnnuel             float64 `parquet:"centrale_annuel,snappy"`
	CentraleJournalier         float64 `parquet:"centrale_journalier,snappy"`
	OAndMAnnuel                float64 `parquet:"o_and_m_annuel,snappy"`
	OAndMJournalier            float64 `parquet:"o_and_m_journalier,snappy"`
	AutoconsommationAnnuel     float64 `parquet:"autoconsommation_annuel,snappy"`
	AutoconsommationJournalier float64 `parquet:"autoconsommation_journalier,snappy"`
	TCO                        float64 `parquet:"tco,snappy"`
	CoutSoutirageReseau        float64 `parquet:"cout_soutirage_reseau,snappy"`
	CoutSoutirageCentrale      float64 `parquet:"cout_soutirage_centrale,snappy"`
	ImpactFinancierJournalier  float64 `parquet:"impact_financier_journalier,snappy"`
	FraisAdministratifs        float64 `parquet:"frais_administratifs,snappy"`

	PenaliteJournaliereSeed float64 `parquet:"penalite_journaliere_seed,snappy"`
	PlafondMontantSeed      float64 `parquet:"plafond_montant_seed,snappy"`
	PenaliteTotaleSeed      float64 `parquet:"penalite_totale_seed,snappy"`
	PenaliteFinaleSeed      float64 `parquet:"penalite_finale_seed,snappy"`

	DailyPenalty float64 `parquet:"daily_penalty,snappy"`
	DaysToCap    float64 `parquet:"days_to_cap,snappy"`
}

// WriteRows writes rows to w, deriving the Parquet schema from the struct tags of T.
func WriteRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)

	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile writes rows to a new Parquet file at outputPath.
func WriteFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return WriteRows(file, rows)
}

// ConvertProjectSummaries converts project summaries for Parquet export.
func ConvertProjectSummaries(summaries []schema.ProjectSummary) []ProjectRow {
	result := make([]ProjectRow, len(summaries))
	for i, s := range summaries {
		result[i] = ProjectRow{
			ProjectID:         s.ID,
			ProjectName:       s.ProjectName,
			ProjectCode:       s.ProjectCode,
			ProjectType:       string(s.ProjectType),
			Status:            string(s.Status),
			SavedAt:           s.SavedAt,
			ExposureBefore:    s.Exposure.Before,
			ExposureAfter:     s.Exposure.After,
			UpcomingDeadlines: int32(s.UpcomingDeadlines),
			PendingChanges:    int32(s.PendingChanges),
			ChangeCostImpact:  s.ChangeCostImpact,
		}
	}
	return result
}

// ConvertRiskRegister converts an annotated risk register for Parquet export.
func ConvertRiskRegister(projectID string, register schema.RiskRegister) []RiskRow {
	result := make([]RiskRow, len(register.Risks))
	for i, r := range register.Risks {
		result[i] = RiskRow{
			ProjectID:           projectID,
			UID:                 r.UID,
			RiskID:              r.ID,
			Projet:              r.Projet,
			Risque:              r.Risque,
			TypeRisque:          r.TypeRisque,
			Description:         r.Description,
			CoutProbableMaximal: r.CoutProbableMaximal,
			ProbabiliteAvant:    r.ProbabiliteAvant,
			CoutProbableAvant:   r.CoutProbableAvant,
			ExplicationCalcul:   r.ExplicationCalcul,
			Mitigation:          JoinMitigation(r.MitigationActions),
			CoutMitigation:      r.CoutMitigation,
			ProbabiliteApres:    r.ProbabiliteApres,
			CoutProbableApres:   r.CoutProbableApres,
		}
	}
	return result
}

// ConvertDeadlines converts the deadlines of a project for Parquet export.
func ConvertDeadlines(projectID string, deadlines []schema.ContractDeadline) []DeadlineRow {
	result := make([]DeadlineRow, len(deadlines))
	for i, d := range deadlines {
		result[i] = DeadlineRow{
			ProjectID:            projectID,
			DeadlineID:           d.ID,
			Description:          d.Description,
			Date:                 d.Date,
			NoticePeriodInMonths: int32(d.NoticePeriodInMonths),
			Type:                 string(d.Type),
			Amount:               d.Amount,
		}
	}
	return result
}

// ConvertChangeRequests converts change requests for Parquet export.
func ConvertChangeRequests(changes []schema.ChangeRequest) []ChangeRequestRow {
	result := make([]ChangeRequestRow, len(changes))
	for i, c := range changes {
		result[i] = ChangeRequestRow{
			ChangeID:      c.ID,
			ProjectID:     c.ProjectID,
			ChangeNumber:  c.ChangeNumber,
			Title:         c.Title,
			Status:        string(c.Status),
			Priority:      string(c.Priority),
			RequesterName: c.RequesterName,
			EstimatedCost: c.EstimatedCost,
			CreatedAt:     c.CreatedAt,
		}
	}
	return result
}

// ConvertPenaltyReport converts a calculation for Parquet export.
func ConvertPenaltyReport(report schema.PenaltyReport) PenaltyRow {
	r := report.Results
	return PenaltyRow{
		Mode:                       string(report.Mode),
		TotalImpactJournalier:      r.TotalImpactJournalier,
		PlafondValeur:              r.PlafondValeur,
		PlafondJours:               r.PlafondJours,
		CentraleAnnuel:             r.CentraleAnnuel,
		CentraleJournalier:         r.CentraleJournalier,
		OAndMAnnuel:                r.OAndMAnnuel,
		OAndMJournalier:            r.OAndMJournalier,
		AutoconsommationAnnuel:     r.AutoconsommationAnnuel,
		AutoconsommationJournalier: r.AutoconsommationJournalier,
		TCO:                        r.TCO,
		CoutSoutirageReseau:        r.CoutSoutirageReseau,
		CoutSoutirageCentrale:      r.CoutSoutirageCentrale,
		ImpactFinancierJournalier:  r.ImpactFinancierJournalier,
		FraisAdministratifs:        r.FraisAdministratifs,
		PenaliteJournaliereSeed:    r.PenaliteJournaliereSeed,
		PlafondMontantSeed:         r.PlafondMontantSeed,
		PenaliteTotaleSeed:         r.PenaliteTotaleSeed,
		PenaliteFinaleSeed:         r.PenaliteFinaleSeed,
		DailyPenalty:               report.DailyPenalty,
		DaysToCap:                  report.DaysToCap,
	}
}

// JoinMitigation renders mitigation actions the way spreadsheets expect them.
func JoinMitigation(actions []schema.MitigationAction) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = a.Description
	}
	return strings.Join(parts, "; ")
}

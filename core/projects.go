package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/helexia/contractrisk/core/exposure"
	"github.com/helexia/contractrisk/core/penalty"
	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/internal/iostore"
	"github.com/helexia/contractrisk/schema"
)

// DefaultRequester is recorded on change requests created without a requester.
const DefaultRequester = "Interne"

// NewProject returns a blank project in phase O5 with the default calculator.
func NewProject(name, code, address string, projectType schema.ProjectType) schema.Project {
	return schema.Project{
		ProjectName:    strings.TrimSpace(name),
		ProjectCode:    strings.TrimSpace(code),
		ProjectAddress: strings.TrimSpace(address),
		ProjectType:    projectType,
		Status:         schema.StatusO5,
		Inputs:         schema.DefaultInputs(),
		Risks:          []schema.RiskItem{},
		Deadlines:      []schema.ContractDeadline{},
		ChangeRequests: []schema.ChangeRequest{},
	}
}

// CreateProject fills missing identifiers, validates p and saves it.
// Projects imported from a file keep their ID, risks and results.
func CreateProject(ctx context.Context, store contract.ProjectStore, p schema.Project, now time.Time) (schema.Project, error) {
	if p.ID == "" {
		p.ID = iostore.NewProjectID()
	}
	if p.Status == "" {
		p.Status = schema.StatusO5
	}
	if p.Inputs == (schema.CalculatorInputs{}) {
		p.Inputs = schema.DefaultInputs()
	}
	p.Inputs = contract.NormalizeInputs(p.Inputs)
	if p.Risks == nil {
		p.Risks = []schema.RiskItem{}
	}
	if p.Deadlines == nil {
		p.Deadlines = []schema.ContractDeadline{}
	}
	if p.ChangeRequests == nil {
		p.ChangeRequests = []schema.ChangeRequest{}
	}

	seen := make(map[string]struct{}, len(p.Risks))
	for i := range p.Risks {
		prepareRisk(&p.Risks[i], p)
		if err := checkRiskUID(p.Risks[i], p.ID, seen); err != nil {
			return schema.Project{}, err
		}
		if err := contract.ValidateRisk(p.Risks[i]); err != nil {
			return schema.Project{}, err
		}
		seen[p.Risks[i].UID] = struct{}{}
	}
	for i := range p.Deadlines {
		if p.Deadlines[i].ID == "" {
			p.Deadlines[i].ID = iostore.NewDeadlineID()
		}
		if err := contract.ValidateDeadline(p.Deadlines[i]); err != nil {
			return schema.Project{}, err
		}
	}
	for i := range p.ChangeRequests {
		prepareChange(&p.ChangeRequests[i], p, i, now)
		if err := contract.ValidateChangeRequest(p.ChangeRequests[i]); err != nil {
			return schema.Project{}, err
		}
	}
	if err := contract.ValidateProject(p); err != nil {
		return schema.Project{}, err
	}

	p.SavedAt = now.UTC()
	if err := store.SaveProject(ctx, p); err != nil {
		return schema.Project{}, fmt.Errorf("save project %s: %w", p.ID, err)
	}
	contract.Logger.Debug().Str("project", p.ID).Msg("project created")
	return p, nil
}

// CalculateProject runs the penalty calculator for a project, stores inputs and results
// and refreshes its "Pénalités de retard" risk. A nil inputs reuses the stored inputs.
func CalculateProject(ctx context.Context, store contract.ProjectStore, id string, inputs *schema.CalculatorInputs, now time.Time) (schema.Project, schema.PenaltyReport, error) {
	p, err := store.GetProject(ctx, id)
	if err != nil {
		return schema.Project{}, schema.PenaltyReport{}, err
	}

	in := p.Inputs
	if inputs != nil {
		in = *inputs
	}
	if err := contract.ValidateInputs(in); err != nil {
		return schema.Project{}, schema.PenaltyReport{}, err
	}
	report := penalty.Report(contract.NormalizeInputs(in))

	p = exposure.ApplyCalculation(p, report.Inputs, report.Results)
	p.SavedAt = now.UTC()
	if err := store.SaveProject(ctx, p); err != nil {
		return schema.Project{}, schema.PenaltyReport{}, fmt.Errorf("save project %s: %w", p.ID, err)
	}
	return p, report, nil
}

// ProjectRegister returns a project with its annotated risk register.
func ProjectRegister(ctx context.Context, store contract.ProjectStore, id string) (schema.Project, schema.RiskRegister, error) {
	p, err := store.GetProject(ctx, id)
	if err != nil {
		return schema.Project{}, schema.RiskRegister{}, err
	}
	return p, exposure.Annotate(p.ProjectName, p.Risks), nil
}

// Portfolio loads every project and computes the global indicators.
func Portfolio(ctx context.Context, store contract.ProjectStore, now time.Time, months int) (schema.PortfolioKPIs, error) {
	projects, err := store.ListProjects(ctx)
	if err != nil {
		return schema.PortfolioKPIs{}, fmt.Errorf("list projects: %w", err)
	}
	return exposure.Portfolio(projects, now, months), nil
}

// AddRisk appends a risk to a project's register.
func AddRisk(ctx context.Context, store contract.ProjectStore, projectID string, risk schema.RiskItem, now time.Time) (schema.Project, error) {
	return updateProject(ctx, store, projectID, now, func(p *schema.Project) error {
		prepareRisk(&risk, *p)
		seen := make(map[string]struct{}, len(p.Risks))
		for _, r := range p.Risks {
			seen[r.UID] = struct{}{}
		}
		if err := checkRiskUID(risk, p.ID, seen); err != nil {
			return err
		}
		if err := contract.ValidateRisk(risk); err != nil {
			return err
		}
		p.Risks = append(p.Risks, risk)
		return nil
	})
}

// RemoveRisk deletes the risk with the given uid or business ID.
func RemoveRisk(ctx context.Context, store contract.ProjectStore, projectID, ref string, now time.Time) (schema.Project, error) {
	return updateProject(ctx, store, projectID, now, func(p *schema.Project) error {
		for i, r := range p.Risks {
			if r.UID == ref || r.ID == ref {
				p.Risks = append(p.Risks[:i:i], p.Risks[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: %s", contract.ErrRiskNotFound, ref)
	})
}

// AddDeadline appends a contractual deadline to a project.
func AddDeadline(ctx context.Context, store contract.ProjectStore, projectID string, d schema.ContractDeadline, now time.Time) (schema.Project, error) {
	return updateProject(ctx, store, projectID, now, func(p *schema.Project) error {
		if d.ID == "" {
			d.ID = iostore.NewDeadlineID()
		}
		if d.Type == "" {
			d.Type = schema.DeadlineDue
		}
		if err := contract.ValidateDeadline(d); err != nil {
			return err
		}
		p.Deadlines = append(p.Deadlines, d)
		return nil
	})
}

// AddChangeRequest registers a change request on a project and returns it.
// Its number follows the CHG-<code>-NNN sequence of the project.
func AddChangeRequest(ctx context.Context, store contract.ProjectStore, projectID string, c schema.ChangeRequest, now time.Time) (schema.ChangeRequest, error) {
	var created schema.ChangeRequest
	_, err := updateProject(ctx, store, projectID, now, func(p *schema.Project) error {
		c.ID = ""
		c.ChangeNumber = ""
		prepareChange(&c, *p, len(p.ChangeRequests), now)
		if err := contract.ValidateChangeRequest(c); err != nil {
			return err
		}
		p.ChangeRequests = append(p.ChangeRequests, c)
		created = c
		return nil
	})
	return created, err
}

// SetChangeStatus moves a change request to a new workflow state.
func SetChangeStatus(ctx context.Context, store contract.ProjectStore, changeID string, status schema.ChangeStatus, now time.Time) (schema.ChangeRequest, error) {
	if _, ok := schema.ValidChangeStatuses[status]; !ok {
		return schema.ChangeRequest{}, fmt.Errorf("%w: invalid change request status '%s'", contract.ErrInvalidInput, status)
	}
	projects, err := store.ListProjects(ctx)
	if err != nil {
		return schema.ChangeRequest{}, fmt.Errorf("list projects: %w", err)
	}
	for _, p := range projects {
		for i, c := range p.ChangeRequests {
			if c.ID != changeID && c.ChangeNumber != changeID {
				continue
			}
			p.ChangeRequests[i].Status = status
			p.SavedAt = now.UTC()
			if err := store.SaveProject(ctx, p); err != nil {
				return schema.ChangeRequest{}, fmt.Errorf("save project %s: %w", p.ID, err)
			}
			return p.ChangeRequests[i], nil
		}
	}
	return schema.ChangeRequest{}, fmt.Errorf("%w: %s", contract.ErrChangeNotFound, changeID)
}

// ListChangeRequests returns the change requests of all projects, newest first.
// Empty filters match everything.
func ListChangeRequests(ctx context.Context, store contract.ProjectStore, projectID string, status schema.ChangeStatus) ([]schema.ChangeRequest, error) {
	projects, err := store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	out := []schema.ChangeRequest{}
	for _, p := range projects {
		if projectID != "" && p.ID != projectID {
			continue
		}
		for _, c := range p.ChangeRequests {
			if status != "" && c.Status != status {
				continue
			}
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// updateProject loads a project, applies mutate and saves it with a fresh timestamp.
func updateProject(ctx context.Context, store contract.ProjectStore, id string, now time.Time, mutate func(*schema.Project) error) (schema.Project, error) {
	p, err := store.GetProject(ctx, id)
	if err != nil {
		return schema.Project{}, err
	}
	if err := mutate(&p); err != nil {
		return schema.Project{}, err
	}
	p.SavedAt = now.UTC()
	if err := store.SaveProject(ctx, p); err != nil {
		return schema.Project{}, fmt.Errorf("save project %s: %w", p.ID, err)
	}
	return p, nil
}

// prepareRisk fills the identifiers and defaults of a risk owned by p.
func prepareRisk(r *schema.RiskItem, p schema.Project) {
	if r.UID == "" {
		r.UID = iostore.NewRiskUID()
	}
	if r.Projet == "" {
		r.Projet = p.ProjectName
	}
	if r.MitigationActions == nil {
		r.MitigationActions = []schema.MitigationAction{}
	}
	for i := range r.MitigationActions {
		a := &r.MitigationActions[i]
		if a.ID == "" {
			a.ID = iostore.NewActionID()
		}
		if a.Status == "" {
			a.Status = schema.ActionTodo
		}
	}
}

// checkRiskUID rejects a uid already used in the project, and the reserved
// penalty uid on any risk other than the penalty risk.
func checkRiskUID(r schema.RiskItem, projectID string, seen map[string]struct{}) error {
	if _, dup := seen[r.UID]; dup {
		return fmt.Errorf("%w: duplicate risk uid '%s'", contract.ErrInvalidInput, r.UID)
	}
	if r.UID == exposure.PenaltyRiskUID(projectID) && r.Risque != schema.PenaltyRiskName {
		return fmt.Errorf("%w: risk uid '%s' is reserved for the penalty risk", contract.ErrInvalidInput, r.UID)
	}
	return nil
}

// prepareChange fills the identifiers and defaults of the index-th change request of p.
func prepareChange(c *schema.ChangeRequest, p schema.Project, index int, now time.Time) {
	if c.ID == "" {
		c.ID = iostore.NewChangeRequestID()
	}
	if c.ChangeNumber == "" {
		c.ChangeNumber = fmt.Sprintf("CHG-%s-%03d", p.ProjectCode, index+1)
	}
	if c.Status == "" {
		c.Status = schema.ChangeRequested
	}
	if c.Priority == "" {
		c.Priority = schema.PriorityMedium
	}
	if c.RequesterName == "" {
		c.RequesterName = DefaultRequester
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now.UTC()
	}
	c.ProjectID = p.ID
	c.ProjectName = p.ProjectName
}

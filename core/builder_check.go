package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/helexia/contractrisk/core/exposure"
	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/schema"
)

// Phases reported by check violations.
const (
	PhaseBefore = "before"
	PhaseAfter  = "after"
)

// CheckResultBuilder builds the check result using a builder pattern.
type CheckResultBuilder struct {
	cfg        *contract.Config
	store      contract.ProjectStore
	ctx        context.Context
	now        time.Time
	projectIDs []string
	summaries  []schema.ProjectSummary
	violations []schema.CheckViolation
	result     *schema.CheckResult
}

// NewCheckResultBuilder creates a new builder for check results.
func NewCheckResultBuilder(ctx context.Context, cfg *contract.Config, store contract.ProjectStore) *CheckResultBuilder {
	return &CheckResultBuilder{
		cfg:   cfg,
		store: store,
		ctx:   ctx,
		now:   nowFrom(ctx),
	}
}

// ForProjects restricts the check to the given project IDs. No IDs means every project.
func (b *CheckResultBuilder) ForProjects(ids ...string) *CheckResultBuilder {
	b.projectIDs = ids
	return b
}

// ValidatePrerequisites makes sure at least one threshold is configured.
func (b *CheckResultBuilder) ValidatePrerequisites() (*CheckResultBuilder, error) {
	if b.cfg.MaxExposureBefore <= 0 && b.cfg.MaxExposureAfter <= 0 {
		return nil, fmt.Errorf("check command requires --max-exposure-before or --max-exposure-after. Example: contractrisk check --max-exposure-after 50000")
	}
	return b, nil
}

// LoadProjects reads the projects to check from the store.
func (b *CheckResultBuilder) LoadProjects() (*CheckResultBuilder, error) {
	var projects []schema.Project
	if len(b.projectIDs) == 0 {
		all, err := b.store.ListProjects(b.ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list projects: %w", err)
		}
		projects = all
	} else {
		for _, id := range b.projectIDs {
			p, err := b.store.GetProject(b.ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to load project %q: %w", id, err)
			}
			projects = append(projects, p)
		}
	}

	if len(projects) == 0 {
		b.result = &schema.CheckResult{
			Passed:            true,
			Violations:        []schema.CheckViolation{},
			MaxExposureBefore: b.cfg.MaxExposureBefore,
			MaxExposureAfter:  b.cfg.MaxExposureAfter,
		}
		return b, nil
	}

	b.summaries = make([]schema.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		b.summaries = append(b.summaries, exposure.Summarize(p, b.now, windowMonths(b.cfg)))
	}
	return b, nil
}

// ComputeViolations compares every project exposure with the configured thresholds.
func (b *CheckResultBuilder) ComputeViolations() *CheckResultBuilder {
	b.violations = []schema.CheckViolation{}
	for _, s := range b.summaries {
		if limit := b.cfg.MaxExposureBefore; limit > 0 && s.Exposure.Before > limit {
			b.violations = append(b.violations, schema.CheckViolation{
				ProjectID:   s.ID,
				ProjectName: s.ProjectName,
				Phase:       PhaseBefore,
				Exposure:    s.Exposure.Before,
				Threshold:   limit,
			})
		}
		if limit := b.cfg.MaxExposureAfter; limit > 0 && s.Exposure.After > limit {
			b.violations = append(b.violations, schema.CheckViolation{
				ProjectID:   s.ID,
				ProjectName: s.ProjectName,
				Phase:       PhaseAfter,
				Exposure:    s.Exposure.After,
				Threshold:   limit,
			})
		}
	}

	// Largest overshoot first
	sort.SliceStable(b.violations, func(i, j int) bool {
		return b.violations[i].Exposure-b.violations[i].Threshold > b.violations[j].Exposure-b.violations[j].Threshold
	})
	return b
}

// BuildResult constructs the final CheckResult.
func (b *CheckResultBuilder) BuildResult() *CheckResultBuilder {
	result := &schema.CheckResult{
		Passed:            len(b.violations) == 0,
		Violations:        b.violations,
		TotalProjects:     len(b.summaries),
		MaxExposureBefore: b.cfg.MaxExposureBefore,
		MaxExposureAfter:  b.cfg.MaxExposureAfter,
	}

	worstBefore, worstAfter := -1.0, -1.0
	for _, s := range b.summaries {
		result.PortfolioExposure.Before += s.Exposure.Before
		result.PortfolioExposure.After += s.Exposure.After
		if s.Exposure.Before > worstBefore {
			worstBefore = s.Exposure.Before
			result.WorstProjectBefore = s.ProjectName
		}
		if s.Exposure.After > worstAfter {
			worstAfter = s.Exposure.After
			result.WorstProjectAfter = s.ProjectName
		}
	}
	b.result = result
	return b
}

// GetResult returns the built CheckResult.
func (b *CheckResultBuilder) GetResult() *schema.CheckResult {
	return b.result
}

package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/internal/iostore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckResultBuilder_ValidatePrerequisites(t *testing.T) {
	ctx := context.Background()
	store := iostore.NewMemoryStore()

	tests := []struct {
		name    string
		before  float64
		after   float64
		wantErr bool
	}{
		{"no thresholds", 0, 0, true},
		{"before only", 1000, 0, false},
		{"after only", 0, 1000, false},
		{"both", 1000, 500, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{MaxExposureBefore: tt.before, MaxExposureAfter: tt.after}
			_, err := NewCheckResultBuilder(ctx, cfg, store).ValidatePrerequisites()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckResultBuilder_LoadProjects_Empty(t *testing.T) {
	cfg := &contract.Config{MaxExposureAfter: 1000}
	builder, err := NewCheckResultBuilder(context.Background(), cfg, iostore.NewMemoryStore()).LoadProjects()
	require.NoError(t, err)

	result := builder.GetResult()
	require.NotNil(t, result)
	assert.True(t, result.Passed)
	assert.Equal(t, 0, result.TotalProjects)
	assert.Empty(t, result.Violations)
}

func TestCheckResultBuilder_LoadProjects_UnknownID(t *testing.T) {
	cfg := &contract.Config{MaxExposureAfter: 1000}
	_, err := NewCheckResultBuilder(context.Background(), cfg, iostore.NewMemoryStore()).
		ForProjects("missing").
		LoadProjects()
	assert.ErrorIs(t, err, contract.ErrProjectNotFound)
}

func TestCheckResultBuilder_ComputeViolations(t *testing.T) {
	ctx := context.Background()
	store := iostore.NewMemoryStore()
	// before 500, after 100
	alpha := seedProject(t, store, "Alpha", "ALP", riskItem("Retard", 1000, 50, 0, 10))
	// before 1600, after 400
	seedProject(t, store, "Beta", "BET", riskItem("Météo", 4000, 40, 200, 5))

	tests := []struct {
		name       string
		before     float64
		after      float64
		ids        []string
		wantPassed bool
		want       []string
	}{
		{"all under", 2000, 500, nil, true, []string{}},
		{"before threshold", 1000, 0, nil, false, []string{"Beta/before"}},
		{"after threshold sorted by overshoot", 0, 50, nil, false, []string{"Beta/after", "Alpha/after"}},
		{"both phases", 400, 350, nil, false, []string{"Beta/before", "Alpha/before", "Beta/after"}},
		{"restricted to one project", 400, 300, []string{alpha.ID}, false, []string{"Alpha/before"}},
		{"equal is not a violation", 500, 100, []string{alpha.ID}, true, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{MaxExposureBefore: tt.before, MaxExposureAfter: tt.after}
			builder, err := NewCheckResultBuilder(ctx, cfg, store).ForProjects(tt.ids...).LoadProjects()
			require.NoError(t, err)
			result := builder.ComputeViolations().BuildResult().GetResult()

			got := []string{}
			for _, v := range result.Violations {
				got = append(got, fmt.Sprintf("%s/%s", v.ProjectName, v.Phase))
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantPassed, result.Passed)
		})
	}
}

func TestCheckResultBuilder_BuildResult(t *testing.T) {
	ctx := context.Background()
	store := iostore.NewMemoryStore()
	seedProject(t, store, "Alpha", "ALP", riskItem("Retard", 1000, 50, 0, 10))
	seedProject(t, store, "Beta", "BET", riskItem("Météo", 4000, 40, 200, 5))
	// Gamma has the largest residual exposure but a smaller gross one
	seedProject(t, store, "Gamma", "GAM", riskItem("Sol", 1000, 90, 500, 50))

	cfg := &contract.Config{MaxExposureBefore: 10000, MaxExposureAfter: 10000}
	builder, err := NewCheckResultBuilder(ctx, cfg, store).LoadProjects()
	require.NoError(t, err)
	result := builder.ComputeViolations().BuildResult().GetResult()

	assert.True(t, result.Passed)
	assert.Equal(t, 3, result.TotalProjects)
	assert.InDelta(t, 500+1600+900, result.PortfolioExposure.Before, 1e-9)
	assert.InDelta(t, 100+400+1000, result.PortfolioExposure.After, 1e-9)
	assert.Equal(t, "Beta", result.WorstProjectBefore)
	assert.Equal(t, "Gamma", result.WorstProjectAfter)
	assert.Equal(t, 10000.0, result.MaxExposureBefore)
}

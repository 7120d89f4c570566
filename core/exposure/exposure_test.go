package exposure

import (
	"testing"

	"github.com/helexia/contractrisk/schema"
	"github.com/stretchr/testify/assert"
)

func risk(cost, before, mitigation, after *float64) schema.RiskItem {
	return schema.RiskItem{
		Risque:              "Test",
		CoutProbableMaximal: cost,
		ProbabiliteAvant:    before,
		CoutMitigation:      mitigation,
		ProbabiliteApres:    after,
	}
}

func TestAggregate(t *testing.T) {
	f := schema.Float
	tests := []struct {
		name   string
		risks  []schema.RiskItem
		before float64
		after  float64
	}{
		{
			name:   "empty",
			risks:  nil,
			before: 0,
			after:  0,
		},
		{
			name:   "nil probability before and nil probability after",
			risks:  []schema.RiskItem{risk(f(1000), nil, f(500), nil)},
			before: 0,
			after:  500,
		},
		{
			name:   "all nil",
			risks:  []schema.RiskItem{risk(nil, nil, nil, nil)},
			before: 0,
			after:  0,
		},
		{
			name: "penalty risk and mitigated risk",
			risks: []schema.RiskItem{
				risk(f(50000), f(75), nil, f(25)),
				risk(f(20000), f(50), f(1000), f(10)),
			},
			before: 37500 + 10000,
			after:  12500 + 2000 + 1000,
		},
		{
			name:   "nil cost keeps mitigation",
			risks:  []schema.RiskItem{risk(nil, f(90), f(300), f(10))},
			before: 0,
			after:  300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.risks)
			assert.InDelta(t, tt.before, got.Before, 1e-9)
			assert.InDelta(t, tt.after, got.After, 1e-9)
			assert.InDelta(t, tt.before, Before(tt.risks), 1e-9)
			assert.InDelta(t, tt.after, After(tt.risks), 1e-9)
		})
	}
}

func TestAnnotate(t *testing.T) {
	f := schema.Float
	risks := []schema.RiskItem{
		risk(f(50000), f(75), nil, f(25)),
		risk(f(1000), nil, f(500), nil),
	}

	reg := Annotate("Toiture Lyon", risks)

	assert.Equal(t, "Toiture Lyon", reg.Project)
	assert.Len(t, reg.Risks, 2)
	assert.InDelta(t, 37500.0, reg.Risks[0].CoutProbableAvant, 1e-9)
	assert.InDelta(t, 12500.0, reg.Risks[0].CoutProbableApres, 1e-9)
	assert.InDelta(t, 0.0, reg.Risks[1].CoutProbableAvant, 1e-9)
	assert.InDelta(t, 500.0, reg.Risks[1].CoutProbableApres, 1e-9)
	assert.InDelta(t, 37500.0, reg.Totals.Before, 1e-9)
	assert.InDelta(t, 13000.0, reg.Totals.After, 1e-9)
	assert.InDelta(t, 24500.0, reg.Totals.Reduction(), 1e-9)
}

func TestAnnotateEmpty(t *testing.T) {
	reg := Annotate("", nil)
	assert.NotNil(t, reg.Risks)
	assert.Empty(t, reg.Risks)
	assert.Equal(t, schema.Exposure{}, reg.Totals)
}

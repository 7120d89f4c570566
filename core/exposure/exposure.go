// Package exposure aggregates probability-weighted risk costs and keeps the
// synthesized penalty risk of a project in sync with its calculation.
package exposure

import "github.com/helexia/contractrisk/schema"

// value dereferences a nullable field, treating nil as zero.
func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// ProbableBefore is the risk's expected cost before mitigation.
func ProbableBefore(r schema.RiskItem) float64 {
	return value(r.CoutProbableMaximal) * (value(r.ProbabiliteAvant) / 100)
}

// ProbableAfter is the risk's expected cost after mitigation, mitigation spend included.
func ProbableAfter(r schema.RiskItem) float64 {
	return value(r.CoutProbableMaximal)*(value(r.ProbabiliteApres)/100) + value(r.CoutMitigation)
}

// Before sums the expected cost of risks before mitigation.
func Before(risks []schema.RiskItem) float64 {
	total := 0.0
	for _, r := range risks {
		total += ProbableBefore(r)
	}
	return total
}

// After sums the expected cost of risks after mitigation.
func After(risks []schema.RiskItem) float64 {
	total := 0.0
	for _, r := range risks {
		total += ProbableAfter(r)
	}
	return total
}

// Aggregate returns both exposure figures of risks.
func Aggregate(risks []schema.RiskItem) schema.Exposure {
	return schema.Exposure{
		Before: Before(risks),
		After:  After(risks),
	}
}

// Annotate attaches the per-risk probable costs and the register totals.
func Annotate(project string, risks []schema.RiskItem) schema.RiskRegister {
	annotated := make([]schema.AnnotatedRisk, 0, len(risks))
	for _, r := range risks {
		annotated = append(annotated, schema.AnnotatedRisk{
			RiskItem:          r,
			CoutProbableAvant: ProbableBefore(r),
			CoutProbableApres: ProbableAfter(r),
		})
	}
	return schema.RiskRegister{
		Project: project,
		Risks:   annotated,
		Totals:  Aggregate(risks),
	}
}

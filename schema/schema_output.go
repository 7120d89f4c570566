package schema

// EnrichedRisk adds presentation data to an AnnotatedRisk.
type EnrichedRisk struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	AnnotatedRisk
}

// GetPlainLabel returns a plain text label indicating the criticality level
// of a probability expressed in percent.
func GetPlainLabel(probability float64) string {
	switch {
	case probability >= 80:
		return "Critical"
	case probability >= 60:
		return "High"
	case probability >= 40:
		return "Moderate"
	default:
		return "Low"
	}
}

// EnrichRisks adds rank and label to a list of annotated risks.
// The label reflects the pre-mitigation probability.
func EnrichRisks(risks []AnnotatedRisk) []EnrichedRisk {
	output := make([]EnrichedRisk, len(risks))
	for i, r := range risks {
		var p float64
		if r.ProbabiliteAvant != nil {
			p = *r.ProbabiliteAvant
		}
		output[i] = EnrichedRisk{
			Rank:          i + 1,
			Label:         GetPlainLabel(p),
			AnnotatedRisk: r,
		}
	}
	return output
}

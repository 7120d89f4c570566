package schema

// PenaltyRiskName is the reserved display name of the synthesized penalty risk.
const PenaltyRiskName = "Pénalités de retard"

// MitigationAction is one step planned to reduce a risk.
type MitigationAction struct {
	ID          string       `json:"id" yaml:"id"`
	Description string       `json:"description" yaml:"description"`
	DueDate     *string      `json:"dueDate" yaml:"dueDate"` // YYYY-MM-DD
	Status      ActionStatus `json:"status" yaml:"status"`
}

// RiskItem is an entry of a project's risk register.
// Nil numeric fields count as zero in every exposure sum.
type RiskItem struct {
	UID                 string             `json:"uid" yaml:"uid"`
	ID                  string             `json:"id" yaml:"id"`
	Projet              string             `json:"projet" yaml:"projet"`
	Risque              string             `json:"risque" yaml:"risque"`
	TypeRisque          string             `json:"typeRisque" yaml:"typeRisque"`
	Description         string             `json:"description" yaml:"description"`
	CoutProbableMaximal *float64           `json:"coutProbableMaximal" yaml:"coutProbableMaximal"`
	ProbabiliteAvant    *float64           `json:"probabiliteAvant" yaml:"probabiliteAvant"`
	ExplicationCalcul   string             `json:"explicationCalcul" yaml:"explicationCalcul"`
	MitigationActions   []MitigationAction `json:"mitigationActions" yaml:"mitigationActions"`
	CoutMitigation      *float64           `json:"coutMitigation" yaml:"coutMitigation"`
	ProbabiliteApres    *float64           `json:"probabiliteApres" yaml:"probabiliteApres"`
}

// AnnotatedRisk adds the derived probable costs to a RiskItem.
type AnnotatedRisk struct {
	RiskItem
	CoutProbableAvant float64 `json:"coutProbableAvant"`
	CoutProbableApres float64 `json:"coutProbableApres"`
}

// Exposure is the probability-weighted cost of a set of risks.
type Exposure struct {
	Before float64 `json:"before"`
	After  float64 `json:"after"`
}

// Reduction returns how much the mitigation plan lowers the exposure.
func (e Exposure) Reduction() float64 {
	return e.Before - e.After
}

// RiskRegister is a risk list with its derived costs and totals.
type RiskRegister struct {
	Project string          `json:"project,omitempty"`
	Risks   []AnnotatedRisk `json:"risks"`
	Totals  Exposure        `json:"totals"`
}

// Float returns a pointer to v, for building nullable fields.
func Float(v float64) *float64 {
	return &v
}

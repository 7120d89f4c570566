package schema

import "time"

// DateLayout is the layout of calendar dates exchanged with users.
const DateLayout = "2006-01-02"

// ContractDeadline is a dated contractual obligation of a project.
type ContractDeadline struct {
	ID                   string       `json:"id" yaml:"id"`
	Description          string       `json:"description" yaml:"description"`
	Date                 string       `json:"date" yaml:"date"` // YYYY-MM-DD
	NoticePeriodInMonths int          `json:"noticePeriodInMonths" yaml:"noticePeriodInMonths"`
	Type                 DeadlineType `json:"type" yaml:"type"`
	Amount               *float64     `json:"amount" yaml:"amount"`
}

// ChangeRequest is a requested modification of a project's contract scope.
type ChangeRequest struct {
	ID            string         `json:"id" yaml:"id"`
	ProjectID     string         `json:"projectId" yaml:"projectId"`
	ProjectName   string         `json:"projectName" yaml:"projectName"`
	ChangeNumber  string         `json:"changeNumber" yaml:"changeNumber"`
	Title         string         `json:"title" yaml:"title"`
	Status        ChangeStatus   `json:"status" yaml:"status"`
	Priority      ChangePriority `json:"priority" yaml:"priority"`
	RequesterName string         `json:"requesterName" yaml:"requesterName"`
	Description   string         `json:"description" yaml:"description"`
	EstimatedCost *float64       `json:"estimatedCost" yaml:"estimatedCost"`
	CreatedAt     time.Time      `json:"createdAt" yaml:"createdAt"`
}

// Project owns one calculation, its risk register, deadlines and change requests.
// Exposure figures are derived from Risks on every read and never stored.
type Project struct {
	ID             string                 `json:"id" yaml:"id"`
	ProjectName    string                 `json:"projectName" yaml:"projectName"`
	ProjectCode    string                 `json:"projectCode" yaml:"projectCode"`
	ProjectAddress string                 `json:"projectAddress" yaml:"projectAddress"`
	ProjectType    ProjectType            `json:"projectType" yaml:"projectType"`
	Status         ProjectStatus          `json:"status" yaml:"status"`
	ProjectURL     string                 `json:"projectUrl,omitempty" yaml:"projectUrl,omitempty"`
	Inputs         CalculatorInputs       `json:"inputs" yaml:"inputs"`
	Results        FullCalculationResults `json:"results" yaml:"results"`
	Risks          []RiskItem             `json:"risks" yaml:"risks"`
	Deadlines      []ContractDeadline     `json:"deadlines" yaml:"deadlines"`
	ChangeRequests []ChangeRequest        `json:"changeRequests" yaml:"changeRequests"`
	SavedAt        time.Time              `json:"savedAt" yaml:"savedAt"`
}

// ProjectSummary is one row of the project list with its derived KPIs.
type ProjectSummary struct {
	ID                string        `json:"id"`
	ProjectName       string        `json:"projectName"`
	ProjectCode       string        `json:"projectCode"`
	ProjectType       ProjectType   `json:"projectType"`
	Status            ProjectStatus `json:"status"`
	SavedAt           time.Time     `json:"savedAt"`
	Exposure          Exposure      `json:"exposure"`
	UpcomingDeadlines int           `json:"upcomingDeadlines"`
	PendingChanges    int           `json:"pendingChanges"`
	ChangeCostImpact  float64       `json:"changeCostImpact"`
}

// UpcomingDeadline is a deadline tagged with the project it belongs to.
type UpcomingDeadline struct {
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	ContractDeadline
}

// ChangeStats summarizes a set of change requests.
type ChangeStats struct {
	Total         int     `json:"total"`
	Pending       int     `json:"pending"`
	CostImpact    float64 `json:"costImpact"`
	AverageCost   float64 `json:"averageCost"`
	CountWithCost int     `json:"countWithCost"`
}

// PortfolioKPIs holds the global indicators across all projects.
type PortfolioKPIs struct {
	TotalProjects     int                `json:"totalProjects"`
	Exposure          Exposure           `json:"exposure"`
	Changes           ChangeStats        `json:"changes"`
	UpcomingDeadlines []UpcomingDeadline `json:"upcomingDeadlines"`
	Projects          []ProjectSummary   `json:"projects"`
}

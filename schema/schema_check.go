package schema

// CheckResult holds the results of an exposure policy check.
type CheckResult struct {
	Passed             bool
	Violations         []CheckViolation
	TotalProjects      int
	MaxExposureBefore  float64 // 0 disables the threshold
	MaxExposureAfter   float64 // 0 disables the threshold
	PortfolioExposure  Exposure
	WorstProjectBefore string
	WorstProjectAfter  string
}

// CheckViolation represents a project whose exposure exceeds a threshold.
type CheckViolation struct {
	ProjectID   string
	ProjectName string
	Phase       string // "before" or "after"
	Exposure    float64
	Threshold   float64
}

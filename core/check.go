package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/internal/locale"
	"github.com/helexia/contractrisk/schema"
)

// ErrCheckFailed is returned when at least one project exceeds a threshold.
var ErrCheckFailed = errors.New("exposure policy check failed")

// maxViolationsShown caps the violations listed on failure.
const maxViolationsShown = 5

// ExecuteExposureCheck runs the check command for portfolio gating.
// It prints the outcome to w and returns ErrCheckFailed if any project exposure
// exceeds its threshold.
func ExecuteExposureCheck(ctx context.Context, cfg *contract.Config, store contract.ProjectStore, w io.Writer, projectIDs ...string) (*schema.CheckResult, error) {
	start := time.Now()

	builder := NewCheckResultBuilder(ctx, cfg, store).ForProjects(projectIDs...)

	// Validate prerequisites
	if _, err := builder.ValidatePrerequisites(); err != nil {
		return nil, err
	}

	// Load projects
	if _, err := builder.LoadProjects(); err != nil {
		return nil, err
	}
	if result := builder.GetResult(); result != nil {
		// Early success case
		printCheckResult(ctx, w, result, time.Since(start))
		return result, nil
	}

	builder.ComputeViolations().BuildResult()

	result := builder.GetResult()
	printCheckResult(ctx, w, result, time.Since(start))
	if !result.Passed {
		return result, ErrCheckFailed
	}
	return result, nil
}

// printCheckResult prints the check result in a concise format suitable for CI/CD.
func printCheckResult(ctx context.Context, w io.Writer, result *schema.CheckResult, duration time.Duration) {
	if !shouldSuppressHeader(ctx) {
		printCheckHeader(w, result, duration)
	}

	if result.Passed {
		printCheckSuccess(w, result)
	} else {
		printCheckFailure(w, result)
	}
}

// formatThreshold prints a threshold, or "off" when it is disabled.
func formatThreshold(v float64) string {
	if v <= 0 {
		return "off"
	}
	return locale.Euros(v, 0)
}

// printCheckHeader prints the common header information for check results.
func printCheckHeader(w io.Writer, result *schema.CheckResult, duration time.Duration) {
	_, _ = fmt.Fprintln(w, "Policy Check Results:")

	// Define labels and values for dynamic padding
	labels := []string{"Max before:", "Max after:", "Portfolio:"}
	values := []any{
		formatThreshold(result.MaxExposureBefore),
		formatThreshold(result.MaxExposureAfter),
		fmt.Sprintf("before=%s, after=%s",
			locale.Euros(result.PortfolioExposure.Before, 0),
			locale.Euros(result.PortfolioExposure.After, 0)),
	}

	// Find the longest label for consistent padding
	maxLabelLen := 0
	for _, label := range labels {
		if len(label) > maxLabelLen {
			maxLabelLen = len(label)
		}
	}

	// Print each label-value pair with consistent padding
	for i, label := range labels {
		_, _ = fmt.Fprintf(w, "  %-*s %v\n", maxLabelLen+1, label, values[i])
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintf(w, "Checked %d projects in %v\n\n", result.TotalProjects, duration)
}

// printCheckSuccess prints the success case output.
func printCheckSuccess(w io.Writer, result *schema.CheckResult) {
	_, _ = fmt.Fprintf(w, "✅ All projects passed exposure checks\n\n")
	if result.TotalProjects == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, "Exposure observed:")
	_, _ = fmt.Fprintf(w, "  worst before mitigation: %s\n", result.WorstProjectBefore)
	_, _ = fmt.Fprintf(w, "  worst after mitigation: %s\n", result.WorstProjectAfter)
}

// printCheckFailure prints the failure case output.
func printCheckFailure(w io.Writer, result *schema.CheckResult) {
	_, _ = fmt.Fprintf(w, "❌ Exposure check failed: %d violation(s) found across %d projects\n\n", len(result.Violations), result.TotalProjects)

	// Group by phase for better readability
	for _, phase := range []string{PhaseBefore, PhaseAfter} {
		var violations []schema.CheckViolation
		for _, v := range result.Violations {
			if v.Phase == phase {
				violations = append(violations, v)
			}
		}
		if len(violations) == 0 {
			continue
		}

		_, _ = fmt.Fprintf(w, "Phase: %s mitigation (%d violations)\n", phase, len(violations))

		// Show top 5 violations, with "+X more" if needed
		for i, v := range violations {
			if i >= maxViolationsShown {
				_, _ = fmt.Fprintf(w, "  ... and %d more\n", len(violations)-i)
				break
			}
			_, _ = fmt.Fprintf(w, "  - %s (exposure: %s > threshold: %s)\n",
				v.ProjectName, locale.Euros(v.Exposure, 0), locale.Euros(v.Threshold, 0))
		}
		_, _ = fmt.Fprintln(w)
	}
}

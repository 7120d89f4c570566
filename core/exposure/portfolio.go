package exposure

import (
	"sort"
	"time"

	"github.com/helexia/contractrisk/schema"
)

// DefaultUpcomingWindowMonths is the look-ahead used for a project's deadline KPI.
const DefaultUpcomingWindowMonths = 6

// nextDeadlinesLimit caps the portfolio's list of upcoming deadlines.
const nextDeadlinesLimit = 5

// startOfDay truncates now to midnight in its own location.
func startOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// deadlineDate parses a deadline date in loc, reporting false for malformed dates.
func deadlineDate(d schema.ContractDeadline, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(schema.DateLayout, d.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// UpcomingDeadlineCount counts deadlines falling between today and today plus months, both inclusive.
func UpcomingDeadlineCount(deadlines []schema.ContractDeadline, now time.Time, months int) int {
	today := startOfDay(now)
	limit := today.AddDate(0, months, 0)
	count := 0
	for _, d := range deadlines {
		t, ok := deadlineDate(d, today.Location())
		if !ok {
			continue
		}
		if !t.Before(today) && !t.After(limit) {
			count++
		}
	}
	return count
}

// Changes summarizes a set of change requests.
func Changes(changes []schema.ChangeRequest) schema.ChangeStats {
	stats := schema.ChangeStats{Total: len(changes)}
	withCost := 0.0
	for _, c := range changes {
		if c.Status.IsPending() {
			stats.Pending++
		}
		cost := value(c.EstimatedCost)
		if c.Status.IsCommitted() {
			stats.CostImpact += cost
		}
		if cost > 0 {
			stats.CountWithCost++
			withCost += cost
		}
	}
	if stats.CountWithCost > 0 {
		stats.AverageCost = withCost / float64(stats.CountWithCost)
	}
	return stats
}

// Summarize derives the list KPIs of a project.
func Summarize(p schema.Project, now time.Time, months int) schema.ProjectSummary {
	changes := Changes(p.ChangeRequests)
	return schema.ProjectSummary{
		ID:                p.ID,
		ProjectName:       p.ProjectName,
		ProjectCode:       p.ProjectCode,
		ProjectType:       p.ProjectType,
		Status:            p.Status,
		SavedAt:           p.SavedAt,
		Exposure:          Aggregate(p.Risks),
		UpcomingDeadlines: UpcomingDeadlineCount(p.Deadlines, now, months),
		PendingChanges:    changes.Pending,
		ChangeCostImpact:  changes.CostImpact,
	}
}

// NextDeadlines returns the earliest deadlines of all projects that are not yet past.
func NextDeadlines(projects []schema.Project, now time.Time, limit int) []schema.UpcomingDeadline {
	today := startOfDay(now)
	type dated struct {
		at time.Time
		d  schema.UpcomingDeadline
	}
	var all []dated
	for _, p := range projects {
		for _, d := range p.Deadlines {
			t, ok := deadlineDate(d, today.Location())
			if !ok || t.Before(today) {
				continue
			}
			all = append(all, dated{at: t, d: schema.UpcomingDeadline{
				ProjectID:        p.ID,
				ProjectName:      p.ProjectName,
				ContractDeadline: d,
			}})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].at.Before(all[j].at)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	out := make([]schema.UpcomingDeadline, 0, len(all))
	for _, a := range all {
		out = append(out, a.d)
	}
	return out
}

// Portfolio computes the global indicators across projects.
// Projects are listed most recently saved first.
func Portfolio(projects []schema.Project, now time.Time, months int) schema.PortfolioKPIs {
	kpis := schema.PortfolioKPIs{
		TotalProjects: len(projects),
		Projects:      make([]schema.ProjectSummary, 0, len(projects)),
	}
	var changes []schema.ChangeRequest
	for _, p := range projects {
		summary := Summarize(p, now, months)
		kpis.Exposure.Before += summary.Exposure.Before
		kpis.Exposure.After += summary.Exposure.After
		kpis.Projects = append(kpis.Projects, summary)
		changes = append(changes, p.ChangeRequests...)
	}
	sort.SliceStable(kpis.Projects, func(i, j int) bool {
		return kpis.Projects[i].SavedAt.After(kpis.Projects[j].SavedAt)
	})
	kpis.Changes = Changes(changes)
	kpis.UpcomingDeadlines = NextDeadlines(projects, now, nextDeadlinesLimit)
	return kpis
}

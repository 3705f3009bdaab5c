package portfolio

import "math"

// PortfolioStats is the portfolio-level rollup computed from a directory and
// its progress map. It is ephemeral: recomputed on demand and deliberately
// never cached, so it cannot go stale relative to its inputs.
type PortfolioStats struct {
	TotalProjects   int            `json:"totalProjects"`
	TotalValue      int64          `json:"totalValue"`
	TotalPaid       int64          `json:"totalPaid"`
	TotalBalance    int64          `json:"totalBalance"`
	AverageProgress int            `json:"averageProgress"`
	StatusCounts    map[Status]int `json:"statusCounts"`
}

// StatusPercent returns the share of projects in the given status, rounded
// to a whole percent. An empty portfolio reads as 0 for every bucket.
func (s PortfolioStats) StatusPercent(status Status) int {
	if s.TotalProjects == 0 {
		return 0
	}
	return roundPct(100 * float64(s.StatusCounts[status]) / float64(s.TotalProjects))
}

// ProjectProgress derives a 0-100 completion percent for one project.
//
// With at least one milestone, progress is the rounded unweighted mean of
// the milestone percentages; total paid does not enter the computation.
// Without milestones it falls back to the payment ratio, with a zero total
// value defined as 0 rather than a division error.
func ProjectProgress(p Project, milestones []Milestone) int {
	if len(milestones) > 0 {
		sum := 0
		for _, m := range milestones {
			sum += clampPct(m.Progress)
		}
		return roundPct(float64(sum) / float64(len(milestones)))
	}

	if p.TotalValue <= 0 {
		return 0
	}
	return clampPct(roundPct(100 * float64(p.TotalPaid) / float64(p.TotalValue)))
}

// BuildProgressMap computes the progress entry for every project in the
// directory. milestonesByProject may omit projects entirely (full set or
// nothing is cached per project); omitted projects use the payment-ratio
// fallback.
func BuildProgressMap(projects []Project, milestonesByProject map[string][]Milestone) ProgressMap {
	out := make(ProgressMap, len(projects))
	for _, p := range projects {
		out[p.ID] = ProjectProgress(p, milestonesByProject[p.ID])
	}
	return out
}

// Aggregate computes portfolio stats from a directory and a progress map.
// It is a pure function of its inputs: no cache reads, no error path.
// Projects missing from the progress map count as 0 percent.
func Aggregate(projects []Project, progress ProgressMap) PortfolioStats {
	stats := PortfolioStats{
		TotalProjects: len(projects),
		StatusCounts: map[Status]int{
			StatusOngoing:   0,
			StatusCompleted: 0,
			StatusPending:   0,
		},
	}

	progressSum := 0
	for _, p := range projects {
		stats.TotalValue += p.TotalValue
		stats.TotalPaid += p.TotalPaid
		stats.TotalBalance += p.TotalValue - p.TotalPaid
		stats.StatusCounts[p.Status]++
		progressSum += clampPct(progress[p.ID])
	}

	if len(projects) > 0 {
		stats.AverageProgress = roundPct(float64(progressSum) / float64(len(projects)))
	}
	return stats
}

func roundPct(v float64) int {
	return int(math.Round(v))
}

func clampPct(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

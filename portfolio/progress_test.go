package portfolio

import (
	"reflect"
	"testing"
)

func TestProjectProgress_PaymentRatioFallback(t *testing.T) {
	p := Project{ID: "p1", TotalValue: 100000, TotalPaid: 25000}

	if got := ProjectProgress(p, nil); got != 25 {
		t.Errorf("expected payment ratio 25 but got %d", got)
	}
}

func TestProjectProgress_MilestoneMeanIgnoresPayments(t *testing.T) {
	// Payments are irrelevant once milestones exist.
	p := Project{ID: "p1", TotalValue: 100000, TotalPaid: 99000}
	milestones := []Milestone{
		{ProjectID: "p1", Progress: 40},
		{ProjectID: "p1", Progress: 60},
		{ProjectID: "p1", Progress: 100},
	}

	if got := ProjectProgress(p, milestones); got != 67 {
		t.Errorf("expected round((40+60+100)/3)=67 but got %d", got)
	}
}

func TestProjectProgress_ZeroValueIsZeroNotNaN(t *testing.T) {
	p := Project{ID: "p1", TotalValue: 0, TotalPaid: 5000}

	if got := ProjectProgress(p, nil); got != 0 {
		t.Errorf("expected 0 for zero-value project but got %d", got)
	}
}

func TestProjectProgress_RatioClampedTo100(t *testing.T) {
	// Overpayment must not push progress past 100.
	p := Project{ID: "p1", TotalValue: 100000, TotalPaid: 150000}

	if got := ProjectProgress(p, nil); got != 100 {
		t.Errorf("expected overpaid project to clamp at 100 but got %d", got)
	}
}

func TestProjectProgress_MilestoneValuesClamped(t *testing.T) {
	p := Project{ID: "p1"}
	milestones := []Milestone{
		{ProjectID: "p1", Progress: 140},
		{ProjectID: "p1", Progress: -20},
	}

	if got := ProjectProgress(p, milestones); got != 50 {
		t.Errorf("expected out-of-range milestones to clamp, got %d", got)
	}
}

func TestBuildProgressMap_MissingMilestonesFallBack(t *testing.T) {
	projects := []Project{
		{ID: "p1", TotalValue: 200000, TotalPaid: 50000},
		{ID: "p2", TotalValue: 100000, TotalPaid: 0},
	}
	byProject := map[string][]Milestone{
		"p2": {{ProjectID: "p2", Progress: 80}},
	}

	got := BuildProgressMap(projects, byProject)
	want := ProgressMap{"p1": 25, "p2": 80}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v but got %v", want, got)
	}
}

func TestAggregate_EndToEndScenario(t *testing.T) {
	projects := []Project{
		{ID: "p1", TotalValue: 200000, TotalPaid: 200000, Status: StatusCompleted},
		{ID: "p2", TotalValue: 100000, TotalPaid: 30000, Status: StatusOngoing},
	}
	progress := BuildProgressMap(projects, nil)

	if progress["p1"] != 100 {
		t.Errorf("expected progress(p1)=100, got %d", progress["p1"])
	}
	if progress["p2"] != 30 {
		t.Errorf("expected progress(p2)=30, got %d", progress["p2"])
	}

	stats := Aggregate(projects, progress)
	if stats.TotalValue != 300000 {
		t.Errorf("expected totalValue=300000, got %d", stats.TotalValue)
	}
	if stats.TotalPaid != 230000 {
		t.Errorf("expected totalPaid=230000, got %d", stats.TotalPaid)
	}
	if stats.TotalBalance != 70000 {
		t.Errorf("expected totalBalance=70000, got %d", stats.TotalBalance)
	}
	if stats.AverageProgress != 65 {
		t.Errorf("expected averageProgress=65, got %d", stats.AverageProgress)
	}
	if stats.StatusCounts[StatusCompleted] != 1 || stats.StatusCounts[StatusOngoing] != 1 {
		t.Errorf("unexpected status counts: %v", stats.StatusCounts)
	}
	if stats.StatusPercent(StatusCompleted) != 50 {
		t.Errorf("expected 50%% completed, got %d", stats.StatusPercent(StatusCompleted))
	}
}

func TestAggregate_EmptyPortfolioHasNoDivisionErrors(t *testing.T) {
	stats := Aggregate(nil, nil)

	if stats.TotalProjects != 0 || stats.AverageProgress != 0 {
		t.Errorf("expected zeroed stats, got %+v", stats)
	}
	for _, status := range []Status{StatusOngoing, StatusCompleted, StatusPending} {
		if pct := stats.StatusPercent(status); pct != 0 {
			t.Errorf("expected 0%% for %s on empty portfolio, got %d", status, pct)
		}
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	projects := []Project{
		{ID: "p1", TotalValue: 120000, TotalPaid: 40000, Status: StatusOngoing},
		{ID: "p2", TotalValue: 80000, TotalPaid: 80000, Status: StatusCompleted},
		{ID: "p3", TotalValue: 50000, Status: StatusPending},
	}
	progress := ProgressMap{"p1": 33, "p2": 100, "p3": 0}

	first := Aggregate(projects, progress)
	second := Aggregate(projects, progress)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical output for unchanged inputs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAggregate_MissingProgressCountsAsZero(t *testing.T) {
	projects := []Project{
		{ID: "p1", Status: StatusOngoing},
		{ID: "p2", Status: StatusOngoing},
	}
	progress := ProgressMap{"p1": 100}

	stats := Aggregate(projects, progress)
	if stats.AverageProgress != 50 {
		t.Errorf("expected missing map entry to count as 0, average=%d", stats.AverageProgress)
	}
}

package source_test

import (
	"testing"
	"time"

	"github.com/buildops/go-portfolio-cache/pkg/testsupport"
	"github.com/buildops/go-portfolio-cache/portfolio"
	"github.com/buildops/go-portfolio-cache/source"
)

func int64p(v int64) *int64 {
	return &v
}

func TestNormalizeProjects_FromFixture(t *testing.T) {
	var raw []source.RawProject
	testsupport.LoadFixtureJSON(t, testsupport.FixturePath("directory.json"), &raw)

	projects, err := source.NormalizeProjects(raw)
	if err != nil {
		t.Fatalf("expected fixture to normalize cleanly: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}

	aurora := projects[0]
	if aurora.ID != "prj-aurora" || aurora.Status != portfolio.StatusCompleted {
		t.Errorf("unexpected first project: %+v", aurora)
	}
	if aurora.Location == nil || aurora.Location.FullAddress != "12 Harbour Road, Wellington" {
		t.Errorf("expected location to carry over, got %+v", aurora.Location)
	}

	// totalPaid is absent for the second record and must default to 0.
	basalt := projects[1]
	if basalt.TotalPaid != 0 {
		t.Errorf("expected absent totalPaid to default to 0, got %d", basalt.TotalPaid)
	}
	if basalt.TotalValue != 100000 {
		t.Errorf("expected totalValue=100000, got %d", basalt.TotalValue)
	}
}

func TestNormalizeProject_RejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name string
		raw  source.RawProject
	}{
		{"missing id", source.RawProject{ClientName: "x", Status: "ongoing"}},
		{"missing client", source.RawProject{ID: "p1", Status: "ongoing"}},
		{"unknown status", source.RawProject{ID: "p1", ClientName: "x", Status: "archived"}},
		{"negative value", source.RawProject{ID: "p1", ClientName: "x", Status: "ongoing", TotalValue: int64p(-5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := source.NormalizeProject(tt.raw); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestNormalizeProjects_OneBadRecordFailsTheBatch(t *testing.T) {
	raw := []source.RawProject{
		{ID: "p1", ClientName: "a", Status: "ongoing"},
		{ID: "", ClientName: "b", Status: "ongoing"},
	}

	if _, err := source.NormalizeProjects(raw); err == nil {
		t.Error("expected batch to fail on the invalid record")
	}
}

func TestNormalizeMilestones_ClampsProgress(t *testing.T) {
	raw := []source.RawMilestone{
		{ProjectID: "p1", Progress: 105.4},
		{ProjectID: "p1", Progress: -3},
		{ProjectID: "p1", Progress: 66.6},
	}

	got, err := source.NormalizeMilestones(raw)
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}
	want := []int{100, 0, 67}
	for i, m := range got {
		if m.Progress != want[i] {
			t.Errorf("milestone %d: expected progress %d, got %d", i, want[i], m.Progress)
		}
	}
}

func TestNormalizeProjectTransactions_ComputesAbsentSummary(t *testing.T) {
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	raw := source.RawProjectTransactions{
		Project: source.RawProject{ID: "p1", ClientName: "a", Status: "ongoing", TotalValue: int64p(100000)},
		Transactions: []source.RawTransaction{
			{TransactionID: "TXN1", ProjectID: "p1", Amount: int64p(40000), Status: "paid", CreatedAt: created},
			{TransactionID: "TXN2", ProjectID: "p1", Amount: int64p(30000), Status: "pending", CreatedAt: created},
			{TransactionID: "TXN3", ProjectID: "p1", Amount: int64p(10000), Status: "cancelled", CreatedAt: created},
		},
	}

	got, err := source.NormalizeProjectTransactions(raw)
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}
	if got.Summary.TotalAmount != 70000 {
		t.Errorf("expected cancelled transactions excluded from total, got %d", got.Summary.TotalAmount)
	}
	if got.Summary.TotalPaid != 40000 {
		t.Errorf("expected totalPaid=40000, got %d", got.Summary.TotalPaid)
	}
	if got.Summary.Balance != 30000 {
		t.Errorf("expected balance=30000, got %d", got.Summary.Balance)
	}
}

func TestNormalizeProjectTransactions_ServerSummaryWins(t *testing.T) {
	raw := source.RawProjectTransactions{
		Project: source.RawProject{ID: "p1", ClientName: "a", Status: "ongoing"},
		Summary: &source.RawSummary{TotalAmount: int64p(90000), TotalPaid: int64p(20000)},
	}

	got, err := source.NormalizeProjectTransactions(raw)
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}
	if got.Summary.TotalAmount != 90000 || got.Summary.TotalPaid != 20000 || got.Summary.Balance != 70000 {
		t.Errorf("unexpected summary: %+v", got.Summary)
	}
}

func TestNormalizeProjectTransactions_RejectsInvalidTransaction(t *testing.T) {
	raw := source.RawProjectTransactions{
		Project: source.RawProject{ID: "p1", ClientName: "a", Status: "ongoing"},
		Transactions: []source.RawTransaction{
			{TransactionID: "", ProjectID: "p1", Status: "paid"},
		},
	}

	if _, err := source.NormalizeProjectTransactions(raw); err == nil {
		t.Error("expected invalid transaction to be rejected")
	}
}

package portfoliocache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/buildops/go-portfolio-cache/cache"
	"github.com/buildops/go-portfolio-cache/source"
)

// fakeSource provides an in-memory collaborator for tests, tracking method
// calls to verify caching behavior.
type fakeSource struct {
	mu               sync.Mutex
	projects         []source.RawProject
	transactions     map[string]source.RawProjectTransactions
	milestones       map[string][]source.RawMilestone
	failProjects     error
	failTransactions map[string]error
	failMilestones   map[string]error
	calls            map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		transactions:     make(map[string]source.RawProjectTransactions),
		milestones:       make(map[string][]source.RawMilestone),
		failTransactions: make(map[string]error),
		failMilestones:   make(map[string]error),
		calls:            make(map[string]int),
	}
}

func (f *fakeSource) track(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
}

func (f *fakeSource) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeSource) resetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = make(map[string]int)
}

func (f *fakeSource) FetchConfirmedProjects(ctx context.Context) ([]source.RawProject, error) {
	f.track("FetchConfirmedProjects")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failProjects != nil {
		return nil, f.failProjects
	}
	return append([]source.RawProject(nil), f.projects...), nil
}

func (f *fakeSource) FetchProjectTransactions(ctx context.Context, projectID string) (source.RawProjectTransactions, error) {
	f.track("FetchProjectTransactions:" + projectID)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failTransactions[projectID]; err != nil {
		return source.RawProjectTransactions{}, err
	}
	return f.transactions[projectID], nil
}

func (f *fakeSource) FetchProjectMilestones(ctx context.Context, projectID string) ([]source.RawMilestone, error) {
	f.track("FetchProjectMilestones:" + projectID)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failMilestones[projectID]; err != nil {
		return nil, err
	}
	return append([]source.RawMilestone(nil), f.milestones[projectID]...), nil
}

var _ source.Source = (*fakeSource)(nil)

// fakeClock lets tests move time manually instead of sleeping.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func int64p(v int64) *int64 {
	return &v
}

func rawProject(id, client string, value, paid int64, status string) source.RawProject {
	return source.RawProject{
		ID:          id,
		ProjectName: "Project " + id,
		ClientName:  client,
		UserEmail:   client + "@example.test",
		TotalValue:  int64p(value),
		TotalPaid:   int64p(paid),
		Status:      status,
		StartDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ConfirmedAt: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
	}
}

func rawTransactions(p source.RawProject, txs ...source.RawTransaction) source.RawProjectTransactions {
	return source.RawProjectTransactions{Project: p, Transactions: txs}
}

func rawTransaction(id, ref, projectID string, amount int64, status string) source.RawTransaction {
	return source.RawTransaction{
		TransactionID:   id,
		ReferenceNumber: ref,
		ProjectID:       projectID,
		Amount:          int64p(amount),
		Status:          status,
		CreatedAt:       time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestStore(t *testing.T) (*cache.Store, *fakeClock) {
	t.Helper()

	clock := newFakeClock()
	store, err := cache.NewStore(cache.Config{TTL: 5 * time.Minute, Clock: clock.Now})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store, clock
}

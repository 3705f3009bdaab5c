package portfoliocache

import (
	"context"
	"fmt"
	"slices"

	"github.com/buildops/go-portfolio-cache/cache"
	"github.com/buildops/go-portfolio-cache/portfolio"
	"github.com/buildops/go-portfolio-cache/source"
)

// MilestoneLoader is the read-through loader for per-project milestone
// lists. A milestone set is cached fully or not at all; there is no partial
// entry to merge into.
type MilestoneLoader struct {
	src   source.Source
	store *cache.Store
}

// NewMilestoneLoader wires a milestone loader onto the shared store.
func NewMilestoneLoader(src source.Source, store *cache.Store) *MilestoneLoader {
	return &MilestoneLoader{src: src, store: store}
}

// Load returns the milestone list for projectID, fetching and caching on a
// miss. An empty list is a valid success. On failure any previous entry is
// returned alongside the error.
func (l *MilestoneLoader) Load(ctx context.Context, projectID string, force bool) ([]portfolio.Milestone, error) {
	if projectID == "" {
		return nil, ErrEmptyProjectID
	}

	milestones, err := cache.GetOrFetch(ctx, l.store, cache.MilestonesKey(projectID), force,
		func(ctx context.Context) ([]portfolio.Milestone, error) {
			raw, fetchErr := l.src.FetchProjectMilestones(ctx, projectID)
			if fetchErr != nil {
				return nil, fmt.Errorf("fetch milestones for project %s: %w", projectID, fetchErr)
			}
			return source.NormalizeMilestones(raw)
		})
	return slices.Clone(milestones), err
}

// TransactionLoader is the read-through loader for a project's full
// transaction detail set. The composite value (project, transactions,
// summary) is cached as one unit under project:<id>:transactions.
type TransactionLoader struct {
	src   source.Source
	store *cache.Store
}

// NewTransactionLoader wires a transaction loader onto the shared store.
func NewTransactionLoader(src source.Source, store *cache.Store) *TransactionLoader {
	return &TransactionLoader{src: src, store: store}
}

// Load returns the transaction set for projectID, fetching and caching on a
// miss. On failure any previous entry is returned alongside the error.
func (l *TransactionLoader) Load(ctx context.Context, projectID string, force bool) (portfolio.ProjectTransactions, error) {
	if projectID == "" {
		return portfolio.ProjectTransactions{}, ErrEmptyProjectID
	}

	set, err := cache.GetOrFetch(ctx, l.store, cache.TransactionsKey(projectID), force,
		func(ctx context.Context) (portfolio.ProjectTransactions, error) {
			raw, fetchErr := l.src.FetchProjectTransactions(ctx, projectID)
			if fetchErr != nil {
				return portfolio.ProjectTransactions{}, fmt.Errorf("fetch transactions for project %s: %w", projectID, fetchErr)
			}
			return source.NormalizeProjectTransactions(raw)
		})
	return cloneProjectTransactions(set), err
}

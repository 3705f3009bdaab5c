package portfoliocache

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/buildops/go-portfolio-cache/cache"
	"github.com/buildops/go-portfolio-cache/portfolio"
	"github.com/buildops/go-portfolio-cache/query"
	"github.com/buildops/go-portfolio-cache/source"
)

// Session is the upward-facing facade for one UI session. It owns the
// loaders and the search index over a single shared store, and mediates
// between the rendering layer and the network collaborators: nothing above
// this layer talks to the source or the store directly.
type Session struct {
	store        *cache.Store
	directory    *DirectoryLoader
	milestones   *MilestoneLoader
	transactions *TransactionLoader
	search       *SearchIndex
	engine       *query.Engine
	log          *slog.Logger

	mu        sync.Mutex
	lastQuery query.Params
	hasQuery  bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger attaches a logger for collision warnings and degraded-refresh
// notices. The default is no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.log = logger }
}

// WithQueryEngine overrides the default English-collating query engine.
func WithQueryEngine(engine *query.Engine) Option {
	return func(s *Session) { s.engine = engine }
}

// NewSession wires the loaders, search index, and query engine onto the
// provided store. The store is shared across all components of the session;
// passing the same store to two sessions shares their caches.
func NewSession(src source.Source, store *cache.Store, opts ...Option) *Session {
	s := &Session{store: store, engine: query.NewEngine()}
	for _, opt := range opts {
		opt(s)
	}

	s.milestones = NewMilestoneLoader(src, store)
	s.transactions = NewTransactionLoader(src, store)
	s.directory = NewDirectoryLoader(src, store, s.milestones, s.log)
	s.search = NewSearchIndex(s.directory, s.transactions, s.log)
	return s
}

// LoadDirectory returns the project directory, refreshing when force is set
// or the cache entry has expired. A non-nil error may still carry the last
// good (stale) directory; callers show the data and surface the failure
// separately.
func (s *Session) LoadDirectory(ctx context.Context, force bool) ([]portfolio.Project, error) {
	return s.directory.Load(ctx, force)
}

// LoadProjectDetail returns the combined transaction and milestone view for
// one project. A milestone failure does not discard the transaction data:
// the detail is returned with empty milestones and the error joined in.
func (s *Session) LoadProjectDetail(ctx context.Context, projectID string, force bool) (portfolio.ProjectDetail, error) {
	if projectID == "" {
		return portfolio.ProjectDetail{}, ErrEmptyProjectID
	}

	set, txErr := s.transactions.Load(ctx, projectID, force)
	if txErr != nil && set.Project.ID == "" {
		return portfolio.ProjectDetail{}, txErr
	}

	milestones, msErr := s.milestones.Load(ctx, projectID, force)

	return portfolio.ProjectDetail{
		Project:      set.Project,
		Transactions: set.Transactions,
		Milestones:   milestones,
		Summary:      set.Summary,
	}, errors.Join(txErr, msErr)
}

// SearchTransaction locates a transaction by transaction ID or reference
// number across all projects. See SearchIndex.FindByIdentifier.
func (s *Session) SearchTransaction(ctx context.Context, identifier string) (portfolio.TransactionMatch, error) {
	return s.search.FindByIdentifier(ctx, identifier)
}

// QueryDirectory filters, sorts, and paginates whatever directory state the
// session has materialized; it never triggers network I/O. Changing any
// filter or sort input since the previous query resets the page to 1, so a
// stale page number is never applied to a reshaped result set.
func (s *Session) QueryDirectory(params query.Params) query.Page {
	s.mu.Lock()
	if s.hasQuery && !params.FiltersEqual(s.lastQuery) {
		params.Page = 1
	}
	s.lastQuery = params
	s.hasQuery = true
	s.mu.Unlock()

	return s.engine.Apply(s.directory.Cached(), s.directory.Progress(), params)
}

// PortfolioStats recomputes the portfolio rollup from the current directory
// and progress map. The result is never cached: caching it would risk
// staleness relative to its inputs.
func (s *Session) PortfolioStats() portfolio.PortfolioStats {
	return portfolio.Aggregate(s.directory.Cached(), s.directory.Progress())
}

// InvalidateProject drops every cached resource of one project, forcing the
// next detail load to refetch.
func (s *Session) InvalidateProject(projectID string) {
	s.store.DeleteByPrefix(cache.ProjectPrefix(projectID))
}

// Invalidate drops everything the session has cached.
func (s *Session) Invalidate() {
	s.store.Clear()
}

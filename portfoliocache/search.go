package portfoliocache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/buildops/go-portfolio-cache/portfolio"
)

// SearchIndex locates a transaction by identifier without the caller naming
// a project. There is no eagerly maintained global index: the directory is
// scanned in its existing order and each project's transaction set is pulled
// through the cache lazily, so the cost is bounded by the projects the
// search actually has to touch.
type SearchIndex struct {
	directory    *DirectoryLoader
	transactions *TransactionLoader
	log          *slog.Logger
}

// NewSearchIndex wires a search index over the directory and transaction
// loaders. Logger may be nil.
func NewSearchIndex(directory *DirectoryLoader, transactions *TransactionLoader, logger *slog.Logger) *SearchIndex {
	return &SearchIndex{directory: directory, transactions: transactions, log: logger}
}

// FindByIdentifier matches identifier case-insensitively against either
// transaction_id or reference_number across all projects, in directory
// order, fetching-and-caching any project not yet loaded. The first match
// wins. A blank identifier is rejected before any network call.
//
// A project whose transaction fetch fails is skipped (stale cached data, if
// any, is still scanned); if the scan finds no match and at least one
// project could not be checked, the fetch error is returned instead of
// ErrTransactionNotFound, since "not found" would be unreliable.
func (s *SearchIndex) FindByIdentifier(ctx context.Context, identifier string) (portfolio.TransactionMatch, error) {
	needle := strings.ToLower(strings.TrimSpace(identifier))
	if needle == "" {
		return portfolio.TransactionMatch{}, ErrEmptyIdentifier
	}

	projects, err := s.directory.Load(ctx, false)
	if len(projects) == 0 {
		if err != nil {
			return portfolio.TransactionMatch{}, err
		}
		return portfolio.TransactionMatch{}, ErrTransactionNotFound
	}

	var firstErr error
	for _, project := range projects {
		set, loadErr := s.transactions.Load(ctx, project.ID, false)
		if loadErr != nil && len(set.Transactions) == 0 {
			if firstErr == nil {
				firstErr = loadErr
			}
			continue
		}

		if match, ok := s.scan(project.ID, set.Transactions, needle); ok {
			return portfolio.TransactionMatch{Project: project, Transaction: match}, nil
		}
	}

	if firstErr != nil {
		return portfolio.TransactionMatch{}, fmt.Errorf("search %q: %w", identifier, firstErr)
	}
	return portfolio.TransactionMatch{}, ErrTransactionNotFound
}

// scan returns the first matching transaction in the list. Reference numbers
// are required-unique; a second hit in the same list is bad upstream data,
// so it is logged rather than silently absorbed.
func (s *SearchIndex) scan(projectID string, transactions []portfolio.TransactionDetail, needle string) (portfolio.TransactionDetail, bool) {
	matched := -1
	for i, tx := range transactions {
		if !matches(tx, needle) {
			continue
		}
		if matched >= 0 {
			s.warn("duplicate transaction identifier in project",
				slog.String("project_id", projectID),
				slog.String("identifier", needle),
				slog.String("kept", transactions[matched].TransactionID),
				slog.String("ignored", tx.TransactionID))
			continue
		}
		matched = i
	}
	if matched < 0 {
		return portfolio.TransactionDetail{}, false
	}
	return transactions[matched], true
}

func matches(tx portfolio.TransactionDetail, needle string) bool {
	if strings.ToLower(tx.TransactionID) == needle {
		return true
	}
	return tx.ReferenceNumber != "" && strings.ToLower(tx.ReferenceNumber) == needle
}

func (s *SearchIndex) warn(msg string, args ...any) {
	if s.log != nil {
		s.log.Warn(msg, args...)
	}
}

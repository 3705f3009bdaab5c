// Package portfoliocache is the read-through layer between the rendering
// layer and the network collaborators: it keeps the project directory,
// per-project transaction sets, per-project milestone lists, and the derived
// progress map consistent with each other inside one shared TTL store.
//
// # Components
//
//   - DirectoryLoader: fetches and caches the confirmed-project directory,
//     then rebuilds the progress map for every returned project
//   - MilestoneLoader / TransactionLoader: per-project read-through loaders;
//     a result set is cached fully or not at all
//   - SearchIndex: cross-project transaction lookup that scans cached sets
//     and lazily fetches projects not yet loaded
//   - Session: the facade the UI talks to, combining the loaders with the
//     query engine and portfolio aggregation
//
// # Wiring
//
// One store, one session:
//
//	store, err := cache.NewStore(cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	session := portfoliocache.NewSession(src, store,
//		portfoliocache.WithLogger(slog.Default()))
//
//	projects, err := session.LoadDirectory(ctx, false)
//	match, err := session.SearchTransaction(ctx, "TXN000007")
//	page := session.QueryDirectory(query.Params{Status: "ongoing", Page: 2})
//	stats := session.PortfolioStats()
//
// # Failure semantics
//
// Loaders never panic for expected failures. A failed refresh leaves the
// previous cache entry untouched and returns it alongside the error, so the
// UI keeps showing the last good data with a notice; an empty or error state
// appears only when no data of any vintage exists. A search that exhausts
// the directory returns ErrTransactionNotFound, which is a valid negative
// result and not a failure.
//
// # Consistency
//
// Every cache mutation is a whole-value replacement. The progress map is
// rebuilt with a fan-out over the milestone loader and published in a single
// write after all projects complete, so partial maps are never observable.
// Refreshes run under per-key generation tokens: when two refreshes of the
// same key overlap, the response of the superseded request is discarded.
package portfoliocache

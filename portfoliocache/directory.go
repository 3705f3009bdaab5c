package portfoliocache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/buildops/go-portfolio-cache/cache"
	"github.com/buildops/go-portfolio-cache/portfolio"
	"github.com/buildops/go-portfolio-cache/source"
)

// prefetchConcurrency bounds the milestone fan-out after a directory
// refresh so a large portfolio does not open one connection per project.
const prefetchConcurrency = 8

// DirectoryLoader is the read-through loader for the confirmed-project
// directory. A successful refresh replaces the directory cache entry
// wholesale and then rebuilds the derived progress map before returning.
type DirectoryLoader struct {
	src        source.Source
	store      *cache.Store
	milestones *MilestoneLoader
	log        *slog.Logger
}

// NewDirectoryLoader wires a directory loader onto the shared store. The
// milestone loader feeds the progress rebuild; logger may be nil.
func NewDirectoryLoader(src source.Source, store *cache.Store, milestones *MilestoneLoader, logger *slog.Logger) *DirectoryLoader {
	return &DirectoryLoader{src: src, store: store, milestones: milestones, log: logger}
}

// Load returns the project directory. Unless force is set, a live cache
// entry short-circuits the fetch. On fetch or normalization failure the
// previous entry is left untouched and returned alongside the error when one
// exists, so the caller keeps showing the last good data.
func (l *DirectoryLoader) Load(ctx context.Context, force bool) ([]portfolio.Project, error) {
	key := cache.DirectoryKey()

	if !force {
		if cached, ok := cache.Value[[]portfolio.Project](l.store, key); ok {
			return cloneProjects(cached), nil
		}
	}

	gen := l.store.Begin(key)

	raw, err := l.src.FetchConfirmedProjects(ctx)
	if err != nil {
		return l.staleDirectory(key, fmt.Errorf("refresh directory: %w", err))
	}
	projects, err := source.NormalizeProjects(raw)
	if err != nil {
		return l.staleDirectory(key, fmt.Errorf("refresh directory: %w", err))
	}

	// A superseded response must neither overwrite the directory nor waste
	// a progress rebuild; the newer refresh owns both.
	if l.store.CompareAndSet(key, gen, projects) {
		l.rebuildProgress(ctx, projects)
	}
	return cloneProjects(projects), nil
}

// Cached returns the directory from the store without any network I/O,
// accepting a stale entry over nothing. Nil means no data of any vintage.
func (l *DirectoryLoader) Cached() []portfolio.Project {
	projects, _ := cache.PeekValue[[]portfolio.Project](l.store, cache.DirectoryKey())
	return cloneProjects(projects)
}

// Progress returns the derived progress map. The map's freshness follows the
// directory refresh cycle rather than its own TTL, so expired entries are
// still served until the next rebuild replaces them.
func (l *DirectoryLoader) Progress() portfolio.ProgressMap {
	m, _ := cache.PeekValue[portfolio.ProgressMap](l.store, cache.ProgressMapKey())
	return m.Clone()
}

func (l *DirectoryLoader) staleDirectory(key string, err error) ([]portfolio.Project, error) {
	if stale, ok := cache.PeekValue[[]portfolio.Project](l.store, key); ok {
		return cloneProjects(stale), err
	}
	return nil, err
}

// rebuildProgress fans out one milestone load per project, waits for all of
// them, and publishes the combined map in a single write so no caller ever
// observes a partially rebuilt map. A failed milestone load degrades that
// project to the payment-ratio fallback instead of failing the refresh.
func (l *DirectoryLoader) rebuildProgress(ctx context.Context, projects []portfolio.Project) {
	key := cache.ProgressMapKey()
	gen := l.store.Begin(key)

	var (
		mu        sync.Mutex
		byProject = make(map[string][]portfolio.Milestone, len(projects))
	)

	g := new(errgroup.Group)
	g.SetLimit(prefetchConcurrency)
	for _, p := range projects {
		p := p
		g.Go(func() error {
			milestones, err := l.milestones.Load(ctx, p.ID, false)
			if err != nil {
				l.warn("milestone prefetch failed, falling back to payment ratio",
					slog.String("project_id", p.ID), slog.Any("error", err))
				return nil
			}
			mu.Lock()
			byProject[p.ID] = milestones
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	l.store.CompareAndSet(key, gen, portfolio.BuildProgressMap(projects, byProject))
}

func (l *DirectoryLoader) warn(msg string, args ...any) {
	if l.log != nil {
		l.log.Warn(msg, args...)
	}
}

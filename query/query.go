// Package query filters, sorts, and paginates an already-materialized
// project directory. It is pure and synchronous: it never touches the cache
// or the network, which keeps every combination of predicates trivially
// unit-testable.
package query

import (
	"math"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/buildops/go-portfolio-cache/portfolio"
)

// DefaultPageSize applies when Params.PageSize is zero or negative.
const DefaultPageSize = 10

// StatusAll disables the status filter.
const StatusAll = "all"

// SortKey selects the directory ordering.
type SortKey string

const (
	SortNewest    SortKey = "newest"     // by start date, most recent first
	SortOldest    SortKey = "oldest"     // by start date, oldest first
	SortValueHigh SortKey = "value-desc" // by total value, largest first
	SortValueLow  SortKey = "value-asc"  // by total value, smallest first
	SortClientAZ  SortKey = "client-az"  // client name, collated ascending
	SortClientZA  SortKey = "client-za"  // client name, collated descending
)

// Bucket partitions projects by derived progress.
type Bucket string

const (
	BucketAll        Bucket = "all"
	BucketCompleted  Bucket = "completed"   // progress >= 100
	BucketInProgress Bucket = "in-progress" // 0 < progress < 100
	BucketNotStarted Bucket = "not-started" // progress == 0
)

// Params describes one directory query. The zero value means: no text
// search, all statuses, all buckets, newest first, page 1 at the default
// page size.
type Params struct {
	// Search matches case-insensitively as a substring against client name,
	// project name, user email, project ID, and the location's full
	// address; any one field matching keeps the project.
	Search string

	// Status is an exact-match filter against one project status, or
	// "all"/"" to disable.
	Status string

	Bucket   Bucket
	Sort     SortKey
	Page     int
	PageSize int
}

// FiltersEqual reports whether two queries share all filter and sort inputs.
// Pagination fields are excluded: a change in anything this compares must
// reset the page to 1.
func (p Params) FiltersEqual(o Params) bool {
	return p.Search == o.Search &&
		p.Status == o.Status &&
		p.Bucket == o.Bucket &&
		p.Sort == o.Sort
}

// Page is one slice of the filtered, sorted directory.
type Page struct {
	Items      []portfolio.Project `json:"items"`
	TotalCount int                 `json:"totalCount"`
	TotalPages int                 `json:"totalPages"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
}

// Engine applies queries. It owns a collator for locale-aware client-name
// ordering; the collator is stateful, so Apply serializes access to it.
type Engine struct {
	mu       sync.Mutex
	collator *collate.Collator
}

// NewEngine creates an engine collating client names for English.
func NewEngine() *Engine {
	return NewEngineForLanguage(language.English)
}

// NewEngineForLanguage creates an engine collating client names for the
// given language.
func NewEngineForLanguage(tag language.Tag) *Engine {
	return &Engine{collator: collate.New(tag, collate.IgnoreCase)}
}

// Apply filters, sorts, and paginates the directory. progress supplies the
// derived percent per project for bucket filtering; projects missing from it
// count as 0.
func (e *Engine) Apply(projects []portfolio.Project, progress portfolio.ProgressMap, p Params) Page {
	filtered := filter(projects, progress, p)

	e.mu.Lock()
	e.sortProjects(filtered, p.Sort)
	e.mu.Unlock()

	return paginate(filtered, p)
}

func filter(projects []portfolio.Project, progress portfolio.ProgressMap, p Params) []portfolio.Project {
	needle := strings.ToLower(strings.TrimSpace(p.Search))

	out := make([]portfolio.Project, 0, len(projects))
	for _, project := range projects {
		if needle != "" && !textMatch(project, needle) {
			continue
		}
		if !statusMatch(project, p.Status) {
			continue
		}
		if !bucketMatch(progress[project.ID], p.Bucket) {
			continue
		}
		out = append(out, project)
	}
	return out
}

func textMatch(p portfolio.Project, needle string) bool {
	fields := []string{p.ClientName, p.ProjectName, p.UserEmail, p.ID}
	if p.Location != nil {
		fields = append(fields, p.Location.FullAddress)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func statusMatch(p portfolio.Project, status string) bool {
	if status == "" || status == StatusAll {
		return true
	}
	return string(p.Status) == status
}

func bucketMatch(progress int, bucket Bucket) bool {
	switch bucket {
	case BucketCompleted:
		return progress >= 100
	case BucketInProgress:
		return progress > 0 && progress < 100
	case BucketNotStarted:
		return progress == 0
	default:
		return true
	}
}

func (e *Engine) sortProjects(projects []portfolio.Project, key SortKey) {
	switch key {
	case SortOldest:
		sort.SliceStable(projects, func(i, j int) bool {
			return projects[i].StartDate.Before(projects[j].StartDate)
		})
	case SortValueHigh:
		sort.SliceStable(projects, func(i, j int) bool {
			return projects[i].TotalValue > projects[j].TotalValue
		})
	case SortValueLow:
		sort.SliceStable(projects, func(i, j int) bool {
			return projects[i].TotalValue < projects[j].TotalValue
		})
	case SortClientAZ:
		sort.SliceStable(projects, func(i, j int) bool {
			return e.collator.CompareString(projects[i].ClientName, projects[j].ClientName) < 0
		})
	case SortClientZA:
		sort.SliceStable(projects, func(i, j int) bool {
			return e.collator.CompareString(projects[i].ClientName, projects[j].ClientName) > 0
		})
	default: // SortNewest
		sort.SliceStable(projects, func(i, j int) bool {
			return projects[i].StartDate.After(projects[j].StartDate)
		})
	}
}

func paginate(filtered []portfolio.Project, p Params) Page {
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page := p.Page
	if page < 1 {
		page = 1
	}

	total := len(filtered)
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page{
		Items:      filtered[start:end],
		TotalCount: total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
	}
}

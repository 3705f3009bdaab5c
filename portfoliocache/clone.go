package portfoliocache

import (
	"slices"

	"github.com/buildops/go-portfolio-cache/portfolio"
)

// Cached values are owned by the store. Everything handed to callers goes
// through these helpers so external mutation cannot reach cached state.

func cloneProject(p portfolio.Project) portfolio.Project {
	if p.Location != nil {
		loc := *p.Location
		p.Location = &loc
	}
	return p
}

func cloneProjects(projects []portfolio.Project) []portfolio.Project {
	if projects == nil {
		return nil
	}
	out := make([]portfolio.Project, len(projects))
	for i, p := range projects {
		out[i] = cloneProject(p)
	}
	return out
}

func cloneProjectTransactions(pt portfolio.ProjectTransactions) portfolio.ProjectTransactions {
	pt.Project = cloneProject(pt.Project)
	pt.Transactions = slices.Clone(pt.Transactions)
	return pt
}

// Package source defines the collaborator contract the cache layer consumes:
// the three fetch operations that supply raw project, transaction, and
// milestone records, and the normalization that turns their loosely-typed
// payloads into validated domain values.
//
// Implementations live elsewhere (HTTP clients, database adapters, test
// fakes); the cache layer only ever sees this interface. Failures are
// reported as ordinary error returns, never panics, and an empty result set
// is a valid success.
package source

import (
	"context"
	"time"
)

// Source supplies raw records from the system of record. Every call is
// context-aware; a cancelled context aborts the fetch.
type Source interface {
	// FetchConfirmedProjects returns every confirmed project.
	FetchConfirmedProjects(ctx context.Context) ([]RawProject, error)

	// FetchProjectTransactions returns the full transaction detail set for
	// one project, together with the owning project and a summary rollup.
	FetchProjectTransactions(ctx context.Context, projectID string) (RawProjectTransactions, error)

	// FetchProjectMilestones returns the full milestone list for one project.
	FetchProjectMilestones(ctx context.Context, projectID string) ([]RawMilestone, error)
}

// RawProject mirrors the server payload for a directory entry. Monetary
// fields are pointers because the server may omit them; normalization
// defaults absent values so the aggregation math never sees a hole.
type RawProject struct {
	ID          string       `json:"project_id"`
	ProjectName string       `json:"projectName"`
	ClientName  string       `json:"clientName"`
	UserEmail   string       `json:"userEmail"`
	TotalValue  *int64       `json:"totalValue"`
	TotalPaid   *int64       `json:"totalPaid"`
	Status      string       `json:"status"`
	Location    *RawLocation `json:"location,omitempty"`
	StartDate   time.Time    `json:"startDate"`
	EndDate     time.Time    `json:"endDate"`
	ConfirmedAt time.Time    `json:"confirmedAt"`
}

// RawLocation mirrors the optional structured address.
type RawLocation struct {
	FullAddress string `json:"fullAddress"`
	City        string `json:"city,omitempty"`
}

// RawMilestone mirrors the server payload for a milestone. Progress arrives
// as a float and may be out of range; normalization rounds and clamps it.
type RawMilestone struct {
	ProjectID string  `json:"project_id"`
	Name      string  `json:"name"`
	Progress  float64 `json:"progress"`
	Completed bool    `json:"completed"`
	Order     int     `json:"order"`
}

// RawTransaction mirrors the server payload for a transaction detail.
type RawTransaction struct {
	TransactionID   string     `json:"transaction_id"`
	ReferenceNumber string     `json:"reference_number"`
	ProjectID       string     `json:"project_id"`
	Amount          *int64     `json:"amount"`
	Status          string     `json:"status"`
	Type            string     `json:"type"`
	CreatedAt       time.Time  `json:"created_at"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
}

// RawSummary mirrors the optional server-computed transaction rollup.
type RawSummary struct {
	TotalAmount *int64 `json:"totalAmount"`
	TotalPaid   *int64 `json:"totalPaid"`
	Balance     *int64 `json:"balance"`
}

// RawProjectTransactions is the composite payload of the per-project
// transaction endpoint. Summary may be absent, in which case normalization
// computes it from the transaction list.
type RawProjectTransactions struct {
	Project      RawProject       `json:"project"`
	Transactions []RawTransaction `json:"transactions"`
	Summary      *RawSummary      `json:"summary,omitempty"`
}

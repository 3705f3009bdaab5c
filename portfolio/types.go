package portfolio

import "time"

// Status enumerates the lifecycle states a confirmed project can be in.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
)

// Valid reports whether s is one of the known project statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOngoing, StatusCompleted, StatusPending:
		return true
	}
	return false
}

// TransactionStatus enumerates payment states of a single transaction.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionPaid      TransactionStatus = "paid"
	TransactionExpired   TransactionStatus = "expired"
	TransactionCancelled TransactionStatus = "cancelled"
)

// Valid reports whether s is one of the known transaction statuses.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionPending, TransactionPaid, TransactionExpired, TransactionCancelled:
		return true
	}
	return false
}

// Location is an optional structured address attached to a project.
type Location struct {
	FullAddress string `json:"fullAddress"`
	City        string `json:"city,omitempty"`
}

// Project is one directory entry. Monetary amounts are in minor currency
// units. TotalPaid may be absent on the server side; the normalization layer
// defaults it to 0 so aggregation never sees a hole.
//
// Directory entries are replaced wholesale on refresh, never patched in
// place.
type Project struct {
	ID          string    `json:"project_id"`
	ProjectName string    `json:"projectName"`
	ClientName  string    `json:"clientName"`
	UserEmail   string    `json:"userEmail"`
	TotalValue  int64     `json:"totalValue"`
	TotalPaid   int64     `json:"totalPaid"`
	Status      Status    `json:"status"`
	Location    *Location `json:"location,omitempty"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

// Balance is the outstanding amount on the project.
func (p Project) Balance() int64 {
	return p.TotalValue - p.TotalPaid
}

// Milestone belongs to exactly one project. Progress is clamped to [0,100]
// at the collaborator boundary. Order defines display order only; all
// milestones weigh equally in the progress average.
type Milestone struct {
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Progress  int    `json:"progress"`
	Completed bool   `json:"completed"`
	Order     int    `json:"order"`
}

// TransactionDetail is one payment record. It is owned by the project whose
// cache entry holds it and is never cached independently.
type TransactionDetail struct {
	TransactionID   string            `json:"transaction_id"`
	ReferenceNumber string            `json:"reference_number"`
	ProjectID       string            `json:"project_id"`
	Amount          int64             `json:"amount"`
	Status          TransactionStatus `json:"status"`
	Type            string            `json:"type"`
	CreatedAt       time.Time         `json:"created_at"`
	PaidAt          *time.Time        `json:"paid_at,omitempty"`
	DueDate         *time.Time        `json:"due_date,omitempty"`
}

// TransactionSummary is the server-computed rollup that accompanies a
// project's transaction list.
type TransactionSummary struct {
	TotalAmount int64 `json:"totalAmount"`
	TotalPaid   int64 `json:"totalPaid"`
	Balance     int64 `json:"balance"`
}

// ProjectTransactions is the full transaction detail set for one project,
// cached as a single unit under project:<id>:transactions.
type ProjectTransactions struct {
	Project      Project             `json:"project"`
	Transactions []TransactionDetail `json:"transactions"`
	Summary      TransactionSummary  `json:"summary"`
}

// ProjectDetail is the combined per-project view the rendering layer asks
// for: transactions plus milestones.
type ProjectDetail struct {
	Project      Project             `json:"project"`
	Transactions []TransactionDetail `json:"transactions"`
	Milestones   []Milestone         `json:"milestones"`
	Summary      TransactionSummary  `json:"summary"`
}

// TransactionMatch is a successful cross-project search result.
type TransactionMatch struct {
	Project     Project           `json:"project"`
	Transaction TransactionDetail `json:"transaction"`
}

// ProgressMap maps project ID to a derived completion percent in [0,100].
// It is recomputed whenever its inputs refresh and never hand-edited.
type ProgressMap map[string]int

// Clone returns an independent copy of the map.
func (m ProgressMap) Clone() ProgressMap {
	if m == nil {
		return nil
	}
	out := make(ProgressMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

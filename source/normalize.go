package source

import (
	"fmt"
	"math"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/buildops/go-portfolio-cache/portfolio"
)

// Validate checks the structural invariants of a raw project record.
func (r RawProject) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.ClientName, validation.Required),
		validation.Field(&r.Status, validation.Required, validation.In(
			string(portfolio.StatusOngoing),
			string(portfolio.StatusCompleted),
			string(portfolio.StatusPending),
		)),
		validation.Field(&r.TotalValue, validation.Min(int64(0))),
		validation.Field(&r.TotalPaid, validation.Min(int64(0))),
	)
}

// Validate checks the structural invariants of a raw milestone record.
func (r RawMilestone) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProjectID, validation.Required),
	)
}

// Validate checks the structural invariants of a raw transaction record.
func (r RawTransaction) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TransactionID, validation.Required),
		validation.Field(&r.ProjectID, validation.Required),
		validation.Field(&r.Status, validation.Required, validation.In(
			string(portfolio.TransactionPending),
			string(portfolio.TransactionPaid),
			string(portfolio.TransactionExpired),
			string(portfolio.TransactionCancelled),
		)),
		validation.Field(&r.Amount, validation.Min(int64(0))),
	)
}

// NormalizeProject validates a raw project and converts it into the typed
// domain form, defaulting absent monetary fields to 0.
func NormalizeProject(r RawProject) (portfolio.Project, error) {
	if err := r.Validate(); err != nil {
		return portfolio.Project{}, fmt.Errorf("project %q: %w", r.ID, err)
	}

	p := portfolio.Project{
		ID:          r.ID,
		ProjectName: r.ProjectName,
		ClientName:  r.ClientName,
		UserEmail:   r.UserEmail,
		TotalValue:  deref(r.TotalValue),
		TotalPaid:   deref(r.TotalPaid),
		Status:      portfolio.Status(r.Status),
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		ConfirmedAt: r.ConfirmedAt,
	}
	if r.Location != nil {
		p.Location = &portfolio.Location{
			FullAddress: r.Location.FullAddress,
			City:        r.Location.City,
		}
	}
	return p, nil
}

// NormalizeProjects converts a raw directory payload. A single invalid
// record fails the whole batch: the directory is replaced wholesale on
// refresh, so a partial list would violate the replace-not-patch contract.
func NormalizeProjects(raw []RawProject) ([]portfolio.Project, error) {
	out := make([]portfolio.Project, 0, len(raw))
	for i, r := range raw {
		p, err := NormalizeProject(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// NormalizeMilestones converts a raw milestone payload, rounding and
// clamping progress into [0,100].
func NormalizeMilestones(raw []RawMilestone) ([]portfolio.Milestone, error) {
	out := make([]portfolio.Milestone, 0, len(raw))
	for i, r := range raw {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, portfolio.Milestone{
			ProjectID: r.ProjectID,
			Name:      r.Name,
			Progress:  clampProgress(r.Progress),
			Completed: r.Completed,
			Order:     r.Order,
		})
	}
	return out, nil
}

// NormalizeProjectTransactions converts the composite transaction payload.
// An absent summary is computed from the transaction list: total across all
// non-cancelled transactions, paid across those marked paid.
func NormalizeProjectTransactions(raw RawProjectTransactions) (portfolio.ProjectTransactions, error) {
	project, err := NormalizeProject(raw.Project)
	if err != nil {
		return portfolio.ProjectTransactions{}, err
	}

	transactions := make([]portfolio.TransactionDetail, 0, len(raw.Transactions))
	for i, r := range raw.Transactions {
		if err := r.Validate(); err != nil {
			return portfolio.ProjectTransactions{}, fmt.Errorf("transaction %d: %w", i, err)
		}
		transactions = append(transactions, portfolio.TransactionDetail{
			TransactionID:   r.TransactionID,
			ReferenceNumber: r.ReferenceNumber,
			ProjectID:       r.ProjectID,
			Amount:          deref(r.Amount),
			Status:          portfolio.TransactionStatus(r.Status),
			Type:            r.Type,
			CreatedAt:       r.CreatedAt,
			PaidAt:          r.PaidAt,
			DueDate:         r.DueDate,
		})
	}

	return portfolio.ProjectTransactions{
		Project:      project,
		Transactions: transactions,
		Summary:      normalizeSummary(raw.Summary, transactions),
	}, nil
}

func normalizeSummary(raw *RawSummary, transactions []portfolio.TransactionDetail) portfolio.TransactionSummary {
	if raw != nil {
		s := portfolio.TransactionSummary{
			TotalAmount: deref(raw.TotalAmount),
			TotalPaid:   deref(raw.TotalPaid),
		}
		if raw.Balance != nil {
			s.Balance = *raw.Balance
		} else {
			s.Balance = s.TotalAmount - s.TotalPaid
		}
		return s
	}

	var s portfolio.TransactionSummary
	for _, tx := range transactions {
		if tx.Status == portfolio.TransactionCancelled {
			continue
		}
		s.TotalAmount += tx.Amount
		if tx.Status == portfolio.TransactionPaid {
			s.TotalPaid += tx.Amount
		}
	}
	s.Balance = s.TotalAmount - s.TotalPaid
	return s
}

func clampProgress(v float64) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(math.Round(v))
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

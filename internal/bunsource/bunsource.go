// Package bunsource implements the source.Source contract over a SQL
// database via bun. It is the reference collaborator used by integration
// tests and local development; production deployments substitute their own
// transport behind the same interface.
package bunsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/buildops/go-portfolio-cache/source"
)

// ErrProjectNotFound reports that the requested project does not exist in
// the backing database.
var ErrProjectNotFound = errors.New("bunsource: project not found")

type projectRow struct {
	bun.BaseModel `bun:"table:projects,alias:p"`

	ID          string     `bun:"id,pk"`
	ProjectName string     `bun:"project_name"`
	ClientName  string     `bun:"client_name"`
	UserEmail   string     `bun:"user_email"`
	TotalValue  *int64     `bun:"total_value"`
	TotalPaid   *int64     `bun:"total_paid"`
	Status      string     `bun:"status"`
	Address     string     `bun:"address"`
	City        string     `bun:"city"`
	StartDate   time.Time  `bun:"start_date,nullzero"`
	EndDate     time.Time  `bun:"end_date,nullzero"`
	ConfirmedAt *time.Time `bun:"confirmed_at"`
}

type transactionRow struct {
	bun.BaseModel `bun:"table:transactions,alias:t"`

	ID              string     `bun:"id,pk"`
	ReferenceNumber string     `bun:"reference_number"`
	ProjectID       string     `bun:"project_id"`
	Amount          *int64     `bun:"amount"`
	Status          string     `bun:"status"`
	Type            string     `bun:"type"`
	CreatedAt       time.Time  `bun:"created_at,nullzero"`
	PaidAt          *time.Time `bun:"paid_at"`
	DueDate         *time.Time `bun:"due_date"`
}

type milestoneRow struct {
	bun.BaseModel `bun:"table:milestones,alias:m"`

	ID        int64   `bun:"id,pk,autoincrement"`
	ProjectID string  `bun:"project_id"`
	Name      string  `bun:"name"`
	Progress  float64 `bun:"progress"`
	Completed bool    `bun:"completed"`
	Position  int     `bun:"position"`
}

// Source is the bun-backed collaborator.
type Source struct {
	db *bun.DB
}

// New wraps an existing bun database handle.
func New(db *bun.DB) *Source {
	return &Source{db: db}
}

var _ source.Source = (*Source)(nil)

// Setup creates the backing tables if they do not exist.
func (s *Source) Setup(ctx context.Context) error {
	models := []any{(*projectRow)(nil), (*transactionRow)(nil), (*milestoneRow)(nil)}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

// FetchConfirmedProjects returns every project with a confirmation
// timestamp, newest confirmation first.
func (s *Source) FetchConfirmedProjects(ctx context.Context) ([]source.RawProject, error) {
	var rows []projectRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("confirmed_at IS NOT NULL").
		Order("confirmed_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select confirmed projects: %w", err)
	}

	out := make([]source.RawProject, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toRaw())
	}
	return out, nil
}

// FetchProjectTransactions returns the owning project and its full
// transaction set, ordered by creation time. The summary is left for the
// normalization layer to compute.
func (s *Source) FetchProjectTransactions(ctx context.Context, projectID string) (source.RawProjectTransactions, error) {
	var project projectRow
	err := s.db.NewSelect().
		Model(&project).
		Where("id = ?", projectID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return source.RawProjectTransactions{}, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	if err != nil {
		return source.RawProjectTransactions{}, fmt.Errorf("select project %s: %w", projectID, err)
	}

	var rows []transactionRow
	err = s.db.NewSelect().
		Model(&rows).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return source.RawProjectTransactions{}, fmt.Errorf("select transactions for %s: %w", projectID, err)
	}

	transactions := make([]source.RawTransaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, source.RawTransaction{
			TransactionID:   row.ID,
			ReferenceNumber: row.ReferenceNumber,
			ProjectID:       row.ProjectID,
			Amount:          row.Amount,
			Status:          row.Status,
			Type:            row.Type,
			CreatedAt:       row.CreatedAt,
			PaidAt:          row.PaidAt,
			DueDate:         row.DueDate,
		})
	}

	return source.RawProjectTransactions{
		Project:      project.toRaw(),
		Transactions: transactions,
	}, nil
}

// FetchProjectMilestones returns the project's milestones in display order.
func (s *Source) FetchProjectMilestones(ctx context.Context, projectID string) ([]source.RawMilestone, error) {
	var rows []milestoneRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("project_id = ?", projectID).
		Order("position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select milestones for %s: %w", projectID, err)
	}

	out := make([]source.RawMilestone, 0, len(rows))
	for _, row := range rows {
		out = append(out, source.RawMilestone{
			ProjectID: row.ProjectID,
			Name:      row.Name,
			Progress:  row.Progress,
			Completed: row.Completed,
			Order:     row.Position,
		})
	}
	return out, nil
}

// Seed inserts the given records. Intended for tests and local development;
// any empty slice is skipped.
func (s *Source) Seed(ctx context.Context, projects []source.RawProject, transactions []source.RawTransaction, milestones []source.RawMilestone) error {
	if len(projects) > 0 {
		rows := make([]projectRow, 0, len(projects))
		for _, raw := range projects {
			rows = append(rows, projectRowFromRaw(raw))
		}
		if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert projects: %w", err)
		}
	}
	if len(transactions) > 0 {
		rows := make([]transactionRow, 0, len(transactions))
		for _, raw := range transactions {
			rows = append(rows, transactionRow{
				ID:              raw.TransactionID,
				ReferenceNumber: raw.ReferenceNumber,
				ProjectID:       raw.ProjectID,
				Amount:          raw.Amount,
				Status:          raw.Status,
				Type:            raw.Type,
				CreatedAt:       raw.CreatedAt,
				PaidAt:          raw.PaidAt,
				DueDate:         raw.DueDate,
			})
		}
		if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert transactions: %w", err)
		}
	}
	if len(milestones) > 0 {
		rows := make([]milestoneRow, 0, len(milestones))
		for _, raw := range milestones {
			rows = append(rows, milestoneRow{
				ProjectID: raw.ProjectID,
				Name:      raw.Name,
				Progress:  raw.Progress,
				Completed: raw.Completed,
				Position:  raw.Order,
			})
		}
		if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert milestones: %w", err)
		}
	}
	return nil
}

func projectRowFromRaw(raw source.RawProject) projectRow {
	row := projectRow{
		ID:          raw.ID,
		ProjectName: raw.ProjectName,
		ClientName:  raw.ClientName,
		UserEmail:   raw.UserEmail,
		TotalValue:  raw.TotalValue,
		TotalPaid:   raw.TotalPaid,
		Status:      raw.Status,
		StartDate:   raw.StartDate,
		EndDate:     raw.EndDate,
	}
	if !raw.ConfirmedAt.IsZero() {
		confirmed := raw.ConfirmedAt
		row.ConfirmedAt = &confirmed
	}
	if raw.Location != nil {
		row.Address = raw.Location.FullAddress
		row.City = raw.Location.City
	}
	return row
}

func (r projectRow) toRaw() source.RawProject {
	raw := source.RawProject{
		ID:          r.ID,
		ProjectName: r.ProjectName,
		ClientName:  r.ClientName,
		UserEmail:   r.UserEmail,
		TotalValue:  r.TotalValue,
		TotalPaid:   r.TotalPaid,
		Status:      r.Status,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
	if r.ConfirmedAt != nil {
		raw.ConfirmedAt = *r.ConfirmedAt
	}
	if r.Address != "" {
		raw.Location = &source.RawLocation{FullAddress: r.Address, City: r.City}
	}
	return raw
}

package testsupport

import (
	"time"

	"github.com/google/uuid"

	"github.com/buildops/go-portfolio-cache/source"
)

// ProjectBuilder assembles a raw project record with sensible defaults.
// Every field has a setter so tests spell out only what they assert on.
type ProjectBuilder struct {
	raw source.RawProject
}

// NewProject starts a builder for a confirmed project with a generated ID.
func NewProject() *ProjectBuilder {
	value := int64(100_000)
	paid := int64(0)
	return &ProjectBuilder{raw: source.RawProject{
		ID:          uuid.NewString(),
		ProjectName: "Test Project",
		ClientName:  "Test Client",
		UserEmail:   "owner@example.test",
		TotalValue:  &value,
		TotalPaid:   &paid,
		Status:      "ongoing",
		ConfirmedAt: time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC),
	}}
}

func (b *ProjectBuilder) ID(id string) *ProjectBuilder {
	b.raw.ID = id
	return b
}

func (b *ProjectBuilder) Name(name string) *ProjectBuilder {
	b.raw.ProjectName = name
	return b
}

func (b *ProjectBuilder) Client(name string) *ProjectBuilder {
	b.raw.ClientName = name
	return b
}

func (b *ProjectBuilder) Status(status string) *ProjectBuilder {
	b.raw.Status = status
	return b
}

func (b *ProjectBuilder) Value(total, paid int64) *ProjectBuilder {
	b.raw.TotalValue = &total
	b.raw.TotalPaid = &paid
	return b
}

func (b *ProjectBuilder) Location(address, city string) *ProjectBuilder {
	b.raw.Location = &source.RawLocation{FullAddress: address, City: city}
	return b
}

func (b *ProjectBuilder) ConfirmedAt(at time.Time) *ProjectBuilder {
	b.raw.ConfirmedAt = at
	return b
}

// Unconfirmed clears the confirmation timestamp.
func (b *ProjectBuilder) Unconfirmed() *ProjectBuilder {
	b.raw.ConfirmedAt = time.Time{}
	return b
}

func (b *ProjectBuilder) Build() source.RawProject {
	return b.raw
}

// TransactionBuilder assembles a raw transaction record with generated
// transaction and reference identifiers.
type TransactionBuilder struct {
	raw source.RawTransaction
}

// NewTransaction starts a builder for a pending invoice on the given project.
func NewTransaction(projectID string) *TransactionBuilder {
	amount := int64(10_000)
	return &TransactionBuilder{raw: source.RawTransaction{
		TransactionID:   uuid.NewString(),
		ReferenceNumber: "REF-" + uuid.NewString()[:8],
		ProjectID:       projectID,
		Amount:          &amount,
		Status:          "pending",
		Type:            "invoice",
		CreatedAt:       time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC),
	}}
}

func (b *TransactionBuilder) ID(id string) *TransactionBuilder {
	b.raw.TransactionID = id
	return b
}

func (b *TransactionBuilder) Reference(ref string) *TransactionBuilder {
	b.raw.ReferenceNumber = ref
	return b
}

func (b *TransactionBuilder) Amount(amount int64) *TransactionBuilder {
	b.raw.Amount = &amount
	return b
}

func (b *TransactionBuilder) Status(status string) *TransactionBuilder {
	b.raw.Status = status
	return b
}

// Paid marks the transaction paid at the given time.
func (b *TransactionBuilder) Paid(at time.Time) *TransactionBuilder {
	b.raw.Status = "paid"
	b.raw.PaidAt = &at
	return b
}

func (b *TransactionBuilder) Build() source.RawTransaction {
	return b.raw
}

// Milestones assembles an ordered milestone list for a project from bare
// progress values.
func Milestones(projectID string, progress ...float64) []source.RawMilestone {
	out := make([]source.RawMilestone, 0, len(progress))
	for i, p := range progress {
		out = append(out, source.RawMilestone{
			ProjectID: projectID,
			Name:      "Milestone " + string(rune('A'+i)),
			Progress:  p,
			Completed: p >= 100,
			Order:     i + 1,
		})
	}
	return out
}

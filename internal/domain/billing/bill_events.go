package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/shared"
)

// BillIssuedEvent is raised when a bill is created from a reading
type BillIssuedEvent struct {
	shared.BaseDomainEvent
	BillID     uuid.UUID       `json:"bill_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	ReadingID  uuid.UUID       `json:"reading_id"`
	AmountDue  decimal.Decimal `json:"amount_due"`
	DueDate    time.Time       `json:"due_date"`
}

// EventType returns the event type name
func (e *BillIssuedEvent) EventType() string {
	return "BillIssued"
}

// NewBillIssuedEvent creates a new BillIssuedEvent
func NewBillIssuedEvent(b *Bill) *BillIssuedEvent {
	return &BillIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BillIssued", "Bill", b.ID),
		BillID:          b.ID,
		CustomerID:      b.CustomerID,
		ReadingID:       b.ReadingID,
		AmountDue:       b.AmountDue,
		DueDate:         b.DueDate,
	}
}

// BillRecomputedEvent is raised when a bill's amount due is re-derived
type BillRecomputedEvent struct {
	shared.BaseDomainEvent
	BillID     uuid.UUID       `json:"bill_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	AmountDue  decimal.Decimal `json:"amount_due"`
}

// EventType returns the event type name
func (e *BillRecomputedEvent) EventType() string {
	return "BillRecomputed"
}

// NewBillRecomputedEvent creates a new BillRecomputedEvent
func NewBillRecomputedEvent(b *Bill) *BillRecomputedEvent {
	return &BillRecomputedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BillRecomputed", "Bill", b.ID),
		BillID:          b.ID,
		CustomerID:      b.CustomerID,
		AmountDue:       b.AmountDue,
	}
}

// BillPaidEvent is raised when a bill's payments cover its amount due
type BillPaidEvent struct {
	shared.BaseDomainEvent
	BillID     uuid.UUID       `json:"bill_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	AmountDue  decimal.Decimal `json:"amount_due"`
}

// EventType returns the event type name
func (e *BillPaidEvent) EventType() string {
	return "BillPaid"
}

// NewBillPaidEvent creates a new BillPaidEvent
func NewBillPaidEvent(b *Bill) *BillPaidEvent {
	return &BillPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BillPaid", "Bill", b.ID),
		BillID:          b.ID,
		CustomerID:      b.CustomerID,
		AmountDue:       b.AmountDue,
	}
}

// BillReopenedEvent is raised when a paid bill falls back to unpaid,
// for example after a payment is deleted or the bill is repriced
type BillReopenedEvent struct {
	shared.BaseDomainEvent
	BillID     uuid.UUID       `json:"bill_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	AmountDue  decimal.Decimal `json:"amount_due"`
}

// EventType returns the event type name
func (e *BillReopenedEvent) EventType() string {
	return "BillReopened"
}

// NewBillReopenedEvent creates a new BillReopenedEvent
func NewBillReopenedEvent(b *Bill) *BillReopenedEvent {
	return &BillReopenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BillReopened", "Bill", b.ID),
		BillID:          b.ID,
		CustomerID:      b.CustomerID,
		AmountDue:       b.AmountDue,
	}
}

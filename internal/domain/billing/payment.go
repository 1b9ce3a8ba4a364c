package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/shared"
)

// Payment is an amount received against a bill, identified by a globally
// unique reference number.
type Payment struct {
	shared.BaseAggregateRoot
	BillID          uuid.UUID
	Amount          decimal.Decimal
	PaymentDate     time.Time
	ReferenceNumber string
}

// NewPayment creates a new payment against a bill
func NewPayment(billID uuid.UUID, amount decimal.Decimal, paymentDate time.Time, referenceNumber string) (*Payment, error) {
	referenceNumber = strings.TrimSpace(referenceNumber)
	if billID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payment must belong to a bill")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payment amount must be positive")
	}
	if referenceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payment reference number cannot be empty")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}
	p := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BillID:            billID,
		Amount:            amount,
		PaymentDate:       paymentDate,
		ReferenceNumber:   referenceNumber,
	}
	p.AddDomainEvent(NewPaymentAppliedEvent(p))
	return p, nil
}

// SetAmount replaces the payment amount
func (p *Payment) SetAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Payment amount must be positive")
	}
	p.Amount = amount
	return nil
}

// Reverse marks the payment as withdrawn before deletion. The bill's
// status is re-derived by the cascade afterwards.
func (p *Payment) Reverse() {
	p.AddDomainEvent(NewPaymentReversedEvent(p))
}

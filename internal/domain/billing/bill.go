package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/shared"
)

// DefaultDueDays is the default number of days between issue and due date
const DefaultDueDays = 7

// Bill charges a customer for the consumption of exactly one reading.
//
// AmountDue and IsPaid are derived but persisted. A bill has no terminal
// state: payments, payment reversals and tariff changes can move it between
// paid and unpaid for its entire lifetime.
type Bill struct {
	shared.BaseAggregateRoot
	CustomerID uuid.UUID
	ReadingID  uuid.UUID
	IssueDate  time.Time
	DueDate    time.Time
	// PreviousBalance is the customer's outstanding balance folded into
	// this bill's charge when it was computed. It is kept on the bill so
	// a rate change can reprice every unpaid bill independently, in any
	// order, without the repricings feeding into each other's balances.
	PreviousBalance decimal.Decimal
	AmountDue       decimal.Decimal
	IsPaid          bool
}

// ComputeAmountDue is the billing formula: the charge for the consumed
// units at the given rate, less the customer's outstanding balance from
// all other bills. A negative previous balance (overpayment) increases the
// charge; a positive one reduces it, possibly below zero.
func ComputeAmountDue(units, rate, previousBalance decimal.Decimal) decimal.Decimal {
	return units.Mul(rate).Sub(previousBalance).Round(2)
}

// NewBillFromReading issues a bill for a reading whose units have been
// computed. previousBalance is the customer's balance excluding this bill,
// which does not exist yet.
func NewBillFromReading(reading *MeterReading, customerID uuid.UUID, rate, previousBalance decimal.Decimal, dueDays int) (*Bill, error) {
	if !reading.HasUnits() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot bill a reading before its units are computed")
	}
	if dueDays <= 0 {
		dueDays = DefaultDueDays
	}
	issueDate := DateOf(time.Now())
	b := &Bill{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		ReadingID:         reading.ID,
		IssueDate:         issueDate,
		DueDate:           issueDate.AddDate(0, 0, dueDays),
		PreviousBalance:   previousBalance,
		AmountDue:         ComputeAmountDue(reading.Units(), rate, previousBalance),
	}
	b.AddDomainEvent(NewBillIssuedEvent(b))
	return b, nil
}

// Reprice recomputes the amount due from fresh source values, capturing
// the newly resolved previous balance. Used when the reading's value
// changes.
func (b *Bill) Reprice(units, rate, previousBalance decimal.Decimal) {
	b.PreviousBalance = previousBalance
	b.AmountDue = ComputeAmountDue(units, rate, previousBalance)
	b.AddDomainEvent(NewBillRecomputedEvent(b))
}

// RepriceAtRate recomputes the amount due at a new rate while keeping the
// balance adjustment the bill was issued with. Used by the tariff cascade
// so unpaid bills can be repriced independently of one another.
func (b *Bill) RepriceAtRate(units, rate decimal.Decimal) {
	b.AmountDue = ComputeAmountDue(units, rate, b.PreviousBalance)
	b.AddDomainEvent(NewBillRecomputedEvent(b))
}

// UpdateStatus derives the paid flag from the sum of the bill's payments.
// An amount due of zero or less is satisfied by any non-negative payment
// total. Returns true when the flag flipped.
func (b *Bill) UpdateStatus(totalPaid decimal.Decimal) bool {
	paid := totalPaid.GreaterThanOrEqual(b.AmountDue)
	if paid == b.IsPaid {
		return false
	}
	b.IsPaid = paid
	if paid {
		b.AddDomainEvent(NewBillPaidEvent(b))
	} else {
		b.AddDomainEvent(NewBillReopenedEvent(b))
	}
	return true
}

package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/shared"
)

// BillEngine owns the bill lifecycle: creation from a reading, repricing,
// and paid/unpaid status derivation. Its methods run on the repositories
// of the cascade's current transaction, so either a fully computed bill is
// committed or nothing is.
type BillEngine struct {
	dueDays int
}

// NewBillEngine creates a new BillEngine. dueDays is the offset between a
// bill's issue and due dates.
func NewBillEngine(dueDays int) *BillEngine {
	if dueDays <= 0 {
		dueDays = billing.DefaultDueDays
	}
	return &BillEngine{dueDays: dueDays}
}

// ensureUnits derives and persists the reading's consumption when it is
// still unset.
func (e *BillEngine) ensureUnits(ctx context.Context, repos Repositories, reading *billing.MeterReading) error {
	if reading.HasUnits() {
		return nil
	}
	prev, err := repos.Readings().FindPredecessor(ctx, reading.MeterID, reading.ReadingDate, reading.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("failed to load predecessor reading: %w", err)
	}
	reading.ComputeUnits(prev)
	if err := repos.Readings().Save(ctx, reading); err != nil {
		return fmt.Errorf("failed to save computed units: %w", err)
	}
	return nil
}

// CreateFromReading issues a bill for a reading that has none. The
// reading's units are computed first when still unset; the effective rate
// is resolved once and the customer's outstanding balance is folded into
// the new amount due. Fails with ErrNoTariffDefined when no tariff exists.
func (e *BillEngine) CreateFromReading(ctx context.Context, repos Repositories, reading *billing.MeterReading) (*billing.Bill, error) {
	if _, err := repos.Bills().FindByReading(ctx, reading.ID); err == nil {
		return nil, billing.ErrBillExistsForReading
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing bill: %w", err)
	}

	if err := e.ensureUnits(ctx, repos, reading); err != nil {
		return nil, err
	}

	tariff, err := repos.Tariffs().FindEffective(ctx)
	if err != nil {
		return nil, err
	}

	meter, err := repos.Meters().FindByID(ctx, reading.MeterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load meter: %w", err)
	}

	// The new bill does not exist yet, so the previous balance excludes
	// it by construction.
	previousBalance, err := balanceOf(ctx, repos, meter.CustomerID, nil)
	if err != nil {
		return nil, err
	}

	bill, err := billing.NewBillFromReading(reading, meter.CustomerID, tariff.RatePerUnit, previousBalance, e.dueDays)
	if err != nil {
		return nil, err
	}
	// Derive the paid flag immediately: a zero or negative amount due is
	// already covered.
	bill.UpdateStatus(decimal.Zero)

	if err := repos.Bills().Save(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}
	return bill, nil
}

// Recompute re-derives a bill's amount due from current source rows (the
// reading's units, the effective rate and the customer's balance excluding
// this bill) and then re-derives its status. Recomputation always starts
// from scratch, never from the previous amount.
func (e *BillEngine) Recompute(ctx context.Context, repos Repositories, bill *billing.Bill) error {
	reading, err := repos.Readings().FindByID(ctx, bill.ReadingID)
	if err != nil {
		return fmt.Errorf("failed to load reading for bill: %w", err)
	}
	if err := e.ensureUnits(ctx, repos, reading); err != nil {
		return err
	}

	tariff, err := repos.Tariffs().FindEffective(ctx)
	if err != nil {
		return err
	}

	previousBalance, err := balanceOf(ctx, repos, bill.CustomerID, &bill.ID)
	if err != nil {
		return err
	}

	bill.Reprice(reading.Units(), tariff.RatePerUnit, previousBalance)
	if err := repos.Bills().Save(ctx, bill); err != nil {
		return fmt.Errorf("failed to save repriced bill: %w", err)
	}
	return e.UpdateStatus(ctx, repos, bill)
}

// RepriceAtCurrentRate re-derives a bill's amount due at the effective
// rate while keeping the balance adjustment it was issued with, then
// re-derives its status. Used by the tariff cascade, where every unpaid
// bill must be repriceable independently of the others.
func (e *BillEngine) RepriceAtCurrentRate(ctx context.Context, repos Repositories, bill *billing.Bill, rate decimal.Decimal) error {
	reading, err := repos.Readings().FindByID(ctx, bill.ReadingID)
	if err != nil {
		return fmt.Errorf("failed to load reading for bill: %w", err)
	}
	if err := e.ensureUnits(ctx, repos, reading); err != nil {
		return err
	}

	bill.RepriceAtRate(reading.Units(), rate)
	if err := repos.Bills().Save(ctx, bill); err != nil {
		return fmt.Errorf("failed to save repriced bill: %w", err)
	}
	return e.UpdateStatus(ctx, repos, bill)
}

// UpdateStatus re-derives the paid flag from the sum of the bill's
// payments and persists it when it changed.
func (e *BillEngine) UpdateStatus(ctx context.Context, repos Repositories, bill *billing.Bill) error {
	totalPaid, err := repos.Payments().SumByBill(ctx, bill.ID)
	if err != nil {
		return fmt.Errorf("failed to sum payments for bill: %w", err)
	}
	if bill.UpdateStatus(totalPaid) {
		if err := repos.Bills().Save(ctx, bill); err != nil {
			return fmt.Errorf("failed to save bill status: %w", err)
		}
	}
	return nil
}

// AmountDue recomputes a bill's amount due without persisting anything.
// Used for previews before committing a bill edit.
func (e *BillEngine) AmountDue(ctx context.Context, repos Repositories, bill *billing.Bill) (decimal.Decimal, error) {
	reading, err := repos.Readings().FindByID(ctx, bill.ReadingID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load reading for bill: %w", err)
	}
	if !reading.HasUnits() {
		prev, err := repos.Readings().FindPredecessor(ctx, reading.MeterID, reading.ReadingDate, reading.ID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("failed to load predecessor reading: %w", err)
		}
		reading.ComputeUnits(prev)
	}

	tariff, err := repos.Tariffs().FindEffective(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	previousBalance, err := balanceOf(ctx, repos, bill.CustomerID, &bill.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return billing.ComputeAmountDue(reading.Units(), tariff.RatePerUnit, previousBalance), nil
}

package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/infrastructure/telemetry"
)

// balanceOf computes a customer's outstanding balance from the given
// repositories: billed total minus paid total, each defaulting to zero,
// rounded to two places. Positive means the customer owes money. When
// exclude is set, that bill and its payments are left out, which yields
// the "previous balance" folded into a bill being (re)computed.
//
// The balance is always derived from source rows on the caller's
// transactional snapshot; it is never cached or stored.
func balanceOf(ctx context.Context, repos Repositories, customerID uuid.UUID, exclude *uuid.UUID) (decimal.Decimal, error) {
	billed, err := repos.Bills().SumAmountDueByCustomer(ctx, customerID, exclude)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum billed amounts: %w", err)
	}
	paid, err := repos.Payments().SumByCustomerBills(ctx, customerID, exclude)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
	}
	return billed.Sub(paid).Round(2), nil
}

// BalanceService exposes balance aggregation to callers outside a cascade
type BalanceService struct {
	bills    billing.BillRepository
	payments billing.PaymentRepository
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(bills billing.BillRepository, payments billing.PaymentRepository) *BalanceService {
	return &BalanceService{bills: bills, payments: payments}
}

// CustomerBalance returns a customer's outstanding balance
func (s *BalanceService) CustomerBalance(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "balance", "customer_balance")
	defer span.End()

	billed, err := s.bills.SumAmountDueByCustomer(ctx, customerID, nil)
	if err != nil {
		telemetry.RecordError(span, err)
		return decimal.Zero, fmt.Errorf("failed to sum billed amounts: %w", err)
	}
	paid, err := s.payments.SumByCustomerBills(ctx, customerID, nil)
	if err != nil {
		telemetry.RecordError(span, err)
		return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
	}
	return billed.Sub(paid).Round(2), nil
}

// TotalOutstanding returns the outstanding balance across all customers
func (s *BalanceService) TotalOutstanding(ctx context.Context) (decimal.Decimal, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "balance", "total_outstanding")
	defer span.End()

	billed, err := s.bills.SumAmountDue(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return decimal.Zero, fmt.Errorf("failed to sum billed amounts: %w", err)
	}
	paid, err := s.payments.SumAll(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
	}
	return billed.Sub(paid).Round(2), nil
}

package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/shared"
	"github.com/waterworks/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CascadeService routes domain mutations to the recomputations that keep
// derived state consistent: units consumed, bill amounts, paid flags and
// customer balances. Each event runs inside one transaction; when it
// fails, nothing of the event is committed.
//
// Re-running an event with unchanged input converges to the same derived
// values: everything is recomputed from source rows, never incremented.
type CascadeService struct {
	scope     TransactionScope
	engine    *BillEngine
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewCascadeService creates a new CascadeService. publisher may be nil
// when no event consumers are wired.
func NewCascadeService(scope TransactionScope, engine *BillEngine, publisher shared.EventPublisher, logger *zap.Logger) *CascadeService {
	return &CascadeService{
		scope:     scope,
		engine:    engine,
		publisher: publisher,
		logger:    logger,
	}
}

// drain moves pending domain events off the given aggregates
func drain(events []shared.DomainEvent, roots ...shared.AggregateRoot) []shared.DomainEvent {
	for _, root := range roots {
		if root == nil {
			continue
		}
		events = append(events, root.GetDomainEvents()...)
		root.ClearDomainEvents()
	}
	return events
}

// publish sends events collected during a committed cascade. Publishing
// happens after the transaction, and a failing consumer never fails the
// cascade.
func (s *CascadeService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish cascade events",
			zap.Int("count", len(events)),
			zap.Error(err),
		)
	}
}

// OnReadingSaved persists a created or edited reading and cascades:
// units are recomputed from the predecessor, then the attached bill is
// created or repriced. Submitting an unchanged reading twice yields
// identical derived values.
func (s *CascadeService) OnReadingSaved(ctx context.Context, reading *billing.MeterReading, isNew bool) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "cascade", "reading_saved")
	defer span.End()
	telemetry.SetAttribute(span, "reading_id", reading.ID.String())

	var events []shared.DomainEvent
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		if err := repos.Readings().Save(ctx, reading); err != nil {
			return err
		}

		prev, err := repos.Readings().FindPredecessor(ctx, reading.MeterID, reading.ReadingDate, reading.ID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("failed to load predecessor reading: %w", err)
		}
		reading.ComputeUnits(prev)
		if err := repos.Readings().Save(ctx, reading); err != nil {
			return fmt.Errorf("failed to save computed units: %w", err)
		}

		bill, err := repos.Bills().FindByReading(ctx, reading.ID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			bill, err = s.engine.CreateFromReading(ctx, repos, reading)
			if err != nil {
				return err
			}
		case err != nil:
			return fmt.Errorf("failed to load bill for reading: %w", err)
		default:
			if err := s.engine.Recompute(ctx, repos, bill); err != nil {
				return err
			}
		}

		events = drain(events, reading, bill)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.publish(ctx, events)
	s.logger.Info("reading cascade completed",
		zap.String("reading_id", reading.ID.String()),
		zap.Bool("is_new", isNew),
	)
	return nil
}

// OnReadingDeleted removes a reading together with its attached bill and
// that bill's payments. A reading without a bill is not an error.
func (s *CascadeService) OnReadingDeleted(ctx context.Context, reading *billing.MeterReading) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "cascade", "reading_deleted")
	defer span.End()
	telemetry.SetAttribute(span, "reading_id", reading.ID.String())

	err := s.scope.Execute(ctx, func(repos Repositories) error {
		bill, err := repos.Bills().FindByReading(ctx, reading.ID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			// nothing to cascade
		case err != nil:
			return fmt.Errorf("failed to load bill for reading: %w", err)
		default:
			if err := repos.Bills().Delete(ctx, bill.ID); err != nil {
				return fmt.Errorf("failed to delete bill: %w", err)
			}
		}
		return repos.Readings().Delete(ctx, reading.ID)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.logger.Info("reading deleted", zap.String("reading_id", reading.ID.String()))
	return nil
}

// OnPaymentSaved persists a created or edited payment and re-derives the
// status of the affected bill, or bills when the payment moved between
// bills. The bills are row-locked so concurrent payments serialize their
// status updates.
func (s *CascadeService) OnPaymentSaved(ctx context.Context, payment *billing.Payment, isNew bool) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "cascade", "payment_saved")
	defer span.End()
	telemetry.SetAttribute(span, "payment_id", payment.ID.String())

	var events []shared.DomainEvent
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		var previousBillID *uuid.UUID
		if !isNew {
			existing, err := repos.Payments().FindByID(ctx, payment.ID)
			if err != nil {
				return fmt.Errorf("failed to load payment: %w", err)
			}
			if existing.BillID != payment.BillID {
				previousBillID = &existing.BillID
			}
		}

		if err := repos.Payments().Save(ctx, payment); err != nil {
			return err
		}

		bill, err := repos.Bills().FindByIDForUpdate(ctx, payment.BillID)
		if err != nil {
			return fmt.Errorf("failed to lock bill: %w", err)
		}
		if err := s.engine.UpdateStatus(ctx, repos, bill); err != nil {
			return err
		}
		events = drain(events, payment, bill)

		if previousBillID != nil {
			previous, err := repos.Bills().FindByIDForUpdate(ctx, *previousBillID)
			switch {
			case errors.Is(err, shared.ErrNotFound):
				return nil
			case err != nil:
				return fmt.Errorf("failed to lock previous bill: %w", err)
			}
			if err := s.engine.UpdateStatus(ctx, repos, previous); err != nil {
				return err
			}
			events = drain(events, previous)
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.publish(ctx, events)
	s.logger.Info("payment cascade completed",
		zap.String("payment_id", payment.ID.String()),
		zap.Bool("is_new", isNew),
	)
	return nil
}

// OnPaymentDeleted removes a payment and re-derives the status of the
// bill it belonged to; the bill may flip from paid back to unpaid. A bill
// that no longer exists is a no-op.
func (s *CascadeService) OnPaymentDeleted(ctx context.Context, payment *billing.Payment) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "cascade", "payment_deleted")
	defer span.End()
	telemetry.SetAttribute(span, "payment_id", payment.ID.String())

	var events []shared.DomainEvent
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		payment.Reverse()
		if err := repos.Payments().Delete(ctx, payment.ID); err != nil {
			return fmt.Errorf("failed to delete payment: %w", err)
		}

		bill, err := repos.Bills().FindByIDForUpdate(ctx, payment.BillID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			events = drain(events, payment)
			return nil
		case err != nil:
			return fmt.Errorf("failed to lock bill: %w", err)
		}
		if err := s.engine.UpdateStatus(ctx, repos, bill); err != nil {
			return err
		}
		events = drain(events, payment, bill)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.publish(ctx, events)
	s.logger.Info("payment deleted", zap.String("payment_id", payment.ID.String()))
	return nil
}

// OnTariffCreated persists a new tariff and reprices every bill that is
// currently unpaid with the now-effective rate. Paid bills are never
// touched retroactively.
func (s *CascadeService) OnTariffCreated(ctx context.Context, tariff *billing.Tariff) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "cascade", "tariff_created")
	defer span.End()
	telemetry.SetAttribute(span, "tariff_id", tariff.ID.String())

	var events []shared.DomainEvent
	var repriced int
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		if err := repos.Tariffs().Save(ctx, tariff); err != nil {
			return fmt.Errorf("failed to save tariff: %w", err)
		}

		effective, err := repos.Tariffs().FindEffective(ctx)
		if err != nil {
			return err
		}

		unpaid, err := repos.Bills().FindUnpaid(ctx)
		if err != nil {
			return fmt.Errorf("failed to load unpaid bills: %w", err)
		}
		for i := range unpaid {
			bill := &unpaid[i]
			if err := s.engine.RepriceAtCurrentRate(ctx, repos, bill, effective.RatePerUnit); err != nil {
				return err
			}
			events = drain(events, bill)
		}
		repriced = len(unpaid)
		events = drain(events, tariff)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.publish(ctx, events)
	s.logger.Info("tariff cascade completed",
		zap.String("tariff_id", tariff.ID.String()),
		zap.Int("bills_repriced", repriced),
	)
	return nil
}

// PreviewAmountDue recomputes what a bill's amount due would be under the
// current rate and balance, without persisting anything.
func (s *CascadeService) PreviewAmountDue(ctx context.Context, billID uuid.UUID) (decimal.Decimal, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cascade", "preview_amount_due")
	defer span.End()

	var amount decimal.Decimal
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		bill, err := repos.Bills().FindByID(ctx, billID)
		if err != nil {
			return err
		}
		amount, err = s.engine.AmountDue(ctx, repos, bill)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return decimal.Zero, err
	}
	return amount, nil
}

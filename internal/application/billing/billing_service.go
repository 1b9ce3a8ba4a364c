package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/infrastructure/telemetry"
)

// BillingService is the write-side facade over the cascade: it turns API
// requests into domain aggregates and hands them to the CascadeService,
// which owns the transactional recomputation. Reads go straight to the
// repositories.
type BillingService struct {
	cascade  *CascadeService
	readings billing.MeterReadingRepository
	tariffs  billing.TariffRepository
	bills    billing.BillRepository
	payments billing.PaymentRepository
}

// NewBillingService creates a new BillingService
func NewBillingService(
	cascade *CascadeService,
	readings billing.MeterReadingRepository,
	tariffs billing.TariffRepository,
	bills billing.BillRepository,
	payments billing.PaymentRepository,
) *BillingService {
	return &BillingService{
		cascade:  cascade,
		readings: readings,
		tariffs:  tariffs,
		bills:    bills,
		payments: payments,
	}
}

// =============================================================================
// Readings
// =============================================================================

// SubmitReading records a new meter reading and runs the billing cascade:
// units are derived and a bill is issued in the same transaction.
func (s *BillingService) SubmitReading(ctx context.Context, req CreateReadingRequest) (*ReadingResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "submit_reading")
	defer span.End()

	reading, err := billing.NewMeterReading(req.MeterID, req.ReadingDate, req.Value)
	if err != nil {
		return nil, err
	}
	if err := s.cascade.OnReadingSaved(ctx, reading, true); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := ToReadingResponse(reading)
	return &resp, nil
}

// CorrectReading changes the value of an existing reading and re-derives
// everything downstream of it.
func (s *BillingService) CorrectReading(ctx context.Context, readingID uuid.UUID, req UpdateReadingRequest) (*ReadingResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "correct_reading")
	defer span.End()

	reading, err := s.readings.FindByID(ctx, readingID)
	if err != nil {
		return nil, err
	}
	if err := reading.SetValue(req.Value); err != nil {
		return nil, err
	}
	if err := s.cascade.OnReadingSaved(ctx, reading, false); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := ToReadingResponse(reading)
	return &resp, nil
}

// DeleteReading removes a reading, its bill and that bill's payments
func (s *BillingService) DeleteReading(ctx context.Context, readingID uuid.UUID) error {
	reading, err := s.readings.FindByID(ctx, readingID)
	if err != nil {
		return err
	}
	return s.cascade.OnReadingDeleted(ctx, reading)
}

// GetReading retrieves a single reading
func (s *BillingService) GetReading(ctx context.Context, readingID uuid.UUID) (*ReadingResponse, error) {
	reading, err := s.readings.FindByID(ctx, readingID)
	if err != nil {
		return nil, err
	}
	resp := ToReadingResponse(reading)
	return &resp, nil
}

// ListReadingsByMeter retrieves a meter's readings in date order
func (s *BillingService) ListReadingsByMeter(ctx context.Context, meterID uuid.UUID) ([]ReadingResponse, error) {
	readings, err := s.readings.FindByMeter(ctx, meterID)
	if err != nil {
		return nil, err
	}
	responses := make([]ReadingResponse, 0, len(readings))
	for i := range readings {
		responses = append(responses, ToReadingResponse(&readings[i]))
	}
	return responses, nil
}

// =============================================================================
// Tariffs
// =============================================================================

// CreateTariff records a new tariff and reprices all unpaid bills
func (s *BillingService) CreateTariff(ctx context.Context, req CreateTariffRequest) (*TariffResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "create_tariff")
	defer span.End()

	tariff, err := billing.NewTariff(req.EffectiveDate, req.RatePerUnit)
	if err != nil {
		return nil, err
	}
	if err := s.cascade.OnTariffCreated(ctx, tariff); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := ToTariffResponse(tariff)
	return &resp, nil
}

// ListTariffs retrieves all tariffs
func (s *BillingService) ListTariffs(ctx context.Context) ([]TariffResponse, error) {
	tariffs, err := s.tariffs.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]TariffResponse, 0, len(tariffs))
	for i := range tariffs {
		responses = append(responses, ToTariffResponse(&tariffs[i]))
	}
	return responses, nil
}

// EffectiveTariff retrieves the tariff currently governing computations
func (s *BillingService) EffectiveTariff(ctx context.Context) (*TariffResponse, error) {
	tariff, err := s.tariffs.FindEffective(ctx)
	if err != nil {
		return nil, err
	}
	resp := ToTariffResponse(tariff)
	return &resp, nil
}

// =============================================================================
// Bills
// =============================================================================

// GetBill retrieves a single bill
func (s *BillingService) GetBill(ctx context.Context, billID uuid.UUID) (*BillResponse, error) {
	bill, err := s.bills.FindByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	resp := ToBillResponse(bill)
	return &resp, nil
}

// ListBillsByCustomer retrieves a customer's bills
func (s *BillingService) ListBillsByCustomer(ctx context.Context, customerID uuid.UUID) ([]BillResponse, error) {
	bills, err := s.bills.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	responses := make([]BillResponse, 0, len(bills))
	for i := range bills {
		responses = append(responses, ToBillResponse(&bills[i]))
	}
	return responses, nil
}

// PreviewBillAmountDue recomputes a bill's amount due without persisting
func (s *BillingService) PreviewBillAmountDue(ctx context.Context, billID uuid.UUID) (*AmountDuePreviewResponse, error) {
	amount, err := s.cascade.PreviewAmountDue(ctx, billID)
	if err != nil {
		return nil, err
	}
	return &AmountDuePreviewResponse{BillID: billID, AmountDue: amount}, nil
}

// =============================================================================
// Payments
// =============================================================================

// ApplyPayment records a payment against a bill and re-derives the bill's
// paid status in the same transaction.
func (s *BillingService) ApplyPayment(ctx context.Context, req CreatePaymentRequest) (*PaymentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "apply_payment")
	defer span.End()

	if _, err := s.bills.FindByID(ctx, req.BillID); err != nil {
		return nil, err
	}
	payment, err := billing.NewPayment(req.BillID, req.Amount, req.PaymentDate, req.ReferenceNumber)
	if err != nil {
		return nil, err
	}
	if err := s.cascade.OnPaymentSaved(ctx, payment, true); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := ToPaymentResponse(payment)
	return &resp, nil
}

// CorrectPayment edits a payment's amount or moves it to another bill;
// every affected bill has its paid status re-derived.
func (s *BillingService) CorrectPayment(ctx context.Context, paymentID uuid.UUID, req UpdatePaymentRequest) (*PaymentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "correct_payment")
	defer span.End()

	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if req.Amount != nil {
		if err := payment.SetAmount(*req.Amount); err != nil {
			return nil, err
		}
	}
	if req.BillID != nil && *req.BillID != payment.BillID {
		if _, err := s.bills.FindByID(ctx, *req.BillID); err != nil {
			return nil, err
		}
		payment.BillID = *req.BillID
	}
	if err := s.cascade.OnPaymentSaved(ctx, payment, false); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := ToPaymentResponse(payment)
	return &resp, nil
}

// DeletePayment removes a payment; its bill may reopen as unpaid
func (s *BillingService) DeletePayment(ctx context.Context, paymentID uuid.UUID) error {
	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return err
	}
	return s.cascade.OnPaymentDeleted(ctx, payment)
}

// ListPaymentsByBill retrieves the payments applied to a bill
func (s *BillingService) ListPaymentsByBill(ctx context.Context, billID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.payments.FindByBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	responses := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, ToPaymentResponse(&payments[i]))
	}
	return responses, nil
}

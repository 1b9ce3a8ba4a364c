package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/billing"
)

// =============================================================================
// Customer DTOs
// =============================================================================

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=200"`
	AccountNumber string `json:"account_number" binding:"required,min=1,max=50"`
	Address       string `json:"address" binding:"max=500"`
	Phone         string `json:"phone" binding:"max=50"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
}

// CustomerResponse represents a customer in API responses. Balance is
// derived at read time, never stored.
type CustomerResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	AccountNumber string          `json:"account_number"`
	Address       string          `json:"address"`
	Phone         string          `json:"phone"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToCustomerResponse converts a customer and its derived balance
func ToCustomerResponse(c *billing.Customer, balance decimal.Decimal) CustomerResponse {
	return CustomerResponse{
		ID:            c.ID,
		Name:          c.Name,
		AccountNumber: c.AccountNumber,
		Address:       c.Address,
		Phone:         c.Phone,
		Balance:       balance,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// =============================================================================
// Meter DTOs
// =============================================================================

// RegisterMeterRequest represents a request to register a customer's meter
type RegisterMeterRequest struct {
	CustomerID       uuid.UUID `json:"customer_id" binding:"required"`
	SerialNumber     string    `json:"serial_number" binding:"required,min=1,max=100"`
	InstallationDate time.Time `json:"installation_date" binding:"required"`
}

// MeterResponse represents a meter in API responses
type MeterResponse struct {
	ID               uuid.UUID `json:"id"`
	CustomerID       uuid.UUID `json:"customer_id"`
	SerialNumber     string    `json:"serial_number"`
	InstallationDate time.Time `json:"installation_date"`
	CreatedAt        time.Time `json:"created_at"`
}

// ToMeterResponse converts a meter to its API representation
func ToMeterResponse(m *billing.Meter) MeterResponse {
	return MeterResponse{
		ID:               m.ID,
		CustomerID:       m.CustomerID,
		SerialNumber:     m.SerialNumber,
		InstallationDate: m.InstallationDate,
		CreatedAt:        m.CreatedAt,
	}
}

// =============================================================================
// Reading DTOs
// =============================================================================

// CreateReadingRequest represents a newly submitted meter reading
type CreateReadingRequest struct {
	MeterID     uuid.UUID       `json:"meter_id" binding:"required"`
	ReadingDate time.Time       `json:"reading_date" binding:"required"`
	Value       decimal.Decimal `json:"value" binding:"required"`
}

// UpdateReadingRequest represents an edit to an existing reading
type UpdateReadingRequest struct {
	Value decimal.Decimal `json:"value" binding:"required"`
}

// ReadingResponse represents a reading in API responses
type ReadingResponse struct {
	ID            uuid.UUID        `json:"id"`
	MeterID       uuid.UUID        `json:"meter_id"`
	ReadingDate   time.Time        `json:"reading_date"`
	Value         decimal.Decimal  `json:"value"`
	UnitsConsumed *decimal.Decimal `json:"units_consumed"`
	CreatedAt     time.Time        `json:"created_at"`
}

// ToReadingResponse converts a reading to its API representation
func ToReadingResponse(r *billing.MeterReading) ReadingResponse {
	resp := ReadingResponse{
		ID:          r.ID,
		MeterID:     r.MeterID,
		ReadingDate: r.ReadingDate,
		Value:       r.Value,
		CreatedAt:   r.CreatedAt,
	}
	if r.HasUnits() {
		units := r.Units()
		resp.UnitsConsumed = &units
	}
	return resp
}

// =============================================================================
// Tariff DTOs
// =============================================================================

// CreateTariffRequest represents a request to create a new tariff
type CreateTariffRequest struct {
	EffectiveDate time.Time       `json:"effective_date" binding:"required"`
	RatePerUnit   decimal.Decimal `json:"rate_per_unit" binding:"required"`
}

// TariffResponse represents a tariff in API responses
type TariffResponse struct {
	ID            uuid.UUID       `json:"id"`
	EffectiveDate time.Time       `json:"effective_date"`
	RatePerUnit   decimal.Decimal `json:"rate_per_unit"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToTariffResponse converts a tariff to its API representation
func ToTariffResponse(t *billing.Tariff) TariffResponse {
	return TariffResponse{
		ID:            t.ID,
		EffectiveDate: t.EffectiveDate,
		RatePerUnit:   t.RatePerUnit,
		CreatedAt:     t.CreatedAt,
	}
}

// =============================================================================
// Bill DTOs
// =============================================================================

// BillResponse represents a bill in API responses
type BillResponse struct {
	ID         uuid.UUID       `json:"id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	ReadingID  uuid.UUID       `json:"reading_id"`
	IssueDate  time.Time       `json:"issue_date"`
	DueDate    time.Time       `json:"due_date"`
	AmountDue  decimal.Decimal `json:"amount_due"`
	IsPaid     bool            `json:"is_paid"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToBillResponse converts a bill to its API representation
func ToBillResponse(b *billing.Bill) BillResponse {
	return BillResponse{
		ID:         b.ID,
		CustomerID: b.CustomerID,
		ReadingID:  b.ReadingID,
		IssueDate:  b.IssueDate,
		DueDate:    b.DueDate,
		AmountDue:  b.AmountDue,
		IsPaid:     b.IsPaid,
		CreatedAt:  b.CreatedAt,
	}
}

// AmountDuePreviewResponse is the dry-run recomputation of a bill's amount
type AmountDuePreviewResponse struct {
	BillID    uuid.UUID       `json:"bill_id"`
	AmountDue decimal.Decimal `json:"amount_due"`
}

// =============================================================================
// Payment DTOs
// =============================================================================

// CreatePaymentRequest represents a payment applied to a bill
type CreatePaymentRequest struct {
	BillID          uuid.UUID       `json:"bill_id" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate     time.Time       `json:"payment_date" binding:"required"`
	ReferenceNumber string          `json:"reference_number" binding:"required,min=1,max=100"`
}

// UpdatePaymentRequest represents an edit to an existing payment. BillID
// may move the payment to another bill; both bills are then re-derived.
type UpdatePaymentRequest struct {
	BillID *uuid.UUID       `json:"bill_id"`
	Amount *decimal.Decimal `json:"amount"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID              uuid.UUID       `json:"id"`
	BillID          uuid.UUID       `json:"bill_id"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     time.Time       `json:"payment_date"`
	ReferenceNumber string          `json:"reference_number"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToPaymentResponse converts a payment to its API representation
func ToPaymentResponse(p *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:              p.ID,
		BillID:          p.BillID,
		Amount:          p.Amount,
		PaymentDate:     p.PaymentDate,
		ReferenceNumber: p.ReferenceNumber,
		CreatedAt:       p.CreatedAt,
	}
}

// =============================================================================
// Notification and dashboard DTOs
// =============================================================================

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Message    string    `json:"message"`
	IsSent     bool      `json:"is_sent"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToNotificationResponse converts a notification to its API representation
func ToNotificationResponse(n *billing.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		CustomerID: n.CustomerID,
		Message:    n.Message,
		IsSent:     n.IsSent,
		CreatedAt:  n.CreatedAt,
	}
}

// DashboardResponse summarizes the state of the ledger for the overview page
type DashboardResponse struct {
	CustomerCount       int64                  `json:"customer_count"`
	TotalOutstanding    decimal.Decimal        `json:"total_outstanding"`
	ReadingsToday       int64                  `json:"readings_today"`
	RecentNotifications []NotificationResponse `json:"recent_notifications"`
}

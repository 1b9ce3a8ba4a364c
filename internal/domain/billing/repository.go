package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByAccountNumber(ctx context.Context, accountNumber string) (*Customer, error)
	FindAll(ctx context.Context) ([]Customer, error)
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// MeterRepository defines the interface for meter persistence
type MeterRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Meter, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) (*Meter, error)
	FindBySerialNumber(ctx context.Context, serialNumber string) (*Meter, error)
	FindAll(ctx context.Context) ([]Meter, error)
	Save(ctx context.Context, meter *Meter) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MeterReadingRepository defines the interface for meter reading persistence
type MeterReadingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MeterReading, error)
	// FindByMeter returns a meter's readings ordered by reading date ascending
	FindByMeter(ctx context.Context, meterID uuid.UUID) ([]MeterReading, error)
	// FindPredecessor returns the reading on the meter with the latest
	// reading date strictly before the given date, excluding the reading
	// being computed. Returns ErrNotFound when the meter has none.
	FindPredecessor(ctx context.Context, meterID uuid.UUID, before time.Time, exclude uuid.UUID) (*MeterReading, error)
	CountByDate(ctx context.Context, date time.Time) (int64, error)
	Save(ctx context.Context, reading *MeterReading) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TariffRepository defines the interface for tariff persistence
type TariffRepository interface {
	// FindEffective returns the tariff governing all computations: the one
	// with the latest effective date, ties broken by most recent creation.
	// Returns ErrNoTariffDefined when no tariff exists.
	FindEffective(ctx context.Context) (*Tariff, error)
	FindAll(ctx context.Context) ([]Tariff, error)
	Save(ctx context.Context, tariff *Tariff) error
}

// BillRepository defines the interface for bill persistence
type BillRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Bill, error)
	// FindByIDForUpdate loads a bill holding a row-level lock for the
	// remainder of the transaction, serializing concurrent status updates.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Bill, error)
	// FindByReading returns the bill attached to a reading, or ErrNotFound
	FindByReading(ctx context.Context, readingID uuid.UUID) (*Bill, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Bill, error)
	// FindUnpaid returns every bill with is_paid = false
	FindUnpaid(ctx context.Context) ([]Bill, error)
	Save(ctx context.Context, bill *Bill) error
	Delete(ctx context.Context, id uuid.UUID) error
	// SumAmountDueByCustomer totals amount_due over a customer's bills,
	// optionally excluding one bill; empty result sets total zero.
	SumAmountDueByCustomer(ctx context.Context, customerID uuid.UUID, exclude *uuid.UUID) (decimal.Decimal, error)
	// SumAmountDue totals amount_due over all bills
	SumAmountDue(ctx context.Context) (decimal.Decimal, error)
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByBill(ctx context.Context, billID uuid.UUID) ([]Payment, error)
	// SumByBill totals payment amounts for one bill; no rows means zero
	SumByBill(ctx context.Context, billID uuid.UUID) (decimal.Decimal, error)
	// SumByCustomerBills totals payments across a customer's bills,
	// optionally excluding payments on one bill
	SumByCustomerBills(ctx context.Context, customerID uuid.UUID, excludeBill *uuid.UUID) (decimal.Decimal, error)
	// SumAll totals all payment amounts
	SumAll(ctx context.Context) (decimal.Decimal, error)
	Save(ctx context.Context, payment *Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Notification, error)
	FindRecent(ctx context.Context, limit int) ([]Notification, error)
	Save(ctx context.Context, notification *Notification) error
}

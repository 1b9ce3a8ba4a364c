package billing

import (
	"context"

	"github.com/waterworks/backend/internal/domain/billing"
)

// TransactionScope provides transactional access to the billing repositories.
// Every cascade event executes inside exactly one scope: all repository
// operations within it commit or roll back atomically, so a failed cascade
// leaves the store in its pre-transaction state.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories provides access to the billing repositories within a
// transaction. All repositories returned share the same underlying
// database transaction, so mid-cascade balance aggregation sees rows
// written earlier in the same event.
type Repositories interface {
	Customers() billing.CustomerRepository
	Meters() billing.MeterRepository
	Readings() billing.MeterReadingRepository
	Tariffs() billing.TariffRepository
	Bills() billing.BillRepository
	Payments() billing.PaymentRepository
	Notifications() billing.NotificationRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. It is used in tests, where repositories are in-memory.
type NoOpTransactionScope struct {
	customers     billing.CustomerRepository
	meters        billing.MeterRepository
	readings      billing.MeterReadingRepository
	tariffs       billing.TariffRepository
	bills         billing.BillRepository
	payments      billing.PaymentRepository
	notifications billing.NotificationRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories.
func NewNoOpTransactionScope(
	customers billing.CustomerRepository,
	meters billing.MeterRepository,
	readings billing.MeterReadingRepository,
	tariffs billing.TariffRepository,
	bills billing.BillRepository,
	payments billing.PaymentRepository,
	notifications billing.NotificationRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		customers:     customers,
		meters:        meters,
		readings:      readings,
		tariffs:       tariffs,
		bills:         bills,
		payments:      payments,
		notifications: notifications,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s)
}

// Customers returns the customer repository.
func (s *NoOpTransactionScope) Customers() billing.CustomerRepository { return s.customers }

// Meters returns the meter repository.
func (s *NoOpTransactionScope) Meters() billing.MeterRepository { return s.meters }

// Readings returns the meter reading repository.
func (s *NoOpTransactionScope) Readings() billing.MeterReadingRepository { return s.readings }

// Tariffs returns the tariff repository.
func (s *NoOpTransactionScope) Tariffs() billing.TariffRepository { return s.tariffs }

// Bills returns the bill repository.
func (s *NoOpTransactionScope) Bills() billing.BillRepository { return s.bills }

// Payments returns the payment repository.
func (s *NoOpTransactionScope) Payments() billing.PaymentRepository { return s.payments }

// Notifications returns the notification repository.
func (s *NoOpTransactionScope) Notifications() billing.NotificationRepository {
	return s.notifications
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ Repositories = (*NoOpTransactionScope)(nil)

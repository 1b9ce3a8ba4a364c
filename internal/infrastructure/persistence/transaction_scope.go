package persistence

import (
	"context"

	appbilling "github.com/waterworks/backend/internal/application/billing"
	"github.com/waterworks/backend/internal/domain/billing"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every cascade event runs inside one scope, so a failed step rolls back
// everything written since the triggering operation started.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepositories{tx: tx})
	})
}

// gormRepositories provides access to all repositories within a transaction.
type gormRepositories struct {
	tx *gorm.DB
}

// Customers returns the customer repository scoped to the current transaction.
func (r *gormRepositories) Customers() billing.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

// Meters returns the meter repository scoped to the current transaction.
func (r *gormRepositories) Meters() billing.MeterRepository {
	return NewGormMeterRepository(r.tx)
}

// Readings returns the meter reading repository scoped to the current transaction.
func (r *gormRepositories) Readings() billing.MeterReadingRepository {
	return NewGormMeterReadingRepository(r.tx)
}

// Tariffs returns the tariff repository scoped to the current transaction.
func (r *gormRepositories) Tariffs() billing.TariffRepository {
	return NewGormTariffRepository(r.tx)
}

// Bills returns the bill repository scoped to the current transaction.
func (r *gormRepositories) Bills() billing.BillRepository {
	return NewGormBillRepository(r.tx)
}

// Payments returns the payment repository scoped to the current transaction.
func (r *gormRepositories) Payments() billing.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

// Notifications returns the notification repository scoped to the current transaction.
func (r *gormRepositories) Notifications() billing.NotificationRepository {
	return NewGormNotificationRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appbilling.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormRepositories implements Repositories
var _ appbilling.Repositories = (*gormRepositories)(nil)

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/billing"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	BaseModel
	Name          string `gorm:"type:varchar(200);not null"`
	AccountNumber string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Address       string `gorm:"type:text"`
	Phone         string `gorm:"type:varchar(50)"`

	Meter         *MeterModel         `gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE"`
	Bills         []BillModel         `gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE"`
	Notifications []NotificationModel `gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *billing.Customer {
	return &billing.Customer{
		BaseEntity:    m.BaseModel.ToDomain(),
		Name:          m.Name,
		AccountNumber: m.AccountNumber,
		Address:       m.Address,
		Phone:         m.Phone,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *billing.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.AccountNumber = c.AccountNumber
	m.Address = c.Address
	m.Phone = c.Phone
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *billing.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// MeterModel is the persistence model for the Meter domain entity.
// The unique index on customer_id enforces the one-meter-per-customer rule.
type MeterModel struct {
	BaseModel
	CustomerID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	SerialNumber     string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	InstallationDate time.Time `gorm:"type:date;not null"`

	Readings []MeterReadingModel `gorm:"foreignKey:MeterID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (MeterModel) TableName() string {
	return "meters"
}

// ToDomain converts the persistence model to a domain Meter entity.
func (m *MeterModel) ToDomain() *billing.Meter {
	return &billing.Meter{
		BaseEntity:       m.BaseModel.ToDomain(),
		CustomerID:       m.CustomerID,
		SerialNumber:     m.SerialNumber,
		InstallationDate: m.InstallationDate,
	}
}

// FromDomain populates the persistence model from a domain Meter entity.
func (m *MeterModel) FromDomain(meter *billing.Meter) {
	m.FromDomainBaseEntity(meter.BaseEntity)
	m.CustomerID = meter.CustomerID
	m.SerialNumber = meter.SerialNumber
	m.InstallationDate = meter.InstallationDate
}

// MeterModelFromDomain creates a new persistence model from a domain Meter entity.
func MeterModelFromDomain(meter *billing.Meter) *MeterModel {
	m := &MeterModel{}
	m.FromDomain(meter)
	return m
}

// MeterReadingModel is the persistence model for the MeterReading aggregate.
// The composite unique index enforces at most one reading per meter per date.
// UnitsConsumed is null until the cascade derives it.
type MeterReadingModel struct {
	AggregateModel
	MeterID       uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_reading_meter_date,priority:1"`
	ReadingDate   time.Time           `gorm:"type:date;not null;uniqueIndex:idx_reading_meter_date,priority:2"`
	Value         decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	UnitsConsumed decimal.NullDecimal `gorm:"type:decimal(12,2)"`

	Bill *BillModel `gorm:"foreignKey:ReadingID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (MeterReadingModel) TableName() string {
	return "meter_readings"
}

// ToDomain converts the persistence model to a domain MeterReading aggregate.
func (m *MeterReadingModel) ToDomain() *billing.MeterReading {
	return &billing.MeterReading{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		MeterID:           m.MeterID,
		ReadingDate:       m.ReadingDate,
		Value:             m.Value,
		UnitsConsumed:     m.UnitsConsumed,
	}
}

// FromDomain populates the persistence model from a domain MeterReading aggregate.
func (m *MeterReadingModel) FromDomain(r *billing.MeterReading) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.MeterID = r.MeterID
	m.ReadingDate = r.ReadingDate
	m.Value = r.Value
	m.UnitsConsumed = r.UnitsConsumed
}

// MeterReadingModelFromDomain creates a new persistence model from a domain MeterReading.
func MeterReadingModelFromDomain(r *billing.MeterReading) *MeterReadingModel {
	m := &MeterReadingModel{}
	m.FromDomain(r)
	return m
}

// TariffModel is the persistence model for the Tariff aggregate.
type TariffModel struct {
	AggregateModel
	EffectiveDate time.Time       `gorm:"type:date;not null;index"`
	RatePerUnit   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (TariffModel) TableName() string {
	return "tariffs"
}

// ToDomain converts the persistence model to a domain Tariff aggregate.
func (m *TariffModel) ToDomain() *billing.Tariff {
	return &billing.Tariff{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		EffectiveDate:     m.EffectiveDate,
		RatePerUnit:       m.RatePerUnit,
	}
}

// FromDomain populates the persistence model from a domain Tariff aggregate.
func (m *TariffModel) FromDomain(t *billing.Tariff) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.EffectiveDate = t.EffectiveDate
	m.RatePerUnit = t.RatePerUnit
}

// TariffModelFromDomain creates a new persistence model from a domain Tariff.
func TariffModelFromDomain(t *billing.Tariff) *TariffModel {
	m := &TariffModel{}
	m.FromDomain(t)
	return m
}

// BillModel is the persistence model for the Bill aggregate. The unique
// index on reading_id enforces the one-bill-per-reading rule.
type BillModel struct {
	AggregateModel
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReadingID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	IssueDate       time.Time       `gorm:"type:date;not null"`
	DueDate         time.Time       `gorm:"type:date;not null"`
	PreviousBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AmountDue       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	IsPaid          bool            `gorm:"not null;default:false;index"`

	Payments []PaymentModel `gorm:"foreignKey:BillID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (BillModel) TableName() string {
	return "bills"
}

// ToDomain converts the persistence model to a domain Bill aggregate.
func (m *BillModel) ToDomain() *billing.Bill {
	return &billing.Bill{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		ReadingID:         m.ReadingID,
		IssueDate:         m.IssueDate,
		DueDate:           m.DueDate,
		PreviousBalance:   m.PreviousBalance,
		AmountDue:         m.AmountDue,
		IsPaid:            m.IsPaid,
	}
}

// FromDomain populates the persistence model from a domain Bill aggregate.
func (m *BillModel) FromDomain(b *billing.Bill) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.CustomerID = b.CustomerID
	m.ReadingID = b.ReadingID
	m.IssueDate = b.IssueDate
	m.DueDate = b.DueDate
	m.PreviousBalance = b.PreviousBalance
	m.AmountDue = b.AmountDue
	m.IsPaid = b.IsPaid
}

// BillModelFromDomain creates a new persistence model from a domain Bill.
func BillModelFromDomain(b *billing.Bill) *BillModel {
	m := &BillModel{}
	m.FromDomain(b)
	return m
}

// PaymentModel is the persistence model for the Payment aggregate. The
// unique index on reference_number makes payment references global.
type PaymentModel struct {
	AggregateModel
	BillID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentDate     time.Time       `gorm:"not null"`
	ReferenceNumber string          `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment aggregate.
func (m *PaymentModel) ToDomain() *billing.Payment {
	return &billing.Payment{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		BillID:            m.BillID,
		Amount:            m.Amount,
		PaymentDate:       m.PaymentDate,
		ReferenceNumber:   m.ReferenceNumber,
	}
}

// FromDomain populates the persistence model from a domain Payment aggregate.
func (m *PaymentModel) FromDomain(p *billing.Payment) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.BillID = p.BillID
	m.Amount = p.Amount
	m.PaymentDate = p.PaymentDate
	m.ReferenceNumber = p.ReferenceNumber
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *billing.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// NotificationModel is the persistence model for the Notification entity.
type NotificationModel struct {
	BaseModel
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Message    string    `gorm:"type:text;not null"`
	IsSent     bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification entity.
func (m *NotificationModel) ToDomain() *billing.Notification {
	return &billing.Notification{
		BaseEntity: m.BaseModel.ToDomain(),
		CustomerID: m.CustomerID,
		Message:    m.Message,
		IsSent:     m.IsSent,
	}
}

// FromDomain populates the persistence model from a domain Notification entity.
func (m *NotificationModel) FromDomain(n *billing.Notification) {
	m.FromDomainBaseEntity(n.BaseEntity)
	m.CustomerID = n.CustomerID
	m.Message = n.Message
	m.IsSent = n.IsSent
}

// NotificationModelFromDomain creates a new persistence model from a domain Notification.
func NotificationModelFromDomain(n *billing.Notification) *NotificationModel {
	m := &NotificationModel{}
	m.FromDomain(n)
	return m
}

// AllModels returns every billing persistence model for auto-migration,
// ordered so foreign key targets are created first.
func AllModels() []any {
	return []any{
		&CustomerModel{},
		&MeterModel{},
		&MeterReadingModel{},
		&TariffModel{},
		&BillModel{},
		&PaymentModel{},
		&NotificationModel{},
	}
}

package billing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/shared"
)

// Tariff is a per-unit rate effective from a given date.
//
// Rate resolution is deliberately simple: the tariff with the latest
// effective date (ties broken by creation time) governs every computation,
// including recomputation of bills issued under an older rate. There is no
// historical, date-scoped lookup.
type Tariff struct {
	shared.BaseAggregateRoot
	EffectiveDate time.Time
	RatePerUnit   decimal.Decimal
}

// NewTariff creates a new tariff
func NewTariff(effectiveDate time.Time, ratePerUnit decimal.Decimal) (*Tariff, error) {
	if !ratePerUnit.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Tariff rate must be positive")
	}
	if effectiveDate.IsZero() {
		effectiveDate = time.Now()
	}
	t := &Tariff{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EffectiveDate:     DateOf(effectiveDate),
		RatePerUnit:       ratePerUnit,
	}
	t.AddDomainEvent(NewTariffCreatedEvent(t))
	return t, nil
}

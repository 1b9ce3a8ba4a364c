package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/shared"
)

// TariffCreatedEvent is raised when a new tariff is added
type TariffCreatedEvent struct {
	shared.BaseDomainEvent
	TariffID      uuid.UUID       `json:"tariff_id"`
	EffectiveDate time.Time       `json:"effective_date"`
	RatePerUnit   decimal.Decimal `json:"rate_per_unit"`
}

// EventType returns the event type name
func (e *TariffCreatedEvent) EventType() string {
	return "TariffCreated"
}

// NewTariffCreatedEvent creates a new TariffCreatedEvent
func NewTariffCreatedEvent(t *Tariff) *TariffCreatedEvent {
	return &TariffCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TariffCreated", "Tariff", t.ID),
		TariffID:        t.ID,
		EffectiveDate:   t.EffectiveDate,
		RatePerUnit:     t.RatePerUnit,
	}
}

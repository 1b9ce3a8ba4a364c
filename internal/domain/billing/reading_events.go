package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/shared"
)

// MeterReadingRecordedEvent is raised when a reading's consumption
// has been derived
type MeterReadingRecordedEvent struct {
	shared.BaseDomainEvent
	ReadingID     uuid.UUID       `json:"reading_id"`
	MeterID       uuid.UUID       `json:"meter_id"`
	ReadingDate   time.Time       `json:"reading_date"`
	Value         decimal.Decimal `json:"value"`
	UnitsConsumed decimal.Decimal `json:"units_consumed"`
}

// EventType returns the event type name
func (e *MeterReadingRecordedEvent) EventType() string {
	return "MeterReadingRecorded"
}

// NewMeterReadingRecordedEvent creates a new MeterReadingRecordedEvent
func NewMeterReadingRecordedEvent(r *MeterReading) *MeterReadingRecordedEvent {
	return &MeterReadingRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("MeterReadingRecorded", "MeterReading", r.ID),
		ReadingID:       r.ID,
		MeterID:         r.MeterID,
		ReadingDate:     r.ReadingDate,
		Value:           r.Value,
		UnitsConsumed:   r.Units(),
	}
}

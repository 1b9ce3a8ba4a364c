package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/shared"
)

// MeterReading is a periodic register value taken from a meter.
// At most one reading exists per meter per date.
//
// UnitsConsumed is derived, not supplied: it stays null until the cascade
// computes it from the predecessor reading, and it is always recomputed
// from scratch, never incremented.
type MeterReading struct {
	shared.BaseAggregateRoot
	MeterID       uuid.UUID
	ReadingDate   time.Time
	Value         decimal.Decimal
	UnitsConsumed decimal.NullDecimal
}

// NewMeterReading creates a new reading for a meter
func NewMeterReading(meterID uuid.UUID, readingDate time.Time, value decimal.Decimal) (*MeterReading, error) {
	if meterID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Reading must belong to a meter")
	}
	if value.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Reading value cannot be negative")
	}
	if readingDate.IsZero() {
		readingDate = time.Now()
	}
	return &MeterReading{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		MeterID:           meterID,
		ReadingDate:       DateOf(readingDate),
		Value:             value,
	}, nil
}

// SetValue replaces the register value. The derived units are invalidated
// until the cascade recomputes them.
func (r *MeterReading) SetValue(value decimal.Decimal) error {
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Reading value cannot be negative")
	}
	r.Value = value
	r.UnitsConsumed = decimal.NullDecimal{}
	return nil
}

// ComputeUnits derives the units consumed since the predecessor reading.
// With no predecessor the full register value is billed. A register value
// lower than the predecessor's floors at zero rather than going negative
// (a regression means the meter was replaced).
func (r *MeterReading) ComputeUnits(prev *MeterReading) {
	units := r.Value
	if prev != nil {
		units = r.Value.Sub(prev.Value)
		if units.IsNegative() {
			units = decimal.Zero
		}
	}
	r.UnitsConsumed = decimal.NewNullDecimal(units)
	r.AddDomainEvent(NewMeterReadingRecordedEvent(r))
}

// HasUnits reports whether the derived consumption has been computed
func (r *MeterReading) HasUnits() bool {
	return r.UnitsConsumed.Valid
}

// Units returns the derived consumption, zero when not yet computed
func (r *MeterReading) Units() decimal.Decimal {
	if !r.UnitsConsumed.Valid {
		return decimal.Zero
	}
	return r.UnitsConsumed.Decimal
}

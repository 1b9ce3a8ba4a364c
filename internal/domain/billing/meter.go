package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/waterworks/backend/internal/domain/shared"
)

// Meter is the physical device installed at a customer's premises.
// It belongs to exactly one customer and owns an ordered sequence of readings.
type Meter struct {
	shared.BaseEntity
	CustomerID       uuid.UUID
	SerialNumber     string // unique across all meters
	InstallationDate time.Time
}

// NewMeter creates a new meter for a customer
func NewMeter(customerID uuid.UUID, serialNumber string, installationDate time.Time) (*Meter, error) {
	serialNumber = strings.TrimSpace(serialNumber)
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Meter must belong to a customer")
	}
	if serialNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Meter serial number cannot be empty")
	}
	if installationDate.IsZero() {
		installationDate = time.Now()
	}
	return &Meter{
		BaseEntity:       shared.NewBaseEntity(),
		CustomerID:       customerID,
		SerialNumber:     serialNumber,
		InstallationDate: DateOf(installationDate),
	}, nil
}

// DateOf truncates a timestamp to its calendar date in UTC.
// Reading and billing dates are compared at day granularity.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

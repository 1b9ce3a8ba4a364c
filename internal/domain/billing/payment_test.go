package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayment(t *testing.T) {
	t.Run("creates payment with applied event", func(t *testing.T) {
		billID := uuid.New()
		p, err := NewPayment(billID, decimal.RequireFromString("150.00"), time.Now(), "REF-001")
		require.NoError(t, err)

		assert.Equal(t, billID, p.BillID)
		assert.Equal(t, "REF-001", p.ReferenceNumber)
		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "PaymentApplied", events[0].EventType())
	})

	tests := []struct {
		name   string
		billID uuid.UUID
		amount string
		ref    string
	}{
		{"rejects zero amount", uuid.New(), "0", "REF-002"},
		{"rejects negative amount", uuid.New(), "-5", "REF-003"},
		{"rejects empty reference", uuid.New(), "10", "  "},
		{"rejects missing bill", uuid.Nil, "10", "REF-004"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPayment(tt.billID, decimal.RequireFromString(tt.amount), time.Now(), tt.ref)
			assert.Error(t, err)
		})
	}
}

func TestPayment_Reverse(t *testing.T) {
	p, err := NewPayment(uuid.New(), decimal.NewFromInt(10), time.Now(), "REF-010")
	require.NoError(t, err)
	p.ClearDomainEvents()

	p.Reverse()

	events := p.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "PaymentReversed", events[0].EventType())
}

func TestNewTariff(t *testing.T) {
	t.Run("creates tariff with created event", func(t *testing.T) {
		tariff, err := NewTariff(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), decimal.RequireFromString("2.00"))
		require.NoError(t, err)

		assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), tariff.EffectiveDate)
		events := tariff.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "TariffCreated", events[0].EventType())
	})

	t.Run("rejects non-positive rate", func(t *testing.T) {
		_, err := NewTariff(time.Now(), decimal.Zero)
		assert.Error(t, err)
	})
}

package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func billedReading(t *testing.T, value string) *MeterReading {
	t.Helper()
	r := newTestReading(t, uuid.New(), 10, value)
	r.ComputeUnits(nil)
	return r
}

func TestComputeAmountDue(t *testing.T) {
	tests := []struct {
		name            string
		units           string
		rate            string
		previousBalance string
		want            string
	}{
		{"no previous balance", "100", "2.00", "0", "200"},
		{"negative balance increases charge", "30", "2.00", "-50", "110"},
		{"positive balance reduces charge", "30", "2.00", "50", "10"},
		{"balance can push amount below zero", "10", "2.00", "50", "-30"},
		{"rounds to two places", "3", "1.111", "0", "3.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeAmountDue(
				decimal.RequireFromString(tt.units),
				decimal.RequireFromString(tt.rate),
				decimal.RequireFromString(tt.previousBalance),
			)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"amount due = %s, want %s", got, tt.want)
		})
	}
}

func TestNewBillFromReading(t *testing.T) {
	t.Run("issues bill with due date offset", func(t *testing.T) {
		reading := billedReading(t, "100")
		customerID := uuid.New()

		bill, err := NewBillFromReading(reading, customerID, decimal.RequireFromString("2.00"), decimal.Zero, 7)
		require.NoError(t, err)

		assert.Equal(t, customerID, bill.CustomerID)
		assert.Equal(t, reading.ID, bill.ReadingID)
		assert.True(t, bill.AmountDue.Equal(decimal.NewFromInt(200)))
		assert.Equal(t, bill.IssueDate.AddDate(0, 0, 7), bill.DueDate)
		assert.False(t, bill.IsPaid)
	})

	t.Run("defaults due days when not positive", func(t *testing.T) {
		bill, err := NewBillFromReading(billedReading(t, "10"), uuid.New(), decimal.NewFromInt(1), decimal.Zero, 0)
		require.NoError(t, err)
		assert.Equal(t, bill.IssueDate.AddDate(0, 0, DefaultDueDays), bill.DueDate)
	})

	t.Run("refuses reading without computed units", func(t *testing.T) {
		r := newTestReading(t, uuid.New(), 10, "100")
		_, err := NewBillFromReading(r, uuid.New(), decimal.NewFromInt(1), decimal.Zero, 7)
		assert.Error(t, err)
	})

	t.Run("records issued event", func(t *testing.T) {
		bill, err := NewBillFromReading(billedReading(t, "10"), uuid.New(), decimal.NewFromInt(1), decimal.Zero, 7)
		require.NoError(t, err)

		events := bill.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "BillIssued", events[0].EventType())
	})
}

func TestBill_Reprice(t *testing.T) {
	bill, err := NewBillFromReading(billedReading(t, "30"), uuid.New(), decimal.RequireFromString("2.00"), decimal.Zero, 7)
	require.NoError(t, err)
	require.True(t, bill.AmountDue.Equal(decimal.NewFromInt(60)))
	bill.ClearDomainEvents()

	bill.Reprice(decimal.NewFromInt(30), decimal.RequireFromString("3.00"), decimal.NewFromInt(50))

	assert.True(t, bill.AmountDue.Equal(decimal.NewFromInt(40)))
	assert.True(t, bill.PreviousBalance.Equal(decimal.NewFromInt(50)))
	events := bill.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "BillRecomputed", events[0].EventType())
}

func TestBill_RepriceAtRate(t *testing.T) {
	bill, err := NewBillFromReading(billedReading(t, "30"), uuid.New(), decimal.RequireFromString("2.00"), decimal.NewFromInt(50), 7)
	require.NoError(t, err)
	require.True(t, bill.AmountDue.Equal(decimal.NewFromInt(10)))
	bill.ClearDomainEvents()

	bill.RepriceAtRate(decimal.NewFromInt(30), decimal.RequireFromString("3.00"))

	// keeps the balance adjustment captured at issue time
	assert.True(t, bill.AmountDue.Equal(decimal.NewFromInt(40)))
	assert.True(t, bill.PreviousBalance.Equal(decimal.NewFromInt(50)))
	events := bill.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "BillRecomputed", events[0].EventType())
}

func TestBill_UpdateStatus(t *testing.T) {
	newBill := func(t *testing.T, amountDue string) *Bill {
		t.Helper()
		b := &Bill{
			CustomerID: uuid.New(),
			ReadingID:  uuid.New(),
			IssueDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			AmountDue:  decimal.RequireFromString(amountDue),
		}
		return b
	}

	tests := []struct {
		name      string
		amountDue string
		totalPaid string
		wantPaid  bool
	}{
		{"underpaid stays unpaid", "200", "150", false},
		{"exact payment settles", "200", "200", true},
		{"overpayment settles", "200", "250", true},
		{"zero amount due is satisfied by zero", "0", "0", true},
		{"negative amount due is satisfied by zero", "-30", "0", true},
		{"no payments on positive bill", "200", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBill(t, tt.amountDue)
			b.UpdateStatus(decimal.RequireFromString(tt.totalPaid))
			assert.Equal(t, tt.wantPaid, b.IsPaid)
		})
	}

	t.Run("transition to paid records event", func(t *testing.T) {
		b := newBill(t, "100")
		changed := b.UpdateStatus(decimal.NewFromInt(100))

		assert.True(t, changed)
		events := b.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "BillPaid", events[0].EventType())
	})

	t.Run("transition back to unpaid records reopened event", func(t *testing.T) {
		b := newBill(t, "100")
		b.UpdateStatus(decimal.NewFromInt(100))
		b.ClearDomainEvents()

		changed := b.UpdateStatus(decimal.Zero)

		assert.True(t, changed)
		events := b.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "BillReopened", events[0].EventType())
	})

	t.Run("no transition records nothing", func(t *testing.T) {
		b := newBill(t, "100")
		changed := b.UpdateStatus(decimal.NewFromInt(50))

		assert.False(t, changed)
		assert.Empty(t, b.GetDomainEvents())
	})
}

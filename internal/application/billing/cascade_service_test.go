package billing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waterworks/backend/internal/domain/billing"
)

func TestCascade_ReadingCreatesBill(t *testing.T) {
	f := newFixture(t)
	_, meter := f.seedCustomerWithMeter(t)
	f.seedTariff(t, "2.00", day(1))

	reading := f.submitReading(t, meter.ID, day(10), "100")

	require.True(t, reading.HasUnits())
	assert.True(t, reading.Units().Equal(decimal.NewFromInt(100)), "first reading bills the full value")

	bill := f.billForReading(t, reading.ID)
	assert.True(t, bill.AmountDue.Equal(decimal.NewFromInt(200)), "amount due = %s", bill.AmountDue)
	assert.False(t, bill.IsPaid)
	assert.Contains(t, f.bus.eventTypes(), "BillIssued")
}

func TestCascade_SecondReadingFoldsOutstandingBalance(t *testing.T) {
	f := newFixture(t)
	customer, meter := f.seedCustomerWithMeter(t)
	f.seedTariff(t, "2.00", day(1))

	first := f.submitReading(t, meter.ID, day(10), "100")
	billA := f.billForReading(t, first.ID)
	f.applyPayment(t, billA.ID, "150.00", "REF-100")

	second := f.submitReading(t, meter.ID, day(20), "130")

	require.True(t, second.Units().Equal(decimal.NewFromInt(30)))
	billB := f.billForReading(t, second.ID)
	// 30 x 2.00 minus the 50.00 still owed on the first bill
	assert.True(t, billB.AmountDue.Equal(decimal.RequireFromString("10.00")), "amount due = %s", billB.AmountDue)

	balance, err := f.balance.CustomerBalance(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("60.00")), "balance = %s", balance)
}

func TestCascade_WorkedScenario(t *testing.T) {
	f := newFixture(t)
	customer, meter := f.seedCustomerWithMeter(t)

	tariff, err := billing.NewTariff(day(1), decimal.RequireFromString("2.00"))
	require.NoError(t, err)
	require.NoError(t, f.cascade.OnTariffCreated(context.Background(), tariff))

	readingA := f.submitReading(t, meter.ID, day(10), "100")
	billA := f.billForReading(t, readingA.ID)
	require.True(t, billA.AmountDue.Equal(decimal.NewFromInt(200)))

	f.applyPayment(t, billA.ID, "150.00", "REF-200")
	billA = f.billForReading(t, readingA.ID)
	require.False(t, billA.IsPaid, "150 < 200 leaves the bill unpaid")

	readingB := f.submitReading(t, meter.ID, day(20), "130")
	billB := f.billForReading(t, readingB.ID)
	require.True(t, billB.AmountDue.Equal(decimal.RequireFromString("10.00")))

	newTariff, err := billing.NewTariff(day(21), decimal.RequireFromString("3.00"))
	require.NoError(t, err)
	require.NoError(t, f.cascade.OnTariffCreated(context.Background(), newTariff))

	billA = f.billForReading(t, readingA.ID)
	billB = f.billForReading(t, readingB.ID)
	assert.True(t, billA.AmountDue.Equal(decimal.NewFromInt(300)), "bill A = %s", billA.AmountDue)
	assert.False(t, billA.IsPaid)
	assert.True(t, billB.AmountDue.Equal(decimal.RequireFromString("40.00")), "bill B = %s", billB.AmountDue)
	assert.False(t, billB.IsPaid)

	balance, err := f.balance.CustomerBalance(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("190.00")), "balance = %s", balance)
}

func TestCascade_ReadingSavedIsIdempotent(t *testing.T) {
	f := newFixture(t)
	_, meter := f.seedCustomerWithMeter(t)
	f.seedTariff(t, "2.00", day(1))

	reading := f.submitReading(t, meter.ID, day(10), "100")
	first := f.billForReading(t, reading.ID)

	// saving the unchanged reading again must converge, not accumulate
	require.NoError(t, f.cascade.OnReadingSaved(context.Background(), reading, false))

	again := f.billForReading(t, reading.ID)
	assert.Equal(t, first.ID, again.ID)
	assert.True(t, again.AmountDue.Equal(first.AmountDue))
	assert.Equal(t, first.IsPaid, again.IsPaid)
	assert.True(t, reading.Units().Equal(decimal.NewFromInt(100)))
}

func TestCascade_ReadingValueCorrectionReprices(t *testing.T) {
	f := newFixture(t)
	_, meter := f.seedCustomerWithMeter(t)
	f.seedTariff(t, "2.00", day(1))

	reading := f.submitReading(t, meter.ID, day(10), "100")

	require.NoError(t, reading.SetValue(decimal.NewFromInt(80)))
	require.NoError(t, f.cascade.OnReadingSaved(context.Background(), reading, false))

	assert.True(t, reading.Units().Equal(decimal.NewFromInt(80)))
	bill := f.billForReading(t, reading.ID)
	assert.True(t, bill.AmountDue.Equal(decimal.NewFromInt(160)), "amount due = %s", bill.AmountDue)
}

func TestCascade_TariffRepricesOnlyUnpaidBills(t *testing.T) {
	f := newFixture(t)
	_, meter := f.seedCustomerWithMeter(t)
	f.seedTariff(t, "2.00", day(1))

	readingA := f.submitReading(t, meter.ID, day(10), "100")
	billA := f.billForReading(t, readingA.ID)
	f.applyPayment(t, billA.ID, "200.00", "REF-300")
	require.True(t, f.billForReading(t, readingA.ID).IsPaid)

	readingB := f.submitReading(t, meter.ID, day(20), "130")

	newTariff, err := billing.NewTariff(day(21), decimal.RequireFromString("3.00"))
	require.NoError(t, err)
	require.NoError(t, f.cascade.OnTariffCreated(context.Background(), newTariff))

	// the settled bill keeps its historical amount
	billA = f.billForReading(t, readingA.ID)
	assert.True(t, billA.AmountDue.Equal(decimal.NewFromInt(200)), "paid bill repriced to %s", billA.AmountDue)
	assert.True(t, billA.IsPaid)

	billB := f.billForReading(t, readingB.ID)
	assert.True(t, billB.AmountDue.Equal(decimal.NewFromInt(90)), "unpaid bill = %s", billB.AmountDue)
}

func TestCascade_PaymentFlipsStatusBothWays(t *testing.T) {
	f := newFixture(t)
	_, meter := f.seedCustomerWithMeter(t)
	f.seedTariff(t, "2.00", day(1))

	reading := f.submitReading(t, meter.ID, day(10), "100")
	bill := f.billForReading(t, reading.ID)

	payment := f.applyPayment(t, bill.ID, "200.00", "REF-400")
	assert.True(t, f.billForReading(t, reading.ID).IsPaid)
	assert.Contains(t, f.bus.eventTypes(), "BillPaid")

	require.NoError(t, f.cascade.OnPaymentDeleted(context.Background(), payment))
	assert.False(t, f.billForReading(t, reading.ID).IsPaid)
	assert.Contains(t, f.bus.eventTypes(), "BillReopened")
}

func TestCascade_PaymentReassignmentRederivesBothBills(t *testing.T) {
	f := newFixture(t)
	_, meter := f.seedCustomerWithMeter(t)
	f.seedTariff(t, "2.00", day(1))

	readingA := f.submitReading(t, meter.ID, day(10), "100")
	billA := f.billForReading(t, readingA.ID)
	payment := f.applyPayment(t, billA.ID, "150.00", "REF-500")

	readingB := f.submitReading(t, meter.ID, day(20), "130")
	billB := f.billForReading(t, readingB.ID)
	require.True(t, billB.AmountDue.Equal(decimal.RequireFromString("10.00")))

	payment.BillID = billB.ID
	require.NoError(t, f.cascade.OnPaymentSaved(context.Background(), payment, false))

	assert.True(t, f.billForReading(t, readingB.ID).IsPaid, "150 covers the 10.00 bill")
	assert.False(t, f.billForReading(t, readingA.ID).IsPaid, "the first bill lost its payment")
}

func TestCascade_ReadingDeletionRemovesBillAndPayments(t *testing.T) {
	f := newFixture(t)
	customer, meter := f.seedCustomerWithMeter(t)
	f.seedTariff(t, "2.00", day(1))

	before, err := f.balance.CustomerBalance(context.Background(), customer.ID)
	require.NoError(t, err)

	reading := f.submitReading(t, meter.ID, day(10), "100")
	bill := f.billForReading(t, reading.ID)
	f.applyPayment(t, bill.ID, "150.00", "REF-600")

	require.NoError(t, f.cascade.OnReadingDeleted(context.Background(), reading))

	_, err = f.store.Bills().FindByReading(context.Background(), reading.ID)
	assert.Error(t, err)
	payments, err := f.store.Payments().FindByBill(context.Background(), bill.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)

	after, err := f.balance.CustomerBalance(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.True(t, after.Equal(before), "balance %s, want %s", after, before)
}

func TestCascade_DeletingUnbilledReadingIsNotAnError(t *testing.T) {
	f := newFixture(t)
	_, meter := f.seedCustomerWithMeter(t)
	f.seedTariff(t, "2.00", day(1))

	reading := f.submitReading(t, meter.ID, day(10), "100")
	bill := f.billForReading(t, reading.ID)
	require.NoError(t, f.store.Bills().Delete(context.Background(), bill.ID))

	assert.NoError(t, f.cascade.OnReadingDeleted(context.Background(), reading))
}

func TestCascade_NoTariffAbortsWithoutPartialState(t *testing.T) {
	f := newFixture(t)
	_, meter := f.seedCustomerWithMeter(t)

	reading, err := billing.NewMeterReading(meter.ID, day(10), decimal.NewFromInt(100))
	require.NoError(t, err)

	err = f.cascade.OnReadingSaved(context.Background(), reading, true)
	require.ErrorIs(t, err, billing.ErrNoTariffDefined)

	// the whole event rolled back: neither reading nor bill was committed
	readings, err := f.store.Readings().FindByMeter(context.Background(), meter.ID)
	require.NoError(t, err)
	assert.Empty(t, readings)
	assert.Empty(t, f.bus.events)
}

func TestCascade_DuplicateReadingDateRejected(t *testing.T) {
	f := newFixture(t)
	_, meter := f.seedCustomerWithMeter(t)
	f.seedTariff(t, "2.00", day(1))

	f.submitReading(t, meter.ID, day(10), "100")

	duplicate, err := billing.NewMeterReading(meter.ID, day(10), decimal.NewFromInt(120))
	require.NoError(t, err)
	err = f.cascade.OnReadingSaved(context.Background(), duplicate, true)
	require.ErrorIs(t, err, billing.ErrDuplicateReading)

	readings, err := f.store.Readings().FindByMeter(context.Background(), meter.ID)
	require.NoError(t, err)
	assert.Len(t, readings, 1)
}

func TestCascade_DuplicatePaymentReferenceRejected(t *testing.T) {
	f := newFixture(t)
	_, meter := f.seedCustomerWithMeter(t)
	f.seedTariff(t, "2.00", day(1))

	reading := f.submitReading(t, meter.ID, day(10), "100")
	bill := f.billForReading(t, reading.ID)
	f.applyPayment(t, bill.ID, "50.00", "REF-700")

	duplicate, err := billing.NewPayment(bill.ID, decimal.NewFromInt(50), day(11), "REF-700")
	require.NoError(t, err)
	err = f.cascade.OnPaymentSaved(context.Background(), duplicate, true)
	require.ErrorIs(t, err, billing.ErrDuplicatePaymentReference)

	total, err := f.store.Payments().SumByBill(context.Background(), bill.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(50)))
}

func TestCascade_PreviewAmountDueDoesNotPersist(t *testing.T) {
	f := newFixture(t)
	_, meter := f.seedCustomerWithMeter(t)
	f.seedTariff(t, "2.00", day(1))

	reading := f.submitReading(t, meter.ID, day(10), "100")
	bill := f.billForReading(t, reading.ID)

	f.seedTariff(t, "5.00", day(15))

	preview, err := f.cascade.PreviewAmountDue(context.Background(), bill.ID)
	require.NoError(t, err)
	assert.True(t, preview.Equal(decimal.NewFromInt(500)), "preview = %s", preview)

	stored := f.billForReading(t, reading.ID)
	assert.True(t, stored.AmountDue.Equal(decimal.NewFromInt(200)), "stored bill must be untouched")
}

func TestCascade_OverpaymentFoldsIntoNextBill(t *testing.T) {
	f := newFixture(t)
	customer, meter := f.seedCustomerWithMeter(t)
	f.seedTariff(t, "2.00", day(1))

	readingA := f.submitReading(t, meter.ID, day(10), "100")
	billA := f.billForReading(t, readingA.ID)
	f.applyPayment(t, billA.ID, "250.00", "REF-800")
	require.True(t, f.billForReading(t, readingA.ID).IsPaid)

	balance, err := f.balance.CustomerBalance(context.Background(), customer.ID)
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.RequireFromString("-50.00")), "overpaid balance = %s", balance)

	readingB := f.submitReading(t, meter.ID, day(20), "130")
	billB := f.billForReading(t, readingB.ID)
	// 30 x 2.00 minus the -50.00 balance
	assert.True(t, billB.AmountDue.Equal(decimal.RequireFromString("110.00")), "amount due = %s", billB.AmountDue)
}

package billing

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// memStore is an in-memory stand-in for the relational store. It enforces
// the same uniqueness rules and cascading deletes, and its transaction
// scope restores a snapshot on error, so the cascade's all-or-nothing
// behavior is observable in tests.
type memStore struct {
	customers     map[uuid.UUID]billing.Customer
	meters        map[uuid.UUID]billing.Meter
	readings      map[uuid.UUID]billing.MeterReading
	tariffs       map[uuid.UUID]billing.Tariff
	bills         map[uuid.UUID]billing.Bill
	payments      map[uuid.UUID]billing.Payment
	notifications map[uuid.UUID]billing.Notification
}

func newMemStore() *memStore {
	return &memStore{
		customers:     make(map[uuid.UUID]billing.Customer),
		meters:        make(map[uuid.UUID]billing.Meter),
		readings:      make(map[uuid.UUID]billing.MeterReading),
		tariffs:       make(map[uuid.UUID]billing.Tariff),
		bills:         make(map[uuid.UUID]billing.Bill),
		payments:      make(map[uuid.UUID]billing.Payment),
		notifications: make(map[uuid.UUID]billing.Notification),
	}
}

func (s *memStore) snapshot() *memStore {
	clone := newMemStore()
	for k, v := range s.customers {
		clone.customers[k] = v
	}
	for k, v := range s.meters {
		clone.meters[k] = v
	}
	for k, v := range s.readings {
		clone.readings[k] = v
	}
	for k, v := range s.tariffs {
		clone.tariffs[k] = v
	}
	for k, v := range s.bills {
		clone.bills[k] = v
	}
	for k, v := range s.payments {
		clone.payments[k] = v
	}
	for k, v := range s.notifications {
		clone.notifications[k] = v
	}
	return clone
}

func (s *memStore) restore(snap *memStore) {
	s.customers = snap.customers
	s.meters = snap.meters
	s.readings = snap.readings
	s.tariffs = snap.tariffs
	s.bills = snap.bills
	s.payments = snap.payments
	s.notifications = snap.notifications
}

func (s *memStore) Customers() billing.CustomerRepository         { return memCustomers{s} }
func (s *memStore) Meters() billing.MeterRepository               { return memMeters{s} }
func (s *memStore) Readings() billing.MeterReadingRepository      { return memReadings{s} }
func (s *memStore) Tariffs() billing.TariffRepository             { return memTariffs{s} }
func (s *memStore) Bills() billing.BillRepository                 { return memBills{s} }
func (s *memStore) Payments() billing.PaymentRepository           { return memPayments{s} }
func (s *memStore) Notifications() billing.NotificationRepository { return memNotifications{s} }

var _ Repositories = (*memStore)(nil)

// memScope runs the function against the live store and rolls the store
// back to its pre-call state when the function fails.
type memScope struct {
	store *memStore
}

func (s *memScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	snap := s.store.snapshot()
	if err := fn(s.store); err != nil {
		s.store.restore(snap)
		return err
	}
	return nil
}

var _ TransactionScope = (*memScope)(nil)

// =============================================================================
// Repositories
// =============================================================================

type memCustomers struct{ s *memStore }

func (r memCustomers) FindByID(_ context.Context, id uuid.UUID) (*billing.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (r memCustomers) FindByAccountNumber(_ context.Context, accountNumber string) (*billing.Customer, error) {
	for _, c := range r.s.customers {
		if c.AccountNumber == accountNumber {
			found := c
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memCustomers) FindAll(_ context.Context) ([]billing.Customer, error) {
	out := make([]billing.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memCustomers) Save(_ context.Context, customer *billing.Customer) error {
	for _, c := range r.s.customers {
		if c.AccountNumber == customer.AccountNumber && c.ID != customer.ID {
			return shared.ErrAlreadyExists
		}
	}
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r memCustomers) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.customers, id)
	for mid, m := range r.s.meters {
		if m.CustomerID != id {
			continue
		}
		delete(r.s.meters, mid)
		for rid, rd := range r.s.readings {
			if rd.MeterID == mid {
				delete(r.s.readings, rid)
			}
		}
	}
	for bid, b := range r.s.bills {
		if b.CustomerID != id {
			continue
		}
		delete(r.s.bills, bid)
		for pid, p := range r.s.payments {
			if p.BillID == bid {
				delete(r.s.payments, pid)
			}
		}
	}
	for nid, n := range r.s.notifications {
		if n.CustomerID == id {
			delete(r.s.notifications, nid)
		}
	}
	return nil
}

func (r memCustomers) Count(_ context.Context) (int64, error) {
	return int64(len(r.s.customers)), nil
}

type memMeters struct{ s *memStore }

func (r memMeters) FindByID(_ context.Context, id uuid.UUID) (*billing.Meter, error) {
	m, ok := r.s.meters[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &m, nil
}

func (r memMeters) FindByCustomer(_ context.Context, customerID uuid.UUID) (*billing.Meter, error) {
	for _, m := range r.s.meters {
		if m.CustomerID == customerID {
			found := m
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memMeters) FindBySerialNumber(_ context.Context, serialNumber string) (*billing.Meter, error) {
	for _, m := range r.s.meters {
		if m.SerialNumber == serialNumber {
			found := m
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memMeters) FindAll(_ context.Context) ([]billing.Meter, error) {
	out := make([]billing.Meter, 0, len(r.s.meters))
	for _, m := range r.s.meters {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SerialNumber < out[j].SerialNumber })
	return out, nil
}

func (r memMeters) Save(_ context.Context, meter *billing.Meter) error {
	for _, m := range r.s.meters {
		if m.SerialNumber == meter.SerialNumber && m.ID != meter.ID {
			return shared.ErrAlreadyExists
		}
	}
	r.s.meters[meter.ID] = *meter
	return nil
}

func (r memMeters) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.meters, id)
	return nil
}

type memReadings struct{ s *memStore }

func (r memReadings) FindByID(_ context.Context, id uuid.UUID) (*billing.MeterReading, error) {
	rd, ok := r.s.readings[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &rd, nil
}

func (r memReadings) FindByMeter(_ context.Context, meterID uuid.UUID) ([]billing.MeterReading, error) {
	out := make([]billing.MeterReading, 0)
	for _, rd := range r.s.readings {
		if rd.MeterID == meterID {
			out = append(out, rd)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReadingDate.Before(out[j].ReadingDate) })
	return out, nil
}

func (r memReadings) FindPredecessor(_ context.Context, meterID uuid.UUID, before time.Time, exclude uuid.UUID) (*billing.MeterReading, error) {
	var best *billing.MeterReading
	for _, rd := range r.s.readings {
		if rd.MeterID != meterID || rd.ID == exclude || !rd.ReadingDate.Before(before) {
			continue
		}
		candidate := rd
		if best == nil || candidate.ReadingDate.After(best.ReadingDate) {
			best = &candidate
		}
	}
	if best == nil {
		return nil, shared.ErrNotFound
	}
	return best, nil
}

func (r memReadings) CountByDate(_ context.Context, date time.Time) (int64, error) {
	var n int64
	for _, rd := range r.s.readings {
		if rd.ReadingDate.Equal(date) {
			n++
		}
	}
	return n, nil
}

func (r memReadings) Save(_ context.Context, reading *billing.MeterReading) error {
	for _, rd := range r.s.readings {
		if rd.MeterID == reading.MeterID && rd.ReadingDate.Equal(reading.ReadingDate) && rd.ID != reading.ID {
			return billing.ErrDuplicateReading
		}
	}
	r.s.readings[reading.ID] = *reading
	return nil
}

func (r memReadings) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.readings, id)
	for bid, b := range r.s.bills {
		if b.ReadingID != id {
			continue
		}
		delete(r.s.bills, bid)
		for pid, p := range r.s.payments {
			if p.BillID == bid {
				delete(r.s.payments, pid)
			}
		}
	}
	return nil
}

type memTariffs struct{ s *memStore }

func (r memTariffs) FindEffective(_ context.Context) (*billing.Tariff, error) {
	var best *billing.Tariff
	for _, t := range r.s.tariffs {
		candidate := t
		if best == nil ||
			candidate.EffectiveDate.After(best.EffectiveDate) ||
			(candidate.EffectiveDate.Equal(best.EffectiveDate) && candidate.CreatedAt.After(best.CreatedAt)) {
			best = &candidate
		}
	}
	if best == nil {
		return nil, billing.ErrNoTariffDefined
	}
	return best, nil
}

func (r memTariffs) FindAll(_ context.Context) ([]billing.Tariff, error) {
	out := make([]billing.Tariff, 0, len(r.s.tariffs))
	for _, t := range r.s.tariffs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EffectiveDate.After(out[j].EffectiveDate) })
	return out, nil
}

func (r memTariffs) Save(_ context.Context, tariff *billing.Tariff) error {
	r.s.tariffs[tariff.ID] = *tariff
	return nil
}

type memBills struct{ s *memStore }

func (r memBills) FindByID(_ context.Context, id uuid.UUID) (*billing.Bill, error) {
	b, ok := r.s.bills[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &b, nil
}

func (r memBills) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	return r.FindByID(ctx, id)
}

func (r memBills) FindByReading(_ context.Context, readingID uuid.UUID) (*billing.Bill, error) {
	for _, b := range r.s.bills {
		if b.ReadingID == readingID {
			found := b
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memBills) FindByCustomer(_ context.Context, customerID uuid.UUID) ([]billing.Bill, error) {
	out := make([]billing.Bill, 0)
	for _, b := range r.s.bills {
		if b.CustomerID == customerID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memBills) FindUnpaid(_ context.Context) ([]billing.Bill, error) {
	out := make([]billing.Bill, 0)
	for _, b := range r.s.bills {
		if !b.IsPaid {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memBills) Save(_ context.Context, bill *billing.Bill) error {
	for _, b := range r.s.bills {
		if b.ReadingID == bill.ReadingID && b.ID != bill.ID {
			return billing.ErrBillExistsForReading
		}
	}
	r.s.bills[bill.ID] = *bill
	return nil
}

func (r memBills) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.bills, id)
	for pid, p := range r.s.payments {
		if p.BillID == id {
			delete(r.s.payments, pid)
		}
	}
	return nil
}

func (r memBills) SumAmountDueByCustomer(_ context.Context, customerID uuid.UUID, exclude *uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, b := range r.s.bills {
		if b.CustomerID != customerID {
			continue
		}
		if exclude != nil && b.ID == *exclude {
			continue
		}
		total = total.Add(b.AmountDue)
	}
	return total, nil
}

func (r memBills) SumAmountDue(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, b := range r.s.bills {
		total = total.Add(b.AmountDue)
	}
	return total, nil
}

type memPayments struct{ s *memStore }

func (r memPayments) FindByID(_ context.Context, id uuid.UUID) (*billing.Payment, error) {
	p, ok := r.s.payments[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (r memPayments) FindByBill(_ context.Context, billID uuid.UUID) ([]billing.Payment, error) {
	out := make([]billing.Payment, 0)
	for _, p := range r.s.payments {
		if p.BillID == billID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaymentDate.Before(out[j].PaymentDate) })
	return out, nil
}

func (r memPayments) SumByBill(_ context.Context, billID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.s.payments {
		if p.BillID == billID {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (r memPayments) SumByCustomerBills(_ context.Context, customerID uuid.UUID, excludeBill *uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.s.payments {
		if excludeBill != nil && p.BillID == *excludeBill {
			continue
		}
		b, ok := r.s.bills[p.BillID]
		if !ok || b.CustomerID != customerID {
			continue
		}
		total = total.Add(p.Amount)
	}
	return total, nil
}

func (r memPayments) SumAll(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.s.payments {
		total = total.Add(p.Amount)
	}
	return total, nil
}

func (r memPayments) Save(_ context.Context, payment *billing.Payment) error {
	for _, p := range r.s.payments {
		if p.ReferenceNumber == payment.ReferenceNumber && p.ID != payment.ID {
			return billing.ErrDuplicatePaymentReference
		}
	}
	r.s.payments[payment.ID] = *payment
	return nil
}

func (r memPayments) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.payments, id)
	return nil
}

type memNotifications struct{ s *memStore }

func (r memNotifications) FindByCustomer(_ context.Context, customerID uuid.UUID) ([]billing.Notification, error) {
	out := make([]billing.Notification, 0)
	for _, n := range r.s.notifications {
		if n.CustomerID == customerID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memNotifications) FindRecent(_ context.Context, limit int) ([]billing.Notification, error) {
	out := make([]billing.Notification, 0, len(r.s.notifications))
	for _, n := range r.s.notifications {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memNotifications) Save(_ context.Context, notification *billing.Notification) error {
	r.s.notifications[notification.ID] = *notification
	return nil
}

// =============================================================================
// Fixture
// =============================================================================

// recordingPublisher captures events published after committed cascades
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) eventTypes() []string {
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

type fixture struct {
	store   *memStore
	scope   *memScope
	engine  *BillEngine
	bus     *recordingPublisher
	cascade *CascadeService
	service *BillingService
	balance *BalanceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	scope := &memScope{store: store}
	engine := NewBillEngine(billing.DefaultDueDays)
	bus := &recordingPublisher{}
	cascade := NewCascadeService(scope, engine, bus, zap.NewNop())
	service := NewBillingService(cascade, store.Readings(), store.Tariffs(), store.Bills(), store.Payments())
	balance := NewBalanceService(store.Bills(), store.Payments())
	return &fixture{
		store:   store,
		scope:   scope,
		engine:  engine,
		bus:     bus,
		cascade: cascade,
		service: service,
		balance: balance,
	}
}

func (f *fixture) seedCustomerWithMeter(t *testing.T) (*billing.Customer, *billing.Meter) {
	t.Helper()
	customer, err := billing.NewCustomer("Asha Mwangi", "H-"+uuid.NewString()[:8], "12 River Lane", "+254700000000")
	require.NoError(t, err)
	require.NoError(t, f.store.Customers().Save(context.Background(), customer))

	meter, err := billing.NewMeter(customer.ID, "SN-"+uuid.NewString()[:8], time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, f.store.Meters().Save(context.Background(), meter))
	return customer, meter
}

func (f *fixture) seedTariff(t *testing.T, rate string, effective time.Time) *billing.Tariff {
	t.Helper()
	tariff, err := billing.NewTariff(effective, decimal.RequireFromString(rate))
	require.NoError(t, err)
	tariff.ClearDomainEvents()
	require.NoError(t, f.store.Tariffs().Save(context.Background(), tariff))
	return tariff
}

func (f *fixture) submitReading(t *testing.T, meterID uuid.UUID, date time.Time, value string) *billing.MeterReading {
	t.Helper()
	reading, err := billing.NewMeterReading(meterID, date, decimal.RequireFromString(value))
	require.NoError(t, err)
	require.NoError(t, f.cascade.OnReadingSaved(context.Background(), reading, true))
	return reading
}

func (f *fixture) applyPayment(t *testing.T, billID uuid.UUID, amount, ref string) *billing.Payment {
	t.Helper()
	payment, err := billing.NewPayment(billID, decimal.RequireFromString(amount), time.Now(), ref)
	require.NoError(t, err)
	require.NoError(t, f.cascade.OnPaymentSaved(context.Background(), payment, true))
	return payment
}

func (f *fixture) billForReading(t *testing.T, readingID uuid.UUID) *billing.Bill {
	t.Helper()
	bill, err := f.store.Bills().FindByReading(context.Background(), readingID)
	require.NoError(t, err)
	return bill
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

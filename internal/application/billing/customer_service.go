package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/shared"
	"github.com/waterworks/backend/internal/infrastructure/telemetry"
)

// CustomerService handles customer and meter management
type CustomerService struct {
	customers billing.CustomerRepository
	meters    billing.MeterRepository
	balance   *BalanceService
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customers billing.CustomerRepository, meters billing.MeterRepository, balance *BalanceService) *CustomerService {
	return &CustomerService{
		customers: customers,
		meters:    meters,
		balance:   balance,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "create")
	defer span.End()

	if _, err := s.customers.FindByAccountNumber(ctx, req.AccountNumber); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this account number already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		telemetry.RecordError(span, err)
		return nil, err
	}

	customer, err := billing.NewCustomer(req.Name, req.AccountNumber, req.Address, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := ToCustomerResponse(customer, decimal.Zero)
	return &resp, nil
}

// Update applies new contact details to a customer. The account number is
// immutable once assigned.
func (s *CustomerService) Update(ctx context.Context, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "update")
	defer span.End()

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	name, address, phone := customer.Name, customer.Address, customer.Phone
	if req.Name != nil {
		name = *req.Name
	}
	if req.Address != nil {
		address = *req.Address
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if err := customer.Update(name, address, phone); err != nil {
		return nil, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	return s.respond(ctx, customer)
}

// GetByID retrieves a customer with its derived balance
func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "get")
	defer span.End()

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, customer)
}

// List retrieves all customers with their derived balances
func (s *CustomerService) List(ctx context.Context) ([]CustomerResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "list")
	defer span.End()

	customers, err := s.customers.FindAll(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		resp, err := s.respond(ctx, &customers[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// Delete removes a customer. The meter, readings, bills and payments
// hanging off the customer are removed with it.
func (s *CustomerService) Delete(ctx context.Context, customerID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "delete")
	defer span.End()

	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		return err
	}
	if err := s.customers.Delete(ctx, customerID); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	return nil
}

// RegisterMeter installs a meter for a customer. A customer has exactly
// one meter, so registering a second one fails.
func (s *CustomerService) RegisterMeter(ctx context.Context, req RegisterMeterRequest) (*MeterResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "register_meter")
	defer span.End()

	if _, err := s.customers.FindByID(ctx, req.CustomerID); err != nil {
		return nil, err
	}
	if _, err := s.meters.FindByCustomer(ctx, req.CustomerID); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer already has a meter")
	} else if !errors.Is(err, shared.ErrNotFound) {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if _, err := s.meters.FindBySerialNumber(ctx, req.SerialNumber); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Meter with this serial number already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		telemetry.RecordError(span, err)
		return nil, err
	}

	meter, err := billing.NewMeter(req.CustomerID, req.SerialNumber, req.InstallationDate)
	if err != nil {
		return nil, err
	}
	if err := s.meters.Save(ctx, meter); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := ToMeterResponse(meter)
	return &resp, nil
}

// GetMeterByCustomer retrieves the meter installed for a customer
func (s *CustomerService) GetMeterByCustomer(ctx context.Context, customerID uuid.UUID) (*MeterResponse, error) {
	meter, err := s.meters.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	resp := ToMeterResponse(meter)
	return &resp, nil
}

// ListMeters retrieves all meters
func (s *CustomerService) ListMeters(ctx context.Context) ([]MeterResponse, error) {
	meters, err := s.meters.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]MeterResponse, 0, len(meters))
	for i := range meters {
		responses = append(responses, ToMeterResponse(&meters[i]))
	}
	return responses, nil
}

func (s *CustomerService) respond(ctx context.Context, customer *billing.Customer) (*CustomerResponse, error) {
	balance, err := s.balance.CustomerBalance(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer, balance)
	return &resp, nil
}

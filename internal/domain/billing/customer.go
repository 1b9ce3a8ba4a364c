package billing

import (
	"strings"

	"github.com/waterworks/backend/internal/domain/shared"
)

// Customer is an account holder. Each customer owns exactly one meter.
//
// A customer's outstanding balance is never stored: it is always derived
// from bill and payment rows so it cannot drift from the ledger under
// concurrent writes.
type Customer struct {
	shared.BaseEntity
	Name          string
	AccountNumber string // unique house/account number
	Address       string
	Phone         string
}

// NewCustomer creates a new customer
func NewCustomer(name, accountNumber, address, phone string) (*Customer, error) {
	name = strings.TrimSpace(name)
	accountNumber = strings.TrimSpace(accountNumber)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer name cannot be empty")
	}
	if accountNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Account number cannot be empty")
	}
	return &Customer{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          name,
		AccountNumber: accountNumber,
		Address:       address,
		Phone:         phone,
	}, nil
}

// Update applies new contact details to the customer
func (c *Customer) Update(name, address, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Customer name cannot be empty")
	}
	c.Name = name
	c.Address = address
	c.Phone = phone
	return nil
}

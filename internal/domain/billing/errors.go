package billing

import "github.com/waterworks/backend/internal/domain/shared"

// Billing domain errors
var (
	// ErrNoTariffDefined is returned when a bill computation needs a rate
	// but no tariff record exists. Bill creation and recomputation abort
	// without writing partial state.
	ErrNoTariffDefined = shared.NewDomainError("NO_TARIFF_DEFINED", "No tariff defined")

	// ErrDuplicateReading is returned when a second reading is submitted
	// for the same meter and date.
	ErrDuplicateReading = shared.NewDomainError("DUPLICATE_READING", "A reading already exists for this meter and date")

	// ErrDuplicatePaymentReference is returned when a payment reuses an
	// existing reference number.
	ErrDuplicatePaymentReference = shared.NewDomainError("DUPLICATE_PAYMENT_REFERENCE", "Payment reference number already exists")

	// ErrBillExistsForReading is returned when bill creation is attempted
	// for a reading that already has one.
	ErrBillExistsForReading = shared.NewDomainError("BILL_EXISTS_FOR_READING", "Reading already has a bill")
)

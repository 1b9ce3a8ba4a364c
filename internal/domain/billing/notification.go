package billing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/waterworks/backend/internal/domain/shared"
)

// Notification is an informational message for a customer. It is produced
// from billing events but never consumed by the billing cascade itself.
type Notification struct {
	shared.BaseEntity
	CustomerID uuid.UUID
	Message    string
	IsSent     bool
}

// NewNotification creates a new pending notification for a customer
func NewNotification(customerID uuid.UUID, message string) (*Notification, error) {
	message = strings.TrimSpace(message)
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Notification must belong to a customer")
	}
	if message == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Notification message cannot be empty")
	}
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		Message:    message,
	}, nil
}

// MarkSent marks the notification as delivered
func (n *Notification) MarkSent() {
	n.IsSent = true
}

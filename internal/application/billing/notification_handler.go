package billing

import (
	"context"
	"fmt"

	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NotificationHandler listens for bill lifecycle events and records a
// notification row per affected customer. It runs after the cascade's
// transaction committed, so a failed notification never undoes billing
// state.
type NotificationHandler struct {
	notifications billing.NotificationRepository
	logger        *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications billing.NotificationRepository, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *NotificationHandler) EventTypes() []string {
	return []string{"BillIssued", "BillPaid", "BillReopened"}
}

// Handle records a notification for the customer behind the event
func (h *NotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var message string
	var customerID = event.AggregateID()

	switch e := event.(type) {
	case *billing.BillIssuedEvent:
		customerID = e.CustomerID
		message = fmt.Sprintf("A new bill of %s is due on %s.",
			e.AmountDue.StringFixed(2), e.DueDate.Format("2006-01-02"))
	case *billing.BillPaidEvent:
		customerID = e.CustomerID
		message = fmt.Sprintf("Your bill of %s has been fully paid. Thank you.",
			e.AmountDue.StringFixed(2))
	case *billing.BillReopenedEvent:
		customerID = e.CustomerID
		message = fmt.Sprintf("Your bill was updated and now has %s outstanding.",
			e.AmountDue.StringFixed(2))
	default:
		return nil
	}

	notification, err := billing.NewNotification(customerID, message)
	if err != nil {
		return fmt.Errorf("failed to build notification: %w", err)
	}
	if err := h.notifications.Save(ctx, notification); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}

	h.logger.Debug("notification recorded",
		zap.String("customer_id", customerID.String()),
		zap.String("event_type", event.EventType()),
	)
	return nil
}

var _ shared.EventHandler = (*NotificationHandler)(nil)

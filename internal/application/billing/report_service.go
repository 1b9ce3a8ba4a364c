package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/infrastructure/telemetry"
)

const recentNotificationLimit = 10

// ReportService assembles read-only overviews of the ledger
type ReportService struct {
	customers     billing.CustomerRepository
	readings      billing.MeterReadingRepository
	notifications billing.NotificationRepository
	balance       *BalanceService
}

// NewReportService creates a new ReportService
func NewReportService(
	customers billing.CustomerRepository,
	readings billing.MeterReadingRepository,
	notifications billing.NotificationRepository,
	balance *BalanceService,
) *ReportService {
	return &ReportService{
		customers:     customers,
		readings:      readings,
		notifications: notifications,
		balance:       balance,
	}
}

// Dashboard summarizes the ledger: customer count, total outstanding
// across all customers, today's reading intake and the latest
// notifications. Every figure is derived on the fly.
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "dashboard")
	defer span.End()

	customerCount, err := s.customers.Count(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	outstanding, err := s.balance.TotalOutstanding(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	readingsToday, err := s.readings.CountByDate(ctx, billing.DateOf(time.Now()))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	recent, err := s.notifications.FindRecent(ctx, recentNotificationLimit)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	notifications := make([]NotificationResponse, 0, len(recent))
	for i := range recent {
		notifications = append(notifications, ToNotificationResponse(&recent[i]))
	}

	return &DashboardResponse{
		CustomerCount:       customerCount,
		TotalOutstanding:    outstanding,
		ReadingsToday:       readingsToday,
		RecentNotifications: notifications,
	}, nil
}

// CustomerNotifications lists the notifications recorded for a customer
func (s *ReportService) CustomerNotifications(ctx context.Context, customerID uuid.UUID) ([]NotificationResponse, error) {
	rows, err := s.notifications.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	responses := make([]NotificationResponse, 0, len(rows))
	for i := range rows {
		responses = append(responses, ToNotificationResponse(&rows[i]))
	}
	return responses, nil
}

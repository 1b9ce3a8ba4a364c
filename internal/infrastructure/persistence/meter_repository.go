package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/shared"
	"github.com/waterworks/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMeterRepository implements MeterRepository using GORM
type GormMeterRepository struct {
	db *gorm.DB
}

// NewGormMeterRepository creates a new GormMeterRepository
func NewGormMeterRepository(db *gorm.DB) *GormMeterRepository {
	return &GormMeterRepository{db: db}
}

// FindByID finds a meter by its ID
func (r *GormMeterRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Meter, error) {
	var model models.MeterModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer finds the customer's meter. Each customer has at most one.
func (r *GormMeterRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*billing.Meter, error) {
	var model models.MeterModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySerialNumber finds a meter by its serial number
func (r *GormMeterRepository) FindBySerialNumber(ctx context.Context, serialNumber string) (*billing.Meter, error) {
	var model models.MeterModel
	if err := r.db.WithContext(ctx).
		Where("serial_number = ?", serialNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all meters ordered by serial number
func (r *GormMeterRepository) FindAll(ctx context.Context) ([]billing.Meter, error) {
	var meterModels []models.MeterModel
	if err := r.db.WithContext(ctx).
		Order("serial_number ASC").
		Find(&meterModels).Error; err != nil {
		return nil, err
	}

	meters := make([]billing.Meter, len(meterModels))
	for i, model := range meterModels {
		meters[i] = *model.ToDomain()
	}
	return meters, nil
}

// Save creates or updates a meter
func (r *GormMeterRepository) Save(ctx context.Context, meter *billing.Meter) error {
	model := models.MeterModelFromDomain(meter)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete deletes a meter and, through the cascading foreign keys, its readings
func (r *GormMeterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MeterModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormMeterRepository implements MeterRepository
var _ billing.MeterRepository = (*GormMeterRepository)(nil)

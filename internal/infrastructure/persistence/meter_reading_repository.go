package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/shared"
	"github.com/waterworks/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMeterReadingRepository implements MeterReadingRepository using GORM
type GormMeterReadingRepository struct {
	db *gorm.DB
}

// NewGormMeterReadingRepository creates a new GormMeterReadingRepository
func NewGormMeterReadingRepository(db *gorm.DB) *GormMeterReadingRepository {
	return &GormMeterReadingRepository{db: db}
}

// FindByID finds a reading by its ID
func (r *GormMeterReadingRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.MeterReading, error) {
	var model models.MeterReadingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByMeter returns a meter's readings ordered by reading date ascending
func (r *GormMeterReadingRepository) FindByMeter(ctx context.Context, meterID uuid.UUID) ([]billing.MeterReading, error) {
	var readingModels []models.MeterReadingModel
	if err := r.db.WithContext(ctx).
		Where("meter_id = ?", meterID).
		Order("reading_date ASC").
		Find(&readingModels).Error; err != nil {
		return nil, err
	}

	readings := make([]billing.MeterReading, len(readingModels))
	for i, model := range readingModels {
		readings[i] = *model.ToDomain()
	}
	return readings, nil
}

// FindPredecessor returns the reading on the meter with the latest reading
// date strictly before the given date, excluding the reading being computed.
func (r *GormMeterReadingRepository) FindPredecessor(ctx context.Context, meterID uuid.UUID, before time.Time, exclude uuid.UUID) (*billing.MeterReading, error) {
	var model models.MeterReadingModel
	if err := r.db.WithContext(ctx).
		Where("meter_id = ? AND reading_date < ? AND id <> ?", meterID, billing.DateOf(before), exclude).
		Order("reading_date DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CountByDate counts the readings taken on a calendar date
func (r *GormMeterReadingRepository) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MeterReadingModel{}).
		Where("reading_date = ?", billing.DateOf(date)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a reading
func (r *GormMeterReadingRepository) Save(ctx context.Context, reading *billing.MeterReading) error {
	model := models.MeterReadingModelFromDomain(reading)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return billing.ErrDuplicateReading
		}
		return err
	}
	return nil
}

// Delete deletes a reading
func (r *GormMeterReadingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MeterReadingModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormMeterReadingRepository implements MeterReadingRepository
var _ billing.MeterReadingRepository = (*GormMeterReadingRepository)(nil)

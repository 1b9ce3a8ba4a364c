package persistence

import (
	"context"
	"errors"

	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTariffRepository implements TariffRepository using GORM
type GormTariffRepository struct {
	db *gorm.DB
}

// NewGormTariffRepository creates a new GormTariffRepository
func NewGormTariffRepository(db *gorm.DB) *GormTariffRepository {
	return &GormTariffRepository{db: db}
}

// FindEffective returns the tariff with the latest effective date, ties
// broken by most recent creation. Returns ErrNoTariffDefined when the
// tariff table is empty.
func (r *GormTariffRepository) FindEffective(ctx context.Context) (*billing.Tariff, error) {
	var model models.TariffModel
	if err := r.db.WithContext(ctx).
		Order("effective_date DESC, created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billing.ErrNoTariffDefined
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all tariffs, newest effective date first
func (r *GormTariffRepository) FindAll(ctx context.Context) ([]billing.Tariff, error) {
	var tariffModels []models.TariffModel
	if err := r.db.WithContext(ctx).
		Order("effective_date DESC, created_at DESC").
		Find(&tariffModels).Error; err != nil {
		return nil, err
	}

	tariffs := make([]billing.Tariff, len(tariffModels))
	for i, model := range tariffModels {
		tariffs[i] = *model.ToDomain()
	}
	return tariffs, nil
}

// Save creates or updates a tariff
func (r *GormTariffRepository) Save(ctx context.Context, tariff *billing.Tariff) error {
	model := models.TariffModelFromDomain(tariff)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormTariffRepository implements TariffRepository
var _ billing.TariffRepository = (*GormTariffRepository)(nil)

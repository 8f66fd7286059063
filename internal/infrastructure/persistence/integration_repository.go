package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/channelsync/backend/internal/domain/integration"
	"github.com/channelsync/backend/internal/infrastructure/persistence/models"
)

// GormIntegrationRepository implements IntegrationDirectory using GORM
type GormIntegrationRepository struct {
	db *gorm.DB
}

var _ integration.IntegrationDirectory = (*GormIntegrationRepository)(nil)

// NewGormIntegrationRepository creates a new GormIntegrationRepository
func NewGormIntegrationRepository(db *gorm.DB) *GormIntegrationRepository {
	return &GormIntegrationRepository{db: db}
}

// FindByUUID finds an integration by its uuid
func (r *GormIntegrationRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*integration.Integration, error) {
	var model models.IntegrationModel
	if err := r.db.WithContext(ctx).First(&model, "uuid = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", integration.ErrIntegrationNotFound, id)
		}
		return nil, err
	}
	domain := model.ToDomain()
	return &domain, nil
}

// ActiveSiblings returns the active integrations sharing a merchant with
// originUUID, excluding originUUID itself.
func (r *GormIntegrationRepository) ActiveSiblings(ctx context.Context, originUUID uuid.UUID) ([]integration.Integration, error) {
	var origin models.IntegrationModel
	if err := r.db.WithContext(ctx).First(&origin, "uuid = ?", originUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", integration.ErrIntegrationNotFound, originUUID)
		}
		return nil, err
	}

	var siblingModels []models.IntegrationModel
	if err := r.db.WithContext(ctx).
		Where("merchant_uuid = ? AND status = ? AND uuid != ?",
			origin.MerchantUUID, integration.StatusActive, originUUID).
		Find(&siblingModels).Error; err != nil {
		return nil, err
	}

	siblings := make([]integration.Integration, len(siblingModels))
	for i, model := range siblingModels {
		siblings[i] = model.ToDomain()
	}
	return siblings, nil
}

// ActiveByPlatform returns every active integration on the given platform
// across all merchants.
func (r *GormIntegrationRepository) ActiveByPlatform(ctx context.Context, code integration.PlatformCode) ([]integration.Integration, error) {
	var integrationModels []models.IntegrationModel
	if err := r.db.WithContext(ctx).
		Where("platform = ? AND status = ?", code, integration.StatusActive).
		Find(&integrationModels).Error; err != nil {
		return nil, err
	}

	integrations := make([]integration.Integration, len(integrationModels))
	for i, model := range integrationModels {
		integrations[i] = model.ToDomain()
	}
	return integrations, nil
}

// Create persists a new integration under the given merchant
func (r *GormIntegrationRepository) Create(ctx context.Context, merchantUUID uuid.UUID, in integration.Integration) error {
	var model models.IntegrationModel
	model.FromDomain(merchantUUID, in)
	if model.UUID == uuid.Nil {
		model.UUID = uuid.New()
	}
	now := time.Now()
	model.CreatedAt = now
	model.UpdatedAt = now
	return r.db.WithContext(ctx).Create(&model).Error
}

// UpdateStatus moves an integration to the given lifecycle status
func (r *GormIntegrationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status integration.Status) error {
	result := r.db.WithContext(ctx).Model(&models.IntegrationModel{}).
		Where("uuid = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", integration.ErrIntegrationNotFound, id)
	}
	return nil
}

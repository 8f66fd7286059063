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

// GormBaseLinkerTokenRepository implements BaseLinkerTokenStore using GORM.
type GormBaseLinkerTokenRepository struct {
	db *gorm.DB
}

var _ integration.BaseLinkerTokenStore = (*GormBaseLinkerTokenRepository)(nil)

// NewGormBaseLinkerTokenRepository creates a new GormBaseLinkerTokenRepository
func NewGormBaseLinkerTokenRepository(db *gorm.DB) *GormBaseLinkerTokenRepository {
	return &GormBaseLinkerTokenRepository{db: db}
}

// Token returns the encrypted token for the integration
func (r *GormBaseLinkerTokenRepository) Token(ctx context.Context, integrationUUID uuid.UUID) (string, error) {
	var model models.BaseLinkerTokenModel
	if err := r.db.WithContext(ctx).
		First(&model, "integration_uuid = ?", integrationUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: baselinker token for %s", integration.ErrCredentialMissing, integrationUUID)
		}
		return "", err
	}
	return model.Token, nil
}

// Upsert stores or replaces the encrypted token for the integration and
// returns the token record uuid.
func (r *GormBaseLinkerTokenRepository) Upsert(ctx context.Context, integrationUUID uuid.UUID, encryptedToken string) (uuid.UUID, error) {
	var model models.BaseLinkerTokenModel
	err := r.db.WithContext(ctx).
		First(&model, "integration_uuid = ?", integrationUUID).Error
	switch {
	case err == nil:
		result := r.db.WithContext(ctx).Model(&models.BaseLinkerTokenModel{}).
			Where("uuid = ?", model.UUID).
			Updates(map[string]any{"token": encryptedToken, "updated_at": time.Now()})
		if result.Error != nil {
			return uuid.Nil, result.Error
		}
		return model.UUID, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		now := time.Now()
		model = models.BaseLinkerTokenModel{
			UUID:            uuid.New(),
			IntegrationUUID: integrationUUID,
			Token:           encryptedToken,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
			return uuid.Nil, err
		}
		return model.UUID, nil
	default:
		return uuid.Nil, err
	}
}

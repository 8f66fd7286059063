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

// GormApiloTokenRepository implements ApiloCredentialStore using GORM. Rows
// always hold ciphertext; encryption happens above this layer.
type GormApiloTokenRepository struct {
	db *gorm.DB
}

var _ integration.ApiloCredentialStore = (*GormApiloTokenRepository)(nil)

// NewGormApiloTokenRepository creates a new GormApiloTokenRepository
func NewGormApiloTokenRepository(db *gorm.DB) *GormApiloTokenRepository {
	return &GormApiloTokenRepository{db: db}
}

// Credential returns the credential record for the integration
func (r *GormApiloTokenRepository) Credential(ctx context.Context, integrationUUID uuid.UUID) (*integration.ApiloCredential, error) {
	var model models.ApiloTokenModel
	if err := r.db.WithContext(ctx).
		First(&model, "integration_uuid = ?", integrationUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: apilo credential for %s", integration.ErrCredentialMissing, integrationUUID)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Insert stores a new credential record
func (r *GormApiloTokenRepository) Insert(ctx context.Context, cred *integration.ApiloCredential) error {
	var model models.ApiloTokenModel
	model.FromDomain(cred)
	now := time.Now()
	model.CreatedAt = now
	model.UpdatedAt = now
	return r.db.WithContext(ctx).Create(&model).Error
}

// UpdateTokens replaces the token material after a refresh exchange
func (r *GormApiloTokenRepository) UpdateTokens(ctx context.Context, tokenUUID uuid.UUID, accessToken string, accessExpireAt int64, refreshToken string, refreshExpireAt int64) error {
	result := r.db.WithContext(ctx).Model(&models.ApiloTokenModel{}).
		Where("uuid = ?", tokenUUID).
		Updates(map[string]any{
			"access_token":            accessToken,
			"access_token_expire_at":  accessExpireAt,
			"refresh_token":           refreshToken,
			"refresh_token_expire_at": refreshExpireAt,
			"updated_at":              time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: apilo token record %s", integration.ErrCredentialMissing, tokenUUID)
	}
	return nil
}

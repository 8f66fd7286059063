package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/channelsync/backend/internal/domain/integration"
	"github.com/channelsync/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements OrderStore using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

var _ integration.OrderStore = (*GormOrderRepository)(nil)

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// OrderExists reports whether the external order id was already recorded for
// the integration
func (r *GormOrderRepository) OrderExists(ctx context.Context, integrationUUID uuid.UUID, externalOrderID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("integration_uuid = ? AND external_order_id = ?", integrationUUID, externalOrderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveOrder persists the order payload under a freshly generated order uuid
func (r *GormOrderRepository) SaveOrder(ctx context.Context, integrationUUID uuid.UUID, externalOrderID string, payload []byte) (uuid.UUID, error) {
	model := models.OrderModel{
		UUID:            uuid.New(),
		IntegrationUUID: integrationUUID,
		ExternalOrderID: externalOrderID,
		Payload:         string(payload),
		CreatedAt:       time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return uuid.Nil, err
	}
	return model.UUID, nil
}

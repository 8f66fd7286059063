package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel is the persistence model for a recorded order. The payload is
// the platform's order document as received; the composite unique index on
// (integration_uuid, external_order_id) is what makes order intake
// idempotent.
type OrderModel struct {
	UUID            uuid.UUID `gorm:"type:uuid;primary_key"`
	IntegrationUUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_orders_integration_external,priority:1"`
	ExternalOrderID string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_orders_integration_external,priority:2"`
	Payload         string    `gorm:"type:jsonb;not null"`
	CreatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

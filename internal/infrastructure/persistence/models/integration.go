package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/channelsync/backend/internal/domain/integration"
)

// MerchantModel is the persistence model for a merchant account. Integrations
// hang off merchants; siblings share a merchant uuid.
type MerchantModel struct {
	UUID      uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MerchantModel) TableName() string {
	return "merchants"
}

// IntegrationModel is the persistence model for one connected platform
// account.
type IntegrationModel struct {
	UUID         uuid.UUID                `gorm:"type:uuid;primary_key"`
	MerchantUUID uuid.UUID                `gorm:"type:uuid;not null;index:idx_integrations_merchant"`
	Name         string                   `gorm:"type:varchar(255);not null"`
	Platform     integration.PlatformCode `gorm:"type:varchar(20);not null;index:idx_integrations_platform"`
	Status       integration.Status       `gorm:"type:varchar(20);not null;default:'pending'"`
	SiteURL      string                   `gorm:"type:varchar(500)"`
	CreatedAt    time.Time                `gorm:"not null"`
	UpdatedAt    time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (IntegrationModel) TableName() string {
	return "integrations"
}

// ToDomain converts the persistence model to a domain Integration.
func (m *IntegrationModel) ToDomain() integration.Integration {
	return integration.Integration{
		UUID:     m.UUID,
		Name:     m.Name,
		Platform: m.Platform,
		Status:   m.Status,
		SiteURL:  m.SiteURL,
	}
}

// FromDomain populates the persistence model from a domain Integration.
func (m *IntegrationModel) FromDomain(merchantUUID uuid.UUID, in integration.Integration) {
	m.UUID = in.UUID
	m.MerchantUUID = merchantUUID
	m.Name = in.Name
	m.Platform = in.Platform
	m.Status = in.Status
	m.SiteURL = in.SiteURL
}

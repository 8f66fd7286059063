package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/channelsync/backend/internal/domain/integration"
)

// ApiloTokenModel is the persistence model for an Apilo credential record.
// Token and secret columns hold ciphertext produced by the credential cipher.
type ApiloTokenModel struct {
	UUID                 uuid.UUID `gorm:"type:uuid;primary_key"`
	IntegrationUUID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_apilo_tokens_integration"`
	Endpoint             string    `gorm:"type:varchar(500);not null"`
	ClientID             int64     `gorm:"not null"`
	ClientSecret         string    `gorm:"type:text;not null"`
	AccessToken          string    `gorm:"type:text;not null"`
	AccessTokenExpireAt  int64     `gorm:"not null"`
	RefreshToken         string    `gorm:"type:text;not null"`
	RefreshTokenExpireAt int64     `gorm:"not null"`
	CreatedAt            time.Time `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ApiloTokenModel) TableName() string {
	return "apilo_tokens"
}

// ToDomain converts the persistence model to a domain ApiloCredential.
func (m *ApiloTokenModel) ToDomain() *integration.ApiloCredential {
	return &integration.ApiloCredential{
		TokenUUID:            m.UUID,
		IntegrationUUID:      m.IntegrationUUID,
		Endpoint:             m.Endpoint,
		ClientID:             m.ClientID,
		ClientSecret:         m.ClientSecret,
		AccessToken:          m.AccessToken,
		AccessTokenExpireAt:  m.AccessTokenExpireAt,
		RefreshToken:         m.RefreshToken,
		RefreshTokenExpireAt: m.RefreshTokenExpireAt,
	}
}

// FromDomain populates the persistence model from a domain ApiloCredential.
func (m *ApiloTokenModel) FromDomain(cred *integration.ApiloCredential) {
	m.UUID = cred.TokenUUID
	m.IntegrationUUID = cred.IntegrationUUID
	m.Endpoint = cred.Endpoint
	m.ClientID = cred.ClientID
	m.ClientSecret = cred.ClientSecret
	m.AccessToken = cred.AccessToken
	m.AccessTokenExpireAt = cred.AccessTokenExpireAt
	m.RefreshToken = cred.RefreshToken
	m.RefreshTokenExpireAt = cred.RefreshTokenExpireAt
}

// BaseLinkerTokenModel is the persistence model for one integration's
// encrypted BaseLinker API token.
type BaseLinkerTokenModel struct {
	UUID            uuid.UUID `gorm:"type:uuid;primary_key"`
	IntegrationUUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_baselinker_tokens_integration"`
	Token           string    `gorm:"type:text;not null"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BaseLinkerTokenModel) TableName() string {
	return "baselinker_tokens"
}

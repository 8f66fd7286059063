package integration

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Collaborator Ports
// ---------------------------------------------------------------------------

// IntegrationDirectory exposes the narrow read operations the core needs
// from integration management. Implementations live in the persistence layer.
type IntegrationDirectory interface {
	// ActiveSiblings returns the active integrations belonging to the same
	// merchant as originUUID, excluding originUUID itself. These are the
	// fan-out targets for a change originating on that integration.
	ActiveSiblings(ctx context.Context, originUUID uuid.UUID) ([]Integration, error)

	// ActiveByPlatform returns every active integration on the given
	// platform across all merchants. Used by the scheduled product sync.
	ActiveByPlatform(ctx context.Context, code PlatformCode) ([]Integration, error)
}

// OrderStore persists canonical order blobs keyed by integration and the
// platform's external order id.
type OrderStore interface {
	// OrderExists reports whether the external order id was already recorded
	// for the integration
	OrderExists(ctx context.Context, integrationUUID uuid.UUID, externalOrderID string) (bool, error)

	// SaveOrder persists the order JSON under a freshly generated order uuid
	// and returns that uuid
	SaveOrder(ctx context.Context, integrationUUID uuid.UUID, externalOrderID string, payload []byte) (uuid.UUID, error)
}

// ForwardResponse is the downstream processor's reply to an order reference.
type ForwardResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// OrderSyncResult is the webhook reply to an order notification. A first
// delivery carries the uuid the order was stored under; a duplicate carries
// the downstream processor's reply to the re-forwarded reference.
type OrderSyncResult struct {
	OrderUUID string           `json:"orderUuid,omitempty"`
	Forwarded *ForwardResponse `json:"forwarded,omitempty"`
}

// OrderForwarder hands an already-recorded order reference to the downstream
// processing service.
type OrderForwarder interface {
	ForwardOrderReference(ctx context.Context, integrationUUID uuid.UUID, externalOrderID string) (*ForwardResponse, error)
}

// OrderFetcher pulls an order's full details from a platform. Implemented by
// the platform services whose platforms emit order notifications.
type OrderFetcher interface {
	Platform() PlatformCode

	// FetchOrder returns the platform's order payload as canonical JSON
	FetchOrder(ctx context.Context, target Integration, externalOrderID string) ([]byte, error)
}

// SeenOrderCache is a fast-path dedup layer in front of OrderStore. A cache
// miss is never authoritative; callers fall through to the store.
type SeenOrderCache interface {
	Seen(ctx context.Context, integrationUUID uuid.UUID, externalOrderID string) (bool, error)
	MarkSeen(ctx context.Context, integrationUUID uuid.UUID, externalOrderID string) error
}

// CredentialCipher encrypts and decrypts credential material for storage at
// rest. Token material only exists in plaintext inside an operation's
// lifetime; everything handed to a store is ciphertext.
type CredentialCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// ---------------------------------------------------------------------------
// Credential Records
// ---------------------------------------------------------------------------

// ApiloCredential is the OAuth credential record for one Apilo integration.
// Token and secret fields hold ciphertext when read from or written to a
// store; services decrypt ephemerally via CredentialCipher.
type ApiloCredential struct {
	TokenUUID            uuid.UUID
	IntegrationUUID      uuid.UUID
	Endpoint             string
	ClientID             int64
	ClientSecret         string
	AccessToken          string
	AccessTokenExpireAt  int64 // unix seconds
	RefreshToken         string
	RefreshTokenExpireAt int64 // unix seconds
}

// ApiloCredentialStore persists encrypted Apilo credential records.
type ApiloCredentialStore interface {
	// Credential returns the record for the integration, or
	// ErrCredentialMissing
	Credential(ctx context.Context, integrationUUID uuid.UUID) (*ApiloCredential, error)

	// Insert stores a new record created by the authorization-code exchange
	Insert(ctx context.Context, cred *ApiloCredential) error

	// UpdateTokens replaces the token material after a refresh exchange
	UpdateTokens(ctx context.Context, tokenUUID uuid.UUID, accessToken string, accessExpireAt int64, refreshToken string, refreshExpireAt int64) error
}

// BaseLinkerTokenStore persists the encrypted BaseLinker API token per
// integration.
type BaseLinkerTokenStore interface {
	// Token returns the encrypted token for the integration, or
	// ErrCredentialMissing
	Token(ctx context.Context, integrationUUID uuid.UUID) (string, error)

	// Upsert stores or replaces the encrypted token and returns the token
	// record uuid
	Upsert(ctx context.Context, integrationUUID uuid.UUID, encryptedToken string) (uuid.UUID, error)
}

package ecommerce

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/domain/integration"
)

// apiloExpireThreshold is the margin below which an access token counts as
// expired, absorbing clock skew and request latency.
const apiloExpireThreshold = 300 * time.Second

const (
	grantAuthorizationCode = "authorization_code"
	grantRefreshToken      = "refresh_token"
)

// ApiloInitParams carries everything needed for the one-time
// authorization-code exchange that connects an Apilo account.
type ApiloInitParams struct {
	IntegrationUUID uuid.UUID
	Endpoint        string
	ClientID        int64
	ClientSecret    string
	AuthCode        string
}

// ApiloCredentialManager owns the Apilo OAuth lifecycle: the one-time init
// exchange, encrypted persistence, and transparent refresh on read. Callers
// receive decrypted records whose access token is guaranteed usable for at
// least the expiry threshold.
//
// Refresh is serialized per integration: concurrent propagation runs against
// the same account wait on the integration's lock instead of racing two
// refresh exchanges, the second of which would invalidate the first's
// refresh token.
type ApiloCredentialManager struct {
	store  integration.ApiloCredentialStore
	cipher integration.CredentialCipher
	client *ApiloClient
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewApiloCredentialManager creates a new ApiloCredentialManager
func NewApiloCredentialManager(
	store integration.ApiloCredentialStore,
	cipher integration.CredentialCipher,
	client *ApiloClient,
	logger *zap.Logger,
) *ApiloCredentialManager {
	return &ApiloCredentialManager{
		store:  store,
		cipher: cipher,
		client: client,
		logger: logger,
		now:    time.Now,
		locks:  make(map[uuid.UUID]*sync.Mutex),
	}
}

// Initialize performs the authorization-code exchange and persists the
// encrypted credential record. Returns the generated token uuid.
func (m *ApiloCredentialManager) Initialize(ctx context.Context, params ApiloInitParams) (uuid.UUID, error) {
	auth, err := m.client.Authorize(ctx, params.Endpoint, params.ClientID, params.ClientSecret, grantAuthorizationCode, params.AuthCode)
	if err != nil {
		return uuid.Nil, err
	}

	accessExpire, refreshExpire, err := parseApiloExpiries(auth)
	if err != nil {
		return uuid.Nil, err
	}

	encAccess, err := m.cipher.Encrypt(auth.AccessToken)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encrypt access token: %w", err)
	}
	encRefresh, err := m.cipher.Encrypt(auth.RefreshToken)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encrypt refresh token: %w", err)
	}
	encSecret, err := m.cipher.Encrypt(params.ClientSecret)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encrypt client secret: %w", err)
	}

	record := &integration.ApiloCredential{
		TokenUUID:            uuid.New(),
		IntegrationUUID:      params.IntegrationUUID,
		Endpoint:             params.Endpoint,
		ClientID:             params.ClientID,
		ClientSecret:         encSecret,
		AccessToken:          encAccess,
		AccessTokenExpireAt:  accessExpire,
		RefreshToken:         encRefresh,
		RefreshTokenExpireAt: refreshExpire,
	}
	if err := m.store.Insert(ctx, record); err != nil {
		return uuid.Nil, fmt.Errorf("persist apilo credential: %w", err)
	}

	m.logger.Info("apilo integration initialized",
		zap.String("integration_uuid", params.IntegrationUUID.String()),
		zap.String("token_uuid", record.TokenUUID.String()))
	return record.TokenUUID, nil
}

// Credential returns the integration's decrypted credential record,
// refreshing the token material first when the access token is within the
// expiry threshold.
func (m *ApiloCredentialManager) Credential(ctx context.Context, integrationUUID uuid.UUID) (*integration.ApiloCredential, error) {
	lock := m.lockFor(integrationUUID)
	lock.Lock()
	defer lock.Unlock()

	stored, err := m.store.Credential(ctx, integrationUUID)
	if err != nil {
		return nil, err
	}

	cred := *stored
	if cred.AccessToken, err = m.cipher.Decrypt(stored.AccessToken); err != nil {
		return nil, fmt.Errorf("%w: access token: %v", integration.ErrCredentialDecrypt, err)
	}
	if cred.RefreshToken, err = m.cipher.Decrypt(stored.RefreshToken); err != nil {
		return nil, fmt.Errorf("%w: refresh token: %v", integration.ErrCredentialDecrypt, err)
	}
	if cred.ClientSecret, err = m.cipher.Decrypt(stored.ClientSecret); err != nil {
		return nil, fmt.Errorf("%w: client secret: %v", integration.ErrCredentialDecrypt, err)
	}

	if m.now().Unix() < cred.AccessTokenExpireAt-int64(apiloExpireThreshold.Seconds()) {
		return &cred, nil
	}

	m.logger.Info("apilo access token near expiry, refreshing",
		zap.String("integration_uuid", integrationUUID.String()),
		zap.Int64("expire_at", cred.AccessTokenExpireAt))

	auth, err := m.client.Authorize(ctx, cred.Endpoint, cred.ClientID, cred.ClientSecret, grantRefreshToken, cred.RefreshToken)
	if err != nil {
		return nil, err
	}
	accessExpire, refreshExpire, err := parseApiloExpiries(auth)
	if err != nil {
		return nil, err
	}

	encAccess, err := m.cipher.Encrypt(auth.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("encrypt refreshed access token: %w", err)
	}
	encRefresh, err := m.cipher.Encrypt(auth.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("encrypt refreshed refresh token: %w", err)
	}

	if err := m.store.UpdateTokens(ctx, cred.TokenUUID, encAccess, accessExpire, encRefresh, refreshExpire); err != nil {
		return nil, fmt.Errorf("persist refreshed apilo tokens: %w", err)
	}

	cred.AccessToken = auth.AccessToken
	cred.RefreshToken = auth.RefreshToken
	cred.AccessTokenExpireAt = accessExpire
	cred.RefreshTokenExpireAt = refreshExpire
	return &cred, nil
}

func (m *ApiloCredentialManager) lockFor(integrationUUID uuid.UUID) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[integrationUUID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[integrationUUID] = lock
	}
	return lock
}

func parseApiloExpiries(auth *ApiloAuthResponse) (access int64, refresh int64, err error) {
	accessAt, err := time.Parse(time.RFC3339, auth.AccessTokenExpireAt)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: access token expiry %q: %v", integration.ErrCredentialRefresh, auth.AccessTokenExpireAt, err)
	}
	refreshAt, err := time.Parse(time.RFC3339, auth.RefreshTokenExpireAt)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: refresh token expiry %q: %v", integration.ErrCredentialRefresh, auth.RefreshTokenExpireAt, err)
	}
	return accessAt.Unix(), refreshAt.Unix(), nil
}

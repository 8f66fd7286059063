package ecommerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/domain/integration"
)

// fakeCipher marks values instead of encrypting so tests can assert what
// went to the store.
type fakeCipher struct{}

func (fakeCipher) Encrypt(plaintext string) (string, error) {
	return "enc(" + plaintext + ")", nil
}

func (fakeCipher) Decrypt(material string) (string, error) {
	if !strings.HasPrefix(material, "enc(") || !strings.HasSuffix(material, ")") {
		return "", errors.New("not encrypted material")
	}
	return strings.TrimSuffix(strings.TrimPrefix(material, "enc("), ")"), nil
}

type fakeApiloStore struct {
	mu      sync.Mutex
	record  *integration.ApiloCredential
	updates int
}

func (f *fakeApiloStore) Credential(_ context.Context, integrationUUID uuid.UUID) (*integration.ApiloCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.record == nil || f.record.IntegrationUUID != integrationUUID {
		return nil, integration.ErrCredentialMissing
	}
	copied := *f.record
	return &copied, nil
}

func (f *fakeApiloStore) Insert(_ context.Context, cred *integration.ApiloCredential) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *cred
	f.record = &copied
	return nil
}

func (f *fakeApiloStore) UpdateTokens(_ context.Context, tokenUUID uuid.UUID, accessToken string, accessExpireAt int64, refreshToken string, refreshExpireAt int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.record == nil || f.record.TokenUUID != tokenUUID {
		return integration.ErrCredentialMissing
	}
	f.updates++
	f.record.AccessToken = accessToken
	f.record.AccessTokenExpireAt = accessExpireAt
	f.record.RefreshToken = refreshToken
	f.record.RefreshTokenExpireAt = refreshExpireAt
	return nil
}

// apiloTestServer simulates the relevant slice of the Apilo REST API.
type apiloTestServer struct {
	server     *httptest.Server
	mu         sync.Mutex
	catalog    []ApiloProduct
	authCalls  int
	putBodies  [][]byte
	postBodies [][]byte
	listCalls  int
	deleted    []string
}

func newApiloTestServer(t *testing.T) *apiloTestServer {
	t.Helper()
	a := &apiloTestServer{}
	a.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()
		switch {
		case r.URL.Path == "/rest/auth/token/" && r.Method == http.MethodPost:
			a.authCalls++
			expire := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
			_ = json.NewEncoder(w).Encode(ApiloAuthResponse{
				AccessToken:          "fresh-access",
				AccessTokenExpireAt:  expire,
				RefreshToken:         "fresh-refresh",
				RefreshTokenExpireAt: expire,
			})
		case r.URL.Path == "/rest/api/warehouse/product/" && r.Method == http.MethodGet:
			a.listCalls++
			_ = json.NewEncoder(w).Encode(apiloProductPage{
				Products:   a.catalog,
				TotalCount: int64(len(a.catalog)),
			})
		case r.URL.Path == "/rest/api/warehouse/product/" && r.Method == http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			a.putBodies = append(a.putBodies, body)
			_ = json.NewEncoder(w).Encode(map[string]int{"updated": 1})
		case r.URL.Path == "/rest/api/warehouse/product/" && r.Method == http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			a.postBodies = append(a.postBodies, body)
			_ = json.NewEncoder(w).Encode(map[string]any{"products": map[string]string{}})
		case strings.HasPrefix(r.URL.Path, "/rest/api/warehouse/product/") && r.Method == http.MethodDelete:
			a.deleted = append(a.deleted, r.URL.Path)
			w.WriteHeader(http.StatusOK)
		case strings.HasPrefix(r.URL.Path, "/rest/api/orders/") && r.Method == http.MethodGet:
			id := strings.TrimPrefix(r.URL.Path, "/rest/api/orders/")
			fmt.Fprintf(w, `{"id":%q,"idExternal":"ext-%s","status":1}`, id, id)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(a.server.Close)
	return a
}

func newApiloFixture(t *testing.T, server *apiloTestServer, expireIn time.Duration) (*ApiloService, *fakeApiloStore, integration.Integration) {
	t.Helper()
	target := integration.Integration{
		UUID:     uuid.New(),
		Name:     "apilo account",
		Platform: integration.PlatformApilo,
		Status:   integration.StatusActive,
	}
	store := &fakeApiloStore{record: &integration.ApiloCredential{
		TokenUUID:            uuid.New(),
		IntegrationUUID:      target.UUID,
		Endpoint:             server.server.URL,
		ClientID:             77,
		ClientSecret:         "enc(secret)",
		AccessToken:          "enc(stored-access)",
		AccessTokenExpireAt:  time.Now().Add(expireIn).Unix(),
		RefreshToken:         "enc(stored-refresh)",
		RefreshTokenExpireAt: time.Now().Add(30 * 24 * time.Hour).Unix(),
	}}

	client := NewApiloClient(5*time.Second, zap.NewNop())
	creds := NewApiloCredentialManager(store, fakeCipher{}, client, zap.NewNop())
	svc := NewApiloService(NewApiloAdapter(), creds, client, zap.NewNop())
	return svc, store, target
}

func TestApiloPushExistingSKUIssuesPutWithRemoteID(t *testing.T) {
	server := newApiloTestServer(t)
	server.catalog = []ApiloProduct{{ID: 42, SKU: "ABC-1", Name: "Known"}}
	svc, _, target := newApiloFixture(t, server, time.Hour)

	product := sampleCanonical()
	product.SKU = "ABC-1"

	err := svc.PushProduct(context.Background(), target, product)

	require.NoError(t, err)
	require.Len(t, server.putBodies, 1)
	assert.Empty(t, server.postBodies)

	var batch []ApiloProduct
	require.NoError(t, json.Unmarshal(server.putBodies[0], &batch))
	require.Len(t, batch, 1)
	assert.Equal(t, int64(42), batch[0].ID)
	assert.Equal(t, "ABC-1", batch[0].SKU)
}

func TestApiloPushNewSKUIssuesPost(t *testing.T) {
	server := newApiloTestServer(t)
	server.catalog = []ApiloProduct{{ID: 42, SKU: "OTHER", Name: "Unrelated"}}
	svc, _, target := newApiloFixture(t, server, time.Hour)

	err := svc.PushProduct(context.Background(), target, sampleCanonical())

	require.NoError(t, err)
	require.Len(t, server.postBodies, 1)
	assert.Empty(t, server.putBodies)

	var batch []ApiloProduct
	require.NoError(t, json.Unmarshal(server.postBodies[0], &batch))
	require.Len(t, batch, 1)
	assert.Equal(t, int64(0), batch[0].ID)
	assert.Equal(t, "OAK-101", batch[0].SKU)
}

func TestApiloCredentialNearExpiryRefreshesExactlyOnce(t *testing.T) {
	server := newApiloTestServer(t)
	// inside the 300s threshold
	svc, store, target := newApiloFixture(t, server, time.Minute)

	err := svc.PushProduct(context.Background(), target, sampleCanonical())

	require.NoError(t, err)
	assert.Equal(t, 1, server.authCalls)
	assert.Equal(t, 1, store.updates)

	// persisted material is re-encrypted and carries the new expiry
	assert.Equal(t, "enc(fresh-access)", store.record.AccessToken)
	assert.Equal(t, "enc(fresh-refresh)", store.record.RefreshToken)
	assert.Greater(t, store.record.AccessTokenExpireAt, time.Now().Add(23*time.Hour).Unix())
}

func TestApiloCredentialValidSkipsRefresh(t *testing.T) {
	server := newApiloTestServer(t)
	svc, store, target := newApiloFixture(t, server, time.Hour)

	err := svc.PushProduct(context.Background(), target, sampleCanonical())

	require.NoError(t, err)
	assert.Equal(t, 0, server.authCalls)
	assert.Equal(t, 0, store.updates)
}

func TestApiloConcurrentReadsRefreshOnce(t *testing.T) {
	server := newApiloTestServer(t)
	svc, store, target := newApiloFixture(t, server, time.Minute)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.creds.Credential(context.Background(), target.UUID)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, server.authCalls)
	assert.Equal(t, 1, store.updates)
}

func TestApiloInitializePersistsEncryptedRecord(t *testing.T) {
	server := newApiloTestServer(t)
	store := &fakeApiloStore{}
	client := NewApiloClient(5*time.Second, zap.NewNop())
	creds := NewApiloCredentialManager(store, fakeCipher{}, client, zap.NewNop())

	integrationUUID := uuid.New()
	tokenUUID, err := creds.Initialize(context.Background(), ApiloInitParams{
		IntegrationUUID: integrationUUID,
		Endpoint:        server.server.URL,
		ClientID:        77,
		ClientSecret:    "secret",
		AuthCode:        "auth-code",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, tokenUUID)
	require.NotNil(t, store.record)
	assert.Equal(t, integrationUUID, store.record.IntegrationUUID)
	assert.Equal(t, "enc(fresh-access)", store.record.AccessToken)
	assert.Equal(t, "enc(secret)", store.record.ClientSecret)
	assert.Equal(t, 1, server.authCalls)
}

func TestApiloDeleteProduct(t *testing.T) {
	server := newApiloTestServer(t)
	svc, _, target := newApiloFixture(t, server, time.Hour)

	err := svc.DeleteProduct(context.Background(), target, "314")

	require.NoError(t, err)
	require.Len(t, server.deleted, 1)
	assert.Equal(t, "/rest/api/warehouse/product/314/", server.deleted[0])
}

func TestApiloFetchOrder(t *testing.T) {
	server := newApiloTestServer(t)
	svc, _, target := newApiloFixture(t, server, time.Hour)

	payload, err := svc.FetchOrder(context.Background(), target, "9001")

	require.NoError(t, err)
	var order struct {
		ID         string `json:"id"`
		IDExternal string `json:"idExternal"`
	}
	require.NoError(t, json.Unmarshal(payload, &order))
	assert.Equal(t, "9001", order.ID)
	assert.Equal(t, "ext-9001", order.IDExternal)
}

func TestApiloMissingCredential(t *testing.T) {
	server := newApiloTestServer(t)
	svc, store, target := newApiloFixture(t, server, time.Hour)
	store.record = nil

	err := svc.PushProduct(context.Background(), target, sampleCanonical())

	assert.ErrorIs(t, err, integration.ErrCredentialMissing)
}

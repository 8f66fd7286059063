package proxy

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/domain/integration"
)

func TestForwardOrderReference(t *testing.T) {
	integrationUUID := uuid.New()

	var capturedPath, capturedAuth string
	var capturedBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &capturedBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"status":201,"orderId":9001}`))
	}))
	defer server.Close()

	proxy := NewOrderProxy(server.URL, "proxy-token", 5*time.Second, zap.NewNop())

	resp, err := proxy.ForwardOrderReference(context.Background(), integrationUUID, "9001")

	require.NoError(t, err)
	assert.Equal(t, "/order", capturedPath)
	assert.Equal(t, "Bearer proxy-token", capturedAuth)
	assert.Equal(t, integrationUUID.String(), capturedBody["integrationUuid"])
	assert.Equal(t, "9001", capturedBody["orderId"])
	assert.Equal(t, "SUCCESS", resp.Status)
	assert.JSONEq(t, `{"status":201,"orderId":9001}`, string(resp.Data))
}

func TestForwardOrderReferenceSurfacesRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	proxy := NewOrderProxy(server.URL, "proxy-token", 5*time.Second, zap.NewNop())

	_, err := proxy.ForwardOrderReference(context.Background(), uuid.New(), "9001")

	assert.ErrorIs(t, err, integration.ErrPlatformRequestFailed)
}

func TestForwardOrderReferenceUnreachableProxy(t *testing.T) {
	proxy := NewOrderProxy("http://127.0.0.1:1", "proxy-token", time.Second, zap.NewNop())

	_, err := proxy.ForwardOrderReference(context.Background(), uuid.New(), "9001")

	assert.ErrorIs(t, err, integration.ErrPlatformUnavailable)
}

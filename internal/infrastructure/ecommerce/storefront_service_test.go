package ecommerce

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

type capturedRequest struct {
	path   string
	auth   string
	method string
	body   []byte
}

func newCaptureServer(t *testing.T, status int, response string) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = append(captured, capturedRequest{
			path:   r.URL.Path,
			auth:   r.Header.Get("Authorization"),
			method: r.Method,
			body:   body,
		})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server, &captured
}

func storefrontTarget(code integration.PlatformCode, siteURL string) integration.Integration {
	return integration.Integration{
		UUID:     uuid.New(),
		Name:     "shop",
		Platform: code,
		Status:   integration.StatusActive,
		SiteURL:  siteURL,
	}
}

func TestWooCommercePushProduct(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusOK, `{"status":"ok"}`)
	svc := NewWooCommerceService(NewWooCommerceAdapter(), NewStorefrontClient(5*time.Second, zap.NewNop()), zap.NewNop())
	target := storefrontTarget(integration.PlatformWooCommerce, server.URL)

	err := svc.PushProduct(context.Background(), target, sampleCanonical())

	require.NoError(t, err)
	require.Len(t, *captured, 1)
	got := (*captured)[0]
	assert.Equal(t, "/wp-json/v1/ebiuro_api_portal/product", got.path)
	assert.Equal(t, "Bearer "+target.UUID.String(), got.auth)
	assert.Equal(t, http.MethodPost, got.method)

	var envelope struct {
		Products []StorefrontProduct `json:"products"`
	}
	require.NoError(t, json.Unmarshal(got.body, &envelope))
	require.Len(t, envelope.Products, 1)
	assert.Equal(t, "OAK-101", envelope.Products[0].SKU)
	assert.Equal(t, "499.99", envelope.Products[0].Price)
}

func TestWooCommerceDeleteProduct(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusOK, `{"status":"ok"}`)
	svc := NewWooCommerceService(NewWooCommerceAdapter(), NewStorefrontClient(5*time.Second, zap.NewNop()), zap.NewNop())
	target := storefrontTarget(integration.PlatformWooCommerce, server.URL)

	err := svc.DeleteProduct(context.Background(), target, "101")

	require.NoError(t, err)
	require.Len(t, *captured, 1)
	assert.JSONEq(t, `{"products":[{"productId":"101"}]}`, string((*captured)[0].body))
}

func TestPrestaShopPushUsesRootPortalPath(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusOK, `{}`)
	svc := NewPrestaShopService(NewPrestaShopAdapter(), NewStorefrontClient(5*time.Second, zap.NewNop()), zap.NewNop())
	target := storefrontTarget(integration.PlatformPrestaShop, server.URL)

	err := svc.PushProduct(context.Background(), target, sampleCanonical())

	require.NoError(t, err)
	require.Len(t, *captured, 1)
	assert.Equal(t, "/v1/ebiuro_api_portal/product", (*captured)[0].path)
}

func TestStorefrontPushSurfacesRemoteFailure(t *testing.T) {
	server, _ := newCaptureServer(t, http.StatusBadGateway, `upstream down`)
	svc := NewWooCommerceService(NewWooCommerceAdapter(), NewStorefrontClient(5*time.Second, zap.NewNop()), zap.NewNop())
	target := storefrontTarget(integration.PlatformWooCommerce, server.URL)

	err := svc.PushProduct(context.Background(), target, sampleCanonical())

	assert.ErrorIs(t, err, integration.ErrPlatformRequestFailed)
}

func TestStorefrontPushRequiresSiteURL(t *testing.T) {
	svc := NewWooCommerceService(NewWooCommerceAdapter(), NewStorefrontClient(5*time.Second, zap.NewNop()), zap.NewNop())
	target := storefrontTarget(integration.PlatformWooCommerce, "")

	err := svc.PushProduct(context.Background(), target, sampleCanonical())

	assert.ErrorIs(t, err, integration.ErrMalformedPayload)
}

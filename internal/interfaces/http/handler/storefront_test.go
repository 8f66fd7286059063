package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/domain/integration"
	"github.com/channelsync/backend/internal/infrastructure/ecommerce"
	"github.com/channelsync/backend/internal/interfaces/http/dto"
	"github.com/channelsync/backend/internal/interfaces/http/middleware"
)

// mockResolver is a mock implementation of middleware.IntegrationResolver
type mockResolver struct {
	integration *integration.Integration
	err         error
}

func (m *mockResolver) FindByUUID(ctx context.Context, id uuid.UUID) (*integration.Integration, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.integration, nil
}

// mockPropagator is a mock implementation of ProductPropagator
type mockPropagator struct {
	targets    []integration.Integration
	targetsErr error
	propagated []integration.PropagationObject
	removed    []integration.DeletionObject
}

func (m *mockPropagator) TargetsFor(ctx context.Context, originUUID string) ([]integration.Integration, error) {
	if m.targetsErr != nil {
		return nil, m.targetsErr
	}
	return m.targets, nil
}

func (m *mockPropagator) PropagateProduct(ctx context.Context, obj integration.PropagationObject) []integration.PropagationResult {
	m.propagated = append(m.propagated, obj)
	results := make([]integration.PropagationResult, 0, len(obj.Integrations))
	for _, target := range obj.Integrations {
		results = append(results, integration.PropagationResult{
			Platform: target.Platform,
			Name:     target.Name,
			Status:   integration.ResultSuccess,
		})
	}
	return results
}

func (m *mockPropagator) RemoveProduct(ctx context.Context, obj integration.DeletionObject) []integration.PropagationResult {
	m.removed = append(m.removed, obj)
	results := make([]integration.PropagationResult, 0, len(obj.Integrations))
	for _, target := range obj.Integrations {
		results = append(results, integration.PropagationResult{
			Platform: target.Platform,
			Name:     target.Name,
			Status:   integration.ResultSuccess,
		})
	}
	return results
}

type recordedOrder struct {
	origin  uuid.UUID
	orderID string
	payload []byte
}

// mockOrderRecorder is a mock implementation of OrderRecorder
type mockOrderRecorder struct {
	resp   *integration.OrderSyncResult
	err    error
	orders []recordedOrder
}

func (m *mockOrderRecorder) HandleOrder(ctx context.Context, origin integration.Integration, externalOrderID string) (*integration.OrderSyncResult, error) {
	m.orders = append(m.orders, recordedOrder{origin: origin.UUID, orderID: externalOrderID})
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func (m *mockOrderRecorder) HandleOrderPayload(ctx context.Context, origin integration.Integration, externalOrderID string, payload []byte) (*integration.OrderSyncResult, error) {
	m.orders = append(m.orders, recordedOrder{origin: origin.UUID, orderID: externalOrderID, payload: payload})
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func wooIntegration() *integration.Integration {
	return &integration.Integration{
		UUID:     uuid.New(),
		Name:     "Main Shop",
		Platform: integration.PlatformWooCommerce,
		Status:   integration.StatusActive,
		SiteURL:  "https://shop.example.com",
	}
}

func apiloSibling() integration.Integration {
	return integration.Integration{
		UUID:     uuid.New(),
		Name:     "Marketplace Hub",
		Platform: integration.PlatformApilo,
		Status:   integration.StatusActive,
	}
}

type storefrontFixture struct {
	router      *gin.Engine
	origin      *integration.Integration
	propagation *mockPropagator
	orders      *mockOrderRecorder
}

func newStorefrontFixture(t *testing.T) *storefrontFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	origin := wooIntegration()
	propagation := &mockPropagator{targets: []integration.Integration{apiloSibling()}}
	orders := &mockOrderRecorder{resp: &integration.OrderSyncResult{OrderUUID: uuid.NewString()}}

	h := NewStorefrontHandler(ecommerce.NewDefaultRegistry(), propagation, orders, zap.NewNop())

	r := gin.New()
	group := r.Group("/v1", middleware.IntegrationKey(&mockResolver{integration: origin}))
	h.RegisterRoutes(group)

	return &storefrontFixture{router: r, origin: origin, propagation: propagation, orders: orders}
}

func (f *storefrontFixture) do(method, path string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.IntegrationKeyHeader, f.origin.UUID.String())
	f.router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, body []byte) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestStorefrontHandler_SyncProduct(t *testing.T) {
	f := newStorefrontFixture(t)

	payload := []byte(`{
		"product_id": 101,
		"product_name": "Oak Desk",
		"sku": "OAK-101",
		"status": "publish",
		"price": "499.99",
		"regular_price": "549.99",
		"stock_quantity": 5
	}`)
	w := f.do(http.MethodPost, "/v1/product/sync/woocommerce", payload)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w.Body.Bytes())
	assert.Equal(t, dto.StatusSuccess, resp.Status)

	results, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, results, 1)
	result := results[0].(map[string]interface{})
	assert.Equal(t, "Apilo", result["platform"])
	assert.Equal(t, "SUCCESS", result["status"])

	require.Len(t, f.propagation.propagated, 1)
	obj := f.propagation.propagated[0]
	require.NotNil(t, obj.Product)
	assert.Equal(t, int64(101), obj.Product.ProductID)
	assert.Equal(t, "OAK-101", obj.Product.SKU)
	assert.Equal(t, "499.99", obj.Product.Price)
	require.Len(t, obj.Integrations, 1)
	assert.Equal(t, integration.PlatformApilo, obj.Integrations[0].Platform)
}

func TestStorefrontHandler_SyncProduct_MalformedPayload(t *testing.T) {
	f := newStorefrontFixture(t)

	w := f.do(http.MethodPost, "/v1/product/sync/presta", []byte(`{"product_id": `))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w.Body.Bytes())
	assert.Equal(t, dto.StatusError, resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeMalformedPayload, resp.Error.Code)
	assert.Empty(t, f.propagation.propagated)
}

func TestStorefrontHandler_SyncProduct_TargetLookupFails(t *testing.T) {
	f := newStorefrontFixture(t)
	f.propagation.targetsErr = integration.ErrIntegrationNotFound

	w := f.do(http.MethodPost, "/v1/product/sync/woocommerce", []byte(`{"product_id": 101}`))

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w.Body.Bytes())
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeIntegrationNotFound, resp.Error.Code)
}

func TestStorefrontHandler_RemoveProduct(t *testing.T) {
	f := newStorefrontFixture(t)

	w := f.do(http.MethodDelete, "/v1/product/sync/woocommerce", []byte(`{"product_id": "101"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, f.propagation.removed, 1)
	assert.Equal(t, "101", f.propagation.removed[0].ProductID)
	require.Len(t, f.propagation.removed[0].Integrations, 1)
}

func TestStorefrontHandler_RemoveProduct_MissingID(t *testing.T) {
	f := newStorefrontFixture(t)

	w := f.do(http.MethodDelete, "/v1/product/sync/presta", []byte(`{}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.propagation.removed)
}

func TestStorefrontHandler_SyncOrder_NumericOrderID(t *testing.T) {
	f := newStorefrontFixture(t)

	payload := []byte(`{"order_id": 5001, "total": "499.99", "currency": "PLN"}`)
	w := f.do(http.MethodPost, "/v1/order/sync/woocommerce", payload)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w.Body.Bytes())
	assert.Equal(t, dto.StatusSuccess, resp.Status)

	require.Len(t, f.orders.orders, 1)
	recorded := f.orders.orders[0]
	assert.Equal(t, f.origin.UUID, recorded.origin)
	assert.Equal(t, "5001", recorded.orderID)
	assert.JSONEq(t, string(payload), string(recorded.payload))
}

func TestStorefrontHandler_SyncOrder_StringOrderID(t *testing.T) {
	f := newStorefrontFixture(t)

	w := f.do(http.MethodPost, "/v1/order/sync/presta", []byte(`{"order_id": "PS-77"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, f.orders.orders, 1)
	assert.Equal(t, "PS-77", f.orders.orders[0].orderID)
}

func TestStorefrontHandler_SyncOrder_MissingOrderID(t *testing.T) {
	f := newStorefrontFixture(t)

	w := f.do(http.MethodPost, "/v1/order/sync/woocommerce", []byte(`{"total": "499.99"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.orders.orders)
}

func TestStorefrontHandler_SyncOrder_RecorderFailure(t *testing.T) {
	f := newStorefrontFixture(t)
	f.orders.err = integration.ErrPlatformUnavailable

	w := f.do(http.MethodPost, "/v1/order/sync/woocommerce", []byte(`{"order_id": 5001}`))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decodeResponse(t, w.Body.Bytes())
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodePlatformUnavailable, resp.Error.Code)
}

func TestOrderIDFromPayload(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"number", `{"order_id": 42}`, "42"},
		{"string", `{"order_id": "42"}`, "42"},
		{"missing", `{"total": "10.00"}`, ""},
		{"null", `{"order_id": null}`, ""},
		{"invalid json", `{"order_id"`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderIDFromPayload([]byte(tt.raw)))
		})
	}
}

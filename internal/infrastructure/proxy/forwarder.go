package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/domain/integration"
)

const (
	orderRoute   = "/order"
	maxProxyBody = 1 * 1024 * 1024
)

// orderReference is the payload handed to the downstream processor. It
// carries only identifiers; the processor pulls the order body through its
// own channel.
type orderReference struct {
	IntegrationUUID string `json:"integrationUuid"`
	OrderID         string `json:"orderId"`
}

// OrderProxy forwards recorded order references to the downstream order
// processing service.
type OrderProxy struct {
	httpClient *http.Client
	baseURL    string
	apiToken   string
	logger     *zap.Logger
}

var _ integration.OrderForwarder = (*OrderProxy)(nil)

// NewOrderProxy creates a new OrderProxy against the given base URL
func NewOrderProxy(baseURL, apiToken string, timeout time.Duration, logger *zap.Logger) *OrderProxy {
	return &OrderProxy{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiToken:   apiToken,
		logger:     logger,
	}
}

// ForwardOrderReference hands the order reference downstream and returns the
// processor's reply.
func (p *OrderProxy) ForwardOrderReference(ctx context.Context, integrationUUID uuid.UUID, externalOrderID string) (*integration.ForwardResponse, error) {
	body, err := json.Marshal(orderReference{
		IntegrationUUID: integrationUUID.String(),
		OrderID:         externalOrderID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode order reference: %v", integration.ErrMalformedPayload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+orderRoute, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("proxy order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: order proxy: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxProxyBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read proxy response: %v", integration.ErrPlatformRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Error("order proxy rejected reference",
			zap.String("integration_uuid", integrationUUID.String()),
			zap.String("order_id", externalOrderID),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return nil, fmt.Errorf("%w: order proxy returned %d", integration.ErrPlatformRequestFailed, resp.StatusCode)
	}

	forward := &integration.ForwardResponse{Status: "SUCCESS"}
	if len(respBody) > 0 && json.Valid(respBody) {
		forward.Data = json.RawMessage(respBody)
	}

	p.logger.Info("order reference forwarded",
		zap.String("integration_uuid", integrationUUID.String()),
		zap.String("order_id", externalOrderID))
	return forward, nil
}

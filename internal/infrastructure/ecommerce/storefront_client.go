package ecommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/domain/integration"
)

// Constants for the storefront plugin API shared by WooCommerce and
// PrestaShop. The plugin exposes the same portal routes on both; WooCommerce
// additionally nests them under the WordPress REST prefix.
const (
	wooBasePath        = "/wp-json/v1/ebiuro_api_portal"
	prestaBasePath     = "/v1/ebiuro_api_portal"
	storefrontProduct  = "/product"
	maxStorefrontBody  = 10 * 1024 * 1024 // 10MB max response
	storefrontAccept   = "application/json"
	storefrontMimeJSON = "application/json"
)

// StorefrontClient delivers portal requests to a merchant's WooCommerce or
// PrestaShop site. The integration uuid doubles as the bearer credential;
// the plugin on the remote site validates it against the portal.
type StorefrontClient struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewStorefrontClient creates a new StorefrontClient with the given request
// timeout.
func NewStorefrontClient(timeout time.Duration, logger *zap.Logger) *StorefrontClient {
	return &StorefrontClient{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Post sends a JSON payload to siteURL+basePath+route authorized by the
// integration uuid and returns the raw response body.
func (c *StorefrontClient) Post(ctx context.Context, siteURL, basePath, route, bearer string, payload any) ([]byte, error) {
	url := strings.TrimRight(siteURL, "/") + basePath + route

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encode payload: %v", integration.ErrMalformedPayload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("storefront request %s: %w", url, err)
	}
	req.Header.Set("Content-Type", storefrontMimeJSON)
	req.Header.Set("Accept", storefrontAccept)
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", integration.ErrPlatformUnavailable, url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxStorefrontBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read response from %s: %v", integration.ErrPlatformRequestFailed, url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("storefront request rejected",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return nil, fmt.Errorf("%w: %s returned %d", integration.ErrPlatformRequestFailed, url, resp.StatusCode)
	}

	return respBody, nil
}

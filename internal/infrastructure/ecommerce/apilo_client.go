package ecommerce

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/domain/integration"
)

const maxApiloBody = 32 * 1024 * 1024 // product pages run large at limit 2000

// ApiloClient is the transport for Apilo's REST API. Endpoints are
// per-integration (each merchant account lives on its own Apilo host), so
// every call takes the full URL and an Authorization header value.
type ApiloClient struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewApiloClient creates a new ApiloClient with the given request timeout.
func NewApiloClient(timeout time.Duration, logger *zap.Logger) *ApiloClient {
	return &ApiloClient{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Do sends one request and decodes the JSON response into out (skipped when
// out is nil). GET requests never carry a body.
func (c *ApiloClient) Do(ctx context.Context, method, url, auth string, body any, out any) error {
	var reader io.Reader
	if body != nil && method != http.MethodGet {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode apilo request: %v", integration.ErrMalformedPayload, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("apilo request %s: %w", url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", auth)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", integration.ErrPlatformUnavailable, url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxApiloBody))
	if err != nil {
		return fmt.Errorf("%w: read response from %s: %v", integration.ErrPlatformRequestFailed, url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("apilo request rejected",
			zap.String("url", url),
			zap.String("method", method),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return fmt.Errorf("%w: %s %s returned %d", integration.ErrPlatformRequestFailed, method, url, resp.StatusCode)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: decode response from %s: %v", integration.ErrPlatformInvalidResponse, url, err)
	}
	return nil
}

// Authorize performs a token exchange against the integration's auth
// endpoint using HTTP Basic credentials.
func (c *ApiloClient) Authorize(ctx context.Context, endpoint string, clientID int64, clientSecret, grantType, token string) (*ApiloAuthResponse, error) {
	basic := base64.StdEncoding.EncodeToString([]byte(strconv.FormatInt(clientID, 10) + ":" + clientSecret))
	url := strings.TrimRight(endpoint, "/") + apiloAuthPath + "/"

	var resp ApiloAuthResponse
	err := c.Do(ctx, http.MethodPost, url, "Basic "+basic, apiloAuthRequest{
		GrantType: grantType,
		Token:     token,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %s exchange: %v", integration.ErrCredentialRefresh, grantType, err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		return nil, fmt.Errorf("%w: %s exchange returned empty tokens", integration.ErrCredentialRefresh, grantType)
	}
	return &resp, nil
}

package ecommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/domain/integration"
	"github.com/channelsync/backend/internal/infrastructure/ratelimit"
)

const maxBaseLinkerBody = 32 * 1024 * 1024

// BaseLinkerClient is the transport for BaseLinker's RPC-over-form API: a
// single endpoint taking a form-encoded method name plus a JSON parameters
// blob, authorized by the X-BLToken header. Every call passes through the
// per-token rate limiter before it starts; BaseLinker enforces a hard quota
// of 100 requests per minute per token.
type BaseLinkerClient struct {
	httpClient *http.Client
	apiURL     string
	limiter    *ratelimit.SlidingWindowLimiter
	logger     *zap.Logger
}

// NewBaseLinkerClient creates a new BaseLinkerClient against the given API
// URL.
func NewBaseLinkerClient(apiURL string, timeout time.Duration, limiter *ratelimit.SlidingWindowLimiter, logger *zap.Logger) *BaseLinkerClient {
	return &BaseLinkerClient{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     apiURL,
		limiter:    limiter,
		logger:     logger,
	}
}

// Call invokes one BaseLinker method and decodes the reply into out. The
// reply envelope's status is checked; an ERROR status is surfaced as a
// request failure with the platform's message.
func (c *BaseLinkerClient) Call(ctx context.Context, token, method string, parameters any, out any) error {
	if err := c.limiter.Acquire(ctx, token); err != nil {
		return fmt.Errorf("baselinker rate limit wait: %w", err)
	}

	paramsJSON, err := json.Marshal(parameters)
	if err != nil {
		return fmt.Errorf("%w: encode %s parameters: %v", integration.ErrMalformedPayload, method, err)
	}

	form := url.Values{}
	form.Set("method", method)
	form.Set("parameters", string(paramsJSON))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("baselinker request %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-BLToken", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: baselinker %s: %v", integration.ErrPlatformUnavailable, method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBaseLinkerBody))
	if err != nil {
		return fmt.Errorf("%w: read %s response: %v", integration.ErrPlatformRequestFailed, method, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("baselinker request rejected",
			zap.String("method", method),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return fmt.Errorf("%w: baselinker %s returned %d", integration.ErrPlatformRequestFailed, method, resp.StatusCode)
	}

	var envelope blStatus
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("%w: decode %s envelope: %v", integration.ErrPlatformInvalidResponse, method, err)
	}
	if envelope.IsError() {
		return fmt.Errorf("%w: baselinker %s: %s (%s)", integration.ErrPlatformRequestFailed, method, envelope.ErrorMessage, envelope.ErrorCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", integration.ErrPlatformInvalidResponse, method, err)
	}
	return nil
}

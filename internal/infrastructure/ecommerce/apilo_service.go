package ecommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/domain/catalog"
	"github.com/channelsync/backend/internal/domain/integration"
)

// ApiloService implements the platform contract against Apilo's warehouse
// API. Apilo has no server-side upsert: a push first lists the remote
// catalog, matches by SKU, and issues a PUT carrying the remote id for known
// products or a POST for new ones. Writes are chunked at the
// platform-mandated batch size; a failed chunk aborts the remaining chunks
// for that integration.
type ApiloService struct {
	adapter *ApiloAdapter
	creds   *ApiloCredentialManager
	client  *ApiloClient
	logger  *zap.Logger
}

var (
	_ integration.PlatformService = (*ApiloService)(nil)
	_ integration.OrderFetcher    = (*ApiloService)(nil)
)

// NewApiloService creates a new ApiloService
func NewApiloService(adapter *ApiloAdapter, creds *ApiloCredentialManager, client *ApiloClient, logger *zap.Logger) *ApiloService {
	return &ApiloService{adapter: adapter, creds: creds, client: client, logger: logger}
}

// Platform returns the platform code this service handles
func (s *ApiloService) Platform() integration.PlatformCode {
	return integration.PlatformApilo
}

// PushProduct upserts the product into the integration's Apilo warehouse.
func (s *ApiloService) PushProduct(ctx context.Context, target integration.Integration, product *catalog.CanonicalProduct) error {
	cred, err := s.creds.Credential(ctx, target.UUID)
	if err != nil {
		return err
	}

	apiloProduct := s.adapter.toApilo(product)

	existing, err := s.listProducts(ctx, cred)
	if err != nil {
		return err
	}
	existingBySKU := make(map[string]ApiloProduct, len(existing))
	for _, p := range existing {
		existingBySKU[p.SKU] = p
	}

	var creates, updates []ApiloProduct
	if remote, ok := existingBySKU[apiloProduct.SKU]; ok && remote.ID != 0 {
		update := apiloProduct
		update.ID = remote.ID
		updates = append(updates, update)
	} else {
		creates = append(creates, apiloProduct)
	}

	if len(updates) > 0 {
		responses, err := s.sendProducts(ctx, cred, updates, http.MethodPut)
		if err != nil {
			return err
		}
		s.logger.Info("apilo products updated",
			zap.String("integration_uuid", target.UUID.String()),
			zap.ByteString("response", collapseResponses(responses)))
	}
	if len(creates) > 0 {
		responses, err := s.sendProducts(ctx, cred, creates, http.MethodPost)
		if err != nil {
			return err
		}
		s.logger.Info("apilo products created",
			zap.String("integration_uuid", target.UUID.String()),
			zap.ByteString("response", collapseResponses(responses)))
	}
	return nil
}

// DeleteProduct removes the product from the integration's Apilo warehouse.
func (s *ApiloService) DeleteProduct(ctx context.Context, target integration.Integration, productID string) error {
	cred, err := s.creds.Credential(ctx, target.UUID)
	if err != nil {
		return err
	}

	url := apiloAPIBase(cred.Endpoint) + apiloProductPath + "/" + productID + "/"
	if err := s.client.Do(ctx, http.MethodDelete, url, "Bearer "+cred.AccessToken, nil, nil); err != nil {
		return fmt.Errorf("apilo delete product %s: %w", productID, err)
	}

	s.logger.Info("apilo product deleted",
		zap.String("integration_uuid", target.UUID.String()),
		zap.String("product_id", productID))
	return nil
}

// FetchOrder pulls one order's full details by its Apilo id.
func (s *ApiloService) FetchOrder(ctx context.Context, target integration.Integration, externalOrderID string) ([]byte, error) {
	cred, err := s.creds.Credential(ctx, target.UUID)
	if err != nil {
		return nil, err
	}

	url := apiloAPIBase(cred.Endpoint) + apiloOrderPath + "/" + externalOrderID
	var order json.RawMessage
	if err := s.client.Do(ctx, http.MethodGet, url, "Bearer "+cred.AccessToken, nil, &order); err != nil {
		return nil, fmt.Errorf("apilo fetch order %s: %w", externalOrderID, err)
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("%w: apilo order %s", integration.ErrOrderNotFound, externalOrderID)
	}
	return order, nil
}

// Products lists the integration's full Apilo warehouse in canonical form.
// Used by the scheduled product sync to mirror the warehouse onto sibling
// integrations.
func (s *ApiloService) Products(ctx context.Context, target integration.Integration) ([]*catalog.CanonicalProduct, error) {
	cred, err := s.creds.Credential(ctx, target.UUID)
	if err != nil {
		return nil, err
	}

	remote, err := s.listProducts(ctx, cred)
	if err != nil {
		return nil, err
	}

	products := make([]*catalog.CanonicalProduct, 0, len(remote))
	for i := range remote {
		products = append(products, s.adapter.toCanonical(&remote[i]))
	}
	return products, nil
}

// Ping probes the integration's Apilo endpoint with a fresh credential.
func (s *ApiloService) Ping(ctx context.Context, target integration.Integration) (*ApiloPingResponse, error) {
	cred, err := s.creds.Credential(ctx, target.UUID)
	if err != nil {
		return nil, err
	}

	var resp ApiloPingResponse
	if err := s.client.Do(ctx, http.MethodGet, apiloAPIBase(cred.Endpoint), "Bearer "+cred.AccessToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("apilo ping: %w", err)
	}
	return &resp, nil
}

// listProducts walks the paginated warehouse listing until totalCount is
// reached.
func (s *ApiloService) listProducts(ctx context.Context, cred *integration.ApiloCredential) ([]ApiloProduct, error) {
	var all []ApiloProduct
	offset := int64(0)
	for {
		url := fmt.Sprintf("%s%s/?offset=%d&limit=%d", apiloAPIBase(cred.Endpoint), apiloProductPath, offset, apiloPageLimit)

		var page apiloProductPage
		if err := s.client.Do(ctx, http.MethodGet, url, "Bearer "+cred.AccessToken, nil, &page); err != nil {
			return nil, fmt.Errorf("apilo list products at offset %d: %w", offset, err)
		}

		all = append(all, page.Products...)
		offset += apiloPageLimit
		if offset >= page.TotalCount {
			return all, nil
		}
	}
}

// sendProducts writes products in chunks via the given method, collecting
// one raw response per chunk. The first failing chunk stops the batch.
func (s *ApiloService) sendProducts(ctx context.Context, cred *integration.ApiloCredential, products []ApiloProduct, method string) ([]json.RawMessage, error) {
	url := apiloAPIBase(cred.Endpoint) + apiloProductPath + "/"
	auth := "Bearer " + cred.AccessToken

	chunks := chunk(products, apiloChunkSize)
	responses := make([]json.RawMessage, 0, len(chunks))
	for i, batch := range chunks {
		var resp json.RawMessage
		if err := s.client.Do(ctx, method, url, auth, batch, &resp); err != nil {
			return nil, fmt.Errorf("apilo %s chunk %d/%d: %w", method, i+1, len(chunks), err)
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// collapseResponses flattens a single-chunk response to the bare value so
// logs and callers need not special-case batch size.
func collapseResponses(responses []json.RawMessage) json.RawMessage {
	if len(responses) == 1 {
		return responses[0]
	}
	combined, err := json.Marshal(responses)
	if err != nil {
		return json.RawMessage("[]")
	}
	return combined
}

func apiloAPIBase(endpoint string) string {
	return strings.TrimRight(endpoint, "/") + apiloRestPath
}

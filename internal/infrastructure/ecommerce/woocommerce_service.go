package ecommerce

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/domain/catalog"
	"github.com/channelsync/backend/internal/domain/integration"
)

// WooCommerceService pushes products to a merchant's WooCommerce site
// through the portal plugin. The remote plugin upserts by SKU, so no
// existing-item lookup happens on this side. Deletions travel as a POST of
// the deletion envelope to the same product route; the plugin dispatches on
// the envelope shape.
type WooCommerceService struct {
	adapter *WooCommerceAdapter
	client  *StorefrontClient
	logger  *zap.Logger
}

var _ integration.PlatformService = (*WooCommerceService)(nil)

// NewWooCommerceService creates a new WooCommerceService
func NewWooCommerceService(adapter *WooCommerceAdapter, client *StorefrontClient, logger *zap.Logger) *WooCommerceService {
	return &WooCommerceService{adapter: adapter, client: client, logger: logger}
}

// Platform returns the platform code this service handles
func (s *WooCommerceService) Platform() integration.PlatformCode {
	return integration.PlatformWooCommerce
}

// PushProduct delivers the product to the integration's site wrapped in the
// plugin's products envelope.
func (s *WooCommerceService) PushProduct(ctx context.Context, target integration.Integration, product *catalog.CanonicalProduct) error {
	if target.SiteURL == "" {
		return fmt.Errorf("%w: integration %s has no site url", integration.ErrMalformedPayload, target.UUID)
	}

	envelope := storefrontProductsEnvelope{
		Products: []StorefrontProduct{s.adapter.toWire(product)},
	}

	if _, err := s.client.Post(ctx, target.SiteURL, wooBasePath, storefrontProduct, target.UUID.String(), envelope); err != nil {
		return fmt.Errorf("woocommerce push to %s: %w", target.SiteURL, err)
	}

	s.logger.Info("woocommerce product propagated",
		zap.String("integration_uuid", target.UUID.String()),
		zap.Int64("product_id", product.ProductID))
	return nil
}

// DeleteProduct removes the product from the integration's site.
func (s *WooCommerceService) DeleteProduct(ctx context.Context, target integration.Integration, productID string) error {
	if target.SiteURL == "" {
		return fmt.Errorf("%w: integration %s has no site url", integration.ErrMalformedPayload, target.UUID)
	}

	envelope := storefrontDeletionEnvelope{
		Products: []storefrontDeletionID{{ProductID: productID}},
	}

	if _, err := s.client.Post(ctx, target.SiteURL, wooBasePath, storefrontProduct, target.UUID.String(), envelope); err != nil {
		return fmt.Errorf("woocommerce delete on %s: %w", target.SiteURL, err)
	}

	s.logger.Info("woocommerce product deleted",
		zap.String("integration_uuid", target.UUID.String()),
		zap.String("product_id", productID))
	return nil
}

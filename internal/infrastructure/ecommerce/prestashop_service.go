package ecommerce

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/domain/catalog"
	"github.com/channelsync/backend/internal/domain/integration"
)

// PrestaShopService pushes products to a merchant's PrestaShop site through
// the portal plugin. Identical contract to WooCommerce except the portal
// routes sit at the site root instead of under the WordPress REST prefix.
type PrestaShopService struct {
	adapter *PrestaShopAdapter
	client  *StorefrontClient
	logger  *zap.Logger
}

var _ integration.PlatformService = (*PrestaShopService)(nil)

// NewPrestaShopService creates a new PrestaShopService
func NewPrestaShopService(adapter *PrestaShopAdapter, client *StorefrontClient, logger *zap.Logger) *PrestaShopService {
	return &PrestaShopService{adapter: adapter, client: client, logger: logger}
}

// Platform returns the platform code this service handles
func (s *PrestaShopService) Platform() integration.PlatformCode {
	return integration.PlatformPrestaShop
}

// PushProduct delivers the product to the integration's site wrapped in the
// plugin's products envelope.
func (s *PrestaShopService) PushProduct(ctx context.Context, target integration.Integration, product *catalog.CanonicalProduct) error {
	if target.SiteURL == "" {
		return fmt.Errorf("%w: integration %s has no site url", integration.ErrMalformedPayload, target.UUID)
	}

	wire, ok := s.adapter.ToPlatformFormat(product).(StorefrontProduct)
	if !ok {
		return fmt.Errorf("%w: unexpected prestashop wire type", integration.ErrMalformedPayload)
	}
	envelope := storefrontProductsEnvelope{Products: []StorefrontProduct{wire}}

	if _, err := s.client.Post(ctx, target.SiteURL, prestaBasePath, storefrontProduct, target.UUID.String(), envelope); err != nil {
		return fmt.Errorf("prestashop push to %s: %w", target.SiteURL, err)
	}

	s.logger.Info("prestashop product propagated",
		zap.String("integration_uuid", target.UUID.String()),
		zap.Int64("product_id", product.ProductID))
	return nil
}

// DeleteProduct removes the product from the integration's site.
func (s *PrestaShopService) DeleteProduct(ctx context.Context, target integration.Integration, productID string) error {
	if target.SiteURL == "" {
		return fmt.Errorf("%w: integration %s has no site url", integration.ErrMalformedPayload, target.UUID)
	}

	envelope := storefrontDeletionEnvelope{
		Products: []storefrontDeletionID{{ProductID: productID}},
	}

	if _, err := s.client.Post(ctx, target.SiteURL, prestaBasePath, storefrontProduct, target.UUID.String(), envelope); err != nil {
		return fmt.Errorf("prestashop delete on %s: %w", target.SiteURL, err)
	}

	s.logger.Info("prestashop product deleted",
		zap.String("integration_uuid", target.UUID.String()),
		zap.String("product_id", productID))
	return nil
}

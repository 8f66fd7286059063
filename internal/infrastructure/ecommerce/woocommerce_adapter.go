package ecommerce

import (
	"encoding/json"
	"fmt"

	"github.com/channelsync/backend/internal/domain/catalog"
	"github.com/channelsync/backend/internal/domain/integration"
)

// WooCommerceAdapter translates between the WooCommerce plugin's product
// document and the canonical model. The plugin speaks the canonical field
// vocabulary, so the mapping is close to identity apart from status
// normalization and category flattening.
type WooCommerceAdapter struct{}

var _ integration.ProductAdapter = (*WooCommerceAdapter)(nil)

// NewWooCommerceAdapter creates a new WooCommerceAdapter
func NewWooCommerceAdapter() *WooCommerceAdapter {
	return &WooCommerceAdapter{}
}

// Platform returns the platform code this adapter handles
func (a *WooCommerceAdapter) Platform() integration.PlatformCode {
	return integration.PlatformWooCommerce
}

// FromPlatformFormat parses a WooCommerce product document into the
// canonical model. Missing optional fields default; only undecodable JSON
// fails.
func (a *WooCommerceAdapter) FromPlatformFormat(raw []byte) (*catalog.CanonicalProduct, error) {
	var product StorefrontProduct
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, fmt.Errorf("%w: woocommerce product: %v", integration.ErrMalformedPayload, err)
	}
	return a.toCanonical(&product), nil
}

// ToPlatformFormat renders the canonical product as the WooCommerce wire
// document.
func (a *WooCommerceAdapter) ToPlatformFormat(product *catalog.CanonicalProduct) any {
	return a.toWire(product)
}

func (a *WooCommerceAdapter) toCanonical(product *StorefrontProduct) *catalog.CanonicalProduct {
	stockStatus := catalog.StockStatus(product.StockStatus)
	if product.StockStatus == "" {
		stockStatus = catalog.StockStatusFor(product.StockQuantity)
	}

	return &catalog.CanonicalProduct{
		ProductID:        product.ProductID,
		ProductName:      product.ProductName,
		ProductSlug:      product.ProductSlug,
		DateCreated:      product.DateCreated,
		DateModified:     product.DateModified,
		Status:           catalog.NormalizeStatus(product.Status),
		Description:      product.Description,
		ShortDescription: product.ShortDescription,
		SKU:              product.SKU,
		Price:            product.Price,
		RegularPrice:     product.RegularPrice,
		SalePrice:        product.SalePrice,
		StockQuantity:    product.StockQuantity,
		StockStatus:      stockStatus,
		OSS:              product.OSS,
		Tax:              product.Tax,
		Quantity:         product.Quantity,
		MainImageURL:     product.MainImageURL,
		GalleryImageURLs: product.GalleryImageURLs,
		Variations:       product.Variations,
		Categories:       storefrontCategoriesToCanonical(product.Categories),
	}
}

func (a *WooCommerceAdapter) toWire(product *catalog.CanonicalProduct) StorefrontProduct {
	return StorefrontProduct{
		ProductID:        product.ProductID,
		ProductName:      product.ProductName,
		ProductSlug:      product.ProductSlug,
		DateCreated:      product.DateCreated,
		DateModified:     product.DateModified,
		Status:           product.Status.String(),
		Description:      product.Description,
		ShortDescription: product.ShortDescription,
		SKU:              product.SKU,
		Price:            product.Price,
		RegularPrice:     product.RegularPrice,
		SalePrice:        product.SalePrice,
		StockQuantity:    product.StockQuantity,
		StockStatus:      product.StockStatus.String(),
		OSS:              product.OSS,
		Tax:              product.Tax,
		Quantity:         product.Quantity,
		MainImageURL:     product.MainImageURL,
		GalleryImageURLs: product.GalleryImageURLs,
		Variations:       product.Variations,
		Categories:       canonicalCategoriesToStorefront(product.Categories),
	}
}

package ecommerce

import (
	"github.com/channelsync/backend/internal/domain/catalog"
)

// ---------------------------------------------------------------------------
// Storefront Wire Types (WooCommerce / PrestaShop plugin API)
// ---------------------------------------------------------------------------

// StorefrontCategory is a product category as exchanged with the storefront
// plugins.
type StorefrontCategory struct {
	Name          string               `json:"name"`
	Subcategories []StorefrontCategory `json:"subcategories,omitempty"`
}

// StorefrontProduct is the product document exchanged with the WooCommerce
// and PrestaShop plugins. The shape mirrors the canonical model closely; the
// plugins were built against the same field vocabulary.
type StorefrontProduct struct {
	ProductID        int64                `json:"product_id"`
	ProductName      string               `json:"product_name"`
	ProductSlug      string               `json:"product_slug"`
	DateCreated      string               `json:"date_created"`
	DateModified     string               `json:"date_modified"`
	Status           string               `json:"status"`
	Description      string               `json:"description"`
	ShortDescription string               `json:"short_description"`
	SKU              string               `json:"sku"`
	Price            string               `json:"price"`
	RegularPrice     string               `json:"regular_price"`
	SalePrice        string               `json:"sale_price"`
	StockQuantity    *int64               `json:"stock_quantity"`
	StockStatus      string               `json:"stock_status"`
	OSS              string               `json:"oss"`
	Tax              string               `json:"tax"`
	Quantity         *int64               `json:"quantity"`
	MainImageURL     string               `json:"main_image_url"`
	GalleryImageURLs []string             `json:"gallery_image_urls"`
	Variations       []string             `json:"variations"`
	Categories       []StorefrontCategory `json:"categories"`
}

// storefrontProductsEnvelope wraps products for the plugin's upsert endpoint.
type storefrontProductsEnvelope struct {
	Products []StorefrontProduct `json:"products"`
}

// storefrontDeletionEnvelope wraps product ids for the plugin's delete
// endpoint.
type storefrontDeletionEnvelope struct {
	Products []storefrontDeletionID `json:"products"`
}

type storefrontDeletionID struct {
	ProductID string `json:"productId"`
}

// StorefrontOrder is the order payload delivered in full by the storefront
// webhooks. Only the order id is inspected; the rest is persisted verbatim.
type StorefrontOrder struct {
	OrderID string `json:"order_id"`
}

func storefrontCategoriesToCanonical(categories []StorefrontCategory) []catalog.CanonicalCategory {
	out := make([]catalog.CanonicalCategory, 0, len(categories))
	for _, c := range categories {
		out = append(out, catalog.CanonicalCategory{Name: c.Name})
	}
	return out
}

func canonicalCategoriesToStorefront(categories []catalog.CanonicalCategory) []StorefrontCategory {
	out := make([]StorefrontCategory, 0, len(categories))
	for _, c := range categories {
		sc := StorefrontCategory{Name: c.Name}
		if len(c.Subcategories) > 0 {
			sc.Subcategories = canonicalCategoriesToStorefront(c.Subcategories)
		}
		out = append(out, sc)
	}
	return out
}

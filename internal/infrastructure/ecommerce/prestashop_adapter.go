package ecommerce

import (
	"encoding/json"
	"fmt"

	"github.com/channelsync/backend/internal/domain/catalog"
	"github.com/channelsync/backend/internal/domain/integration"
)

// flexString decodes from either a JSON string or a JSON number, keeping the
// literal digits so numeric prices survive without float rounding.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}

func (f flexString) String() string { return string(f) }

// prestaProduct is the PrestaShop plugin's inbound product document. Price
// and tax fields arrive numeric from some shop versions, so they decode
// through flexString and are carried forward as strings.
type prestaProduct struct {
	ProductID        int64                `json:"product_id"`
	ProductName      string               `json:"product_name"`
	ProductSlug      string               `json:"product_slug"`
	DateCreated      string               `json:"date_created"`
	DateModified     string               `json:"date_modified"`
	Status           string               `json:"status"`
	Description      string               `json:"description"`
	ShortDescription string               `json:"short_description"`
	SKU              string               `json:"sku"`
	Price            flexString           `json:"price"`
	RegularPrice     flexString           `json:"regular_price"`
	SalePrice        flexString           `json:"sale_price"`
	StockQuantity    *int64               `json:"stock_quantity"`
	StockStatus      string               `json:"stock_status"`
	OSS              string               `json:"oss"`
	Tax              flexString           `json:"tax"`
	Quantity         *int64               `json:"quantity"`
	MainImageURL     string               `json:"main_image_url"`
	GalleryImageURLs []string             `json:"gallery_image_urls"`
	Variations       []string             `json:"variations"`
	Categories       []StorefrontCategory `json:"categories"`
}

// PrestaShopAdapter translates between the PrestaShop plugin's product
// document and the canonical model.
type PrestaShopAdapter struct{}

var _ integration.ProductAdapter = (*PrestaShopAdapter)(nil)

// NewPrestaShopAdapter creates a new PrestaShopAdapter
func NewPrestaShopAdapter() *PrestaShopAdapter {
	return &PrestaShopAdapter{}
}

// Platform returns the platform code this adapter handles
func (a *PrestaShopAdapter) Platform() integration.PlatformCode {
	return integration.PlatformPrestaShop
}

// FromPlatformFormat parses a PrestaShop product document into the canonical
// model, stringifying numeric prices.
func (a *PrestaShopAdapter) FromPlatformFormat(raw []byte) (*catalog.CanonicalProduct, error) {
	var product prestaProduct
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, fmt.Errorf("%w: prestashop product: %v", integration.ErrMalformedPayload, err)
	}

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
		Price:            product.Price.String(),
		RegularPrice:     product.RegularPrice.String(),
		SalePrice:        product.SalePrice.String(),
		StockQuantity:    product.StockQuantity,
		StockStatus:      stockStatus,
		OSS:              product.OSS,
		Tax:              product.Tax.String(),
		Quantity:         product.Quantity,
		MainImageURL:     product.MainImageURL,
		GalleryImageURLs: product.GalleryImageURLs,
		Variations:       product.Variations,
		Categories:       storefrontCategoriesToCanonical(product.Categories),
	}, nil
}

// ToPlatformFormat renders the canonical product as the PrestaShop wire
// document. The outbound shape is shared with WooCommerce.
func (a *PrestaShopAdapter) ToPlatformFormat(product *catalog.CanonicalProduct) any {
	woo := WooCommerceAdapter{}
	return woo.toWire(product)
}

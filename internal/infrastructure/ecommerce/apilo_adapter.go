package ecommerce

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/channelsync/backend/internal/domain/catalog"
	"github.com/channelsync/backend/internal/domain/integration"
)

// ApiloAdapter translates between Apilo's warehouse product document and the
// canonical model. Apilo has no descriptions or timestamps on its listing
// documents; inbound translation synthesizes what the canonical model
// requires and outbound translation defaults what Apilo requires.
type ApiloAdapter struct{}

var _ integration.ProductAdapter = (*ApiloAdapter)(nil)

// NewApiloAdapter creates a new ApiloAdapter
func NewApiloAdapter() *ApiloAdapter {
	return &ApiloAdapter{}
}

// Platform returns the platform code this adapter handles
func (a *ApiloAdapter) Platform() integration.PlatformCode {
	return integration.PlatformApilo
}

// FromPlatformFormat parses an Apilo product document into the canonical
// model.
func (a *ApiloAdapter) FromPlatformFormat(raw []byte) (*catalog.CanonicalProduct, error) {
	var product ApiloProduct
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, fmt.Errorf("%w: apilo product: %v", integration.ErrMalformedPayload, err)
	}
	return a.toCanonical(&product), nil
}

// ToPlatformFormat renders the canonical product as an Apilo product
// document.
func (a *ApiloAdapter) ToPlatformFormat(product *catalog.CanonicalProduct) any {
	return a.toApilo(product)
}

func (a *ApiloAdapter) toCanonical(product *ApiloProduct) *catalog.CanonicalProduct {
	now := time.Now().UTC().Format(time.RFC3339)
	quantity := product.Quantity

	// Listings sometimes omit the net price; derive it from the gross price
	// and the VAT rate when they do.
	price := product.PriceWithoutTax
	if price == "" {
		gross := strconv.FormatFloat(product.PriceWithTax, 'f', -1, 64)
		price = catalog.NetFromGross(gross, product.Tax)
	}

	return &catalog.CanonicalProduct{
		ProductID:        product.ID,
		ProductName:      product.Name,
		ProductSlug:      catalog.Slugify(product.Name),
		DateCreated:      now,
		DateModified:     now,
		Status:           apiloStatusToCanonical(product.Status),
		SKU:              product.SKU,
		Price:            price,
		RegularPrice:     price,
		SalePrice:        strconv.FormatFloat(product.PriceWithTax, 'f', -1, 64),
		StockQuantity:    catalog.Int64Ptr(quantity),
		StockStatus:      catalog.StockStatusFor(&quantity),
		Tax:              product.Tax,
		Quantity:         catalog.Int64Ptr(quantity),
		GalleryImageURLs: []string{},
		Variations:       []string{},
		Categories:       apiloCategoriesToCanonical(product.Categories),
	}
}

func (a *ApiloAdapter) toApilo(product *catalog.CanonicalProduct) ApiloProduct {
	priceWithTax, _ := strconv.ParseFloat(product.Price, 64)

	var quantity int64
	if product.Quantity != nil {
		quantity = *product.Quantity
	}

	tax := product.Tax
	if tax == "" {
		tax = apiloDefaultTax
	}

	return ApiloProduct{
		SKU:              product.EffectiveSKU(),
		EAN:              "",
		Name:             product.ProductName,
		Tax:              tax,
		Status:           canonicalStatusToApilo(product.Status),
		OriginalCode:     product.ProductSlug,
		GroupName:        apiloGroupName(product.Categories),
		Attributes:       map[string]string{},
		Images:           apiloImages(product),
		Quantity:         quantity,
		PriceWithTax:     priceWithTax,
		Weight:           0,
		Unit:             apiloWeightUnit,
		Description:      product.Description,
		ShortDescription: product.ShortDescription,
	}
}

func apiloStatusToCanonical(status int) catalog.ProductStatus {
	switch status {
	case apiloStatusActive:
		return catalog.ProductStatusActive
	case apiloStatusArchive:
		return catalog.ProductStatusArchived
	default:
		return catalog.ProductStatusInactive
	}
}

func canonicalStatusToApilo(status catalog.ProductStatus) int {
	switch status {
	case catalog.ProductStatusActive:
		return apiloStatusActive
	case catalog.ProductStatusArchived:
		return apiloStatusArchive
	default:
		return apiloStatusInactive
	}
}

// apiloGroupName takes the first category name; Apilo requires a group on
// every product.
func apiloGroupName(categories []catalog.CanonicalCategory) string {
	if len(categories) > 0 {
		return categories[0].Name
	}
	return "Default Group"
}

// apiloImages maps the primary image to the "main" slot and gallery images
// to numbered slots.
func apiloImages(product *catalog.CanonicalProduct) map[string]string {
	images := make(map[string]string)
	if product.MainImageURL != "" {
		images["main"] = product.MainImageURL
	}
	for i, url := range product.GalleryImageURLs {
		images[fmt.Sprintf("gallery_%d", i+1)] = url
	}
	return images
}

// apiloCategoriesToCanonical names numeric category ids; Apilo listings
// carry ids only.
func apiloCategoriesToCanonical(ids []int64) []catalog.CanonicalCategory {
	out := make([]catalog.CanonicalCategory, 0, len(ids))
	for _, id := range ids {
		out = append(out, catalog.CanonicalCategory{Name: fmt.Sprintf("Category %d", id)})
	}
	return out
}

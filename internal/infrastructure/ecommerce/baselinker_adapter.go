package ecommerce

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/channelsync/backend/internal/domain/catalog"
	"github.com/channelsync/backend/internal/domain/integration"
)

// BaseLinkerAdapter translates between BaseLinker's storage product document
// and the canonical model. BaseLinker splits prices into netto/brutto and
// has no lifecycle status; inbound products are always treated as active.
type BaseLinkerAdapter struct{}

var _ integration.ProductAdapter = (*BaseLinkerAdapter)(nil)

// NewBaseLinkerAdapter creates a new BaseLinkerAdapter
func NewBaseLinkerAdapter() *BaseLinkerAdapter {
	return &BaseLinkerAdapter{}
}

// Platform returns the platform code this adapter handles
func (a *BaseLinkerAdapter) Platform() integration.PlatformCode {
	return integration.PlatformBaseLinker
}

// FromPlatformFormat parses a BaseLinker product document into the canonical
// model.
func (a *BaseLinkerAdapter) FromPlatformFormat(raw []byte) (*catalog.CanonicalProduct, error) {
	var product BaseLinkerProduct
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, fmt.Errorf("%w: baselinker product: %v", integration.ErrMalformedPayload, err)
	}
	return a.toCanonical(&product), nil
}

// ToPlatformFormat renders the canonical product as a BaseLinker product
// document.
func (a *BaseLinkerAdapter) ToPlatformFormat(product *catalog.CanonicalProduct) any {
	return a.toBaseLinker(product)
}

func (a *BaseLinkerAdapter) toCanonical(product *BaseLinkerProduct) *catalog.CanonicalProduct {
	now := time.Now().UTC().Format(time.RFC3339)
	quantity := product.Quantity

	var mainImage string
	var gallery []string
	if len(product.Images) > 0 {
		mainImage = product.Images[0]
		gallery = product.Images[1:]
	}

	variations := make([]string, 0, len(product.Variants))
	for _, v := range product.Variants {
		variations = append(variations, string(v))
	}

	// Inventory exports may carry netto only; derive brutto from the tax rate.
	priceBrutto := formatFloat(product.PriceBrutto)
	if product.PriceBrutto == 0 && product.PriceNetto != 0 {
		priceBrutto = catalog.GrossFromNet(formatFloat(product.PriceNetto), formatFloat(product.TaxRate))
	}

	return &catalog.CanonicalProduct{
		ProductID:        product.ProductID,
		ProductName:      product.Name,
		ProductSlug:      catalog.Slugify(product.Name),
		DateCreated:      now,
		DateModified:     now,
		Status:           catalog.ProductStatusActive,
		Description:      product.Description,
		ShortDescription: product.DescriptionExtra1,
		SKU:              product.SKU,
		Price:            priceBrutto,
		RegularPrice:     formatFloat(product.PriceNetto),
		SalePrice:        formatFloat(product.PriceWholesaleNetto),
		StockQuantity:    catalog.Int64Ptr(quantity),
		StockStatus:      catalog.StockStatusFor(&quantity),
		Tax:              formatFloat(product.TaxRate),
		Quantity:         catalog.Int64Ptr(quantity),
		MainImageURL:     mainImage,
		GalleryImageURLs: gallery,
		Variations:       variations,
		Categories:       []catalog.CanonicalCategory{},
	}
}

func (a *BaseLinkerAdapter) toBaseLinker(product *catalog.CanonicalProduct) BaseLinkerProduct {
	var quantity int64
	if product.StockQuantity != nil {
		quantity = *product.StockQuantity
	}

	priceNetto, _ := strconv.ParseFloat(product.Price, 64)
	priceBrutto, _ := strconv.ParseFloat(product.RegularPrice, 64)
	priceWholesale, _ := strconv.ParseFloat(product.SalePrice, 64)
	taxRate, _ := strconv.ParseFloat(product.Tax, 64)

	var images []string
	if product.MainImageURL != "" {
		images = append(images, product.MainImageURL)
	}
	for _, url := range product.GalleryImageURLs {
		if url != "" {
			images = append(images, url)
		}
	}
	if images == nil {
		images = []string{}
	}

	variants := make([]json.RawMessage, 0, len(product.Variations))
	for _, v := range product.Variations {
		if json.Valid([]byte(v)) {
			variants = append(variants, json.RawMessage(v))
		}
	}

	return BaseLinkerProduct{
		ProductID:           product.ProductID,
		EAN:                 "",
		SKU:                 product.SKU,
		Name:                product.ProductName,
		Quantity:            quantity,
		PriceNetto:          priceNetto,
		PriceBrutto:         priceBrutto,
		PriceWholesaleNetto: priceWholesale,
		TaxRate:             taxRate,
		Weight:              0,
		Images:              images,
		Features:            []json.RawMessage{},
		Variants:            variants,
		Description:         product.Description,
		DescriptionExtra1:   product.ShortDescription,
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

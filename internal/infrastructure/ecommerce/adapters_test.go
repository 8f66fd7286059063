package ecommerce

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/channelsync/backend/internal/domain/catalog"
	"github.com/channelsync/backend/internal/domain/integration"
)

func sampleCanonical() *catalog.CanonicalProduct {
	return &catalog.CanonicalProduct{
		ProductID:        101,
		ProductName:      "Oak Desk",
		ProductSlug:      "oak-desk",
		DateCreated:      "2025-05-01T10:00:00Z",
		DateModified:     "2025-05-02T10:00:00Z",
		Status:           catalog.ProductStatusActive,
		Description:      "Solid oak desk",
		ShortDescription: "Oak desk",
		SKU:              "OAK-101",
		Price:            "499.99",
		RegularPrice:     "549.99",
		SalePrice:        "449.99",
		StockQuantity:    catalog.Int64Ptr(12),
		StockStatus:      catalog.StockStatusInStock,
		Tax:              "23",
		Quantity:         catalog.Int64Ptr(12),
		MainImageURL:     "https://img.example/desk.jpg",
		GalleryImageURLs: []string{"https://img.example/desk-2.jpg"},
		Variations:       []string{`{"color":"brown"}`},
		Categories:       []catalog.CanonicalCategory{{Name: "Furniture"}},
	}
}

// Round trips through each adapter must preserve product id, SKU, name and
// status.
func TestAdapterRoundTripPreservesIdentity(t *testing.T) {
	adapters := []integration.ProductAdapter{
		NewWooCommerceAdapter(),
		NewPrestaShopAdapter(),
		NewApiloAdapter(),
		NewBaseLinkerAdapter(),
	}

	for _, adapter := range adapters {
		t.Run(adapter.Platform().String(), func(t *testing.T) {
			original := sampleCanonical()

			wire := adapter.ToPlatformFormat(original)
			raw, err := json.Marshal(wire)
			require.NoError(t, err)

			got, err := adapter.FromPlatformFormat(raw)
			require.NoError(t, err)

			assert.Equal(t, original.ProductName, got.ProductName)
			assert.Equal(t, original.SKU, got.SKU)
			if adapter.Platform() == integration.PlatformBaseLinker {
				// BaseLinker has no lifecycle status; inbound is always active
				assert.Equal(t, catalog.ProductStatusActive, got.Status)
			} else {
				assert.Equal(t, original.Status, got.Status)
			}
			if adapter.Platform() != integration.PlatformApilo {
				assert.Equal(t, original.ProductID, got.ProductID)
			}
		})
	}
}

func TestWooCommerceFromPlatformFormatDefaultsStockStatus(t *testing.T) {
	raw := []byte(`{"product_id":5,"product_name":"Lamp","status":"publish","stock_quantity":3}`)

	got, err := NewWooCommerceAdapter().FromPlatformFormat(raw)

	require.NoError(t, err)
	assert.Equal(t, catalog.ProductStatusActive, got.Status)
	assert.Equal(t, catalog.StockStatusInStock, got.StockStatus)
}

func TestWooCommerceFromPlatformFormatRejectsBadJSON(t *testing.T) {
	_, err := NewWooCommerceAdapter().FromPlatformFormat([]byte(`{"product_id":`))
	assert.ErrorIs(t, err, integration.ErrMalformedPayload)
}

func TestPrestaShopFromPlatformFormatStringifiesNumericPrices(t *testing.T) {
	raw := []byte(`{"product_id":7,"product_name":"Chair","status":"active","price":12.30,"regular_price":"14.00","sale_price":11,"tax":23}`)

	got, err := NewPrestaShopAdapter().FromPlatformFormat(raw)

	require.NoError(t, err)
	assert.Equal(t, "12.30", got.Price)
	assert.Equal(t, "14.00", got.RegularPrice)
	assert.Equal(t, "11", got.SalePrice)
	assert.Equal(t, "23", got.Tax)
}

func TestApiloToPlatformFormatDefaults(t *testing.T) {
	product := &catalog.CanonicalProduct{
		ProductID:   9,
		ProductName: "Mug",
		Status:      catalog.ProductStatusActive,
		Price:       "9.50",
	}

	wire := NewApiloAdapter().toApilo(product)

	// blank SKU falls back to the product id, blank tax to the default rate
	assert.Equal(t, "9", wire.SKU)
	assert.Equal(t, apiloDefaultTax, wire.Tax)
	assert.Equal(t, apiloStatusActive, wire.Status)
	assert.Equal(t, apiloWeightUnit, wire.Unit)
	assert.Equal(t, "Default Group", wire.GroupName)
	assert.InDelta(t, 9.50, wire.PriceWithTax, 0.0001)
}

func TestApiloImagesMapping(t *testing.T) {
	product := sampleCanonical()

	wire := NewApiloAdapter().toApilo(product)

	assert.Equal(t, map[string]string{
		"main":      "https://img.example/desk.jpg",
		"gallery_1": "https://img.example/desk-2.jpg",
	}, wire.Images)
}

func TestApiloStatusMapping(t *testing.T) {
	tests := []struct {
		name      string
		canonical catalog.ProductStatus
		apilo     int
	}{
		{"active", catalog.ProductStatusActive, apiloStatusActive},
		{"inactive", catalog.ProductStatusInactive, apiloStatusInactive},
		{"archived", catalog.ProductStatusArchived, apiloStatusArchive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.apilo, canonicalStatusToApilo(tt.canonical))
			assert.Equal(t, tt.canonical, apiloStatusToCanonical(tt.apilo))
		})
	}
}

func TestBaseLinkerImageSplit(t *testing.T) {
	raw := []byte(`{"product_id":3,"name":"Rug","sku":"RUG-3","quantity":2,"price_brutto":55.5,"images":["a.jpg","b.jpg","c.jpg"]}`)

	got, err := NewBaseLinkerAdapter().FromPlatformFormat(raw)

	require.NoError(t, err)
	assert.Equal(t, "a.jpg", got.MainImageURL)
	assert.Equal(t, []string{"b.jpg", "c.jpg"}, got.GalleryImageURLs)
	assert.Equal(t, "55.5", got.Price)
	assert.Equal(t, catalog.StockStatusInStock, got.StockStatus)
}

func TestRegistryResolvesAllPlatforms(t *testing.T) {
	registry := NewDefaultRegistry()

	for _, code := range integration.AllPlatforms() {
		adapter, err := registry.Adapter(code)
		require.NoError(t, err)
		assert.Equal(t, code, adapter.Platform())
	}
}

func TestRegistryUnknownPlatformIsHardError(t *testing.T) {
	registry := NewDefaultRegistry()

	_, err := registry.Adapter(integration.PlatformCode("Shopify"))

	assert.ErrorIs(t, err, integration.ErrUnsupportedPlatform)
}

func TestChunk(t *testing.T) {
	items := make([]int, 300)
	for i := range items {
		items[i] = i
	}

	chunks := chunk(items, 128)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 128)
	assert.Len(t, chunks[1], 128)
	assert.Len(t, chunks[2], 44)
	assert.Equal(t, 0, chunks[0][0])
	assert.Equal(t, 299, chunks[2][43])

	assert.Nil(t, chunk([]int{}, 128))
	assert.Len(t, chunk([]int{1}, 128), 1)
}

package catalog

import (
	"strconv"
	"strings"
	"unicode"
)

// ---------------------------------------------------------------------------
// Product Status
// ---------------------------------------------------------------------------

// ProductStatus is the canonical lifecycle status of a product.
type ProductStatus string

const (
	// ProductStatusActive indicates the product is listed and purchasable
	ProductStatusActive ProductStatus = "active"
	// ProductStatusInactive indicates the product is hidden from sale
	ProductStatusInactive ProductStatus = "inactive"
	// ProductStatusArchived indicates the product is retired
	ProductStatusArchived ProductStatus = "archived"
)

// IsValid returns true if the status is one of the canonical values
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusArchived:
		return true
	default:
		return false
	}
}

// String returns the string representation of ProductStatus
func (s ProductStatus) String() string {
	return string(s)
}

// NormalizeStatus maps an arbitrary platform status string to a canonical
// ProductStatus via a case-insensitive lookup. Unknown values fall back to
// inactive rather than failing: adapters default, they never reject.
func NormalizeStatus(raw string) ProductStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active", "publish", "published", "enabled", "1":
		return ProductStatusActive
	case "archived", "archive", "trash", "8":
		return ProductStatusArchived
	default:
		return ProductStatusInactive
	}
}

// ---------------------------------------------------------------------------
// Stock Status
// ---------------------------------------------------------------------------

// StockStatus is the canonical availability tag derived from stock quantity.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// String returns the string representation of StockStatus
func (s StockStatus) String() string {
	return string(s)
}

// StockStatusFor derives availability from a nullable quantity. A nil
// quantity counts as out of stock.
func StockStatusFor(quantity *int64) StockStatus {
	if quantity != nil && *quantity > 0 {
		return StockStatusInStock
	}
	return StockStatusOutOfStock
}

// ---------------------------------------------------------------------------
// Canonical Product
// ---------------------------------------------------------------------------

// CanonicalCategory is a platform-neutral product category. Platforms with
// flat category schemes leave Subcategories empty.
type CanonicalCategory struct {
	Name          string              `json:"name"`
	Subcategories []CanonicalCategory `json:"subcategories,omitempty"`
}

// CanonicalProduct is the platform-neutral product representation exchanged
// between platform adapters. It is treated as an immutable value: adapters
// build a fresh instance per translation and never mutate a received one.
//
// Quantity duplicates StockQuantity for compatibility with platforms whose
// webhook payloads carry the legacy field; StockQuantity is authoritative.
type CanonicalProduct struct {
	ProductID        int64               `json:"product_id"`
	ProductName      string              `json:"product_name"`
	ProductSlug      string              `json:"product_slug"`
	DateCreated      string              `json:"date_created"`
	DateModified     string              `json:"date_modified"`
	Status           ProductStatus       `json:"status"`
	Description      string              `json:"description"`
	ShortDescription string              `json:"short_description"`
	SKU              string              `json:"sku"`
	Price            string              `json:"price"`
	RegularPrice     string              `json:"regular_price"`
	SalePrice        string              `json:"sale_price"`
	StockQuantity    *int64              `json:"stock_quantity"`
	StockStatus      StockStatus         `json:"stock_status"`
	OSS              string              `json:"oss"`
	Tax              string              `json:"tax"`
	Quantity         *int64              `json:"quantity"`
	MainImageURL     string              `json:"main_image_url"`
	GalleryImageURLs []string            `json:"gallery_image_urls"`
	Variations       []string            `json:"variations"`
	Categories       []CanonicalCategory `json:"categories"`
}

// EffectiveSKU returns the SKU, falling back to the numeric product id when
// the platform left it blank. Remote catalogs are keyed by SKU, so pushes
// must always carry one.
func (p *CanonicalProduct) EffectiveSKU() string {
	if sku := strings.TrimSpace(p.SKU); sku != "" {
		return sku
	}
	return strconv.FormatInt(p.ProductID, 10)
}

// Slugify produces a URL-safe slug from a product name: lowercase, runs of
// non-alphanumerics collapsed to single hyphens, no leading/trailing hyphen.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Int64Ptr returns a pointer to n. Convenience for building canonical
// products with nullable quantities.
func Int64Ptr(n int64) *int64 {
	return &n
}

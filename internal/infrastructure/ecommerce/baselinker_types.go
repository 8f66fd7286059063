package ecommerce

import "encoding/json"

// ---------------------------------------------------------------------------
// BaseLinker Wire Types
// ---------------------------------------------------------------------------

// BaseLinker RPC method names. The API is a single endpoint dispatching on a
// form-encoded method field.
const (
	blGetInventories           = "getInventories"
	blGetInventoryProductsList = "getInventoryProductsList"
	blGetInventoryProductsData = "getInventoryProductsData"
	blGetStoragesList          = "getStoragesList"
	blGetProductsData          = "getProductsData"
	blGetOrders                = "getOrders"
	blGetCategories            = "getCategories"
	blAddProduct               = "addProduct"
	blDeleteProduct            = "deleteProduct"
)

// blDefaultStorageID is the storage scope products are written to. "bl_1" is
// BaseLinker's built-in catalog storage.
const blDefaultStorageID = "bl_1"

const blStatusError = "ERROR"

// blStatus is the envelope every BaseLinker response carries.
type blStatus struct {
	Status       string `json:"status"`
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// IsError reports whether the response envelope signals failure
func (s *blStatus) IsError() bool {
	return s.Status == blStatusError
}

// BaseLinkerProduct is a product document in BaseLinker's storage API.
type BaseLinkerProduct struct {
	ProductID           int64             `json:"product_id"`
	EAN                 string            `json:"ean"`
	SKU                 string            `json:"sku"`
	Name                string            `json:"name"`
	Quantity            int64             `json:"quantity"`
	PriceNetto          float64           `json:"price_netto"`
	PriceBrutto         float64           `json:"price_brutto"`
	PriceWholesaleNetto float64           `json:"price_wholesale_netto"`
	TaxRate             float64           `json:"tax_rate"`
	Weight              float64           `json:"weight"`
	ManName             string            `json:"man_name"`
	ManImage            string            `json:"man_image"`
	CategoryID          int64             `json:"category_id"`
	Images              []string          `json:"images"`
	Features            []json.RawMessage `json:"features"`
	Variants            []json.RawMessage `json:"variants"`
	Description         string            `json:"description"`
	DescriptionExtra1   string            `json:"description_extra1"`
	DescriptionExtra2   string            `json:"description_extra2"`
	DescriptionExtra3   string            `json:"description_extra3"`
	DescriptionExtra4   string            `json:"description_extra4"`
}

// blInventoriesResponse is the getInventories reply.
type blInventoriesResponse struct {
	blStatus
	Inventories []blInventory `json:"inventories"`
}

type blInventory struct {
	InventoryID int64  `json:"inventory_id"`
	Name        string `json:"name"`
}

// blInventoryProductsListResponse is the getInventoryProductsList reply;
// keys are product ids.
type blInventoryProductsListResponse struct {
	blStatus
	Products map[string]json.RawMessage `json:"products"`
}

// blInventoryProductsDataResponse is the getInventoryProductsData reply.
type blInventoryProductsDataResponse struct {
	blStatus
	Products map[string]BaseLinkerProduct `json:"products"`
}

// blStoragesListResponse is the getStoragesList reply.
type blStoragesListResponse struct {
	blStatus
	Storages []blStorage `json:"storages"`
}

type blStorage struct {
	StorageID string `json:"storage_id"`
	Name      string `json:"name"`
}

// blCategoriesResponse is the getCategories reply for one storage.
type blCategoriesResponse struct {
	blStatus
	StorageID  string       `json:"storage_id"`
	Categories []blCategory `json:"categories"`
}

type blCategory struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
	ParentID   int64  `json:"parent_id"`
}

// blProductsDataResponse is the getProductsData reply, keyed by product id.
type blProductsDataResponse struct {
	blStatus
	Products map[string]BaseLinkerProduct `json:"products"`
}

// blAddProductResponse is the addProduct reply.
type blAddProductResponse struct {
	blStatus
	ProductID json.Number `json:"product_id"`
}

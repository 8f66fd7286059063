package ecommerce

// ---------------------------------------------------------------------------
// Apilo Wire Types
// ---------------------------------------------------------------------------

// Constants for the Apilo REST API
const (
	apiloRestPath    = "/rest/api"
	apiloAuthPath    = "/rest/auth/token"
	apiloProductPath = "/warehouse/product"
	apiloOrderPath   = "/orders"

	// apiloPageLimit is the platform-mandated page size for product listings
	apiloPageLimit = 2000
	// apiloChunkSize is the maximum batch size for product writes
	apiloChunkSize = 128
	// apiloDefaultTax is the VAT rate assumed when the canonical product
	// carries none
	apiloDefaultTax = "23"
	// apiloWeightUnit is the unit Apilo expects on every product
	apiloWeightUnit = "KG"
)

// Apilo numeric product status codes
const (
	apiloStatusInactive = 0
	apiloStatusActive   = 1
	apiloStatusArchive  = 8
)

// apiloAuthRequest is the body of both token exchanges: grant_type
// authorization_code on init, refresh_token on renewal.
type apiloAuthRequest struct {
	GrantType   string `json:"grantType"`
	Token       string `json:"token"`
	DeveloperID *int64 `json:"developerId"`
}

// ApiloAuthResponse carries the token material from either exchange. Expiry
// fields are RFC 3339 timestamps.
type ApiloAuthResponse struct {
	AccessToken          string `json:"accessToken"`
	AccessTokenExpireAt  string `json:"accessTokenExpireAt"`
	RefreshToken         string `json:"refreshToken"`
	RefreshTokenExpireAt string `json:"refreshTokenExpireAt"`
}

// ApiloProduct is a product document in Apilo's warehouse API. The same
// shape serves GET responses, POST bodies, and PUT bodies; ID is zero on
// creates and carries the remote id on updates.
type ApiloProduct struct {
	ID               int64             `json:"id,omitempty"`
	SKU              string            `json:"sku"`
	EAN              string            `json:"ean"`
	Name             string            `json:"name"`
	Tax              string            `json:"tax"`
	Status           int               `json:"status"`
	OriginalCode     string            `json:"originalCode"`
	GroupName        string            `json:"groupName"`
	ProductGroupID   int64             `json:"productGroupId,omitempty"`
	Categories       []int64           `json:"categories,omitempty"`
	Attributes       map[string]string `json:"attributes"`
	Images           map[string]string `json:"images"`
	Quantity         int64             `json:"quantity"`
	PriceWithTax     float64           `json:"priceWithTax"`
	PriceWithoutTax  string            `json:"priceWithoutTax,omitempty"`
	Weight           float64           `json:"weight"`
	Unit             string            `json:"unit"`
	Description      string            `json:"description"`
	ShortDescription string            `json:"shortDescription"`
}

// apiloProductPage is one page of the warehouse product listing.
type apiloProductPage struct {
	Products   []ApiloProduct `json:"products"`
	TotalCount int64          `json:"totalCount"`
}

// ApiloPingResponse is the body of the availability probe.
type ApiloPingResponse struct {
	Content string `json:"content"`
}

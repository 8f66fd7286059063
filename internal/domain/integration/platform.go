package integration

import "github.com/google/uuid"

// ---------------------------------------------------------------------------
// PlatformCode
// ---------------------------------------------------------------------------

// PlatformCode identifies a supported e-commerce platform. The wire values
// match what already-integrated third parties send and must not change.
type PlatformCode string

const (
	// PlatformWooCommerce is the WordPress storefront plugin
	PlatformWooCommerce PlatformCode = "WooCommerce"
	// PlatformPrestaShop is the PrestaShop storefront plugin
	PlatformPrestaShop PlatformCode = "PrestaShop"
	// PlatformApilo is the Apilo marketplace integration hub
	PlatformApilo PlatformCode = "Apilo"
	// PlatformBaseLinker is the BaseLinker multi-channel listing manager
	PlatformBaseLinker PlatformCode = "BaseLinker"
)

// IsValid returns true if the platform code is one of the supported set
func (c PlatformCode) IsValid() bool {
	switch c {
	case PlatformWooCommerce, PlatformPrestaShop, PlatformApilo, PlatformBaseLinker:
		return true
	default:
		return false
	}
}

// String returns the string representation of PlatformCode
func (c PlatformCode) String() string {
	return string(c)
}

// AllPlatforms returns the closed set of supported platform codes
func AllPlatforms() []PlatformCode {
	return []PlatformCode{PlatformWooCommerce, PlatformPrestaShop, PlatformApilo, PlatformBaseLinker}
}

// ---------------------------------------------------------------------------
// IntegrationStatus
// ---------------------------------------------------------------------------

// Status is the lifecycle status of an integration.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

// IsValid returns true if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	default:
		return false
	}
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// Integration
// ---------------------------------------------------------------------------

// Integration is one merchant's connected account on one platform. The core
// reads integrations; it never mutates them except through credential-update
// side calls owned by the credential stores.
type Integration struct {
	// UUID identifies the integration across all collaborators
	UUID uuid.UUID
	// Name is the merchant-facing display name
	Name string
	// Platform is the connected platform
	Platform PlatformCode
	// Status is the lifecycle status; only active integrations receive fan-out
	Status Status
	// SiteURL is the storefront base URL. Only meaningful for platforms
	// called by URL (WooCommerce, PrestaShop); empty for credential-based ones.
	SiteURL string
}

// IsActive reports whether the integration should receive propagated changes
func (i Integration) IsActive() bool {
	return i.Status == StatusActive
}

// FilterActive returns the active integrations, excluding the one identified
// by originUUID. Pass uuid.Nil to keep all active integrations.
func FilterActive(integrations []Integration, originUUID uuid.UUID) []Integration {
	out := make([]Integration, 0, len(integrations))
	for _, in := range integrations {
		if in.IsActive() && in.UUID != originUUID {
			out = append(out, in)
		}
	}
	return out
}

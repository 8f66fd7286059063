package integration

import (
	"github.com/channelsync/backend/internal/domain/catalog"
)

// ProductAdapter is the port for translating between one platform's native
// product schema and the canonical model. Implementations are pure: no I/O,
// no retained state.
//
// FromPlatformFormat accepts the raw JSON payload the platform delivered and
// must substitute defaults (empty string, zero, empty list) for missing
// optional fields so propagation never blocks on sparse data; it returns
// ErrMalformedPayload only when the payload cannot be decoded at all.
//
// ToPlatformFormat must synthesize any required-but-missing native fields
// with platform-appropriate defaults rather than fail (blank SKU falls back
// to the product id, tax falls back to the platform's fixed rate, status
// strings map through a closed lookup with a safe default).
type ProductAdapter interface {
	// Platform returns the platform this adapter translates for
	Platform() PlatformCode

	// FromPlatformFormat normalizes a native product payload to canonical form
	FromPlatformFormat(raw []byte) (*catalog.CanonicalProduct, error)

	// ToPlatformFormat renders a canonical product in the platform's native
	// schema, ready for JSON encoding
	ToPlatformFormat(product *catalog.CanonicalProduct) any
}

// AdapterRegistry resolves a platform code to its adapter. Platform codes are
// a closed, versioned set: looking up an unregistered code is a hard
// ErrUnsupportedPlatform, unlike the Propagator's soft handling of missing
// services.
type AdapterRegistry interface {
	// Adapter returns the adapter for the given platform code
	Adapter(code PlatformCode) (ProductAdapter, error)
}

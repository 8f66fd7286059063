package ecommerce

import (
	"fmt"

	"github.com/channelsync/backend/internal/domain/integration"
)

// Registry resolves platform codes to their product adapters. Platform codes
// are a closed set, so an unregistered lookup is a hard error rather than a
// skip.
type Registry struct {
	adapters map[integration.PlatformCode]integration.ProductAdapter
}

var _ integration.AdapterRegistry = (*Registry)(nil)

// NewRegistry creates a Registry from the given adapters.
func NewRegistry(adapters ...integration.ProductAdapter) *Registry {
	byPlatform := make(map[integration.PlatformCode]integration.ProductAdapter, len(adapters))
	for _, adapter := range adapters {
		byPlatform[adapter.Platform()] = adapter
	}
	return &Registry{adapters: byPlatform}
}

// NewDefaultRegistry creates a Registry covering every supported platform.
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		NewWooCommerceAdapter(),
		NewPrestaShopAdapter(),
		NewApiloAdapter(),
		NewBaseLinkerAdapter(),
	)
}

// Adapter returns the adapter for the platform, or ErrUnsupportedPlatform.
func (r *Registry) Adapter(code integration.PlatformCode) (integration.ProductAdapter, error) {
	adapter, ok := r.adapters[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", integration.ErrUnsupportedPlatform, code)
	}
	return adapter, nil
}

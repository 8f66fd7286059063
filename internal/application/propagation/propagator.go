package propagation

import (
	"context"

	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/domain/catalog"
	"github.com/channelsync/backend/internal/domain/integration"
)

// Propagator dispatches a product operation to the service registered for a
// target integration's platform. Integrations on platforms without a
// registered service are skipped with a warning rather than failing the
// batch, so a merchant connecting a platform this deployment does not ship
// never blocks their remaining channels.
type Propagator struct {
	services map[integration.PlatformCode]integration.PlatformService
	logger   *zap.Logger
}

// NewPropagator builds a Propagator from the given platform services.
// Registering two services for the same platform is a wiring bug, so the
// later one wins and a warning is emitted.
func NewPropagator(logger *zap.Logger, services ...integration.PlatformService) *Propagator {
	byPlatform := make(map[integration.PlatformCode]integration.PlatformService, len(services))
	for _, svc := range services {
		if _, dup := byPlatform[svc.Platform()]; dup {
			logger.Warn("duplicate platform service registered, keeping the later one",
				zap.String("platform", svc.Platform().String()))
		}
		byPlatform[svc.Platform()] = svc
	}
	return &Propagator{services: byPlatform, logger: logger}
}

// PushProduct routes a product upsert to the target integration's platform
// service. An unregistered platform is a logged no-op returning nil.
func (p *Propagator) PushProduct(ctx context.Context, target integration.Integration, product *catalog.CanonicalProduct) error {
	svc, ok := p.services[target.Platform]
	if !ok {
		p.skip(target, "push")
		return nil
	}
	return svc.PushProduct(ctx, target, product)
}

// DeleteProduct routes a product removal to the target integration's
// platform service. An unregistered platform is a logged no-op returning nil.
func (p *Propagator) DeleteProduct(ctx context.Context, target integration.Integration, productID string) error {
	svc, ok := p.services[target.Platform]
	if !ok {
		p.skip(target, "delete")
		return nil
	}
	return svc.DeleteProduct(ctx, target, productID)
}

func (p *Propagator) skip(target integration.Integration, op string) {
	p.logger.Warn("no service registered for platform, skipping integration",
		zap.String("operation", op),
		zap.String("platform", target.Platform.String()),
		zap.String("integration_uuid", target.UUID.String()),
		zap.String("integration_name", target.Name))
}

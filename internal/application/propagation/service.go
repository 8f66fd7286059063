package propagation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/domain/integration"
)

// ProductPropagationService fans a product change out to every active
// sibling integration of the origin. Targets are processed strictly in
// sequence; a failure on one target is recorded in its result and never
// aborts the remaining targets.
type ProductPropagationService struct {
	directory  integration.IntegrationDirectory
	propagator *Propagator
	logger     *zap.Logger
}

// NewProductPropagationService creates a new ProductPropagationService
func NewProductPropagationService(
	directory integration.IntegrationDirectory,
	propagator *Propagator,
	logger *zap.Logger,
) *ProductPropagationService {
	return &ProductPropagationService{
		directory:  directory,
		propagator: propagator,
		logger:     logger,
	}
}

// PropagateProduct pushes the product to every target in obj.Integrations,
// returning one result per target in input order.
func (s *ProductPropagationService) PropagateProduct(ctx context.Context, obj integration.PropagationObject) []integration.PropagationResult {
	results := make([]integration.PropagationResult, 0, len(obj.Integrations))
	for _, target := range obj.Integrations {
		err := s.propagator.PushProduct(ctx, target, obj.Product)
		results = append(results, s.record(target, "push", err))
	}
	return results
}

// RemoveProduct deletes the product from every target in obj.Integrations,
// returning one result per target in input order.
func (s *ProductPropagationService) RemoveProduct(ctx context.Context, obj integration.DeletionObject) []integration.PropagationResult {
	results := make([]integration.PropagationResult, 0, len(obj.Integrations))
	for _, target := range obj.Integrations {
		err := s.propagator.DeleteProduct(ctx, target, obj.ProductID)
		results = append(results, s.record(target, "delete", err))
	}
	return results
}

// TargetsFor resolves the fan-out targets for a change originating on the
// given integration: the origin merchant's other active integrations. The
// directory already scopes the lookup, but the result is filtered again so a
// paused sibling or the origin itself never receives a propagation.
func (s *ProductPropagationService) TargetsFor(ctx context.Context, originUUID string) ([]integration.Integration, error) {
	origin, err := uuid.Parse(originUUID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid integration uuid %q", integration.ErrIntegrationNotFound, originUUID)
	}
	siblings, err := s.directory.ActiveSiblings(ctx, origin)
	if err != nil {
		return nil, err
	}
	return integration.FilterActive(siblings, origin), nil
}

func (s *ProductPropagationService) record(target integration.Integration, op string, err error) integration.PropagationResult {
	result := integration.PropagationResult{
		Platform: target.Platform,
		Name:     target.Name,
		Status:   integration.ResultSuccess,
	}
	if err != nil {
		result.Status = integration.ResultError
		result.Error = err.Error()
		s.logger.Error("propagation to integration failed",
			zap.String("operation", op),
			zap.String("platform", target.Platform.String()),
			zap.String("integration_uuid", target.UUID.String()),
			zap.Error(err))
	}
	return result
}

package handler

import (
	"context"

	"github.com/channelsync/backend/internal/domain/integration"
)

// ProductPropagator fans product changes out to an origin's sibling
// integrations. Satisfied by the propagation application service.
type ProductPropagator interface {
	TargetsFor(ctx context.Context, originUUID string) ([]integration.Integration, error)
	PropagateProduct(ctx context.Context, obj integration.PropagationObject) []integration.PropagationResult
	RemoveProduct(ctx context.Context, obj integration.DeletionObject) []integration.PropagationResult
}

// OrderRecorder records an incoming order notification exactly once. A first
// delivery yields the stored order uuid; a repeat delivery forwards the
// reference downstream and yields the processor's reply. Satisfied by the
// order sync application service.
type OrderRecorder interface {
	HandleOrder(ctx context.Context, origin integration.Integration, externalOrderID string) (*integration.OrderSyncResult, error)
	HandleOrderPayload(ctx context.Context, origin integration.Integration, externalOrderID string, payload []byte) (*integration.OrderSyncResult, error)
}

package ordersync

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/domain/integration"
)

// OrderSyncService records incoming platform order notifications exactly
// once. A first delivery persists the order and replies with the uuid it was
// stored under; the downstream reference is forwarded only on a repeat
// notification for an order already on record.
//
// Idempotency is anchored on (integration uuid, external order id): a
// notification for an order already on record skips the platform fetch and
// the save, and only re-forwards the reference. A Redis-backed seen cache
// fronts the store as a fast path; any cache error degrades to the store
// lookup.
type OrderSyncService struct {
	store     integration.OrderStore
	forwarder integration.OrderForwarder
	cache     integration.SeenOrderCache
	fetchers  map[integration.PlatformCode]integration.OrderFetcher
	logger    *zap.Logger
}

// NewOrderSyncService creates a new OrderSyncService
func NewOrderSyncService(
	store integration.OrderStore,
	forwarder integration.OrderForwarder,
	cache integration.SeenOrderCache,
	logger *zap.Logger,
	fetchers ...integration.OrderFetcher,
) *OrderSyncService {
	byPlatform := make(map[integration.PlatformCode]integration.OrderFetcher, len(fetchers))
	for _, f := range fetchers {
		byPlatform[f.Platform()] = f
	}
	return &OrderSyncService{
		store:     store,
		forwarder: forwarder,
		cache:     cache,
		fetchers:  byPlatform,
		logger:    logger,
	}
}

// HandleOrder processes one order notification from the given integration.
// A first delivery returns the stored order uuid; a duplicate returns the
// downstream processor's reply.
func (s *OrderSyncService) HandleOrder(ctx context.Context, origin integration.Integration, externalOrderID string) (*integration.OrderSyncResult, error) {
	if externalOrderID == "" {
		return nil, fmt.Errorf("%w: empty order id", integration.ErrMalformedPayload)
	}

	exists, err := s.orderOnRecord(ctx, origin.UUID, externalOrderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return s.forwardRecorded(ctx, origin.UUID, externalOrderID)
	}

	fetcher, ok := s.fetchers[origin.Platform]
	if !ok {
		return nil, fmt.Errorf("%w: no order fetcher for platform %s", integration.ErrUnsupportedPlatform, origin.Platform)
	}
	payload, err := fetcher.FetchOrder(ctx, origin, externalOrderID)
	if err != nil {
		return nil, fmt.Errorf("fetch order %s from %s: %w", externalOrderID, origin.Platform, err)
	}

	orderUUID, err := s.store.SaveOrder(ctx, origin.UUID, externalOrderID, payload)
	if err != nil {
		return nil, fmt.Errorf("save order %s: %w", externalOrderID, err)
	}
	s.markSeen(ctx, origin.UUID, externalOrderID)

	s.logger.Info("order recorded",
		zap.String("integration_uuid", origin.UUID.String()),
		zap.String("order_id", externalOrderID),
		zap.String("order_uuid", orderUUID.String()))

	return &integration.OrderSyncResult{OrderUUID: orderUUID.String()}, nil
}

// HandleOrderPayload processes an order notification whose webhook already
// carried the full order document, as the storefront platforms deliver.
// Identical idempotency to HandleOrder, skipping the platform fetch.
func (s *OrderSyncService) HandleOrderPayload(ctx context.Context, origin integration.Integration, externalOrderID string, payload []byte) (*integration.OrderSyncResult, error) {
	if externalOrderID == "" {
		return nil, fmt.Errorf("%w: empty order id", integration.ErrMalformedPayload)
	}

	exists, err := s.orderOnRecord(ctx, origin.UUID, externalOrderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return s.forwardRecorded(ctx, origin.UUID, externalOrderID)
	}

	orderUUID, err := s.store.SaveOrder(ctx, origin.UUID, externalOrderID, payload)
	if err != nil {
		return nil, fmt.Errorf("save order %s: %w", externalOrderID, err)
	}
	s.markSeen(ctx, origin.UUID, externalOrderID)
	s.logger.Info("order recorded from webhook payload",
		zap.String("integration_uuid", origin.UUID.String()),
		zap.String("order_id", externalOrderID),
		zap.String("order_uuid", orderUUID.String()))

	return &integration.OrderSyncResult{OrderUUID: orderUUID.String()}, nil
}

// forwardRecorded re-forwards the reference of an order already on record.
func (s *OrderSyncService) forwardRecorded(ctx context.Context, integrationUUID uuid.UUID, externalOrderID string) (*integration.OrderSyncResult, error) {
	s.logger.Info("order already recorded, forwarding reference only",
		zap.String("integration_uuid", integrationUUID.String()),
		zap.String("order_id", externalOrderID))
	resp, err := s.forwarder.ForwardOrderReference(ctx, integrationUUID, externalOrderID)
	if err != nil {
		return nil, err
	}
	return &integration.OrderSyncResult{Forwarded: resp}, nil
}

// orderOnRecord consults the seen cache first and falls back to the store.
// A positive cache hit is trusted; everything else defers to the store.
func (s *OrderSyncService) orderOnRecord(ctx context.Context, integrationUUID uuid.UUID, externalOrderID string) (bool, error) {
	if s.cache != nil {
		seen, err := s.cache.Seen(ctx, integrationUUID, externalOrderID)
		if err != nil {
			s.logger.Warn("seen-order cache lookup failed, falling back to store",
				zap.String("order_id", externalOrderID),
				zap.Error(err))
		} else if seen {
			return true, nil
		}
	}

	exists, err := s.store.OrderExists(ctx, integrationUUID, externalOrderID)
	if err != nil {
		return false, fmt.Errorf("order lookup %s: %w", externalOrderID, err)
	}
	if exists {
		s.markSeen(ctx, integrationUUID, externalOrderID)
	}
	return exists, nil
}

func (s *OrderSyncService) markSeen(ctx context.Context, integrationUUID uuid.UUID, externalOrderID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.MarkSeen(ctx, integrationUUID, externalOrderID); err != nil {
		s.logger.Warn("seen-order cache write failed",
			zap.String("order_id", externalOrderID),
			zap.Error(err))
	}
}

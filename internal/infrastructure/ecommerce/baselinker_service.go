package ecommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/domain/catalog"
	"github.com/channelsync/backend/internal/domain/integration"
)

// BaseLinkerService implements the platform contract against BaseLinker's
// storage API. A push resolves the account's inventories and existing
// product ids first, then adds the product to the default catalog storage;
// the remote product id is carried through only when the remote catalog
// already holds it.
type BaseLinkerService struct {
	adapter *BaseLinkerAdapter
	tokens  integration.BaseLinkerTokenStore
	cipher  integration.CredentialCipher
	client  *BaseLinkerClient
	logger  *zap.Logger
}

var (
	_ integration.PlatformService = (*BaseLinkerService)(nil)
	_ integration.OrderFetcher    = (*BaseLinkerService)(nil)
)

// NewBaseLinkerService creates a new BaseLinkerService
func NewBaseLinkerService(
	adapter *BaseLinkerAdapter,
	tokens integration.BaseLinkerTokenStore,
	cipher integration.CredentialCipher,
	client *BaseLinkerClient,
	logger *zap.Logger,
) *BaseLinkerService {
	return &BaseLinkerService{adapter: adapter, tokens: tokens, cipher: cipher, client: client, logger: logger}
}

// Platform returns the platform code this service handles
func (s *BaseLinkerService) Platform() integration.PlatformCode {
	return integration.PlatformBaseLinker
}

// PushProduct adds the product to the integration's default BaseLinker
// storage.
func (s *BaseLinkerService) PushProduct(ctx context.Context, target integration.Integration, product *catalog.CanonicalProduct) error {
	token, err := s.token(ctx, target.UUID)
	if err != nil {
		return err
	}

	blProduct := s.adapter.toBaseLinker(product)

	existingIDs, err := s.existingProductIDs(ctx, token)
	if err != nil {
		return err
	}

	storages, err := s.storages(ctx, token)
	if err != nil {
		return err
	}
	categories, err := s.categoriesByStorage(ctx, token, storages)
	if err != nil {
		return err
	}
	s.logger.Debug("baselinker account resolved",
		zap.String("integration_uuid", target.UUID.String()),
		zap.Int("storages", len(storages)),
		zap.Int("category_storages", len(categories)))

	params, err := addProductParams(blProduct, existingIDs[blProduct.ProductID])
	if err != nil {
		return err
	}

	var resp blAddProductResponse
	if err := s.client.Call(ctx, token, blAddProduct, params, &resp); err != nil {
		return fmt.Errorf("baselinker add product: %w", err)
	}

	s.logger.Info("baselinker product propagated",
		zap.String("integration_uuid", target.UUID.String()),
		zap.Int64("product_id", product.ProductID),
		zap.String("remote_product_id", resp.ProductID.String()))
	return nil
}

// DeleteProduct removes the product from the integration's default storage.
func (s *BaseLinkerService) DeleteProduct(ctx context.Context, target integration.Integration, productID string) error {
	token, err := s.token(ctx, target.UUID)
	if err != nil {
		return err
	}

	params := map[string]any{
		"storage_id": blDefaultStorageID,
		"product_id": productID,
	}
	if err := s.client.Call(ctx, token, blDeleteProduct, params, nil); err != nil {
		return fmt.Errorf("baselinker delete product %s: %w", productID, err)
	}

	s.logger.Info("baselinker product deleted",
		zap.String("integration_uuid", target.UUID.String()),
		zap.String("product_id", productID))
	return nil
}

// FetchOrder pulls one order's full details by its BaseLinker id, including
// unconfirmed orders.
func (s *BaseLinkerService) FetchOrder(ctx context.Context, target integration.Integration, externalOrderID string) ([]byte, error) {
	token, err := s.token(ctx, target.UUID)
	if err != nil {
		return nil, err
	}

	params := map[string]any{
		"order_id":               externalOrderID,
		"get_unconfirmed_orders": true,
	}
	if id, err := strconv.ParseInt(externalOrderID, 10, 64); err == nil {
		params["order_id"] = id
	}

	var order json.RawMessage
	if err := s.client.Call(ctx, token, blGetOrders, params, &order); err != nil {
		return nil, fmt.Errorf("baselinker fetch order %s: %w", externalOrderID, err)
	}
	return order, nil
}

// ProductByID resolves a product across the account's storages by its
// BaseLinker id. Used to build propagation input from webhook notifications,
// which carry ids only.
func (s *BaseLinkerService) ProductByID(ctx context.Context, target integration.Integration, productID string) (*catalog.CanonicalProduct, error) {
	token, err := s.token(ctx, target.UUID)
	if err != nil {
		return nil, err
	}

	storages, err := s.storages(ctx, token)
	if err != nil {
		return nil, err
	}

	for _, storage := range storages {
		var resp blProductsDataResponse
		params := map[string]any{
			"storage_id": storage.StorageID,
			"products":   []string{productID},
		}
		if err := s.client.Call(ctx, token, blGetProductsData, params, &resp); err != nil {
			return nil, fmt.Errorf("baselinker products data from %s: %w", storage.StorageID, err)
		}
		if product, ok := resp.Products[productID]; ok {
			return s.adapter.toCanonical(&product), nil
		}
	}
	return nil, fmt.Errorf("%w: baselinker product %s not found in any storage", integration.ErrPlatformInvalidResponse, productID)
}

// SaveToken encrypts and stores the integration's API token, returning the
// token record uuid.
func (s *BaseLinkerService) SaveToken(ctx context.Context, integrationUUID uuid.UUID, xblToken string) (uuid.UUID, error) {
	encrypted, err := s.cipher.Encrypt(xblToken)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encrypt baselinker token: %w", err)
	}
	return s.tokens.Upsert(ctx, integrationUUID, encrypted)
}

// Inventories lists the account's inventories with a caller-supplied token.
// Used during integration setup to validate the token before it is stored.
func (s *BaseLinkerService) Inventories(ctx context.Context, xblToken string) ([]blInventory, error) {
	var resp blInventoriesResponse
	if err := s.client.Call(ctx, xblToken, blGetInventories, map[string]any{}, &resp); err != nil {
		return nil, fmt.Errorf("baselinker inventories: %w", err)
	}
	return resp.Inventories, nil
}

// ValidateToken checks that a candidate token is accepted by BaseLinker,
// returning the number of inventories visible to it. Called before SaveToken
// so a mistyped token is rejected instead of stored.
func (s *BaseLinkerService) ValidateToken(ctx context.Context, xblToken string) (int, error) {
	inventories, err := s.Inventories(ctx, xblToken)
	if err != nil {
		return 0, err
	}
	return len(inventories), nil
}

func (s *BaseLinkerService) token(ctx context.Context, integrationUUID uuid.UUID) (string, error) {
	encrypted, err := s.tokens.Token(ctx, integrationUUID)
	if err != nil {
		return "", err
	}
	token, err := s.cipher.Decrypt(encrypted)
	if err != nil {
		return "", fmt.Errorf("%w: baselinker token: %v", integration.ErrCredentialDecrypt, err)
	}
	return token, nil
}

// existingProductIDs walks every inventory and collects the ids already
// present in the remote catalog.
func (s *BaseLinkerService) existingProductIDs(ctx context.Context, token string) (map[int64]bool, error) {
	var inventories blInventoriesResponse
	if err := s.client.Call(ctx, token, blGetInventories, map[string]any{}, &inventories); err != nil {
		return nil, fmt.Errorf("baselinker inventories: %w", err)
	}

	ids := make(map[int64]bool)
	for _, inventory := range inventories.Inventories {
		var list blInventoryProductsListResponse
		params := map[string]any{"inventory_id": inventory.InventoryID}
		if err := s.client.Call(ctx, token, blGetInventoryProductsList, params, &list); err != nil {
			return nil, fmt.Errorf("baselinker products list for inventory %d: %w", inventory.InventoryID, err)
		}
		if len(list.Products) == 0 {
			continue
		}

		productIDs := make([]int64, 0, len(list.Products))
		for raw := range list.Products {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				productIDs = append(productIDs, id)
			}
		}

		var data blInventoryProductsDataResponse
		dataParams := map[string]any{
			"inventory_id": inventory.InventoryID,
			"products":     productIDs,
		}
		if err := s.client.Call(ctx, token, blGetInventoryProductsData, dataParams, &data); err != nil {
			return nil, fmt.Errorf("baselinker products data for inventory %d: %w", inventory.InventoryID, err)
		}
		for raw := range data.Products {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				ids[id] = true
			}
		}
	}
	return ids, nil
}

func (s *BaseLinkerService) storages(ctx context.Context, token string) ([]blStorage, error) {
	var resp blStoragesListResponse
	if err := s.client.Call(ctx, token, blGetStoragesList, map[string]any{}, &resp); err != nil {
		return nil, fmt.Errorf("baselinker storages: %w", err)
	}
	return resp.Storages, nil
}

func (s *BaseLinkerService) categoriesByStorage(ctx context.Context, token string, storages []blStorage) (map[string][]blCategory, error) {
	categories := make(map[string][]blCategory, len(storages))
	for _, storage := range storages {
		var resp blCategoriesResponse
		params := map[string]any{"storage_id": storage.StorageID}
		if err := s.client.Call(ctx, token, blGetCategories, params, &resp); err != nil {
			return nil, fmt.Errorf("baselinker categories for %s: %w", storage.StorageID, err)
		}
		categories[storage.StorageID] = resp.Categories
	}
	return categories, nil
}

// addProductParams renders the addProduct call: the product document scoped
// to the default storage, with product_id blanked when the remote catalog
// does not hold it so BaseLinker creates instead of updates.
func addProductParams(product BaseLinkerProduct, exists bool) (map[string]any, error) {
	encoded, err := json.Marshal(product)
	if err != nil {
		return nil, fmt.Errorf("%w: encode baselinker product: %v", integration.ErrMalformedPayload, err)
	}
	params := make(map[string]any)
	if err := json.Unmarshal(encoded, &params); err != nil {
		return nil, fmt.Errorf("%w: rebuild baselinker product: %v", integration.ErrMalformedPayload, err)
	}

	params["storage_id"] = blDefaultStorageID
	if !exists {
		params["product_id"] = ""
	}
	return params, nil
}

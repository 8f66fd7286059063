package integration

import (
	"context"

	"github.com/channelsync/backend/internal/domain/catalog"
)

// ---------------------------------------------------------------------------
// PlatformService Port
// ---------------------------------------------------------------------------

// PlatformService is the per-platform capability contract used by the
// Propagator. Side effects are network calls to the remote platform and,
// where applicable, credential persistence. Push/delete failures must be
// returned as errors (never swallowed) so the orchestrator can record
// per-platform failure; they must never panic.
type PlatformService interface {
	// Platform returns the platform this service talks to
	Platform() PlatformCode

	// PushProduct delivers a canonical product to the platform in its native
	// schema, upserting by SKU where the platform supports it
	PushProduct(ctx context.Context, in Integration, product *catalog.CanonicalProduct) error

	// DeleteProduct removes a product from the platform by its id
	DeleteProduct(ctx context.Context, in Integration, productID string) error
}

// ---------------------------------------------------------------------------
// Propagation Value Objects
// ---------------------------------------------------------------------------

// PropagationObject is a canonical change plus the integrations it fans out to.
type PropagationObject struct {
	Integrations []Integration
	Product      *catalog.CanonicalProduct
}

// DeletionObject mirrors PropagationObject for product removals.
type DeletionObject struct {
	Integrations []Integration
	ProductID    string
}

// ResultStatus is the per-target outcome of a fan-out step.
type ResultStatus string

const (
	ResultSuccess ResultStatus = "SUCCESS"
	ResultError   ResultStatus = "ERROR"
)

// PropagationResult records the outcome of delivering one change to one
// integration. Error carries the stringified cause when Status is ERROR.
type PropagationResult struct {
	Platform PlatformCode `json:"platform"`
	Name     string       `json:"name"`
	Status   ResultStatus `json:"status"`
	Error    string       `json:"error,omitempty"`
}

// Package integration contains the propagation bounded context.
//
// Key concepts:
//   - Integration: one merchant's connected account on one platform
//   - ProductAdapter: pure bidirectional mapper between a platform's native
//     product schema and the canonical model
//   - PlatformService: port for pushing and deleting products on a platform
//   - PropagationObject/DeletionObject: a canonical change plus its fan-out
//     targets
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (WooCommerce, PrestaShop, Apilo, BaseLinker) live in the
//     infrastructure layer
package integration

package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/domain/catalog"
	"github.com/channelsync/backend/internal/domain/integration"
)

// ProductSource lists one integration's catalog in canonical form. The Apilo
// platform service satisfies it; other platforms can be added once they grow
// a listing API.
type ProductSource interface {
	Platform() integration.PlatformCode
	Products(ctx context.Context, target integration.Integration) ([]*catalog.CanonicalProduct, error)
}

// ProductFanOut resolves fan-out targets and delivers product changes to
// them. Satisfied by the propagation application service.
type ProductFanOut interface {
	TargetsFor(ctx context.Context, originUUID string) ([]integration.Integration, error)
	PropagateProduct(ctx context.Context, obj integration.PropagationObject) []integration.PropagationResult
}

// ProductSyncScheduler periodically mirrors the source platform's catalogs
// onto each merchant's sibling integrations. Webhook-driven propagation
// covers storefront changes as they happen; this job catches changes made
// directly in the source platform's own UI, which never emit a webhook.
type ProductSyncScheduler struct {
	directory integration.IntegrationDirectory
	source    ProductSource
	fanout    ProductFanOut
	logger    *zap.Logger
	config    ProductSyncSchedulerConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// ProductSyncSchedulerConfig holds configuration for the product sync scheduler
type ProductSyncSchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// Interval is the time between sync runs
	Interval time.Duration

	// JobTimeout is the maximum time for one full sync run
	JobTimeout time.Duration
}

// DefaultProductSyncSchedulerConfig returns default configuration
func DefaultProductSyncSchedulerConfig() ProductSyncSchedulerConfig {
	return ProductSyncSchedulerConfig{
		Enabled:    true,
		Interval:   15 * time.Minute,
		JobTimeout: 10 * time.Minute,
	}
}

// NewProductSyncScheduler creates a new product sync scheduler
func NewProductSyncScheduler(
	directory integration.IntegrationDirectory,
	source ProductSource,
	fanout ProductFanOut,
	logger *zap.Logger,
	config ProductSyncSchedulerConfig,
) *ProductSyncScheduler {
	return &ProductSyncScheduler{
		directory: directory,
		source:    source,
		fanout:    fanout,
		logger:    logger,
		config:    config,
	}
}

// Start starts the product sync scheduler
func (s *ProductSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Product sync scheduler is disabled")
		return nil
	}
	if s.config.Interval <= 0 {
		s.mu.Unlock()
		return ErrInvalidConfig
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Product sync scheduler started",
		zap.String("platform", s.source.Platform().String()),
		zap.Duration("interval", s.config.Interval),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *ProductSyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	// Wait for the loop to finish with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Product sync scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Product sync scheduler stop timed out")
		return ctx.Err()
	}
}

// runLoop runs one sync per interval until the context is cancelled
func (s *ProductSyncScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Product sync loop stopping")
			return
		case <-ticker.C:
			s.executeSync(ctx)
		}
	}
}

// executeSync runs one full sync pass over every active source integration.
// A failure on one integration is logged and never blocks the others.
func (s *ProductSyncScheduler) executeSync(ctx context.Context) {
	syncCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	startTime := time.Now()
	platform := s.source.Platform()

	origins, err := s.directory.ActiveByPlatform(syncCtx, platform)
	if err != nil {
		s.logger.Error("Product sync failed to list integrations",
			zap.String("platform", platform.String()),
			zap.Error(err),
		)
		return
	}

	var synced, delivered, failed int
	for _, origin := range origins {
		d, f, err := s.syncIntegration(syncCtx, origin)
		if err != nil {
			failed++
			s.logger.Error("Product sync failed for integration",
				zap.String("integration_uuid", origin.UUID.String()),
				zap.Error(err),
			)
			continue
		}
		synced++
		delivered += d
		failed += f
	}

	s.logger.Info("Product sync completed",
		zap.String("platform", platform.String()),
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("total_integrations", len(origins)),
		zap.Int("synced", synced),
		zap.Int("delivered", delivered),
		zap.Int("failed", failed),
	)
}

// syncIntegration mirrors one origin's catalog onto its siblings, returning
// delivered and failed push counts.
func (s *ProductSyncScheduler) syncIntegration(ctx context.Context, origin integration.Integration) (int, int, error) {
	targets, err := s.fanout.TargetsFor(ctx, origin.UUID.String())
	if err != nil {
		return 0, 0, err
	}
	if len(targets) == 0 {
		return 0, 0, nil
	}

	products, err := s.source.Products(ctx, origin)
	if err != nil {
		return 0, 0, err
	}

	var delivered, failed int
	for _, product := range products {
		results := s.fanout.PropagateProduct(ctx, integration.PropagationObject{
			Integrations: targets,
			Product:      product,
		})
		for _, result := range results {
			if result.Status == integration.ResultSuccess {
				delivered++
			} else {
				failed++
			}
		}
	}
	return delivered, failed, nil
}

// TriggerImmediateSync triggers an immediate sync run without waiting for
// the next tick.
func (s *ProductSyncScheduler) TriggerImmediateSync(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Triggering immediate product sync")

	go func() {
		defer s.wg.Done()
		s.executeSync(ctx)
	}()

	return nil
}

// IsRunning returns whether the scheduler is running
func (s *ProductSyncScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

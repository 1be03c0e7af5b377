package booking

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Reclaimer periodically releases slot locks that were never converted
// into a booking and have outlived their TTL. It runs independently of
// any request; a failed pass is logged and the next tick retries the
// full sweep, so no per-row retry logic is needed.
//
// Running more than one reclaimer is safe (the sweep qualifies rows by
// a deterministic time predicate and is idempotent) but redundant, so
// Start is a no-op on an already-running instance.
type Reclaimer struct {
	service  *Service
	interval time.Duration
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewReclaimer creates a stale-lock reclaimer sweeping at the given interval.
func NewReclaimer(service *Service, interval time.Duration, logger *zap.Logger) *Reclaimer {
	return &Reclaimer{
		service:  service,
		interval: interval,
		logger:   logger,
	}
}

// Start begins the sweep loop. The returned handle (the Reclaimer
// itself) owns the loop; call Stop to cancel it.
func (r *Reclaimer) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = true
	r.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.runLoop(ctx)

	r.logger.Info("stale-lock reclaimer started",
		zap.Duration("interval", r.interval),
	)
	return nil
}

// Stop cancels the sweep loop and waits for it to drain, or gives up
// when ctx expires.
func (r *Reclaimer) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = false
	r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("stale-lock reclaimer stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Reclaimer) runLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

// sweep runs one reclamation pass. Errors are absorbed: nobody is
// waiting on this path, and the next tick retries anyway.
func (r *Reclaimer) sweep() {
	released, err := r.service.ReclaimStaleLocks()
	if err != nil {
		r.logger.Warn("stale-lock sweep failed", zap.Error(err))
		return
	}
	if released > 0 {
		r.logger.Info("released stale slot locks", zap.Int64("count", released))
	}
}

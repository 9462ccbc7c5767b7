/*
scheduler.go - Low-stock watcher

PURPOSE:
  Periodically checks inputs and products against their minimum stock and
  logs a warning the first time each one drops to or below it. An item
  that recovers is logged once and re-armed.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Runs once immediately on Start
  - Remembers which items were already reported so a long shortage is not
    repeated every tick

USAGE:
  watcher := NewLowStockWatcher(svc, log)
  watcher.Start()
  // ... later
  watcher.Stop()

SEE ALSO:
  - handlers.go: GetAlerts (same data on demand)
  - production/dashboard.go: LowStock
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/warp/artisan-engine/production"
	"go.uber.org/zap"
)

// LowStockWatcher logs low-stock transitions in the background.
type LowStockWatcher struct {
	Service       *production.Service
	CheckInterval time.Duration

	log     *zap.Logger
	alerted map[string]bool
	last    production.LowStockReport

	stop chan struct{} // nil while stopped
	wg   sync.WaitGroup
	mu   sync.Mutex
}

// NewLowStockWatcher creates a watcher that checks every minute.
func NewLowStockWatcher(svc *production.Service, log *zap.Logger) *LowStockWatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &LowStockWatcher{
		Service:       svc,
		CheckInterval: time.Minute,
		log:           log.Named("watcher"),
		alerted:       make(map[string]bool),
	}
}

// Start begins the watcher. A non-positive interval disables it.
// Calling Start on a running watcher does nothing.
func (lw *LowStockWatcher) Start() {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if lw.CheckInterval <= 0 {
		lw.log.Info("disabled, not starting")
		return
	}
	if lw.stop != nil {
		return
	}

	ticker := time.NewTicker(lw.CheckInterval)
	stop := make(chan struct{})
	lw.stop = stop
	lw.wg.Add(1)

	go lw.run(ticker, stop)

	lw.log.Info("started", zap.Duration("interval", lw.CheckInterval))
}

// Stop stops the watcher and waits for an in-flight check. The watcher
// can be started again afterwards.
func (lw *LowStockWatcher) Stop() {
	lw.mu.Lock()
	stop := lw.stop
	lw.stop = nil
	lw.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	lw.wg.Wait()
	lw.log.Info("stopped")
}

func (lw *LowStockWatcher) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer lw.wg.Done()
	defer ticker.Stop()

	// Run immediately on start
	lw.Check(context.Background())

	for {
		select {
		case <-ticker.C:
			lw.Check(context.Background())
		case <-stop:
			return
		}
	}
}

// Check runs one pass and returns how many items were newly reported.
func (lw *LowStockWatcher) Check(ctx context.Context) int {
	report := lw.Service.LowStock(ctx)

	lw.mu.Lock()
	defer lw.mu.Unlock()

	current := make(map[string]bool, len(report.Inputs)+len(report.Products))
	fresh := 0

	for _, in := range report.Inputs {
		key := "input:" + string(in.ID)
		current[key] = true
		if !lw.alerted[key] {
			fresh++
			lw.log.Warn("input low on stock",
				zap.String("input_id", string(in.ID)),
				zap.String("name", in.Name),
				zap.String("stock", in.Stock.String()),
				zap.String("min_stock", in.MinStock.String()),
				zap.String("unit", in.Unit),
			)
		}
	}
	for _, p := range report.Products {
		key := "product:" + string(p.ID)
		current[key] = true
		if !lw.alerted[key] {
			fresh++
			lw.log.Warn("product low on stock",
				zap.String("product_id", string(p.ID)),
				zap.String("name", p.Name),
				zap.String("stock", p.Stock.String()),
				zap.String("min_stock", p.MinStock.String()),
				zap.String("unit", p.Unit),
			)
		}
	}

	for key := range lw.alerted {
		if !current[key] {
			lw.log.Info("stock recovered", zap.String("item", key))
		}
	}

	lw.alerted = current
	lw.last = report
	return fresh
}

// Last returns the report from the most recent check.
func (lw *LowStockWatcher) Last() production.LowStockReport {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.last
}

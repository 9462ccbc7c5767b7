package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/artisan-engine/api"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the REST API on http.addr.

On SIGINT/SIGTERM the server stops accepting connections, waits up to 30s
for in-flight requests, stops the low-stock watcher and closes the store.

Examples:
  # SQLite file in the working directory
  artisan serve

  # Shared Redis store with sample data on first boot
  ARTISAN_SEED_ON_START=true artisan serve --store redis --redis-addr cache:6379`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default :8080)")
	_ = v.BindPFlag("http.addr", serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	log := a.log

	if a.cfg.SeedOnStart {
		seeded, err := a.svc.Seed(ctx)
		if err != nil {
			return err
		}
		log.Info("seed on start", zap.Bool("seeded", seeded))
	}

	var limiter *api.RateLimiter
	cleanupStop := make(chan struct{})
	defer close(cleanupStop)
	if a.cfg.RateLimit.RPS > 0 {
		limiter = api.NewRateLimiter(a.cfg.RateLimit.RPS, a.cfg.RateLimit.Burst)
		go limiter.RunCleanup(time.Minute, 3*time.Minute, cleanupStop)
	}

	handler := api.NewHandler(a.svc, log)
	router := api.NewRouter(handler, api.RouterOptions{Log: log, Limiter: limiter})

	watcher := api.NewLowStockWatcher(a.svc, log)
	watcher.CheckInterval = a.cfg.Watcher.Interval
	watcher.Start()
	defer watcher.Stop()

	server := &http.Server{
		Addr:         a.cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", a.cfg.HTTP.Addr),
			zap.String("store", a.cfg.Store.Driver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("server failed", zap.Error(err))
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	log.Info("server stopped")
	return nil
}

package commands

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/warp/artisan-engine/config"
	"github.com/warp/artisan-engine/generic"
	"github.com/warp/artisan-engine/generic/store"
	"github.com/warp/artisan-engine/logging"
	"github.com/warp/artisan-engine/printer"
	"github.com/warp/artisan-engine/production"
	redisstore "github.com/warp/artisan-engine/store/redis"
	"github.com/warp/artisan-engine/store/sqlite"
	"go.uber.org/zap"
)

var (
	cfgFile string
	v       = config.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "artisan",
	Short: "Artisan - inventory, recipes and batch production for small workshops",
	Long: `Artisan tracks raw inputs, finished products and the recipes that turn
one into the other. Completing a production batch consumes inputs, adds
product stock and records every movement in a stock ledger.

Run "artisan serve" for the HTTP API, or use the subcommands below against
the same store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(ver, commit, date string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", ver, commit, date)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default ./artisan.yaml)")
	pf.String("store", "", "Store driver: memory, sqlite or redis")
	pf.String("db", "", "SQLite database path")
	pf.String("redis-addr", "", "Redis host:port")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	_ = v.BindPFlag("store.driver", pf.Lookup("store"))
	_ = v.BindPFlag("store.sqlite_path", pf.Lookup("db"))
	_ = v.BindPFlag("redis.addr", pf.Lookup("redis-addr"))
	_ = v.BindPFlag("log.level", pf.Lookup("log-level"))
}

// =============================================================================
// APP - Resolved dependencies for one command run
// =============================================================================

type app struct {
	cfg     config.Config
	log     *zap.Logger
	svc     *production.Service
	closers []func() error
}

// newApp loads configuration, opens the configured store and builds the
// production service on top of it.
func newApp(ctx context.Context) (*app, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, printer.Error("Invalid configuration", err.Error(), []string{
			"Check artisan.yaml and ARTISAN_* environment variables",
		})
	}

	log, err := logging.New(cfg.Logging())
	if err != nil {
		return nil, printer.Error("Invalid log settings", err.Error(), nil)
	}

	a := &app{cfg: cfg, log: log}
	st, locker, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, printer.Error("Cannot open store", err.Error(), []string{
			fmt.Sprintf("Check the %s store settings", cfg.Store.Driver),
			"Run with --store memory for a throwaway session",
		})
	}

	opts := []production.Option{production.WithLogger(log)}
	if locker != nil {
		opts = append(opts, production.WithLocker(locker))
	}
	a.svc = production.NewService(st, opts...)
	return a, nil
}

func (a *app) openStore(ctx context.Context) (generic.Store, generic.Locker, error) {
	switch a.cfg.Store.Driver {
	case config.DriverMemory:
		return store.NewMemory(), nil, nil

	case config.DriverSQLite:
		s, err := sqlite.New(a.cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, s.Close)
		return s, nil, nil

	case config.DriverRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		a.closers = append(a.closers, client.Close)
		s := redisstore.NewStore(client, a.cfg.Redis.Prefix)
		if err := s.Ping(ctx); err != nil {
			return nil, nil, fmt.Errorf("redis %s: %w", a.cfg.Redis.Addr, err)
		}
		// Settlement must be exclusive across every process sharing the keys.
		return s, redisstore.NewLocker(client, a.cfg.Redis.Prefix), nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", a.cfg.Store.Driver)
}

// Close releases the store and flushes the logger.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}

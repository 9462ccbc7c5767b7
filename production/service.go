package production

import (
	"context"
	"fmt"

	"github.com/warp/artisan-engine/generic"
	"go.uber.org/zap"
)

// =============================================================================
// SERVICE - Entry point for all production operations
// =============================================================================

// Service bundles the repositories with the operations that span them.
// Repositories are exported for plain CRUD; anything that moves stock or
// batch status goes through Service methods so it takes the settlement lock.
type Service struct {
	kv     *generic.KV
	locker generic.Locker
	log    *zap.Logger
	clock  generic.Clock

	Inputs       *InputRepository
	Products     *ProductRepository
	Recipes      *RecipeRepository
	Batches      *BatchRepository
	Transactions *TransactionRepository
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithLocker replaces the in-process MutexLocker, e.g. with a Redis locker.
func WithLocker(l generic.Locker) Option {
	return func(s *Service) {
		if l != nil {
			s.locker = l
		}
	}
}

// WithClock pins "now" for created_at, batch numbers, and dates.
func WithClock(c generic.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// NewService builds a Service over store.
func NewService(store generic.Store, opts ...Option) *Service {
	s := &Service{
		locker: generic.NewMutexLocker(),
		log:    zap.NewNop(),
		clock:  generic.SystemClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("production")
	s.kv = generic.NewKV(store, s.log)

	s.Inputs = newInputRepository(s.kv, s.locker, s.clock)
	s.Products = newProductRepository(s.kv, s.locker, s.clock)
	s.Recipes = newRecipeRepository(s.kv, s.locker, s.clock)
	s.Batches = newBatchRepository(s.kv, s.locker, s.clock)
	s.Transactions = newTransactionRepository(s.kv, s.locker, s.clock)
	return s
}

// Clock returns the clock the service stamps records with.
func (s *Service) Clock() generic.Clock {
	return s.clock
}

// Snapshot reads every collection.
func (s *Service) Snapshot(ctx context.Context) Snapshot {
	return Snapshot{
		Inputs:       s.Inputs.List(ctx),
		Products:     s.Products.List(ctx),
		Recipes:      s.Recipes.List(ctx),
		Batches:      s.Batches.List(ctx),
		Transactions: s.Transactions.List(ctx),
	}
}

// withSettlementLock runs fn while holding the settlement lock.
func (s *Service) withSettlementLock(ctx context.Context, fn func() error) error {
	unlock, err := s.locker.Lock(ctx, settlementLock)
	if err != nil {
		return fmt.Errorf("settlement: %w", err)
	}
	defer unlock()
	return fn()
}

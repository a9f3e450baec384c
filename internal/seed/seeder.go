package seed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/advocates-api/internal/models"
)

type advocateInserter interface {
	InsertBatch(ctx context.Context, advocates []models.Advocate) (int, error)
}

// MaxBatchSize keeps one insert statement under Postgres's 65535 bind
// parameter limit at eight columns per row.
const MaxBatchSize = 8000

// Options tunes a Seeder.
type Options struct {
	BatchSize int
	Workers   int
	Logger    *zap.Logger
	Validator *validator.Validate
}

// Seeder generates advocates and inserts them in batches on a bounded pool.
type Seeder struct {
	repo      advocateInserter
	gen       *Generator
	batchSize int
	workers   int
	logger    *zap.Logger
	validator *validator.Validate
}

// NewSeeder constructs a Seeder.
func NewSeeder(repo advocateInserter, gen *Generator, opts Options) *Seeder {
	if gen == nil {
		gen = NewGenerator(0)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1000
	}
	if opts.BatchSize > MaxBatchSize {
		opts.BatchSize = MaxBatchSize
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Validator == nil {
		opts.Validator = validator.New()
	}
	return &Seeder{
		repo:      repo,
		gen:       gen,
		batchSize: opts.BatchSize,
		workers:   opts.Workers,
		logger:    opts.Logger,
		validator: opts.Validator,
	}
}

// Run inserts count advocates and returns how many were written. The first
// failing batch stops further submissions; batches already running finish.
func (s *Seeder) Run(ctx context.Context, count int) (int, error) {
	if count <= 0 {
		return 0, nil
	}
	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return 0, fmt.Errorf("seed pool: %w", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		inserted atomic.Int64
		errMu    sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
	}
	failed := func() bool {
		errMu.Lock()
		defer errMu.Unlock()
		return firstErr != nil
	}

	for remaining := count; remaining > 0 && !failed() && ctx.Err() == nil; {
		size := s.batchSize
		if remaining < size {
			size = remaining
		}
		remaining -= size

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil || failed() {
				return
			}
			batch := s.gen.Advocates(size)
			for i := range batch {
				if err := s.validator.Struct(batch[i]); err != nil {
					fail(fmt.Errorf("generated advocate invalid: %w", err))
					return
				}
			}
			n, err := s.repo.InsertBatch(ctx, batch)
			if err != nil {
				fail(err)
				return
			}
			total := inserted.Add(int64(n))
			s.logger.Info("seed progress", zap.Int64("inserted", total), zap.Int("target", count))
		})
		if submitErr != nil {
			wg.Done()
			fail(fmt.Errorf("submit seed batch: %w", submitErr))
		}
	}
	wg.Wait()

	if firstErr == nil && ctx.Err() != nil {
		firstErr = ctx.Err()
	}
	if firstErr != nil && !errors.Is(firstErr, context.Canceled) {
		s.logger.Error("seeding stopped", zap.Int64("inserted", inserted.Load()), zap.Error(firstErr))
	}
	return int(inserted.Load()), firstErr
}

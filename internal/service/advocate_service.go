package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/advocates-api/internal/models"
	appErrors "github.com/noah-isme/advocates-api/pkg/errors"
	"github.com/noah-isme/advocates-api/pkg/pagination"
)

const (
	advocateSearchCachePrefix = "advocates:search:"
	advocateSearchQueryLabel  = "advocates_search"
)

type advocateRepository interface {
	Search(ctx context.Context, filter models.AdvocateFilter, after *pagination.Cursor, fetch int) ([]models.Advocate, error)
	Ping(ctx context.Context) error
}

type advocateSeeder interface {
	Run(ctx context.Context, count int) (int, error)
}

// AdvocateSearchRequest carries one page request. Limit and Cursor are the
// raw query values.
type AdvocateSearchRequest struct {
	Filter models.AdvocateFilter
	Limit  string
	Cursor string
}

// AdvocateSearchResult is one page of advocates.
type AdvocateSearchResult struct {
	Advocates     []models.Advocate   `json:"advocates"`
	PageInfo      pagination.PageInfo `json:"pageInfo"`
	CursorIgnored bool                `json:"cursorIgnored,omitempty"`
}

// SeedResult reports a completed seed run.
type SeedResult struct {
	Requested int `json:"requested"`
	Inserted  int `json:"inserted"`
}

// AdvocateServiceConfig tunes search paging, caching and seeding.
type AdvocateServiceConfig struct {
	DefaultLimit     int
	MaxLimit         int
	CacheTTL         time.Duration
	SeedEnabled      bool
	DefaultSeedCount int
	MaxSeedCount     int
}

// AdvocateService serves directory searches and dev-data seeding.
type AdvocateService struct {
	repo    advocateRepository
	seeder  advocateSeeder
	cache   *CacheService
	metrics *MetricsService
	cfg     AdvocateServiceConfig
	logger  *zap.Logger
}

// NewAdvocateService constructs an AdvocateService. cache, metrics and seeder
// may be nil.
func NewAdvocateService(repo advocateRepository, seeder advocateSeeder, cache *CacheService, metrics *MetricsService, cfg AdvocateServiceConfig, logger *zap.Logger) *AdvocateService {
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = pagination.MaxLimit
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = pagination.DefaultLimit
	}
	if cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = cfg.MaxLimit
	}
	if cfg.MaxSeedCount <= 0 {
		cfg.MaxSeedCount = 10000
	}
	if cfg.DefaultSeedCount <= 0 {
		cfg.DefaultSeedCount = 1000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdvocateService{repo: repo, seeder: seeder, cache: cache, metrics: metrics, cfg: cfg, logger: logger}
}

// Search returns one page of advocates matching the request, newest first.
// The boolean reports whether the page was served from cache. A malformed
// cursor restarts at the first page and sets CursorIgnored.
func (s *AdvocateService) Search(ctx context.Context, req AdvocateSearchRequest) (*AdvocateSearchResult, bool, error) {
	filter := req.Filter.Normalized()
	limit := pagination.ParseLimit(req.Limit, s.cfg.DefaultLimit, s.cfg.MaxLimit)

	var after *pagination.Cursor
	cursorIgnored := false
	if raw := strings.TrimSpace(req.Cursor); raw != "" {
		if cursor, ok := pagination.Parse(raw); ok {
			after = &cursor
		} else {
			cursorIgnored = true
			s.logger.Warn("ignoring malformed cursor", zap.String("cursor", raw))
		}
	}

	key := searchCacheKey(filter, limit, after)
	var cached AdvocateSearchResult
	if s.cache.Get(ctx, key, &cached) {
		if cached.Advocates == nil {
			cached.Advocates = []models.Advocate{}
		}
		cached.CursorIgnored = cursorIgnored
		s.metrics.ObserveSearch(len(cached.Advocates), cursorIgnored)
		return &cached, true, nil
	}

	start := time.Now()
	rows, err := s.repo.Search(ctx, filter, after, limit+1)
	s.metrics.ObserveDBQuery(advocateSearchQueryLabel, time.Since(start))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, false, err
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search advocates")
	}

	page, info := pagination.Trim(rows, limit, func(a models.Advocate) pagination.Cursor {
		return pagination.NewCursor(a.CreatedAt, a.ID)
	})
	if page == nil {
		page = []models.Advocate{}
	}

	result := &AdvocateSearchResult{Advocates: page, PageInfo: info}
	s.cache.Set(ctx, key, result, s.cfg.CacheTTL)

	result.CursorIgnored = cursorIgnored
	s.metrics.ObserveSearch(len(page), cursorIgnored)
	return result, false, nil
}

// SeedEnabled reports whether the seed operation is available.
func (s *AdvocateService) SeedEnabled() bool {
	return s.cfg.SeedEnabled && s.seeder != nil
}

// Seed generates and inserts synthetic advocates. rawCount is clamped to
// [1, MaxSeedCount]; missing or non-numeric values use DefaultSeedCount.
func (s *AdvocateService) Seed(ctx context.Context, rawCount string) (*SeedResult, error) {
	if !s.SeedEnabled() {
		return nil, appErrors.ErrSeedingDisabled
	}
	count := pagination.ParseLimit(rawCount, s.cfg.DefaultSeedCount, s.cfg.MaxSeedCount)

	inserted, err := s.seeder.Run(ctx, count)
	s.metrics.AddSeeded(inserted)
	if inserted > 0 {
		_ = s.cache.Invalidate(ctx, advocateSearchCachePrefix+"*")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed advocates")
	}

	s.logger.Info("advocates seeded", zap.Int("requested", count), zap.Int("inserted", inserted))
	return &SeedResult{Requested: count, Inserted: inserted}, nil
}

// Ready checks the advocate store.
func (s *AdvocateService) Ready(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "advocate store unavailable")
	}
	return nil
}

type searchCacheKeyParts struct {
	Filter models.AdvocateFilter `json:"filter"`
	Limit  int                   `json:"limit"`
	Cursor string                `json:"cursor,omitempty"`
}

func searchCacheKey(filter models.AdvocateFilter, limit int, after *pagination.Cursor) string {
	parts := searchCacheKeyParts{Filter: filter, Limit: limit}
	if after != nil {
		parts.Cursor = after.String()
	}
	payload, _ := json.Marshal(parts)
	sum := sha256.Sum256(payload)
	return advocateSearchCachePrefix + hex.EncodeToString(sum[:])
}

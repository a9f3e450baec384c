package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/advocates-api/internal/models"
	appErrors "github.com/noah-isme/advocates-api/pkg/errors"
	"github.com/noah-isme/advocates-api/pkg/pagination"
)

type memoryAdvocateRepo struct {
	rows      []models.Advocate
	err       error
	pingErr   error
	calls     int
	lastFetch int
	lastAfter *pagination.Cursor
}

func (m *memoryAdvocateRepo) Search(_ context.Context, filter models.AdvocateFilter, after *pagination.Cursor, fetch int) ([]models.Advocate, error) {
	m.calls++
	m.lastFetch = fetch
	m.lastAfter = after
	if m.err != nil {
		return nil, m.err
	}

	sorted := append([]models.Advocate(nil), m.rows...)
	sort.Slice(sorted, func(i, j int) bool {
		a := pagination.NewCursor(sorted[i].CreatedAt, sorted[i].ID)
		b := pagination.NewCursor(sorted[j].CreatedAt, sorted[j].ID)
		return b.After(a)
	})

	out := []models.Advocate{}
	for _, a := range sorted {
		if filter.MinYears != nil && a.YearsOfExperience < *filter.MinYears {
			continue
		}
		if filter.MaxYears != nil && a.YearsOfExperience > *filter.MaxYears {
			continue
		}
		if after != nil && !pagination.NewCursor(a.CreatedAt, a.ID).After(*after) {
			continue
		}
		out = append(out, a)
		if len(out) == fetch {
			break
		}
	}
	return out, nil
}

func (m *memoryAdvocateRepo) Ping(context.Context) error {
	return m.pingErr
}

type memoryCacheRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = map[string][]byte{}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) Purge(_ context.Context, pattern string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, pattern)
	removed := len(m.entries)
	m.entries = map[string][]byte{}
	return removed, nil
}

type stubSeeder struct {
	requested int
	inserted  int
	err       error
}

func (s *stubSeeder) Run(_ context.Context, count int) (int, error) {
	s.requested = count
	if s.err != nil {
		return s.inserted, s.err
	}
	return count, nil
}

func advocatesFixture(n int) []models.Advocate {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]models.Advocate, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.Advocate{
			ID:                int64(i),
			FirstName:         "First",
			LastName:          "Last",
			City:              "Austin",
			Degree:            "MD",
			Specialties:       []string{"Bipolar"},
			YearsOfExperience: i,
			PhoneNumber:       5550000000 + int64(i),
			CreatedAt:         base.Add(time.Duration(i) * time.Minute),
		})
	}
	return out
}

func intPtr(v int) *int { return &v }

func TestAdvocateServiceYearsRange(t *testing.T) {
	rows := advocatesFixture(3)
	rows[0].YearsOfExperience = 2
	rows[1].YearsOfExperience = 5
	rows[2].YearsOfExperience = 9
	svc := NewAdvocateService(&memoryAdvocateRepo{rows: rows}, nil, nil, nil, AdvocateServiceConfig{}, nil)

	result, hit, err := svc.Search(context.Background(), AdvocateSearchRequest{
		Filter: models.AdvocateFilter{MinYears: intPtr(3), MaxYears: intPtr(8)},
	})
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, result.Advocates, 1)
	assert.Equal(t, 5, result.Advocates[0].YearsOfExperience)
	assert.False(t, result.PageInfo.HasNextPage)
	assert.Nil(t, result.PageInfo.NextCursor)
}

func TestAdvocateServiceCursorWalk(t *testing.T) {
	repo := &memoryAdvocateRepo{rows: advocatesFixture(5)}
	svc := NewAdvocateService(repo, nil, nil, nil, AdvocateServiceConfig{}, nil)
	ctx := context.Background()

	first, _, err := svc.Search(ctx, AdvocateSearchRequest{Limit: "2"})
	require.NoError(t, err)
	assert.Equal(t, 3, repo.lastFetch)
	require.Len(t, first.Advocates, 2)
	assert.Equal(t, []int64{5, 4}, ids(first.Advocates))
	require.True(t, first.PageInfo.HasNextPage)
	require.NotNil(t, first.PageInfo.NextCursor)
	assert.Equal(t, 2, first.PageInfo.Limit)

	second, _, err := svc.Search(ctx, AdvocateSearchRequest{Limit: "2", Cursor: *first.PageInfo.NextCursor})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2}, ids(second.Advocates))
	require.True(t, second.PageInfo.HasNextPage)
	require.NotNil(t, second.PageInfo.NextCursor)

	third, _, err := svc.Search(ctx, AdvocateSearchRequest{Limit: "2", Cursor: *second.PageInfo.NextCursor})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(third.Advocates))
	assert.False(t, third.PageInfo.HasNextPage)
	assert.Nil(t, third.PageInfo.NextCursor)
}

func TestAdvocateServiceLimitClamp(t *testing.T) {
	repo := &memoryAdvocateRepo{rows: advocatesFixture(3)}
	svc := NewAdvocateService(repo, nil, nil, nil, AdvocateServiceConfig{}, nil)

	cases := []struct {
		raw  string
		want int
	}{
		{"", pagination.DefaultLimit},
		{"abc", pagination.DefaultLimit},
		{"0", 1},
		{"-4", 1},
		{"5000", pagination.MaxLimit},
		{"2.9", 2},
	}
	for _, tc := range cases {
		result, _, err := svc.Search(context.Background(), AdvocateSearchRequest{Limit: tc.raw})
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, result.PageInfo.Limit, tc.raw)
		assert.Equal(t, tc.want+1, repo.lastFetch, tc.raw)
	}
}

func TestAdvocateServiceMalformedCursorRestarts(t *testing.T) {
	repo := &memoryAdvocateRepo{rows: advocatesFixture(3)}
	svc := NewAdvocateService(repo, nil, nil, nil, AdvocateServiceConfig{}, nil)

	result, _, err := svc.Search(context.Background(), AdvocateSearchRequest{Limit: "2", Cursor: "not-a-cursor"})
	require.NoError(t, err)
	assert.Nil(t, repo.lastAfter)
	assert.True(t, result.CursorIgnored)
	assert.Equal(t, []int64{3, 2}, ids(result.Advocates))
}

func TestAdvocateServiceEmptyResultIsNonNil(t *testing.T) {
	svc := NewAdvocateService(&memoryAdvocateRepo{}, nil, nil, nil, AdvocateServiceConfig{}, nil)

	result, _, err := svc.Search(context.Background(), AdvocateSearchRequest{})
	require.NoError(t, err)
	require.NotNil(t, result.Advocates)
	assert.Empty(t, result.Advocates)
}

func TestAdvocateServiceRepositoryError(t *testing.T) {
	svc := NewAdvocateService(&memoryAdvocateRepo{err: errors.New("boom")}, nil, nil, nil, AdvocateServiceConfig{}, nil)

	_, _, err := svc.Search(context.Background(), AdvocateSearchRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestAdvocateServiceCachesPages(t *testing.T) {
	repo := &memoryAdvocateRepo{rows: advocatesFixture(3)}
	cacheRepo := &memoryCacheRepo{}
	metrics := NewMetricsService()
	cache := NewCacheService(cacheRepo, metrics, time.Minute, nil, true)
	svc := NewAdvocateService(repo, nil, cache, metrics, AdvocateServiceConfig{}, nil)
	ctx := context.Background()
	req := AdvocateSearchRequest{Filter: models.AdvocateFilter{City: " Austin "}, Limit: "2"}

	first, hit, err := svc.Search(ctx, req)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := svc.Search(ctx, req)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, ids(first.Advocates), ids(second.Advocates))
	assert.Equal(t, first.PageInfo, second.PageInfo)

	_, hit, err = svc.Search(ctx, AdvocateSearchRequest{Filter: models.AdvocateFilter{City: "Austin"}, Limit: "2", Cursor: "garbage"})
	require.NoError(t, err)
	assert.True(t, hit, "trimmed filter and ignored cursor share the first-page key")
}

func TestAdvocateServiceSeed(t *testing.T) {
	seeder := &stubSeeder{}
	cacheRepo := &memoryCacheRepo{}
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	svc := NewAdvocateService(&memoryAdvocateRepo{}, seeder, cache, nil, AdvocateServiceConfig{SeedEnabled: true}, nil)

	result, err := svc.Seed(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1000, result.Requested)
	assert.Equal(t, 1000, result.Inserted)
	assert.Equal(t, []string{"advocates:search:*"}, cacheRepo.deleted)

	result, err = svc.Seed(context.Background(), "50000")
	require.NoError(t, err)
	assert.Equal(t, 10000, result.Requested)

	result, err = svc.Seed(context.Background(), "0")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Requested)

	result, err = svc.Seed(context.Background(), "lots")
	require.NoError(t, err)
	assert.Equal(t, 1000, result.Requested)
}

func TestAdvocateServiceSeedDisabled(t *testing.T) {
	svc := NewAdvocateService(&memoryAdvocateRepo{}, &stubSeeder{}, nil, nil, AdvocateServiceConfig{}, nil)

	_, err := svc.Seed(context.Background(), "10")
	assert.ErrorIs(t, err, appErrors.ErrSeedingDisabled)
}

func TestAdvocateServiceSeedFailure(t *testing.T) {
	seeder := &stubSeeder{inserted: 20, err: errors.New("insert failed")}
	svc := NewAdvocateService(&memoryAdvocateRepo{}, seeder, nil, nil, AdvocateServiceConfig{SeedEnabled: true}, nil)

	_, err := svc.Seed(context.Background(), "100")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestAdvocateServiceReady(t *testing.T) {
	svc := NewAdvocateService(&memoryAdvocateRepo{pingErr: errors.New("down")}, nil, nil, nil, AdvocateServiceConfig{}, nil)
	assert.ErrorIs(t, svc.Ready(context.Background()), appErrors.ErrUnavailable)

	svc = NewAdvocateService(&memoryAdvocateRepo{}, nil, nil, nil, AdvocateServiceConfig{}, nil)
	assert.NoError(t, svc.Ready(context.Background()))
}

func ids(advocates []models.Advocate) []int64 {
	out := make([]int64, 0, len(advocates))
	for _, a := range advocates {
		out = append(out, a.ID)
	}
	return out
}

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/noah-isme/advocates-api/internal/handler"
	"github.com/noah-isme/advocates-api/internal/models"
	"github.com/noah-isme/advocates-api/internal/service"
	"github.com/noah-isme/advocates-api/pkg/config"
	"github.com/noah-isme/advocates-api/pkg/response"
)

type routerStubService struct{}

func (routerStubService) Search(context.Context, service.AdvocateSearchRequest) (*service.AdvocateSearchResult, bool, error) {
	return &service.AdvocateSearchResult{Advocates: []models.Advocate{}}, false, nil
}

func (routerStubService) Seed(context.Context, string) (*service.SeedResult, error) {
	return &service.SeedResult{Requested: 1, Inserted: 1}, nil
}

func (routerStubService) Ready(context.Context) error { return nil }

func testRouter(seedEnabled bool) http.Handler {
	cfg := &config.Config{Env: config.EnvDevelopment, APIPrefix: "/api/v1"}
	cfg.Seed.Enabled = seedEnabled
	metrics := service.NewMetricsService()
	advocates := handler.NewAdvocateHandler(routerStubService{}, response.CachePolicy{})
	return newRouter(cfg, zap.NewNop(), metrics, advocates, handler.NewMetricsHandler(metrics))
}

func TestRouterRoutes(t *testing.T) {
	r := testRouter(false)

	for path, want := range map[string]int{
		"/health":           http.StatusOK,
		"/ready":            http.StatusOK,
		"/metrics":          http.StatusOK,
		"/api/v1/advocates": http.StatusOK,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}

func TestRouterSeedGated(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter(false).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/seed", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	testRouter(true).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/seed?count=1", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
}

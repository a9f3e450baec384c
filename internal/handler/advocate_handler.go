package handler

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/advocates-api/internal/middleware"
	"github.com/noah-isme/advocates-api/internal/models"
	"github.com/noah-isme/advocates-api/internal/service"
	"github.com/noah-isme/advocates-api/pkg/response"
)

type advocateService interface {
	Search(ctx context.Context, req service.AdvocateSearchRequest) (*service.AdvocateSearchResult, bool, error)
	Seed(ctx context.Context, rawCount string) (*service.SeedResult, error)
	Ready(ctx context.Context) error
}

// AdvocateHandler exposes the advocate directory endpoints.
type AdvocateHandler struct {
	service advocateService
	policy  response.CachePolicy
}

// NewAdvocateHandler constructs an AdvocateHandler.
func NewAdvocateHandler(svc advocateService, policy response.CachePolicy) *AdvocateHandler {
	return &AdvocateHandler{service: svc, policy: policy}
}

// Search godoc
// @Summary Search advocates
// @Description Filters are ANDed. Results are ordered newest first and paged by cursor.
// @Tags Advocates
// @Produce json
// @Param q query string false "Free text over name, city, degree and specialties"
// @Param city query string false "City contains (case-insensitive)"
// @Param degree query string false "Degree contains (case-insensitive)"
// @Param specialty query string false "Specialty text"
// @Param minYears query number false "Minimum years of experience (inclusive)"
// @Param maxYears query number false "Maximum years of experience (inclusive)"
// @Param limit query int false "Page size (1-200, default 50)"
// @Param cursor query string false "Opaque cursor from pageInfo.nextCursor"
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /advocates [get]
func (h *AdvocateHandler) Search(c *gin.Context) {
	req := service.AdvocateSearchRequest{
		Filter: models.AdvocateFilter{
			Query:     strings.TrimSpace(c.Query("q")),
			City:      strings.TrimSpace(c.Query("city")),
			Degree:    strings.TrimSpace(c.Query("degree")),
			Specialty: strings.TrimSpace(c.Query("specialty")),
			MinYears:  parseYears(c.Query("minYears"), math.Ceil),
			MaxYears:  parseYears(c.Query("maxYears"), math.Floor),
		},
		Limit:  c.Query("limit"),
		Cursor: c.Query("cursor"),
	}

	result, hit, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, hit)
	if result.CursorIgnored {
		middleware.SetMeta(c, "cursorIgnored", true)
	}
	response.Page(c, result.Advocates, result.PageInfo, h.policy, middleware.ExtractMeta(c))
}

// Seed godoc
// @Summary Insert synthetic advocates
// @Description Development utility. Only registered when ENABLE_SEED=true.
// @Tags Advocates
// @Produce json
// @Param count query int false "Number of advocates (1-10000, default 1000)"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /seed [post]
func (h *AdvocateHandler) Seed(c *gin.Context) {
	result, err := h.service.Seed(c.Request.Context(), c.Query("count"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Ready godoc
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /ready [get]
func (h *AdvocateHandler) Ready(c *gin.Context) {
	if err := h.service.Ready(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "ready"})
}

// parseYears reads a years bound. Values that are not finite numbers are
// ignored; fractions are rounded inward with round.
func parseYears(raw string, round func(float64) float64) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	f = round(f)
	if f > math.MaxInt32 {
		f = math.MaxInt32
	} else if f < math.MinInt32 {
		f = math.MinInt32
	}
	v := int(f)
	return &v
}

package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/advocates-api/internal/handler"
	"github.com/noah-isme/advocates-api/internal/middleware"
	"github.com/noah-isme/advocates-api/internal/service"
	"github.com/noah-isme/advocates-api/pkg/config"
	"github.com/noah-isme/advocates-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/advocates-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/advocates-api/pkg/middleware/requestid"
)

func newRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, advocates *handler.AdvocateHandler, metricsHandler *handler.MetricsHandler) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.RequestLogger(logr, "/health", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", advocates.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	api.GET("/advocates", advocates.Search)
	if cfg.Seed.Enabled {
		api.POST("/seed", advocates.Seed)
	}

	return r
}

package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	middleware "github.com/reviewguard/reviewguard-go/pkg/middlewares"
	"github.com/reviewguard/reviewguard-go/services/detector-api/configs"
	"github.com/reviewguard/reviewguard-go/services/detector-api/internal/handlers"
	"github.com/reviewguard/reviewguard-go/services/detector-api/internal/services"
	"github.com/reviewguard/reviewguard-go/services/detector-api/internal/store"
	"go.uber.org/zap"
)

// NewRouter wires dependencies and builds the Gin engine. Split out of NewApp
// so integration tests can mount the full route tree on an in-process server.
func NewRouter(logger *zap.Logger, cfg *configs.Config) (*gin.Engine, error) {
	st, err := store.Load(logger, cfg.DatasetPath, cfg.MetricsPath)
	if err != nil {
		return nil, err
	}

	scorer := services.NewScorer(services.ScorerConfig{Logger: logger})
	analytics := services.NewAnalytics(services.AnalyticsConfig{Logger: logger, Store: st})
	bulk := services.NewBulk(services.BulkConfig{Logger: logger, Scorer: scorer, ResultsDir: cfg.ResultsDir})

	baseHandler := handlers.NewBaseHandler(logger)
	predictHandler := handlers.NewPredictHandler(logger, scorer)
	analyticsHandler := handlers.NewAnalyticsHandler(logger, analytics)
	bulkHandler := handlers.NewBulkHandler(logger, bulk, cfg.MaxUploadBytes)

	r := gin.Default()

	api := r.Group("/")
	api.Use(middleware.TraceID())
	api.Use(middleware.Metrics())

	predictHandler.RegisterRoutes(api)
	analyticsHandler.RegisterRoutes(api)
	bulkHandler.RegisterRoutes(api)
	baseHandler.RegisterRoutes(r)

	return r, nil
}

// NewApp reads configuration from environment variables via configs.Load and
// returns an *http.Server ready to start.
func NewApp(logger *zap.Logger) (*http.Server, error) {
	cfg, err := configs.Load(logger)
	if err != nil {
		return nil, err
	}

	r, err := NewRouter(logger, cfg)
	if err != nil {
		return nil, err
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	return &http.Server{Addr: addr, Handler: r}, nil
}

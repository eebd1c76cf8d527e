package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/adapter/http/handler"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/adapter/http/middleware"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/adapter/repository/postgres"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/repository"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/infrastructure/metrics"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/pipeline"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/usecase"
)

// Deps holds everything the router needs. DB, Redis, Translation and
// Gatherer are optional; Model and Predictor are required.
type Deps struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Model       *pipeline.Artifact
	Predictor   usecase.Predictor
	Translation handler.Pinger
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	Logger      *zap.Logger
}

// Setup creates and configures the Gin router
func Setup(deps Deps) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics(deps.Metrics))
	if deps.Model != nil {
		router.Use(middleware.ModelTag(deps.Model.Metadata.ModelID))
	}

	// Health endpoints
	healthHandler := handler.NewHealthHandler(deps.DB, deps.Redis, deps.Model, deps.Translation)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(metricsHandler(deps.Gatherer)))

	// Initialize repositories
	var predictionRepo repository.PredictionRepository
	if deps.DB != nil {
		predictionRepo = postgres.NewPredictionRepository(deps.DB)
	}

	// Initialize usecases
	predictionUC := usecase.NewPredictionUsecase(deps.Predictor, deps.Model, predictionRepo, deps.Metrics, deps.Logger)

	// Initialize handlers
	predictionHandler := handler.NewPredictionHandler(predictionUC)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Prediction routes
		predictions := v1.Group("/predictions")
		{
			predictions.POST("", predictionHandler.CreatePrediction)
			predictions.GET("", predictionHandler.ListPredictions)
			predictions.GET("/stats", predictionHandler.GetStats)
			predictions.GET("/:id", predictionHandler.GetPrediction)
		}

		v1.GET("/model", predictionHandler.GetModel)
	}

	return router
}

func metricsHandler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

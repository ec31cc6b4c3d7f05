package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/jouyai/midtrans-dik/internal/handler"
	"github.com/jouyai/midtrans-dik/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TransactionHandler *handler.TransactionHandler
	StatusHandler      *handler.StatusHandler
	AllowedOrigins     []string
	RedisClient        *redis.Client
	NewRelicApp        *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.Use(middleware.Metrics())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/create-transaction", middleware.Idempotency(deps.RedisClient), deps.TransactionHandler.CreateTransaction)
		api.GET("/check-status/:orderId", deps.StatusHandler.CheckStatus)
	}

	return router
}

package restapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterConfig holds the HTTP surface settings.
type RouterConfig struct {
	// AllowedOrigins for CORS; empty allows every origin.
	AllowedOrigins []string
	// Gatherer backs GET /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// SetupRouter builds the gin engine with the API under /api/v1.
func SetupRouter(h *Handler, cfg RouterConfig, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", RequestIDHeader}
	corsConfig.ExposeHeaders = []string{RequestIDHeader}

	router.Use(cors.New(corsConfig), RequestID(), ZapLogger(logger.Named("http")), gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.Health)
		v1.GET("/tvl", h.GetTVL)
		v1.GET("/tvl/:chain", h.GetChainTVL)
		v1.POST("/tvl/refresh", h.RefreshTVL)
		v1.GET("/balance/:chain/:asset", h.GetBalance)
		v1.POST("/wrapped/:chain", h.CreateWrapped)
	}

	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}
	return router
}

package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/preechaw/sewline/internal/server/handlers"
)

// Handlers bundles the HTTP adapters the router mounts. Export and Chat are
// optional; their routes are omitted when nil.
type Handlers struct {
	Report      *handlers.ReportHandler
	Performance *handlers.PerformanceHandler
	Quality     *handlers.QualityHandler
	Breaks      *handlers.BreakHandler
	Export      *handlers.ExportHandler
	Chat        *handlers.ChatHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	{
		api.GET("/reports", h.Report.GetReport)
		api.GET("/targets", h.Report.GetTargets)
		api.GET("/performance", h.Performance.GetPerformance)
		api.GET("/defects", h.Quality.GetDefects)
		api.GET("/cross-tabs", h.Quality.GetCrossTabs)

		api.GET("/breaks", h.Breaks.List)
		api.POST("/breaks", h.Breaks.Create)
		api.PUT("/breaks/:id", h.Breaks.Update)
		api.DELETE("/breaks/:id", h.Breaks.Delete)

		if h.Export != nil {
			api.GET("/export/production", h.Export.Production)
			api.GET("/export/quality", h.Export.Quality)
		}
		if h.Chat != nil {
			api.POST("/chat", h.Chat.Ask)
			api.GET("/chat/health", h.Chat.Health)
		}
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

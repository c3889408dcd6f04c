package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/server/handlers"
)

// Handlers groups the HTTP adapters. Webhook may be nil when WhatsApp is not configured.
type Handlers struct {
	Batches  *handlers.BatchHandler
	Overview *handlers.OverviewHandler
	Stream   *handlers.StreamHandler
	Webhook  *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/species", h.Overview.Species)
	api.GET("/tasks", h.Overview.Tasks)
	api.GET("/dashboard", h.Overview.Dashboard)
	api.GET("/history", h.Overview.History)
	api.GET("/stream", h.Stream.Stream)

	b := api.Group("/batches")
	b.GET("", h.Batches.List)
	b.POST("", h.Batches.Create)
	b.GET("/:id", h.Batches.Get)
	b.PUT("/:id", h.Batches.Update)
	b.DELETE("/:id", h.Batches.Delete)
	b.GET("/:id/status", h.Batches.Status)
	b.PATCH("/:id/tasks/:taskId", h.Batches.PatchTask)
	b.POST("/:id/candling", h.Batches.AddCandling)
	b.DELETE("/:id/candling/:resultId", h.Batches.DeleteCandling)
	b.PUT("/:id/hatched", h.Batches.SetHatched)

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
		r.POST("/send-message", h.Webhook.SendMessage)
	}

	logger.Info("router initialized", zap.Bool("whatsapp", h.Webhook != nil))
	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
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

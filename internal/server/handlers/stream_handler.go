package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/repository"
)

const (
	streamBuffer    = 32
	keepAlivePeriod = 25 * time.Second
)

// ChangeSource publishes repository change events.
type ChangeSource interface {
	Subscribe(fn func(repository.ChangeEvent)) func()
}

// StreamHandler pushes batch changes to browsers as server-sent events.
type StreamHandler struct {
	source ChangeSource
	logger *zap.Logger
}

// NewStreamHandler constructs the SSE adapter.
func NewStreamHandler(source ChangeSource, logger *zap.Logger) *StreamHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamHandler{source: source, logger: logger}
}

// Stream keeps the connection open and emits one event per change.
// Slow clients lose events rather than block writers.
func (h *StreamHandler) Stream(c *gin.Context) {
	events := make(chan repository.ChangeEvent, streamBuffer)
	unsubscribe := h.source.Subscribe(func(evt repository.ChangeEvent) {
		select {
		case events <- evt:
		default:
			h.logger.Warn("dropping change event for slow client", zap.String("batch_id", evt.BatchID))
		}
	})
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ticker := time.NewTicker(keepAlivePeriod)
	defer ticker.Stop()

	c.Stream(func(io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case evt := <-events:
			c.SSEvent(string(evt.Type), evt)
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		}
	})
}

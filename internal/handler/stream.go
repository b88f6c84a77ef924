package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/flicky/printdrop/internal/notify"
)

// OrderStreamHandler feeds admins placed orders over a websocket.
type OrderStreamHandler struct {
	hub *notify.Hub
	log *slog.Logger
}

func NewOrderStreamHandler(hub *notify.Hub, log *slog.Logger) *OrderStreamHandler {
	return &OrderStreamHandler{hub: hub, log: log}
}

func (h *OrderStreamHandler) Stream(c *gin.Context) {
	// The upgrader has already answered the client when this fails.
	if err := h.hub.Serve(c.Writer, c.Request); err != nil {
		h.log.Warn("order stream", "error", err)
	}
}

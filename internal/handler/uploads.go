package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flicky/printdrop/internal/storage"
)

type UploadHandler struct {
	images storage.ImageStore
	log    *slog.Logger
}

func NewUploadHandler(images storage.ImageStore, log *slog.Logger) *UploadHandler {
	return &UploadHandler{images: images, log: log}
}

func (h *UploadHandler) Serve(c *gin.Context) {
	rc, contentType, err := h.images.Open(c.Request.Context(), c.Param("file"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		respondError(c, h.log, err)
		return
	}
	defer rc.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	c.Header("X-Content-Type-Options", "nosniff")
	// SVGs may carry scripts; never let them run on our origin.
	c.Header("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'")
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.log.Warn("serve upload", "file", c.Param("file"), "error", err)
	}
}

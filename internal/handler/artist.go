package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flicky/printdrop/internal/dto"
	"github.com/flicky/printdrop/internal/middleware"
	"github.com/flicky/printdrop/internal/service"
)

type ArtistHandler struct {
	artistService *service.ArtistService
	log           *slog.Logger
}

func NewArtistHandler(artistService *service.ArtistService, log *slog.Logger) *ArtistHandler {
	return &ArtistHandler{artistService: artistService, log: log}
}

// List returns verified artists only.
func (h *ArtistHandler) List(c *gin.Context) {
	artists, err := h.artistService.ListVerified(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]dto.ArtistResponse, 0, len(artists))
	for i := range artists {
		resp = append(resp, toArtistResponse(&artists[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ArtistHandler) Create(c *gin.Context) {
	var req dto.CreateArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	artist, err := h.artistService.Become(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toArtistResponse(artist))
}

// Me answers null when the caller has no artist profile yet.
func (h *ArtistHandler) Me(c *gin.Context) {
	artist, err := h.artistService.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if artist == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, toArtistResponse(artist))
}

func (h *ArtistHandler) Verify(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrArtistNotFound.Error()})
		return
	}
	var req dto.VerifyArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	artist, err := h.artistService.SetVerified(c.Request.Context(), id, *req.Verified)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toArtistResponse(artist))
}

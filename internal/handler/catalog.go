package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flicky/printdrop/internal/dto"
	"github.com/flicky/printdrop/internal/service"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
	log            *slog.Logger
}

func NewCatalogHandler(catalogService *service.CatalogService, log *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, log: log}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	resp, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var req dto.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.catalogService.ListProducts(c.Request.Context(), req.Category)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// A malformed id cannot name a product.
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrProductNotFound.Error()})
		return
	}

	resp, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

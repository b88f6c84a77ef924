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

type CartHandler struct {
	svc *service.CartService
	log *slog.Logger
}

func NewCartHandler(svc *service.CartService, log *slog.Logger) *CartHandler {
	return &CartHandler{svc: svc, log: log}
}

// GetCart returns the caller's cart lines joined with product and design
// display data.
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.svc.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	lines := make([]dto.CartLineResponse, 0, len(cart.Lines))
	for i := range cart.Lines {
		lines = append(lines, toCartLineResponse(&cart.Lines[i]))
	}
	c.JSON(http.StatusOK, lines)
}

func (h *CartHandler) Summary(c *gin.Context) {
	cart, err := h.svc.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toSummaryResponse(cart.Summary))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.svc.Add(c.Request.Context(), middleware.UserID(c), service.AddToCart{
		ProductID:     req.ProductID,
		DesignID:      req.DesignID,
		Quantity:      req.Quantity,
		Customization: req.Customization.Model(),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toCartItemResponse(item))
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrCartItemNotFound.Error()})
		return
	}
	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.svc.UpdateQuantity(c.Request.Context(), middleware.UserID(c), itemID, req.Quantity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart item updated", "item": toCartItemResponse(item)})
}

func (h *CartHandler) DeleteItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrCartItemNotFound.Error()})
		return
	}
	if err := h.svc.Remove(c.Request.Context(), middleware.UserID(c), itemID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart item removed"})
}

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flicky/printdrop/internal/dto"
	"github.com/flicky/printdrop/internal/middleware"
	"github.com/flicky/printdrop/internal/service"
)

const (
	designFileField = "image"
	// multipartSlack covers form fields and part headers around the image.
	multipartSlack = 1 << 20
)

type DesignHandler struct {
	designService *service.DesignService
	maxBytes      int64
	log           *slog.Logger
}

func NewDesignHandler(designService *service.DesignService, maxBytes int64, log *slog.Logger) *DesignHandler {
	return &DesignHandler{designService: designService, maxBytes: maxBytes, log: log}
}

func (h *DesignHandler) List(c *gin.Context) {
	var req dto.ListDesignsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	var artistID *uuid.UUID
	if req.Artist != "" {
		id, err := uuid.Parse(req.Artist)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": gin.H{"artist": "uuid"}})
			return
		}
		artistID = &id
	}

	designs, err := h.designService.List(c.Request.Context(), artistID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]dto.DesignResponse, 0, len(designs))
	for i := range designs {
		resp = append(resp, toDesignResponse(&designs[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DesignHandler) Upload(c *gin.Context) {
	// Non-artists are turned away before the form is read.
	if _, err := h.designService.ArtistFor(c.Request.Context(), middleware.UserID(c)); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartSlack)

	var form dto.CreateDesignForm
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, h.log, service.ErrFileTooLarge)
			return
		}
		respondBindError(c, err)
		return
	}

	price := decimal.Zero
	if form.Price != "" {
		p, err := decimal.NewFromString(form.Price)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": gin.H{"price": "numeric"}})
			return
		}
		price = p
	}
	isPublic := true
	if form.IsPublic != nil {
		isPublic = *form.IsPublic
	}

	var upload *service.UploadedFile
	if fh, err := c.FormFile(designFileField); err == nil {
		f, err := fh.Open()
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		defer f.Close()
		upload = &service.UploadedFile{Name: fh.Filename, Size: fh.Size, Content: f}
	}

	design, err := h.designService.Upload(c.Request.Context(), middleware.UserID(c), service.NewDesign{
		Title:       form.Title,
		Description: form.Description,
		Price:       price,
		Tags:        service.ParseTags(form.Tags),
		IsPublic:    isPublic,
	}, upload)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toDesignResponse(design))
}

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/flicky/printdrop/internal/middleware"
	"github.com/flicky/printdrop/internal/service"
)

type errorMapping struct {
	err    error
	status int
}

// errorStatuses is checked in order; the first sentinel in the chain wins.
var errorStatuses = []errorMapping{
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrNotAnArtist, http.StatusForbidden},
	{service.ErrUserAlreadyExists, http.StatusConflict},
	{service.ErrArtistExists, http.StatusConflict},
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrProductNotFound, http.StatusNotFound},
	{service.ErrCategoryNotFound, http.StatusNotFound},
	{service.ErrCartItemNotFound, http.StatusNotFound},
	{service.ErrArtistNotFound, http.StatusNotFound},
	{service.ErrDesignNotFound, http.StatusNotFound},
	{service.ErrOrderNotFound, http.StatusNotFound},
	{service.ErrEmptyCart, http.StatusBadRequest},
	{service.ErrDesignFileMissing, http.StatusBadRequest},
	{service.ErrUnsupportedFileType, http.StatusBadRequest},
	{service.ErrInvalidCustomization, http.StatusBadRequest},
	{service.ErrInvalidInput, http.StatusBadRequest},
	{service.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
}

// respondError writes the client-facing form of err. Anything without a
// known sentinel is logged and reported as a generic 500.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	for _, m := range errorStatuses {
		if errors.Is(err, m.err) {
			msg := m.err.Error()
			// Detail after the sentinel, e.g. "invalid customization: size is required".
			if m.status == http.StatusBadRequest && err.Error() != msg {
				if i := strings.LastIndex(err.Error(), msg+": "); i >= 0 {
					msg = err.Error()[i:]
				}
			}
			c.JSON(m.status, gin.H{"error": msg})
			return
		}
	}

	log.Error("request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"user_id", middleware.UserID(c),
		"error", err,
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// respondBindError reports a malformed payload with per-field details when
// the validator produced them.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe)] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

// fieldPath turns "AddCartItemRequest.Customization.Placement" into
// "customization.placement".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	parts := strings.Split(ns, ".")
	for i, p := range parts {
		parts[i] = toSnake(p)
	}
	return strings.Join(parts, ".")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/flicky/printdrop/internal/middleware"
	"github.com/flicky/printdrop/internal/model"
)

// Routes collects everything NewRouter mounts. Health, Stream, Metrics and
// MetricsHandler are optional.
type Routes struct {
	Auth    *AuthHandler
	Catalog *CatalogHandler
	Artists *ArtistHandler
	Designs *DesignHandler
	Cart    *CartHandler
	Orders  *OrderHandler
	Uploads *UploadHandler
	Health  *HealthHandler
	Stream  *OrderStreamHandler

	JWTSecret      string
	CookieName     string
	AllowOrigins   []string
	Metrics        *middleware.Metrics
	MetricsHandler http.Handler
	Log            *slog.Logger
}

func NewRouter(r Routes) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(r.Log))
	if r.Metrics != nil {
		router.Use(r.Metrics.Handler())
	}
	if len(r.AllowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     r.AllowOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	if r.Health != nil {
		router.GET("/healthz", r.Health.Healthz)
		router.GET("/readyz", r.Health.Readyz)
	}
	if r.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(r.MetricsHandler))
	}
	router.GET("/uploads/:file", r.Uploads.Serve)

	authed := middleware.Auth(r.JWTSecret, r.CookieName)
	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", r.Auth.Register)
		auth.POST("/login", r.Auth.Login)
		auth.POST("/logout", r.Auth.Logout)
		auth.GET("/me", authed, r.Auth.Me)

		api.GET("/categories", r.Catalog.ListCategories)
		api.GET("/products", r.Catalog.ListProducts)
		api.GET("/products/:id", r.Catalog.GetProduct)

		api.GET("/artists", r.Artists.List)
		api.POST("/artists", authed, r.Artists.Create)
		api.GET("/artists/me", authed, r.Artists.Me)

		api.GET("/designs", r.Designs.List)
		api.POST("/designs", authed, r.Designs.Upload)

		cart := api.Group("/cart", authed)
		cart.GET("", r.Cart.GetCart)
		cart.GET("/summary", r.Cart.Summary)
		cart.POST("", r.Cart.AddItem)
		cart.PUT("/:id", r.Cart.UpdateItem)
		cart.DELETE("/:id", r.Cart.DeleteItem)

		orders := api.Group("/orders", authed)
		orders.POST("", r.Orders.CreateOrder)
		orders.GET("", r.Orders.ListOrders)
		orders.GET("/:id", r.Orders.GetOrder)

		admin := api.Group("/admin", authed, middleware.RequireRole(model.UserTypeAdmin))
		admin.PUT("/artists/:id/verify", r.Artists.Verify)
		if r.Stream != nil {
			admin.GET("/orders/stream", r.Stream.Stream)
		}
	}

	return router
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"

	"github.com/flicky/printdrop/internal/config"
	"github.com/flicky/printdrop/internal/handler"
	"github.com/flicky/printdrop/internal/middleware"
	"github.com/flicky/printdrop/internal/notify"
	"github.com/flicky/printdrop/internal/repository"
	"github.com/flicky/printdrop/internal/service"
	"github.com/flicky/printdrop/internal/storage"
	"github.com/flicky/printdrop/internal/worker"
)

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the order worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "Apply pending migrations before serving")
	return cmd
}

func serve(migrate bool) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	dbPool, err := connectDB(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer dbPool.Close()
	log.Info("connected to PostgreSQL")

	if migrate {
		applied, err := repository.Migrate(ctx, dbPool)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("migrations applied", "count", len(applied))
	}

	// Redis
	redisClient, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	log.Info("connected to Redis")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		return fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	defer amqpConn.Close()

	publishCh, err := amqpConn.Channel()
	if err != nil {
		return fmt.Errorf("open RabbitMQ channel: %w", err)
	}
	defer publishCh.Close()

	if err := worker.SetupRabbitMQ(publishCh); err != nil {
		return fmt.Errorf("setup RabbitMQ: %w", err)
	}

	consumeCh, err := amqpConn.Channel()
	if err != nil {
		return fmt.Errorf("open RabbitMQ channel: %w", err)
	}
	defer consumeCh.Close()
	log.Info("connected to RabbitMQ")

	images, err := newImageStore(ctx, cfg.Upload)
	if err != nil {
		return err
	}

	// Repositories
	userRepo := repository.NewUserRepository(dbPool)
	artistRepo := repository.NewArtistRepository(dbPool)
	categoryRepo := repository.NewCategoryRepository(dbPool)
	productRepo := repository.NewProductRepository(dbPool)
	designRepo := repository.NewDesignRepository(dbPool)
	cartRepo := repository.NewCartRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)

	// Services
	shipping := service.ShippingPolicy{Fee: cfg.Shop.ShippingFee, FreeThreshold: cfg.Shop.FreeShippingThreshold}
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	catalogSvc := service.NewCatalogService(categoryRepo, productRepo, redisClient)
	artistSvc := service.NewArtistService(artistRepo, cfg.Shop.CommissionRate)
	designSvc := service.NewDesignService(designRepo, artistRepo, images, cfg.Upload.MaxBytes)
	cartSvc := service.NewCartService(cartRepo, productRepo, designRepo, artistRepo, shipping)
	orderSvc := service.NewOrderService(
		orderRepo,
		service.NewAMQPPublisher(publishCh, service.OrdersQueue),
		shipping,
		cfg.Shop.OrderNumberPrefix,
		log,
	)

	hub := notify.NewHub(cfg.Server.AllowOrigins, log)
	defer hub.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := handler.NewRouter(handler.Routes{
		Auth:    handler.NewAuthHandler(authSvc, cfg.JWT.CookieName, cfg.JWT.SecureCookie, log),
		Catalog: handler.NewCatalogHandler(catalogSvc, log),
		Artists: handler.NewArtistHandler(artistSvc, log),
		Designs: handler.NewDesignHandler(designSvc, cfg.Upload.MaxBytes, log),
		Cart:    handler.NewCartHandler(cartSvc, log),
		Orders:  handler.NewOrderHandler(orderSvc, log),
		Uploads: handler.NewUploadHandler(images, log),
		Health:  handler.NewHealthHandler(dbPool, redisClient, amqpConn),
		Stream:  handler.NewOrderStreamHandler(hub, log),

		JWTSecret:      cfg.JWT.Secret,
		CookieName:     cfg.JWT.CookieName,
		AllowOrigins:   cfg.Server.AllowOrigins,
		Metrics:        middleware.NewMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Log:            log,
	})

	// Worker
	orderWorker := worker.NewOrderWorker(consumeCh, orderRepo, designRepo, redisClient, hub, log)
	if err := orderWorker.Start(ctx); err != nil {
		return fmt.Errorf("start order worker: %w", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		orderWorker.Stop()
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	orderWorker.Stop()
	time.Sleep(500 * time.Millisecond)
	cancel()
	log.Info("server stopped")
	return nil
}

func newImageStore(ctx context.Context, cfg config.UploadConfig) (storage.ImageStore, error) {
	if cfg.Backend == "s3" {
		store, err := storage.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("s3 image store: %w", err)
		}
		return store, nil
	}
	store, err := storage.NewLocalStore(cfg.Dir, cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("local image store: %w", err)
	}
	return store, nil
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

const readyTimeout = 2 * time.Second

type dependencyCheck struct {
	name  string
	check func(ctx context.Context) error
}

type HealthHandler struct {
	checks []dependencyCheck
}

func NewHealthHandler(dbPool *pgxpool.Pool, redisClient *redis.Client, amqpConn *amqp.Connection) *HealthHandler {
	return &HealthHandler{checks: []dependencyCheck{
		{"postgres", dbPool.Ping},
		{"redis", func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
		{"rabbitmq", func(context.Context) error {
			if amqpConn.IsClosed() {
				return errors.New("connection closed")
			}
			return nil
		}},
	}}
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	resp := gin.H{"status": "ok"}
	status := http.StatusOK
	for _, dep := range h.checks {
		if err := dep.check(ctx); err != nil {
			resp[dep.name] = "unavailable"
			resp["status"] = "error"
			status = http.StatusServiceUnavailable
			continue
		}
		resp[dep.name] = "connected"
	}
	c.JSON(status, resp)
}

package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/flicky/printdrop/internal/model"
	"github.com/flicky/printdrop/internal/notify"
	"github.com/flicky/printdrop/internal/repository"
	"github.com/flicky/printdrop/internal/service"
)

const (
	orderQueueName = service.OrdersQueue
	dlxExchange    = "orders.dlx"
	dlqQueueName   = "orders.dlq"
	idempotencyTTL = 24 * time.Hour
)

// Broadcaster receives every processed order.
type Broadcaster interface {
	Broadcast(v any) error
}

// processedSet remembers which orders were already handled so redelivered
// messages are acknowledged without side effects.
type processedSet interface {
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

type redisProcessedSet struct{ client *redis.Client }

func (s redisProcessedSet) Seen(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	return n > 0, err
}

func (s redisProcessedSet) Mark(ctx context.Context, key string) error {
	return s.client.Set(ctx, key, "1", idempotencyTTL).Err()
}

type outcome int

const (
	ack outcome = iota
	requeue
	deadLetter
)

type OrderWorker struct {
	channel    *amqp.Channel
	orderRepo  repository.OrderRepository
	designRepo repository.DesignRepository
	processed  processedSet
	feed       Broadcaster
	log        *slog.Logger
	done       chan struct{}
}

func NewOrderWorker(
	ch *amqp.Channel,
	orderRepo repository.OrderRepository,
	designRepo repository.DesignRepository,
	redisClient *redis.Client,
	feed Broadcaster,
	log *slog.Logger,
) *OrderWorker {
	return &OrderWorker{
		channel:    ch,
		orderRepo:  orderRepo,
		designRepo: designRepo,
		processed:  redisProcessedSet{client: redisClient},
		feed:       feed,
		log:        log,
		done:       make(chan struct{}),
	}
}

// SetupRabbitMQ declares the order queue and its dead-letter exchange and
// queue.
func SetupRabbitMQ(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(dlxExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(dlqQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}
	if err := ch.QueueBind(dlqQueueName, orderQueueName, dlxExchange, false, nil); err != nil {
		return fmt.Errorf("bind DLQ: %w", err)
	}
	if _, err := ch.QueueDeclare(orderQueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxExchange,
		"x-dead-letter-routing-key": orderQueueName,
	}); err != nil {
		return fmt.Errorf("declare order queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	return nil
}

func (w *OrderWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(orderQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("order worker started")
	return nil
}

func (w *OrderWorker) Stop() { close(w.done) }

func (w *OrderWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	switch w.handle(ctx, msg.Body) {
	case ack:
		_ = msg.Ack(false)
	case requeue:
		_ = msg.Nack(false, true)
	case deadLetter:
		_ = msg.Nack(false, false)
	}
}

func (w *OrderWorker) handle(ctx context.Context, body []byte) outcome {
	var placed model.OrderPlacedMessage
	if err := json.Unmarshal(body, &placed); err != nil {
		w.log.Error("unmarshal order message", "error", err)
		return deadLetter
	}

	log := w.log.With("order_id", placed.OrderID, "order_number", placed.OrderNumber)

	key := "order_processed:" + placed.OrderID.String()
	seen, err := w.processed.Seen(ctx, key)
	if err != nil {
		log.Error("check idempotency key", "error", err)
		return requeue
	}
	if seen {
		log.Info("order already processed, skipping")
		return ack
	}

	order, err := w.processOrder(ctx, placed)
	if err != nil {
		log.Error("process order failed", "error", err)
		return deadLetter
	}

	if err := w.processed.Mark(ctx, key); err != nil {
		log.Error("set idempotency key", "error", err)
	}

	if w.feed != nil {
		if err := w.feed.Broadcast(orderEvent(order)); err != nil {
			log.Warn("broadcast order", "error", err)
		}
	}

	log.Info("order processed successfully")
	return ack
}

// processOrder credits each design in the order with one use per unit sold.
func (w *OrderWorker) processOrder(ctx context.Context, placed model.OrderPlacedMessage) (*model.Order, error) {
	order, err := w.orderRepo.GetByID(ctx, placed.OrderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("order not found: %s", placed.OrderID)
	}

	uses := make(map[uuid.UUID]int)
	for _, item := range order.Items {
		if item.DesignID != nil {
			uses[*item.DesignID] += item.Quantity
		}
	}
	if len(uses) == 0 {
		return order, nil
	}
	if err := w.designRepo.IncrementDownloads(ctx, uses); err != nil {
		return nil, fmt.Errorf("count design uses: %w", err)
	}
	return order, nil
}

func orderEvent(o *model.Order) notify.OrderEvent {
	units := 0
	for _, item := range o.Items {
		units += item.Quantity
	}
	return notify.OrderEvent{
		Type:        "order.placed",
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount.StringFixed(2),
		ItemCount:   units,
		PlacedAt:    o.CreatedAt,
	}
}

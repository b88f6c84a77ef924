package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"github.com/flicky/printdrop/internal/model"
	"github.com/flicky/printdrop/internal/repository"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
)

const (
	OrdersQueue         = "orders"
	orderNumberLen      = 10
	orderNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	orderNumberAttempts = 3
)

// OrderPublisher announces placed orders to background consumers.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, msg model.OrderPlacedMessage) error
}

// AMQPPublisher publishes persistent JSON messages to a queue on the
// default exchange.
type AMQPPublisher struct {
	ch    *amqp.Channel
	queue string
}

func NewAMQPPublisher(ch *amqp.Channel, queue string) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, queue: queue}
}

func (p *AMQPPublisher) PublishOrderPlaced(ctx context.Context, msg model.OrderPlacedMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal order message: %w", err)
	}
	return p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.OrderID.String(),
	})
}

type OrderService struct {
	orderRepo      repository.OrderRepository
	publisher      OrderPublisher
	shipping       ShippingPolicy
	newOrderNumber func() string
	log            *slog.Logger
}

func NewOrderService(orderRepo repository.OrderRepository, publisher OrderPublisher, shipping ShippingPolicy, numberPrefix string, log *slog.Logger) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		publisher:      publisher,
		shipping:       shipping,
		newOrderNumber: func() string { return NewOrderNumber(numberPrefix) },
		log:            log,
	}
}

// NewOrderNumber returns prefix, a dash and ten random characters from an
// alphabet without look-alike letters and digits.
func NewOrderNumber(prefix string) string {
	buf := make([]byte, orderNumberLen)
	limit := big.NewInt(int64(len(orderNumberAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic(fmt.Sprintf("order number: %v", err))
		}
		buf[i] = orderNumberAlphabet[n.Int64()]
	}
	return prefix + "-" + string(buf)
}

// Checkout turns the caller's cart into a pending order. TotalAmount is the
// sum of the item snapshots and the shipping charge is kept in ShippingAmount;
// any client supplied total is never consulted. The cart is emptied in the
// same transaction that writes the order.
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID, address model.ShippingAddress) (*model.Order, error) {
	var (
		order *model.Order
		err   error
	)
	for attempt := 1; attempt <= orderNumberAttempts; attempt++ {
		order, err = s.orderRepo.PlaceOrder(ctx, userID, func(lines []model.CartLine) (*model.Order, error) {
			return s.buildOrder(lines, address)
		})
		if !errors.Is(err, repository.ErrDuplicate) {
			break
		}
		s.log.Warn("order number collision", "user_id", userID, "attempt", attempt,
			"constraint", repository.Constraint(err))
	}
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			return nil, ErrEmptyCart
		}
		return nil, fmt.Errorf("place order: %w", err)
	}

	if s.publisher != nil {
		msg := model.OrderPlacedMessage{OrderID: order.ID, UserID: userID, OrderNumber: order.OrderNumber}
		if err := s.publisher.PublishOrderPlaced(ctx, msg); err != nil {
			s.log.Error("publish order placed", "order_id", order.ID, "error", err)
		}
	}
	return order, nil
}

func (s *OrderService) buildOrder(lines []model.CartLine, address model.ShippingAddress) (*model.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	summary := Summarize(lines, s.shipping)
	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, model.OrderItem{
			ProductID:        l.ProductID,
			DesignID:         l.DesignID,
			Quantity:         l.Quantity,
			UnitPrice:        l.Price,
			Customization:    l.Customization,
			ArtistCommission: commissionFor(l),
		})
	}

	return &model.Order{
		OrderNumber:     s.newOrderNumber(),
		Status:          model.OrderStatusPending,
		TotalAmount:     summary.Subtotal,
		ShippingAmount:  summary.Shipping,
		ShippingAddress: address,
		PaymentStatus:   model.PaymentStatusUnpaid,
		Items:           items,
	}, nil
}

// commissionFor is the artist's share of a line: the design part of the unit
// price times quantity times the artist's rate.
func commissionFor(l model.CartLine) decimal.Decimal {
	if l.DesignID == nil || l.ArtistID == nil {
		return decimal.Zero
	}
	return l.DesignPrice.
		Mul(decimal.NewFromInt(int64(l.Quantity))).
		Mul(l.CommissionRate).
		Round(2)
}

func (s *OrderService) List(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Get returns one of the caller's orders. Orders of other users are reported
// as not found.
func (s *OrderService) Get(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

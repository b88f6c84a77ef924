package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flicky/printdrop/internal/model"
)

// BuildOrderFunc turns the locked cart lines of a user into the order to
// persist. Returning an error aborts the checkout with nothing written.
type BuildOrderFunc func(lines []model.CartLine) (*model.Order, error)

type OrderRepository interface {
	// Create inserts the order and its items atomically.
	Create(ctx context.Context, order *model.Order) error
	// PlaceOrder runs a whole checkout for userID in one transaction: it
	// serializes against other checkouts of the same user, locks the cart
	// rows, builds the order from them, inserts order and items and empties
	// the cart.
	PlaceOrder(ctx context.Context, userID uuid.UUID, build BuildOrderFunc) (*model.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
}

type pgOrderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepo{pool: pool}
}

func (r *pgOrderRepo) Create(ctx context.Context, order *model.Order) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		return insertOrder(ctx, tx, order)
	})
}

func (r *pgOrderRepo) PlaceOrder(ctx context.Context, userID uuid.UUID, build BuildOrderFunc) (*model.Order, error) {
	var order *model.Order
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`SELECT pg_advisory_xact_lock(hashtext('checkout:' || $1::text))`, userID.String(),
		); err != nil {
			return fmt.Errorf("lock checkout: %w", err)
		}

		lines, err := listCartLines(ctx, tx, userID, true)
		if err != nil {
			return err
		}

		order, err = build(lines)
		if err != nil {
			return err
		}
		order.UserID = userID

		if err := insertOrder(ctx, tx, order); err != nil {
			return err
		}
		return clearCart(ctx, tx, userID)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func insertOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	order.ID = uuid.New()
	err := tx.QueryRow(ctx,
		`INSERT INTO orders (id, user_id, order_number, status, total_amount, shipping_amount,
			shipping_address, payment_status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()) RETURNING created_at, updated_at`,
		order.ID, order.UserID, order.OrderNumber, order.Status, order.TotalAmount,
		order.ShippingAmount, order.ShippingAddress, order.PaymentStatus,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", classify(err))
	}

	batch := &pgx.Batch{}
	for i := range order.Items {
		item := &order.Items[i]
		item.ID = uuid.New()
		item.OrderID = order.ID
		batch.Queue(
			`INSERT INTO order_items (id, order_id, line_no, product_id, design_id, quantity, unit_price,
				customization, artist_commission)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			item.ID, item.OrderID, i, item.ProductID, item.DesignID, item.Quantity, item.UnitPrice,
			item.Customization, item.ArtistCommission,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert order items: %w", classify(err))
	}
	return nil
}

const orderColumns = `id, user_id, order_number, status, total_amount, shipping_amount, shipping_address,
	payment_status, created_at, updated_at`

func (r *pgOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order := &model.Order{}
	err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id), order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := r.itemsFor(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return order, nil
}

func (r *pgOrderRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	var ids []uuid.UUID
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *pgOrderRepo) itemsFor(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]model.OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, product_id, design_id, quantity, unit_price, customization, artist_commission
		 FROM order_items WHERE order_id = ANY($1::uuid[]) ORDER BY order_id, line_no`, orderIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]model.OrderItem, len(orderIDs))
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.DesignID, &item.Quantity,
			&item.UnitPrice, &item.Customization, &item.ArtistCommission,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID, &o.UserID, &o.OrderNumber, &o.Status, &o.TotalAmount, &o.ShippingAmount,
		&o.ShippingAddress, &o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt,
	)
}

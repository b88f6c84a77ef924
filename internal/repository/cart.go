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

// CartRepository mutations that take a userID only touch rows owned by that
// user and report ErrNotFound when no such row exists.
type CartRepository interface {
	ListLines(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error)
	// Add always inserts a new row; equal lines are not merged.
	Add(ctx context.Context, item *model.CartItem) error
	UpdateQuantity(ctx context.Context, itemID, userID uuid.UUID, quantity int) (*model.CartItem, error)
	Delete(ctx context.Context, itemID, userID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type pgCartRepo struct{ pool *pgxpool.Pool }

func NewCartRepository(pool *pgxpool.Pool) CartRepository {
	return &pgCartRepo{pool: pool}
}

const cartItemColumns = `id, user_id, product_id, design_id, quantity, customization, price, design_price, created_at`

const cartLinesQuery = `SELECT ci.id, ci.user_id, ci.product_id, ci.design_id, ci.quantity, ci.customization,
		ci.price, ci.design_price, ci.created_at,
		COALESCE(p.name, ''), COALESCE(p.image_url, ''),
		COALESCE(d.title, ''), COALESCE(d.image_url, ''), d.artist_id,
		COALESCE(a.commission_rate, 0)
	FROM cart_items ci
	LEFT JOIN products p ON p.id = ci.product_id
	LEFT JOIN designs d ON d.id = ci.design_id
	LEFT JOIN artists a ON a.id = d.artist_id
	WHERE ci.user_id = $1
	ORDER BY ci.created_at, ci.id`

func (r *pgCartRepo) ListLines(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error) {
	return listCartLines(ctx, r.pool, userID, false)
}

// listCartLines with lock set holds row locks on the user's cart rows until
// the surrounding transaction ends.
func listCartLines(ctx context.Context, q querier, userID uuid.UUID, lock bool) ([]model.CartLine, error) {
	query := cartLinesQuery
	if lock {
		query += ` FOR UPDATE OF ci`
	}
	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	defer rows.Close()

	lines := []model.CartLine{}
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.ProductID, &l.DesignID, &l.Quantity, &l.Customization,
			&l.Price, &l.DesignPrice, &l.CreatedAt,
			&l.ProductName, &l.ProductImage, &l.DesignTitle, &l.DesignImage, &l.ArtistID,
			&l.CommissionRate,
		); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *pgCartRepo) Add(ctx context.Context, item *model.CartItem) error {
	item.ID = uuid.New()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO cart_items (`+cartItemColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		 RETURNING created_at`,
		item.ID, item.UserID, item.ProductID, item.DesignID, item.Quantity, item.Customization,
		item.Price, item.DesignPrice,
	).Scan(&item.CreatedAt)
	if err != nil {
		return fmt.Errorf("add cart item: %w", classify(err))
	}
	return nil
}

func (r *pgCartRepo) UpdateQuantity(ctx context.Context, itemID, userID uuid.UUID, quantity int) (*model.CartItem, error) {
	item := &model.CartItem{}
	err := r.pool.QueryRow(ctx,
		`UPDATE cart_items SET quantity = $3 WHERE id = $1 AND user_id = $2
		 RETURNING `+cartItemColumns,
		itemID, userID, quantity,
	).Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.DesignID, &item.Quantity,
		&item.Customization, &item.Price, &item.DesignPrice, &item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return item, nil
}

func (r *pgCartRepo) Delete(ctx context.Context, itemID, userID uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgCartRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	return clearCart(ctx, r.pool, userID)
}

func clearCart(ctx context.Context, q querier, userID uuid.UUID) error {
	if _, err := q.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

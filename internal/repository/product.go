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

type ProductFilter struct {
	CategoryID *uuid.UUID
	ActiveOnly bool
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Upsert(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type pgProductRepo struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &pgProductRepo{pool: pool}
}

const productColumns = `id, name, description, base_price, category_id, image_url,
	customization_options, is_active, created_at, updated_at`

func (r *pgProductRepo) Create(ctx context.Context, product *model.Product) error {
	product.ID = uuid.New()
	query := `INSERT INTO products (id, name, description, base_price, category_id, image_url,
				customization_options, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()) RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.ID, product.Name, product.Description, product.BasePrice, product.CategoryID,
		product.ImageURL, product.CustomizationOptions, product.IsActive,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", classify(err))
	}
	return nil
}

// Upsert matches on (category, name).
func (r *pgProductRepo) Upsert(ctx context.Context, product *model.Product) error {
	query := `INSERT INTO products (id, name, description, base_price, category_id, image_url,
				customization_options, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			  ON CONFLICT (category_id, name) DO UPDATE SET description = EXCLUDED.description,
				base_price = EXCLUDED.base_price, image_url = EXCLUDED.image_url,
				customization_options = EXCLUDED.customization_options,
				is_active = EXCLUDED.is_active, updated_at = NOW()
			  RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		uuid.New(), product.Name, product.Description, product.BasePrice, product.CategoryID,
		product.ImageURL, product.CustomizationOptions, product.IsActive,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert product: %w", classify(err))
	}
	return nil
}

func (r *pgProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *pgProductRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE ($1::uuid IS NULL OR category_id = $1) AND (NOT $2 OR is_active)
		 ORDER BY name`,
		filter.CategoryID, filter.ActiveOnly,
	)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *pgProductRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE products SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active,
	)
	if err != nil {
		return fmt.Errorf("set product active: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	p := &model.Product{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.BasePrice, &p.CategoryID, &p.ImageURL,
		&p.CustomizationOptions, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

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

type DesignRepository interface {
	Create(ctx context.Context, design *model.Design) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Design, error)
	// ListPublic returns public designs, restricted to one artist when
	// artistID is non-nil.
	ListPublic(ctx context.Context, artistID *uuid.UUID) ([]model.Design, error)
	// IncrementDownloads adds n to the download count of each design, all or
	// nothing.
	IncrementDownloads(ctx context.Context, counts map[uuid.UUID]int) error
}

type pgDesignRepo struct{ pool *pgxpool.Pool }

func NewDesignRepository(pool *pgxpool.Pool) DesignRepository {
	return &pgDesignRepo{pool: pool}
}

const designColumns = `id, artist_id, title, description, image_url, price, tags, is_public, download_count, created_at`

func (r *pgDesignRepo) Create(ctx context.Context, d *model.Design) error {
	d.ID = uuid.New()
	if d.Tags == nil {
		d.Tags = []string{}
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO designs (id, artist_id, title, description, image_url, price, tags, is_public, download_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, NOW()) RETURNING created_at`,
		d.ID, d.ArtistID, d.Title, d.Description, d.ImageURL, d.Price, d.Tags, d.IsPublic,
	).Scan(&d.CreatedAt)
	if err != nil {
		return fmt.Errorf("create design: %w", classify(err))
	}
	return nil
}

func (r *pgDesignRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Design, error) {
	d, err := scanDesign(r.pool.QueryRow(ctx, `SELECT `+designColumns+` FROM designs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get design: %w", err)
	}
	return d, nil
}

func (r *pgDesignRepo) ListPublic(ctx context.Context, artistID *uuid.UUID) ([]model.Design, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+designColumns+` FROM designs
		 WHERE is_public AND ($1::uuid IS NULL OR artist_id = $1)
		 ORDER BY created_at DESC`,
		artistID,
	)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	defer rows.Close()

	designs := []model.Design{}
	for rows.Next() {
		d, err := scanDesign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan design: %w", err)
		}
		designs = append(designs, *d)
	}
	return designs, rows.Err()
}

func (r *pgDesignRepo) IncrementDownloads(ctx context.Context, counts map[uuid.UUID]int) error {
	if len(counts) == 0 {
		return nil
	}
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		for id, n := range counts {
			if _, err := tx.Exec(ctx,
				`UPDATE designs SET download_count = download_count + $2 WHERE id = $1`, id, n,
			); err != nil {
				return fmt.Errorf("increment downloads for %s: %w", id, err)
			}
		}
		return nil
	})
}

func scanDesign(row pgx.Row) (*model.Design, error) {
	d := &model.Design{}
	err := row.Scan(
		&d.ID, &d.ArtistID, &d.Title, &d.Description, &d.ImageURL, &d.Price,
		&d.Tags, &d.IsPublic, &d.DownloadCount, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

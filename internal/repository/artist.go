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

type ArtistRepository interface {
	// Create inserts the profile and promotes the owning user to the artist
	// type in one transaction.
	Create(ctx context.Context, artist *model.Artist) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Artist, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Artist, error)
	ListVerified(ctx context.Context) ([]model.Artist, error)
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error
}

type pgArtistRepo struct{ pool *pgxpool.Pool }

func NewArtistRepository(pool *pgxpool.Pool) ArtistRepository {
	return &pgArtistRepo{pool: pool}
}

const artistColumns = `id, user_id, display_name, bio, specialty, portfolio_url, social_links,
	is_verified, commission_rate, created_at, updated_at`

func (r *pgArtistRepo) Create(ctx context.Context, artist *model.Artist) error {
	artist.ID = uuid.New()
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO artists (id, user_id, display_name, bio, specialty, portfolio_url, social_links,
				is_verified, commission_rate, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, NOW(), NOW())
			 RETURNING is_verified, created_at, updated_at`,
			artist.ID, artist.UserID, artist.DisplayName, artist.Bio, artist.Specialty,
			artist.PortfolioURL, artist.SocialLinks, artist.CommissionRate,
		).Scan(&artist.IsVerified, &artist.CreatedAt, &artist.UpdatedAt)
		if err != nil {
			return fmt.Errorf("create artist: %w", classify(err))
		}
		// Admins keep their type.
		_, err = tx.Exec(ctx,
			`UPDATE users SET user_type = $2, updated_at = NOW() WHERE id = $1 AND user_type = $3`,
			artist.UserID, model.UserTypeArtist, model.UserTypeCustomer,
		)
		if err != nil {
			return fmt.Errorf("promote user: %w", err)
		}
		return nil
	})
}

func (r *pgArtistRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Artist, error) {
	a, err := scanArtist(r.pool.QueryRow(ctx, `SELECT `+artistColumns+` FROM artists WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}
	return a, nil
}

func (r *pgArtistRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Artist, error) {
	a, err := scanArtist(r.pool.QueryRow(ctx, `SELECT `+artistColumns+` FROM artists WHERE user_id = $1`, userID))
	if err != nil {
		return nil, fmt.Errorf("get artist by user: %w", err)
	}
	return a, nil
}

// ListVerified returns verified artists only; unverified profiles are never
// listed publicly.
func (r *pgArtistRepo) ListVerified(ctx context.Context) ([]model.Artist, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+artistColumns+` FROM artists WHERE is_verified ORDER BY display_name, created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	artists := []model.Artist{}
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		artists = append(artists, *a)
	}
	return artists, rows.Err()
}

func (r *pgArtistRepo) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE artists SET is_verified = $2, updated_at = NOW() WHERE id = $1`, id, verified,
	)
	if err != nil {
		return fmt.Errorf("set artist verified: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanArtist(row pgx.Row) (*model.Artist, error) {
	a := &model.Artist{}
	err := row.Scan(
		&a.ID, &a.UserID, &a.DisplayName, &a.Bio, &a.Specialty, &a.PortfolioURL, &a.SocialLinks,
		&a.IsVerified, &a.CommissionRate, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

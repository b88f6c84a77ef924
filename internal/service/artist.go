package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flicky/printdrop/internal/dto"
	"github.com/flicky/printdrop/internal/model"
	"github.com/flicky/printdrop/internal/repository"
)

var (
	ErrArtistExists   = errors.New("artist profile already exists")
	ErrArtistNotFound = errors.New("artist not found")
)

type ArtistService struct {
	artistRepo     repository.ArtistRepository
	commissionRate decimal.Decimal
}

func NewArtistService(artistRepo repository.ArtistRepository, commissionRate decimal.Decimal) *ArtistService {
	return &ArtistService{artistRepo: artistRepo, commissionRate: commissionRate}
}

// Become creates the caller's artist profile. Each user has at most one.
func (s *ArtistService) Become(ctx context.Context, userID uuid.UUID, req dto.CreateArtistRequest) (*model.Artist, error) {
	existing, err := s.artistRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check artist: %w", err)
	}
	if existing != nil {
		return nil, ErrArtistExists
	}

	artist := &model.Artist{
		UserID:         userID,
		DisplayName:    req.DisplayName,
		Bio:            req.Bio,
		Specialty:      req.Specialty,
		PortfolioURL:   req.PortfolioURL,
		SocialLinks:    model.SocialLinks(req.SocialLinks),
		CommissionRate: s.commissionRate,
	}
	if err := s.artistRepo.Create(ctx, artist); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrArtistExists
		}
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("create artist: %w", err)
	}
	return artist, nil
}

// Me returns the caller's artist profile, or nil when they have none.
func (s *ArtistService) Me(ctx context.Context, userID uuid.UUID) (*model.Artist, error) {
	artist, err := s.artistRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}
	return artist, nil
}

func (s *ArtistService) ListVerified(ctx context.Context) ([]model.Artist, error) {
	artists, err := s.artistRepo.ListVerified(ctx)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	return artists, nil
}

func (s *ArtistService) SetVerified(ctx context.Context, artistID uuid.UUID, verified bool) (*model.Artist, error) {
	if err := s.artistRepo.SetVerified(ctx, artistID, verified); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("verify artist: %w", err)
	}
	artist, err := s.artistRepo.GetByID(ctx, artistID)
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}
	if artist == nil {
		return nil, ErrArtistNotFound
	}
	return artist, nil
}

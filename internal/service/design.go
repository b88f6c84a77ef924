package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flicky/printdrop/internal/model"
	"github.com/flicky/printdrop/internal/repository"
	"github.com/flicky/printdrop/internal/storage"
)

var (
	ErrNotAnArtist         = errors.New("only artists can upload designs")
	ErrDesignFileMissing   = errors.New("design image is required")
	ErrUnsupportedFileType = errors.New("only jpg, jpeg, png and svg images are allowed")
	ErrFileTooLarge        = errors.New("design image is too large")
	ErrDesignNotFound      = errors.New("design not found")
	ErrInvalidInput        = errors.New("invalid input")
)

// allowedImageTypes maps accepted extensions to the content type the file
// body has to sniff as.
var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".svg":  "image/svg+xml",
}

const sniffLen = 512

type UploadedFile struct {
	Name    string
	Size    int64
	Content io.Reader
}

type NewDesign struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Tags        []string
	IsPublic    bool
}

type DesignService struct {
	designRepo repository.DesignRepository
	artistRepo repository.ArtistRepository
	images     storage.ImageStore
	maxBytes   int64
}

func NewDesignService(designRepo repository.DesignRepository, artistRepo repository.ArtistRepository, images storage.ImageStore, maxBytes int64) *DesignService {
	return &DesignService{designRepo: designRepo, artistRepo: artistRepo, images: images, maxBytes: maxBytes}
}

// List returns public designs, optionally of a single artist.
func (s *DesignService) List(ctx context.Context, artistID *uuid.UUID) ([]model.Design, error) {
	designs, err := s.designRepo.ListPublic(ctx, artistID)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	return designs, nil
}

// ArtistFor returns the caller's artist profile, or ErrNotAnArtist when the
// caller has none.
func (s *DesignService) ArtistFor(ctx context.Context, userID uuid.UUID) (*model.Artist, error) {
	artist, err := s.artistRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}
	if artist == nil {
		return nil, ErrNotAnArtist
	}
	return artist, nil
}

// Upload stores the image and records the design for the caller's artist
// profile. Every check runs before anything is written.
func (s *DesignService) Upload(ctx context.Context, userID uuid.UUID, in NewDesign, file *UploadedFile) (*model.Design, error) {
	artist, err := s.ArtistFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if file == nil || file.Content == nil {
		return nil, ErrDesignFileMissing
	}

	ext := strings.ToLower(filepath.Ext(file.Name))
	contentType, ok := allowedImageTypes[ext]
	if !ok {
		return nil, ErrUnsupportedFileType
	}
	if file.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read design image: %w", err)
	}
	head = head[:n]
	if !contentMatches(contentType, head) {
		return nil, ErrUnsupportedFileType
	}

	name := uuid.NewString() + ext
	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), file.Content), s.maxBytes)
	url, err := s.images.Save(ctx, name, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("store design image: %w", err)
	}

	design := &model.Design{
		ArtistID:    artist.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		ImageURL:    url,
		Price:       in.Price.Round(2),
		Tags:        in.Tags,
		IsPublic:    in.IsPublic,
	}
	if err := s.designRepo.Create(ctx, design); err != nil {
		_ = s.images.Delete(ctx, name)
		return nil, fmt.Errorf("create design: %w", err)
	}
	return design, nil
}

func contentMatches(contentType string, head []byte) bool {
	if contentType == "image/svg+xml" {
		return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
	}
	return http.DetectContentType(head) == contentType
}

// ParseTags splits a comma separated tag list, dropping blanks and
// duplicates.
func ParseTags(raw string) []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

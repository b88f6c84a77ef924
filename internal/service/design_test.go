package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/printdrop/internal/model"
	"github.com/flicky/printdrop/internal/storage"
)

type mockDesignRepo struct {
	designs   map[uuid.UUID]*model.Design
	createErr error
}

func newMockDesignRepo() *mockDesignRepo {
	return &mockDesignRepo{designs: make(map[uuid.UUID]*model.Design)}
}

func (m *mockDesignRepo) add(d *model.Design) *model.Design {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	m.designs[d.ID] = d
	return d
}

func (m *mockDesignRepo) Create(_ context.Context, d *model.Design) error {
	if m.createErr != nil {
		return m.createErr
	}
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	m.designs[d.ID] = d
	return nil
}

func (m *mockDesignRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Design, error) {
	return m.designs[id], nil
}

func (m *mockDesignRepo) ListPublic(_ context.Context, artistID *uuid.UUID) ([]model.Design, error) {
	out := []model.Design{}
	for _, d := range m.designs {
		if !d.IsPublic || (artistID != nil && d.ArtistID != *artistID) {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (m *mockDesignRepo) IncrementDownloads(_ context.Context, counts map[uuid.UUID]int) error {
	for id, n := range counts {
		if d, ok := m.designs[id]; ok {
			d.DownloadCount += n
		}
	}
	return nil
}

type memStore struct {
	files map[string][]byte
}

func newMemStore() *memStore { return &memStore{files: make(map[string][]byte)} }

func (s *memStore) Save(_ context.Context, name, _ string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.files[name] = data
	return "/uploads/" + name, nil
}

func (s *memStore) Open(_ context.Context, name string) (io.ReadCloser, string, error) {
	data, ok := s.files[name]
	if !ok {
		return nil, "", storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), "application/octet-stream", nil
}

func (s *memStore) Delete(_ context.Context, name string) error {
	delete(s.files, name)
	return nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type designFixture struct {
	designs *mockDesignRepo
	artists *mockArtistRepo
	store   *memStore
	svc     *DesignService
	artist  *model.Artist
}

func newDesignFixture(maxBytes int64) *designFixture {
	f := &designFixture{designs: newMockDesignRepo(), artists: newMockArtistRepo(), store: newMemStore()}
	f.artist = f.artists.add(&model.Artist{UserID: uuid.New()})
	f.svc = NewDesignService(f.designs, f.artists, f.store, maxBytes)
	return f
}

func upload(name string, body []byte) *UploadedFile {
	return &UploadedFile{Name: name, Size: int64(len(body)), Content: bytes.NewReader(body)}
}

func TestDesignService_Upload(t *testing.T) {
	f := newDesignFixture(1 << 20)

	d, err := f.svc.Upload(context.Background(), f.artist.UserID, NewDesign{
		Title: " Wave ", Price: decimal.RequireFromString("4.5"), Tags: []string{"sea"}, IsPublic: true,
	}, upload("wave.PNG", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "Wave", d.Title)
	assert.Equal(t, f.artist.ID, d.ArtistID)
	assert.Equal(t, "4.50", d.Price.StringFixed(2))
	assert.Regexp(t, `^/uploads/[0-9a-f-]{36}\.png$`, d.ImageURL)
	assert.Len(t, f.store.files, 1)
}

func TestDesignService_Upload_SVG(t *testing.T) {
	f := newDesignFixture(1 << 20)
	svg := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"></svg>`)

	_, err := f.svc.Upload(context.Background(), f.artist.UserID, NewDesign{Title: "Logo"}, upload("logo.svg", svg))
	require.NoError(t, err)
}

func TestDesignService_Upload_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		userID  func(f *designFixture) uuid.UUID
		file    *UploadedFile
		maxSize int64
		wantErr error
	}{
		{"not an artist", func(*designFixture) uuid.UUID { return uuid.New() }, upload("a.png", pngHeader), 1 << 20, ErrNotAnArtist},
		{"missing file", nil, nil, 1 << 20, ErrDesignFileMissing},
		{"disallowed extension", nil, upload("a.gif", []byte("GIF89a")), 1 << 20, ErrUnsupportedFileType},
		{"content does not match extension", nil, upload("a.png", []byte("just text")), 1 << 20, ErrUnsupportedFileType},
		{"too large", nil, upload("a.png", pngHeader), 4, ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDesignFixture(tt.maxSize)
			userID := f.artist.UserID
			if tt.userID != nil {
				userID = tt.userID(f)
			}
			_, err := f.svc.Upload(context.Background(), userID, NewDesign{Title: "x"}, tt.file)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.designs.designs)
			assert.Empty(t, f.store.files)
		})
	}
}

func TestDesignService_Upload_RemovesFileWhenRowFails(t *testing.T) {
	f := newDesignFixture(1 << 20)
	f.designs.createErr = errors.New("db down")

	_, err := f.svc.Upload(context.Background(), f.artist.UserID, NewDesign{Title: "x"}, upload("a.png", pngHeader))
	require.Error(t, err)
	assert.Empty(t, f.store.files)
}

func TestDesignService_List(t *testing.T) {
	f := newDesignFixture(1 << 20)
	other := uuid.New()
	f.designs.add(&model.Design{ArtistID: f.artist.ID, IsPublic: true})
	f.designs.add(&model.Design{ArtistID: f.artist.ID, IsPublic: false})
	f.designs.add(&model.Design{ArtistID: other, IsPublic: true})

	all, err := f.svc.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.svc.List(context.Background(), &f.artist.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"sea", "blue"}, ParseTags(" Sea, blue,,sea "))
	assert.Equal(t, []string{}, ParseTags(""))
}

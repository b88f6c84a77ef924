// Package storage keeps uploaded design and portfolio images.
package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"strings"
)

var (
	ErrNotFound    = errors.New("image not found")
	ErrInvalidName = errors.New("invalid image name")
)

// ImageStore saves images under flat generated names. URLs returned by Save
// are served back through Open.
type ImageStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (url string, err error)
	Open(ctx context.Context, name string) (rc io.ReadCloser, contentType string, err error)
	Delete(ctx context.Context, name string) error
}

// cleanName rejects anything that is not a single visible path element.
// Dot-files are reserved for in-progress writes.
func cleanName(name string) (string, error) {
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) || path.Base(name) != name {
		return "", ErrInvalidName
	}
	return name, nil
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func publicURL(baseURL, name string) string {
	return strings.TrimRight(baseURL, "/") + "/" + name
}

package storage

import (
	"context"
	"io"
)

// ImageStore is the backend holding experience images. The API server
// writes originals; the image worker reads them back and writes
// optimized versions and thumbnails.
type ImageStore interface {
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

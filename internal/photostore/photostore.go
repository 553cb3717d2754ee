package photostore

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("photo not found")

// PhotoStore keeps the image bytes for scanned zone photos. Keys are opaque
// and scoped under the owner passed to Save.
type PhotoStore interface {
	Save(ctx context.Context, owner, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}

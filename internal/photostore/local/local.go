package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/vbonduro/pantrypal/internal/photostore"
)

var errTraversal = errors.New("path traversal attempt")

// extensions maps accepted photo MIME types to file extensions. Anything
// else is stored as JPEG.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// LocalPhotoStore writes photos to <root>/<owner>/<uuid><ext>. The storage key
// is the slash-separated path below root.
type LocalPhotoStore struct {
	root string
}

func NewLocalPhotoStore(basePath string) (*LocalPhotoStore, error) {
	root, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid photo directory: %w", err)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}
	return &LocalPhotoStore{root: root}, nil
}

// Save streams r into a temporary file in the owner's directory and renames
// it into place, so readers never see a partial photo.
func (s *LocalPhotoStore) Save(_ context.Context, owner, mimeType string, r io.Reader) (string, error) {
	ext, ok := extensions[mimeType]
	if !ok {
		ext = ".jpg"
	}
	key := path.Join(owner, uuid.NewString()+ext)
	dst, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create owner directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	// Removing after a successful rename fails harmlessly.
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}
	return key, nil
}

func (s *LocalPhotoStore) Get(_ context.Context, storageKey string) (io.ReadCloser, string, error) {
	p, err := s.resolve(storageKey)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", photostore.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	return f, mimeTypeOf(p), nil
}

func (s *LocalPhotoStore) Delete(_ context.Context, storageKey string) error {
	p, err := s.resolve(storageKey)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, os.ErrNotExist) {
		return photostore.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// resolve maps a storage key to an absolute path strictly inside root.
func (s *LocalPhotoStore) resolve(storageKey string) (string, error) {
	p := filepath.Join(s.root, filepath.FromSlash(storageKey))
	rel, err := filepath.Rel(s.root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errTraversal
	}
	return p, nil
}

func mimeTypeOf(p string) string {
	ext := strings.ToLower(filepath.Ext(p))
	for mime, e := range extensions {
		if e == ext {
			return mime
		}
	}
	return "image/jpeg"
}

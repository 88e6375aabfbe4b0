package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Upload constraints, enforced before any byte is written.
const (
	MaxUploadSize = 5 << 20 // 5 MiB
)

var (
	ErrNotAnImage  = errors.New("uploaded file must be an image")
	ErrTooLarge    = errors.New("uploaded file exceeds the 5MB limit")
	ErrInvalidPath = errors.New("invalid object path")
)

// BlobStore is the object-storage surface consumed by the upload handler:
// save a blob under a path, resolve the path to a public URL.
type BlobStore interface {
	Save(path string, data []byte) error
	PublicURL(path string) string
}

// DiskStore keeps blobs in a local directory served statically by the API.
type DiskStore struct {
	root    string
	baseURL string
}

func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &DiskStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskStore) Save(path string, data []byte) error {
	clean := filepath.Clean(path)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return ErrInvalidPath
	}

	full := filepath.Join(s.root, clean)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func (s *DiskStore) PublicURL(path string) string {
	return s.baseURL + "/" + filepath.ToSlash(filepath.Clean(path))
}

// Root returns the directory backing the store, for the static file mount.
func (s *DiskStore) Root() string {
	return s.root
}

// NewObjectPath builds a collision-resistant path for an uploaded product
// image, keeping the original file extension.
func NewObjectPath(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("products/%d-%s%s", time.Now().UnixMilli(), uuid.New().String()[:8], ext)
}

// ValidateImage checks content type and size ahead of any write.
func ValidateImage(contentType string, size int) error {
	if !strings.HasPrefix(contentType, "image/") {
		return ErrNotAnImage
	}
	if size > MaxUploadSize {
		return ErrTooLarge
	}
	return nil
}

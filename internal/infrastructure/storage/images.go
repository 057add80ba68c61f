// Package storage persists uploaded image blobs on the local filesystem.
package storage

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
)

// dataURLPattern matches the "data:image/<ext>;base64," prefix of an inline
// upload. The extension capture becomes the stored file's extension.
var dataURLPattern = regexp.MustCompile(`^data:image/(\w+);base64,`)

// ImageStore writes decoded image blobs under a single directory.
type ImageStore struct {
	dir string
}

// NewImageStore ensures dir exists and returns a store rooted there.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("image dir %q: %w", dir, err)
	}
	return &ImageStore{dir: dir}, nil
}

// Save decodes the data-url payload and writes it as <name>.<ext>, returning
// the stored filename. A payload without the base64 image prefix is a
// validation error.
func (s *ImageStore) Save(name, dataURL string) (string, error) {
	match := dataURLPattern.FindStringSubmatch(dataURL)
	if match == nil {
		return "", domain.ErrInvalidImage
	}

	raw, err := base64.StdEncoding.DecodeString(dataURL[len(match[0]):])
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}

	filename := fmt.Sprintf("%s.%s", name, match[1])
	if err := os.WriteFile(filepath.Join(s.dir, filename), raw, 0o644); err != nil {
		return "", fmt.Errorf("write image %q: %w", filename, err)
	}
	return filename, nil
}

// Remove deletes a stored image. A missing file is a no-op.
func (s *ImageStore) Remove(filename string) error {
	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image %q: %w", filename, err)
	}
	return nil
}

// Dir returns the root directory images are served from.
func (s *ImageStore) Dir() string {
	return s.dir
}

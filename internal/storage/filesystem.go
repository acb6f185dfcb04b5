package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"imagegenie/internal/domain"
)

// ImageSaver is implemented by imagegen.GeneratedImage.
type ImageSaver interface {
	Save(path string) error
}

// FileStore keeps generated images under a single directory, one
// `<created>.jpg` file per generation.
type FileStore struct {
	basePath string
}

// NewFileStore initializes a FileStore rooted at basePath, creating it if needed.
func NewFileStore(basePath string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// PathFor returns the file path used for the image created at ts.
func (s *FileStore) PathFor(created int64) string {
	return filepath.Join(s.basePath, strconv.FormatInt(created, 10)+".jpg")
}

// SaveImage writes img as `<created>.jpg`, replacing any earlier file with
// the same timestamp.
func (s *FileStore) SaveImage(ctx context.Context, created int64, img ImageSaver) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := s.PathFor(created)
	if err := img.Save(path); err != nil {
		return "", fmt.Errorf("storage: save image: %w", err)
	}
	return path, nil
}

// Delete removes the image created at ts. A missing file is not an error.
func (s *FileStore) Delete(ctx context.Context, created int64) error {
	if s == nil {
		return errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return RemoveFile(s.PathFor(created))
}

// Exists reports whether an image for ts is on disk.
func (s *FileStore) Exists(created int64) bool {
	info, err := os.Stat(s.PathFor(created))
	return err == nil && !info.IsDir()
}

// Open returns a reader for the image created at ts. A missing file maps to
// domain.ErrNotFound.
func (s *FileStore) Open(created int64) (*os.File, error) {
	f, err := os.Open(s.PathFor(created))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrIOFailure, err)
	}
	return f, nil
}

// RemoveFile deletes path if it exists.
func RemoveFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %w", domain.ErrIOFailure, err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", domain.ErrIOFailure, err)
	}
	return nil
}

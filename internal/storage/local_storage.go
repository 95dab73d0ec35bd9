package storage

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage reads and writes frames below a root directory
type LocalStorage struct {
	root      string
	maxPixels int64
}

// NewLocalStorage creates the root directory if it does not exist
func NewLocalStorage(root string) (*LocalStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &LocalStorage{root: abs}, nil
}

// Root returns the absolute storage directory
func (s *LocalStorage) Root() string {
	return s.root
}

// SetMaxPixels caps the declared size of fetched images
func (s *LocalStorage) SetMaxPixels(n int64) {
	if n >= 0 {
		s.maxPixels = n
	}
}

// FetchImage decodes the file at location, relative to the root
func (s *LocalStorage) FetchImage(ctx context.Context, location string) (image.Image, error) {
	path, err := s.resolve(location)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
		}
		return nil, fmt.Errorf("failed to open %s: %w", location, err)
	}
	defer f.Close()

	img, _, err := DecodeImageLimited(f, s.maxPixels)
	return img, err
}

// Store writes data to name below the root, replacing any existing file
func (s *LocalStorage) Store(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path, nil
}

// resolve maps a relative location onto a path that cannot escape the root
func (s *LocalStorage) resolve(location string) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidLocation)
	}
	if filepath.IsAbs(location) {
		return "", fmt.Errorf("%w: absolute paths are not allowed: %s", ErrInvalidLocation, location)
	}
	path := filepath.Join(s.root, filepath.Clean(location))
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: path escapes storage root: %s", ErrInvalidLocation, location)
	}
	return path, nil
}

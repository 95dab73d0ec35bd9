package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrNotFound is returned when a location does not resolve to an object
	ErrNotFound = errors.New("object not found")

	// ErrInvalidLocation is returned for locations a backend cannot address
	ErrInvalidLocation = errors.New("invalid location")

	// ErrStoreUnsupported is returned by read-only backends
	ErrStoreUnsupported = errors.New("backend does not accept writes")

	// ErrUnsupportedFormat is returned when no registered decoder matches
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrTooManyPixels is returned when an image header declares a size
	// above the configured pixel limit
	ErrTooManyPixels = errors.New("image exceeds pixel limit")
)

// ImageFetcher loads a source image from a backend specific location
type ImageFetcher interface {
	FetchImage(ctx context.Context, location string) (image.Image, error)
}

// ResultStore persists an encoded transform result and returns where it went
type ResultStore interface {
	Store(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// Backend is a frame source that may also accept results
type Backend interface {
	ImageFetcher
	ResultStore
}

// PixelLimiter is implemented by backends that reject oversized sources
// before decoding them. Zero disables the limit.
type PixelLimiter interface {
	SetMaxPixels(n int64)
}

// DecodeImage decodes any registered format: PNG, JPEG, GIF, BMP, TIFF, WebP
func DecodeImage(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", ErrUnsupportedFormat
		}
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// DecodeImageLimited reads the image header first and fails with
// ErrTooManyPixels when it declares more than maxPixels, so the raster is
// never allocated. maxPixels of zero decodes without a limit.
func DecodeImageLimited(r io.Reader, maxPixels int64) (image.Image, string, error) {
	if maxPixels <= 0 {
		return DecodeImage(r)
	}

	var header bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &header))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", ErrUnsupportedFormat
		}
		return nil, "", fmt.Errorf("failed to read image header: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d is above %d pixels", ErrTooManyPixels, cfg.Width, cfg.Height, maxPixels)
	}
	return DecodeImage(io.MultiReader(&header, r))
}

// ReadImageFile decodes an image file from disk
func ReadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	img, _, err := DecodeImage(f)
	return img, err
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "go-frame-filters/internal/errors"
	"go-frame-filters/internal/frame"
	"go-frame-filters/internal/storage"
)

// StorageFrameRepository implements FrameRepository on a storage backend
type StorageFrameRepository struct {
	backend   storage.Backend
	maxPixels int64
}

// NewStorageFrameRepository creates a repository. maxPixels of zero disables
// the source size cap. Backends implementing storage.PixelLimiter get the cap
// too and reject oversized sources from their headers.
func NewStorageFrameRepository(backend storage.Backend, maxPixels int64) FrameRepository {
	if limiter, ok := backend.(storage.PixelLimiter); ok && maxPixels > 0 {
		limiter.SetMaxPixels(maxPixels)
	}
	return &StorageFrameRepository{
		backend:   backend,
		maxPixels: maxPixels,
	}
}

// LoadFrame retrieves an image and converts it to a frame
func (r *StorageFrameRepository) LoadFrame(ctx context.Context, location string) (*frame.Frame, error) {
	if strings.TrimSpace(location) == "" {
		return nil, apperrors.NewValidationError("frame location is required", ErrEmptyLocation)
	}

	img, err := r.backend.FetchImage(ctx, location)
	if err != nil {
		return nil, classifyStorageError("failed to load frame", err)
	}

	b := img.Bounds()
	if r.maxPixels > 0 && int64(b.Dx())*int64(b.Dy()) > r.maxPixels {
		return nil, apperrors.NewInvalidDimensionsError(
			fmt.Sprintf("source is %dx%d, limit is %d pixels", b.Dx(), b.Dy(), r.maxPixels)).
			WithDetails("%v", ErrFrameTooLarge)
	}
	return frame.FromImage(img), nil
}

// SaveResult encodes and stores a result frame
func (r *StorageFrameRepository) SaveResult(ctx context.Context, name string, f *frame.Frame, format frame.Format) (*StoredResult, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("result name is required", ErrEmptyLocation)
	}
	data, err := frame.EncodeAs(f, format)
	if err != nil {
		return nil, err
	}

	location, err := r.backend.Store(ctx, name, data, format.ContentType())
	if err != nil {
		return nil, classifyStorageError("failed to store result", err)
	}
	return &StoredResult{
		Location:    location,
		ContentType: format.ContentType(),
		Size:        len(data),
	}, nil
}

func classifyStorageError(message string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError(message, err)
	case errors.Is(err, context.Canceled):
		return apperrors.NewTimeoutError(message, err).WithDetails("request cancelled")
	case errors.Is(err, storage.ErrTooManyPixels):
		return apperrors.NewInvalidDimensionsError(err.Error()).WithDetails("%v", ErrFrameTooLarge)
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.NewNotFoundError(message, err)
	case errors.Is(err, storage.ErrInvalidLocation):
		return apperrors.NewValidationError(message, err)
	case errors.Is(err, storage.ErrUnsupportedFormat):
		return apperrors.NewValidationError(message, err)
	case errors.Is(err, storage.ErrStoreUnsupported):
		return apperrors.NewValidationError(message, err).WithDetails("configured storage is read-only")
	default:
		return apperrors.NewNetworkError(message, err)
	}
}

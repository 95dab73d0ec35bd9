package repository

import (
	"context"

	"go-frame-filters/internal/frame"
)

// FrameRepository defines data access for source frames and transform results
type FrameRepository interface {
	// LoadFrame fetches and decodes the image at location into a BGR frame
	LoadFrame(ctx context.Context, location string) (*frame.Frame, error)

	// SaveResult encodes f and stores it under name, returning where it was written
	SaveResult(ctx context.Context, name string, f *frame.Frame, format frame.Format) (*StoredResult, error)
}

// StoredResult describes a persisted transform result
type StoredResult struct {
	Location    string
	ContentType string
	Size        int
}

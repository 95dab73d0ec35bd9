package repository

import "errors"

var (
	// ErrEmptyLocation indicates a load or save without a location
	ErrEmptyLocation = errors.New("empty frame location")

	// ErrFrameTooLarge indicates a decoded source exceeds the pixel cap
	ErrFrameTooLarge = errors.New("frame exceeds pixel limit")
)

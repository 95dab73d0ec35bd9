// Package filter implements the pixel transforms applied to BGR frames:
// greyscale variants, sepia, vignette and the 5x5 Gaussian blurs.
//
// Every transform validates its input, leaves it untouched and returns a
// freshly allocated frame of the same shape.
package filter

import (
	"fmt"

	apperrors "go-frame-filters/internal/errors"
	"go-frame-filters/internal/frame"
)

// Processor runs transforms with a fixed set of options. It holds no
// mutable state and is safe for concurrent use.
type Processor struct {
	opts Options
}

// NewProcessor creates a processor with the given options
func NewProcessor(opts Options) *Processor {
	return &Processor{opts: opts}
}

// Options returns the processor configuration
func (p *Processor) Options() Options {
	return p.opts
}

var defaultProcessor = NewProcessor(DefaultOptions())

// CustomGreyscale runs Processor.CustomGreyscale with default options.
func CustomGreyscale(src *frame.Frame) (*frame.Frame, error) {
	return defaultProcessor.CustomGreyscale(src)
}

// Greyscale runs Processor.Greyscale with default options.
func Greyscale(src *frame.Frame) (*frame.Frame, error) {
	return defaultProcessor.Greyscale(src)
}

// Sepia runs Processor.Sepia with default options.
func Sepia(src *frame.Frame) (*frame.Frame, error) {
	return defaultProcessor.Sepia(src)
}

// Vignette runs Processor.Vignette with default options.
func Vignette(src *frame.Frame, intensity float64) (*frame.Frame, error) {
	return defaultProcessor.Vignette(src, intensity)
}

// Blur5x5 runs Processor.Blur5x5 with default options.
func Blur5x5(src *frame.Frame) (*frame.Frame, error) {
	return defaultProcessor.Blur5x5(src)
}

// Blur5x5Separable runs Processor.Blur5x5Separable with default options.
func Blur5x5Separable(src *frame.Frame) (*frame.Frame, error) {
	return defaultProcessor.Blur5x5Separable(src)
}

func requireBlurShape(src *frame.Frame) error {
	if err := src.Validate(); err != nil {
		return err
	}
	if src.Rows < KernelSize || src.Cols < KernelSize {
		return apperrors.NewInvalidDimensionsError(
			fmt.Sprintf("blur needs at least %dx%d pixels, got %dx%d", KernelSize, KernelSize, src.Rows, src.Cols))
	}
	return nil
}

func clampToUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

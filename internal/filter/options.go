package filter

import (
	"fmt"
	"runtime"
	"strings"

	apperrors "go-frame-filters/internal/errors"
)

// BorderPolicy decides what the separable blur writes into the 2-pixel
// margin it cannot convolve.
type BorderPolicy int

const (
	// BorderZero leaves the margin black.
	BorderZero BorderPolicy = iota
	// BorderCopy keeps the source samples, like the naive blur.
	BorderCopy
)

func (b BorderPolicy) String() string {
	switch b {
	case BorderZero:
		return "zero"
	case BorderCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// ParseBorderPolicy resolves "zero" or "copy"; an empty name means BorderZero.
func ParseBorderPolicy(name string) (BorderPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "zero":
		return BorderZero, nil
	case "copy":
		return BorderCopy, nil
	default:
		return BorderZero, apperrors.NewValidationError(fmt.Sprintf("unknown border policy %q", name), nil)
	}
}

// Options configures a Processor
type Options struct {
	// VignetteIntensity scales the Gaussian sigma of the vignette mask
	// relative to each frame dimension. Applies to ModeVignette.
	VignetteIntensity float64

	// SeparableBorder selects the margin policy of the separable blur.
	SeparableBorder BorderPolicy

	// Workers caps the goroutines used per transform. Zero means NumCPU,
	// one runs every loop on the calling goroutine.
	Workers int
}

// DefaultOptions returns default processor options
func DefaultOptions() Options {
	return Options{
		VignetteIntensity: DefaultVignetteIntensity,
		SeparableBorder:   BorderZero,
		Workers:           0,
	}
}

// WithVignetteIntensity returns options with a different vignette intensity
func (opts Options) WithVignetteIntensity(intensity float64) Options {
	opts.VignetteIntensity = intensity
	return opts
}

// WithBorder returns options with the given separable border policy
func (opts Options) WithBorder(policy BorderPolicy) Options {
	opts.SeparableBorder = policy
	return opts
}

// WithWorkers returns options with a fixed worker count
func (opts Options) WithWorkers(workers int) Options {
	opts.Workers = workers
	return opts
}

func (opts Options) workerCount() int {
	if opts.Workers <= 0 {
		return runtime.NumCPU()
	}
	return opts.Workers
}

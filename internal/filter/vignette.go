package filter

import (
	"fmt"
	"math"

	apperrors "go-frame-filters/internal/errors"
	"go-frame-filters/internal/frame"

	"gonum.org/v1/gonum/mat"
)

// DefaultVignetteIntensity is used when no intensity is configured.
const DefaultVignetteIntensity = 0.5

// VignetteMask holds one multiplier in [0, 1] per pixel. The brightest
// point is exactly 1.
type VignetteMask struct {
	m *mat.Dense
}

// NewVignetteMask builds the mask for a rows x cols frame.
//
// Each axis gets a Gaussian of standard deviation dimension*intensity and the
// mask is their outer product divided by its maximum. A larger intensity
// widens the Gaussian, so the falloff is flatter and the corners stay
// brighter: intensity 0.2 darkens the edges heavily, intensity 1 barely.
func NewVignetteMask(rows, cols int, intensity float64) (*VignetteMask, error) {
	if err := ValidateVignetteIntensity(intensity); err != nil {
		return nil, err
	}
	if rows <= 0 || cols <= 0 {
		return nil, apperrors.NewInvalidDimensionsError(
			fmt.Sprintf("vignette mask needs a non-empty frame, got %dx%d", rows, cols))
	}

	ky := gaussianKernel(rows, float64(rows)*intensity)
	kx := gaussianKernel(cols, float64(cols)*intensity)

	m := mat.NewDense(rows, cols, nil)
	m.Outer(1, ky, kx)
	// the peak divided by itself is exactly 1
	peak := mat.Max(m)
	raw := m.RawMatrix()
	for i := range raw.Data {
		raw.Data[i] /= peak
	}
	return &VignetteMask{m: m}, nil
}

// ValidateVignetteIntensity rejects zero, negative, NaN and infinite values.
func ValidateVignetteIntensity(intensity float64) error {
	if !(intensity > 0) || math.IsInf(intensity, 1) {
		return apperrors.NewInvalidParameterError(
			fmt.Sprintf("vignette intensity must be a finite value > 0, got %v", intensity))
	}
	return nil
}

// gaussianKernel returns n samples of a Gaussian centred at (n-1)/2, scaled
// so the sample nearest the centre is exactly 1. Far samples may underflow to
// 0 for small sigma; the peak never does.
func gaussianKernel(n int, sigma float64) *mat.VecDense {
	v := mat.NewVecDense(n, nil)
	center := float64(n-1) / 2
	scale := -0.5 / (sigma * sigma)
	nearest := center - math.Floor(center) // 0 for odd n, 0.5 for even
	for i := 0; i < n; i++ {
		d := float64(i) - center
		v.SetVec(i, math.Exp(scale*(d*d-nearest*nearest)))
	}
	return v
}

// Dims returns the mask shape.
func (vm *VignetteMask) Dims() (rows, cols int) {
	return vm.m.Dims()
}

// At returns the multiplier for row y, column x.
func (vm *VignetteMask) At(y, x int) float64 {
	return vm.m.At(y, x)
}

// Max returns the largest multiplier.
func (vm *VignetteMask) Max() float64 {
	return mat.Max(vm.m)
}

// Apply multiplies every channel of src by the mask value at its position
// and truncates to 8 bits. The mask must match the frame shape.
func (vm *VignetteMask) Apply(src *frame.Frame, workers int) (*frame.Frame, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	rows, cols := vm.Dims()
	if rows != src.Rows || cols != src.Cols {
		return nil, apperrors.NewInvalidDimensionsError(
			fmt.Sprintf("mask is %dx%d but frame is %dx%d", rows, cols, src.Rows, src.Cols))
	}

	dst := frame.New(src.Rows, src.Cols)
	forRows(0, src.Rows, workers, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			weights := vm.m.RawRowView(y)
			i := y * src.Stride()
			for x := 0; x < src.Cols; x++ {
				w := weights[x]
				dst.Pix[i] = uint8(float64(src.Pix[i]) * w)
				dst.Pix[i+1] = uint8(float64(src.Pix[i+1]) * w)
				dst.Pix[i+2] = uint8(float64(src.Pix[i+2]) * w)
				i += frame.Channels
			}
		}
	})
	return dst, nil
}

// Vignette darkens src towards its edges. The mask is rebuilt on every call
// from the frame dimensions and intensity.
func (p *Processor) Vignette(src *frame.Frame, intensity float64) (*frame.Frame, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if src.Rows == 0 || src.Cols == 0 {
		if err := ValidateVignetteIntensity(intensity); err != nil {
			return nil, err
		}
		return src.Clone(), nil
	}
	mask, err := NewVignetteMask(src.Rows, src.Cols, intensity)
	if err != nil {
		return nil, err
	}
	return mask.Apply(src, p.opts.workerCount())
}

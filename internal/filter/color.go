package filter

import (
	"math"

	"go-frame-filters/internal/frame"
)

// ColorMatrix mixes channels per pixel. Rows are output channels and
// columns input channels, both in B, G, R order.
type ColorMatrix [3][3]float64

// SepiaMatrix is the classic sepia tone:
//
//	R' = 0.393 R + 0.769 G + 0.189 B
//	G' = 0.349 R + 0.686 G + 0.168 B
//	B' = 0.272 R + 0.534 G + 0.131 B
//
// Rows sum above 1, so bright input saturates.
var SepiaMatrix = ColorMatrix{
	{0.131, 0.534, 0.272},
	{0.168, 0.686, 0.349},
	{0.189, 0.769, 0.393},
}

// Custom greyscale weights in tenths. They add up to 1.1.
const (
	customWeightB = 2
	customWeightG = 5
	customWeightR = 4
)

// CustomGreyscale computes 255 - (0.2 B + 0.5 G + 0.4 R) per pixel, clamps
// it to [0, 255], truncates and writes it to all three channels. The result
// is an inverted luma image.
func (p *Processor) CustomGreyscale(src *frame.Frame) (*frame.Frame, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	dst := frame.New(src.Rows, src.Cols)
	forRows(0, src.Rows, p.opts.workerCount(), func(y0, y1 int) {
		for i := y0 * src.Stride(); i < y1*src.Stride(); i += frame.Channels {
			// tenths keep the arithmetic exact
			v := 2550 - (customWeightB*int(src.Pix[i]) + customWeightG*int(src.Pix[i+1]) + customWeightR*int(src.Pix[i+2]))
			if v < 0 {
				v = 0
			}
			g := uint8(v / 10)
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = g, g, g
		}
	})
	return dst, nil
}

// BT.601 luma in 14-bit fixed point, matching the common BGR2GRAY conversion.
const (
	lumaShift = 14
	lumaR     = 4899
	lumaG     = 9617
	lumaB     = 1868
)

// Greyscale converts to standard luma Y = 0.299 R + 0.587 G + 0.114 B,
// rounded, and replicates it into all three channels.
func (p *Processor) Greyscale(src *frame.Frame) (*frame.Frame, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	dst := frame.New(src.Rows, src.Cols)
	forRows(0, src.Rows, p.opts.workerCount(), func(y0, y1 int) {
		for i := y0 * src.Stride(); i < y1*src.Stride(); i += frame.Channels {
			y := (lumaB*int(src.Pix[i]) + lumaG*int(src.Pix[i+1]) + lumaR*int(src.Pix[i+2]) + 1<<(lumaShift-1)) >> lumaShift
			g := uint8(y)
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = g, g, g
		}
	})
	return dst, nil
}

// Sepia applies SepiaMatrix to every pixel.
func (p *Processor) Sepia(src *frame.Frame) (*frame.Frame, error) {
	return p.Transform(src, SepiaMatrix)
}

// Transform multiplies every pixel by m. Results are rounded to the nearest
// integer and saturated to [0, 255].
func (p *Processor) Transform(src *frame.Frame, m ColorMatrix) (*frame.Frame, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	dst := frame.New(src.Rows, src.Cols)
	forRows(0, src.Rows, p.opts.workerCount(), func(y0, y1 int) {
		for i := y0 * src.Stride(); i < y1*src.Stride(); i += frame.Channels {
			b, g, r := float64(src.Pix[i]), float64(src.Pix[i+1]), float64(src.Pix[i+2])
			for c := 0; c < frame.Channels; c++ {
				v := m[c][0]*b + m[c][1]*g + m[c][2]*r
				dst.Pix[i+c] = clampToUint8(math.Round(v))
			}
		}
	})
	return dst, nil
}

// Identity returns an unmodified copy of src.
func (p *Processor) Identity(src *frame.Frame) (*frame.Frame, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	return src.Clone(), nil
}

package filter

import (
	"go-frame-filters/internal/frame"

	"gonum.org/v1/gonum/stat"
)

// Stats summarises a frame. Means are in sample units [0, 255].
type Stats struct {
	MeanB      float64
	MeanG      float64
	MeanR      float64
	MeanLuma   float64
	LumaStdDev float64
	// Sharpness is the variance of the 4-neighbour Laplacian of the luma
	// plane; blurring lowers it. Zero for frames under 3x3.
	Sharpness float64
}

// FrameStats computes channel means, luma spread and sharpness of f
func FrameStats(f *frame.Frame) (Stats, error) {
	if err := f.Validate(); err != nil {
		return Stats{}, err
	}
	n := f.Rows * f.Cols
	if n == 0 {
		return Stats{}, nil
	}

	luma := make([]float64, n)
	var sumB, sumG, sumR float64
	for i := 0; i < n; i++ {
		b := float64(f.Pix[i*frame.Channels])
		g := float64(f.Pix[i*frame.Channels+1])
		r := float64(f.Pix[i*frame.Channels+2])
		sumB += b
		sumG += g
		sumR += r
		luma[i] = 0.114*b + 0.587*g + 0.299*r
	}

	s := Stats{
		MeanB: sumB / float64(n),
		MeanG: sumG / float64(n),
		MeanR: sumR / float64(n),
	}
	s.MeanLuma, s.LumaStdDev = stat.PopMeanStdDev(luma, nil)

	if f.Rows >= 3 && f.Cols >= 3 {
		lap := make([]float64, 0, (f.Rows-2)*(f.Cols-2))
		for y := 1; y < f.Rows-1; y++ {
			for x := 1; x < f.Cols-1; x++ {
				i := y*f.Cols + x
				lap = append(lap, luma[i-f.Cols]+luma[i+f.Cols]+luma[i-1]+luma[i+1]-4*luma[i])
			}
		}
		s.Sharpness = stat.Variance(lap, nil)
	}
	return s, nil
}

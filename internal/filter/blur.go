package filter

import "go-frame-filters/internal/frame"

// Blur5x5 convolves src with Gaussian5x5 directly, 25 multiply-adds per
// sample. Pixels within kernelRadius of any edge keep their source value.
// The weighted sum is computed in integers and truncated.
func (p *Processor) Blur5x5(src *frame.Frame) (*frame.Frame, error) {
	if err := requireBlurShape(src); err != nil {
		return nil, err
	}
	return convolve2D(src, Gaussian5x5, p.opts.workerCount()), nil
}

func convolve2D(src *frame.Frame, k Kernel2D, workers int) *frame.Frame {
	dst := src.Clone()
	stride := src.Stride()
	sum := k.Sum()

	forRows(kernelRadius, src.Rows-kernelRadius, workers, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := kernelRadius; x < src.Cols-kernelRadius; x++ {
				var acc [frame.Channels]int
				for dy := -kernelRadius; dy <= kernelRadius; dy++ {
					row := (y + dy) * stride
					for dx := -kernelRadius; dx <= kernelRadius; dx++ {
						w := k.Weight(dy, dx)
						i := row + (x+dx)*frame.Channels
						acc[0] += int(src.Pix[i]) * w
						acc[1] += int(src.Pix[i+1]) * w
						acc[2] += int(src.Pix[i+2]) * w
					}
				}
				o := y*stride + x*frame.Channels
				for c := 0; c < frame.Channels; c++ {
					v := acc[c] / sum
					if v > 255 {
						v = 255
					}
					dst.Pix[o+c] = uint8(v)
				}
			}
		}
	})
	return dst
}

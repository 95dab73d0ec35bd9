package filter

// KernelSize is the width and height of both blur kernels.
const KernelSize = 5

// kernelRadius is also the untouched border width of the blurs.
const kernelRadius = KernelSize / 2

// Kernel1D is an immutable integer weight vector. Convolution divides the
// weighted sum by Sum, so the effective weights always add up to 1.
type Kernel1D struct {
	weights [KernelSize]int
	sum     int
}

// NewKernel1D builds a vector kernel normalized by the sum of its weights.
func NewKernel1D(weights [KernelSize]int) Kernel1D {
	k := Kernel1D{weights: weights}
	for _, w := range weights {
		k.sum += w
	}
	return k
}

// Weight returns the raw weight at offset i in [-2, 2].
func (k Kernel1D) Weight(i int) int { return k.weights[i+kernelRadius] }

// Sum is the normalization divisor.
func (k Kernel1D) Sum() int { return k.sum }

// Normalized returns weights divided by Sum.
func (k Kernel1D) Normalized() [KernelSize]float64 {
	var out [KernelSize]float64
	for i, w := range k.weights {
		out[i] = float64(w) / float64(k.sum)
	}
	return out
}

// Outer returns the 2D kernel k^T * k.
func (k Kernel1D) Outer() Kernel2D {
	var w [KernelSize][KernelSize]int
	for y := range k.weights {
		for x := range k.weights {
			w[y][x] = k.weights[y] * k.weights[x]
		}
	}
	return NewKernel2D(w)
}

// Kernel2D is an immutable integer weight matrix normalized by its sum.
type Kernel2D struct {
	weights [KernelSize][KernelSize]int
	sum     int
}

// NewKernel2D builds a matrix kernel normalized by the sum of its weights.
func NewKernel2D(weights [KernelSize][KernelSize]int) Kernel2D {
	k := Kernel2D{weights: weights}
	for _, row := range weights {
		for _, w := range row {
			k.sum += w
		}
	}
	return k
}

// Weight returns the raw weight at offset (dy, dx), each in [-2, 2].
func (k Kernel2D) Weight(dy, dx int) int { return k.weights[dy+kernelRadius][dx+kernelRadius] }

// Sum is the normalization divisor.
func (k Kernel2D) Sum() int { return k.sum }

// Normalized returns weights divided by Sum.
func (k Kernel2D) Normalized() [KernelSize][KernelSize]float64 {
	var out [KernelSize][KernelSize]float64
	for y, row := range k.weights {
		for x, w := range row {
			out[y][x] = float64(w) / float64(k.sum)
		}
	}
	return out
}

var (
	// Gaussian5 is the separable vector [1 2 4 2 1] / 10.
	Gaussian5 = NewKernel1D([KernelSize]int{1, 2, 4, 2, 1})

	// Gaussian5x5 is the outer product of Gaussian5 with itself; it sums to 100.
	Gaussian5x5 = NewKernel2D([KernelSize][KernelSize]int{
		{1, 2, 4, 2, 1},
		{2, 4, 8, 4, 2},
		{4, 8, 16, 8, 4},
		{2, 4, 8, 4, 2},
		{1, 2, 4, 2, 1},
	})
)

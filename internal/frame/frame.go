// Package frame holds the in-memory BGR frame every filter reads and writes.
package frame

import (
	"image"
	"image/color"

	apperrors "go-frame-filters/internal/errors"

	xdraw "golang.org/x/image/draw"
)

// Channels is the fixed sample count per pixel, ordered B, G, R.
const Channels = 3

// Frame is a rows x cols x 3 buffer of 8-bit samples in BGR order.
// Pix is row-major with a stride of Cols*Channels.
type Frame struct {
	Rows int
	Cols int
	Pix  []uint8
}

// New allocates a zeroed frame.
func New(rows, cols int) *Frame {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Frame{
		Rows: rows,
		Cols: cols,
		Pix:  make([]uint8, rows*cols*Channels),
	}
}

// Solid returns a frame with every pixel set to (b, g, r).
func Solid(rows, cols int, b, g, r uint8) *Frame {
	f := New(rows, cols)
	for i := 0; i < len(f.Pix); i += Channels {
		f.Pix[i] = b
		f.Pix[i+1] = g
		f.Pix[i+2] = r
	}
	return f
}

// FromBytes copies raw interleaved samples into a new frame. Layouts other
// than 3 channels are rejected.
func FromBytes(rows, cols, channels int, pix []byte) (*Frame, error) {
	if channels != Channels {
		return nil, apperrors.NewUnsupportedChannelsError(channels)
	}
	if rows < 0 || cols < 0 {
		return nil, apperrors.NewInvalidDimensionsError("negative frame dimensions")
	}
	if len(pix) != rows*cols*Channels {
		return nil, apperrors.NewValidationError("sample count does not match frame shape", nil).
			WithDetails("want %d bytes for %dx%d, got %d", rows*cols*Channels, rows, cols, len(pix))
	}
	f := New(rows, cols)
	copy(f.Pix, pix)
	return f, nil
}

// FromImage converts any image into a BGR frame. Alpha is dropped.
func FromImage(img image.Image) *Frame {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)

	f := New(b.Dy(), b.Dx())
	for y := 0; y < f.Rows; y++ {
		src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+f.Cols*4]
		dst := f.Pix[y*f.Stride() : (y+1)*f.Stride()]
		for x := 0; x < f.Cols; x++ {
			dst[x*3] = src[x*4+2]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4]
		}
	}
	return f
}

// ToRGBA returns an opaque RGBA copy of the frame.
func (f *Frame) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, f.Cols, f.Rows))
	for y := 0; y < f.Rows; y++ {
		src := f.Pix[y*f.Stride() : (y+1)*f.Stride()]
		dst := out.Pix[y*out.Stride : y*out.Stride+f.Cols*4]
		for x := 0; x < f.Cols; x++ {
			dst[x*4] = src[x*3+2]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3]
			dst[x*4+3] = 0xFF
		}
	}
	return out
}

// Stride is the byte length of one row.
func (f *Frame) Stride() int {
	return f.Cols * Channels
}

// Offset returns the index of the B sample of pixel (y, x).
func (f *Frame) Offset(y, x int) int {
	return y*f.Stride() + x*Channels
}

// Pixel returns the B, G, R samples at row y, column x.
func (f *Frame) Pixel(y, x int) (b, g, r uint8) {
	i := f.Offset(y, x)
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// SetPixel stores B, G, R samples at row y, column x.
func (f *Frame) SetPixel(y, x int, b, g, r uint8) {
	i := f.Offset(y, x)
	f.Pix[i] = b
	f.Pix[i+1] = g
	f.Pix[i+2] = r
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	out := &Frame{Rows: f.Rows, Cols: f.Cols, Pix: make([]uint8, len(f.Pix))}
	copy(out.Pix, f.Pix)
	return out
}

// SameShape reports whether both frames have identical dimensions.
func (f *Frame) SameShape(o *Frame) bool {
	return o != nil && f.Rows == o.Rows && f.Cols == o.Cols && len(f.Pix) == len(o.Pix)
}

// Validate checks the buffer length against the declared shape.
func (f *Frame) Validate() error {
	if f == nil {
		return apperrors.NewValidationError("nil frame", nil)
	}
	if f.Rows < 0 || f.Cols < 0 {
		return apperrors.NewInvalidDimensionsError("negative frame dimensions")
	}
	if len(f.Pix) != f.Rows*f.Cols*Channels {
		if f.Rows*f.Cols > 0 && len(f.Pix)%(f.Rows*f.Cols) == 0 {
			return apperrors.NewUnsupportedChannelsError(len(f.Pix) / (f.Rows * f.Cols))
		}
		return apperrors.NewValidationError("sample count does not match frame shape", nil)
	}
	return nil
}

// ColorModel reports RGBA so a Frame can be handed to image encoders directly.
func (f *Frame) ColorModel() color.Model { return color.RGBAModel }

// Bounds returns the frame rectangle with Cols as width and Rows as height.
func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, f.Cols, f.Rows) }

// At returns the pixel at column x, row y as opaque RGBA. Out of range
// coordinates give transparent black.
func (f *Frame) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= f.Cols || y >= f.Rows {
		return color.RGBA{}
	}
	b, g, r := f.Pixel(y, x)
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

package viewer

import (
	"fmt"
	"image"
	"strings"

	"go-frame-filters/internal/frame"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"
)

const halfBlock = "▀"

// fitSize scales rows x cols to fit width cells by height cells, where each
// cell shows two pixel rows. The aspect ratio is kept.
func fitSize(rows, cols, width, height int) (outRows, outCols int) {
	if rows <= 0 || cols <= 0 || width <= 0 || height <= 0 {
		return 0, 0
	}
	maxRows := height * 2
	outCols = width
	outRows = rows * width / cols
	if outRows > maxRows {
		outRows = maxRows
		outCols = cols * maxRows / rows
	}
	if outCols < 1 {
		outCols = 1
	}
	if outRows < 1 {
		outRows = 1
	}
	return outRows, outCols
}

// Render draws f into at most width x height terminal cells using the upper
// half block, foreground for the even pixel row and background for the odd.
func Render(f *frame.Frame, width, height int) string {
	rows, cols := fitSize(f.Rows, f.Cols, width, height)
	if rows == 0 {
		return ""
	}

	scaled := image.NewRGBA(image.Rect(0, 0, cols, rows))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), f.ToRGBA(), image.Rect(0, 0, f.Cols, f.Rows), xdraw.Src, nil)

	var sb strings.Builder
	for y := 0; y < rows; y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < cols; x++ {
			style := lipgloss.NewStyle().Foreground(pixelColor(scaled, x, y))
			if y+1 < rows {
				style = style.Background(pixelColor(scaled, x, y+1))
			}
			sb.WriteString(style.Render(halfBlock))
		}
	}
	return sb.String()
}

func pixelColor(img *image.RGBA, x, y int) lipgloss.Color {
	c := img.RGBAAt(x, y)
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

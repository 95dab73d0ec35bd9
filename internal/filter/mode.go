package filter

import (
	"fmt"
	"strings"

	apperrors "go-frame-filters/internal/errors"
	"go-frame-filters/internal/frame"
)

// Mode identifies one transform of the closed set a display loop can select.
type Mode int

const (
	ModeColor Mode = iota
	ModeSepia
	ModeVignette
	ModeGreyscale
	ModeCustomGreyscale
	ModeBlur
	ModeBlurNaive
	modeCount
)

var modeNames = [modeCount]string{
	ModeColor:           "color",
	ModeSepia:           "sepia",
	ModeVignette:        "vignette",
	ModeGreyscale:       "greyscale",
	ModeCustomGreyscale: "custom_greyscale",
	ModeBlur:            "blur",
	ModeBlurNaive:       "blur_naive",
}

var modeKeys = [modeCount]rune{
	ModeColor:           0,
	ModeSepia:           's',
	ModeVignette:        'v',
	ModeGreyscale:       'g',
	ModeCustomGreyscale: 'h',
	ModeBlur:            'b',
	ModeBlurNaive:       'n',
}

// QuitKey ends an interactive loop.
const QuitKey = 'q'

func (m Mode) String() string {
	if m < 0 || m >= modeCount {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m >= 0 && m < modeCount
}

// Key returns the key bound to m, or 0 for ModeColor which any unbound key
// selects.
func (m Mode) Key() rune {
	if !m.Valid() {
		return 0
	}
	return modeKeys[m]
}

// Modes lists every mode in declaration order.
func Modes() []Mode {
	out := make([]Mode, 0, modeCount)
	for m := Mode(0); m < modeCount; m++ {
		out = append(out, m)
	}
	return out
}

// ParseMode resolves a mode name case-insensitively. "grayscale" spellings
// are accepted as well.
func ParseMode(name string) (Mode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "gray", "grey")
	n = strings.ReplaceAll(n, "-", "_")
	for m := Mode(0); m < modeCount; m++ {
		if modeNames[m] == n {
			return m, nil
		}
	}
	return ModeColor, apperrors.NewValidationError(fmt.Sprintf("unknown mode %q", name), nil)
}

// NextMode maps a key press onto the mode to display next. The quit key
// returns quit=true and leaves the mode unchanged; bound keys select their
// mode; anything else falls back to ModeColor.
func NextMode(current Mode, key rune) (next Mode, quit bool) {
	if key == QuitKey {
		return current, true
	}
	for m := Mode(1); m < modeCount; m++ {
		if modeKeys[m] == key {
			return m, false
		}
	}
	return ModeColor, false
}

// Apply runs the transform selected by m. ModeVignette is sepia followed by
// a vignette of Options.VignetteIntensity.
func (p *Processor) Apply(m Mode, src *frame.Frame) (*frame.Frame, error) {
	switch m {
	case ModeColor:
		return p.Identity(src)
	case ModeSepia:
		return p.Sepia(src)
	case ModeVignette:
		sepia, err := p.Sepia(src)
		if err != nil {
			return nil, err
		}
		return p.Vignette(sepia, p.opts.VignetteIntensity)
	case ModeGreyscale:
		return p.Greyscale(src)
	case ModeCustomGreyscale:
		return p.CustomGreyscale(src)
	case ModeBlur:
		return p.Blur5x5Separable(src)
	case ModeBlurNaive:
		return p.Blur5x5(src)
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown mode %d", int(m)), nil)
	}
}

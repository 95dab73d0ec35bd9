package filter

import (
	"bytes"
	"testing"

	apperrors "go-frame-filters/internal/errors"
	"go-frame-filters/internal/frame"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
	}{
		{"color", ModeColor},
		{"SEPIA", ModeSepia},
		{" vignette ", ModeVignette},
		{"grayscale", ModeGreyscale},
		{"greyscale", ModeGreyscale},
		{"custom_grayscale", ModeCustomGreyscale},
		{"blur", ModeBlur},
		{"blur_naive", ModeBlurNaive},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParseMode_Unknown(t *testing.T) {
	for _, name := range []string{"posterize", "", "custom-gray_scale"} {
		_, err := ParseMode(name)
		if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			t.Errorf("ParseMode(%q): expected validation error, got %v", name, err)
		}
	}
}

func TestModeNamesRoundTrip(t *testing.T) {
	for _, m := range Modes() {
		parsed, err := ParseMode(m.String())
		if err != nil {
			t.Fatalf("ParseMode(%q) failed: %v", m.String(), err)
		}
		if parsed != m {
			t.Errorf("Round trip of %s returned %s", m, parsed)
		}
	}
	if Mode(99).Valid() {
		t.Error("Expected Mode(99) to be invalid")
	}
	if Mode(99).String() != "Mode(99)" {
		t.Errorf("Unexpected string for invalid mode: %s", Mode(99).String())
	}
}

func TestNextMode(t *testing.T) {
	tests := []struct {
		name     string
		current  Mode
		key      rune
		want     Mode
		wantQuit bool
	}{
		{"sepia key", ModeColor, 's', ModeSepia, false},
		{"vignette key", ModeSepia, 'v', ModeVignette, false},
		{"greyscale key", ModeColor, 'g', ModeGreyscale, false},
		{"custom greyscale key", ModeColor, 'h', ModeCustomGreyscale, false},
		{"blur key", ModeColor, 'b', ModeBlur, false},
		{"naive blur key", ModeColor, 'n', ModeBlurNaive, false},
		{"other key resets", ModeBlur, 'x', ModeColor, false},
		{"quit keeps mode", ModeSepia, 'q', ModeSepia, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, quit := NextMode(tt.current, tt.key)
			if got != tt.want || quit != tt.wantQuit {
				t.Errorf("NextMode(%s, %q) = (%s, %v), want (%s, %v)", tt.current, tt.key, got, quit, tt.want, tt.wantQuit)
			}
		})
	}
}

func TestKeysAreUnique(t *testing.T) {
	seen := map[rune]Mode{}
	for _, m := range Modes() {
		k := m.Key()
		if k == 0 {
			continue
		}
		if k == QuitKey {
			t.Errorf("Mode %s is bound to the quit key", m)
		}
		if prev, ok := seen[k]; ok {
			t.Errorf("Key %q bound to both %s and %s", k, prev, m)
		}
		seen[k] = m
	}
}

func TestApply_Dispatch(t *testing.T) {
	p := NewProcessor(DefaultOptions())
	src := createTestFrame(12, 12)

	sepia, _ := p.Sepia(src)
	vignette, _ := p.Vignette(sepia, DefaultVignetteIntensity)
	grey, _ := p.Greyscale(src)
	custom, _ := p.CustomGreyscale(src)
	sep, _ := p.Blur5x5Separable(src)
	naive, _ := p.Blur5x5(src)

	want := map[Mode]*frame.Frame{
		ModeColor:           src,
		ModeSepia:           sepia,
		ModeVignette:        vignette,
		ModeGreyscale:       grey,
		ModeCustomGreyscale: custom,
		ModeBlur:            sep,
		ModeBlurNaive:       naive,
	}

	for m, expected := range want {
		got, err := p.Apply(m, src)
		if err != nil {
			t.Fatalf("Apply(%s) failed: %v", m, err)
		}
		if !bytes.Equal(got.Pix, expected.Pix) {
			t.Errorf("Apply(%s) produced unexpected output", m)
		}
	}
}

func TestApply_ColorReturnsCopy(t *testing.T) {
	src := createTestFrame(6, 6)
	got, err := NewProcessor(DefaultOptions()).Apply(ModeColor, src)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	got.Pix[0]++
	if got.Pix[0] == src.Pix[0] {
		t.Error("Expected color mode to return an independent copy")
	}
}

func TestApply_UnknownMode(t *testing.T) {
	if _, err := NewProcessor(DefaultOptions()).Apply(Mode(42), frame.New(5, 5)); err == nil {
		t.Error("Expected error for unknown mode")
	}
}

func TestApply_VignetteUsesConfiguredIntensity(t *testing.T) {
	src := frame.Solid(15, 15, 200, 200, 200)
	soft, _ := NewProcessor(DefaultOptions().WithVignetteIntensity(1.0)).Apply(ModeVignette, src)
	hard, _ := NewProcessor(DefaultOptions().WithVignetteIntensity(0.1)).Apply(ModeVignette, src)

	sb, _, _ := soft.Pixel(0, 0)
	hb, _, _ := hard.Pixel(0, 0)
	if hb >= sb {
		t.Errorf("Expected the smaller intensity to darken corners more: soft=%d hard=%d", sb, hb)
	}
}

func TestApply_PreservesShapeForAllModes(t *testing.T) {
	p := NewProcessor(DefaultOptions())
	src := createTestFrame(16, 21)
	for _, m := range Modes() {
		dst, err := p.Apply(m, src)
		if err != nil {
			t.Fatalf("Apply(%s) failed: %v", m, err)
		}
		if dst.Rows != src.Rows || dst.Cols != src.Cols || len(dst.Pix) != len(src.Pix) {
			t.Errorf("Apply(%s) changed shape to %dx%d", m, dst.Rows, dst.Cols)
		}
	}
}

package frame

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
	"strings"

	apperrors "go-frame-filters/internal/errors"
)

// Format names an output encoding for a frame.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatRaw  Format = "raw"
)

// ParseFormat accepts a format name or a MIME type. Empty means PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png", "image/png":
		return FormatPNG, nil
	case "jpeg", "jpg", "image/jpeg":
		return FormatJPEG, nil
	case "raw", ContentType:
		return FormatRaw, nil
	default:
		return "", apperrors.NewValidationError(fmt.Sprintf("unsupported output format %q", s), nil)
	}
}

// ContentType is the MIME type of the encoding.
func (f Format) ContentType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatRaw:
		return ContentType
	default:
		return "image/png"
	}
}

// Extension is the file suffix for stored results, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatRaw:
		return ".bgr.zst"
	default:
		return ".png"
	}
}

// EncodeAs serializes fr in the given format.
func EncodeAs(fr *Frame, format Format) ([]byte, error) {
	if format == FormatRaw {
		return Encode(fr)
	}
	if err := fr.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case FormatJPEG:
		err = jpeg.Encode(&buf, fr.ToRGBA(), &jpeg.Options{Quality: 90})
	case FormatPNG:
		enc := png.Encoder{CompressionLevel: png.BestSpeed}
		err = enc.Encode(&buf, fr.ToRGBA())
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unsupported output format %q", string(format)), nil)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode frame", err)
	}
	return buf.Bytes(), nil
}

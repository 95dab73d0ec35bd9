package frame

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	apperrors "go-frame-filters/internal/errors"

	"github.com/klauspost/compress/zstd"
)

// ContentType identifies the raw frame wire format on HTTP.
const ContentType = "application/x-bgr24+zstd"

// Wire layout: "BGR3" | rows u32 | cols u32 | channels u8 | zstd(samples).
var magic = [4]byte{'B', 'G', 'R', '3'}

const headerSize = 4 + 4 + 4 + 1

func mustNewZstdEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedFastest),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func mustNewZstdDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
		zstd.WithDecodeAllCapLimit(true),
	)
	if err != nil {
		panic(err)
	}
	return dec
}

var zstdEncPool = sync.Pool{
	New: func() any {
		return mustNewZstdEncoder()
	},
}

var zstdDecPool = sync.Pool{
	New: func() any {
		return mustNewZstdDecoder()
	},
}

// Encode serializes a frame into the raw wire format.
func Encode(f *Frame) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	var hdr [headerSize]byte
	copy(hdr[:4], magic[:])
	binary.BigEndian.PutUint32(hdr[4:8], uint32(f.Rows))
	binary.BigEndian.PutUint32(hdr[8:12], uint32(f.Cols))
	hdr[12] = Channels

	enc := zstdEncPool.Get().(*zstd.Encoder)
	defer zstdEncPool.Put(enc)

	out := make([]byte, 0, headerSize+len(f.Pix)/2)
	out = append(out, hdr[:]...)
	return enc.EncodeAll(f.Pix, out), nil
}

// Decode parses the raw wire format. maxPixels of zero disables the size cap.
func Decode(data []byte, maxPixels int64) (*Frame, error) {
	if len(data) < headerSize || !bytes.Equal(data[:4], magic[:]) {
		return nil, apperrors.NewValidationError("not a raw BGR frame", nil)
	}
	rows := int(binary.BigEndian.Uint32(data[4:8]))
	cols := int(binary.BigEndian.Uint32(data[8:12]))
	channels := int(data[12])
	if channels != Channels {
		return nil, apperrors.NewUnsupportedChannelsError(channels)
	}
	if maxPixels > 0 && int64(rows)*int64(cols) > maxPixels {
		return nil, apperrors.NewInvalidDimensionsError(
			fmt.Sprintf("frame %dx%d exceeds %d pixels", rows, cols, maxPixels))
	}

	dec := zstdDecPool.Get().(*zstd.Decoder)
	defer zstdDecPool.Put(dec)

	// the payload may not expand past the declared frame size
	pix, err := dec.DecodeAll(data[headerSize:], make([]byte, 0, rows*cols*Channels))
	if err != nil {
		return nil, apperrors.NewValidationError("corrupt frame payload", err)
	}
	return FromBytes(rows, cols, channels, pix)
}

// Package pngdpi embeds print-resolution metadata into encoded PNG data.
//
// A pHYs chunk declaring the pixel density is spliced in directly after
// the IHDR chunk so external viewers and print software report the
// correct physical size. The embedder is PNG-only by design.
package pngdpi

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"

	pngstructure "github.com/dsoprea/go-png-image-structure/v2"
)

// Pixels-per-meter conversion: 1 inch = 0.0254 m.
const metersPerInch = 39.3701

const (
	physChunkType = "pHYs"
	unitMeter     = 1
)

// ErrInvalidFormat is returned for input that is not a valid PNG stream.
var ErrInvalidFormat = errors.New("invalid PNG data")

// Embed returns a copy of data with a pHYs chunk declaring the given DPI
// on both axes. The chunk is inserted immediately after IHDR; all other
// chunks, including the IEND terminator, are preserved byte for byte. An
// existing pHYs chunk is replaced rather than duplicated.
func Embed(data []byte, dpi int) ([]byte, error) {
	chunks, err := parseChunks(data)
	if err != nil {
		return nil, err
	}

	spliced := make([]*pngstructure.Chunk, 0, len(chunks)+1)
	spliced = append(spliced, chunks[0], physChunk(dpi))
	for _, c := range chunks[1:] {
		if c.Type == physChunkType {
			continue
		}
		spliced = append(spliced, c)
	}

	buf := new(bytes.Buffer)
	if err := pngstructure.NewChunkSlice(spliced).WriteTo(buf); err != nil {
		return nil, fmt.Errorf("writing PNG chunks: %w", err)
	}
	return buf.Bytes(), nil
}

// Resolution reads back the pHYs declaration of a PNG stream. It returns
// the pixels-per-meter values for both axes and the unit specifier, or
// an error if no pHYs chunk is present.
func Resolution(data []byte) (xPpm, yPpm uint32, unit byte, err error) {
	chunks, err := parseChunks(data)
	if err != nil {
		return 0, 0, 0, err
	}
	for _, c := range chunks {
		if c.Type != physChunkType {
			continue
		}
		if len(c.Data) != 9 {
			return 0, 0, 0, fmt.Errorf("%w: pHYs chunk has %d bytes, want 9", ErrInvalidFormat, len(c.Data))
		}
		return binary.BigEndian.Uint32(c.Data[0:4]), binary.BigEndian.Uint32(c.Data[4:8]), c.Data[8], nil
	}
	return 0, 0, 0, errors.New("no pHYs chunk found")
}

func parseChunks(data []byte) ([]*pngstructure.Chunk, error) {
	intfc, err := pngstructure.NewPngMediaParser().ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	cs, ok := intfc.(*pngstructure.ChunkSlice)
	if !ok {
		return nil, ErrInvalidFormat
	}
	chunks := cs.Chunks()
	if len(chunks) == 0 {
		return nil, ErrInvalidFormat
	}
	return chunks, nil
}

// physChunk builds a pHYs chunk declaring the same pixels-per-meter
// density on both axes, with the CRC computed over type and data bytes.
func physChunk(dpi int) *pngstructure.Chunk {
	ppm := uint32(math.Round(float64(dpi) * metersPerInch))

	data := make([]byte, 9)
	binary.BigEndian.PutUint32(data[0:4], ppm)
	binary.BigEndian.PutUint32(data[4:8], ppm)
	data[8] = unitMeter

	crc := crc32.NewIEEE()
	crc.Write([]byte(physChunkType))
	crc.Write(data)

	return &pngstructure.Chunk{
		Type:   physChunkType,
		Data:   data,
		Length: uint32(len(data)),
		Crc:    crc.Sum32(),
	}
}

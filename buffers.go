package e57

import (
	"encoding/binary"
	"io"
	"math"
)

// Float constrains point coordinate precision to the two supported floating
// point widths.
type Float interface {
	~float32 | ~float64
}

// PointBuffers holds caller-owned parallel arrays of per-point scalars, one
// array per enabled field in PointFields. Coordinates use the chosen
// precision; intensity, time and color have fixed widths.
//
// Buffers are borrowed: during an active streaming write the library only
// reads them, never resizes, mutates or retains them past the session.
// In the streaming flow they act as a staging area the caller refills
// between Write calls.
type PointBuffers[T Float] struct {
	CartesianX []T
	CartesianY []T
	CartesianZ []T

	SphericalRange     []T
	SphericalAzimuth   []T
	SphericalElevation []T

	Intensity []float32
	TimeStamp []float64

	ColorRed   []uint8
	ColorGreen []uint8
	ColorBlue  []uint8
}

type bufferField struct {
	name    string
	enabled bool
	length  int
}

func (b *PointBuffers[T]) fields(pf *PointFields) []bufferField {
	return []bufferField{
		{"cartesianX", pf.CartesianX, len(b.CartesianX)},
		{"cartesianY", pf.CartesianY, len(b.CartesianY)},
		{"cartesianZ", pf.CartesianZ, len(b.CartesianZ)},
		{"sphericalRange", pf.SphericalRange, len(b.SphericalRange)},
		{"sphericalAzimuth", pf.SphericalAzimuth, len(b.SphericalAzimuth)},
		{"sphericalElevation", pf.SphericalElevation, len(b.SphericalElevation)},
		{"intensity", pf.Intensity, len(b.Intensity)},
		{"timeStamp", pf.TimeStamp, len(b.TimeStamp)},
		{"colorRed", pf.ColorRed, len(b.ColorRed)},
		{"colorGreen", pf.ColorGreen, len(b.ColorGreen)},
		{"colorBlue", pf.ColorBlue, len(b.ColorBlue)},
	}
}

// check verifies that every field enabled in pf has a backing array of at
// least count entries.
func (b *PointBuffers[T]) check(pf *PointFields, count int64) error {
	for _, f := range b.fields(pf) {
		if !f.enabled {
			continue
		}
		if f.length == 0 {
			return &ConfigError{Field: f.name, Reason: "field enabled but buffer not provided"}
		}
		if int64(f.length) < count {
			return &ConfigError{Field: f.name, Reason: "buffer shorter than point count"}
		}
	}
	return nil
}

// payload row encoding: enabled fields in declaration order, little endian,
// coordinates widened to float64.
const maxRowSize = 9*8 + 4 + 3

// encodeRows serializes rows [0, count) of the enabled fields into w.
func (b *PointBuffers[T]) encodeRows(w io.Writer, pf *PointFields, count int64) error {
	scratch := make([]byte, 0, 8192)

	flush := func() error {
		if len(scratch) == 0 {
			return nil
		}
		if _, err := w.Write(scratch); err != nil {
			return err
		}
		scratch = scratch[:0]
		return nil
	}

	for i := int64(0); i < count; i++ {
		if cap(scratch)-len(scratch) < maxRowSize {
			if err := flush(); err != nil {
				return err
			}
		}

		if pf.CartesianX {
			scratch = appendCoord(scratch, b.CartesianX[i])
			scratch = appendCoord(scratch, b.CartesianY[i])
			scratch = appendCoord(scratch, b.CartesianZ[i])
		}
		if pf.SphericalRange {
			scratch = appendCoord(scratch, b.SphericalRange[i])
			scratch = appendCoord(scratch, b.SphericalAzimuth[i])
			scratch = appendCoord(scratch, b.SphericalElevation[i])
		}
		if pf.Intensity {
			scratch = binary.LittleEndian.AppendUint32(scratch, math.Float32bits(b.Intensity[i]))
		}
		if pf.TimeStamp {
			scratch = binary.LittleEndian.AppendUint64(scratch, math.Float64bits(b.TimeStamp[i]))
		}
		if pf.ColorRed {
			scratch = append(scratch, b.ColorRed[i], b.ColorGreen[i], b.ColorBlue[i])
		}
	}

	return flush()
}

func appendCoord[T Float](dst []byte, v T) []byte {
	return binary.LittleEndian.AppendUint64(dst, math.Float64bits(float64(v)))
}

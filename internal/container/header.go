package container

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/migr8/libE57Format/codec"
)

var (
	fileMagic         = [4]byte{'E', '5', '7', 'G'}
	fileHeaderVersion = uint16(1)
)

// Fixed header layout (32 bytes):
//
//	magic[4] | version u16 | compression u8 | level u8 | guid[16] | reserved[8]
//
// Trailer layout (20 bytes, at end of file):
//
//	dirOffset u64 | dirLen u64 | magic[4]
const (
	fileHeaderLen = 32
	trailerLen    = 20
)

type fileHeaderInfo struct {
	Compression      Compression
	CompressionLevel int
	GUID             uuid.UUID
}

func writeFileHeader(w io.Writer, info fileHeaderInfo) (int64, error) {
	buf := make([]byte, 0, fileHeaderLen)
	buf = append(buf, fileMagic[:]...)

	var fixed [4]byte
	binary.LittleEndian.PutUint16(fixed[0:2], fileHeaderVersion)
	fixed[2] = uint8(info.Compression)
	fixed[3] = uint8(info.CompressionLevel)
	buf = append(buf, fixed[:]...)

	buf = append(buf, info.GUID[:]...)

	var reserved [8]byte
	buf = append(buf, reserved[:]...)

	if _, err := w.Write(buf); err != nil {
		return 0, fmt.Errorf("failed to write container header: %w", err)
	}
	return int64(len(buf)), nil
}

// writeDirectory writes the codec name and the encoded directory document at
// off and returns the number of bytes written. The name prefix makes the blob
// self-describing.
func writeDirectory(w io.WriterAt, off int64, c codec.Codec, doc directory) (int64, error) {
	encoded, err := c.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("failed to encode record directory: %w", err)
	}

	name := c.Name()
	if len(name) > 255 {
		return 0, fmt.Errorf("codec name too long: %q", name)
	}

	buf := make([]byte, 0, 1+len(name)+len(encoded))
	buf = append(buf, uint8(len(name)))
	buf = append(buf, name...)
	buf = append(buf, encoded...)

	if _, err := w.WriteAt(buf, off); err != nil {
		return 0, fmt.Errorf("failed to write record directory: %w", err)
	}
	return int64(len(buf)), nil
}

func writeTrailer(w io.WriterAt, off, dirOff, dirLen int64) error {
	var buf [trailerLen]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(dirOff))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(dirLen))
	copy(buf[16:20], fileMagic[:])

	if _, err := w.WriteAt(buf[:], off); err != nil {
		return fmt.Errorf("failed to write container trailer: %w", err)
	}
	return nil
}

package container

import (
	"bufio"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// PayloadWriter is an open streaming payload section for one 3D record.
// Bytes written to it pass through the configured compressor and land in a
// contiguous section appended at the end of the file. Close finalizes the
// compressed stream and records the section bounds in the directory entry.
type PayloadWriter struct {
	c      *Container
	rec    *Record
	bw     *bufio.Writer
	zw     io.WriteCloser // nil for CompressionNone
	w      io.Writer
	closed bool
}

// OpenPayload opens the streaming payload section for the 3D record at index.
// A record has exactly one payload; opening a second one fails with
// ErrPayloadExists. Only one payload may be open per container at a time.
func (c *Container) OpenPayload(index int64) (*PayloadWriter, error) {
	if !c.open {
		return nil, ErrClosed
	}
	if c.active != nil {
		return nil, ErrActivePayload
	}

	rec, err := c.record(index)
	if err != nil {
		return nil, err
	}
	if rec.Kind != KindData3D {
		return nil, fmt.Errorf("%w: record %d is %s", ErrWrongKind, index, rec.Kind)
	}
	if rec.payloadDone {
		return nil, fmt.Errorf("%w: record %d", ErrPayloadExists, index)
	}

	if _, err := c.f.Seek(c.off, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to payload section: %w", err)
	}

	p := &PayloadWriter{
		c:   c,
		rec: rec,
		bw:  bufio.NewWriter(c.f),
	}

	switch c.opts.Compression {
	case CompressionZstd:
		var encOpts []zstd.EOption
		if c.opts.CompressionLevel > 0 {
			level := zstd.EncoderLevelFromZstd(c.opts.CompressionLevel)
			encOpts = append(encOpts, zstd.WithEncoderLevel(level))
		}
		zw, err := zstd.NewWriter(p.bw, encOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		p.zw = zw
		p.w = zw
	case CompressionLZ4:
		p.zw = lz4.NewWriter(p.bw)
		p.w = p.zw
	default:
		p.w = p.bw
	}

	rec.PayloadOffset = c.off
	rec.allocated = true
	c.active = p

	return p, nil
}

// Write passes b through the compressor into the payload section.
func (p *PayloadWriter) Write(b []byte) (int, error) {
	if p.closed {
		return 0, ErrPayloadClosed
	}
	return p.w.Write(b)
}

// AddRows records n additional points as committed to this payload.
func (p *PayloadWriter) AddRows(n int64) {
	p.rec.Written += n
}

// Close finalizes the compressed stream, flushes buffered bytes and records
// the section length. Closing twice returns ErrPayloadClosed.
//
// A failed Close leaves the record unfinalized but releases the container's
// payload slot: later sections may still be opened and written.
func (p *PayloadWriter) Close() error {
	if p.closed {
		return ErrPayloadClosed
	}
	p.closed = true
	p.c.active = nil

	if p.zw != nil {
		if err := p.zw.Close(); err != nil {
			return fmt.Errorf("failed to finalize compressed payload: %w", err)
		}
	}
	if err := p.bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush payload: %w", err)
	}

	end, err := p.c.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("failed to locate payload end: %w", err)
	}

	p.rec.PayloadSize = end - p.rec.PayloadOffset
	p.rec.payloadDone = true
	p.c.off = end

	return nil
}

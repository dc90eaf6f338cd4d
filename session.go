package e57

import (
	"io"
	"time"

	"github.com/migr8/libE57Format/internal/container"
)

// CompressedVectorWriter is an open streaming writer bound to exactly one 3D
// record and one buffer set. It holds a cursor of points written so far and
// enforces the session contract: writes never exceed the declared point
// count, and Close runs exactly once.
//
// Each Write consumes rows [0, count) of the bound buffers; the caller
// refills them between calls. The buffers stay alive and caller-owned for
// the whole session.
type CompressedVectorWriter struct {
	pw       *container.PayloadWriter
	index    int64
	declared int64 // header point count, cumulative cap
	bufCap   int64 // bound buffer capacity, per-write cap
	written  int64
	closed   bool
	encode   func(w io.Writer, count int64) error
	logger   *Logger
	metrics  MetricsCollector
}

// Index returns the record index this session is bound to.
func (cvw *CompressedVectorWriter) Index() int64 { return cvw.index }

// Written returns the cumulative number of points committed so far.
func (cvw *CompressedVectorWriter) Written() int64 { return cvw.written }

// Write encodes rows [0, count) of the bound buffers into the record's
// compressed payload and returns the number of points written. It fails
// with ErrSessionClosed after Close, ErrWriteExceedsBuffer when count
// exceeds the bound buffer capacity, and ErrWriteExceedsDeclared when the
// cumulative total would exceed the declared point count.
func (cvw *CompressedVectorWriter) Write(count int64) (int64, error) {
	start := time.Now()

	n, err := cvw.write(count)
	cvw.metrics.RecordPointWrite(count, time.Since(start), err)
	cvw.logger.LogPointsWritten(cvw.index, count, cvw.written, err)

	return n, err
}

func (cvw *CompressedVectorWriter) write(count int64) (int64, error) {
	if cvw.closed {
		return 0, ErrSessionClosed
	}
	if count < 0 {
		return 0, &ConfigError{Field: "count", Reason: "must not be negative"}
	}
	if count > cvw.bufCap {
		return 0, ErrWriteExceedsBuffer
	}
	if cvw.written+count > cvw.declared {
		return 0, ErrWriteExceedsDeclared
	}

	if err := cvw.encode(cvw.pw, count); err != nil {
		return 0, translateError(err)
	}

	cvw.pw.AddRows(count)
	cvw.written += count

	return count, nil
}

// Close finalizes the record's compressed payload and releases the session's
// buffer references. Closed is terminal: closing or writing again fails with
// ErrSessionClosed.
func (cvw *CompressedVectorWriter) Close() error {
	if cvw.closed {
		return ErrSessionClosed
	}
	cvw.closed = true

	err := translateError(cvw.pw.Close())
	cvw.logger.LogSessionClose(cvw.index, cvw.written, err)

	// Drop the buffer closure so the arrays are released even if the caller
	// keeps the session handle around.
	cvw.encode = nil

	return err
}

// Package e57 writes structured point-cloud container files.
//
// A file holds self-describing records: 3D scans with compressed,
// strictly-typed point payloads, and 2D images with opaque byte payloads.
// The package covers the write path only.
//
// # Quick Start
//
// Single-shot write of a whole scan:
//
//	w, _ := e57.NewWriter("scan.e57")
//	defer w.Close()
//
//	header := e57.Data3D{Name: "station-1", PointCount: int64(len(xs))}
//	header.PointFields.CartesianX = true
//	header.PointFields.CartesianY = true
//	header.PointFields.CartesianZ = true
//	header.PointFields.PointRangeKind = e57.NumericScaledInteger
//
//	buffers := &e57.PointBuffers[float64]{CartesianX: xs, CartesianY: ys, CartesianZ: zs}
//	index, _ := e57.WriteData3D(w, &header, buffers)
//
// # Streaming Writes
//
// For scans that do not fit in memory, declare the record, then drive the
// streaming writer yourself, refilling the buffers between writes:
//
//	index, _ := w.NewData3D(&header)
//	cvw, _ := e57.SetUpData3DPoints(w, index, chunkSize, buffers)
//	for each chunk {
//	    // fill buffers[0:n]
//	    cvw.Write(n)
//	}
//	cvw.Close()
//
// Close must be called exactly once; writing or closing a finished streaming
// writer fails with ErrSessionClosed.
//
// # Bounds Derivation
//
// Scaled-integer quantities need a known [minimum, maximum] range before
// encoding. WriteData3D derives any bounds the caller left unset by scanning
// the buffers; caller-supplied bounds are authoritative and never overwritten.
// In the streaming flow, call FillMissingBounds before NewData3D.
//
// # Concurrency
//
// A Writer is single-threaded: one streaming writer at a time, serialized by
// the caller. Buffers handed to a streaming writer are borrowed; the caller
// keeps them alive and owns their contents until the writer is closed.
package e57

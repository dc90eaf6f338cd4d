package e57

// Writer is the caller-facing write surface of a container file. It is a
// thin facade over an exclusively-owned implementation handle; the facade
// holds no state of its own beyond that handle.
//
// A Writer supports one active streaming writer at a time. Concurrent use
// must be serialized by the caller.
type Writer struct {
	impl *writerImpl
}

// NewWriter creates a new container file at path, truncating any existing
// file, and returns an open Writer.
func NewWriter(path string, optFns ...func(*Options)) (*Writer, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	impl, err := newWriterImpl(path, opts)
	if err != nil {
		return nil, err
	}
	return &Writer{impl: impl}, nil
}

// IsOpen reports whether the underlying container accepts further writes.
func (w *Writer) IsOpen() bool {
	return w.impl.isOpen()
}

// Close finalizes the file: serializes the record directory, writes the
// trailer and closes the underlying file. Close is guarded by an internal
// flag; a second call returns ErrWriterClosed without touching the file.
func (w *Writer) Close() error {
	return w.impl.close()
}

// NewData3D materializes header as a new 3D scan record and returns its
// index. Indices increase monotonically and are stable for the file's
// lifetime. A structurally invalid header fails with a ConfigError; the
// Writer stays usable and the call may be retried with a corrected header.
//
// Scaled-integer quantities must carry resolved bounds at this point: supply
// them on the header or derive them with FillMissingBounds before the call.
// The header is considered immutable once an index has been assigned.
func (w *Writer) NewData3D(header *Data3D) (int64, error) {
	return w.impl.newData3D(header)
}

// WriteData3D writes a whole scan in one call: derives missing bounds from
// the buffers, materializes the record, streams all declared points and
// finalizes the payload. It returns the new record index.
func WriteData3D[T Float](w *Writer, header *Data3D, buffers *PointBuffers[T]) (int64, error) {
	if err := validateData3D(header); err != nil {
		return 0, err
	}
	if err := buffers.check(&header.PointFields, header.PointCount); err != nil {
		return 0, err
	}

	FillMissingBounds(header, buffers)

	index, err := w.impl.newData3D(header)
	if err != nil {
		return 0, err
	}

	cvw, err := SetUpData3DPoints(w, index, header.PointCount, buffers)
	if err != nil {
		return 0, err
	}

	if _, err := cvw.Write(header.PointCount); err != nil {
		return 0, err
	}
	if err := cvw.Close(); err != nil {
		return 0, err
	}

	return index, nil
}

// SetUpData3DPoints binds buffers to the 3D record at index and opens its
// streaming writer. pointCount is the buffer capacity: the most rows a
// single Write may consume. The caller drives one or more Write calls,
// refilling the buffers in between, followed by exactly one Close.
//
// The buffers are borrowed for the whole session: the caller keeps them
// alive and may not shrink them until Close.
func SetUpData3DPoints[T Float](w *Writer, index, pointCount int64, buffers *PointBuffers[T]) (*CompressedVectorWriter, error) {
	return setUpPoints(w.impl, index, pointCount, buffers)
}

// NewImage2D materializes header as a new 2D image record and returns its
// index. No bounds derivation applies; image payloads are opaque.
func (w *Writer) NewImage2D(header *Image2D) (int64, error) {
	return w.impl.newImage2D(header)
}

// WriteImage2DData streams a contiguous byte range into the image record at
// index, starting at byte offset start, and returns the number of bytes
// accepted. Chunked uploads repeat the call with increasing offsets; bytes
// past the declared image size are truncated.
//
// imageType and projection are recorded on the first write if the header
// left them zero; later calls must agree with the recorded values.
func (w *Writer) WriteImage2DData(index int64, imageType Image2DType, projection Image2DProjection, p []byte, start int64) (int64, error) {
	return w.impl.writeImageData(index, imageType, projection, p, start)
}

// WriteImage2D is the one-call image flow: it materializes the header and
// writes p at start, returning the number of bytes accepted.
func (w *Writer) WriteImage2D(header *Image2D, imageType Image2DType, projection Image2DProjection, p []byte, start int64) (int64, error) {
	index, err := w.impl.newImage2D(header)
	if err != nil {
		return 0, err
	}
	return w.impl.writeImageData(index, imageType, projection, p, start)
}

// WriteData3DGroupsData appends the group index of the 3D record at index:
// parallel arrays of group identifier, start point index and point count,
// one triple per contiguous sub-range. Exactly one group index is allowed
// per record; a second call fails with a ConflictError.
func (w *Writer) WriteData3DGroupsData(index int64, ids, starts, counts []int64) error {
	return w.impl.writeGroups(index, ids, starts, counts)
}

// RawRoot returns a read-only view of the file root: format name, file GUID,
// version and coordinate metadata.
func (w *Writer) RawRoot() StructureNode {
	return w.impl.rawRoot()
}

// RawData3D returns a read-only view of the 3D scan records created so far.
func (w *Writer) RawData3D() VectorNode {
	return w.impl.rawData3D()
}

// RawImages2D returns a read-only view of the 2D image records created so
// far.
func (w *Writer) RawImages2D() VectorNode {
	return w.impl.rawImages2D()
}

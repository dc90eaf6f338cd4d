package e57

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/migr8/libE57Format/internal/container"
)

// writerImpl carries the Writer's state: the container handle, the retained
// record headers, and the ambient logger/metrics. The public Writer owns
// exactly one of these and never shares it.
type writerImpl struct {
	c       *container.Container
	path    string
	logger  *Logger
	metrics MetricsCollector
	closed  bool

	scans  map[int64]*Data3D
	images map[int64]*Image2D
}

func newWriterImpl(path string, opts Options) (*writerImpl, error) {
	compression, err := opts.Compression.toContainer()
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = NoopLogger()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}

	c, err := container.Create(path, container.Options{
		Compression:        compression,
		CompressionLevel:   opts.CompressionLevel,
		Codec:              opts.Codec,
		FileGUID:           opts.FileGUID,
		CoordinateMetadata: opts.CoordinateMetadata,
	})
	if err != nil {
		return nil, err
	}

	return &writerImpl{
		c:       c,
		path:    path,
		logger:  logger,
		metrics: metrics,
		scans:   make(map[int64]*Data3D),
		images:  make(map[int64]*Image2D),
	}, nil
}

func (c Compression) toContainer() (container.Compression, error) {
	switch c {
	case CompressionZstd:
		return container.CompressionZstd, nil
	case CompressionLZ4:
		return container.CompressionLZ4, nil
	case CompressionNone:
		return container.CompressionNone, nil
	default:
		return 0, &ConfigError{Field: "compression", Reason: fmt.Sprintf("unsupported codec %d", uint8(c))}
	}
}

func (impl *writerImpl) isOpen() bool {
	return !impl.closed && impl.c.IsOpen()
}

func (impl *writerImpl) close() error {
	if impl.closed {
		return ErrWriterClosed
	}
	impl.closed = true

	start := time.Now()
	err := translateError(impl.c.Close())
	impl.metrics.RecordClose(time.Since(start), err)
	impl.logger.LogClose(impl.path, len(impl.scans)+len(impl.images), err)

	return err
}

// validateData3D rejects headers that describe an inconsistent or
// unsupported field/type combination.
func validateData3D(header *Data3D) error {
	if header.PointCount <= 0 {
		return &ConfigError{Field: "pointCount", Reason: "must be positive"}
	}

	pf := &header.PointFields

	cartesian := countEnabled(pf.CartesianX, pf.CartesianY, pf.CartesianZ)
	if cartesian != 0 && cartesian != 3 {
		return &ConfigError{Field: "cartesian", Reason: "x, y and z must be enabled together"}
	}
	spherical := countEnabled(pf.SphericalRange, pf.SphericalAzimuth, pf.SphericalElevation)
	if spherical != 0 && spherical != 3 {
		return &ConfigError{Field: "spherical", Reason: "range, azimuth and elevation must be enabled together"}
	}
	if cartesian == 0 && spherical == 0 {
		return &ConfigError{Field: "pointFields", Reason: "no cartesian or spherical fields enabled"}
	}
	color := countEnabled(pf.ColorRed, pf.ColorGreen, pf.ColorBlue)
	if color != 0 && color != 3 {
		return &ConfigError{Field: "color", Reason: "red, green and blue must be enabled together"}
	}

	if pf.AngleKind == NumericScaledInteger && spherical == 0 {
		return &ConfigError{Field: "angle", Reason: "scaled-integer angles require spherical fields"}
	}
	if pf.TimeKind == NumericScaledInteger && pf.Time.IsSet() && !pf.TimeStamp {
		return &ConfigError{Field: "time", Reason: "time bounds set but time stamp field disabled"}
	}

	if pf.PointRange.IsSet() && pf.PointRange.Min > pf.PointRange.Max {
		return &ConfigError{Field: "pointRange", Reason: "minimum exceeds maximum"}
	}
	if pf.Angle.IsSet() && pf.Angle.Min > pf.Angle.Max {
		return &ConfigError{Field: "angle", Reason: "minimum exceeds maximum"}
	}
	if pf.Time.IsSet() && pf.Time.Min > pf.Time.Max {
		return &ConfigError{Field: "time", Reason: "minimum exceeds maximum"}
	}
	if header.IntensityLimits.IsSet() && header.IntensityLimits.Min > header.IntensityLimits.Max {
		return &ConfigError{Field: "intensityLimits", Reason: "minimum exceeds maximum"}
	}

	return nil
}

// validateResolvedBounds rejects headers about to be materialized with a
// scaled-integer family whose bounds are still unset. Encoding a scaled
// integer needs a resolved [minimum, maximum]; the caller either supplies the
// pair or derives it with FillMissingBounds before creating the record.
func validateResolvedBounds(header *Data3D) error {
	pf := &header.PointFields

	if pf.PointRangeKind == NumericScaledInteger && !pf.PointRange.IsSet() {
		return &ConfigError{Field: "pointRange", Reason: "scaled-integer encoding requires resolved bounds"}
	}
	if pf.AngleKind == NumericScaledInteger && !pf.Angle.IsSet() {
		return &ConfigError{Field: "angle", Reason: "scaled-integer encoding requires resolved bounds"}
	}
	if pf.TimeStamp && pf.TimeKind == NumericScaledInteger && !pf.Time.IsSet() {
		return &ConfigError{Field: "time", Reason: "scaled-integer encoding requires resolved bounds"}
	}

	return nil
}

func countEnabled(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

func (impl *writerImpl) newData3D(header *Data3D) (int64, error) {
	start := time.Now()

	index, err := impl.createData3D(header)
	impl.metrics.RecordNewData3D(time.Since(start), err)
	impl.logger.LogNewData3D(index, header.PointCount, err)

	return index, err
}

func (impl *writerImpl) createData3D(header *Data3D) (int64, error) {
	if err := validateData3D(header); err != nil {
		return 0, err
	}
	if err := validateResolvedBounds(header); err != nil {
		return 0, err
	}
	if header.GUID == "" {
		header.GUID = uuid.NewString()
	}

	// The header becomes immutable once an index is assigned; retain a copy
	// so later caller mutations cannot leak into the directory.
	retained := *header

	index, err := impl.c.CreateRecord(container.KindData3D, &retained, retained.PointCount)
	if err != nil {
		return 0, translateError(err)
	}
	impl.scans[index] = &retained

	return index, nil
}

func setUpPoints[T Float](impl *writerImpl, index, pointCount int64, buffers *PointBuffers[T]) (*CompressedVectorWriter, error) {
	header, ok := impl.scans[index]
	if !ok {
		if _, exists := impl.c.Lookup(index); exists {
			return nil, &ConfigError{Field: "index", Reason: "record is not a 3D scan"}
		}
		return nil, fmt.Errorf("%w: index %d", ErrRecordNotFound, index)
	}

	if pointCount <= 0 {
		return nil, &ConfigError{Field: "pointCount", Reason: "must be positive"}
	}
	if err := buffers.check(&header.PointFields, pointCount); err != nil {
		return nil, err
	}

	pw, err := impl.c.OpenPayload(index)
	if err != nil {
		if errors.Is(err, container.ErrPayloadExists) {
			return nil, &ConflictError{Index: index, cause: err}
		}
		return nil, translateError(err)
	}

	pf := header.PointFields
	return &CompressedVectorWriter{
		pw:       pw,
		index:    index,
		declared: header.PointCount,
		bufCap:   pointCount,
		encode: func(w io.Writer, count int64) error {
			return buffers.encodeRows(w, &pf, count)
		},
		logger:  impl.logger,
		metrics: impl.metrics,
	}, nil
}

func (impl *writerImpl) newImage2D(header *Image2D) (int64, error) {
	start := time.Now()

	index, err := impl.createImage2D(header)
	impl.metrics.RecordNewImage2D(time.Since(start), err)
	impl.logger.LogNewImage2D(index, header.ImageSize, err)

	return index, err
}

func (impl *writerImpl) createImage2D(header *Image2D) (int64, error) {
	if header.ImageSize <= 0 {
		return 0, &ConfigError{Field: "imageSize", Reason: "must be positive"}
	}
	if header.GUID == "" {
		header.GUID = uuid.NewString()
	}

	retained := *header

	index, err := impl.c.CreateRecord(container.KindImage2D, &retained, retained.ImageSize)
	if err != nil {
		return 0, translateError(err)
	}
	impl.images[index] = &retained

	return index, nil
}

func (impl *writerImpl) writeImageData(index int64, imageType Image2DType, projection Image2DProjection, p []byte, start int64) (int64, error) {
	began := time.Now()

	n, err := impl.putImageBytes(index, imageType, projection, p, start)
	impl.metrics.RecordImageWrite(n, time.Since(began), err)
	impl.logger.LogImageBytes(index, start, n, err)

	return n, err
}

func (impl *writerImpl) putImageBytes(index int64, imageType Image2DType, projection Image2DProjection, p []byte, start int64) (int64, error) {
	header, ok := impl.images[index]
	if !ok {
		if _, exists := impl.c.Lookup(index); exists {
			return 0, &ConfigError{Field: "index", Reason: "record is not a 2D image"}
		}
		return 0, fmt.Errorf("%w: index %d", ErrRecordNotFound, index)
	}

	if header.Representation == 0 {
		header.Representation = imageType
	} else if imageType != 0 && imageType != header.Representation {
		return 0, &ConfigError{Field: "imageType", Reason: "does not match record representation"}
	}
	if header.Projection == 0 {
		header.Projection = projection
	} else if projection != 0 && projection != header.Projection {
		return 0, &ConfigError{Field: "projection", Reason: "does not match record projection"}
	}

	n, err := impl.c.WriteImageBytes(index, start, p)
	if err != nil {
		return 0, translateError(err)
	}
	return n, nil
}

func (impl *writerImpl) writeGroups(index int64, ids, starts, counts []int64) error {
	began := time.Now()

	err := impl.setGroups(index, ids, starts, counts)
	impl.metrics.RecordGroupWrite(len(ids), time.Since(began), err)
	impl.logger.LogGroups(index, len(ids), err)

	return err
}

func (impl *writerImpl) setGroups(index int64, ids, starts, counts []int64) error {
	if len(ids) != len(starts) || len(ids) != len(counts) {
		return &ConfigError{Field: "groups", Reason: "id, start and count arrays must have equal length"}
	}

	if err := impl.c.SetGroups(index, ids, starts, counts); err != nil {
		if errors.Is(err, container.ErrGroupsExist) {
			return &ConflictError{Index: index, cause: fmt.Errorf("%w: %w", ErrGroupsExist, err)}
		}
		return translateError(err)
	}
	return nil
}

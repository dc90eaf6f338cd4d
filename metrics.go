package e57

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordNewData3D is called after each 3D record creation.
	RecordNewData3D(duration time.Duration, err error)

	// RecordPointWrite is called after each streaming point write.
	// points is the number of points the call attempted.
	RecordPointWrite(points int64, duration time.Duration, err error)

	// RecordNewImage2D is called after each 2D record creation.
	RecordNewImage2D(duration time.Duration, err error)

	// RecordImageWrite is called after each image payload write.
	// bytes is the number of bytes accepted.
	RecordImageWrite(bytes int64, duration time.Duration, err error)

	// RecordGroupWrite is called after each group index write.
	RecordGroupWrite(groupCount int, duration time.Duration, err error)

	// RecordClose is called after the file is finalized.
	RecordClose(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordNewData3D(time.Duration, error)         {}
func (NoopMetricsCollector) RecordPointWrite(int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordNewImage2D(time.Duration, error)        {}
func (NoopMetricsCollector) RecordImageWrite(int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordGroupWrite(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordClose(time.Duration, error)             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ScanCount        atomic.Int64
	ScanErrors       atomic.Int64
	PointsWritten    atomic.Int64
	PointWriteErrors atomic.Int64
	WriteTotalNanos  atomic.Int64
	ImageCount       atomic.Int64
	ImageErrors      atomic.Int64
	ImageBytes       atomic.Int64
	GroupWrites      atomic.Int64
	GroupErrors      atomic.Int64
	CloseCount       atomic.Int64
	CloseErrors      atomic.Int64
}

// RecordNewData3D implements MetricsCollector.
func (b *BasicMetricsCollector) RecordNewData3D(duration time.Duration, err error) {
	b.ScanCount.Add(1)
	if err != nil {
		b.ScanErrors.Add(1)
	}
}

// RecordPointWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPointWrite(points int64, duration time.Duration, err error) {
	b.WriteTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PointWriteErrors.Add(1)
		return
	}
	b.PointsWritten.Add(points)
}

// RecordNewImage2D implements MetricsCollector.
func (b *BasicMetricsCollector) RecordNewImage2D(duration time.Duration, err error) {
	b.ImageCount.Add(1)
	if err != nil {
		b.ImageErrors.Add(1)
	}
}

// RecordImageWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordImageWrite(bytes int64, duration time.Duration, err error) {
	if err != nil {
		b.ImageErrors.Add(1)
		return
	}
	b.ImageBytes.Add(bytes)
}

// RecordGroupWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGroupWrite(groupCount int, duration time.Duration, err error) {
	b.GroupWrites.Add(1)
	if err != nil {
		b.GroupErrors.Add(1)
	}
}

// RecordClose implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClose(duration time.Duration, err error) {
	b.CloseCount.Add(1)
	if err != nil {
		b.CloseErrors.Add(1)
	}
}

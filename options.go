package e57

import (
	"fmt"

	"github.com/migr8/libE57Format/codec"
)

// Compression selects the codec for streaming point payloads. Image payloads
// are stored verbatim; typical image formats are already compressed.
type Compression uint8

const (
	// CompressionZstd compresses point payloads with zstd (the default).
	CompressionZstd Compression = iota

	// CompressionLZ4 compresses point payloads with lz4, trading ratio for
	// encode speed.
	CompressionLZ4

	// CompressionNone stores point payloads verbatim.
	CompressionNone
)

func (c Compression) String() string {
	switch c {
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	case CompressionNone:
		return "none"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// Options configures a Writer at construction.
type Options struct {
	// Compression selects the point payload codec.
	Compression Compression

	// CompressionLevel is the zstd level (1-22). Zero selects the encoder
	// default. Ignored for other codecs.
	CompressionLevel int

	// Codec encodes the record directory. Nil selects codec.Default.
	Codec codec.Codec

	// FileGUID identifies the file. Empty generates a random UUID.
	FileGUID string

	// CoordinateMetadata is an opaque coordinate system description stored
	// with the file.
	CoordinateMetadata string

	// Logger receives structured operation traces. Nil disables logging.
	Logger *Logger

	// Metrics receives per-operation metrics. Nil disables collection.
	Metrics MetricsCollector
}

// DefaultOptions are the options applied before caller overrides.
var DefaultOptions = Options{
	Compression: CompressionZstd,
}

// WithCompression selects the point payload codec.
func WithCompression(c Compression) func(*Options) {
	return func(o *Options) {
		o.Compression = c
	}
}

// WithCompressionLevel sets the zstd compression level.
func WithCompressionLevel(level int) func(*Options) {
	return func(o *Options) {
		o.CompressionLevel = level
	}
}

// WithCodec sets the codec used for the record directory.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) func(*Options) {
	return func(o *Options) {
		if c == nil {
			c = codec.Default
		}
		o.Codec = c
	}
}

// WithFileGUID sets the file GUID instead of generating one.
func WithFileGUID(guid string) func(*Options) {
	return func(o *Options) {
		o.FileGUID = guid
	}
}

// WithCoordinateMetadata stores an opaque coordinate system description with
// the file.
func WithCoordinateMetadata(meta string) func(*Options) {
	return func(o *Options) {
		o.CoordinateMetadata = meta
	}
}

// WithLogger sets the structured logger for operation tracing.
func WithLogger(l *Logger) func(*Options) {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithMetricsCollector sets the metrics collector for monitoring.
func WithMetricsCollector(mc MetricsCollector) func(*Options) {
	return func(o *Options) {
		o.Metrics = mc
	}
}

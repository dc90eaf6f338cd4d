package e57

import "fmt"

// NumericKind selects how a point quantity is stored in the record payload.
type NumericKind uint8

const (
	// NumericFloat stores the quantity as floating point.
	NumericFloat NumericKind = iota

	// NumericScaledInteger stores the quantity as a scaled integer. A scaled
	// integer quantity must carry a resolved [minimum, maximum] range before
	// its record is encoded.
	NumericScaledInteger
)

func (k NumericKind) String() string {
	switch k {
	case NumericFloat:
		return "float"
	case NumericScaledInteger:
		return "scaledInteger"
	default:
		return fmt.Sprintf("numericKind(%d)", uint8(k))
	}
}

// BoundsState tracks how a bounds pair was resolved.
type BoundsState uint8

const (
	// BoundsUnset means neither the caller nor the library has set the pair.
	BoundsUnset BoundsState = iota

	// BoundsUserSupplied means the caller set the pair. User-supplied bounds
	// are authoritative and never overwritten.
	BoundsUserSupplied

	// BoundsComputed means FillMissingBounds derived the pair from buffers.
	BoundsComputed
)

func (s BoundsState) String() string {
	switch s {
	case BoundsUnset:
		return "unset"
	case BoundsUserSupplied:
		return "userSupplied"
	case BoundsComputed:
		return "computed"
	default:
		return fmt.Sprintf("boundsState(%d)", uint8(s))
	}
}

// Bounds is a [minimum, maximum] pair with an explicit resolution state.
// The zero value is unset; there are no sentinel magic values that can
// collide with legitimate data.
type Bounds struct {
	Min   float64     `json:"min"`
	Max   float64     `json:"max"`
	State BoundsState `json:"state"`
}

// Set assigns caller-authoritative bounds.
func (b *Bounds) Set(minimum, maximum float64) {
	b.Min = minimum
	b.Max = maximum
	b.State = BoundsUserSupplied
}

// IsSet reports whether the pair has been resolved, by the caller or by
// bounds derivation.
func (b Bounds) IsSet() bool { return b.State != BoundsUnset }

// PointFields configures which per-point quantities a 3D record stores and
// how the numeric ones are encoded.
//
// Cartesian, spherical and color fields come in all-or-none triples; a
// partially enabled triple is rejected at record creation.
type PointFields struct {
	CartesianX bool `json:"cartesianX,omitempty"`
	CartesianY bool `json:"cartesianY,omitempty"`
	CartesianZ bool `json:"cartesianZ,omitempty"`

	SphericalRange     bool `json:"sphericalRange,omitempty"`
	SphericalAzimuth   bool `json:"sphericalAzimuth,omitempty"`
	SphericalElevation bool `json:"sphericalElevation,omitempty"`

	Intensity bool `json:"intensity,omitempty"`
	TimeStamp bool `json:"timeStamp,omitempty"`

	ColorRed   bool `json:"colorRed,omitempty"`
	ColorGreen bool `json:"colorGreen,omitempty"`
	ColorBlue  bool `json:"colorBlue,omitempty"`

	// PointRangeKind covers both Cartesian coordinates and spherical range:
	// the point-range statistic is a single pair fed by whichever geometry
	// is enabled, both when both are.
	PointRangeKind NumericKind `json:"pointRangeKind"`
	PointRange     Bounds      `json:"pointRange"`

	// AngleKind covers spherical azimuth and elevation.
	AngleKind NumericKind `json:"angleKind"`
	Angle     Bounds      `json:"angle"`

	// TimeKind covers the per-point time stamp.
	TimeKind NumericKind `json:"timeKind"`
	Time     Bounds      `json:"time"`
}

// ColorLimits bounds the color channels. Caller-set only; bounds derivation
// does not touch color.
type ColorLimits struct {
	RedMin   float64 `json:"redMin"`
	RedMax   float64 `json:"redMax"`
	GreenMin float64 `json:"greenMin"`
	GreenMax float64 `json:"greenMax"`
	BlueMin  float64 `json:"blueMin"`
	BlueMax  float64 `json:"blueMax"`
}

// Data3D is the header of a 3D scan record.
//
// The caller constructs it with the fields it knows and leaves range fields
// unset; WriteData3D (or an explicit FillMissingBounds) backfills missing
// bounds before the record is materialized. Once a record index has been
// assigned the header is considered immutable.
type Data3D struct {
	// GUID identifies the scan. Empty generates a random UUID at creation.
	GUID string `json:"guid"`

	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`

	SensorVendor       string `json:"sensorVendor,omitempty"`
	SensorModel        string `json:"sensorModel,omitempty"`
	SensorSerialNumber string `json:"sensorSerialNumber,omitempty"`

	// Acquisition start/end as seconds since the GPS epoch.
	AcquisitionStart float64 `json:"acquisitionStart,omitempty"`
	AcquisitionEnd   float64 `json:"acquisitionEnd,omitempty"`

	// PointCount is the declared number of points. Streaming writes may not
	// exceed it in total.
	PointCount int64 `json:"pointCount"`

	PointFields PointFields `json:"pointFields"`

	IntensityLimits Bounds      `json:"intensityLimits"`
	ColorLimits     ColorLimits `json:"colorLimits"`
}

// Image2DType identifies the image payload representation.
type Image2DType uint8

const (
	// ImageJPEG is a JPEG-encoded payload.
	ImageJPEG Image2DType = iota + 1

	// ImagePNG is a PNG-encoded payload.
	ImagePNG
)

func (t Image2DType) String() string {
	switch t {
	case ImageJPEG:
		return "jpeg"
	case ImagePNG:
		return "png"
	default:
		return fmt.Sprintf("image2DType(%d)", uint8(t))
	}
}

// Image2DProjection identifies the camera model an image was captured with.
type Image2DProjection uint8

const (
	// ProjectionVisual is a plain visual reference image with no camera model.
	ProjectionVisual Image2DProjection = iota + 1

	// ProjectionPinhole is a pinhole camera projection.
	ProjectionPinhole

	// ProjectionSpherical is a spherical projection.
	ProjectionSpherical

	// ProjectionCylindrical is a cylindrical projection.
	ProjectionCylindrical
)

func (p Image2DProjection) String() string {
	switch p {
	case ProjectionVisual:
		return "visual"
	case ProjectionPinhole:
		return "pinhole"
	case ProjectionSpherical:
		return "spherical"
	case ProjectionCylindrical:
		return "cylindrical"
	default:
		return fmt.Sprintf("image2DProjection(%d)", uint8(p))
	}
}

// Image2D is the header of a 2D image record. Image payloads are opaque
// bytes; no bounds derivation applies.
type Image2D struct {
	// GUID identifies the image. Empty generates a random UUID at creation.
	GUID string `json:"guid"`

	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`

	// AssociatedData3DGUID links the image to the scan it was captured with.
	AssociatedData3DGUID string `json:"associatedData3DGuid,omitempty"`

	// AcquisitionTime as seconds since the GPS epoch.
	AcquisitionTime float64 `json:"acquisitionTime,omitempty"`

	// ImageSize is the declared payload capacity in bytes.
	ImageSize int64 `json:"imageSize"`

	ImageWidth  int64 `json:"imageWidth,omitempty"`
	ImageHeight int64 `json:"imageHeight,omitempty"`

	// Representation and Projection are recorded on the first data write if
	// the caller left them zero.
	Representation Image2DType       `json:"representation,omitempty"`
	Projection     Image2DProjection `json:"projection,omitempty"`
}

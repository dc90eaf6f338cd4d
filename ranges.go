package e57

import "math"

// FillMissingBounds scans the buffers and backfills any bounds the caller
// left unset in the scan header, for four independent quantity families:
//
//   - point range, when stored as scaled integer: fed by Cartesian x/y/z
//     and/or spherical range, both feeding the same pair when both field
//     sets are enabled
//   - angle, when stored as scaled integer: spherical azimuth and elevation
//   - intensity, when the field is enabled
//   - time, when the field is enabled and stored as scaled integer
//
// User-supplied bounds are authoritative: a family whose pair is already set
// is left untouched regardless of buffer contents. Derived pairs are marked
// BoundsComputed.
//
// The scan is one linear pass over rows [0, header.PointCount) using plain
// comparisons. Input is assumed finite and at least PointCount entries long
// for every enabled field; NaN values yield undefined bounds.
func FillMissingBounds[T Float](header *Data3D, buffers *PointBuffers[T]) {
	pf := &header.PointFields

	writePointRange := pf.PointRangeKind == NumericScaledInteger && !pf.PointRange.IsSet()
	writeAngle := pf.AngleKind == NumericScaledInteger && !pf.Angle.IsSet() &&
		pf.SphericalAzimuth && pf.SphericalElevation
	writeIntensity := pf.Intensity && !header.IntensityLimits.IsSet()
	writeTime := pf.TimeStamp && pf.TimeKind == NumericScaledInteger && !pf.Time.IsSet()

	if !writePointRange && !writeAngle && !writeIntensity && !writeTime {
		return
	}

	pointRangeMin, pointRangeMax := math.MaxFloat64, -math.MaxFloat64
	angleMin, angleMax := math.MaxFloat64, -math.MaxFloat64
	intensityMin, intensityMax := math.MaxFloat64, -math.MaxFloat64
	timeMin, timeMax := math.MaxFloat64, -math.MaxFloat64

	for i := int64(0); i < header.PointCount; i++ {
		if writePointRange && pf.CartesianX {
			x := float64(buffers.CartesianX[i])
			y := float64(buffers.CartesianY[i])
			z := float64(buffers.CartesianZ[i])

			pointRangeMin = min(pointRangeMin, x, y, z)
			pointRangeMax = max(pointRangeMax, x, y, z)
		}

		if writePointRange && pf.SphericalRange {
			// Spherical range feeds the same pair as the Cartesian
			// coordinates: the written statistic is always "point range",
			// whichever geometry supplied it.
			r := float64(buffers.SphericalRange[i])
			pointRangeMin = min(pointRangeMin, r)
			pointRangeMax = max(pointRangeMax, r)
		}

		if writeAngle {
			az := float64(buffers.SphericalAzimuth[i])
			el := float64(buffers.SphericalElevation[i])

			angleMin = min(angleMin, az, el)
			angleMax = max(angleMax, az, el)
		}

		if writeIntensity {
			v := float64(buffers.Intensity[i])
			intensityMin = min(intensityMin, v)
			intensityMax = max(intensityMax, v)
		}

		if writeTime {
			v := buffers.TimeStamp[i]
			timeMin = min(timeMin, v)
			timeMax = max(timeMax, v)
		}
	}

	if writePointRange {
		pf.PointRange = Bounds{Min: pointRangeMin, Max: pointRangeMax, State: BoundsComputed}
	}
	if writeAngle {
		pf.Angle = Bounds{Min: angleMin, Max: angleMax, State: BoundsComputed}
	}
	if writeIntensity {
		header.IntensityLimits = Bounds{Min: intensityMin, Max: intensityMax, State: BoundsComputed}
	}
	if writeTime {
		pf.Time = Bounds{Min: timeMin, Max: timeMax, State: BoundsComputed}
	}
}

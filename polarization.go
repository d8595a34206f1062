package lumen

import "math"

// NormalizeAngle maps any angle in degrees to the canonical polarization
// range [0, 180). The double modulo handles negative inputs.
func NormalizeAngle(a float64) float64 {
	return math.Mod(math.Mod(a, 180)+180, 180)
}

// AngleDifference returns the angular distance between two polarization
// angles in [0, 90], taking the shorter of the two mod-180 distances so that
// a 180° flip counts as identical.
func AngleDifference(a, b float64) float64 {
	d := math.Abs(NormalizeAngle(a) - NormalizeAngle(b))
	if d > 90 {
		d = 180 - d
	}
	return d
}

// IsParallel reports whether two polarization angles coincide within
// tolerance (mod 180). A tolerance <= 0 uses DefaultSensorTolerance.
func IsParallel(a, b, tolerance float64) bool {
	if tolerance <= 0 {
		tolerance = DefaultSensorTolerance
	}
	return AngleDifference(a, b) <= tolerance
}

// IsOrthogonal reports whether two polarization angles are perpendicular
// within tolerance (mod 180). A tolerance <= 0 uses DefaultSensorTolerance.
func IsOrthogonal(a, b, tolerance float64) bool {
	if tolerance <= 0 {
		tolerance = DefaultSensorTolerance
	}
	return AngleDifference(a, b) >= 90-tolerance
}

// PolarizationClass is one of the four discrete display categories a
// continuous polarization angle is bucketed into for presentation.
type PolarizationClass uint8

const (
	PolarizationHorizontal  PolarizationClass = iota // canonical 0°
	PolarizationDiagonal                             // canonical 45°
	PolarizationVertical                             // canonical 90°
	PolarizationAntidiagonal                         // canonical 135°
)

// ClassifyPolarization buckets an angle into its display category using
// midpoint boundaries at 22.5°, 67.5°, 112.5°, and 157.5°. Values in
// [157.5, 180) wrap around to the horizontal class. Total over all reals.
func ClassifyPolarization(angle float64) PolarizationClass {
	a := NormalizeAngle(angle)
	switch {
	case a < 22.5:
		return PolarizationHorizontal
	case a < 67.5:
		return PolarizationDiagonal
	case a < 112.5:
		return PolarizationVertical
	case a < 157.5:
		return PolarizationAntidiagonal
	default:
		return PolarizationHorizontal
	}
}

// Angle returns the canonical angle of the class: 0, 45, 90, or 135 degrees.
func (p PolarizationClass) Angle() float64 {
	switch p {
	case PolarizationDiagonal:
		return 45
	case PolarizationVertical:
		return 90
	case PolarizationAntidiagonal:
		return 135
	default:
		return 0
	}
}

// Color returns the fixed display color for the class.
func (p PolarizationClass) Color() Color {
	switch p {
	case PolarizationDiagonal:
		return Color{R: 0x10 / 255.0, G: 0xb9 / 255.0, B: 0x81 / 255.0, A: 1} // green
	case PolarizationVertical:
		return Color{R: 0xf4 / 255.0, G: 0x72 / 255.0, B: 0xb6 / 255.0, A: 1} // pink
	case PolarizationAntidiagonal:
		return Color{R: 0xa7 / 255.0, G: 0x8b / 255.0, B: 0xfa / 255.0, A: 1} // violet
	default:
		return Color{R: 0x22 / 255.0, G: 0xd3 / 255.0, B: 0xee / 255.0, A: 1} // cyan
	}
}

// String returns the English display name of the class.
func (p PolarizationClass) String() string {
	switch p {
	case PolarizationDiagonal:
		return "diagonal (45°)"
	case PolarizationVertical:
		return "vertical"
	case PolarizationAntidiagonal:
		return "diagonal (135°)"
	default:
		return "horizontal"
	}
}

package lumen

import "math"

// Physics primitives for the tracing engine. All functions here are pure and
// all angles are in degrees unless a name says otherwise.

// DefaultSensorTolerance is the angular tolerance, in degrees, used by
// SensorActivated when the caller passes a tolerance <= 0.
const DefaultSensorTolerance = 5.0

// MalusTransmission returns the fraction of intensity, in [0, 1], that
// survives a linear polarizer: cos² of the angle between the incoming
// polarization and the filter axis.
//
// The result is exactly 1 when the angles coincide modulo 180° and exactly 0
// when they differ by 90°.
func MalusTransmission(incomingAngle, filterAngle float64) float64 {
	delta := NormalizeAngle(incomingAngle - filterAngle)
	if delta == 0 {
		return 1
	}
	if delta == 90 {
		return 0
	}
	c := math.Cos(delta * math.Pi / 180)
	return c * c
}

// MalusIntensity applies Malus's law to an intensity.
func MalusIntensity(intensity, incomingAngle, filterAngle float64) float64 {
	return intensity * MalusTransmission(incomingAngle, filterAngle)
}

// BirefringentSplit divides a beam into its ordinary and extraordinary rays:
// oRay = I·cos²θ and eRay = I·sin²θ, where θ is the incoming polarization.
// The two always sum to the input intensity exactly (eRay is computed as the
// remainder, so the identity holds bit-for-bit).
//
// By convention the o-ray keeps the incoming propagation direction and exits
// polarized at 0°; the e-ray is deflected 90° (see ERayDirection) and exits
// polarized at 90°.
func BirefringentSplit(intensity, incomingAngle float64) (oRay, eRay float64) {
	c := math.Cos(NormalizeAngle(incomingAngle) * math.Pi / 180)
	oRay = intensity * c * c
	eRay = intensity - oRay
	return oRay, eRay
}

// ERayDirection returns the deflected travel direction of the extraordinary
// ray for a beam arriving with direction d: right→up, left→down, down→right,
// up→left. DirNone maps to DirNone.
func ERayDirection(d Direction) Direction {
	switch d {
	case DirRight:
		return DirUp
	case DirLeft:
		return DirDown
	case DirDown:
		return DirRight
	case DirUp:
		return DirLeft
	default:
		return DirNone
	}
}

// Rotate shifts a polarization angle by amount and normalizes the result to
// [0, 180). Rotation itself changes no intensity; wave-plate loss is modeled
// separately by Attenuate.
func Rotate(angle, amount float64) float64 {
	return NormalizeAngle(angle + amount)
}

// Attenuate scales an intensity by a loss factor.
func Attenuate(intensity, factor float64) float64 {
	return intensity * factor
}

// MirrorReflect returns the outgoing direction for a beam striking a mirror
// whose surface angle is mirrorAngle. Only the two canonical orientations are
// supported, with a ±5° tolerance band to absorb angle jitter:
//
//	40–50°  (around 45°):  right→up, up→right, left→down, down→left
//	130–140° (around 135°): right→down, down→right, left→up, up→left
//
// Outside both bands the mirror absorbs the beam and ok is false.
func MirrorReflect(d Direction, mirrorAngle float64) (reflected Direction, ok bool) {
	a := NormalizeAngle(mirrorAngle)
	switch {
	case a >= 40 && a <= 50:
		switch d {
		case DirRight:
			return DirUp, true
		case DirUp:
			return DirRight, true
		case DirLeft:
			return DirDown, true
		case DirDown:
			return DirLeft, true
		}
	case a >= 130 && a <= 140:
		switch d {
		case DirRight:
			return DirDown, true
		case DirDown:
			return DirRight, true
		case DirLeft:
			return DirUp, true
		case DirUp:
			return DirLeft, true
		}
	}
	return DirNone, false
}

// SensorActivated reports whether a sensor trips. The intensity condition is
// received >= required. If requiredAngle is non-nil the received polarization
// must additionally lie within tolerance of it, using the shorter of the two
// mod-180 angular distances (a 180° flip is the same polarization).
// A tolerance <= 0 uses DefaultSensorTolerance.
func SensorActivated(receivedIntensity, receivedAngle, requiredIntensity float64, requiredAngle *float64, tolerance float64) bool {
	if receivedIntensity < requiredIntensity {
		return false
	}
	if requiredAngle == nil {
		return true
	}
	if tolerance <= 0 {
		tolerance = DefaultSensorTolerance
	}
	return AngleDifference(receivedAngle, *requiredAngle) <= tolerance
}

// CombineIntensities merges the intensities of beams arriving at the same
// point. Without phase information it returns the arithmetic sum. With phase
// information (one +1 or -1 per intensity) it returns (Σ phaseᵢ·√Iᵢ)², a
// simplified two-amplitude interference model. A phases slice of mismatched
// length is ignored. Empty input returns 0.
func CombineIntensities(intensities []float64, phases []int) float64 {
	if len(intensities) == 0 {
		return 0
	}
	if len(phases) != len(intensities) {
		sum := 0.0
		for _, in := range intensities {
			sum += in
		}
		return sum
	}
	amp := 0.0
	for i, in := range intensities {
		if in < 0 {
			in = 0
		}
		amp += float64(phases[i]) * math.Sqrt(in)
	}
	return amp * amp
}

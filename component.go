package lumen

// ComponentType tags the optical behavior of a placed grid element.
type ComponentType uint8

const (
	TypeEmitter   ComponentType = iota // emits a beam; never receives one
	TypePolarizer                      // linear polarizer (Malus's law)
	TypeRotator                        // wave plate; rotates polarization
	TypeSplitter                       // birefringent crystal; o-ray + e-ray
	TypeSensor                         // accumulates received light
	TypeMirror                         // reflects at 45° or 135°
	TypeSolid                          // opaque block; absorbs
)

// String returns the lowercase type name.
func (t ComponentType) String() string {
	switch t {
	case TypeEmitter:
		return "emitter"
	case TypePolarizer:
		return "polarizer"
	case TypeRotator:
		return "rotator"
	case TypeSplitter:
		return "splitter"
	case TypeSensor:
		return "sensor"
	case TypeMirror:
		return "mirror"
	case TypeSolid:
		return "solid"
	default:
		return "unknown"
	}
}

// Component is one placed optical element. The world model owns these; the
// tracer only reads them. Only the fields relevant to a component's Type are
// consulted — the rest are ignored.
type Component struct {
	// ID is a stable identifier, unique within one trace input.
	ID string
	// Type selects the optical behavior.
	Type ComponentType
	// X and Y are the grid position.
	X, Y float64

	// Direction is the emission direction (emitters only). An emitter with
	// DirNone is skipped: it produces no trace.
	Direction Direction
	// Polarization is the initial polarization angle in degrees (emitters only).
	Polarization float64
	// FilterAngle is the transmission axis in degrees (polarizers only).
	FilterAngle float64
	// RotationAmount is the polarization shift in degrees (rotators only).
	RotationAmount float64
	// MirrorAngle is the surface angle in degrees (mirrors only).
	MirrorAngle float64
	// RequiredIntensity is the activation threshold (sensors only).
	// Zero means DefaultRequiredIntensity.
	RequiredIntensity float64
	// RequiredAngle, if non-nil, is a polarization the sensor must also
	// receive, within DefaultSensorTolerance (sensors only).
	RequiredAngle *float64
}

// Override carries live attribute values for one component, driven by player
// interaction. Nil fields leave the component's static definition untouched,
// so in-place edits don't require rebuilding the component list.
type Override struct {
	Direction      *Direction
	Polarization   *float64
	FilterAngle    *float64
	RotationAmount *float64
	MirrorAngle    *float64
}

// Overrides maps component IDs to their live attribute overrides.
type Overrides map[string]Override

// apply returns the component with any live override values substituted in,
// field by field. The receiver is not modified.
func (o Overrides) apply(c Component) Component {
	ov, found := o[c.ID]
	if !found {
		return c
	}
	if ov.Direction != nil {
		c.Direction = *ov.Direction
	}
	if ov.Polarization != nil {
		c.Polarization = *ov.Polarization
	}
	if ov.FilterAngle != nil {
		c.FilterAngle = *ov.FilterAngle
	}
	if ov.RotationAmount != nil {
		c.RotationAmount = *ov.RotationAmount
	}
	if ov.MirrorAngle != nil {
		c.MirrorAngle = *ov.MirrorAngle
	}
	return c
}

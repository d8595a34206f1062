package lumen

import "math"

// Default values for TraceConfig fields and trace constants.
const (
	DefaultMaxDepth           = 20   // hard branch depth ceiling
	DefaultMinIntensity       = 1.0  // branch pruning threshold
	DefaultMirrorLoss         = 0.95 // multiplicative loss per mirror bounce
	DefaultSplitterLoss       = 0.95 // multiplicative loss per splitter branch
	DefaultRotatorLoss        = 0.98 // multiplicative loss per rotator pass
	DefaultAlignmentTolerance = 8.0  // perpendicular-axis alignment window
	DefaultMinDistance        = 2.0  // minimum Manhattan distance for a hit
	DefaultRotationAmount     = 45.0 // rotator shift when RotationAmount is 0
	DefaultRequiredIntensity  = 50.0 // sensor threshold when RequiredIntensity is 0
	EmitterIntensity          = 100.0
)

// TraceConfig tunes the tracing engine. Zero fields take the corresponding
// Default constant, so the zero value is a fully usable config.
type TraceConfig struct {
	// MaxDepth is the hard ceiling on component-to-component hops along any
	// single branch. Together with MinIntensity it guarantees termination
	// even for cyclic mirror arrangements.
	MaxDepth int
	// MinIntensity prunes any branch whose intensity falls below it.
	MinIntensity float64
	// MirrorLoss is the intensity factor applied per mirror bounce.
	MirrorLoss float64
	// SplitterLoss is the intensity factor applied to each splitter branch.
	SplitterLoss float64
	// RotatorLoss is the intensity factor applied per rotator pass.
	RotatorLoss float64
	// AlignmentTolerance is how far off the travel axis, in grid units, a
	// component may sit and still count as in the beam's path.
	AlignmentTolerance float64
	// MinDistance is the minimum Manhattan distance for a component to count
	// as a hit. Excludes the origin's own cell.
	MinDistance float64
}

// withDefaults returns the config with zero fields replaced by defaults.
func (c TraceConfig) withDefaults() TraceConfig {
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.MinIntensity == 0 {
		c.MinIntensity = DefaultMinIntensity
	}
	if c.MirrorLoss == 0 {
		c.MirrorLoss = DefaultMirrorLoss
	}
	if c.SplitterLoss == 0 {
		c.SplitterLoss = DefaultSplitterLoss
	}
	if c.RotatorLoss == 0 {
		c.RotatorLoss = DefaultRotatorLoss
	}
	if c.AlignmentTolerance == 0 {
		c.AlignmentTolerance = DefaultAlignmentTolerance
	}
	if c.MinDistance == 0 {
		c.MinDistance = DefaultMinDistance
	}
	return c
}

// BeamSegment is one straight run of light between two grid points.
// Immutable once produced; the ordered segment list forms a forest rooted at
// each emitter, branching at splitters, in depth-first emission order.
type BeamSegment struct {
	Start, End   Vec2
	Intensity    float64
	Polarization float64
	Direction    Direction
}

// SensorState is the per-sensor accumulator for one full trace. Intensity is
// cumulative across every beam that reaches the sensor; polarization is
// last-write-wins. ReceivedPolarization is meaningful only when BeamCount > 0.
type SensorState struct {
	ID                   string
	Activated            bool
	ReceivedIntensity    float64
	ReceivedPolarization float64
	BeamCount            int
}

// TraceResult is the complete output of one trace: every beam segment and
// one final state per sensor present in the input, in input order.
type TraceResult struct {
	Beams   []BeamSegment
	Sensors []SensorState
}

// Sensor returns the state for the given sensor id.
func (r *TraceResult) Sensor(id string) (SensorState, bool) {
	for _, s := range r.Sensors {
		if s.ID == id {
			return s, true
		}
	}
	return SensorState{}, false
}

// ray is one pending worklist entry: a beam about to travel from origin.
type ray struct {
	origin       Vec2
	dir          Direction
	intensity    float64
	polarization float64
	depth        int
}

// tracer holds the per-invocation state of one Trace call. Never shared.
type tracer struct {
	cfg        TraceConfig
	components []Component
	sensorIdx  map[string]int
	result     *TraceResult
}

// Trace walks every emitter's beam through the grid and returns the full
// beam-segment forest plus final sensor states. It is pure: identical inputs
// produce identical output, and no state survives between calls.
//
// overrides may be nil. The zero TraceConfig uses all defaults.
func Trace(components []Component, overrides Overrides, cfg TraceConfig) TraceResult {
	merged := make([]Component, len(components))
	for i, c := range components {
		merged[i] = overrides.apply(c)
	}

	result := TraceResult{}
	sensorIdx := make(map[string]int)
	for _, c := range merged {
		if c.Type == TypeSensor {
			sensorIdx[c.ID] = len(result.Sensors)
			result.Sensors = append(result.Sensors, SensorState{ID: c.ID})
		}
	}

	t := &tracer{
		cfg:        cfg.withDefaults(),
		components: merged,
		sensorIdx:  sensorIdx,
		result:     &result,
	}
	for _, c := range merged {
		if c.Type != TypeEmitter || c.Direction == DirNone {
			continue
		}
		t.run(ray{
			origin:       Vec2{c.X, c.Y},
			dir:          c.Direction,
			intensity:    EmitterIntensity,
			polarization: c.Polarization,
		})
	}
	return result
}

// run traces one emitter's beam tree with an explicit LIFO worklist. Children
// are pushed o-ray last so it pops first, preserving the depth-first emission
// order renderers expect (a segment always precedes its downstream segments).
func (t *tracer) run(start ray) {
	stack := []ray{start}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// Termination guards. Both are expected branch endings, not errors.
		if r.depth > t.cfg.MaxDepth || r.intensity < t.cfg.MinIntensity {
			continue
		}

		hit, found := t.nextHit(r)
		end := boundaryPoint(r.origin, r.dir)
		if found {
			end = Vec2{hit.X, hit.Y}
		}

		// The segment is recorded before the hit component's effect applies,
		// so the terminal boundary run is drawn too.
		t.result.Beams = append(t.result.Beams, BeamSegment{
			Start:        r.origin,
			End:          end,
			Intensity:    r.intensity,
			Polarization: r.polarization,
			Direction:    r.dir,
		})
		if !found {
			continue // ran off the grid; this branch is done
		}

		next := ray{origin: end, dir: r.dir, depth: r.depth + 1}
		switch hit.Type {
		case TypePolarizer:
			// Light exiting a polarizer is polarized along the filter axis.
			next.intensity = MalusIntensity(r.intensity, r.polarization, hit.FilterAngle)
			next.polarization = hit.FilterAngle
			stack = append(stack, next)

		case TypeMirror:
			reflected, ok := MirrorReflect(r.dir, hit.MirrorAngle)
			if !ok {
				continue // absorbed
			}
			next.dir = reflected
			next.intensity = Attenuate(r.intensity, t.cfg.MirrorLoss)
			next.polarization = r.polarization
			stack = append(stack, next)

		case TypeSplitter:
			oRay, eRay := BirefringentSplit(r.intensity, r.polarization)
			// e-ray pushed first so the o-ray is traced first.
			stack = append(stack, ray{
				origin:       end,
				dir:          ERayDirection(r.dir),
				intensity:    Attenuate(eRay, t.cfg.SplitterLoss),
				polarization: 90,
				depth:        r.depth + 1,
			})
			next.intensity = Attenuate(oRay, t.cfg.SplitterLoss)
			next.polarization = 0
			stack = append(stack, next)

		case TypeRotator:
			amount := hit.RotationAmount
			if amount == 0 {
				amount = DefaultRotationAmount
			}
			next.intensity = Attenuate(r.intensity, t.cfg.RotatorLoss)
			next.polarization = Rotate(r.polarization, amount)
			stack = append(stack, next)

		case TypeSensor:
			t.accumulate(hit, r)
			// Sensors do not re-emit light.

		default:
			// TypeSolid and anything unrecognized absorbs silently.
		}
	}
}

// accumulate folds one beam arrival into the sensor's state and re-evaluates
// activation. An id missing from the pre-seeded set is ignored: it signals an
// inconsistency in the caller's sensor enumeration, not a tracer fault.
func (t *tracer) accumulate(sensor Component, r ray) {
	idx, ok := t.sensorIdx[sensor.ID]
	if !ok {
		return
	}
	required := sensor.RequiredIntensity
	if required == 0 {
		required = DefaultRequiredIntensity
	}
	s := &t.result.Sensors[idx]
	s.ReceivedIntensity += r.intensity
	s.ReceivedPolarization = r.polarization
	s.BeamCount++
	s.Activated = SensorActivated(s.ReceivedIntensity, s.ReceivedPolarization, required, sensor.RequiredAngle, 0)
}

// nextHit scans all non-emitter components for the nearest one strictly ahead
// of the ray: displacement along the travel axis has the direction's sign,
// perpendicular offset is within AlignmentTolerance, and Manhattan distance
// exceeds MinDistance. Ties keep the earliest component in input order.
func (t *tracer) nextHit(r ray) (Component, bool) {
	v := r.dir.Vector()
	best := -1
	bestDist := math.Inf(1)
	for i := range t.components {
		c := &t.components[i]
		if c.Type == TypeEmitter {
			continue
		}
		dx := c.X - r.origin.X
		dy := c.Y - r.origin.Y
		var along, perp float64
		if v.X != 0 {
			along, perp = dx*v.X, dy
		} else {
			along, perp = dy*v.Y, dx
		}
		if along <= 0 {
			continue
		}
		if math.Abs(perp) > t.cfg.AlignmentTolerance {
			continue
		}
		dist := math.Abs(dx) + math.Abs(dy)
		if dist <= t.cfg.MinDistance {
			continue
		}
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best < 0 {
		return Component{}, false
	}
	return t.components[best], true
}

// boundaryPoint returns where a beam leaving origin in direction d crosses
// the grid boundary.
func boundaryPoint(origin Vec2, d Direction) Vec2 {
	switch d {
	case DirRight:
		return Vec2{GridMax, origin.Y}
	case DirLeft:
		return Vec2{GridMin, origin.Y}
	case DirUp:
		return Vec2{origin.X, GridMax}
	case DirDown:
		return Vec2{origin.X, GridMin}
	default:
		return origin
	}
}

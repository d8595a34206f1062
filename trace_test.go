package lumen

import (
	"math"
	"reflect"
	"testing"
)

const traceTol = 1e-6

func TestTraceFullTransmissionThroughAlignedPolarizer(t *testing.T) {
	comps := []Component{
		{ID: "e", Type: TypeEmitter, X: 0, Y: 0, Direction: DirRight, Polarization: 0},
		{ID: "p", Type: TypePolarizer, X: 10, Y: 0, FilterAngle: 0},
	}
	res := Trace(comps, nil, TraceConfig{})

	if len(res.Beams) != 2 {
		t.Fatalf("beams = %d, want 2 (emitter->polarizer, polarizer->boundary)", len(res.Beams))
	}
	first, second := res.Beams[0], res.Beams[1]
	if first.Start != (Vec2{0, 0}) || first.End != (Vec2{10, 0}) {
		t.Errorf("first segment %v -> %v, want (0,0) -> (10,0)", first.Start, first.End)
	}
	if second.Intensity != 100 {
		t.Errorf("post-polarizer intensity = %v, want 100 (full transmission)", second.Intensity)
	}
	if second.End != (Vec2{GridMax, 0}) {
		t.Errorf("second segment ends at %v, want boundary (100,0)", second.End)
	}
}

func TestTraceCrossedPolarizerBlocksBeam(t *testing.T) {
	comps := []Component{
		{ID: "e", Type: TypeEmitter, X: 0, Y: 0, Direction: DirRight, Polarization: 0},
		{ID: "p", Type: TypePolarizer, X: 10, Y: 0, FilterAngle: 90},
	}
	res := Trace(comps, nil, TraceConfig{})

	// Post-polarizer intensity is 0, below MinIntensity: no segment past it.
	if len(res.Beams) != 1 {
		t.Fatalf("beams = %d, want 1 (blocked at the polarizer)", len(res.Beams))
	}
}

func TestTraceSplitterBranches(t *testing.T) {
	comps := []Component{
		{ID: "e", Type: TypeEmitter, X: 0, Y: 0, Direction: DirRight, Polarization: 45},
		{ID: "s", Type: TypeSplitter, X: 10, Y: 0},
	}
	res := Trace(comps, nil, TraceConfig{})

	if len(res.Beams) != 3 {
		t.Fatalf("beams = %d, want 3 (incoming, o-ray, e-ray)", len(res.Beams))
	}
	oRay, eRay := res.Beams[1], res.Beams[2]

	// Depth-first order: the o-ray is emitted before the e-ray.
	if oRay.Direction != DirRight || oRay.Polarization != 0 {
		t.Errorf("o-ray direction/polarization = %v/%v, want right/0", oRay.Direction, oRay.Polarization)
	}
	if eRay.Direction != DirUp || eRay.Polarization != 90 {
		t.Errorf("e-ray direction/polarization = %v/%v, want up/90 (right deflects up)", eRay.Direction, eRay.Polarization)
	}
	// 45° split: 50/50, then 0.95 splitter loss on each branch.
	if math.Abs(oRay.Intensity-47.5) > traceTol {
		t.Errorf("o-ray intensity = %v, want 47.5", oRay.Intensity)
	}
	if math.Abs(eRay.Intensity-47.5) > traceTol {
		t.Errorf("e-ray intensity = %v, want 47.5", eRay.Intensity)
	}
	if eRay.End != (Vec2{10, GridMax}) {
		t.Errorf("e-ray ends at %v, want (10,100)", eRay.End)
	}
}

func TestTraceSensorAccumulatesAcrossBeams(t *testing.T) {
	// Two arms, each delivering 50 at polarization 0 (45° emitters through
	// 0° polarizers). Neither alone meets the threshold; together they do.
	zero := 0.0
	comps := []Component{
		{ID: "e1", Type: TypeEmitter, X: 0, Y: 50, Direction: DirRight, Polarization: 45},
		{ID: "p1", Type: TypePolarizer, X: 20, Y: 50, FilterAngle: 0},
		{ID: "e2", Type: TypeEmitter, X: 50, Y: 0, Direction: DirUp, Polarization: 45},
		{ID: "p2", Type: TypePolarizer, X: 50, Y: 20, FilterAngle: 0},
		{ID: "sense", Type: TypeSensor, X: 50, Y: 50, RequiredIntensity: 80, RequiredAngle: &zero},
	}
	res := Trace(comps, nil, TraceConfig{})

	s, ok := res.Sensor("sense")
	if !ok {
		t.Fatal("sensor state missing")
	}
	if s.BeamCount != 2 {
		t.Fatalf("BeamCount = %d, want 2", s.BeamCount)
	}
	if math.Abs(s.ReceivedIntensity-100) > traceTol {
		t.Errorf("ReceivedIntensity = %v, want 100", s.ReceivedIntensity)
	}
	if !s.Activated {
		t.Error("sensor should activate once cumulative intensity reaches 80")
	}
}

func TestTraceSensorBelowThresholdStaysOff(t *testing.T) {
	comps := []Component{
		{ID: "e", Type: TypeEmitter, X: 0, Y: 0, Direction: DirRight, Polarization: 45},
		{ID: "p", Type: TypePolarizer, X: 10, Y: 0, FilterAngle: 0}, // halves to 50
		{ID: "sense", Type: TypeSensor, X: 40, Y: 0, RequiredIntensity: 60},
	}
	res := Trace(comps, nil, TraceConfig{})
	s, _ := res.Sensor("sense")
	if s.Activated {
		t.Errorf("sensor activated at %v, threshold 60", s.ReceivedIntensity)
	}
	if s.BeamCount != 1 {
		t.Errorf("BeamCount = %d, want 1", s.BeamCount)
	}
}

func TestTraceSensorPolarizationLastWriteWins(t *testing.T) {
	// Arm 1 delivers polarization 0, arm 2 (later emitter) delivers 90.
	comps := []Component{
		{ID: "e1", Type: TypeEmitter, X: 0, Y: 50, Direction: DirRight, Polarization: 0},
		{ID: "e2", Type: TypeEmitter, X: 50, Y: 0, Direction: DirUp, Polarization: 90},
		{ID: "sense", Type: TypeSensor, X: 50, Y: 50, RequiredIntensity: 50},
	}
	res := Trace(comps, nil, TraceConfig{})
	s, _ := res.Sensor("sense")
	if s.BeamCount != 2 {
		t.Fatalf("BeamCount = %d, want 2", s.BeamCount)
	}
	if s.ReceivedPolarization != 90 {
		t.Errorf("ReceivedPolarization = %v, want 90 (last beam wins)", s.ReceivedPolarization)
	}
	if math.Abs(s.ReceivedIntensity-200) > traceTol {
		t.Errorf("ReceivedIntensity = %v, want 200 (cumulative)", s.ReceivedIntensity)
	}
}

func TestTraceMirrorReflectsAndAttenuates(t *testing.T) {
	comps := []Component{
		{ID: "e", Type: TypeEmitter, X: 0, Y: 0, Direction: DirRight, Polarization: 30},
		{ID: "m", Type: TypeMirror, X: 20, Y: 0, MirrorAngle: 45},
	}
	res := Trace(comps, nil, TraceConfig{})

	if len(res.Beams) != 2 {
		t.Fatalf("beams = %d, want 2", len(res.Beams))
	}
	reflected := res.Beams[1]
	if reflected.Direction != DirUp {
		t.Errorf("reflected direction = %v, want up", reflected.Direction)
	}
	if math.Abs(reflected.Intensity-95) > traceTol {
		t.Errorf("reflected intensity = %v, want 95", reflected.Intensity)
	}
	if reflected.Polarization != 30 {
		t.Errorf("reflection changed polarization to %v, want 30", reflected.Polarization)
	}
}

func TestTraceMirrorOutsideBandAbsorbs(t *testing.T) {
	comps := []Component{
		{ID: "e", Type: TypeEmitter, X: 0, Y: 0, Direction: DirRight, Polarization: 0},
		{ID: "m", Type: TypeMirror, X: 20, Y: 0, MirrorAngle: 10},
	}
	res := Trace(comps, nil, TraceConfig{})
	if len(res.Beams) != 1 {
		t.Fatalf("beams = %d, want 1 (absorbed at the mirror)", len(res.Beams))
	}
}

func TestTraceRotatorShiftsPolarization(t *testing.T) {
	comps := []Component{
		{ID: "e", Type: TypeEmitter, X: 0, Y: 0, Direction: DirRight, Polarization: 160},
		{ID: "r", Type: TypeRotator, X: 20, Y: 0, RotationAmount: 30},
	}
	res := Trace(comps, nil, TraceConfig{})

	out := res.Beams[1]
	if math.Abs(out.Polarization-10) > traceTol {
		t.Errorf("rotated polarization = %v, want 10 (160+30 mod 180)", out.Polarization)
	}
	if math.Abs(out.Intensity-98) > traceTol {
		t.Errorf("post-rotator intensity = %v, want 98", out.Intensity)
	}
}

func TestTraceRotatorDefaultAmount(t *testing.T) {
	comps := []Component{
		{ID: "e", Type: TypeEmitter, X: 0, Y: 0, Direction: DirRight, Polarization: 0},
		{ID: "r", Type: TypeRotator, X: 20, Y: 0}, // RotationAmount 0 -> default 45
	}
	res := Trace(comps, nil, TraceConfig{})
	if got := res.Beams[1].Polarization; math.Abs(got-45) > traceTol {
		t.Errorf("polarization = %v, want 45 (default rotation)", got)
	}
}

func TestTraceSolidAbsorbs(t *testing.T) {
	comps := []Component{
		{ID: "e", Type: TypeEmitter, X: 0, Y: 0, Direction: DirRight, Polarization: 0},
		{ID: "wall", Type: TypeSolid, X: 30, Y: 0},
	}
	res := Trace(comps, nil, TraceConfig{})
	if len(res.Beams) != 1 {
		t.Fatalf("beams = %d, want 1 (absorbed by the solid)", len(res.Beams))
	}
	if res.Beams[0].End != (Vec2{30, 0}) {
		t.Errorf("segment ends at %v, want the solid's cell (30,0)", res.Beams[0].End)
	}
}

func TestTraceUnknownTypeAbsorbs(t *testing.T) {
	comps := []Component{
		{ID: "e", Type: TypeEmitter, X: 0, Y: 0, Direction: DirRight, Polarization: 0},
		{ID: "??", Type: ComponentType(99), X: 30, Y: 0},
	}
	res := Trace(comps, nil, TraceConfig{})
	if len(res.Beams) != 1 {
		t.Fatalf("beams = %d, want 1 (unknown types absorb silently)", len(res.Beams))
	}
}

func TestTraceNoComponentsRunsToBoundary(t *testing.T) {
	comps := []Component{
		{ID: "e", Type: TypeEmitter, X: 25, Y: 40, Direction: DirLeft, Polarization: 0},
	}
	res := Trace(comps, nil, TraceConfig{})
	if len(res.Beams) != 1 {
		t.Fatalf("beams = %d, want 1", len(res.Beams))
	}
	if res.Beams[0].End != (Vec2{GridMin, 40}) {
		t.Errorf("segment ends at %v, want boundary (0,40)", res.Beams[0].End)
	}
}

func TestTraceEmitterWithoutDirectionSkipped(t *testing.T) {
	comps := []Component{
		{ID: "e", Type: TypeEmitter, X: 0, Y: 0, Polarization: 0}, // DirNone
	}
	res := Trace(comps, nil, TraceConfig{})
	if len(res.Beams) != 0 {
		t.Fatalf("beams = %d, want 0 (emitter has no resolved direction)", len(res.Beams))
	}
}

func TestTraceEmittersAreNotHitTargets(t *testing.T) {
	comps := []Component{
		{ID: "e1", Type: TypeEmitter, X: 0, Y: 0, Direction: DirRight, Polarization: 0},
		{ID: "e2", Type: TypeEmitter, X: 50, Y: 0, Direction: DirUp, Polarization: 0},
	}
	res := Trace(comps, nil, TraceConfig{})
	// e1's beam passes straight through e2's cell to the boundary.
	if res.Beams[0].End != (Vec2{GridMax, 0}) {
		t.Errorf("beam through emitter cell ends at %v, want (100,0)", res.Beams[0].End)
	}
}

func TestTraceAlignmentTolerance(t *testing.T) {
	aligned := []Component{
		{ID: "e", Type: TypeEmitter, X: 0, Y: 0, Direction: DirRight, Polarization: 0},
		{ID: "wall", Type: TypeSolid, X: 30, Y: 8}, // exactly at the tolerance edge
	}
	res := Trace(aligned, nil, TraceConfig{})
	if len(res.Beams) != 1 || res.Beams[0].End != (Vec2{30, 8}) {
		t.Fatalf("component at perpendicular offset 8 should be hit; beams = %+v", res.Beams)
	}

	misaligned := []Component{
		{ID: "e", Type: TypeEmitter, X: 0, Y: 0, Direction: DirRight, Polarization: 0},
		{ID: "wall", Type: TypeSolid, X: 30, Y: 8.1},
	}
	res = Trace(misaligned, nil, TraceConfig{})
	if res.Beams[0].End != (Vec2{GridMax, 0}) {
		t.Errorf("component at offset 8.1 should be missed; beam ends at %v", res.Beams[0].End)
	}
}

func TestTraceMinDistanceExcludesAdjacentCells(t *testing.T) {
	tooClose := []Component{
		{ID: "e", Type: TypeEmitter, X: 0, Y: 0, Direction: DirRight, Polarization: 0},
		{ID: "wall", Type: TypeSolid, X: 2, Y: 0}, // Manhattan distance exactly 2
	}
	res := Trace(tooClose, nil, TraceConfig{})
	if res.Beams[0].End != (Vec2{GridMax, 0}) {
		t.Errorf("component at distance 2 should be excluded; beam ends at %v", res.Beams[0].End)
	}

	farEnough := []Component{
		{ID: "e", Type: TypeEmitter, X: 0, Y: 0, Direction: DirRight, Polarization: 0},
		{ID: "wall", Type: TypeSolid, X: 3, Y: 0},
	}
	res = Trace(farEnough, nil, TraceConfig{})
	if res.Beams[0].End != (Vec2{3, 0}) {
		t.Errorf("component at distance 3 should be hit; beam ends at %v", res.Beams[0].End)
	}
}

func TestTraceNearestHitWinsAndTiesKeepInputOrder(t *testing.T) {
	comps := []Component{
		{ID: "e", Type: TypeEmitter, X: 0, Y: 0, Direction: DirRight, Polarization: 0},
		{ID: "far", Type: TypeSolid, X: 60, Y: 0},
		{ID: "tieA", Type: TypeSolid, X: 10, Y: 3}, // Manhattan 13
		{ID: "tieB", Type: TypeSolid, X: 10, Y: -3}, // Manhattan 13
	}
	res := Trace(comps, nil, TraceConfig{})
	if res.Beams[0].End != (Vec2{10, 3}) {
		t.Errorf("tie should keep input order; beam ends at %v, want (10,3)", res.Beams[0].End)
	}
}

func TestTraceDepthBoundOnMirrorCycle(t *testing.T) {
	// Emitter sits on the bottom edge of a closed mirror rectangle, so the
	// beam loops forever absent the guards.
	cycle := []Component{
		{ID: "e", Type: TypeEmitter, X: 20, Y: 10, Direction: DirRight, Polarization: 0},
		{ID: "m1", Type: TypeMirror, X: 50, Y: 10, MirrorAngle: 45},  // right -> up
		{ID: "m2", Type: TypeMirror, X: 50, Y: 60, MirrorAngle: 135}, // up -> left
		{ID: "m3", Type: TypeMirror, X: 10, Y: 60, MirrorAngle: 45},  // left -> down
		{ID: "m4", Type: TypeMirror, X: 10, Y: 10, MirrorAngle: 135}, // down -> right
	}

	// With the default 0.95 mirror loss, intensity is still well above
	// MinIntensity at depth 20, so the depth guard is what terminates.
	res := Trace(cycle, nil, TraceConfig{})
	if want := DefaultMaxDepth + 1; len(res.Beams) != want {
		t.Errorf("beams = %d, want %d (depths 0..MaxDepth)", len(res.Beams), want)
	}

	res = Trace(cycle, nil, TraceConfig{MaxDepth: 5})
	if len(res.Beams) != 6 {
		t.Errorf("beams = %d with MaxDepth 5, want 6", len(res.Beams))
	}
}

func TestTraceIntensityBoundOnLossyCycle(t *testing.T) {
	cycle := []Component{
		{ID: "e", Type: TypeEmitter, X: 20, Y: 10, Direction: DirRight, Polarization: 0},
		{ID: "m1", Type: TypeMirror, X: 50, Y: 10, MirrorAngle: 45},
		{ID: "m2", Type: TypeMirror, X: 50, Y: 60, MirrorAngle: 135},
		{ID: "m3", Type: TypeMirror, X: 10, Y: 60, MirrorAngle: 45},
		{ID: "m4", Type: TypeMirror, X: 10, Y: 10, MirrorAngle: 135},
	}
	// Halving per bounce: 100·0.5^k < 1 at k = 7, so depths 0..6 survive.
	res := Trace(cycle, nil, TraceConfig{MirrorLoss: 0.5, MaxDepth: 1000})
	if len(res.Beams) != 7 {
		t.Errorf("beams = %d, want 7 (intensity guard prunes at depth 7)", len(res.Beams))
	}
}

func TestTraceOverridesChangeOutcome(t *testing.T) {
	comps := []Component{
		{ID: "e", Type: TypeEmitter, X: 0, Y: 0, Direction: DirRight, Polarization: 0},
		{ID: "p", Type: TypePolarizer, X: 10, Y: 0, FilterAngle: 0},
	}
	blocked := 90.0
	res := Trace(comps, Overrides{"p": {FilterAngle: &blocked}}, TraceConfig{})
	if len(res.Beams) != 1 {
		t.Fatalf("override to 90° should block the beam; beams = %d", len(res.Beams))
	}
	// The static component list is untouched: tracing again without the
	// override restores full transmission.
	res = Trace(comps, nil, TraceConfig{})
	if len(res.Beams) != 2 {
		t.Fatalf("static layout should transmit; beams = %d", len(res.Beams))
	}
}

func TestTraceDeterministic(t *testing.T) {
	comps := []Component{
		{ID: "e", Type: TypeEmitter, X: 0, Y: 30, Direction: DirRight, Polarization: 45},
		{ID: "s", Type: TypeSplitter, X: 30, Y: 30},
		{ID: "m", Type: TypeMirror, X: 70, Y: 30, MirrorAngle: 45},
		{ID: "sense", Type: TypeSensor, X: 30, Y: 80},
	}
	a := Trace(comps, nil, TraceConfig{})
	b := Trace(comps, nil, TraceConfig{})
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs must produce identical output")
	}
}

func TestTraceSensorStatesPreseededInInputOrder(t *testing.T) {
	comps := []Component{
		{ID: "s2", Type: TypeSensor, X: 80, Y: 80},
		{ID: "e", Type: TypeEmitter, X: 0, Y: 0, Direction: DirRight, Polarization: 0},
		{ID: "s1", Type: TypeSensor, X: 50, Y: 0},
	}
	res := Trace(comps, nil, TraceConfig{})
	if len(res.Sensors) != 2 {
		t.Fatalf("sensors = %d, want 2", len(res.Sensors))
	}
	if res.Sensors[0].ID != "s2" || res.Sensors[1].ID != "s1" {
		t.Errorf("sensor order = %q, %q; want input order s2, s1", res.Sensors[0].ID, res.Sensors[1].ID)
	}
	// s2 is never hit: zero state with no polarization reading.
	if res.Sensors[0].BeamCount != 0 || res.Sensors[0].Activated {
		t.Errorf("unhit sensor state = %+v, want zero", res.Sensors[0])
	}
}

func TestTraceUnknownSensorIDIgnored(t *testing.T) {
	// accumulate with an id absent from the pre-seeded set is a no-op.
	tr := &tracer{
		cfg:       TraceConfig{}.withDefaults(),
		sensorIdx: map[string]int{},
		result:    &TraceResult{},
	}
	tr.accumulate(Component{ID: "ghost", Type: TypeSensor}, ray{intensity: 100})
	if len(tr.result.Sensors) != 0 {
		t.Error("unknown sensor id must be silently ignored")
	}
}

func TestTraceConfigDefaults(t *testing.T) {
	cfg := TraceConfig{}.withDefaults()
	if cfg.MaxDepth != DefaultMaxDepth || cfg.MinIntensity != DefaultMinIntensity ||
		cfg.MirrorLoss != DefaultMirrorLoss || cfg.SplitterLoss != DefaultSplitterLoss ||
		cfg.RotatorLoss != DefaultRotatorLoss || cfg.AlignmentTolerance != DefaultAlignmentTolerance ||
		cfg.MinDistance != DefaultMinDistance {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	cfg = TraceConfig{MaxDepth: 3, MirrorLoss: 0.5}.withDefaults()
	if cfg.MaxDepth != 3 || cfg.MirrorLoss != 0.5 {
		t.Error("explicit fields must be preserved")
	}
	if cfg.SplitterLoss != DefaultSplitterLoss {
		t.Error("unset fields must still be defaulted")
	}
}

func TestTraceResultSensorLookup(t *testing.T) {
	res := TraceResult{Sensors: []SensorState{{ID: "a"}, {ID: "b", Activated: true}}}
	s, ok := res.Sensor("b")
	if !ok || !s.Activated {
		t.Errorf("Sensor(b) = %+v, %v", s, ok)
	}
	if _, ok := res.Sensor("missing"); ok {
		t.Error("Sensor(missing) should report not found")
	}
}

package lumen

// Level is one puzzle: a starting layout plus the sensors that must all be
// activated to solve it. The goal checker consumes trace results; it never
// traces by itself, so games control when retracing happens.
type Level struct {
	// Name is the display name of the puzzle.
	Name string
	// Components is the starting layout.
	Components []Component
	// Goals lists the sensor IDs that must all be activated.
	Goals []string
}

// Solved reports whether every goal sensor is activated in the given result.
// A level with no goals is never solved; a goal id missing from the result
// counts as not activated.
func (l Level) Solved(result TraceResult) bool {
	if len(l.Goals) == 0 {
		return false
	}
	for _, id := range l.Goals {
		s, ok := result.Sensor(id)
		if !ok || !s.Activated {
			return false
		}
	}
	return true
}

// Trace runs the tracer on the level's components.
func (l Level) Trace(overrides Overrides, cfg TraceConfig) TraceResult {
	return Trace(l.Components, overrides, cfg)
}

// DemoLevels returns the built-in demonstration puzzles. Each call returns
// fresh copies, so callers may mutate the layouts freely.
func DemoLevels() []Level {
	angle90 := 90.0
	return []Level{
		{
			Name: "First Light",
			Components: []Component{
				{ID: "laser", Type: TypeEmitter, X: 10, Y: 50, Direction: DirRight, Polarization: 0},
				{ID: "filter", Type: TypePolarizer, X: 45, Y: 50, FilterAngle: 30},
				{ID: "detector", Type: TypeSensor, X: 80, Y: 50, RequiredIntensity: 50},
			},
			Goals: []string{"detector"},
		},
		{
			Name: "Split Decision",
			Components: []Component{
				{ID: "laser", Type: TypeEmitter, X: 10, Y: 30, Direction: DirRight, Polarization: 45},
				{ID: "crystal", Type: TypeSplitter, X: 50, Y: 30},
				{ID: "east", Type: TypeSensor, X: 85, Y: 30, RequiredIntensity: 40},
				{ID: "north", Type: TypeSensor, X: 50, Y: 75, RequiredIntensity: 40, RequiredAngle: &angle90},
			},
			Goals: []string{"east", "north"},
		},
		{
			Name: "Hall of Mirrors",
			Components: []Component{
				{ID: "laser", Type: TypeEmitter, X: 10, Y: 20, Direction: DirRight, Polarization: 0},
				{ID: "m1", Type: TypeMirror, X: 70, Y: 20, MirrorAngle: 45},
				{ID: "m2", Type: TypeMirror, X: 70, Y: 70, MirrorAngle: 135},
				{ID: "plate", Type: TypeRotator, X: 40, Y: 70, RotationAmount: 45},
				{ID: "detector", Type: TypeSensor, X: 15, Y: 70, RequiredIntensity: 50},
			},
			Goals: []string{"detector"},
		},
	}
}

package lumen

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D point or displacement in grid space.
//
// Grid space has its origin at the bottom-left with Y increasing upward
// (the physics convention). Renderers flip to screen space themselves;
// [BeamLayer] does this for you.
type Vec2 struct {
	X, Y float64
}

// Grid extent. Beams that hit no component travel to this boundary and stop.
const (
	GridMin = 0.0
	GridMax = 100.0
)

// Direction is one of the four axis-aligned beam travel directions.
// The zero value, DirNone, means "no direction": an emitter whose direction
// is DirNone produces no trace.
type Direction uint8

const (
	DirNone  Direction = iota // unresolved; emitters with DirNone are skipped
	DirUp                     // +Y
	DirDown                   // -Y
	DirLeft                   // -X
	DirRight                  // +X
)

// Vector returns the unit displacement for the direction.
// DirNone returns the zero vector.
func (d Direction) Vector() Vec2 {
	switch d {
	case DirUp:
		return Vec2{0, 1}
	case DirDown:
		return Vec2{0, -1}
	case DirLeft:
		return Vec2{-1, 0}
	case DirRight:
		return Vec2{1, 0}
	default:
		return Vec2{}
	}
}

// Inverse returns the opposite direction. DirNone inverts to itself.
func (d Direction) Inverse() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

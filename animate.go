package lumen

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// BeamReveal animates a traced beam forest growing outward from its emitters.
// It tweens a single progress value over the total path length and clips the
// segment list accordingly; because segments are in depth-first emission
// order, the reveal always looks causal (no downstream run appears before
// the run feeding it).
//
// Call Update(dt) each frame and hand Visible() to [BeamLayer.Redraw].
// There is no global animation manager — users call Update themselves.
type BeamReveal struct {
	beams   []BeamSegment
	lengths []float64
	total   float64
	tween   *gween.Tween
	clipped []BeamSegment // reused between Visible calls
	// Progress is the revealed fraction of the total path length, in [0, 1].
	Progress float64
	// Done reports whether the reveal has finished.
	Done bool
}

// NewBeamReveal creates a reveal over the given segments lasting duration
// seconds. A nil easing function means ease.Linear. The segment slice is
// retained and must not be mutated while the reveal is live.
func NewBeamReveal(beams []BeamSegment, duration float32, fn ease.TweenFunc) *BeamReveal {
	if fn == nil {
		fn = ease.Linear
	}
	r := &BeamReveal{
		beams:   beams,
		lengths: make([]float64, len(beams)),
		tween:   gween.New(0, 1, duration, fn),
	}
	for i := range beams {
		l := math.Abs(beams[i].End.X-beams[i].Start.X) + math.Abs(beams[i].End.Y-beams[i].Start.Y)
		r.lengths[i] = l
		r.total += l
	}
	if len(beams) == 0 || r.total == 0 {
		r.Progress = 1
		r.Done = true
	}
	return r
}

// Update advances the reveal by dt seconds.
func (r *BeamReveal) Update(dt float32) {
	if r.Done {
		return
	}
	val, finished := r.tween.Update(dt)
	r.Progress = float64(val)
	r.Done = finished
}

// Visible returns the currently revealed portion of the beam forest: whole
// segments up to the progress point plus one partially grown segment at the
// frontier. The returned slice is reused between calls; copy it if you need
// to keep it.
func (r *BeamReveal) Visible() []BeamSegment {
	if r.Done {
		return r.beams
	}
	budget := r.Progress * r.total
	r.clipped = r.clipped[:0]
	for i, b := range r.beams {
		l := r.lengths[i]
		if budget >= l {
			r.clipped = append(r.clipped, b)
			budget -= l
			continue
		}
		if budget > 0 && l > 0 {
			frac := budget / l
			partial := b
			partial.End = Vec2{
				X: b.Start.X + (b.End.X-b.Start.X)*frac,
				Y: b.Start.Y + (b.End.Y-b.Start.Y)*frac,
			}
			r.clipped = append(r.clipped, partial)
		}
		break
	}
	return r.clipped
}

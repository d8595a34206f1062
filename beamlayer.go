package lumen

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// BeamLayer renders a traced beam forest into an offscreen texture. Segments
// are drawn as additive-blended quads, colored by their polarization class
// and faded by intensity, so crossing beams brighten where they overlap.
// Activated sensors get a feathered glow circle.
//
// The layer maps grid space (0..GridMax, Y up) onto its pixel area with the
// Y axis flipped to screen convention. Display the result by drawing Image()
// into your frame, typically over the board.
type BeamLayer struct {
	rt        *RenderTexture
	scale     float64 // pixels per grid unit
	beamWidth float64 // beam thickness in pixels at emitter intensity
	glowCache map[int]*ebiten.Image
	imgOp     ebiten.DrawImageOptions
}

// NewBeamLayer creates a beam layer covering (w x h) pixels. The grid extent
// is scaled to fit the shorter dimension.
func NewBeamLayer(w, h int) *BeamLayer {
	short := w
	if h < short {
		short = h
	}
	return &BeamLayer{
		rt:        NewRenderTexture(w, h),
		scale:     float64(short) / (GridMax - GridMin),
		beamWidth: 4,
	}
}

// Image returns the texture holding the rendered beams.
func (bl *BeamLayer) Image() *ebiten.Image {
	return bl.rt.Image()
}

// RenderTexture returns the underlying RenderTexture.
func (bl *BeamLayer) RenderTexture() *RenderTexture {
	return bl.rt
}

// SetBeamWidth sets the thickness, in pixels, of a beam at full emitter
// intensity. Dimmer beams are drawn proportionally thinner.
func (bl *BeamLayer) SetBeamWidth(w float64) {
	bl.beamWidth = w
}

// BeamWidth returns the current full-intensity beam thickness in pixels.
func (bl *BeamLayer) BeamWidth() float64 {
	return bl.beamWidth
}

// GridToScreen converts a grid-space point to pixel coordinates on the layer,
// flipping Y to screen convention.
func (bl *BeamLayer) GridToScreen(p Vec2) (x, y float64) {
	return (p.X - GridMin) * bl.scale, float64(bl.rt.Height()) - (p.Y-GridMin)*bl.scale
}

// Redraw clears the texture and draws the given beam segments. Pass
// result.Beams for the full trace, or a clipped slice from [BeamReveal] for
// a partially revealed one.
func (bl *BeamLayer) Redraw(beams []BeamSegment) {
	bl.rt.Clear()
	for i := range beams {
		bl.drawSegment(&beams[i])
	}
}

// drawSegment draws one beam as an oriented quad of WhitePixel.
func (bl *BeamLayer) drawSegment(b *BeamSegment) {
	ax, ay := bl.GridToScreen(b.Start)
	bx, by := bl.GridToScreen(b.End)
	dx, dy := bx-ax, by-ay
	length := math.Hypot(dx, dy)
	if length <= 0 {
		return
	}

	// Fraction of full emitter intensity drives both alpha and thickness.
	frac := clamp01(b.Intensity / EmitterIntensity)
	width := bl.beamWidth * (0.35 + 0.65*math.Sqrt(frac))
	alpha := 0.25 + 0.75*frac
	c := ClassifyPolarization(b.Polarization).Color()

	op := &bl.imgOp
	op.GeoM.Reset()
	op.GeoM.Scale(length, width)
	op.GeoM.Translate(0, -width/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(ax, ay)
	op.ColorScale.Reset()
	op.ColorScale.Scale(
		float32(c.R*alpha),
		float32(c.G*alpha),
		float32(c.B*alpha),
		float32(alpha),
	)
	op.Blend = BlendAdd.EbitenBlend()
	bl.rt.Image().DrawImage(WhitePixel, op)
}

// DrawSensorGlows draws a feathered glow circle over every activated sensor.
// components supplies the sensor positions; states that never received a beam
// or did not activate are skipped. Call after Redraw, not before — Redraw
// clears the texture.
func (bl *BeamLayer) DrawSensorGlows(sensors []SensorState, components []Component) {
	for _, s := range sensors {
		if !s.Activated {
			continue
		}
		comp, ok := findComponent(components, s.ID)
		if !ok {
			continue
		}
		bl.drawGlow(comp, s)
	}
}

func (bl *BeamLayer) drawGlow(comp Component, s SensorState) {
	radius := bl.beamWidth * 4
	img := bl.getGlow(radius)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	cx, cy := bl.GridToScreen(Vec2{comp.X, comp.Y})
	c := ClassifyPolarization(s.ReceivedPolarization).Color()

	op := &bl.imgOp
	op.GeoM.Reset()
	op.GeoM.Translate(cx-float64(w)/2, cy-float64(h)/2)
	op.ColorScale.Reset()
	op.ColorScale.Scale(float32(c.R), float32(c.G), float32(c.B), 1)
	op.Blend = BlendAdd.EbitenBlend()
	bl.rt.Image().DrawImage(img, op)
}

// getGlow returns a cached glow texture for the given radius, generating one
// if it doesn't exist. Radius is quantized to the nearest integer to avoid
// generating separate textures for tiny differences.
func (bl *BeamLayer) getGlow(radius float64) *ebiten.Image {
	key := int(math.Ceil(radius))
	if key < 1 {
		key = 1
	}
	if bl.glowCache == nil {
		bl.glowCache = make(map[int]*ebiten.Image)
	}
	if img, ok := bl.glowCache[key]; ok {
		return img
	}
	img := generateGlow(float64(key))
	bl.glowCache[key] = img
	return img
}

// Dispose releases the render texture and cached glow images. The BeamLayer
// should not be used afterwards.
func (bl *BeamLayer) Dispose() {
	for _, img := range bl.glowCache {
		img.Deallocate()
	}
	bl.glowCache = nil
	bl.rt.Dispose()
}

// findComponent returns the component with the given id.
func findComponent(components []Component, id string) (Component, bool) {
	for _, c := range components {
		if c.ID == id {
			return c, true
		}
	}
	return Component{}, false
}

// generateGlow creates a feathered white circle image with the given radius.
// Uses smoothstep falloff and premultiplied alpha.
func generateGlow(radius float64) *ebiten.Image {
	size := int(math.Ceil(radius * 2))
	if size < 1 {
		size = 1
	}
	img := ebiten.NewImage(size, size)
	pix := make([]byte, size*size*4)

	cx, cy := radius, radius
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			dist := math.Sqrt(dx*dx+dy*dy) / radius

			var alpha float64
			if dist < 1 {
				// smoothstep: 1 at center, 0 at edge
				t := 1 - dist
				alpha = t * t * (3 - 2*t)
			}

			a := uint8(alpha * 255)
			off := (y*size + x) * 4
			pix[off+0] = a // premultiplied white
			pix[off+1] = a
			pix[off+2] = a
			pix[off+3] = a
		}
	}
	img.WritePixels(pix)
	return img
}

// Package lumen is the light-path tracing engine behind a polarized-light
// construction puzzle: players place optical elements on a grid, and lumen
// deterministically computes where every beam travels and which sensors
// light up.
//
// The engine core is pure and renderer-agnostic. [Trace] takes a snapshot of
// placed components (plus live attribute overrides and an optional config)
// and returns the full beam-segment forest and final sensor states:
//
//	result := lumen.Trace(components, overrides, lumen.TraceConfig{})
//	for _, b := range result.Beams {
//		// draw b.Start -> b.End at b.Intensity
//	}
//
// # Physics model
//
// Polarization is a single orientation angle, meaningful modulo 180 degrees.
// Polarizers transmit by Malus's law (cos² of the angle difference),
// birefringent splitters divide a beam into an ordinary and an extraordinary
// ray whose intensities always sum to the input, wave-plate rotators shift
// the polarization axis, and mirrors reflect at the two canonical 45°/135°
// orientations. See [MalusTransmission], [BirefringentSplit], [Rotate], and
// [MirrorReflect].
//
// # Rendering and animation
//
// [BeamLayer] renders a trace result into an offscreen [Ebitengine] texture
// using additive blending, coloring each segment by its polarization class.
// [BeamReveal] animates the beam forest growing outward from its emitters
// using [gween] tweens. Both are presentation conveniences; the core never
// imports them.
//
// # World model
//
// lumen does not own the grid. The surrounding game supplies the component
// list; the nested module github.com/phanxgames/lumen/ecs provides a
// Donburi-backed reference store for games built on an ECS.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package lumen

// Package ecs provides a Donburi-backed world model for lumen.
//
// The primary type is [Board]: it stores optical components as [Donburi]
// entities, tracks live attribute overrides, and runs memoized traces over a
// stable snapshot of the world. Whenever a trace flips a sensor's activation
// state, the change is published to [SensorEventType] as a typed Donburi
// event — subscribe to it in your ECS systems:
//
//	board := ecs.NewBoard(world)
//	board.Place(lumen.Component{ID: "laser", Type: lumen.TypeEmitter, ...})
//	ecs.SensorEventType.Subscribe(world, onSensorChange)
//	result := board.Trace()
//	ecs.SensorEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs

package ecs

import (
	"github.com/phanxgames/lumen"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// OpticalComponent is the Donburi component type holding one lumen.Component.
var OpticalComponent = donburi.NewComponentType[lumen.Component]()

// SensorEvent is published to SensorEventType whenever a trace run through
// [Board.Trace] changes a sensor's activation state.
type SensorEvent struct {
	// State is the sensor's full state after the trace.
	State lumen.SensorState
}

// SensorEventType is the Donburi event type for sensor activation changes.
// Subscribe to this in your ECS systems to react to detectors switching on
// or off; remember to call ProcessEvents after tracing.
var SensorEventType = events.NewEventType[SensorEvent]()

// Board is a Donburi-backed store of optical components: the "world model"
// side of the engine. It owns the placed elements and their live overrides,
// snapshots them in placement order, and traces through a [lumen.TraceCache]
// so unchanged layouts don't retrace.
type Board struct {
	world      donburi.World
	query      *donburi.Query
	order      []donburi.Entity // placement order; queries don't guarantee one
	overrides  lumen.Overrides
	config     lumen.TraceConfig
	cache      *lumen.TraceCache
	lastActive map[string]bool
}

// NewBoard creates a Board over the given Donburi world.
func NewBoard(world donburi.World) *Board {
	return &Board{
		world:      world,
		query:      donburi.NewQuery(filter.Contains(OpticalComponent)),
		overrides:  lumen.Overrides{},
		cache:      lumen.NewTraceCache(0),
		lastActive: map[string]bool{},
	}
}

// SetConfig replaces the trace configuration used by Trace.
func (b *Board) SetConfig(cfg lumen.TraceConfig) {
	b.config = cfg
}

// Place adds a component to the board and returns its entity.
func (b *Board) Place(c lumen.Component) donburi.Entity {
	entity := b.world.Create(OpticalComponent)
	entry := b.world.Entry(entity)
	donburi.SetValue(entry, OpticalComponent, c)
	b.order = append(b.order, entity)
	return entity
}

// Remove deletes the component with the given id. It reports whether a
// component was found.
func (b *Board) Remove(id string) bool {
	for i, entity := range b.order {
		if !b.world.Valid(entity) {
			continue
		}
		entry := b.world.Entry(entity)
		if donburi.Get[lumen.Component](entry, OpticalComponent).ID != id {
			continue
		}
		b.world.Remove(entity)
		b.order = append(b.order[:i], b.order[i+1:]...)
		delete(b.overrides, id)
		delete(b.lastActive, id)
		return true
	}
	return false
}

// SetOverride installs live attribute values for a component. Overrides merge
// over the stored definition at trace time, so in-place edits don't rewrite
// the entity.
func (b *Board) SetOverride(id string, ov lumen.Override) {
	b.overrides[id] = ov
}

// ClearOverride removes a component's live override.
func (b *Board) ClearOverride(id string) {
	delete(b.overrides, id)
}

// Components returns a snapshot of all placed components in placement order.
func (b *Board) Components() []lumen.Component {
	comps := make([]lumen.Component, 0, len(b.order))
	for _, entity := range b.order {
		if !b.world.Valid(entity) {
			continue
		}
		entry := b.world.Entry(entity)
		comps = append(comps, *donburi.Get[lumen.Component](entry, OpticalComponent))
	}
	return comps
}

// Len returns the number of placed components.
func (b *Board) Len() int {
	return b.query.Count(b.world)
}

// Trace snapshots the board, runs the (memoized) tracer, and publishes a
// SensorEvent for every sensor whose activation state changed since the last
// Trace call. Events are queued — call SensorEventType.ProcessEvents (or
// events.ProcessAllEvents) afterwards to deliver them.
func (b *Board) Trace() lumen.TraceResult {
	result := b.cache.Trace(b.Components(), b.overrides, b.config)
	for _, s := range result.Sensors {
		if b.lastActive[s.ID] != s.Activated {
			b.lastActive[s.ID] = s.Activated
			SensorEventType.Publish(b.world, SensorEvent{State: s})
		}
	}
	return result
}

package lumen

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// TraceCache memoizes Trace results. Tracing is deterministic — identical
// components, overrides, and config always yield identical output — so a
// digest of the merged inputs is a sound cache key. Useful when the UI
// re-renders more often than the layout actually changes.
//
// Cached results share their slices between callers and MUST NOT be mutated.
// A TraceCache is not safe for concurrent use.
type TraceCache struct {
	capacity int
	entries  map[uint64]TraceResult
	order    []uint64 // insertion order for FIFO eviction
}

// NewTraceCache creates a cache holding up to capacity trace results.
// A capacity <= 0 defaults to 16.
func NewTraceCache(capacity int) *TraceCache {
	if capacity <= 0 {
		capacity = 16
	}
	return &TraceCache{
		capacity: capacity,
		entries:  make(map[uint64]TraceResult),
	}
}

// Trace returns the memoized result for the given inputs, running the tracer
// on a miss. Semantics are identical to the package-level [Trace].
func (tc *TraceCache) Trace(components []Component, overrides Overrides, cfg TraceConfig) TraceResult {
	key := traceDigest(components, overrides, cfg.withDefaults())
	if res, ok := tc.entries[key]; ok {
		return res
	}
	res := Trace(components, overrides, cfg)
	if len(tc.order) >= tc.capacity {
		oldest := tc.order[0]
		tc.order = tc.order[1:]
		delete(tc.entries, oldest)
	}
	tc.entries[key] = res
	tc.order = append(tc.order, key)
	return res
}

// Len returns the number of cached results.
func (tc *TraceCache) Len() int {
	return len(tc.entries)
}

// Clear drops all cached results.
func (tc *TraceCache) Clear() {
	tc.entries = make(map[uint64]TraceResult)
	tc.order = tc.order[:0]
}

// traceDigest hashes the trace inputs. Overrides are folded in by hashing the
// merged component values, so two override tables that resolve to the same
// live attributes share a key.
func traceDigest(components []Component, overrides Overrides, cfg TraceConfig) uint64 {
	h := fnv.New64a()
	var buf [8]byte

	writeF := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	writeB := func(b byte) {
		h.Write([]byte{b})
	}

	for _, c := range components {
		c = overrides.apply(c)
		h.Write([]byte(c.ID))
		writeB(0) // separator so id boundaries can't alias
		writeB(byte(c.Type))
		writeB(byte(c.Direction))
		writeF(c.X)
		writeF(c.Y)
		writeF(c.Polarization)
		writeF(c.FilterAngle)
		writeF(c.RotationAmount)
		writeF(c.MirrorAngle)
		writeF(c.RequiredIntensity)
		if c.RequiredAngle != nil {
			writeB(1)
			writeF(*c.RequiredAngle)
		} else {
			writeB(0)
		}
	}

	binary.LittleEndian.PutUint64(buf[:], uint64(cfg.MaxDepth))
	h.Write(buf[:])
	writeF(cfg.MinIntensity)
	writeF(cfg.MirrorLoss)
	writeF(cfg.SplitterLoss)
	writeF(cfg.RotatorLoss)
	writeF(cfg.AlignmentTolerance)
	writeF(cfg.MinDistance)

	return h.Sum64()
}

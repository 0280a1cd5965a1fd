// Package telemetry provides the diagnostic scaffolding spec.md §1 calls
// "out of scope for THE CORE" but still part of the ambient stack every
// lexer built on lexkit needs: per-kind timing stats and optional
// structured logging of streaming-buffer slide events. Nothing here
// participates in tokenization correctness.
package telemetry

import "time"

// KindStats holds per-token-kind timing statistics, collected only when a
// Stats collector is enabled — following the "allocate nothing unless
// debug mode is on" discipline of runtime/lexer/v2's TokenStats.
type KindStats struct {
	Count     int
	TotalTime time.Duration
	AvgTime   time.Duration
}

// Stats accumulates KindStats keyed by a caller-supplied comparable Kind.
// The zero value is ready to use as a disabled collector: it accumulates
// only the total time and never allocates.
type Stats[Kind comparable] struct {
	enabled   bool
	totalTime time.Duration
	perKind   map[Kind]*KindStats
}

// NewStats constructs a Stats collector. Pass enabled=false to get a
// zero-cost no-op collector (Record becomes a single branch, no map ops).
func NewStats[Kind comparable](enabled bool) *Stats[Kind] {
	s := &Stats[Kind]{enabled: enabled}
	if enabled {
		s.perKind = make(map[Kind]*KindStats)
	}
	return s
}

// Enabled reports whether this collector records per-kind stats.
func (s *Stats[Kind]) Enabled() bool { return s.enabled }

// Record folds one token's elapsed lexing time into the collector. Total
// time always accumulates (zero-alloc); per-kind stats only allocate when
// enabled.
func (s *Stats[Kind]) Record(kind Kind, elapsed time.Duration) {
	s.totalTime += elapsed
	if !s.enabled {
		return
	}
	ks, ok := s.perKind[kind]
	if !ok {
		ks = &KindStats{}
		s.perKind[kind] = ks
	}
	ks.Count++
	ks.TotalTime += elapsed
	ks.AvgTime = ks.TotalTime / time.Duration(ks.Count)
}

// TotalTime returns the cumulative time across every recorded token.
func (s *Stats[Kind]) TotalTime() time.Duration { return s.totalTime }

// PerKind returns a defensive copy of the per-kind stats map, or nil if
// disabled.
func (s *Stats[Kind]) PerKind() map[Kind]KindStats {
	if !s.enabled {
		return nil
	}
	out := make(map[Kind]KindStats, len(s.perKind))
	for k, v := range s.perKind {
		out[k] = *v
	}
	return out
}

// Reset clears accumulated stats without reallocating the backing map.
func (s *Stats[Kind]) Reset() {
	s.totalTime = 0
	for k := range s.perKind {
		delete(s.perKind, k)
	}
}

// Time is a small helper for the common case: `defer stats.Time(&kind)()`
// around a single token's lex step records its elapsed duration against
// whatever kind the pointed-to variable holds when the deferred call runs.
func (s *Stats[Kind]) Time(kind *Kind) func() {
	start := time.Now()
	return func() {
		s.Record(*kind, time.Since(start))
	}
}

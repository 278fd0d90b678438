package graph

import (
	"sync"

	"github.com/OFFIS-RIT/actorlink/pkg/logger"
)

type TraceEventKind string

const (
	TraceEventLevelExpanded TraceEventKind = "level_expanded"
	TraceEventIntersection  TraceEventKind = "intersection"
	TraceEventExhausted     TraceEventKind = "exhausted"
)

// TraceEvent is an extensible event envelope for search tracing.
// Additive changes to this struct are backward compatible for implementers.
type TraceEvent struct {
	Kind TraceEventKind

	Direction  string
	Depth      int
	Expanded   int
	Discovered int
	Node       NodeID
}

// Tracer is a sink for search tracing events.
//
// Implementers can forward events to logs, telemetry, or tests.
type Tracer interface {
	Record(event TraceEvent)
}

// MultiTracer fan-outs trace events to multiple tracers.
type MultiTracer []Tracer

func (m MultiTracer) Record(event TraceEvent) {
	for _, t := range m {
		if t == nil {
			continue
		}
		t.Record(event)
	}
}

// RecordingTracer keeps every event in memory.
type RecordingTracer struct {
	mu     sync.Mutex
	events []TraceEvent
}

func (r *RecordingTracer) Record(event TraceEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events in order.
func (r *RecordingTracer) Events() []TraceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TraceEvent, len(r.events))
	copy(out, r.events)
	return out
}

// LogTracer writes events to the debug log.
type LogTracer struct{}

func (LogTracer) Record(event TraceEvent) {
	logger.Debug(
		"[Graph][Trace] "+string(event.Kind),
		"direction", event.Direction,
		"depth", event.Depth,
		"expanded", event.Expanded,
		"discovered", event.Discovered,
		"node", event.Node,
	)
}

func record(t Tracer, event TraceEvent) {
	if t == nil {
		return
	}
	t.Record(event)
}

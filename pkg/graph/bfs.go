package graph

import (
	"context"
	"time"

	"github.com/OFFIS-RIT/actorlink/pkg/logger"
)

type direction int

const (
	forward direction = iota
	backward
)

func (d direction) String() string {
	if d == forward {
		return "forward"
	}
	return "backward"
}

func (d direction) opposite() direction {
	return 1 - d
}

// side is the state of one search direction.
type side struct {
	visited  map[NodeID]struct{}
	parent   map[NodeID]NodeID
	frontier []NodeID
	depth    int
}

func newSide(root NodeID) *side {
	return &side{
		visited:  map[NodeID]struct{}{root: {}},
		parent:   make(map[NodeID]NodeID),
		frontier: []NodeID{root},
	}
}

// search holds all mutable state of one FindPath call.
type search struct {
	adj    *Adjacency
	trace  Tracer
	start  NodeID
	target NodeID
	sides  [2]*side
	levels int
}

// expandLevel dequeues exactly the nodes currently in d's frontier. Nodes
// enqueued while the level runs belong to the next level. It stops at the
// first newly discovered neighbor already visited by the opposite side.
func (s *search) expandLevel(ctx context.Context, d direction) (NodeID, bool, error) {
	own, other := s.sides[d], s.sides[d.opposite()]

	levelSize := len(own.frontier)
	discovered := 0
	for i := 0; i < levelSize; i++ {
		current := own.frontier[0]
		own.frontier = own.frontier[1:]

		neighbors, err := s.adj.Neighbors(ctx, current)
		if err != nil {
			return 0, false, err
		}

		for _, n := range neighbors {
			if _, seen := own.visited[n]; seen {
				continue
			}
			own.visited[n] = struct{}{}
			own.parent[n] = current
			own.frontier = append(own.frontier, n)
			discovered++

			if _, hit := other.visited[n]; hit {
				record(s.trace, TraceEvent{
					Kind:       TraceEventIntersection,
					Direction:  d.String(),
					Depth:      own.depth + 1,
					Expanded:   i + 1,
					Discovered: discovered,
					Node:       n,
				})
				return n, true, nil
			}
		}
	}

	own.depth++
	s.levels++
	record(s.trace, TraceEvent{
		Kind:       TraceEventLevelExpanded,
		Direction:  d.String(),
		Depth:      own.depth,
		Expanded:   levelSize,
		Discovered: discovered,
	})
	return 0, false, nil
}

// Finder runs bidirectional breadth-first searches over a relation store.
// It holds no per-search state and is safe for concurrent use.
type Finder struct {
	rel   Relations
	memo  bool
	trace Tracer
}

type FinderOption func(*Finder)

// WithMemo caches relation lookups for the duration of one FindPath call.
func WithMemo(memo bool) FinderOption {
	return func(f *Finder) {
		f.memo = memo
	}
}

func WithTracer(trace Tracer) FinderOption {
	return func(f *Finder) {
		f.trace = trace
	}
}

func NewFinder(rel Relations, opts ...FinderOption) *Finder {
	f := &Finder{rel: rel}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// FindPath returns a shortest path from start to target.
//
// The search expands one full level from the start side, then one full
// level from the target side, and repeats while both frontiers are
// non-empty. The first node discovered by one side that the other side has
// already visited is the meeting point. found is false when no path exists.
//
// Store errors abort the search and are returned unchanged. A corrupted
// parent map surfaces as an *InvariantError. The context is only passed to
// the store; the engine itself has no cancellation points.
func (f *Finder) FindPath(ctx context.Context, start, target NodeID) (Path, bool, error) {
	if start == target {
		searchTotal.WithLabelValues("found").Inc()
		return Path{start}, true, nil
	}

	began := time.Now()
	s := &search{
		adj:    NewAdjacency(f.rel, f.memo),
		trace:  f.trace,
		start:  start,
		target: target,
		sides:  [2]*side{newSide(start), newSide(target)},
	}

	path, found, err := f.run(ctx, s)

	searchDuration.Observe(time.Since(began).Seconds())
	searchLevels.Observe(float64(s.levels))
	switch {
	case err != nil:
		searchTotal.WithLabelValues("error").Inc()
	case found:
		searchTotal.WithLabelValues("found").Inc()
	default:
		searchTotal.WithLabelValues("not_found").Inc()
	}
	logger.Debug(
		"[Graph][FindPath] Search finished",
		"start", start,
		"target", target,
		"found", found,
		"hops", path.Hops(),
		"levels", s.levels,
		"visited_forward", len(s.sides[forward].visited),
		"visited_backward", len(s.sides[backward].visited),
		"duration", time.Since(began),
	)
	return path, found, err
}

func (f *Finder) run(ctx context.Context, s *search) (Path, bool, error) {
	fwd, bwd := s.sides[forward], s.sides[backward]
	for len(fwd.frontier) > 0 && len(bwd.frontier) > 0 {
		for _, d := range [2]direction{forward, backward} {
			meet, met, err := s.expandLevel(ctx, d)
			if err != nil {
				return nil, false, err
			}
			if met {
				path, err := reconstruct(meet, fwd.parent, bwd.parent, s.start, s.target)
				if err != nil {
					return nil, false, err
				}
				return path, true, nil
			}
		}
	}

	record(s.trace, TraceEvent{
		Kind:  TraceEventExhausted,
		Depth: fwd.depth + bwd.depth,
	})
	return nil, false, nil
}

package graph

import (
	"context"
	"errors"
	"fmt"
)

// NodeID identifies an actor. Two nodes are equal iff their IDs are equal.
type NodeID int64

// GroupID identifies a movie. Groups only link nodes together and are never
// part of a Path.
type GroupID int64

// Path is an ordered, non-empty sequence of nodes where every consecutive
// pair shares at least one group. The first element is the start node, the
// last element the target node and no node repeats.
type Path []NodeID

// Hops returns the number of edges in the path, or -1 for an empty path.
func (p Path) Hops() int {
	if len(p) == 0 {
		return -1
	}
	return len(p) - 1
}

// Reverse returns a reversed copy of p.
func (p Path) Reverse() Path {
	out := make(Path, len(p))
	for i, n := range p {
		out[len(p)-1-i] = n
	}
	return out
}

// Relations is the part of the relation store the engine reads from.
// Both lookups return an empty slice for unknown identifiers; only
// connectivity failures are errors.
type Relations interface {
	GroupsOf(ctx context.Context, node NodeID) ([]GroupID, error)
	NodesOf(ctx context.Context, group GroupID) ([]NodeID, error)
}

// IDStore is the raw identifier form of Relations implemented by the
// relation store backends.
type IDStore interface {
	GetMovieIDsForActor(ctx context.Context, actorID int64) ([]int64, error)
	GetActorIDsForMovie(ctx context.Context, movieID int64) ([]int64, error)
}

// FromStore adapts a relation store backend to Relations.
func FromStore(s IDStore) Relations {
	return storeRelations{s: s}
}

type storeRelations struct {
	s IDStore
}

func (r storeRelations) GroupsOf(ctx context.Context, node NodeID) ([]GroupID, error) {
	ids, err := r.s.GetMovieIDsForActor(ctx, int64(node))
	if err != nil {
		return nil, err
	}
	out := make([]GroupID, len(ids))
	for i, id := range ids {
		out[i] = GroupID(id)
	}
	return out, nil
}

func (r storeRelations) NodesOf(ctx context.Context, group GroupID) ([]NodeID, error) {
	ids, err := r.s.GetActorIDsForMovie(ctx, int64(group))
	if err != nil {
		return nil, err
	}
	out := make([]NodeID, len(ids))
	for i, id := range ids {
		out[i] = NodeID(id)
	}
	return out, nil
}

// ErrInvariant marks a broken engine invariant. It is never returned for an
// ordinary "no path" outcome.
var ErrInvariant = errors.New("graph invariant violated")

// InvariantError reports a missing parent entry during path reconstruction.
type InvariantError struct {
	Direction string
	Node      NodeID
	Reason    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s walk at node %d: %s", ErrInvariant, e.Direction, e.Node, e.Reason)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

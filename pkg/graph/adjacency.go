package graph

import "context"

// Adjacency turns a node into its neighbor set by composing two relation
// lookups: node -> groups, group -> nodes.
//
// Without memoization every call hits the store. With memoization the
// results of GroupsOf and NodesOf are kept for the lifetime of the
// Adjacency value, which the Finder scopes to a single FindPath call.
type Adjacency struct {
	rel Relations

	groups map[NodeID][]GroupID
	nodes  map[GroupID][]NodeID
}

// NewAdjacency creates an accessor over rel. If memo is true, lookups are
// cached inside the returned value.
func NewAdjacency(rel Relations, memo bool) *Adjacency {
	a := &Adjacency{rel: rel}
	if memo {
		a.groups = make(map[NodeID][]GroupID)
		a.nodes = make(map[GroupID][]NodeID)
	}
	return a
}

// GroupsOf returns all groups containing node.
func (a *Adjacency) GroupsOf(ctx context.Context, node NodeID) ([]GroupID, error) {
	if a.groups != nil {
		if cached, ok := a.groups[node]; ok {
			return cached, nil
		}
	}
	storeQueries.WithLabelValues("groups_of").Inc()
	groups, err := a.rel.GroupsOf(ctx, node)
	if err != nil {
		return nil, err
	}
	if a.groups != nil {
		a.groups[node] = groups
	}
	return groups, nil
}

// NodesOf returns all members of group.
func (a *Adjacency) NodesOf(ctx context.Context, group GroupID) ([]NodeID, error) {
	if a.nodes != nil {
		if cached, ok := a.nodes[group]; ok {
			return cached, nil
		}
	}
	storeQueries.WithLabelValues("nodes_of").Inc()
	nodes, err := a.rel.NodesOf(ctx, group)
	if err != nil {
		return nil, err
	}
	if a.nodes != nil {
		a.nodes[group] = nodes
	}
	return nodes, nil
}

// Neighbors returns every node sharing at least one group with node,
// excluding node itself. Order follows the store's enumeration order with
// duplicates removed. Store errors are returned unchanged.
func (a *Adjacency) Neighbors(ctx context.Context, node NodeID) ([]NodeID, error) {
	groups, err := a.GroupsOf(ctx, node)
	if err != nil {
		return nil, err
	}

	seen := make(map[NodeID]struct{})
	neighbors := make([]NodeID, 0)
	for _, g := range groups {
		members, err := a.NodesOf(ctx, g)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			if m == node {
				continue
			}
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			neighbors = append(neighbors, m)
		}
	}
	return neighbors, nil
}

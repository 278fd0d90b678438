package graph

// reconstruct joins the two half paths that meet at meet:
// start..meet from parentFwd and meet..target from parentBwd.
func reconstruct(
	meet NodeID,
	parentFwd map[NodeID]NodeID,
	parentBwd map[NodeID]NodeID,
	start NodeID,
	target NodeID,
) (Path, error) {
	head, err := walk(meet, start, parentFwd, forward)
	if err != nil {
		return nil, err
	}
	tail, err := walk(meet, target, parentBwd, backward)
	if err != nil {
		return nil, err
	}

	path := make(Path, 0, len(head)+len(tail)-1)
	for i := len(head) - 1; i >= 0; i-- {
		path = append(path, head[i])
	}
	return append(path, tail[1:]...), nil
}

// walk follows parent links from node until root and returns the visited
// nodes in walk order, node first and root last.
func walk(node, root NodeID, parent map[NodeID]NodeID, d direction) ([]NodeID, error) {
	out := []NodeID{node}
	current := node
	for current != root {
		// A walk can never be longer than the map it follows.
		if len(out) > len(parent)+1 {
			return nil, &InvariantError{
				Direction: d.String(),
				Node:      current,
				Reason:    "parent chain does not reach the root",
			}
		}
		next, ok := parent[current]
		if !ok {
			return nil, &InvariantError{
				Direction: d.String(),
				Node:      current,
				Reason:    "missing parent entry",
			}
		}
		if next == current {
			return nil, &InvariantError{
				Direction: d.String(),
				Node:      current,
				Reason:    "node is its own parent",
			}
		}
		current = next
		out = append(out, current)
	}
	return out, nil
}

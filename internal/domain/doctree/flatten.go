package doctree

// Flatten returns the API (leaf) nodes of nodes in walk order.
//
// Every node of the input is visited in order: a leaf is emitted, a folder is
// replaced by the flattened sequence of the nodes whose parent identifier equals
// the folder's identifier. Folders are never emitted. A leaf under a folder is
// therefore emitted once where its folder is expanded and once more at its own
// position in the input.
//
// Children are looked up in a parent index built once. Inside an expanded
// sequence all nodes share one parent, so a nested folder there has children
// only when its identifier equals that parent, and those children are the
// sequence itself. Such self-referencing folders are not re-expanded.
func Flatten(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	if len(nodes) == 0 {
		return out
	}

	byParent := make(map[string][]int)
	for i := range nodes {
		byParent[nodes[i].ParentID] = append(byParent[nodes[i].ParentID], i)
	}

	for i := range nodes {
		n := nodes[i]
		if !n.IsFolder {
			out = append(out, n)
			continue
		}
		if n.ID == "" {
			continue
		}
		for _, c := range byParent[n.ID] {
			if !nodes[c].IsFolder {
				out = append(out, nodes[c])
			}
		}
	}
	return out
}

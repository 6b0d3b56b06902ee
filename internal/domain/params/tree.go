// Package params rebuilds nested parameter trees from flat, parent-linked records.
package params

import "github.com/kailas-cloud/torna-mcp/internal/domain/doctree"

// Reconstruct rebuilds the subtree of records rooted at parentID.
//
// Records without a name are dropped together with their descendants. Order at
// each level follows the input. build receives each record with its already
// rebuilt children; children is nil when the record has none. A record is
// placed at most once, so cyclic parent links terminate.
func Reconstruct[T any](
	records []doctree.Param, parentID string, build func(p doctree.Param, children []T) T,
) []T {
	byParent := make(map[string][]int)
	for i := range records {
		if records[i].Name == "" {
			continue
		}
		byParent[records[i].ParentID] = append(byParent[records[i].ParentID], i)
	}

	placed := make([]bool, len(records))
	var level func(parent string) []T
	level = func(parent string) []T {
		var out []T
		for _, i := range byParent[parent] {
			if placed[i] {
				continue
			}
			placed[i] = true
			p := records[i]
			var children []T
			if p.ID != "" {
				children = level(p.ID)
			}
			out = append(out, build(p, children))
		}
		return out
	}

	return level(parentID)
}

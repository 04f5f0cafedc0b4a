package convert

import (
	"wobj-converter/internal/scene"
	"wobj-converter/internal/wobj"
)

// flatNode pairs a scene node with the index where its child block starts.
type flatNode struct {
	node       *scene.Node
	childStart int
}

// flattenHierarchy assigns every node a slot in a flat array: the root at 0,
// each node's children in a contiguous block. The returned map resolves
// node names to table indices; the first occurrence of a duplicated name wins.
func flattenHierarchy(root *scene.Node) ([]flatNode, map[string]int) {
	nodes := make([]flatNode, countNodes(root))
	index := make(map[string]int, len(nodes))
	next := 1

	var walk func(n *scene.Node, cur int)
	walk = func(n *scene.Node, cur int) {
		childStart := next
		next += len(n.Children)
		nodes[cur] = flatNode{node: n, childStart: childStart}
		if _, ok := index[n.Name]; !ok {
			index[n.Name] = cur
		}
		for i, child := range n.Children {
			walk(child, childStart+i)
		}
	}
	walk(root, 0)

	return nodes, index
}

func countNodes(n *scene.Node) int {
	total := 1
	for _, child := range n.Children {
		total += countNodes(child)
	}
	return total
}

// buildNodeTable produces the serialized hierarchy with bone bindings.
// The root's local transform is pre-multiplied with the orientation
// correction so a consumer recomposing the hierarchy lands in the same
// space the vertices were baked into. Binding tries the exact node name
// first and falls back to the auto-bone name for mesh-bearing nodes.
func (c *conversion) buildNodeTable(nodes []flatNode) []wobj.Node {
	out := make([]wobj.Node, len(nodes))
	for i, fn := range nodes {
		n := wobj.Node{
			ChildCount: len(fn.node.Children),
			ChildStart: int16(fn.childStart),
			BoneID:     wobj.NoBone,
		}

		local := fn.node.Transform
		if i == 0 {
			local = orientationFix.Mul4(local)
		}
		n.Transform = rowMajor(local)

		entry, ok := c.bones.find(fn.node.Name)
		if !ok && len(fn.node.Meshes) > 0 {
			entry, ok = c.bones.find(fn.node.Name + "_auto")
		}
		if ok {
			n.BoneID = int16(entry.id)
			n.InverseBind = rowMajor(entry.inverseBind)
		}
		out[i] = n
	}
	return out
}

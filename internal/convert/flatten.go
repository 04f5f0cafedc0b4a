package convert

import (
	"github.com/go-gl/mathgl/mgl32"

	"wobj-converter/internal/scene"
	"wobj-converter/internal/wobj"
)

// countGeometry sizes the global vertex and index buffers before any
// geometry is generated, and records mesh subset ranges when requested.
// It applies the same accept predicate as the merge pass so offsets line up.
func (c *conversion) countGeometry(n *scene.Node) {
	for _, mi := range n.Meshes {
		m := &c.scene.Meshes[mi]
		if !acceptMesh(m) {
			continue
		}
		if c.opts.WriteSubsets {
			c.subsets = append(c.subsets, wobj.Subset{
				Name:  m.Name,
				Start: int32(c.icount),
				End:   int32(c.icount + len(m.Faces)*3),
			})
		}
		c.vcount += len(m.Positions)
		c.icount += len(m.Faces) * 3
	}
	for _, child := range n.Children {
		c.countGeometry(child)
	}
}

// flattenNode visits every node once, depth-first pre-order, composing
// world transforms and merging each node's meshes into the global buffers.
// Nodes without usable meshes still pass the traversal on to their children.
func (c *conversion) flattenNode(n *scene.Node, parent mgl32.Mat4) {
	world := parent.Mul4(n.Transform)
	c.logger.Debug("node", "name", n.Name, "children", len(n.Children), "meshes", len(n.Meshes))

	for _, mi := range n.Meshes {
		c.mergeMesh(n, &c.scene.Meshes[mi], world)
	}
	for _, child := range n.Children {
		c.flattenNode(child, world)
	}
}

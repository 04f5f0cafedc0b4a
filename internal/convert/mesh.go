package convert

import (
	"github.com/go-gl/mathgl/mgl32"

	"wobj-converter/internal/scene"
	"wobj-converter/internal/wobj"
)

// acceptMesh is the predicate both the counting and merge passes share:
// only complete triangle lists enter the global buffers.
func acceptMesh(m *scene.Mesh) bool {
	return m.Primitive == scene.Triangles && m.HasPositions() && m.HasFaces()
}

// mergeMesh appends one mesh into the global vertex and index buffers.
// Positions are baked into world space, normals re-oriented by the
// inverse-transpose of the world rotation/scale, texcoords copied from the
// first UV channel. Returns false when the mesh is rejected; rejection is
// silent and never aborts the parent traversal.
func (c *conversion) mergeMesh(node *scene.Node, m *scene.Mesh, world mgl32.Mat4) bool {
	if !acceptMesh(m) {
		return false
	}

	normalMat := world.Mat3().Inv().Transpose()

	for i, p := range m.Positions {
		v := &c.vertices[c.voff+i]

		pos := world.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1})
		v.Position = [3]float32{pos.X(), pos.Y(), pos.Z()}
		c.bounds.Add(float64(pos.X()), float64(pos.Y()), float64(pos.Z()))

		if i < len(m.Normals) {
			n := normalMat.Mul3x1(mgl32.Vec3{m.Normals[i][0], m.Normals[i][1], m.Normals[i][2]})
			if l := n.Len(); l > 1e-12 {
				n = n.Mul(1 / l)
			}
			v.Normal = [3]float32{n.X(), n.Y(), n.Z()}
		}
		if i < len(m.TexCoords) {
			v.TexCoord = m.TexCoords[i]
		}
	}

	for fi, f := range m.Faces {
		base := c.ioff + fi*3
		for k := 0; k < 3; k++ {
			c.indices[base+k] = f[k] + uint32(c.voff)
		}
	}

	if c.scene.HasAnimations() {
		if m.HasBones() {
			c.skinMesh(node, m, world)
		} else {
			c.rigidSkin(node, m, world)
		}
	}

	c.voff += len(m.Positions)
	c.ioff += len(m.Faces) * 3
	return true
}

// skinMesh packs the mesh's declared bone weights into the 4-slot vertex
// arrays, then sweeps the mesh: vertices left unweighted fall back to the
// node's auto bone with full weight, everything else is normalized to sum 1.
func (c *conversion) skinMesh(node *scene.Node, m *scene.Mesh, world mgl32.Mat4) {
	invWorld := world.Inv()

	for bi := range m.Bones {
		b := &m.Bones[bi]
		id := c.bones.register(b.Name, b.Offset.Mul4(invWorld))
		for _, vw := range b.Weights {
			if int(vw.Vertex) >= len(m.Positions) {
				continue
			}
			applySlot(&c.vertices[c.voff+int(vw.Vertex)], float32(id), vw.Weight)
		}
	}

	for i := 0; i < len(m.Positions); i++ {
		v := &c.vertices[c.voff+i]
		if v.BoneWeights[0] == 0 {
			id := c.autoBone(node, world)
			v.BoneIndices = [4]float32{float32(id), 0, 0, 0}
			v.BoneWeights = [4]float32{1, 0, 0, 0}
			continue
		}
		sum := v.BoneWeights[0] + v.BoneWeights[1] + v.BoneWeights[2] + v.BoneWeights[3]
		for k := 0; k < 4; k++ {
			v.BoneWeights[k] /= sum
		}
	}
}

// rigidSkin binds every vertex of an unskinned mesh to the node's auto bone
// at full weight so rigid attachments still follow the animated hierarchy.
func (c *conversion) rigidSkin(node *scene.Node, m *scene.Mesh, world mgl32.Mat4) {
	id := c.autoBone(node, world)
	for i := 0; i < len(m.Positions); i++ {
		v := &c.vertices[c.voff+i]
		v.BoneIndices = [4]float32{float32(id), 0, 0, 0}
		v.BoneWeights = [4]float32{1, 0, 0, 0}
	}
}

func (c *conversion) autoBone(node *scene.Node, world mgl32.Mat4) int {
	return c.bones.register(node.Name+"_auto", world.Inv())
}

// applySlot stores one bone contribution in the first slot that is empty or
// already holds the same bone (same-bone contributions accumulate). With
// four distinct bones already present the contribution is dropped; slots
// are claimed in processing order, not by weight magnitude.
func applySlot(v *wobj.Vertex, id, weight float32) {
	for s := 0; s < 4; s++ {
		if v.BoneWeights[s] == 0 {
			v.BoneIndices[s] = id
			v.BoneWeights[s] = weight
			return
		}
		if v.BoneIndices[s] == id {
			v.BoneWeights[s] += weight
			return
		}
	}
}

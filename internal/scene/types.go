package scene

import "github.com/go-gl/mathgl/mgl32"

// Primitive classifies the face topology of an imported mesh.
type Primitive int

const (
	Triangles Primitive = iota
	Points
	Lines
	Other
)

// Scene is the neutral import model the conversion pipeline consumes.
// It is read-only input: the pipeline never mutates it.
type Scene struct {
	Root       *Node
	Meshes     []Mesh
	Animations []Animation
}

// HasAnimations reports whether any animation channel exists. It decides
// whether skinning data is generated at all.
func (s *Scene) HasAnimations() bool {
	return len(s.Animations) > 0
}

// Node is one element of the imported hierarchy. Transform is local,
// relative to the parent node.
type Node struct {
	Name      string
	Transform mgl32.Mat4
	Children  []*Node
	Meshes    []int // indices into Scene.Meshes
}

// Mesh holds imported geometry for one primitive group.
type Mesh struct {
	Name      string
	Primitive Primitive
	Positions [][3]float32
	Normals   [][3]float32
	TexCoords [][2]float32 // first UV channel only
	Faces     [][3]uint32
	Bones     []Bone
}

func (m *Mesh) HasPositions() bool { return len(m.Positions) > 0 }
func (m *Mesh) HasFaces() bool     { return len(m.Faces) > 0 }
func (m *Mesh) HasNormals() bool   { return len(m.Normals) > 0 }
func (m *Mesh) HasTexCoords() bool { return len(m.TexCoords) > 0 }
func (m *Mesh) HasBones() bool     { return len(m.Bones) > 0 }

// Bone is one skin bone declared by a mesh: a name, the bind (offset)
// matrix, and the vertex weights it influences.
type Bone struct {
	Name    string
	Offset  mgl32.Mat4
	Weights []VertexWeight
}

// VertexWeight attaches a skinning weight to a mesh-local vertex index.
type VertexWeight struct {
	Vertex uint32
	Weight float32
}

// Animation is one named clip with per-node keyframe channels.
type Animation struct {
	Name     string
	Duration float32
	Channels []Channel
}

// Channel targets a single node by name. Key arrays are ordered by
// monotonically increasing time.
type Channel struct {
	Node      string
	Positions []VectorKey
	Rotations []QuatKey
	Scales    []VectorKey
}

type VectorKey struct {
	Time  float32
	Value mgl32.Vec3
}

type QuatKey struct {
	Time  float32
	Value mgl32.Quat
}

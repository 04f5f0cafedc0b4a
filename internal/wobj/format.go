package wobj

// Format describes the per-vertex attribute layout of a model blob.
// Position, normal and texcoord slots are always present (zero-filled when
// the source lacked them); bone index/weight slots exist only for skinned
// (animated) models.
type Format struct {
	Skinned bool
}

// BytesPerVertex returns the tightly packed per-vertex stride:
// position(3×f32) + normal(3×f32) + texcoord(2×f32), plus
// boneIndices(4×f32) + boneWeights(4×f32) when skinned.
func (f Format) BytesPerVertex() int {
	if f.Skinned {
		return 64
	}
	return 32
}

// IndexSize returns the bytes per index chosen by total vertex count:
// 1 below 255 vertices, 2 below 65535, otherwise 4.
func IndexSize(vertexCount int) int {
	switch {
	case vertexCount < 255:
		return 1
	case vertexCount < 65535:
		return 2
	default:
		return 4
	}
}

// Vertex is one entry of the global vertex buffer. Bone indices are stored
// as float32 to match the on-disk attribute layout.
type Vertex struct {
	Position    [3]float32
	Normal      [3]float32
	TexCoord    [2]float32
	BoneIndices [4]float32
	BoneWeights [4]float32
}

// NoBone marks a node table entry with no bone binding.
const NoBone = int16(-1)

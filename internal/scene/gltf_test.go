package scene

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDocumentTree(t *testing.T) {
	doc := &gltf.Document{
		Scene:  gltf.Index(0),
		Scenes: []*gltf.Scene{{Nodes: []int{0, 2}}},
		Nodes: []*gltf.Node{
			{Name: "torso", Children: []int{1}, Translation: [3]float64{0, 1, 0}},
			{Name: "head"},
			{}, // unnamed
		},
	}

	s, err := FromDocument(doc)
	require.NoError(t, err)

	root := s.Root
	require.NotNil(t, root)
	assert.Equal(t, "RootNode", root.Name)
	assert.Equal(t, mgl32.Ident4(), root.Transform)
	require.Len(t, root.Children, 2)

	torso := root.Children[0]
	assert.Equal(t, "torso", torso.Name)
	require.Len(t, torso.Children, 1)
	assert.Equal(t, "head", torso.Children[0].Name)

	// Unnamed nodes get a positional fallback name.
	assert.Equal(t, "node_2", root.Children[1].Name)

	// Translation lands in the local transform.
	pos := torso.Transform.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 1, pos.Y(), 1e-6)
}

func TestFromDocumentMissingScene(t *testing.T) {
	_, err := FromDocument(&gltf.Document{})
	assert.Error(t, err)
}

func TestNodeTransformTRS(t *testing.T) {
	// 90 degrees about Z: +X maps to +Y.
	n := &gltf.Node{
		Rotation: [4]float64{0, 0, 0.70710678, 0.70710678},
		Scale:    [3]float64{2, 2, 2},
	}
	m := nodeTransform(n)
	p := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 0, p.X(), 1e-5)
	assert.InDelta(t, 2, p.Y(), 1e-5)
	assert.InDelta(t, 0, p.Z(), 1e-5)
}

func TestNodeTransformMatrixWins(t *testing.T) {
	n := &gltf.Node{
		Matrix:      [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 5, 6, 7, 1},
		Translation: [3]float64{100, 100, 100},
	}
	m := nodeTransform(n)
	p := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 5, p.X(), 1e-6)
	assert.InDelta(t, 6, p.Y(), 1e-6)
	assert.InDelta(t, 7, p.Z(), 1e-6)
}

func TestNodeTransformZeroIsIdentity(t *testing.T) {
	assert.Equal(t, mgl32.Ident4(), nodeTransform(&gltf.Node{}))
}

func TestFromDocumentAnimation(t *testing.T) {
	// Two keyframes at t=0 and t=1 moving the node up by two units.
	floats := []float32{0, 1, 0, 0, 0, 0, 2, 0}
	data := make([]byte, 4*len(floats))
	for i, f := range floats {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(f))
	}

	doc := &gltf.Document{
		Scene:   gltf.Index(0),
		Scenes:  []*gltf.Scene{{Nodes: []int{0}}},
		Nodes:   []*gltf.Node{{Name: "pivot"}},
		Buffers: []*gltf.Buffer{{ByteLength: 32, Data: data}},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteLength: 8},
			{Buffer: 0, ByteOffset: 8, ByteLength: 24},
		},
		Accessors: []*gltf.Accessor{
			{BufferView: gltf.Index(0), ComponentType: gltf.ComponentFloat, Count: 2, Type: gltf.AccessorScalar},
			{BufferView: gltf.Index(1), ComponentType: gltf.ComponentFloat, Count: 2, Type: gltf.AccessorVec3},
		},
		Animations: []*gltf.Animation{{
			Name:     "rise",
			Samplers: []*gltf.AnimationSampler{{Input: 0, Output: 1}},
			Channels: []*gltf.AnimationChannel{{
				Sampler: 0,
				Target:  gltf.AnimationChannelTarget{Node: gltf.Index(0), Path: gltf.TRSTranslation},
			}},
		}},
	}

	s, err := FromDocument(doc)
	require.NoError(t, err)
	require.Len(t, s.Animations, 1)

	anim := s.Animations[0]
	assert.Equal(t, "rise", anim.Name)
	assert.InDelta(t, 1, anim.Duration, 1e-6)
	require.Len(t, anim.Channels, 1)

	ch := anim.Channels[0]
	assert.Equal(t, "pivot", ch.Node)
	require.Len(t, ch.Positions, 2)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, ch.Positions[0].Value)
	assert.Equal(t, mgl32.Vec3{0, 2, 0}, ch.Positions[1].Value)
	assert.InDelta(t, 1, ch.Positions[1].Time, 1e-6)
}

func TestToFaces(t *testing.T) {
	faces := toFaces([]uint32{0, 1, 2, 2, 1, 3})
	require.Len(t, faces, 2)
	assert.Equal(t, [3]uint32{0, 1, 2}, faces[0])
	assert.Equal(t, [3]uint32{2, 1, 3}, faces[1])

	// Trailing partial triangles are discarded.
	assert.Len(t, toFaces([]uint32{0, 1, 2, 3}), 1)
	assert.Empty(t, toFaces(nil))
}

func TestPrimitiveMode(t *testing.T) {
	assert.Equal(t, Triangles, primitiveMode(gltf.PrimitiveTriangles))
	assert.Equal(t, Points, primitiveMode(gltf.PrimitivePoints))
	assert.Equal(t, Lines, primitiveMode(gltf.PrimitiveLineStrip))
	assert.Equal(t, Other, primitiveMode(gltf.PrimitiveTriangleFan))
}

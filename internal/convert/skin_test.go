package convert

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wobj-converter/internal/scene"
	"wobj-converter/internal/wobj"
)

// skinnedScene builds a four-vertex quad on a node named "skin" with two
// declared bones and one animation so the skinning path runs.
func skinnedScene() *scene.Scene {
	s := &scene.Scene{
		Meshes: []scene.Mesh{{
			Name:      "quad",
			Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
			Faces:     [][3]uint32{{0, 1, 2}, {0, 2, 3}},
			Bones: []scene.Bone{
				{
					Name:   "A",
					Offset: mgl32.Ident4(),
					Weights: []scene.VertexWeight{
						{Vertex: 0, Weight: 0.2},
						{Vertex: 1, Weight: 1},
					},
				},
				{
					Name:   "B",
					Offset: mgl32.Ident4(),
					Weights: []scene.VertexWeight{
						{Vertex: 0, Weight: 0.6},
					},
				},
			},
		}},
		Animations: []scene.Animation{{
			Name:     "idle",
			Duration: 1,
			Channels: []scene.Channel{{
				Node: "skin",
				Positions: []scene.VectorKey{
					{Time: 0, Value: mgl32.Vec3{0, 0, 0}},
					{Time: 1, Value: mgl32.Vec3{0, 5, 0}},
				},
			}},
		}},
	}
	s.Root = &scene.Node{
		Name:      "RootNode",
		Transform: mgl32.Ident4(),
		Children: []*scene.Node{{
			Name:      "skin",
			Transform: mgl32.Ident4(),
			Meshes:    []int{0},
		}},
	}
	return s
}

func TestSkinWeightsNormalize(t *testing.T) {
	doc, err := Convert(skinnedScene(), Options{})
	require.NoError(t, err)

	assert.True(t, doc.Format.Skinned)
	assert.Equal(t, 64, doc.Format.BytesPerVertex())

	// Vertex 0: A=0.2, B=0.6 normalize to 0.25/0.75.
	v := doc.Vertices[0]
	assert.Equal(t, float32(0), v.BoneIndices[0])
	assert.Equal(t, float32(1), v.BoneIndices[1])
	assert.InDelta(t, 0.25, v.BoneWeights[0], 1e-6)
	assert.InDelta(t, 0.75, v.BoneWeights[1], 1e-6)

	sum := v.BoneWeights[0] + v.BoneWeights[1] + v.BoneWeights[2] + v.BoneWeights[3]
	assert.InDelta(t, 1.0, sum, 1e-5)
}

func TestSkinUnweightedFallsBackToAutoBone(t *testing.T) {
	doc, err := Convert(skinnedScene(), Options{})
	require.NoError(t, err)

	// Vertices 2 and 3 have no declared weights: they bind to skin_auto,
	// registered after A(0) and B(1).
	for _, vi := range []int{2, 3} {
		v := doc.Vertices[vi]
		assert.Equal(t, [4]float32{2, 0, 0, 0}, v.BoneIndices, "vertex %d", vi)
		assert.Equal(t, [4]float32{1, 0, 0, 0}, v.BoneWeights, "vertex %d", vi)
	}
}

func TestSkinSameBoneAccumulates(t *testing.T) {
	s := skinnedScene()
	s.Meshes[0].Bones[0].Weights = append(s.Meshes[0].Bones[0].Weights,
		scene.VertexWeight{Vertex: 1, Weight: 0.5})

	doc, err := Convert(s, Options{})
	require.NoError(t, err)

	// Vertex 1 got A twice (1.0 + 0.5): one slot, normalized to 1.
	v := doc.Vertices[1]
	assert.Equal(t, [4]float32{0, 0, 0, 0}, v.BoneIndices)
	assert.InDelta(t, 1.0, v.BoneWeights[0], 1e-6)
	assert.Equal(t, float32(0), v.BoneWeights[1])
}

func TestSkinFifthInfluenceDropped(t *testing.T) {
	s := skinnedScene()
	s.Meshes[0].Bones = nil
	for _, name := range []string{"b0", "b1", "b2", "b3", "b4"} {
		s.Meshes[0].Bones = append(s.Meshes[0].Bones, scene.Bone{
			Name:    name,
			Offset:  mgl32.Ident4(),
			Weights: []scene.VertexWeight{{Vertex: 0, Weight: 0.2}},
		})
	}

	doc, err := Convert(s, Options{})
	require.NoError(t, err)

	// Four slots keep b0..b3, b4 is dropped, weights renormalize to 0.25.
	v := doc.Vertices[0]
	assert.Equal(t, [4]float32{0, 1, 2, 3}, v.BoneIndices)
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 0.25, v.BoneWeights[i], 1e-6)
	}
}

func TestSkinRigidMeshUsesAutoBone(t *testing.T) {
	s := skinnedScene()
	s.Meshes[0].Bones = nil

	doc, err := Convert(s, Options{})
	require.NoError(t, err)

	for i, v := range doc.Vertices {
		assert.Equal(t, [4]float32{0, 0, 0, 0}, v.BoneIndices, "vertex %d", i)
		assert.Equal(t, [4]float32{1, 0, 0, 0}, v.BoneWeights, "vertex %d", i)
	}
}

func TestSkinBoneIDsDeterministic(t *testing.T) {
	a, err := Convert(skinnedScene(), Options{})
	require.NoError(t, err)
	b, err := Convert(skinnedScene(), Options{})
	require.NoError(t, err)

	require.Equal(t, len(a.Vertices), len(b.Vertices))
	for i := range a.Vertices {
		assert.Equal(t, a.Vertices[i].BoneIndices, b.Vertices[i].BoneIndices)
		assert.Equal(t, a.Vertices[i].BoneWeights, b.Vertices[i].BoneWeights)
	}
}

func TestNodeTableLayout(t *testing.T) {
	s := skinnedScene()
	// Add a bone-named node so exact-name binding is exercised.
	s.Root.Children = append(s.Root.Children, &scene.Node{
		Name:      "A",
		Transform: mgl32.Ident4(),
		Children: []*scene.Node{{
			Name:      "B",
			Transform: mgl32.Ident4(),
		}},
	})

	doc, err := Convert(s, Options{})
	require.NoError(t, err)

	// Layout: RootNode(0), skin(1), A(2), B(3).
	require.Len(t, doc.Nodes, 4)
	root := doc.Nodes[0]
	assert.Equal(t, 2, root.ChildCount)
	assert.Equal(t, int16(1), root.ChildStart)

	// Root local identity pre-multiplied by the orientation correction.
	want := [16]float32{
		1, 0, 0, 0,
		0, 0, -1, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
	}
	assert.Equal(t, want, root.Transform)

	// "A" binds bone 0 by exact name; "skin" falls back to skin_auto (id 2).
	assert.Equal(t, int16(0), doc.Nodes[2].BoneID)
	assert.Equal(t, int16(1), doc.Nodes[3].BoneID)
	assert.Equal(t, int16(2), doc.Nodes[1].BoneID)
	assert.Equal(t, wobj.NoBone, doc.Nodes[0].BoneID)
}

func TestAnimationChannelsResolve(t *testing.T) {
	s := skinnedScene()
	s.Animations[0].Channels = append(s.Animations[0].Channels, scene.Channel{
		Node: "missing",
		Positions: []scene.VectorKey{
			{Time: 0, Value: mgl32.Vec3{1, 1, 1}},
		},
	})

	doc, err := Convert(s, Options{})
	require.NoError(t, err)

	require.Len(t, doc.Animations, 1)
	// The channel for the unknown node is dropped, not emitted empty.
	require.Len(t, doc.Animations[0].Channels, 1)
	assert.Equal(t, int16(1), doc.Animations[0].Channels[0].Node)
	assert.Len(t, doc.Animations[0].Channels[0].Positions, 2)
}

func TestNoScaleEmitsIdentityTrack(t *testing.T) {
	s := skinnedScene()
	s.Animations[0].Channels[0].Scales = []scene.VectorKey{
		{Time: 0, Value: mgl32.Vec3{2, 2, 2}},
		{Time: 0.5, Value: mgl32.Vec3{3, 3, 3}},
		{Time: 1, Value: mgl32.Vec3{4, 4, 4}},
	}

	doc, err := Convert(s, Options{NoScale: true})
	require.NoError(t, err)

	ch := doc.Animations[0].Channels[0]
	require.Len(t, ch.Scales, 2)
	assert.Equal(t, wobj.VectorKey{Time: 0, Value: [3]float32{1, 1, 1}}, ch.Scales[0])
	assert.Equal(t, wobj.VectorKey{Time: 1, Value: [3]float32{1, 1, 1}}, ch.Scales[1])
}

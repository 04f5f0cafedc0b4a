package wobj

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticDoc() *Document {
	return &Document{
		Format: Format{},
		Vertices: []Vertex{
			{Position: [3]float32{0, 0, 0}, Normal: [3]float32{0, 0, 1}},
			{Position: [3]float32{1, 0, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{1, 0}},
			{Position: [3]float32{0, 1, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{0, 1}},
		},
		Indices: []uint32{0, 1, 2},
		Bounds:  Bounds{Min: [3]float64{-1.5, 0, 0}, Max: [3]float64{1, 1, 0.25}},
	}
}

func skinnedDoc() *Document {
	doc := &Document{
		Format: Format{Skinned: true},
		Vertices: []Vertex{
			{
				Position:    [3]float32{1, 2, 3},
				BoneIndices: [4]float32{0, 1, 0, 0},
				BoneWeights: [4]float32{0.25, 0.75, 0, 0},
			},
			{
				Position:    [3]float32{4, 5, 6},
				BoneIndices: [4]float32{2, 0, 0, 0},
				BoneWeights: [4]float32{1, 0, 0, 0},
			},
			{Position: [3]float32{7, 8, 9}, BoneWeights: [4]float32{1, 0, 0, 0}},
		},
		Indices: []uint32{0, 1, 2},
		Bounds:  Bounds{Min: [3]float64{1, 2, 3}, Max: [3]float64{7, 8, 9}},
		Animations: []Animation{{
			Name:     "walk",
			Duration: 1.5,
			Channels: []Channel{{
				Node: 1,
				Positions: []VectorKey{
					{Time: 0, Value: [3]float32{0, 0, 0}},
					{Time: 1.5, Value: [3]float32{0, 2, 0}},
				},
				Rotations: []QuatKey{{Time: 0, W: 1}},
				Scales: []VectorKey{
					{Time: 0, Value: [3]float32{1, 1, 1}},
					{Time: 1.5, Value: [3]float32{1, 1, 1}},
				},
			}},
		}},
		Nodes: []Node{
			{
				ChildCount: 1,
				ChildStart: 1,
				Transform:  identityMat4(),
				BoneID:     NoBone,
			},
			{
				Transform:   identityMat4(),
				BoneID:      0,
				InverseBind: identityMat4(),
			},
		},
	}
	return doc
}

func identityMat4() [16]float32 {
	return [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

func TestRoundTripStatic(t *testing.T) {
	doc := staticDoc()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))

	// 10-byte header + 3 vertices * 32 + 3 one-byte indices + 24 bounds
	assert.Equal(t, 10+3*32+3+24, buf.Len())

	got, err := Decode(buf.Bytes())
	require.NoError(t, err)

	assert.False(t, got.Format.Skinned)
	assert.Equal(t, doc.Vertices, got.Vertices)
	assert.Equal(t, doc.Indices, got.Indices)
	assert.Equal(t, doc.Bounds, got.Bounds)
	assert.Empty(t, got.Animations)
	assert.Empty(t, got.Nodes)
	assert.False(t, got.WriteSubsets)
}

func TestRoundTripSkinned(t *testing.T) {
	doc := skinnedDoc()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))

	got, err := Decode(buf.Bytes())
	require.NoError(t, err)

	assert.True(t, got.Format.Skinned)
	assert.Equal(t, doc.Vertices, got.Vertices)
	assert.Equal(t, doc.Indices, got.Indices)
	assert.Equal(t, doc.Animations, got.Animations)
	assert.Equal(t, doc.Nodes, got.Nodes)
}

func TestRoundTripSubsets(t *testing.T) {
	doc := staticDoc()
	doc.WriteSubsets = true
	doc.Subsets = []Subset{
		{Name: "body", Start: 0, End: 3},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))

	got, err := Decode(buf.Bytes())
	require.NoError(t, err)

	assert.True(t, got.WriteSubsets)
	assert.Equal(t, doc.Subsets, got.Subsets)
}

func TestDecodeTruncated(t *testing.T) {
	doc := skinnedDoc()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))

	_, err := Decode(buf.Bytes()[:buf.Len()/2])
	assert.Error(t, err)

	_, err = Decode(nil)
	assert.Error(t, err)
}

func TestWriteReadFile(t *testing.T) {
	path := t.TempDir() + "/model.wobj"
	doc := skinnedDoc()

	require.NoError(t, WriteFile(path, doc))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc.Vertices, got.Vertices)
	assert.Equal(t, doc.Animations, got.Animations)
}

package wobj

import "math"

// Document holds everything one conversion produces, ready to serialize.
// All buffers are owned by the conversion that built them.
type Document struct {
	Format   Format
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds

	Animations []Animation
	Nodes      []Node // populated only when animations exist

	WriteSubsets bool
	Subsets      []Subset
}

// Animation is one clip with reduced keyframe channels.
type Animation struct {
	Name     string
	Duration float32
	Channels []Channel
}

// Channel holds the retained keys for a single target node.
type Channel struct {
	Node      int16 // index into the flattened node table
	Positions []VectorKey
	Rotations []QuatKey
	Scales    []VectorKey
}

type VectorKey struct {
	Time  float32
	Value [3]float32
}

type QuatKey struct {
	Time  float32
	W     float32
	X     float32
	Y     float32
	Z     float32
}

// Node is one entry of the flattened hierarchy. Children occupy a
// contiguous index range starting at ChildStart. Transforms are row-major.
type Node struct {
	ChildCount  int
	ChildStart  int16
	Transform   [16]float32
	BoneID      int16 // NoBone when unbound
	InverseBind [16]float32
}

// Subset records the index range one source mesh occupies in the merged
// index buffer.
type Subset struct {
	Name  string
	Start int32
	End   int32
}

// Bounds is an axis-aligned bounding box accumulated in float64 and
// serialized as float32. A default-constructed Bounds is degenerate
// (min > max) and adds no volume.
type Bounds struct {
	Min [3]float64
	Max [3]float64
}

// NewBounds returns an empty bounding box that grows from the first point added.
func NewBounds() Bounds {
	return Bounds{
		Min: [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
}

// Add grows the box to contain the point.
func (b *Bounds) Add(x, y, z float64) {
	if x < b.Min[0] {
		b.Min[0] = x
	}
	if y < b.Min[1] {
		b.Min[1] = y
	}
	if z < b.Min[2] {
		b.Min[2] = z
	}
	if x > b.Max[0] {
		b.Max[0] = x
	}
	if y > b.Max[1] {
		b.Max[1] = y
	}
	if z > b.Max[2] {
		b.Max[2] = z
	}
}

// Valid reports whether the box contains at least one point.
func (b *Bounds) Valid() bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}

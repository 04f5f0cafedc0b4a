package convert

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"

	"wobj-converter/internal/scene"
	"wobj-converter/internal/wobj"
)

// orientationFix is the handedness correction pre-multiplied onto the root
// traversal: x'=x, y'=-z, z'=y. Values are in mgl32's column-major layout.
var orientationFix = mgl32.Mat4{
	1, 0, 0, 0,
	0, 0, 1, 0,
	0, -1, 0, 0,
	0, 0, 0, 1,
}

// Options selects the optional conversion behaviors.
type Options struct {
	// NoScale replaces every scale track with the canonical two-key
	// identity track regardless of source data.
	NoScale bool
	// WriteSubsets records per-source-mesh index ranges and appends them
	// to the encoded blob.
	WriteSubsets bool
	// Logger receives per-node and per-bone debug traces. Nil disables them.
	Logger *log.Logger
}

// conversion owns every buffer for the duration of one run. Conversions are
// not safe for concurrent reuse: bone ids depend on traversal order.
type conversion struct {
	scene  *scene.Scene
	opts   Options
	logger *log.Logger

	vcount, icount int // totals from the counting pass
	voff, ioff     int // running append offsets

	vertices []wobj.Vertex
	indices  []uint32
	bounds   wobj.Bounds
	bones    *boneTable
	subsets  []wobj.Subset
}

// Convert flattens the imported scene into a runtime-ready model document:
// merged vertex/index buffers, packed skin influences, reduced animation
// tracks, and the flattened node table. The scene is read-only input.
func Convert(s *scene.Scene, opts Options) (*wobj.Document, error) {
	if s == nil || s.Root == nil {
		return nil, fmt.Errorf("convert: scene has no root node")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	c := &conversion{
		scene:  s,
		opts:   opts,
		logger: logger,
		bounds: wobj.NewBounds(),
		bones:  newBoneTable(logger),
	}

	c.countGeometry(s.Root)
	c.vertices = make([]wobj.Vertex, c.vcount)
	c.indices = make([]uint32, c.icount)
	c.flattenNode(s.Root, orientationFix)

	doc := &wobj.Document{
		Format:       wobj.Format{Skinned: s.HasAnimations()},
		Vertices:     c.vertices,
		Indices:      c.indices,
		Bounds:       c.bounds,
		WriteSubsets: opts.WriteSubsets,
		Subsets:      c.subsets,
	}

	if s.HasAnimations() {
		flat, nodeIndex := flattenHierarchy(s.Root)
		doc.Animations = c.buildAnimations(nodeIndex)
		doc.Nodes = c.buildNodeTable(flat)
	}

	logger.Debug("bounds", "min", c.bounds.Min, "max", c.bounds.Max)
	return doc, nil
}

// rowMajor flattens an mgl32 matrix into the row-major order the binary
// layout uses.
func rowMajor(m mgl32.Mat4) [16]float32 {
	var out [16]float32
	for r := 0; r < 4; r++ {
		for col := 0; col < 4; col++ {
			out[r*4+col] = m.At(r, col)
		}
	}
	return out
}

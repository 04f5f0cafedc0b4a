package wobj

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// Encode serializes the document into the fixed binary layout. All
// multi-byte values are little-endian; there is no header or version tag.
func Encode(w io.Writer, doc *Document) error {
	ew := &encoder{w: bufio.NewWriter(w)}

	ew.i32(int32(len(doc.Vertices)))
	ew.i32(int32(len(doc.Indices)))
	ew.i16(int16(len(doc.Animations)))

	for i := range doc.Vertices {
		ew.vertex(&doc.Vertices[i], doc.Format.Skinned)
	}

	size := IndexSize(len(doc.Vertices))
	for _, idx := range doc.Indices {
		ew.index(idx, size)
	}

	for i := 0; i < 3; i++ {
		ew.f32(float32(doc.Bounds.Min[i]))
	}
	for i := 0; i < 3; i++ {
		ew.f32(float32(doc.Bounds.Max[i]))
	}

	if len(doc.Animations) > 0 {
		for i := range doc.Animations {
			ew.animation(&doc.Animations[i])
		}
		ew.i16(int16(len(doc.Nodes)))
		for i := range doc.Nodes {
			ew.node(&doc.Nodes[i])
		}
	}

	if doc.WriteSubsets {
		ew.i16(int16(len(doc.Subsets)))
		for _, s := range doc.Subsets {
			ew.utf(s.Name)
			ew.i32(s.Start)
			ew.i32(s.End)
		}
	}

	if ew.err != nil {
		return ew.err
	}
	return ew.w.Flush()
}

// WriteFile encodes the document to a file. Write failures abort the whole
// conversion; there is no partial-write recovery.
func WriteFile(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wobj: create %s: %w", path, err)
	}
	if err := Encode(f, doc); err != nil {
		f.Close()
		return fmt.Errorf("wobj: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("wobj: close %s: %w", path, err)
	}
	return nil
}

type encoder struct {
	w       *bufio.Writer
	scratch [8]byte
	err     error
}

func (e *encoder) write(b []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(b)
}

func (e *encoder) u8(v uint8) {
	if e.err != nil {
		return
	}
	e.err = e.w.WriteByte(v)
}

func (e *encoder) i16(v int16) {
	binary.LittleEndian.PutUint16(e.scratch[:2], uint16(v))
	e.write(e.scratch[:2])
}

func (e *encoder) i32(v int32) {
	binary.LittleEndian.PutUint32(e.scratch[:4], uint32(v))
	e.write(e.scratch[:4])
}

func (e *encoder) f32(v float32) {
	binary.LittleEndian.PutUint32(e.scratch[:4], math.Float32bits(v))
	e.write(e.scratch[:4])
}

// utf writes a length-prefixed string: int16 byte length, then raw bytes.
func (e *encoder) utf(s string) {
	e.i16(int16(len(s)))
	e.write([]byte(s))
}

func (e *encoder) index(v uint32, size int) {
	switch size {
	case 1:
		e.u8(uint8(v))
	case 2:
		e.i16(int16(uint16(v)))
	default:
		e.i32(int32(v))
	}
}

func (e *encoder) vertex(v *Vertex, skinned bool) {
	for _, f := range v.Position {
		e.f32(f)
	}
	for _, f := range v.Normal {
		e.f32(f)
	}
	for _, f := range v.TexCoord {
		e.f32(f)
	}
	if skinned {
		for _, f := range v.BoneIndices {
			e.f32(f)
		}
		for _, f := range v.BoneWeights {
			e.f32(f)
		}
	}
}

func (e *encoder) animation(a *Animation) {
	e.utf(a.Name)
	e.f32(a.Duration)
	e.i32(int32(len(a.Channels)))
	for i := range a.Channels {
		c := &a.Channels[i]
		e.i16(c.Node)
		e.vectorKeys(c.Positions)
		e.quatKeys(c.Rotations)
		e.vectorKeys(c.Scales)
	}
}

// vectorKeys writes an int32 count of the float32 values that follow
// (4 per key), then (time, x, y, z) per key.
func (e *encoder) vectorKeys(keys []VectorKey) {
	e.i32(int32(len(keys) * 4))
	for _, k := range keys {
		e.f32(k.Time)
		e.f32(k.Value[0])
		e.f32(k.Value[1])
		e.f32(k.Value[2])
	}
}

// quatKeys writes an int32 count of the float32 values that follow
// (5 per key), then (time, w, x, y, z) per key.
func (e *encoder) quatKeys(keys []QuatKey) {
	e.i32(int32(len(keys) * 5))
	for _, k := range keys {
		e.f32(k.Time)
		e.f32(k.W)
		e.f32(k.X)
		e.f32(k.Y)
		e.f32(k.Z)
	}
}

func (e *encoder) node(n *Node) {
	e.u8(uint8(n.ChildCount))
	if n.ChildCount > 0 {
		e.i16(n.ChildStart)
	}
	e.mat4(n.Transform)
	e.i16(n.BoneID)
	if n.BoneID != NoBone {
		e.mat4(n.InverseBind)
	}
}

func (e *encoder) mat4(m [16]float32) {
	for _, f := range m {
		e.f32(f)
	}
}

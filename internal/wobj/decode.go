package wobj

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// Decode parses an encoded model blob back into a Document. The layout has
// no header, so the caller must hand it a complete blob.
func Decode(data []byte) (*Document, error) {
	r := &reader{data: data}

	vcount := int(r.i32())
	icount := int(r.i32())
	acount := int(r.i16())
	if r.err != nil {
		return nil, fmt.Errorf("wobj: decode header: %w", r.err)
	}
	if vcount < 0 || icount < 0 || acount < 0 {
		return nil, fmt.Errorf("wobj: invalid counts v=%d i=%d a=%d", vcount, icount, acount)
	}

	doc := &Document{Format: Format{Skinned: acount > 0}}

	doc.Vertices = make([]Vertex, vcount)
	for i := range doc.Vertices {
		r.vertex(&doc.Vertices[i], doc.Format.Skinned)
	}

	size := IndexSize(vcount)
	doc.Indices = make([]uint32, icount)
	for i := range doc.Indices {
		doc.Indices[i] = r.index(size)
	}

	for i := 0; i < 3; i++ {
		doc.Bounds.Min[i] = float64(r.f32())
	}
	for i := 0; i < 3; i++ {
		doc.Bounds.Max[i] = float64(r.f32())
	}

	if acount > 0 {
		doc.Animations = make([]Animation, acount)
		for i := range doc.Animations {
			r.animation(&doc.Animations[i])
		}
		ncount := int(r.i16())
		if r.err == nil && ncount >= 0 {
			doc.Nodes = make([]Node, ncount)
			for i := range doc.Nodes {
				r.node(&doc.Nodes[i])
			}
		}
	}

	if r.err != nil {
		return nil, fmt.Errorf("wobj: decode: %w", r.err)
	}

	// Subsets are an optional trailer; their presence is the only signal.
	if r.off < len(r.data) {
		doc.WriteSubsets = true
		scount := int(r.i16())
		for i := 0; i < scount && r.err == nil; i++ {
			s := Subset{Name: r.utf()}
			s.Start = r.i32()
			s.End = r.i32()
			doc.Subsets = append(doc.Subsets, s)
		}
	}

	if r.err != nil {
		return nil, fmt.Errorf("wobj: decode: %w", r.err)
	}
	return doc, nil
}

// ReadFile reads and decodes a model blob from disk.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wobj: read %s: %w", path, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("wobj: decode %s: %w", path, err)
	}
	return doc, nil
}

type reader struct {
	data []byte
	off  int
	err  error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.err = fmt.Errorf("truncated at offset %d (need %d bytes)", r.off, n)
		r.off = len(r.data)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) i16() int16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(b))
}

func (r *reader) i32() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

func (r *reader) f32() float32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func (r *reader) utf() string {
	n := int(r.i16())
	if n < 0 {
		r.err = fmt.Errorf("negative string length %d", n)
		return ""
	}
	b := r.take(n)
	if b == nil {
		return ""
	}
	return string(b)
}

func (r *reader) index(size int) uint32 {
	switch size {
	case 1:
		return uint32(r.u8())
	case 2:
		return uint32(uint16(r.i16()))
	default:
		return uint32(r.i32())
	}
}

func (r *reader) vertex(v *Vertex, skinned bool) {
	for i := range v.Position {
		v.Position[i] = r.f32()
	}
	for i := range v.Normal {
		v.Normal[i] = r.f32()
	}
	for i := range v.TexCoord {
		v.TexCoord[i] = r.f32()
	}
	if skinned {
		for i := range v.BoneIndices {
			v.BoneIndices[i] = r.f32()
		}
		for i := range v.BoneWeights {
			v.BoneWeights[i] = r.f32()
		}
	}
}

func (r *reader) animation(a *Animation) {
	a.Name = r.utf()
	a.Duration = r.f32()
	ccount := int(r.i32())
	if r.err != nil || ccount < 0 {
		return
	}
	a.Channels = make([]Channel, ccount)
	for i := range a.Channels {
		c := &a.Channels[i]
		c.Node = r.i16()
		c.Positions = r.vectorKeys()
		c.Rotations = r.quatKeys()
		c.Scales = r.vectorKeys()
	}
}

func (r *reader) vectorKeys() []VectorKey {
	floats := int(r.i32())
	if r.err != nil || floats <= 0 {
		return nil
	}
	keys := make([]VectorKey, floats/4)
	for i := range keys {
		keys[i].Time = r.f32()
		keys[i].Value[0] = r.f32()
		keys[i].Value[1] = r.f32()
		keys[i].Value[2] = r.f32()
	}
	return keys
}

func (r *reader) quatKeys() []QuatKey {
	floats := int(r.i32())
	if r.err != nil || floats <= 0 {
		return nil
	}
	keys := make([]QuatKey, floats/5)
	for i := range keys {
		keys[i].Time = r.f32()
		keys[i].W = r.f32()
		keys[i].X = r.f32()
		keys[i].Y = r.f32()
		keys[i].Z = r.f32()
	}
	return keys
}

func (r *reader) node(n *Node) {
	n.ChildCount = int(r.u8())
	if n.ChildCount > 0 {
		n.ChildStart = r.i16()
	}
	n.Transform = r.mat4()
	n.BoneID = r.i16()
	if n.BoneID != NoBone {
		n.InverseBind = r.mat4()
	}
}

func (r *reader) mat4() [16]float32 {
	var m [16]float32
	for i := range m {
		m[i] = r.f32()
	}
	return m
}

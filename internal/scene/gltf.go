package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Load reads a glTF or GLB file and builds the neutral scene model.
func Load(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: open %s: %w", path, err)
	}
	s, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("scene: import %s: %w", path, err)
	}
	return s, nil
}

// FromDocument converts a parsed glTF document into a Scene.
// The document's node forest is re-rooted under a single synthetic root so
// the pipeline always sees one tree.
func FromDocument(doc *gltf.Document) (*Scene, error) {
	im := &importer{doc: doc, meshIndex: make(map[int][]int)}

	if err := im.buildMeshes(); err != nil {
		return nil, err
	}

	root, err := im.buildTree()
	if err != nil {
		return nil, err
	}
	im.scene.Root = root

	if err := im.attachSkins(); err != nil {
		return nil, err
	}
	if err := im.buildAnimations(); err != nil {
		return nil, err
	}

	return &im.scene, nil
}

type importer struct {
	doc   *gltf.Document
	scene Scene

	// glTF mesh index → indices into scene.Meshes (one per primitive)
	meshIndex map[int][]int
	// per scene.Meshes entry: raw JOINTS_0 / WEIGHTS_0 attribute data
	joints  [][][4]uint16
	weights [][][4]float32
}

func (im *importer) buildMeshes() error {
	for mi, gm := range im.doc.Meshes {
		for pi, prim := range gm.Primitives {
			name := gm.Name
			if name == "" {
				name = fmt.Sprintf("mesh_%d", mi)
			}
			if len(gm.Primitives) > 1 {
				name = fmt.Sprintf("%s_%d", name, pi)
			}

			m := Mesh{Name: name, Primitive: primitiveMode(prim.Mode)}

			if ai, ok := prim.Attributes[gltf.POSITION]; ok {
				pos, err := modeler.ReadPosition(im.doc, im.doc.Accessors[ai], nil)
				if err != nil {
					return fmt.Errorf("scene: mesh %s positions: %w", name, err)
				}
				m.Positions = pos
			}
			if ai, ok := prim.Attributes[gltf.NORMAL]; ok {
				norm, err := modeler.ReadNormal(im.doc, im.doc.Accessors[ai], nil)
				if err != nil {
					return fmt.Errorf("scene: mesh %s normals: %w", name, err)
				}
				m.Normals = norm
			}
			if ai, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
				uv, err := modeler.ReadTextureCoord(im.doc, im.doc.Accessors[ai], nil)
				if err != nil {
					return fmt.Errorf("scene: mesh %s texcoords: %w", name, err)
				}
				m.TexCoords = uv
			}

			if prim.Indices != nil {
				idx, err := modeler.ReadIndices(im.doc, im.doc.Accessors[*prim.Indices], nil)
				if err != nil {
					return fmt.Errorf("scene: mesh %s indices: %w", name, err)
				}
				m.Faces = toFaces(idx)
			} else if m.Primitive == Triangles {
				// Non-indexed triangle list: sequential faces.
				seq := make([]uint32, len(m.Positions))
				for i := range seq {
					seq[i] = uint32(i)
				}
				m.Faces = toFaces(seq)
			}

			var jointData [][4]uint16
			var weightData [][4]float32
			if ai, ok := prim.Attributes[gltf.JOINTS_0]; ok {
				j, err := modeler.ReadJoints(im.doc, im.doc.Accessors[ai], nil)
				if err != nil {
					return fmt.Errorf("scene: mesh %s joints: %w", name, err)
				}
				jointData = j
			}
			if ai, ok := prim.Attributes[gltf.WEIGHTS_0]; ok {
				w, err := modeler.ReadWeights(im.doc, im.doc.Accessors[ai], nil)
				if err != nil {
					return fmt.Errorf("scene: mesh %s weights: %w", name, err)
				}
				weightData = w
			}

			im.meshIndex[mi] = append(im.meshIndex[mi], len(im.scene.Meshes))
			im.scene.Meshes = append(im.scene.Meshes, m)
			im.joints = append(im.joints, jointData)
			im.weights = append(im.weights, weightData)
		}
	}
	return nil
}

func (im *importer) buildTree() (*Node, error) {
	si := 0
	if im.doc.Scene != nil {
		si = *im.doc.Scene
	}
	if si >= len(im.doc.Scenes) {
		return nil, fmt.Errorf("scene: document has no scene %d", si)
	}

	root := &Node{Name: "RootNode", Transform: mgl32.Ident4()}
	for _, ni := range im.doc.Scenes[si].Nodes {
		child, err := im.buildNode(ni)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, child)
	}
	return root, nil
}

func (im *importer) buildNode(ni int) (*Node, error) {
	if ni < 0 || ni >= len(im.doc.Nodes) {
		return nil, fmt.Errorf("scene: node index %d out of range", ni)
	}
	gn := im.doc.Nodes[ni]

	n := &Node{
		Name:      im.nodeName(ni),
		Transform: nodeTransform(gn),
	}
	if gn.Mesh != nil {
		n.Meshes = append(n.Meshes, im.meshIndex[*gn.Mesh]...)
	}
	for _, ci := range gn.Children {
		child, err := im.buildNode(ci)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func (im *importer) nodeName(ni int) string {
	if name := im.doc.Nodes[ni].Name; name != "" {
		return name
	}
	return fmt.Sprintf("node_%d", ni)
}

// attachSkins converts per-vertex JOINTS_0/WEIGHTS_0 data into per-bone
// weight lists on the meshes of every skinned node. Bones keep the skin's
// joint order so imports are deterministic.
func (im *importer) attachSkins() error {
	for ni, gn := range im.doc.Nodes {
		if gn.Skin == nil || gn.Mesh == nil {
			continue
		}
		if *gn.Skin >= len(im.doc.Skins) {
			return fmt.Errorf("scene: node %s: skin %d out of range", im.nodeName(ni), *gn.Skin)
		}
		skin := im.doc.Skins[*gn.Skin]

		ibms, err := im.readBindMatrices(skin)
		if err != nil {
			return err
		}

		for _, si := range im.meshIndex[*gn.Mesh] {
			m := &im.scene.Meshes[si]
			if m.HasBones() || im.joints[si] == nil || im.weights[si] == nil {
				continue
			}
			perJoint := make([][]VertexWeight, len(skin.Joints))
			for vi := range im.joints[si] {
				for slot := 0; slot < 4; slot++ {
					j := int(im.joints[si][vi][slot])
					w := im.weights[si][vi][slot]
					if w == 0 || j >= len(perJoint) {
						continue
					}
					perJoint[j] = append(perJoint[j], VertexWeight{Vertex: uint32(vi), Weight: w})
				}
			}
			for j, vw := range perJoint {
				if len(vw) == 0 {
					continue
				}
				m.Bones = append(m.Bones, Bone{
					Name:    im.nodeName(skin.Joints[j]),
					Offset:  ibms[j],
					Weights: vw,
				})
			}
		}
	}
	return nil
}

func (im *importer) readBindMatrices(skin *gltf.Skin) ([]mgl32.Mat4, error) {
	out := make([]mgl32.Mat4, len(skin.Joints))
	for i := range out {
		out[i] = mgl32.Ident4()
	}
	if skin.InverseBindMatrices == nil {
		return out, nil
	}
	raw, err := modeler.ReadAccessor(im.doc, im.doc.Accessors[*skin.InverseBindMatrices], nil)
	if err != nil {
		return nil, fmt.Errorf("scene: skin bind matrices: %w", err)
	}
	mats, ok := raw.([][4][4]float32)
	if !ok {
		return nil, fmt.Errorf("scene: skin bind matrices: unexpected type %T", raw)
	}
	for i := range out {
		if i >= len(mats) {
			break
		}
		// Accessor data is column-major, same as mgl32.
		var m mgl32.Mat4
		for col := 0; col < 4; col++ {
			for row := 0; row < 4; row++ {
				m[col*4+row] = mats[i][col][row]
			}
		}
		out[i] = m
	}
	return out, nil
}

func (im *importer) buildAnimations() error {
	for ai, ga := range im.doc.Animations {
		name := ga.Name
		if name == "" {
			name = fmt.Sprintf("animation_%d", ai)
		}
		anim := Animation{Name: name}

		// One Channel per target node, in first-reference order.
		order := []int{}
		byNode := map[int]*Channel{}
		channel := func(ni int) *Channel {
			if c, ok := byNode[ni]; ok {
				return c
			}
			c := &Channel{Node: im.nodeName(ni)}
			byNode[ni] = c
			order = append(order, ni)
			return c
		}

		for _, gc := range ga.Channels {
			if gc.Target.Node == nil {
				continue
			}
			sampler := ga.Samplers[gc.Sampler]
			times, err := im.readTimes(sampler)
			if err != nil {
				return fmt.Errorf("scene: animation %s: %w", name, err)
			}
			for _, t := range times {
				if t > anim.Duration {
					anim.Duration = t
				}
			}
			c := channel(*gc.Target.Node)
			cubic := sampler.Interpolation == gltf.InterpolationCubicSpline

			switch gc.Target.Path {
			case gltf.TRSTranslation, gltf.TRSScale:
				vals, err := im.readVec3(sampler, cubic)
				if err != nil {
					return fmt.Errorf("scene: animation %s: %w", name, err)
				}
				keys := make([]VectorKey, 0, len(times))
				for i, t := range times {
					if i >= len(vals) {
						break
					}
					keys = append(keys, VectorKey{Time: t, Value: vals[i]})
				}
				if gc.Target.Path == gltf.TRSTranslation {
					c.Positions = keys
				} else {
					c.Scales = keys
				}
			case gltf.TRSRotation:
				vals, err := im.readQuat(sampler, cubic)
				if err != nil {
					return fmt.Errorf("scene: animation %s: %w", name, err)
				}
				for i, t := range times {
					if i >= len(vals) {
						break
					}
					c.Rotations = append(c.Rotations, QuatKey{Time: t, Value: vals[i]})
				}
			}
		}

		for _, ni := range order {
			c := byNode[ni]
			if len(c.Positions)+len(c.Rotations)+len(c.Scales) > 0 {
				anim.Channels = append(anim.Channels, *c)
			}
		}
		im.scene.Animations = append(im.scene.Animations, anim)
	}
	return nil
}

func (im *importer) readTimes(s *gltf.AnimationSampler) ([]float32, error) {
	raw, err := modeler.ReadAccessor(im.doc, im.doc.Accessors[s.Input], nil)
	if err != nil {
		return nil, fmt.Errorf("sampler input: %w", err)
	}
	times, ok := raw.([]float32)
	if !ok {
		return nil, fmt.Errorf("sampler input: unexpected type %T", raw)
	}
	return times, nil
}

func (im *importer) readVec3(s *gltf.AnimationSampler, cubic bool) ([]mgl32.Vec3, error) {
	raw, err := modeler.ReadAccessor(im.doc, im.doc.Accessors[s.Output], nil)
	if err != nil {
		return nil, fmt.Errorf("sampler output: %w", err)
	}
	vals, ok := raw.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("sampler output: unexpected type %T", raw)
	}
	out := make([]mgl32.Vec3, 0, len(vals))
	for i := 0; i < len(vals); i++ {
		v := vals[i]
		if cubic {
			// Cubic spline triplets: in-tangent, value, out-tangent.
			if i%3 != 1 {
				continue
			}
		}
		out = append(out, mgl32.Vec3{v[0], v[1], v[2]})
	}
	return out, nil
}

func (im *importer) readQuat(s *gltf.AnimationSampler, cubic bool) ([]mgl32.Quat, error) {
	raw, err := modeler.ReadAccessor(im.doc, im.doc.Accessors[s.Output], nil)
	if err != nil {
		return nil, fmt.Errorf("sampler output: %w", err)
	}
	vals, ok := raw.([][4]float32)
	if !ok {
		return nil, fmt.Errorf("sampler output: unexpected type %T", raw)
	}
	out := make([]mgl32.Quat, 0, len(vals))
	for i := 0; i < len(vals); i++ {
		v := vals[i]
		if cubic && i%3 != 1 {
			continue
		}
		// glTF stores (x, y, z, w).
		out = append(out, mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}})
	}
	return out, nil
}

func primitiveMode(mode gltf.PrimitiveMode) Primitive {
	switch mode {
	case gltf.PrimitiveTriangles:
		return Triangles
	case gltf.PrimitivePoints:
		return Points
	case gltf.PrimitiveLines, gltf.PrimitiveLineLoop, gltf.PrimitiveLineStrip:
		return Lines
	default:
		return Other
	}
}

func toFaces(indices []uint32) [][3]uint32 {
	faces := make([][3]uint32, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		faces = append(faces, [3]uint32{indices[i], indices[i+1], indices[i+2]})
	}
	return faces
}

func nodeTransform(n *gltf.Node) mgl32.Mat4 {
	if !isIdentityOrZero(n.Matrix) {
		var m mgl32.Mat4
		for i := 0; i < 16; i++ {
			m[i] = float32(n.Matrix[i])
		}
		return m
	}

	t := mgl32.Translate3D(float32(n.Translation[0]), float32(n.Translation[1]), float32(n.Translation[2]))
	r := mgl32.Ident4()
	if n.Rotation != [4]float64{} {
		q := mgl32.Quat{
			W: float32(n.Rotation[3]),
			V: mgl32.Vec3{float32(n.Rotation[0]), float32(n.Rotation[1]), float32(n.Rotation[2])},
		}
		r = q.Normalize().Mat4()
	}
	s := mgl32.Ident4()
	if n.Scale != [3]float64{} {
		s = mgl32.Scale3D(float32(n.Scale[0]), float32(n.Scale[1]), float32(n.Scale[2]))
	}
	return t.Mul4(r).Mul4(s)
}

func isIdentityOrZero(m [16]float64) bool {
	id := mgl32.Ident4()
	zero := true
	ident := true
	for i := 0; i < 16; i++ {
		if m[i] != 0 {
			zero = false
		}
		if m[i] != float64(id[i]) {
			ident = false
		}
	}
	return zero || ident
}

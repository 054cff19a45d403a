package assets

import (
	"context"
	"fmt"

	"github.com/gekko3d/springview/animation"
	"github.com/gekko3d/springview/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// GLTFLoader reads .gltf and .glb files. Every scene root is parented under one group
// node named after the file, static meshes are classified by keyword and, when Center
// is set, the group is moved so the model's bounds are centred on the origin.
type GLTFLoader struct {
	StaticKeywords []string
	Center         bool
	Log            Logger
}

func NewGLTFLoader(keywords []string) *GLTFLoader {
	if keywords == nil {
		keywords = scene.DefaultStaticKeywords
	}
	return &GLTFLoader{StaticKeywords: keywords, Center: true}
}

func (l *GLTFLoader) Load(ctx context.Context, path string) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := l.Build(doc)
	if err != nil {
		return nil, fmt.Errorf("gltf %q: %w", path, err)
	}
	m.Source = path
	return m, nil
}

// Build converts an already decoded document.
func (l *GLTFLoader) Build(doc *gltf.Document) (*Model, error) {
	meshes := make([][]*scene.Mesh, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			mesh, err := readPrimitive(doc, gm.Name, pi, prim)
			if err != nil {
				l.warnf("gltf: mesh %d prim %d: %v", mi, pi, err)
				continue
			}
			meshes[mi] = append(meshes[mi], mesh)
		}
	}

	nodes := make([]*scene.Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		name := gn.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		n := scene.NewNode(name)
		t := gn.TranslationOrDefault()
		s := gn.ScaleOrDefault()
		r := gn.RotationOrDefault()
		n.Transform.Position = mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])}
		n.Transform.Scale = mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}
		n.Transform.Rotation = scene.QuatToEuler(mgl32.Quat{
			W: float32(r[3]),
			V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])},
		})

		if gn.Mesh != nil && *gn.Mesh < len(meshes) {
			prims := meshes[*gn.Mesh]
			switch len(prims) {
			case 0:
			case 1:
				n.Mesh = prims[0]
			default:
				// one child per primitive; children inherit the node name so static
				// keywords still match
				for pi, p := range prims {
					n.AddChild(scene.NewMeshNode(fmt.Sprintf("%s_prim%d", name, pi), p))
				}
			}
		}
		nodes[i] = n
	}

	hasParent := make([]bool, len(nodes))
	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c >= 0 && c < len(nodes) && c != i && !hasParent[c] {
				nodes[i].AddChild(nodes[c])
				hasParent[c] = true
			}
		}
	}

	root := scene.NewNode("model")
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		for _, idx := range doc.Scenes[*doc.Scene].Nodes {
			if idx >= 0 && idx < len(nodes) && !hasParent[idx] {
				root.AddChild(nodes[idx])
			}
		}
	} else {
		for i, n := range nodes {
			if !hasParent[i] {
				root.AddChild(n)
			}
		}
	}

	model := &Model{Root: root}
	if len(model.Meshes()) == 0 {
		return nil, ErrNoGeometry
	}

	for ai, ga := range doc.Animations {
		clip, err := readAnimation(doc, ga, ai, nodes)
		if err != nil {
			l.warnf("gltf: animation %d: %v", ai, err)
			continue
		}
		model.Clips = append(model.Clips, clip)
	}

	scene.ClassifyStatic(root, l.StaticKeywords)
	if l.Center {
		Center(root)
	}
	l.debugf("gltf: %d nodes, %d meshes, %d clips", len(nodes), len(model.Meshes()), len(model.Clips))
	return model, nil
}

func (l *GLTFLoader) warnf(format string, args ...any) {
	if l.Log != nil {
		l.Log.Warnf(format, args...)
	}
}

func (l *GLTFLoader) debugf(format string, args ...any) {
	if l.Log != nil {
		l.Log.Debugf(format, args...)
	}
}

func readPrimitive(doc *gltf.Document, meshName string, idx int, prim *gltf.Primitive) (*scene.Mesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, idx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", idx)
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	raw, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	positions := make([]mgl32.Vec3, len(raw))
	for i, p := range raw {
		positions[i] = mgl32.Vec3{p[0], p[1], p[2]}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions)-len(positions)%3)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	return scene.NewMesh(name, positions, indices), nil
}

func readAnimation(doc *gltf.Document, ga *gltf.Animation, idx int, nodes []*scene.Node) (*animation.Clip, error) {
	name := ga.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", idx)
	}
	var tracks []animation.Track
	for ci, ch := range ga.Channels {
		if ch.Target.Node == nil || *ch.Target.Node >= len(nodes) {
			continue
		}
		var path animation.Path
		switch ch.Target.Path {
		case gltf.TRSTranslation:
			path = animation.PathTranslation
		case gltf.TRSRotation:
			path = animation.PathRotation
		case gltf.TRSScale:
			path = animation.PathScale
		default:
			// morph weights are not animated
			continue
		}
		if ch.Sampler < 0 || ch.Sampler >= len(ga.Samplers) {
			return nil, fmt.Errorf("channel %d: sampler %d out of range", ci, ch.Sampler)
		}
		s := ga.Samplers[ch.Sampler]
		times, err := readScalars(doc, s.Input)
		if err != nil {
			return nil, fmt.Errorf("channel %d input: %w", ci, err)
		}
		values, err := readVectors(doc, s.Output)
		if err != nil {
			return nil, fmt.Errorf("channel %d output: %w", ci, err)
		}

		interp := animation.Linear
		switch s.Interpolation {
		case gltf.InterpolationStep:
			interp = animation.Step
		case gltf.InterpolationCubicSpline:
			// keys are stored as in-tangent, value, out-tangent; keep the values
			// and interpolate them linearly
			keys := make([]mgl32.Vec4, 0, len(values)/3)
			for i := 1; i < len(values); i += 3 {
				keys = append(keys, values[i])
			}
			values = keys
		}
		if len(values) < len(times) {
			return nil, fmt.Errorf("channel %d: %d keys but %d values", ci, len(times), len(values))
		}
		tracks = append(tracks, animation.Track{
			Target:        nodes[*ch.Target.Node].ID,
			Path:          path,
			Interpolation: interp,
			Times:         times,
			Values:        values[:len(times)],
		})
	}
	return animation.NewClip(name, tracks...), nil
}

func readScalars(doc *gltf.Document, accessor int) ([]float32, error) {
	if accessor < 0 || accessor >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessor)
	}
	data, err := modeler.ReadAccessor(doc, doc.Accessors[accessor], nil)
	if err != nil {
		return nil, err
	}
	v, ok := data.([]float32)
	if !ok {
		return nil, fmt.Errorf("accessor %d: unsupported key type %T", accessor, data)
	}
	return v, nil
}

func readVectors(doc *gltf.Document, accessor int) ([]mgl32.Vec4, error) {
	if accessor < 0 || accessor >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessor)
	}
	data, err := modeler.ReadAccessor(doc, doc.Accessors[accessor], nil)
	if err != nil {
		return nil, err
	}
	switch v := data.(type) {
	case [][3]float32:
		out := make([]mgl32.Vec4, len(v))
		for i, e := range v {
			out[i] = mgl32.Vec4{e[0], e[1], e[2], 0}
		}
		return out, nil
	case [][4]float32:
		out := make([]mgl32.Vec4, len(v))
		for i, e := range v {
			out[i] = mgl32.Vec4{e[0], e[1], e[2], e[3]}
		}
		return out, nil
	}
	return nil, fmt.Errorf("accessor %d: unsupported value type %T", accessor, data)
}

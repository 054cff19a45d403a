package render

import (
	"github.com/gekko3d/springview/scene"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	staticColor  = mgl32.Vec4{0.55, 0.55, 0.58, 1}
	dynamicColor = mgl32.Vec4{0.8, 0.78, 0.74, 1}
)

// clipCorrection maps the GL depth range [-1, 1] that mgl32.Perspective produces onto
// the [0, 1] range WebGPU clips against.
var clipCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

type vertex struct {
	Position mgl32.Vec3 `render:"layout" format:"float3" location:"0"`
	Normal   mgl32.Vec3 `render:"layout" format:"float3" location:"1"`
}

// drawUniforms mirrors the Draw struct of meshShader.
type drawUniforms struct {
	ViewProj mgl32.Mat4
	Model    mgl32.Mat4
	Color    mgl32.Vec4
	Rim      mgl32.Vec4
	Params   mgl32.Vec4 // strength, thickness, glow, grid mode
	Eye      mgl32.Vec4
	Line     mgl32.Vec4 // grid line rgb, width
	Fade     mgl32.Vec4 // start, end
}

type drawItem struct {
	ID       scene.ObjectID
	Mesh     *scene.Mesh
	Uniforms drawUniforms
}

func viewProjection(c *scene.Camera) mgl32.Mat4 {
	return clipCorrection.Mul4(c.ProjectionMatrix()).Mul4(c.ViewMatrix())
}

// collectDraws lists every visible mesh under the frame root, outlined ones tinted with
// the outline colour, followed by the grid when the frame has one.
func collectDraws(f *Frame) []drawItem {
	if f.Camera == nil {
		return nil
	}
	vp := viewProjection(f.Camera)
	eye := f.Camera.Position.Vec4(1)
	outlined := make(map[*scene.Node]bool, len(f.Outlined))
	for _, n := range f.Outlined {
		outlined[n] = true
	}
	o := f.Outline
	params := mgl32.Vec4{o.Strength, o.Thickness, o.Glow, 0}

	var items []drawItem
	f.Root.Walk(mgl32.Ident4(), func(n *scene.Node, world mgl32.Mat4) {
		if n.Mesh == nil || !n.Visible || n.Mesh.TriangleCount() == 0 {
			return
		}
		u := drawUniforms{ViewProj: vp, Model: world, Color: dynamicColor, Params: params, Eye: eye}
		if n.Static {
			u.Color = staticColor
		}
		if outlined[n] {
			u.Rim = mgl32.Vec4{o.Color[0], o.Color[1], o.Color[2], 1}
		}
		items = append(items, drawItem{ID: n.ID, Mesh: n.Mesh, Uniforms: u})
	})

	if f.Grid != nil && f.GridMesh != nil {
		g := f.Grid
		items = append(items, drawItem{
			ID:   scene.NilObjectID,
			Mesh: f.GridMesh,
			Uniforms: drawUniforms{
				ViewProj: vp,
				Model:    mgl32.Ident4(),
				Color:    mgl32.Vec4{g.BaseColor[0], g.BaseColor[1], g.BaseColor[2], 1},
				Params:   mgl32.Vec4{0, 0, 0, 1},
				Eye:      g.CameraPosition.Vec4(1),
				Line:     mgl32.Vec4{g.GridColor[0], g.GridColor[1], g.GridColor[2], g.GridWidth},
				Fade:     mgl32.Vec4{g.FadeStart, g.FadeEnd, 0, 0},
			},
		})
	}
	return items
}

// flatVertices unrolls a mesh into one vertex per triangle corner carrying the face
// normal, which is all the shading needs.
func flatVertices(m *scene.Mesh) []vertex {
	out := make([]vertex, 0, 3*m.TriangleCount())
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		n := b.Sub(a).Cross(c.Sub(a))
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		}
		out = append(out, vertex{a, n}, vertex{b, n}, vertex{c, n})
	}
	return out
}

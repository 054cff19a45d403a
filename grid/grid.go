// Package grid models the animated ground grid: the uniforms a renderer needs each frame
// and a CPU evaluation of the same height field, used for picking and tests.
package grid

import (
	"github.com/charmbracelet/harmonica"
	"github.com/chewxy/math32"
	"github.com/gekko3d/springview/config"
	"github.com/gekko3d/springview/picking"
	"github.com/gekko3d/springview/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// rippleFrequency is the number of radians the ripple phase covers from the centre of
// the mouse radius to its edge.
const rippleFrequency = 10

type Uniforms struct {
	Time           float32
	MousePosition  mgl32.Vec2
	MouseRadius    float32
	MouseStrength  float32
	CameraPosition mgl32.Vec3
	GridColor      [3]float32
	BaseColor      [3]float32
	GridWidth      float32
	FadeStart      float32
	FadeEnd        float32
	NoiseScale     float32
	NoiseStrength  float32
	Speed          float32
}

type State struct {
	Uniforms Uniforms
	Size     float32
	Segments int

	// Smoothing is the spring frequency used to follow the pointer; zero snaps.
	Smoothing float32

	target   mgl32.Vec2
	velocity [2]float64
	hovering bool

	flat    []mgl32.Vec2
	indices []uint32
}

func New(cfg config.Grid) *State {
	s := &State{
		Size:      float32(cfg.Size),
		Segments:  cfg.Subdivisions,
		Smoothing: cfg.Smoothing,
	}
	s.Configure(cfg)
	return s
}

// Configure copies the tunable settings, leaving time and mouse state alone.
func (s *State) Configure(cfg config.Grid) {
	u := &s.Uniforms
	u.MouseRadius = cfg.MouseRadius
	u.MouseStrength = cfg.MouseStrength
	u.GridColor = cfg.Color.Floats()
	u.BaseColor = cfg.BaseColor.Floats()
	u.GridWidth = cfg.Width
	u.FadeStart = cfg.FadeStart
	u.FadeEnd = cfg.FadeEnd
	u.NoiseScale = cfg.GlobalNoiseScale
	u.NoiseStrength = cfg.GlobalNoiseStrength
	u.Speed = cfg.Speed
	s.Smoothing = cfg.Smoothing
}

// Hovering reports whether the last pointer ray hit the plane.
func (s *State) Hovering() bool { return s.hovering }

// Update advances the grid to elapsed seconds. The pointer ray is intersected with the
// y=0 plane; a hit inside the grid moves the mouse target, a miss keeps the last one.
func (s *State) Update(elapsed, dt float32, camera *scene.Camera, pointer mgl32.Vec2) {
	s.Uniforms.Time = elapsed
	s.Uniforms.CameraPosition = camera.Position

	ray := picking.ScreenToRay(camera, pointer)
	s.hovering = false
	if t, ok := picking.IntersectPlane(ray, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}); ok {
		p := ray.At(t)
		half := s.Size / 2
		if math32.Abs(p.X()) <= half && math32.Abs(p.Z()) <= half {
			s.target = mgl32.Vec2{p.X(), p.Z()}
			s.hovering = true
		}
	}
	s.follow(dt)
}

func (s *State) follow(dt float32) {
	if s.Smoothing <= 0 || dt <= 0 {
		s.Uniforms.MousePosition = s.target
		s.velocity = [2]float64{}
		return
	}
	spring := harmonica.NewSpring(float64(dt), float64(s.Smoothing), 1)
	cur := s.Uniforms.MousePosition
	x, vx := spring.Update(float64(cur.X()), s.velocity[0], float64(s.target.X()))
	z, vz := spring.Update(float64(cur.Y()), s.velocity[1], float64(s.target.Y()))
	s.Uniforms.MousePosition = mgl32.Vec2{float32(x), float32(z)}
	s.velocity = [2]float64{vx, vz}
}

// Ripple is the deformation around the mouse point at plane coordinates (x, z).
func (s *State) Ripple(x, z float32) float32 {
	u := &s.Uniforms
	if u.MouseRadius <= 0 {
		return 0
	}
	d := mgl32.Vec2{x, z}.Sub(u.MousePosition).Len()
	if d >= u.MouseRadius {
		return 0
	}
	f := 1 - d/u.MouseRadius
	return math32.Sin(f*rippleFrequency-u.Time*u.MouseStrength) * f * u.MouseStrength
}

// Wave is the slow global swell over the whole plane.
func (s *State) Wave(x, z float32) float32 {
	u := &s.Uniforms
	if u.NoiseStrength == 0 {
		return 0
	}
	n := smoothNoise(x*u.NoiseScale+u.Time*u.Speed*0.1, z*u.NoiseScale)
	return (n*2 - 1) * u.NoiseStrength
}

// Height is the total vertical displacement of the plane at (x, z).
func (s *State) Height(x, z float32) float32 {
	return s.Ripple(x, z) + s.Wave(x, z)
}

// Fade is the line visibility at distance d from the camera, 1 up close and 0 past
// FadeEnd, with the same cubic falloff the grid shader uses.
func (s *State) Fade(d float32) float32 {
	u := &s.Uniforms
	f := 1 - smoothstep(u.FadeStart, u.FadeEnd, d)
	return f * f * f
}

// Mesh samples Height over a Segments x Segments lattice of the plane. The lattice is
// built once; positions are fresh on every call.
func (s *State) Mesh() *scene.Mesh {
	n := max(s.Segments, 1)
	if len(s.flat) != (n+1)*(n+1) {
		s.buildLattice(n)
	}
	positions := make([]mgl32.Vec3, len(s.flat))
	for i, p := range s.flat {
		positions[i] = mgl32.Vec3{p.X(), s.Height(p.X(), p.Y()), p.Y()}
	}
	return scene.NewMesh("grid", positions, s.indices)
}

func (s *State) buildLattice(n int) {
	half := s.Size / 2
	step := s.Size / float32(n)
	s.flat = s.flat[:0]
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			s.flat = append(s.flat, mgl32.Vec2{-half + float32(i)*step, -half + float32(j)*step})
		}
	}
	s.indices = s.indices[:0]
	row := uint32(n + 1)
	for j := uint32(0); j < uint32(n); j++ {
		for i := uint32(0); i < uint32(n); i++ {
			a := j*row + i
			b, c, d := a+1, a+row+1, a+row
			// same winding as scene.Plane: faces +Y
			s.indices = append(s.indices, a, c, b, a, d, c)
		}
	}
}

func smoothstep(e0, e1, x float32) float32 {
	if e1 <= e0 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := mgl32.Clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

func hash(x, y float32) float32 {
	h := math32.Sin(x*12.9898+y*78.233) * 43758.5453
	return h - math32.Floor(h)
}

// smoothNoise is bilinear value noise in [0, 1).
func smoothNoise(x, y float32) float32 {
	x0, y0 := math32.Floor(x), math32.Floor(y)
	sx := smoothstep(0, 1, x-x0)
	sy := smoothstep(0, 1, y-y0)
	n00 := hash(x0, y0)
	n10 := hash(x0+1, y0)
	n01 := hash(x0, y0+1)
	n11 := hash(x0+1, y0+1)
	a := n00 + (n10-n00)*sx
	b := n01 + (n11-n01)*sx
	return a + (b-a)*sy
}

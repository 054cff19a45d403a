// Package animation samples keyframed clips onto scene nodes and blends the running
// actions by weight, with crossfades driven by mixer time.
package animation

import (
	"sort"

	"github.com/gekko3d/springview/scene"
	"github.com/go-gl/mathgl/mgl32"
)

type Path int

const (
	PathTranslation Path = iota
	PathRotation
	PathScale
)

func (p Path) String() string {
	switch p {
	case PathTranslation:
		return "translation"
	case PathRotation:
		return "rotation"
	case PathScale:
		return "scale"
	}
	return "unknown"
}

type Interpolation int

const (
	Linear Interpolation = iota
	Step
)

// Track animates one property of one node. Translation and scale keys use xyz of each
// value; rotation keys are quaternions stored as xyzw.
type Track struct {
	Target        scene.ObjectID
	Path          Path
	Interpolation Interpolation
	Times         []float32
	Values        []mgl32.Vec4
}

func (t *Track) Duration() float32 {
	if len(t.Times) == 0 {
		return 0
	}
	return t.Times[len(t.Times)-1]
}

// Sample evaluates the track at time, holding the first and last keys outside the range.
func (t *Track) Sample(time float32) mgl32.Vec4 {
	n := len(t.Times)
	if n == 0 || len(t.Values) < n {
		return mgl32.Vec4{}
	}
	if time <= t.Times[0] {
		return t.Values[0]
	}
	if time >= t.Times[n-1] {
		return t.Values[n-1]
	}
	// first key strictly after time
	i := sort.Search(n, func(i int) bool { return t.Times[i] > time })
	a, b := t.Values[i-1], t.Values[i]
	if t.Interpolation == Step {
		return a
	}
	span := t.Times[i] - t.Times[i-1]
	if span <= 0 {
		return b
	}
	f := (time - t.Times[i-1]) / span
	if t.Path == PathRotation {
		q := mgl32.QuatSlerp(vecToQuat(a), vecToQuat(b), f)
		return quatToVec(q)
	}
	return a.Add(b.Sub(a).Mul(f))
}

type Clip struct {
	Name     string
	Duration float32
	Tracks   []Track
}

// NewClip builds a clip whose duration is the last key time over all tracks.
func NewClip(name string, tracks ...Track) *Clip {
	c := &Clip{Name: name, Tracks: tracks}
	for i := range tracks {
		if d := tracks[i].Duration(); d > c.Duration {
			c.Duration = d
		}
	}
	return c
}

func vecToQuat(v mgl32.Vec4) mgl32.Quat {
	return mgl32.Quat{W: v.W(), V: mgl32.Vec3{v.X(), v.Y(), v.Z()}}
}

func quatToVec(q mgl32.Quat) mgl32.Vec4 {
	return mgl32.Vec4{q.V.X(), q.V.Y(), q.V.Z(), q.W}
}

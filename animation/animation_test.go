package animation

import (
	"fmt"
	"testing"

	"github.com/gekko3d/springview/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

// slide moves target along x from 0 to distance over one second.
func slide(name string, target *scene.Node, distance float32) *Clip {
	return NewClip(name, Track{
		Target: target.ID,
		Path:   PathTranslation,
		Times:  []float32{0, 1},
		Values: []mgl32.Vec4{{0, 0, 0, 0}, {distance, 0, 0, 0}},
	})
}

func fixture() (*scene.Graph, *scene.Node) {
	g := scene.NewGraph()
	n := scene.NewNode("Armature")
	g.Add(n)
	return g, n
}

func TestTrackSample(t *testing.T) {
	tr := Track{
		Path:   PathTranslation,
		Times:  []float32{0, 1, 2},
		Values: []mgl32.Vec4{{0, 0, 0, 0}, {2, 0, 0, 0}, {2, 4, 0, 0}},
	}
	assert.InDelta(t, 1, tr.Sample(0.5).X(), 1e-6)
	assert.InDelta(t, 2, tr.Sample(1.5).Y(), 1e-6)
	assert.Equal(t, tr.Values[0], tr.Sample(-1))
	assert.Equal(t, tr.Values[2], tr.Sample(5))

	tr.Interpolation = Step
	assert.Equal(t, tr.Values[0], tr.Sample(0.9))
}

func TestTrackSampleRotation(t *testing.T) {
	q := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	tr := Track{
		Path:   PathRotation,
		Times:  []float32{0, 1},
		Values: []mgl32.Vec4{quatToVec(mgl32.QuatIdent()), quatToVec(q)},
	}
	half := vecToQuat(tr.Sample(0.5))
	want := mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 1, 0})
	assert.True(t, half.ApproxEqualThreshold(want, 1e-4))
}

func TestPlayUnknownClipOnEmptyRegistry(t *testing.T) {
	g, _ := fixture()
	log := &recordingLogger{}
	c := NewController(NewMixer(g))
	c.Log = log

	err := c.Play("idle")
	require.ErrorIs(t, err, ErrClipNotFound)
	assert.Equal(t, Idle, c.State())
	assert.Nil(t, c.Active())
	require.Len(t, log.warnings, 1)
	assert.Contains(t, log.warnings[0], "idle")
}

func TestPlayThenPlayLeavesOneActive(t *testing.T) {
	g, n := fixture()
	walk := slide("walk", n, 1)
	run := slide("run", n, 3)
	c := NewController(NewMixer(g), walk, run)

	require.NoError(t, c.Play("walk"))
	c.Advance(0.6)
	require.NoError(t, c.Play("run"))

	assert.Equal(t, "run", c.ActiveName())
	walkAction, _ := c.Action("walk")
	runAction, _ := c.Action("run")
	assert.True(t, walkAction.Fading())

	c.Advance(0.25)
	assert.InDelta(t, 0.5, walkAction.Weight(), 1e-5)
	assert.InDelta(t, 0.5, runAction.Weight(), 1e-5)

	c.Advance(0.3)
	assert.False(t, walkAction.Enabled())
	assert.False(t, walkAction.IsScheduled())
	assert.True(t, runAction.IsRunning())
	assert.Equal(t, 1, c.Mixer.Scheduled())
	assert.InDelta(t, 1, runAction.Weight(), 1e-6)
}

func TestPauseResumeKeepsClipTime(t *testing.T) {
	g, n := fixture()
	c := NewController(NewMixer(g), slide("wave", n, 1))

	require.NoError(t, c.Play("wave"))
	c.Advance(0.3)
	a := c.Active()
	assert.InDelta(t, 0.3, a.Time(), 1e-6)

	c.Pause()
	assert.Equal(t, Paused, c.State())
	c.Advance(1)
	assert.InDelta(t, 0.3, a.Time(), 1e-6)

	c.Resume()
	assert.Equal(t, Playing, c.State())
	assert.InDelta(t, 0.3, a.Time(), 1e-6)
	c.Advance(0.1)
	assert.InDelta(t, 0.4, a.Time(), 1e-6)
}

func TestPauseAndResumeWhenIdle(t *testing.T) {
	g, _ := fixture()
	c := NewController(NewMixer(g))
	c.Pause()
	c.Resume()
	c.Stop()
	c.Advance(1)
	assert.Equal(t, Idle, c.State())
}

func TestStopClearsActiveImmediately(t *testing.T) {
	g, n := fixture()
	c := NewController(NewMixer(g), slide("wave", n, 1))
	require.NoError(t, c.Play("wave"))
	c.Advance(1)
	a := c.Active()

	c.Stop()
	assert.Equal(t, Idle, c.State())
	assert.True(t, a.IsScheduled(), "still fading out")

	c.Advance(DefaultFadeTime)
	assert.False(t, a.IsScheduled())
}

func TestLoopRepeatWraps(t *testing.T) {
	g, n := fixture()
	c := NewController(NewMixer(g), slide("wave", n, 1))
	require.NoError(t, c.Play("wave"))
	c.Advance(1.25)
	assert.InDelta(t, 0.25, c.Active().Time(), 1e-5)
}

func TestMixerWritesBlendedPose(t *testing.T) {
	g, n := fixture()
	n.Transform.Position = mgl32.Vec3{0, 5, 0}
	c := NewController(NewMixer(g), slide("walk", n, 2))

	require.NoError(t, c.Play("walk"))
	c.Advance(0.5)
	// full weight once the fade-in is done; x sampled at t=0.5
	assert.InDelta(t, 1, n.Transform.Position.X(), 1e-5)
	assert.InDelta(t, 0, n.Transform.Position.Y(), 1e-5)
}

func TestMixerPartialWeightBlendsWithOriginal(t *testing.T) {
	g, n := fixture()
	n.Transform.Position = mgl32.Vec3{0, 4, 0}
	m := NewMixer(g)
	clip := NewClip("hold", Track{
		Target: n.ID,
		Path:   PathTranslation,
		Times:  []float32{0, 1},
		Values: []mgl32.Vec4{{0, 0, 0, 0}, {0, 0, 0, 0}},
	})
	m.ClipAction(clip).FadeIn(1).Play()
	m.Update(0.25)
	assert.InDelta(t, 3, n.Transform.Position.Y(), 1e-5)
}

func TestMixerRestoresOriginalWhenUndriven(t *testing.T) {
	g, n := fixture()
	n.Transform.Position = mgl32.Vec3{7, 0, 0}
	c := NewController(NewMixer(g), slide("walk", n, 2))

	require.NoError(t, c.Play("walk"))
	c.Advance(0.75)
	assert.NotEqual(t, float32(7), n.Transform.Position.X())

	c.Stop()
	c.Advance(1)
	assert.Equal(t, mgl32.Vec3{7, 0, 0}, n.Transform.Position)
}

func TestMixerIgnoresUnknownTargets(t *testing.T) {
	g, _ := fixture()
	ghost := scene.NewNode("ghost")
	c := NewController(NewMixer(g), slide("walk", ghost, 1))
	require.NoError(t, c.Play("walk"))
	assert.NotPanics(t, func() { c.Advance(0.5) })
	assert.Equal(t, mgl32.Vec3{}, ghost.Transform.Position)
}

func TestListKeepsRegistrationOrder(t *testing.T) {
	g, n := fixture()
	c := NewController(NewMixer(g),
		slide("zeta", n, 1),
		slide("alpha", n, 1),
		slide("mid", n, 1),
	)
	c.Register(slide("alpha", n, 2))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, c.List())
}

func TestClear(t *testing.T) {
	g, n := fixture()
	c := NewController(NewMixer(g), slide("walk", n, 1))
	require.NoError(t, c.Play("walk"))
	c.Advance(0.5)
	c.Clear()
	assert.Empty(t, c.List())
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 0, c.Mixer.Scheduled())
	assert.Equal(t, 0, c.Mixer.Bindings())
	assert.Equal(t, mgl32.Vec3{}, n.Transform.Position)
}

func TestClearReleasesEveryModel(t *testing.T) {
	g := scene.NewGraph()
	c := NewController(NewMixer(g))

	for round := 0; round < 3; round++ {
		n := scene.NewNode(fmt.Sprintf("model_%d", round))
		g.Add(n)
		c.Register(slide("walk", n, 1))
		require.NoError(t, c.Play("walk"))
		c.Advance(0.25)
		require.Equal(t, 1, c.Mixer.Bindings())
		require.Equal(t, 1, c.Mixer.Scheduled())

		c.Clear()
		g.Clear()
		assert.Equal(t, 0, c.Mixer.Bindings(), "round %d", round)
		assert.Equal(t, 0, c.Mixer.Scheduled(), "round %d", round)
		assert.Empty(t, c.Mixer.actions, "round %d", round)
		assert.Equal(t, mgl32.Vec3{}, n.Transform.Position, "round %d", round)
	}
}

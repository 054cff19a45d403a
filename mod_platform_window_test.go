package springview

import (
	"testing"

	"github.com/gekko3d/springview/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	w, h     int
	pointer  func(x, y float64)
	onResize map[int]func(w, h int)
	next     int
}

func (f *fakeWindow) OnPointer(fn func(x, y float64)) { f.pointer = fn }
func (f *fakeWindow) Size() (int, int)                { return f.w, f.h }

func (f *fakeWindow) OnResize(fn func(width, height int)) func() {
	if f.onResize == nil {
		f.onResize = make(map[int]func(w, h int))
	}
	id := f.next
	f.next++
	f.onResize[id] = fn
	return func() { delete(f.onResize, id) }
}

func (f *fakeWindow) resize(w, h int) {
	f.w, f.h = w, h
	for _, fn := range f.onResize {
		fn(w, h)
	}
}

func TestPlatformWindowModule(t *testing.T) {
	win := &fakeWindow{w: 400, h: 200}
	f := newViewerFixture(t, facingBoxes(), WithWindow(win))
	f.load(t)

	require.NotNil(t, win.pointer)
	win.pointer(400, 200)
	f.tick(t)
	assert.InDelta(t, 1, f.viewer.Interaction().Pointer.X(), 1e-6)
	assert.InDelta(t, -1, f.viewer.Interaction().Pointer.Y(), 1e-6)
	assert.InDelta(t, 2, f.viewer.Scene().Camera.Aspect, 1e-6)

	win.resize(300, 300)
	f.tick(t)
	assert.InDelta(t, 1, f.viewer.Scene().Camera.Aspect, 1e-6)

	f.viewer.Close()
	assert.Nil(t, win.pointer)
	assert.Empty(t, win.onResize)
}

func TestRendererGuard(t *testing.T) {
	app := NewAppBuilder().UseModule(InputModule{}, SceneModule{}, RenderModule{Renderer: &render.Recorder{}}).Build()
	tag, ok := Resource[RendererTag](app)
	require.True(t, ok)
	assert.Equal(t, "*render.Recorder", tag.Name)

	assert.Panics(t, func() { ensureSingleRenderer(app, "*render.Presenter") })
	assert.NotPanics(t, func() { ensureSingleRenderer(app, "*render.Recorder") })
}

package springview

// PlatformWindow is what the viewer needs from a desktop window: cursor and framebuffer
// callbacks plus the current size. *render.Window implements it.
type PlatformWindow interface {
	OnPointer(fn func(x, y float64))
	OnResize(fn func(width, height int)) (remove func())
	Size() (int, int)
}

// PlatformWindowModule feeds a window's cursor and resize events into the Pointer
// resource. Both callbacks are unregistered on teardown.
type PlatformWindowModule struct {
	Window PlatformWindow
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	p, ok := Resource[Pointer](app)
	if !ok {
		panic("PlatformWindowModule needs InputModule installed first")
	}
	if m.Window == nil {
		return
	}
	p.Resize(m.Window.Size())
	m.Window.OnPointer(p.Move)
	removeResize := m.Window.OnResize(p.Resize)
	cmd.OnTeardown(func() {
		m.Window.OnPointer(nil)
		removeResize()
	})
}

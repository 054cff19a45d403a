package render

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window is a GLFW window without a GL context, sized for a wgpu surface. All methods
// must be called from the thread that created it.
type Window struct {
	glfw   *glfw.Window
	Width  int
	Height int
	Title  string

	onPointer func(x, y float64)
	onResize  resizeListeners
}

type resizeListener struct {
	fn func(w, h int)
}

// resizeListeners is an ordered set of framebuffer callbacks that can be removed
// individually.
type resizeListeners []*resizeListener

func (ls *resizeListeners) add(fn func(w, h int)) func() {
	l := &resizeListener{fn: fn}
	*ls = append(*ls, l)
	return func() {
		for i, x := range *ls {
			if x == l {
				*ls = append((*ls)[:i], (*ls)[i+1:]...)
				return
			}
		}
	}
}

func (ls resizeListeners) emit(w, h int) {
	for _, l := range append(resizeListeners(nil), ls...) {
		l.fn(w, h)
	}
}

func NewWindow(width, height int, title string) (*Window, error) {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfw window: %w", err)
	}
	w := &Window{glfw: win, Width: width, Height: height, Title: title}
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, fw, fh int) {
		w.Width, w.Height = fw, fh
		w.onResize.emit(fw, fh)
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if w.onPointer != nil {
			w.onPointer(x, y)
		}
	})
	return w, nil
}

// OnPointer registers the cursor callback, in window pixels. Passing nil unregisters it.
func (w *Window) OnPointer(fn func(x, y float64)) { w.onPointer = fn }

// OnResize registers a framebuffer size callback and returns the func that removes it.
func (w *Window) OnResize(fn func(width, height int)) (remove func()) {
	return w.onResize.add(fn)
}

func (w *Window) Size() (int, int) { return w.Width, w.Height }

func (w *Window) ShouldClose() bool { return w.glfw.ShouldClose() }

func (w *Window) PollEvents() { glfw.PollEvents() }

func (w *Window) Destroy() {
	w.onPointer = nil
	w.onResize = nil
	w.glfw.Destroy()
	glfw.Terminate()
}

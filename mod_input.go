package springview

import (
	"sync"

	"github.com/gekko3d/springview/picking"
	"github.com/go-gl/mathgl/mgl32"
)

// Pointer receives cursor and viewport updates from window callbacks on any goroutine.
// The tick reads a consistent snapshot in PreUpdate.
type Pointer struct {
	mu            sync.Mutex
	x, y          float64
	width, height int
	moved         bool

	// NDC and the viewport size as of the current tick.
	NDC           mgl32.Vec2
	Width, Height int
}

func (p *Pointer) Move(x, y float64) {
	p.mu.Lock()
	p.x, p.y = x, y
	p.moved = true
	p.mu.Unlock()
}

func (p *Pointer) Resize(width, height int) {
	p.mu.Lock()
	p.width, p.height = width, height
	p.mu.Unlock()
}

func (p *Pointer) snapshot() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Width, p.Height = p.width, p.height
	if p.moved && p.width > 0 && p.height > 0 {
		p.NDC = picking.PointerToNDC(p.x, p.y, p.width, p.height)
	}
}

type InputModule struct {
	Width, Height int
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	p := &Pointer{}
	p.Resize(mod.Width, mod.Height)
	cmd.AddResources(p)
	cmd.UseSystem(System(inputSystem).InStage(PreUpdate))
}

func inputSystem(p *Pointer) {
	p.snapshot()
}

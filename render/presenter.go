package render

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/springview/scene"
)

type meshBuffer struct {
	buf   *wgpu.Buffer
	count uint32
}

type nodeBinding struct {
	uniforms  *wgpu.Buffer
	bindGroup *wgpu.BindGroup
}

// Presenter owns the wgpu surface of a Window and draws each frame's meshes with flat
// lit shading. Outlined nodes are tinted with the outline colour; in grid mode the grid
// plane is drawn over the base colour.
type Presenter struct {
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	config   *wgpu.SurfaceConfiguration
	pipeline *wgpu.RenderPipeline
	depth    *wgpu.TextureView

	meshes       map[*scene.Mesh]*meshBuffer
	nodes        map[scene.ObjectID]*nodeBinding
	grid         *meshBuffer
	removeResize func()
}

func NewPresenter(w *Window) (*Presenter, error) {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(w.glfw))
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		surface.Release()
		return nil, fmt.Errorf("wgpu adapter: %w", err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "springview"})
	if err != nil {
		adapter.Release()
		surface.Release()
		return nil, fmt.Errorf("wgpu device: %w", err)
	}

	caps := surface.GetCapabilities(adapter)
	cfg := &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(w.Width),
		Height:      uint32(w.Height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, cfg)

	p := &Presenter{
		surface: surface,
		adapter: adapter,
		device:  device,
		queue:   device.GetQueue(),
		config:  cfg,
		meshes:  make(map[*scene.Mesh]*meshBuffer),
		nodes:   make(map[scene.ObjectID]*nodeBinding),
	}
	if p.pipeline, err = createMeshPipeline(device, cfg.Format); err != nil {
		p.Release()
		return nil, err
	}
	if p.depth, err = createDepthView(device, cfg.Width, cfg.Height); err != nil {
		p.Release()
		return nil, err
	}
	p.removeResize = w.OnResize(p.Resize)
	return p, nil
}

func (p *Presenter) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	p.config.Width = uint32(width)
	p.config.Height = uint32(height)
	p.surface.Configure(p.adapter, p.device, p.config)

	depth, err := createDepthView(p.device, p.config.Width, p.config.Height)
	if err != nil {
		return
	}
	if p.depth != nil {
		p.depth.Release()
	}
	p.depth = depth
}

func (p *Presenter) Render(f *Frame) error {
	items := collectDraws(f)
	if err := p.upload(items); err != nil {
		return err
	}

	next, err := p.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("surface texture: %w", err)
	}
	defer next.Release()

	view, err := next.CreateView(nil)
	if err != nil {
		return fmt.Errorf("surface view: %w", err)
	}
	defer view.Release()

	encoder, err := p.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: ClearColor(f),
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            p.depth,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		},
	})
	pass.SetPipeline(p.pipeline)
	for _, it := range items {
		mb := p.meshBuffer(it)
		nb := p.nodes[it.ID]
		if mb == nil || nb == nil || mb.count == 0 {
			continue
		}
		pass.SetBindGroup(0, nb.bindGroup, nil)
		pass.SetVertexBuffer(0, mb.buf, 0, wgpu.WholeSize)
		pass.Draw(mb.count, 1, 0, 0)
	}
	err = pass.End()
	pass.Release()
	if err != nil {
		return fmt.Errorf("render pass: %w", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("encoder finish: %w", err)
	}
	defer cmd.Release()
	p.queue.Submit(cmd)
	p.surface.Present()
	return nil
}

func (p *Presenter) meshBuffer(it drawItem) *meshBuffer {
	if it.ID == scene.NilObjectID {
		return p.grid
	}
	return p.meshes[it.Mesh]
}

// upload makes sure every item has a vertex buffer and a uniform buffer holding this
// frame's values, and frees what the frame no longer draws.
func (p *Presenter) upload(items []drawItem) error {
	usedMeshes := make(map[*scene.Mesh]bool, len(items))
	usedNodes := make(map[scene.ObjectID]bool, len(items))
	for _, it := range items {
		usedNodes[it.ID] = true
		if it.ID == scene.NilObjectID {
			if err := p.uploadGrid(it.Mesh); err != nil {
				return err
			}
		} else if !usedMeshes[it.Mesh] {
			usedMeshes[it.Mesh] = true
			if _, ok := p.meshes[it.Mesh]; !ok {
				mb, err := p.createMeshBuffer(it.Mesh, wgpu.BufferUsageVertex)
				if err != nil {
					return err
				}
				p.meshes[it.Mesh] = mb
			}
		}

		data, err := uniformBytes(it.Uniforms)
		if err != nil {
			return err
		}
		nb, ok := p.nodes[it.ID]
		if !ok {
			if nb, err = p.createNodeBinding(data); err != nil {
				return err
			}
			p.nodes[it.ID] = nb
			continue
		}
		if err := p.queue.WriteBuffer(nb.uniforms, 0, data); err != nil {
			return fmt.Errorf("write uniforms: %w", err)
		}
	}

	for m, mb := range p.meshes {
		if !usedMeshes[m] {
			if mb.buf != nil {
				mb.buf.Release()
			}
			delete(p.meshes, m)
		}
	}
	for id, nb := range p.nodes {
		if !usedNodes[id] {
			nb.release()
			delete(p.nodes, id)
		}
	}
	return nil
}

// uploadGrid rewrites the grid vertices in place; the lattice size only changes with
// the subdivision count.
func (p *Presenter) uploadGrid(m *scene.Mesh) error {
	verts := flatVertices(m)
	if p.grid != nil && p.grid.buf != nil && p.grid.count == uint32(len(verts)) {
		if err := p.queue.WriteBuffer(p.grid.buf, 0, wgpu.ToBytes(verts)); err != nil {
			return fmt.Errorf("write grid: %w", err)
		}
		return nil
	}
	if p.grid != nil {
		p.grid.buf.Release()
		p.grid = nil
	}
	mb, err := p.createMeshBuffer(m, wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	p.grid = mb
	return nil
}

func (p *Presenter) createMeshBuffer(m *scene.Mesh, usage wgpu.BufferUsage) (*meshBuffer, error) {
	verts := flatVertices(m)
	if len(verts) == 0 {
		return &meshBuffer{}, nil
	}
	buf, err := p.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    m.Name,
		Contents: wgpu.ToBytes(verts),
		Usage:    usage,
	})
	if err != nil {
		return nil, fmt.Errorf("vertex buffer %q: %w", m.Name, err)
	}
	return &meshBuffer{buf: buf, count: uint32(len(verts))}, nil
}

func (p *Presenter) createNodeBinding(data []byte) (*nodeBinding, error) {
	buf, err := p.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "draw uniforms",
		Contents: data,
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("uniform buffer: %w", err)
	}
	bg, err := createUniformBindGroup(p.device, p.pipeline, buf)
	if err != nil {
		buf.Release()
		return nil, err
	}
	return &nodeBinding{uniforms: buf, bindGroup: bg}, nil
}

func (nb *nodeBinding) release() {
	nb.bindGroup.Release()
	nb.uniforms.Release()
}

func (p *Presenter) Release() {
	if p.removeResize != nil {
		p.removeResize()
	}
	for _, nb := range p.nodes {
		nb.release()
	}
	clear(p.nodes)
	for _, mb := range p.meshes {
		if mb.buf != nil {
			mb.buf.Release()
		}
	}
	clear(p.meshes)
	if p.grid != nil && p.grid.buf != nil {
		p.grid.buf.Release()
	}
	if p.depth != nil {
		p.depth.Release()
	}
	if p.pipeline != nil {
		p.pipeline.Release()
	}
	if p.queue != nil {
		p.queue.Release()
	}
	p.device.Release()
	p.adapter.Release()
	p.surface.Release()
}

// ClearColor picks the background a frame is cleared to.
func ClearColor(f *Frame) wgpu.Color {
	c := f.Background
	if f.Grid != nil {
		c = f.Grid.BaseColor
	}
	return wgpu.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: 1}
}

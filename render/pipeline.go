package render

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"reflect"
	"strconv"

	"github.com/cogentcore/webgpu/wgpu"
)

const depthFormat = wgpu.TextureFormatDepth24Plus

func parseFormat(name string) (wgpu.VertexFormat, error) {
	switch name {
	case "float2":
		return wgpu.VertexFormatFloat32x2, nil
	case "float3":
		return wgpu.VertexFormatFloat32x3, nil
	case "float4":
		return wgpu.VertexFormatFloat32x4, nil
	default:
		return 0, fmt.Errorf("unsupported vertex layout format: %q", name)
	}
}

// vertexLayout reads the attributes of a vertex struct from its `render:"layout"` tags.
// Untagged fields still take up space in the stride.
func vertexLayout(vertexType any) (wgpu.VertexBufferLayout, error) {
	t := reflect.TypeOf(vertexType)
	if t.Kind() != reflect.Struct {
		return wgpu.VertexBufferLayout{}, fmt.Errorf("vertex must be a struct, got %s", t)
	}

	var attributes []wgpu.VertexAttribute
	var offset uint64
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get("render") == "layout" {
			format, err := parseFormat(field.Tag.Get("format"))
			if err != nil {
				return wgpu.VertexBufferLayout{}, fmt.Errorf("field %s: %w", field.Name, err)
			}
			location, err := strconv.Atoi(field.Tag.Get("location"))
			if err != nil {
				return wgpu.VertexBufferLayout{}, fmt.Errorf("field %s location: %w", field.Name, err)
			}
			attributes = append(attributes, wgpu.VertexAttribute{
				ShaderLocation: uint32(location),
				Offset:         offset,
				Format:         format,
			})
		}
		offset += uint64(field.Type.Size())
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attributes,
	}, nil
}

// uniformBytes flattens a struct of float32 arrays and scalars into little-endian bytes
// in field order.
func uniformBytes(data any) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := writeUniform(reflect.ValueOf(data), buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeUniform(field reflect.Value, buf *bytes.Buffer) error {
	switch field.Kind() {
	case reflect.Ptr:
		return writeUniform(field.Elem(), buf)
	case reflect.Slice, reflect.Array:
		for i := 0; i < field.Len(); i++ {
			if err := writeUniform(field.Index(i), buf); err != nil {
				return err
			}
		}
	case reflect.Struct:
		for i := 0; i < field.NumField(); i++ {
			if err := writeUniform(field.Field(i), buf); err != nil {
				return err
			}
		}
	case reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Float32:
		if err := binary.Write(buf, binary.LittleEndian, field.Interface()); err != nil {
			return fmt.Errorf("write uniform %s: %w", field.Type(), err)
		}
	default:
		return fmt.Errorf("unsupported uniform type: %s", field.Type())
	}
	return nil
}

func createMeshPipeline(device *wgpu.Device, format wgpu.TextureFormat) (*wgpu.RenderPipeline, error) {
	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "mesh",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: meshShader},
	})
	if err != nil {
		return nil, fmt.Errorf("shader module: %w", err)
	}
	defer shader.Release()

	layout, err := vertexLayout(vertex{})
	if err != nil {
		return nil, err
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "mesh",
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{layout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			// loaded models are not guaranteed to wind consistently
			CullMode: wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("render pipeline: %w", err)
	}
	return pipeline, nil
}

func createUniformBindGroup(device *wgpu.Device, pipeline *wgpu.RenderPipeline, buf *wgpu.Buffer) (*wgpu.BindGroup, error) {
	layout := pipeline.GetBindGroupLayout(0)
	defer layout.Release()

	bg, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  buf,
			Size:    wgpu.WholeSize,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("bind group: %w", err)
	}
	return bg, nil
}

func createDepthView(device *wgpu.Device, width, height uint32) (*wgpu.TextureView, error) {
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "depth",
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, fmt.Errorf("depth texture: %w", err)
	}
	defer tex.Release()
	return tex.CreateView(nil)
}

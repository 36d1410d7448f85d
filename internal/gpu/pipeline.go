// Package gpu renders the tear effect with a wgpu HAL render pipeline.
//
// The pipeline draws one quad into the viewport's plane rectangle with
// the WGSL twin of tear.Compositor, then copies the target back to the
// CPU.
package gpu

import (
	"errors"
	"fmt"
	"image"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/tear"
)

const targetFormat = gputypes.TextureFormatRGBA8Unorm

// submitTimeout bounds one frame's wait for the GPU.
const submitTimeout = 5 * time.Second

// copyRowAlignment is the required BytesPerRow alignment for
// texture-to-buffer copies.
const copyRowAlignment = 256

// ErrGPUTimeout is returned when a submitted frame does not complete in
// time.
var ErrGPUTimeout = errors.New("gpu: timed out waiting for the GPU")

type gpuTexture struct {
	tex  hal.Texture
	view hal.TextureView
}

// Pipeline owns the GPU objects for rendering the effect offscreen.
// It is not safe for concurrent use.
type Pipeline struct {
	device hal.Device
	queue  hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler
	quad       hal.Buffer

	target        hal.Texture
	targetView    hal.TextureView
	width, height uint32

	textures map[*tear.Texture]gpuTexture

	background tear.RGBA
	timeout    time.Duration
}

var _ tear.FrameBackend = (*Pipeline)(nil)

// NewPipeline compiles the shader and creates the render pipeline.
func NewPipeline(device hal.Device, queue hal.Queue) (*Pipeline, error) {
	p := &Pipeline{
		device:   device,
		queue:    queue,
		textures: make(map[*tear.Texture]gpuTexture),
		timeout:  submitTimeout,
	}
	if err := p.createPipeline(); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) createPipeline() error {
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "tear_shader",
		Source: hal.ShaderSource{WGSL: tear.ShaderSource()},
	})
	if err != nil {
		return fmt.Errorf("compile tear shader: %w", err)
	}
	p.shader = shader

	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "tear_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    3,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "tear_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "tear_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}
	p.sampler = sampler

	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "tear_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    targetFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	p.pipeline = pipeline

	quad, err := p.createAndUploadBuffer("tear_quad", QuadVertices(),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	p.quad = quad

	slogger().Debug("tear gpu: pipeline created")
	return nil
}

// SetBackground sets the color painted off the plane and behind
// cut-away pixels, matching tear.WithBackground on the CPU renderer.
func (p *Pipeline) SetBackground(c tear.RGBA) {
	p.background = c
}

// Render draws one frame for vp into a new pixmap.
func (p *Pipeline) Render(params *tear.Params, prev, next *tear.Texture, vp tear.Viewport) (*tear.Pixmap, error) {
	dst := tear.NewPixmap(1, 1)
	if err := p.RenderFrame(dst, vp, params, prev, next); err != nil {
		return nil, err
	}
	return dst, nil
}

// RenderFrame implements tear.FrameBackend. The quad covers only the
// plane rectangle; the rest of dst is the background color.
func (p *Pipeline) RenderFrame(dst *tear.Pixmap, vp tear.Viewport, params *tear.Params, prev, next *tear.Texture) error {
	width, height := vp.Size()
	plane := vp.PlaneRect()
	if width <= 0 || height <= 0 || plane.Empty() {
		return fmt.Errorf("%w: %dx%d", tear.ErrDegenerateViewport, width, height)
	}
	w, h := uint32(width), uint32(height) //nolint:gosec // checked positive above
	if err := p.ensureTarget(w, h); err != nil {
		return fmt.Errorf("ensure target: %w", err)
	}

	prevTex, err := p.upload(prev)
	if err != nil {
		return fmt.Errorf("upload previous texture: %w", err)
	}
	nextTex, err := p.upload(next)
	if err != nil {
		return fmt.Errorf("upload next texture: %w", err)
	}

	uniformBuf, err := p.createAndUploadBuffer("tear_uniform", PackUniforms(params, prev, next),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer p.device.DestroyBuffer(uniformBuf)

	bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "tear_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: UniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: prevTex.view.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.TextureViewBinding{
				TextureView: nextTex.view.NativeHandle(),
			}},
			{Binding: 3, Resource: gputypes.SamplerBinding{
				Sampler: p.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer p.device.DestroyBindGroup(bindGroup)

	dst.Resize(width, height)
	if err := p.encodeAndReadback(w, h, plane, bindGroup, dst.Data()); err != nil {
		return err
	}
	dst.Underlay(p.background)
	return nil
}

// ensureTarget (re)creates the offscreen color target when the size
// changes.
func (p *Pipeline) ensureTarget(w, h uint32) error {
	if p.width == w && p.height == h && p.target != nil {
		return nil
	}
	p.destroyTarget()

	tex, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "tear_target",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        targetFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create target texture: %w", err)
	}
	p.target = tex

	view, err := p.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "tear_target_view",
		Format:        targetFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		p.destroyTarget()
		return fmt.Errorf("create target view: %w", err)
	}
	p.targetView = view
	p.width, p.height = w, h
	return nil
}

// upload returns the GPU copy of t, creating it on first use. Empty
// textures upload as one transparent texel.
func (p *Pipeline) upload(t *tear.Texture) (gpuTexture, error) {
	if gt, ok := p.textures[t]; ok {
		return gt, nil
	}

	w, h := 1, 1
	data := []byte{0, 0, 0, 0}
	if t != nil && !t.Empty() {
		w, h = t.Size()
		data = t.Image().Pix
	}
	size := hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1} //nolint:gosec // image sizes fit uint32

	tex, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "tear_image",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return gpuTexture{}, fmt.Errorf("create texture: %w", err)
	}
	view, err := p.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "tear_image_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		p.device.DestroyTexture(tex)
		return gpuTexture{}, fmt.Errorf("create texture view: %w", err)
	}

	err = p.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		data,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: size.Width * 4, RowsPerImage: size.Height},
		&size,
	)
	if err != nil {
		p.device.DestroyTextureView(view)
		p.device.DestroyTexture(tex)
		return gpuTexture{}, fmt.Errorf("write texture: %w", err)
	}

	gt := gpuTexture{tex: tex, view: view}
	p.textures[t] = gt
	name := "empty"
	if t != nil {
		name = t.Name()
	}
	slogger().Debug("tear gpu: texture uploaded", "name", name, "width", w, "height", h)
	return gt, nil
}

// alignedRowBytes returns the padded staging row size for a target w
// pixels wide.
func alignedRowBytes(w uint32) uint32 {
	return (w*4 + copyRowAlignment - 1) / copyRowAlignment * copyRowAlignment
}

// encodeAndReadback draws the quad into plane, copies the target to a
// staging buffer, submits, waits and copies the unpadded rows to out.
func (p *Pipeline) encodeAndReadback(w, h uint32, plane image.Rectangle, bindGroup hal.BindGroup, out []byte) error {
	encoder, err := p.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "tear_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("tear"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "tear_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       p.targetView,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
	})
	x0, y0 := uint32(plane.Min.X), uint32(plane.Min.Y) //nolint:gosec // plane lies inside the target
	pw, ph := uint32(plane.Dx()), uint32(plane.Dy())   //nolint:gosec // plane is non-empty
	rp.SetViewport(float32(x0), float32(y0), float32(pw), float32(ph), 0, 1)
	rp.SetScissorRect(x0, y0, pw, ph)
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, bindGroup, nil)
	rp.SetVertexBuffer(0, p.quad, 0)
	rp.Draw(quadVertexCount, 1, 0, 0)
	rp.End()

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: p.target,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	rowBytes := alignedRowBytes(w)
	stagingSize := uint64(rowBytes) * uint64(h)
	stagingBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "tear_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer p.device.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(p.target, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: rowBytes, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: p.target, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer p.device.FreeCommandBuffer(cmdBuf)

	if err := p.submitAndWait(cmdBuf); err != nil {
		return err
	}

	mapping, err := p.device.MapBuffer(stagingBuf, 0, stagingSize)
	if err != nil {
		return fmt.Errorf("map staging buffer: %w", err)
	}
	staged := unsafe.Slice((*byte)(mapping.Ptr), stagingSize)
	tight := int(w) * 4
	for y := range int(h) {
		copy(out[y*tight:(y+1)*tight], staged[y*int(rowBytes):])
	}
	if err := p.device.UnmapBuffer(stagingBuf); err != nil {
		return fmt.Errorf("unmap staging buffer: %w", err)
	}
	return nil
}

// submitAndWait submits cmdBuf and polls until the queue reports it
// complete or the timeout passes.
func (p *Pipeline) submitAndWait(cmdBuf hal.CommandBuffer) error {
	// Offscreen work must not present a shared window's swapchain.
	p.queue.SetSwapchainSuppressed(true)
	defer p.queue.SetSwapchainSuppressed(false)

	idx, err := p.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	deadline := time.Now().Add(p.timeout)
	for p.queue.PollCompleted() < idx {
		if time.Now().After(deadline) {
			return fmt.Errorf("submission %d after %v: %w", idx, p.timeout, ErrGPUTimeout)
		}
		time.Sleep(100 * time.Microsecond)
	}
	return nil
}

func (p *Pipeline) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if err := p.queue.WriteBuffer(buf, 0, data); err != nil {
		p.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("write %s: %w", label, err)
	}
	return buf, nil
}

// Size returns the current target dimensions.
func (p *Pipeline) Size() (uint32, uint32) {
	return p.width, p.height
}

func (p *Pipeline) destroyTarget() {
	if p.targetView != nil {
		p.device.DestroyTextureView(p.targetView)
		p.targetView = nil
	}
	if p.target != nil {
		p.device.DestroyTexture(p.target)
		p.target = nil
	}
	p.width, p.height = 0, 0
}

// Destroy releases every GPU object. Safe to call more than once.
func (p *Pipeline) Destroy() {
	if p.device == nil {
		return
	}
	p.destroyTarget()
	for key, gt := range p.textures {
		p.device.DestroyTextureView(gt.view)
		p.device.DestroyTexture(gt.tex)
		delete(p.textures, key)
	}
	if p.quad != nil {
		p.device.DestroyBuffer(p.quad)
		p.quad = nil
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

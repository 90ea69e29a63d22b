// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/backdrop/field"
	"github.com/gogpu/backdrop/scene"
)

// ErrRendererReleased is returned by Render after Release.
var ErrRendererReleased = errors.New("gpu: renderer is released")

// copyPitchAlignment is the row alignment of texture-to-buffer copies.
const copyPitchAlignment = 256

// depthFormat is the format of the depth attachment. Points never write
// depth; the attachment exists so the pipeline's depth state applies.
const depthFormat = gputypes.TextureFormatDepth24PlusStencil8

// Renderer draws one field with its program on a Device and reads the
// frame back into an image.
//
// The field's geometry is uploaded once, as two per-instance vertex
// buffers. Each Render writes the uniform block, draws one instanced quad
// per point into an offscreen target, and copies the target to the CPU.
//
// Renderer is NOT safe for concurrent use.
type Renderer struct {
	dev   *Device
	prog  *field.Program
	count uint32

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline

	positions hal.Buffer
	scales    hal.Buffer
	uniforms  hal.Buffer
	bindGroup hal.BindGroup

	targets  targets
	readback []byte
	released bool
}

// NewRenderer compiles f's program, creates its pipeline on d and uploads
// f's geometry.
func NewRenderer(d *Device, f *field.Field) (*Renderer, error) {
	if d == nil || d.closed {
		return nil, ErrDeviceClosed
	}
	if f == nil || f.Disposed() {
		return nil, fmt.Errorf("gpu: %w", field.ErrProgramDisposed)
	}
	r := &Renderer{
		dev:   d,
		prog:  f.Program(),
		count: uint32(f.Count()), //nolint:gosec // point counts fit uint32
	}
	if err := r.createPipeline(); err != nil {
		r.Release()
		return nil, err
	}
	if err := r.upload(f); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) createPipeline() error {
	spirv, err := r.prog.Compile()
	if err != nil {
		return err
	}
	device := r.dev.device
	state := r.prog.Pipeline()

	r.shader, err = device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "particle_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("gpu: create shader module: %w", err)
	}

	r.bindLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "particle_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create bind group layout: %w", err)
	}

	r.pipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "particle_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("gpu: create pipeline layout: %w", err)
	}

	blend := state.Blend
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	r.pipeline, err = device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  state.Label,
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.shader,
			EntryPoint: state.VertexEntryPoint,
			Buffers:    state.VertexBuffers,
		},
		Fragment: &hal.FragmentState{
			Module:     r.shader,
			EntryPoint: state.FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    state.ColorFormat,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		DepthStencil: &hal.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: state.DepthWriteEnabled,
			DepthCompare:      state.DepthCompare,
			StencilFront:      keep,
			StencilBack:       keep,
			StencilReadMask:   0x00,
			StencilWriteMask:  0x00,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: state.Topology,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create render pipeline: %w", err)
	}
	return nil
}

func (r *Renderer) upload(f *field.Field) error {
	var err error
	r.positions, err = r.createBuffer("particle_positions", float32Bytes(f.Positions()),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	r.scales, err = r.createBuffer("particle_scales", float32Bytes(f.Scales()),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	r.uniforms, err = r.createBuffer("particle_uniforms", make([]byte, field.UniformSize),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	r.bindGroup, err = r.dev.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "particle_bind",
		Layout: r.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: r.uniforms.NativeHandle(), Offset: 0, Size: field.UniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create bind group: %w", err)
	}
	return nil
}

func (r *Renderer) createBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create %s: %w", label, err)
	}
	r.dev.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// Render draws sc into dst. dst receives straight 8-bit channel values as
// the blend produced them: color is the sum of src*srcAlpha over all
// fragments and alpha the sum of srcAlpha squared, both saturated.
func (r *Renderer) Render(dst *image.RGBA, sc *scene.Scene) error {
	if r.released {
		return ErrRendererReleased
	}
	if r.dev.closed {
		return ErrDeviceClosed
	}
	b := dst.Bounds()
	w, h := uint32(b.Dx()), uint32(b.Dy()) //nolint:gosec // image sizes fit uint32
	if w == 0 || h == 0 {
		return nil
	}
	device, queue := r.dev.device, r.dev.queue

	if err := r.targets.ensure(device, w, h); err != nil {
		return err
	}
	queue.WriteBuffer(r.uniforms, 0, r.prog.Uniforms(sc.ModelView(), sc.Projection(), float32(w), float32(h)))

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "particle_encoder"})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("particle_frame"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "particle_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       r.targets.colorView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:              r.targets.depthView,
			DepthLoadOp:       gputypes.LoadOpClear,
			DepthStoreOp:      gputypes.StoreOpDiscard,
			DepthClearValue:   1.0,
			StencilLoadOp:     gputypes.LoadOpClear,
			StencilStoreOp:    gputypes.StoreOpDiscard,
			StencilClearValue: 0,
		},
	})
	rp.SetPipeline(r.pipeline)
	rp.SetBindGroup(0, r.bindGroup, nil)
	rp.SetVertexBuffer(0, r.positions, 0)
	rp.SetVertexBuffer(1, r.scales, 0)
	rp.Draw(field.VerticesPerPoint, r.count, 0, 0)
	rp.End()

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.targets.color,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "particle_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("gpu: create staging buffer: %w", err)
	}
	defer device.DestroyBuffer(staging)

	encoder.CopyTextureToBuffer(r.targets.color, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: r.targets.color, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.targets.color,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	fence, err := device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	defer device.DestroyFence(fence)

	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	ok, err := device.Wait(fence, 1, 5*time.Second)
	if err != nil || !ok {
		return fmt.Errorf("gpu: wait for frame: ok=%v err=%w", ok, err)
	}

	if uint64(cap(r.readback)) < stagingSize {
		r.readback = make([]byte, stagingSize)
	}
	r.readback = r.readback[:stagingSize]
	if err := queue.ReadBuffer(staging, 0, r.readback); err != nil {
		return fmt.Errorf("gpu: readback: %w", err)
	}
	copyBGRA(dst, r.readback, int(alignedBytesPerRow))
	return nil
}

// Release destroys every GPU object the renderer created: geometry and
// uniform buffers, pipeline and render targets. The device itself is
// untouched. Release is idempotent.
func (r *Renderer) Release() {
	if r.released {
		return
	}
	r.released = true
	device := r.dev.device
	if device == nil {
		return
	}
	r.targets.destroy(device)
	if r.bindGroup != nil {
		device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	for _, b := range []*hal.Buffer{&r.uniforms, &r.scales, &r.positions} {
		if *b != nil {
			device.DestroyBuffer(*b)
			*b = nil
		}
	}
	if r.pipeline != nil {
		device.DestroyRenderPipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.pipeLayout != nil {
		device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.bindLayout != nil {
		device.DestroyBindGroupLayout(r.bindLayout)
		r.bindLayout = nil
	}
	if r.shader != nil {
		device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
	r.readback = nil
}

// Released reports whether Release was called.
func (r *Renderer) Released() bool { return r.released }

// float32Bytes encodes v as little-endian bytes for upload.
func float32Bytes(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// copyBGRA converts padded BGRA rows into dst's RGBA pixels.
func copyBGRA(dst *image.RGBA, src []byte, srcStride int) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	for y := range h {
		s := src[y*srcStride : y*srcStride+w*4]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := 0; x < w*4; x += 4 {
			d[x+0] = s[x+2]
			d[x+1] = s[x+1]
			d[x+2] = s[x+0]
			d[x+3] = s[x+3]
		}
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package field

import "github.com/gogpu/gputypes"

// Per-instance vertex buffer strides in bytes.
const (
	positionStride = 12 // vec3<f32>
	scaleStride    = 4  // f32
)

// VerticesPerPoint is the number of strip vertices drawn per instance.
const VerticesPerPoint = 4

// PipelineState is the fixed render state of the particle program.
// It is immutable for the lifetime of the program.
type PipelineState struct {
	// Label is a debug name.
	Label string

	// VertexEntryPoint and FragmentEntryPoint name the WGSL entry points.
	VertexEntryPoint   string
	FragmentEntryPoint string

	// Topology is the primitive topology of one instance.
	Topology gputypes.PrimitiveTopology

	// VertexBuffers describes the position (slot 0) and scale (slot 1)
	// buffers, both stepped per instance.
	VertexBuffers []gputypes.VertexBufferLayout

	// ColorFormat is the color attachment format.
	ColorFormat gputypes.TextureFormat

	// Blend is additive: dst + src*srcAlpha.
	Blend gputypes.BlendState

	// DepthWriteEnabled is always false: points never occlude each other.
	DepthWriteEnabled bool

	// DepthCompare is Always.
	DepthCompare gputypes.CompareFunction

	// VerticesPerInstance is the vertex count of one point sprite.
	VerticesPerInstance uint32
}

// Pipeline returns the program's render state.
func (p *Program) Pipeline() PipelineState {
	additive := gputypes.BlendComponent{
		SrcFactor: gputypes.BlendFactorSrcAlpha,
		DstFactor: gputypes.BlendFactorOne,
		Operation: gputypes.BlendOperationAdd,
	}
	return PipelineState{
		Label:              "particle_field_pipeline",
		VertexEntryPoint:   "vs_main",
		FragmentEntryPoint: "fs_main",
		Topology:           gputypes.PrimitiveTopologyTriangleStrip,
		VertexBuffers: []gputypes.VertexBufferLayout{
			{
				ArrayStride: positionStride,
				StepMode:    gputypes.VertexStepModeInstance,
				Attributes: []gputypes.VertexAttribute{
					{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0}, // position
				},
			},
			{
				ArrayStride: scaleStride,
				StepMode:    gputypes.VertexStepModeInstance,
				Attributes: []gputypes.VertexAttribute{
					{Format: gputypes.VertexFormatFloat32, Offset: 0, ShaderLocation: 1}, // scale
				},
			},
		},
		ColorFormat:         gputypes.TextureFormatBGRA8Unorm,
		Blend:               gputypes.BlendState{Color: additive, Alpha: additive},
		DepthWriteEnabled:   false,
		DepthCompare:        gputypes.CompareFunctionAlways,
		VerticesPerInstance: VerticesPerPoint,
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package field

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/naga"
	"github.com/lucasb-eyer/go-colorful"
)

//go:embed shaders/particles.wgsl
var particlesShaderSource string

// ErrProgramDisposed is returned when a disposed program is compiled.
var ErrProgramDisposed = errors.New("field: program is disposed")

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// UniformSize is the size in bytes of the program's uniform block.
const UniformSize = 64 + 64 + 16 + 16 + 16

// Program is the particle shading program: two color uniforms and the
// vertex/fragment stages that size, color and fade each point.
//
// The stages are available both as Go functions, used by the software
// rasterizer, and as WGSL for GPU pipelines.
type Program struct {
	color1   colorful.Color
	color2   colorful.Color
	spirv    []uint32
	disposed bool
}

// NewProgram creates a program with the given gradient colors.
func NewProgram(c1, c2 colorful.Color) *Program {
	return &Program{color1: c1, color2: c2}
}

// Colors returns the gradient colors.
func (p *Program) Colors() (c1, c2 colorful.Color) {
	return p.color1, p.color2
}

// Shade returns the color of a point at object-space position (x, y, z).
func (p *Program) Shade(x, y, z float32) colorful.Color {
	return p.color1.BlendRgb(p.color2, float64(MixFactor(x, y, z)))
}

// Sprite size limits in framebuffer pixels, the range GL implementations
// clamp gl_PointSize to. Both the shader and the software rasterizer apply
// them.
const (
	MinPointSize = 1
	MaxPointSize = 256
)

// SpriteSize returns PointSize clamped to [MinPointSize, MaxPointSize].
func SpriteSize(scale, viewZ float32) float32 {
	return min(max(PointSize(scale, viewZ), MinPointSize), MaxPointSize)
}

// PointSize returns the on-screen sprite size in framebuffer pixels of a
// point with the given scale at view-space depth viewZ (negative in front of
// the camera).
func PointSize(scale, viewZ float32) float32 {
	return scale * 5 * (300 / -viewZ)
}

// MixFactor returns the gradient interpolation factor for a point at
// object-space position (x, y, z).
func MixFactor(x, y, z float32) float32 {
	t := (x + y + z + 2*Extent) / (4 * Extent)
	return min(max(t, 0), 1)
}

// Intensity returns the opacity of a sprite fragment at distance d from the
// sprite center, in sprite coordinates where the sprite spans [0, 1].
// ok is false when the fragment is discarded.
func Intensity(d float32) (alpha float32, ok bool) {
	if d > 0.5 {
		return 0, false
	}
	return 1 - 2*d, true
}

// Source returns the WGSL source of the program.
func (p *Program) Source() string {
	return particlesShaderSource
}

// Compile compiles the WGSL source to SPIR-V words. The result is cached
// for the lifetime of the program.
func (p *Program) Compile() ([]uint32, error) {
	if p.disposed {
		return nil, ErrProgramDisposed
	}
	if p.spirv != nil {
		return p.spirv, nil
	}

	spirvBytes, err := naga.Compile(particlesShaderSource)
	if err != nil {
		return nil, fmt.Errorf("field: compile particle shader: %w", err)
	}
	if len(spirvBytes) < 4 || len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("field: compile particle shader: invalid SPIR-V length %d", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("field: compile particle shader: bad SPIR-V magic %#x", words[0])
	}

	p.spirv = words
	return words, nil
}

// Uniforms packs the uniform block for one draw. Matrices are column-major.
func (p *Program) Uniforms(modelView, projection [16]float32, viewportW, viewportH float32) []byte {
	buf := make([]byte, 0, UniformSize)
	putF32 := func(v float32) {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	for _, v := range modelView {
		putF32(v)
	}
	for _, v := range projection {
		putF32(v)
	}
	for _, c := range [2]colorful.Color{p.color1, p.color2} {
		putF32(float32(c.R))
		putF32(float32(c.G))
		putF32(float32(c.B))
		putF32(1)
	}
	putF32(viewportW)
	putF32(viewportH)
	putF32(0)
	putF32(0)
	return buf
}

// Dispose releases the compiled program. Dispose is idempotent.
func (p *Program) Dispose() {
	p.disposed = true
	p.spirv = nil
}

// Disposed reports whether Dispose was called.
func (p *Program) Disposed() bool {
	return p.disposed
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package field

import (
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// DefaultCount is the number of points in a field.
	DefaultCount = 1000

	// Extent is the half-size of the cube points are sampled from.
	Extent = 20
)

// Default gradient colors.
var (
	DefaultColor1 = colorful.Color{R: 0x00 / 255.0, G: 0xD4 / 255.0, B: 0xFF / 255.0} // #00D4FF
	DefaultColor2 = colorful.Color{R: 0xFF / 255.0, G: 0x33 / 255.0, B: 0x66 / 255.0} // #FF3366
)

// Option configures a Field during creation.
type Option func(*options)

type options struct {
	count  int
	rng    *rand.Rand
	color1 colorful.Color
	color2 colorful.Color
}

func defaultOptions() options {
	return options{
		count:  DefaultCount,
		color1: DefaultColor1,
		color2: DefaultColor2,
	}
}

// WithCount sets the number of points. Non-positive values are ignored.
func WithCount(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.count = n
		}
	}
}

// WithRand sets the random source used to sample the buffers.
// By default every field gets its own randomly seeded source.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// WithColors sets the program's gradient colors.
func WithColors(c1, c2 colorful.Color) Option {
	return func(o *options) {
		o.color1 = c1
		o.color2 = c2
	}
}

// Field is a point cloud with immutable buffers and its shading program.
//
// Field is NOT safe for concurrent use.
type Field struct {
	positions []float32
	scales    []float32
	program   *Program
	disposed  bool
}

// New samples a new field.
func New(opts ...Option) *Field {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	rng := o.rng
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // decorative sampling
	}

	positions := make([]float32, o.count*3)
	for i := range positions {
		positions[i] = (rng.Float32() - 0.5) * 2 * Extent
	}
	scales := make([]float32, o.count)
	for i := range scales {
		scales[i] = rng.Float32()
	}

	return &Field{
		positions: positions,
		scales:    scales,
		program:   NewProgram(o.color1, o.color2),
	}
}

// Count returns the number of points.
func (f *Field) Count() int {
	return len(f.scales)
}

// Positions returns the position buffer (x, y, z per point).
// The slice is shared; callers must not modify it.
// Returns nil after Dispose.
func (f *Field) Positions() []float32 {
	return f.positions
}

// Scales returns the scale buffer. The slice is shared; callers must not
// modify it. Returns nil after Dispose.
func (f *Field) Scales() []float32 {
	return f.scales
}

// Position returns the object-space position of point i.
func (f *Field) Position(i int) (x, y, z float32) {
	p := f.positions[i*3 : i*3+3 : i*3+3]
	return p[0], p[1], p[2]
}

// Program returns the shading program.
func (f *Field) Program() *Program {
	return f.program
}

// Dispose releases the geometry buffers and the program.
// Dispose is idempotent.
func (f *Field) Dispose() {
	if f.disposed {
		return
	}
	f.disposed = true
	f.positions = nil
	f.scales = nil
	if f.program != nil {
		f.program.Dispose()
	}
}

// Disposed reports whether Dispose was called.
func (f *Field) Disposed() bool {
	return f.disposed
}

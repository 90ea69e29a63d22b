// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package field builds the particle field: a fixed set of points with
// per-point scale, and the shading program that draws them.
//
// # Buffers
//
// A Field holds two parallel buffers generated once at construction:
//
//   - positions: 3 float32 per point, each coordinate uniform in [-20, 20]
//   - scales: 1 float32 per point, uniform in [0, 1)
//
// Buffers are never resampled; only the rigid rotation applied by the scene
// changes from frame to frame.
//
// # Shading
//
// The Program is parameterized by two colors and has these semantics:
//
//	size      = scale * 5 * (300 / -viewZ)                 (PointSize)
//	mix       = clamp((x + y + z + 40) / 80, 0, 1)         (MixFactor)
//	color     = color1 + (color2 - color1) * mix           (Program.Shade)
//	intensity = 1 - 2 * d, discarded when d > 0.5          (Intensity)
//
// where (x, y, z) is the generated object-space position, so the gradient is
// stable under rotation, and d is the distance from the sprite center in
// sprite coordinates. Points blend additively and never write depth.
//
// The same semantics are available as embedded WGSL ([Program.Source]),
// compiled to SPIR-V with naga ([Program.Compile]), together with the
// render state a GPU pipeline needs ([Program.Pipeline]).
package field

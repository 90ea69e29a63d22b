// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpu renders particle fields on a wgpu HAL device.
//
// A Device is opened once per process (Open) or borrowed from a host that
// already owns one (Wrap, FromProvider). Each background gets its own
// Renderer, which compiles the field program to SPIR-V, builds the render
// pipeline from the program's pipeline state, uploads the field geometry
// and reads every frame back into an image for the host canvas.
//
// When no adapter is available callers keep the software rasterizer in
// package surface; both paths produce the same frame.
package gpu

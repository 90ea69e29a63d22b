// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface manages the drawing surface of a background scene.
//
// A Surface is bound to one host container element. It owns a host canvas
// attached as the element's sole child and a floating-point Pixmap sized in
// device pixels:
//
//	backing size = floor(clientWidth*ratio) x floor(clientHeight*ratio)
//	ratio        = min(devicePixelRatio, 2)
//
// The ratio cap bounds fill-rate cost on high-density displays.
//
// # Rendering
//
// Render rasterizes a scene's particle field with the software point-sprite
// rasterizer and presents the frame to the canvas. Sprites follow the field
// program exactly (see package field): perspective-attenuated size, spatial
// color gradient, soft circular falloff. Blending is additive and there is
// no depth buffer, so draw order never causes occlusion.
//
// # Lifecycle
//
//	s, err := surface.New(el, window.DevicePixelRatio())
//	if err != nil { ... }
//	defer s.Close()
//
//	s.Resize(w, h)   // on every resize event; no-op when unchanged
//	s.Render(sc)     // once per animation frame
//
// Close detaches the canvas if it is still attached and is idempotent.
//
// Surface is NOT safe for concurrent use.
package surface

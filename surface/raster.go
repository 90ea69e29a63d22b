// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/backdrop/field"
	"github.com/gogpu/backdrop/scene"
)

// drawPoints rasterizes every point of sc's field into pm.
func drawPoints(pm *Pixmap, sc *scene.Scene) {
	f := sc.Field()
	if f == nil || f.Disposed() {
		return
	}
	prog := f.Program()
	scales := f.Scales()
	mv := sc.ModelView()
	proj := sc.Projection()
	w, h := float32(pm.Width()), float32(pm.Height())

	for i := range f.Count() {
		x, y, z := f.Position(i)

		// Vertex stage.
		view := mv.MulVec4(scene.Vec4{X: x, Y: y, Z: z, W: 1})
		if view.Z >= 0 {
			continue // behind the camera
		}
		clip := proj.MulVec4(view)
		if clip.W <= 0 {
			continue
		}
		ndcX, ndcY, ndcZ := clip.X/clip.W, clip.Y/clip.W, clip.Z/clip.W
		if ndcZ < -1 || ndcZ > 1 {
			continue // outside near/far
		}
		size := field.SpriteSize(scales[i], view.Z)

		cx := (ndcX*0.5 + 0.5) * w
		cy := (0.5 - ndcY*0.5) * h

		// Fragment stage.
		c := prog.Shade(x, y, z)
		splat(pm, cx, cy, size, float32(c.R), float32(c.G), float32(c.B))
	}
}

// splat draws one soft circular sprite of the given size centered at
// (cx, cy). Pixel centers are sampled; the sprite coordinate of a pixel is
// its position within the sprite's square, in [0, 1] on both axes.
func splat(pm *Pixmap, cx, cy, size, r, g, b float32) {
	half := size / 2
	x0 := max(int(math32.Floor(cx-half)), 0)
	y0 := max(int(math32.Floor(cy-half)), 0)
	x1 := min(int(math32.Ceil(cx+half)), pm.Width()-1)
	y1 := min(int(math32.Ceil(cy+half)), pm.Height()-1)
	if x0 > x1 || y0 > y1 {
		return
	}

	inv := 1 / size
	left, top := cx-half, cy-half
	for py := y0; py <= y1; py++ {
		v := (float32(py)+0.5-top)*inv - 0.5
		for px := x0; px <= x1; px++ {
			u := (float32(px)+0.5-left)*inv - 0.5
			a, ok := field.Intensity(math32.Sqrt(u*u + v*v))
			if !ok {
				continue
			}
			pm.Add(px, py, r, g, b, a)
		}
	}
}

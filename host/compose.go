// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// FillViewport sets the viewport size, stretches every element to cover
// it, and dispatches a resize event. Hosts whose containers fill the whole
// window (desktop, terminal) call it when the window changes size.
func (p *Page) FillViewport(width, height int) {
	for _, el := range p.elements {
		el.SetClientSize(width, height)
	}
	p.Resize(width, height)
}

// Compose paints bg over dst and draws the last frame of every attached
// canvas on top, scaled to dst's bounds, in element id order. Frames are
// premultiplied, so transparent pixels show the background.
func (p *Page) Compose(dst *image.RGBA, bg color.Color) {
	r := dst.Bounds()
	draw.Draw(dst, r, image.NewUniform(bg), image.Point{}, draw.Src)
	for _, id := range p.Elements() {
		for _, c := range p.elements[id].children {
			f := c.Frame()
			if f == nil {
				continue
			}
			if f.Bounds().Size() == r.Size() {
				draw.Draw(dst, r, f, f.Bounds().Min, draw.Over)
				continue
			}
			draw.ApproxBiLinear.Scale(dst, r, f, f.Bounds(), draw.Over, nil)
		}
	}
}

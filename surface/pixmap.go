// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"image"
)

// Pixmap is a floating-point RGBA accumulation buffer.
// Color channels hold premultiplied light; blending is additive.
type Pixmap struct {
	width  int
	height int
	data   []float32 // RGBA, 4 floats per pixel
	img    *image.RGBA
}

// NewPixmap creates a new transparent pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]float32, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Clear resets every pixel to transparent black.
func (p *Pixmap) Clear() {
	clear(p.data)
}

// Add blends a fragment of color (r, g, b) and opacity a into pixel (x, y)
// with the additive factors src*srcAlpha + dst on every channel.
// Out-of-bounds pixels are ignored.
func (p *Pixmap) Add(x, y int, r, g, b, a float32) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] += r * a
	p.data[i+1] += g * a
	p.data[i+2] += b * a
	p.data[i+3] += a * a
}

// At returns the accumulated (unclamped) value of pixel (x, y).
func (p *Pixmap) At(x, y int) (r, g, b, a float32) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0, 0, 0, 0
	}
	i := (y*p.width + x) * 4
	return p.data[i+0], p.data[i+1], p.data[i+2], p.data[i+3]
}

// Image resolves the pixmap into an 8-bit premultiplied RGBA image.
// The image is reused across calls; it is valid until the next call.
func (p *Pixmap) Image() *image.RGBA {
	img := p.frame()
	pix := img.Pix
	for i := 0; i < len(p.data); i += 4 {
		pix[i+0] = to8(p.data[i+0])
		pix[i+1] = to8(p.data[i+1])
		pix[i+2] = to8(p.data[i+2])
		pix[i+3] = to8(p.data[i+3])
	}
	premultiply(img)
	return img
}

// frame returns the reusable output image, sized to the pixmap.
func (p *Pixmap) frame() *image.RGBA {
	if p.img == nil || p.img.Rect.Dx() != p.width || p.img.Rect.Dy() != p.height {
		p.img = image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	}
	return p.img
}

// premultiply raises each pixel's alpha to its brightest channel so an
// additively blended frame is a valid premultiplied image.
func premultiply(img *image.RGBA) {
	pix := img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i+3] = max(pix[i+3], pix[i+0], pix[i+1], pix[i+2])
	}
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

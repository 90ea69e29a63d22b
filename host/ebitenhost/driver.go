// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ebitenhost

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/gogpu/backdrop/host"
)

// driver feeds window input into a page and composes its frames.
// It holds no ebiten state so the game loop logic is testable without a
// display.
type driver struct {
	page *host.Page
	bg   color.Color

	width, height int // CSS pixels
	scale         float64

	cursorX, cursorY int
	cursorSeen       bool

	frame *image.RGBA
}

func newDriver(page *host.Page, bg color.Color) *driver {
	return &driver{page: page, bg: bg, scale: 1}
}

// layout records the window's logical size and device scale and returns
// the screen size in device pixels. A change of size resizes the page.
func (d *driver) layout(outsideWidth, outsideHeight int, scale float64) (int, int) {
	if scale <= 0 || math.IsNaN(scale) {
		scale = 1
	}
	outsideWidth, outsideHeight = max(outsideWidth, 1), max(outsideHeight, 1)
	if scale != d.scale {
		d.scale = scale
		d.page.SetDevicePixelRatio(scale)
	}
	if outsideWidth != d.width || outsideHeight != d.height {
		d.width, d.height = outsideWidth, outsideHeight
		d.page.FillViewport(outsideWidth, outsideHeight)
		host.Logger().Debug("ebitenhost: window resized", "width", outsideWidth, "height", outsideHeight, "scale", scale)
	}
	return d.screenSize()
}

func (d *driver) screenSize() (int, int) {
	return max(int(float64(d.width)*d.scale), 1), max(int(float64(d.height)*d.scale), 1)
}

// update dispatches a pointer move if the cursor (in device pixels) moved,
// then runs the page's frame callbacks at now.
func (d *driver) update(cursorX, cursorY int, now time.Duration) {
	if !d.cursorSeen || cursorX != d.cursorX || cursorY != d.cursorY {
		d.cursorX, d.cursorY, d.cursorSeen = cursorX, cursorY, true
		d.page.MovePointer(float64(cursorX)/d.scale, float64(cursorY)/d.scale)
	}
	d.page.Tick(now)
}

// compose returns the current screen contents in device pixels.
func (d *driver) compose() *image.RGBA {
	w, h := d.screenSize()
	if d.frame == nil || d.frame.Rect.Dx() != w || d.frame.Rect.Dy() != h {
		d.frame = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	d.page.Compose(d.frame, d.bg)
	return d.frame
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/backdrop/host"
	"github.com/gogpu/backdrop/scene"
)

// Common errors returned by Surface operations.
var (
	// ErrSurfaceClosed is returned when operations are attempted on a closed surface.
	ErrSurfaceClosed = errors.New("surface: surface is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("surface: invalid dimensions")

	// ErrNilElement is returned when a nil container element is passed.
	ErrNilElement = errors.New("surface: nil element")
)

// MaxPixelRatio caps the device pixel ratio used for the backing store.
const MaxPixelRatio = 2

// PixelRatio returns the backing store ratio for a device pixel ratio:
// min(dpr, MaxPixelRatio), with non-positive or non-finite values treated as 1.
func PixelRatio(dpr float64) float64 {
	if dpr <= 0 || math.IsNaN(dpr) || math.IsInf(dpr, 0) {
		return 1
	}
	return min(dpr, MaxPixelRatio)
}

// Renderer draws a scene into an image on a graphics device. It is the
// hardware path of Render; see package gpu.
type Renderer interface {
	// Render overwrites dst with the frame. Color channels hold the sum
	// of src*srcAlpha and alpha the sum of srcAlpha squared, saturated.
	Render(dst *image.RGBA, sc *scene.Scene) error

	// Release frees the device objects of the renderer.
	Release()
}

// Surface is the drawing target of one background instance.
type Surface struct {
	canvas   host.Canvas
	pixmap   *Pixmap
	renderer Renderer
	width  int // CSS pixels
	height int
	ratio  float64
	closed bool
}

// New attaches a canvas to el, sized to el's client size, with the backing
// store scaled by PixelRatio(dpr). Empty containers get a 1x1 surface so a
// collapsed layout never fails a mount; the next resize corrects the size.
func New(el host.Element, dpr float64) (*Surface, error) {
	if el == nil {
		return nil, ErrNilElement
	}
	width, height := el.ClientSize()
	width, height = max(width, 1), max(height, 1)

	s := &Surface{
		ratio: PixelRatio(dpr),
	}
	s.canvas = el.AttachCanvas()
	s.setSize(width, height)
	return s, nil
}

// Size returns the display size in CSS pixels.
func (s *Surface) Size() (width, height int) {
	return s.width, s.height
}

// Ratio returns the backing store scale factor.
func (s *Surface) Ratio() float64 {
	return s.ratio
}

// Pixmap returns the backing store. Returns nil if the surface is closed.
func (s *Surface) Pixmap() *Pixmap {
	if s.closed {
		return nil
	}
	return s.pixmap
}

// Canvas returns the host canvas.
func (s *Surface) Canvas() host.Canvas {
	return s.canvas
}

// Resize changes the display size. It is a no-op if the size is unchanged,
// so it is cheap to call on every resize event.
//
// Returns error if dimensions are invalid or the surface is closed.
func (s *Surface) Resize(width, height int) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if s.width == width && s.height == height {
		return nil
	}
	s.setSize(width, height)
	return nil
}

func (s *Surface) setSize(width, height int) {
	s.width, s.height = width, height
	bw := max(int(math.Floor(float64(width)*s.ratio)), 1)
	bh := max(int(math.Floor(float64(height)*s.ratio)), 1)
	if s.pixmap == nil || s.pixmap.Width() != bw || s.pixmap.Height() != bh {
		s.pixmap = NewPixmap(bw, bh)
	}
	s.canvas.Resize(width, height, s.ratio)
}

// UseRenderer makes Render draw through r. The surface owns r from now
// on and releases it on Close, or when r fails and the surface falls back
// to the software rasterizer.
func (s *Surface) UseRenderer(r Renderer) error {
	if s.closed {
		r.Release()
		return ErrSurfaceClosed
	}
	if s.renderer != nil {
		s.renderer.Release()
	}
	s.renderer = r
	return nil
}

// Accelerated reports whether frames are drawn by a Renderer.
func (s *Surface) Accelerated() bool {
	return s.renderer != nil
}

// Render draws sc into the backing store and presents it to the canvas.
func (s *Surface) Render(sc *scene.Scene) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	if s.renderer != nil {
		img := s.pixmap.frame()
		err := s.renderer.Render(img, sc)
		if err == nil {
			premultiply(img)
			s.canvas.Present(img)
			return nil
		}
		host.Logger().Warn("surface: renderer failed, using software rasterizer", "err", err)
		s.renderer.Release()
		s.renderer = nil
	}
	s.pixmap.Clear()
	drawPoints(s.pixmap, sc)
	s.canvas.Present(s.pixmap.Image())
	return nil
}

// Close detaches the canvas if it is still attached and releases the
// renderer and the backing store. Close is idempotent - multiple calls are safe.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	// Detach is a no-op for canvases already removed with their element.
	if s.canvas != nil {
		s.canvas.Detach()
	}
	if s.renderer != nil {
		s.renderer.Release()
		s.renderer = nil
	}
	s.pixmap = nil
	return nil
}

// Closed reports whether Close was called.
func (s *Surface) Closed() bool {
	return s.closed
}

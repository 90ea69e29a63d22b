// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"image"
	"time"
)

// EventKind identifies a window-wide event.
type EventKind uint8

const (
	// EventPointerMove fires when the pointer moves anywhere in the viewport.
	EventPointerMove EventKind = iota + 1

	// EventResize fires after the viewport changed size.
	EventResize
)

// String returns the DOM name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventPointerMove:
		return "pointermove"
	case EventResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Event is a window-wide event.
// ClientX and ClientY are set for pointer events, in CSS pixels relative to
// the viewport's top-left corner.
type Event struct {
	Kind    EventKind
	ClientX float64
	ClientY float64
}

// Listener is the capability handle of one event registration.
type Listener interface {
	// Remove detaches the registration. Subsequent calls are no-ops.
	Remove()
}

// FrameID identifies a pending animation frame request.
// The zero value never identifies a request.
type FrameID uint64

// FrameFunc is an animation frame callback.
// now is the host's monotonic frame timestamp.
type FrameFunc func(now time.Duration)

// Window is the viewport-level part of a host.
type Window interface {
	// InnerSize returns the viewport size in CSS pixels.
	InnerSize() (width, height int)

	// DevicePixelRatio returns the ratio of device pixels to CSS pixels.
	DevicePixelRatio() float64

	// AddEventListener registers fn for events of the given kind.
	AddEventListener(kind EventKind, fn func(Event)) Listener

	// RequestAnimationFrame schedules fn to run once, before the next repaint.
	RequestAnimationFrame(fn FrameFunc) FrameID

	// CancelAnimationFrame cancels a pending request.
	// Unknown or already fired ids are ignored.
	CancelAnimationFrame(id FrameID)
}

// Canvas is a drawing target attached under an Element.
type Canvas interface {
	// Resize sets the display size in CSS pixels and the backing store
	// scale factor. The backing store is width*ratio by height*ratio device
	// pixels.
	Resize(width, height int, ratio float64)

	// Present displays a frame. The host must not retain frame after
	// Present returns.
	Present(frame *image.RGBA)

	// Attached reports whether the canvas is still a child of its element.
	Attached() bool

	// Detach removes the canvas from its element and releases its native
	// resources. Subsequent calls are no-ops.
	Detach()
}

// Element is a container element in the document.
type Element interface {
	// ID returns the element's id attribute.
	ID() string

	// ClientSize returns the element's inner size in CSS pixels.
	ClientSize() (width, height int)

	// AttachCanvas creates a canvas and makes it the element's sole child.
	AttachCanvas() Canvas
}

// Document resolves elements by id.
type Document interface {
	// ElementByID returns the live element with the given id, or nil.
	ElementByID(id string) Element
}

// Environment is everything a scene needs from its host.
type Environment interface {
	Document
	Window
}

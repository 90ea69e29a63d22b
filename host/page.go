// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"image"
	"slices"
	"time"
)

// Page is an in-memory Environment.
//
// Nothing happens on its own: animation frames run when Tick is called and
// events are injected with MovePointer, Resize and Dispatch. Page keeps
// counts of live listeners and pending frames so that callers can verify
// that owners released everything they registered.
//
// Page is NOT safe for concurrent use.
type Page struct {
	width  int
	height int
	ratio  float64

	elements map[string]*PageElement

	listeners    map[EventKind]map[uint64]func(Event)
	nextListener uint64

	frames    map[FrameID]FrameFunc
	nextFrame FrameID
	now       time.Duration
}

// NewPage creates a page with the given viewport size and device pixel ratio.
func NewPage(width, height int, ratio float64) *Page {
	if ratio <= 0 {
		ratio = 1
	}
	return &Page{
		width:     width,
		height:    height,
		ratio:     ratio,
		elements:  make(map[string]*PageElement),
		listeners: make(map[EventKind]map[uint64]func(Event)),
		frames:    make(map[FrameID]FrameFunc),
	}
}

// AddElement adds a container element, replacing any element with the same id.
func (p *Page) AddElement(id string, width, height int) *PageElement {
	if old, ok := p.elements[id]; ok {
		old.removeAll()
	}
	el := &PageElement{id: id, width: width, height: height}
	p.elements[id] = el
	return el
}

// RemoveElement removes an element and detaches its canvases.
func (p *Page) RemoveElement(id string) {
	el, ok := p.elements[id]
	if !ok {
		return
	}
	el.removeAll()
	delete(p.elements, id)
}

// Element returns the element with the given id, or nil.
func (p *Page) Element(id string) *PageElement {
	return p.elements[id]
}

// Elements returns the ids of all elements, sorted.
func (p *Page) Elements() []string {
	ids := make([]string, 0, len(p.elements))
	for id := range p.elements {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ElementByID implements Document.
func (p *Page) ElementByID(id string) Element {
	el, ok := p.elements[id]
	if !ok {
		return nil
	}
	return el
}

// InnerSize implements Window.
func (p *Page) InnerSize() (width, height int) {
	return p.width, p.height
}

// DevicePixelRatio implements Window.
func (p *Page) DevicePixelRatio() float64 {
	return p.ratio
}

// SetDevicePixelRatio changes the device pixel ratio. No event is fired.
func (p *Page) SetDevicePixelRatio(ratio float64) {
	if ratio <= 0 {
		ratio = 1
	}
	p.ratio = ratio
}

// AddEventListener implements Window.
func (p *Page) AddEventListener(kind EventKind, fn func(Event)) Listener {
	set, ok := p.listeners[kind]
	if !ok {
		set = make(map[uint64]func(Event))
		p.listeners[kind] = set
	}
	p.nextListener++
	id := p.nextListener
	set[id] = fn
	return &pageListener{page: p, kind: kind, id: id}
}

// ListenerCount returns the number of live listeners of the given kind.
func (p *Page) ListenerCount(kind EventKind) int {
	return len(p.listeners[kind])
}

// Dispatch delivers ev to every listener of its kind in registration order.
// Listeners removed by an earlier listener during the same dispatch are
// skipped.
func (p *Page) Dispatch(ev Event) {
	set := p.listeners[ev.Kind]
	if len(set) == 0 {
		return
	}
	ids := make([]uint64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := set[id]; ok {
			fn(ev)
		}
	}
}

// MovePointer dispatches a pointer move to (x, y).
func (p *Page) MovePointer(x, y float64) {
	p.Dispatch(Event{Kind: EventPointerMove, ClientX: x, ClientY: y})
}

// Resize changes the viewport size and dispatches a resize event.
// Element sizes are layout-driven and are not changed; use
// PageElement.SetClientSize for that.
func (p *Page) Resize(width, height int) {
	p.width, p.height = width, height
	p.Dispatch(Event{Kind: EventResize})
}

// RequestAnimationFrame implements Window.
func (p *Page) RequestAnimationFrame(fn FrameFunc) FrameID {
	p.nextFrame++
	p.frames[p.nextFrame] = fn
	return p.nextFrame
}

// CancelAnimationFrame implements Window.
func (p *Page) CancelAnimationFrame(id FrameID) {
	delete(p.frames, id)
}

// PendingFrames returns the number of outstanding frame requests.
func (p *Page) PendingFrames() int {
	return len(p.frames)
}

// Now returns the timestamp of the last Tick.
func (p *Page) Now() time.Duration {
	return p.now
}

// Tick runs every frame callback that was pending when Tick was called,
// in request order, with timestamp now. Callbacks requested while running
// wait for the next Tick. It returns the number of callbacks run.
func (p *Page) Tick(now time.Duration) int {
	p.now = now
	if len(p.frames) == 0 {
		return 0
	}
	ids := make([]FrameID, 0, len(p.frames))
	for id := range p.frames {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	ran := 0
	for _, id := range ids {
		fn, ok := p.frames[id]
		if !ok {
			continue // cancelled by an earlier callback
		}
		delete(p.frames, id)
		fn(now)
		ran++
	}
	return ran
}

type pageListener struct {
	page *Page
	kind EventKind
	id   uint64
}

func (l *pageListener) Remove() {
	if l.page == nil {
		return
	}
	delete(l.page.listeners[l.kind], l.id)
	l.page = nil
}

// PageElement is a container element of a Page.
type PageElement struct {
	id       string
	width    int
	height   int
	children []*PageCanvas
}

// ID implements Element.
func (e *PageElement) ID() string {
	return e.id
}

// ClientSize implements Element.
func (e *PageElement) ClientSize() (width, height int) {
	return e.width, e.height
}

// SetClientSize changes the element's layout size. No event is fired.
func (e *PageElement) SetClientSize(width, height int) {
	e.width, e.height = width, height
}

// AttachCanvas implements Element.
func (e *PageElement) AttachCanvas() Canvas {
	e.removeAll()
	c := &PageCanvas{parent: e, ratio: 1}
	e.children = append(e.children, c)
	return c
}

// Canvases returns the attached canvases.
func (e *PageElement) Canvases() []*PageCanvas {
	return slices.Clone(e.children)
}

func (e *PageElement) removeAll() {
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
}

func (e *PageElement) remove(c *PageCanvas) {
	e.children = slices.DeleteFunc(e.children, func(x *PageCanvas) bool { return x == c })
}

// PageCanvas is a canvas attached under a PageElement.
// It keeps a copy of the last presented frame.
type PageCanvas struct {
	parent   *PageElement
	width    int
	height   int
	ratio    float64
	frame    *image.RGBA
	presents int
}

// Resize implements Canvas.
func (c *PageCanvas) Resize(width, height int, ratio float64) {
	c.width, c.height, c.ratio = width, height, ratio
}

// Present implements Canvas.
func (c *PageCanvas) Present(frame *image.RGBA) {
	if c.parent == nil || frame == nil {
		return
	}
	if c.frame == nil || c.frame.Rect != frame.Rect {
		c.frame = image.NewRGBA(frame.Rect)
	}
	copy(c.frame.Pix, frame.Pix)
	c.presents++
}

// Attached implements Canvas.
func (c *PageCanvas) Attached() bool {
	return c.parent != nil
}

// Detach implements Canvas.
func (c *PageCanvas) Detach() {
	if c.parent == nil {
		return
	}
	c.parent.remove(c)
	c.parent = nil
	c.frame = nil
}

// Size returns the display size in CSS pixels.
func (c *PageCanvas) Size() (width, height int) {
	return c.width, c.height
}

// Ratio returns the backing store scale factor.
func (c *PageCanvas) Ratio() float64 {
	return c.ratio
}

// Frame returns the last presented frame, or nil.
func (c *PageCanvas) Frame() *image.RGBA {
	return c.frame
}

// Presents returns how many frames were presented.
func (c *PageCanvas) Presents() int {
	return c.presents
}

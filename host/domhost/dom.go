// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build js && wasm

package domhost

import (
	"image"
	"math"
	"strconv"
	"syscall/js"
	"time"

	"github.com/gogpu/backdrop/host"
)

// Document is the browser document and window as a host.Environment.
type Document struct {
	doc js.Value
	win js.Value

	frames map[host.FrameID]js.Func
}

var _ host.Environment = (*Document)(nil)

// New returns the environment of the current page.
func New() *Document {
	return &Document{
		doc:    js.Global().Get("document"),
		win:    js.Global(),
		frames: make(map[host.FrameID]js.Func),
	}
}

// ElementByID implements host.Document.
func (d *Document) ElementByID(id string) host.Element {
	v := d.doc.Call("getElementById", id)
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	return &element{doc: d.doc, v: v}
}

// InnerSize implements host.Window.
func (d *Document) InnerSize() (width, height int) {
	return d.win.Get("innerWidth").Int(), d.win.Get("innerHeight").Int()
}

// DevicePixelRatio implements host.Window.
func (d *Document) DevicePixelRatio() float64 {
	r := d.win.Get("devicePixelRatio")
	if r.Type() != js.TypeNumber {
		return 1
	}
	return r.Float()
}

// AddEventListener implements host.Window.
func (d *Document) AddEventListener(kind host.EventKind, fn func(host.Event)) host.Listener {
	name := kind.String()
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		ev := host.Event{Kind: kind}
		if kind == host.EventPointerMove && len(args) > 0 {
			ev.ClientX = args[0].Get("clientX").Float()
			ev.ClientY = args[0].Get("clientY").Float()
		}
		fn(ev)
		return nil
	})
	d.win.Call("addEventListener", name, cb)
	return &listener{win: d.win, name: name, cb: cb}
}

// RequestAnimationFrame implements host.Window.
func (d *Document) RequestAnimationFrame(fn host.FrameFunc) host.FrameID {
	var id host.FrameID
	var cb js.Func
	cb = js.FuncOf(func(_ js.Value, args []js.Value) any {
		delete(d.frames, id)
		cb.Release()
		var ms float64
		if len(args) > 0 {
			ms = args[0].Float()
		}
		fn(time.Duration(ms * float64(time.Millisecond)))
		return nil
	})
	id = host.FrameID(d.win.Call("requestAnimationFrame", cb).Int())
	d.frames[id] = cb
	return id
}

// CancelAnimationFrame implements host.Window.
func (d *Document) CancelAnimationFrame(id host.FrameID) {
	cb, ok := d.frames[id]
	if !ok {
		return
	}
	delete(d.frames, id)
	d.win.Call("cancelAnimationFrame", int(id))
	cb.Release()
}

type listener struct {
	win  js.Value
	name string
	cb   js.Func
	done bool
}

func (l *listener) Remove() {
	if l.done {
		return
	}
	l.done = true
	l.win.Call("removeEventListener", l.name, l.cb)
	l.cb.Release()
}

type element struct {
	doc js.Value
	v   js.Value
}

func (e *element) ID() string {
	return e.v.Get("id").String()
}

func (e *element) ClientSize() (width, height int) {
	return e.v.Get("clientWidth").Int(), e.v.Get("clientHeight").Int()
}

func (e *element) AttachCanvas() host.Canvas {
	c := e.doc.Call("createElement", "canvas")
	c.Get("style").Set("display", "block")
	e.v.Call("replaceChildren", c)
	return &canvas{
		v:   c,
		ctx: c.Call("getContext", "2d", map[string]any{"alpha": true}),
	}
}

// canvas is a <canvas> element with a 2D context.
type canvas struct {
	v        js.Value
	ctx      js.Value
	data     js.Value // ImageData of the backing store size
	scratch  []byte
	detached bool
}

func (c *canvas) Resize(width, height int, ratio float64) {
	bw := max(int(math.Floor(float64(width)*ratio)), 1)
	bh := max(int(math.Floor(float64(height)*ratio)), 1)
	c.v.Set("width", bw)
	c.v.Set("height", bh)
	style := c.v.Get("style")
	style.Set("width", strconv.Itoa(width)+"px")
	style.Set("height", strconv.Itoa(height)+"px")
	c.data = js.Undefined()
}

// Present uploads frame with putImageData. ImageData is straight alpha, so
// the premultiplied frame is converted first.
func (c *canvas) Present(frame *image.RGBA) {
	if c.detached || frame == nil {
		return
	}
	w, h := frame.Rect.Dx(), frame.Rect.Dy()
	if c.data.IsUndefined() || c.data.Get("width").Int() != w || c.data.Get("height").Int() != h {
		c.data = c.ctx.Call("createImageData", w, h)
		c.scratch = make([]byte, w*h*4)
	}
	unpremultiply(c.scratch, frame.Pix)
	js.CopyBytesToJS(c.data.Get("data"), c.scratch)
	c.ctx.Call("putImageData", c.data, 0, 0)
}

func (c *canvas) Attached() bool {
	if c.detached {
		return false
	}
	p := c.v.Get("parentNode")
	return !p.IsNull() && !p.IsUndefined()
}

func (c *canvas) Detach() {
	if c.detached {
		return
	}
	c.detached = true
	c.v.Call("remove")
	c.data = js.Undefined()
	c.scratch = nil
}

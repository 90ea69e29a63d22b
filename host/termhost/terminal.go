// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package termhost

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/backdrop/host"
)

// halfBlock paints the upper half of a cell with the foreground color and
// the lower half with the background color.
const halfBlock = '▀'

// Screen is the part of tcell.Screen the terminal host uses.
type Screen interface {
	Init() error
	Fini()
	Size() (width, height int)
	EnableMouse(flags ...tcell.MouseFlags)
	HideCursor()
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Show()
	PollEvent() tcell.Event
}

// Config controls the terminal host.
type Config struct {
	// Background is painted behind the scene. Defaults to opaque black.
	Background color.Color

	// Hz is the frame rate. Defaults to 30.
	Hz int

	// Screen overrides the terminal screen. Defaults to tcell.NewScreen().
	Screen Screen
}

// Terminal shows a host.Page in a terminal. Each cell carries two vertical
// pixels, so a page on an 80x24 terminal is 80x48 CSS pixels.
type Terminal struct {
	page   *host.Page
	screen Screen
	bg     color.Color
	hz     int

	cols, rows int
	img        *image.RGBA
}

// New initializes the terminal screen and sizes page to it.
func New(page *host.Page, cfg Config) (*Terminal, error) {
	screen := cfg.Screen
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("termhost: %w", err)
		}
		screen = s
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("termhost: init screen: %w", err)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	t := &Terminal{
		page:   page,
		screen: screen,
		bg:     cfg.Background,
		hz:     cfg.Hz,
	}
	if t.bg == nil {
		t.bg = color.Black
	}
	if t.hz <= 0 {
		t.hz = 30
	}
	page.SetDevicePixelRatio(1)
	t.resize()
	return t, nil
}

// Close restores the terminal.
func (t *Terminal) Close() {
	t.screen.Fini()
}

// Run draws frames until ctx is done or the user presses Escape, Ctrl-C or
// q. step, if non-nil, runs every tick before the page's frame callbacks;
// a non-nil error stops the run and is returned.
func (t *Terminal) Run(ctx context.Context, step func() error) error {
	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)
	go t.pump(events, done)

	ticker := time.NewTicker(time.Second / time.Duration(t.hz))
	defer ticker.Stop()
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !t.handle(ev) {
				return nil
			}
		case <-ticker.C:
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			t.page.Tick(time.Since(start))
			t.draw()
		}
	}
}

// pump forwards screen events to events until the screen is finalized or
// done is closed. It closes events on return.
func (t *Terminal) pump(events chan<- tcell.Event, done <-chan struct{}) {
	defer close(events)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return // screen finalized
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// handle applies one terminal event. It returns false when the user asked
// to quit.
func (t *Terminal) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'c' && ev.Modifiers()&tcell.ModCtrl != 0:
			return false
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		t.page.MovePointer(float64(x)+0.5, float64(y)*2+1)
	case *tcell.EventResize:
		t.resize()
	}
	return true
}

func (t *Terminal) resize() {
	cols, rows := t.screen.Size()
	cols, rows = max(cols, 1), max(rows, 1)
	if cols == t.cols && rows == t.rows {
		return
	}
	t.cols, t.rows = cols, rows
	t.img = image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	t.page.FillViewport(cols, rows*2)
	host.Logger().Debug("termhost: resized", "cols", cols, "rows", rows)
}

// draw composes the page and paints it as half-block cells.
func (t *Terminal) draw() {
	t.page.Compose(t.img, t.bg)
	for y := range t.rows {
		for x := range t.cols {
			top := t.img.RGBAAt(x, y*2)
			bottom := t.img.RGBAAt(x, y*2+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			t.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
	t.screen.Show()
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build cgo

package ebitenhost

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/backdrop/host"
)

// Run opens a window showing page and blocks until the window is closed,
// Escape is pressed, or setup/step fail.
//
// setup runs once on the game goroutine before the first frame, after the
// page has its window size; it is where backgrounds are mounted. step, if
// non-nil, runs every tick before the page's frame callbacks.
func Run(page *host.Page, cfg Config, setup func() error, step func() error) error {
	cfg = cfg.withDefaults()

	g := &game{
		d:     newDriver(page, cfg.Background),
		setup: setup,
		step:  step,
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TPS)

	host.Logger().Info("ebitenhost: opening window", "title", cfg.Title, "width", cfg.Width, "height", cfg.Height)
	err := ebiten.RunGame(g)
	if g.screen != nil {
		g.screen.Deallocate()
	}
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type game struct {
	d      *driver
	setup  func() error
	step   func() error
	start  time.Time
	screen *ebiten.Image
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.start.IsZero() {
		g.start = time.Now()
		if g.setup != nil {
			if err := g.setup(); err != nil {
				return err
			}
		}
	}
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	x, y := ebiten.CursorPosition()
	g.d.update(x, y, time.Since(g.start))
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	frame := g.d.compose()
	b := frame.Bounds()
	if g.screen == nil || g.screen.Bounds().Size() != b.Size() {
		if g.screen != nil {
			g.screen.Deallocate()
		}
		g.screen = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.screen.WritePixels(frame.Pix)
	screen.DrawImage(g.screen, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.d.layout(outsideWidth, outsideHeight, ebiten.Monitor().DeviceScaleFactor())
}

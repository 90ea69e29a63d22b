// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ebitenhost

import "image/color"

// Config controls the window.
type Config struct {
	// Title is the window title. Defaults to "backdrop".
	Title string

	// Width and Height are the initial window size in logical pixels.
	// Default to 1280x720.
	Width, Height int

	// Background is painted behind the scene. Defaults to opaque black.
	Background color.Color

	// TPS is the update rate. Defaults to 60.
	TPS int
}

func (c Config) withDefaults() Config {
	if c.Title == "" {
		c.Title = "backdrop"
	}
	if c.Width <= 0 {
		c.Width = 1280
	}
	if c.Height <= 0 {
		c.Height = 720
	}
	if c.Background == nil {
		c.Background = color.Black
	}
	if c.TPS <= 0 {
		c.TPS = 60
	}
	return c
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package termhost shows a host.Page in a terminal using tcell.
//
// Every cell is drawn as an upper half block whose foreground and
// background colors are two vertically stacked pixels, which gives roughly
// square pixels on common terminal fonts. Mouse motion drives pointer
// events and terminal resizes dispatch resize events.
//
// Terminal input is read on its own goroutine and handed to the run loop
// over a channel, so page callbacks still run on a single goroutine.
package termhost

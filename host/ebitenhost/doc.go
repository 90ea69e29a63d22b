// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ebitenhost shows a host.Page in a desktop window.
//
// Every container element of the page is stretched to fill the window, the
// cursor drives pointer events, and window resizes dispatch resize events.
// Frame callbacks run once per tick with the time since the window opened.
// Canvas frames are composed over the configured background and uploaded
// to the screen.
//
// Window mode needs cgo; without it Run returns ErrNoWindow.
package ebitenhost

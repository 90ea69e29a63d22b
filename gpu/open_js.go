// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build js

package gpu

// Open always returns ErrNoAdapter in the browser, where backgrounds are
// drawn on the CPU and presented through a 2D canvas.
func Open() (*Device, error) {
	return nil, ErrNoAdapter
}

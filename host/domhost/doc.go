// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package domhost implements host.Environment on the browser DOM.
//
// It is built for GOOS=js GOARCH=wasm. Containers are looked up with
// getElementById, the surface is a <canvas> with a 2D context that is
// made the container's only child, frames are scheduled with
// requestAnimationFrame, and listeners are registered on window.
//
// Every js.Func the package creates is released when its listener is
// removed or its frame fires or is cancelled, so mount and unmount cycles
// do not grow the Go-side callback table.
package domhost

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package host abstracts the page environment a background scene lives in.
//
// A scene needs four things from its host: a document to resolve container
// elements by id, canvases it can attach under those elements, window-wide
// event listeners (pointer movement and viewport resize), and an animation
// frame scheduler. The interfaces in this package describe exactly that
// surface and nothing more.
//
// # Implementations
//
//   - [Page]: an in-memory document and window. Frames run when [Page.Tick]
//     is called and events are injected with [Page.MovePointer] and
//     [Page.Resize]. Used by tests and by [RunHeadless].
//   - host/ebitenhost: a desktop window.
//   - host/termhost: a terminal, one cell per two vertical pixels.
//   - host/domhost: the browser DOM when built with GOOS=js GOARCH=wasm.
//
// # Listeners
//
// Listeners are returned as [Listener] capability handles. Removing a
// handle detaches exactly that registration; removing it twice is a no-op.
// Owners keep the handles and drop them on teardown instead of relying on
// ambient global state.
//
// # Threading
//
// Hosts deliver every callback (frames, pointer events, resize events) on a
// single goroutine. Implementations of this package are NOT safe for
// concurrent use.
package host

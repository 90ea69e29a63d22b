// Package backdrop renders animated particle-field backgrounds into page
// containers.
//
// # Overview
//
// A background is a cloud of glowing points slowly spinning in front of a
// perspective camera. Every point is shaded along a two-color gradient that
// runs diagonally through the cloud, and the cloud leans toward the pointer
// as it moves across the page.
//
// One Instance is bound to one container element. Instances are independent:
// several can run on the same page, each with its own container and colors.
//
// # Quick Start
//
//	import "github.com/gogpu/backdrop"
//
//	cfg := backdrop.DefaultConfig("hero-3d-scene")
//	inst := backdrop.Mount(env, cfg)
//	defer inst.Close()
//
// env is any host.Environment: the in-memory host.Page, a desktop window
// (host/ebitenhost), a terminal (host/termhost) or a browser document
// (host/domhost).
//
// A missing container is not an error. Mount returns an instance that
// never mounted and Close on it does nothing.
//
// # Lifecycle
//
//	Unmounted -> Mounting -> Running -> Unmounting -> Unmounted
//
// Close tears down in a fixed order: cancel the pending frame, close the
// surface, remove the event listeners, dispose the field. Every step runs
// even if an earlier one fails. Close is safe to call many times.
//
// Binding wraps the lifecycle for owners whose configuration changes over
// time: applying a different Config closes the running instance before the
// next one mounts.
//
// # Logging
//
// backdrop is silent by default. Call SetLogger to route lifecycle events
// through log/slog.
//
// # Concurrency
//
// Instances are driven by their host's callbacks on one goroutine and are
// NOT safe for concurrent use.
package backdrop

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package scene holds the camera and the particle field node of one
// background instance.
//
// The hierarchy is fixed at construction: a root with exactly one
// perspective camera and exactly one points node. The only mutations are
// SetAspect (on resize) and SetRotation (every frame).
package scene

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/backdrop/field"
)

// Camera defaults.
const (
	DefaultFOV      = 75   // vertical field of view, degrees
	DefaultNear     = 0.1  // near clipping plane
	DefaultFar      = 1000 // far clipping plane
	DefaultDistance = 20   // camera distance along +Z
)

// Camera is a perspective camera looking down -Z.
type Camera struct {
	fov      float32
	aspect   float32
	near     float32
	far      float32
	position Vec3

	projection Mat4
}

func newCamera(aspect float32) *Camera {
	c := &Camera{
		fov:      DefaultFOV,
		near:     DefaultNear,
		far:      DefaultFar,
		position: Vec3{Z: DefaultDistance},
	}
	c.setAspect(aspect)
	return c
}

// FOV returns the vertical field of view in degrees.
func (c *Camera) FOV() float32 { return c.fov }

// Aspect returns the width/height ratio.
func (c *Camera) Aspect() float32 { return c.aspect }

// Near returns the near plane distance.
func (c *Camera) Near() float32 { return c.near }

// Far returns the far plane distance.
func (c *Camera) Far() float32 { return c.far }

// Position returns the camera position in world space.
func (c *Camera) Position() Vec3 { return c.position }

// Projection returns the projection matrix.
func (c *Camera) Projection() Mat4 { return c.projection }

// View returns the world-to-view matrix.
func (c *Camera) View() Mat4 {
	return Translation(c.position).InverseRigid()
}

func (c *Camera) setAspect(aspect float32) {
	if aspect <= 0 || math32.IsNaN(aspect) || math32.IsInf(aspect, 0) {
		aspect = 1
	}
	c.aspect = aspect
	c.projection = Perspective(c.fov*math32.Pi/180, c.aspect, c.near, c.far)
}

// Points is the node that draws the particle field.
type Points struct {
	field *field.Field
	rotX  float32
	rotY  float32
}

// Field returns the drawn field.
func (p *Points) Field() *field.Field { return p.field }

// Rotation returns the Euler rotation (radians) about X and Y.
func (p *Points) Rotation() (x, y float32) { return p.rotX, p.rotY }

// Model returns the object-to-world matrix.
func (p *Points) Model() Mat4 { return RotationXYZ(p.rotX, p.rotY, 0) }

// Scene is the root node: one camera and one points node.
type Scene struct {
	camera *Camera
	points *Points
}

// New creates a scene drawing f, viewed with the given aspect ratio.
func New(f *field.Field, aspect float32) *Scene {
	return &Scene{
		camera: newCamera(aspect),
		points: &Points{field: f},
	}
}

// Camera returns the camera. Callers must not retain it past the scene.
func (s *Scene) Camera() *Camera { return s.camera }

// Points returns the points node.
func (s *Scene) Points() *Points { return s.points }

// Field returns the particle field.
func (s *Scene) Field() *field.Field { return s.points.field }

// SetAspect updates the camera aspect ratio and its projection.
// Non-positive or non-finite ratios fall back to 1.
func (s *Scene) SetAspect(ratio float32) {
	s.camera.setAspect(ratio)
}

// SetRotation sets the points node's rotation about X and Y.
func (s *Scene) SetRotation(x, y float32) {
	s.points.rotX, s.points.rotY = x, y
}

// ModelView returns the object-to-view matrix of the points node.
func (s *Scene) ModelView() Mat4 {
	return s.camera.View().Mul(s.points.Model())
}

// Projection returns the camera projection.
func (s *Scene) Projection() Mat4 {
	return s.camera.projection
}

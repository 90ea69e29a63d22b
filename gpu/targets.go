// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// targets holds the single-sample color and depth attachments of a
// renderer.
type targets struct {
	color     hal.Texture
	colorView hal.TextureView
	depth     hal.Texture
	depthView hal.TextureView
	width     uint32
	height    uint32
}

// ensure recreates the attachments when the size changed.
func (t *targets) ensure(device hal.Device, w, h uint32) error {
	if t.width == w && t.height == h && t.color != nil {
		return nil
	}
	t.destroy(device)

	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	color, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "particle_color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("gpu: create color target: %w", err)
	}
	t.color = color

	colorView, err := device.CreateTextureView(color, &hal.TextureViewDescriptor{Label: "particle_color_view"})
	if err != nil {
		t.destroy(device)
		return fmt.Errorf("gpu: create color view: %w", err)
	}
	t.colorView = colorView

	depth, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "particle_depth",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        depthFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.destroy(device)
		return fmt.Errorf("gpu: create depth target: %w", err)
	}
	t.depth = depth

	depthView, err := device.CreateTextureView(depth, &hal.TextureViewDescriptor{Label: "particle_depth_view"})
	if err != nil {
		t.destroy(device)
		return fmt.Errorf("gpu: create depth view: %w", err)
	}
	t.depthView = depthView

	t.width, t.height = w, h
	return nil
}

func (t *targets) destroy(device hal.Device) {
	if t.depthView != nil {
		device.DestroyTextureView(t.depthView)
		t.depthView = nil
	}
	if t.depth != nil {
		device.DestroyTexture(t.depth)
		t.depth = nil
	}
	if t.colorView != nil {
		device.DestroyTextureView(t.colorView)
		t.colorView = nil
	}
	if t.color != nil {
		device.DestroyTexture(t.color)
		t.color = nil
	}
	t.width, t.height = 0, 0
}

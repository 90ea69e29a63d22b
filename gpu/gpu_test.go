// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"image"
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/backdrop/field"
	"github.com/gogpu/backdrop/scene"
	"github.com/gogpu/backdrop/surface"
)

var _ surface.Renderer = (*Renderer)(nil)

// createNoopDevice opens a device on the noop backend.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func newTestField(t *testing.T) *field.Field {
	t.Helper()
	f := field.New(field.WithCount(50), field.WithRand(rand.New(rand.NewPCG(1, 2))))
	t.Cleanup(f.Dispose)
	return f
}

func TestOpenNoopBackend(t *testing.T) {
	d, err := open(&noop.API{})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if d.Closed() {
		t.Error("new device reports closed")
	}
	d.Close()
	d.Close()
	if !d.Closed() {
		t.Error("Closed() = false after Close")
	}
}

func TestWrapCloseKeepsExternalDevice(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	d := Wrap(device, queue)
	if d.Name() != "external" {
		t.Errorf("Name() = %q, want external", d.Name())
	}
	d.Close()
	if !d.Closed() {
		t.Error("Closed() = false after Close")
	}

	// The borrowed device must still be usable by its owner.
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "after_close",
		Size:  16,
		Usage: gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		t.Fatalf("CreateBuffer on borrowed device failed: %v", err)
	}
	device.DestroyBuffer(buf)
}

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

// mockQueue implements gpucontext.Queue for testing.
type mockQueue struct{}

// mockAdapter implements gpucontext.Adapter for testing.
type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider for testing.
type mockProvider struct{}

func (m *mockProvider) Device() gpucontext.Device             { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue               { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return &mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }

// mockHalProvider also exposes HAL handles, like a gogpu window.
type mockHalProvider struct {
	mockProvider
	device any
	queue  any
}

func (m *mockHalProvider) HalDevice() any { return m.device }
func (m *mockHalProvider) HalQueue() any  { return m.queue }

func TestFromProvider(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	tests := []struct {
		name    string
		p       gpucontext.DeviceProvider
		wantErr bool
	}{
		{"no hal accessors", &mockProvider{}, true},
		{"wrong device type", &mockHalProvider{device: "device", queue: queue}, true},
		{"wrong queue type", &mockHalProvider{device: device, queue: 42}, true},
		{"nil handles", &mockHalProvider{}, true},
		{"hal device and queue", &mockHalProvider{device: device, queue: queue}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := FromProvider(tt.p)
			if tt.wantErr {
				if !errors.Is(err, ErrNoHalProvider) {
					t.Fatalf("err = %v, want ErrNoHalProvider", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromProvider failed: %v", err)
			}
			if d.Name() != "external" {
				t.Errorf("Name() = %q, want external", d.Name())
			}
		})
	}
}

func TestNewRenderer(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	f := newTestField(t)
	r, err := NewRenderer(Wrap(device, queue), f)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	defer r.Release()

	if r.count != 50 {
		t.Errorf("count = %d, want 50", r.count)
	}
	if r.pipeline == nil || r.shader == nil || r.bindGroup == nil {
		t.Error("pipeline objects not created")
	}
	if r.positions == nil || r.scales == nil || r.uniforms == nil {
		t.Error("buffers not created")
	}
	if r.targets.color != nil {
		t.Error("targets created before the first Render")
	}
}

func TestNewRendererErrors(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	closed := Wrap(device, queue)
	closed.Close()
	if _, err := NewRenderer(closed, newTestField(t)); !errors.Is(err, ErrDeviceClosed) {
		t.Errorf("closed device: err = %v, want ErrDeviceClosed", err)
	}
	if _, err := NewRenderer(nil, newTestField(t)); !errors.Is(err, ErrDeviceClosed) {
		t.Errorf("nil device: err = %v, want ErrDeviceClosed", err)
	}

	disposed := newTestField(t)
	disposed.Dispose()
	if _, err := NewRenderer(Wrap(device, queue), disposed); !errors.Is(err, field.ErrProgramDisposed) {
		t.Errorf("disposed field: err = %v, want ErrProgramDisposed", err)
	}
}

func TestRendererRender(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	f := newTestField(t)
	r, err := NewRenderer(Wrap(device, queue), f)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	defer r.Release()

	sc := scene.New(f, 1)
	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))
	if err := r.Render(dst, sc); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if r.targets.width != 8 || r.targets.height != 8 {
		t.Errorf("targets = %dx%d, want 8x8", r.targets.width, r.targets.height)
	}
	// 8 pixels * 4 bytes pads to one 256-byte row each.
	if len(r.readback) != 8*copyPitchAlignment {
		t.Errorf("readback = %d bytes, want %d", len(r.readback), 8*copyPitchAlignment)
	}

	// Noop backend returns zeroed readback data, so we verify the code path
	// and the target resize rather than pixel values.
	dst = image.NewRGBA(image.Rect(0, 0, 70, 3))
	if err := r.Render(dst, sc); err != nil {
		t.Fatalf("Render after resize failed: %v", err)
	}
	if r.targets.width != 70 || r.targets.height != 3 {
		t.Errorf("targets = %dx%d, want 70x3", r.targets.width, r.targets.height)
	}

	if err := r.Render(image.NewRGBA(image.Rectangle{}), sc); err != nil {
		t.Errorf("empty Render = %v, want nil", err)
	}
}

func TestRendererRelease(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	f := newTestField(t)
	d := Wrap(device, queue)
	r, err := NewRenderer(d, f)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	sc := scene.New(f, 1)
	if err := r.Render(image.NewRGBA(image.Rect(0, 0, 4, 4)), sc); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	r.Release()
	r.Release()
	if !r.Released() {
		t.Error("Released() = false after Release")
	}
	if r.pipeline != nil || r.positions != nil || r.targets.color != nil {
		t.Error("Release left GPU objects behind")
	}
	if err := r.Render(image.NewRGBA(image.Rect(0, 0, 4, 4)), sc); !errors.Is(err, ErrRendererReleased) {
		t.Errorf("Render after Release = %v, want ErrRendererReleased", err)
	}
}

func TestRenderOnClosedDevice(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	f := newTestField(t)
	d := Wrap(device, queue)
	r, err := NewRenderer(d, f)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	defer r.Release()

	d.Close()
	err = r.Render(image.NewRGBA(image.Rect(0, 0, 4, 4)), scene.New(f, 1))
	if !errors.Is(err, ErrDeviceClosed) {
		t.Errorf("Render = %v, want ErrDeviceClosed", err)
	}
}

func TestCopyBGRA(t *testing.T) {
	const stride = 16
	src := make([]byte, 2*stride)
	// Row 0: one pixel, B=1 G=2 R=3 A=4; row 1: B=5 G=6 R=7 A=8.
	copy(src[0:], []byte{1, 2, 3, 4})
	copy(src[stride:], []byte{5, 6, 7, 8})
	src[4] = 0xFF // padding past the image width is ignored

	dst := image.NewRGBA(image.Rect(0, 0, 1, 2))
	copyBGRA(dst, src, stride)

	if got := dst.RGBAAt(0, 0); got != (color.RGBA{R: 3, G: 2, B: 1, A: 4}) {
		t.Errorf("pixel (0,0) = %v", got)
	}
	if got := dst.RGBAAt(0, 1); got != (color.RGBA{R: 7, G: 6, B: 5, A: 8}) {
		t.Errorf("pixel (0,1) = %v", got)
	}
}

func TestFloat32Bytes(t *testing.T) {
	got := float32Bytes([]float32{1, -2})
	want := []byte{0x00, 0x00, 0x80, 0x3f, 0x00, 0x00, 0x00, 0xc0}
	if string(got) != string(want) {
		t.Errorf("float32Bytes = % x, want % x", got, want)
	}
}

package backdrop

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/backdrop/gpu"
	"github.com/gogpu/backdrop/host"
)

const frame = 16 * time.Millisecond

// newTestPage returns a 1000x800 page with a 200x160 hero container.
func newTestPage() *host.Page {
	p := host.NewPage(1000, 800, 1)
	p.AddElement("hero-3d-scene", 200, 160)
	return p
}

func tick(p *host.Page, n int) {
	for range n {
		p.Tick(p.Now() + frame)
	}
}

func assertReleased(t *testing.T, p *host.Page) {
	t.Helper()
	if n := p.PendingFrames(); n != 0 {
		t.Errorf("PendingFrames() = %d, want 0", n)
	}
	for _, kind := range []host.EventKind{host.EventPointerMove, host.EventResize} {
		if n := p.ListenerCount(kind); n != 0 {
			t.Errorf("ListenerCount(%v) = %d, want 0", kind, n)
		}
	}
	for _, id := range p.Elements() {
		if n := len(p.Element(id).Canvases()); n != 0 {
			t.Errorf("element %q has %d canvases, want 0", id, n)
		}
	}
}

func TestMountAttachesSurface(t *testing.T) {
	p := newTestPage()
	inst := Mount(p, DefaultConfig("hero-3d-scene"))
	t.Cleanup(func() { _ = inst.Close() })

	if inst.State() != Running {
		t.Fatalf("State() = %v, want running", inst.State())
	}
	canvases := p.Element("hero-3d-scene").Canvases()
	if len(canvases) != 1 {
		t.Fatalf("container has %d canvases, want 1", len(canvases))
	}
	if w, h := canvases[0].Size(); w != 200 || h != 160 {
		t.Errorf("canvas size = %dx%d, want 200x160", w, h)
	}
	if got := inst.Camera().Aspect(); !near(got, 1.25) {
		t.Errorf("camera aspect = %v, want 1.25", got)
	}
	if inst.Field().Count() != 1000 {
		t.Errorf("field count = %d, want 1000", inst.Field().Count())
	}
	if p.PendingFrames() != 1 {
		t.Errorf("PendingFrames() = %d, want 1", p.PendingFrames())
	}
	if p.ListenerCount(host.EventPointerMove) != 1 || p.ListenerCount(host.EventResize) != 1 {
		t.Error("expected one pointer and one resize listener")
	}
	if inst.ID().String() == "" {
		t.Error("ID() is empty")
	}
}

func TestMountReplacesExistingChildren(t *testing.T) {
	p := newTestPage()
	stale := p.Element("hero-3d-scene").AttachCanvas()

	inst := Mount(p, DefaultConfig("hero-3d-scene"))
	t.Cleanup(func() { _ = inst.Close() })

	if stale.Attached() {
		t.Error("previous child still attached")
	}
	if n := len(p.Element("hero-3d-scene").Canvases()); n != 1 {
		t.Errorf("container has %d canvases, want 1", n)
	}
}

func TestMountMissingContainerIsNoop(t *testing.T) {
	p := newTestPage()
	inst := Mount(p, DefaultConfig("does-not-exist"))

	if inst == nil {
		t.Fatal("Mount returned nil")
	}
	if inst.State() != Unmounted {
		t.Errorf("State() = %v, want unmounted", inst.State())
	}
	if inst.Scene() != nil || inst.Surface() != nil || inst.Field() != nil || inst.Camera() != nil {
		t.Error("unmounted instance exposes resources")
	}
	assertReleased(t, p)
	if err := inst.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}

func TestMountNilEnvironment(t *testing.T) {
	inst := Mount(nil, DefaultConfig("hero-3d-scene"))
	if inst.State() != Unmounted {
		t.Errorf("State() = %v, want unmounted", inst.State())
	}
	if err := inst.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestMountEmptyContainer(t *testing.T) {
	p := host.NewPage(1000, 800, 1)
	p.AddElement("hero-3d-scene", 0, 0)

	inst := Mount(p, DefaultConfig("hero-3d-scene"))
	t.Cleanup(func() { _ = inst.Close() })

	if inst.State() != Running {
		t.Fatalf("State() = %v, want running", inst.State())
	}
	if w, h := inst.Surface().Size(); w != 1 || h != 1 {
		t.Errorf("surface size = %dx%d, want 1x1", w, h)
	}
}

func TestFrameLoopSpins(t *testing.T) {
	p := newTestPage()
	inst := Mount(p, DefaultConfig("hero-3d-scene"), WithParticleCount(100))
	t.Cleanup(func() { _ = inst.Close() })

	tick(p, 3)

	if inst.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", inst.Frames())
	}
	spin := inst.Spin()
	if !near(spin.X, 3*SpinX) || !near(spin.Y, 3*SpinY) {
		t.Errorf("Spin() = %+v, want (%v, %v)", spin, 3*SpinX, 3*SpinY)
	}
	rx, ry := inst.Scene().Points().Rotation()
	if !near(rx, spin.X) || !near(ry, spin.Y) {
		t.Errorf("rotation = (%v, %v), want spin %+v", rx, ry, spin)
	}
	if p.PendingFrames() != 1 {
		t.Errorf("PendingFrames() = %d, want 1", p.PendingFrames())
	}
	if n := p.Element("hero-3d-scene").Canvases()[0].Presents(); n != 3 {
		t.Errorf("Presents() = %d, want 3", n)
	}
}

func TestCloseReleasesEverything(t *testing.T) {
	p := newTestPage()
	inst := Mount(p, DefaultConfig("hero-3d-scene"), WithParticleCount(50))
	tick(p, 2)
	canvas := p.Element("hero-3d-scene").Canvases()[0]

	if err := inst.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if inst.State() != Unmounted {
		t.Errorf("State() = %v, want unmounted", inst.State())
	}
	assertReleased(t, p)
	if canvas.Attached() {
		t.Error("canvas still attached")
	}
	if !inst.Surface().Closed() {
		t.Error("surface not closed")
	}
	if !inst.Field().Disposed() || !inst.Field().Program().Disposed() {
		t.Error("field not disposed")
	}

	frames := inst.Frames()
	tick(p, 5)
	if inst.Frames() != frames {
		t.Errorf("frames advanced after Close: %d -> %d", frames, inst.Frames())
	}
	if err := inst.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

func TestImmediateMountUnmount(t *testing.T) {
	p := newTestPage()
	inst := Mount(p, DefaultConfig("hero-3d-scene"), WithParticleCount(10))
	if err := inst.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	assertReleased(t, p)
	if inst.Frames() != 0 {
		t.Errorf("Frames() = %d, want 0", inst.Frames())
	}
}

func TestRepeatedMountUnmount(t *testing.T) {
	p := newTestPage()
	for i := range 100 {
		inst := Mount(p, DefaultConfig("hero-3d-scene"), WithParticleCount(20))
		if inst.State() != Running {
			t.Fatalf("cycle %d: State() = %v, want running", i, inst.State())
		}
		tick(p, i%3)
		p.MovePointer(float64(i), float64(i))
		if err := inst.Close(); err != nil {
			t.Fatalf("cycle %d: Close() = %v", i, err)
		}
	}
	assertReleased(t, p)
}

func TestPointerTargets(t *testing.T) {
	tests := []struct {
		name   string
		cx, cy float64
		want   Offset
	}{
		{"center", 500, 400, Offset{0, 0}},
		{"top-left", 0, 0, Offset{X: 0.5, Y: -0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPage()
			inst := Mount(p, DefaultConfig("hero-3d-scene"), WithParticleCount(10))
			t.Cleanup(func() { _ = inst.Close() })

			p.MovePointer(tt.cx, tt.cy)
			got := inst.PointerTarget()
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
				t.Errorf("PointerTarget() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPointerEasesIntoRotation(t *testing.T) {
	p := newTestPage()
	inst := Mount(p, DefaultConfig("hero-3d-scene"), WithParticleCount(10))
	t.Cleanup(func() { _ = inst.Close() })

	tick(p, 1)
	p.MovePointer(0, 0) // target (0.5, -0.5)

	p.Tick(p.Now() + time.Second)
	mid := inst.PointerOffset()
	if !near(mid.X, 0.375) || !near(mid.Y, -0.375) {
		t.Errorf("offset after 1s = %+v, want (0.375, -0.375)", mid)
	}

	p.Tick(p.Now() + 1500*time.Millisecond)
	end := inst.PointerOffset()
	if end != (Offset{X: 0.5, Y: -0.5}) {
		t.Errorf("offset after 2.5s = %+v, want (0.5, -0.5)", end)
	}

	rx, ry := inst.Scene().Points().Rotation()
	spin := inst.Spin()
	if !near(rx, spin.X+0.5) || !near(ry, spin.Y-0.5) {
		t.Errorf("rotation = (%v, %v), want spin + offset", rx, ry)
	}
}

func TestPointerBeforeFirstFrameOnLatePage(t *testing.T) {
	p := newTestPage()
	p.Tick(10 * time.Second)

	inst := Mount(p, DefaultConfig("hero-3d-scene"), WithParticleCount(10))
	t.Cleanup(func() { _ = inst.Close() })

	p.MovePointer(0, 0) // target (0.5, -0.5), before any frame
	p.Tick(10*time.Second + frame)

	got := inst.PointerOffset()
	want := 0.5 * EaseOutQuad(float32(frame)/float32(EaseDuration)) // about 0.008
	if !near(got.X, want) || !near(got.Y, -want) {
		t.Errorf("offset after first frame = %+v, want (%v, %v)", got, want, -want)
	}
	if inst.PointerTarget() != (Offset{X: 0.5, Y: -0.5}) {
		t.Errorf("PointerTarget() = %+v, want (0.5, -0.5)", inst.PointerTarget())
	}

	p.Tick(11*time.Second + frame)
	if mid := inst.PointerOffset(); !near(mid.X, 0.375) {
		t.Errorf("offset 1s after first frame X = %v, want 0.375", mid.X)
	}
}

func TestResizeUpdatesCameraAndSurface(t *testing.T) {
	p := newTestPage()
	inst := Mount(p, DefaultConfig("hero-3d-scene"), WithParticleCount(10))
	t.Cleanup(func() { _ = inst.Close() })

	p.Element("hero-3d-scene").SetClientSize(800, 400)
	p.Resize(800, 400)

	if got := inst.Camera().Aspect(); !near(got, 2) {
		t.Errorf("aspect = %v, want 2", got)
	}
	if w, h := inst.Surface().Size(); w != 800 || h != 400 {
		t.Errorf("surface size = %dx%d, want 800x400", w, h)
	}
	if w, h := p.Element("hero-3d-scene").Canvases()[0].Size(); w != 800 || h != 400 {
		t.Errorf("canvas size = %dx%d, want 800x400", w, h)
	}

	// Collapsed layout is ignored.
	p.Element("hero-3d-scene").SetClientSize(0, 0)
	p.Resize(0, 0)
	if w, h := inst.Surface().Size(); w != 800 || h != 400 {
		t.Errorf("surface size after collapse = %dx%d, want 800x400", w, h)
	}
}

func TestPixelRatioCapped(t *testing.T) {
	p := newTestPage()
	p.SetDevicePixelRatio(3)
	inst := Mount(p, DefaultConfig("hero-3d-scene"), WithParticleCount(10))
	t.Cleanup(func() { _ = inst.Close() })

	if r := inst.Surface().Ratio(); r != 2 {
		t.Errorf("Ratio() = %v, want 2", r)
	}
	if pm := inst.Surface().Pixmap(); pm.Width() != 400 || pm.Height() != 320 {
		t.Errorf("backing store = %dx%d, want 400x320", pm.Width(), pm.Height())
	}
}

func TestInstancesAreIndependent(t *testing.T) {
	p := newTestPage()
	p.AddElement("services-3d-scene", 400, 300)

	a := Mount(p, DefaultConfig("hero-3d-scene"), WithParticleCount(10))
	b := Mount(p, Config{
		ContainerID: "services-3d-scene",
		Color1:      MustParseColor("#00D4FF"),
		Color2:      MustParseColor("#7B61FF"),
	}, WithParticleCount(10))
	t.Cleanup(func() { _ = b.Close() })

	if p.PendingFrames() != 2 || p.ListenerCount(host.EventPointerMove) != 2 {
		t.Fatal("expected two independent registrations")
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if b.State() != Running {
		t.Errorf("b.State() = %v, want running", b.State())
	}
	if p.PendingFrames() != 1 || p.ListenerCount(host.EventPointerMove) != 1 || p.ListenerCount(host.EventResize) != 1 {
		t.Error("closing a released the other instance's registrations")
	}
	tick(p, 2)
	if b.Frames() != 2 || a.Frames() != 0 {
		t.Errorf("frames a=%d b=%d, want 0 and 2", a.Frames(), b.Frames())
	}
	if c1, _ := b.Field().Program().Colors(); c1 != MustParseColor("#00D4FF") {
		t.Error("b lost its colors")
	}
}

func TestWithRandReproducible(t *testing.T) {
	p := newTestPage()
	a := Mount(p, DefaultConfig("hero-3d-scene"), WithRand(rand.New(rand.NewPCG(1, 2))))
	pa := slices.Clone(a.Field().Positions())
	_ = a.Close()

	b := Mount(p, DefaultConfig("hero-3d-scene"), WithRand(rand.New(rand.NewPCG(1, 2))))
	t.Cleanup(func() { _ = b.Close() })

	if !slices.Equal(pa, b.Field().Positions()) {
		t.Error("same seed produced different fields")
	}
}

// panicWindow is a page whose CancelAnimationFrame panics.
type panicWindow struct {
	*host.Page
}

func (panicWindow) CancelAnimationFrame(host.FrameID) {
	panic("cancel failed")
}

func TestCloseContinuesAfterPanic(t *testing.T) {
	p := newTestPage()
	inst := Mount(panicWindow{p}, DefaultConfig("hero-3d-scene"), WithParticleCount(10))

	err := inst.Close()
	if !errors.Is(err, ErrTeardownPanic) {
		t.Fatalf("Close() = %v, want ErrTeardownPanic", err)
	}
	if inst.State() != Unmounted {
		t.Errorf("State() = %v, want unmounted", inst.State())
	}
	if !inst.Surface().Closed() || !inst.Field().Disposed() {
		t.Error("later teardown steps did not run")
	}
	if p.ListenerCount(host.EventPointerMove) != 0 || p.ListenerCount(host.EventResize) != 0 {
		t.Error("listeners not removed")
	}
}

func TestMountWithShaderCompile(t *testing.T) {
	p := newTestPage()
	inst := Mount(p, DefaultConfig("hero-3d-scene"), WithParticleCount(10), WithShaderCompile())
	t.Cleanup(func() { _ = inst.Close() })

	if inst.State() != Running {
		t.Fatalf("State() = %v, want running", inst.State())
	}
}

// noopDevice borrows a device on the noop backend.
func noopDevice(t *testing.T) *gpu.Device {
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
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return gpu.Wrap(openDev.Device, openDev.Queue)
}

func TestMountWithDevice(t *testing.T) {
	p := newTestPage()
	d := noopDevice(t)
	inst := Mount(p, DefaultConfig("hero-3d-scene"), WithParticleCount(10), WithDevice(d))

	if inst.State() != Running {
		t.Fatalf("State() = %v, want running", inst.State())
	}
	if !inst.Surface().Accelerated() {
		t.Fatal("Surface().Accelerated() = false with a device")
	}
	tick(p, 3)
	if inst.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", inst.Frames())
	}

	if err := inst.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if inst.Surface().Accelerated() {
		t.Error("renderer still attached after Close")
	}
	if d.Closed() {
		t.Error("Close closed the shared device")
	}
	assertReleased(t, p)
}

func TestMountWithClosedDeviceFallsBack(t *testing.T) {
	p := newTestPage()
	d := noopDevice(t)
	d.Close()
	inst := Mount(p, DefaultConfig("hero-3d-scene"), WithParticleCount(10), WithDevice(d))
	t.Cleanup(func() { _ = inst.Close() })

	if inst.State() != Running {
		t.Fatalf("State() = %v, want running", inst.State())
	}
	if inst.Surface().Accelerated() {
		t.Error("Accelerated() = true on a closed device")
	}
	tick(p, 1)
	if inst.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", inst.Frames())
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		Unmounted:  "unmounted",
		Mounting:   "mounting",
		Running:    "running",
		Unmounting: "unmounting",
		State(99):  "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}

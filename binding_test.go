package backdrop

import (
	"testing"

	"github.com/gogpu/backdrop/host"
)

func TestBindingApplySameConfigIsNoop(t *testing.T) {
	p := newTestPage()
	b := NewBinding(p, WithParticleCount(10))
	t.Cleanup(func() { _ = b.Close() })

	cfg := DefaultConfig("hero-3d-scene")
	if err := b.Apply(cfg); err != nil {
		t.Fatalf("Apply() = %v", err)
	}
	first := b.Instance()
	if err := b.Apply(cfg); err != nil {
		t.Fatalf("second Apply() = %v", err)
	}
	if b.Instance() != first {
		t.Error("equal config remounted the instance")
	}
	if first.State() != Running {
		t.Errorf("State() = %v, want running", first.State())
	}
}

func TestBindingApplyChangedConfigRemounts(t *testing.T) {
	p := newTestPage()
	b := NewBinding(p, WithParticleCount(10))
	t.Cleanup(func() { _ = b.Close() })

	_ = b.Apply(DefaultConfig("hero-3d-scene"))
	first := b.Instance()

	recolored := DefaultConfig("hero-3d-scene")
	recolored.Color2 = MustParseColor("#7B61FF")
	if err := b.Apply(recolored); err != nil {
		t.Fatalf("Apply() = %v", err)
	}

	second := b.Instance()
	if second == first {
		t.Fatal("changed config did not remount")
	}
	if first.State() != Unmounted {
		t.Errorf("old State() = %v, want unmounted", first.State())
	}
	if second.State() != Running {
		t.Errorf("new State() = %v, want running", second.State())
	}
	if n := len(p.Element("hero-3d-scene").Canvases()); n != 1 {
		t.Errorf("container has %d canvases, want 1", n)
	}
	if p.PendingFrames() != 1 || p.ListenerCount(host.EventResize) != 1 {
		t.Error("old instance registrations leaked")
	}
	if _, c2 := second.Field().Program().Colors(); c2 != recolored.Color2 {
		t.Error("new instance does not use the new colors")
	}
}

func TestBindingMissingThenPresent(t *testing.T) {
	p := newTestPage()
	b := NewBinding(p, WithParticleCount(10))
	t.Cleanup(func() { _ = b.Close() })

	_ = b.Apply(DefaultConfig("about-3d-scene"))
	if b.Instance().State() != Unmounted {
		t.Fatal("missing container mounted")
	}
	_ = b.Apply(DefaultConfig("hero-3d-scene"))
	if b.Instance().State() != Running {
		t.Errorf("State() = %v, want running", b.Instance().State())
	}
}

func TestBindingClose(t *testing.T) {
	p := newTestPage()
	b := NewBinding(p, WithParticleCount(10))
	_ = b.Apply(DefaultConfig("hero-3d-scene"))
	inst := b.Instance()

	if err := b.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second Close() = %v", err)
	}
	if b.Instance() != nil {
		t.Error("Instance() not nil after Close")
	}
	if inst.State() != Unmounted {
		t.Errorf("State() = %v, want unmounted", inst.State())
	}
	assertReleased(t, p)

	// Applying the same config after Close mounts again.
	_ = b.Apply(DefaultConfig("hero-3d-scene"))
	if b.Instance() == nil || b.Instance().State() != Running {
		t.Error("Apply after Close did not mount")
	}
	_ = b.Close()
}

func TestConfigEqual(t *testing.T) {
	a := DefaultConfig("x")
	if !a.Equal(DefaultConfig("x")) {
		t.Error("identical configs not equal")
	}
	if a.Equal(DefaultConfig("y")) {
		t.Error("different ids equal")
	}
	b := a
	b.Color1 = MustParseColor("#000")
	if a.Equal(b) {
		t.Error("different colors equal")
	}
}

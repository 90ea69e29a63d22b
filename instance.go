package backdrop

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/backdrop/field"
	"github.com/gogpu/backdrop/gpu"
	"github.com/gogpu/backdrop/host"
	"github.com/gogpu/backdrop/scene"
	"github.com/gogpu/backdrop/surface"
)

// Instance is one mounted background.
//
// An Instance owns its surface, scene, camera and field, the two window
// listeners it registered and at most one pending animation frame. Close
// releases all of them.
//
// Instance is NOT safe for concurrent use. Hosts invoke its callbacks on a
// single goroutine.
type Instance struct {
	id  uuid.UUID
	cfg Config
	env host.Environment
	log *slog.Logger

	state State
	el    host.Element

	surface *surface.Surface
	scene   *scene.Scene
	field   *field.Field

	listeners []host.Listener
	frame     host.FrameID
	frameFn   host.FrameFunc

	spin   Offset
	tween  Tween
	now    time.Duration
	ticked bool
	frames uint64
}

// Mount attaches a background to the container named by cfg.ContainerID
// and starts its frame loop.
//
// Mount never fails loudly. If the container does not exist, or the
// surface or program cannot be created, the returned instance is Unmounted,
// holds nothing, and the condition is logged. The returned instance is
// never nil.
func Mount(env host.Environment, cfg Config, opts ...Option) *Instance {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.New()
	logger := o.logger
	if logger == nil {
		logger = Logger()
	}
	inst := &Instance{
		id:  id,
		cfg: cfg,
		env: env,
		log: logger.With("instance", id.String(), "container", cfg.ContainerID),
	}
	inst.frameFn = inst.onFrame

	if env == nil {
		inst.log.Debug("backdrop not mounted", "err", ErrNilEnvironment)
		return inst
	}
	el := env.ElementByID(cfg.ContainerID)
	if el == nil {
		inst.log.Debug("container not found", "err", ErrContainerNotFound)
		return inst
	}

	inst.state = Mounting
	if err := inst.mount(el, &o); err != nil {
		inst.log.Warn("backdrop mount failed", "err", err)
		_ = inst.teardown()
		inst.state = Unmounted
		return inst
	}
	inst.state = Running
	inst.log.Info("backdrop mounted", "particles", inst.field.Count(), "ratio", inst.surface.Ratio())
	return inst
}

func (i *Instance) mount(el host.Element, o *options) error {
	i.el = el

	s, err := surface.New(el, i.env.DevicePixelRatio())
	if err != nil {
		return fmt.Errorf("create surface: %w", err)
	}
	i.surface = s

	i.field = field.New(o.fieldOptions(i.cfg)...)
	if o.compile || o.device != nil {
		if _, err := i.field.Program().Compile(); err != nil {
			return fmt.Errorf("compile program: %w", err)
		}
	}
	if o.device != nil {
		i.accelerate(o.device)
	}

	w, h := s.Size()
	i.scene = scene.New(i.field, float32(w)/float32(h))

	i.listeners = append(i.listeners,
		i.env.AddEventListener(host.EventPointerMove, i.onPointerMove),
		i.env.AddEventListener(host.EventResize, i.onResize),
	)
	i.frame = i.env.RequestAnimationFrame(i.frameFn)
	return nil
}

// accelerate moves drawing onto d. Failures leave the software rasterizer
// in place.
func (i *Instance) accelerate(d *gpu.Device) {
	r, err := gpu.NewRenderer(d, i.field)
	if err != nil {
		i.log.Warn("gpu renderer unavailable, using software rasterizer", "err", err)
		return
	}
	if err := i.surface.UseRenderer(r); err != nil {
		i.log.Warn("gpu renderer not attached", "err", err)
		return
	}
	i.log.Debug("gpu renderer attached", "device", d.Name())
}

func (i *Instance) onFrame(now time.Duration) {
	i.frame = 0
	if i.state != Running {
		return
	}
	i.frame = i.env.RequestAnimationFrame(i.frameFn)

	i.now = now
	if !i.ticked {
		// Pointer moves before the first frame were stamped with time 0.
		i.ticked = true
		i.tween.Anchor(now)
	}
	i.spin.X += SpinX
	i.spin.Y += SpinY
	rot := i.spin.Add(i.tween.Advance(now))
	i.scene.SetRotation(rot.X, rot.Y)

	if err := i.surface.Render(i.scene); err != nil {
		i.log.Warn("render failed", "err", err)
		return
	}
	i.frames++
}

func (i *Instance) onPointerMove(ev host.Event) {
	if i.state != Running {
		return
	}
	w, h := i.env.InnerSize()
	x, y := NormalizePointer(ev.ClientX, ev.ClientY, w, h)
	i.tween.Retarget(PointerTarget(x, y), i.now)
}

func (i *Instance) onResize(host.Event) {
	if i.state != Running {
		return
	}
	w, h := i.el.ClientSize()
	if w <= 0 || h <= 0 {
		i.log.Debug("resize ignored", "width", w, "height", h)
		return
	}
	i.scene.SetAspect(float32(w) / float32(h))
	if err := i.surface.Resize(w, h); err != nil {
		i.log.Warn("surface resize failed", "err", err)
		return
	}
	i.log.Debug("resized", "width", w, "height", h)
}

// Close stops the frame loop and releases everything the instance owns.
//
// Teardown runs in order: cancel the pending frame, close the surface,
// remove the listeners, dispose the field. Every step runs even if an
// earlier one fails or panics; failures are logged and returned joined.
// Close is idempotent and does nothing on an instance that never mounted.
func (i *Instance) Close() error {
	if i.state == Unmounted || i.state == Unmounting {
		return nil
	}
	i.state = Unmounting
	err := i.teardown()
	i.state = Unmounted
	i.log.Info("backdrop unmounted", "frames", i.frames)
	return err
}

func (i *Instance) teardown() error {
	return errors.Join(
		i.step("cancel frame", func() error {
			if i.frame != 0 {
				i.env.CancelAnimationFrame(i.frame)
				i.frame = 0
			}
			return nil
		}),
		i.step("close surface", func() error {
			if i.surface == nil {
				return nil
			}
			return i.surface.Close()
		}),
		i.step("remove listeners", func() error {
			ls := i.listeners
			i.listeners = nil
			for _, l := range ls {
				l.Remove()
			}
			return nil
		}),
		i.step("dispose field", func() error {
			if i.field != nil {
				i.field.Dispose()
			}
			return nil
		}),
	)
}

func (i *Instance) step(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrTeardownPanic, name, r)
		}
		if err != nil {
			i.log.Warn("teardown step failed", "step", name, "err", err)
		}
	}()
	return fn()
}

// ID returns the instance's random identifier, used in log records.
func (i *Instance) ID() uuid.UUID { return i.id }

// Config returns the configuration the instance was mounted with.
func (i *Instance) Config() Config { return i.cfg }

// State returns the lifecycle state.
func (i *Instance) State() State { return i.state }

// Surface returns the drawing surface, or nil if the instance never mounted.
func (i *Instance) Surface() *surface.Surface { return i.surface }

// Scene returns the scene, or nil if the instance never mounted.
func (i *Instance) Scene() *scene.Scene { return i.scene }

// Field returns the particle field, or nil if the instance never mounted.
func (i *Instance) Field() *field.Field { return i.field }

// Camera returns the scene camera, or nil if the instance never mounted.
func (i *Instance) Camera() *scene.Camera {
	if i.scene == nil {
		return nil
	}
	return i.scene.Camera()
}

// Frames returns the number of frames rendered.
func (i *Instance) Frames() uint64 { return i.frames }

// Spin returns the accumulated automatic rotation.
func (i *Instance) Spin() Offset { return i.spin }

// PointerOffset returns the eased pointer rotation at the last frame.
func (i *Instance) PointerOffset() Offset { return i.tween.Value() }

// PointerTarget returns the rotation the pointer offset is easing toward.
func (i *Instance) PointerTarget() Offset { return i.tween.Target() }

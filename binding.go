package backdrop

import "github.com/gogpu/backdrop/host"

// Binding keeps at most one Instance mounted for an owner whose
// configuration can change, such as a page view.
//
// Applying a Config equal to the current one does nothing. Applying a
// different one closes the current instance before mounting the next, so
// two instances never share a container.
//
// Binding is NOT safe for concurrent use.
type Binding struct {
	env  host.Environment
	opts []Option

	inst *Instance
	cfg  Config
	set  bool
}

// NewBinding creates a binding for env. opts are passed to every Mount.
func NewBinding(env host.Environment, opts ...Option) *Binding {
	return &Binding{env: env, opts: opts}
}

// Apply mounts an instance for cfg, replacing the current one if cfg
// differs from the last applied Config. The returned error comes from
// closing the previous instance; the new instance is mounted regardless.
func (b *Binding) Apply(cfg Config) error {
	if b.set && b.cfg.Equal(cfg) {
		return nil
	}
	err := b.Close()
	b.inst = Mount(b.env, cfg, b.opts...)
	b.cfg = cfg
	b.set = true
	return err
}

// Instance returns the current instance, or nil before the first Apply and
// after Close.
func (b *Binding) Instance() *Instance {
	return b.inst
}

// Close closes the current instance. Close is idempotent.
func (b *Binding) Close() error {
	inst := b.inst
	b.inst = nil
	b.set = false
	if inst == nil {
		return nil
	}
	return inst.Close()
}

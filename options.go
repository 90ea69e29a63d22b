package backdrop

import (
	"log/slog"
	"math/rand/v2"

	"github.com/gogpu/backdrop/field"
	"github.com/gogpu/backdrop/gpu"
)

// Option configures an Instance during Mount.
//
// Example:
//
//	// Reproducible field, 500 points
//	inst := backdrop.Mount(env, cfg,
//	    backdrop.WithRand(rand.New(rand.NewPCG(1, 2))),
//	    backdrop.WithParticleCount(500))
type Option func(*options)

type options struct {
	rng     *rand.Rand
	count   int
	logger  *slog.Logger
	compile bool
	device  *gpu.Device
}

func defaultOptions() options {
	return options{
		count: field.DefaultCount,
	}
}

// WithRand sets the random source used to sample the field.
// By default every instance samples from its own randomly seeded source.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// WithParticleCount sets the number of points. Non-positive values are
// ignored.
func WithParticleCount(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.count = n
		}
	}
}

// WithLogger sets the logger for one instance instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithShaderCompile makes Mount compile the field program to SPIR-V before
// the instance starts. A compile failure aborts the mount. Hosts that upload
// the program to a GPU device use this to fail early.
func WithShaderCompile() Option {
	return func(o *options) {
		o.compile = true
	}
}

// WithDevice draws the instance on a GPU device instead of the software
// rasterizer. The field program is compiled during Mount and a compile
// failure aborts it. When the device cannot host a renderer, or the
// renderer later fails, the instance keeps running on the rasterizer.
// The device is shared; closing the instance does not close it.
func WithDevice(d *gpu.Device) Option {
	return func(o *options) {
		o.device = d
	}
}

func (o *options) fieldOptions(cfg Config) []field.Option {
	opts := []field.Option{
		field.WithCount(o.count),
		field.WithColors(cfg.Color1, cfg.Color2),
	}
	if o.rng != nil {
		opts = append(opts, field.WithRand(o.rng))
	}
	return opts
}

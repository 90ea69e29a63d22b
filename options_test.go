package backdrop

import (
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/gogpu/backdrop/field"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.count != field.DefaultCount {
		t.Errorf("count = %d, want %d", o.count, field.DefaultCount)
	}
	if o.rng != nil || o.logger != nil || o.compile {
		t.Errorf("unexpected non-zero defaults: %+v", o)
	}
}

func TestWithParticleCount(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"positive", 250, 250},
		{"zero ignored", 0, field.DefaultCount},
		{"negative ignored", -5, field.DefaultCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultOptions()
			WithParticleCount(tt.n)(&o)
			if o.count != tt.want {
				t.Errorf("count = %d, want %d", o.count, tt.want)
			}
		})
	}
}

func TestOptionsApply(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	l := slog.New(slog.DiscardHandler)
	o := defaultOptions()
	for _, opt := range []Option{WithRand(r), WithLogger(l), WithShaderCompile()} {
		opt(&o)
	}
	if o.rng != r {
		t.Error("WithRand not applied")
	}
	if o.logger != l {
		t.Error("WithLogger not applied")
	}
	if !o.compile {
		t.Error("WithShaderCompile not applied")
	}
}

func TestFieldOptions(t *testing.T) {
	o := defaultOptions()
	WithParticleCount(10)(&o)
	cfg := DefaultConfig("x")

	f := field.New(o.fieldOptions(cfg)...)
	defer f.Dispose()
	if f.Count() != 10 {
		t.Errorf("Count = %d, want 10", f.Count())
	}
	c1, c2 := f.Program().Colors()
	if c1.DistanceRgb(cfg.Color1) > 1e-9 || c2.DistanceRgb(cfg.Color2) > 1e-9 {
		t.Errorf("colors = %v %v, want %v %v", c1, c2, cfg.Color1, cfg.Color2)
	}

	if n := len(o.fieldOptions(cfg)); n != 2 {
		t.Errorf("options without rand = %d, want 2", n)
	}
	WithRand(rand.New(rand.NewPCG(3, 4)))(&o)
	if n := len(o.fieldOptions(cfg)); n != 3 {
		t.Errorf("options with rand = %d, want 3", n)
	}
}

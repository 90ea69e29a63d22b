// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls RunHeadless.
type HeadlessConfig struct {
	// Hz is the frame rate. Defaults to 60.
	Hz int

	// Frames stops the run after this many ticks (0 = until ctx is done).
	Frames uint64

	// OnTick, if set, runs after each tick's frame callbacks.
	// A non-nil error stops the run and is returned.
	OnTick func(tick uint64) error
}

// RunHeadless drives p's animation frames from a ticker until ctx is done or
// cfg.Frames ticks have run. Frame timestamps advance by exactly one period
// per tick, so runs are reproducible regardless of scheduling jitter.
func RunHeadless(ctx context.Context, p *Page, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	period := time.Second / time.Duration(cfg.Hz)
	if period <= 0 {
		return fmt.Errorf("host: invalid headless hz: %d", cfg.Hz)
	}

	t := time.NewTicker(period)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			tick++
			p.Tick(time.Duration(tick) * period)
			if cfg.OnTick != nil {
				if err := cfg.OnTick(tick); err != nil {
					return err
				}
			}
			if cfg.Frames > 0 && tick >= cfg.Frames {
				return nil
			}
		}
	}
}

// Step runs n frames on p back to back, advancing the timestamp by period
// each time. It is the synchronous counterpart of RunHeadless.
func Step(p *Page, n int, period time.Duration) {
	now := p.Now()
	for range n {
		now += period
		p.Tick(now)
	}
}

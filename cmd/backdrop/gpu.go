package main

import (
	"github.com/gogpu/backdrop"
	"github.com/gogpu/backdrop/gpu"
)

// openDevice opens a GPU device when enabled and returns the mount options
// that draw on it, plus a func that closes it. Without an adapter the
// options are empty and pages render on the CPU. Close the device only
// after every page using it is unmounted.
func openDevice(enabled bool) ([]backdrop.Option, func()) {
	if !enabled {
		return nil, func() {}
	}
	d, err := gpu.Open()
	if err != nil {
		backdrop.Logger().Warn("gpu unavailable, using software rasterizer", "err", err)
		return nil, func() {}
	}
	return []backdrop.Option{backdrop.WithDevice(d)}, d.Close
}

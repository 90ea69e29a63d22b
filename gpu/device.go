// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/backdrop/host"
)

var (
	// ErrNoAdapter is returned by Open when no GPU adapter is available.
	ErrNoAdapter = errors.New("gpu: no adapter available")

	// ErrDeviceClosed is returned when a closed device is used.
	ErrDeviceClosed = errors.New("gpu: device is closed")

	// ErrNoHalProvider is returned when a device provider does not expose
	// HAL device and queue handles.
	ErrNoHalProvider = errors.New("gpu: provider does not expose HAL types")
)

// Device is a GPU device and queue shared by every background rendering
// on it. A Device is either opened by this package, in which case Close
// destroys it, or borrowed from a provider, in which case Close only
// forgets it.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	name     string
	external bool
	closed   bool
}

// instanceFactory is the part of a HAL backend used to open devices.
type instanceFactory interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

// open selects a hardware adapter from backend and opens a device on it.
// Discrete and integrated GPUs are preferred over other adapter types.
func open(backend instanceFactory) (*Device, error) {
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}
	host.Logger().Info("gpu: device opened", "adapter", selected.Info.Name)
	return &Device{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		name:     selected.Info.Name,
	}, nil
}

// Wrap borrows an existing HAL device and queue. Close does not destroy
// them.
func Wrap(device hal.Device, queue hal.Queue) *Device {
	return &Device{device: device, queue: queue, name: "external", external: true}
}

// FromProvider borrows the device of a gpucontext provider, such as a
// gogpu window. The provider must also implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue.
func FromProvider(p gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := p.(halProvider)
	if !ok {
		return nil, ErrNoHalProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHalProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHalProvider)
	}
	return Wrap(device, queue), nil
}

// Name returns the adapter name, or "external" for borrowed devices.
func (d *Device) Name() string { return d.name }

// Closed reports whether Close was called.
func (d *Device) Closed() bool { return d.closed }

// Close destroys an owned device and its instance. Renderers created on d
// must be released first. Close is idempotent.
func (d *Device) Close() {
	if d.closed {
		return
	}
	d.closed = true
	if d.external {
		return
	}
	if d.device != nil {
		d.device.Destroy()
	}
	if d.instance != nil {
		d.instance.Destroy()
	}
}

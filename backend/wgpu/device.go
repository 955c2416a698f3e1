// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan" // register Vulkan HAL backend

	"github.com/gogpu/vcl"
	"github.com/gogpu/vcl/backend"
	"github.com/gogpu/vcl/gpucore"
)

// ErrDeviceClosed is returned by resource creation after Close.
var ErrDeviceClosed = errors.New("wgpu: device closed")

func init() {
	backend.Register(backend.BackendWGPU, func() (gpucore.Device, error) {
		return Open()
	})
}

// Option configures a Device.
type Option func(*Device)

// WithLimits sets the limits the HAL device was opened with. The constant
// buffer alignment is taken from MinUniformBufferOffsetAlignment.
func WithLimits(l gputypes.Limits) Option {
	return func(d *Device) { d.limits = l }
}

// WithAdapterInfo sets the adapter description reported by Info.
func WithAdapterInfo(info gputypes.AdapterInfo) Option {
	return func(d *Device) { d.info = adapterInfo(info) }
}

// Stats counts live resources.
type Stats struct {
	Buffers      int
	Textures     int
	Framebuffers int
	Fences       int
}

// Device implements gpucore.Device over a HAL device and queue.
// It is not safe for concurrent use.
type Device struct {
	device   hal.Device
	queue    hal.Queue
	instance hal.Instance // nil unless opened by Open

	external bool
	closed   bool
	limits   gputypes.Limits
	info     gpucore.AdapterInfo

	bound    *Framebuffer
	pipeline gpucore.PipelineID
	stats    Stats
}

var _ gpucore.Device = (*Device)(nil)

// NewDevice wraps an open HAL device and its queue. The caller keeps
// ownership: Close waits for the GPU but does not destroy the device.
func NewDevice(device hal.Device, queue hal.Queue, opts ...Option) (*Device, error) {
	if device == nil || queue == nil {
		return nil, errors.New("wgpu: nil HAL device or queue")
	}
	d := &Device{
		device:   device,
		queue:    queue,
		external: true,
		limits:   gputypes.DefaultLimits(),
		info:     gpucore.AdapterInfo{Backend: backend.BackendWGPU, Name: "HAL device"},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Open creates a standalone device on the best Vulkan adapter, preferring
// discrete and integrated GPUs.
func Open() (*Device, error) {
	b, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("wgpu: vulkan backend not available")
	}
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: no GPU adapters found")
	}
	selected := selectAdapter(adapters)

	limits := gputypes.DefaultLimits()
	openDev, err := selected.Adapter.Open(gputypes.Features(0), limits)
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}

	d, err := NewDevice(openDev.Device, openDev.Queue, WithLimits(limits), WithAdapterInfo(selected.Info))
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	d.instance = instance
	d.external = false

	vcl.Logger().Info("wgpu: device opened",
		"adapter", selected.Info.Name,
		"type", selected.Info.DeviceType,
		"driver", selected.Info.Driver)
	return d, nil
}

func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i]
		}
	}
	return &adapters[0]
}

// NewFromProvider shares the device of a host application. The provider's
// Device and Queue must be HAL types, either directly or through
// HalDevice() any and HalQueue() any methods.
func NewFromProvider(p gpucontext.DeviceProvider) (*Device, error) {
	if p == nil {
		return nil, errors.New("wgpu: nil device provider")
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	var device, queue any = p.Device(), p.Queue()
	if hp, ok := p.(halProvider); ok {
		device, queue = hp.HalDevice(), hp.HalQueue()
	}
	halDevice, ok := device.(hal.Device)
	if !ok || halDevice == nil {
		return nil, fmt.Errorf("wgpu: provider device %T is not hal.Device", device)
	}
	halQueue, ok := queue.(hal.Queue)
	if !ok || halQueue == nil {
		return nil, fmt.Errorf("wgpu: provider queue %T is not hal.Queue", queue)
	}

	ai := p.AdapterInfo()
	d, err := NewDevice(halDevice, halQueue)
	if err != nil {
		return nil, err
	}
	d.info.Name = ai.Name
	d.info.Software = ai.Type == gpucontext.AdapterTypeSoftware
	vcl.Logger().Info("wgpu: using provider device", "adapter", ai.Name, "type", ai.Type)
	return d, nil
}

func adapterInfo(info gputypes.AdapterInfo) gpucore.AdapterInfo {
	version := info.Driver
	if info.DriverInfo != "" {
		version += " " + info.DriverInfo
	}
	return gpucore.AdapterInfo{
		Backend:  backend.BackendWGPU,
		Name:     info.Name,
		Vendor:   info.Vendor,
		Version:  version,
		Software: info.DeviceType == gputypes.DeviceTypeCPU,
	}
}

// Info describes the adapter.
func (d *Device) Info() gpucore.AdapterInfo { return d.info }

// ConstantBufferAlignment returns MinUniformBufferOffsetAlignment.
func (d *Device) ConstantBufferAlignment() int {
	return max(int(d.limits.MinUniformBufferOffsetAlignment), 1)
}

// HAL returns the underlying HAL device and queue.
func (d *Device) HAL() (hal.Device, hal.Queue) { return d.device, d.queue }

// CreateConstantBuffer creates a host-mappable uniform buffer.
func (d *Device) CreateConstantBuffer(size int) (gpucore.Buffer, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if size <= 0 {
		return nil, fmt.Errorf("wgpu: invalid buffer size %d", size)
	}
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "vcl-constants",
		Size:  uint64(size),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageMapWrite | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create constant buffer: %w", err)
	}
	d.stats.Buffers++
	return &Buffer{dev: d, buf: buf, size: size}, nil
}

// CreateTexture creates a texture and a view covering all of it.
func (d *Device) CreateTexture(desc gpucore.TextureDescription) (gpucore.Texture, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	desc = desc.Normalized()
	format, err := TextureFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	dims, err := textureDimension(desc.Type)
	if err != nil {
		return nil, err
	}

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          extent(desc),
		MipLevelCount: uint32(desc.MipLevels),
		SampleCount:   uint32(desc.Samples),
		Dimension:     dims.texture,
		Format:        format,
		Usage:         textureUsage(desc.Usage),
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture %q: %w", desc.Label, err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:     desc.Label,
		Format:    format,
		Dimension: dims.view,
		Aspect:    gputypes.TextureAspectAll,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create view for %q: %w", desc.Label, err)
	}
	d.stats.Textures++
	return &Texture{dev: d, id: gpucore.NextTextureID(), desc: desc, tex: tex, view: view}, nil
}

func extent(desc gpucore.TextureDescription) hal.Extent3D {
	layers := desc.ArraySize
	if desc.Type == gpucore.Texture3D {
		layers = desc.Depth
	}
	return hal.Extent3D{
		Width:              uint32(desc.Width),
		Height:             uint32(desc.Height),
		DepthOrArrayLayers: uint32(layers),
	}
}

// FenceSync submits an empty batch and returns a fence for its submission
// index. The index is reached once all earlier submissions are complete.
func (d *Device) FenceSync() (gpucore.Sync, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	index, err := d.queue.Submit(nil)
	if err != nil {
		return nil, fmt.Errorf("wgpu: submit fence: %w", err)
	}
	d.stats.Fences++
	return &Sync{dev: d, index: index}, nil
}

// CreateFramebuffer builds a render pass descriptor for the targets. All
// textures must have been created by d.
func (d *Device) CreateFramebuffer(colors []gpucore.Texture, depth gpucore.Texture) (gpucore.Framebuffer, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if len(colors) > gpucore.MaxColorTargets {
		return nil, fmt.Errorf("wgpu: %d colour targets exceed %d", len(colors), gpucore.MaxColorTargets)
	}
	fb := &Framebuffer{dev: d}
	for i, c := range colors {
		t, err := d.own(c)
		if err != nil {
			return nil, fmt.Errorf("wgpu: colour target %d: %w", i, err)
		}
		if t.desc.Format.IsDepth() {
			return nil, fmt.Errorf("wgpu: colour target %d has depth format %v: %w",
				i, t.desc.Format, gpucore.ErrUnsupportedFormat)
		}
		fb.desc.ColorAttachments = append(fb.desc.ColorAttachments, hal.RenderPassColorAttachment{
			View:    t.view,
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		})
	}
	if depth != nil {
		t, err := d.own(depth)
		if err != nil {
			return nil, fmt.Errorf("wgpu: depth target: %w", err)
		}
		if !t.desc.Format.IsDepth() {
			return nil, fmt.Errorf("wgpu: depth target has colour format %v: %w",
				t.desc.Format, gpucore.ErrUnsupportedFormat)
		}
		ds := &hal.RenderPassDepthStencilAttachment{
			View:         t.view,
			DepthLoadOp:  gputypes.LoadOpLoad,
			DepthStoreOp: gputypes.StoreOpStore,
		}
		if t.desc.Format.HasStencil() {
			ds.StencilLoadOp = gputypes.LoadOpLoad
			ds.StencilStoreOp = gputypes.StoreOpStore
		}
		fb.desc.DepthStencilAttachment = ds
	}
	d.stats.Framebuffers++
	return fb, nil
}

func (d *Device) own(t gpucore.Texture) (*Texture, error) {
	wt, ok := t.(*Texture)
	if !ok || wt.dev != d {
		return nil, fmt.Errorf("%w: %T", gpucore.ErrForeignResource, t)
	}
	if wt.tex == nil {
		return nil, gpucore.ErrDestroyed
	}
	return wt, nil
}

// BindPipeline records p. HAL binds pipelines on render pass encoders, so
// the pipeline is applied by the code that encodes the pass.
func (d *Device) BindPipeline(p gpucore.PipelineID) { d.pipeline = p }

// Pipeline returns the last pipeline passed to BindPipeline.
func (d *Device) Pipeline() gpucore.PipelineID { return d.pipeline }

// Bound returns the framebuffer bound last, or nil.
func (d *Device) Bound() *Framebuffer { return d.bound }

// Stats returns live resource counts.
func (d *Device) Stats() Stats { return d.stats }

// Close waits for the GPU to go idle. A device created by Open is
// destroyed together with its instance.
func (d *Device) Close() error {
	if d.closed {
		return ErrDeviceClosed
	}
	d.closed = true
	d.bound = nil

	err := d.device.WaitIdle()
	if err != nil {
		err = fmt.Errorf("wgpu: wait idle: %w", err)
	}
	if !d.external {
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	return err
}

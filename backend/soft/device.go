// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package soft

import (
	"errors"
	"fmt"

	"github.com/gogpu/vcl"
	"github.com/gogpu/vcl/backend"
	"github.com/gogpu/vcl/gpucore"
)

// DefaultAlignment is the constant buffer alignment reported by default.
// It matches the common GL_UNIFORM_BUFFER_OFFSET_ALIGNMENT of desktop drivers.
const DefaultAlignment = 256

// ErrDeviceClosed is returned by resource creation after Close.
var ErrDeviceClosed = errors.New("soft: device closed")

func init() {
	backend.Register(backend.BackendSoft, func() (gpucore.Device, error) {
		return NewDevice(), nil
	})
}

// Option configures a Device.
type Option func(*Device)

// WithAlignment sets the constant buffer alignment reported by the device.
// Values below 1 are ignored.
func WithAlignment(n int) Option {
	return func(d *Device) {
		if n >= 1 {
			d.alignment = n
		}
	}
}

// Stats counts live resources and device calls.
type Stats struct {
	Buffers       int
	Textures      int
	Framebuffers  int
	Fences        int
	PipelineBinds int
}

// Device is a CPU implementation of gpucore.Device.
// It is not safe for concurrent use.
type Device struct {
	alignment int
	closed    bool

	bound    *Framebuffer
	pipeline gpucore.PipelineID
	stats    Stats
}

var _ gpucore.Device = (*Device)(nil)

// NewDevice creates a CPU device.
func NewDevice(opts ...Option) *Device {
	d := &Device{alignment: DefaultAlignment}
	for _, opt := range opts {
		opt(d)
	}
	vcl.Logger().Info("soft: device created", "alignment", d.alignment)
	return d
}

// Info describes the device.
func (d *Device) Info() gpucore.AdapterInfo {
	return gpucore.AdapterInfo{
		Backend:  backend.BackendSoft,
		Name:     "CPU",
		Vendor:   "gogpu",
		Version:  "1.0",
		Software: true,
	}
}

// ConstantBufferAlignment returns the configured alignment.
func (d *Device) ConstantBufferAlignment() int { return d.alignment }

// CreateConstantBuffer allocates a zeroed byte slice of the given size.
func (d *Device) CreateConstantBuffer(size int) (gpucore.Buffer, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if size <= 0 {
		return nil, fmt.Errorf("soft: invalid buffer size %d", size)
	}
	d.stats.Buffers++
	return &Buffer{dev: d, data: make([]byte, size)}, nil
}

// CreateTexture allocates texel storage for desc.
func (d *Device) CreateTexture(desc gpucore.TextureDescription) (gpucore.Texture, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return newTexture(d, desc.Normalized()), nil
}

// FenceSync returns a fence that is already signalled. Work on the CPU
// device completes before the call returns.
func (d *Device) FenceSync() (gpucore.Sync, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	d.stats.Fences++
	return &Sync{dev: d}, nil
}

// CreateFramebuffer groups the given targets. All textures must have been
// created by d.
func (d *Device) CreateFramebuffer(colors []gpucore.Texture, depth gpucore.Texture) (gpucore.Framebuffer, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if len(colors) > gpucore.MaxColorTargets {
		return nil, fmt.Errorf("soft: %d colour targets exceed %d", len(colors), gpucore.MaxColorTargets)
	}
	fb := &Framebuffer{dev: d, colors: make([]*Texture, 0, len(colors))}
	for i, c := range colors {
		t, err := d.own(c)
		if err != nil {
			return nil, fmt.Errorf("soft: colour target %d: %w", i, err)
		}
		if t.desc.Format.IsDepth() {
			return nil, fmt.Errorf("soft: colour target %d has depth format %v: %w",
				i, t.desc.Format, gpucore.ErrUnsupportedFormat)
		}
		fb.colors = append(fb.colors, t)
	}
	if depth != nil {
		t, err := d.own(depth)
		if err != nil {
			return nil, fmt.Errorf("soft: depth target: %w", err)
		}
		if !t.desc.Format.IsDepth() {
			return nil, fmt.Errorf("soft: depth target has colour format %v: %w",
				t.desc.Format, gpucore.ErrUnsupportedFormat)
		}
		fb.depth = t
	}
	d.stats.Framebuffers++
	return fb, nil
}

func (d *Device) own(t gpucore.Texture) (*Texture, error) {
	st, ok := t.(*Texture)
	if !ok || st.dev != d {
		return nil, fmt.Errorf("%w: %T", gpucore.ErrForeignResource, t)
	}
	if st.pix == nil {
		return nil, gpucore.ErrDestroyed
	}
	return st, nil
}

// BindPipeline records p as the bound pipeline.
func (d *Device) BindPipeline(p gpucore.PipelineID) {
	d.pipeline = p
	d.stats.PipelineBinds++
}

// Pipeline returns the last pipeline passed to BindPipeline.
func (d *Device) Pipeline() gpucore.PipelineID { return d.pipeline }

// Bound returns the framebuffer bound last, or nil.
func (d *Device) Bound() *Framebuffer { return d.bound }

// Stats returns live resource counts.
func (d *Device) Stats() Stats { return d.stats }

// Close marks the device closed. Resources that are still alive keep their
// memory until they are destroyed or collected.
func (d *Device) Close() error {
	if d.closed {
		return ErrDeviceClosed
	}
	d.closed = true
	d.bound = nil
	if d.stats.Buffers != 0 || d.stats.Textures != 0 || d.stats.Framebuffers != 0 {
		vcl.Logger().Warn("soft: device closed with live resources",
			"buffers", d.stats.Buffers,
			"textures", d.stats.Textures,
			"framebuffers", d.stats.Framebuffers)
	}
	return nil
}

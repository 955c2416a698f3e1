// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package opengl

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.5-core/gl"

	"github.com/gogpu/vcl"
	"github.com/gogpu/vcl/gpucore"
)

// ErrDeviceClosed is returned by resource creation after Close.
var ErrDeviceClosed = errors.New("opengl: device closed")

// Option configures a Device.
type Option func(*options)

type options struct {
	debugOutput bool
}

// WithDebugOutput enables or disables the debug message callback.
// It is enabled by default.
func WithDebugOutput(enabled bool) Option {
	return func(o *options) { o.debugOutput = enabled }
}

// Device implements gpucore.Device on the current OpenGL context.
// It must only be used from the thread that owns the context.
type Device struct {
	info      gpucore.AdapterInfo
	shading   string
	alignment int
	debug     bool
	closed    bool

	bound    *Framebuffer
	pipeline gpucore.PipelineID
}

var _ gpucore.Device = (*Device)(nil)

// NewDevice loads the OpenGL 4.5 entry points for the current context and
// queries the device constants.
func NewDevice(opts ...Option) (*Device, error) {
	o := options{debugOutput: true}
	for _, opt := range opts {
		opt(&o)
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("opengl: init: %w", err)
	}

	d := &Device{
		info: gpucore.AdapterInfo{
			Backend: "opengl",
			Name:    gl.GoStr(gl.GetString(gl.RENDERER)),
			Vendor:  gl.GoStr(gl.GetString(gl.VENDOR)),
			Version: gl.GoStr(gl.GetString(gl.VERSION)),
		},
		shading: gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
	vcl.Logger().Info("opengl: using OpenGL",
		"version", d.info.Version,
		"vendor", d.info.Vendor,
		"renderer", d.info.Name,
		"shading", d.shading)

	if o.debugOutput {
		installDebugOutput()
		d.debug = true
	}

	var alignment int32
	gl.GetIntegerv(gl.UNIFORM_BUFFER_OFFSET_ALIGNMENT, &alignment)
	d.alignment = max(int(alignment), 1)
	return d, nil
}

// Info describes the context's renderer.
func (d *Device) Info() gpucore.AdapterInfo { return d.info }

// ShadingLanguageVersion returns GL_SHADING_LANGUAGE_VERSION.
func (d *Device) ShadingLanguageVersion() string { return d.shading }

// ConstantBufferAlignment returns GL_UNIFORM_BUFFER_OFFSET_ALIGNMENT.
func (d *Device) ConstantBufferAlignment() int { return d.alignment }

// CreateConstantBuffer creates immutable storage that stays mapped for
// writing for its whole lifetime.
func (d *Device) CreateConstantBuffer(size int) (gpucore.Buffer, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if size <= 0 {
		return nil, fmt.Errorf("opengl: invalid buffer size %d", size)
	}
	return newBuffer(size)
}

// CreateTexture allocates immutable texture storage for desc.
func (d *Device) CreateTexture(desc gpucore.TextureDescription) (gpucore.Texture, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return newTexture(d, desc.Normalized())
}

// FenceSync inserts a fence into the command stream.
func (d *Device) FenceSync() (gpucore.Sync, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	s := gl.FenceSync(gl.SYNC_GPU_COMMANDS_COMPLETE, 0)
	if s == 0 {
		return nil, fmt.Errorf("opengl: glFenceSync failed: error %#x", gl.GetError())
	}
	return &Sync{sync: s}, nil
}

// CreateFramebuffer creates a framebuffer object for the targets.
func (d *Device) CreateFramebuffer(colors []gpucore.Texture, depth gpucore.Texture) (gpucore.Framebuffer, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	return newFramebuffer(d, colors, depth)
}

func (d *Device) own(t gpucore.Texture) (*Texture, error) {
	gt, ok := t.(*Texture)
	if !ok || gt.dev != d {
		return nil, fmt.Errorf("%w: %T", gpucore.ErrForeignResource, t)
	}
	if gt.id == 0 {
		return nil, gpucore.ErrDestroyed
	}
	return gt, nil
}

// BindPipeline makes the program object p current. NoPipeline unbinds.
func (d *Device) BindPipeline(p gpucore.PipelineID) {
	gl.UseProgram(uint32(p))
	d.pipeline = p
}

// Close unbinds the current framebuffer and program. Resources must be
// destroyed by their owners; the context itself belongs to the caller.
func (d *Device) Close() error {
	if d.closed {
		return ErrDeviceClosed
	}
	d.closed = true
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.UseProgram(0)
	d.bound = nil
	if d.debug {
		gl.Disable(gl.DEBUG_OUTPUT)
	}
	return nil
}

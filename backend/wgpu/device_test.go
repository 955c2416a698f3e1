// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/vcl/backend"
	"github.com/gogpu/vcl/engine"
	"github.com/gogpu/vcl/gpucore"
)

// createNoopDevice opens a device on the noop HAL backend.
func createNoopDevice(t *testing.T) *Device {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	d, err := NewDevice(openDev.Device, openDev.Queue,
		WithLimits(adapters[0].Capabilities.Limits), WithAdapterInfo(adapters[0].Info))
	if err != nil {
		t.Fatalf("NewDevice failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return d
}

func targetDesc(format gpucore.SurfaceFormat) gpucore.TextureDescription {
	return gpucore.TextureDescription{
		Label:  "target",
		Type:   gpucore.Texture2D,
		Format: format,
		Usage:  gpucore.UsageRenderTarget,
		Width:  64,
		Height: 64,
	}
}

func TestRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendWGPU) {
		t.Error("wgpu backend not registered")
	}
}

func TestNewDeviceNil(t *testing.T) {
	if _, err := NewDevice(nil, nil); err == nil {
		t.Error("NewDevice(nil, nil) succeeded")
	}
}

func TestDeviceInfo(t *testing.T) {
	d := createNoopDevice(t)
	info := d.Info()
	if info.Backend != backend.BackendWGPU {
		t.Errorf("Backend = %q, want %q", info.Backend, backend.BackendWGPU)
	}
	if info.Name != "Noop Adapter" {
		t.Errorf("Name = %q", info.Name)
	}
	if info.Version != "noop-1.0 No-operation backend for testing" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.Software {
		t.Error("noop adapter reported as software")
	}
	if got := d.ConstantBufferAlignment(); got != 256 {
		t.Errorf("ConstantBufferAlignment() = %d, want 256", got)
	}
}

func TestConstantBufferMapping(t *testing.T) {
	d := createNoopDevice(t)
	buf, err := d.CreateConstantBuffer(1024)
	if err != nil {
		t.Fatalf("CreateConstantBuffer error = %v", err)
	}
	data, err := buf.Map()
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if len(data) != 1024 {
		t.Fatalf("len(Map()) = %d, want 1024", len(data))
	}
	data[0], data[1023] = 0xAA, 0x55
	if _, err := buf.Map(); err == nil {
		t.Error("second Map() succeeded")
	}
	if err := buf.Unmap(); err != nil {
		t.Fatalf("Unmap() error = %v", err)
	}

	again, err := buf.Map()
	if err != nil {
		t.Fatalf("Map() after Unmap error = %v", err)
	}
	if again[0] != 0xAA || again[1023] != 0x55 {
		t.Error("buffer contents lost across mappings")
	}
	buf.Destroy()
	buf.Destroy()
	if got := d.Stats().Buffers; got != 0 {
		t.Errorf("Stats().Buffers = %d, want 0", got)
	}
}

func TestCreateTextureUnsupported(t *testing.T) {
	d := createNoopDevice(t)
	if _, err := d.CreateTexture(targetDesc(gpucore.FormatR32G32B32Float)); !errors.Is(err, gpucore.ErrUnsupportedFormat) {
		t.Errorf("RGB32 error = %v, want ErrUnsupportedFormat", err)
	}
	_, err := d.CreateTexture(gpucore.TextureDescription{
		Type: gpucore.Texture1DArray, Format: gpucore.FormatR8Unorm, Width: 16, ArraySize: 4,
	})
	if !errors.Is(err, gpucore.ErrUnsupportedTextureType) {
		t.Errorf("1D array error = %v, want ErrUnsupportedTextureType", err)
	}
}

func TestTextureClone(t *testing.T) {
	d := createNoopDevice(t)
	tex, err := d.CreateTexture(targetDesc(gpucore.FormatR8G8B8A8Unorm))
	if err != nil {
		t.Fatalf("CreateTexture error = %v", err)
	}
	c, err := tex.Clone()
	if err != nil {
		t.Fatalf("Clone() error = %v", err)
	}
	if c.ID() == tex.ID() {
		t.Error("clone shares the source identity")
	}
	if c.Description() != tex.Description() {
		t.Errorf("clone description = %+v, want %+v", c.Description(), tex.Description())
	}
	c.Destroy()
	tex.Destroy()
	if _, err := tex.Clone(); !errors.Is(err, gpucore.ErrDestroyed) {
		t.Errorf("Clone() of destroyed texture error = %v", err)
	}
	if got := d.Stats().Textures; got != 0 {
		t.Errorf("Stats().Textures = %d, want 0", got)
	}
}

func TestFramebufferDescriptor(t *testing.T) {
	d := createNoopDevice(t)
	c0, _ := d.CreateTexture(targetDesc(gpucore.FormatR8G8B8A8Unorm))
	c1, _ := d.CreateTexture(targetDesc(gpucore.FormatR16G16B16A16Float))
	depth, _ := d.CreateTexture(targetDesc(gpucore.FormatD24UnormS8Uint))
	depthOnly, _ := d.CreateTexture(targetDesc(gpucore.FormatD32Float))

	fb, err := d.CreateFramebuffer([]gpucore.Texture{c0, c1}, depth)
	if err != nil {
		t.Fatalf("CreateFramebuffer error = %v", err)
	}
	desc := fb.(*Framebuffer).Descriptor()
	if len(desc.ColorAttachments) != 2 {
		t.Fatalf("colour attachments = %d, want 2", len(desc.ColorAttachments))
	}
	if _, view := c1.(*Texture).HAL(); desc.ColorAttachments[1].View != view {
		t.Error("attachment 1 is not the view of the second target")
	}
	ds := desc.DepthStencilAttachment
	if ds == nil || ds.StencilStoreOp != gputypes.StoreOpStore {
		t.Errorf("depth-stencil attachment = %+v, want stencil stored", ds)
	}

	fb2, err := d.CreateFramebuffer(nil, depthOnly)
	if err != nil {
		t.Fatalf("CreateFramebuffer(depth only) error = %v", err)
	}
	if ds := fb2.(*Framebuffer).Descriptor().DepthStencilAttachment; ds.StencilStoreOp != gputypes.StoreOpUndefined {
		t.Errorf("depth-only stencil store = %v, want undefined", ds.StencilStoreOp)
	}

	if _, err := d.CreateFramebuffer([]gpucore.Texture{depth}, nil); !errors.Is(err, gpucore.ErrUnsupportedFormat) {
		t.Errorf("depth as colour error = %v, want ErrUnsupportedFormat", err)
	}
	other := createNoopDevice(t)
	foreign, _ := other.CreateTexture(targetDesc(gpucore.FormatR8G8B8A8Unorm))
	if _, err := d.CreateFramebuffer([]gpucore.Texture{foreign}, nil); !errors.Is(err, gpucore.ErrForeignResource) {
		t.Errorf("foreign texture error = %v, want ErrForeignResource", err)
	}

	if err := fb.Bind(); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if d.Bound() != fb {
		t.Error("Bound() is not the bound framebuffer")
	}
	fb.Destroy()
	fb2.Destroy()
	if d.Bound() != nil {
		t.Error("destroyed framebuffer still bound")
	}
}

func TestFenceSyncSignalled(t *testing.T) {
	d := createNoopDevice(t)
	s, err := d.FenceSync()
	if err != nil {
		t.Fatalf("FenceSync() error = %v", err)
	}
	if got := s.ClientWait(time.Millisecond); got != gpucore.WaitAlreadySignaled {
		t.Errorf("ClientWait() = %v, want %v", got, gpucore.WaitAlreadySignaled)
	}
	s2, _ := d.FenceSync()
	if s2.(*Sync).Index() <= s.(*Sync).Index() {
		t.Error("submission indices do not increase")
	}
	s.Delete()
	s.Delete()
	if got := s.ClientWait(0); got != gpucore.WaitFailed {
		t.Errorf("ClientWait() after Delete = %v, want %v", got, gpucore.WaitFailed)
	}
}

// lagQueue completes submissions only after a number of polls.
type lagQueue struct {
	hal.Queue
	polls     int
	doneAfter int
	index     uint64
}

func (q *lagQueue) PollCompleted() uint64 {
	q.polls++
	if q.doneAfter >= 0 && q.polls > q.doneAfter {
		return q.index
	}
	return 0
}

func TestWaitSubmission(t *testing.T) {
	tests := []struct {
		name      string
		doneAfter int
		timeout   time.Duration
		want      gpucore.WaitResult
	}{
		{"already signalled", 0, time.Second, gpucore.WaitAlreadySignaled},
		{"signalled while waiting", 3, time.Second, gpucore.WaitConditionSatisfied},
		{"never signalled", -1, 2 * time.Millisecond, gpucore.WaitTimeoutExpired},
		{"zero timeout", -1, 0, gpucore.WaitTimeoutExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &lagQueue{doneAfter: tt.doneAfter, index: 7}
			if got := waitSubmission(q, 7, tt.timeout); got != tt.want {
				t.Errorf("waitSubmission() = %v, want %v", got, tt.want)
			}
		})
	}
}

type testProvider struct {
	device hal.Device
	queue  hal.Queue
}

func (p *testProvider) Device() gpucontext.Device   { return p.device }
func (p *testProvider) Queue() gpucontext.Queue     { return p.queue }
func (p *testProvider) Adapter() gpucontext.Adapter { return nil }

func (p *testProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatBGRA8Unorm
}

func (p *testProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "llvmpipe", Type: gpucontext.AdapterTypeSoftware}
}

// halTestProvider exposes the HAL types through HalDevice and HalQueue.
type halTestProvider struct {
	testProvider
	halDevice hal.Device
	halQueue  hal.Queue
}

func (p *halTestProvider) HalDevice() any { return p.halDevice }
func (p *halTestProvider) HalQueue() any  { return p.halQueue }

func TestNewFromProvider(t *testing.T) {
	base := createNoopDevice(t)
	halDev, halQueue := base.HAL()

	d, err := NewFromProvider(&testProvider{device: halDev, queue: halQueue})
	if err != nil {
		t.Fatalf("NewFromProvider error = %v", err)
	}
	if info := d.Info(); info.Name != "llvmpipe" || !info.Software {
		t.Errorf("Info() = %+v, want software llvmpipe", info)
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	hp := &halTestProvider{halDevice: halDev, halQueue: halQueue}
	if _, err := NewFromProvider(hp); err != nil {
		t.Errorf("NewFromProvider(HalDevice) error = %v", err)
	}

	if _, err := NewFromProvider(&testProvider{}); err == nil {
		t.Error("NewFromProvider without HAL device succeeded")
	}
}

func TestEngineOnHAL(t *testing.T) {
	d := createNoopDevice(t)
	eng, err := engine.New(d, engine.WithFrameCount(2), engine.WithConstantBufferSize(4096))
	if err != nil {
		t.Fatalf("engine.New error = %v", err)
	}
	if eng.Alignment() != 256 {
		t.Errorf("Alignment() = %d, want 256", eng.Alignment())
	}

	target, err := d.CreateTexture(targetDesc(gpucore.FormatR8G8B8A8UnormSrgb))
	if err != nil {
		t.Fatalf("CreateTexture error = %v", err)
	}
	dyn, err := eng.AllocateDynamicTexture(target)
	if err != nil {
		t.Fatalf("AllocateDynamicTexture error = %v", err)
	}

	for i := range 5 {
		if err := eng.BeginFrame(); err != nil {
			t.Fatalf("frame %d: BeginFrame error = %v", i, err)
		}
		a := eng.RequestPerFrameConstantBuffer(17)
		b := eng.RequestPerFrameConstantBuffer(300)
		if a.Offset != 0 || b.Offset != 256 {
			t.Errorf("frame %d: offsets = %d, %d, want 0, 256", i, a.Offset, b.Offset)
		}
		copy(b.Data, "constants")
		if _, err := eng.SetRenderTargets([]gpucore.Texture{dyn}, nil); err != nil {
			t.Fatalf("frame %d: SetRenderTargets error = %v", i, err)
		}
		if err := eng.EndFrame(); err != nil {
			t.Fatalf("frame %d: EndFrame error = %v", i, err)
		}
	}

	if got := eng.Stats().FenceWaits; got != 3 {
		t.Errorf("FenceWaits = %d, want 3", got)
	}
	if err := eng.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := d.Stats(); got != (Stats{}) {
		t.Errorf("live resources after Close = %+v", got)
	}
	if err := d.Close(); err != nil {
		t.Errorf("device Close() error = %v", err)
	}
	if err := d.Close(); !errors.Is(err, ErrDeviceClosed) {
		t.Errorf("second Close() error = %v", err)
	}
}

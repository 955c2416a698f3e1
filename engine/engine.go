// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/vcl"
	"github.com/gogpu/vcl/gpucore"
)

// Stats holds engine statistics.
type Stats struct {
	// FrameCounter is the counter of the current or last frame; -1 before
	// the first BeginFrame.
	FrameCounter int64

	// FramesCompleted counts successful EndFrame calls.
	FramesCompleted uint64

	// FenceWaits counts BeginFrame calls that had to wait on a fence.
	FenceWaits uint64

	// ConstantBytes is the end of the last constant range handed out in the
	// current (or last) frame.
	ConstantBytes int

	// PeakConstantBytes is the largest ConstantBytes seen by any slot.
	PeakConstantBytes int

	// Framebuffers aggregates the framebuffer caches of all slots.
	Framebuffers FramebufferCacheStats

	// DynamicTextures is the number of registered dynamic textures.
	DynamicTextures int
}

// Engine schedules frames over a fixed ring of frame slots.
type Engine struct {
	device       gpucore.Device
	frames       []*frame
	alignment    int
	fenceTimeout time.Duration

	counter int64
	active  *frame

	pipeline gpucore.PipelineID
	dynamic  []*DynamicTexture

	completed  uint64
	fenceWaits uint64
	closed     bool
}

// New creates an engine on dev and allocates one constant buffer per frame
// slot. The constant buffer alignment is queried from dev once.
func New(dev gpucore.Device, opts ...Option) (*Engine, error) {
	if dev == nil {
		return nil, errors.New("engine: nil device")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	alignment := dev.ConstantBufferAlignment()
	if alignment < 1 {
		alignment = 1
	}
	size := alignUp(o.constantBufferSize, alignment)

	e := &Engine{
		device:       dev,
		frames:       make([]*frame, 0, o.frames),
		alignment:    alignment,
		fenceTimeout: o.fenceTimeout,
		counter:      -1,
	}
	for i := range o.frames {
		buf, err := dev.CreateConstantBuffer(size)
		if err != nil {
			for _, f := range e.frames {
				f.arena.buffer.Destroy()
			}
			return nil, fmt.Errorf("engine: create constant buffer for slot %d: %w", i, err)
		}
		e.frames = append(e.frames, newFrame(i, buf, alignment))
	}

	vcl.Logger().Info("engine: created",
		"backend", dev.Info().Backend,
		"frames", o.frames,
		"constantBufferSize", size,
		"alignment", alignment,
		"fenceTimeout", o.fenceTimeout)
	return e, nil
}

// FrameCount returns the number of frame slots.
func (e *Engine) FrameCount() int { return len(e.frames) }

// FrameCounter returns the counter of the current or last frame, -1 before
// the first BeginFrame.
func (e *Engine) FrameCounter() int64 { return e.counter }

// FrameIndex returns the slot of the current or last frame, counter mod N.
// Before the first BeginFrame it returns 0.
func (e *Engine) FrameIndex() int {
	if e.counter < 0 {
		return 0
	}
	return int(e.counter % int64(len(e.frames)))
}

// Alignment returns the constant buffer alignment in bytes.
func (e *Engine) Alignment() int { return e.alignment }

// FenceTimeout returns the timeout used by BeginFrame.
func (e *Engine) FenceTimeout() time.Duration { return e.fenceTimeout }

// ConstantBufferSize returns the capacity of each slot's constant buffer.
func (e *Engine) ConstantBufferSize() int { return e.frames[0].arena.capacity() }

// ConstantBufferOffset returns the end of the last range handed out by
// RequestPerFrameConstantBuffer in the current frame. It is 0 right after
// BeginFrame.
func (e *Engine) ConstantBufferOffset() int {
	return e.frames[e.FrameIndex()].arena.end
}

// InFrame reports whether a frame is active.
func (e *Engine) InFrame() bool { return e.active != nil }

// Device returns the device the engine was created on.
func (e *Engine) Device() gpucore.Device { return e.device }

// BeginFrame starts the next frame.
//
// It advances the frame counter and selects slot counter mod N. If the slot
// was used before, BeginFrame blocks until its fence signals. A timeout
// returns an error wrapping ErrFenceTimeout and a backend failure one
// wrapping ErrFenceWaitFailed; in both cases the frame is not started and
// the slot stays unmapped. On success the slot's constant buffer is mapped
// and its allocation offset reset to 0.
func (e *Engine) BeginFrame() error {
	if e.closed {
		return ErrClosed
	}
	if e.active != nil {
		return ErrFrameActive
	}

	e.counter++
	f := e.frames[e.FrameIndex()]

	if f.fence.Valid() {
		e.fenceWaits++
		start := time.Now()
		res := f.fence.Wait(e.fenceTimeout)
		switch res {
		case gpucore.WaitConditionSatisfied, gpucore.WaitAlreadySignaled:
		case gpucore.WaitTimeoutExpired:
			return fmt.Errorf("%w: slot %d, frame %d, after %v", ErrFenceTimeout, f.index, e.counter, e.fenceTimeout)
		default:
			return fmt.Errorf("%w: slot %d, frame %d: %v", ErrFenceWaitFailed, f.index, e.counter, res)
		}
		vcl.Logger().Debug("engine: fence passed",
			"slot", f.index, "frame", e.counter, "result", res, "waited", time.Since(start))
	}

	f.runReleases()
	if err := f.arena.begin(); err != nil {
		return fmt.Errorf("engine: begin frame %d: %w", e.counter, err)
	}
	e.active = f
	return nil
}

// EndFrame unmaps the active slot's constant buffer and enqueues a new
// fence for it, releasing the slot's previous fence. If EndFrame fails the
// slot keeps its previous fence, so the next BeginFrame on it still waits.
func (e *Engine) EndFrame() error {
	if e.closed {
		return ErrClosed
	}
	f := e.active
	if f == nil {
		return ErrNoActiveFrame
	}
	e.active = nil

	if err := f.arena.finish(); err != nil {
		return fmt.Errorf("engine: end frame %d: %w", e.counter, err)
	}
	sync, err := e.device.FenceSync()
	if err != nil {
		return fmt.Errorf("engine: end frame %d: create fence: %w", e.counter, err)
	}
	f.fence.MoveFrom(NewFence(sync))
	e.completed++

	vcl.Logger().Debug("engine: frame ended",
		"slot", f.index, "frame", e.counter, "constantBytes", f.arena.end)
	return nil
}

// RequestPerFrameConstantBuffer returns size bytes of the active slot's
// constant buffer. The offset is a multiple of Alignment and the allocation
// cursor advances by size rounded up to Alignment.
//
// It panics if no frame is active or if the slot's capacity is exceeded.
func (e *Engine) RequestPerFrameConstantBuffer(size int) BufferView {
	if e.active == nil {
		panic("engine: RequestPerFrameConstantBuffer called outside of a frame")
	}
	return e.active.arena.allocate(size)
}

// SetRenderTargets binds a framebuffer for the given colour targets and
// optional depth target, creating it on first use within the active slot.
// Dynamic textures bind their copy for the active slot.
//
// It panics if more than gpucore.MaxColorTargets colour targets are given.
func (e *Engine) SetRenderTargets(colors []gpucore.Texture, depth gpucore.Texture) (gpucore.Framebuffer, error) {
	if len(colors) > gpucore.MaxColorTargets {
		panic(fmt.Sprintf("engine: %d colour targets exceed the maximum of %d", len(colors), gpucore.MaxColorTargets))
	}
	if e.closed {
		return nil, ErrClosed
	}
	f := e.active
	if f == nil {
		return nil, ErrNoActiveFrame
	}

	var (
		set      targetSet
		resolved [gpucore.MaxColorTargets]gpucore.Texture
	)
	if depth != nil {
		depth = resolveTarget(depth, f.index)
		set[0] = depth.ID()
	}
	for i, c := range colors {
		if c == nil {
			return nil, fmt.Errorf("%w: colour target %d is nil", ErrInvalidTarget, i)
		}
		resolved[i] = resolveTarget(c, f.index)
		set[1+i] = resolved[i].ID()
	}

	key := set.hash()
	fb, ok := f.framebuffers.get(key, &set)
	if !ok {
		var err error
		fb, err = e.device.CreateFramebuffer(resolved[:len(colors)], depth)
		if err != nil {
			return nil, fmt.Errorf("engine: create framebuffer: %w", err)
		}
		if f.framebuffers.put(key, &set, fb) {
			vcl.Logger().Warn("engine: framebuffer cache hash collision", "slot", f.index, "hash", key)
		}
		vcl.Logger().Debug("engine: framebuffer created",
			"slot", f.index, "hash", key, "colors", len(colors), "depth", depth != nil)
	}
	if err := fb.Bind(); err != nil {
		return nil, fmt.Errorf("engine: bind framebuffer: %w", err)
	}
	return fb, nil
}

// SetPipelineState binds p for subsequent draws. Binding the pipeline that
// is already bound is a no-op.
func (e *Engine) SetPipelineState(p gpucore.PipelineID) {
	if e.closed || p == e.pipeline {
		return
	}
	e.device.BindPipeline(p)
	e.pipeline = p
}

// PipelineState returns the bound pipeline.
func (e *Engine) PipelineState() gpucore.PipelineID { return e.pipeline }

// AllocateDynamicTexture takes ownership of src and clones it once for
// every other frame slot. The returned texture stays valid until Close.
func (e *Engine) AllocateDynamicTexture(src gpucore.Texture) (*DynamicTexture, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if src == nil {
		return nil, fmt.Errorf("%w: nil dynamic texture source", ErrInvalidTarget)
	}
	d, err := newDynamicTexture(src, len(e.frames))
	if err != nil {
		return nil, err
	}
	e.dynamic = append(e.dynamic, d)
	vcl.Logger().Debug("engine: dynamic texture allocated",
		"copies", d.Len(), "format", d.Description().Format)
	return d, nil
}

// DeferRelease schedules fn to run once the GPU has finished with the
// current frame: at the next BeginFrame on the same slot, after its fence
// has passed, or at Close. Before the first frame fn runs immediately.
func (e *Engine) DeferRelease(fn func()) {
	if fn == nil {
		return
	}
	if e.closed || e.counter < 0 {
		fn()
		return
	}
	f := e.frames[e.FrameIndex()]
	f.releases = append(f.releases, fn)
}

// Stats returns engine statistics.
func (e *Engine) Stats() Stats {
	s := Stats{
		FrameCounter:    e.counter,
		FramesCompleted: e.completed,
		FenceWaits:      e.fenceWaits,
		DynamicTextures: len(e.dynamic),
	}
	if len(e.frames) > 0 {
		s.ConstantBytes = e.ConstantBufferOffset()
	}
	for _, f := range e.frames {
		s.PeakConstantBytes = max(s.PeakConstantBytes, f.arena.peak)
		fs := f.framebuffers.stats()
		s.Framebuffers.Len += fs.Len
		s.Framebuffers.Hits += fs.Hits
		s.Framebuffers.Misses += fs.Misses
		s.Framebuffers.Collisions += fs.Collisions
	}
	return s
}

// Close waits for all outstanding fences and releases every fence,
// framebuffer, dynamic texture and constant buffer owned by the engine.
// The device is not closed. Calling Close more than once returns ErrClosed.
func (e *Engine) Close() error {
	if e.closed {
		return ErrClosed
	}
	e.closed = true
	e.active = nil

	var errs []error
	for _, f := range e.frames {
		if f.fence.Valid() {
			if res := f.fence.Wait(e.fenceTimeout); !res.Passed() {
				vcl.Logger().Warn("engine: fence not signalled at close", "slot", f.index, "result", res)
			}
		}
		if err := f.destroy(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, d := range e.dynamic {
		d.release()
	}
	e.dynamic = nil

	vcl.Logger().Debug("engine: closed", "frames", e.completed)
	return errors.Join(errs...)
}

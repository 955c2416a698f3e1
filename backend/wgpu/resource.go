// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vcl"
	"github.com/gogpu/vcl/gpucore"
)

// cloneTimeout bounds the wait for a texture copy issued by Clone.
const cloneTimeout = 5 * time.Second

// Buffer is a host-mappable uniform buffer.
type Buffer struct {
	dev    *Device
	buf    hal.Buffer
	size   int
	mapped []byte
}

// Map maps the whole buffer for writing.
func (b *Buffer) Map() ([]byte, error) {
	if b.buf == nil {
		return nil, gpucore.ErrDestroyed
	}
	if b.mapped != nil {
		return nil, errors.New("wgpu: buffer already mapped")
	}
	m, err := b.dev.device.MapBuffer(b.buf, 0, uint64(b.size))
	if err != nil {
		return nil, fmt.Errorf("wgpu: map buffer: %w", err)
	}
	b.mapped = unsafe.Slice((*byte)(m.Ptr), b.size)
	return b.mapped, nil
}

// Unmap ends the mapping.
func (b *Buffer) Unmap() error {
	if b.buf == nil {
		return gpucore.ErrDestroyed
	}
	if b.mapped == nil {
		return errors.New("wgpu: buffer not mapped")
	}
	b.mapped = nil
	if err := b.dev.device.UnmapBuffer(b.buf); err != nil {
		return fmt.Errorf("wgpu: unmap buffer: %w", err)
	}
	return nil
}

// Size returns the buffer size in bytes.
func (b *Buffer) Size() int { return b.size }

// HAL returns the underlying buffer.
func (b *Buffer) HAL() hal.Buffer { return b.buf }

// Destroy unmaps and destroys the buffer. It is safe to call more than once.
func (b *Buffer) Destroy() {
	if b.buf == nil {
		return
	}
	if b.mapped != nil {
		_ = b.Unmap()
	}
	b.dev.device.DestroyBuffer(b.buf)
	b.buf = nil
	b.dev.stats.Buffers--
}

// Texture is a HAL texture with a view covering all of it.
type Texture struct {
	dev  *Device
	id   gpucore.TextureID
	desc gpucore.TextureDescription
	tex  hal.Texture
	view hal.TextureView
}

var _ gpucore.Texture = (*Texture)(nil)

// ID returns the texture identity.
func (t *Texture) ID() gpucore.TextureID { return t.id }

// Description returns the normalized description.
func (t *Texture) Description() gpucore.TextureDescription { return t.desc }

// HAL returns the underlying texture and view.
func (t *Texture) HAL() (hal.Texture, hal.TextureView) { return t.tex, t.view }

// Clone creates a texture with the same description and copies all layers
// of mip level 0 into it. Multisampled textures cannot be copied; their
// clones start with undefined contents.
func (t *Texture) Clone() (gpucore.Texture, error) {
	if t.tex == nil {
		return nil, gpucore.ErrDestroyed
	}
	c, err := t.dev.CreateTexture(t.desc)
	if err != nil {
		return nil, err
	}
	clone := c.(*Texture)
	if t.desc.Samples > 1 {
		return clone, nil
	}
	if err := t.dev.copyTexture(t, clone); err != nil {
		clone.Destroy()
		return nil, err
	}
	return clone, nil
}

func (d *Device) copyTexture(src, dst *Texture) error {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "vcl-clone-encoder",
	})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	defer encoder.Destroy()

	if err := encoder.BeginEncoding("vcl-clone"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	encoder.CopyTextureToTexture(src.tex, dst.tex, []hal.TextureCopy{{
		SrcBase: hal.ImageCopyTexture{Texture: src.tex, Aspect: gputypes.TextureAspectAll},
		DstBase: hal.ImageCopyTexture{Texture: dst.tex, Aspect: gputypes.TextureAspectAll},
		Size:    extent(src.desc),
	}})
	cmdBuffer, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuffer)

	index, err := d.queue.Submit([]hal.CommandBuffer{cmdBuffer})
	if err != nil {
		return fmt.Errorf("wgpu: submit copy: %w", err)
	}
	if res := waitSubmission(d.queue, index, cloneTimeout); !res.Passed() {
		return fmt.Errorf("wgpu: texture copy: %v", res)
	}
	return nil
}

// Destroy releases the view and the texture. It is safe to call more than once.
func (t *Texture) Destroy() {
	if t.tex == nil {
		return
	}
	t.dev.device.DestroyTextureView(t.view)
	t.dev.device.DestroyTexture(t.tex)
	t.tex, t.view = nil, nil
	t.dev.stats.Textures--
}

// Framebuffer is the render pass descriptor of a set of targets.
type Framebuffer struct {
	dev       *Device
	desc      hal.RenderPassDescriptor
	destroyed bool
}

// Bind makes fb the device's current target.
func (fb *Framebuffer) Bind() error {
	if fb.destroyed {
		return gpucore.ErrDestroyed
	}
	fb.dev.bound = fb
	return nil
}

// Descriptor returns the render pass descriptor. Attachments load and
// store their contents.
func (fb *Framebuffer) Descriptor() *hal.RenderPassDescriptor { return &fb.desc }

// Begin starts a render pass on fb.
func (fb *Framebuffer) Begin(encoder hal.CommandEncoder) hal.RenderPassEncoder {
	return encoder.BeginRenderPass(&fb.desc)
}

// Destroy releases the framebuffer. The attached textures are not destroyed.
func (fb *Framebuffer) Destroy() {
	if fb.destroyed {
		return
	}
	fb.destroyed = true
	if fb.dev.bound == fb {
		fb.dev.bound = nil
	}
	fb.dev.stats.Framebuffers--
}

// Sync is a fence on a queue submission index.
type Sync struct {
	dev     *Device
	index   uint64
	deleted bool
}

// Index returns the submission index the fence waits for.
func (s *Sync) Index() uint64 { return s.index }

// ClientWait blocks until the submission completes or timeout expires.
func (s *Sync) ClientWait(timeout time.Duration) gpucore.WaitResult {
	if s.deleted {
		return gpucore.WaitFailed
	}
	return waitSubmission(s.dev.queue, s.index, timeout)
}

// Delete releases the fence. It is safe to call more than once.
func (s *Sync) Delete() {
	if s.deleted {
		return
	}
	s.deleted = true
	s.dev.stats.Fences--
}

const (
	minPollInterval = 50 * time.Microsecond
	maxPollInterval = time.Millisecond
)

// waitSubmission polls the queue with exponential backoff.
func waitSubmission(q hal.Queue, index uint64, timeout time.Duration) gpucore.WaitResult {
	if q.PollCompleted() >= index {
		return gpucore.WaitAlreadySignaled
	}
	deadline := time.Now().Add(timeout)
	interval := minPollInterval
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			vcl.Logger().Debug("wgpu: submission wait timed out",
				"index", index, "completed", q.PollCompleted(), "timeout", timeout)
			return gpucore.WaitTimeoutExpired
		}
		time.Sleep(min(interval, remaining))
		if q.PollCompleted() >= index {
			return gpucore.WaitConditionSatisfied
		}
		interval = min(interval*2, maxPollInterval)
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package opengl

import (
	"errors"
	"fmt"
	"time"
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"

	"github.com/gogpu/vcl/gpucore"
)

const (
	storageFlags = gl.MAP_WRITE_BIT | gl.MAP_PERSISTENT_BIT | gl.MAP_COHERENT_BIT
	mapFlags     = storageFlags | gl.MAP_UNSYNCHRONIZED_BIT
)

// Buffer is a persistently and coherently mapped buffer object. The
// mapping is created once; Map and Unmap only delimit the CPU write window.
type Buffer struct {
	id     uint32
	size   int
	data   []byte
	mapped bool
}

func newBuffer(size int) (*Buffer, error) {
	b := &Buffer{size: size}
	gl.CreateBuffers(1, &b.id)
	gl.NamedBufferStorage(b.id, size, nil, storageFlags)
	ptr := gl.MapNamedBufferRange(b.id, 0, size, mapFlags)
	if ptr == nil {
		gl.DeleteBuffers(1, &b.id)
		return nil, fmt.Errorf("opengl: map constant buffer of %d bytes: error %#x", size, gl.GetError())
	}
	b.data = unsafe.Slice((*byte)(ptr), size)
	return b, nil
}

// Map opens the write window.
func (b *Buffer) Map() ([]byte, error) {
	if b.id == 0 {
		return nil, gpucore.ErrDestroyed
	}
	if b.mapped {
		return nil, errors.New("opengl: buffer already mapped")
	}
	b.mapped = true
	return b.data, nil
}

// Unmap closes the write window.
func (b *Buffer) Unmap() error {
	if b.id == 0 {
		return gpucore.ErrDestroyed
	}
	if !b.mapped {
		return errors.New("opengl: buffer not mapped")
	}
	b.mapped = false
	return nil
}

// Size returns the buffer size in bytes.
func (b *Buffer) Size() int { return b.size }

// Name returns the buffer object name for glBindBufferRange.
func (b *Buffer) Name() uint32 { return b.id }

// Destroy unmaps and deletes the buffer object.
func (b *Buffer) Destroy() {
	if b.id == 0 {
		return
	}
	gl.UnmapNamedBuffer(b.id)
	gl.DeleteBuffers(1, &b.id)
	b.id, b.data, b.mapped = 0, nil, false
}

// Texture is a texture object with immutable storage.
type Texture struct {
	dev    *Device
	id     uint32
	target uint32
	vid    gpucore.TextureID
	desc   gpucore.TextureDescription
}

var _ gpucore.Texture = (*Texture)(nil)

func newTexture(d *Device, desc gpucore.TextureDescription) (*Texture, error) {
	target, err := TextureTarget(desc.Type)
	if err != nil {
		return nil, err
	}
	internal, err := InternalFormat(desc.Format)
	if err != nil {
		return nil, err
	}

	t := &Texture{dev: d, target: target, vid: gpucore.NextTextureID(), desc: desc}
	gl.CreateTextures(target, 1, &t.id)

	levels := int32(desc.MipLevels)
	w, h := int32(desc.Width), int32(desc.Height)
	switch desc.Type {
	case gpucore.Texture1D:
		gl.TextureStorage1D(t.id, levels, internal, w)
	case gpucore.Texture1DArray:
		gl.TextureStorage2D(t.id, levels, internal, w, int32(desc.ArraySize))
	case gpucore.Texture2D, gpucore.TextureCube:
		gl.TextureStorage2D(t.id, levels, internal, w, h)
	case gpucore.Texture2DArray, gpucore.TextureCubeArray:
		gl.TextureStorage3D(t.id, levels, internal, w, h, int32(desc.ArraySize))
	case gpucore.Texture3D:
		gl.TextureStorage3D(t.id, levels, internal, w, h, int32(desc.Depth))
	case gpucore.Texture2DMS:
		gl.TextureStorage2DMultisample(t.id, int32(desc.Samples), internal, w, h, true)
	case gpucore.Texture2DMSArray:
		gl.TextureStorage3DMultisample(t.id, int32(desc.Samples), internal, w, h, int32(desc.ArraySize), true)
	}
	if e := gl.GetError(); e != gl.NO_ERROR {
		gl.DeleteTextures(1, &t.id)
		return nil, fmt.Errorf("opengl: texture storage for %v %v: error %#x", desc.Type, desc.Format, e)
	}
	return t, nil
}

// ID returns the texture identity.
func (t *Texture) ID() gpucore.TextureID { return t.vid }

// Description returns the normalized description.
func (t *Texture) Description() gpucore.TextureDescription { return t.desc }

// Name returns the texture object name and its target.
func (t *Texture) Name() (name, target uint32) { return t.id, t.target }

// copyExtent returns the glCopyImageSubData extent of mip level 0.
func (t *Texture) copyExtent() (w, h, depth int32) {
	d := t.desc
	switch d.Type {
	case gpucore.Texture1D:
		return int32(d.Width), 1, 1
	case gpucore.Texture1DArray:
		return int32(d.Width), int32(d.ArraySize), 1
	case gpucore.Texture3D:
		return int32(d.Width), int32(d.Height), int32(d.Depth)
	default:
		// Array layers and cube faces are addressed as depth.
		return int32(d.Width), int32(d.Height), int32(d.ArraySize)
	}
}

// Clone creates a texture with the same storage and copies every mip
// level into it with glCopyImageSubData.
func (t *Texture) Clone() (gpucore.Texture, error) {
	if t.id == 0 {
		return nil, gpucore.ErrDestroyed
	}
	c, err := newTexture(t.dev, t.desc)
	if err != nil {
		return nil, err
	}
	w, h, depth := t.copyExtent()
	for level := range int32(t.desc.MipLevels) {
		gl.CopyImageSubData(
			t.id, t.target, level, 0, 0, 0,
			c.id, c.target, level, 0, 0, 0,
			w, h, depth)
		w, h = max(w>>1, 1), max(h>>1, 1)
		if t.desc.Type == gpucore.Texture3D {
			depth = max(depth>>1, 1)
		}
	}
	return c, nil
}

// Destroy deletes the texture object.
func (t *Texture) Destroy() {
	if t.id == 0 {
		return
	}
	gl.DeleteTextures(1, &t.id)
	t.id = 0
}

// Framebuffer is a framebuffer object.
type Framebuffer struct {
	dev *Device
	id  uint32
}

func newFramebuffer(d *Device, colors []gpucore.Texture, depth gpucore.Texture) (*Framebuffer, error) {
	if len(colors) > gpucore.MaxColorTargets {
		return nil, fmt.Errorf("opengl: %d colour targets exceed %d", len(colors), gpucore.MaxColorTargets)
	}
	fb := &Framebuffer{dev: d}
	gl.CreateFramebuffers(1, &fb.id)

	drawBuffers := make([]uint32, 0, len(colors))
	for i, c := range colors {
		t, err := d.own(c)
		if err != nil {
			fb.Destroy()
			return nil, fmt.Errorf("opengl: colour target %d: %w", i, err)
		}
		attachment := uint32(gl.COLOR_ATTACHMENT0 + i)
		gl.NamedFramebufferTexture(fb.id, attachment, t.id, 0)
		drawBuffers = append(drawBuffers, attachment)
	}
	if depth != nil {
		t, err := d.own(depth)
		if err != nil {
			fb.Destroy()
			return nil, fmt.Errorf("opengl: depth target: %w", err)
		}
		gl.NamedFramebufferTexture(fb.id, depthAttachment(t.desc.Format), t.id, 0)
	}
	if len(drawBuffers) > 0 {
		gl.NamedFramebufferDrawBuffers(fb.id, int32(len(drawBuffers)), &drawBuffers[0])
	} else {
		none := uint32(gl.NONE)
		gl.NamedFramebufferDrawBuffers(fb.id, 1, &none)
	}

	if status := gl.CheckNamedFramebufferStatus(fb.id, gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		fb.Destroy()
		return nil, fmt.Errorf("opengl: framebuffer incomplete: status %#x", status)
	}
	return fb, nil
}

func depthAttachment(f gpucore.SurfaceFormat) uint32 {
	if f.HasStencil() {
		return gl.DEPTH_STENCIL_ATTACHMENT
	}
	return gl.DEPTH_ATTACHMENT
}

// Bind binds the framebuffer for drawing and reading.
func (fb *Framebuffer) Bind() error {
	if fb.id == 0 {
		return gpucore.ErrDestroyed
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.id)
	fb.dev.bound = fb
	return nil
}

// Name returns the framebuffer object name.
func (fb *Framebuffer) Name() uint32 { return fb.id }

// Destroy deletes the framebuffer object. The attached textures are not
// destroyed.
func (fb *Framebuffer) Destroy() {
	if fb.id == 0 {
		return
	}
	if fb.dev.bound == fb {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		fb.dev.bound = nil
	}
	gl.DeleteFramebuffers(1, &fb.id)
	fb.id = 0
}

// Sync is a GLsync fence object.
type Sync struct {
	sync uintptr
}

// ClientWait flushes pending commands and waits for the fence.
func (s *Sync) ClientWait(timeout time.Duration) gpucore.WaitResult {
	if s.sync == 0 {
		return gpucore.WaitFailed
	}
	return waitResult(gl.ClientWaitSync(s.sync, gl.SYNC_FLUSH_COMMANDS_BIT, uint64(max(timeout, 0).Nanoseconds())))
}

// Delete deletes the fence object.
func (s *Sync) Delete() {
	if s.sync == 0 {
		return
	}
	gl.DeleteSync(s.sync)
	s.sync = 0
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

import (
	"fmt"
	"time"
)

// WaitResult is the outcome of waiting on a GPU sync object.
type WaitResult uint8

// Wait results.
const (
	// WaitConditionSatisfied means the GPU signalled the sync object during the wait.
	WaitConditionSatisfied WaitResult = iota

	// WaitAlreadySignaled means the sync object was signalled before the wait began.
	WaitAlreadySignaled

	// WaitTimeoutExpired means the timeout elapsed before the GPU signalled.
	WaitTimeoutExpired

	// WaitFailed means the backend reported an error while waiting.
	WaitFailed
)

func (r WaitResult) String() string {
	switch r {
	case WaitConditionSatisfied:
		return "ConditionSatisfied"
	case WaitAlreadySignaled:
		return "AlreadySignaled"
	case WaitTimeoutExpired:
		return "TimeoutExpired"
	case WaitFailed:
		return "WaitFailed"
	default:
		return fmt.Sprintf("WaitResult(%d)", uint8(r))
	}
}

// Passed reports whether the wait completed with the sync object signalled.
func (r WaitResult) Passed() bool {
	return r == WaitConditionSatisfied || r == WaitAlreadySignaled
}

// AdapterInfo describes the device a backend runs on.
type AdapterInfo struct {
	Backend  string // "soft", "wgpu", "opengl", "vulkan"
	Name     string
	Vendor   string
	Version  string
	Software bool
}

// Device is the backend graphics API consumed by the frame engine.
//
// A Device is used from a single goroutine, the one driving the frame
// loop. Resources returned by a Device must only be passed back to the
// same Device.
type Device interface {
	// Info describes the underlying adapter.
	Info() AdapterInfo

	// ConstantBufferAlignment returns the minimum offset alignment, in bytes,
	// for binding a range of a constant buffer. It is a power of two.
	ConstantBufferAlignment() int

	// CreateConstantBuffer allocates a CPU-writable constant buffer of size bytes.
	CreateConstantBuffer(size int) (Buffer, error)

	// CreateTexture allocates a texture.
	CreateTexture(desc TextureDescription) (Texture, error)

	// FenceSync enqueues a sync object into the command stream. It is
	// signalled once all previously submitted commands have completed.
	FenceSync() (Sync, error)

	// CreateFramebuffer creates a draw destination bound to the given
	// colour targets (in attachment order) and optional depth target.
	CreateFramebuffer(colors []Texture, depth Texture) (Framebuffer, error)

	// BindPipeline makes p the pipeline used by subsequent draws.
	BindPipeline(p PipelineID)

	// Close releases the device. Resources must be destroyed first.
	Close() error
}

// Buffer is a constant buffer that can be mapped into CPU memory.
type Buffer interface {
	// Map returns a CPU view of the whole buffer. The slice is valid until Unmap.
	Map() ([]byte, error)

	// Unmap makes CPU writes visible to the GPU and invalidates the mapped slice.
	Unmap() error

	// Size returns the buffer size in bytes.
	Size() int

	// Destroy releases the buffer. Calling Destroy more than once is a no-op.
	Destroy()
}

// Texture is a GPU image.
type Texture interface {
	// ID returns the process-unique identity of this texture.
	ID() TextureID

	// Description returns the normalized description the texture was created with.
	Description() TextureDescription

	// Clone creates a new texture with the same description and contents.
	Clone() (Texture, error)

	// Destroy releases the texture. Calling Destroy more than once is a no-op.
	Destroy()
}

// Sync is a one-shot GPU to CPU synchronization object.
type Sync interface {
	// ClientWait blocks until the sync object is signalled or timeout elapses.
	ClientWait(timeout time.Duration) WaitResult

	// Delete releases the backend object.
	Delete()
}

// Framebuffer is a set of colour and depth targets used as a draw destination.
type Framebuffer interface {
	// Bind makes the framebuffer the current draw destination.
	Bind() error

	// Destroy releases the backend object. Attached textures are not destroyed.
	Destroy()
}

// MaxColorTargets is the maximum number of simultaneously bound colour targets.
const MaxColorTargets = 8

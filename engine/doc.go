// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package engine implements the frame ring scheduler: N frame slots used in
// rotation, each with its own persistently allocated constant buffer,
// completion fence and framebuffer cache.
//
// # Frame lifecycle
//
// Each slot cycles through the states
//
//	Idle -> Mapped -> Idle (fence pending) -> Idle (waiting on fence) -> Mapped
//
// [Engine.BeginFrame] advances the frame counter, selects slot
// counter mod N, blocks until the slot's previous fence has signalled and
// maps its constant buffer. [Engine.EndFrame] unmaps the buffer and enqueues
// a new fence. No slot is written by the CPU while the GPU may still read it.
//
// # Per-frame constants
//
// [Engine.RequestPerFrameConstantBuffer] bump-allocates from the active
// slot's buffer. Every returned offset is a multiple of the device's
// constant buffer alignment. The allocator is reset wholesale by the next
// BeginFrame on the same slot; individual ranges are never freed.
//
// # Framebuffers
//
// [Engine.SetRenderTargets] hashes the ordered identities of the depth and
// colour targets with 32-bit FNV-1a and reuses the slot's framebuffer for
// that set. Hash hits are verified against the stored identities, so a
// collision creates a second framebuffer instead of binding the wrong one.
//
// # Errors
//
// A fence that times out or fails to wait aborts the frame with an error
// wrapping [ErrFenceTimeout] or [ErrFenceWaitFailed]. Exhausting a slot's
// constant buffer or binding more than eight colour targets are programming
// errors and panic.
//
// An Engine is not safe for concurrent use; drive it from the goroutine
// that owns the render loop.
package engine

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"time"

	"github.com/gogpu/vcl/gpucore"
)

// noCopy may be embedded into structs which must not be copied after first
// use. go vet's copylocks checker reports copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Fence owns one GPU sync object.
//
// A Fence is move-only: pass it by pointer and transfer ownership with
// MoveFrom. The sync object is deleted exactly once, by Release or by the
// Fence that took it over.
type Fence struct {
	_    noCopy
	sync gpucore.Sync
}

// NewFence takes ownership of s.
func NewFence(s gpucore.Sync) *Fence {
	return &Fence{sync: s}
}

// Valid reports whether the fence holds a sync object.
// The zero Fence is not valid.
func (f *Fence) Valid() bool {
	return f != nil && f.sync != nil
}

// Wait blocks until the sync object is signalled or timeout elapses.
// Waiting on an invalid fence returns WaitAlreadySignaled: nothing is pending.
func (f *Fence) Wait(timeout time.Duration) gpucore.WaitResult {
	if !f.Valid() {
		return gpucore.WaitAlreadySignaled
	}
	return f.sync.ClientWait(timeout)
}

// MoveFrom releases the sync object held by f and takes over the one held
// by other, leaving other invalid.
func (f *Fence) MoveFrom(other *Fence) {
	if f == other {
		return
	}
	f.Release()
	if other != nil {
		f.sync, other.sync = other.sync, nil
	}
}

// Release deletes the sync object. Calling Release on an invalid fence is a no-op.
func (f *Fence) Release() {
	if f == nil || f.sync == nil {
		return
	}
	s := f.sync
	f.sync = nil
	s.Delete()
}

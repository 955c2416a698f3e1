// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"testing"
	"time"

	"github.com/gogpu/vcl/gpucore"
)

func TestFenceZeroValue(t *testing.T) {
	var f Fence
	if f.Valid() {
		t.Error("zero Fence is valid")
	}
	if got := f.Wait(time.Second); got != gpucore.WaitAlreadySignaled {
		t.Errorf("Wait() on invalid fence = %v, want AlreadySignaled", got)
	}
	f.Release() // no-op

	var nilFence *Fence
	if nilFence.Valid() {
		t.Error("nil *Fence is valid")
	}
}

func TestFenceWaitForwardsTimeout(t *testing.T) {
	dev := newFakeDevice(1)
	dev.results = []gpucore.WaitResult{gpucore.WaitTimeoutExpired}
	s, _ := dev.FenceSync()

	f := NewFence(s)
	if !f.Valid() {
		t.Fatal("NewFence() not valid")
	}
	if got := f.Wait(3 * time.Millisecond); got != gpucore.WaitTimeoutExpired {
		t.Errorf("Wait() = %v, want TimeoutExpired", got)
	}
	if got := s.(*fakeSync).timeout; got != 3*time.Millisecond {
		t.Errorf("sync waited with %v, want 3ms", got)
	}
}

func TestFenceReleaseOnce(t *testing.T) {
	dev := newFakeDevice(1)
	s, _ := dev.FenceSync()
	f := NewFence(s)

	f.Release()
	f.Release()
	if got := s.(*fakeSync).deleted; got != 1 {
		t.Errorf("sync deleted %d times, want 1", got)
	}
	if f.Valid() {
		t.Error("fence valid after Release")
	}
}

func TestFenceMoveFrom(t *testing.T) {
	dev := newFakeDevice(1)
	s1, _ := dev.FenceSync()
	s2, _ := dev.FenceSync()

	dst := NewFence(s1)
	src := NewFence(s2)
	dst.MoveFrom(src)

	if src.Valid() {
		t.Error("source fence still valid after move")
	}
	if !dst.Valid() {
		t.Fatal("destination fence invalid after move")
	}
	if got := s1.(*fakeSync).deleted; got != 1 {
		t.Errorf("replaced sync deleted %d times, want 1", got)
	}

	dst.MoveFrom(dst) // self-move keeps the sync
	if !dst.Valid() {
		t.Error("self-move invalidated the fence")
	}

	src.Release()
	dst.Release()
	if got := s2.(*fakeSync).deleted; got != 1 {
		t.Errorf("moved sync deleted %d times, want 1", got)
	}
}

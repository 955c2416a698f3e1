// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import "github.com/gogpu/vcl/gpucore"

// frame is one slot of the ring. Its buffer lives as long as the engine;
// the fence is replaced every EndFrame.
type frame struct {
	index        int
	arena        constantArena
	fence        Fence
	framebuffers framebufferCache

	// releases run once the GPU is known to be done with this slot.
	releases []func()
}

func newFrame(index int, buf gpucore.Buffer, alignment int) *frame {
	return &frame{
		index:        index,
		arena:        constantArena{buffer: buf, alignment: alignment},
		framebuffers: newFramebufferCache(),
	}
}

func (f *frame) runReleases() {
	releases := f.releases
	f.releases = nil
	for _, fn := range releases {
		fn()
	}
}

// destroy releases everything the slot owns. The caller has already
// waited on the fence.
func (f *frame) destroy() error {
	err := f.arena.finish()
	f.fence.Release()
	f.runReleases()
	f.framebuffers.destroy()
	f.arena.buffer.Destroy()
	return err
}

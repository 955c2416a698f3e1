// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package soft

import (
	"image/color"

	"github.com/gogpu/vcl/gpucore"
)

// Framebuffer is an ordered set of colour targets plus an optional depth target.
type Framebuffer struct {
	dev       *Device
	colors    []*Texture
	depth     *Texture
	binds     int
	destroyed bool
}

// Bind makes fb the device's current framebuffer.
func (fb *Framebuffer) Bind() error {
	if fb.destroyed {
		return gpucore.ErrDestroyed
	}
	fb.dev.bound = fb
	fb.binds++
	return nil
}

// Colors returns the colour targets in attachment order.
func (fb *Framebuffer) Colors() []*Texture { return fb.colors }

// Depth returns the depth target, or nil.
func (fb *Framebuffer) Depth() *Texture { return fb.depth }

// Binds returns how many times the framebuffer was bound.
func (fb *Framebuffer) Binds() int { return fb.binds }

// Clear fills every colour target with c and zeroes the depth target.
func (fb *Framebuffer) Clear(c color.Color) {
	for _, t := range fb.colors {
		t.Clear(c)
	}
	if fb.depth != nil {
		fb.depth.Clear(nil)
	}
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

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"fmt"

	"github.com/gogpu/vcl/gpucore"
)

// DynamicTexture is a texture replicated once per frame slot, so the copy
// written in one frame is never read by the GPU for an earlier frame.
//
// A DynamicTexture is owned by the Engine that allocated it and stays valid
// until Engine.Close; after that At and Current return nil. It implements gpucore.Texture; passing it to
// SetRenderTargets binds the copy of the active slot.
type DynamicTexture struct {
	id       gpucore.TextureID
	textures []gpucore.Texture
}

var _ gpucore.Texture = (*DynamicTexture)(nil)

func newDynamicTexture(src gpucore.Texture, n int) (*DynamicTexture, error) {
	textures := make([]gpucore.Texture, 1, n)
	textures[0] = src
	for i := 1; i < n; i++ {
		tex, err := src.Clone()
		if err != nil {
			for _, t := range textures {
				t.Destroy()
			}
			return nil, fmt.Errorf("engine: clone dynamic texture copy %d: %w", i, err)
		}
		textures = append(textures, tex)
	}
	return &DynamicTexture{id: gpucore.NextTextureID(), textures: textures}, nil
}

// ID returns the identity of the dynamic texture as a whole. Each copy has
// its own identity as well.
func (d *DynamicTexture) ID() gpucore.TextureID { return d.id }

// Len returns the number of copies, equal to the engine's frame count.
func (d *DynamicTexture) Len() int { return len(d.textures) }

// At returns the copy for the given frame slot, or nil once the owning
// Engine is closed.
func (d *DynamicTexture) At(slot int) gpucore.Texture {
	if d.released() {
		return nil
	}
	return d.textures[slot]
}

// Current returns the copy for the engine's active slot, or nil once the
// owning Engine is closed.
func (d *DynamicTexture) Current(e *Engine) gpucore.Texture { return d.At(e.FrameIndex()) }

// Description returns the description shared by all copies. It is the zero
// description once the owning Engine is closed.
func (d *DynamicTexture) Description() gpucore.TextureDescription {
	if d.released() {
		return gpucore.TextureDescription{}
	}
	return d.textures[0].Description()
}

// Clone clones the first copy into a new, independent texture.
func (d *DynamicTexture) Clone() (gpucore.Texture, error) {
	if d.released() {
		return nil, ErrClosed
	}
	return d.textures[0].Clone()
}

func (d *DynamicTexture) released() bool { return len(d.textures) == 0 }

// Destroy is a no-op: the owning Engine destroys all copies in Close.
func (d *DynamicTexture) Destroy() {}

func (d *DynamicTexture) release() {
	for _, t := range d.textures {
		t.Destroy()
	}
	d.textures = nil
}

// resolveTarget returns the concrete texture bound for slot.
func resolveTarget(t gpucore.Texture, slot int) gpucore.Texture {
	if d, ok := t.(*DynamicTexture); ok {
		return d.At(slot)
	}
	return t
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package soft

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/gogpu/vcl/gpucore"
)

// Texture keeps its texels in host memory, tightly packed, layer after
// layer. Only mip level 0 is stored.
type Texture struct {
	dev  *Device
	id   gpucore.TextureID
	desc gpucore.TextureDescription
	pix  []byte
	img  *image.RGBA // aliases pix for 8-bit RGBA formats
}

var _ gpucore.Texture = (*Texture)(nil)

func newTexture(d *Device, desc gpucore.TextureDescription) *Texture {
	t := &Texture{
		dev:  d,
		id:   gpucore.NextTextureID(),
		desc: desc,
		pix:  make([]byte, desc.SizeInBytes()),
	}
	if isRGBA8(desc.Format) {
		// Layers and slices are stacked vertically.
		h := desc.Height * desc.Depth * desc.ArraySize * desc.Samples
		t.img = &image.RGBA{
			Pix:    t.pix,
			Stride: 4 * desc.Width,
			Rect:   image.Rect(0, 0, desc.Width, h),
		}
	}
	d.stats.Textures++
	return t
}

func isRGBA8(f gpucore.SurfaceFormat) bool {
	return f == gpucore.FormatR8G8B8A8Unorm || f == gpucore.FormatR8G8B8A8UnormSrgb
}

// ID returns the texture identity.
func (t *Texture) ID() gpucore.TextureID { return t.id }

// Description returns the normalized description the texture was created with.
func (t *Texture) Description() gpucore.TextureDescription { return t.desc }

// Bytes returns the texel storage.
func (t *Texture) Bytes() []byte { return t.pix }

// Image returns the texels as an image for 8-bit RGBA formats, or nil.
func (t *Texture) Image() *image.RGBA { return t.img }

// Clone creates a texture with the same description and contents.
func (t *Texture) Clone() (gpucore.Texture, error) {
	if t.pix == nil {
		return nil, gpucore.ErrDestroyed
	}
	if t.dev.closed {
		return nil, ErrDeviceClosed
	}
	c := newTexture(t.dev, t.desc)
	if c.img != nil {
		draw.Copy(c.img, image.Point{}, t.img, t.img.Bounds(), draw.Src, nil)
	} else {
		copy(c.pix, t.pix)
	}
	return c, nil
}

// Clear fills an 8-bit RGBA texture with c. Other formats are zeroed.
func (t *Texture) Clear(c color.Color) {
	if t.pix == nil {
		return
	}
	if t.img == nil {
		clear(t.pix)
		return
	}
	draw.Draw(t.img, t.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Destroy releases the texel storage. It is safe to call more than once.
func (t *Texture) Destroy() {
	if t.pix == nil {
		return
	}
	t.pix = nil
	t.img = nil
	t.dev.stats.Textures--
}

// Resolve scales the first layer of an 8-bit RGBA texture into dst with
// Catmull-Rom filtering. It is used to present a render target at a
// different size.
func (t *Texture) Resolve(dst draw.Image) bool {
	if t.img == nil {
		return false
	}
	src := image.Rect(0, 0, t.desc.Width, t.desc.Height)
	draw.CatmullRom.Scale(dst, dst.Bounds(), t.img, src, draw.Src, nil)
	return true
}

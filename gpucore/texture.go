// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

import "fmt"

// TextureType is the dimensionality of a texture.
type TextureType uint8

// Texture types.
const (
	TextureUnknown TextureType = iota
	Texture1D
	Texture1DArray
	Texture2D
	Texture2DArray
	Texture2DMS
	Texture2DMSArray
	Texture3D
	TextureCube
	TextureCubeArray
)

var textureTypeNames = [...]string{
	TextureUnknown:   "Unknown",
	Texture1D:        "Texture1D",
	Texture1DArray:   "Texture1DArray",
	Texture2D:        "Texture2D",
	Texture2DArray:   "Texture2DArray",
	Texture2DMS:      "Texture2DMS",
	Texture2DMSArray: "Texture2DMSArray",
	Texture3D:        "Texture3D",
	TextureCube:      "TextureCube",
	TextureCubeArray: "TextureCubeArray",
}

func (t TextureType) String() string {
	if int(t) < len(textureTypeNames) {
		return textureTypeNames[t]
	}
	return fmt.Sprintf("TextureType(%d)", uint8(t))
}

// IsArray reports whether the type has array layers.
func (t TextureType) IsArray() bool {
	switch t {
	case Texture1DArray, Texture2DArray, Texture2DMSArray, TextureCubeArray:
		return true
	}
	return false
}

// IsMultisampled reports whether the type stores multiple samples per texel.
func (t TextureType) IsMultisampled() bool {
	return t == Texture2DMS || t == Texture2DMSArray
}

// TextureUsage is a set of ways a texture may be used.
type TextureUsage uint8

// Texture usages.
const (
	UsageSampled TextureUsage = 1 << iota
	UsageRenderTarget
	UsageStorage
	UsageCopySrc
	UsageCopyDst
)

// TextureDescription describes a texture independently of any backend.
// Zero Height, Depth, ArraySize, MipLevels and Samples are treated as 1.
type TextureDescription struct {
	Label     string
	Type      TextureType
	Format    SurfaceFormat
	Usage     TextureUsage
	Width     int
	Height    int
	Depth     int
	ArraySize int
	MipLevels int
	Samples   int
}

// Normalized returns a copy with zero counts replaced by their defaults.
func (d TextureDescription) Normalized() TextureDescription {
	if d.Height == 0 {
		d.Height = 1
	}
	if d.Depth == 0 {
		d.Depth = 1
	}
	if d.ArraySize == 0 {
		d.ArraySize = 1
	}
	if d.MipLevels == 0 {
		d.MipLevels = 1
	}
	if d.Samples == 0 {
		d.Samples = 1
	}
	if d.Type == TextureCube || d.Type == TextureCubeArray {
		// Cube faces are stored as array layers.
		if d.ArraySize%6 != 0 {
			d.ArraySize *= 6
		}
	}
	return d
}

// Validate reports whether the description can be created by a backend.
// Errors wrap ErrInvalidDescription.
func (d TextureDescription) Validate() error {
	n := d.Normalized()
	switch {
	case n.Type == TextureUnknown || int(n.Type) >= len(textureTypeNames):
		return fmt.Errorf("%w: texture type %v", ErrInvalidDescription, d.Type)
	case !n.Format.IsValid():
		return fmt.Errorf("%w: format %v", ErrInvalidDescription, d.Format)
	case n.Width <= 0 || n.Height <= 0 || n.Depth <= 0:
		return fmt.Errorf("%w: extent %dx%dx%d", ErrInvalidDescription, d.Width, d.Height, d.Depth)
	case n.ArraySize <= 0 || n.MipLevels <= 0 || n.Samples <= 0:
		return fmt.Errorf("%w: negative layer, level or sample count", ErrInvalidDescription)
	case (n.Type == Texture1D || n.Type == Texture1DArray) && n.Height != 1:
		return fmt.Errorf("%w: 1D texture with height %d", ErrInvalidDescription, n.Height)
	case n.Type != Texture3D && n.Depth != 1:
		return fmt.Errorf("%w: %v with depth %d", ErrInvalidDescription, n.Type, n.Depth)
	case !n.Type.IsArray() && n.Type != TextureCube && n.ArraySize != 1,
		n.Type == TextureCube && n.ArraySize != 6:
		return fmt.Errorf("%w: %v with %d layers", ErrInvalidDescription, n.Type, n.ArraySize)
	case !n.Type.IsMultisampled() && n.Samples != 1:
		return fmt.Errorf("%w: %v with %d samples", ErrInvalidDescription, n.Type, n.Samples)
	case (n.Type == TextureCube || n.Type == TextureCubeArray) && n.Width != n.Height:
		return fmt.Errorf("%w: cube faces must be square", ErrInvalidDescription)
	}
	return nil
}

// SizeInBytes returns the size of mip level 0 across all layers and slices.
func (d TextureDescription) SizeInBytes() int {
	n := d.Normalized()
	return n.Width * n.Height * n.Depth * n.ArraySize * n.Samples * n.Format.BytesPerPixel()
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/vcl/gpucore"
)

// Three-channel layouts have no WebGPU equivalent and are missing here.
var textureFormats = map[gpucore.SurfaceFormat]gputypes.TextureFormat{
	gpucore.FormatR32G32B32A32Float: gputypes.TextureFormatRGBA32Float,
	gpucore.FormatR32G32B32A32Uint:  gputypes.TextureFormatRGBA32Uint,
	gpucore.FormatR32G32B32A32Sint:  gputypes.TextureFormatRGBA32Sint,
	gpucore.FormatR16G16B16A16Float: gputypes.TextureFormatRGBA16Float,
	gpucore.FormatR16G16B16A16Unorm: gputypes.TextureFormatRGBA16Unorm,
	gpucore.FormatR16G16B16A16Uint:  gputypes.TextureFormatRGBA16Uint,
	gpucore.FormatR16G16B16A16Snorm: gputypes.TextureFormatRGBA16Snorm,
	gpucore.FormatR16G16B16A16Sint:  gputypes.TextureFormatRGBA16Sint,
	gpucore.FormatR32G32Float:       gputypes.TextureFormatRG32Float,
	gpucore.FormatR32G32Uint:        gputypes.TextureFormatRG32Uint,
	gpucore.FormatR32G32Sint:        gputypes.TextureFormatRG32Sint,
	gpucore.FormatD32FloatS8X24Uint: gputypes.TextureFormatDepth32FloatStencil8,
	gpucore.FormatR10G10B10A2Unorm:  gputypes.TextureFormatRGB10A2Unorm,
	gpucore.FormatR10G10B10A2Uint:   gputypes.TextureFormatRGB10A2Uint,
	gpucore.FormatR11G11B10Float:    gputypes.TextureFormatRG11B10Ufloat,
	gpucore.FormatR8G8B8A8Unorm:     gputypes.TextureFormatRGBA8Unorm,
	gpucore.FormatR8G8B8A8UnormSrgb: gputypes.TextureFormatRGBA8UnormSrgb,
	gpucore.FormatR8G8B8A8Uint:      gputypes.TextureFormatRGBA8Uint,
	gpucore.FormatR8G8B8A8Snorm:     gputypes.TextureFormatRGBA8Snorm,
	gpucore.FormatR8G8B8A8Sint:      gputypes.TextureFormatRGBA8Sint,
	gpucore.FormatR16G16Float:       gputypes.TextureFormatRG16Float,
	gpucore.FormatR16G16Unorm:       gputypes.TextureFormatRG16Unorm,
	gpucore.FormatR16G16Uint:        gputypes.TextureFormatRG16Uint,
	gpucore.FormatR16G16Snorm:       gputypes.TextureFormatRG16Snorm,
	gpucore.FormatR16G16Sint:        gputypes.TextureFormatRG16Sint,
	gpucore.FormatD32Float:          gputypes.TextureFormatDepth32Float,
	gpucore.FormatR32Float:          gputypes.TextureFormatR32Float,
	gpucore.FormatR32Uint:           gputypes.TextureFormatR32Uint,
	gpucore.FormatR32Sint:           gputypes.TextureFormatR32Sint,
	gpucore.FormatD24UnormS8Uint:    gputypes.TextureFormatDepth24PlusStencil8,
	gpucore.FormatR8G8Unorm:         gputypes.TextureFormatRG8Unorm,
	gpucore.FormatR8G8Uint:          gputypes.TextureFormatRG8Uint,
	gpucore.FormatR8G8Snorm:         gputypes.TextureFormatRG8Snorm,
	gpucore.FormatR8G8Sint:          gputypes.TextureFormatRG8Sint,
	gpucore.FormatR16Float:          gputypes.TextureFormatR16Float,
	gpucore.FormatD16Unorm:          gputypes.TextureFormatDepth16Unorm,
	gpucore.FormatR16Unorm:          gputypes.TextureFormatR16Unorm,
	gpucore.FormatR16Uint:           gputypes.TextureFormatR16Uint,
	gpucore.FormatR16Snorm:          gputypes.TextureFormatR16Snorm,
	gpucore.FormatR16Sint:           gputypes.TextureFormatR16Sint,
	gpucore.FormatR8Unorm:           gputypes.TextureFormatR8Unorm,
	gpucore.FormatR8Uint:            gputypes.TextureFormatR8Uint,
	gpucore.FormatR8Snorm:           gputypes.TextureFormatR8Snorm,
	gpucore.FormatR8Sint:            gputypes.TextureFormatR8Sint,
}

// TextureFormat returns the WebGPU format for f.
func TextureFormat(f gpucore.SurfaceFormat) (gputypes.TextureFormat, error) {
	tf, ok := textureFormats[f]
	if !ok {
		return gputypes.TextureFormatUndefined, fmt.Errorf("%w: %v has no WebGPU equivalent", gpucore.ErrUnsupportedFormat, f)
	}
	return tf, nil
}

// SurfaceFormat returns the surface format for a WebGPU format, or
// FormatUnknown. BGRA formats have no surface format.
func SurfaceFormat(tf gputypes.TextureFormat) gpucore.SurfaceFormat {
	for f, t := range textureFormats {
		if t == tf {
			return f
		}
	}
	return gpucore.FormatUnknown
}

type dimensions struct {
	texture gputypes.TextureDimension
	view    gputypes.TextureViewDimension
}

// 1D arrays have no view dimension in WebGPU.
var textureDimensions = map[gpucore.TextureType]dimensions{
	gpucore.Texture1D:        {gputypes.TextureDimension1D, gputypes.TextureViewDimension1D},
	gpucore.Texture2D:        {gputypes.TextureDimension2D, gputypes.TextureViewDimension2D},
	gpucore.Texture2DArray:   {gputypes.TextureDimension2D, gputypes.TextureViewDimension2DArray},
	gpucore.Texture2DMS:      {gputypes.TextureDimension2D, gputypes.TextureViewDimension2D},
	gpucore.Texture2DMSArray: {gputypes.TextureDimension2D, gputypes.TextureViewDimension2DArray},
	gpucore.Texture3D:        {gputypes.TextureDimension3D, gputypes.TextureViewDimension3D},
	gpucore.TextureCube:      {gputypes.TextureDimension2D, gputypes.TextureViewDimensionCube},
	gpucore.TextureCubeArray: {gputypes.TextureDimension2D, gputypes.TextureViewDimensionCubeArray},
}

func textureDimension(t gpucore.TextureType) (dimensions, error) {
	d, ok := textureDimensions[t]
	if !ok {
		return dimensions{}, fmt.Errorf("%w: %v", gpucore.ErrUnsupportedTextureType, t)
	}
	return d, nil
}

// textureUsage converts u. Copies are always allowed so that textures can
// be cloned.
func textureUsage(u gpucore.TextureUsage) gputypes.TextureUsage {
	out := gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst
	if u&gpucore.UsageSampled != 0 {
		out |= gputypes.TextureUsageTextureBinding
	}
	if u&gpucore.UsageRenderTarget != 0 {
		out |= gputypes.TextureUsageRenderAttachment
	}
	if u&gpucore.UsageStorage != 0 {
		out |= gputypes.TextureUsageStorageBinding
	}
	return out
}

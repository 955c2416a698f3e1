// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.5-core/gl"

	"github.com/gogpu/vcl/gpucore"
)

// ImageFormat is the pixel transfer format and type of a surface format.
type ImageFormat struct {
	Format uint32
	Type   uint32
}

type glFormat struct {
	internal uint32
	image    ImageFormat
}

var glFormats = [...]glFormat{
	gpucore.FormatR32G32B32A32Float: {gl.RGBA32F, ImageFormat{gl.RGBA, gl.FLOAT}},
	gpucore.FormatR32G32B32A32Uint:  {gl.RGBA32UI, ImageFormat{gl.RGBA_INTEGER, gl.UNSIGNED_INT}},
	gpucore.FormatR32G32B32A32Sint:  {gl.RGBA32I, ImageFormat{gl.RGBA_INTEGER, gl.INT}},
	gpucore.FormatR16G16B16A16Float: {gl.RGBA16F, ImageFormat{gl.RGBA, gl.HALF_FLOAT}},
	gpucore.FormatR16G16B16A16Unorm: {gl.RGBA16, ImageFormat{gl.RGBA, gl.UNSIGNED_SHORT}},
	gpucore.FormatR16G16B16A16Uint:  {gl.RGBA16UI, ImageFormat{gl.RGBA_INTEGER, gl.UNSIGNED_SHORT}},
	gpucore.FormatR16G16B16A16Snorm: {gl.RGBA16_SNORM, ImageFormat{gl.RGBA, gl.SHORT}},
	gpucore.FormatR16G16B16A16Sint:  {gl.RGBA16I, ImageFormat{gl.RGBA_INTEGER, gl.SHORT}},
	gpucore.FormatR32G32B32Float:    {gl.RGB32F, ImageFormat{gl.RGB, gl.FLOAT}},
	gpucore.FormatR32G32B32Uint:     {gl.RGB32UI, ImageFormat{gl.RGB_INTEGER, gl.UNSIGNED_INT}},
	gpucore.FormatR32G32B32Sint:     {gl.RGB32I, ImageFormat{gl.RGB_INTEGER, gl.INT}},
	gpucore.FormatR32G32Float:       {gl.RG32F, ImageFormat{gl.RG, gl.FLOAT}},
	gpucore.FormatR32G32Uint:        {gl.RG32UI, ImageFormat{gl.RG_INTEGER, gl.UNSIGNED_INT}},
	gpucore.FormatR32G32Sint:        {gl.RG32I, ImageFormat{gl.RG_INTEGER, gl.INT}},
	gpucore.FormatD32FloatS8X24Uint: {gl.DEPTH32F_STENCIL8, ImageFormat{gl.DEPTH_STENCIL, gl.FLOAT_32_UNSIGNED_INT_24_8_REV}},
	gpucore.FormatR10G10B10A2Unorm:  {gl.RGB10_A2, ImageFormat{gl.RGBA, gl.UNSIGNED_INT_2_10_10_10_REV}},
	gpucore.FormatR10G10B10A2Uint:   {gl.RGB10_A2UI, ImageFormat{gl.RGBA_INTEGER, gl.UNSIGNED_INT_2_10_10_10_REV}},
	gpucore.FormatR11G11B10Float:    {gl.R11F_G11F_B10F, ImageFormat{gl.RGB, gl.UNSIGNED_INT_10F_11F_11F_REV}},
	gpucore.FormatR8G8B8A8Unorm:     {gl.RGBA8, ImageFormat{gl.RGBA, gl.UNSIGNED_BYTE}},
	gpucore.FormatR8G8B8A8UnormSrgb: {gl.SRGB8_ALPHA8, ImageFormat{gl.RGBA, gl.UNSIGNED_BYTE}},
	gpucore.FormatR8G8B8A8Uint:      {gl.RGBA8UI, ImageFormat{gl.RGBA_INTEGER, gl.UNSIGNED_BYTE}},
	gpucore.FormatR8G8B8A8Snorm:     {gl.RGBA8_SNORM, ImageFormat{gl.RGBA, gl.BYTE}},
	gpucore.FormatR8G8B8A8Sint:      {gl.RGBA8I, ImageFormat{gl.RGBA_INTEGER, gl.BYTE}},
	gpucore.FormatR8G8B8Unorm:       {gl.RGB8, ImageFormat{gl.RGB, gl.UNSIGNED_BYTE}},
	gpucore.FormatR16G16Float:       {gl.RG16F, ImageFormat{gl.RG, gl.HALF_FLOAT}},
	gpucore.FormatR16G16Unorm:       {gl.RG16, ImageFormat{gl.RG, gl.UNSIGNED_SHORT}},
	gpucore.FormatR16G16Uint:        {gl.RG16UI, ImageFormat{gl.RG_INTEGER, gl.UNSIGNED_SHORT}},
	gpucore.FormatR16G16Snorm:       {gl.RG16_SNORM, ImageFormat{gl.RG, gl.SHORT}},
	gpucore.FormatR16G16Sint:        {gl.RG16I, ImageFormat{gl.RG_INTEGER, gl.SHORT}},
	gpucore.FormatD32Float:          {gl.DEPTH_COMPONENT32F, ImageFormat{gl.DEPTH_COMPONENT, gl.FLOAT}},
	gpucore.FormatR32Float:          {gl.R32F, ImageFormat{gl.RED, gl.FLOAT}},
	gpucore.FormatR32Uint:           {gl.R32UI, ImageFormat{gl.RED_INTEGER, gl.UNSIGNED_INT}},
	gpucore.FormatR32Sint:           {gl.R32I, ImageFormat{gl.RED_INTEGER, gl.INT}},
	gpucore.FormatD24UnormS8Uint:    {gl.DEPTH24_STENCIL8, ImageFormat{gl.DEPTH_STENCIL, gl.UNSIGNED_INT_24_8}},
	gpucore.FormatR8G8Unorm:         {gl.RG8, ImageFormat{gl.RG, gl.UNSIGNED_BYTE}},
	gpucore.FormatR8G8Uint:          {gl.RG8UI, ImageFormat{gl.RG_INTEGER, gl.UNSIGNED_BYTE}},
	gpucore.FormatR8G8Snorm:         {gl.RG8_SNORM, ImageFormat{gl.RG, gl.BYTE}},
	gpucore.FormatR8G8Sint:          {gl.RG8I, ImageFormat{gl.RG_INTEGER, gl.BYTE}},
	gpucore.FormatR16Float:          {gl.R16F, ImageFormat{gl.RED, gl.HALF_FLOAT}},
	gpucore.FormatD16Unorm:          {gl.DEPTH_COMPONENT16, ImageFormat{gl.DEPTH_COMPONENT, gl.UNSIGNED_SHORT}},
	gpucore.FormatR16Unorm:          {gl.R16, ImageFormat{gl.RED, gl.UNSIGNED_SHORT}},
	gpucore.FormatR16Uint:           {gl.R16UI, ImageFormat{gl.RED_INTEGER, gl.UNSIGNED_SHORT}},
	gpucore.FormatR16Snorm:          {gl.R16_SNORM, ImageFormat{gl.RED, gl.SHORT}},
	gpucore.FormatR16Sint:           {gl.R16I, ImageFormat{gl.RED_INTEGER, gl.SHORT}},
	gpucore.FormatR8Unorm:           {gl.R8, ImageFormat{gl.RED, gl.UNSIGNED_BYTE}},
	gpucore.FormatR8Uint:            {gl.R8UI, ImageFormat{gl.RED_INTEGER, gl.UNSIGNED_BYTE}},
	gpucore.FormatR8Snorm:           {gl.R8_SNORM, ImageFormat{gl.RED, gl.BYTE}},
	gpucore.FormatR8Sint:            {gl.R8I, ImageFormat{gl.RED_INTEGER, gl.BYTE}},
}

func lookup(f gpucore.SurfaceFormat) (glFormat, error) {
	if !f.IsValid() || int(f) >= len(glFormats) || glFormats[f].internal == gl.NONE {
		return glFormat{}, fmt.Errorf("%w: %v", gpucore.ErrUnsupportedFormat, f)
	}
	return glFormats[f], nil
}

// InternalFormat returns the sized internal format for f, e.g. GL_RGBA8.
func InternalFormat(f gpucore.SurfaceFormat) (uint32, error) {
	gf, err := lookup(f)
	if err != nil {
		return gl.NONE, err
	}
	return gf.internal, nil
}

// ImageFormatOf returns the pixel transfer format and type for f.
func ImageFormatOf(f gpucore.SurfaceFormat) (ImageFormat, error) {
	gf, err := lookup(f)
	if err != nil {
		return ImageFormat{}, err
	}
	return gf.image, nil
}

var textureTargets = [...]uint32{
	gpucore.TextureUnknown:   gl.NONE,
	gpucore.Texture1D:        gl.TEXTURE_1D,
	gpucore.Texture1DArray:   gl.TEXTURE_1D_ARRAY,
	gpucore.Texture2D:        gl.TEXTURE_2D,
	gpucore.Texture2DArray:   gl.TEXTURE_2D_ARRAY,
	gpucore.Texture2DMS:      gl.TEXTURE_2D_MULTISAMPLE,
	gpucore.Texture2DMSArray: gl.TEXTURE_2D_MULTISAMPLE_ARRAY,
	gpucore.Texture3D:        gl.TEXTURE_3D,
	gpucore.TextureCube:      gl.TEXTURE_CUBE_MAP,
	gpucore.TextureCubeArray: gl.TEXTURE_CUBE_MAP_ARRAY,
}

// TextureTarget returns the texture target for t, e.g. GL_TEXTURE_2D.
func TextureTarget(t gpucore.TextureType) (uint32, error) {
	if int(t) >= len(textureTargets) || textureTargets[t] == gl.NONE {
		return gl.NONE, fmt.Errorf("%w: %v", gpucore.ErrUnsupportedTextureType, t)
	}
	return textureTargets[t], nil
}

// waitResult translates a glClientWaitSync return value.
func waitResult(code uint32) gpucore.WaitResult {
	switch code {
	case gl.ALREADY_SIGNALED:
		return gpucore.WaitAlreadySignaled
	case gl.CONDITION_SATISFIED:
		return gpucore.WaitConditionSatisfied
	case gl.TIMEOUT_EXPIRED:
		return gpucore.WaitTimeoutExpired
	default:
		return gpucore.WaitFailed
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package opengl

import (
	"errors"
	"testing"

	"github.com/go-gl/gl/v4.5-core/gl"

	"github.com/gogpu/vcl/gpucore"
)

func TestInternalFormatComplete(t *testing.T) {
	for _, f := range gpucore.AllFormats() {
		internal, err := InternalFormat(f)
		if err != nil {
			t.Errorf("InternalFormat(%v) error = %v", f, err)
			continue
		}
		if internal == gl.NONE {
			t.Errorf("InternalFormat(%v) = GL_NONE", f)
		}
		img, err := ImageFormatOf(f)
		if err != nil || img.Format == gl.NONE || img.Type == gl.NONE {
			t.Errorf("ImageFormatOf(%v) = %+v, %v", f, img, err)
		}
	}
}

func TestInternalFormat(t *testing.T) {
	tests := []struct {
		in   gpucore.SurfaceFormat
		want uint32
	}{
		{gpucore.FormatR32G32B32A32Float, gl.RGBA32F},
		{gpucore.FormatR8G8B8A8Unorm, gl.RGBA8},
		{gpucore.FormatR8G8B8A8UnormSrgb, gl.SRGB8_ALPHA8},
		{gpucore.FormatR11G11B10Float, gl.R11F_G11F_B10F},
		{gpucore.FormatD32FloatS8X24Uint, gl.DEPTH32F_STENCIL8},
		{gpucore.FormatD24UnormS8Uint, gl.DEPTH24_STENCIL8},
		{gpucore.FormatD32Float, gl.DEPTH_COMPONENT32F},
		{gpucore.FormatD16Unorm, gl.DEPTH_COMPONENT16},
		{gpucore.FormatR8Sint, gl.R8I},
	}
	for _, tt := range tests {
		if got, _ := InternalFormat(tt.in); got != tt.want {
			t.Errorf("InternalFormat(%v) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestImageFormat(t *testing.T) {
	tests := []struct {
		in   gpucore.SurfaceFormat
		want ImageFormat
	}{
		{gpucore.FormatR32G32B32A32Uint, ImageFormat{gl.RGBA_INTEGER, gl.UNSIGNED_INT}},
		{gpucore.FormatR16G16B16A16Float, ImageFormat{gl.RGBA, gl.HALF_FLOAT}},
		{gpucore.FormatR8G8B8Unorm, ImageFormat{gl.RGB, gl.UNSIGNED_BYTE}},
		{gpucore.FormatD24UnormS8Uint, ImageFormat{gl.DEPTH_STENCIL, gl.UNSIGNED_INT_24_8}},
		{gpucore.FormatD32FloatS8X24Uint, ImageFormat{gl.DEPTH_STENCIL, gl.FLOAT_32_UNSIGNED_INT_24_8_REV}},
		{gpucore.FormatR16Snorm, ImageFormat{gl.RED, gl.SHORT}},
		{gpucore.FormatR8G8Sint, ImageFormat{gl.RG_INTEGER, gl.BYTE}},
	}
	for _, tt := range tests {
		if got, _ := ImageFormatOf(tt.in); got != tt.want {
			t.Errorf("ImageFormatOf(%v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestFormatUnknown(t *testing.T) {
	if _, err := InternalFormat(gpucore.FormatUnknown); !errors.Is(err, gpucore.ErrUnsupportedFormat) {
		t.Errorf("InternalFormat(Unknown) error = %v", err)
	}
	if _, err := ImageFormatOf(gpucore.SurfaceFormat(200)); !errors.Is(err, gpucore.ErrUnsupportedFormat) {
		t.Errorf("ImageFormatOf(200) error = %v", err)
	}
}

func TestTextureTarget(t *testing.T) {
	tests := []struct {
		in   gpucore.TextureType
		want uint32
	}{
		{gpucore.Texture1D, gl.TEXTURE_1D},
		{gpucore.Texture1DArray, gl.TEXTURE_1D_ARRAY},
		{gpucore.Texture2D, gl.TEXTURE_2D},
		{gpucore.Texture2DArray, gl.TEXTURE_2D_ARRAY},
		{gpucore.Texture2DMS, gl.TEXTURE_2D_MULTISAMPLE},
		{gpucore.Texture2DMSArray, gl.TEXTURE_2D_MULTISAMPLE_ARRAY},
		{gpucore.Texture3D, gl.TEXTURE_3D},
		{gpucore.TextureCube, gl.TEXTURE_CUBE_MAP},
		{gpucore.TextureCubeArray, gl.TEXTURE_CUBE_MAP_ARRAY},
	}
	for _, tt := range tests {
		got, err := TextureTarget(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("TextureTarget(%v) = %#x, %v, want %#x", tt.in, got, err, tt.want)
		}
	}
	if _, err := TextureTarget(gpucore.TextureUnknown); !errors.Is(err, gpucore.ErrUnsupportedTextureType) {
		t.Errorf("TextureTarget(Unknown) error = %v", err)
	}
}

func TestWaitResult(t *testing.T) {
	tests := []struct {
		code uint32
		want gpucore.WaitResult
	}{
		{gl.ALREADY_SIGNALED, gpucore.WaitAlreadySignaled},
		{gl.CONDITION_SATISFIED, gpucore.WaitConditionSatisfied},
		{gl.TIMEOUT_EXPIRED, gpucore.WaitTimeoutExpired},
		{gl.WAIT_FAILED, gpucore.WaitFailed},
		{0, gpucore.WaitFailed},
	}
	for _, tt := range tests {
		if got := waitResult(tt.code); got != tt.want {
			t.Errorf("waitResult(%#x) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestDepthAttachment(t *testing.T) {
	if got := depthAttachment(gpucore.FormatD24UnormS8Uint); got != gl.DEPTH_STENCIL_ATTACHMENT {
		t.Errorf("depthAttachment(D24S8) = %#x", got)
	}
	if got := depthAttachment(gpucore.FormatD32Float); got != gl.DEPTH_ATTACHMENT {
		t.Errorf("depthAttachment(D32) = %#x", got)
	}
}

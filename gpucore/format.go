// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

import "fmt"

// SurfaceFormat describes the memory layout of one texel.
//
// Names follow the channel-order convention RxGyBzAw_TYPE: channels in
// memory order with their bit widths, followed by the numeric
// interpretation.
type SurfaceFormat uint8

// Surface formats.
const (
	FormatUnknown SurfaceFormat = iota

	FormatR32G32B32A32Float
	FormatR32G32B32A32Uint
	FormatR32G32B32A32Sint
	FormatR16G16B16A16Float
	FormatR16G16B16A16Unorm
	FormatR16G16B16A16Uint
	FormatR16G16B16A16Snorm
	FormatR16G16B16A16Sint
	FormatR32G32B32Float
	FormatR32G32B32Uint
	FormatR32G32B32Sint
	FormatR32G32Float
	FormatR32G32Uint
	FormatR32G32Sint
	FormatD32FloatS8X24Uint
	FormatR10G10B10A2Unorm
	FormatR10G10B10A2Uint
	FormatR11G11B10Float
	FormatR8G8B8A8Unorm
	FormatR8G8B8A8UnormSrgb
	FormatR8G8B8A8Uint
	FormatR8G8B8A8Snorm
	FormatR8G8B8A8Sint
	FormatR8G8B8Unorm
	FormatR16G16Float
	FormatR16G16Unorm
	FormatR16G16Uint
	FormatR16G16Snorm
	FormatR16G16Sint
	FormatD32Float
	FormatR32Float
	FormatR32Uint
	FormatR32Sint
	FormatD24UnormS8Uint
	FormatR8G8Unorm
	FormatR8G8Uint
	FormatR8G8Snorm
	FormatR8G8Sint
	FormatR16Float
	FormatD16Unorm
	FormatR16Unorm
	FormatR16Uint
	FormatR16Snorm
	FormatR16Sint
	FormatR8Unorm
	FormatR8Uint
	FormatR8Snorm
	FormatR8Sint

	formatCount
)

type formatFlags uint8

const (
	flagDepth formatFlags = 1 << iota
	flagStencil
	flagSRGB
	flagInteger
)

type formatInfo struct {
	name  string
	size  int // bytes per texel
	flags formatFlags
}

var formatInfos = [formatCount]formatInfo{
	FormatUnknown:           {"Unknown", 0, 0},
	FormatR32G32B32A32Float: {"R32G32B32A32_FLOAT", 16, 0},
	FormatR32G32B32A32Uint:  {"R32G32B32A32_UINT", 16, flagInteger},
	FormatR32G32B32A32Sint:  {"R32G32B32A32_SINT", 16, flagInteger},
	FormatR16G16B16A16Float: {"R16G16B16A16_FLOAT", 8, 0},
	FormatR16G16B16A16Unorm: {"R16G16B16A16_UNORM", 8, 0},
	FormatR16G16B16A16Uint:  {"R16G16B16A16_UINT", 8, flagInteger},
	FormatR16G16B16A16Snorm: {"R16G16B16A16_SNORM", 8, 0},
	FormatR16G16B16A16Sint:  {"R16G16B16A16_SINT", 8, flagInteger},
	FormatR32G32B32Float:    {"R32G32B32_FLOAT", 12, 0},
	FormatR32G32B32Uint:     {"R32G32B32_UINT", 12, flagInteger},
	FormatR32G32B32Sint:     {"R32G32B32_SINT", 12, flagInteger},
	FormatR32G32Float:       {"R32G32_FLOAT", 8, 0},
	FormatR32G32Uint:        {"R32G32_UINT", 8, flagInteger},
	FormatR32G32Sint:        {"R32G32_SINT", 8, flagInteger},
	FormatD32FloatS8X24Uint: {"D32_FLOAT_S8X24_UINT", 8, flagDepth | flagStencil},
	FormatR10G10B10A2Unorm:  {"R10G10B10A2_UNORM", 4, 0},
	FormatR10G10B10A2Uint:   {"R10G10B10A2_UINT", 4, flagInteger},
	FormatR11G11B10Float:    {"R11G11B10_FLOAT", 4, 0},
	FormatR8G8B8A8Unorm:     {"R8G8B8A8_UNORM", 4, 0},
	FormatR8G8B8A8UnormSrgb: {"R8G8B8A8_UNORM_SRGB", 4, flagSRGB},
	FormatR8G8B8A8Uint:      {"R8G8B8A8_UINT", 4, flagInteger},
	FormatR8G8B8A8Snorm:     {"R8G8B8A8_SNORM", 4, 0},
	FormatR8G8B8A8Sint:      {"R8G8B8A8_SINT", 4, flagInteger},
	FormatR8G8B8Unorm:       {"R8G8B8_UNORM", 3, 0},
	FormatR16G16Float:       {"R16G16_FLOAT", 4, 0},
	FormatR16G16Unorm:       {"R16G16_UNORM", 4, 0},
	FormatR16G16Uint:        {"R16G16_UINT", 4, flagInteger},
	FormatR16G16Snorm:       {"R16G16_SNORM", 4, 0},
	FormatR16G16Sint:        {"R16G16_SINT", 4, flagInteger},
	FormatD32Float:          {"D32_FLOAT", 4, flagDepth},
	FormatR32Float:          {"R32_FLOAT", 4, 0},
	FormatR32Uint:           {"R32_UINT", 4, flagInteger},
	FormatR32Sint:           {"R32_SINT", 4, flagInteger},
	FormatD24UnormS8Uint:    {"D24_UNORM_S8_UINT", 4, flagDepth | flagStencil},
	FormatR8G8Unorm:         {"R8G8_UNORM", 2, 0},
	FormatR8G8Uint:          {"R8G8_UINT", 2, flagInteger},
	FormatR8G8Snorm:         {"R8G8_SNORM", 2, 0},
	FormatR8G8Sint:          {"R8G8_SINT", 2, flagInteger},
	FormatR16Float:          {"R16_FLOAT", 2, 0},
	FormatD16Unorm:          {"D16_UNORM", 2, flagDepth},
	FormatR16Unorm:          {"R16_UNORM", 2, 0},
	FormatR16Uint:           {"R16_UINT", 2, flagInteger},
	FormatR16Snorm:          {"R16_SNORM", 2, 0},
	FormatR16Sint:           {"R16_SINT", 2, flagInteger},
	FormatR8Unorm:           {"R8_UNORM", 1, 0},
	FormatR8Uint:            {"R8_UINT", 1, flagInteger},
	FormatR8Snorm:           {"R8_SNORM", 1, 0},
	FormatR8Sint:            {"R8_SINT", 1, flagInteger},
}

func (f SurfaceFormat) info() formatInfo {
	if f >= formatCount {
		return formatInfo{}
	}
	return formatInfos[f]
}

// String returns the format name, e.g. "R8G8B8A8_UNORM".
func (f SurfaceFormat) String() string {
	if f >= formatCount {
		return fmt.Sprintf("SurfaceFormat(%d)", uint8(f))
	}
	return formatInfos[f].name
}

// IsValid reports whether f is a known format other than FormatUnknown.
func (f SurfaceFormat) IsValid() bool {
	return f != FormatUnknown && f < formatCount
}

// BytesPerPixel returns the size of one texel in bytes, or 0 for unknown formats.
func (f SurfaceFormat) BytesPerPixel() int { return f.info().size }

// IsDepth reports whether the format has a depth component.
func (f SurfaceFormat) IsDepth() bool { return f.info().flags&flagDepth != 0 }

// HasStencil reports whether the format has a stencil component.
func (f SurfaceFormat) HasStencil() bool { return f.info().flags&flagStencil != 0 }

// IsSRGB reports whether colour values are stored sRGB-encoded.
func (f SurfaceFormat) IsSRGB() bool { return f.info().flags&flagSRGB != 0 }

// IsInteger reports whether the format stores unnormalized integers.
func (f SurfaceFormat) IsInteger() bool { return f.info().flags&flagInteger != 0 }

// AllFormats returns every valid surface format in declaration order.
func AllFormats() []SurfaceFormat {
	out := make([]SurfaceFormat, 0, formatCount-1)
	for f := FormatUnknown + 1; f < formatCount; f++ {
		out = append(out, f)
	}
	return out
}

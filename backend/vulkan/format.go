// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/gogpu/vcl/gpucore"
)

// Packed 10 and 11 bit layouts use the reversed component order of their
// Vulkan names: R10G10B10A2 is A2B10G10R10_PACK32.
var vkFormats = [...]vk.Format{
	gpucore.FormatUnknown:           vk.FormatUndefined,
	gpucore.FormatR32G32B32A32Float: vk.FormatR32g32b32a32Sfloat,
	gpucore.FormatR32G32B32A32Uint:  vk.FormatR32g32b32a32Uint,
	gpucore.FormatR32G32B32A32Sint:  vk.FormatR32g32b32a32Sint,
	gpucore.FormatR16G16B16A16Float: vk.FormatR16g16b16a16Sfloat,
	gpucore.FormatR16G16B16A16Unorm: vk.FormatR16g16b16a16Unorm,
	gpucore.FormatR16G16B16A16Uint:  vk.FormatR16g16b16a16Uint,
	gpucore.FormatR16G16B16A16Snorm: vk.FormatR16g16b16a16Snorm,
	gpucore.FormatR16G16B16A16Sint:  vk.FormatR16g16b16a16Sint,
	gpucore.FormatR32G32B32Float:    vk.FormatR32g32b32Sfloat,
	gpucore.FormatR32G32B32Uint:     vk.FormatR32g32b32Uint,
	gpucore.FormatR32G32B32Sint:     vk.FormatR32g32b32Sint,
	gpucore.FormatR32G32Float:       vk.FormatR32g32Sfloat,
	gpucore.FormatR32G32Uint:        vk.FormatR32g32Uint,
	gpucore.FormatR32G32Sint:        vk.FormatR32g32Sint,
	gpucore.FormatD32FloatS8X24Uint: vk.FormatD32SfloatS8Uint,
	gpucore.FormatR10G10B10A2Unorm:  vk.FormatA2b10g10r10UnormPack32,
	gpucore.FormatR10G10B10A2Uint:   vk.FormatA2b10g10r10UintPack32,
	gpucore.FormatR11G11B10Float:    vk.FormatB10g11r11UfloatPack32,
	gpucore.FormatR8G8B8A8Unorm:     vk.FormatR8g8b8a8Unorm,
	gpucore.FormatR8G8B8A8UnormSrgb: vk.FormatR8g8b8a8Srgb,
	gpucore.FormatR8G8B8A8Uint:      vk.FormatR8g8b8a8Uint,
	gpucore.FormatR8G8B8A8Snorm:     vk.FormatR8g8b8a8Snorm,
	gpucore.FormatR8G8B8A8Sint:      vk.FormatR8g8b8a8Sint,
	gpucore.FormatR8G8B8Unorm:       vk.FormatR8g8b8Unorm,
	gpucore.FormatR16G16Float:       vk.FormatR16g16Sfloat,
	gpucore.FormatR16G16Unorm:       vk.FormatR16g16Unorm,
	gpucore.FormatR16G16Uint:        vk.FormatR16g16Uint,
	gpucore.FormatR16G16Snorm:       vk.FormatR16g16Snorm,
	gpucore.FormatR16G16Sint:        vk.FormatR16g16Sint,
	gpucore.FormatD32Float:          vk.FormatD32Sfloat,
	gpucore.FormatR32Float:          vk.FormatR32Sfloat,
	gpucore.FormatR32Uint:           vk.FormatR32Uint,
	gpucore.FormatR32Sint:           vk.FormatR32Sint,
	gpucore.FormatD24UnormS8Uint:    vk.FormatD24UnormS8Uint,
	gpucore.FormatR8G8Unorm:         vk.FormatR8g8Unorm,
	gpucore.FormatR8G8Uint:          vk.FormatR8g8Uint,
	gpucore.FormatR8G8Snorm:         vk.FormatR8g8Snorm,
	gpucore.FormatR8G8Sint:          vk.FormatR8g8Sint,
	gpucore.FormatR16Float:          vk.FormatR16Sfloat,
	gpucore.FormatD16Unorm:          vk.FormatD16Unorm,
	gpucore.FormatR16Unorm:          vk.FormatR16Unorm,
	gpucore.FormatR16Uint:           vk.FormatR16Uint,
	gpucore.FormatR16Snorm:          vk.FormatR16Snorm,
	gpucore.FormatR16Sint:           vk.FormatR16Sint,
	gpucore.FormatR8Unorm:           vk.FormatR8Unorm,
	gpucore.FormatR8Uint:            vk.FormatR8Uint,
	gpucore.FormatR8Snorm:           vk.FormatR8Snorm,
	gpucore.FormatR8Sint:            vk.FormatR8Sint,
}

// Format returns the Vulkan format for f.
func Format(f gpucore.SurfaceFormat) (vk.Format, error) {
	if !f.IsValid() || int(f) >= len(vkFormats) {
		return vk.FormatUndefined, fmt.Errorf("%w: %v", gpucore.ErrUnsupportedFormat, f)
	}
	return vkFormats[f], nil
}

// SurfaceFormat returns the surface format for a Vulkan format, or
// FormatUnknown if there is none.
func SurfaceFormat(vf vk.Format) gpucore.SurfaceFormat {
	if vf == vk.FormatUndefined {
		return gpucore.FormatUnknown
	}
	for f, v := range vkFormats {
		if v == vf {
			return gpucore.SurfaceFormat(f)
		}
	}
	return gpucore.FormatUnknown
}

// aspectMask returns the image aspects of f.
func aspectMask(f gpucore.SurfaceFormat) vk.ImageAspectFlags {
	switch {
	case f.HasStencil():
		return vk.ImageAspectFlags(vk.ImageAspectDepthBit | vk.ImageAspectStencilBit)
	case f.IsDepth():
		return vk.ImageAspectFlags(vk.ImageAspectDepthBit)
	default:
		return vk.ImageAspectFlags(vk.ImageAspectColorBit)
	}
}

// viewAspect returns the aspect sampled through a full view of f. Sampled
// views of depth-stencil images may only select depth.
func viewAspect(f gpucore.SurfaceFormat) vk.ImageAspectFlags {
	if f.IsDepth() {
		return vk.ImageAspectFlags(vk.ImageAspectDepthBit)
	}
	return vk.ImageAspectFlags(vk.ImageAspectColorBit)
}

type imageTypes struct {
	image vk.ImageType
	view  vk.ImageViewType
}

var textureTypes = map[gpucore.TextureType]imageTypes{
	gpucore.Texture1D:        {vk.ImageType1d, vk.ImageViewType1d},
	gpucore.Texture1DArray:   {vk.ImageType1d, vk.ImageViewType1dArray},
	gpucore.Texture2D:        {vk.ImageType2d, vk.ImageViewType2d},
	gpucore.Texture2DArray:   {vk.ImageType2d, vk.ImageViewType2dArray},
	gpucore.Texture2DMS:      {vk.ImageType2d, vk.ImageViewType2d},
	gpucore.Texture2DMSArray: {vk.ImageType2d, vk.ImageViewType2dArray},
	gpucore.Texture3D:        {vk.ImageType3d, vk.ImageViewType3d},
	gpucore.TextureCube:      {vk.ImageType2d, vk.ImageViewTypeCube},
	gpucore.TextureCubeArray: {vk.ImageType2d, vk.ImageViewTypeCubeArray},
}

func textureType(t gpucore.TextureType) (imageTypes, error) {
	it, ok := textureTypes[t]
	if !ok {
		return imageTypes{}, fmt.Errorf("%w: %v", gpucore.ErrUnsupportedTextureType, t)
	}
	return it, nil
}

// sampleCount converts a sample count. Vulkan only accepts powers of two
// up to 64.
func sampleCount(n int) (vk.SampleCountFlagBits, error) {
	if n < 1 || n > 64 || n&(n-1) != 0 {
		return 0, fmt.Errorf("%w: %d samples", gpucore.ErrInvalidDescription, n)
	}
	return vk.SampleCountFlagBits(n), nil
}

// imageUsage converts u for an image of format f. Transfers are always
// allowed so that textures can be cloned.
func imageUsage(u gpucore.TextureUsage, f gpucore.SurfaceFormat) vk.ImageUsageFlags {
	out := vk.ImageUsageFlags(vk.ImageUsageTransferSrcBit | vk.ImageUsageTransferDstBit)
	if u&gpucore.UsageSampled != 0 {
		out |= vk.ImageUsageFlags(vk.ImageUsageSampledBit)
	}
	if u&gpucore.UsageRenderTarget != 0 {
		if f.IsDepth() {
			out |= vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit)
		} else {
			out |= vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit)
		}
	}
	if u&gpucore.UsageStorage != 0 {
		out |= vk.ImageUsageFlags(vk.ImageUsageStorageBit)
	}
	return out
}

// waitResult translates a fence status taken before waiting and the result
// of the wait itself. wait is ignored unless status is VK_NOT_READY.
func waitResult(status, wait vk.Result) gpucore.WaitResult {
	switch {
	case status == vk.Success:
		return gpucore.WaitAlreadySignaled
	case status != vk.NotReady:
		return gpucore.WaitFailed
	case wait == vk.Success:
		return gpucore.WaitConditionSatisfied
	case wait == vk.Timeout:
		return gpucore.WaitTimeoutExpired
	default:
		return gpucore.WaitFailed
	}
}

// apiVersion formats a packed VK_MAKE_VERSION value.
func apiVersion(v uint32) string {
	return fmt.Sprintf("%d.%d.%d", v>>22, (v>>12)&0x3ff, v&0xfff)
}

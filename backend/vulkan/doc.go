// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package vulkan implements gpucore.Device on an existing Vulkan device.
//
// The caller owns the instance, the logical device and the queue, and must
// have loaded the Vulkan entry points (vk.SetDefaultGetInstanceProcAddr,
// vk.Init and vk.InitInstance) before calling NewDevice:
//
//	dev, err := vulkan.NewDevice(physical, device, queue, queueFamily)
//	if err != nil {
//		return err
//	}
//	eng, err := engine.New(dev)
//
// Constant buffers live in host-visible, host-coherent memory and stay
// mapped for their whole lifetime. Images are kept in
// VK_IMAGE_LAYOUT_GENERAL so that they can be copied and attached without
// tracking layouts. Frame fences are VkFence objects signalled by an empty
// queue submission.
//
// Vulkan binds pipelines on command buffers, so BindPipeline only records
// the pipeline for the caller's command recording.
package vulkan

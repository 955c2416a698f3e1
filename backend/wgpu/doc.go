// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu implements gpucore.Device over the gogpu/wgpu hardware
// abstraction layer.
//
// A device can be opened standalone, which selects a Vulkan adapter the
// same way the rest of the gogpu stack does:
//
//	dev, err := wgpu.Open()
//
// or it can share the device of a host application that implements
// gpucontext.DeviceProvider:
//
//	dev, err := wgpu.NewFromProvider(app)
//
// A shared device is not destroyed by Close.
//
// # Fences
//
// HAL queues number their submissions. FenceSync submits an empty batch
// and its fence is the returned submission index; a wait polls
// Queue.PollCompleted until the index is reached or the timeout expires.
//
// # Framebuffers
//
// HAL has no framebuffer objects. A Framebuffer holds the render pass
// descriptor for its views, and Bind makes it the device's current target
// for the next BeginRenderPass.
package wgpu

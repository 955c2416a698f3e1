// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package opengl implements gpucore.Device on OpenGL 4.5 core with direct
// state access.
//
// The caller creates the window and makes its context current before
// calling NewDevice, and must use the device only from that context's
// thread:
//
//	runtime.LockOSThread()
//	// create window, make context current ...
//	dev, err := opengl.NewDevice()
//
// Constant buffers are immutable buffer storage mapped once, persistently
// and coherently, for writing. Fences are glFenceSync objects and
// framebuffers are FBOs with one draw buffer per colour target. A
// gpucore.PipelineID is a linked program object name.
//
// NewDevice logs the GL version strings and installs a synchronous debug
// message callback that forwards driver messages to vcl.Logger.
package opengl

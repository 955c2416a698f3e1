// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpucore provides the backend-neutral vocabulary shared by the
// frame engine and every device backend.
//
// The engine is written once against the [Device] interface; each backend
// (soft, wgpu, opengl, vulkan) is a thin adapter translating these calls to
// its native API:
//
//	               +-----------------+
//	               |     engine      |
//	               |  (frame ring)   |
//	               +--------+--------+
//	                        |
//	                 gpucore.Device
//	                        |
//	   +----------+---------+---------+----------+
//	   |          |                   |          |
//	+--v---+  +---v---+          +----v---+  +---v----+
//	| soft |  | wgpu  |          | opengl |  | vulkan |
//	+------+  +-------+          +--------+  +--------+
//
// # Resources
//
// Textures carry a process-unique [TextureID] obtained from [NextTextureID].
// The engine keys its framebuffer caches on these identities, so two
// textures with equal descriptions are still distinct render targets.
//
// # Formats
//
// [SurfaceFormat] enumerates the pixel formats understood by all backends.
// Backends translate it with their own tables and report
// [ErrUnsupportedFormat] for formats their API cannot express.
package gpucore

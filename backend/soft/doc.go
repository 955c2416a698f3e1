// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package soft implements gpucore.Device on the CPU.
//
// Constant buffers are plain byte slices, textures keep their texels in
// memory (8-bit RGBA formats are exposed as *image.RGBA), and fences are
// signalled as soon as they are created. The device is always available and
// registers itself as "soft" with the backend registry.
//
// It serves as the reference device for tests and for machines without a
// GPU:
//
//	dev := soft.NewDevice()
//	eng, err := engine.New(dev)
package soft

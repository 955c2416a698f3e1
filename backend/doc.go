// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend is the registry of device factories.
//
// Backend packages register a [Factory] from their init functions, so a
// blank import is enough to make a backend available:
//
//	import (
//		_ "github.com/gogpu/vcl/backend/soft"
//		_ "github.com/gogpu/vcl/backend/wgpu"
//	)
//
// # Backend Selection
//
// Use Default to open the best available device, or Open to request a
// specific backend by name:
//
//	dev, err := backend.Default()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dev.Close()
//
//	eng, err := engine.New(dev)
//
// # Available Backends
//
//   - "wgpu": GPU device over the gogpu/wgpu HAL (preferred)
//   - "soft": CPU reference device (always available)
//
// The OpenGL and Vulkan devices need a current context or existing device
// handles and are created directly with opengl.NewDevice and
// vulkan.NewDevice instead of through the registry.
package backend

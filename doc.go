// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package vcl is the per-frame GPU resource lifecycle core of a
// visual-computing library.
//
// The root package only carries process-wide configuration (the logger).
// The functionality lives in sub-packages:
//
//   - gpucore: backend-neutral formats, texture descriptions and the
//     Device, Buffer, Texture, Sync and Framebuffer interfaces
//   - engine: the frame ring scheduler with its fences, per-frame constant
//     arenas, framebuffer caches and dynamic textures
//   - backend: registry of named device factories
//   - backend/soft, backend/wgpu, backend/opengl, backend/vulkan: devices
//
// # Frame pacing
//
// An engine.Engine owns N frame slots (3 by default). Every frame the
// application calls BeginFrame, which waits until the GPU has finished
// with the slot being reused, then requests constant-buffer ranges and
// render-target bindings, and finally calls EndFrame, which enqueues a new
// fence for the slot:
//
//	eng, err := engine.New(dev)
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//
//	for running {
//	    if err := eng.BeginFrame(); err != nil {
//	        return err // fence timeout or wait failure
//	    }
//	    view := eng.RequestPerFrameConstantBuffer(64)
//	    copy(view.Data, constants)
//	    if _, err := eng.SetRenderTargets([]gpucore.Texture{color}, depth); err != nil {
//	        return err
//	    }
//	    // draw...
//	    if err := eng.EndFrame(); err != nil {
//	        return err
//	    }
//	}
//
// # Logging
//
// vcl is silent by default. Use [SetLogger] to route diagnostics to any
// [log/slog] handler.
package vcl

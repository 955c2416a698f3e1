// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"

	"github.com/gogpu/vcl/gpucore"
)

// Backend name constants.
const (
	// BackendSoft is the name of the CPU reference device.
	BackendSoft = "soft"
	// BackendWGPU is the name of the Pure Go GPU device (gogpu/wgpu HAL).
	BackendWGPU = "wgpu"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered
	// or none of the registered backends could open a device.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Factory opens a new device. Factories are registered by backend packages
// in their init functions and may fail when the platform lacks support.
type Factory func() (gpucore.Device, error)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

import (
	"errors"
	"sync/atomic"
)

// Resource IDs
//
// These opaque IDs represent GPU resources. Backends hand them out from a
// process-wide counter so that an ID never refers to two live resources.

// TextureID is an opaque identity of a texture. Zero means "no texture".
type TextureID uint64

// PipelineID is an opaque handle to a pipeline state object.
// Zero means "no pipeline bound".
type PipelineID uint64

// NoPipeline is the PipelineID that unbinds the current pipeline.
const NoPipeline PipelineID = 0

var lastTextureID atomic.Uint64

// NextTextureID returns a new process-unique, non-zero texture identity.
func NextTextureID() TextureID {
	return TextureID(lastTextureID.Add(1))
}

// Common backend errors.
var (
	// ErrUnsupportedFormat is returned when a backend cannot express a SurfaceFormat.
	ErrUnsupportedFormat = errors.New("gpucore: unsupported surface format")

	// ErrUnsupportedTextureType is returned when a backend cannot create a texture type.
	ErrUnsupportedTextureType = errors.New("gpucore: unsupported texture type")

	// ErrInvalidDescription is returned for texture descriptions that fail validation.
	ErrInvalidDescription = errors.New("gpucore: invalid texture description")

	// ErrForeignResource is returned when a resource created by one device is
	// passed to another.
	ErrForeignResource = errors.New("gpucore: resource belongs to a different device")

	// ErrDestroyed is returned when a destroyed resource is used.
	ErrDestroyed = errors.New("gpucore: resource destroyed")
)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import "errors"

var (
	// ErrFenceTimeout is returned by BeginFrame when the GPU did not finish
	// with the slot being reused within the fence timeout.
	ErrFenceTimeout = errors.New("engine: fence wait timed out")

	// ErrFenceWaitFailed is returned by BeginFrame when the backend reported
	// a failure while waiting on the slot's fence.
	ErrFenceWaitFailed = errors.New("engine: fence wait failed")

	// ErrFrameActive is returned by BeginFrame when the previous frame has
	// not been ended.
	ErrFrameActive = errors.New("engine: frame already active")

	// ErrNoActiveFrame is returned when a per-frame operation is called
	// outside of BeginFrame/EndFrame.
	ErrNoActiveFrame = errors.New("engine: no active frame")

	// ErrInvalidTarget is returned by SetRenderTargets for nil colour targets.
	ErrInvalidTarget = errors.New("engine: invalid render target")

	// ErrInvalidOption is returned by New for out-of-range options.
	ErrInvalidOption = errors.New("engine: invalid option")

	// ErrClosed is returned when the engine is used after Close.
	ErrClosed = errors.New("engine: closed")
)

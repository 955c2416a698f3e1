// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"fmt"
	"time"
)

// Defaults used by New.
const (
	// DefaultFrameCount is the number of frames in flight.
	DefaultFrameCount = 3

	// DefaultConstantBufferSize is the per-slot constant buffer capacity (512 KiB).
	DefaultConstantBufferSize = 1 << 19

	// DefaultFenceTimeout bounds the wait in BeginFrame.
	DefaultFenceTimeout = time.Second
)

// Option configures an Engine during creation.
//
// Example:
//
//	eng, err := engine.New(dev,
//	    engine.WithFrameCount(2),
//	    engine.WithFenceTimeout(500*time.Millisecond),
//	)
type Option func(*options)

type options struct {
	frames             int
	constantBufferSize int
	fenceTimeout       time.Duration
}

func defaultOptions() options {
	return options{
		frames:             DefaultFrameCount,
		constantBufferSize: DefaultConstantBufferSize,
		fenceTimeout:       DefaultFenceTimeout,
	}
}

// WithFrameCount sets the number of frame slots. It is fixed for the
// lifetime of the engine and must be at least 1.
func WithFrameCount(n int) Option {
	return func(o *options) {
		o.frames = n
	}
}

// WithConstantBufferSize sets the capacity in bytes of each slot's constant
// buffer. The size is rounded up to the device's constant buffer alignment.
func WithConstantBufferSize(size int) Option {
	return func(o *options) {
		o.constantBufferSize = size
	}
}

// WithFenceTimeout sets how long BeginFrame waits for a slot's fence before
// failing with ErrFenceTimeout.
func WithFenceTimeout(d time.Duration) Option {
	return func(o *options) {
		o.fenceTimeout = d
	}
}

func (o options) validate() error {
	switch {
	case o.frames < 1:
		return fmt.Errorf("%w: frame count %d", ErrInvalidOption, o.frames)
	case o.constantBufferSize < 1:
		return fmt.Errorf("%w: constant buffer size %d", ErrInvalidOption, o.constantBufferSize)
	case o.fenceTimeout <= 0:
		return fmt.Errorf("%w: fence timeout %v", ErrInvalidOption, o.fenceTimeout)
	}
	return nil
}

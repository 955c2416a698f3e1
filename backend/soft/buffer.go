// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package soft

import (
	"errors"
	"time"

	"github.com/gogpu/vcl/gpucore"
)

// Buffer is a constant buffer in host memory.
type Buffer struct {
	dev    *Device
	data   []byte
	mapped bool
}

// Map returns the whole buffer. Mapping a mapped buffer is an error.
func (b *Buffer) Map() ([]byte, error) {
	if b.data == nil {
		return nil, gpucore.ErrDestroyed
	}
	if b.mapped {
		return nil, errors.New("soft: buffer already mapped")
	}
	b.mapped = true
	return b.data, nil
}

// Unmap ends the mapping.
func (b *Buffer) Unmap() error {
	if b.data == nil {
		return gpucore.ErrDestroyed
	}
	if !b.mapped {
		return errors.New("soft: buffer not mapped")
	}
	b.mapped = false
	return nil
}

// Mapped reports whether the buffer is mapped.
func (b *Buffer) Mapped() bool { return b.mapped }

// Bytes returns the buffer contents regardless of the mapping state.
func (b *Buffer) Bytes() []byte { return b.data }

// Size returns the buffer size in bytes.
func (b *Buffer) Size() int { return len(b.data) }

// Destroy releases the buffer memory. It is safe to call more than once.
func (b *Buffer) Destroy() {
	if b.data == nil {
		return
	}
	b.data = nil
	b.mapped = false
	b.dev.stats.Buffers--
}

// Sync is a fence on the CPU device. It is signalled from creation.
type Sync struct {
	dev     *Device
	deleted bool
}

// ClientWait returns WaitAlreadySignaled, or WaitFailed after Delete.
func (s *Sync) ClientWait(time.Duration) gpucore.WaitResult {
	if s.deleted {
		return gpucore.WaitFailed
	}
	return gpucore.WaitAlreadySignaled
}

// Delete releases the fence. It is safe to call more than once.
func (s *Sync) Delete() {
	if s.deleted {
		return
	}
	s.deleted = true
	s.dev.stats.Fences--
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"fmt"

	"github.com/gogpu/vcl/gpucore"
)

// BufferView is a range of a slot's constant buffer handed out for one
// frame. Data aliases the mapped memory and must not be retained past
// EndFrame.
type BufferView struct {
	Buffer gpucore.Buffer
	Offset int
	Size   int
	Data   []byte
}

// alignUp rounds size up to the next multiple of alignment.
func alignUp(size, alignment int) int {
	return ((size + alignment - 1) / alignment) * alignment
}

// constantArena bump-allocates aligned ranges from one mapped buffer.
//
// next is where the following range starts and always is a multiple of
// alignment; end is one past the last byte handed out. Both reset to 0 in
// begin.
type constantArena struct {
	buffer    gpucore.Buffer
	alignment int
	mapped    []byte
	next      int
	end       int
	peak      int
}

func (a *constantArena) capacity() int { return a.buffer.Size() }

func (a *constantArena) isMapped() bool { return a.mapped != nil }

func (a *constantArena) begin() error {
	data, err := a.buffer.Map()
	if err != nil {
		return fmt.Errorf("engine: map constant buffer: %w", err)
	}
	if len(data) < a.capacity() {
		_ = a.buffer.Unmap()
		return fmt.Errorf("engine: map constant buffer: mapped %d of %d bytes", len(data), a.capacity())
	}
	a.mapped = data
	a.next = 0
	a.end = 0
	return nil
}

func (a *constantArena) finish() error {
	if a.mapped == nil {
		return nil
	}
	a.mapped = nil
	if err := a.buffer.Unmap(); err != nil {
		return fmt.Errorf("engine: unmap constant buffer: %w", err)
	}
	return nil
}

func (a *constantArena) allocate(size int) BufferView {
	if a.mapped == nil {
		panic("engine: constant buffer requested outside of a frame")
	}
	if size < 0 {
		panic(fmt.Sprintf("engine: negative constant buffer size %d", size))
	}
	offset := a.next
	if offset+size > a.capacity() {
		panic(fmt.Sprintf("engine: per-frame constant buffer exhausted: %d bytes at offset %d exceed capacity %d",
			size, offset, a.capacity()))
	}
	a.next = min(offset+alignUp(size, a.alignment), a.capacity())
	a.end = offset + size
	a.peak = max(a.peak, a.end)
	return BufferView{
		Buffer: a.buffer,
		Offset: offset,
		Size:   size,
		Data:   a.mapped[offset : offset+size : offset+size],
	}
}

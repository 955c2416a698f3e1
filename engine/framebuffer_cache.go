// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/gogpu/vcl/gpucore"
)

// targetSet holds the identities of a render-target binding: the depth
// target first, then up to MaxColorTargets colour targets in attachment
// order. Unused entries are zero.
type targetSet [1 + gpucore.MaxColorTargets]gpucore.TextureID

// HashTargets returns the 32-bit FNV-1a hash (offset basis 2166136261,
// prime 16777619) over the little-endian bytes of the identities in ids.
// The hash is order-sensitive.
func HashTargets(ids [1 + gpucore.MaxColorTargets]uint64) uint32 {
	var buf [len(ids) * 8]byte
	for i, id := range ids {
		binary.LittleEndian.PutUint64(buf[i*8:], id)
	}
	h := fnv.New32a()
	_, _ = h.Write(buf[:]) // fnv.Write never returns an error
	return h.Sum32()
}

func (s *targetSet) hash() uint32 {
	var ids [len(s)]uint64
	for i, id := range s {
		ids[i] = uint64(id)
	}
	return HashTargets(ids)
}

// FramebufferCacheStats holds framebuffer cache statistics.
type FramebufferCacheStats struct {
	Len        int
	Hits       uint64
	Misses     uint64
	Collisions uint64
}

type framebufferEntry struct {
	targets targetSet
	fb      gpucore.Framebuffer
}

// framebufferCache maps target-set hashes to framebuffers. Entries are
// never evicted; they live as long as the owning slot.
type framebufferCache struct {
	entries map[uint32][]framebufferEntry
	len     int

	hits       uint64
	misses     uint64
	collisions uint64
}

func newFramebufferCache() framebufferCache {
	return framebufferCache{entries: make(map[uint32][]framebufferEntry)}
}

// get returns the framebuffer cached for targets under key. A hash hit
// with different identities counts as a collision and is reported as a miss.
func (c *framebufferCache) get(key uint32, targets *targetSet) (gpucore.Framebuffer, bool) {
	chain, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	for i := range chain {
		if chain[i].targets == *targets {
			c.hits++
			return chain[i].fb, true
		}
	}
	c.collisions++
	c.misses++
	return nil, false
}

// put caches fb for targets under key and reports whether key already held
// a different target set.
func (c *framebufferCache) put(key uint32, targets *targetSet, fb gpucore.Framebuffer) bool {
	chain := c.entries[key]
	c.entries[key] = append(chain, framebufferEntry{targets: *targets, fb: fb})
	c.len++
	return len(chain) > 0
}

func (c *framebufferCache) stats() FramebufferCacheStats {
	return FramebufferCacheStats{
		Len:        c.len,
		Hits:       c.hits,
		Misses:     c.misses,
		Collisions: c.collisions,
	}
}

func (c *framebufferCache) destroy() {
	for _, chain := range c.entries {
		for _, e := range chain {
			e.fb.Destroy()
		}
	}
	clear(c.entries)
	c.len = 0
}

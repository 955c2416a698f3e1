// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"errors"
	"strconv"
	"time"

	"github.com/gogpu/vcl/gpucore"
)

// fakeDevice records every call so tests can assert on ordering.
type fakeDevice struct {
	alignment int

	// results are handed to fences in creation order; once exhausted new
	// fences report WaitAlreadySignaled.
	results []gpucore.WaitResult

	events       []string
	buffers      []*fakeBuffer
	syncs        []*fakeSync
	framebuffers []*fakeFramebuffer
	textures     []*fakeTexture
	pipelines    []gpucore.PipelineID

	failBuffers bool
	failClone   bool
	failFence   bool
}

func newFakeDevice(alignment int) *fakeDevice {
	return &fakeDevice{alignment: alignment}
}

func (d *fakeDevice) Info() gpucore.AdapterInfo {
	return gpucore.AdapterInfo{Backend: "fake", Name: "fake device"}
}

func (d *fakeDevice) ConstantBufferAlignment() int { return d.alignment }

func (d *fakeDevice) CreateConstantBuffer(size int) (gpucore.Buffer, error) {
	if d.failBuffers {
		return nil, errors.New("out of memory")
	}
	b := &fakeBuffer{dev: d, index: len(d.buffers), data: make([]byte, size)}
	d.buffers = append(d.buffers, b)
	return b, nil
}

func (d *fakeDevice) CreateTexture(desc gpucore.TextureDescription) (gpucore.Texture, error) {
	t := &fakeTexture{dev: d, id: gpucore.NextTextureID(), desc: desc.Normalized()}
	d.textures = append(d.textures, t)
	return t, nil
}

func (d *fakeDevice) FenceSync() (gpucore.Sync, error) {
	if d.failFence {
		return nil, errors.New("fence sync failed")
	}
	res := gpucore.WaitAlreadySignaled
	if len(d.results) > 0 {
		res, d.results = d.results[0], d.results[1:]
	}
	s := &fakeSync{dev: d, index: len(d.syncs), result: res}
	d.syncs = append(d.syncs, s)
	d.events = append(d.events, eventf("fence", s.index))
	return s, nil
}

func (d *fakeDevice) CreateFramebuffer(colors []gpucore.Texture, depth gpucore.Texture) (gpucore.Framebuffer, error) {
	fb := &fakeFramebuffer{}
	for _, c := range colors {
		fb.colors = append(fb.colors, c.ID())
	}
	if depth != nil {
		fb.depth = depth.ID()
	}
	d.framebuffers = append(d.framebuffers, fb)
	return fb, nil
}

func (d *fakeDevice) BindPipeline(p gpucore.PipelineID) {
	d.pipelines = append(d.pipelines, p)
}

func (d *fakeDevice) Close() error { return nil }

func (d *fakeDevice) waits() int {
	n := 0
	for _, s := range d.syncs {
		n += s.waits
	}
	return n
}

type fakeBuffer struct {
	dev       *fakeDevice
	index     int
	data      []byte
	mapped    bool
	maps      int
	destroyed int
}

func (b *fakeBuffer) Map() ([]byte, error) {
	b.mapped = true
	b.maps++
	b.dev.events = append(b.dev.events, eventf("map", b.index))
	return b.data, nil
}

func (b *fakeBuffer) Unmap() error {
	if !b.mapped {
		return errors.New("buffer not mapped")
	}
	b.mapped = false
	b.dev.events = append(b.dev.events, eventf("unmap", b.index))
	return nil
}

func (b *fakeBuffer) Size() int { return len(b.data) }
func (b *fakeBuffer) Destroy()  { b.destroyed++ }

type fakeSync struct {
	dev     *fakeDevice
	index   int
	result  gpucore.WaitResult
	waits   int
	timeout time.Duration
	deleted int
}

func (s *fakeSync) ClientWait(timeout time.Duration) gpucore.WaitResult {
	s.waits++
	s.timeout = timeout
	s.dev.events = append(s.dev.events, eventf("wait", s.index))
	return s.result
}

func (s *fakeSync) Delete() { s.deleted++ }

type fakeTexture struct {
	dev       *fakeDevice
	id        gpucore.TextureID
	desc      gpucore.TextureDescription
	destroyed int
}

func (t *fakeTexture) ID() gpucore.TextureID                   { return t.id }
func (t *fakeTexture) Description() gpucore.TextureDescription { return t.desc }
func (t *fakeTexture) Destroy()                                { t.destroyed++ }

func (t *fakeTexture) Clone() (gpucore.Texture, error) {
	if t.dev.failClone {
		return nil, errors.New("clone failed")
	}
	return t.dev.CreateTexture(t.desc)
}

type fakeFramebuffer struct {
	colors    []gpucore.TextureID
	depth     gpucore.TextureID
	binds     int
	destroyed int
}

func (f *fakeFramebuffer) Bind() error { f.binds++; return nil }
func (f *fakeFramebuffer) Destroy()    { f.destroyed++ }

func eventf(kind string, index int) string {
	return kind + ":" + strconv.Itoa(index)
}

func newTestTexture(d *fakeDevice) gpucore.Texture {
	t, _ := d.CreateTexture(gpucore.TextureDescription{
		Type:   gpucore.Texture2D,
		Format: gpucore.FormatR8G8B8A8Unorm,
		Width:  16,
		Height: 16,
	})
	return t
}

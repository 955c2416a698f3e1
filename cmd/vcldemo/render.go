// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"golang.org/x/image/draw"

	"github.com/gogpu/vcl"
	"github.com/gogpu/vcl/engine"
	"github.com/gogpu/vcl/gpucore"
)

// drawConstantsSize is a column-major 4x4 transform followed by an RGBA colour.
const drawConstantsSize = 16*4 + 4*4

// clearer is implemented by framebuffers that can be cleared on the CPU.
type clearer interface {
	Clear(c color.Color)
}

// resolver is implemented by textures whose contents can be read back.
type resolver interface {
	Resolve(dst draw.Image) bool
}

type result struct {
	stats   engine.Stats
	elapsed time.Duration
	image   *image.RGBA
}

// render drives cfg.Demo.Frames frames on dev. Every frame binds a
// dynamic colour target and a depth target, alternates two pipelines and
// writes one block of constants per draw.
func render(dev gpucore.Device, cfg config) (res result, err error) {
	eng, err := engine.New(dev, cfg.engineOptions()...)
	if err != nil {
		return result{}, err
	}
	defer func() {
		err = errors.Join(err, eng.Close())
	}()

	w, h := cfg.Demo.Width, cfg.Demo.Height
	colorTex, err := dev.CreateTexture(gpucore.TextureDescription{
		Label:  "color",
		Type:   gpucore.Texture2D,
		Format: gpucore.FormatR8G8B8A8Unorm,
		Usage:  gpucore.UsageRenderTarget | gpucore.UsageSampled,
		Width:  w,
		Height: h,
	})
	if err != nil {
		return result{}, fmt.Errorf("create colour target: %w", err)
	}
	target, err := eng.AllocateDynamicTexture(colorTex)
	if err != nil {
		colorTex.Destroy()
		return result{}, err
	}
	depth, err := dev.CreateTexture(gpucore.TextureDescription{
		Label:  "depth",
		Type:   gpucore.Texture2D,
		Format: gpucore.FormatD24UnormS8Uint,
		Usage:  gpucore.UsageRenderTarget,
		Width:  w,
		Height: h,
	})
	if err != nil {
		return result{}, fmt.Errorf("create depth target: %w", err)
	}
	// Queued before the deferred Close, which runs it.
	defer eng.DeferRelease(depth.Destroy)

	start := time.Now()
	for i := range cfg.Demo.Frames {
		if err := eng.BeginFrame(); err != nil {
			return result{}, err
		}
		fb, err := eng.SetRenderTargets([]gpucore.Texture{target}, depth)
		if err != nil {
			return result{}, err
		}
		if c, ok := fb.(clearer); ok {
			c.Clear(frameColor(i, cfg.Demo.Frames))
		}
		for d := range cfg.Demo.Draws {
			eng.SetPipelineState(gpucore.PipelineID(1 + d%2))
			view := eng.RequestPerFrameConstantBuffer(drawConstantsSize)
			writeDrawConstants(view.Data, d, cfg.Demo.Draws, frameColor(i, cfg.Demo.Frames))
		}
		if err := eng.EndFrame(); err != nil {
			return result{}, err
		}
	}
	res.elapsed = time.Since(start)
	res.stats = eng.Stats()

	if r, ok := target.At(eng.FrameIndex()).(resolver); ok {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		if r.Resolve(img) {
			res.image = img
		}
	} else {
		vcl.Logger().Debug("vcldemo: colour target cannot be read back", "backend", dev.Info().Backend)
	}
	return res, nil
}

// frameColor fades from blue to orange over n frames.
func frameColor(i, n int) color.RGBA {
	t := float64(i) / float64(max(n-1, 1))
	return color.RGBA{
		R: uint8(40 + t*200),
		G: uint8(60 + t*80),
		B: uint8(200 - t*160),
		A: 255,
	}
}

// writeDrawConstants writes a transform that lays the draws out on a
// horizontal strip in clip space, followed by c in linear [0,1] floats.
func writeDrawConstants(dst []byte, index, draws int, c color.RGBA) {
	x := float32(-1 + (2*float64(index)+1)/float64(max(draws, 1)))
	m := [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, 0, 0, 1,
	}
	for i, v := range m {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
	rgba := [4]float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
	for i, v := range rgba {
		binary.LittleEndian.PutUint32(dst[64+i*4:], math.Float32bits(v))
	}
}

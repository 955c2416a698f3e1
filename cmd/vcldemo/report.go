// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/vcl/gpucore"
)

// report prints the run statistics with locale-aware number formatting.
func report(w io.Writer, tag language.Tag, info gpucore.AdapterInfo, res result) {
	p := message.NewPrinter(tag)
	s := res.stats

	fps := 0.0
	if res.elapsed > 0 {
		fps = float64(s.FramesCompleted) / res.elapsed.Seconds()
	}
	p.Fprintf(w, "device:        %s (%s)\n", info.Name, info.Backend)
	p.Fprintf(w, "frames:        %d in %v (%.1f fps)\n", s.FramesCompleted, res.elapsed.Round(time.Microsecond), fps)
	p.Fprintf(w, "fence waits:   %d\n", s.FenceWaits)
	p.Fprintf(w, "constants:     %d bytes last frame, %d bytes peak\n", s.ConstantBytes, s.PeakConstantBytes)
	p.Fprintf(w, "framebuffers:  %d cached, %d hits, %d misses, %d collisions\n",
		s.Framebuffers.Len, s.Framebuffers.Hits, s.Framebuffers.Misses, s.Framebuffers.Collisions)
	p.Fprintf(w, "dynamic tex:   %d\n", s.DynamicTextures)
}

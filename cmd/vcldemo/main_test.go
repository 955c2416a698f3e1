// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vcldemo.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[engine]
frames = 2
fence_timeout = "250ms"

[demo]
backend = "soft"
draws = 4
log_level = "debug"
`)
	cfg := defaultConfig()
	if err := loadConfig(path, &cfg); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Engine.Frames != 2 {
		t.Errorf("Engine.Frames = %d, want 2", cfg.Engine.Frames)
	}
	if cfg.Engine.FenceTimeout.Duration != 250*time.Millisecond {
		t.Errorf("Engine.FenceTimeout = %v, want 250ms", cfg.Engine.FenceTimeout)
	}
	if cfg.Demo.Backend != "soft" || cfg.Demo.Draws != 4 {
		t.Errorf("Demo = %+v", cfg.Demo)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Demo.Width != 640 || cfg.Engine.ConstantBufferSize != 1<<19 {
		t.Errorf("defaults lost: width %d, constant buffer %d", cfg.Demo.Width, cfg.Engine.ConstantBufferSize)
	}
	if level, err := cfg.logLevel(); err != nil || level.String() != "DEBUG" {
		t.Errorf("logLevel() = %v, %v", level, err)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[demo]\nfps = 60\n")
	cfg := defaultConfig()
	if err := loadConfig(path, &cfg); err == nil {
		t.Fatal("loadConfig accepted an unknown key")
	}
}

func TestLoadConfigBadDuration(t *testing.T) {
	path := writeConfig(t, "[engine]\nfence_timeout = \"soon\"\n")
	cfg := defaultConfig()
	if err := loadConfig(path, &cfg); err == nil {
		t.Fatal("loadConfig accepted an invalid duration")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config)
	}{
		{"no frames", func(c *config) { c.Demo.Frames = 0 }},
		{"zero width", func(c *config) { c.Demo.Width = 0 }},
		{"negative draws", func(c *config) { c.Demo.Draws = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.modify(&cfg)
			if err := cfg.validate(); err == nil {
				t.Error("validate() = nil")
			}
		})
	}
	if err := defaultConfig().validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestRunSoft(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.png")
	var stdout, stderr bytes.Buffer
	args := []string{
		"-backend", "soft",
		"-frames", "6",
		"-slots", "2",
		"-width", "32",
		"-height", "16",
		"-draws", "3",
		"-output", out,
	}
	if err := run(args, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v\nstderr:\n%s", err, stderr.String())
	}

	report := stdout.String()
	for _, want := range []string{
		"(soft)",
		"frames:        6 in",
		"fence waits:   4",
		"framebuffers:  2 cached, 4 hits, 2 misses, 0 collisions",
		"dynamic tex:   1",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Fatalf("output size = %v, want 32x16", b)
	}
	want := frameColor(5, 6)
	got := color.RGBAModel.Convert(img.At(16, 8)).(color.RGBA)
	if absDiff(got.R, want.R) > 2 || absDiff(got.G, want.G) > 2 || absDiff(got.B, want.B) > 2 {
		t.Errorf("centre pixel = %v, want about %v", got, want)
	}
}

func TestRunFlagsOverrideConfig(t *testing.T) {
	path := writeConfig(t, "[demo]\nbackend = \"soft\"\nframes = 100\nwidth = 8\nheight = 8\n")
	var stdout, stderr bytes.Buffer
	if err := run([]string{"-config", path, "-frames", "3"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout.String(), "frames:        3 in") {
		t.Errorf("flag did not override config:\n%s", stdout.String())
	}
}

func TestRunUnknownBackend(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"-backend", "metal"}, &stdout, &stderr); err == nil {
		t.Fatal("run succeeded with an unknown backend")
	}
}

func TestWriteDrawConstants(t *testing.T) {
	buf := make([]byte, drawConstantsSize)
	writeDrawConstants(buf, 0, 2, color.RGBA{R: 255, A: 255})

	f := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	if got := f(12); got != -0.5 {
		t.Errorf("translation x = %v, want -0.5", got)
	}
	if f(0) != 1 || f(5) != 1 || f(10) != 1 || f(15) != 1 {
		t.Errorf("diagonal = %v %v %v %v, want 1", f(0), f(5), f(10), f(15))
	}
	if f(16) != 1 || f(17) != 0 || f(19) != 1 {
		t.Errorf("colour = %v %v %v %v", f(16), f(17), f(18), f(19))
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
